package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	experienceUC "github.com/khoahotran/portfolio/internal/application/usecase/experience"
	"github.com/khoahotran/portfolio/internal/domain/experience"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/logger"
)

type ExperienceHandler struct {
	experienceUseCase *experienceUC.ExperienceUseCase
	logger            logger.Logger
}

func NewExperienceHandler(uc *experienceUC.ExperienceUseCase, log logger.Logger) *ExperienceHandler {
	return &ExperienceHandler{experienceUseCase: uc, logger: log}
}

func (h *ExperienceHandler) CreateExperience(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	var req ExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	created, err := h.experienceUseCase.Create(c.Request.Context(), ownerID, req.ToDraft().CreateInput())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ToExperienceDTO(created))
}

// PatchExperience accepts "end_date": null to clear the end date and
// "current": true to mark the role ongoing, which also clears it.
func (h *ExperienceHandler) PatchExperience(c *gin.Context) {
	var req PatchExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	h.update(c, req.ToPatch())
}

func (h *ExperienceHandler) ReplaceExperience(c *gin.Context) {
	var req ExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	h.update(c, req.ToDraft().Patch())
}

func (h *ExperienceHandler) update(c *gin.Context, patch experience.Patch) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	id, err := pathID(c, "experience")
	if err != nil {
		c.Error(err)
		return
	}
	updated, err := h.experienceUseCase.Update(c.Request.Context(), ownerID, id, patch)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToExperienceDTO(updated))
}

func (h *ExperienceHandler) DeleteExperience(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	id, err := pathID(c, "experience")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.experienceUseCase.Delete(c.Request.Context(), ownerID, id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ExperienceHandler) GetExperience(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	id, err := pathID(c, "experience")
	if err != nil {
		c.Error(err)
		return
	}
	e, err := h.experienceUseCase.Get(c.Request.Context(), ownerID, id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToExperienceDTO(e))
}

func (h *ExperienceHandler) ListExperiences(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	opts, err := listOptions(c)
	if err != nil {
		c.Error(err)
		return
	}
	items, err := h.experienceUseCase.List(c.Request.Context(), ownerID, opts)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToExperienceDTOs(items))
}

func (h *ExperienceHandler) ListPublicExperiences(c *gin.Context) {
	opts, err := listOptions(c)
	if err != nil {
		c.Error(err)
		return
	}
	items, err := h.experienceUseCase.ListPublic(c.Request.Context(), opts)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToExperienceDTOs(items))
}
