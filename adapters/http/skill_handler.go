package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	skillUC "github.com/khoahotran/portfolio/internal/application/usecase/skill"
	"github.com/khoahotran/portfolio/internal/domain/skill"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/logger"
)

type SkillHandler struct {
	skillUseCase *skillUC.SkillUseCase
	logger       logger.Logger
}

func NewSkillHandler(uc *skillUC.SkillUseCase, log logger.Logger) *SkillHandler {
	return &SkillHandler{skillUseCase: uc, logger: log}
}

func (h *SkillHandler) CreateSkill(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	var req SkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	created, err := h.skillUseCase.Create(c.Request.Context(), ownerID, req.ToDraft().CreateInput())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *SkillHandler) PatchSkill(c *gin.Context) {
	var req PatchSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	patch, err := req.ToPatch()
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid skill category", err))
		return
	}
	h.update(c, patch)
}

func (h *SkillHandler) ReplaceSkill(c *gin.Context) {
	var req SkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	patch, err := req.ToDraft().Patch()
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid skill category", err))
		return
	}
	h.update(c, patch)
}

func (h *SkillHandler) update(c *gin.Context, patch skill.Patch) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	id, err := pathID(c, "skill")
	if err != nil {
		c.Error(err)
		return
	}
	updated, err := h.skillUseCase.Update(c.Request.Context(), ownerID, id, patch)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *SkillHandler) DeleteSkill(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	id, err := pathID(c, "skill")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.skillUseCase.Delete(c.Request.Context(), ownerID, id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SkillHandler) GetSkill(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	id, err := pathID(c, "skill")
	if err != nil {
		c.Error(err)
		return
	}
	s, err := h.skillUseCase.Get(c.Request.Context(), ownerID, id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *SkillHandler) ListSkills(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	opts, err := listOptions(c)
	if err != nil {
		c.Error(err)
		return
	}
	skills, err := h.skillUseCase.List(c.Request.Context(), ownerID, opts)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, skills)
}

func (h *SkillHandler) ListPublicSkills(c *gin.Context) {
	opts, err := listOptions(c)
	if err != nil {
		c.Error(err)
		return
	}
	skills, err := h.skillUseCase.ListPublic(c.Request.Context(), opts)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, skills)
}
