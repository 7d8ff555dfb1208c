package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	certificateUC "github.com/khoahotran/portfolio/internal/application/usecase/certificate"
	"github.com/khoahotran/portfolio/internal/domain/certificate"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/logger"
)

type CertificateHandler struct {
	certificateUseCase *certificateUC.CertificateUseCase
	logger            logger.Logger
}

func NewCertificateHandler(uc *certificateUC.CertificateUseCase, log logger.Logger) *CertificateHandler {
	return &CertificateHandler{certificateUseCase: uc, logger: log}
}

func (h *CertificateHandler) CreateCertificate(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	var req CertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	created, err := h.certificateUseCase.Create(c.Request.Context(), ownerID, req.ToDraft().CreateInput())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ToCertificateDTO(created))
}

func (h *CertificateHandler) PatchCertificate(c *gin.Context) {
	var req PatchCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	h.update(c, req.ToPatch())
}

func (h *CertificateHandler) ReplaceCertificate(c *gin.Context) {
	var req CertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	h.update(c, req.ToDraft().Patch())
}

func (h *CertificateHandler) update(c *gin.Context, patch certificate.Patch) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	id, err := pathID(c, "certificate")
	if err != nil {
		c.Error(err)
		return
	}
	updated, err := h.certificateUseCase.Update(c.Request.Context(), ownerID, id, patch)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToCertificateDTO(updated))
}

func (h *CertificateHandler) DeleteCertificate(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	id, err := pathID(c, "certificate")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.certificateUseCase.Delete(c.Request.Context(), ownerID, id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CertificateHandler) GetCertificate(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	id, err := pathID(c, "certificate")
	if err != nil {
		c.Error(err)
		return
	}
	e, err := h.certificateUseCase.Get(c.Request.Context(), ownerID, id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToCertificateDTO(e))
}

func (h *CertificateHandler) ListCertificates(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	opts, err := listOptions(c)
	if err != nil {
		c.Error(err)
		return
	}
	items, err := h.certificateUseCase.List(c.Request.Context(), ownerID, opts)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToCertificateDTOs(items))
}

func (h *CertificateHandler) ListPublicCertificates(c *gin.Context) {
	opts, err := listOptions(c)
	if err != nil {
		c.Error(err)
		return
	}
	items, err := h.certificateUseCase.ListPublic(c.Request.Context(), opts)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToCertificateDTOs(items))
}
