package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/portfolio/internal/application/usecase/dashboard"
	"github.com/khoahotran/portfolio/pkg/logger"
)

type DashboardHandler struct {
	statsUseCase *dashboard.StatsUseCase
	logger       logger.Logger
}

func NewDashboardHandler(uc *dashboard.StatsUseCase, log logger.Logger) *DashboardHandler {
	return &DashboardHandler{statsUseCase: uc, logger: log}
}

func (h *DashboardHandler) GetStats(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	stats, err := h.statsUseCase.Execute(c.Request.Context(), ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
