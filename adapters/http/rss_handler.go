package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	projectUC "github.com/khoahotran/portfolio/internal/application/usecase/project"
	"github.com/khoahotran/portfolio/internal/application/usecase/seo"
	"github.com/khoahotran/portfolio/pkg/logger"
)

// FeedHandler serves the machine-readable views of the public site.
type FeedHandler struct {
	rssUseCase    *projectUC.RSSUseCase
	personUseCase *seo.PersonUseCase
	logger        logger.Logger
}

func NewFeedHandler(rssUC *projectUC.RSSUseCase, personUC *seo.PersonUseCase, log logger.Logger) *FeedHandler {
	return &FeedHandler{
		rssUseCase:    rssUC,
		personUseCase: personUC,
		logger:        log,
	}
}

func (h *FeedHandler) GenerateRSS(c *gin.Context) {
	doc, err := h.rssUseCase.Execute(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(doc))
}

// PersonJSONLD returns the schema.org Person block for the site owner.
func (h *FeedHandler) PersonJSONLD(c *gin.Context) {
	person, err := h.personUseCase.Execute(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.Header("Content-Type", "application/ld+json; charset=utf-8")
	c.JSON(http.StatusOK, person)
}
