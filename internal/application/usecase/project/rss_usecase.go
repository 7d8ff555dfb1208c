package project

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/feeds"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio/internal/application/querycache"
	"github.com/khoahotran/portfolio/internal/domain/listing"
	"github.com/khoahotran/portfolio/internal/domain/profile"
	"github.com/khoahotran/portfolio/internal/domain/project"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/logger"
)

const feedSize = 20

type RSSUseCase struct {
	projectRepo project.Repository
	profileRepo profile.Repository
	cache       *querycache.Cache
	logger      logger.Logger
	siteOwnerID uuid.UUID
	siteTitle   string
	baseURL     string
}

func NewRSSUseCase(pRepo project.Repository, prRepo profile.Repository, cache *querycache.Cache, log logger.Logger, siteOwnerID uuid.UUID, siteTitle, baseURL string) *RSSUseCase {
	return &RSSUseCase{
		projectRepo: pRepo,
		profileRepo: prRepo,
		cache:       cache,
		logger:      log,
		siteOwnerID: siteOwnerID,
		siteTitle:   siteTitle,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

// Execute renders the site owner's newest projects as an RSS document.
func (uc *RSSUseCase) Execute(ctx context.Context) (string, error) {
	key := querycache.OwnerKey(querycache.Projects, uc.siteOwnerID, "rss")
	doc, err := querycache.Fetch(ctx, uc.cache, key, uc.render)
	if err != nil {
		return "", apperror.WrapRemoteRead("render projects feed", err)
	}
	return doc, nil
}

func (uc *RSSUseCase) render(ctx context.Context) (string, error) {
	order := listing.Options{}.Resolve(project.DefaultOrder)
	projects, err := uc.projectRepo.ListByOwner(ctx, uc.siteOwnerID, order, feedSize)
	if err != nil {
		uc.logger.Error("Failed to list projects for RSS", err)
		return "", err
	}

	author := &feeds.Author{Name: "Site owner"}
	if p, err := uc.profileRepo.GetByUserID(ctx, uc.siteOwnerID); err == nil && p.FullName != "" {
		author.Name = p.FullName
		if p.Email != nil {
			author.Email = *p.Email
		}
	}

	feed := &feeds.Feed{
		Title:       uc.siteTitle + " - Projects",
		Link:        &feeds.Link{Href: uc.baseURL + "/projects"},
		Description: "Latest projects.",
		Author:      author,
		Created:     time.Now(),
	}
	for _, p := range projects {
		link := fmt.Sprintf("%s/projects#%s", uc.baseURL, p.ID)
		if p.DemoURL != nil {
			link = *p.DemoURL
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          p.ID.String(),
			Title:       p.Title,
			Link:        &feeds.Link{Href: link},
			Description: p.Description,
			Created:     p.CreatedAt,
			Updated:     p.UpdatedAt,
		})
	}

	doc, err := feed.ToRss()
	if err != nil {
		return "", fmt.Errorf("encode rss: %w", err)
	}
	uc.logger.Info("RSS feed generated", zap.Int("item_count", len(feed.Items)))
	return doc, nil
}
