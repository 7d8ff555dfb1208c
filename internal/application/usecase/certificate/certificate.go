package certificate

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio/internal/application/mutation"
	"github.com/khoahotran/portfolio/internal/application/querycache"
	"github.com/khoahotran/portfolio/internal/domain/certificate"
	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/internal/domain/listing"
	"github.com/khoahotran/portfolio/pkg/apperror"
)

type CertificateUseCase struct {
	repo        certificate.Repository
	cache       *querycache.Cache
	runner      *mutation.Runner
	siteOwnerID uuid.UUID
}

func NewCertificateUseCase(r certificate.Repository, cache *querycache.Cache, runner *mutation.Runner, siteOwnerID uuid.UUID) *CertificateUseCase {
	return &CertificateUseCase{repo: r, cache: cache, runner: runner, siteOwnerID: siteOwnerID}
}

func (uc *CertificateUseCase) op(action content.Action, ownerID uuid.UUID) mutation.Op {
	return mutation.Op{Entity: content.EntityCertificate, Action: action, OwnerID: ownerID}
}

func (uc *CertificateUseCase) Create(ctx context.Context, ownerID uuid.UUID, in certificate.CreateInput) (*certificate.Certificate, error) {
	var created *certificate.Certificate
	err := uc.runner.Do(ctx, uc.op(content.ActionCreate, ownerID), func(ctx context.Context) (*content.Event, error) {
		c := certificate.New(ownerID, in)
		if err := c.Validate(); err != nil {
			return nil, apperror.NewInvalidInput("certificate validation failed", err)
		}
		now := time.Now().UTC()
		c.CreatedAt, c.UpdatedAt = now, now
		if err := uc.repo.Save(ctx, c); err != nil {
			return nil, err
		}
		created = c
		return &content.Event{
			EventType:   content.EventCreated,
			Entity:      content.EntityCertificate,
			EntityID:    c.ID,
			OwnerID:     ownerID,
			NewImageURL: c.ImageURL,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (uc *CertificateUseCase) Update(ctx context.Context, ownerID, id uuid.UUID, patch certificate.Patch) (*certificate.Certificate, error) {
	var updated *certificate.Certificate
	err := uc.runner.Do(ctx, uc.op(content.ActionUpdate, ownerID), func(ctx context.Context) (*content.Event, error) {
		if patch.IsEmpty() {
			return nil, apperror.NewInvalidInput("no certificate fields to update", nil)
		}
		if err := patch.Validate(); err != nil {
			return nil, apperror.NewInvalidInput("certificate validation failed", err)
		}
		old, err := uc.repo.FindByID(ctx, id, ownerID)
		if err != nil {
			return nil, err
		}
		c, err := uc.repo.Update(ctx, id, ownerID, patch)
		if err != nil {
			return nil, err
		}
		updated = c
		return &content.Event{
			EventType:   content.EventUpdated,
			Entity:      content.EntityCertificate,
			EntityID:    id,
			OwnerID:     ownerID,
			OldImageURL: old.ImageURL,
			NewImageURL: c.ImageURL,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (uc *CertificateUseCase) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return uc.runner.Do(ctx, uc.op(content.ActionDelete, ownerID), func(ctx context.Context) (*content.Event, error) {
		old, err := uc.repo.FindByID(ctx, id, ownerID)
		if err != nil {
			return nil, err
		}
		if err := uc.repo.Delete(ctx, id, ownerID); err != nil {
			return nil, err
		}
		return &content.Event{
			EventType:   content.EventDeleted,
			Entity:      content.EntityCertificate,
			EntityID:    id,
			OwnerID:     ownerID,
			OldImageURL: old.ImageURL,
		}, nil
	})
}

func (uc *CertificateUseCase) Get(ctx context.Context, ownerID, id uuid.UUID) (*certificate.Certificate, error) {
	key := querycache.OwnerKey(querycache.AdminCertificates, ownerID, "id", id.String())
	c, err := querycache.Fetch(ctx, uc.cache, key, func(ctx context.Context) (*certificate.Certificate, error) {
		return uc.repo.FindByID(ctx, id, ownerID)
	})
	if err != nil {
		return nil, apperror.WrapRemoteRead("get certificate", err)
	}
	return c, nil
}

func (uc *CertificateUseCase) List(ctx context.Context, ownerID uuid.UUID, opts listing.Options) ([]*certificate.Certificate, error) {
	return uc.list(ctx, querycache.AdminCertificates, ownerID, opts)
}

func (uc *CertificateUseCase) ListPublic(ctx context.Context, opts listing.Options) ([]*certificate.Certificate, error) {
	return uc.list(ctx, querycache.Certificates, uc.siteOwnerID, opts)
}

func (uc *CertificateUseCase) list(ctx context.Context, family string, ownerID uuid.UUID, opts listing.Options) ([]*certificate.Certificate, error) {
	if ownerID == uuid.Nil {
		return []*certificate.Certificate{}, nil
	}
	order, limit := opts.Resolve(certificate.DefaultOrder, certificate.OrderColumns...), opts.ResolvedLimit()
	key := querycache.OwnerKey(family, ownerID, order.CacheKey(limit)...)
	certs, err := querycache.Fetch(ctx, uc.cache, key, func(ctx context.Context) ([]*certificate.Certificate, error) {
		return uc.repo.ListByOwner(ctx, ownerID, order, limit)
	})
	if err != nil {
		return nil, apperror.WrapRemoteRead("list certificates", err)
	}
	if certs == nil {
		certs = []*certificate.Certificate{}
	}
	return certs, nil
}
