package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/alexanderramin/masterplan/internal/domain"
	"github.com/alexanderramin/masterplan/internal/platform/ctxutil"
	"github.com/alexanderramin/masterplan/internal/repository"
)

// newPage validates limit/offset. A zero limit selects the default.
func newPage(limit, offset int) (repository.Page, error) {
	if limit == 0 {
		limit = repository.DefaultPageLimit
	}
	if limit < 1 || limit > repository.MaxPageLimit {
		return repository.Page{}, domain.InvalidArgument("limit must be between 1 and %d", repository.MaxPageLimit)
	}
	if offset < 0 {
		return repository.Page{}, domain.InvalidArgument("offset must not be negative")
	}
	return repository.Page{Limit: limit, Offset: offset}, nil
}

// resolveProject finds a project by numeric id or by code. Numeric refs fall
// back to a code lookup so purely numeric codes still resolve.
func resolveProject(ctx context.Context, projects repository.ProjectRepo, ref string) (*domain.Project, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, domain.InvalidArgument("project reference is required")
	}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil && id > 0 {
		p, err := projects.GetByID(ctx, id)
		if err == nil || !errors.Is(err, domain.ErrNotFound) {
			return p, err
		}
	}
	return projects.GetByCode(ctx, domain.NormalizeProjectCode(ref))
}

// requireActor returns the caller id recorded on ctx.
func requireActor(ctx context.Context) (string, error) {
	actor := strings.TrimSpace(ctxutil.Actor(ctx))
	if actor == "" {
		return "", domain.InvalidArgument("caller id is required")
	}
	return actor, nil
}

// activeClassificationIn loads a classification and requires it to belong to
// projectID and be active.
func activeClassificationIn(ctx context.Context, classes repository.ClassificationRepo, id, projectID int64) (*domain.Classification, error) {
	c, err := classes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.ProjectID != projectID || !c.IsActive {
		return nil, domain.NotFound("classification %d not found or inactive in project %d", id, projectID)
	}
	return c, nil
}
