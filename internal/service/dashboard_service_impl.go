package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/masterplan/internal/domain"
	"github.com/alexanderramin/masterplan/internal/repository"
)

type dashboardService struct {
	dashboard repository.DashboardRepo
	observer  UseCaseObserver
}

func NewDashboardService(dashboard repository.DashboardRepo, observers ...UseCaseObserver) DashboardService {
	return &dashboardService{dashboard: dashboard, observer: useCaseObserverOrNoop(observers)}
}

// StatusCounts returns one bucket per catalog status, empty ones included.
func (s *dashboardService) StatusCounts(ctx context.Context) ([]domain.StatusBucket, error) {
	return s.dashboard.StatusBuckets(ctx)
}

// Projects returns each project's date bounds and computed progress.
func (s *dashboardService) Projects(ctx context.Context, statusID *int64) ([]*domain.ProjectProgress, error) {
	if statusID != nil && *statusID <= 0 {
		return nil, domain.InvalidArgument("status_id must be a positive id")
	}
	rows, err := s.dashboard.ProjectProgress(ctx, statusID)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		r.ProgressPct = domain.ComputeProgress(r.Bounds).Percent
	}
	return rows, nil
}

// Overview runs the bucket and progress queries concurrently.
func (s *dashboardService) Overview(ctx context.Context, statusID *int64) (ov *DashboardOverview, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "dashboard-overview", startedAt, &err, fields)

	ov = &DashboardOverview{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		buckets, err := s.StatusCounts(gctx)
		if err != nil {
			return err
		}
		ov.Buckets = buckets
		return nil
	})
	g.Go(func() error {
		projects, err := s.Projects(gctx, statusID)
		if err != nil {
			return err
		}
		ov.Projects = projects
		return nil
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}
	fields["project_count"] = len(ov.Projects)
	return ov, nil
}
