package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"regtrack/internal/domain"
	"regtrack/internal/port"
)

// topCountries caps the registrations-per-country breakdown.
const topCountries = 10

// DashboardService provides the landing page aggregates.
type DashboardService interface {
	Get(ctx context.Context, tenantID uuid.UUID) (*domain.Dashboard, error)
}

type dashboardService struct {
	repo port.DashboardRepository
}

// NewDashboardService creates a new DashboardService implementation.
func NewDashboardService(repo port.DashboardRepository) DashboardService {
	return &dashboardService{repo: repo}
}

// Get runs the aggregate queries concurrently and fails if any of them fails.
func (s *dashboardService) Get(ctx context.Context, tenantID uuid.UUID) (*domain.Dashboard, error) {
	var d domain.Dashboard
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		d.TotalProducts, err = s.repo.CountProducts(ctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		d.TotalCountries, err = s.repo.CountCountries(ctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		d.RegistrationsByStatus, err = s.repo.RegistrationsByStatus(ctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		d.RenewalsByStatus, err = s.repo.RenewalsByStatus(ctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		d.VariationsByStatus, err = s.repo.VariationsByStatus(ctx, tenantID)
		return err
	})
	g.Go(func() error {
		due, err := s.repo.RenewalsDue(ctx, tenantID, domain.Today())
		if err != nil {
			return err
		}
		d.RenewalsDue = *due
		return nil
	})
	g.Go(func() (err error) {
		d.RegistrationsByCountry, err = s.repo.RegistrationsByCountry(ctx, tenantID, topCountries)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	return &d, nil
}
