package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Checker is a dependency that can report its health.
type Checker interface {
	Name() string
	HealthCheck(ctx context.Context) error
}

// DependencyStatus is the outcome of one health check.
type DependencyStatus struct {
	Name    string
	Healthy bool
	Error   string
	Latency time.Duration
}

// HealthService checks infrastructure (readiness) and providers (admin).
type HealthService struct {
	infra     []Checker
	providers []Checker
	timeout   time.Duration
}

// NewHealthService creates a new HealthService.
func NewHealthService(infra, providers []Checker, timeout time.Duration) *HealthService {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HealthService{infra: infra, providers: providers, timeout: timeout}
}

// Ready checks the infrastructure the service cannot run without.
func (s *HealthService) Ready(ctx context.Context) ([]DependencyStatus, bool) {
	statuses := s.check(ctx, s.infra)
	for _, st := range statuses {
		if !st.Healthy {
			return statuses, false
		}
	}
	return statuses, true
}

// Providers checks every enabled provider. An unhealthy provider degrades
// results but never makes the service unready.
func (s *HealthService) Providers(ctx context.Context) []DependencyStatus {
	return s.check(ctx, s.providers)
}

func (s *HealthService) check(ctx context.Context, checkers []Checker) []DependencyStatus {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	statuses := make([]DependencyStatus, len(checkers))
	var g errgroup.Group
	for i, c := range checkers {
		g.Go(func() error {
			start := time.Now()
			err := c.HealthCheck(ctx)
			statuses[i] = DependencyStatus{
				Name:    c.Name(),
				Healthy: err == nil,
				Latency: time.Since(start),
			}
			if err != nil {
				statuses[i].Error = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()

	return statuses
}
