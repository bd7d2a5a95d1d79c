// Package scenario orchestrates harness runs against the remote notes
// service. A Session wires the seed pool, the fixture store and the API
// driver together; Execute runs one Scenario with a reserved seed row,
// correlation-tagged logging and guaranteed cleanup.
package scenario

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/lucaspdo/notes-harness/internal/config"
	"github.com/lucaspdo/notes-harness/internal/fake"
	"github.com/lucaspdo/notes-harness/internal/fixture"
	"github.com/lucaspdo/notes-harness/internal/notesapi"
	"github.com/lucaspdo/notes-harness/internal/obs"
	"github.com/lucaspdo/notes-harness/internal/seed"
)

// Session owns the per-run state shared by every scenario. One Session maps
// to one seeded pool, one fixtures directory and one run id in the logs.
type Session struct {
	RunID    string
	Seeds    *seed.Store
	Fixtures *fixture.Store
	Client   *notesapi.Client

	cfg     *config.Config
	limiter *rate.Limiter
}

// NewSession wires a session from configuration. The caller owns Close.
func NewSession(cfg *config.Config) (*Session, error) {
	seeds, err := seed.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	fixtures, err := fixture.NewStore(cfg.FixturesDir)
	if err != nil {
		seeds.Close()
		return nil, err
	}
	client, err := notesapi.New(notesapi.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.HTTPTimeout,
	})
	if err != nil {
		seeds.Close()
		return nil, err
	}

	limit := rate.Inf
	if cfg.ThrottleInterval > 0 {
		limit = rate.Every(cfg.ThrottleInterval)
	}

	return &Session{
		RunID:    uuid.NewString(),
		Seeds:    seeds,
		Fixtures: fixtures,
		Client:   client,
		cfg:      cfg,
		limiter:  rate.NewLimiter(limit, 1),
	}, nil
}

// Prepare creates the seed table and fills the pool up to the configured
// size. A pool left over from a --keep-pool run is topped up, not doubled.
func (s *Session) Prepare(ctx context.Context, gen fake.Generator) error {
	ctx = obs.WithCorrelation(ctx, obs.Correlation{RunID: s.RunID})
	if err := s.Seeds.Initialize(ctx); err != nil {
		return err
	}
	existing, err := s.Seeds.Count(ctx)
	if err != nil {
		return err
	}
	if existing >= s.cfg.SeedCount {
		return nil
	}
	return s.Seeds.Seed(ctx, s.cfg.SeedCount-existing, gen)
}

// Teardown drops the seed table. It runs once at session end regardless of
// how the scenarios fared.
func (s *Session) Teardown(ctx context.Context) error {
	return s.Seeds.Teardown(obs.WithCorrelation(ctx, obs.Correlation{RunID: s.RunID}))
}

// Close releases the database handle.
func (s *Session) Close() error {
	return s.Seeds.Close()
}

// throttle spaces scenarios out so the shared practice service sees at most
// one scenario per configured interval.
func (s *Session) throttle(ctx context.Context) error {
	return s.limiter.Wait(ctx)
}
