// Package service is the in-process stand-in for a remote hiring API. Every
// call pays a sampled network latency, and mutating calls carry an
// independent probability of failing before their handler runs, so callers
// must cope with slow responses and transient errors exactly as they would
// against a real backend.
package service

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/talentflow/talentflow/internal/domain"
	"github.com/talentflow/talentflow/internal/dto"
	"github.com/talentflow/talentflow/internal/handler"
	"github.com/talentflow/talentflow/internal/store"
)

// ErrSimulatedNetwork is the transient failure injected into mutating
// requests. It is raised before the handler runs, so store state is never
// corrupted and a retry is always safe.
var ErrSimulatedNetwork = errors.New("simulated network error")

// Defaults matching the reference behavior
const (
	DefaultMinLatency  = 200 * time.Millisecond
	DefaultMaxLatency  = 1200 * time.Millisecond
	DefaultFailureRate = 0.08
)

// Config assembles a Service. Zero latency bounds and a zero failure rate
// are honored as given, which is how tests get instant, reliable calls;
// NewDefault applies the reference defaults instead.
type Config struct {
	Store       *store.Store
	Logger      *slog.Logger
	MinLatency  time.Duration
	MaxLatency  time.Duration
	FailureRate float64

	// Seed fixes the latency/failure RNG; 0 seeds from the clock.
	Seed uint64
}

// Service dispatches logical requests to the per-entity handlers behind the
// simulated link. Safe for concurrent use.
type Service struct {
	jobs        *handler.Jobs
	candidates  *handler.Candidates
	assessments *handler.Assessments
	logger      *slog.Logger

	minLatency  time.Duration
	maxLatency  time.Duration
	failureRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Service with the exact settings in cfg
func New(cfg *Config) *Service {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	deps := &handler.Dependencies{
		Store:  cfg.Store,
		Logger: cfg.Logger,
	}

	return &Service{
		jobs:        handler.NewJobs(deps),
		candidates:  handler.NewCandidates(deps),
		assessments: handler.NewAssessments(deps),
		logger:      cfg.Logger,
		minLatency:  cfg.MinLatency,
		maxLatency:  cfg.MaxLatency,
		failureRate: cfg.FailureRate,
		rng:         rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// NewDefault creates a Service with the reference latency band (200-1200ms)
// and failure rate (8%).
func NewDefault(st *store.Store, logger *slog.Logger) *Service {
	return New(&Config{
		Store:       st,
		Logger:      logger,
		MinLatency:  DefaultMinLatency,
		MaxLatency:  DefaultMaxLatency,
		FailureRate: DefaultFailureRate,
	})
}

// simulate models one traversal of the unreliable link: a uniform latency
// in [min, max], then for mutating requests an independent failure draw.
// The draw happens per call with no state carried between calls.
func (s *Service) simulate(ctx context.Context, op string, mutating bool) error {
	if d := s.sampleLatency(); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	if mutating && s.drawFailure() {
		s.logger.Warn("Injected network failure",
			slog.String("op", op),
		)
		return ErrSimulatedNetwork
	}

	return nil
}

func (s *Service) sampleLatency() time.Duration {
	span := s.maxLatency - s.minLatency
	if span <= 0 {
		return s.minLatency
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.minLatency + time.Duration(s.rng.Int64N(int64(span)))
}

func (s *Service) drawFailure() bool {
	if s.failureRate <= 0 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() < s.failureRate
}

// ListJobs services GET /jobs
func (s *Service) ListJobs(ctx context.Context, params dto.ListJobsParams) (*dto.JobPage, error) {
	if err := s.simulate(ctx, "list_jobs", false); err != nil {
		return nil, err
	}
	return s.jobs.List(ctx, params)
}

// CreateJob services POST /jobs
func (s *Service) CreateJob(ctx context.Context, req dto.CreateJobRequest) (*domain.Job, error) {
	if err := s.simulate(ctx, "create_job", true); err != nil {
		return nil, err
	}
	return s.jobs.Create(ctx, req)
}

// UpdateJob services PATCH /jobs/{id}
func (s *Service) UpdateJob(ctx context.Context, id string, req dto.UpdateJobRequest) (*domain.Job, error) {
	if err := s.simulate(ctx, "update_job", true); err != nil {
		return nil, err
	}
	return s.jobs.Update(ctx, id, req)
}

// ListCandidates services GET /candidates
func (s *Service) ListCandidates(ctx context.Context, params dto.ListCandidatesParams) (*dto.CandidatePage, error) {
	if err := s.simulate(ctx, "list_candidates", false); err != nil {
		return nil, err
	}
	return s.candidates.List(ctx, params)
}

// UpdateCandidate services PATCH /candidates/{id}
func (s *Service) UpdateCandidate(ctx context.Context, id string, req dto.UpdateCandidateRequest) (*domain.Candidate, error) {
	if err := s.simulate(ctx, "update_candidate", true); err != nil {
		return nil, err
	}
	return s.candidates.Update(ctx, id, req)
}

// GetTimeline services GET /candidates/{id}/timeline
func (s *Service) GetTimeline(ctx context.Context, candidateID string) ([]domain.TimelineEntry, error) {
	if err := s.simulate(ctx, "get_timeline", false); err != nil {
		return nil, err
	}
	return s.candidates.Timeline(ctx, candidateID)
}

// GetAssessment services GET /assessments/{jobId}; a nil assessment means
// the job has none yet.
func (s *Service) GetAssessment(ctx context.Context, jobID string) (*domain.Assessment, error) {
	if err := s.simulate(ctx, "get_assessment", false); err != nil {
		return nil, err
	}
	return s.assessments.GetByJob(ctx, jobID)
}

// UpsertAssessment services PUT /assessments/{jobId}
func (s *Service) UpsertAssessment(ctx context.Context, jobID string, req dto.UpsertAssessmentRequest) (*domain.Assessment, error) {
	if err := s.simulate(ctx, "upsert_assessment", true); err != nil {
		return nil, err
	}
	return s.assessments.UpsertByJob(ctx, jobID, req)
}
