// Package seed populates an empty store with representative fixtures:
// jobs, candidates, assessments and candidate timelines. A non-empty job
// table means the store is already seeded and the run is a no-op.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/talentflow/talentflow/internal/domain"
	"github.com/talentflow/talentflow/internal/store"
)

// Defaults matching the reference fixture sizes
const (
	DefaultJobs       = 25
	DefaultCandidates = 1000
)

// Config sizes the generated fixture set. RandomSeed fixes the content for
// reproducible runs; 0 seeds from the clock.
type Config struct {
	Jobs       int
	Candidates int
	RandomSeed uint64
}

// Seeder generates and inserts the bootstrap fixtures
type Seeder struct {
	store  *store.Store
	logger *slog.Logger
	cfg    Config
	rng    *rand.Rand
}

// New creates a Seeder. Zero counts fall back to the defaults.
func New(st *store.Store, logger *slog.Logger, cfg Config) *Seeder {
	if cfg.Jobs < 1 {
		cfg.Jobs = DefaultJobs
	}
	if cfg.Candidates < 1 {
		cfg.Candidates = DefaultCandidates
	}

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return &Seeder{
		store:  st,
		logger: logger,
		cfg:    cfg,
		rng:    rand.New(rand.NewPCG(seed, seed^0xda3e39cb94b95bdb)),
	}
}

// Run seeds the store once. All four bulk inserts commit in a single
// transaction: a failure in any of them leaves the store empty rather than
// partially seeded and wrongly counting as "already seeded" next time.
func (s *Seeder) Run(ctx context.Context) error {
	count, err := s.store.CountJobs(ctx)
	if err != nil {
		return fmt.Errorf("failed to check seed state: %w", err)
	}
	if count > 0 {
		s.logger.Info("Store already seeded, skipping",
			slog.Int("jobs", count),
		)
		return nil
	}

	s.logger.Info("Seeding store",
		slog.Int("jobs", s.cfg.Jobs),
		slog.Int("candidates", s.cfg.Candidates),
	)

	jobs := s.generateJobs(s.cfg.Jobs)
	candidates := s.generateCandidates(jobs, s.cfg.Candidates)
	assessments := s.generateAssessments(jobs)
	timeline := s.generateTimeline(candidates)

	err = s.store.InTx(ctx, func(tx *store.Store) error {
		if err := tx.BulkAddJobs(ctx, jobs); err != nil {
			return err
		}
		if err := tx.BulkAddCandidates(ctx, candidates); err != nil {
			return err
		}
		if err := tx.BulkAddAssessments(ctx, assessments); err != nil {
			return err
		}
		return tx.BulkAddTimeline(ctx, timeline)
	})
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	s.logger.Info("Store seeded",
		slog.Int("jobs", len(jobs)),
		slog.Int("candidates", len(candidates)),
		slog.Int("assessments", len(assessments)),
		slog.Int("timeline_entries", len(timeline)),
	)
	return nil
}

// generateJobs builds count jobs with catalog titles. The generation index
// in the slug keeps slugs unique even when titles repeat, and doubles as
// the manual sort position.
func (s *Seeder) generateJobs(count int) []domain.Job {
	now := time.Now()
	jobs := make([]domain.Job, 0, count)

	for i := 0; i < count; i++ {
		title := jobTitles[s.rng.IntN(len(jobTitles))]

		status := domain.JobStatusArchived
		if s.rng.Float64() > 0.3 {
			status = domain.JobStatusActive
		}

		backdate := time.Duration(s.rng.Int64N(int64(30 * 24 * time.Hour)))

		jobs = append(jobs, domain.Job{
			ID:        uuid.NewString(),
			Title:     title,
			Slug:      fmt.Sprintf("%s-%d", domain.Slugify(title), i),
			Status:    status,
			Tags:      s.pickTags(),
			Order:     i,
			CreatedAt: now.Add(-backdate),
		})
	}

	return jobs
}

// pickTags draws 1-4 distinct tags from the vocabulary
func (s *Seeder) pickTags() domain.StringList {
	n := 1 + s.rng.IntN(4)
	shuffled := make([]string, len(jobTags))
	copy(shuffled, jobTags)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return domain.StringList(shuffled[:n])
}

func (s *Seeder) generateCandidates(jobs []domain.Job, count int) []domain.Candidate {
	now := time.Now()
	candidates := make([]domain.Candidate, 0, count)

	for i := 0; i < count; i++ {
		first := firstNames[s.rng.IntN(len(firstNames))]
		last := lastNames[s.rng.IntN(len(lastNames))]
		backdate := time.Duration(s.rng.Int64N(int64(20 * 24 * time.Hour)))

		candidates = append(candidates, domain.Candidate{
			ID:        uuid.NewString(),
			Name:      first + " " + last,
			Email:     fmt.Sprintf("%s.%s@email.com", strings.ToLower(first), strings.ToLower(last)),
			Stage:     domain.Stages[s.rng.IntN(len(domain.Stages))],
			JobID:     jobs[s.rng.IntN(len(jobs))].ID,
			CreatedAt: now.Add(-backdate),
		})
	}

	return candidates
}

// generateAssessments attaches the canonical fixture to the first
// min(3, len(jobs)) jobs.
func (s *Seeder) generateAssessments(jobs []domain.Job) []domain.Assessment {
	n := min(3, len(jobs))
	assessments := make([]domain.Assessment, 0, n)

	for i := 0; i < n; i++ {
		assessments = append(assessments, domain.Assessment{
			ID:        uuid.NewString(),
			JobID:     jobs[i].ID,
			Title:     jobs[i].Title + " Assessment",
			Sections:  assessmentSections(),
			CreatedAt: time.Now(),
		})
	}

	return assessments
}

// generateTimeline builds 1-3 entries per candidate. The first is always
// the application at the candidate's createdAt; later ones advance a day at
// a time. The last entry's stage equals the candidate's current stage so
// timeline and candidate agree at seed time; intermediate stages are random
// filler, not a legal transition replay.
func (s *Seeder) generateTimeline(candidates []domain.Candidate) []domain.TimelineEntry {
	var entries []domain.TimelineEntry

	for _, c := range candidates {
		entryCount := 1 + s.rng.IntN(3)

		for i := 0; i < entryCount; i++ {
			stage := c.Stage
			if i < entryCount-1 {
				stage = domain.Stages[s.rng.IntN(len(domain.Stages))]
			}

			notes := fmt.Sprintf("Moved to %s stage", c.Stage)
			if i == 0 {
				notes = "Application submitted"
			}

			entries = append(entries, domain.TimelineEntry{
				ID:          uuid.NewString(),
				CandidateID: c.ID,
				Stage:       stage,
				Timestamp:   c.CreatedAt.Add(time.Duration(i) * 24 * time.Hour),
				Notes:       notes,
			})
		}
	}

	return entries
}
