package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentflow/talentflow/internal/domain"
	"github.com/talentflow/talentflow/internal/dto"
	"github.com/talentflow/talentflow/internal/store"
	"github.com/talentflow/talentflow/shared/db"
)

// newTestService builds a service over a fresh in-memory store with zero
// latency so tests run instantly.
func newTestService(t *testing.T, failureRate float64) (*Service, *store.Store) {
	t.Helper()

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := db.NewClient(&db.Config{
		Driver:       db.DriverSQLite,
		Path:         ":memory:",
		MaxOpenConns: 1,
	}, quiet)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Migrate(context.Background()))

	st := store.New(client)
	svc := New(&Config{
		Store:       st,
		Logger:      quiet,
		FailureRate: failureRate,
		Seed:        99,
	})
	return svc, st
}

func addCandidate(t *testing.T, st *store.Store, id, name, email, stage string, createdAt time.Time) {
	t.Helper()
	require.NoError(t, st.AddCandidate(context.Background(), &domain.Candidate{
		ID:        id,
		Name:      name,
		Email:     email,
		Stage:     stage,
		JobID:     "job-x",
		CreatedAt: createdAt,
	}))
}

func TestService_MutatingCallsFailAtRateOne(t *testing.T) {
	svc, st := newTestService(t, 1.0)
	ctx := context.Background()

	_, err := svc.CreateJob(ctx, dto.CreateJobRequest{Title: "Backend Developer"})
	require.ErrorIs(t, err, ErrSimulatedNetwork)

	// The failure fires before the handler, so nothing reached the store.
	count, err := st.CountJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	addCandidate(t, st, "c1", "Jane Smith", "jane.smith@email.com", domain.StageApplied, time.Now())

	stage := domain.StageTech
	_, err = svc.UpdateCandidate(ctx, "c1", dto.UpdateCandidateRequest{Stage: &stage})
	require.ErrorIs(t, err, ErrSimulatedNetwork)

	got, err := st.GetCandidate(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.StageApplied, got.Stage)

	n, err := st.CountTimeline(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	t.Run("reads never fail", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			_, err := svc.ListJobs(ctx, dto.ListJobsParams{})
			require.NoError(t, err)
			_, err = svc.ListCandidates(ctx, dto.ListCandidatesParams{})
			require.NoError(t, err)
			_, err = svc.GetTimeline(ctx, "c1")
			require.NoError(t, err)
			_, err = svc.GetAssessment(ctx, "job-x")
			require.NoError(t, err)
		}
	})
}

func TestService_LatencyBand(t *testing.T) {
	svc, _ := newTestService(t, 0)
	svc.minLatency = 30 * time.Millisecond
	svc.maxLatency = 60 * time.Millisecond

	start := time.Now()
	_, err := svc.ListJobs(context.Background(), dto.ListJobsParams{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestService_LatencyRespectsContext(t *testing.T) {
	svc, _ := newTestService(t, 0)
	svc.minLatency = 5 * time.Second
	svc.maxLatency = 5 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := svc.ListJobs(ctx, dto.ListJobsParams{})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestService_CreateJob(t *testing.T) {
	svc, _ := newTestService(t, 0)
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		job, err := svc.CreateJob(ctx, dto.CreateJobRequest{Title: "QA Engineer"})
		require.NoError(t, err)

		assert.NotEmpty(t, job.ID)
		assert.Equal(t, "qa-engineer", job.Slug)
		assert.Equal(t, domain.JobStatusActive, job.Status)
		assert.Equal(t, domain.StringList{}, job.Tags)
		assert.Equal(t, 0, job.Order)
		assert.WithinDuration(t, time.Now(), job.CreatedAt, 5*time.Second)
	})

	t.Run("repeated titles keep slugs unique", func(t *testing.T) {
		seen := map[string]bool{"qa-engineer": true}
		for i := 0; i < 5; i++ {
			job, err := svc.CreateJob(ctx, dto.CreateJobRequest{Title: "QA Engineer"})
			require.NoError(t, err)
			assert.False(t, seen[job.Slug], "slug %s repeated", job.Slug)
			seen[job.Slug] = true
		}
	})

	t.Run("explicit fields are honored", func(t *testing.T) {
		order := 7
		job, err := svc.CreateJob(ctx, dto.CreateJobRequest{
			Title:  "Data Scientist",
			Status: domain.JobStatusArchived,
			Tags:   []string{"Remote"},
			Order:  &order,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusArchived, job.Status)
		assert.Equal(t, domain.StringList{"Remote"}, job.Tags)
		assert.Equal(t, 7, job.Order)
	})
}

func TestService_UpdateJob(t *testing.T) {
	svc, _ := newTestService(t, 0)
	ctx := context.Background()

	job, err := svc.CreateJob(ctx, dto.CreateJobRequest{Title: "Technical Writer", Tags: []string{"Contract"}})
	require.NoError(t, err)

	status := domain.JobStatusArchived
	updated, err := svc.UpdateJob(ctx, job.ID, dto.UpdateJobRequest{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, domain.JobStatusArchived, updated.Status)
	assert.Equal(t, "Technical Writer", updated.Title)
	assert.Equal(t, "technical-writer", updated.Slug)
	assert.Equal(t, domain.StringList{"Contract"}, updated.Tags)

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.UpdateJob(ctx, "nope", dto.UpdateJobRequest{Status: &status})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestService_ListJobs(t *testing.T) {
	svc, st := newTestService(t, 0)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		status := domain.JobStatusActive
		if i%3 == 0 {
			status = domain.JobStatusArchived
		}
		tags := domain.StringList{"Full-time"}
		if i%2 == 0 {
			tags = domain.StringList{"Remote", "Senior"}
		}
		require.NoError(t, st.AddJob(ctx, &domain.Job{
			ID:        fmt.Sprintf("job-%02d", i),
			Title:     fmt.Sprintf("Engineer %02d", i),
			Slug:      fmt.Sprintf("engineer-%02d", i),
			Status:    status,
			Tags:      tags,
			Order:     i,
			CreatedAt: time.Now(),
		}))
	}

	t.Run("status filter holds on every page", func(t *testing.T) {
		page, err := svc.ListJobs(ctx, dto.ListJobsParams{Status: domain.JobStatusActive, Page: 1, PageSize: 3})
		require.NoError(t, err)
		assert.Equal(t, 8, page.Total)
		for _, job := range page.Data {
			assert.Equal(t, domain.JobStatusActive, job.Status)
		}
	})

	t.Run("search matches title or tag, case-insensitive", func(t *testing.T) {
		page, err := svc.ListJobs(ctx, dto.ListJobsParams{Search: "engineer 03"})
		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		assert.Equal(t, "job-03", page.Data[0].ID)

		page, err = svc.ListJobs(ctx, dto.ListJobsParams{Search: "remote", PageSize: 20})
		require.NoError(t, err)
		assert.Equal(t, 6, page.Total)
	})

	t.Run("pagination reassembles the full result set", func(t *testing.T) {
		var all []string
		pageSize := 5
		for p := 1; ; p++ {
			page, err := svc.ListJobs(ctx, dto.ListJobsParams{Page: p, PageSize: pageSize})
			require.NoError(t, err)
			assert.Equal(t, 12, page.Total)
			for _, job := range page.Data {
				all = append(all, job.ID)
			}
			if len(page.Data) < pageSize {
				break
			}
		}

		require.Len(t, all, 12)
		seen := make(map[string]bool)
		for i, id := range all {
			assert.False(t, seen[id], "job %s duplicated across pages", id)
			seen[id] = true
			// Default sort is the manual order, which matches insertion here.
			assert.Equal(t, fmt.Sprintf("job-%02d", i), id)
		}
	})

	t.Run("page beyond the end is empty", func(t *testing.T) {
		page, err := svc.ListJobs(ctx, dto.ListJobsParams{Page: 99, PageSize: 10})
		require.NoError(t, err)
		assert.Empty(t, page.Data)
		assert.Equal(t, 12, page.Total)
	})
}

func TestService_ListCandidates(t *testing.T) {
	svc, st := newTestService(t, 0)
	ctx := context.Background()

	base := time.Now()
	addCandidate(t, st, "c1", "Jane Smith", "jane.smith@email.com", domain.StageApplied, base.Add(-3*time.Hour))
	addCandidate(t, st, "c2", "John Brown", "john.brown@email.com", domain.StageTech, base.Add(-2*time.Hour))
	addCandidate(t, st, "c3", "Sarah Brown", "sarah.brown@email.com", domain.StageApplied, base.Add(-1*time.Hour))

	t.Run("default sort is newest first", func(t *testing.T) {
		page, err := svc.ListCandidates(ctx, dto.ListCandidatesParams{})
		require.NoError(t, err)
		require.Len(t, page.Data, 3)
		assert.Equal(t, dto.DefaultCandidatePageSize, page.PageSize)
		assert.Equal(t, []string{"c3", "c2", "c1"}, []string{page.Data[0].ID, page.Data[1].ID, page.Data[2].ID})
	})

	t.Run("search matches name or email", func(t *testing.T) {
		page, err := svc.ListCandidates(ctx, dto.ListCandidatesParams{Search: "BROWN"})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)

		page, err = svc.ListCandidates(ctx, dto.ListCandidatesParams{Search: "jane.smith@"})
		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		assert.Equal(t, "c1", page.Data[0].ID)
	})

	t.Run("stage filter", func(t *testing.T) {
		page, err := svc.ListCandidates(ctx, dto.ListCandidatesParams{Stage: domain.StageApplied})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)
		for _, c := range page.Data {
			assert.Equal(t, domain.StageApplied, c.Stage)
		}
	})
}

func TestService_UpdateCandidateStage(t *testing.T) {
	svc, st := newTestService(t, 0)
	ctx := context.Background()

	addCandidate(t, st, "c1", "Jane Smith", "jane.smith@email.com", domain.StageApplied, time.Now().Add(-time.Hour))

	stage := domain.StageTech
	updated, err := svc.UpdateCandidate(ctx, "c1", dto.UpdateCandidateRequest{Stage: &stage})
	require.NoError(t, err)
	assert.Equal(t, domain.StageTech, updated.Stage)

	entries, err := svc.GetTimeline(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.StageTech, entries[0].Stage)
	assert.Equal(t, "Moved to tech stage", entries[0].Notes)

	t.Run("same-stage update still appends", func(t *testing.T) {
		same := domain.StageTech
		_, err := svc.UpdateCandidate(ctx, "c1", dto.UpdateCandidateRequest{Stage: &same})
		require.NoError(t, err)

		entries, err := svc.GetTimeline(ctx, "c1")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.True(t, !entries[1].Timestamp.Before(entries[0].Timestamp))
	})

	t.Run("update without stage appends nothing", func(t *testing.T) {
		name := "Jane A. Smith"
		updated, err := svc.UpdateCandidate(ctx, "c1", dto.UpdateCandidateRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Jane A. Smith", updated.Name)
		assert.Equal(t, domain.StageTech, updated.Stage)

		n, err := st.CountTimeline(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("invalid stage is rejected", func(t *testing.T) {
		bad := "limbo"
		_, err := svc.UpdateCandidate(ctx, "c1", dto.UpdateCandidateRequest{Stage: &bad})
		require.ErrorIs(t, err, domain.ErrInvalidStage)
	})

	t.Run("unknown candidate", func(t *testing.T) {
		s := domain.StageOffer
		_, err := svc.UpdateCandidate(ctx, "nope", dto.UpdateCandidateRequest{Stage: &s})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestService_Assessments(t *testing.T) {
	svc, st := newTestService(t, 0)
	ctx := context.Background()

	t.Run("missing assessment is an empty result", func(t *testing.T) {
		a, err := svc.GetAssessment(ctx, "job-1")
		require.NoError(t, err)
		assert.Nil(t, a)
	})

	req := dto.UpsertAssessmentRequest{
		Title: "Backend Developer Assessment",
		Sections: []domain.Section{
			{ID: "s1", Title: "Technical Skills", Questions: []domain.Question{
				{ID: "q1", Type: domain.QuestionNumeric, Question: "Rate your skills (1-10)", Required: true},
			}},
		},
	}

	created, err := svc.UpsertAssessment(ctx, "job-1", req)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "job-1", created.JobID)

	t.Run("second upsert preserves the identifier", func(t *testing.T) {
		req.Title = "Backend Developer Assessment v2"
		updated, err := svc.UpsertAssessment(ctx, "job-1", req)
		require.NoError(t, err)

		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "Backend Developer Assessment v2", updated.Title)

		// Never two assessments for one job.
		n, err := st.CountAssessmentsByJob(ctx, "job-1")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("distinct jobs get distinct assessments", func(t *testing.T) {
		other, err := svc.UpsertAssessment(ctx, "job-2", req)
		require.NoError(t, err)
		assert.NotEqual(t, created.ID, other.ID)
	})
}
