package store

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentflow/talentflow/internal/domain"
	"github.com/talentflow/talentflow/shared/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := db.NewClient(&db.Config{
		Driver: db.DriverSQLite,
		Path:   ":memory:",
		// A single connection keeps every query on the same in-memory DB.
		MaxOpenConns: 1,
	}, quiet)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.Migrate(context.Background()))
	return New(client)
}

func testJob(id, slug string, order int) domain.Job {
	return domain.Job{
		ID:        id,
		Title:     "Backend Developer",
		Slug:      slug,
		Status:    domain.JobStatusActive,
		Tags:      domain.StringList{"Remote", "Senior"},
		Order:     order,
		CreatedAt: time.Now().Add(-time.Duration(order) * time.Hour),
	}
}

func TestStore_JobLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	job := testJob("job-1", "backend-developer-0", 0)
	require.NoError(t, s.AddJob(ctx, &job))

	t.Run("get returns the stored record", func(t *testing.T) {
		got, err := s.GetJob(ctx, "job-1")
		require.NoError(t, err)
		assert.Equal(t, job.Title, got.Title)
		assert.Equal(t, job.Slug, got.Slug)
		assert.Equal(t, domain.StringList{"Remote", "Senior"}, got.Tags)
		assert.Equal(t, 0, got.Order)
	})

	t.Run("duplicate id fails", func(t *testing.T) {
		dup := testJob("job-1", "other-slug", 1)
		err := s.AddJob(ctx, &dup)
		require.ErrorIs(t, err, domain.ErrDuplicateKey)
	})

	t.Run("duplicate slug fails", func(t *testing.T) {
		dup := testJob("job-2", "backend-developer-0", 1)
		err := s.AddJob(ctx, &dup)
		require.ErrorIs(t, err, domain.ErrDuplicateKey)
	})

	t.Run("get missing id", func(t *testing.T) {
		_, err := s.GetJob(ctx, "nope")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("slug existence", func(t *testing.T) {
		taken, err := s.JobSlugExists(ctx, "backend-developer-0")
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = s.JobSlugExists(ctx, "something-else")
		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("partial update merges fields", func(t *testing.T) {
		title := "Staff Backend Developer"
		updated, err := s.UpdateJob(ctx, "job-1", JobPatch{Title: &title})
		require.NoError(t, err)

		assert.Equal(t, "Staff Backend Developer", updated.Title)
		// Untouched fields keep their values.
		assert.Equal(t, "backend-developer-0", updated.Slug)
		assert.Equal(t, domain.StringList{"Remote", "Senior"}, updated.Tags)
		assert.Equal(t, domain.JobStatusActive, updated.Status)
	})

	t.Run("empty patch returns current record", func(t *testing.T) {
		got, err := s.UpdateJob(ctx, "job-1", JobPatch{})
		require.NoError(t, err)
		assert.Equal(t, "Staff Backend Developer", got.Title)
	})

	t.Run("update missing id", func(t *testing.T) {
		title := "x"
		_, err := s.UpdateJob(ctx, "nope", JobPatch{Title: &title})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestStore_ListJobs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	jobs := []domain.Job{
		{ID: "a", Title: "Zookeeper", Slug: "zookeeper-0", Status: domain.JobStatusActive, Tags: domain.StringList{}, Order: 2, CreatedAt: time.Now()},
		{ID: "b", Title: "Analyst", Slug: "analyst-1", Status: domain.JobStatusArchived, Tags: domain.StringList{}, Order: 0, CreatedAt: time.Now()},
		{ID: "c", Title: "Manager", Slug: "manager-2", Status: domain.JobStatusActive, Tags: domain.StringList{}, Order: 1, CreatedAt: time.Now()},
	}
	require.NoError(t, s.BulkAddJobs(ctx, jobs))

	t.Run("default sort is manual order", func(t *testing.T) {
		got, err := s.ListJobs(ctx, JobFilter{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []string{"b", "c", "a"}, ids(got))
	})

	t.Run("sort by title", func(t *testing.T) {
		got, err := s.ListJobs(ctx, JobFilter{Sort: "title"})
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "c", "a"}, ids(got))
	})

	t.Run("filter by status", func(t *testing.T) {
		got, err := s.ListJobs(ctx, JobFilter{Status: domain.JobStatusActive})
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, j := range got {
			assert.Equal(t, domain.JobStatusActive, j.Status)
		}
	})

	t.Run("unknown sort falls back to order", func(t *testing.T) {
		got, err := s.ListJobs(ctx, JobFilter{Sort: "order; DROP TABLE jobs"})
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "c", "a"}, ids(got))
	})
}

func ids(jobs []domain.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func TestStore_Candidates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now()
	candidates := []domain.Candidate{
		{ID: "c1", Name: "Jane Smith", Email: "jane.smith@email.com", Stage: domain.StageApplied, JobID: "j1", CreatedAt: base.Add(-2 * time.Hour)},
		{ID: "c2", Name: "John Brown", Email: "john.brown@email.com", Stage: domain.StageTech, JobID: "j1", CreatedAt: base.Add(-1 * time.Hour)},
		{ID: "c3", Name: "Sarah Jones", Email: "sarah.jones@email.com", Stage: domain.StageApplied, JobID: "j2", CreatedAt: base},
	}
	require.NoError(t, s.BulkAddCandidates(ctx, candidates))

	t.Run("list is newest first", func(t *testing.T) {
		got, err := s.ListCandidates(ctx, CandidateFilter{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "c3", got[0].ID)
		assert.Equal(t, "c1", got[2].ID)
	})

	t.Run("filter by stage", func(t *testing.T) {
		got, err := s.ListCandidates(ctx, CandidateFilter{Stage: domain.StageApplied})
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, c := range got {
			assert.Equal(t, domain.StageApplied, c.Stage)
		}
	})

	t.Run("partial update merges fields", func(t *testing.T) {
		stage := domain.StageOffer
		updated, err := s.UpdateCandidate(ctx, "c1", CandidatePatch{Stage: &stage})
		require.NoError(t, err)
		assert.Equal(t, domain.StageOffer, updated.Stage)
		assert.Equal(t, "Jane Smith", updated.Name)
	})

	t.Run("update missing id", func(t *testing.T) {
		stage := domain.StageOffer
		_, err := s.UpdateCandidate(ctx, "nope", CandidatePatch{Stage: &stage})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestStore_Assessments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := domain.Assessment{
		ID:    "a1",
		JobID: "j1",
		Title: "Backend Developer Assessment",
		Sections: domain.SectionList{
			{ID: "s1", Title: "Technical Skills", Questions: []domain.Question{
				{ID: "q1", Type: domain.QuestionShortText, Question: "Years of experience?", Required: true},
			}},
		},
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.AddAssessment(ctx, &a))

	t.Run("lookup by job", func(t *testing.T) {
		got, err := s.GetAssessmentByJob(ctx, "j1")
		require.NoError(t, err)
		assert.Equal(t, "a1", got.ID)
		require.Len(t, got.Sections, 1)
		assert.Equal(t, "Technical Skills", got.Sections[0].Title)
	})

	t.Run("lookup for job without one", func(t *testing.T) {
		_, err := s.GetAssessmentByJob(ctx, "j2")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("update keeps id and job binding", func(t *testing.T) {
		title := "Updated Assessment"
		got, err := s.UpdateAssessment(ctx, "a1", AssessmentPatch{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "a1", got.ID)
		assert.Equal(t, "j1", got.JobID)
		assert.Equal(t, "Updated Assessment", got.Title)
	})

	t.Run("count by job", func(t *testing.T) {
		n, err := s.CountAssessmentsByJob(ctx, "j1")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestStore_Timeline(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now()
	// Inserted out of chronological order on purpose.
	entries := []domain.TimelineEntry{
		{ID: "t2", CandidateID: "c1", Stage: domain.StageScreen, Timestamp: base.Add(24 * time.Hour), Notes: "Moved to screen stage"},
		{ID: "t1", CandidateID: "c1", Stage: domain.StageApplied, Timestamp: base, Notes: "Application submitted"},
		{ID: "t3", CandidateID: "c2", Stage: domain.StageApplied, Timestamp: base, Notes: "Application submitted"},
	}
	require.NoError(t, s.BulkAddTimeline(ctx, entries))

	got, err := s.ListTimeline(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "t1", got[0].ID)
	assert.Equal(t, "t2", got[1].ID)

	n, err := s.CountTimeline(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStore_InTxRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	jobs := []domain.Job{
		testJob("j1", "slug-1", 0),
		testJob("j1", "slug-2", 1), // duplicate id fails the batch
	}

	err := s.InTx(ctx, func(tx *Store) error {
		return tx.BulkAddJobs(ctx, jobs)
	})
	require.ErrorIs(t, err, domain.ErrDuplicateKey)

	// Nothing from the failed batch is visible.
	count, err := s.CountJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
