// Package dto defines the request and response shapes of the logical API
// surface. The same types serve the in-process service, the HTTP facade and
// the board client.
package dto

import (
	"fmt"

	"github.com/talentflow/talentflow/internal/domain"
)

// Default listing parameters
const (
	DefaultJobPageSize       = 10
	DefaultCandidatePageSize = 50
	DefaultJobSort           = "order"
)

// ListJobsParams selects, orders and pages the job listing. Search is a
// case-insensitive substring match against the title or any tag.
type ListJobsParams struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
	Sort     string `form:"sort"`
}

// Normalize fills zero values with the listing defaults
func (p *ListJobsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultJobPageSize
	}
	if p.Sort == "" {
		p.Sort = DefaultJobSort
	}
}

// JobPage is one page of the job listing. Total counts the post-filter,
// pre-pagination result set.
type JobPage struct {
	Data     []domain.Job `json:"data"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"pageSize"`
}

// CreateJobRequest creates a job. The slug is derived server-side from the
// title and is guaranteed unique across the store.
type CreateJobRequest struct {
	Title  string   `json:"title" binding:"required"`
	Status string   `json:"status"`
	Tags   []string `json:"tags"`
	Order  *int     `json:"order"`
}

// UpdateJobRequest is a partial job update; absent fields stay unchanged
type UpdateJobRequest struct {
	Title  *string   `json:"title"`
	Status *string   `json:"status"`
	Tags   *[]string `json:"tags"`
	Order  *int      `json:"order"`
}

// ListCandidatesParams selects and pages the candidate listing. Search is a
// case-insensitive substring match against the name or email; the order is
// always newest first.
type ListCandidatesParams struct {
	Search   string `form:"search"`
	Stage    string `form:"stage"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// Normalize fills zero values with the listing defaults
func (p *ListCandidatesParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultCandidatePageSize
	}
}

// Key identifies the parameter tuple of a listing request. Cached views and
// in-flight requests are keyed by it so a completion whose tuple no longer
// matches the current query can be discarded.
func (p ListCandidatesParams) Key() string {
	q := p
	q.Normalize()
	return fmt.Sprintf("search=%s&stage=%s&page=%d&pageSize=%d", q.Search, q.Stage, q.Page, q.PageSize)
}

// CandidatePage is one page of the candidate listing
type CandidatePage struct {
	Data     []domain.Candidate `json:"data"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
}

// UpdateCandidateRequest is a partial candidate update. Any present Stage
// field appends a timeline entry, even when the value equals the current
// stage.
type UpdateCandidateRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Stage *string `json:"stage"`
	JobID *string `json:"jobId"`
}

// UpsertAssessmentRequest replaces or creates the single assessment of a
// job. The job binding comes from the request path, never the body.
type UpsertAssessmentRequest struct {
	Title    string           `json:"title" binding:"required"`
	Sections []domain.Section `json:"sections"`
}
