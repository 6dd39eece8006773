package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Job statuses
const (
	JobStatusActive   = "active"
	JobStatusArchived = "archived"
)

// Candidate stages, in pipeline order
const (
	StageApplied  = "applied"
	StageScreen   = "screen"
	StageTech     = "tech"
	StageOffer    = "offer"
	StageHired    = "hired"
	StageRejected = "rejected"
)

// Stages lists every valid candidate stage in pipeline order.
var Stages = []string{StageApplied, StageScreen, StageTech, StageOffer, StageHired, StageRejected}

// ValidStage reports whether s is one of the six pipeline stages.
func ValidStage(s string) bool {
	for _, stage := range Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// Question types
const (
	QuestionSingleChoice = "single-choice"
	QuestionMultiChoice  = "multi-choice"
	QuestionShortText    = "short-text"
	QuestionLongText     = "long-text"
	QuestionNumeric      = "numeric"
	QuestionFileUpload   = "file-upload"
)

// Job is an open position in the pipeline. Slug is derived from the title
// once at creation and never changes afterwards. Order defines the manual
// sort position for the default job listing; values need not be contiguous.
type Job struct {
	ID        string     `db:"id" json:"id"`
	Title     string     `db:"title" json:"title"`
	Slug      string     `db:"slug" json:"slug"`
	Status    string     `db:"status" json:"status"`
	Tags      StringList `db:"tags" json:"tags"`
	Order     int        `db:"sort_order" json:"order"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
}

// Candidate is an applicant attached to a job. The job reference is
// informational only; nothing cascades through it.
type Candidate struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Stage     string    `db:"stage" json:"stage"`
	JobID     string    `db:"job_id" json:"jobId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Assessment is a per-job questionnaire. At most one exists per job; the
// upsert handler enforces that, not the store schema.
type Assessment struct {
	ID        string      `db:"id" json:"id"`
	JobID     string      `db:"job_id" json:"jobId"`
	Title     string      `db:"title" json:"title"`
	Sections  SectionList `db:"sections" json:"sections"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
}

// Section groups questions inside an assessment.
type Section struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Question is a single assessment item. Options only matter for the choice
// types; Validation only for text and numeric types.
type Question struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	Question   string      `json:"question"`
	Required   bool        `json:"required"`
	Options    []string    `json:"options,omitempty"`
	Validation *Validation `json:"validation,omitempty"`
}

// Validation constrains an answer: MaxLength for text questions,
// Min/Max for numeric ones.
type Validation struct {
	MaxLength *int     `json:"maxLength,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
}

// TimelineEntry records a candidate's stage at a point in time.
// Entries are append-only and never mutated or deleted.
type TimelineEntry struct {
	ID          string    `db:"id" json:"id"`
	CandidateID string    `db:"candidate_id" json:"candidateId"`
	Stage       string    `db:"stage" json:"stage"`
	Timestamp   time.Time `db:"timestamp" json:"timestamp"`
	Notes       string    `db:"notes" json:"notes"`
}

// StringList stores an ordered set of strings as a JSON column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal string list: %w", err)
	}
	return string(b), nil
}

func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// SectionList stores assessment sections as a JSON column.
type SectionList []Section

func (l SectionList) Value() (driver.Value, error) {
	if l == nil {
		l = SectionList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sections: %w", err)
	}
	return string(b), nil
}

func (l *SectionList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into SectionList", src)
	}
}
