package seed

import (
	"github.com/google/uuid"
	"github.com/talentflow/talentflow/internal/domain"
)

// Fixed catalogs the generator draws from. Shapes are deterministic;
// content is sampled.

var jobTitles = []string{
	"Frontend Developer", "Backend Developer", "Full Stack Developer", "DevOps Engineer",
	"Product Manager", "UX Designer", "Data Scientist", "Mobile Developer",
	"QA Engineer", "Technical Writer", "Sales Manager", "Marketing Specialist",
	"Customer Success Manager", "Business Analyst", "System Administrator",
	"Security Engineer", "Cloud Architect", "Machine Learning Engineer",
	"Project Manager", "Scrum Master", "UI Designer", "Database Administrator",
	"Site Reliability Engineer", "Solutions Architect", "Technical Lead",
}

var jobTags = []string{
	"Remote", "Full-time", "Part-time", "Contract", "Senior", "Junior",
	"Mid-level", "Urgent", "New",
}

var firstNames = []string{
	"John", "Jane", "Michael", "Sarah", "David", "Emily", "Chris", "Jessica",
	"Daniel", "Ashley",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
	"Davis", "Rodriguez", "Martinez",
}

func intPtr(v int) *int         { return &v }
func floatPtr(v float64) *float64 { return &v }

// assessmentSections builds the canonical two-section fixture covering all
// six question types.
func assessmentSections() domain.SectionList {
	return domain.SectionList{
		{
			ID:    uuid.NewString(),
			Title: "Technical Skills",
			Questions: []domain.Question{
				{
					ID:       uuid.NewString(),
					Type:     domain.QuestionSingleChoice,
					Question: "What is your experience level with React?",
					Required: true,
					Options:  []string{"Beginner", "Intermediate", "Advanced", "Expert"},
				},
				{
					ID:       uuid.NewString(),
					Type:     domain.QuestionMultiChoice,
					Question: "Which technologies have you worked with?",
					Required: true,
					Options:  []string{"JavaScript", "TypeScript", "Node.js", "Python", "Java", "C#"},
				},
				{
					ID:         uuid.NewString(),
					Type:       domain.QuestionShortText,
					Question:   "Years of experience in software development?",
					Required:   true,
					Validation: &domain.Validation{MaxLength: intPtr(50)},
				},
				{
					ID:         uuid.NewString(),
					Type:       domain.QuestionLongText,
					Question:   "Describe your most challenging project.",
					Required:   false,
					Validation: &domain.Validation{MaxLength: intPtr(1000)},
				},
				{
					ID:         uuid.NewString(),
					Type:       domain.QuestionNumeric,
					Question:   "Rate your JavaScript skills (1-10)",
					Required:   true,
					Validation: &domain.Validation{Min: floatPtr(1), Max: floatPtr(10)},
				},
			},
		},
		{
			ID:    uuid.NewString(),
			Title: "General Questions",
			Questions: []domain.Question{
				{
					ID:       uuid.NewString(),
					Type:     domain.QuestionSingleChoice,
					Question: "Are you available for remote work?",
					Required: true,
					Options:  []string{"Yes", "No", "Hybrid preferred"},
				},
				{
					ID:         uuid.NewString(),
					Type:       domain.QuestionShortText,
					Question:   "Expected salary range?",
					Required:   false,
					Validation: &domain.Validation{MaxLength: intPtr(100)},
				},
				{
					ID:       uuid.NewString(),
					Type:     domain.QuestionFileUpload,
					Question: "Upload your portfolio or resume",
					Required: false,
				},
			},
		},
	}
}
