package domain

import (
	"context"
	"time"
)

type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeContract   JobType = "Contract"
	JobTypeInternship JobType = "Internship"
)

func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship:
		return true
	}
	return false
}

type ExperienceLevel string

const (
	LevelEntry     ExperienceLevel = "Entry-level"
	LevelMid       ExperienceLevel = "Mid-level"
	LevelSenior    ExperienceLevel = "Senior-level"
	LevelDirector  ExperienceLevel = "Director"
	LevelExecutive ExperienceLevel = "Executive"
)

func (l ExperienceLevel) Valid() bool {
	switch l {
	case LevelEntry, LevelMid, LevelSenior, LevelDirector, LevelExecutive:
		return true
	}
	return false
}

type JobStatus string

const (
	JobActive JobStatus = "Active"
	JobClosed JobStatus = "Closed"
	JobDraft  JobStatus = "Draft"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobActive, JobClosed, JobDraft:
		return true
	}
	return false
}

// Job is a posting. PostedBy doubles as the company reference.
// Applicants is filled on read from the application store.
type Job struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	PostedBy         string          `json:"postedBy"`
	Location         string          `json:"location"`
	SalaryRange      string          `json:"salaryRange"`
	SalaryMin        *int64          `json:"salaryMin,omitempty"`
	SalaryMax        *int64          `json:"salaryMax,omitempty"`
	JobType          JobType         `json:"jobType"`
	ExperienceLevel  ExperienceLevel `json:"experienceLevel"`
	Description      string          `json:"description"`
	Requirements     string          `json:"requirements"`
	Responsibilities string          `json:"responsibilities"`
	SkillsRequired   []string        `json:"skillsRequired"`
	Status           JobStatus       `json:"status"`
	ExpiresAt        *time.Time      `json:"expiresAt,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`

	Company    *CompanySummary `json:"company,omitempty"`
	Applicants []string        `json:"applicants"`
}

// JobFilter 全部可选，类别之间 AND
type JobFilter struct {
	Search          string
	Location        string
	JobType         JobType
	ExperienceLevel ExperienceLevel
	SalaryMin       *int64
	SalaryMax       *int64
	PostedBy        string
}

// JobField names one stored attribute of a job.
type JobField string

const (
	JobFieldTitle            JobField = "Title"
	JobFieldLocation         JobField = "Location"
	JobFieldSalaryRange      JobField = "SalaryRange"
	JobFieldSalaryMin        JobField = "SalaryMin"
	JobFieldSalaryMax        JobField = "SalaryMax"
	JobFieldJobType          JobField = "JobType"
	JobFieldExperienceLevel  JobField = "ExperienceLevel"
	JobFieldDescription      JobField = "Description"
	JobFieldRequirements     JobField = "Requirements"
	JobFieldResponsibilities JobField = "Responsibilities"
	JobFieldSkillsRequired   JobField = "SkillsRequired"
	JobFieldStatus           JobField = "Status"
	JobFieldExpiresAt        JobField = "ExpiresAt"
)

// JobRepository.Update writes only the listed fields of j and returns
// ErrNotFound when no job has j.ID; it never inserts.
type JobRepository interface {
	Create(ctx context.Context, j *Job) error
	FindByID(ctx context.Context, id string) (*Job, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*Job, error)
	List(ctx context.Context, f JobFilter) ([]*Job, error)
	Update(ctx context.Context, j *Job, fields ...JobField) error
	// DeleteCascade removes the job and its applications in one transaction.
	DeleteCascade(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
