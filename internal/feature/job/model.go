package job

import (
	"time"

	"gorm.io/datatypes"

	"careerflow-api/internal/domain"
)

type JobModel struct {
	ID               string `gorm:"primaryKey;type:varchar(32)"`
	Title            string `gorm:"size:191;not null"`
	PostedBy         string `gorm:"type:varchar(32);not null;index"`
	Location         string `gorm:"size:191;not null"`
	SalaryRange      string `gorm:"size:64"`
	SalaryMin        *int64
	SalaryMax        *int64
	JobType          string `gorm:"size:32;not null;index"`
	ExperienceLevel  string `gorm:"size:32;not null;index"`
	Description      string `gorm:"type:text;not null"`
	Requirements     string `gorm:"type:text;not null"`
	Responsibilities string `gorm:"type:text"`
	SkillsRequired   datatypes.JSONSlice[string]
	Status           string `gorm:"size:16;not null;default:Active;index"`
	ExpiresAt        *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (JobModel) TableName() string { return "jobs" }

func FromDomain(j *domain.Job) *JobModel {
	return &JobModel{
		ID:               j.ID,
		Title:            j.Title,
		PostedBy:         j.PostedBy,
		Location:         j.Location,
		SalaryRange:      j.SalaryRange,
		SalaryMin:        j.SalaryMin,
		SalaryMax:        j.SalaryMax,
		JobType:          string(j.JobType),
		ExperienceLevel:  string(j.ExperienceLevel),
		Description:      j.Description,
		Requirements:     j.Requirements,
		Responsibilities: j.Responsibilities,
		SkillsRequired:   datatypes.JSONSlice[string](j.SkillsRequired),
		Status:           string(j.Status),
		ExpiresAt:        j.ExpiresAt,
		CreatedAt:        j.CreatedAt,
		UpdatedAt:        j.UpdatedAt,
	}
}

func (m *JobModel) ToDomain() *domain.Job {
	skills := []string{}
	if m.SkillsRequired != nil {
		skills = []string(m.SkillsRequired)
	}
	return &domain.Job{
		ID:               m.ID,
		Title:            m.Title,
		PostedBy:         m.PostedBy,
		Location:         m.Location,
		SalaryRange:      m.SalaryRange,
		SalaryMin:        m.SalaryMin,
		SalaryMax:        m.SalaryMax,
		JobType:          domain.JobType(m.JobType),
		ExperienceLevel:  domain.ExperienceLevel(m.ExperienceLevel),
		Description:      m.Description,
		Requirements:     m.Requirements,
		Responsibilities: m.Responsibilities,
		SkillsRequired:   skills,
		Status:           domain.JobStatus(m.Status),
		ExpiresAt:        m.ExpiresAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		Applicants:       []string{},
	}
}
