package application

import (
	"time"

	"careerflow-api/internal/domain"
)

// ApplicationModel (job_id, applicant_id) 唯一，兜底并发重复投递
type ApplicationModel struct {
	ID          string `gorm:"primaryKey;type:varchar(32)"`
	JobID       string `gorm:"type:varchar(32);not null;uniqueIndex:idx_app_job_applicant,priority:1"`
	ApplicantID string `gorm:"type:varchar(32);not null;uniqueIndex:idx_app_job_applicant,priority:2;index"`
	ResumeURL   string `gorm:"size:512;not null"`
	CoverLetter string `gorm:"type:text"`
	Status      string `gorm:"size:16;not null;default:Pending"`

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ApplicationModel) TableName() string { return "applications" }

func FromDomain(a *domain.Application) *ApplicationModel {
	return &ApplicationModel{
		ID:          a.ID,
		JobID:       a.JobID,
		ApplicantID: a.ApplicantID,
		ResumeURL:   a.ResumeURL,
		CoverLetter: a.CoverLetter,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (m *ApplicationModel) ToDomain() *domain.Application {
	return &domain.Application{
		ID:          m.ID,
		JobID:       m.JobID,
		ApplicantID: m.ApplicantID,
		ResumeURL:   m.ResumeURL,
		CoverLetter: m.CoverLetter,
		Status:      domain.ApplicationStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
