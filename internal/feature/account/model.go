package account

import (
	"time"

	"gorm.io/datatypes"

	"careerflow-api/internal/domain"
)

// AccountModel 一张表承载所有角色；角色专属列只对对应角色有意义
type AccountModel struct {
	ID           string `gorm:"primaryKey;type:varchar(32)"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:191;not null"`
	PasswordHash string `gorm:"size:100;not null"`
	Role         string `gorm:"size:16;not null;index"`
	FullName     string `gorm:"size:128"`
	Phone        string `gorm:"size:32"`
	Location     string `gorm:"size:191"`
	ProfileImage string `gorm:"size:512"`

	// job_seeker
	Skills     datatypes.JSONSlice[string]
	Experience string `gorm:"type:text"`
	Education  string `gorm:"type:text"`
	ResumeURL  string `gorm:"size:512"`

	// employer
	CompanyName        string `gorm:"size:191"`
	CompanyDescription string `gorm:"type:text"`
	Website            string `gorm:"size:512"`
	CompanyLogo        string `gorm:"size:512"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (AccountModel) TableName() string { return "accounts" }

func FromDomain(a *domain.Account) *AccountModel {
	m := &AccountModel{
		ID:           a.ID,
		Username:     a.Username,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         string(a.Role),
		FullName:     a.FullName,
		Phone:        a.Phone,
		Location:     a.Location,
		ProfileImage: a.ProfileImage,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	if s := a.Seeker; s != nil {
		m.Skills = datatypes.JSONSlice[string](s.Skills)
		m.Experience = s.Experience
		m.Education = s.Education
		m.ResumeURL = s.ResumeURL
	}
	if e := a.Employer; e != nil {
		m.CompanyName = e.CompanyName
		m.CompanyDescription = e.CompanyDescription
		m.Website = e.Website
		m.CompanyLogo = e.CompanyLogo
	}
	return m
}

func (m *AccountModel) ToDomain() *domain.Account {
	a := domain.NewAccount(domain.Role(m.Role))
	a.ID = m.ID
	a.Username = m.Username
	a.Email = m.Email
	a.PasswordHash = m.PasswordHash
	a.FullName = m.FullName
	a.Phone = m.Phone
	a.Location = m.Location
	a.ProfileImage = m.ProfileImage
	a.CreatedAt = m.CreatedAt
	a.UpdatedAt = m.UpdatedAt
	if a.Seeker != nil {
		if m.Skills != nil {
			a.Seeker.Skills = []string(m.Skills)
		}
		a.Seeker.Experience = m.Experience
		a.Seeker.Education = m.Education
		a.Seeker.ResumeURL = m.ResumeURL
	}
	if a.Employer != nil {
		a.Employer.CompanyName = m.CompanyName
		a.Employer.CompanyDescription = m.CompanyDescription
		a.Employer.Website = m.Website
		a.Employer.CompanyLogo = m.CompanyLogo
	}
	return a
}
