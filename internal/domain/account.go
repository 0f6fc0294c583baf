package domain

import (
	"context"
	"encoding/json"
	"time"
)

type Role string

const (
	RoleJobSeeker Role = "job_seeker"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleJobSeeker, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

const DefaultProfileImage = "https://icon-library.com/images/anonymous-avatar-icon/anonymous-avatar-icon-25.jpg"

// SeekerProfile 仅 job_seeker 持有
type SeekerProfile struct {
	Skills     []string `json:"skills"`
	Experience string   `json:"experience"`
	Education  string   `json:"education"`
	ResumeURL  string   `json:"resumeUrl"`
}

// EmployerProfile 仅 employer 持有
type EmployerProfile struct {
	CompanyName        string `json:"companyName"`
	CompanyDescription string `json:"companyDescription"`
	Website            string `json:"website"`
	CompanyLogo        string `json:"companyLogo"`
}

// Account is a registered user. Exactly one of Seeker/Employer is set for
// the matching role; admins carry neither.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	FullName     string
	Phone        string
	Location     string
	ProfileImage string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Seeker   *SeekerProfile
	Employer *EmployerProfile
}

// NewAccount returns an empty account whose role variant matches role.
func NewAccount(role Role) *Account {
	a := &Account{Role: role, ProfileImage: DefaultProfileImage}
	switch role {
	case RoleJobSeeker:
		a.Seeker = &SeekerProfile{Skills: []string{}}
	case RoleEmployer:
		a.Employer = &EmployerProfile{}
	}
	return a
}

func (a *Account) IsAdmin() bool { return a.Role == RoleAdmin }

func (a *Account) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// accountJSON flattens the role variant into the top-level object; nil
// embedded pointers are skipped by encoding/json. PasswordHash is never part of it.
type accountJSON struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	FullName     string    `json:"fullName"`
	Phone        string    `json:"phone"`
	Location     string    `json:"location"`
	ProfileImage string    `json:"profileImage"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	*SeekerProfile
	*EmployerProfile
}

func (a Account) MarshalJSON() ([]byte, error) {
	return json.Marshal(accountJSON{
		ID:              a.ID,
		Username:        a.Username,
		Email:           a.Email,
		Role:            a.Role,
		FullName:        a.FullName,
		Phone:           a.Phone,
		Location:        a.Location,
		ProfileImage:    a.ProfileImage,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
		SeekerProfile:   a.Seeker,
		EmployerProfile: a.Employer,
	})
}

// ApplicantProfile is what an employer sees about someone who applied.
type ApplicantProfile struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	FullName     string   `json:"fullName"`
	ProfileImage string   `json:"profileImage"`
	Location     string   `json:"location"`
	Skills       []string `json:"skills"`
	Experience   string   `json:"experience"`
	Education    string   `json:"education"`
	ResumeURL    string   `json:"resumeUrl"`
}

func (a *Account) ApplicantProfile() ApplicantProfile {
	p := ApplicantProfile{
		ID:           a.ID,
		Username:     a.Username,
		Email:        a.Email,
		FullName:     a.FullName,
		ProfileImage: a.ProfileImage,
		Location:     a.Location,
		Skills:       []string{},
	}
	if a.Seeker != nil {
		p.Skills = a.Seeker.Skills
		p.Experience = a.Seeker.Experience
		p.Education = a.Seeker.Education
		p.ResumeURL = a.Seeker.ResumeURL
	}
	return p
}

// CompanySummary is the owner snippet attached to job reads.
type CompanySummary struct {
	ID                 string `json:"id"`
	CompanyName        string `json:"companyName"`
	CompanyLogo        string `json:"companyLogo"`
	CompanyDescription string `json:"companyDescription"`
	Website            string `json:"website"`
	Location           string `json:"location"`
}

func (a *Account) CompanySummary() CompanySummary {
	s := CompanySummary{ID: a.ID, Location: a.Location}
	if a.Employer != nil {
		s.CompanyName = a.Employer.CompanyName
		s.CompanyLogo = a.Employer.CompanyLogo
		s.CompanyDescription = a.Employer.CompanyDescription
		s.Website = a.Employer.Website
	}
	return s
}

type AccountFilter struct {
	Keyword   string
	ExcludeID string
	Role      Role
	Offset    int
	Limit     int
}

// AccountField names one stored attribute of an account.
type AccountField string

const (
	AccountFieldUsername           AccountField = "Username"
	AccountFieldEmail              AccountField = "Email"
	AccountFieldPasswordHash       AccountField = "PasswordHash"
	AccountFieldFullName           AccountField = "FullName"
	AccountFieldPhone              AccountField = "Phone"
	AccountFieldLocation           AccountField = "Location"
	AccountFieldProfileImage       AccountField = "ProfileImage"
	AccountFieldSkills             AccountField = "Skills"
	AccountFieldExperience         AccountField = "Experience"
	AccountFieldEducation          AccountField = "Education"
	AccountFieldResumeURL          AccountField = "ResumeURL"
	AccountFieldCompanyName        AccountField = "CompanyName"
	AccountFieldCompanyDescription AccountField = "CompanyDescription"
	AccountFieldWebsite            AccountField = "Website"
	AccountFieldCompanyLogo        AccountField = "CompanyLogo"
)

// AccountRepository returns (nil, nil) when a lookup finds nothing.
// Create/Update return ErrDuplicate on a username/email unique violation.
// Update writes only the listed fields of a and returns ErrNotFound when
// no account has a.ID.
type AccountRepository interface {
	Create(ctx context.Context, a *Account) error
	FindByID(ctx context.Context, id string) (*Account, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByUsername(ctx context.Context, username string) (*Account, error)
	Search(ctx context.Context, f AccountFilter) ([]*Account, int64, error)
	Update(ctx context.Context, a *Account, fields ...AccountField) error
	Count(ctx context.Context) (int64, error)
}
