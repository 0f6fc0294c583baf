package domain

import (
	"context"
	"time"
)

type ApplicationStatus string

const (
	AppPending      ApplicationStatus = "Pending"
	AppReviewed     ApplicationStatus = "Reviewed"
	AppInterviewing ApplicationStatus = "Interviewing"
	AppRejected     ApplicationStatus = "Rejected"
	AppHired        ApplicationStatus = "Hired"
)

var ApplicationStatuses = []ApplicationStatus{AppPending, AppReviewed, AppInterviewing, AppRejected, AppHired}

func (s ApplicationStatus) Valid() bool {
	for _, v := range ApplicationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Application links a job seeker to a job. ResumeURL is a copy taken at apply time.
type Application struct {
	ID          string            `json:"id"`
	JobID       string            `json:"job"`
	ApplicantID string            `json:"applicant"`
	ResumeURL   string            `json:"resumeUrl"`
	CoverLetter string            `json:"coverLetter"`
	Status      ApplicationStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type JobSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Location    string `json:"location"`
	CompanyName string `json:"companyName"`
	CompanyLogo string `json:"companyLogo"`
}

// SeekerApplication is an application as its applicant sees it.
type SeekerApplication struct {
	*Application
	Job *JobSummary `json:"jobSummary"`
}

// ReceivedApplication is an application as the job owner sees it.
type ReceivedApplication struct {
	*Application
	Applicant *ApplicantProfile `json:"applicantProfile"`
}

// ApplicationRepository returns ErrDuplicate from Create when the
// (job, applicant) pair already exists.
type ApplicationRepository interface {
	Create(ctx context.Context, a *Application) error
	FindByID(ctx context.Context, id string) (*Application, error)
	FindByJobAndApplicant(ctx context.Context, jobID, applicantID string) (*Application, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]*Application, error)
	ListByJob(ctx context.Context, jobID string) ([]*Application, error)
	// IDsByJobs returns application ids grouped by job, oldest first.
	IDsByJobs(ctx context.Context, jobIDs []string) (map[string][]string, error)
	UpdateStatus(ctx context.Context, id string, status ApplicationStatus) error
	Count(ctx context.Context) (int64, error)
}
