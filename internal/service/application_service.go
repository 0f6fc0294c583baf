package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"careerflow-api/internal/core/cache"
	"careerflow-api/internal/core/metrics"
	"careerflow-api/internal/domain"
	"careerflow-api/internal/security"
	"careerflow-api/pkg/utils"
)

type ApplyInput struct {
	JobID       string
	CoverLetter string
}

type ApplicationService struct {
	apps     domain.ApplicationRepository
	jobs     domain.JobRepository
	accounts domain.AccountRepository
	cache    *cache.Cache
	markup   security.Policy
	metrics  metrics.Recorder
	log      *zap.Logger
}

func NewApplicationService(
	apps domain.ApplicationRepository,
	jobs domain.JobRepository,
	accounts domain.AccountRepository,
	c *cache.Cache,
	markup security.Policy,
	rec metrics.Recorder,
	log *zap.Logger,
) *ApplicationService {
	if markup == nil {
		markup = security.Nop{}
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ApplicationService{
		apps: apps, jobs: jobs, accounts: accounts, cache: c,
		markup: markup, metrics: rec, log: log,
	}
}

// Apply records a Pending application with a snapshot of the seeker's resume.
func (s *ApplicationService) Apply(ctx context.Context, actor *domain.Account, in ApplyInput) (*domain.Application, error) {
	if err := RequireRole(actor, domain.RoleJobSeeker); err != nil {
		return nil, err
	}
	in.JobID = strings.TrimSpace(in.JobID)
	if in.JobID == "" {
		return nil, domain.Validation("jobId is required")
	}
	j, err := s.jobs.FindByID(ctx, in.JobID)
	if err != nil {
		return nil, domain.Internal("load job", err)
	}
	if j == nil {
		return nil, domain.NotFound("job not found")
	}
	if j.Status != domain.JobActive {
		return nil, domain.Validation("job is not accepting applications")
	}
	if actor.Seeker == nil || actor.Seeker.ResumeURL == "" {
		return nil, domain.Validation("upload resume first")
	}
	if err := checkMarkup(s.markup, markupField{"coverLetter", in.CoverLetter}); err != nil {
		return nil, err
	}
	dup, err := s.apps.FindByJobAndApplicant(ctx, j.ID, actor.ID)
	if err != nil {
		return nil, domain.Internal("check existing application", err)
	}
	if dup != nil {
		return nil, domain.Conflict("already applied to this job")
	}

	a := &domain.Application{
		ID:          utils.NewID(),
		JobID:       j.ID,
		ApplicantID: actor.ID,
		ResumeURL:   actor.Seeker.ResumeURL,
		CoverLetter: in.CoverLetter,
		Status:      domain.AppPending,
	}
	if err := s.apps.Create(ctx, a); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Conflict("already applied to this job")
		}
		return nil, domain.Internal("create application", err)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, jobCacheKey(j.ID)); err != nil {
			s.log.Warn("job cache invalidate failed", zap.String("job", j.ID), zap.Error(err))
		}
	}
	s.metrics.ApplicationCreated()
	s.log.Info("application created", zap.String("id", a.ID), zap.String("job", j.ID), zap.String("applicant", actor.ID))
	return a, nil
}

func (s *ApplicationService) MyApplications(ctx context.Context, actor *domain.Account) ([]*domain.SeekerApplication, error) {
	if err := RequireRole(actor, domain.RoleJobSeeker); err != nil {
		return nil, err
	}
	apps, err := s.apps.ListByApplicant(ctx, actor.ID)
	if err != nil {
		return nil, domain.Internal("list applications", err)
	}

	jobIDs := make([]string, 0, len(apps))
	for _, a := range apps {
		jobIDs = append(jobIDs, a.JobID)
	}
	jobs, err := s.jobs.FindByIDs(ctx, jobIDs)
	if err != nil {
		return nil, domain.Internal("load jobs", err)
	}
	ownerIDs := make([]string, 0, len(jobs))
	for _, j := range jobs {
		ownerIDs = append(ownerIDs, j.PostedBy)
	}
	owners, err := s.accounts.FindByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, domain.Internal("load companies", err)
	}

	out := make([]*domain.SeekerApplication, 0, len(apps))
	for _, a := range apps {
		item := &domain.SeekerApplication{Application: a}
		if j := jobs[a.JobID]; j != nil {
			sum := &domain.JobSummary{ID: j.ID, Title: j.Title, Location: j.Location}
			if o := owners[j.PostedBy]; o != nil && o.Employer != nil {
				sum.CompanyName = o.Employer.CompanyName
				sum.CompanyLogo = o.Employer.CompanyLogo
			}
			item.Job = sum
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *ApplicationService) jobFor(ctx context.Context, jobID string) (*domain.Job, error) {
	j, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, domain.Internal("load job", err)
	}
	if j == nil {
		return nil, domain.NotFound("job not found")
	}
	return j, nil
}

// ForJob lists applications to a job with each applicant's public profile.
func (s *ApplicationService) ForJob(ctx context.Context, actor *domain.Account, jobID string) ([]*domain.ReceivedApplication, error) {
	if actor == nil {
		return nil, domain.Unauthenticated("authentication required")
	}
	j, err := s.jobFor(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := RequireOwnerOrAdmin(actor, j.PostedBy); err != nil {
		return nil, err
	}
	apps, err := s.apps.ListByJob(ctx, j.ID)
	if err != nil {
		return nil, domain.Internal("list applications", err)
	}
	ids := make([]string, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.ApplicantID)
	}
	people, err := s.accounts.FindByIDs(ctx, ids)
	if err != nil {
		return nil, domain.Internal("load applicants", err)
	}

	out := make([]*domain.ReceivedApplication, 0, len(apps))
	for _, a := range apps {
		item := &domain.ReceivedApplication{Application: a}
		if p := people[a.ApplicantID]; p != nil {
			prof := p.ApplicantProfile()
			item.Applicant = &prof
		}
		out = append(out, item)
	}
	return out, nil
}

// UpdateStatus lets the job owner or an admin move an application to any status.
func (s *ApplicationService) UpdateStatus(ctx context.Context, actor *domain.Account, appID string, status domain.ApplicationStatus) (*domain.Application, error) {
	if actor == nil {
		return nil, domain.Unauthenticated("authentication required")
	}
	a, err := s.apps.FindByID(ctx, appID)
	if err != nil {
		return nil, domain.Internal("load application", err)
	}
	if a == nil {
		return nil, domain.NotFound("application not found")
	}
	j, err := s.jobFor(ctx, a.JobID)
	if err != nil {
		return nil, err
	}
	if err := RequireOwnerOrAdmin(actor, j.PostedBy); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, domain.Validation("status must be one of Pending, Reviewed, Interviewing, Rejected, Hired")
	}
	if err := s.apps.UpdateStatus(ctx, a.ID, status); err != nil {
		return nil, domain.Internal("update application status", err)
	}
	a.Status = status
	s.metrics.ApplicationStatusChanged(string(status))
	return a, nil
}
