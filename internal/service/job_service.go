package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"careerflow-api/internal/core/cache"
	"careerflow-api/internal/core/metrics"
	"careerflow-api/internal/domain"
	"careerflow-api/internal/security"
	"careerflow-api/pkg/utils"
)

const defaultJobTTL = 5 * time.Minute

func jobCacheKey(id string) string { return "job:" + id }

// JobQuery is the raw query string form of a job listing request.
type JobQuery struct {
	Search          string
	Location        string
	JobType         string
	ExperienceLevel string
	SalaryMin       string
	SalaryMax       string
}

type CreateJobInput struct {
	Title            string
	Location         string
	SalaryRange      string
	SalaryMin        *int64
	SalaryMax        *int64
	JobType          domain.JobType
	ExperienceLevel  domain.ExperienceLevel
	Description      string
	Requirements     string
	Responsibilities string
	SkillsRequired   []string
	Status           domain.JobStatus
	ExpiresAt        *time.Time
}

// UpdateJobInput nil 字段保持不变
type UpdateJobInput struct {
	Title            *string
	Location         *string
	SalaryRange      *string
	SalaryMin        *int64
	SalaryMax        *int64
	JobType          *domain.JobType
	ExperienceLevel  *domain.ExperienceLevel
	Description      *string
	Requirements     *string
	Responsibilities *string
	SkillsRequired   *[]string
	Status           *domain.JobStatus
	ExpiresAt        *time.Time
}

type JobService struct {
	jobs     domain.JobRepository
	apps     domain.ApplicationRepository
	accounts domain.AccountRepository
	cache    *cache.Cache
	ttl      time.Duration
	markup   security.Policy
	metrics  metrics.Recorder
	log      *zap.Logger
}

// NewJobService accepts a nil cache; reads then always hit the store.
func NewJobService(
	jobs domain.JobRepository,
	apps domain.ApplicationRepository,
	accounts domain.AccountRepository,
	c *cache.Cache,
	ttl time.Duration,
	markup security.Policy,
	rec metrics.Recorder,
	log *zap.Logger,
) *JobService {
	if ttl <= 0 {
		ttl = defaultJobTTL
	}
	if markup == nil {
		markup = security.Nop{}
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &JobService{
		jobs: jobs, apps: apps, accounts: accounts, cache: c, ttl: ttl,
		markup: markup, metrics: rec, log: log,
	}
}

// ParseJobQuery validates enum and salary values of a listing query.
func ParseJobQuery(q JobQuery) (domain.JobFilter, error) {
	f := domain.JobFilter{
		Search:   strings.TrimSpace(q.Search),
		Location: strings.TrimSpace(q.Location),
	}
	var errs []string
	if v := strings.TrimSpace(q.JobType); v != "" {
		f.JobType = domain.JobType(v)
		if !f.JobType.Valid() {
			errs = append(errs, "jobType must be one of Full-time, Part-time, Contract, Internship")
		}
	}
	if v := strings.TrimSpace(q.ExperienceLevel); v != "" {
		f.ExperienceLevel = domain.ExperienceLevel(v)
		if !f.ExperienceLevel.Valid() {
			errs = append(errs, "experienceLevel must be one of Entry-level, Mid-level, Senior-level, Director, Executive")
		}
	}
	parse := func(name, raw string) *int64 {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			errs = append(errs, name+" must be a non-negative integer")
			return nil
		}
		return &n
	}
	f.SalaryMin = parse("salaryMin", q.SalaryMin)
	f.SalaryMax = parse("salaryMax", q.SalaryMax)
	if f.SalaryMin != nil && f.SalaryMax != nil && *f.SalaryMin > *f.SalaryMax {
		errs = append(errs, "salaryMin must not exceed salaryMax")
	}
	if len(errs) > 0 {
		return domain.JobFilter{}, domain.Validation("invalid job filter", errs...)
	}
	return f, nil
}

// List returns matching jobs, newest first.
func (s *JobService) List(ctx context.Context, q JobQuery) ([]*domain.Job, error) {
	f, err := ParseJobQuery(q)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, f)
}

// ListMine returns the employer's own postings.
func (s *JobService) ListMine(ctx context.Context, actor *domain.Account) ([]*domain.Job, error) {
	if err := RequireRole(actor, domain.RoleEmployer); err != nil {
		return nil, err
	}
	return s.list(ctx, domain.JobFilter{PostedBy: actor.ID})
}

func (s *JobService) list(ctx context.Context, f domain.JobFilter) ([]*domain.Job, error) {
	jobs, err := s.jobs.List(ctx, f)
	if err != nil {
		return nil, domain.Internal("list jobs", err)
	}
	if err := s.decorate(ctx, jobs...); err != nil {
		return nil, err
	}
	return jobs, nil
}

// decorate fills the derived applicants list and the owner's company summary.
func (s *JobService) decorate(ctx context.Context, jobs ...*domain.Job) error {
	if len(jobs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(jobs))
	owners := make([]string, 0, len(jobs))
	seen := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
		if !seen[j.PostedBy] {
			seen[j.PostedBy] = true
			owners = append(owners, j.PostedBy)
		}
	}
	applicants, err := s.apps.IDsByJobs(ctx, ids)
	if err != nil {
		return domain.Internal("load applicants", err)
	}
	companies, err := s.accounts.FindByIDs(ctx, owners)
	if err != nil {
		return domain.Internal("load companies", err)
	}
	for _, j := range jobs {
		j.Applicants = applicants[j.ID]
		if j.Applicants == nil {
			j.Applicants = []string{}
		}
		if owner := companies[j.PostedBy]; owner != nil {
			cs := owner.CompanySummary()
			j.Company = &cs
		}
	}
	return nil
}

func (s *JobService) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	if s.cache == nil {
		return s.load(ctx, id)
	}
	return cache.GetOrLoadJSON[domain.Job](s.cache, ctx, jobCacheKey(id), s.ttl, func(ctx context.Context) (*domain.Job, error) {
		return s.load(ctx, id)
	})
}

func (s *JobService) load(ctx context.Context, id string) (*domain.Job, error) {
	j, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("load job", err)
	}
	if j == nil {
		return nil, domain.NotFound("job not found")
	}
	if err := s.decorate(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

func (s *JobService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, jobCacheKey(id)); err != nil {
		s.log.Warn("job cache invalidate failed", zap.String("job", id), zap.Error(err))
	}
}

func (s *JobService) Create(ctx context.Context, actor *domain.Account, in CreateJobInput) (*domain.Job, error) {
	if err := RequireRole(actor, domain.RoleEmployer, domain.RoleAdmin); err != nil {
		return nil, err
	}

	j := &domain.Job{
		ID:               utils.NewID(),
		Title:            strings.TrimSpace(in.Title),
		PostedBy:         actor.ID,
		Location:         strings.TrimSpace(in.Location),
		SalaryRange:      strings.TrimSpace(in.SalaryRange),
		SalaryMin:        in.SalaryMin,
		SalaryMax:        in.SalaryMax,
		JobType:          in.JobType,
		ExperienceLevel:  in.ExperienceLevel,
		Description:      in.Description,
		Requirements:     in.Requirements,
		Responsibilities: in.Responsibilities,
		SkillsRequired:   cleanList(in.SkillsRequired),
		Status:           in.Status,
		ExpiresAt:        in.ExpiresAt,
		Applicants:       []string{},
	}
	if j.Status == "" {
		j.Status = domain.JobActive
	}
	if errs := s.validate(j); len(errs) > 0 {
		return nil, domain.Validation("validation failed", errs...)
	}

	if err := s.jobs.Create(ctx, j); err != nil {
		return nil, domain.Internal("create job", err)
	}
	if owner, err := s.accounts.FindByID(ctx, actor.ID); err == nil && owner != nil {
		cs := owner.CompanySummary()
		j.Company = &cs
	}
	s.metrics.JobChanged("create")
	s.log.Info("job created", zap.String("id", j.ID), zap.String("postedBy", j.PostedBy))
	return j, nil
}

// validate adds markup violations of the long text fields to validateJob.
func (s *JobService) validate(j *domain.Job) []string {
	errs := validateJob(j)
	for _, f := range []markupField{
		{"description", j.Description},
		{"requirements", j.Requirements},
		{"responsibilities", j.Responsibilities},
	} {
		if !s.markup.Allowed(f.value) {
			errs = append(errs, f.name+" contains markup that is not allowed")
		}
	}
	return errs
}

func validateJob(j *domain.Job) []string {
	var errs []string
	required := []struct{ name, val string }{
		{"title", j.Title},
		{"location", j.Location},
		{"description", j.Description},
		{"requirements", j.Requirements},
	}
	for _, r := range required {
		if r.val == "" {
			errs = append(errs, r.name+" is required")
		}
	}
	switch {
	case j.JobType == "":
		errs = append(errs, "jobType is required")
	case !j.JobType.Valid():
		errs = append(errs, "jobType must be one of Full-time, Part-time, Contract, Internship")
	}
	switch {
	case j.ExperienceLevel == "":
		errs = append(errs, "experienceLevel is required")
	case !j.ExperienceLevel.Valid():
		errs = append(errs, "experienceLevel must be one of Entry-level, Mid-level, Senior-level, Director, Executive")
	}
	if !j.Status.Valid() {
		errs = append(errs, "status must be one of Active, Closed, Draft")
	}
	if (j.SalaryMin != nil && *j.SalaryMin < 0) || (j.SalaryMax != nil && *j.SalaryMax < 0) {
		errs = append(errs, "salary bounds must be non-negative")
	}
	if j.SalaryMin != nil && j.SalaryMax != nil && *j.SalaryMin > *j.SalaryMax {
		errs = append(errs, "salaryMin must not exceed salaryMax")
	}
	return errs
}

func (s *JobService) owned(ctx context.Context, actor *domain.Account, id string) (*domain.Job, error) {
	if actor == nil {
		return nil, domain.Unauthenticated("authentication required")
	}
	j, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("load job", err)
	}
	if j == nil {
		return nil, domain.NotFound("job not found")
	}
	if err := RequireOwnerOrAdmin(actor, j.PostedBy); err != nil {
		return nil, err
	}
	return j, nil
}

func (s *JobService) Update(ctx context.Context, actor *domain.Account, id string, in UpdateJobInput) (*domain.Job, error) {
	j, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	var fields []domain.JobField
	set := func(dst *string, v *string, f domain.JobField) {
		if v != nil {
			setTrimmed(dst, v)
			fields = append(fields, f)
		}
	}
	set(&j.Title, in.Title, domain.JobFieldTitle)
	set(&j.Location, in.Location, domain.JobFieldLocation)
	set(&j.SalaryRange, in.SalaryRange, domain.JobFieldSalaryRange)
	if in.SalaryMin != nil {
		j.SalaryMin = in.SalaryMin
		fields = append(fields, domain.JobFieldSalaryMin)
	}
	if in.SalaryMax != nil {
		j.SalaryMax = in.SalaryMax
		fields = append(fields, domain.JobFieldSalaryMax)
	}
	if in.JobType != nil {
		j.JobType = *in.JobType
		fields = append(fields, domain.JobFieldJobType)
	}
	if in.ExperienceLevel != nil {
		j.ExperienceLevel = *in.ExperienceLevel
		fields = append(fields, domain.JobFieldExperienceLevel)
	}
	if in.Description != nil {
		j.Description = *in.Description
		fields = append(fields, domain.JobFieldDescription)
	}
	if in.Requirements != nil {
		j.Requirements = *in.Requirements
		fields = append(fields, domain.JobFieldRequirements)
	}
	if in.Responsibilities != nil {
		j.Responsibilities = *in.Responsibilities
		fields = append(fields, domain.JobFieldResponsibilities)
	}
	if in.SkillsRequired != nil {
		j.SkillsRequired = cleanList(*in.SkillsRequired)
		fields = append(fields, domain.JobFieldSkillsRequired)
	}
	if in.Status != nil {
		j.Status = *in.Status
		fields = append(fields, domain.JobFieldStatus)
	}
	if in.ExpiresAt != nil {
		j.ExpiresAt = in.ExpiresAt
		fields = append(fields, domain.JobFieldExpiresAt)
	}
	if errs := s.validate(j); len(errs) > 0 {
		return nil, domain.Validation("validation failed", errs...)
	}

	if err := s.jobs.Update(ctx, j, fields...); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("job not found")
		}
		return nil, domain.Internal("update job", err)
	}
	if j, err = s.jobs.FindByID(ctx, j.ID); err != nil {
		return nil, domain.Internal("load job", err)
	}
	if j == nil {
		return nil, domain.NotFound("job not found")
	}
	s.invalidate(ctx, j.ID)
	if err := s.decorate(ctx, j); err != nil {
		return nil, err
	}
	s.metrics.JobChanged("update")
	return j, nil
}

// Delete removes the job together with every application to it.
func (s *JobService) Delete(ctx context.Context, actor *domain.Account, id string) error {
	j, err := s.owned(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.jobs.DeleteCascade(ctx, j.ID); err != nil {
		return domain.Internal("delete job", err)
	}
	s.invalidate(ctx, j.ID)
	s.metrics.JobChanged("delete")
	s.log.Info("job deleted", zap.String("id", j.ID), zap.String("by", actor.ID))
	return nil
}
