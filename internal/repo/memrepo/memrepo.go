// Package memrepo holds map-backed implementations of the domain stores.
// They honour the same contracts as the gorm stores (nil on not-found,
// ErrDuplicate on unique violations, field-scoped updates, cascade on job delete) and back the
// service and HTTP tests.
package memrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"careerflow-api/internal/domain"
)

var (
	_ domain.AccountRepository     = (*Accounts)(nil)
	_ domain.JobRepository         = (*Jobs)(nil)
	_ domain.ApplicationRepository = (*Applications)(nil)
)

// tick returns a strictly increasing timestamp so creation order is stable.
func tick(last *time.Time) time.Time {
	now := time.Now().UTC()
	if !now.After(*last) {
		now = last.Add(time.Microsecond)
	}
	*last = now
	return now
}

func cloneAccount(a *domain.Account) *domain.Account {
	c := *a
	if a.Seeker != nil {
		s := *a.Seeker
		s.Skills = append([]string{}, a.Seeker.Skills...)
		c.Seeker = &s
	}
	if a.Employer != nil {
		e := *a.Employer
		c.Employer = &e
	}
	return &c
}

type Accounts struct {
	mu   sync.Mutex
	byID map[string]*domain.Account
	last time.Time
}

func NewAccounts() *Accounts { return &Accounts{byID: map[string]*domain.Account{}} }

func (m *Accounts) conflict(a *domain.Account) bool {
	for _, o := range m.byID {
		if o.ID != a.ID && (o.Email == a.Email || o.Username == a.Username) {
			return true
		}
	}
	return false
}

func (m *Accounts) Create(_ context.Context, a *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conflict(a) {
		return domain.ErrDuplicate
	}
	a.CreatedAt = tick(&m.last)
	a.UpdatedAt = a.CreatedAt
	m.byID[a.ID] = cloneAccount(a)
	return nil
}

func (m *Accounts) find(pred func(*domain.Account) bool) *domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if pred(a) {
			return cloneAccount(a)
		}
	}
	return nil
}

func (m *Accounts) FindByID(_ context.Context, id string) (*domain.Account, error) {
	return m.find(func(a *domain.Account) bool { return a.ID == id }), nil
}

func (m *Accounts) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	return m.find(func(a *domain.Account) bool { return a.Email == email }), nil
}

func (m *Accounts) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	return m.find(func(a *domain.Account) bool { return a.Username == username }), nil
}

func (m *Accounts) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]*domain.Account{}
	for _, id := range ids {
		if a, ok := m.byID[id]; ok {
			out[id] = cloneAccount(a)
		}
	}
	return out, nil
}

func (m *Accounts) Search(_ context.Context, f domain.AccountFilter) ([]*domain.Account, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kw := strings.ToLower(f.Keyword)
	out := []*domain.Account{}
	for _, a := range m.byID {
		if f.ExcludeID != "" && a.ID == f.ExcludeID {
			continue
		}
		if f.Role != "" && a.Role != f.Role {
			continue
		}
		if kw != "" && !strings.Contains(strings.ToLower(a.Username), kw) && !strings.Contains(a.Email, kw) {
			continue
		}
		out = append(out, cloneAccount(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))
	if f.Offset < len(out) {
		out = out[f.Offset:]
	} else {
		out = []*domain.Account{}
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (m *Accounts) Update(_ context.Context, a *domain.Account, fields ...domain.AccountField) error {
	if len(fields) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[a.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := cloneAccount(cur)
	src := cloneAccount(a)
	for _, f := range fields {
		copyAccountField(next, src, f)
	}
	if m.conflict(next) {
		return domain.ErrDuplicate
	}
	next.UpdatedAt = time.Now().UTC()
	a.UpdatedAt = next.UpdatedAt
	m.byID[a.ID] = next
	return nil
}

func copyAccountField(dst, src *domain.Account, f domain.AccountField) {
	switch f {
	case domain.AccountFieldUsername:
		dst.Username = src.Username
	case domain.AccountFieldEmail:
		dst.Email = src.Email
	case domain.AccountFieldPasswordHash:
		dst.PasswordHash = src.PasswordHash
	case domain.AccountFieldFullName:
		dst.FullName = src.FullName
	case domain.AccountFieldPhone:
		dst.Phone = src.Phone
	case domain.AccountFieldLocation:
		dst.Location = src.Location
	case domain.AccountFieldProfileImage:
		dst.ProfileImage = src.ProfileImage
	}
	if dst.Seeker != nil && src.Seeker != nil {
		switch f {
		case domain.AccountFieldSkills:
			dst.Seeker.Skills = src.Seeker.Skills
		case domain.AccountFieldExperience:
			dst.Seeker.Experience = src.Seeker.Experience
		case domain.AccountFieldEducation:
			dst.Seeker.Education = src.Seeker.Education
		case domain.AccountFieldResumeURL:
			dst.Seeker.ResumeURL = src.Seeker.ResumeURL
		}
	}
	if dst.Employer != nil && src.Employer != nil {
		switch f {
		case domain.AccountFieldCompanyName:
			dst.Employer.CompanyName = src.Employer.CompanyName
		case domain.AccountFieldCompanyDescription:
			dst.Employer.CompanyDescription = src.Employer.CompanyDescription
		case domain.AccountFieldWebsite:
			dst.Employer.Website = src.Employer.Website
		case domain.AccountFieldCompanyLogo:
			dst.Employer.CompanyLogo = src.Employer.CompanyLogo
		}
	}
}

func (m *Accounts) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.byID)), nil
}

func cloneJob(j *domain.Job) *domain.Job {
	c := *j
	c.SkillsRequired = append([]string{}, j.SkillsRequired...)
	c.Applicants = []string{}
	c.Company = nil
	return &c
}

type Jobs struct {
	mu   sync.Mutex
	byID map[string]*domain.Job
	apps *Applications
	last time.Time
}

func NewJobs(apps *Applications) *Jobs { return &Jobs{byID: map[string]*domain.Job{}, apps: apps} }

func (m *Jobs) Create(_ context.Context, j *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j.CreatedAt = tick(&m.last)
	j.UpdatedAt = j.CreatedAt
	m.byID[j.ID] = cloneJob(j)
	return nil
}

func (m *Jobs) FindByID(_ context.Context, id string) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if j, ok := m.byID[id]; ok {
		return cloneJob(j), nil
	}
	return nil, nil
}

func (m *Jobs) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]*domain.Job{}
	for _, id := range ids {
		if j, ok := m.byID[id]; ok {
			out[id] = cloneJob(j)
		}
	}
	return out, nil
}

func (m *Jobs) List(_ context.Context, f domain.JobFilter) ([]*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Job{}
	for _, j := range m.byID {
		if matchJob(j, f) {
			out = append(out, cloneJob(j))
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].ID > out[b].ID
		}
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// matchJob mirrors the SQL filter of the gorm store.
func matchJob(j *domain.Job, f domain.JobFilter) bool {
	if f.Search != "" {
		hit := containsFold(j.Title, f.Search) || containsFold(j.Description, f.Search)
		for _, sk := range j.SkillsRequired {
			hit = hit || containsFold(sk, f.Search)
		}
		if !hit {
			return false
		}
	}
	if f.Location != "" && !containsFold(j.Location, f.Location) {
		return false
	}
	if f.JobType != "" && j.JobType != f.JobType {
		return false
	}
	if f.ExperienceLevel != "" && j.ExperienceLevel != f.ExperienceLevel {
		return false
	}
	if f.PostedBy != "" && j.PostedBy != f.PostedBy {
		return false
	}
	if f.SalaryMin != nil || f.SalaryMax != nil {
		if j.SalaryMin == nil || j.SalaryMax == nil {
			return false
		}
		if f.SalaryMin != nil && *j.SalaryMax < *f.SalaryMin {
			return false
		}
		if f.SalaryMax != nil && *j.SalaryMin > *f.SalaryMax {
			return false
		}
	}
	return true
}

func (m *Jobs) Update(_ context.Context, j *domain.Job, fields ...domain.JobField) error {
	if len(fields) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[j.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := cloneJob(cur)
	src := cloneJob(j)
	for _, f := range fields {
		copyJobField(next, src, f)
	}
	next.UpdatedAt = time.Now().UTC()
	j.UpdatedAt = next.UpdatedAt
	m.byID[j.ID] = next
	return nil
}

func copyJobField(dst, src *domain.Job, f domain.JobField) {
	switch f {
	case domain.JobFieldTitle:
		dst.Title = src.Title
	case domain.JobFieldLocation:
		dst.Location = src.Location
	case domain.JobFieldSalaryRange:
		dst.SalaryRange = src.SalaryRange
	case domain.JobFieldSalaryMin:
		dst.SalaryMin = src.SalaryMin
	case domain.JobFieldSalaryMax:
		dst.SalaryMax = src.SalaryMax
	case domain.JobFieldJobType:
		dst.JobType = src.JobType
	case domain.JobFieldExperienceLevel:
		dst.ExperienceLevel = src.ExperienceLevel
	case domain.JobFieldDescription:
		dst.Description = src.Description
	case domain.JobFieldRequirements:
		dst.Requirements = src.Requirements
	case domain.JobFieldResponsibilities:
		dst.Responsibilities = src.Responsibilities
	case domain.JobFieldSkillsRequired:
		dst.SkillsRequired = src.SkillsRequired
	case domain.JobFieldStatus:
		dst.Status = src.Status
	case domain.JobFieldExpiresAt:
		dst.ExpiresAt = src.ExpiresAt
	}
}

func (m *Jobs) DeleteCascade(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	if m.apps != nil {
		m.apps.deleteByJob(id)
	}
	return nil
}

func (m *Jobs) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.byID)), nil
}

type Applications struct {
	mu   sync.Mutex
	byID map[string]*domain.Application
	last time.Time
}

func NewApplications() *Applications { return &Applications{byID: map[string]*domain.Application{}} }

func (m *Applications) deleteByJob(jobID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, a := range m.byID {
		if a.JobID == jobID {
			delete(m.byID, id)
		}
	}
}

func (m *Applications) Create(_ context.Context, a *domain.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.byID {
		if o.JobID == a.JobID && o.ApplicantID == a.ApplicantID {
			return domain.ErrDuplicate
		}
	}
	a.CreatedAt = tick(&m.last)
	a.UpdatedAt = a.CreatedAt
	c := *a
	m.byID[a.ID] = &c
	return nil
}

func (m *Applications) FindByID(_ context.Context, id string) (*domain.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.byID[id]; ok {
		c := *a
		return &c, nil
	}
	return nil, nil
}

func (m *Applications) FindByJobAndApplicant(_ context.Context, jobID, applicantID string) (*domain.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.JobID == jobID && a.ApplicantID == applicantID {
			c := *a
			return &c, nil
		}
	}
	return nil, nil
}

func (m *Applications) filter(pred func(*domain.Application) bool, newestFirst bool) []*domain.Application {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Application{}
	for _, a := range m.byID {
		if pred(a) {
			c := *a
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (m *Applications) ListByApplicant(_ context.Context, applicantID string) ([]*domain.Application, error) {
	return m.filter(func(a *domain.Application) bool { return a.ApplicantID == applicantID }, true), nil
}

func (m *Applications) ListByJob(_ context.Context, jobID string) ([]*domain.Application, error) {
	return m.filter(func(a *domain.Application) bool { return a.JobID == jobID }, true), nil
}

func (m *Applications) IDsByJobs(_ context.Context, jobIDs []string) (map[string][]string, error) {
	want := map[string]bool{}
	for _, id := range jobIDs {
		want[id] = true
	}
	out := map[string][]string{}
	for _, a := range m.filter(func(a *domain.Application) bool { return want[a.JobID] }, false) {
		out[a.JobID] = append(out[a.JobID], a.ID)
	}
	return out, nil
}

func (m *Applications) UpdateStatus(_ context.Context, id string, status domain.ApplicationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.byID[id]; ok {
		a.Status = status
	}
	return nil
}

func (m *Applications) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.byID)), nil
}
