package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"careerflow-api/internal/core/auth"
	"careerflow-api/internal/core/cache"
	"careerflow-api/internal/domain"
	"careerflow-api/internal/repo/memrepo"
	"careerflow-api/internal/storage"
	"careerflow-api/pkg/utils"
)

func testHasher() *utils.PasswordHasher { return &utils.PasswordHasher{Cost: bcrypt.MinCost} }

func testTokens() *auth.JWTer {
	return &auth.JWTer{Secret: []byte("test-secret"), Issuer: "careerflow-test"}
}

// memFiles records saved uploads and returns predictable URLs.
type memFiles struct {
	mu    sync.Mutex
	saved int
}

func (m *memFiles) Save(_ context.Context, folder storage.Folder, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", domain.Validation("no file provided")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved++
	return fmt.Sprintf("http://test/uploads/%s/file-%d", folder, m.saved), nil
}

type memCacheStore struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
}

func newMemCacheStore() *memCacheStore { return &memCacheStore{data: map[string][]byte{}} }

func (m *memCacheStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	b, ok := m.data[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return b, nil
}

func (m *memCacheStore) Set(_ context.Context, key string, val []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = val
	return nil
}

func (m *memCacheStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memCacheStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

type env struct {
	accounts *memrepo.Accounts
	jobs     *memrepo.Jobs
	apps     *memrepo.Applications
	files    *memFiles
	store    *memCacheStore

	gate    *Gate
	account *AccountService
	job     *JobService
	app     *ApplicationService
	admin   *AdminService
}

func newEnv() *env {
	e := &env{accounts: memrepo.NewAccounts(), apps: memrepo.NewApplications(), files: &memFiles{}, store: newMemCacheStore()}
	e.jobs = memrepo.NewJobs(e.apps)
	c := cache.NewWithStore(e.store, "t:")
	tokens := testTokens()
	e.gate = NewGate(tokens, e.accounts)
	e.account = NewAccountService(e.accounts, testHasher(), tokens, e.files, nil, nil, nil)
	e.job = NewJobService(e.jobs, e.apps, e.accounts, c, time.Minute, nil, nil, nil)
	e.app = NewApplicationService(e.apps, e.jobs, e.accounts, c, nil, nil, nil)
	e.admin = NewAdminService(e.accounts, e.jobs, e.apps)
	return e
}

func (e *env) register(t testing.TB, role domain.Role, username string) *domain.Account {
	t.Helper()
	in := RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
		Role:     role,
	}
	if role == domain.RoleEmployer {
		in.CompanyName = username + " Inc"
	}
	a, _, err := e.account.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return a
}

// seekerWithResume registers a job seeker that has already uploaded a resume.
func (e *env) seekerWithResume(t testing.TB, username string) *domain.Account {
	t.Helper()
	a := e.register(t, domain.RoleJobSeeker, username)
	if _, err := e.account.UploadResume(context.Background(), a.ID, strings.NewReader("%PDF-1.4")); err != nil {
		t.Fatalf("upload resume: %v", err)
	}
	fresh, _ := e.accounts.FindByID(context.Background(), a.ID)
	return fresh
}

func (e *env) postJob(t testing.TB, owner *domain.Account, title string) *domain.Job {
	t.Helper()
	j, err := e.job.Create(context.Background(), owner, CreateJobInput{
		Title:           title,
		Location:        "Remote",
		JobType:         domain.JobTypeFullTime,
		ExperienceLevel: domain.LevelMid,
		Description:     "Build things",
		Requirements:    "Go",
		SkillsRequired:  []string{"go", "sql"},
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	return j
}
