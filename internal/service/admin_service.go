package service

import (
	"context"
	"strings"

	"careerflow-api/internal/domain"
)

type Stats struct {
	Accounts     int64 `json:"accounts"`
	Jobs         int64 `json:"jobs"`
	Applications int64 `json:"applications"`
}

// AdminService backs the admin console.
type AdminService struct {
	accounts domain.AccountRepository
	jobs     domain.JobRepository
	apps     domain.ApplicationRepository
}

func NewAdminService(accounts domain.AccountRepository, jobs domain.JobRepository, apps domain.ApplicationRepository) *AdminService {
	return &AdminService{accounts: accounts, jobs: jobs, apps: apps}
}

func (s *AdminService) ListAccounts(ctx context.Context, q string, role domain.Role, offset, limit int) ([]*domain.Account, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if role != "" && !role.Valid() {
		return nil, 0, domain.Validation("unknown role")
	}
	list, total, err := s.accounts.Search(ctx, domain.AccountFilter{
		Keyword: strings.TrimSpace(q),
		Role:    role,
		Offset:  offset,
		Limit:   limit,
	})
	if err != nil {
		return nil, 0, domain.Internal("list accounts", err)
	}
	return list, total, nil
}

func (s *AdminService) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var err error
	if st.Accounts, err = s.accounts.Count(ctx); err != nil {
		return Stats{}, domain.Internal("count accounts", err)
	}
	if st.Jobs, err = s.jobs.Count(ctx); err != nil {
		return Stats{}, domain.Internal("count jobs", err)
	}
	if st.Applications, err = s.apps.Count(ctx); err != nil {
		return Stats{}, domain.Internal("count applications", err)
	}
	return st, nil
}
