package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"careerflow-api/internal/domain"
	"careerflow-api/internal/feature/application"
)

type ApplicationRepo struct{ db *gorm.DB }

func NewApplicationRepo(db *gorm.DB) *ApplicationRepo { return &ApplicationRepo{db: db} }

var _ domain.ApplicationRepository = (*ApplicationRepo)(nil)

func (r *ApplicationRepo) Create(ctx context.Context, a *domain.Application) error {
	m := application.FromDomain(a)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	a.CreatedAt, a.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

func (r *ApplicationRepo) first(ctx context.Context, query string, args ...any) (*domain.Application, error) {
	var m application.ApplicationModel
	err := r.db.WithContext(ctx).Where(query, args...).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

func (r *ApplicationRepo) FindByID(ctx context.Context, id string) (*domain.Application, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *ApplicationRepo) FindByJobAndApplicant(ctx context.Context, jobID, applicantID string) (*domain.Application, error) {
	return r.first(ctx, "job_id = ? AND applicant_id = ?", jobID, applicantID)
}

func (r *ApplicationRepo) list(ctx context.Context, query string, arg any) ([]*domain.Application, error) {
	var ms []application.ApplicationModel
	if err := r.db.WithContext(ctx).Where(query, arg).Order("created_at desc").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Application, 0, len(ms))
	for i := range ms {
		out = append(out, ms[i].ToDomain())
	}
	return out, nil
}

func (r *ApplicationRepo) ListByApplicant(ctx context.Context, applicantID string) ([]*domain.Application, error) {
	return r.list(ctx, "applicant_id = ?", applicantID)
}

func (r *ApplicationRepo) ListByJob(ctx context.Context, jobID string) ([]*domain.Application, error) {
	return r.list(ctx, "job_id = ?", jobID)
}

func (r *ApplicationRepo) IDsByJobs(ctx context.Context, jobIDs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(jobIDs))
	if len(jobIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		ID    string
		JobID string
	}
	err := r.db.WithContext(ctx).Model(&application.ApplicationModel{}).
		Select("id", "job_id").
		Where("job_id IN ?", jobIDs).
		Order("created_at asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.JobID] = append(out[row.JobID], row.ID)
	}
	return out, nil
}

func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	return r.db.WithContext(ctx).Model(&application.ApplicationModel{}).
		Where("id = ?", id).
		Update("status", string(status)).Error
}

func (r *ApplicationRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&application.ApplicationModel{}).Count(&n).Error
	return n, err
}
