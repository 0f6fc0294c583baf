package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"careerflow-api/internal/domain"
	"careerflow-api/internal/feature/application"
	"careerflow-api/internal/feature/job"
)

type JobRepo struct{ db *gorm.DB }

func NewJobRepo(db *gorm.DB) *JobRepo { return &JobRepo{db: db} }

var _ domain.JobRepository = (*JobRepo)(nil)

func (r *JobRepo) Create(ctx context.Context, j *domain.Job) error {
	m := job.FromDomain(j)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	j.CreatedAt, j.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

func (r *JobRepo) FindByID(ctx context.Context, id string) (*domain.Job, error) {
	var m job.JobModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

func (r *JobRepo) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Job, error) {
	out := make(map[string]*domain.Job, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var ms []job.JobModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ms).Error; err != nil {
		return nil, err
	}
	for i := range ms {
		out[ms[i].ID] = ms[i].ToDomain()
	}
	return out, nil
}

func (r *JobRepo) List(ctx context.Context, f domain.JobFilter) ([]*domain.Job, error) {
	tx := applyJobFilter(r.db.WithContext(ctx).Model(&job.JobModel{}), r.db.Dialector.Name(), f)
	var ms []job.JobModel
	if err := tx.Order("created_at desc").Order("id desc").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Job, 0, len(ms))
	for i := range ms {
		out = append(out, ms[i].ToDomain())
	}
	return out, nil
}

// applyJobFilter AND-s the filter categories; search is an OR over title,
// description and each element of the skills list. A salary filter keeps only jobs whose
// numeric range overlaps the requested one.
func applyJobFilter(tx *gorm.DB, dialect string, f domain.JobFilter) *gorm.DB {
	if f.Search != "" {
		p := likePattern(f.Search)
		tx = tx.Where(
			"(LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR "+skillMatchExpr(dialect, "skills_required")+")",
			p, p, p,
		)
	}
	if f.Location != "" {
		tx = tx.Where("LOWER(location) LIKE ?", likePattern(f.Location))
	}
	if f.JobType != "" {
		tx = tx.Where("job_type = ?", string(f.JobType))
	}
	if f.ExperienceLevel != "" {
		tx = tx.Where("experience_level = ?", string(f.ExperienceLevel))
	}
	if f.PostedBy != "" {
		tx = tx.Where("posted_by = ?", f.PostedBy)
	}
	if f.SalaryMin != nil || f.SalaryMax != nil {
		tx = tx.Where("salary_min IS NOT NULL AND salary_max IS NOT NULL")
		if f.SalaryMin != nil {
			tx = tx.Where("salary_max >= ?", *f.SalaryMin)
		}
		if f.SalaryMax != nil {
			tx = tx.Where("salary_min <= ?", *f.SalaryMax)
		}
	}
	return tx
}

func (r *JobRepo) Update(ctx context.Context, j *domain.Job, fields ...domain.JobField) error {
	if len(fields) == 0 {
		return nil
	}
	m := job.FromDomain(j)
	m.UpdatedAt = time.Now()
	cols := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		cols = append(cols, string(f))
	}
	res := updateColumns(r.db.WithContext(ctx), &job.JobModel{}, j.ID, cols, m)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	j.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *JobRepo) DeleteCascade(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&application.ApplicationModel{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&job.JobModel{}).Error
	})
}

func (r *JobRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&job.JobModel{}).Count(&n).Error
	return n, err
}
