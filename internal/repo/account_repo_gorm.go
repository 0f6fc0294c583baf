package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"careerflow-api/internal/domain"
	"careerflow-api/internal/feature/account"
)

type AccountRepo struct{ db *gorm.DB }

func NewAccountRepo(db *gorm.DB) *AccountRepo { return &AccountRepo{db: db} }

var _ domain.AccountRepository = (*AccountRepo)(nil)

func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	m := account.FromDomain(a)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	a.CreatedAt, a.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

func (r *AccountRepo) first(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var m account.AccountModel
	err := r.db.WithContext(ctx).First(&m, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

func (r *AccountRepo) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *AccountRepo) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *AccountRepo) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *AccountRepo) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Account, error) {
	out := make(map[string]*domain.Account, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var ms []account.AccountModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ms).Error; err != nil {
		return nil, err
	}
	for i := range ms {
		out[ms[i].ID] = ms[i].ToDomain()
	}
	return out, nil
}

func (r *AccountRepo) Search(ctx context.Context, f domain.AccountFilter) ([]*domain.Account, int64, error) {
	tx := r.db.WithContext(ctx).Model(&account.AccountModel{})
	if f.Keyword != "" {
		p := likePattern(f.Keyword)
		tx = tx.Where("(LOWER(username) LIKE ? OR LOWER(email) LIKE ?)", p, p)
	}
	if f.ExcludeID != "" {
		tx = tx.Where("id <> ?", f.ExcludeID)
	}
	if f.Role != "" {
		tx = tx.Where("role = ?", string(f.Role))
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if f.Limit > 0 {
		tx = tx.Limit(f.Limit)
	}
	var ms []account.AccountModel
	if err := tx.Offset(f.Offset).Order("created_at desc").Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*domain.Account, 0, len(ms))
	for i := range ms {
		out = append(out, ms[i].ToDomain())
	}
	return out, total, nil
}

func (r *AccountRepo) Update(ctx context.Context, a *domain.Account, fields ...domain.AccountField) error {
	if len(fields) == 0 {
		return nil
	}
	m := account.FromDomain(a)
	m.UpdatedAt = time.Now()
	cols := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		cols = append(cols, string(f))
	}
	res := updateColumns(r.db.WithContext(ctx), &account.AccountModel{}, a.ID, cols, m)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	a.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *AccountRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&account.AccountModel{}).Count(&n).Error
	return n, err
}
