package repo

import (
	"strings"

	"gorm.io/gorm"

	"careerflow-api/internal/core/database"
	"careerflow-api/internal/domain"
	"careerflow-api/internal/feature/account"
	"careerflow-api/internal/feature/application"
	"careerflow-api/internal/feature/job"
)

// AutoMigrate creates or updates every table the stores use.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&account.AccountModel{}, &job.JobModel{}, &application.ApplicationModel{})
}

// likePattern builds a case-insensitive substring pattern with LIKE
// wildcards in the input escaped.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}

// skillMatchExpr matches a lowered LIKE pattern against each element of a
// JSON string array column, never against the encoded array text.
func skillMatchExpr(dialect, col string) string {
	switch dialect {
	case "mysql":
		// JSON_SEARCH 对每个字符串元素做 LIKE，转义符默认为 '\'
		return "JSON_SEARCH(LOWER(" + col + "), 'one', ?) IS NOT NULL"
	default:
		return "EXISTS (SELECT 1 FROM jsonb_array_elements_text(" + col + ") AS skill(v) WHERE LOWER(skill.v) LIKE ?)"
	}
}

// updateColumns writes only cols (plus UpdatedAt) of values to the row with
// the given id. It never inserts.
func updateColumns(tx *gorm.DB, model any, id string, cols []string, values any) *gorm.DB {
	return tx.Model(model).Where("id = ?", id).Select(append(cols, "UpdatedAt")).Updates(values)
}

func translate(err error) error {
	if database.IsDuplicateKey(err) {
		return domain.ErrDuplicate
	}
	return err
}
