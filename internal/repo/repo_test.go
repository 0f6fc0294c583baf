package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"careerflow-api/internal/domain"
	"careerflow-api/internal/feature/account"
	"careerflow-api/internal/feature/job"
)

func TestLikePattern(t *testing.T) {
	tests := []struct{ in, want string }{
		{"React", "%react%"},
		{"  Go  ", "%go%"},
		{"100%", `%100\%%`},
		{"a_b", `%a\_b%`},
		{`c:\x`, `%c:\\x%`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, likePattern(tt.in), tt.in)
	}
}

func TestSkillMatchExpr(t *testing.T) {
	assert.Equal(t, "JSON_SEARCH(LOWER(skills_required), 'one', ?) IS NOT NULL", skillMatchExpr("mysql", "skills_required"))
	assert.Contains(t, skillMatchExpr("postgres", "skills_required"), "jsonb_array_elements_text(skills_required)")
	assert.NotContains(t, skillMatchExpr("postgres", "skills_required"), "CAST(")
}

func TestTranslate(t *testing.T) {
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey), domain.ErrDuplicate)
	assert.ErrorIs(t, translate(gorm.ErrInvalidData), gorm.ErrInvalidData)
	assert.NoError(t, translate(nil))
}

func dryRun(t *testing.T, d gorm.Dialector) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(d, &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func buildJobQuery(db *gorm.DB, f domain.JobFilter) string {
	var ms []job.JobModel
	stmt := applyJobFilter(db.Model(&job.JobModel{}), db.Dialector.Name(), f).Find(&ms).Statement
	return stmt.SQL.String()
}

func TestApplyJobFilter_Postgres(t *testing.T) {
	db := dryRun(t, postgres.New(postgres.Config{DSN: "host=localhost user=u password=p dbname=d sslmode=disable"}))

	lo, hi := int64(50000), int64(90000)
	sql := buildJobQuery(db, domain.JobFilter{
		Search:          "react",
		Location:        "remote",
		JobType:         domain.JobTypeFullTime,
		ExperienceLevel: domain.LevelMid,
		SalaryMin:       &lo,
		SalaryMax:       &hi,
	})

	assert.Contains(t, sql, "LOWER(title) LIKE")
	assert.Contains(t, sql, "EXISTS (SELECT 1 FROM jsonb_array_elements_text(skills_required)")
	assert.NotContains(t, sql, "CAST(skills_required")
	assert.Contains(t, sql, "LOWER(location) LIKE")
	assert.Contains(t, sql, "job_type =")
	assert.Contains(t, sql, "experience_level =")
	assert.Contains(t, sql, "salary_min IS NOT NULL AND salary_max IS NOT NULL")
	assert.Contains(t, sql, "salary_max >=")
	assert.Contains(t, sql, "salary_min <=")
}

func TestApplyJobFilter_EmptyFilterHasNoWhere(t *testing.T) {
	db := dryRun(t, postgres.New(postgres.Config{DSN: "host=localhost user=u password=p dbname=d sslmode=disable"}))
	sql := buildJobQuery(db, domain.JobFilter{})
	assert.NotContains(t, sql, "WHERE")
}

func TestApplyJobFilter_MySQLSkillsPerElement(t *testing.T) {
	db := dryRun(t, mysql.New(mysql.Config{DSN: "u:p@tcp(127.0.0.1:3306)/d", SkipInitializeWithVersion: true}))
	sql := buildJobQuery(db, domain.JobFilter{Search: "go"})
	assert.Contains(t, sql, "JSON_SEARCH(LOWER(skills_required), 'one', ?) IS NOT NULL")
	assert.NotContains(t, sql, "CAST(skills_required")
}

func TestUpdateColumns_OnlyListedColumns(t *testing.T) {
	db := dryRun(t, postgres.New(postgres.Config{DSN: "host=localhost user=u password=p dbname=d sslmode=disable"}))

	a := domain.NewAccount(domain.RoleJobSeeker)
	a.ID = "acc1"
	a.Username = "stale_name"
	a.Seeker.ResumeURL = "http://x/uploads/resumes/r.pdf"
	stmt := updateColumns(db, &account.AccountModel{}, a.ID, []string{string(domain.AccountFieldResumeURL)}, account.FromDomain(a)).Statement
	sql := stmt.SQL.String()

	assert.Contains(t, sql, `UPDATE "accounts" SET`)
	assert.Contains(t, sql, `"resume_url"=`)
	assert.Contains(t, sql, `"updated_at"=`)
	assert.Contains(t, sql, "WHERE id = ")
	assert.NotContains(t, sql, `"username"`)
	assert.NotContains(t, sql, `"location"`)
	assert.NotContains(t, sql, "INSERT")
	assert.NotContains(t, sql, "ON CONFLICT")
}

func TestUpdateColumns_JobNeverUpserts(t *testing.T) {
	db := dryRun(t, mysql.New(mysql.Config{DSN: "u:p@tcp(127.0.0.1:3306)/d", SkipInitializeWithVersion: true}))

	j := &domain.Job{ID: "job1", Title: "Go Dev", Status: domain.JobClosed}
	cols := []string{string(domain.JobFieldTitle), string(domain.JobFieldStatus)}
	sql := updateColumns(db, &job.JobModel{}, j.ID, cols, job.FromDomain(j)).Statement.SQL.String()

	assert.Contains(t, sql, "UPDATE `jobs` SET")
	assert.Contains(t, sql, "`title`=")
	assert.Contains(t, sql, "`status`=")
	assert.NotContains(t, sql, "`description`")
	assert.NotContains(t, sql, "INSERT")
	assert.NotContains(t, sql, "ON DUPLICATE KEY")
}
