package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"careerflow-api/internal/core/auth"
	"careerflow-api/internal/domain"
	"careerflow-api/internal/repo/memrepo"
	"careerflow-api/internal/security"
	"careerflow-api/internal/service"
	"careerflow-api/internal/storage"
	mdw "careerflow-api/internal/transport/http/middleware"
	"careerflow-api/pkg/utils"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<<>>\n%%EOF\n")

var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type testApp struct {
	t        *testing.T
	r        *gin.Engine
	accounts *service.AccountService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	accounts := memrepo.NewAccounts()
	apps := memrepo.NewApplications()
	jobs := memrepo.NewJobs(apps)
	tokens := &auth.JWTer{Secret: []byte("handler-secret"), Issuer: "careerflow-test"}
	markup := security.NewPolicy()
	log := zap.NewNop()

	accSvc := service.NewAccountService(accounts, &utils.PasswordHasher{Cost: bcrypt.MinCost}, tokens,
		storage.NewLocal(t.TempDir(), "http://test", 0), markup, nil, log)
	jobSvc := service.NewJobService(jobs, apps, accounts, nil, 0, markup, nil, log)
	appSvc := service.NewApplicationService(apps, jobs, accounts, nil, markup, nil, log)
	adminSvc := service.NewAdminService(accounts, jobs, apps)

	r := gin.New()
	gate := service.NewGate(tokens, accounts)
	api := r.Group("/api", mdw.Authenticate(gate, false))
	NewAuthHandler(accSvc).MountAPI(api)
	NewUserHandler(accSvc).MountAPI(api)
	NewJobHandler(jobSvc).MountAPI(api)
	NewApplicationHandler(appSvc).MountAPI(api)

	admin := r.Group("/admin/v1", mdw.Authenticate(gate, true), mdw.RequireRoles(domain.RoleAdmin))
	NewAdminHandler(adminSvc).MountAdmin(admin)

	return &testApp{t: t, r: r, accounts: accSvc}
}

func (a *testApp) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

func (a *testApp) upload(path, token, field string, data []byte) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "file.bin")
	require.NoError(a.t, err)
	_, err = fw.Write(data)
	require.NoError(a.t, err)
	require.NoError(a.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

// register returns (token, id).
func (a *testApp) register(username string, role domain.Role) (string, string) {
	a.t.Helper()
	body := map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
		"role":     role,
	}
	if role == domain.RoleEmployer {
		body["companyName"] = username + " Inc"
	}
	w := a.do(http.MethodPost, "/api/auth/register", "", body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	out := decode(a.t, w)
	return out["token"].(string), out["user"].(map[string]any)["id"].(string)
}

func (a *testApp) postJob(token, title string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/jobs", token, map[string]any{
		"title":           title,
		"location":        "Berlin",
		"description":     "Build APIs",
		"requirements":    "Go",
		"jobType":         "Full-time",
		"experienceLevel": "Mid-level",
		"skillsRequired":  []string{"Go", "SQL"},
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode(a.t, w)["id"].(string)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), w.Body.String())
	return m
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var l []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &l), w.Body.String())
	return l
}

func TestAuth_RegisterLoginMe(t *testing.T) {
	app := newTestApp(t)

	tok, id := app.register("alice", domain.RoleJobSeeker)
	assert.NotEmpty(t, tok)

	w := app.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ALICE@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "passwordHash")
	assert.NotContains(t, w.Body.String(), "$2a$")

	w = app.do(http.MethodGet, "/api/auth/me", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, id, user["id"])
	assert.Equal(t, "job_seeker", user["role"])
	assert.Contains(t, user, "skills")
	assert.NotContains(t, user, "companyName")
}

func TestAuth_Errors(t *testing.T) {
	app := newTestApp(t)
	app.register("bob", domain.RoleEmployer)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		code   int
		msg    string
	}{
		{"duplicate email", http.MethodPost, "/api/auth/register", "",
			map[string]any{"username": "bob2", "email": "bob@example.com", "password": "password123", "role": "job_seeker"},
			http.StatusConflict, "email already registered"},
		{"invalid register", http.MethodPost, "/api/auth/register", "",
			map[string]any{"username": "x", "email": "nope", "password": "short", "role": "admin"},
			http.StatusBadRequest, "validation failed"},
		{"wrong password", http.MethodPost, "/api/auth/login", "",
			map[string]string{"email": "bob@example.com", "password": "wrong-password"},
			http.StatusUnauthorized, "invalid email or password"},
		{"unknown email", http.MethodPost, "/api/auth/login", "",
			map[string]string{"email": "ghost@example.com", "password": "password123"},
			http.StatusUnauthorized, "invalid email or password"},
		{"login missing fields", http.MethodPost, "/api/auth/login", "",
			map[string]string{"email": "bob@example.com"},
			http.StatusBadRequest, "validation failed"},
		{"me without token", http.MethodGet, "/api/auth/me", "", nil,
			http.StatusUnauthorized, "authentication required"},
		{"me with bad token", http.MethodGet, "/api/auth/me", "garbage", nil,
			http.StatusUnauthorized, "invalid or expired token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := app.do(tc.method, tc.path, tc.token, tc.body)
			require.Equal(t, tc.code, w.Code, w.Body.String())
			body := decode(t, w)
			assert.Equal(t, float64(tc.code), body["code"])
			assert.Equal(t, tc.msg, body["message"])
		})
	}
}

func TestAuth_RegisterReportsEveryViolation(t *testing.T) {
	app := newTestApp(t)
	w := app.do(http.MethodPost, "/api/auth/register", "", map[string]any{"role": "employer"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := decode(t, w)["errors"].([]any)
	assert.Len(t, errs, 4)
}

func TestUsers_ProfileAndSearch(t *testing.T) {
	app := newTestApp(t)
	tok, _ := app.register("carol", domain.RoleJobSeeker)
	app.register("carlos", domain.RoleEmployer)
	app.register("dave", domain.RoleJobSeeker)

	w := app.do(http.MethodPut, "/api/users/profile", tok, map[string]any{
		"fullName": "Carol C",
		"skills":   []string{"Go", " ", "Rust"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	user := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, "Carol C", user["fullName"])
	assert.Equal(t, []any{"Go", "Rust"}, user["skills"])

	w = app.do(http.MethodPut, "/api/users/profile", tok, map[string]any{"email": "dave@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(http.MethodGet, "/api/users?search=CAR", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeList(t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "carlos", list[0]["username"])

	w = app.do(http.MethodGet, "/api/users?search=car", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUsers_Uploads(t *testing.T) {
	app := newTestApp(t)
	seeker, _ := app.register("erin", domain.RoleJobSeeker)
	employer, _ := app.register("acme", domain.RoleEmployer)

	w := app.upload("/api/users/upload-resume", seeker, "resume", pdfBytes)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode(t, w)
	assert.Equal(t, "Resume uploaded successfully", out["message"])
	assert.Contains(t, out["resumeUrl"], "http://test/uploads/resumes/")
	assert.Contains(t, out["resumeUrl"], ".pdf")

	w = app.upload("/api/users/upload-resume", seeker, "other", pdfBytes)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "no file provided", decode(t, w)["message"])

	w = app.upload("/api/users/upload-resume", seeker, "resume", []byte("plain text is not allowed"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.upload("/api/users/upload-resume", employer, "resume", pdfBytes)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.upload("/api/users/upload-logo", employer, "logo", pdfBytes)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, decode(t, w)["companyLogo"], "http://test/uploads/logos/")

	w = app.do(http.MethodPost, "/api/users/upload-logo", employer, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.upload("/api/users/upload-logo", employer, "logo", []byte(`<svg xmlns="http://www.w3.org/2000/svg" onload="alert(1)"/>`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUsers_UploadAvatar(t *testing.T) {
	app := newTestApp(t)
	seeker, _ := app.register("hank", domain.RoleJobSeeker)
	employer, _ := app.register("umbrella", domain.RoleEmployer)

	for _, token := range []string{seeker, employer} {
		w := app.upload("/api/users/upload-avatar", token, "profileImage", pngBytes)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		out := decode(t, w)
		assert.Equal(t, "Profile image uploaded successfully", out["message"])
		url := out["profileImage"].(string)
		assert.Contains(t, url, "http://test/uploads/profiles/")

		me := decode(t, app.do(http.MethodGet, "/api/auth/me", token, nil))["user"].(map[string]any)
		assert.Equal(t, url, me["profileImage"])
	}

	w := app.upload("/api/users/upload-avatar", seeker, "profileImage", pdfBytes)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "only image files are allowed", decode(t, w)["message"])

	w = app.upload("/api/users/upload-avatar", seeker, "avatar", pngBytes)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "no file provided", decode(t, w)["message"])

	w = app.upload("/api/users/upload-avatar", "", "profileImage", pngBytes)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUsers_ProfileUpdateKeepsResume(t *testing.T) {
	app := newTestApp(t)
	seeker, _ := app.register("ivan", domain.RoleJobSeeker)

	w := app.upload("/api/users/upload-resume", seeker, "resume", pdfBytes)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resume := decode(t, w)["resumeUrl"]

	w = app.do(http.MethodPut, "/api/users/profile", seeker, map[string]any{"location": "Lisbon"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	user := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, "Lisbon", user["location"])
	assert.Equal(t, resume, user["resumeUrl"])
}

func TestJobs_CRUD(t *testing.T) {
	app := newTestApp(t)
	owner, ownerID := app.register("globex", domain.RoleEmployer)
	other, _ := app.register("initech", domain.RoleEmployer)
	seeker, _ := app.register("frank", domain.RoleJobSeeker)

	id := app.postJob(owner, "Go Engineer")

	w := app.do(http.MethodPost, "/api/jobs", seeker, map[string]any{"title": "nope"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(http.MethodPost, "/api/jobs", owner, map[string]any{"title": "Incomplete"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(http.MethodGet, "/api/jobs", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeList(t, w)
	require.Len(t, list, 1)
	assert.Equal(t, []any{}, list[0]["applicants"])
	assert.Equal(t, "globex Inc", list[0]["company"].(map[string]any)["companyName"])

	w = app.do(http.MethodGet, "/api/jobs?jobType=Remote", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = app.do(http.MethodGet, "/api/jobs?search=go&location=ber", "", nil)
	assert.Len(t, decodeList(t, w), 1)

	w = app.do(http.MethodGet, "/api/jobs/my-jobs", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	first := w.Body.String()
	assert.Len(t, decodeList(t, w), 1)
	assert.Equal(t, first, app.do(http.MethodGet, "/api/jobs/my-jobs", owner, nil).Body.String())
	w = app.do(http.MethodGet, "/api/jobs/my-jobs", other, nil)
	assert.Len(t, decodeList(t, w), 0)
	w = app.do(http.MethodGet, "/api/jobs/my-jobs", seeker, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(http.MethodGet, "/api/jobs/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w)
	assert.Equal(t, ownerID, got["postedBy"])
	assert.Equal(t, "Go Engineer", got["title"])
	assert.Equal(t, "Berlin", got["location"])
	assert.Equal(t, "Full-time", got["jobType"])
	assert.Equal(t, []any{"Go", "SQL"}, got["skillsRequired"])
	assert.Equal(t, "Active", got["status"])
	assert.NotEmpty(t, got["createdAt"])
	w = app.do(http.MethodGet, "/api/jobs/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(http.MethodPut, "/api/jobs/"+id, other, map[string]any{"title": "Hijack"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = app.do(http.MethodPut, "/api/jobs/"+id, owner, map[string]any{"title": "Senior Go Engineer", "status": "Closed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Senior Go Engineer", decode(t, w)["title"])

	w = app.do(http.MethodDelete, "/api/jobs/"+id, other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = app.do(http.MethodDelete, "/api/jobs/"+id, owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Job deleted successfully", decode(t, w)["message"])
	w = app.do(http.MethodGet, "/api/jobs/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(http.MethodPut, "/api/jobs/"+id, owner, map[string]any{"title": "Back again"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestJobs_FreeTextStoredAsSubmitted(t *testing.T) {
	app := newTestApp(t)
	owner, _ := app.register("wayne", domain.RoleEmployer)

	const (
		description  = "R&D team; we don't use C++ < 17"
		requirements = `5 years "Go"`
		formatted    = "<ul><li>Own the API</li><li>Review PRs</li></ul>"
	)
	w := app.do(http.MethodPost, "/api/jobs", owner, map[string]any{
		"title":            "Toolsmith",
		"location":         "Gotham",
		"description":      description,
		"requirements":     requirements,
		"responsibilities": formatted,
		"jobType":          "Contract",
		"experienceLevel":  "Senior-level",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode(t, w)["id"].(string)

	w = app.do(http.MethodGet, "/api/jobs/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w)
	require.Equal(t, description, got["description"])
	require.Equal(t, requirements, got["requirements"])
	require.Equal(t, formatted, got["responsibilities"])

	w = app.do(http.MethodPut, "/api/jobs/"+id, owner, map[string]any{"requirements": `"Rust" & C < 3 years`})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got = decode(t, app.do(http.MethodGet, "/api/jobs/"+id, "", nil))
	require.Equal(t, `"Rust" & C < 3 years`, got["requirements"])
	require.Equal(t, description, got["description"])

	w = app.do(http.MethodPut, "/api/jobs/"+id, owner, map[string]any{
		"description": `<p onclick="steal()">hi</p>`,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []any{"description contains markup that is not allowed"}, decode(t, w)["errors"])
	got = decode(t, app.do(http.MethodGet, "/api/jobs/"+id, "", nil))
	require.Equal(t, description, got["description"])
}

func TestApplications_Flow(t *testing.T) {
	app := newTestApp(t)
	employer, _ := app.register("hooli", domain.RoleEmployer)
	rival, _ := app.register("piedpiper", domain.RoleEmployer)
	seeker, seekerID := app.register("gina", domain.RoleJobSeeker)
	jobID := app.postJob(employer, "Platform Engineer")

	coverLetter := "<p>Hi, I'd love R&D work on C++ < 17</p>"
	apply := map[string]any{"jobId": jobID, "coverLetter": coverLetter}

	w := app.do(http.MethodPost, "/api/applications", seeker, apply)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "upload resume first", decode(t, w)["message"])

	w = app.do(http.MethodPost, "/api/applications", employer, apply)
	assert.Equal(t, http.StatusForbidden, w.Code)

	require.Equal(t, http.StatusOK, app.upload("/api/users/upload-resume", seeker, "resume", pdfBytes).Code)

	w = app.do(http.MethodPost, "/api/applications", seeker, map[string]any{"jobId": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(http.MethodPost, "/api/applications", seeker, map[string]any{
		"jobId": jobID, "coverLetter": "<p>Hi</p><script>x()</script>",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []any{"coverLetter contains markup that is not allowed"}, decode(t, w)["errors"])

	w = app.do(http.MethodPost, "/api/applications", seeker, apply)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	appID := created["id"].(string)
	assert.Equal(t, "Pending", created["status"])
	require.Equal(t, coverLetter, created["coverLetter"])

	w = app.do(http.MethodPost, "/api/applications", seeker, apply)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(http.MethodGet, "/api/jobs/"+jobID, "", nil)
	assert.Equal(t, []any{appID}, decode(t, w)["applicants"])

	w = app.do(http.MethodGet, "/api/applications/job/"+jobID, rival, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = app.do(http.MethodGet, "/api/applications/job/"+jobID, employer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	received := decodeList(t, w)
	require.Len(t, received, 1)
	profile := received[0]["applicantProfile"].(map[string]any)
	assert.Equal(t, seekerID, profile["id"])
	assert.NotContains(t, profile, "passwordHash")

	w = app.do(http.MethodPut, "/api/applications/"+appID+"/status", employer, map[string]any{"status": "Maybe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = app.do(http.MethodPut, "/api/applications/"+appID+"/status", employer, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = app.do(http.MethodPut, "/api/applications/"+appID+"/status", rival, map[string]any{"status": "Hired"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = app.do(http.MethodPut, "/api/applications/"+appID+"/status", employer, map[string]any{"status": "Hired"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(http.MethodGet, "/api/applications/my-applications", seeker, nil)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decodeList(t, w)
	require.Len(t, mine, 1)
	assert.Equal(t, "Hired", mine[0]["status"])
	assert.Equal(t, "Platform Engineer", mine[0]["jobSummary"].(map[string]any)["title"])

	// 删除职位后级联清理申请
	require.Equal(t, http.StatusOK, app.do(http.MethodDelete, "/api/jobs/"+jobID, employer, nil).Code)
	w = app.do(http.MethodGet, "/api/applications/my-applications", seeker, nil)
	assert.Len(t, decodeList(t, w), 0)
}

func TestAdmin_AccountsAndStats(t *testing.T) {
	app := newTestApp(t)
	seeker, _ := app.register("henry", domain.RoleJobSeeker)
	employer, _ := app.register("umbrella", domain.RoleEmployer)
	app.postJob(employer, "Researcher")

	_, created, err := app.accounts.EnsureAdmin(context.Background(), "root", "root@example.com", "password123")
	require.NoError(t, err)
	require.True(t, created)
	w := app.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "root@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	admin := decode(t, w)["token"].(string)

	w = app.do(http.MethodGet, "/admin/v1/stats", seeker, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = app.do(http.MethodGet, "/admin/v1/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(http.MethodGet, "/admin/v1/stats", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"accounts": float64(3), "jobs": float64(1), "applications": float64(0)}, decode(t, w))

	w = app.do(http.MethodGet, "/admin/v1/accounts?role=employer", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode(t, w)
	assert.Equal(t, float64(1), page["total"])
	assert.Equal(t, float64(20), page["limit"])
	assert.Len(t, page["items"], 1)

	w = app.do(http.MethodGet, "/admin/v1/accounts?role=superuser", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = app.do(http.MethodGet, "/admin/v1/accounts?limit=500", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
