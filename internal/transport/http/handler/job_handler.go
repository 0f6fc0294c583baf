package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"careerflow-api/internal/domain"
	"careerflow-api/internal/service"
	httpez "careerflow-api/internal/transport/http/ez"
	mdw "careerflow-api/internal/transport/http/middleware"
)

type JobHandler struct {
	jobs *service.JobService
}

func NewJobHandler(jobs *service.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// jobQueryIn 数值与枚举在 service 里解析，这里只收原始字符串
type jobQueryIn struct {
	Search          string `form:"search"`
	Location        string `form:"location"`
	JobType         string `form:"jobType"`
	ExperienceLevel string `form:"experienceLevel"`
	SalaryMin       string `form:"salaryMin"`
	SalaryMax       string `form:"salaryMax"`
}

type createJobIn struct {
	Title            string                 `json:"title"`
	Location         string                 `json:"location"`
	SalaryRange      string                 `json:"salaryRange"`
	SalaryMin        *int64                 `json:"salaryMin"`
	SalaryMax        *int64                 `json:"salaryMax"`
	JobType          domain.JobType         `json:"jobType"`
	ExperienceLevel  domain.ExperienceLevel `json:"experienceLevel"`
	Description      string                 `json:"description"`
	Requirements     string                 `json:"requirements"`
	Responsibilities string                 `json:"responsibilities"`
	SkillsRequired   []string               `json:"skillsRequired"`
	Status           domain.JobStatus       `json:"status"`
	ExpiresAt        *time.Time             `json:"expiresAt"`
}

type updateJobIn struct {
	Title            *string                 `json:"title"`
	Location         *string                 `json:"location"`
	SalaryRange      *string                 `json:"salaryRange"`
	SalaryMin        *int64                  `json:"salaryMin"`
	SalaryMax        *int64                  `json:"salaryMax"`
	JobType          *domain.JobType         `json:"jobType"`
	ExperienceLevel  *domain.ExperienceLevel `json:"experienceLevel"`
	Description      *string                 `json:"description"`
	Requirements     *string                 `json:"requirements"`
	Responsibilities *string                 `json:"responsibilities"`
	SkillsRequired   *[]string               `json:"skillsRequired"`
	Status           *domain.JobStatus       `json:"status"`
	ExpiresAt        *time.Time              `json:"expiresAt"`
}

type messageOut struct {
	Message string `json:"message"`
}

func (h *JobHandler) Priority() int { return 30 }

func (h *JobHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api.Group("/jobs"))

	httpez.RegisterAction(ez, httpez.Action[jobQueryIn, []*domain.Job]{
		Method: http.MethodGet,
		Path:   "",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *jobQueryIn) ([]*domain.Job, error) {
			return h.jobs.List(c.Request.Context(), service.JobQuery{
				Search:          in.Search,
				Location:        in.Location,
				JobType:         in.JobType,
				ExperienceLevel: in.ExperienceLevel,
				SalaryMin:       in.SalaryMin,
				SalaryMax:       in.SalaryMax,
			})
		},
	})

	// 静态路径先于 /:id 注册
	httpez.RegisterAction(ez, httpez.Action[struct{}, []*domain.Job]{
		Method: http.MethodGet,
		Path:   "/my-jobs",
		Roles:  []domain.Role{domain.RoleEmployer},
		Handler: func(c *gin.Context, _ *struct{}) ([]*domain.Job, error) {
			return h.jobs.ListMine(c.Request.Context(), mdw.CurrentAccount(c))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, *domain.Job]{
		Method: http.MethodGet,
		Path:   "/:id",
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Job, error) {
			return h.jobs.GetByID(c.Request.Context(), c.Param("id"))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[createJobIn, *domain.Job]{
		Method: http.MethodPost,
		Path:   "",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Roles:  []domain.Role{domain.RoleEmployer, domain.RoleAdmin},
		Handler: func(c *gin.Context, in *createJobIn) (*domain.Job, error) {
			return h.jobs.Create(c.Request.Context(), mdw.CurrentAccount(c), service.CreateJobInput{
				Title:            in.Title,
				Location:         in.Location,
				SalaryRange:      in.SalaryRange,
				SalaryMin:        in.SalaryMin,
				SalaryMax:        in.SalaryMax,
				JobType:          in.JobType,
				ExperienceLevel:  in.ExperienceLevel,
				Description:      in.Description,
				Requirements:     in.Requirements,
				Responsibilities: in.Responsibilities,
				SkillsRequired:   in.SkillsRequired,
				Status:           in.Status,
				ExpiresAt:        in.ExpiresAt,
			})
		},
	})

	httpez.RegisterAction(ez, httpez.Action[updateJobIn, *domain.Job]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *updateJobIn) (*domain.Job, error) {
			return h.jobs.Update(c.Request.Context(), mdw.CurrentAccount(c), c.Param("id"), service.UpdateJobInput{
				Title:            in.Title,
				Location:         in.Location,
				SalaryRange:      in.SalaryRange,
				SalaryMin:        in.SalaryMin,
				SalaryMax:        in.SalaryMax,
				JobType:          in.JobType,
				ExperienceLevel:  in.ExperienceLevel,
				Description:      in.Description,
				Requirements:     in.Requirements,
				Responsibilities: in.Responsibilities,
				SkillsRequired:   in.SkillsRequired,
				Status:           in.Status,
				ExpiresAt:        in.ExpiresAt,
			})
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, messageOut]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (messageOut, error) {
			if err := h.jobs.Delete(c.Request.Context(), mdw.CurrentAccount(c), c.Param("id")); err != nil {
				return messageOut{}, err
			}
			return messageOut{Message: "Job deleted successfully"}, nil
		},
	})
}
