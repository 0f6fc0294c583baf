package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"careerflow-api/internal/domain"
	"careerflow-api/internal/service"
	httpez "careerflow-api/internal/transport/http/ez"
	mdw "careerflow-api/internal/transport/http/middleware"
)

type ApplicationHandler struct {
	apps *service.ApplicationService
}

func NewApplicationHandler(apps *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{apps: apps}
}

type applyIn struct {
	JobID       string `json:"jobId"`
	CoverLetter string `json:"coverLetter"`
}

type statusIn struct {
	Status domain.ApplicationStatus `json:"status" binding:"required"`
}

func (h *ApplicationHandler) Priority() int { return 40 }

func (h *ApplicationHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api.Group("/applications"))

	httpez.RegisterAction(ez, httpez.Action[applyIn, *domain.Application]{
		Method: http.MethodPost,
		Path:   "",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Roles:  []domain.Role{domain.RoleJobSeeker},
		Handler: func(c *gin.Context, in *applyIn) (*domain.Application, error) {
			return h.apps.Apply(c.Request.Context(), mdw.CurrentAccount(c), service.ApplyInput{
				JobID:       in.JobID,
				CoverLetter: in.CoverLetter,
			})
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, []*domain.SeekerApplication]{
		Method: http.MethodGet,
		Path:   "/my-applications",
		Roles:  []domain.Role{domain.RoleJobSeeker},
		Handler: func(c *gin.Context, _ *struct{}) ([]*domain.SeekerApplication, error) {
			return h.apps.MyApplications(c.Request.Context(), mdw.CurrentAccount(c))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, []*domain.ReceivedApplication]{
		Method: http.MethodGet,
		Path:   "/job/:jobId",
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]*domain.ReceivedApplication, error) {
			return h.apps.ForJob(c.Request.Context(), mdw.CurrentAccount(c), c.Param("jobId"))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[statusIn, *domain.Application]{
		Method: http.MethodPut,
		Path:   "/:id/status",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *statusIn) (*domain.Application, error) {
			return h.apps.UpdateStatus(c.Request.Context(), mdw.CurrentAccount(c), c.Param("id"), in.Status)
		},
	})
}
