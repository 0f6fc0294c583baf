package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"careerflow-api/internal/domain"
	"careerflow-api/internal/service"
	httpez "careerflow-api/internal/transport/http/ez"
)

// AdminHandler 管理端只读接口，挂在 /admin/v1 下，角色校验在路由组上完成
type AdminHandler struct {
	admin *service.AdminService
}

func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

type listAccountsIn struct {
	Q      string `form:"q"`
	Role   string `form:"role" binding:"omitempty,oneof=job_seeker employer admin"`
	Offset int    `form:"offset" binding:"min=0"`
	Limit  int    `form:"limit" binding:"min=0,max=100"`
}

type accountPage struct {
	Items  []*domain.Account `json:"items"`
	Total  int64             `json:"total"`
	Offset int               `json:"offset"`
	Limit  int               `json:"limit"`
}

func (h *AdminHandler) Priority() int { return 100 }

func (h *AdminHandler) MountAdmin(g *gin.RouterGroup) {
	ez := httpez.New(g)

	httpez.RegisterAction(ez, httpez.Action[listAccountsIn, accountPage]{
		Method: http.MethodGet,
		Path:   "/accounts",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listAccountsIn) (accountPage, error) {
			items, total, err := h.admin.ListAccounts(c.Request.Context(), in.Q, domain.Role(in.Role), in.Offset, in.Limit)
			if err != nil {
				return accountPage{}, err
			}
			if items == nil {
				items = []*domain.Account{}
			}
			limit := in.Limit
			if limit == 0 {
				limit = 20
			}
			return accountPage{Items: items, Total: total, Offset: in.Offset, Limit: limit}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, service.Stats]{
		Method: http.MethodGet,
		Path:   "/stats",
		Handler: func(c *gin.Context, _ *struct{}) (service.Stats, error) {
			return h.admin.Stats(c.Request.Context())
		},
	})
}
