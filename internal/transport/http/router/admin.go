package router

import (
	"github.com/gin-gonic/gin"

	"careerflow-api/internal/domain"
	mdw "careerflow-api/internal/transport/http/middleware"
)

func NewAdminEngine(d Deps) *gin.Engine {
	d.defaults()
	r := newEngine(&d, "admin")

	// 管理端 v1（统一要求 admin 角色）
	admin := r.Group("/admin/v1")
	admin.Use(mdw.Authenticate(d.Resolver, true), mdw.RequireRoles(domain.RoleAdmin))
	d.Modules.MountAdmin(admin)
	return r
}
