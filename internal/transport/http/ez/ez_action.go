// Package ez registers gin handlers as typed actions: bind input, call a
// function, map its error through the domain taxonomy.
package ez

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"careerflow-api/internal/domain"
	mdw "careerflow-api/internal/transport/http/middleware"
	resp "careerflow-api/internal/transport/http/response"
)

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param / c.FormFile 取
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// Action I 入参，O 出参
type Action[I any, O any] struct {
	Method string // 默认 POST
	Path   string
	Binder Binder
	// Status on success; 0 means 200.
	Status int
	// Auth requires an authenticated caller; Roles additionally restricts it.
	Auth  bool
	Roles []domain.Role
	// NoContent writes only the status line on success.
	NoContent bool

	Handler func(c *gin.Context, in *I) (O, error)
}

func (a Action[I, O]) chain() []gin.HandlerFunc {
	var hs []gin.HandlerFunc
	switch {
	case len(a.Roles) > 0:
		hs = append(hs, mdw.RequireRoles(a.Roles...))
	case a.Auth:
		hs = append(hs, mdw.RequireAuth())
	}
	return hs
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			if mdw.IsBodyTooLarge(bindErr) {
				resp.Abort(c, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			resp.BindFailed(c, bindErr)
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			resp.Fail(c, err)
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		if a.NoContent {
			c.Status(status)
			return
		}
		resp.JSON(c, status, out)
	}

	hs := append(a.chain(), h)
	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, hs...)
	case http.MethodPut:
		e.g.PUT(a.Path, hs...)
	case http.MethodPatch:
		e.g.PATCH(a.Path, hs...)
	case http.MethodDelete:
		e.g.DELETE(a.Path, hs...)
	default:
		e.g.POST(a.Path, hs...)
	}
}
