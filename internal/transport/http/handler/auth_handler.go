package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"careerflow-api/internal/domain"
	"careerflow-api/internal/service"
	httpez "careerflow-api/internal/transport/http/ez"
	mdw "careerflow-api/internal/transport/http/middleware"
)

type AuthHandler struct {
	accounts *service.AccountService
}

func NewAuthHandler(accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// registerIn 字段校验统一交给 service，以便一次返回全部违规项
type registerIn struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
	FullName string      `json:"fullName"`
	Phone    string      `json:"phone"`
	Location string      `json:"location"`

	Skills     []string `json:"skills"`
	Experience string   `json:"experience"`
	Education  string   `json:"education"`

	CompanyName        string `json:"companyName"`
	CompanyDescription string `json:"companyDescription"`
	Website            string `json:"website"`
}

type loginIn struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authOut struct {
	User  *domain.Account `json:"user"`
	Token string          `json:"token"`
}

type userOut struct {
	User *domain.Account `json:"user"`
}

func (h *AuthHandler) Priority() int { return 10 }

func (h *AuthHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api.Group("/auth"))

	httpez.RegisterAction(ez, httpez.Action[registerIn, authOut]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *registerIn) (authOut, error) {
			a, tok, err := h.accounts.Register(c.Request.Context(), service.RegisterInput{
				Username:           in.Username,
				Email:              in.Email,
				Password:           in.Password,
				Role:               in.Role,
				FullName:           in.FullName,
				Phone:              in.Phone,
				Location:           in.Location,
				Skills:             in.Skills,
				Experience:         in.Experience,
				Education:          in.Education,
				CompanyName:        in.CompanyName,
				CompanyDescription: in.CompanyDescription,
				Website:            in.Website,
			})
			if err != nil {
				return authOut{}, err
			}
			return authOut{User: a, Token: tok}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[loginIn, authOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (authOut, error) {
			a, tok, err := h.accounts.Login(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return authOut{}, err
			}
			return authOut{User: a, Token: tok}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, userOut]{
		Method: http.MethodGet,
		Path:   "/me",
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (userOut, error) {
			a, err := h.accounts.GetSelf(c.Request.Context(), mdw.CurrentAccount(c).ID)
			if err != nil {
				return userOut{}, err
			}
			return userOut{User: a}, nil
		},
	})
}
