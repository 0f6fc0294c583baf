package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"careerflow-api/internal/domain"
	"careerflow-api/internal/service"
	httpez "careerflow-api/internal/transport/http/ez"
	mdw "careerflow-api/internal/transport/http/middleware"
)

type UserHandler struct {
	accounts *service.AccountService
}

func NewUserHandler(accounts *service.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

type updateProfileIn struct {
	Username     *string `json:"username"`
	Email        *string `json:"email"`
	Password     *string `json:"password"`
	FullName     *string `json:"fullName"`
	Phone        *string `json:"phone"`
	Location     *string `json:"location"`
	ProfileImage *string `json:"profileImage"`

	Skills     *[]string `json:"skills"`
	Experience *string   `json:"experience"`
	Education  *string   `json:"education"`

	CompanyName        *string `json:"companyName"`
	CompanyDescription *string `json:"companyDescription"`
	Website            *string `json:"website"`
}

type searchIn struct {
	Search string `form:"search"`
}

type resumeOut struct {
	Message   string `json:"message"`
	ResumeURL string `json:"resumeUrl"`
}

type logoOut struct {
	Message     string `json:"message"`
	CompanyLogo string `json:"companyLogo"`
}

type avatarOut struct {
	Message      string `json:"message"`
	ProfileImage string `json:"profileImage"`
}

func (h *UserHandler) Priority() int { return 20 }

func (h *UserHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api.Group("/users"))

	httpez.RegisterAction(ez, httpez.Action[updateProfileIn, userOut]{
		Method: http.MethodPut,
		Path:   "/profile",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *updateProfileIn) (userOut, error) {
			a, err := h.accounts.UpdateProfile(c.Request.Context(), mdw.CurrentAccount(c).ID, service.UpdateProfileInput{
				Username:           in.Username,
				Email:              in.Email,
				Password:           in.Password,
				FullName:           in.FullName,
				Phone:              in.Phone,
				Location:           in.Location,
				ProfileImage:       in.ProfileImage,
				Skills:             in.Skills,
				Experience:         in.Experience,
				Education:          in.Education,
				CompanyName:        in.CompanyName,
				CompanyDescription: in.CompanyDescription,
				Website:            in.Website,
			})
			if err != nil {
				return userOut{}, err
			}
			return userOut{User: a}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, resumeOut]{
		Method: http.MethodPost,
		Path:   "/upload-resume",
		Roles:  []domain.Role{domain.RoleJobSeeker},
		Handler: func(c *gin.Context, _ *struct{}) (resumeOut, error) {
			var url string
			err := withUpload(c, "resume", func(r io.Reader) (err error) {
				url, err = h.accounts.UploadResume(c.Request.Context(), mdw.CurrentAccount(c).ID, r)
				return err
			})
			if err != nil {
				return resumeOut{}, err
			}
			return resumeOut{Message: "Resume uploaded successfully", ResumeURL: url}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, logoOut]{
		Method: http.MethodPost,
		Path:   "/upload-logo",
		Roles:  []domain.Role{domain.RoleEmployer},
		Handler: func(c *gin.Context, _ *struct{}) (logoOut, error) {
			var url string
			err := withUpload(c, "logo", func(r io.Reader) (err error) {
				url, err = h.accounts.UploadCompanyLogo(c.Request.Context(), mdw.CurrentAccount(c).ID, r)
				return err
			})
			if err != nil {
				return logoOut{}, err
			}
			return logoOut{Message: "Logo uploaded successfully", CompanyLogo: url}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, avatarOut]{
		Method: http.MethodPost,
		Path:   "/upload-avatar",
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (avatarOut, error) {
			var url string
			err := withUpload(c, "profileImage", func(r io.Reader) (err error) {
				url, err = h.accounts.UploadProfileImage(c.Request.Context(), mdw.CurrentAccount(c).ID, r)
				return err
			})
			if err != nil {
				return avatarOut{}, err
			}
			return avatarOut{Message: "Profile image uploaded successfully", ProfileImage: url}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[searchIn, []*domain.Account]{
		Method: http.MethodGet,
		Path:   "",
		Binder: httpez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *searchIn) ([]*domain.Account, error) {
			return h.accounts.SearchAccounts(c.Request.Context(), mdw.CurrentAccount(c).ID, in.Search)
		},
	})
}

// withUpload opens the multipart file in field and hands it to fn. A missing
// file reaches fn as a nil reader so the service reports it.
func withUpload(c *gin.Context, field string, fn func(io.Reader) error) error {
	fh, err := c.FormFile(field)
	switch {
	case err == nil:
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return fn(nil)
	case mdw.IsBodyTooLarge(err):
		return domain.Validation("file exceeds upload limit")
	default:
		return domain.Validation("invalid multipart form", err.Error())
	}
	f, err := fh.Open()
	if err != nil {
		return domain.Internal("open upload", err)
	}
	defer f.Close()
	return fn(f)
}
