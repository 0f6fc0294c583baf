package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"careerflow-api/internal/domain"
)

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// Error 构造错误体（customMsg 为空时用默认提示语）
func Error(code int, customMsg string, details ...string) ErrorBody {
	msg := customMsg
	if msg == "" {
		msg = CodeMsgMap[code]
	}
	return ErrorBody{Code: code, Message: msg, Errors: details}
}

func JSON(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

// Abort stops the chain with a plain error body.
func Abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, Error(code, msg))
}

// Fail writes err as an error body. Internal causes are attached to the gin
// context for the access log and never reach the client.
func Fail(c *gin.Context, err error) {
	status := StatusOf(err)
	var de *domain.Error
	if !errors.As(err, &de) || de.Kind == domain.KindInternal {
		_ = c.Error(err)
		c.AbortWithStatusJSON(status, Error(http.StatusInternalServerError, ""))
		return
	}
	c.AbortWithStatusJSON(status, Error(status, de.Message, de.Details...))
}

// BindFailed reports a request that could not be bound, one detail per
// failed field when the validator produced the error.
func BindFailed(c *gin.Context, err error) {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		details := make([]string, 0, len(ves))
		for _, fe := range ves {
			details = append(details, describe(fe))
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, Error(http.StatusBadRequest, "validation failed", details...))
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, Error(http.StatusBadRequest, "malformed request", err.Error()))
}

func describe(fe validator.FieldError) string {
	name := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", name, strings.Join(strings.Fields(fe.Param()), ", "))
	default:
		return name + " is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
