package response

import (
	"net/http"

	"careerflow-api/internal/domain"
)

// statusByKind domain 错误分类 → HTTP 状态码
var statusByKind = map[domain.Kind]int{
	domain.KindValidation:         http.StatusBadRequest,
	domain.KindConflict:           http.StatusConflict,
	domain.KindUnauthenticated:    http.StatusUnauthorized,
	domain.KindInvalidCredentials: http.StatusUnauthorized,
	domain.KindForbidden:          http.StatusForbidden,
	domain.KindNotFound:           http.StatusNotFound,
	domain.KindInternal:           http.StatusInternalServerError,
}

// CodeMsgMap 状态码的默认提示语
var CodeMsgMap = map[int]string{
	http.StatusBadRequest:            "Bad Request",
	http.StatusUnauthorized:          "Unauthorized",
	http.StatusForbidden:             "Forbidden",
	http.StatusNotFound:              "Not Found",
	http.StatusConflict:              "Conflict",
	http.StatusRequestEntityTooLarge: "Request Entity Too Large",
	http.StatusTooManyRequests:       "Too Many Requests",
	http.StatusInternalServerError:   "internal server error",
	http.StatusServiceUnavailable:    "Service Unavailable",
	http.StatusGatewayTimeout:        "Gateway Timeout",
}

func StatusOf(err error) int {
	if s, ok := statusByKind[domain.KindOf(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}
