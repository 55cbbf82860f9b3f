package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Err struct {
	StatusCode int    `json:"-"`
	Msg        string `json:"error"`
}

func (e *Err) Error() string {
	return e.Msg
}

func NewErr(statusCode int, err error) *Err {
	return &Err{
		StatusCode: statusCode,
		Msg:        err.Error(),
	}
}

func ErrBadRequest(err error) *Err {
	return NewErr(http.StatusBadRequest, err)
}

func ErrUnauthorized(msg string) *Err {
	return &Err{
		StatusCode: http.StatusUnauthorized,
		Msg:        msg,
	}
}

func ErrWrongCredentials(err error) *Err {
	zap.L().Info("wrong credentials", zap.Error(err))

	return &Err{
		StatusCode: http.StatusUnauthorized,
		Msg:        "wrong credentials",
	}
}

func ErrPermissionDenied(err error) *Err {
	zap.L().Info("permission denied", zap.Error(err))

	return &Err{
		StatusCode: http.StatusForbidden,
		Msg:        "Access denied",
	}
}

func ErrNotFound(resource, by string, value interface{}) *Err {
	return &Err{
		StatusCode: http.StatusNotFound,
		Msg:        fmt.Sprintf("%v not found (%v=%v)", resource, by, value),
	}
}

func ErrConflict(err error) *Err {
	return NewErr(http.StatusConflict, err)
}

// ErrInternalServerError logs the underlying error and returns a generic
// message so internals never leak to the client.
func ErrInternalServerError(err error) *Err {
	zap.L().Error("internal server error", zap.Error(err))

	return &Err{
		StatusCode: http.StatusInternalServerError,
		Msg:        "internal server error",
	}
}

func RenderErr(ctx *gin.Context, err *Err) {
	ctx.AbortWithStatusJSON(err.StatusCode, err)
}
