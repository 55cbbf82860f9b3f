package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/tukio-app/tukio-api/internal/api/handler/v1/response"
	"github.com/tukio-app/tukio-api/internal/domain"
)

// getUserFromContext resolves the authenticated user from the ID the JWT
// middleware stored on the request context.
func getUserFromContext(ctx *gin.Context, uSvc UserService) (domain.User, *response.Err) {
	value, exists := ctx.Get("userID")
	if !exists {
		return domain.User{}, response.ErrUnauthorized("authentication required")
	}

	userID, ok := value.(uint)
	if !ok {
		return domain.User{}, response.ErrUnauthorized("authentication required")
	}

	user, err := uSvc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		return domain.User{}, response.ErrUnauthorized("authenticated user no longer exists")
	}

	return user, nil
}
