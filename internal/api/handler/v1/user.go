package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tukio-app/tukio-api/internal/api/handler/v1/response"
	"github.com/tukio-app/tukio-api/internal/domain"
	"github.com/tukio-app/tukio-api/internal/service"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	GetAllUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, id uint, updates map[string]interface{}, actor domain.User) (domain.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleGetUsers godoc
// @Summary      List all users
// @Description  Admin only
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.User
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetUsers(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	users, err := h.svc.GetAllUsers(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetUsers -> h.svc.GetAllUsers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, users)
}

// HandleGetUser godoc
// @Summary      Get a user by ID
// @Description  Owner or admin only
// @Tags         users
// @Produce      json
// @Param        userID  path      int  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/{userID} [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetUser(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	userID, err := strconv.ParseUint(ctx.Param("userID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid user ID: %w", err)))
		return
	}

	if !user.CanAccess(uint(userID)) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot access user %v", user.ID, userID)))
		return
	}

	found, err := h.svc.GetUser(ctx.Request.Context(), uint(userID))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
			return
		}

		err = fmt.Errorf("v1.HandleGetUser -> h.svc.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, found)
}

// HandleUpdateUser godoc
// @Summary      Update a user
// @Description  Owner or admin only. Unknown or protected fields are ignored.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        userID  path      int                     true  "User ID"
// @Param        request body      map[string]interface{}  true  "fields to update"
// @Success      200  {object}  domain.User
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/{userID} [put]
// @Security     BearerAuth
func (h *UserHandler) HandleUpdateUser(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	userID, err := strconv.ParseUint(ctx.Param("userID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid user ID: %w", err)))
		return
	}

	var updates map[string]interface{}
	if err = ctx.ShouldBindJSON(&updates); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.UpdateUser(ctx.Request.Context(), uint(userID), updates, user)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccessDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
		default:
			err = fmt.Errorf("v1.HandleUpdateUser -> h.svc.UpdateUser -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteUser godoc
// @Summary      Delete a user
// @Description  Admin only
// @Tags         users
// @Produce      json
// @Param        userID  path  int  true  "User ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/{userID} [delete]
// @Security     BearerAuth
func (h *UserHandler) HandleDeleteUser(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	userID, err := strconv.ParseUint(ctx.Param("userID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid user ID: %w", err)))
		return
	}

	if err = h.svc.DeleteUser(ctx.Request.Context(), uint(userID)); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteUser -> h.svc.DeleteUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
