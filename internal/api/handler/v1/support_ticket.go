package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tukio-app/tukio-api/internal/api/handler/v1/request"
	"github.com/tukio-app/tukio-api/internal/api/handler/v1/response"
	"github.com/tukio-app/tukio-api/internal/domain"
	"github.com/tukio-app/tukio-api/internal/service"
)

type SupportTicketService interface {
	CreateTicket(ctx context.Context, ticket domain.SupportTicket) (domain.SupportTicket, error)
	GetTicket(ctx context.Context, id uint) (domain.SupportTicket, error)
	GetAllTickets(ctx context.Context) ([]domain.SupportTicket, error)
	GetTicketsByUserID(ctx context.Context, userID uint) ([]domain.SupportTicket, error)
	UpdateTicket(ctx context.Context, id uint, updates map[string]interface{}, actor domain.User) (domain.SupportTicket, error)
	DeleteTicket(ctx context.Context, id uint, actor domain.User) error
}

type SupportTicketHandler struct {
	svc  SupportTicketService
	uSvc UserService
}

func NewSupportTicketHandler(svc SupportTicketService, uSvc UserService) *SupportTicketHandler {
	return &SupportTicketHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCreateTicket godoc
// @Summary      Open a support ticket
// @Tags         support
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateSupportTicketRequest  true  "ticket details"
// @Success      201  {object}  domain.SupportTicket
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /tickets [post]
// @Security     BearerAuth
func (h *SupportTicketHandler) HandleCreateTicket(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateSupportTicketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	ticket, err := h.svc.CreateTicket(ctx.Request.Context(), domain.SupportTicket{
		UserID:      user.ID,
		Subject:     req.Subject,
		Description: req.Description,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateTicket -> h.svc.CreateTicket -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, ticket)
}

// HandleGetTickets godoc
// @Summary      List support tickets
// @Description  Admins see every ticket; everyone else sees their own.
// @Tags         support
// @Produce      json
// @Success      200  {array}   domain.SupportTicket
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /tickets [get]
// @Security     BearerAuth
func (h *SupportTicketHandler) HandleGetTickets(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var (
		tickets []domain.SupportTicket
		err     error
	)
	if user.IsAdmin() {
		tickets, err = h.svc.GetAllTickets(ctx.Request.Context())
	} else {
		tickets, err = h.svc.GetTicketsByUserID(ctx.Request.Context(), user.ID)
	}
	if err != nil {
		err = fmt.Errorf("v1.HandleGetTickets -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, tickets)
}

// HandleGetTicket godoc
// @Summary      Get a support ticket by ID
// @Description  Owner or admin only
// @Tags         support
// @Produce      json
// @Param        ticketID  path      int  true  "Ticket ID"
// @Success      200  {object}  domain.SupportTicket
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /tickets/{ticketID} [get]
// @Security     BearerAuth
func (h *SupportTicketHandler) HandleGetTicket(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ticketID, err := strconv.ParseUint(ctx.Param("ticketID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid ticket ID: %w", err)))
		return
	}

	ticket, err := h.svc.GetTicket(ctx.Request.Context(), uint(ticketID))
	if err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("ticket", "ID", ticketID))
			return
		}

		err = fmt.Errorf("v1.HandleGetTicket -> h.svc.GetTicket -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if !user.CanAccess(ticket.UserID) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot access ticket %v", user.ID, ticketID)))
		return
	}

	ctx.JSON(http.StatusOK, ticket)
}

// HandleUpdateTicket godoc
// @Summary      Update a support ticket
// @Description  Owners may edit subject and description; only admins may change status.
// @Tags         support
// @Accept       json
// @Produce      json
// @Param        ticketID  path      int                     true  "Ticket ID"
// @Param        request   body      map[string]interface{}  true  "fields to update"
// @Success      200  {object}  domain.SupportTicket
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /tickets/{ticketID} [put]
// @Security     BearerAuth
func (h *SupportTicketHandler) HandleUpdateTicket(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ticketID, err := strconv.ParseUint(ctx.Param("ticketID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid ticket ID: %w", err)))
		return
	}

	var updates map[string]interface{}
	if err = ctx.ShouldBindJSON(&updates); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	ticket, err := h.svc.UpdateTicket(ctx.Request.Context(), uint(ticketID), updates, user)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTicketNotFound):
			response.RenderErr(ctx, response.ErrNotFound("ticket", "ID", ticketID))
		case errors.Is(err, service.ErrAccessDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleUpdateTicket -> h.svc.UpdateTicket -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, ticket)
}

// HandleDeleteTicket godoc
// @Summary      Delete a support ticket
// @Description  Owner or admin only
// @Tags         support
// @Produce      json
// @Param        ticketID  path  int  true  "Ticket ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /tickets/{ticketID} [delete]
// @Security     BearerAuth
func (h *SupportTicketHandler) HandleDeleteTicket(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ticketID, err := strconv.ParseUint(ctx.Param("ticketID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid ticket ID: %w", err)))
		return
	}

	if err = h.svc.DeleteTicket(ctx.Request.Context(), uint(ticketID), user); err != nil {
		switch {
		case errors.Is(err, service.ErrTicketNotFound):
			response.RenderErr(ctx, response.ErrNotFound("ticket", "ID", ticketID))
		case errors.Is(err, service.ErrAccessDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleDeleteTicket -> h.svc.DeleteTicket -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}
