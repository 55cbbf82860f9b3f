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

type TicketMessageService interface {
	CreateMessage(ctx context.Context, message domain.TicketMessage, actor domain.User) (domain.TicketMessage, error)
	GetMessagesByTicketID(ctx context.Context, ticketID uint, actor domain.User) ([]domain.TicketMessage, error)
	UpdateMessage(ctx context.Context, id uint, updates map[string]interface{}, actor domain.User) (domain.TicketMessage, error)
	DeleteMessage(ctx context.Context, id uint, actor domain.User) error
}

type TicketMessageHandler struct {
	svc  TicketMessageService
	uSvc UserService
}

func NewTicketMessageHandler(svc TicketMessageService, uSvc UserService) *TicketMessageHandler {
	return &TicketMessageHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCreateMessage godoc
// @Summary      Post a message to a support ticket
// @Description  Ticket owner or admin only; the sender is always the caller.
// @Tags         support
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateTicketMessageRequest  true  "message details"
// @Success      201  {object}  domain.TicketMessage
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /ticket-messages [post]
// @Security     BearerAuth
func (h *TicketMessageHandler) HandleCreateMessage(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateTicketMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	message, err := h.svc.CreateMessage(ctx.Request.Context(), domain.TicketMessage{
		TicketID: req.TicketID,
		Content:  req.Content,
	}, user)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTicketNotFound):
			response.RenderErr(ctx, response.ErrNotFound("ticket", "ID", req.TicketID))
		case errors.Is(err, service.ErrAccessDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleCreateMessage -> h.svc.CreateMessage -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, message)
}

// HandleGetMessagesByTicket godoc
// @Summary      List a support ticket's messages
// @Description  Ticket owner or admin only; ordered by posting time.
// @Tags         support
// @Produce      json
// @Param        ticketID  path      int  true  "Ticket ID"
// @Success      200  {array}   domain.TicketMessage
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /tickets/{ticketID}/messages [get]
// @Security     BearerAuth
func (h *TicketMessageHandler) HandleGetMessagesByTicket(ctx *gin.Context) {
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

	messages, err := h.svc.GetMessagesByTicketID(ctx.Request.Context(), uint(ticketID), user)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTicketNotFound):
			response.RenderErr(ctx, response.ErrNotFound("ticket", "ID", ticketID))
		case errors.Is(err, service.ErrAccessDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleGetMessagesByTicket -> h.svc.GetMessagesByTicketID -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, messages)
}

// HandleUpdateMessage godoc
// @Summary      Edit a ticket message
// @Description  Sender or admin only; only the content can change.
// @Tags         support
// @Accept       json
// @Produce      json
// @Param        messageID  path      int                     true  "Message ID"
// @Param        request    body      map[string]interface{}  true  "fields to update"
// @Success      200  {object}  domain.TicketMessage
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /ticket-messages/{messageID} [put]
// @Security     BearerAuth
func (h *TicketMessageHandler) HandleUpdateMessage(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	messageID, err := strconv.ParseUint(ctx.Param("messageID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid message ID: %w", err)))
		return
	}

	var updates map[string]interface{}
	if err = ctx.ShouldBindJSON(&updates); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	message, err := h.svc.UpdateMessage(ctx.Request.Context(), uint(messageID), updates, user)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMessageNotFound):
			response.RenderErr(ctx, response.ErrNotFound("message", "ID", messageID))
		case errors.Is(err, service.ErrAccessDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleUpdateMessage -> h.svc.UpdateMessage -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, message)
}

// HandleDeleteMessage godoc
// @Summary      Delete a ticket message
// @Description  Sender or admin only
// @Tags         support
// @Produce      json
// @Param        messageID  path  int  true  "Message ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /ticket-messages/{messageID} [delete]
// @Security     BearerAuth
func (h *TicketMessageHandler) HandleDeleteMessage(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	messageID, err := strconv.ParseUint(ctx.Param("messageID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid message ID: %w", err)))
		return
	}

	if err = h.svc.DeleteMessage(ctx.Request.Context(), uint(messageID), user); err != nil {
		switch {
		case errors.Is(err, service.ErrMessageNotFound):
			response.RenderErr(ctx, response.ErrNotFound("message", "ID", messageID))
		case errors.Is(err, service.ErrAccessDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleDeleteMessage -> h.svc.DeleteMessage -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}
