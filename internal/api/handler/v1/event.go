package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tukio-app/tukio-api/internal/api/handler/v1/request"
	"github.com/tukio-app/tukio-api/internal/api/handler/v1/response"
	"github.com/tukio-app/tukio-api/internal/domain"
	"github.com/tukio-app/tukio-api/internal/service"
)

type EventService interface {
	CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	GetEvent(ctx context.Context, id uint) (domain.Event, error)
	GetAllEvents(ctx context.Context) ([]domain.Event, error)
	UpdateEvent(ctx context.Context, id uint, updates map[string]interface{}, actor domain.User) (domain.Event, error)
	DeleteEvent(ctx context.Context, id uint) error
}

type EventHandler struct {
	svc  EventService
	uSvc UserService
}

func NewEventHandler(svc EventService, uSvc UserService) *EventHandler {
	return &EventHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleGetEvents godoc
// @Summary      List all events
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.Event
// @Failure      500  {object}  response.Err
// @Router       /events [get]
func (h *EventHandler) HandleGetEvents(ctx *gin.Context) {
	events, err := h.svc.GetAllEvents(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetEvents -> h.svc.GetAllEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetEvent godoc
// @Summary      Get an event by ID
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200  {object}  domain.Event
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID} [get]
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid event ID: %w", err)))
		return
	}

	event, err := h.svc.GetEvent(ctx.Request.Context(), uint(eventID))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleGetEvent -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleCreateEvent godoc
// @Summary      Create an event
// @Description  Admin only
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateEventRequest  true  "event details"
// @Success      201  {object}  domain.Event
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events [post]
// @Security     BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid date format: %w", err)))
		return
	}

	event, err := h.svc.CreateEvent(ctx.Request.Context(), domain.Event{
		Title:        req.Title,
		Description:  req.Description,
		VenueID:      req.VenueID,
		Category:     req.Category,
		Date:         date,
		Time:         req.Time,
		TicketPrice:  req.TicketPrice,
		TicketsTotal: req.TicketsTotal,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateEvent -> h.svc.CreateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, event)
}

// HandleUpdateEvent godoc
// @Summary      Update an event
// @Description  Admin only. The tickets_sold counter cannot be set here.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                     true  "Event ID"
// @Param        request  body      map[string]interface{}  true  "fields to update"
// @Success      200  {object}  domain.Event
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID} [put]
// @Security     BearerAuth
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid event ID: %w", err)))
		return
	}

	var updates map[string]interface{}
	if err = ctx.ShouldBindJSON(&updates); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.UpdateEvent(ctx.Request.Context(), uint(eventID), updates, user)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateEvent -> h.svc.UpdateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleDeleteEvent godoc
// @Summary      Delete an event
// @Description  Admin only
// @Tags         events
// @Produce      json
// @Param        eventID  path  int  true  "Event ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID} [delete]
// @Security     BearerAuth
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid event ID: %w", err)))
		return
	}

	if err = h.svc.DeleteEvent(ctx.Request.Context(), uint(eventID)); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteEvent -> h.svc.DeleteEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
