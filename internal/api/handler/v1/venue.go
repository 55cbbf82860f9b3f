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

type VenueService interface {
	CreateVenue(ctx context.Context, venue domain.Venue) (domain.Venue, error)
	GetVenue(ctx context.Context, id uint) (domain.Venue, error)
	GetAllVenues(ctx context.Context) ([]domain.Venue, error)
	UpdateVenue(ctx context.Context, id uint, fields map[string]interface{}) (domain.Venue, error)
	DeleteVenue(ctx context.Context, id uint) error
}

type VenueHandler struct {
	svc  VenueService
	uSvc UserService
}

func NewVenueHandler(svc VenueService, uSvc UserService) *VenueHandler {
	return &VenueHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleGetVenues godoc
// @Summary      List all venues
// @Tags         venues
// @Produce      json
// @Success      200  {array}   domain.Venue
// @Failure      500  {object}  response.Err
// @Router       /venues [get]
func (h *VenueHandler) HandleGetVenues(ctx *gin.Context) {
	venues, err := h.svc.GetAllVenues(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetVenues -> h.svc.GetAllVenues -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, venues)
}

// HandleGetVenue godoc
// @Summary      Get a venue by ID
// @Tags         venues
// @Produce      json
// @Param        venueID  path      int  true  "Venue ID"
// @Success      200  {object}  domain.Venue
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /venues/{venueID} [get]
func (h *VenueHandler) HandleGetVenue(ctx *gin.Context) {
	venueID, err := strconv.ParseUint(ctx.Param("venueID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid venue ID: %w", err)))
		return
	}

	venue, err := h.svc.GetVenue(ctx.Request.Context(), uint(venueID))
	if err != nil {
		if errors.Is(err, service.ErrVenueNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("venue", "ID", venueID))
			return
		}

		err = fmt.Errorf("v1.HandleGetVenue -> h.svc.GetVenue -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, venue)
}

// HandleCreateVenue godoc
// @Summary      Create a venue
// @Description  Admin only
// @Tags         venues
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateVenueRequest  true  "venue details"
// @Success      201  {object}  domain.Venue
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /venues [post]
// @Security     BearerAuth
func (h *VenueHandler) HandleCreateVenue(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	var req request.CreateVenueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	venue, err := h.svc.CreateVenue(ctx.Request.Context(), domain.Venue{
		Name:     req.Name,
		Address:  req.Address,
		Capacity: req.Capacity,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateVenue -> h.svc.CreateVenue -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, venue)
}

// HandleUpdateVenue godoc
// @Summary      Update a venue
// @Description  Admin only
// @Tags         venues
// @Accept       json
// @Produce      json
// @Param        venueID  path      int                     true  "Venue ID"
// @Param        request  body      map[string]interface{}  true  "fields to update"
// @Success      200  {object}  domain.Venue
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /venues/{venueID} [put]
// @Security     BearerAuth
func (h *VenueHandler) HandleUpdateVenue(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	venueID, err := strconv.ParseUint(ctx.Param("venueID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid venue ID: %w", err)))
		return
	}

	var updates map[string]interface{}
	if err = ctx.ShouldBindJSON(&updates); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	venue, err := h.svc.UpdateVenue(ctx.Request.Context(), uint(venueID), updates)
	if err != nil {
		if errors.Is(err, service.ErrVenueNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("venue", "ID", venueID))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateVenue -> h.svc.UpdateVenue -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, venue)
}

// HandleDeleteVenue godoc
// @Summary      Delete a venue
// @Description  Admin only
// @Tags         venues
// @Produce      json
// @Param        venueID  path  int  true  "Venue ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /venues/{venueID} [delete]
// @Security     BearerAuth
func (h *VenueHandler) HandleDeleteVenue(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	venueID, err := strconv.ParseUint(ctx.Param("venueID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid venue ID: %w", err)))
		return
	}

	if err = h.svc.DeleteVenue(ctx.Request.Context(), uint(venueID)); err != nil {
		if errors.Is(err, service.ErrVenueNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("venue", "ID", venueID))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteVenue -> h.svc.DeleteVenue -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
