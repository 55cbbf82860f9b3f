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

type BookingService interface {
	CreateBooking(ctx context.Context, booking domain.Booking) (domain.Booking, error)
	GetBooking(ctx context.Context, id uint) (domain.Booking, error)
	GetAllBookings(ctx context.Context) ([]domain.Booking, error)
	GetBookingsByUserID(ctx context.Context, userID uint) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id uint, status domain.BookingStatus, actor domain.User) (domain.Booking, error)
	UpdateBooking(ctx context.Context, id uint, updates map[string]interface{}, actor domain.User) (domain.Booking, error)
	DeleteBooking(ctx context.Context, id uint, actor domain.User) error
}

type BookingHandler struct {
	svc  BookingService
	uSvc UserService
}

func NewBookingHandler(svc BookingService, uSvc UserService) *BookingHandler {
	return &BookingHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCreateBooking godoc
// @Summary      Create a booking
// @Description  Creates a Pending booking for the authenticated user. No tickets are committed until the booking is confirmed.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateBookingRequest  true  "booking details"
// @Success      201  {object}  domain.Booking
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /bookings [post]
// @Security     BearerAuth
func (h *BookingHandler) HandleCreateBooking(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	booking, err := h.svc.CreateBooking(ctx.Request.Context(), domain.Booking{
		UserID:      user.ID,
		EventID:     req.EventID,
		Quantity:    req.Quantity,
		TotalAmount: req.TotalAmount,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", req.EventID))
		case errors.Is(err, service.ErrCapacityExceeded):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrInvalidStatus):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleCreateBooking -> h.svc.CreateBooking -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, booking)
}

// HandleGetBookings godoc
// @Summary      List all bookings
// @Description  Admin only
// @Tags         bookings
// @Produce      json
// @Success      200  {array}   domain.Booking
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /bookings [get]
// @Security     BearerAuth
func (h *BookingHandler) HandleGetBookings(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	bookings, err := h.svc.GetAllBookings(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetBookings -> h.svc.GetAllBookings -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, bookings)
}

// HandleGetBooking godoc
// @Summary      Get a booking by ID
// @Description  Owner or admin only
// @Tags         bookings
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200  {object}  domain.Booking
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /bookings/{bookingID} [get]
// @Security     BearerAuth
func (h *BookingHandler) HandleGetBooking(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	bookingID, err := strconv.ParseUint(ctx.Param("bookingID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid booking ID: %w", err)))
		return
	}

	booking, err := h.svc.GetBooking(ctx.Request.Context(), uint(bookingID))
	if err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("booking", "ID", bookingID))
			return
		}

		err = fmt.Errorf("v1.HandleGetBooking -> h.svc.GetBooking -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if !user.CanAccess(booking.UserID) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot access booking %v", user.ID, bookingID)))
		return
	}

	ctx.JSON(http.StatusOK, booking)
}

// HandleGetBookingsByUser godoc
// @Summary      List bookings for a user
// @Description  Owner or admin only
// @Tags         bookings
// @Produce      json
// @Param        userID  path      int  true  "User ID"
// @Success      200  {array}   domain.Booking
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/{userID}/bookings [get]
// @Security     BearerAuth
func (h *BookingHandler) HandleGetBookingsByUser(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
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
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot access bookings of user %v", user.ID, userID)))
		return
	}

	bookings, err := h.svc.GetBookingsByUserID(ctx.Request.Context(), uint(userID))
	if err != nil {
		err = fmt.Errorf("v1.HandleGetBookingsByUser -> h.svc.GetBookingsByUserID -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, bookings)
}

// HandleUpdateBookingStatus godoc
// @Summary      Transition a booking's status
// @Description  Confirming commits tickets against the event's capacity; cancelling a confirmed booking releases them. Owner or admin only.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        bookingID  path      int                                 true  "Booking ID"
// @Param        request    body      request.UpdateBookingStatusRequest  true  "target status"
// @Success      200  {object}  domain.Booking
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /bookings/{bookingID}/status [patch]
// @Security     BearerAuth
func (h *BookingHandler) HandleUpdateBookingStatus(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	bookingID, err := strconv.ParseUint(ctx.Param("bookingID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid booking ID: %w", err)))
		return
	}

	var req request.UpdateBookingStatusRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	booking, err := h.svc.UpdateStatus(ctx.Request.Context(), uint(bookingID), domain.BookingStatus(req.Status), user)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookingNotFound):
			response.RenderErr(ctx, response.ErrNotFound("booking", "ID", bookingID))
		case errors.Is(err, service.ErrAccessDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrCapacityExceeded):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrInvalidStatus):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleUpdateBookingStatus -> h.svc.UpdateStatus -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, booking)
}

// HandleUpdateBooking godoc
// @Summary      Update a booking
// @Description  Owner or admin only. Status, quantity and ownership cannot be changed here.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        bookingID  path      int                     true  "Booking ID"
// @Param        request    body      map[string]interface{}  true  "fields to update"
// @Success      200  {object}  domain.Booking
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /bookings/{bookingID} [put]
// @Security     BearerAuth
func (h *BookingHandler) HandleUpdateBooking(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	bookingID, err := strconv.ParseUint(ctx.Param("bookingID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid booking ID: %w", err)))
		return
	}

	var updates map[string]interface{}
	if err = ctx.ShouldBindJSON(&updates); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	booking, err := h.svc.UpdateBooking(ctx.Request.Context(), uint(bookingID), updates, user)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookingNotFound):
			response.RenderErr(ctx, response.ErrNotFound("booking", "ID", bookingID))
		case errors.Is(err, service.ErrAccessDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleUpdateBooking -> h.svc.UpdateBooking -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, booking)
}

// HandleDeleteBooking godoc
// @Summary      Delete a booking
// @Description  Owner or admin only. Deleting a confirmed booking releases its tickets.
// @Tags         bookings
// @Produce      json
// @Param        bookingID  path  int  true  "Booking ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /bookings/{bookingID} [delete]
// @Security     BearerAuth
func (h *BookingHandler) HandleDeleteBooking(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	bookingID, err := strconv.ParseUint(ctx.Param("bookingID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid booking ID: %w", err)))
		return
	}

	if err = h.svc.DeleteBooking(ctx.Request.Context(), uint(bookingID), user); err != nil {
		switch {
		case errors.Is(err, service.ErrBookingNotFound):
			response.RenderErr(ctx, response.ErrNotFound("booking", "ID", bookingID))
		case errors.Is(err, service.ErrAccessDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleDeleteBooking -> h.svc.DeleteBooking -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Booking deleted successfully"})
}
