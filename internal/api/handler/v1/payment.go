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

type PaymentService interface {
	CreatePayment(ctx context.Context, payment domain.Payment) (domain.Payment, error)
	GetPayment(ctx context.Context, id uint) (domain.Payment, error)
	GetPaymentByBookingID(ctx context.Context, bookingID uint) (domain.Payment, error)
	GetAllPayments(ctx context.Context) ([]domain.Payment, error)
	UpdatePayment(ctx context.Context, id uint, fields map[string]interface{}) (domain.Payment, error)
	DeletePayment(ctx context.Context, id uint) error
}

type PaymentHandler struct {
	svc  PaymentService
	bSvc BookingService
	uSvc UserService
}

func NewPaymentHandler(svc PaymentService, bSvc BookingService, uSvc UserService) *PaymentHandler {
	return &PaymentHandler{
		svc:  svc,
		bSvc: bSvc,
		uSvc: uSvc,
	}
}

// HandleCreatePayment godoc
// @Summary      Create a payment for a booking
// @Description  One payment per booking; a second create returns 409.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreatePaymentRequest  true  "payment details"
// @Success      201  {object}  domain.Payment
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /payments [post]
// @Security     BearerAuth
func (h *PaymentHandler) HandleCreatePayment(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreatePaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	booking, err := h.bSvc.GetBooking(ctx.Request.Context(), req.BookingID)
	if err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("booking", "ID", req.BookingID))
			return
		}

		err = fmt.Errorf("v1.HandleCreatePayment -> h.bSvc.GetBooking -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if !user.CanAccess(booking.UserID) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot pay for booking %v", user.ID, booking.ID)))
		return
	}

	payment, err := h.svc.CreatePayment(ctx.Request.Context(), domain.Payment{
		BookingID:     req.BookingID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentExists):
			response.RenderErr(ctx, response.ErrConflict(service.ErrPaymentExists))
		case errors.Is(err, service.ErrBookingNotFound):
			response.RenderErr(ctx, response.ErrNotFound("booking", "ID", req.BookingID))
		default:
			err = fmt.Errorf("v1.HandleCreatePayment -> h.svc.CreatePayment -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, payment)
}

// HandleGetPayments godoc
// @Summary      List all payments
// @Description  Admin only
// @Tags         payments
// @Produce      json
// @Success      200  {array}   domain.Payment
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /payments [get]
// @Security     BearerAuth
func (h *PaymentHandler) HandleGetPayments(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	payments, err := h.svc.GetAllPayments(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetPayments -> h.svc.GetAllPayments -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, payments)
}

// HandleGetPayment godoc
// @Summary      Get a payment by ID
// @Description  Accessible to the booking's owner or an admin
// @Tags         payments
// @Produce      json
// @Param        paymentID  path      int  true  "Payment ID"
// @Success      200  {object}  domain.Payment
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /payments/{paymentID} [get]
// @Security     BearerAuth
func (h *PaymentHandler) HandleGetPayment(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	paymentID, err := strconv.ParseUint(ctx.Param("paymentID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid payment ID: %w", err)))
		return
	}

	payment, err := h.svc.GetPayment(ctx.Request.Context(), uint(paymentID))
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("payment", "ID", paymentID))
			return
		}

		err = fmt.Errorf("v1.HandleGetPayment -> h.svc.GetPayment -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if respErr := h.authorizePaymentAccess(ctx, user, payment); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ctx.JSON(http.StatusOK, payment)
}

// HandleGetPaymentByBooking godoc
// @Summary      Get the payment for a booking
// @Description  Accessible to the booking's owner or an admin
// @Tags         payments
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200  {object}  domain.Payment
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /bookings/{bookingID}/payment [get]
// @Security     BearerAuth
func (h *PaymentHandler) HandleGetPaymentByBooking(ctx *gin.Context) {
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

	payment, err := h.svc.GetPaymentByBookingID(ctx.Request.Context(), uint(bookingID))
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("payment", "bookingID", bookingID))
			return
		}

		err = fmt.Errorf("v1.HandleGetPaymentByBooking -> h.svc.GetPaymentByBookingID -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if respErr := h.authorizePaymentAccess(ctx, user, payment); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ctx.JSON(http.StatusOK, payment)
}

// HandleUpdatePayment godoc
// @Summary      Update a payment
// @Description  Admin only. Gateway reconciliation owns status transitions.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        paymentID  path      int                     true  "Payment ID"
// @Param        request    body      map[string]interface{}  true  "fields to update"
// @Success      200  {object}  domain.Payment
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /payments/{paymentID} [put]
// @Security     BearerAuth
func (h *PaymentHandler) HandleUpdatePayment(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	paymentID, err := strconv.ParseUint(ctx.Param("paymentID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid payment ID: %w", err)))
		return
	}

	var updates map[string]interface{}
	if err = ctx.ShouldBindJSON(&updates); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	payment, err := h.svc.UpdatePayment(ctx.Request.Context(), uint(paymentID), updates)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("payment", "ID", paymentID))
			return
		}

		err = fmt.Errorf("v1.HandleUpdatePayment -> h.svc.UpdatePayment -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, payment)
}

// HandleDeletePayment godoc
// @Summary      Delete a payment
// @Description  Admin only
// @Tags         payments
// @Produce      json
// @Param        paymentID  path  int  true  "Payment ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /payments/{paymentID} [delete]
// @Security     BearerAuth
func (h *PaymentHandler) HandleDeletePayment(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	paymentID, err := strconv.ParseUint(ctx.Param("paymentID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid payment ID: %w", err)))
		return
	}

	if err = h.svc.DeletePayment(ctx.Request.Context(), uint(paymentID)); err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("payment", "ID", paymentID))
			return
		}

		err = fmt.Errorf("v1.HandleDeletePayment -> h.svc.DeletePayment -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// authorizePaymentAccess checks the owner-or-admin rule through the payment's
// booking, since payments do not carry a user ID themselves.
func (h *PaymentHandler) authorizePaymentAccess(ctx *gin.Context, user domain.User, payment domain.Payment) *response.Err {
	if user.IsAdmin() {
		return nil
	}

	booking, err := h.bSvc.GetBooking(ctx.Request.Context(), payment.BookingID)
	if err != nil {
		err = fmt.Errorf("v1.authorizePaymentAccess -> h.bSvc.GetBooking -> %w", err)
		return response.ErrInternalServerError(err)
	}

	if !user.CanAccess(booking.UserID) {
		return response.ErrPermissionDenied(fmt.Errorf("user %v cannot access payment %v", user.ID, payment.ID))
	}

	return nil
}
