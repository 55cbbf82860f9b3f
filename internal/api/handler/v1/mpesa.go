package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tukio-app/tukio-api/internal/api/handler/v1/request"
	"github.com/tukio-app/tukio-api/internal/api/handler/v1/response"
	"github.com/tukio-app/tukio-api/internal/domain"
	"github.com/tukio-app/tukio-api/internal/pkg/mpesa"
	"github.com/tukio-app/tukio-api/internal/service"
)

type MpesaService interface {
	InitiateSTKPush(ctx context.Context, paymentID uint, phoneNumber string, amount float64) (*mpesa.STKPushResponse, error)
	HandleCallback(ctx context.Context, paymentID uint, body []byte) error
}

type MpesaHandler struct {
	svc  MpesaService
	pSvc PaymentService
	bSvc BookingService
	uSvc UserService
}

func NewMpesaHandler(svc MpesaService, pSvc PaymentService, bSvc BookingService, uSvc UserService) *MpesaHandler {
	return &MpesaHandler{
		svc:  svc,
		pSvc: pSvc,
		bSvc: bSvc,
		uSvc: uSvc,
	}
}

// HandleSTKPush godoc
// @Summary      Initiate an M-Pesa STK push
// @Description  Prompts the payer's phone for the given payment. Acceptance is provisional; the outcome arrives on the callback.
// @Tags         mpesa
// @Accept       json
// @Produce      json
// @Param        request  body      request.STKPushRequest  true  "push details"
// @Success      200  {object}  mpesa.STKPushResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      502  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /mpesa/stkpush [post]
// @Security     BearerAuth
func (h *MpesaHandler) HandleSTKPush(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.STKPushRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	payment, err := h.pSvc.GetPayment(ctx.Request.Context(), req.PaymentID)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("payment", "ID", req.PaymentID))
			return
		}

		err = fmt.Errorf("v1.HandleSTKPush -> h.pSvc.GetPayment -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if respErr := h.authorizePushAccess(ctx, user, payment); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	resp, err := h.svc.InitiateSTKPush(ctx.Request.Context(), req.PaymentID, req.PhoneNumber, req.Amount)
	if err != nil {
		var gatewayErr *mpesa.Error

		switch {
		case errors.Is(err, service.ErrInvalidPhone):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrPaymentNotFound):
			response.RenderErr(ctx, response.ErrNotFound("payment", "ID", req.PaymentID))
		case errors.As(err, &gatewayErr):
			zap.L().Warn("stk push rejected by gateway",
				zap.Uint("payment_id", req.PaymentID),
				zap.String("code", gatewayErr.Code),
				zap.String("description", gatewayErr.Description),
			)
			response.RenderErr(ctx, response.NewErr(http.StatusBadGateway, errors.New("payment gateway rejected the request")))
		default:
			err = fmt.Errorf("v1.HandleSTKPush -> h.svc.InitiateSTKPush -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// HandleCallback godoc
// @Summary      M-Pesa payment callback
// @Description  Receives the asynchronous payment outcome from the gateway. Always responds 200 so the provider does not retry indefinitely.
// @Tags         mpesa
// @Accept       json
// @Produce      json
// @Param        payment_id  query  int  true  "Payment ID"
// @Success      200
// @Router       /mpesa/callback [post]
func (h *MpesaHandler) HandleCallback(ctx *gin.Context) {
	// The provider treats any non-200 as a delivery failure and retries, so
	// errors are logged and swallowed rather than surfaced.
	paymentID, err := strconv.ParseUint(ctx.Query("payment_id"), 10, 64)
	if err != nil {
		zap.L().Warn("callback with invalid payment_id", zap.String("payment_id", ctx.Query("payment_id")))
		h.acknowledge(ctx)
		return
	}

	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		zap.L().Warn("callback body unreadable", zap.Error(err))
		h.acknowledge(ctx)
		return
	}

	if err = h.svc.HandleCallback(ctx.Request.Context(), uint(paymentID), body); err != nil {
		zap.L().Warn("callback not reconciled",
			zap.Uint64("payment_id", paymentID),
			zap.Error(err),
		)
	}

	h.acknowledge(ctx)
}

func (h *MpesaHandler) acknowledge(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"ResultCode": 0,
		"ResultDesc": "Accepted",
	})
}

func (h *MpesaHandler) authorizePushAccess(ctx *gin.Context, user domain.User, payment domain.Payment) *response.Err {
	if user.IsAdmin() {
		return nil
	}

	booking, err := h.bSvc.GetBooking(ctx.Request.Context(), payment.BookingID)
	if err != nil {
		err = fmt.Errorf("v1.authorizePushAccess -> h.bSvc.GetBooking -> %w", err)
		return response.ErrInternalServerError(err)
	}

	if !user.CanAccess(booking.UserID) {
		return response.ErrPermissionDenied(fmt.Errorf("user %v cannot pay for booking %v", user.ID, booking.ID))
	}

	return nil
}
