package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tukio-app/tukio-api/internal/domain"
	"github.com/tukio-app/tukio-api/internal/pkg/mpesa"
)

var (
	ErrInvalidPhone      = mpesa.ErrInvalidPhone
	ErrMalformedCallback = mpesa.ErrMalformedCallback
)

// gatewayTimeout bounds the two sequential network calls (token fetch, push
// submission) behind a single initiation. A timeout means the outcome is
// unknown, not that the payment failed.
const gatewayTimeout = 30 * time.Second

type STKPusher interface {
	InitiateSTKPush(ctx context.Context, phoneNumber string, amount float64, paymentID uint) (*mpesa.STKPushResponse, error)
}

// MpesaService owns the push-payment flow: initiation against the gateway
// and reconciliation of the asynchronous callbacks it sends back.
type MpesaService struct {
	gateway     STKPusher
	paymentRepo PaymentRepository
}

func NewMpesaService(gateway STKPusher, paymentRepo PaymentRepository) *MpesaService {
	return &MpesaService{
		gateway:     gateway,
		paymentRepo: paymentRepo,
	}
}

// InitiateSTKPush validates the target payment, asks the gateway to prompt
// the payer's device and records the provisional tracking id. Acceptance by
// the gateway is not success; only the callback settles the outcome.
func (s *MpesaService) InitiateSTKPush(ctx context.Context, paymentID uint, phoneNumber string, amount float64) (*mpesa.STKPushResponse, error) {
	if _, err := s.paymentRepo.FindByID(ctx, paymentID); err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			return nil, ErrPaymentNotFound
		}

		return nil, fmt.Errorf("s.paymentRepo.FindByID -> %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()

	resp, err := s.gateway.InitiateSTKPush(ctx, phoneNumber, amount, paymentID)
	if err != nil {
		return nil, err
	}

	_, err = s.paymentRepo.UpdateFields(ctx, paymentID, map[string]interface{}{
		"payment_status": string(domain.PaymentStatusProcessing),
		"payment_method": "M-Pesa",
		"transaction_id": resp.CheckoutRequestID,
	})
	if err != nil {
		return nil, fmt.Errorf("s.paymentRepo.UpdateFields -> %w", err)
	}

	zap.L().Info("stk push accepted",
		zap.Uint("payment_id", paymentID),
		zap.String("checkout_request_id", resp.CheckoutRequestID),
	)

	return resp, nil
}

// HandleCallback reconciles a provider notification with the payment record.
// The provider may deliver the same outcome more than once; every branch
// below writes the same values on a replay, so duplicates are harmless.
// Booking confirmation is deliberately not triggered from here - it stays a
// separate client action on top of an observed Completed payment.
func (s *MpesaService) HandleCallback(ctx context.Context, paymentID uint, body []byte) error {
	result, err := mpesa.ParseCallback(body)
	if err != nil {
		return fmt.Errorf("mpesa.ParseCallback -> %w", err)
	}

	if _, err = s.paymentRepo.FindByID(ctx, paymentID); err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			return ErrPaymentNotFound
		}

		return fmt.Errorf("s.paymentRepo.FindByID -> %w", err)
	}

	if !result.Succeeded {
		_, err = s.paymentRepo.UpdateFields(ctx, paymentID, map[string]interface{}{
			"payment_status": string(domain.PaymentStatusFailed),
		})
		if err != nil {
			return fmt.Errorf("s.paymentRepo.UpdateFields -> %w", err)
		}

		zap.L().Info("payment failed at gateway",
			zap.Uint("payment_id", paymentID),
			zap.Int("result_code", result.ResultCode),
			zap.String("result_desc", result.ResultDesc),
		)

		return nil
	}

	if result.Receipt == "" {
		// Success without a receipt is no proof of payment. Leave the
		// record alone and flag it for investigation.
		zap.L().Warn("gateway reported success without a receipt number",
			zap.Uint("payment_id", paymentID),
		)

		return nil
	}

	_, err = s.paymentRepo.UpdateFields(ctx, paymentID, map[string]interface{}{
		"payment_status": string(domain.PaymentStatusCompleted),
		"transaction_id": result.Receipt,
	})
	if err != nil {
		return fmt.Errorf("s.paymentRepo.UpdateFields -> %w", err)
	}

	zap.L().Info("payment completed",
		zap.Uint("payment_id", paymentID),
		zap.String("receipt", result.Receipt),
		zap.Float64("amount", result.Amount),
	)

	return nil
}
