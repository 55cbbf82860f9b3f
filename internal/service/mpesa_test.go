package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tukio-app/tukio-api/internal/domain"
	"github.com/tukio-app/tukio-api/internal/pkg/mpesa"
)

type fakeGateway struct {
	resp     *mpesa.STKPushResponse
	err      error
	gotPhone string
	gotID    uint
	calls    int
}

func (g *fakeGateway) InitiateSTKPush(_ context.Context, phoneNumber string, _ float64, paymentID uint) (*mpesa.STKPushResponse, error) {
	g.calls++
	g.gotPhone = phoneNumber
	g.gotID = paymentID
	if g.err != nil {
		return nil, g.err
	}

	return g.resp, nil
}

const successCallback = `{
	"Body": {
		"stkCallback": {
			"MerchantRequestID": "29115-34620561-1",
			"CheckoutRequestID": "ws_CO_191220191020363925",
			"ResultCode": 0,
			"ResultDesc": "The service request is processed successfully.",
			"CallbackMetadata": {
				"Item": [
					{"Name": "Amount", "Value": 4500.00},
					{"Name": "MpesaReceiptNumber", "Value": "NLJ7RT61SV"},
					{"Name": "TransactionDate", "Value": 20261001143022},
					{"Name": "PhoneNumber", "Value": 254712345678}
				]
			}
		}
	}
}`

const failedCallback = `{
	"Body": {
		"stkCallback": {
			"MerchantRequestID": "29115-34620561-1",
			"CheckoutRequestID": "ws_CO_191220191020363925",
			"ResultCode": 1032,
			"ResultDesc": "Request cancelled by user."
		}
	}
}`

const receiptlessCallback = `{
	"Body": {
		"stkCallback": {
			"MerchantRequestID": "29115-34620561-1",
			"CheckoutRequestID": "ws_CO_191220191020363925",
			"ResultCode": 0,
			"ResultDesc": "The service request is processed successfully.",
			"CallbackMetadata": {
				"Item": [
					{"Name": "Amount", "Value": 4500.00}
				]
			}
		}
	}
}`

func newMpesaFixture(t *testing.T, gateway *fakeGateway) (*MpesaService, *fakePaymentRepo, domain.Payment) {
	t.Helper()

	paymentRepo := newFakePaymentRepo()
	payment, err := paymentRepo.Create(context.Background(), domain.Payment{
		BookingID: 1,
		Amount:    4500,
		Status:    domain.PaymentStatusPending,
	})
	require.NoError(t, err)

	return NewMpesaService(gateway, paymentRepo), paymentRepo, payment
}

func TestMpesaService_InitiateSTKPush(t *testing.T) {
	gateway := &fakeGateway{
		resp: &mpesa.STKPushResponse{
			MerchantRequestID: "29115-34620561-1",
			CheckoutRequestID: "ws_CO_191220191020363925",
			ResponseCode:      "0",
		},
	}
	svc, paymentRepo, payment := newMpesaFixture(t, gateway)

	resp, err := svc.InitiateSTKPush(context.Background(), payment.ID, "0712345678", 4500)

	require.NoError(t, err)
	assert.Equal(t, "ws_CO_191220191020363925", resp.CheckoutRequestID)
	assert.Equal(t, payment.ID, gateway.gotID)

	stored, err := paymentRepo.FindByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusProcessing, stored.Status)
	assert.Equal(t, "M-Pesa", stored.PaymentMethod)
	assert.Equal(t, "ws_CO_191220191020363925", stored.TransactionID)
}

func TestMpesaService_InitiateSTKPush_PaymentNotFound(t *testing.T) {
	gateway := &fakeGateway{}
	svc, _, _ := newMpesaFixture(t, gateway)

	_, err := svc.InitiateSTKPush(context.Background(), 99, "0712345678", 100)

	assert.ErrorIs(t, err, ErrPaymentNotFound)
	assert.Zero(t, gateway.calls)
}

func TestMpesaService_InitiateSTKPush_GatewayError(t *testing.T) {
	gatewayErr := &mpesa.Error{StatusCode: 400, Code: "1", Description: "Invalid Amount"}
	gateway := &fakeGateway{err: gatewayErr}
	svc, paymentRepo, payment := newMpesaFixture(t, gateway)

	_, err := svc.InitiateSTKPush(context.Background(), payment.ID, "0712345678", 4500)

	var mpesaErr *mpesa.Error
	require.ErrorAs(t, err, &mpesaErr)

	// A rejected push leaves the record as it was.
	stored, err := paymentRepo.FindByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, stored.Status)
	assert.Empty(t, stored.TransactionID)
}

func TestMpesaService_HandleCallback_Success(t *testing.T) {
	svc, paymentRepo, payment := newMpesaFixture(t, &fakeGateway{})

	err := svc.HandleCallback(context.Background(), payment.ID, []byte(successCallback))

	require.NoError(t, err)

	stored, err := paymentRepo.FindByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, stored.Status)
	assert.Equal(t, "NLJ7RT61SV", stored.TransactionID)
}

func TestMpesaService_HandleCallback_Failure(t *testing.T) {
	svc, paymentRepo, payment := newMpesaFixture(t, &fakeGateway{})

	_, err := paymentRepo.UpdateFields(context.Background(), payment.ID, map[string]interface{}{
		"payment_status": string(domain.PaymentStatusProcessing),
		"transaction_id": "ws_CO_191220191020363925",
	})
	require.NoError(t, err)

	err = svc.HandleCallback(context.Background(), payment.ID, []byte(failedCallback))

	require.NoError(t, err)

	stored, err := paymentRepo.FindByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusFailed, stored.Status)
	// The tracking id from initiation stays as the audit trail.
	assert.Equal(t, "ws_CO_191220191020363925", stored.TransactionID)
}

func TestMpesaService_HandleCallback_SuccessWithoutReceipt(t *testing.T) {
	svc, paymentRepo, payment := newMpesaFixture(t, &fakeGateway{})

	err := svc.HandleCallback(context.Background(), payment.ID, []byte(receiptlessCallback))

	require.NoError(t, err)

	// Anomaly: reported success but no proof of payment. Record untouched.
	stored, err := paymentRepo.FindByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, stored.Status)
	assert.Empty(t, stored.TransactionID)
}

func TestMpesaService_HandleCallback_Replay(t *testing.T) {
	svc, paymentRepo, payment := newMpesaFixture(t, &fakeGateway{})

	require.NoError(t, svc.HandleCallback(context.Background(), payment.ID, []byte(successCallback)))
	require.NoError(t, svc.HandleCallback(context.Background(), payment.ID, []byte(successCallback)))

	stored, err := paymentRepo.FindByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, stored.Status)
	assert.Equal(t, "NLJ7RT61SV", stored.TransactionID)
}

func TestMpesaService_HandleCallback_Malformed(t *testing.T) {
	svc, _, payment := newMpesaFixture(t, &fakeGateway{})

	err := svc.HandleCallback(context.Background(), payment.ID, []byte(`{"Body":{}}`))

	assert.ErrorIs(t, err, ErrMalformedCallback)
}

func TestMpesaService_HandleCallback_PaymentNotFound(t *testing.T) {
	svc, _, _ := newMpesaFixture(t, &fakeGateway{})

	err := svc.HandleCallback(context.Background(), 99, []byte(successCallback))

	assert.ErrorIs(t, err, ErrPaymentNotFound)
	assert.False(t, errors.Is(err, ErrMalformedCallback))
}
