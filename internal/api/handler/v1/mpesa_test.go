package v1

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tukio-app/tukio-api/internal/pkg/mpesa"
)

type fakeMpesaService struct {
	callbackErr   error
	gotPaymentID  uint
	gotBody       []byte
	callbackCalls int
}

func (s *fakeMpesaService) InitiateSTKPush(context.Context, uint, string, float64) (*mpesa.STKPushResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeMpesaService) HandleCallback(_ context.Context, paymentID uint, body []byte) error {
	s.callbackCalls++
	s.gotPaymentID = paymentID
	s.gotBody = body

	return s.callbackErr
}

func newCallbackRouter(svc MpesaService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewMpesaHandler(svc, nil, nil, nil)

	router := gin.New()
	router.POST("/mpesa/callback", handler.HandleCallback)

	return router
}

func TestMpesaHandler_Callback(t *testing.T) {
	svc := &fakeMpesaService{}
	router := newCallbackRouter(svc)

	body := bytes.NewBufferString(`{"Body":{"stkCallback":{"ResultCode":0,"ResultDesc":"ok"}}}`)
	req := httptest.NewRequest(http.MethodPost, "/mpesa/callback?payment_id=42", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ResultCode":0,"ResultDesc":"Accepted"}`, w.Body.String())
	assert.Equal(t, 1, svc.callbackCalls)
	assert.Equal(t, uint(42), svc.gotPaymentID)
	assert.JSONEq(t, `{"Body":{"stkCallback":{"ResultCode":0,"ResultDesc":"ok"}}}`, string(svc.gotBody))
}

// The provider retries on any non-200, so delivery problems on our side must
// still be acknowledged.
func TestMpesaHandler_Callback_AlwaysOK(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		body        string
		callbackErr error
		wantCalls   int
	}{
		{
			name:      "missing payment_id",
			target:    "/mpesa/callback",
			body:      `{"Body":{"stkCallback":{"ResultCode":0}}}`,
			wantCalls: 0,
		},
		{
			name:      "non-numeric payment_id",
			target:    "/mpesa/callback?payment_id=abc",
			body:      `{"Body":{"stkCallback":{"ResultCode":0}}}`,
			wantCalls: 0,
		},
		{
			name:        "reconciliation failure",
			target:      "/mpesa/callback?payment_id=42",
			body:        `{"Body":{"stkCallback":{"ResultCode":0}}}`,
			callbackErr: errors.New("payment not found"),
			wantCalls:   1,
		},
		{
			name:        "malformed body",
			target:      "/mpesa/callback?payment_id=42",
			body:        `not json`,
			callbackErr: mpesa.ErrMalformedCallback,
			wantCalls:   1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeMpesaService{callbackErr: tc.callbackErr}
			router := newCallbackRouter(svc)

			req := httptest.NewRequest(http.MethodPost, tc.target, bytes.NewBufferString(tc.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"ResultCode":0,"ResultDesc":"Accepted"}`, w.Body.String())
			assert.Equal(t, tc.wantCalls, svc.callbackCalls)
		})
	}
}
