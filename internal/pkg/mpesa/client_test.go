package mpesa

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePassword(t *testing.T) {
	at := time.Date(2026, 10, 1, 14, 30, 22, 0, time.UTC)

	password, timestamp := GeneratePassword("174379", "passkey123", at)

	assert.Equal(t, "20261001143022", timestamp)
	// base64("174379" + "passkey123" + "20261001143022")
	assert.Equal(t, "MTc0Mzc5cGFzc2tleTEyMzIwMjYxMDAxMTQzMDIy", password)
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		ShortCode:      "174379",
		Passkey:        "passkey123",
		CallbackURL:    "https://example.com/api/v1/mpesa/callback",
		BaseURL:        srv.URL,
	})
}

func TestClient_InitiateSTKPush(t *testing.T) {
	var pushReq stkPushRequest

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)

		_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: "token-1", ExpiresIn: "3599"})
	})
	mux.HandleFunc("/mpesa/stkpush/v1/processrequest", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&pushReq))

		_ = json.NewEncoder(w).Encode(STKPushResponse{
			MerchantRequestID: "29115-34620561-1",
			CheckoutRequestID: "ws_CO_191220191020363925",
			ResponseCode:      "0",
		})
	})

	c := newTestClient(t, mux)

	resp, err := c.InitiateSTKPush(context.Background(), "0712345678", 1500, 42)

	require.NoError(t, err)
	assert.Equal(t, "ws_CO_191220191020363925", resp.CheckoutRequestID)

	assert.Equal(t, "254712345678", pushReq.PhoneNumber)
	assert.Equal(t, "254712345678", pushReq.PartyA)
	assert.Equal(t, "174379", pushReq.BusinessShortCode)
	assert.Equal(t, "CustomerPayBillOnline", pushReq.TransactionType)
	assert.Equal(t, 1500, pushReq.Amount)
	assert.Equal(t, "https://example.com/api/v1/mpesa/callback?payment_id=42", pushReq.CallBackURL)
}

func TestClient_InitiateSTKPush_InvalidPhone(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an invalid phone number")
	}))

	_, err := c.InitiateSTKPush(context.Background(), "12345", 1500, 1)

	assert.ErrorIs(t, err, ErrInvalidPhone)
}

func TestClient_InitiateSTKPush_GatewayRejection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: "token-1", ExpiresIn: "3599"})
	})
	mux.HandleFunc("/mpesa/stkpush/v1/processrequest", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(errorResponse{ErrorCode: "400.002.02", ErrorMessage: "Bad Request - Invalid Amount"})
	})

	c := newTestClient(t, mux)

	_, err := c.InitiateSTKPush(context.Background(), "0712345678", 1500, 1)

	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, http.StatusBadRequest, gwErr.StatusCode)
	assert.Equal(t, "400.002.02", gwErr.Code)
}

func TestClient_TokenCaching(t *testing.T) {
	tokenCalls := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: "token-1", ExpiresIn: "3599"})
	})
	mux.HandleFunc("/mpesa/stkpush/v1/processrequest", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(STKPushResponse{CheckoutRequestID: "x", ResponseCode: "0"})
	})

	c := newTestClient(t, mux)

	_, err := c.InitiateSTKPush(context.Background(), "0712345678", 100, 1)
	require.NoError(t, err)
	_, err = c.InitiateSTKPush(context.Background(), "0712345678", 100, 2)
	require.NoError(t, err)

	assert.Equal(t, 1, tokenCalls)
}

func TestClient_TokenRefreshAfterExpiry(t *testing.T) {
	tokenCalls := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: "token-1", ExpiresIn: "3599"})
	})
	mux.HandleFunc("/mpesa/stkpush/v1/processrequest", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(STKPushResponse{CheckoutRequestID: "x", ResponseCode: "0"})
	})

	c := newTestClient(t, mux)

	current := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	_, err := c.InitiateSTKPush(context.Background(), "0712345678", 100, 1)
	require.NoError(t, err)

	// Jump past the refresh horizon; the next call must fetch a new token.
	current = current.Add(time.Hour)

	_, err = c.InitiateSTKPush(context.Background(), "0712345678", 100, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, tokenCalls)
}
