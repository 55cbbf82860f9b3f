package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const (
	timestampLayout  = "20060102150405"
	accountReference = "EventBooking"
	transactionDesc  = "Ticket Payment"
)

type Config struct {
	Environment    string `mapstructure:"environment"`
	ConsumerKey    string `mapstructure:"consumer_key"`
	ConsumerSecret string `mapstructure:"consumer_secret"`
	ShortCode      string `mapstructure:"short_code"`
	Passkey        string `mapstructure:"passkey"`
	CallbackURL    string `mapstructure:"callback_url"`
	BaseURL        string `mapstructure:"base_url"` // overrides Environment when set
}

// Error is a failure reported by the gateway itself, as opposed to a
// validation failure on our side.
type Error struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *Error) Error() string {
	return fmt.Sprintf("mpesa: %v (status %v)", e.Description, e.StatusCode)
}

// Client talks to the Daraja API. The OAuth bearer token is cached and
// refreshed shortly before it expires; all calls honor the caller's context.
type Client struct {
	conf       Config
	httpClient *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time

	now func() time.Time
}

func NewClient(conf Config) *Client {
	return &Client{
		conf:       conf,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
}

func (c *Client) baseURL() string {
	if c.conf.BaseURL != "" {
		return c.conf.BaseURL
	}
	if c.conf.Environment == "production" {
		return "https://api.safaricom.co.ke"
	}

	return "https://sandbox.safaricom.co.ke"
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	url := c.baseURL() + "/oauth/v1/generate?grant_type=client_credentials"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build token request -> %w", err)
	}
	req.SetBasicAuth(c.conf.ConsumerKey, c.conf.ConsumerSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request -> %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &Error{StatusCode: resp.StatusCode, Description: "failed to obtain access token"}
	}

	var body tokenResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode token response -> %w", err)
	}

	ttl, err := strconv.Atoi(body.ExpiresIn)
	if err != nil || ttl <= 0 {
		ttl = 3599
	}

	c.token = body.AccessToken
	// Refresh a minute before the gateway invalidates it.
	c.tokenExpiry = c.now().Add(time.Duration(ttl-60) * time.Second)

	return c.token, nil
}

// GeneratePassword derives the request password from the shared shortcode
// and passkey, bound to the given timestamp.
func GeneratePassword(shortCode, passkey string, t time.Time) (password, timestamp string) {
	timestamp = t.Format(timestampLayout)
	password = base64.StdEncoding.EncodeToString([]byte(shortCode + passkey + timestamp))

	return password, timestamp
}

type stkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int    `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

// STKPushResponse is the gateway's synchronous acceptance of a push request.
// It is not proof of payment; the outcome arrives later on the callback URL.
type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

type errorResponse struct {
	RequestID    string `json:"requestId"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// InitiateSTKPush asks the gateway to prompt the subscriber's device for
// payment. The callback URL carries the payment id as a query parameter so
// the asynchronous notification can be correlated back to our record.
func (c *Client) InitiateSTKPush(ctx context.Context, phoneNumber string, amount float64, paymentID uint) (*STKPushResponse, error) {
	normalized, err := NormalizePhone(phoneNumber)
	if err != nil {
		return nil, err
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	password, timestamp := GeneratePassword(c.conf.ShortCode, c.conf.Passkey, c.now())

	payload := stkPushRequest{
		BusinessShortCode: c.conf.ShortCode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            int(math.Round(amount)),
		PartyA:            normalized,
		PartyB:            c.conf.ShortCode,
		PhoneNumber:       normalized,
		CallBackURL:       fmt.Sprintf("%v?payment_id=%d", c.conf.CallbackURL, paymentID),
		AccountReference:  accountReference,
		TransactionDesc:   transactionDesc,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal stk push request -> %w", err)
	}

	url := c.baseURL() + "/mpesa/stkpush/v1/processrequest"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build stk push request -> %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stk push request -> %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var gwErr errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&gwErr)
		if gwErr.ErrorMessage == "" {
			gwErr.ErrorMessage = "stk push rejected"
		}

		return nil, &Error{StatusCode: resp.StatusCode, Code: gwErr.ErrorCode, Description: gwErr.ErrorMessage}
	}

	var out STKPushResponse
	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode stk push response -> %w", err)
	}

	if out.ResponseCode != "0" {
		return nil, &Error{StatusCode: resp.StatusCode, Code: out.ResponseCode, Description: out.ResponseDescription}
	}

	return &out, nil
}
