package mpesa

import (
	"encoding/json"
	"errors"
)

var ErrMalformedCallback = errors.New("malformed gateway callback")

type callbackItem struct {
	Name  string          `json:"Name"`
	Value json.RawMessage `json:"Value,omitempty"`
}

type callbackEnvelope struct {
	Body *struct {
		STKCallback *struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  *struct {
				Item []callbackItem `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// CallbackResult is the normalized outcome of a provider notification.
// Succeeded carries the metadata scraped from the item list; any of those
// fields may be empty since the provider omits values freely. A non-zero
// ResultCode means the payer declined, timed out or had no funds.
type CallbackResult struct {
	Succeeded       bool
	ResultCode      int
	ResultDesc      string
	Receipt         string
	Amount          float64
	PhoneNumber     string
	TransactionDate string
}

// ParseCallback validates the envelope shape and extracts a typed result.
// All defensive parsing of the provider's loosely-typed payload lives here.
func ParseCallback(body []byte) (CallbackResult, error) {
	var envelope callbackEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return CallbackResult{}, ErrMalformedCallback
	}
	if envelope.Body == nil || envelope.Body.STKCallback == nil {
		return CallbackResult{}, ErrMalformedCallback
	}

	cb := envelope.Body.STKCallback
	result := CallbackResult{
		ResultCode: cb.ResultCode,
		ResultDesc: cb.ResultDesc,
	}

	if cb.ResultCode != 0 {
		return result, nil
	}

	result.Succeeded = true
	if cb.CallbackMetadata == nil {
		return result, nil
	}

	for _, item := range cb.CallbackMetadata.Item {
		if len(item.Value) == 0 {
			continue
		}

		switch item.Name {
		case "MpesaReceiptNumber":
			_ = json.Unmarshal(item.Value, &result.Receipt)
		case "Amount":
			_ = json.Unmarshal(item.Value, &result.Amount)
		case "PhoneNumber":
			var n json.Number
			if json.Unmarshal(item.Value, &n) == nil {
				result.PhoneNumber = n.String()
			}
		case "TransactionDate":
			var n json.Number
			if json.Unmarshal(item.Value, &n) == nil {
				result.TransactionDate = n.String()
			}
		}
	}

	return result, nil
}
