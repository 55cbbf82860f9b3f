package mpesa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallback_Success(t *testing.T) {
	body := []byte(`{
		"Body": {
			"stkCallback": {
				"MerchantRequestID": "29115-34620561-1",
				"CheckoutRequestID": "ws_CO_191220191020363925",
				"ResultCode": 0,
				"ResultDesc": "The service request is processed successfully.",
				"CallbackMetadata": {
					"Item": [
						{"Name": "Amount", "Value": 1500.00},
						{"Name": "MpesaReceiptNumber", "Value": "NLJ7RT61SV"},
						{"Name": "TransactionDate", "Value": 20261001143022},
						{"Name": "PhoneNumber", "Value": 254712345678}
					]
				}
			}
		}
	}`)

	result, err := ParseCallback(body)

	require.NoError(t, err)
	assert.True(t, result.Succeeded)
	assert.Equal(t, 0, result.ResultCode)
	assert.Equal(t, "NLJ7RT61SV", result.Receipt)
	assert.Equal(t, 1500.0, result.Amount)
	assert.Equal(t, "254712345678", result.PhoneNumber)
	assert.Equal(t, "20261001143022", result.TransactionDate)
}

func TestParseCallback_Failure(t *testing.T) {
	body := []byte(`{
		"Body": {
			"stkCallback": {
				"MerchantRequestID": "29115-34620561-1",
				"CheckoutRequestID": "ws_CO_191220191020363925",
				"ResultCode": 1032,
				"ResultDesc": "Request cancelled by user."
			}
		}
	}`)

	result, err := ParseCallback(body)

	require.NoError(t, err)
	assert.False(t, result.Succeeded)
	assert.Equal(t, 1032, result.ResultCode)
	assert.Equal(t, "Request cancelled by user.", result.ResultDesc)
	assert.Empty(t, result.Receipt)
}

func TestParseCallback_SuccessWithoutMetadata(t *testing.T) {
	body := []byte(`{
		"Body": {
			"stkCallback": {
				"ResultCode": 0,
				"ResultDesc": "Processed"
			}
		}
	}`)

	result, err := ParseCallback(body)

	require.NoError(t, err)
	assert.True(t, result.Succeeded)
	assert.Empty(t, result.Receipt)
}

func TestParseCallback_ItemsWithMissingValues(t *testing.T) {
	body := []byte(`{
		"Body": {
			"stkCallback": {
				"ResultCode": 0,
				"ResultDesc": "Processed",
				"CallbackMetadata": {
					"Item": [
						{"Name": "Amount"},
						{"Name": "MpesaReceiptNumber", "Value": "NLJ7RT61SV"},
						{"Name": "Balance"}
					]
				}
			}
		}
	}`)

	result, err := ParseCallback(body)

	require.NoError(t, err)
	assert.Equal(t, "NLJ7RT61SV", result.Receipt)
	assert.Zero(t, result.Amount)
}

func TestParseCallback_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "not json at all"},
		{"empty object", "{}"},
		{"missing stkCallback", `{"Body":{}}`},
		{"null body", `{"Body":null}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCallback([]byte(tc.body))

			assert.ErrorIs(t, err, ErrMalformedCallback)
		})
	}
}
