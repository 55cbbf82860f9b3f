package mpesa

import (
	"errors"
	"strings"

	"github.com/dlclark/regexp2"
)

var ErrInvalidPhone = errors.New("invalid phone number format")

// Safaricom subscriber numbers: country code 254, operator prefix 7, eight digits.
var subscriberPattern = regexp2.MustCompile(`^2547\d{8}$`, regexp2.None)

// NormalizePhone rewrites the common spellings of a Kenyan mobile number
// (07XXXXXXXX, +2547XXXXXXXX, 7XXXXXXXX) into the canonical 2547XXXXXXXX
// form the gateway expects.
func NormalizePhone(input string) (string, error) {
	phone := strings.ReplaceAll(strings.TrimSpace(input), " ", "")
	phone = strings.TrimPrefix(phone, "+")

	switch {
	case strings.HasPrefix(phone, "0"):
		phone = "254" + phone[1:]
	case strings.HasPrefix(phone, "7"):
		phone = "254" + phone
	}

	ok, err := subscriberPattern.MatchString(phone)
	if err != nil || !ok {
		return "", ErrInvalidPhone
	}

	return phone, nil
}
