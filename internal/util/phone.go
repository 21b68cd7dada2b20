// Package util holds small shared helpers with no domain dependencies.
package util

import (
	"github.com/nyaruka/phonenumbers"
	"github.com/pkg/errors"
)

// ErrInvalidPhone is returned when a phone number cannot be parsed or is not valid.
var ErrInvalidPhone = errors.New("invalid phone number")

// NormalizePhone parses input and returns it in E.164 form, e.g. "+85512345678".
// defaultRegion is the ISO region used when the input carries no country prefix.
func NormalizePhone(input, defaultRegion string) (string, error) {
	parsed, err := phonenumbers.Parse(input, defaultRegion)
	if err != nil {
		return "", errors.Wrap(ErrInvalidPhone, err.Error())
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", ErrInvalidPhone
	}

	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}
