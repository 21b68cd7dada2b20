package util

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Unambiguous base36-ish alphabet for human-readable order codes.
const orderCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const orderCodeSuffixLen = 6

// NewOrderCode builds a human-readable order code: PREFIX-YYYYMMDD-XXXXXX.
// The suffix is random; uniqueness is enforced by the orders table constraint,
// with callers regenerating on collision.
func NewOrderCode(prefix string, now time.Time) (string, error) {
	if prefix == "" {
		prefix = "ORD"
	}

	buf := make([]byte, orderCodeSuffixLen)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to read random bytes for order code")
	}
	for i, b := range buf {
		buf[i] = orderCodeAlphabet[int(b)%len(orderCodeAlphabet)]
	}

	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), string(buf)), nil
}
