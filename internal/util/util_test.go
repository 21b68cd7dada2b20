package util

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	normalized, err := NormalizePhone("012 345 678", "KH")
	require.NoError(t, err)
	assert.Equal(t, "+85512345678", normalized)

	// Already E.164: region hint must not change the result.
	normalized, err = NormalizePhone("+85512345678", "US")
	require.NoError(t, err)
	assert.Equal(t, "+85512345678", normalized)

	_, err = NormalizePhone("not-a-phone", "KH")
	assert.ErrorIs(t, err, ErrInvalidPhone)

	_, err = NormalizePhone("123", "KH")
	assert.ErrorIs(t, err, ErrInvalidPhone)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "fresh-mango-1kg", Slugify("Fresh Mango  (1kg)"))
	assert.Equal(t, "cafe-au-lait", Slugify("Café au Lait"))
}

func TestParsePage(t *testing.T) {
	p := ParsePage(0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)
	assert.Equal(t, 0, p.Offset)

	p = ParsePage(3, 500)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 100, p.PageSize)
	assert.Equal(t, 200, p.Offset)
}

func TestNewOrderCode(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	code, err := NewOrderCode("ORD", now)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(code, "ORD-20260828-"))
	assert.Len(t, code, len("ORD-20260828-")+6)

	other, err := NewOrderCode("", now)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(other, "ORD-20260828-"))

	// Collisions across two draws are possible but astronomically unlikely.
	assert.NotEqual(t, code, other)
}
