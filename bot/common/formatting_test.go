package common

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount   string
		expected string
	}{
		{"0", "ETB 0.00"},
		{"24", "ETB 24.00"},
		{"6.4", "ETB 6.40"},
		{"1234.56", "ETB 1234.56"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatMoney(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestFormatDrawRef(t *testing.T) {
	id := uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")
	assert.Equal(t, "#f90ae7", FormatDrawRef(id))
}

func TestFormatDiscordTimestamp(t *testing.T) {
	ts := time.Unix(1767225600, 0)
	assert.Equal(t, "<t:1767225600:R>", FormatDiscordTimestamp(ts, "R"))
}
