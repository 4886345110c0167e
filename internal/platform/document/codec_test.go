package document

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fineDoc struct {
	PlayerID string    `json:"playerId" validate:"required"`
	Reason   string    `json:"reason"`
	Amount   float64   `json:"amount" validate:"gt=0"`
	Date     time.Time `json:"date"`
	Paid     bool      `json:"paid"`
}

func TestDecode_ValidDocument(t *testing.T) {
	var out fineDoc
	err := Decode(map[string]any{
		"playerId": "p-1",
		"reason":   "late to training",
		"amount":   int64(5),
		"date":     "2026-04-02T19:30:00Z",
		"paid":     false,
		"extra":    "ignored",
	}, &out)
	require.NoError(t, err)

	assert.Equal(t, "p-1", out.PlayerID)
	assert.Equal(t, 5.0, out.Amount)
	assert.Equal(t, 2026, out.Date.Year())
}

func TestDecode_RejectsMalformed(t *testing.T) {
	cases := map[string]map[string]any{
		"nil data":        nil,
		"missing player":  {"amount": 3},
		"negative amount": {"playerId": "p-1", "amount": -1},
		"wrong type":      {"playerId": "p-1", "amount": "ten"},
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			var out fineDoc
			err := Decode(data, &out)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))
		})
	}
}

func TestEncode_RoundTripsThroughMap(t *testing.T) {
	data, err := Encode(fineDoc{PlayerID: "p-2", Reason: "yellow card", Amount: 2.5, Paid: true})
	require.NoError(t, err)

	assert.Equal(t, "p-2", data["playerId"])
	assert.Equal(t, true, data["paid"])

	_, err = Encode(fineDoc{Amount: 1})
	assert.True(t, errors.Is(err, ErrMalformed))
}
