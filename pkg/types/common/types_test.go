package common

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateID_Prefix(t *testing.T) {
	id := GenerateID("doc")
	assert.True(t, len(id) > 36)
	assert.Contains(t, id.String(), "doc-")

	parsed, err := ParseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestParseID_Invalid(t *testing.T) {
	_, err := ParseID("not-a-uuid")
	assert.Error(t, err)
}

func TestTimestamp_JSONRoundTrip(t *testing.T) {
	ts := Timestamp(time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC))
	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-06-01T10:30:00Z"`, string(data))

	var back Timestamp
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, ts.Time().Equal(back.Time()))
}

func TestMoney_Add(t *testing.T) {
	total := INR(15000).Add(INR(6000))
	assert.Equal(t, int64(21000), total.Amount)
	assert.Equal(t, "INR", total.Currency)
	assert.Equal(t, "21000 INR", total.String())

	// Zero value acts as identity.
	assert.Equal(t, INR(500), Money{}.Add(INR(500)))
}

func TestMoney_AddMismatchPanics(t *testing.T) {
	assert.Panics(t, func() {
		INR(1).Add(Money{Amount: 1, Currency: "USD"})
	})
}
