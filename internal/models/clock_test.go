package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	c, err := ParseClock("14")
	require.NoError(t, err)
	assert.Equal(t, Hour(14), c)

	c, err = ParseClock(" 8:30 ")
	require.NoError(t, err)
	assert.Equal(t, At(8, 30), c)
	assert.Equal(t, "08:30", c.String())

	for _, bad := range []string{"", "x", "10:xx", "25:00", "10:75"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestClockJSON(t *testing.T) {
	var payload struct {
		Start Clock `json:"start"`
		End   Clock `json:"end"`
		Half  Clock `json:"half"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":12,"end":"14:00","half":10.5}`), &payload))
	assert.Equal(t, Hour(12), payload.Start)
	assert.Equal(t, Hour(14), payload.End)
	assert.Equal(t, At(10, 30), payload.Half)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":12,"end":14,"half":"10:30"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"start":{}}`), &payload))
}

func TestClockScan(t *testing.T) {
	var c Clock
	require.NoError(t, c.Scan(int64(9)))
	assert.Equal(t, Hour(9), c)
	require.NoError(t, c.Scan([]byte("09:45")))
	assert.Equal(t, At(9, 45), c)
	require.NoError(t, c.Scan("16:00"))
	assert.Equal(t, Hour(16), c)
	assert.Error(t, c.Scan(nil))

	v, err := At(9, 5).Value()
	require.NoError(t, err)
	assert.Equal(t, "09:05", v)
}
