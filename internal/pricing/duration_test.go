package pricing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("12+")
	require.NoError(t, err)
	assert.Equal(t, Duration{Months: 12, OpenEnded: true}, d)
	assert.Equal(t, "12+", d.String())

	d, err = ParseDuration(" 6 ")
	require.NoError(t, err)
	assert.Equal(t, Months(6), d)
	assert.Equal(t, "6", d.String())

	for _, bad := range []string{"0", "-3", "abc", "", "6.5"} {
		_, err := ParseDuration(bad)
		assert.Error(t, err, bad)
	}
}

func TestDurationTravelsAsText(t *testing.T) {
	var payload struct {
		Duration Duration `json:"duration"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"duration":"12+"}`), &payload))
	assert.True(t, payload.Duration.OpenEnded)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"duration":"12+"}`, string(out))
}
