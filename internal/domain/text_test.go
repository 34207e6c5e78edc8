package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText_Forms(t *testing.T) {
	assert.True(t, Text{}.IsZero())
	assert.False(t, Plain("hi").IsZero())
	assert.False(t, Plain("hi").IsKeyed())
	assert.True(t, Keyed("forecast.autoTitle").IsKeyed())
}

func TestText_Equal(t *testing.T) {
	a := KeyedWith("forecast.autoSubtitle", map[string]Text{
		"severity": Keyed("severity.red"),
	})
	b := KeyedWith("forecast.autoSubtitle", map[string]Text{
		"severity": Keyed("severity.red"),
	})
	c := KeyedWith("forecast.autoSubtitle", map[string]Text{
		"severity": Keyed("severity.yellow"),
	})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(Plain("x")))
}

func TestText_JSONRoundtrip(t *testing.T) {
	orig := KeyedWith("forecast.autoSubtitle", map[string]Text{
		"severity": Keyed("severity.orange"),
	})

	data, err := json.Marshal(orig)
	require.NoError(t, err)

	var got Text
	require.NoError(t, json.Unmarshal(data, &got))
	assert.True(t, orig.Equal(got))
}

func TestSeverity(t *testing.T) {
	assert.True(t, SeverityRed.Valid())
	assert.False(t, Severity("purple").Valid())
	assert.Less(t, SeverityRed.Rank(), SeverityOrange.Rank())
	assert.Less(t, SeverityOrange.Rank(), SeverityYellow.Rank())
	assert.Equal(t, "🔴", SeverityRed.Icon())
	assert.Equal(t, "🟡", Severity("unknown").Icon())
}
