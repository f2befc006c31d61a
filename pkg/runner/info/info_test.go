package info

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/allergy/pkg/calendar"
	"tableflip.dev/allergy/pkg/config"
	"tableflip.dev/allergy/pkg/store"
	"tableflip.dev/allergy/pkg/symptom"
)

type dir string

func (d dir) BasePath() string { return string(d) }

func TestInfo(t *testing.T) {
	color.NoColor = true
	t.Setenv("ALLERGY_CONFIG_PATH", "")

	p, err := store.Load(dir(t.TempDir()))
	require.NoError(t, err)
	_, err = p.Upsert(calendar.Date{Year: 2024, Month: 2, Day: 10}, symptom.RunnyNose, 3)
	require.NoError(t, err)

	var out bytes.Buffer
	i := &Info{
		Config: &config.Config{
			Server:      "http://127.0.0.1:8000",
			SettleDelay: 50 * time.Millisecond,
			Log:         config.Log{Level: "info"},
			DevServer:   config.DevServer{Addr: "127.0.0.1:8000", Path: "/tmp/allergy"},
		},
		Persistence: p,
		Now:         func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) },
		Out:         &out,
	}
	require.NoError(t, i.Do(context.Background()))

	s := out.String()
	assert.Contains(t, s, "ALLERGY_CONFIG_PATH env var not set")
	assert.Contains(t, s, "server:        http://127.0.0.1:8000")
	assert.Contains(t, s, "login:         none")
	assert.Contains(t, s, "settle delay:  50ms")
	assert.Contains(t, s, "Records for 2024-03-10")
	assert.Contains(t, s, "Runny nose: 3")
}

func TestInfoRequiresConfig(t *testing.T) {
	require.Error(t, (&Info{Out: &bytes.Buffer{}}).Do(context.Background()))
}

func TestInfoHidesPassword(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	i := &Info{
		Config: &config.Config{Username: "ana", Password: "secret"},
		Out:    &out,
	}
	require.NoError(t, i.Do(context.Background()))
	assert.Contains(t, out.String(), "login:         form login as ana")
	assert.NotContains(t, out.String(), "secret")
}
