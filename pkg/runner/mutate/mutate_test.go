package mutate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"tableflip.dev/allergy/pkg/bridge"
	"tableflip.dev/allergy/pkg/calendar"
	"tableflip.dev/allergy/pkg/client"
	"tableflip.dev/allergy/pkg/devserver"
	"tableflip.dev/allergy/pkg/runner/session"
	"tableflip.dev/allergy/pkg/runner/show"
	"tableflip.dev/allergy/pkg/store"
	"tableflip.dev/allergy/pkg/symptom"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	color.NoColor = true
	goleak.VerifyTestMain(m,
		goleak.IgnoreAnyFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreAnyFunction("net/http.(*persistConn).writeLoop"),
	)
}

type dir string

func (d dir) BasePath() string { return string(d) }

var march10 = calendar.Date{Year: 2024, Month: 2, Day: 10}

func setup(t *testing.T, legacy bool) (*client.Client, store.Persistence) {
	t.Helper()
	p, err := store.Load(dir(t.TempDir()))
	require.NoError(t, err)
	srv := httptest.NewServer(devserver.New(p, devserver.Options{CSRFToken: "tok", LegacyText: legacy}).Handler())
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL)
	require.NoError(t, err)
	return c, p
}

func options() bridge.Options {
	return bridge.Options{Now: func() time.Time { return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC) }}
}

func decode(t *testing.T, b []byte) show.Result {
	t.Helper()
	var r show.Result
	require.NoError(t, json.Unmarshal(b, &r))
	return r
}

func TestAddThenDelete(t *testing.T) {
	for _, legacy := range []bool{false, true} {
		c, p := setup(t, legacy)
		ctx := context.Background()

		var out bytes.Buffer
		add := &Add{Client: c, Options: options(), Date: march10, Symptom: symptom.Headache, Intensity: 4, JSON: true, Out: &out}
		require.NoError(t, add.Do(ctx))

		want := show.Result{Date: "2024-03-10", Visible: true, Symptoms: []symptom.Record{{Symptom: symptom.Headache, Intensity: 4}}}
		if diff := cmp.Diff(want, decode(t, out.Bytes())); diff != "" {
			t.Fatalf("legacy=%v add result (-want +got):\n%s", legacy, diff)
		}
		require.Len(t, p.List(ctx, march10), 1)

		out.Reset()
		add.Intensity = 9
		require.NoError(t, add.Do(ctx))
		got := decode(t, out.Bytes())
		require.Equal(t, []symptom.Record{{Symptom: symptom.Headache, Intensity: 9}}, got.Symptoms)

		out.Reset()
		del := &Delete{Client: c, Options: options(), Date: march10, Symptom: symptom.Headache, JSON: true, Out: &out}
		require.NoError(t, del.Do(ctx))
		got = decode(t, out.Bytes())
		require.Empty(t, got.Symptoms)
		require.False(t, got.Visible)
		require.Empty(t, p.List(ctx, march10))
	}
}

func TestDeleteMissing(t *testing.T) {
	c, _ := setup(t, false)
	del := &Delete{Client: c, Options: options(), Date: march10, Symptom: symptom.Sneezing, Out: &bytes.Buffer{}}
	err := del.Do(context.Background())
	require.True(t, errors.Is(err, session.ErrNotRecorded), "got %v", err)
}

func TestAddValidates(t *testing.T) {
	c, _ := setup(t, false)
	tests := []struct {
		name string
		add  Add
		want error
	}{
		{"intensity", Add{Symptom: symptom.Sneezing, Intensity: 11}, symptom.ErrIntensityRange},
		{"symptom", Add{Symptom: "COUGH", Intensity: 3}, symptom.ErrUnknownSymptom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.add
			a.Client, a.Options, a.Date, a.Out = c, options(), march10, &bytes.Buffer{}
			err := a.Do(context.Background())
			require.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestShowTable(t *testing.T) {
	c, p := setup(t, false)
	_, err := p.Upsert(march10, symptom.Sneezing, 6)
	require.NoError(t, err)

	var out bytes.Buffer
	s := &show.Show{Client: c, Options: options(), Date: march10, Out: &out}
	require.NoError(t, s.Do(context.Background()))
	require.Contains(t, out.String(), "2024-03-10 - 1 symptom")
	require.Contains(t, out.String(), "Sneezing")
}

func TestShowServerDown(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close()
	c, err := client.New(srv.URL, client.WithToken(client.StaticToken("x")))
	require.NoError(t, err)

	s := &show.Show{Client: c, Options: options(), Date: march10, Out: &bytes.Buffer{}}
	err = s.Do(context.Background())
	var failed bridge.RequestFailedMsg
	require.True(t, errors.As(err, &failed), "got %v", err)
	require.Equal(t, bridge.OpFetch, failed.Op)
}
