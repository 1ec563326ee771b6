package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/anantaclub/ananta/internal/client/config"
	"github.com/anantaclub/ananta/internal/client/profile"
	"github.com/anantaclub/ananta/internal/stubapi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func newBackend(t *testing.T) (*stubapi.Store, string) {
	t.Helper()
	var cfg stubapi.Config
	cfg.LoadDefaults()
	store := stubapi.NewStore()
	srv := httptest.NewServer(stubapi.NewServer(cfg, store, nil).Router())
	t.Cleanup(srv.Close)
	return store, srv.URL
}

func newTestApp(t *testing.T, baseURL, dbPath, secret string) (*App, *bytes.Buffer) {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.APIBaseURL = baseURL
	cfg.DBPath = dbPath
	cfg.StorageSecret = secret

	app, err := NewApp(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(app.Close)

	var out bytes.Buffer
	app.out = &out
	return app, &out
}

// stubInputs answers text prompts from lines in order and OTP prompts with otp.
func stubInputs(t *testing.T, otp string, lines ...string) {
	t.Helper()
	origST, origOTP := getSimpleText, getOTP
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(lines) == 0 {
			return "", io.EOF
		}
		l := lines[0]
		lines = lines[1:]
		return l, nil
	}
	getOTP = func(_ io.Writer) (string, error) { return otp, nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getOTP = origOTP
	})
}

func fetchCount(t *testing.T, reg prometheus.Gatherer, outcome string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != "ananta_profile_fetch_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "outcome" && l.GetValue() == outcome {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

// ---- tests ----

func TestApp_FullSessionFlow(t *testing.T) {
	store, url := newBackend(t)
	store.Seed(stubapi.User{Mobile: "9999999999", Name: "Bob", KYCStatus: "verified",
		Memberships: []stubapi.Membership{{PlanID: "GOLD", IsActive: true}}})
	ctx := context.Background()

	app, out := newTestApp(t, url, filepath.Join(t.TempDir(), "a.db"), "")
	app.session.Bootstrap(ctx)
	require.False(t, app.isAuthenticated())
	require.Equal(t, "(guest)", app.getStatus())

	// Profile before login short-circuits.
	err := app.Profile(ctx)
	require.ErrorIs(t, err, profile.ErrNoToken)
	assert.Contains(t, out.String(), "Not signed in")

	stubInputs(t, "123456", "9999999999")
	require.NoError(t, app.Login(ctx))
	require.True(t, app.isAuthenticated())
	require.Equal(t, "(authenticated)", app.getStatus())

	out.Reset()
	require.NoError(t, app.Profile(ctx))
	assert.Contains(t, out.String(), "Name:       Bob")
	assert.Contains(t, out.String(), "Membership: GOLD")
	assert.NotContains(t, out.String(), "(cached)")

	out.Reset()
	require.NoError(t, app.Profile(ctx))
	assert.Contains(t, out.String(), "(cached)")

	stubInputs(t, "", "", "bob@example.com", "")
	out.Reset()
	require.NoError(t, app.Update(ctx))
	assert.Contains(t, out.String(), "Profile updated.")

	out.Reset()
	require.NoError(t, app.Refresh(ctx))
	assert.Contains(t, out.String(), "Email:      bob@example.com")
	assert.Contains(t, out.String(), "Name:       Bob")

	out.Reset()
	require.NoError(t, app.Status(ctx))
	assert.Contains(t, out.String(), "Session: signed in")
	assert.Contains(t, out.String(), "Token: valid until")
	assert.Contains(t, out.String(), "Server: online")

	require.NoError(t, app.Logout(ctx))
	require.False(t, app.isAuthenticated())
	require.Equal(t, "(guest)", app.getStatus())
	_, ok := app.resolver.Cached()
	require.False(t, ok)

	err = app.Profile(ctx)
	require.ErrorIs(t, err, profile.ErrNoToken)

	assert.Equal(t, 2.0, fetchCount(t, app.registry, profile.OutcomeNetwork))
	assert.Equal(t, 1.0, fetchCount(t, app.registry, profile.OutcomeCache))
	assert.Equal(t, 2.0, fetchCount(t, app.registry, string(profile.KindNoToken)))
}

func TestApp_SessionSurvivesRestart_Sealed(t *testing.T) {
	_, url := newBackend(t)
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "sealed.db")

	first, _ := newTestApp(t, url, dbPath, "pin-1234")
	first.session.Bootstrap(ctx)
	stubInputs(t, "123456", "+919876543210")
	require.NoError(t, first.Login(ctx))
	first.Close()

	second, out := newTestApp(t, url, dbPath, "pin-1234")
	second.session.Bootstrap(ctx)
	require.True(t, second.isAuthenticated())
	require.NoError(t, second.Profile(ctx))
	assert.Contains(t, out.String(), "Mobile:     +919876543210")
}

func TestApp_StartPrefetchesProfileForRestoredSession(t *testing.T) {
	_, url := newBackend(t)
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "prefetch.db")

	first, _ := newTestApp(t, url, dbPath, "")
	first.start(ctx)
	require.Zero(t, fetchCount(t, first.registry, profile.OutcomeNetwork))
	stubInputs(t, "123456", "9123456789")
	require.NoError(t, first.Login(ctx))
	first.Close()

	second, out := newTestApp(t, url, dbPath, "")
	second.start(ctx)
	second.bg.Wait()
	require.Equal(t, float64(1), fetchCount(t, second.registry, profile.OutcomeNetwork))

	require.NoError(t, second.Profile(ctx))
	assert.Contains(t, out.String(), "(cached)")
	assert.Contains(t, out.String(), "Mobile:     9123456789")
	require.Equal(t, float64(1), fetchCount(t, second.registry, profile.OutcomeNetwork))
}

func TestApp_LoginErrors(t *testing.T) {
	_, url := newBackend(t)
	ctx := context.Background()
	app, out := newTestApp(t, url, filepath.Join(t.TempDir(), "a.db"), "")
	app.session.Bootstrap(ctx)

	stubInputs(t, "123456", "12")
	require.Error(t, app.Login(ctx))
	assert.Contains(t, out.String(), "Could not send OTP")

	out.Reset()
	stubInputs(t, "000000", "9876543210")
	require.Error(t, app.Login(ctx))
	assert.Contains(t, out.String(), "Sign in failed: invalid otp")
	require.False(t, app.isAuthenticated())

	// The earlier code is still pending on the backend, so a retry within
	// the resend interval reuses it.
	out.Reset()
	stubInputs(t, "123456", "9876543210")
	require.NoError(t, app.Login(ctx))
	assert.Contains(t, out.String(), "An OTP was sent recently")
	require.True(t, app.isAuthenticated())

	out.Reset()
	require.NoError(t, app.Login(ctx))
	assert.Contains(t, out.String(), "Already signed in")
}

func TestApp_ServerDown_KeepsCache(t *testing.T) {
	var cfg stubapi.Config
	cfg.LoadDefaults()
	srv := httptest.NewServer(stubapi.NewServer(cfg, stubapi.NewStore(), nil).Router())
	t.Cleanup(srv.Close)
	ctx := context.Background()

	app, out := newTestApp(t, srv.URL, filepath.Join(t.TempDir(), "a.db"), "")
	app.session.Bootstrap(ctx)
	stubInputs(t, "123456", "9876543210")
	require.NoError(t, app.Login(ctx))
	require.NoError(t, app.Profile(ctx))

	srv.Close()

	out.Reset()
	err := app.Refresh(ctx)
	require.Equal(t, profile.KindNetwork, profile.Kind(err))
	assert.Contains(t, out.String(), "server unavailable")

	out.Reset()
	require.NoError(t, app.Profile(ctx))
	assert.Contains(t, out.String(), "(cached)")

	out.Reset()
	require.NoError(t, app.Status(ctx))
	assert.Contains(t, out.String(), "Server: unreachable")
	require.True(t, app.isAuthenticated())
}
