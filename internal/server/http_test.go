package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mithrel/ideaval/internal/apiclient"
	"github.com/mithrel/ideaval/internal/report"
	"github.com/mithrel/ideaval/pkg/api"
)

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(New(nil).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestValidateEchoesIdea(t *testing.T) {
	srv := httptest.NewServer(New(zap.NewNop()).Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/validate", "application/json", strings.NewReader(`{"startup_idea":"Pet taxi"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got api.ValidationResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	ex := report.Example()
	assert.Equal(t, "Pet taxi", got.StartupIdea)
	assert.Equal(t, ex.MarketAnalysis, got.MarketAnalysis)
	assert.Equal(t, ex.Messages, got.Messages)
}

func TestValidateRejectsBadInput(t *testing.T) {
	srv := httptest.NewServer(New(nil).Router())
	defer srv.Close()

	for name, body := range map[string]string{
		"blank":   `{"startup_idea":"   "}`,
		"missing": `{}`,
		"invalid": `{"startup_idea":`,
	} {
		t.Run(name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/validate", "application/json", strings.NewReader(body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var e errorBody
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
			assert.NotEmpty(t, e.Detail)
		})
	}
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	srv := httptest.NewServer(New(nil).Router())
	defer srv.Close()

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/validate", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRequestsAreLogged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	srv := httptest.NewServer(New(zap.New(core)).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/healthz", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestClientAgainstDemoBackend(t *testing.T) {
	srv := httptest.NewServer(New(nil).Router())
	defer srv.Close()

	c := apiclient.New(srv.URL + "/")
	res, err := c.Validate(t.Context(), "Drone coffee")
	require.NoError(t, err)
	assert.Equal(t, "Drone coffee", res.StartupIdea)
	assert.NotEmpty(t, res.IdeaAnalysis)

	_, err = c.Validate(t.Context(), "  ")
	assert.ErrorIs(t, err, apiclient.ErrEmptyIdea)
}

func TestRunStopsWhenContextEnds(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- New(nil).Run(ctx, "127.0.0.1:0", time.Second) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunReportsListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	err = New(nil).Run(t.Context(), ln.Addr().String(), time.Second)
	assert.Error(t, err)
}
