package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestValidateSuccess(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/validate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &gotBody))
		_, _ = w.Write([]byte(`{"startup_idea":"  pet taxi ","risk_assessment":"RISK_ASSESSMENT: high","extra":1}`))
	}))
	defer srv.Close()

	c := New(srv.URL + "//")
	assert.Equal(t, srv.URL, c.BaseURL())
	res, err := c.Validate(context.Background(), "  pet taxi ")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"startup_idea": "  pet taxi "}, gotBody)
	assert.Equal(t, "high", res.RiskAssessment)
	assert.Equal(t, "", res.MarketAnalysis)
	assert.Equal(t, []string{}, res.Messages)
}

func TestValidateBlankIdeaSendsNothing(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Validate(context.Background(), " \n\t ")
	assert.ErrorIs(t, err, ErrEmptyIdea)
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestValidateHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	core, logs := observer.New(zap.ErrorLevel)
	_, err := New(srv.URL, WithLogger(zap.New(core))).Validate(context.Background(), "idea")
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusBadGateway, reqErr.StatusCode)
	assert.Equal(t, "upstream down", reqErr.Body)
	assert.Equal(t, "API 502: upstream down", err.Error())
	assert.Equal(t, 1, logs.FilterMessage("validate idea failed").Len())
}

func TestValidateUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["not","an","object"]`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Validate(context.Background(), "idea")
	assert.ErrorContains(t, err, "validate response")
}

func TestValidateTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url).Validate(context.Background(), "idea")
	require.Error(t, err)
	var reqErr *RequestError
	assert.False(t, errors.As(err, &reqErr))
}

func TestValidateTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(srv.URL, WithTimeout(50*time.Millisecond)).Validate(context.Background(), "idea")
	require.Error(t, err)
}

func TestValidateContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(srv.URL).Validate(ctx, "idea")
	assert.ErrorIs(t, err, context.Canceled)
}
