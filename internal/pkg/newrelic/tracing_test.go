package newrelic

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/piresc/ordertrack/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitNewRelic_DisabledReturnsNil(t *testing.T) {
	cfg := &models.Config{NewRelic: models.NewRelicConfig{Enabled: false, LicenseKey: "key"}}
	assert.Nil(t, InitNewRelic(cfg))

	cfg = &models.Config{NewRelic: models.NewRelicConfig{Enabled: true}}
	assert.Nil(t, InitNewRelic(cfg))
}

func TestEchoMiddleware_NilAppPassesThrough(t *testing.T) {
	e := echo.New()
	e.Use(EchoMiddleware(nil))
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestWithSegment_NoTransaction(t *testing.T) {
	boom := errors.New("boom")
	err := WithSegment(context.Background(), "auth", func() error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestInstrumentHTTPRequest_NoTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := InstrumentHTTPRequest(context.Background(), req, func() (*http.Response, error) {
		return http.DefaultClient.Do(req)
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
