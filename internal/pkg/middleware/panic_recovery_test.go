package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/piresc/ordertrack/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func bufferedLogger(buf *bytes.Buffer) *logger.ZapLogger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(buf),
		zapcore.DebugLevel,
	)
	return &logger.ZapLogger{Logger: zap.New(core)}
}

func TestPanicRecoveryWithZapMiddleware(t *testing.T) {
	tests := []struct {
		name         string
		panicValue   interface{}
		expectInLogs []string
	}{
		{
			name:       "string panic",
			panicValue: "registry exploded",
			expectInLogs: []string{
				"registry exploded",
				"stack_trace",
				"Panic recovered during request processing",
			},
		},
		{
			name:       "error panic",
			panicValue: errors.New("nil order"),
			expectInLogs: []string{
				"nil order",
				"*errors.errorString",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			var buf bytes.Buffer
			e := echo.New()
			e.Use(RequestIDMiddleware())
			e.Use(PanicRecoveryWithZapMiddleware(bufferedLogger(&buf)))
			e.GET("/boom", func(c echo.Context) error {
				panic(tt.panicValue)
			})

			// Act
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

			// Assert
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Contains(t, rec.Body.String(), "request_id")
			assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
			for _, want := range tt.expectInLogs {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestPanicRecoveryWithZapMiddleware_RequiresLogger(t *testing.T) {
	assert.Panics(t, func() { PanicRecoveryWithZapMiddleware(nil) })
}

func TestRequestIDMiddleware_KeepsCallerID(t *testing.T) {
	e := echo.New()
	e.Use(RequestIDMiddleware())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-42")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get(echo.HeaderXRequestID))
}

func TestRecoverGoroutine_SwallowsPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		defer RecoverGoroutine("writer", logger.ConnID("c1"))
		panic("write on closed socket")
	})
}
