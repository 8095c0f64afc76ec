package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhellwig/forumpulse/internal/metrics"
)

func getCounterValue(counter prometheus.Counter) float64 {
	var m dto.Metric
	if err := counter.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func TestMiddlewareWithStructuredError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	metrics.HTTPErrorsTotal.Reset()

	handler := Middleware()(func(c echo.Context) error {
		return ValidationError("invalid input")
	})

	err := handler(c)
	require.NoError(t, err) // Middleware handles the error, doesn't return it

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid input", resp.Error)
	assert.Equal(t, TypeValidation, resp.Type)

	metricValue := getCounterValue(metrics.HTTPErrorsTotal.WithLabelValues("validation"))
	assert.Equal(t, 1.0, metricValue)
}

func TestMiddlewareWithStandardError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	metrics.HTTPErrorsTotal.Reset()

	handler := Middleware()(func(c echo.Context) error {
		return fmt.Errorf("standard error")
	})

	err := handler(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "internal server error", resp.Error)
	assert.Equal(t, TypeInternal, resp.Type)

	metricValue := getCounterValue(metrics.HTTPErrorsTotal.WithLabelValues("internal"))
	assert.Equal(t, 1.0, metricValue)
}

func TestMiddlewareWithNoError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	metrics.HTTPErrorsTotal.Reset()

	handler := Middleware()(func(c echo.Context) error {
		return c.String(http.StatusOK, "success")
	})

	err := handler(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", rec.Body.String())

	metricValue := getCounterValue(metrics.HTTPErrorsTotal.WithLabelValues("validation"))
	assert.Equal(t, 0.0, metricValue)
}

func TestMiddlewareWithEchoHTTPError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	metrics.HTTPErrorsTotal.Reset()

	handler := Middleware()(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "route not found")
	})

	// Echo errors pass through to Echo's own handler
	err := handler(c)
	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestMiddlewareAllErrorTypes(t *testing.T) {
	tests := []struct {
		name       string
		err        *Error
		wantStatus int
		wantType   ErrorType
	}{
		{"validation", ValidationError("invalid"), http.StatusBadRequest, TypeValidation},
		{"not_found", NotFoundError("missing"), http.StatusNotFound, TypeNotFound},
		{"conflict", ConflictError("already exists"), http.StatusConflict, TypeConflict},
		{"internal", InternalError("boom", nil), http.StatusInternalServerError, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := Middleware()(func(c echo.Context) error {
				return tt.err
			})

			require.NoError(t, handler(c))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantType, resp.Type)
		})
	}
}
