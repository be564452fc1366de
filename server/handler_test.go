package server

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fleetforecast "github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING"
	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/logger"
	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/timeseries"
)

func newTestEcho(t *testing.T, opts ...HandlerOption) *echo.Echo {
	t.Helper()

	log, err := logger.NewWriter(io.Discard, "error")
	require.NoError(t, err)

	h := NewForecastHandler(log, fleetforecast.New(nil), fleetforecast.NewCache(), opts...)
	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func makeCSV(t *testing.T, n int) string {
	t.Helper()

	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	buf.WriteString("date,utilization_rate\n")
	for i := 0; i < n; i++ {
		buf.WriteString(start.AddDate(0, 0, i).Format(timeseries.DateLayout))
		buf.WriteString("," + strconv.FormatFloat(60.0+0.05*float64(i), 'f', 4, 64) + "\n")
	}
	return buf.String()
}

func multipartUpload(t *testing.T, csv string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if csv != "" {
		fw, err := mw.CreateFormFile("file", "fleet.csv")
		require.NoError(t, err)
		_, err = fw.Write([]byte(csv))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func postForecast(t *testing.T, e *echo.Echo, csv string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	body, ctype := multipartUpload(t, csv, fields)
	req := httptest.NewRequest(http.MethodPost, "/api/forecast", body)
	req.Header.Set(echo.HeaderContentType, ctype)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeForecast(t *testing.T, rec *httptest.ResponseRecorder) *ForecastResponse {
	t.Helper()

	var resp struct {
		Status int              `json:"status"`
		Data   ForecastResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return &resp.Data
}

func TestForecastEndpoint(t *testing.T) {
	e := newTestEcho(t)
	csv := makeCSV(t, 200)

	rec := postForecast(t, e, csv, map[string]string{"strategy": "seasonal", "test_days": "20"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	fc := decodeForecast(t, rec)
	require.NotEmpty(t, fc.Key)
	assert.False(t, fc.Cached)
	assert.Equal(t, "seasonal", fc.StrategyUsed)
	require.NotNil(t, fc.Report)
	require.NotNil(t, fc.Future)
	assert.Len(t, fc.Future.T, fleetforecast.DefaultFuturePeriods)

	t.Run("repeat upload hits cache", func(t *testing.T) {
		rec := postForecast(t, e, csv, map[string]string{"strategy": "seasonal", "test_days": "20"})
		require.Equal(t, http.StatusOK, rec.Code)

		again := decodeForecast(t, rec)
		assert.True(t, again.Cached)
		assert.Equal(t, fc.Key, again.Key)
	})

	t.Run("lookup returns full bundle", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/forecast/"+fc.Key, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"strategy_used":"seasonal"`)
		assert.Contains(t, rec.Body.String(), `"holdout_forecast"`)
	})

	t.Run("csv export", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/forecast/"+fc.Key+"/csv", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/csv")
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("date,forecast,lower,upper\n")))
	})

	t.Run("chart export", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/forecast/"+fc.Key+"/chart", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Utilization Forecast")
		assert.Contains(t, rec.Body.String(), "Holdout Evaluation")
	})
}

func TestForecastEndpointFallback(t *testing.T) {
	e := newTestEcho(t)

	rec := postForecast(t, e, makeCSV(t, 60), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	fc := decodeForecast(t, rec)
	assert.Equal(t, "baseline", fc.StrategyUsed)
	require.Len(t, fc.Warnings, 1)
	assert.Contains(t, fc.Warnings[0], "fallback")
}

func TestForecastEndpointRejects(t *testing.T) {
	testData := map[string]struct {
		noFile bool
		csv    string
		fields map[string]string
		substr string
	}{
		"missing file field": {
			noFile: true,
			fields: map[string]string{"strategy": "seasonal"},
			substr: "file",
		},
		"unknown missing policy": {
			fields: map[string]string{"missing_policy": "zero-fill"},
			substr: "ERR_ONEOF",
		},
		"negative test days": {
			fields: map[string]string{"test_days": "-1"},
			substr: "ERR_GTE",
		},
		"blank csv": {
			csv:    "\n",
			substr: "header",
		},
		"unknown strategy": {
			fields: map[string]string{"strategy": "drift"},
			substr: "drift",
		},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			e := newTestEcho(t)
			csv := td.csv
			if csv == "" && !td.noFile {
				csv = makeCSV(t, 200)
			}

			rec := postForecast(t, e, csv, td.fields)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), td.substr)
		})
	}
}

func TestForecastEndpointNoCache(t *testing.T) {
	log, err := logger.NewWriter(io.Discard, "error")
	require.NoError(t, err)

	h := NewForecastHandler(log, fleetforecast.New(nil), nil)
	e := echo.New()
	h.RegisterRoutes(e)

	csv := makeCSV(t, 200)
	rec := postForecast(t, e, csv, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	fc := decodeForecast(t, rec)
	require.NotEmpty(t, fc.Key)
	assert.False(t, fc.Cached)

	t.Run("repeat upload runs again", func(t *testing.T) {
		rec := postForecast(t, e, csv, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, decodeForecast(t, rec).Cached)
	})

	t.Run("lookup misses", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/forecast/"+fc.Key, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestForecastEndpointShortDataset(t *testing.T) {
	e := newTestEcho(t)

	rec := postForecast(t, e, makeCSV(t, 10), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not enough observations")
}

func TestForecastEndpointUploadLimit(t *testing.T) {
	e := newTestEcho(t, WithMaxUpload(64))

	rec := postForecast(t, e, makeCSV(t, 200), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "byte limit")
}

func TestLookupMissingKey(t *testing.T) {
	e := newTestEcho(t)

	for _, path := range []string{
		"/api/forecast/absent",
		"/api/forecast/absent/csv",
		"/api/forecast/absent/chart",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestHealth(t *testing.T) {
	e := newTestEcho(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestServerRoutes(t *testing.T) {
	log, err := logger.NewWriter(io.Discard, "error")
	require.NoError(t, err)

	h := NewForecastHandler(log, fleetforecast.New(nil), fleetforecast.NewCache())
	srv := NewServer(log, h, WithPort(0), WithMetricsPath("/metrics"))

	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fleetforecast_http_requests_total")
}

func TestQueryParamsOnPost(t *testing.T) {
	e := newTestEcho(t)

	body, ctype := multipartUpload(t, makeCSV(t, 200), nil)
	target := fmt.Sprintf("/api/forecast?strategy=baseline&future_periods=%d", 7)
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set(echo.HeaderContentType, ctype)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	fc := decodeForecast(t, rec)
	assert.Equal(t, "baseline", fc.StrategyUsed)
	assert.Len(t, fc.Future.T, 7)
}
