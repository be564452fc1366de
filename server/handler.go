// Package server exposes the forecast pipeline over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	fleetforecast "github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING"
	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/dataset"
	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/logger"
)

// DefaultMaxUploadBytes caps dataset uploads at 16 MiB.
const DefaultMaxUploadBytes = 16 << 20

// ForecastHandler serves forecast runs over HTTP. Results are cached by
// dataset fingerprint and parameters, repeat uploads of the same dataset are
// answered from the cache. With a nil cache every upload runs the pipeline
// and key lookups always miss.
type ForecastHandler struct {
	logger     *logger.Logger
	forecaster *fleetforecast.Forecaster
	cache      *fleetforecast.Cache
	defaults   fleetforecast.Params
	datasetOpt *dataset.Options
	maxUpload  int64
}

// HandlerOption configures ForecastHandler.
type HandlerOption func(*ForecastHandler)

// WithRunDefaults sets the parameters used when a request leaves them unset.
func WithRunDefaults(params fleetforecast.Params) HandlerOption {
	return func(h *ForecastHandler) {
		h.defaults = params
	}
}

// WithDatasetOptions sets the normalization options applied to uploads.
func WithDatasetOptions(opt *dataset.Options) HandlerOption {
	return func(h *ForecastHandler) {
		h.datasetOpt = opt
	}
}

// WithMaxUpload sets the dataset upload size limit in bytes.
func WithMaxUpload(limit int64) HandlerOption {
	return func(h *ForecastHandler) {
		h.maxUpload = limit
	}
}

func NewForecastHandler(log *logger.Logger, fc *fleetforecast.Forecaster, cache *fleetforecast.Cache, opts ...HandlerOption) *ForecastHandler {
	h := &ForecastHandler{
		logger:     log,
		forecaster: fc,
		cache:      cache,
		defaults:   fleetforecast.NewDefaultParams(),
		datasetOpt: dataset.NewDefaultOptions(),
		maxUpload:  DefaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *ForecastHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.POST("/forecast", h.Forecast)
	g.GET("/forecast/:key", h.Lookup)
	g.GET("/forecast/:key/csv", h.ExportCSV)
	g.GET("/forecast/:key/chart", h.Chart)
}

// Forecast accepts a CSV dataset upload under the multipart field "file",
// runs the pipeline, and returns the run summary with its cache key.
func (h *ForecastHandler) Forecast(c echo.Context) error {
	start := time.Now()

	req := &ForecastRequest{}
	if verr := ReadAndValidateRequest(c, req); verr != nil {
		return BadRequestResponse(c, verr)
	}

	tbl, appErr := h.readUpload(c)
	if appErr != nil {
		return AppErrorResponse(c, appErr)
	}

	params := h.defaults
	if req.Strategy != "" {
		params.Strategy = req.Strategy
	}
	if req.TestDays > 0 {
		params.TestDays = req.TestDays
	}
	if req.FuturePeriods > 0 {
		params.FuturePeriods = req.FuturePeriods
	}

	opt := h.datasetOpt
	if req.MissingPolicy != "" {
		cp := *opt
		cp.MissingPolicy = dataset.MissingPolicy(req.MissingPolicy)
		opt = &cp
	}

	fingerprint, err := tbl.Fingerprint()
	if err != nil {
		h.logger.Error("dataset fingerprint", logger.Error(err))
		return InternalServerErrorResponse(c)
	}

	key := fleetforecast.Key(fingerprint, params)
	run := func() (*fleetforecast.Result, error) {
		return h.forecaster.RunTable(tbl, opt, params)
	}

	var (
		res    *fleetforecast.Result
		cached bool
	)
	if h.cache != nil {
		res, cached, err = h.cache.GetOrRun(key, run)
	} else {
		res, err = run()
	}
	if err != nil {
		observeRunError(err)
		h.logger.Error("forecast run",
			logger.Error(err),
			logger.String("key", key),
			logger.String("strategy", params.Strategy),
		)
		return AppErrorResponse(c, FromRunError(err))
	}

	observeRun(res.StrategyUsed, cached, time.Since(start))
	h.logger.Info("forecast run",
		logger.String("key", key),
		logger.String("strategy", res.StrategyUsed),
		logger.Bool("cached", cached),
		logger.Int("observations", res.Series.Len()),
		logger.Duration("elapsed", time.Since(start)),
	)

	return SuccessResponse(c, NewForecastResponse(key, cached, res))
}

// Lookup returns the full result bundle for a cached run.
func (h *ForecastHandler) Lookup(c echo.Context) error {
	res, ok := h.lookup(c.Param("key"))
	if !ok {
		return NotFoundResponse(c, "no result under this key")
	}
	return SuccessResponse(c, res)
}

// ExportCSV streams the future forecast of a cached run as CSV.
func (h *ForecastHandler) ExportCSV(c echo.Context) error {
	res, ok := h.lookup(c.Param("key"))
	if !ok {
		return NotFoundResponse(c, "no result under this key")
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="forecast.csv"`)
	c.Response().WriteHeader(http.StatusOK)
	return res.WriteForecastCSV(c.Response())
}

// Chart renders the history and holdout charts of a cached run as HTML.
func (h *ForecastHandler) Chart(c echo.Context) error {
	res, ok := h.lookup(c.Param("key"))
	if !ok {
		return NotFoundResponse(c, "no result under this key")
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return res.RenderCharts(c.Response())
}

func (h *ForecastHandler) Health(c echo.Context) error {
	return SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *ForecastHandler) lookup(key string) (*fleetforecast.Result, bool) {
	if h.cache == nil {
		return nil, false
	}
	return h.cache.Get(key)
}

func (h *ForecastHandler) readUpload(c echo.Context) (*dataset.Table, *AppError) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, BadRequestError("multipart field 'file' is required").WithError(err)
	}
	if fh.Size > h.maxUpload {
		return nil, BadRequestErrorf("upload exceeds %d byte limit", h.maxUpload)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, InternalError("unable to open upload").WithError(err)
	}
	defer f.Close()

	tbl, err := dataset.ReadCSV(f)
	if err != nil {
		return nil, BadRequestError(err.Error()).WithError(err)
	}
	return tbl, nil
}
