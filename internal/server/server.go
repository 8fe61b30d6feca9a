// Package server exposes the optimizer over a small JSON HTTP API.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/ecoprice/internal/config"
	"github.com/iwvelando/ecoprice/internal/history"
	"github.com/iwvelando/ecoprice/internal/pricing"
	"github.com/iwvelando/ecoprice/internal/report"
	"github.com/iwvelando/ecoprice/pkg/constants"
	"github.com/iwvelando/ecoprice/pkg/output"
	"github.com/iwvelando/ecoprice/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Dependencies are the collaborators shared by every request. Nil fields are
// replaced by inert defaults.
type Dependencies struct {
	Reports        *report.Generator
	History        history.Recorder
	CurrencySymbol string
}

type handler struct {
	logger         *zap.Logger
	maxUploadSize  int64
	version        string
	reports        *report.Generator
	history        history.Recorder
	currencySymbol string
}

// NewHandler constructs the HTTP handler that serves the pricing API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, deps Dependencies) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	recorder := deps.History
	if recorder == nil {
		recorder = history.NewNoopRecorder()
	}

	symbol := deps.CurrencySymbol
	if strings.TrimSpace(symbol) == "" {
		symbol = constants.DefaultCurrencySymbol
	}

	h := &handler{
		logger:         logger,
		maxUploadSize:  maxUploadSize,
		version:        trimmedVersion,
		reports:        deps.Reports,
		history:        recorder,
		currencySymbol: symbol,
	}

	mux := http.NewServeMux()

	// Optimization endpoint
	mux.HandleFunc("/api/optimize", h.handleOptimize)

	// Report download as text or HTML attachment
	mux.HandleFunc("/api/report/download", h.handleReportDownload)

	// Recorded runs, newest first
	mux.HandleFunc("/api/history", h.handleHistory)

	// Product configuration serialized to YAML for the CLI
	mux.HandleFunc("/api/config/export", h.handleConfigExport)

	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type optimizeRequest struct {
	Inputs  pricing.Inputs         `json:"inputs"`
	Search  config.SearchConfig    `json:"search"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// newOptimizeRequest returns a request prefilled with defaults. Fields
// missing from the payload keep them; fields sent as zero do not.
func newOptimizeRequest() optimizeRequest {
	return optimizeRequest{
		Inputs: pricing.Inputs{Elasticity: constants.DefaultElasticity},
		Search: config.DefaultSearchConfig(),
	}
}

type optimizeResponse struct {
	ID string `json:"id"`
	output.ResultView
	CSV      string          `json:"csv"`
	Report   *report.Outcome `json:"report,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`
	Duration string          `json:"duration"`
}

// historyRun is the encoded form of a recorded run. Baseline metrics can
// overflow for valid inputs, so they go through the same null-for-non-finite
// view as optimize responses.
type historyRun struct {
	ID           string              `json:"id"`
	CreatedAt    time.Time           `json:"createdAt"`
	Inputs       pricing.Inputs      `json:"inputs"`
	Baseline     output.BaselineView `json:"baseline"`
	Optimal      output.PointView    `json:"optimal"`
	SampleCount  int                 `json:"sampleCount"`
	ReportStatus string              `json:"reportStatus,omitempty"`
}

type historyResponse struct {
	Runs []historyRun `json:"runs"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type downloadRequest struct {
	Text   string `json:"text"`
	Format string `json:"format"`
}

func (h *handler) handleOptimize(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleOptimize"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	requestID := uuid.NewString()

	req := newOptimizeRequest()
	if !h.decodeBody(w, r, &req, op) {
		return
	}

	if err := req.Search.Validate(); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: "search"}, op)
		return
	}

	result, err := pricing.Optimize(req.Inputs, req.Search.Policy())
	if err != nil {
		h.respondPricingError(w, err, op)
		return
	}

	response := optimizeResponse{
		ID:         requestID,
		ResultView: output.NewResultView(result),
		CSV:        output.CsvString(result),
		Warnings:   h.warnings(req.Inputs),
	}

	if coerceBool(req.Options["report"]) {
		outcome := h.reports.GenerateWithID(r.Context(), requestID, report.NewFacts(req.Inputs, result, h.currencySymbol))
		response.Report = &outcome
	}

	reportStatus := string(report.StatusSkipped)
	if response.Report != nil {
		reportStatus = string(response.Report.Status)
	}
	if err := h.history.RecordRun(r.Context(), history.NewRun(requestID, req.Inputs, result, reportStatus)); err != nil {
		h.logger.Warn("failed to record run",
			zap.String("op", op),
			zap.String("requestID", requestID),
			zap.Error(err),
		)
	}

	response.Duration = time.Since(start).String()
	h.logger.Debug("optimization served",
		zap.String("op", op),
		zap.String("requestID", requestID),
		zap.Float64("optimalPrice", result.Optimal.Price),
		zap.Int("excluded", result.Excluded),
	)
	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleReportDownload(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReportDownload"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req downloadRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		h.respondErrorWithOp(w, http.StatusBadRequest, errorResponse{Error: "report text is empty", Field: "text"}, op)
		return
	}

	format := strings.ToLower(strings.TrimSpace(req.Format))
	var (
		body        string
		contentType string
		fileName    string
	)
	switch format {
	case "", "txt", "text":
		body = req.Text
		contentType = "text/plain; charset=utf-8"
		fileName = constants.DefaultReportFileName
	case "html":
		rendered, err := report.RenderHTML(req.Text)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, errorResponse{Error: err.Error()}, op)
			return
		}
		body = "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>EcoPrice report</title></head><body>\n" +
			rendered + "</body></html>\n"
		contentType = "text/html; charset=utf-8"
		fileName = constants.DefaultReportHTMLFileName
	default:
		h.respondErrorWithOp(w, http.StatusBadRequest,
			errorResponse{Error: fmt.Sprintf("unsupported report format %q, expected txt or html", req.Format), Field: "format"}, op)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		h.logger.Error("failed to write report download", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleHistory"
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.respondErrorWithOp(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid limit %q", raw), Field: "limit"}, op)
			return
		}
		limit = parsed
	}

	runs, err := h.history.Recent(r.Context(), limit)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, errorResponse{Error: err.Error()}, op)
		return
	}
	response := historyResponse{Runs: make([]historyRun, 0, len(runs))}
	for _, run := range runs {
		response.Runs = append(response.Runs, toHistoryRun(run))
	}
	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	req := newOptimizeRequest()
	if !h.decodeBody(w, r, &req, op) {
		return
	}
	if err := req.Search.Validate(); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: "search"}, op)
		return
	}

	exported := config.Configuration{
		Product: req.Inputs,
		Search:  req.Search,
		Output:  config.OutputConfig{CurrencySymbol: h.currencySymbol},
	}
	yamlBytes, err := yaml.Marshal(exported)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("failed to encode configuration: %v", err)}, op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// decodeBody reads a size-limited JSON body into dst and reports whether the
// handler should continue.
func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				errorResponse{Error: fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize)}, op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("failed to decode request: %v", err)}, op)
		return false
	}
	return true
}

func (h *handler) warnings(in pricing.Inputs) []string {
	validator := validation.ConfigValidator{
		Product: validation.ProductInfo{
			VariableCostPerUnit: in.VariableCostPerUnit,
			CurrentPrice:        in.CurrentPrice,
			CompetitorAvgPrice:  in.CompetitorAvgPrice,
			Elasticity:          in.Elasticity,
		},
	}
	return validator.ValidateAll()
}

// respondPricingError maps optimizer errors to status codes: invalid input is
// the caller's fault, an empty or unusable grid is unprocessable.
func (h *handler) respondPricingError(w http.ResponseWriter, err error, op string) {
	resp := errorResponse{Error: err.Error()}

	var invalid *pricing.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		resp.Field = invalid.Field
		h.respondErrorWithOp(w, http.StatusBadRequest, resp, op)
	case errors.Is(err, pricing.ErrDegenerateRange), errors.Is(err, pricing.ErrSimulationFailed):
		h.respondErrorWithOp(w, http.StatusUnprocessableEntity, resp, op)
	default:
		h.respondErrorWithOp(w, http.StatusInternalServerError, resp, op)
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, resp errorResponse, op string) {
	h.logger.Error("pricing request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", resp.Error),
		zap.String("field", resp.Field),
	)

	h.writeJSON(w, status, resp)
}

// writeJSON encodes before writing the header so an encoding failure becomes
// a 500 instead of a truncated 200.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Int("status", status), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func toHistoryRun(run history.Run) historyRun {
	return historyRun{
		ID:           run.ID,
		CreatedAt:    run.CreatedAt,
		Inputs:       run.Inputs,
		Baseline:     output.NewBaselineView(run.Baseline),
		Optimal:      output.NewPointView(run.Optimal, true),
		SampleCount:  run.SampleCount,
		ReportStatus: run.ReportStatus,
	}
}

func coerceBool(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return false
		}
		if parsed, err := strconv.ParseBool(trimmed); err == nil {
			return parsed
		}
	case float64:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case json.Number:
		if parsed, err := strconv.ParseFloat(v.String(), 64); err == nil {
			return parsed != 0
		}
	}
	return false
}
