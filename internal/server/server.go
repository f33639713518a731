package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/deal-analyzer/internal/analysis"
	"github.com/iwvelando/deal-analyzer/internal/deal"
	"github.com/iwvelando/deal-analyzer/internal/listing"
	"github.com/iwvelando/deal-analyzer/internal/optimizer"
	"github.com/iwvelando/deal-analyzer/pkg/constants"
	"github.com/iwvelando/deal-analyzer/pkg/optimization"
	"github.com/iwvelando/deal-analyzer/pkg/reference"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

type contextKey string

const requestIDKey contextKey = "request_id"

// Dependencies are the collaborators the API serves from.
type Dependencies struct {
	Tables   reference.Provider
	Options  analysis.Options
	Listings listing.Lookup
}

type handler struct {
	logger        *zap.Logger
	tables        reference.Provider
	analyzer      *analysis.Analyzer
	scraper       *listing.Scraper
	offers        *optimizer.Runner
	listings      listing.Lookup
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the deal analysis API.
func NewHandler(logger *zap.Logger, deps Dependencies, maxUploadSize int64, version string) (http.Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Tables == nil {
		deps.Tables = reference.Default()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	analyzer := analysis.NewAnalyzer(logger, deps.Tables, deps.Options)
	offers, err := optimizer.NewRunner(logger, analyzer)
	if err != nil {
		return nil, fmt.Errorf("failed to build offer search: %w", err)
	}

	h := &handler{
		logger:        logger,
		tables:        deps.Tables,
		analyzer:      analyzer,
		scraper:       listing.NewScraper(logger),
		offers:        offers,
		listings:      deps.Listings,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
	}

	mux := http.NewServeMux()

	// Analysis of JSON inputs, optionally seeded from an MLS listing
	mux.HandleFunc("/api/analyze", h.handleAnalyze)

	// Analysis of an uploaded listing page
	mux.HandleFunc("/api/analyze/page", h.handleAnalyzePage)

	// Highest offer meeting a cash flow target
	mux.HandleFunc("/api/offer", h.handleOffer)

	// Borrower debt service ratios
	mux.HandleFunc("/api/qualify", h.handleQualify)

	// Market benchmark lookup
	mux.HandleFunc("/api/benchmarks", h.handleBenchmarks)

	// MLS listing lookup
	mux.HandleFunc("/api/listings", h.handleListing)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return h.withRequestID(mux), nil
}

// withRequestID tags each request with an ID, reusing the caller's when given.
func (h *handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}

type analyzeRequest struct {
	Inputs    map[string]interface{} `json:"inputs"`
	Borrower  map[string]interface{} `json:"borrower,omitempty"`
	MLSNumber string                 `json:"mls_number,omitempty"`
	Target    *optimization.Target   `json:"target,omitempty"`
}

type offerResponse struct {
	RequestID string               `json:"request_id"`
	Offer     optimization.Summary `json:"offer"`
	Listing   *listing.Listing     `json:"listing,omitempty"`
	Duration  string               `json:"duration"`
}

type analyzeResponse struct {
	RequestID     string                    `json:"request_id"`
	Analysis      deal.DealAnalysis         `json:"analysis"`
	Qualification *deal.QualificationResult `json:"qualification,omitempty"`
	Listing       *listing.Listing          `json:"listing,omitempty"`
	Page          *pageSummary              `json:"page,omitempty"`
	Duration      string                    `json:"duration"`
}

type pageSummary struct {
	SourceURL string            `json:"source_url,omitempty"`
	Title     string            `json:"title,omitempty"`
	MLSNumber string            `json:"mls_number,omitempty"`
	Fields    []string          `json:"fields"`
	Skipped   []deal.FieldError `json:"skipped,omitempty"`
}

type qualifyResponse struct {
	RequestID     string                   `json:"request_id"`
	Qualification deal.QualificationResult `json:"qualification"`
}

type benchmarkResponse struct {
	City          string              `json:"city"`
	Found         bool                `json:"found"`
	Benchmark     reference.Benchmark `json:"benchmark"`
	TablesVersion string              `json:"tables_version"`
}

type errorResponse struct {
	Error     string            `json:"error"`
	Fields    []deal.FieldError `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

func (h *handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAnalyze"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	req, ok := h.decodeRequest(w, r, op)
	if !ok {
		return
	}

	inputs, err := deal.DecodeInputs(req.Inputs)
	if err != nil {
		h.respondFailure(w, r, err, op)
		return
	}

	resp := analyzeResponse{RequestID: requestID(r)}
	if req.MLSNumber != "" {
		found, err := h.lookupListing(r.Context(), req.MLSNumber)
		if err != nil {
			h.respondFailure(w, r, err, op)
			return
		}
		resp.Listing = &found
		inputs = deal.Merge(found.Inputs(), inputs)
	}

	h.analyze(w, r, inputs, req.Borrower, resp, start, op)
}

func (h *handler) handleAnalyzePage(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAnalyzePage"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, header, err := r.FormFile("page")
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, "missing listing page", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	source := r.FormValue("source_url")
	if source == "" {
		source = header.Filename
	}
	page, err := h.scraper.Parse(file, source)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusUnprocessableEntity, err.Error(), op)
		return
	}

	overrides, borrower := formValues(r)
	manual, err := deal.DecodeInputs(overrides)
	if err != nil {
		h.respondFailure(w, r, err, op)
		return
	}

	resp := analyzeResponse{
		RequestID: requestID(r),
		Page: &pageSummary{
			SourceURL: page.SourceURL,
			Title:     page.Title,
			MLSNumber: page.MLSNumber,
			Fields:    page.Fields,
			Skipped:   page.Skipped,
		},
	}
	h.analyze(w, r, deal.Merge(page.Inputs, manual), borrower, resp, start, op)
}

func (h *handler) handleOffer(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleOffer"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	req, ok := h.decodeRequest(w, r, op)
	if !ok {
		return
	}
	if req.Target == nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, "missing target", op)
		return
	}

	inputs, err := deal.DecodeInputs(req.Inputs)
	if err != nil {
		h.respondFailure(w, r, err, op)
		return
	}

	resp := offerResponse{RequestID: requestID(r)}
	if req.MLSNumber != "" {
		found, err := h.lookupListing(r.Context(), req.MLSNumber)
		if err != nil {
			h.respondFailure(w, r, err, op)
			return
		}
		resp.Listing = &found
		inputs = deal.Merge(found.Inputs(), inputs)
	}

	summary, err := h.offers.MaxOffer(firstNonEmpty(req.MLSNumber, inputs.Address), inputs, *req.Target)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusUnprocessableEntity, err.Error(), op)
		return
	}
	resp.Offer = summary
	resp.Duration = time.Since(start).String()
	h.writeJSON(w, http.StatusOK, resp)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (h *handler) handleQualify(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleQualify"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	req, ok := h.decodeRequest(w, r, op)
	if !ok {
		return
	}
	if len(req.Borrower) == 0 {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, "missing borrower", op)
		return
	}

	inputs, err := deal.DecodeInputs(req.Inputs)
	if err != nil {
		h.respondFailure(w, r, err, op)
		return
	}
	borrower, err := deal.DecodeBorrower(req.Borrower)
	if err != nil {
		h.respondFailure(w, r, err, op)
		return
	}

	qualification, err := h.analyzer.Qualify(inputs, borrower)
	if err != nil {
		h.respondFailure(w, r, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, qualifyResponse{RequestID: requestID(r), Qualification: qualification})
}

func (h *handler) handleBenchmarks(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleBenchmarks"
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, "missing city parameter", op)
		return
	}

	benchmark, found := h.tables.Benchmark(city)
	h.writeJSON(w, http.StatusOK, benchmarkResponse{
		City:          city,
		Found:         found,
		Benchmark:     benchmark,
		TablesVersion: h.tables.TablesVersion(),
	})
}

func (h *handler) handleListing(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleListing"
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	mls := strings.TrimSpace(r.URL.Query().Get("mls"))
	if mls == "" {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, "missing mls parameter", op)
		return
	}

	found, err := h.lookupListing(r.Context(), mls)
	if err != nil {
		h.respondFailure(w, r, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, found)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version":        h.version,
		"tables_version": h.tables.TablesVersion(),
	})
}

func (h *handler) analyze(w http.ResponseWriter, r *http.Request, inputs deal.PropertyInputs, rawBorrower map[string]interface{}, resp analyzeResponse, start time.Time, op string) {
	result, err := h.analyzer.Analyze(inputs)
	if err != nil {
		h.respondFailure(w, r, err, op)
		return
	}
	resp.Analysis = result

	if len(rawBorrower) > 0 {
		borrower, err := deal.DecodeBorrower(rawBorrower)
		if err != nil {
			h.respondFailure(w, r, err, op)
			return
		}
		qualification, err := h.analyzer.Qualify(inputs, borrower)
		if err != nil {
			h.respondFailure(w, r, err, op)
			return
		}
		resp.Qualification = &qualification
	}

	elapsed := time.Since(start)
	resp.Duration = elapsed.String()

	h.logger.Info("deal analysed",
		zap.String("op", op),
		zap.String("request_id", resp.RequestID),
		zap.Int("score", result.Scoring.TotalScore),
		zap.String("grade", result.Scoring.Grade),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) lookupListing(ctx context.Context, mls string) (listing.Listing, error) {
	if h.listings == nil {
		return listing.Listing{}, errNoListings
	}
	return h.listings.Find(ctx, mls)
}

var errNoListings = errors.New("listing lookups are not configured")

func (h *handler) decodeRequest(w http.ResponseWriter, r *http.Request, op string) (analyzeRequest, bool) {
	var req analyzeRequest
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return req, false
	}
	if req.Inputs == nil {
		req.Inputs = make(map[string]interface{})
	}
	return req, true
}

// formValues splits multipart form values into deal input overrides and
// borrower fields, which are prefixed with "borrower.".
func formValues(r *http.Request) (map[string]interface{}, map[string]interface{}) {
	inputs := make(map[string]interface{})
	borrower := make(map[string]interface{})
	if r.MultipartForm == nil {
		return inputs, borrower
	}
	for key, values := range r.MultipartForm.Value {
		if key == "source_url" || len(values) == 0 || strings.TrimSpace(values[0]) == "" {
			continue
		}
		if name, ok := strings.CutPrefix(key, "borrower."); ok {
			borrower[name] = values[0]
			continue
		}
		inputs[key] = values[0]
	}
	return inputs, borrower
}

// respondFailure maps an error to a status: field problems are 422, missing
// listings 404 and anything else 500.
func (h *handler) respondFailure(w http.ResponseWriter, r *http.Request, err error, op string) {
	var problems deal.ValidationErrors
	switch {
	case errors.As(err, &problems):
		h.logger.Info("request rejected",
			zap.String("op", op),
			zap.String("request_id", requestID(r)),
			zap.Strings("fields", problems.Fields()),
		)
		h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:     err.Error(),
			Fields:    problems,
			RequestID: requestID(r),
		})
	case errors.Is(err, listing.ErrNotFound):
		h.respondErrorWithOp(w, r, http.StatusNotFound, err.Error(), op)
	case errors.Is(err, errNoListings):
		h.respondErrorWithOp(w, r, http.StatusNotImplemented, err.Error(), op)
	default:
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, err.Error(), op)
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.String("request_id", requestID(r)),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, errorResponse{Error: msg, RequestID: requestID(r)})
}

// writeJSON answers an unencodable payload with a 500.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(payload); err != nil {
		h.logger.Error("failed to encode JSON response", zap.String("op", "server.writeJSON"), zap.Error(err))
		body.Reset()
		body.WriteString(`{"error":"failed to encode response"}` + "\n")
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body.Bytes()); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
