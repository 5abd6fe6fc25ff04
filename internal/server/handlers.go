package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"smartinvest/internal/analysis"
	"smartinvest/internal/logger"
	"smartinvest/internal/valuation"
)

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]any{
			"status": "ok",
			"time":   time.Now().UTC(),
		},
	})
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	symbol, ok := symbolParam(w, r)
	if !ok {
		return
	}

	quote, err := s.svc.Quote(r.Context(), symbol)
	if err != nil {
		writeServiceError(w, r, symbol, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: quote})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	symbol, ok := symbolParam(w, r)
	if !ok {
		return
	}

	bars, err := s.svc.History(r.Context(), symbol)
	if err != nil {
		writeServiceError(w, r, symbol, err)
		return
	}
	if len(bars) == 0 {
		writeError(w, http.StatusNotFound, "no price history for "+symbol)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: bars})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	symbol, ok := symbolParam(w, r)
	if !ok {
		return
	}

	articles, err := s.svc.News(r.Context(), symbol)
	if err != nil {
		writeServiceError(w, r, symbol, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: articles})
}

func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	symbol, ok := symbolParam(w, r)
	if !ok {
		return
	}

	agg, err := s.svc.Sentiment(r.Context(), symbol)
	if err != nil {
		writeServiceError(w, r, symbol, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: agg})
}

func (s *Server) handleFundamentals(w http.ResponseWriter, r *http.Request) {
	symbol, ok := symbolParam(w, r)
	if !ok {
		return
	}

	funds, err := s.svc.Fundamentals(r.Context(), symbol)
	if err != nil {
		writeServiceError(w, r, symbol, err)
		return
	}

	summary := valuation.Score(funds)
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]any{
			"symbol":       symbol,
			"fundamentals": funds,
			"valuation":    summary,
		},
	})
}

func (s *Server) handleBasicAnalysis(w http.ResponseWriter, r *http.Request) {
	symbol, ok := symbolParam(w, r)
	if !ok {
		return
	}

	report, err := s.svc.Basic(r.Context(), symbol)
	if err != nil {
		writeServiceError(w, r, symbol, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: report})
}

func (s *Server) handleTechnicalAnalysis(w http.ResponseWriter, r *http.Request) {
	symbol, ok := symbolParam(w, r)
	if !ok {
		return
	}

	report, err := s.svc.Technical(r.Context(), symbol)
	if err != nil {
		writeServiceError(w, r, symbol, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: report})
}

func (s *Server) handleComprehensiveAnalysis(w http.ResponseWriter, r *http.Request) {
	symbol, ok := symbolParam(w, r)
	if !ok {
		return
	}

	report, err := s.svc.Comprehensive(r.Context(), symbol)
	if err != nil {
		writeServiceError(w, r, symbol, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: report})
}

func (s *Server) handleCompleteAnalysis(w http.ResponseWriter, r *http.Request) {
	symbol, ok := symbolParam(w, r)
	if !ok {
		return
	}

	report, err := s.svc.Complete(r.Context(), symbol)
	if err != nil {
		writeServiceError(w, r, symbol, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: report})
}

func (s *Server) handleMultiQuote(w http.ResponseWriter, r *http.Request) {
	symbols := splitSymbols(r.URL.Query().Get("symbols"))
	if len(symbols) == 0 {
		writeError(w, http.StatusBadRequest, "symbols query parameter is required")
		return
	}

	quotes, err := s.svc.MultiQuote(r.Context(), symbols)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    map[string]any{"data": quotes, "count": len(quotes)},
	})
}

func (s *Server) handleSectorComparison(w http.ResponseWriter, r *http.Request) {
	symbol, ok := symbolParam(w, r)
	if !ok {
		return
	}
	peers := splitSymbols(r.URL.Query().Get("peers"))
	if len(peers) == 0 {
		writeError(w, http.StatusBadRequest, "at least one peer symbol is required")
		return
	}

	comparison, err := s.svc.CompareSector(r.Context(), symbol, peers)
	if err != nil {
		writeServiceError(w, r, symbol, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: comparison})
}

// demoPortfolioSymbols back the illustrative equal-weight portfolio.
var demoPortfolioSymbols = []string{"AAPL", "GOOGL", "MSFT", "TSLA"}

func (s *Server) handleDemoPortfolio(w http.ResponseWriter, r *http.Request) {
	portfolio, err := s.svc.DemoPortfolio(r.Context(), demoPortfolioSymbols)
	if err != nil {
		writeServiceError(w, r, "portfolio", err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: portfolio})
}

func splitSymbols(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if sym := strings.ToUpper(strings.TrimSpace(p)); sym != "" {
			out = append(out, sym)
		}
	}
	return out
}

func symbolParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	symbol := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "symbol")))
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return "", false
	}
	return symbol, true
}

func writeServiceError(w http.ResponseWriter, r *http.Request, symbol string, err error) {
	if errors.Is(err, analysis.ErrNoData) {
		writeError(w, http.StatusNotFound, "no data available for "+symbol)
		return
	}
	logger.ErrorWithErr(r.Context(), "Request failed", err, "symbol", symbol, "path", r.URL.Path)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error(context.Background(), "failed to write JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{Success: false, Error: msg})
}
