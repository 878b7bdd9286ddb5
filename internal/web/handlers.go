package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/capman/internal/domain"
	"go.uber.org/zap"
)

type transactionDTO struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Rate       decimal.Decimal `json:"rate"`
	TotalValue decimal.Decimal `json:"totalValue"`
	Profit     decimal.Decimal `json:"profit"`
	Date       time.Time       `json:"date"`
}

func toDTO(tx domain.Transaction) transactionDTO {
	return transactionDTO{
		ID:         tx.ID,
		Type:       tx.Kind.String(),
		Amount:     tx.Amount,
		Rate:       tx.Rate,
		TotalValue: tx.TotalValue,
		Profit:     tx.Profit,
		Date:       tx.Date,
	}
}

func toDTOs(txs []domain.Transaction) []transactionDTO {
	out := make([]transactionDTO, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toDTO(tx))
	}
	return out
}

type ledgerResponse struct {
	Pair         string           `json:"pair"`
	Initialized  bool             `json:"initialized"`
	BaseBalance  decimal.Decimal  `json:"baseBalance"`
	QuoteBalance decimal.Decimal  `json:"quoteBalance"`
	InitialRate  decimal.Decimal  `json:"initialRate"`
	AvgBuyRate   decimal.Decimal  `json:"avgBuyRate"`
	TotalBought  decimal.Decimal  `json:"totalBought"`
	TotalSold    decimal.Decimal  `json:"totalSold"`
	Transactions []transactionDTO `json:"transactions"`
}

type initRequest struct {
	Base        decimal.Decimal `json:"baseBalance"`
	Quote       decimal.Decimal `json:"quoteBalance"`
	InitialRate decimal.Decimal `json:"initialRate"`
}

type balancesRequest struct {
	Base  decimal.Decimal `json:"baseBalance"`
	Quote decimal.Decimal `json:"quoteBalance"`
}

type transactionRequest struct {
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
	Rate   decimal.Decimal `json:"rate"`
}

type analyticsResponse struct {
	Period       string           `json:"period"`
	TotalProfit  decimal.Decimal  `json:"totalProfit"`
	ProfitRate   decimal.Decimal  `json:"profitRate"`
	PeriodProfit decimal.Decimal  `json:"periodProfit"`
	AvgBuyRate   decimal.Decimal  `json:"avgBuyRate"`
	Top          []transactionDTO `json:"topProfitTransactions"`
}

func (s *Server) handleLedger(w http.ResponseWriter, _ *http.Request) {
	l := s.manager.Snapshot()
	writeJSON(w, http.StatusOK, ledgerResponse{
		Pair:         s.manager.Pair().String(),
		Initialized:  l.Initialized,
		BaseBalance:  l.BaseBalance,
		QuoteBalance: l.QuoteBalance,
		InitialRate:  l.InitialRate,
		AvgBuyRate:   l.AvgBuyRate(),
		TotalBought:  l.TotalBought,
		TotalSold:    l.TotalSold,
		Transactions: toDTOs(domain.SortedByDate(l.Transactions)),
	})
}

func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	var req initRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.manager.Initialize(r.Context(), req.Base, req.Quote, req.InitialRate); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.handleLedger(w, r)
}

func (s *Server) handleOverride(w http.ResponseWriter, r *http.Request) {
	var req balancesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.manager.OverrideBalances(r.Context(), req.Base, req.Quote); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.handleLedger(w, r)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Reset(r.Context()); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toDTOs(s.manager.RecentTransactions(limit)))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	kind, err := domain.ParseTxKind(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var tx domain.Transaction
	switch kind {
	case domain.TxKindBuy:
		tx, err = s.manager.BuyDollars(r.Context(), req.Amount, req.Rate)
	case domain.TxKindSell:
		tx, err = s.manager.SellDollars(r.Context(), req.Amount, req.Rate)
	case domain.TxKindDeposit:
		tx, err = s.manager.DepositDollars(r.Context(), req.Amount, req.Rate)
	}
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDTO(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	deleted, err := s.manager.DeleteTransaction(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	period := domain.PeriodAll
	if v := r.URL.Query().Get("period"); v != "" {
		p, err := domain.ParsePeriod(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		period = p
	}
	limit, err := queryInt(r, "limit", s.opts.TopLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, analyticsResponse{
		Period:       string(period),
		TotalProfit:  s.manager.TotalProfit(),
		ProfitRate:   s.manager.ProfitRate(),
		PeriodProfit: s.manager.PeriodProfit(period),
		AvgBuyRate:   s.manager.CalculateAvgBuyRate(),
		Top:          toDTOs(s.manager.TopProfitTransactions(limit)),
	})
}

func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrInvalidRate):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInsufficientQuoteBalance),
		errors.Is(err, domain.ErrInsufficientBaseBalance),
		errors.Is(err, domain.ErrNotInitialized),
		errors.Is(err, domain.ErrDuplicateID):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Errorf("invalid %s %q", name, v)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
