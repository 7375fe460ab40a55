package http

import (
	"net/http"
	"strconv"

	"github.com/Glivan2903/minhagrana/internal/core"
	"github.com/Glivan2903/minhagrana/internal/storage"
)

// transactionRequest decodes amounts through core.Money, so the decimal is
// parsed exactly instead of passing through a float64.
type transactionRequest struct {
	Date        string     `json:"date"`
	Description string     `json:"description"`
	CategoryID  *int64     `json:"category_id"`
	Type        string     `json:"type"`
	Amount      core.Money `json:"amount"`
	Payer       string     `json:"payer"`
	Payee       string     `json:"payee"`
}

func (req transactionRequest) toCore() (core.Transaction, error) {
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Date:        date,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Type:        core.EntryType(req.Type),
		Amount:      req.Amount,
		Payer:       req.Payer,
		Payee:       req.Payee,
	}, nil
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// transactionFilterFrom reads the optional month, date-range, type and limit
// query parameters.
func transactionFilterFrom(r *http.Request) (storage.TransactionFilter, error) {
	var f storage.TransactionFilter
	q := r.URL.Query()

	if month := q.Get("month"); month != "" {
		f.Month = core.MonthRef(month)
		if err := f.Month.Validate(); err != nil {
			return f, err
		}
	}
	if v := q.Get("start"); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return f, err
		}
		f.StartDate = &d
	}
	if v := q.Get("end"); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return f, err
		}
		f.EndDate = &d
	}
	if v := q.Get("type"); v != "" {
		f.Type = core.EntryType(v)
		if !f.Type.Valid() {
			return f, core.ErrInvalidType
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.Limit = n
		}
	}
	return f, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	f, err := transactionFilterFrom(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	txs, err := s.svc.ListTransactions(r.Context(), accountFrom(r), f)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	respondJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	tx, err := req.toCore()
	if err != nil {
		respondError(w, r, err)
		return
	}
	acct := accountFrom(r)
	if err := s.svc.CreateTransaction(r.Context(), acct, &tx); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateUser(acct.ID)
	respondJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "invalid id")
		return
	}
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	tx, err := req.toCore()
	if err != nil {
		respondError(w, r, err)
		return
	}
	tx.ID = id
	acct := accountFrom(r)
	if err := s.svc.UpdateTransaction(r.Context(), acct, &tx); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateUser(acct.ID)
	respondJSON(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "invalid id")
		return
	}
	acct := accountFrom(r)
	if err := s.svc.DeleteTransaction(r.Context(), acct, id); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateUser(acct.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	f, err := transactionFilterFrom(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	out, err := s.svc.ExportTransactionsCSV(r.Context(), accountFrom(r), f)
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="transacoes.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}
