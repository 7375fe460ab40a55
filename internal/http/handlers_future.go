package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Glivan2903/minhagrana/internal/core"
	"github.com/Glivan2903/minhagrana/internal/services"
	"github.com/Glivan2903/minhagrana/internal/storage"
)

type futureEntryRequest struct {
	ExpectedDate     string     `json:"expected_date"`
	Description      string     `json:"description"`
	CategoryID       *int64     `json:"category_id"`
	Type             string     `json:"type"`
	Amount           core.Money `json:"amount"`
	PayerPayee       string     `json:"payer_payee"`
	Recurring        bool       `json:"recurring"`
	Period           string     `json:"period"`
	Installment      bool       `json:"installment"`
	InstallmentCount int        `json:"installment_count"`
	InstallmentIndex int        `json:"installment_index"`
	Status           string     `json:"status"`
}

func (req futureEntryRequest) toCore() (core.FutureEntry, error) {
	date, err := core.ParseDate(req.ExpectedDate)
	if err != nil {
		return core.FutureEntry{}, err
	}
	return core.FutureEntry{
		ExpectedDate:     date,
		Description:      req.Description,
		CategoryID:       req.CategoryID,
		Type:             core.EntryType(req.Type),
		Amount:           req.Amount,
		PayerPayee:       req.PayerPayee,
		Recurring:        req.Recurring,
		Period:           core.RecurrencePeriod(req.Period),
		Installment:      req.Installment,
		InstallmentCount: req.InstallmentCount,
		InstallmentIndex: req.InstallmentIndex,
		Status:           core.FutureStatus(req.Status),
	}, nil
}

func futureEntryFilterFrom(r *http.Request) (storage.FutureEntryFilter, error) {
	var f storage.FutureEntryFilter
	q := r.URL.Query()

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
	if v := q.Get("status"); v != "" {
		f.Status = core.FutureStatus(v)
		if !f.Status.Valid() {
			return f, core.ErrInvalidStatus
		}
	}
	if v := q.Get("type"); v != "" {
		f.Type = core.EntryType(v)
		if !f.Type.Valid() {
			return f, core.ErrInvalidType
		}
	}
	return f, nil
}

func (s *Server) handleListFutureEntries(w http.ResponseWriter, r *http.Request) {
	f, err := futureEntryFilterFrom(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	entries, err := s.svc.ListFutureEntries(r.Context(), accountFrom(r), f)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if entries == nil {
		entries = []core.FutureEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCreateFutureEntry(w http.ResponseWriter, r *http.Request) {
	var req futureEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	entry, err := req.toCore()
	if err != nil {
		respondError(w, r, err)
		return
	}
	acct := accountFrom(r)
	if err := s.svc.CreateFutureEntry(r.Context(), acct, &entry); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateUser(acct.ID)
	respondJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleUpdateFutureEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "invalid id")
		return
	}
	var req futureEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	entry, err := req.toCore()
	if err != nil {
		respondError(w, r, err)
		return
	}
	entry.ID = id
	if entry.Status == "" {
		entry.Status = core.StatusPending
	}
	acct := accountFrom(r)
	if err := s.svc.UpdateFutureEntry(r.Context(), acct, &entry); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateUser(acct.ID)
	respondJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteFutureEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "invalid id")
		return
	}
	acct := accountFrom(r)
	if err := s.svc.DeleteFutureEntry(r.Context(), acct, id); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateUser(acct.ID)
	w.WriteHeader(http.StatusNoContent)
}

type settleRequest struct {
	Date string `json:"date"`
}

func (s *Server) handleSettleFutureEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "invalid id")
		return
	}
	var req settleRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	settledOn, err := core.ParseDate(req.Date)
	if err != nil {
		respondError(w, r, err)
		return
	}
	acct := accountFrom(r)
	tx, err := s.svc.SettleFutureEntry(r.Context(), acct, id, settledOn)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateUser(acct.ID)
	respondJSON(w, http.StatusCreated, tx)
}

// handleUpcoming lists the next projected occurrences inside the horizon
// given in days (default 30).
func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			badRequest(w, "days must be between 1 and 365")
			return
		}
		days = n
	}
	occ, err := s.svc.UpcomingOccurrences(r.Context(), accountFrom(r), time.Now(), time.Duration(days)*24*time.Hour)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if occ == nil {
		occ = []services.Occurrence{}
	}
	respondJSON(w, http.StatusOK, occ)
}
