package http

import (
	"net/http"
	"time"

	"github.com/Glivan2903/minhagrana/internal/core"
	"github.com/Glivan2903/minhagrana/internal/services"
)

func monthParam(r *http.Request) (core.MonthRef, error) {
	month := core.MonthRef(r.URL.Query().Get("month"))
	if month == "" {
		now := time.Now()
		month = core.MonthOf(core.NewDate(now.Year(), int(now.Month()), now.Day()))
	}
	if err := month.Validate(); err != nil {
		return "", err
	}
	return month, nil
}

// cachedDashboard serves the month view from the per-user cache when warm.
func (s *Server) cachedDashboard(r *http.Request, acct core.Account, month core.MonthRef) (services.Dashboard, error) {
	key := cacheKeyPrefix(acct.ID) + string(month)
	if dash, ok := s.dashboardCache.Get(key); ok {
		return dash, nil
	}
	dash, err := s.svc.Dashboard(r.Context(), acct, month)
	if err != nil {
		return services.Dashboard{}, err
	}
	s.dashboardCache.Set(key, dash)
	return dash, nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	dash, err := s.cachedDashboard(r, accountFrom(r), month)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dash)
}

func (s *Server) handleDetailedReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := core.ParseDate(q.Get("start"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	end, err := core.ParseDate(q.Get("end"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	rep, err := s.svc.DetailedReport(r.Context(), accountFrom(r), start, end)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

// handleReportSummary returns just the combined totals for the range, without
// the breakdown tables the detailed endpoint carries.
func (s *Server) handleReportSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := core.ParseDate(q.Get("start"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	end, err := core.ParseDate(q.Get("end"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	rep, err := s.svc.DetailedReport(r.Context(), accountFrom(r), start, end)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rep.Report)
}

type chartRender func(dash services.Dashboard) ([]byte, error)

// serveChart renders (or serves from cache) one PNG derived from the month
// dashboard.
func (s *Server) serveChart(w http.ResponseWriter, r *http.Request, kind string, render chartRender) {
	month, err := monthParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	acct := accountFrom(r)

	key := cacheKeyPrefix(acct.ID) + string(month) + "|" + kind
	png, ok := s.chartCache.Get(key)
	if !ok {
		dash, err := s.cachedDashboard(r, acct, month)
		if err != nil {
			respondError(w, r, err)
			return
		}
		png, err = render(dash)
		if err != nil {
			respondError(w, r, err)
			return
		}
		s.chartCache.Set(key, png)
	}

	if len(png) == 0 {
		respondJSON(w, http.StatusNotFound, errorBody{Error: "no data to chart", Code: "no_data"})
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (s *Server) handleSummaryDonut(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, "summary", func(dash services.Dashboard) ([]byte, error) {
		return s.renderer.IncomeExpenseDonut(dash.Totals)
	})
}

func (s *Server) handleExpensePie(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, "expenses", func(dash services.Dashboard) ([]byte, error) {
		return s.renderer.CategoryPie("Despesas por categoria", dash.ExpenseByCategory)
	})
}

func (s *Server) handleIncomePie(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, "income", func(dash services.Dashboard) ([]byte, error) {
		return s.renderer.CategoryPie("Receitas por categoria", dash.IncomeByCategory)
	})
}

func (s *Server) handleBalanceChart(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, "balance", func(dash services.Dashboard) ([]byte, error) {
		return s.renderer.RunningBalance(dash.BalanceSeries)
	})
}
