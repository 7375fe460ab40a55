package http

import (
	"net/http"
	"time"

	"github.com/Glivan2903/minhagrana/internal/core"
	"github.com/Glivan2903/minhagrana/internal/services"
)

type categoryRequest struct {
	Description string `json:"description"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.svc.ListCategories(r.Context(), accountFrom(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if cats == nil {
		cats = []core.Category{}
	}
	respondJSON(w, http.StatusOK, cats)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	acct := accountFrom(r)
	cat := core.Category{Description: req.Description}
	if err := s.svc.CreateCategory(r.Context(), acct, &cat); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateUser(acct.ID)
	respondJSON(w, http.StatusCreated, cat)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "invalid id")
		return
	}
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	acct := accountFrom(r)
	cat := core.Category{ID: id, Description: req.Description}
	if err := s.svc.UpdateCategory(r.Context(), acct, &cat); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateUser(acct.ID)
	respondJSON(w, http.StatusOK, cat)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "invalid id")
		return
	}
	acct := accountFrom(r)
	if err := s.svc.DeleteCategory(r.Context(), acct, id); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateUser(acct.ID)
	w.WriteHeader(http.StatusNoContent)
}

type goalRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Target      core.Money `json:"target"`
	Current     core.Money `json:"current"`
	StartDate   string     `json:"start_date"`
	TargetDate  string     `json:"target_date"`
	Category    string     `json:"category"`
	Status      string     `json:"status"`
}

func (req goalRequest) toCore() (core.Goal, error) {
	start, err := core.ParseDate(req.StartDate)
	if err != nil {
		return core.Goal{}, err
	}
	g := core.Goal{
		Title:       req.Title,
		Description: req.Description,
		Target:      req.Target,
		Current:     req.Current,
		StartDate:   start,
		Category:    req.Category,
		Status:      core.GoalStatus(req.Status),
	}
	if req.TargetDate != "" {
		target, err := core.ParseDate(req.TargetDate)
		if err != nil {
			return core.Goal{}, err
		}
		g.TargetDate = target
	}
	return g, nil
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.svc.ListGoals(r.Context(), accountFrom(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, services.GoalProgressList(goals, time.Now()))
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	g, err := req.toCore()
	if err != nil {
		respondError(w, r, err)
		return
	}
	acct := accountFrom(r)
	if err := s.svc.CreateGoal(r.Context(), acct, &g); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateUser(acct.ID)
	respondJSON(w, http.StatusCreated, services.NewGoalProgress(g, time.Now()))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "invalid id")
		return
	}
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	g, err := req.toCore()
	if err != nil {
		respondError(w, r, err)
		return
	}
	g.ID = id
	acct := accountFrom(r)
	if err := s.svc.UpdateGoal(r.Context(), acct, &g); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateUser(acct.ID)
	respondJSON(w, http.StatusOK, services.NewGoalProgress(g, time.Now()))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "invalid id")
		return
	}
	acct := accountFrom(r)
	if err := s.svc.DeleteGoal(r.Context(), acct, id); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateUser(acct.ID)
	w.WriteHeader(http.StatusNoContent)
}
