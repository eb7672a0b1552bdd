package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cobros/internal/core"
	"cobros/internal/report"
	"cobros/internal/store"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.records.Users())
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var u core.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return
	}
	created, err := s.records.AddUser(r.Context(), u)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.records.DeleteUser(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUserAnalysis(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	for _, a := range core.AnalyzeUsers(s.records.Charges()) {
		if a.UserID == id {
			respondJSON(w, http.StatusOK, a)
			return
		}
	}
	// A user with no dated charges still gets an empty analysis.
	u, err := s.records.UserByID(id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, core.UserAnalysis{UserID: u.ID, Name: u.Name, Years: []core.YearDetail{}})
}

func (s *Server) handleListCharges(w http.ResponseWriter, r *http.Request) {
	charges := s.records.Charges()
	if year, month := parsePeriod(r); year != 0 || month != 0 {
		charges = core.FilterByPeriod(charges, year, month)
	}
	// Recent-activity views ask for the first N of the newest-first
	// order.
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n < len(charges) {
			charges = charges[:n]
		}
	}
	respondJSON(w, http.StatusOK, charges)
}

func (s *Server) handleCreateCharge(w http.ResponseWriter, r *http.Request) {
	var c core.Charge
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return
	}
	created, err := s.records.AddCharge(r.Context(), c)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateCharge(w http.ResponseWriter, r *http.Request) {
	var upd store.ChargeUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return
	}
	updated, err := s.records.UpdateCharge(r.Context(), r.PathValue("id"), upd)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCharge(w http.ResponseWriter, r *http.Request) {
	if err := s.records.DeleteCharge(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type dashboardResponse struct {
	Overview core.Overview      `json:"resumen"`
	Users    []core.UserSummary `json:"usuarios"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	year, month := parsePeriod(r)
	charges := core.FilterByPeriod(s.records.Charges(), year, month)
	respondJSON(w, http.StatusOK, dashboardResponse{
		Overview: core.Summarize(charges),
		Users:    core.SummarizeByUser(charges),
	})
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, core.GroupByMonthThenUser(s.filteredCharges(r)))
}

type monthlyReportResponse struct {
	Year   int         `json:"anio"`
	Months [12]float64 `json:"meses"`
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	respondJSON(w, http.StatusOK, monthlyReportResponse{
		Year:   year,
		Months: core.SummarizeByMonth(s.records.Charges(), year),
	})
}

func (s *Server) handleYearlyReport(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, core.YearlyStats(s.records.Charges()))
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	charges := s.filteredCharges(r)
	if len(charges) == 0 {
		respondJSON(w, http.StatusNotFound, errorBody{Error: "no hay cobros para exportar"})
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.FileName(time.Now())+`"`)
	_, _ = w.Write([]byte(report.DelimitedText(charges)))
}

func (s *Server) handleExportPrint(w http.ResponseWriter, r *http.Request) {
	charges := s.filteredCharges(r)
	if len(charges) == 0 {
		respondJSON(w, http.StatusNotFound, errorBody{Error: "no hay cobros para exportar"})
		return
	}
	doc, err := report.PrintableDocument(charges, time.Now())
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(doc))
}

// filteredCharges applies the shared user/date-range query filter.
func (s *Server) filteredCharges(r *http.Request) []core.Charge {
	q := r.URL.Query()
	return core.FilterByUserAndRange(s.records.Charges(),
		strings.TrimSpace(q.Get("user")),
		strings.TrimSpace(q.Get("from")),
		strings.TrimSpace(q.Get("to")))
}

// parsePeriod reads optional year and month query parameters; 0 means
// the dimension is not filtered.
func parsePeriod(r *http.Request) (year, month int) {
	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := strings.TrimSpace(q.Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			month = m
		}
	}
	return year, month
}
