package http

import (
	"bytes"
	"html/template"
	"net/http"
	"strconv"

	"tracker/internal/chart"
	"tracker/internal/core"
	"tracker/internal/log"
	"tracker/internal/view"
)

const (
	chartWidth  = 480
	chartHeight = 260
)

var templateFuncs = template.FuncMap{
	// svg renders a chart inline; WriteSVG escapes every label.
	"svg": func(b chart.Bar) template.HTML {
		var buf bytes.Buffer
		if err := chart.WriteSVG(&buf, b, chartWidth, chartHeight); err != nil {
			return ""
		}
		return template.HTML(buf.String())
	},
}

type dashboardPage struct {
	View  view.View
	Types []core.FilterType
	Form  transactionForm
}

// transactionForm echoes a rejected submission back into the add form.
type transactionForm struct {
	Type     string
	Amount   string
	Category string
	Note     string
	Date     string
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !isRead(r) {
		writeNotFound(w, r)
		return
	}
	s.renderDashboard(w, r, http.StatusOK, nil, transactionForm{Type: string(core.Expense)})
}

// handleDashboardCreate adds a transaction from the dashboard form and
// redirects back, so a reload never resubmits.
func (s *Server) handleDashboardCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeNotFound(w, r)
		return
	}
	p := NewRequestBodyParser(w, r)
	form := transactionForm{}
	if err := p.Parse(); err != nil {
		s.renderDashboard(w, r, http.StatusBadRequest, &core.ValidationError{Field: "body", Err: errBadBody}, form)
		return
	}
	form = transactionForm{
		Type:     p.Get("type"),
		Amount:   p.Get("amount"),
		Category: p.Get("category"),
		Note:     p.Get("note"),
		Date:     p.Get("date"),
	}
	in, err := parseTransactionInput(p)
	if err != nil {
		s.renderDashboard(w, r, http.StatusBadRequest, err, form)
		return
	}
	if _, err := s.txs.Insert(r.Context(), in); err != nil {
		status, _, _ := statusFor(err)
		s.renderDashboard(w, r, status, err, form)
		return
	}
	s.mutated()
	s.created.Add(1)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleDashboardDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeNotFound(w, r)
		return
	}
	if id, ok := parseID(r.PathValue("id")); ok {
		removed, err := s.txs.DeleteByID(r.Context(), id)
		if err != nil {
			status, _, _ := statusFor(err)
			s.renderDashboard(w, r, status, err, transactionForm{Type: string(core.Expense)})
			return
		}
		if removed {
			s.mutated()
			s.deleted.Add(1)
		}
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// renderDashboard builds the view from the current ledger and the query's filters.
// actionErr, when set, is shown above the page.
func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, status int, actionErr error, form transactionForm) {
	ctx := r.Context()
	logger := log.FromContext(ctx)
	if s.templates == nil {
		logger.ErrorContext(ctx, "Templates not loaded", log.FieldPath, r.URL.Path)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	state := view.State{
		Section: view.SectionDashboard,
		Filters: core.DefaultFilter(),
		Err:     actionErr,
	}
	q := r.URL.Query()
	if ft, err := core.ParseFilterType(q.Get("type")); err != nil {
		if state.Err == nil {
			state.Err = err
		}
	} else {
		state.Filters.Type = ft
	}
	state.Filters.Search = sanitizeInput(q.Get("search"))

	txs, err := s.txs.List(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "List transactions failed", log.FieldError, err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	state.Transactions = txs

	v, err := view.Build(state)
	if err != nil {
		logger.WarnContext(ctx, "Dashboard aggregation failed", log.FieldError, err, log.FieldErrorType, log.ErrorTypeMalformed)
		if status == http.StatusOK {
			status = http.StatusUnprocessableEntity
		}
	}

	page := dashboardPage{
		View:  v,
		Types: []core.FilterType{core.FilterAll, core.FilterIncome, core.FilterExpense},
		Form:  form,
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "dashboard.html", page); err != nil {
		logger.ErrorContext(ctx, "Dashboard template execution failed", log.FieldError, err, "template", "dashboard.html")
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
