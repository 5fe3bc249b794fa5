package http

import (
	"net/http"
	"time"

	"tracker/internal/core"
	"tracker/internal/log"
)

const rootMessage = "Expense Tracker Backend is running 🚀"

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || !isRead(r) {
		writeNotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(rootMessage))
}

func (s *Server) handleAPIHealth(w http.ResponseWriter, r *http.Request) {
	if !isRead(r) {
		writeNotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "Backend running healthy ✅"})
}

func (s *Server) handleDebug(w http.ResponseWriter, r *http.Request) {
	if !isRead(r) {
		writeNotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "API routes loaded successfully",
		"time":   time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeNotFound(w, r)
		return
	}
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		writeError(w, r, log.OpSignup, &core.ValidationError{Field: "body", Err: errBadBody})
		return
	}
	if _, err := s.accounts.Signup(r.Context(), parseSignup(p)); err != nil {
		writeError(w, r, log.OpSignup, err)
		return
	}
	writeMessage(w, http.StatusOK, "Signup successful")
}

type loginResponse struct {
	Message string          `json:"message"`
	User    core.PublicUser `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeNotFound(w, r)
		return
	}
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		writeError(w, r, log.OpLogin, core.ErrInvalidCredentials)
		return
	}
	user, err := s.accounts.Verify(r.Context(), p.Get("email"), p.Raw("password"))
	if err != nil {
		writeError(w, r, log.OpLogin, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Message: "Login successful", User: user})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		writeNotFound(w, r)
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.txs.List(r.Context())
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		writeError(w, r, log.OpCreate, &core.ValidationError{Field: "body", Err: errBadBody})
		return
	}
	in, err := parseTransactionInput(p)
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	tx, err := s.txs.Insert(r.Context(), in)
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	s.mutated()
	s.created.Add(1)
	writeJSON(w, http.StatusCreated, tx)
}

// handleTransactionByID deletes by id and always reports success, whether
// or not anything matched.
func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeNotFound(w, r)
		return
	}
	if id, ok := parseID(r.PathValue("id")); ok {
		removed, err := s.txs.DeleteByID(r.Context(), id)
		if err != nil {
			writeError(w, r, log.OpDelete, err)
			return
		}
		if removed {
			s.mutated()
			s.deleted.Add(1)
		}
		log.FromContext(r.Context()).DebugContext(r.Context(), "Transaction delete",
			log.FieldTransactionID, id,
			"removed", removed)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if !isRead(r) {
		writeNotFound(w, r)
		return
	}
	q := r.URL.Query()
	ft, err := core.ParseFilterType(q.Get("type"))
	if err != nil {
		writeError(w, r, log.OpSummary, err)
		return
	}
	res, err := s.summarize(r.Context(), core.Filter{Type: ft, Search: sanitizeInput(q.Get("search"))})
	if err != nil {
		writeError(w, r, log.OpSummary, err)
		return
	}
	if res.Transactions == nil {
		res.Transactions = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, res)
}
