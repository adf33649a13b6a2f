package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"gamebank/internal/core"
	"gamebank/internal/ledger"
	"gamebank/internal/services"
)

type startGameRequest struct {
	Players       []playerSetupRequest `json:"players"`
	InitialAmount *int64               `json:"initial_amount"`
	Currency      string               `json:"currency"`
}

type playerSetupRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type transactionRequest struct {
	Type string     `json:"type"`
	From core.Party `json:"from"`
	To   core.Party `json:"to"`
	// Amount arrives either as a number or as a display string ("5,000").
	Amount json.RawMessage `json:"amount"`
	Label  string          `json:"label"`
}

type sessionResponse struct {
	Session *core.Session `json:"session"`
}

type endGameResponse struct {
	Session   core.Session    `json:"session"`
	Standings []core.Standing `json:"standings"`
}

type standingsResponse struct {
	Standings []core.Standing `json:"standings"`
}

type historyResponse struct {
	Sessions []core.Session `json:"sessions"`
}

type undoResponse struct {
	Undone bool `json:"undone"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGame serves the active session (GET) and game creation (POST).
func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		session, err := s.service.LoadActiveSession(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load session")
			return
		}
		writeJSON(w, http.StatusOK, sessionResponse{Session: session})

	case http.MethodPost:
		var req startGameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		setups := make([]ledger.PlayerSetup, len(req.Players))
		for i, p := range req.Players {
			setups[i] = ledger.PlayerSetup{Name: p.Name, Color: p.Color}
		}
		initial := core.DefaultInitialAmount
		if req.InitialAmount != nil {
			initial = *req.InitialAmount
		}
		currency := core.DefaultCurrency
		if req.Currency != "" {
			currency = core.Currency(req.Currency)
		}

		session, err := s.service.StartNewGame(r.Context(), setups, initial, currency)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sessionResponse{Session: session})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ended, err := s.service.EndGame(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, endGameResponse{
		Session:   *ended,
		Standings: core.Standings(ended),
	})
}

// handleStandings ranks the live session without ending it.
func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	session, err := s.service.LoadActiveSession(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	if session == nil {
		writeDomainError(w, core.ErrNoActiveSession)
		return
	}
	writeJSON(w, http.StatusOK, standingsResponse{Standings: core.Standings(session)})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	history, err := s.service.SessionHistory(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{Sessions: history})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	amount, err := core.ParseAmount(strings.Trim(string(req.Amount), `"`))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	session, err := s.service.RecordTransaction(r.Context(), services.TransactionInput{
		Type:   core.TransactionType(req.Type),
		From:   req.From,
		To:     req.To,
		Amount: amount,
		Label:  req.Label,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{Session: session})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	undone, err := s.service.UndoLastTransaction(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to undo")
		return
	}
	writeJSON(w, http.StatusOK, undoResponse{Undone: undone})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := s.service.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reset")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeDomainError maps ledger errors onto HTTP statuses: missing session is
// a conflict, everything the validator rejects is unprocessable.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNoActiveSession):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, core.ErrSessionEnded):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidCurrency),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrUnknownPlayer),
		errors.Is(err, core.ErrSamePlayer),
		errors.Is(err, core.ErrBankLeg),
		errors.Is(err, core.ErrPlayerCount),
		errors.Is(err, core.ErrNegativeInitial):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
