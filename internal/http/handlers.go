package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"endurowallet/internal/core"
	"endurowallet/internal/dashboard"
	"endurowallet/internal/identity"
	"endurowallet/internal/store"
)

const maxBodyBytes = 64 * 1024

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type validationResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeSubmitError maps the error taxonomy to HTTP status codes. Validation
// failures carry the per-field messages; store failures stay opaque.
func writeSubmitError(w http.ResponseWriter, err error) {
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		fields := make(map[string]string, len(verr.Fields))
		for _, f := range verr.Fields {
			fields[f.Field] = f.Message
		}
		writeJSON(w, http.StatusBadRequest, validationResponse{Error: "validation failed", Fields: fields})
		return
	}
	switch {
	case errors.Is(err, dashboard.ErrNoUser):
		writeError(w, http.StatusUnauthorized, "no signed-in user")
	case errors.Is(err, store.ErrWriteRejected):
		writeError(w, http.StatusUnprocessableEntity, "the store rejected the record")
	case errors.Is(err, store.ErrStoreUnavailable):
		writeError(w, http.StatusBadGateway, "the record store is unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "something went wrong")
	}
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	userID, err := s.users.SignUp(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, identity.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email already registered")
		return
	case errors.Is(err, identity.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	case errors.Is(err, identity.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, "please enter a valid email address")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "sign-up failed")
		return
	}

	s.writeSession(w, r, http.StatusCreated, userID)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	userID, err := s.users.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	s.writeSession(w, r, http.StatusOK, userID)
}

func (s *Server) writeSession(w http.ResponseWriter, r *http.Request, status int, userID string) {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Token issue failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "could not create session")
		return
	}
	writeJSON(w, status, sessionResponse{UserID: userID, Token: token})
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.users.SignOut(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// kindResponse is the wire shape of one record cache: its load state, the
// records, and the load error if any.
type kindResponse[T core.Record] struct {
	State   dashboard.LoadState `json:"state"`
	Records []T                 `json:"records"`
	Error   string              `json:"error,omitempty"`
}

func writeKindView[T core.Record](w http.ResponseWriter, view dashboard.KindView[T]) {
	resp := kindResponse[T]{State: view.State, Records: view.Records}
	if resp.Records == nil {
		resp.Records = []T{}
	}
	if view.Err != nil {
		resp.Error = "the record store is unavailable"
	}
	writeJSON(w, http.StatusOK, resp)
}

type incomeRequest struct {
	Amount string `json:"incomeAmount"`
	Month  string `json:"incomeMonth"`
	Year   string `json:"incomeYear"`
}

type transactionRequest struct {
	Value    string `json:"transactionValue"`
	Category string `json:"transactionCategory"`
	Month    string `json:"transactionMonth"`
	Year     string `json:"transactionYear"`
}

type saverRequest struct {
	Name   string `json:"saverName"`
	Goal   string `json:"saverGoal"`
	Amount string `json:"saverAmount"`
}

func (s *Server) handleIncome(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeKindView(w, s.controller.Income())
	case http.MethodPost:
		var req incomeRequest
		if !decodeBody(w, r, &req) {
			return
		}
		created, err := s.controller.SubmitIncome(r.Context(), core.IncomeInput{
			Amount: req.Amount,
			Month:  req.Month,
			Year:   req.Year,
		})
		if err != nil {
			writeSubmitError(w, err)
			return
		}
		s.mutations.Add(1)
		writeJSON(w, http.StatusCreated, created)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeKindView(w, s.controller.Transactions())
	case http.MethodPost:
		var req transactionRequest
		if !decodeBody(w, r, &req) {
			return
		}
		created, err := s.controller.SubmitTransaction(r.Context(), core.TransactionInput{
			Value:    req.Value,
			Category: req.Category,
			Month:    req.Month,
			Year:     req.Year,
		})
		if err != nil {
			writeSubmitError(w, err)
			return
		}
		s.mutations.Add(1)
		writeJSON(w, http.StatusCreated, created)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleSavers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeKindView(w, s.controller.Savers())
	case http.MethodPost:
		var req saverRequest
		if !decodeBody(w, r, &req) {
			return
		}
		created, err := s.controller.SubmitSaver(r.Context(), core.SaverInput{
			Name:   req.Name,
			Goal:   req.Goal,
			Amount: req.Amount,
		})
		if err != nil {
			writeSubmitError(w, err)
			return
		}
		s.mutations.Add(1)
		writeJSON(w, http.StatusCreated, created)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

type skippedFieldResponse struct {
	RecordID string `json:"recordId"`
	Field    string `json:"field"`
	Value    string `json:"value"`
}

type overviewResponse struct {
	TotalIncome        float64                `json:"totalIncome"`
	TotalSavings       float64                `json:"totalSavings"`
	TotalSpending      float64                `json:"totalSpending"`
	SpendingByCategory map[string]float64     `json:"spendingByCategory"`
	IncomeByMonth      []float64              `json:"incomeByMonth"`
	Skipped            []skippedFieldResponse `json:"skipped,omitempty"`
}

func skippedResponse(diag core.Diagnostics) []skippedFieldResponse {
	if len(diag.Skipped) == 0 {
		return nil
	}
	out := make([]skippedFieldResponse, len(diag.Skipped))
	for i, s := range diag.Skipped {
		out[i] = skippedFieldResponse{RecordID: s.RecordID, Field: s.Field, Value: s.Raw}
	}
	return out
}

// handleOverview serves the aggregate dashboard view. Responses are cached
// per user, identity generation and year; any cache reset bumps the
// generation and naturally invalidates stale entries.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	year := r.URL.Query().Get("year")
	userID, _ := s.users.CurrentUserID()
	key := fmt.Sprintf("%s:%d:%d:%s", userID, s.controller.Generation(), s.mutations.Load(), year)
	if resp, ok := s.overviewCache.Get(key); ok {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	ov := s.controller.Overview(year)

	byCategory := make(map[string]float64, len(ov.SpendingByCategory))
	for cat, m := range ov.SpendingByCategory {
		byCategory[string(cat)] = m.Dollars()
	}
	byMonth := make([]float64, len(ov.IncomeByMonth))
	for i, m := range ov.IncomeByMonth {
		byMonth[i] = m.Dollars()
	}

	resp := overviewResponse{
		TotalIncome:        ov.TotalIncome.Dollars(),
		TotalSavings:       ov.TotalSavings.Dollars(),
		TotalSpending:      ov.TotalSpending.Dollars(),
		SpendingByCategory: byCategory,
		IncomeByMonth:      byMonth,
		Skipped:            skippedResponse(ov.Diagnostics),
	}
	s.overviewCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

type breakdownSlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type breakdownResponse struct {
	By      core.SaverField        `json:"by"`
	Slices  []breakdownSlice       `json:"slices"`
	Skipped []skippedFieldResponse `json:"skipped,omitempty"`
}

// handleSaverBreakdown serves the saver chart data. The by parameter picks
// the dimension: amount (default) or goal. Both dimensions share the same
// slice names, so the chart keeps its shape when the caller toggles.
func (s *Server) handleSaverBreakdown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	field := core.SaverAmountField
	switch r.URL.Query().Get("by") {
	case "", "amount":
	case "goal":
		field = core.SaverGoalField
	default:
		writeError(w, http.StatusBadRequest, "by must be amount or goal")
		return
	}

	breakdown := s.controller.SaverBreakdown()
	var diag core.Diagnostics
	values := breakdown.Values(field, &diag)

	names := breakdown.Names()
	slices := make([]breakdownSlice, len(names))
	for i, name := range names {
		slices[i] = breakdownSlice{Name: name, Value: values[name].Dollars()}
	}

	writeJSON(w, http.StatusOK, breakdownResponse{
		By:      field,
		Slices:  slices,
		Skipped: skippedResponse(diag),
	})
}
