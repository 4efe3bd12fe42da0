package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dooooncan/Stock-Trader/internal/httputil"
	"github.com/dooooncan/Stock-Trader/internal/logger"
	appmw "github.com/dooooncan/Stock-Trader/internal/middleware"
	"github.com/dooooncan/Stock-Trader/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

type RegisterRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Confirmation string `json:"confirmation"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type OrderRequest struct {
	Symbol string `json:"symbol"`
	Shares int64  `json:"shares"`
}

type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type UserResponse struct {
	ID       uint64          `json:"id"`
	Username string          `json:"username"`
	Cash     decimal.Decimal `json:"cash"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.svc.Register(r.Context(), req.Username, req.Password, req.Confirmation)
	if err != nil {
		respondError(w, "registration failed", err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, UserResponse{
		ID:       uint64(user.ID),
		Username: user.Username,
		Cash:     user.Cash,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.svc.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, "login failed", err)
		return
	}

	signed, err := appmw.IssueToken(uint64(user.ID))
	if err != nil {
		logger.Log.Error("failed to sign jwt", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, LoginResponse{Token: signed})
}

// Logout is stateless: the client discards its bearer token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := appmw.UserID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.svc.GetUser(r.Context(), userID)
	if err != nil {
		respondError(w, "failed to fetch user", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, UserResponse{
		ID:       uint64(user.ID),
		Username: user.Username,
		Cash:     user.Cash,
	})
}

func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	q, err := h.svc.GetQuote(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		respondError(w, "quote lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, q)
}

func (h *Handler) Buy(w http.ResponseWriter, r *http.Request) {
	userID, ok := appmw.UserID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	trade, err := h.svc.Buy(r.Context(), userID, req.Symbol, req.Shares)
	if err != nil {
		respondError(w, "buy failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, trade)
}

func (h *Handler) Sell(w http.ResponseWriter, r *http.Request) {
	userID, ok := appmw.UserID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	trade, err := h.svc.Sell(r.Context(), userID, req.Symbol, req.Shares)
	if err != nil {
		respondError(w, "sell failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, trade)
}

func (h *Handler) Portfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := appmw.UserID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	portfolio, err := h.svc.Portfolio(r.Context(), userID)
	if err != nil {
		respondError(w, "portfolio view failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, portfolio)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := appmw.UserID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	transactions, err := h.svc.History(r.Context(), userID)
	if err != nil {
		respondError(w, "history fetch failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, transactions)
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := appmw.UserID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	newCash, err := h.svc.Deposit(r.Context(), userID, req.Amount)
	if err != nil {
		respondError(w, "deposit failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]decimal.Decimal{"cash": newCash})
}

func respondError(w http.ResponseWriter, msg string, err error) {
	if httputil.StatusFor(err) == http.StatusInternalServerError {
		logger.Log.Error(msg, zap.Error(err))
	}
	httputil.WriteDomainError(w, err)
}
