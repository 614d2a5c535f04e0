package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dutytrip/internal/auth"
	"dutytrip/internal/domain"
	"dutytrip/internal/service"
)

// AccountHandler handles HTTP requests for accounts.
type AccountHandler struct {
	accountService *service.AccountService
	jwtSecret      string
	tokenTTL       time.Duration
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService *service.AccountService, jwtSecret string, tokenTTL time.Duration) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		jwtSecret:      jwtSecret,
		tokenTTL:       tokenTTL,
	}
}

// RegisterRequest is the HTTP request body for account registration.
type RegisterRequest struct {
	Name   string `json:"name"`
	Secret string `json:"secret"`
	Role   string `json:"role"`
}

// AccountResponse is the HTTP response for account data. The secret hash
// never leaves the service.
type AccountResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Register handles POST /v1/accounts/register
func (h *AccountHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	account, err := h.accountService.Register(c.Request.Context(), service.RegisterRequest{
		Name:   req.Name,
		Secret: req.Secret,
		Role:   role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, AccountResponse{
		ID:   account.ID,
		Name: account.Name,
		Role: string(account.Role),
	})
}

// LoginRequest is the HTTP request body for login.
type LoginRequest struct {
	Name   string `json:"name"`
	Secret string `json:"secret"`
}

// LoginResponse is the HTTP response for a successful login.
type LoginResponse struct {
	Token   string          `json:"token"`
	Account AccountResponse `json:"account"`
}

// Login handles POST /v1/accounts/login
func (h *AccountHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	account, err := h.accountService.Authenticate(c.Request.Context(), req.Name, req.Secret)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := auth.GenerateToken(account, h.jwtSecret, h.tokenTTL)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, LoginResponse{
		Token: token,
		Account: AccountResponse{
			ID:   account.ID,
			Name: account.Name,
			Role: string(account.Role),
		},
	})
}

// GetAll handles GET /v1/accounts
func (h *AccountHandler) GetAll(c *gin.Context) {
	accounts, err := h.accountService.GetAllAccounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		response = append(response, AccountResponse{
			ID:   account.ID,
			Name: account.Name,
			Role: string(account.Role),
		})
	}

	respondJSON(c, http.StatusOK, response)
}
