package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_assistant/internal/core/ports/services"
	"github.com/SscSPs/ledger_assistant/internal/dto"
	"github.com/SscSPs/ledger_assistant/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.ensureAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:code", h.getAccount)
	}
}

// ensureAccount godoc
// @Summary Ensure an account exists
// @Description Creates the account when its code is not yet in the chart and returns the stored account either way
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.EnsureAccountRequest true "Account details"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to ensure account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) ensureAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.EnsureAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for EnsureAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("account_code", req.Code))
	logger.Info("Received request to ensure account", slog.String("account_name", req.Name))

	account, err := h.accountService.EnsureAccount(c.Request.Context(), req.Code, req.Name, req.AccountType)
	if err != nil {
		respondError(c, logger, err, "Failed to ensure account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account by code
// @Tags accounts
// @Produce  json
// @Param   code path string true "Account code"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Security BearerAuth
// @Router /accounts/{code} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_code", c.Param("code")))

	account, err := h.accountService.GetAccountByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists the chart of accounts with current balances
// @Tags accounts
// @Produce  json
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accounts, err := h.accountService.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list accounts")
		return
	}

	logger.Debug("Accounts listed successfully", slog.Int("count", len(accounts)))
	c.JSON(http.StatusOK, dto.ToListAccountsResponse(accounts))
}
