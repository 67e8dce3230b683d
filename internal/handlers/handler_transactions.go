package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_assistant/internal/core/ports/services"
	"github.com/SscSPs/ledger_assistant/internal/dto"
	"github.com/SscSPs/ledger_assistant/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles lifecycle changes of committed transactions and
// journal entry listings.
type transactionHandler struct {
	ingestionService portssvc.IngestionSvcFacade
}

func newTransactionHandler(is portssvc.IngestionSvcFacade) *transactionHandler {
	return &transactionHandler{ingestionService: is}
}

func registerTransactionRoutes(rg *gin.RouterGroup, is portssvc.IngestionSvcFacade) {
	h := newTransactionHandler(is)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("/:transactionID/complete", h.completeTransaction)
		transactions.POST("/:transactionID/reverse", h.reverseTransaction)
	}
	rg.GET("/journal-entries", h.listJournalEntries)
}

func transactionIDParam(c *gin.Context, logger *slog.Logger) (int64, bool) {
	raw := c.Param("transactionID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		logger.Warn("Invalid transaction ID in path", slog.String("transaction_id", raw))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Transaction ID must be a positive integer"})
		return 0, false
	}
	return id, true
}

// completeTransaction godoc
// @Summary Complete a transaction
// @Description Moves a pending transaction to completed. Completing a completed transaction is a no-op.
// @Tags transactions
// @Produce json
// @Param transactionID path int true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid transaction ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to complete transaction"
// @Security BearerAuth
// @Router /transactions/{transactionID}/complete [post]
func (h *transactionHandler) completeTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := transactionIDParam(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.Int64("transaction_id", id))

	txn, err := h.ingestionService.CompleteTransaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "Failed to complete transaction")
		return
	}

	logger.Info("Transaction completed")
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// reverseTransaction godoc
// @Summary Reverse a transaction
// @Description Posts offsetting journal entries for every entry of a transaction. A transaction can be reversed once.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transactionID path int true "Transaction ID"
// @Param request body dto.ReverseTransactionRequest false "Reversal date and reason"
// @Success 201 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction already reversed"
// @Failure 500 {object} map[string]string "Failed to reverse transaction"
// @Security BearerAuth
// @Router /transactions/{transactionID}/reverse [post]
func (h *transactionHandler) reverseTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := transactionIDParam(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.Int64("transaction_id", id))

	var req dto.ReverseTransactionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for ReverseTransaction", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	var date time.Time
	if req.Date != "" {
		// already validated by the isodate tag
		date, _ = dto.ParseDate(req.Date)
	}

	entries, err := h.ingestionService.ReverseTransaction(c.Request.Context(), id, date, req.Reason)
	if err != nil {
		respondError(c, logger, err, "Failed to reverse transaction")
		return
	}

	logger.Info("Transaction reversed", slog.Int("entries", len(entries)))
	c.JSON(http.StatusCreated, dto.ListJournalEntriesResponse{Entries: dto.ToJournalEntryResponses(entries)})
}

// listJournalEntries godoc
// @Summary List journal entries
// @Description Lists posted journal entries, newest first, with token pagination
// @Tags journal
// @Produce json
// @Param accountCode query string false "Filter by account code"
// @Param transactionID query int false "Filter by transaction"
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list journal entries"
// @Security BearerAuth
// @Router /journal-entries [get]
func (h *transactionHandler) listJournalEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListJournalEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	filter := domain.JournalEntryFilter{AccountCode: params.AccountCode, TransactionID: params.TransactionID}
	entries, next, err := h.ingestionService.ListJournalEntries(c.Request.Context(), filter, params.Limit, params.NextToken)
	if err != nil {
		respondError(c, logger, err, "Failed to list journal entries")
		return
	}

	logger.Debug("Journal entries listed", slog.Int("count", len(entries)))
	c.JSON(http.StatusOK, dto.ListJournalEntriesResponse{Entries: dto.ToJournalEntryResponses(entries), NextToken: next})
}
