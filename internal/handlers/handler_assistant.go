package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_assistant/internal/core/ports/services"
	"github.com/SscSPs/ledger_assistant/internal/dto"
	"github.com/SscSPs/ledger_assistant/internal/middleware"
	"github.com/gin-gonic/gin"
)

// assistantHandler serves semantic search and question answering.
type assistantHandler struct {
	assistantService portssvc.AssistantSvcFacade
}

func newAssistantHandler(as portssvc.AssistantSvcFacade) *assistantHandler {
	return &assistantHandler{assistantService: as}
}

func registerAssistantRoutes(rg *gin.RouterGroup, as portssvc.AssistantSvcFacade) {
	h := newAssistantHandler(as)

	rg.GET("/search", h.search)
	rg.POST("/assistant/ask", h.ask)
}

// search godoc
// @Summary Semantic search
// @Description Returns the indexed snippets closest to the query
// @Tags assistant
// @Produce json
// @Param q query string true "Query text"
// @Param k query int false "Number of results"
// @Success 200 {object} dto.SearchResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /search [get]
func (h *assistantHandler) search(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var query dto.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind search query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	results, err := h.assistantService.Search(c.Request.Context(), query.Q, query.K)
	if err != nil {
		respondError(c, logger, err, "Search failed")
		return
	}
	c.JSON(http.StatusOK, dto.SearchResponse{Results: results})
}

// ask godoc
// @Summary Ask the assistant
// @Description Plans which reports answer the question, runs them and phrases an answer
// @Tags assistant
// @Accept json
// @Produce json
// @Param request body dto.AskRequest true "Question"
// @Success 200 {object} domain.AssistantAnswer
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to answer question"
// @Security BearerAuth
// @Router /assistant/ask [post]
func (h *assistantHandler) ask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Ask", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	answer, err := h.assistantService.Ask(c.Request.Context(), req.Question)
	if err != nil {
		respondError(c, logger, err, "Failed to answer question")
		return
	}

	logger.Info("Question answered",
		slog.Int("reports", len(answer.Reports)),
		slog.Int("snippets", len(answer.Snippets)),
		slog.Bool("fallback", answer.Fallback))
	c.JSON(http.StatusOK, answer)
}
