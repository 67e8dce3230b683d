package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_assistant/internal/adapters/loaders"
	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_assistant/internal/core/ports/services"
	"github.com/SscSPs/ledger_assistant/internal/dto"
	"github.com/SscSPs/ledger_assistant/internal/middleware"
	"github.com/gin-gonic/gin"
)

// documentHandler handles ingestion of source documents.
type documentHandler struct {
	ingestionService portssvc.IngestionSvcFacade
}

func newDocumentHandler(is portssvc.IngestionSvcFacade) *documentHandler {
	return &documentHandler{ingestionService: is}
}

// registerDocumentRoutes registers the ingestion routes. extra runs before each
// handler, typically a rate limiter.
func registerDocumentRoutes(rg *gin.RouterGroup, is portssvc.IngestionSvcFacade, extra ...gin.HandlerFunc) {
	h := newDocumentHandler(is)

	documents := rg.Group("/documents", extra...)
	{
		documents.POST("/spreadsheet", h.ingestSpreadsheet)
		documents.POST("/rows", h.ingestRows)
		documents.POST("/pdf", h.ingestPDF)
	}
}

// ingestSpreadsheet godoc
// @Summary Ingest a spreadsheet
// @Description Uploads a sales or purchase spreadsheet (.xlsx or .csv), normalizes its rows and posts them to the ledger
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Spreadsheet file"
// @Param source formData string false "Free-form source label"
// @Success 201 {object} dto.IngestionResponse
// @Failure 400 {object} map[string]string "Missing file, unsupported format or unusable rows"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Concurrent ingestion or duplicate number"
// @Failure 500 {object} map[string]string "Failed to ingest document"
// @Security BearerAuth
// @Router /documents/spreadsheet [post]
func (h *documentHandler) ingestSpreadsheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	fileHeader, err := c.FormFile("file")
	if err != nil {
		logger.Warn("Spreadsheet upload without file", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Multipart field 'file' is required"})
		return
	}
	logger = logger.With(slog.String("filename", fileHeader.Filename), slog.Int64("size", fileHeader.Size))

	f, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer f.Close()

	rows, err := loaders.Load(fileHeader.Filename, f)
	if err != nil {
		respondError(c, logger, err, "Failed to read spreadsheet")
		return
	}
	logger.Info("Spreadsheet loaded", slog.Int("rows", len(rows)))

	h.ingest(c, logger, domain.IngestRowsInput{
		Filename: fileHeader.Filename,
		Source:   c.PostForm("source"),
		Rows:     rows,
	})
}

// ingestRows godoc
// @Summary Ingest rows
// @Description Ingests spreadsheet-like rows sent as JSON objects
// @Tags documents
// @Accept json
// @Produce json
// @Param request body dto.IngestRowsRequest true "Rows to ingest"
// @Success 201 {object} dto.IngestionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Concurrent ingestion or duplicate number"
// @Failure 500 {object} map[string]string "Failed to ingest document"
// @Security BearerAuth
// @Router /documents/rows [post]
func (h *documentHandler) ingestRows(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.IngestRowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for IngestRows", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	h.ingest(c, logger.With(slog.String("filename", req.Filename)), domain.IngestRowsInput{
		Filename: req.Filename,
		Source:   req.Source,
		Rows:     req.ToRows(),
	})
}

func (h *documentHandler) ingest(c *gin.Context, logger *slog.Logger, in domain.IngestRowsInput) {
	result, err := h.ingestionService.IngestRows(c.Request.Context(), in)
	if err != nil {
		respondError(c, logger, err, "Failed to ingest document")
		return
	}

	logger.Info("Document ingested",
		slog.Int64("document_id", result.Document.ID),
		slog.Int("transactions", len(result.Transactions)),
		slog.Int("journal_entries", result.JournalEntryCount))
	c.JSON(http.StatusCreated, dto.ToIngestionResponse(result))
}

// ingestPDF godoc
// @Summary Ingest a PDF
// @Description Stores a PDF document from its extracted page texts and indexes each page for search
// @Tags documents
// @Accept json
// @Produce json
// @Param request body dto.IngestPDFRequest true "Page texts"
// @Success 201 {object} dto.IngestionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to ingest document"
// @Security BearerAuth
// @Router /documents/pdf [post]
func (h *documentHandler) ingestPDF(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.IngestPDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for IngestPDF", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	logger = logger.With(slog.String("filename", req.Filename))

	result, err := h.ingestionService.IngestPDF(c.Request.Context(), domain.IngestPDFInput{
		Filename: req.Filename,
		Source:   req.Source,
		Pages:    req.Pages,
	})
	if err != nil {
		respondError(c, logger, err, "Failed to ingest document")
		return
	}

	logger.Info("PDF ingested", slog.Int64("document_id", result.Document.ID), slog.Int("pages", len(req.Pages)))
	c.JSON(http.StatusCreated, dto.ToIngestionResponse(result))
}
