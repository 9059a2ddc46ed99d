package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shubham-bhadra-10/Legalyze/middleware"
	"github.com/shubham-bhadra-10/Legalyze/model"
	"github.com/shubham-bhadra-10/Legalyze/pkg/apperr"
	"github.com/shubham-bhadra-10/Legalyze/service"
)

type ContractHandler struct {
	svc            *service.AnalysisService
	maxUploadBytes int64
}

func NewContractHandler(svc *service.AnalysisService, maxUploadBytes int64) *ContractHandler {
	return &ContractHandler{svc: svc, maxUploadBytes: maxUploadBytes}
}

// readUpload pulls the uploaded contract file out of the multipart form.
func (h *ContractHandler) readUpload(c *gin.Context) ([]byte, bool) {
	file, header, err := c.Request.FormFile("contract")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return nil, false
	}
	defer file.Close()

	if !isPDFUpload(header) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF files are allowed"})
		return nil, false
	}

	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return nil, false
	}

	// maxUploadBytes <= 0 means no limit
	reader := io.Reader(file)
	if h.maxUploadBytes > 0 {
		reader = io.LimitReader(file, h.maxUploadBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return nil, false
	}
	if h.maxUploadBytes > 0 && int64(len(data)) > h.maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return nil, false
	}

	return data, true
}

func isPDFUpload(header *multipart.FileHeader) bool {
	if strings.ToLower(filepath.Ext(header.Filename)) != ".pdf" {
		return false
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		return true
	}
	return strings.Contains(contentType, "pdf")
}

// DetectType proposes a contract type for an uploaded PDF
func (h *ContractHandler) DetectType(c *gin.Context) {
	userID := middleware.GetUserID(c)

	data, ok := h.readUpload(c)
	if !ok {
		return
	}

	detected, err := h.svc.DetectType(c.Request.Context(), userID, data)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detectedType": detected})
}

// Analyze runs the full analysis for a confirmed contract type
func (h *ContractHandler) Analyze(c *gin.Context) {
	userID := middleware.GetUserID(c)

	data, ok := h.readUpload(c)
	if !ok {
		return
	}

	contractType := strings.TrimSpace(c.PostForm("contractType"))

	record, err := h.svc.Analyze(c.Request.Context(), userID, data, contractType)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.VisibleFields(record, middleware.IsPremium(c)))
}

// List returns the caller's analyses, newest first, as slim rows
func (h *ContractHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	records, err := h.svc.ListContracts(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	result := make([]gin.H, len(records))
	for i, record := range records {
		result[i] = gin.H{
			"id":           record.ID,
			"contractType": record.ContractType,
			"overallScore": record.OverallScore,
			"created_at":   record.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			"version":      record.Version,
		}
	}

	c.JSON(http.StatusOK, gin.H{"contracts": result})
}

// Get returns a single analysis with the access gate applied
func (h *ContractHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id := c.Param("id")

	record, err := h.svc.GetContract(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.VisibleFields(record, middleware.IsPremium(c)))
}

type feedbackRequest struct {
	Rating   int    `json:"rating" binding:"required"`
	Comments string `json:"comments"`
}

// Feedback stores the caller's rating of an analysis
func (h *ContractHandler) Feedback(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id := c.Param("id")

	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	fb := model.Feedback{Rating: req.Rating, Comments: req.Comments}
	if err := h.svc.SetFeedback(c.Request.Context(), userID, id, fb); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Feedback saved"})
}

// writeError maps pipeline error kinds onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch apperr.KindOf(err) {
	case apperr.KindInput:
		status = http.StatusBadRequest
	case apperr.KindExtraction:
		status = http.StatusUnprocessableEntity
	case apperr.KindClassification, apperr.KindAnalysisBackend:
		status = http.StatusBadGateway
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindPersistence:
		status = http.StatusInternalServerError
	case apperr.KindInfra:
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
