package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shubham-bhadra-10/Legalyze/service"
)

const analysisReply = `{
  "risks": [
    {"risk": "R1", "explanation": "E1", "severity": "high"},
    {"risk": "R2", "explanation": "E2", "severity": "medium"},
    {"risk": "R3", "explanation": "E3", "severity": "low"},
    {"risk": "R4", "explanation": "E4", "severity": "low"},
    {"risk": "R5", "explanation": "E5", "severity": "low"}
  ],
  "opportunities": [
    {"opportunity": "O1", "explanation": "E1", "impact": "medium"}
  ],
  "summary": "Test summary",
  "recommendations": ["Do something"],
  "overallScore": 55
}`

type stubGenerator struct {
	reply string
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.reply, nil
}

func (g *stubGenerator) Model() string { return "stub-model" }

type stubExtractor struct{}

func (stubExtractor) Extract(ctx context.Context, blob []byte) (string, error) {
	return "extracted contract text", nil
}

func newTestRouter(t *testing.T, reply string, premium bool) (*gin.Engine, *service.AnalysisService) {
	return newTestRouterWithLimit(t, reply, premium, 10*1024*1024)
}

func newTestRouterWithLimit(t *testing.T, reply string, premium bool, maxUploadBytes int64) (*gin.Engine, *service.AnalysisService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	kv := service.NewMemoryKV()
	svc := service.NewAnalysisService(
		service.NewBlobStore(kv, time.Minute),
		stubExtractor{},
		service.NewClassifier(&stubGenerator{reply: reply}, 2000),
		service.NewAnalyzer(&stubGenerator{reply: reply}),
		service.NewMemoryStore(),
		service.NewResultCache(kv, time.Minute),
		"stub-model",
		30*time.Second,
	)

	h := NewContractHandler(svc, maxUploadBytes)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Set("username", "alice")
		c.Set("premium", premium)
		c.Next()
	})
	router.POST("/api/contracts/detect-type", h.DetectType)
	router.POST("/api/contracts/analyze", h.Analyze)
	router.GET("/api/contracts", h.List)
	router.GET("/api/contracts/:id", h.Get)
	router.POST("/api/contracts/:id/feedback", h.Feedback)

	return router, svc
}

func pdfUpload(t *testing.T, filename string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("contract", filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	part.Write([]byte("%PDF-1.4 fake contract bytes"))
	for k, v := range fields {
		writer.WriteField(k, v)
	}
	writer.Close()

	return body, writer.FormDataContentType()
}

func TestDetectTypeEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, "Employment", false)

	body, contentType := pdfUpload(t, "contract.pdf", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/contracts/detect-type", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["detectedType"] != "Employment" {
		t.Errorf("Expected detectedType Employment, got %q", resp["detectedType"])
	}
}

func TestDetectTypeNoFile(t *testing.T) {
	router, _ := newTestRouter(t, "Employment", false)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/contracts/detect-type", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestDetectTypeRejectsNonPDFFilename(t *testing.T) {
	router, _ := newTestRouter(t, "Employment", false)

	body, contentType := pdfUpload(t, "contract.docx", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/contracts/detect-type", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "PDF") {
		t.Errorf("Expected PDF rejection message, got %s", w.Body.String())
	}
}

func TestUploadNoSizeLimit(t *testing.T) {
	// A zero limit disables the size check entirely, it must not starve
	// the read.
	router, _ := newTestRouterWithLimit(t, "Employment", false, 0)

	body, contentType := pdfUpload(t, "contract.pdf", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/contracts/detect-type", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUploadTooLarge(t *testing.T) {
	router, _ := newTestRouterWithLimit(t, "Employment", false, 8)

	body, contentType := pdfUpload(t, "contract.pdf", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/contracts/detect-type", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "too large") {
		t.Errorf("Expected size rejection message, got %s", w.Body.String())
	}
}

func TestAnalyzeEndpointFreeUser(t *testing.T) {
	router, _ := newTestRouter(t, analysisReply, false)

	body, contentType := pdfUpload(t, "contract.pdf", map[string]string{"contractType": "Lease"})
	req := httptest.NewRequest(http.MethodPost, "/api/contracts/analyze", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)

	risks, _ := resp["risks"].([]any)
	if len(risks) != 3 {
		t.Errorf("Expected free tier to see 3 risks, got %d", len(risks))
	}
	if resp["risksHidden"] != float64(2) {
		t.Errorf("Expected 2 hidden risks, got %v", resp["risksHidden"])
	}
	if _, ok := resp["recommendations"]; ok {
		t.Error("Expected recommendations withheld from free tier")
	}
	if _, ok := resp["contractText"]; ok {
		t.Error("Expected contract text withheld from free tier")
	}
	if msg, _ := resp["upgradeMessage"].(string); !strings.Contains(msg, "Premium") {
		t.Errorf("Expected upgrade message, got %v", resp["upgradeMessage"])
	}
}

func TestAnalyzeEndpointPremiumUser(t *testing.T) {
	router, _ := newTestRouter(t, analysisReply, true)

	body, contentType := pdfUpload(t, "contract.pdf", map[string]string{"contractType": "Lease"})
	req := httptest.NewRequest(http.MethodPost, "/api/contracts/analyze", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)

	risks, _ := resp["risks"].([]any)
	if len(risks) != 5 {
		t.Errorf("Expected premium tier to see all 5 risks, got %d", len(risks))
	}
	if _, ok := resp["recommendations"]; !ok {
		t.Error("Expected recommendations visible to premium tier")
	}
	if _, ok := resp["upgradeMessage"]; ok {
		t.Error("Expected no upgrade message for premium tier")
	}
}

func TestAnalyzeMissingContractType(t *testing.T) {
	router, _ := newTestRouter(t, analysisReply, false)

	body, contentType := pdfUpload(t, "contract.pdf", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/contracts/analyze", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetContractEndpoint(t *testing.T) {
	router, svc := newTestRouter(t, analysisReply, false)

	stored, err := svc.Analyze(context.Background(), "user-1", []byte("pdf"), "Lease")
	if err != nil {
		t.Fatalf("Seed analyze failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/contracts/"+stored.ID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["id"] != stored.ID {
		t.Errorf("Expected record %s, got %v", stored.ID, resp["id"])
	}
}

func TestGetContractNotFound(t *testing.T) {
	router, _ := newTestRouter(t, analysisReply, false)

	req := httptest.NewRequest(http.MethodGet, "/api/contracts/no-such-id", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestListContractsEndpoint(t *testing.T) {
	router, svc := newTestRouter(t, analysisReply, false)

	if _, err := svc.Analyze(context.Background(), "user-1", []byte("pdf"), "Lease"); err != nil {
		t.Fatalf("Seed analyze failed: %v", err)
	}
	if _, err := svc.Analyze(context.Background(), "someone-else", []byte("pdf"), "NDA"); err != nil {
		t.Fatalf("Seed analyze failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/contracts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp struct {
		Contracts []map[string]any `json:"contracts"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Contracts) != 1 {
		t.Fatalf("Expected 1 contract for the caller, got %d", len(resp.Contracts))
	}
	if resp.Contracts[0]["contractType"] != "Lease" {
		t.Errorf("Unexpected row: %v", resp.Contracts[0])
	}
}

func TestFeedbackEndpoint(t *testing.T) {
	router, svc := newTestRouter(t, analysisReply, false)

	stored, err := svc.Analyze(context.Background(), "user-1", []byte("pdf"), "Lease")
	if err != nil {
		t.Fatalf("Seed analyze failed: %v", err)
	}

	payload := `{"rating": 4, "comments": "useful"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contracts/"+stored.ID+"/feedback", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestFeedbackInvalidRating(t *testing.T) {
	router, svc := newTestRouter(t, analysisReply, false)

	stored, _ := svc.Analyze(context.Background(), "user-1", []byte("pdf"), "Lease")

	payload := `{"rating": 9}`
	req := httptest.NewRequest(http.MethodPost, "/api/contracts/"+stored.ID+"/feedback", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}
