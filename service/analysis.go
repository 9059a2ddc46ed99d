package service

import (
	"context"
	"time"

	"github.com/shubham-bhadra-10/Legalyze/model"
	"github.com/shubham-bhadra-10/Legalyze/pkg/apperr"
	"github.com/shubham-bhadra-10/Legalyze/pkg/logger"
)

// AnalysisService runs the contract pipeline: stage the upload in the
// blob store, extract text, call the AI backend, persist the result and
// mirror it into the read cache. Each request is handled synchronously;
// there is no queue and no cross-request coordination.
type AnalysisService struct {
	blobs      *BlobStore
	extractor  TextExtractor
	classifier *Classifier
	analyzer   *Analyzer
	store      Store
	cache      *ResultCache
	aiModel    string
	timeout    time.Duration
}

func NewAnalysisService(
	blobs *BlobStore,
	extractor TextExtractor,
	classifier *Classifier,
	analyzer *Analyzer,
	store Store,
	cache *ResultCache,
	aiModel string,
	timeout time.Duration,
) *AnalysisService {
	return &AnalysisService{
		blobs:      blobs,
		extractor:  extractor,
		classifier: classifier,
		analyzer:   analyzer,
		store:      store,
		cache:      cache,
		aiModel:    aiModel,
		timeout:    timeout,
	}
}

// stageAndExtract puts the uploaded bytes into the blob store, reads them
// back and extracts their text. The blob is deleted after successful
// extraction; on failure it is left to expire.
func (s *AnalysisService) stageAndExtract(ctx context.Context, userID string, file []byte) (string, error) {
	key := s.blobs.Key(userID, time.Now())
	if err := s.blobs.Put(ctx, key, file); err != nil {
		return "", err
	}

	data, err := s.blobs.Get(ctx, key)
	if err != nil {
		return "", err
	}

	text, err := s.extractor.Extract(ctx, data)
	if err != nil {
		return "", err
	}

	if err := s.blobs.Delete(ctx, key); err != nil {
		logger.Warn(ctx, "failed to delete consumed blob", "key", key, "error", err)
	}
	return text, nil
}

// DetectType proposes a contract-type label for an uploaded PDF. The
// label is surfaced to the user for confirmation, never trusted for
// downstream branching.
func (s *AnalysisService) DetectType(ctx context.Context, userID string, file []byte) (string, error) {
	if len(file) == 0 {
		return "", apperr.New(apperr.KindInput, "no file provided")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.stageAndExtract(ctx, userID, file)
	if err != nil {
		return "", err
	}

	label, err := s.classifier.DetectType(ctx, text)
	if err != nil {
		return "", err
	}

	logger.Info(ctx, "contract type detected", "detected_type", label)
	return label, nil
}

// Analyze runs the full pipeline for a confirmed contract type and
// returns the persisted record.
func (s *AnalysisService) Analyze(ctx context.Context, userID string, file []byte, contractType string) (*model.Analysis, error) {
	if len(file) == 0 {
		return nil, apperr.New(apperr.KindInput, "no file provided")
	}
	if contractType == "" {
		return nil, apperr.New(apperr.KindInput, "contract type is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.stageAndExtract(ctx, userID, file)
	if err != nil {
		return nil, err
	}

	result, err := s.analyzer.Analyze(ctx, text, contractType)
	if err != nil {
		return nil, err
	}
	if result.Degraded {
		logger.Warn(ctx, "analysis reply was not valid JSON, stored degraded payload",
			"risks", len(result.Payload.Risks),
			"opportunities", len(result.Payload.Opportunities),
		)
	}

	payload := result.Payload
	payload.OverallScore = model.ClampScore(payload.OverallScore)

	record := &model.Analysis{
		UserID:          userID,
		ContractText:    text,
		ContractType:    contractType,
		AnalysisPayload: payload,
		Version:         1,
		AIModel:         s.aiModel,
		Language:        "en",
	}

	stored, err := s.store.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	s.cache.Put(ctx, stored)

	logger.Info(ctx, "contract analyzed",
		"contract_id", stored.ID,
		"contract_type", contractType,
		"overall_score", stored.OverallScore,
		"degraded", result.Degraded,
	)
	return stored, nil
}

// GetContract returns one record, serving repeat reads from the result
// cache. Ownership is enforced on both paths.
func (s *AnalysisService) GetContract(ctx context.Context, userID, id string) (*model.Analysis, error) {
	if cached := s.cache.Get(ctx, id); cached != nil {
		if cached.UserID != userID {
			return nil, apperr.New(apperr.KindNotFound, "contract not found")
		}
		return cached, nil
	}

	a, err := s.store.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	s.cache.Put(ctx, a)
	return a, nil
}

// ListContracts returns the user's records, newest first. List reads
// bypass the single-item cache.
func (s *AnalysisService) ListContracts(ctx context.Context, userID string) ([]*model.Analysis, error) {
	return s.store.ListByUser(ctx, userID)
}

// SetFeedback records the user's rating of an analysis and drops the
// now-stale cache entry.
func (s *AnalysisService) SetFeedback(ctx context.Context, userID, id string, fb model.Feedback) error {
	if fb.Rating < 1 || fb.Rating > 5 {
		return apperr.New(apperr.KindInput, "rating must be between 1 and 5")
	}

	if err := s.store.SetFeedback(ctx, id, userID, fb); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, id)
	return nil
}
