package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/shubham-bhadra-10/Legalyze/config"
	"github.com/shubham-bhadra-10/Legalyze/model"
	"github.com/shubham-bhadra-10/Legalyze/pkg/apperr"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Store is the durable home of analysis records. Reads are always scoped
// to the owning user: a record that exists but belongs to someone else is
// reported as not found, never as forbidden.
type Store interface {
	Create(ctx context.Context, a *model.Analysis) (*model.Analysis, error)
	GetByID(ctx context.Context, id, userID string) (*model.Analysis, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Analysis, error)
	SetFeedback(ctx context.Context, id, userID string, fb model.Feedback) error
}

// MemoryStore is an in-memory Store for local development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*model.Analysis
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*model.Analysis)}
}

func (s *MemoryStore) Create(ctx context.Context, a *model.Analysis) (*model.Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *a
	stored.ID = uuid.New().String()
	stored.CreatedAt = time.Now()
	if stored.Version == 0 {
		stored.Version = 1
	}
	s.records[stored.ID] = &stored

	copied := stored
	return &copied, nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id, userID string) (*model.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.records[id]
	if !ok || a.UserID != userID {
		return nil, apperr.New(apperr.KindNotFound, "contract not found")
	}

	copied := *a
	return &copied, nil
}

func (s *MemoryStore) ListByUser(ctx context.Context, userID string) ([]*model.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Analysis, 0)
	for _, a := range s.records {
		if a.UserID == userID {
			copied := *a
			result = append(result, &copied)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *MemoryStore) SetFeedback(ctx context.Context, id, userID string, fb model.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.records[id]
	if !ok || a.UserID != userID {
		return apperr.New(apperr.KindNotFound, "contract not found")
	}

	a.Feedback = &fb
	return nil
}

// FirestoreStore is the production Store backed by a Firestore collection
// with one document per analysis.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreStore(ctx context.Context, cfg *config.FirestoreConfig) (*FirestoreStore, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("firestore project_id must be configured")
	}

	client, err := firestore.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return &FirestoreStore{client: client, collection: cfg.Collection}, nil
}

func (s *FirestoreStore) Create(ctx context.Context, a *model.Analysis) (*model.Analysis, error) {
	stored := *a
	stored.ID = uuid.New().String()
	stored.CreatedAt = time.Now()
	if stored.Version == 0 {
		stored.Version = 1
	}

	// Create fails if the document already exists, so a record is either
	// fully written or not written at all.
	if _, err := s.client.Collection(s.collection).Doc(stored.ID).Create(ctx, &stored); err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, "create analysis", err)
	}

	return &stored, nil
}

func (s *FirestoreStore) GetByID(ctx context.Context, id, userID string) (*model.Analysis, error) {
	doc, err := s.client.Collection(s.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, apperr.New(apperr.KindNotFound, "contract not found")
		}
		return nil, apperr.Wrap(apperr.KindPersistence, "get analysis", err)
	}

	var a model.Analysis
	if err := doc.DataTo(&a); err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, "decode analysis", err)
	}
	a.ID = doc.Ref.ID

	if a.UserID != userID {
		return nil, apperr.New(apperr.KindNotFound, "contract not found")
	}
	return &a, nil
}

func (s *FirestoreStore) ListByUser(ctx context.Context, userID string) ([]*model.Analysis, error) {
	docs, err := s.client.Collection(s.collection).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, "list analyses", err)
	}

	result := make([]*model.Analysis, 0, len(docs))
	for _, doc := range docs {
		var a model.Analysis
		if err := doc.DataTo(&a); err != nil {
			return nil, apperr.Wrap(apperr.KindPersistence, "decode analysis", err)
		}
		a.ID = doc.Ref.ID
		result = append(result, &a)
	}
	return result, nil
}

func (s *FirestoreStore) SetFeedback(ctx context.Context, id, userID string, fb model.Feedback) error {
	// Ownership check first; the update itself is field-scoped so the
	// analysis content stays append-only.
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return err
	}

	_, err := s.client.Collection(s.collection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "userFeedback", Value: fb},
	})
	if err != nil {
		return apperr.Wrap(apperr.KindPersistence, "set feedback", err)
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
