// Package vectorstore persists match embeddings in an external vector index
// so later runs can search past candidates. Export is best-effort: the
// pipeline result never depends on it.
package vectorstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"github.com/recruitflow/recruitflow/internal/matching"
)

// Store receives the surviving matches of a run together with their
// embeddings.
type Store interface {
	ExportMatches(ctx context.Context, runID string, matches []matching.Match) error
}

// QdrantStore writes match embeddings into a qdrant collection using cosine
// distance.
type QdrantStore struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
	logger         *zap.Logger
}

// Config holds connection settings for the qdrant store.
type Config struct {
	URL        string `mapstructure:"url"`
	APIKey     string `mapstructure:"-"`
	Collection string `mapstructure:"collection"`
}

// NewQdrantStore connects to qdrant at the given URL (gRPC port, default
// 6334). vectorSize must match the embedding provider's dimension.
func NewQdrantStore(cfg Config, vectorSize int, logger *zap.Logger) (*QdrantStore, error) {
	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid qdrant url: %w", err)
	}

	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   parsed.Hostname(),
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: parsed.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}

	collection := cfg.Collection
	if collection == "" {
		collection = "recruitment-candidates"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &QdrantStore{
		client:         client,
		collectionName: collection,
		vectorSize:     uint64(vectorSize),
		logger:         logger,
	}, nil
}

// EnsureCollection creates the collection when it does not exist yet.
func (s *QdrantStore) EnsureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collectionName)
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	s.logger.Info("qdrant collection created", zap.String("collection", s.collectionName))
	return nil
}

// ExportMatches upserts one point per match, keyed by a fresh UUID and
// carrying the run and candidate metadata as payload.
func (s *QdrantStore) ExportMatches(ctx context.Context, runID string, matches []matching.Match) error {
	if err := s.EnsureCollection(ctx); err != nil {
		return err
	}

	points := make([]*qdrant.PointStruct, 0, len(matches))
	for _, match := range matches {
		if len(match.Embedding) == 0 {
			continue
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(uuid.NewString()),
			Vectors: qdrant.NewVectors(match.Embedding...),
			Payload: qdrant.NewValueMap(map[string]any{
				"run_id":           runID,
				"match_id":         match.MatchID,
				"candidate_name":   match.Candidate.Name,
				"candidate_email":  match.Candidate.Email,
				"similarity_score": match.SimilarityScore,
				"rank":             int64(match.Rank),
			}),
		})
	}

	if len(points) == 0 {
		return nil
	}

	if _, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collectionName,
		Points:         points,
	}); err != nil {
		return fmt.Errorf("upsert matches: %w", err)
	}

	s.logger.Info("exported match embeddings",
		zap.String("run_id", runID),
		zap.Int("points", len(points)),
		zap.String("collection", s.collectionName),
	)
	return nil
}
