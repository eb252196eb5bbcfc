package qdrantDB

import (
	"context"
	"fmt"
	"sync"

	"github.com/nvarma/ers-rag/internal/config"
	"github.com/nvarma/ers-rag/internal/domain/commonModels"
	"github.com/nvarma/ers-rag/internal/rag/vectorDB"
	"github.com/nvarma/ers-rag/pkg/logx"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	logger         *logx.Logger
	qdrantInstance *qdrant.Client
	once           sync.Once
)

var dimension = uint64(config.EmbeddingOutputDimensionality)

type ClientHolder struct {
	client     *qdrant.Client
	collection string
}

// GetQdrantClient opens the shared Qdrant connection. The connection is
// process-wide: repeated calls return the same underlying client, and it is
// closed when ctx is cancelled. Returns nil when the client cannot be built.
func GetQdrantClient(ctx context.Context) vectorDB.DataStore {
	once.Do(func() {
		logger = logx.NewLogger("Qdrant")
		qdrantInstance = newClient()
		if qdrantInstance != nil {
			go closeOnShutdown(ctx, qdrantInstance)
		}
	})

	if qdrantInstance == nil {
		return nil
	}
	return &ClientHolder{client: qdrantInstance, collection: config.CollectionName}
}

func newClient() *qdrant.Client {
	host, port := config.QdrantEndpoint()

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate qdrant client", "error", err)
		return nil
	}
	return client
}

func closeOnShutdown(ctx context.Context, client *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := client.Close(); err != nil {
		logger.Error("could not close Qdrant", "error", err)
	}
}

// Open checks that the persisted collection exists and carries the vector
// schema this deployment expects. A missing collection and a dimension or
// distance mismatch are reported as the typed rebuild-triggering errors;
// everything else propagates untouched.
func (db *ClientHolder) Open(ctx context.Context) error {
	exists, err := db.client.CollectionExists(ctx, db.collection)
	if err != nil {
		if s, ok := status.FromError(err); ok && s.Code() == codes.NotFound {
			return vectorDB.ErrCollectionNotFound
		}
		return fmt.Errorf("checking collection %q: %w", db.collection, err)
	}
	if !exists {
		return vectorDB.ErrCollectionNotFound
	}

	info, err := db.client.GetCollectionInfo(ctx, db.collection)
	if err != nil {
		return fmt.Errorf("reading collection info for %q: %w", db.collection, err)
	}
	params := info.GetConfig().GetParams().GetVectorsConfig().GetParams()
	if params == nil {
		return vectorDB.ErrSchemaMismatch
	}
	if params.GetSize() != dimension || params.GetDistance() != qdrant.Distance_Cosine {
		logger.Warn("collection schema mismatch",
			"haveSize", params.GetSize(), "wantSize", dimension, "haveDistance", params.GetDistance())
		return vectorDB.ErrSchemaMismatch
	}
	return nil
}

func (db *ClientHolder) EnsureCollection(ctx context.Context) error {
	exists, err := db.client.CollectionExists(ctx, db.collection)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return db.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: db.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

func (db *ClientHolder) UpsertBatch(ctx context.Context, chunks []commonModels.ChunkRecord, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.PointID),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"chunk_key": chunk.Key,
				"content":   chunk.Content,
				"source":    chunk.Meta.Source,
				"page":      chunk.Meta.Page,
				"type":      chunk.Meta.Type,
			}),
		}
	}

	_, err := db.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: db.collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func (db *ClientHolder) Query(ctx context.Context, vector []float32, limit uint64) ([]commonModels.RetrievedChunk, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	hits, err := db.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: db.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(limit),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		log.Error("Error querying Qdrant", "error", err)
		return nil, err
	}

	results := make([]commonModels.RetrievedChunk, 0, len(hits))
	for _, hit := range hits {
		results = append(results, commonModels.RetrievedChunk{
			Content: hit.Payload["content"].GetStringValue(),
			Meta: commonModels.ChunkMetadata{
				Source: hit.Payload["source"].GetStringValue(),
				Page:   hit.Payload["page"].GetStringValue(),
				Type:   hit.Payload["type"].GetStringValue(),
			},
			Score: hit.Score,
		})
	}
	log.Debug("vector query done", "hits", len(results))
	return results, nil
}

func (db *ClientHolder) Count(ctx context.Context) (uint64, error) {
	return db.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: db.collection,
		Exact:          qdrant.PtrOf(true),
	})
}
