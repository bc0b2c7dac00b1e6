package milvus

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const (
	// DefaultCollectionName is the default collection for athlete-week
	// load signatures.
	DefaultCollectionName = "athlete_weeks"

	// Injury label values stored alongside embeddings. Unknown labels are
	// kept distinguishable so precedent search can filter them out.
	InjuredUnknown int32 = -1
	InjuredFalse   int32 = 0
	InjuredTrue    int32 = 1
)

// CollectionConfig holds configuration for creating a collection
type CollectionConfig struct {
	Name      string
	Dimension int // Vector dimension (32 or 64)
	Shards    int // Number of shards
}

// DefaultCollectionConfig returns default collection configuration
func DefaultCollectionConfig() CollectionConfig {
	return CollectionConfig{
		Name:      DefaultCollectionName,
		Dimension: 32,
		Shards:    2,
	}
}

// AthleteWeekData is one embedding row: the load signature of a single
// athlete-week plus the metadata needed for filtering and reranking.
type AthleteWeekData struct {
	RowID         string
	Embedding     []float32
	AthleteID     string
	WeekIndex     int64
	Injured       int32 // InjuredUnknown / InjuredFalse / InjuredTrue
	SchemaVersion int32
}

// CreateCollection creates the athlete_weeks collection
func (c *Client) CreateCollection(ctx context.Context, cfg CollectionConfig) error {
	exists, err := c.HasCollection(ctx, cfg.Name)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	schema := &entity.Schema{
		CollectionName: cfg.Name,
		Description:    "Athlete-week load-signature embeddings for precedent search",
		Fields: []*entity.Field{
			{
				Name:       "row_id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "embedding",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": fmt.Sprintf("%d", cfg.Dimension),
				},
			},
			{
				Name:     "athlete_id",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "week_index",
				DataType: entity.FieldTypeInt64,
			},
			{
				Name:     "injured",
				DataType: entity.FieldTypeInt32,
			},
			{
				Name:     "schema_version",
				DataType: entity.FieldTypeInt32,
			},
		},
	}

	if err := c.conn.CreateCollection(ctx, schema, int32(cfg.Shards)); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

// InsertBatch inserts multiple athlete-week embeddings
func (c *Client) InsertBatch(ctx context.Context, collectionName string, dataList []*AthleteWeekData) error {
	if len(dataList) == 0 {
		return nil
	}

	rowIDs := make([]string, len(dataList))
	embeddings := make([][]float32, len(dataList))
	athleteIDs := make([]string, len(dataList))
	weekIndexes := make([]int64, len(dataList))
	injuries := make([]int32, len(dataList))
	schemaVersions := make([]int32, len(dataList))

	for i, d := range dataList {
		rowIDs[i] = d.RowID
		embeddings[i] = d.Embedding
		athleteIDs[i] = d.AthleteID
		weekIndexes[i] = d.WeekIndex
		injuries[i] = d.Injured
		schemaVersions[i] = d.SchemaVersion
	}

	columns := []entity.Column{
		entity.NewColumnVarChar("row_id", rowIDs),
		entity.NewColumnFloatVector("embedding", len(embeddings[0]), embeddings),
		entity.NewColumnVarChar("athlete_id", athleteIDs),
		entity.NewColumnInt64("week_index", weekIndexes),
		entity.NewColumnInt32("injured", injuries),
		entity.NewColumnInt32("schema_version", schemaVersions),
	}

	_, err := c.conn.Insert(ctx, collectionName, "", columns...)
	if err != nil {
		return fmt.Errorf("failed to insert: %w", err)
	}

	return nil
}

// SearchResult represents a single search result
type SearchResult struct {
	RowID         string
	Score         float32
	AthleteID     string
	WeekIndex     int64
	Injured       int32
	SchemaVersion int32
}

// Search performs a TopK similarity search
func (c *Client) Search(ctx context.Context, collectionName string, embedding []float32, filter string, topK int) ([]SearchResult, error) {
	vectors := []entity.Vector{entity.FloatVector(embedding)}

	sp, err := entity.NewIndexIvfFlatSearchParam(16) // nprobe
	if err != nil {
		return nil, fmt.Errorf("failed to create search param: %w", err)
	}

	outputFields := []string{"row_id", "athlete_id", "week_index", "injured", "schema_version"}

	results, err := c.conn.Search(
		ctx,
		collectionName,
		nil,          // partitions
		filter,       // expression filter
		outputFields, // output fields
		vectors,
		"embedding",
		entity.COSINE,
		topK,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	if len(results) == 0 {
		return nil, nil
	}

	searchResults := make([]SearchResult, 0, results[0].ResultCount)
	for i := 0; i < results[0].ResultCount; i++ {
		result := SearchResult{
			Score: results[0].Scores[i],
		}

		for _, field := range results[0].Fields {
			switch field.Name() {
			case "row_id":
				if col, ok := field.(*entity.ColumnVarChar); ok {
					val, _ := col.ValueByIdx(i)
					result.RowID = val
				}
			case "athlete_id":
				if col, ok := field.(*entity.ColumnVarChar); ok {
					val, _ := col.ValueByIdx(i)
					result.AthleteID = val
				}
			case "week_index":
				if col, ok := field.(*entity.ColumnInt64); ok {
					val, _ := col.ValueByIdx(i)
					result.WeekIndex = val
				}
			case "injured":
				if col, ok := field.(*entity.ColumnInt32); ok {
					val, _ := col.ValueByIdx(i)
					result.Injured = val
				}
			case "schema_version":
				if col, ok := field.(*entity.ColumnInt32); ok {
					val, _ := col.ValueByIdx(i)
					result.SchemaVersion = val
				}
			}
		}

		searchResults = append(searchResults, result)
	}

	return searchResults, nil
}
