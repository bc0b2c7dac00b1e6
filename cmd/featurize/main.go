package main

import (
	"context"
	"flag"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oyabun/tendon/pkg/config"
	"github.com/oyabun/tendon/pkg/embed"
	"github.com/oyabun/tendon/pkg/feature"
	"github.com/oyabun/tendon/pkg/logging"
	"github.com/oyabun/tendon/pkg/model"
	"github.com/oyabun/tendon/pkg/pipeline"
	"github.com/oyabun/tendon/pkg/queue/nats"
	"github.com/oyabun/tendon/pkg/source"
	"github.com/oyabun/tendon/pkg/store/duckdb"
	"github.com/oyabun/tendon/pkg/store/milvus"
	"github.com/oyabun/tendon/pkg/validate"
	"github.com/oyabun/tendon/pkg/window"
)

type flags struct {
	SkipMilvus bool
	Publish    bool
	BatchSize  int
}

func main() {
	f := parseFlags()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	log := logging.New(cfg.LogLevel)
	log.WithFields(logrus.Fields{
		"duckdb":        cfg.DuckDBPath,
		"workers":       cfg.Workers,
		"chronic_weeks": cfg.ChronicWeeks,
		"leakage_check": cfg.CheckLeakage,
	}).Info("starting featurize run")

	ctx := context.Background()

	client, err := duckdb.NewClient(cfg.DuckDBPath)
	if err != nil {
		log.Fatalf("failed to connect to DuckDB: %v", err)
	}
	defer client.Close()

	if err := duckdb.InitializeSchema(client); err != nil {
		log.Fatalf("failed to initialize schema: %v", err)
	}

	src := source.NewDB(duckdb.NewRecordRepo(client), duckdb.NewProfileRepo(client))

	pipeCfg := pipeline.Config{
		Workers: cfg.Workers,
		Window: window.Config{
			ChronicWeeks:  cfg.ChronicWeeks,
			MonotonyWeeks: cfg.MonotonyWeeks,
		},
		Feature: feature.Config{
			ACWRThreshold:       cfg.ACWRThreshold,
			MaxMonotony:         cfg.MaxMonotony,
			InjuryLookbackWeeks: cfg.InjuryLookbackWeeks,
		},
		Validate: validate.Config{
			ACWRMax:         cfg.ACWRMax,
			ClipACWR:        cfg.ClipACWR,
			MinHistoryWeeks: cfg.MinHistoryWeeks,
		},
		CheckLeakage: cfg.CheckLeakage,
	}

	pipe := pipeline.New(pipeCfg, src, log)
	result, err := pipe.Run(ctx)
	if err != nil {
		log.Fatalf("pipeline run failed: %v", err)
	}

	for _, fail := range result.Failures {
		log.Warnf("skipped athlete %s: %v", fail.AthleteID, fail.Err)
	}

	if f.Publish {
		publishFeatures(ctx, log, cfg, f.BatchSize, result.Rows)
	} else {
		featureRepo := duckdb.NewFeatureRepo(client)
		if err := featureRepo.InsertBatch(ctx, result.Rows); err != nil {
			log.Fatalf("failed to insert feature vectors: %v", err)
		}
		log.Infof("stored %d feature vectors", len(result.Rows))
	}

	runID := uuid.NewString()
	reportRepo := duckdb.NewReportRepo(client)
	if err := reportRepo.Insert(ctx, runID, result.Report); err != nil {
		log.Fatalf("failed to store validation report: %v", err)
	}
	log.WithFields(logrus.Fields{
		"run_id":               runID,
		"total_rows":           result.Report.TotalRows,
		"accepted_rows":        result.Report.AcceptedRows,
		"insufficient_history": result.Report.InsufficientHistoryRows,
	}).Info("validation report stored")

	if !f.SkipMilvus {
		indexEmbeddings(ctx, log, cfg, f.BatchSize, src, pipeCfg.Window, result.Matrix)
	}

	log.Infof("featurize complete: %d rows, %d in training matrix", len(result.Rows), len(result.Matrix))
}

// publishFeatures ships the composed rows over JetStream instead of
// writing DuckDB directly.
func publishFeatures(ctx context.Context, log *logrus.Logger, cfg *config.Config, batchSize int, rows []model.FeatureVector) {
	natsClient, err := nats.NewClient(nats.Config{
		URL:        cfg.NATSURL,
		StreamName: cfg.NATSStream,
	})
	if err != nil {
		log.Fatalf("failed to connect to NATS: %v", err)
	}
	defer natsClient.Close()

	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		data, err := nats.Encode(&nats.FeatureBatchMsg{Vectors: rows[i:end]})
		if err != nil {
			log.Fatalf("failed to encode feature batch: %v", err)
		}
		if err := natsClient.Publish(ctx, nats.SubjectFeatureWrite, data); err != nil {
			log.Fatalf("failed to publish feature batch: %v", err)
		}
	}
	log.Infof("published %d feature vectors", len(rows))
}

// indexEmbeddings builds load-signature embeddings for the training matrix
// and indexes them in Milvus for precedent search.
func indexEmbeddings(ctx context.Context, log *logrus.Logger, cfg *config.Config, batchSize int, src *source.DB, windowCfg window.Config, rows []model.FeatureVector) {
	milvusClient, err := milvus.NewClient(ctx, milvus.Config{Address: cfg.MilvusAddr})
	if err != nil {
		log.Fatalf("failed to connect to Milvus: %v", err)
	}
	defer milvusClient.Close()

	collectionCfg := milvus.CollectionConfig{
		Name:      cfg.MilvusCollection,
		Dimension: cfg.EmbeddingDim,
		Shards:    2,
	}
	if err := milvusClient.CreateCollection(ctx, collectionCfg); err != nil {
		log.Fatalf("failed to create Milvus collection: %v", err)
	}

	embedder, err := embed.NewEmbedder(cfg.EmbeddingDim)
	if err != nil {
		log.Fatalf("failed to create embedder: %v", err)
	}

	data, err := buildEmbeddings(ctx, src, windowCfg, embedder, rows)
	if err != nil {
		log.Fatalf("failed to build embeddings: %v", err)
	}

	for i := 0; i < len(data); i += batchSize {
		end := i + batchSize
		if end > len(data) {
			end = len(data)
		}
		if err := milvusClient.InsertBatch(ctx, cfg.MilvusCollection, data[i:end]); err != nil {
			log.Fatalf("failed to insert embeddings: %v", err)
		}
	}

	if err := milvusClient.Flush(ctx, cfg.MilvusCollection); err != nil {
		log.Warnf("failed to flush Milvus: %v", err)
	}
	if err := milvusClient.CreateIndex(ctx, cfg.MilvusCollection, "embedding"); err != nil {
		log.Warnf("failed to create index: %v", err)
	}
	if err := milvusClient.LoadCollection(ctx, cfg.MilvusCollection); err != nil {
		log.Warnf("failed to load collection: %v", err)
	}

	log.Infof("indexed %d embeddings in Milvus", len(data))
}

// buildEmbeddings recomputes window stats per athlete and embeds each row
// from the stats up to and including the row's week.
func buildEmbeddings(ctx context.Context, src *source.DB, windowCfg window.Config, embedder *embed.Embedder, rows []model.FeatureVector) ([]*milvus.AthleteWeekData, error) {
	engine := window.NewEngine(windowCfg)

	statsByAthlete := make(map[string][]window.Stat)
	data := make([]*milvus.AthleteWeekData, 0, len(rows))

	for i := range rows {
		fv := &rows[i]

		stats, ok := statsByAthlete[fv.AthleteID]
		if !ok {
			records, err := src.Records(ctx, fv.AthleteID)
			if err != nil {
				return nil, err
			}
			stats, err = engine.Compute(records)
			if err != nil {
				return nil, err
			}
			statsByAthlete[fv.AthleteID] = stats
		}
		if len(stats) == 0 {
			continue
		}

		// Stats are a contiguous gap-filled timeline starting at the
		// athlete's first recorded week.
		offset := fv.WeekIndex - stats[0].WeekIndex
		if offset < 0 || offset >= len(stats) {
			continue
		}

		vec, err := embedder.Embed(stats[:offset+1], fv)
		if err != nil {
			return nil, err
		}

		injured := milvus.InjuredUnknown
		if fv.Injured != nil {
			injured = milvus.InjuredFalse
			if *fv.Injured {
				injured = milvus.InjuredTrue
			}
		}

		data = append(data, &milvus.AthleteWeekData{
			RowID:         fv.RowID,
			Embedding:     vec,
			AthleteID:     fv.AthleteID,
			WeekIndex:     int64(fv.WeekIndex),
			Injured:       injured,
			SchemaVersion: int32(fv.SchemaVersion),
		})
	}

	return data, nil
}

func parseFlags() flags {
	f := flags{}

	flag.BoolVar(&f.SkipMilvus, "skip-milvus", false, "Skip embedding and Milvus indexing")
	flag.BoolVar(&f.Publish, "publish", false, "Publish features to NATS instead of writing DuckDB directly")
	flag.IntVar(&f.BatchSize, "batch", 500, "Rows per insert or publish batch")

	flag.Parse()
	return f
}
