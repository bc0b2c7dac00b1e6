package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/oyabun/tendon/pkg/config"
	"github.com/oyabun/tendon/pkg/logging"
	"github.com/oyabun/tendon/pkg/model"
	"github.com/oyabun/tendon/pkg/queue/nats"
	"github.com/oyabun/tendon/pkg/source"
	"github.com/oyabun/tendon/pkg/store/duckdb"
)

type flags struct {
	RecordsCSV  string
	ProfilesCSV string
	Publish     bool
	BatchSize   int
}

func main() {
	f := parseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel)
	log.WithFields(logrus.Fields{
		"records":  f.RecordsCSV,
		"profiles": f.ProfilesCSV,
		"publish":  f.Publish,
	}).Info("starting ingest")

	ctx := context.Background()

	records, err := source.ReadRecords(f.RecordsCSV)
	if err != nil {
		log.Fatalf("failed to read records: %v", err)
	}
	log.Infof("loaded %d training records", len(records))

	var profiles []model.AthleteProfile
	if f.ProfilesCSV != "" {
		profiles, err = source.ReadProfiles(f.ProfilesCSV)
		if err != nil {
			log.Fatalf("failed to read profiles: %v", err)
		}
		log.Infof("loaded %d athlete profiles", len(profiles))
	}

	if f.Publish {
		publishBatches(ctx, log, cfg, f.BatchSize, records, profiles)
		return
	}
	writeDirect(ctx, log, cfg, records, profiles)
}

// writeDirect inserts records and profiles straight into DuckDB.
func writeDirect(ctx context.Context, log *logrus.Logger, cfg *config.Config, records []model.TrainingRecord, profiles []model.AthleteProfile) {
	client, err := duckdb.NewClient(cfg.DuckDBPath)
	if err != nil {
		log.Fatalf("failed to connect to DuckDB: %v", err)
	}
	defer client.Close()

	if err := duckdb.InitializeSchema(client); err != nil {
		log.Fatalf("failed to initialize schema: %v", err)
	}

	recordRepo := duckdb.NewRecordRepo(client)
	if err := recordRepo.InsertBatch(ctx, records); err != nil {
		log.Fatalf("failed to insert records: %v", err)
	}

	profileRepo := duckdb.NewProfileRepo(client)
	for i := range profiles {
		if err := profileRepo.Upsert(ctx, &profiles[i]); err != nil {
			log.Fatalf("failed to upsert profile %s: %v", profiles[i].AthleteID, err)
		}
	}

	log.WithFields(logrus.Fields{
		"records":  len(records),
		"profiles": len(profiles),
	}).Info("ingest complete")
}

// publishBatches ships records and profiles over JetStream for the writer
// worker to persist.
func publishBatches(ctx context.Context, log *logrus.Logger, cfg *config.Config, batchSize int, records []model.TrainingRecord, profiles []model.AthleteProfile) {
	natsClient, err := nats.NewClient(nats.Config{
		URL:        cfg.NATSURL,
		StreamName: cfg.NATSStream,
	})
	if err != nil {
		log.Fatalf("failed to connect to NATS: %v", err)
	}
	defer natsClient.Close()

	subjects := []string{nats.SubjectRecordWrite, nats.SubjectProfileWrite, nats.SubjectFeatureWrite}
	if err := natsClient.CreateStream(ctx, subjects); err != nil {
		log.Fatalf("failed to create stream: %v", err)
	}

	published := 0
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		data, err := nats.Encode(&nats.RecordBatchMsg{Records: records[i:end]})
		if err != nil {
			log.Fatalf("failed to encode record batch: %v", err)
		}
		if err := natsClient.Publish(ctx, nats.SubjectRecordWrite, data); err != nil {
			log.Fatalf("failed to publish record batch: %v", err)
		}
		published += end - i
	}

	if len(profiles) > 0 {
		data, err := nats.Encode(&nats.ProfileBatchMsg{Profiles: profiles})
		if err != nil {
			log.Fatalf("failed to encode profile batch: %v", err)
		}
		if err := natsClient.Publish(ctx, nats.SubjectProfileWrite, data); err != nil {
			log.Fatalf("failed to publish profile batch: %v", err)
		}
	}

	log.WithFields(logrus.Fields{
		"records":  published,
		"profiles": len(profiles),
	}).Info("publish complete")
}

func parseFlags() flags {
	f := flags{}

	flag.StringVar(&f.RecordsCSV, "records", "", "Path to training records CSV")
	flag.StringVar(&f.ProfilesCSV, "profiles", "", "Path to athlete profiles CSV (optional)")
	flag.BoolVar(&f.Publish, "publish", false, "Publish to NATS instead of writing DuckDB directly")
	flag.IntVar(&f.BatchSize, "batch", 500, "Records per published batch")

	flag.Parse()

	if f.RecordsCSV == "" {
		fmt.Println("Usage: ingest -records <path> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	return f
}
