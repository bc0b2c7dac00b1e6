package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/oyabun/tendon/pkg/config"
	"github.com/oyabun/tendon/pkg/logging"
	"github.com/oyabun/tendon/pkg/queue/nats"
	"github.com/oyabun/tendon/pkg/store/duckdb"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	log := logging.New(cfg.LogLevel)
	log.WithFields(logrus.Fields{
		"nats":   cfg.NATSURL,
		"duckdb": cfg.DuckDBPath,
	}).Info("starting writer worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := duckdb.NewClient(cfg.DuckDBPath)
	if err != nil {
		log.Fatalf("failed to connect to DuckDB: %v", err)
	}
	defer client.Close()

	if err := duckdb.InitializeSchema(client); err != nil {
		log.Fatalf("failed to initialize schema: %v", err)
	}
	log.Info("DuckDB schema initialized")

	recordRepo := duckdb.NewRecordRepo(client)
	profileRepo := duckdb.NewProfileRepo(client)
	featureRepo := duckdb.NewFeatureRepo(client)

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
	log.Info("NATS stream ready")

	recordConsumer, err := natsClient.Subscribe(ctx, nats.SubjectRecordWrite, "record-writer", func(msg jetstream.Msg) error {
		batch, err := nats.DecodeRecordBatch(msg.Data())
		if err != nil {
			log.Errorf("failed to decode record batch: %v", err)
			return err
		}
		if len(batch.Records) == 0 {
			return nil
		}
		if err := recordRepo.InsertBatch(ctx, batch.Records); err != nil {
			log.Errorf("failed to insert records: %v", err)
			return err
		}
		recordsWritten.Add(float64(len(batch.Records)))
		log.Infof("inserted %d training records", len(batch.Records))
		return nil
	})
	if err != nil {
		log.Fatalf("failed to subscribe to record writes: %v", err)
	}
	defer recordConsumer.Stop()

	profileConsumer, err := natsClient.Subscribe(ctx, nats.SubjectProfileWrite, "profile-writer", func(msg jetstream.Msg) error {
		batch, err := nats.DecodeProfileBatch(msg.Data())
		if err != nil {
			log.Errorf("failed to decode profile batch: %v", err)
			return err
		}
		for i := range batch.Profiles {
			if err := profileRepo.Upsert(ctx, &batch.Profiles[i]); err != nil {
				log.Errorf("failed to upsert profile %s: %v", batch.Profiles[i].AthleteID, err)
				return err
			}
		}
		profilesWritten.Add(float64(len(batch.Profiles)))
		log.Infof("upserted %d athlete profiles", len(batch.Profiles))
		return nil
	})
	if err != nil {
		log.Fatalf("failed to subscribe to profile writes: %v", err)
	}
	defer profileConsumer.Stop()

	featureConsumer, err := natsClient.Subscribe(ctx, nats.SubjectFeatureWrite, "feature-writer", func(msg jetstream.Msg) error {
		batch, err := nats.DecodeFeatureBatch(msg.Data())
		if err != nil {
			log.Errorf("failed to decode feature batch: %v", err)
			return err
		}
		if len(batch.Vectors) == 0 {
			return nil
		}
		if err := featureRepo.InsertBatch(ctx, batch.Vectors); err != nil {
			log.Errorf("failed to insert feature vectors: %v", err)
			return err
		}
		featuresWritten.Add(float64(len(batch.Vectors)))
		log.Infof("inserted %d feature vectors", len(batch.Vectors))
		return nil
	})
	if err != nil {
		log.Fatalf("failed to subscribe to feature writes: %v", err)
	}
	defer featureConsumer.Stop()

	go serveMetrics(log, cfg.MetricsAddr)

	log.Info("writer worker started, waiting for messages")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down writer worker")
}

func serveMetrics(log *logrus.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Errorf("metrics server stopped: %v", err)
	}
}
