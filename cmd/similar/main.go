package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/oyabun/tendon/pkg/classify"
	"github.com/oyabun/tendon/pkg/config"
	"github.com/oyabun/tendon/pkg/embed"
	"github.com/oyabun/tendon/pkg/feature"
	"github.com/oyabun/tendon/pkg/logging"
	"github.com/oyabun/tendon/pkg/model"
	"github.com/oyabun/tendon/pkg/rerank"
	"github.com/oyabun/tendon/pkg/store/duckdb"
	"github.com/oyabun/tendon/pkg/store/milvus"
	"github.com/oyabun/tendon/pkg/window"
)

type flags struct {
	AthleteID   string
	WeekIndex   int
	TopK        int
	LabeledOnly bool
}

func main() {
	f := parseFlags()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	log := logging.New(cfg.LogLevel)
	ctx := context.Background()

	client, err := duckdb.NewClient(cfg.DuckDBPath)
	if err != nil {
		log.Fatalf("failed to connect to DuckDB: %v", err)
	}
	defer client.Close()

	recordRepo := duckdb.NewRecordRepo(client)
	profileRepo := duckdb.NewProfileRepo(client)

	records, err := recordRepo.GetByAthlete(ctx, f.AthleteID)
	if err != nil {
		log.Fatalf("failed to fetch records: %v", err)
	}
	if len(records) == 0 {
		log.Fatalf("no training records for athlete %s", f.AthleteID)
	}

	profile, err := profileRepo.Get(ctx, f.AthleteID)
	if err != nil {
		log.Fatalf("failed to fetch profile: %v", err)
	}

	windowCfg := window.Config{
		ChronicWeeks:  cfg.ChronicWeeks,
		MonotonyWeeks: cfg.MonotonyWeeks,
	}
	engine := window.NewEngine(windowCfg)
	stats, err := engine.Compute(records)
	if err != nil {
		log.Fatalf("failed to compute windows: %v", err)
	}

	composer := feature.NewComposer(feature.Config{
		ACWRThreshold:       cfg.ACWRThreshold,
		MaxMonotony:         cfg.MaxMonotony,
		InjuryLookbackWeeks: cfg.InjuryLookbackWeeks,
	})
	rows, err := composer.Compose(*profile, stats)
	if err != nil {
		log.Fatalf("failed to compose features: %v", err)
	}
	if len(rows) == 0 {
		log.Fatalf("no feature rows for athlete %s", f.AthleteID)
	}

	fv := pickRow(rows, f.WeekIndex)
	if fv == nil {
		log.Fatalf("no feature row for athlete %s week %d", f.AthleteID, f.WeekIndex)
	}
	if !fv.Usable() {
		log.Fatalf("week %d has insufficient history for search (need %d weeks)", fv.WeekIndex, cfg.ChronicWeeks)
	}
	log.Infof("query: athlete %s week %d", fv.AthleteID, fv.WeekIndex)

	embedder, err := embed.NewEmbedder(cfg.EmbeddingDim)
	if err != nil {
		log.Fatalf("failed to create embedder: %v", err)
	}
	offset := fv.WeekIndex - stats[0].WeekIndex
	vec, err := embedder.Embed(stats[:offset+1], fv)
	if err != nil {
		log.Fatalf("failed to embed query week: %v", err)
	}

	milvusClient, err := milvus.NewClient(ctx, milvus.Config{Address: cfg.MilvusAddr})
	if err != nil {
		log.Fatalf("failed to connect to Milvus: %v", err)
	}
	defer milvusClient.Close()

	if err := milvusClient.LoadCollection(ctx, cfg.MilvusCollection); err != nil {
		log.Fatalf("failed to load collection: %v", err)
	}

	// Exclude the athlete's own history so precedents come from peers.
	filter := fmt.Sprintf("schema_version == %d && athlete_id != \"%s\"", model.SchemaVersion, f.AthleteID)
	if f.LabeledOnly {
		filter += fmt.Sprintf(" && injured >= %d", milvus.InjuredFalse)
	}
	results, err := milvusClient.Search(ctx, cfg.MilvusCollection, vec, filter, f.TopK)
	if err != nil {
		log.Fatalf("search failed: %v", err)
	}

	reranker := rerank.NewReranker(rerank.DefaultWeekDecayConfig())
	ranked := reranker.Rerank(results, fv.WeekIndex)

	fmt.Printf("\n%-5s %-16s %-6s %-8s %-8s %-8s %-8s\n",
		"Rank", "Athlete", "Week", "Score", "Recency", "Final", "Injured")
	fmt.Println("----------------------------------------------------------------")
	for i, r := range ranked {
		fmt.Printf("%-5d %-16s %-6d %-8.4f %-8.4f %-8.4f %-8s\n",
			i+1, r.AthleteID, r.WeekIndex, r.OriginalScore, r.RecencyWeight, r.FinalScore, injuredLabel(r.Injured))
	}

	share, labeled := rerank.InjuredShare(ranked)
	if labeled > 0 {
		fmt.Printf("\nInjured share among %d labeled precedents: %.1f%%\n", labeled, share*100)
	}

	svc, err := classify.NewService(classify.NewZoneClassifier())
	if err != nil {
		log.Fatalf("failed to build risk service: %v", err)
	}
	assessment, err := svc.Assess(fv)
	if err != nil {
		log.Fatalf("risk assessment failed: %v", err)
	}

	fmt.Printf("\nRisk: %s (score %.2f)\n", assessment.RiskLevel, assessment.RiskScore)
	fmt.Printf("ACWR %s  Monotony %s  Strain %s  WoW %s\n",
		metricString(assessment.ACWR), metricString(assessment.Monotony),
		metricString(assessment.Strain), metricString(assessment.WeekOverWeekChange))
	for _, rec := range assessment.Recommendations {
		fmt.Printf("  - %s\n", rec)
	}
}

// pickRow returns the row for the requested week, or the latest row when
// week is negative.
func pickRow(rows []model.FeatureVector, week int) *model.FeatureVector {
	if week < 0 {
		return &rows[len(rows)-1]
	}
	for i := range rows {
		if rows[i].WeekIndex == week {
			return &rows[i]
		}
	}
	return nil
}

func injuredLabel(v int32) string {
	switch v {
	case milvus.InjuredTrue:
		return "yes"
	case milvus.InjuredFalse:
		return "no"
	default:
		return "?"
	}
}

func metricString(m model.Metric) string {
	if !m.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", m.Value)
}

func parseFlags() flags {
	f := flags{}

	flag.StringVar(&f.AthleteID, "athlete", "", "Athlete id to query")
	flag.IntVar(&f.WeekIndex, "week", -1, "Week index to query (-1 for latest)")
	flag.IntVar(&f.TopK, "topk", 10, "Number of precedents to retrieve")
	flag.BoolVar(&f.LabeledOnly, "labeled", false, "Only retrieve precedents with a known injury label")

	flag.Parse()

	if f.AthleteID == "" {
		fmt.Println("Usage: similar -athlete <id> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	return f
}
