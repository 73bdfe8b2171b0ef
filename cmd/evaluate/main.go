package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/OFFIS-RIT/quizbench/backend/internal/util"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/ai"
	oai "github.com/OFFIS-RIT/quizbench/backend/pkg/ai/ollama"
	gai "github.com/OFFIS-RIT/quizbench/backend/pkg/ai/openai"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/eval"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/loader"
	ioloader "github.com/OFFIS-RIT/quizbench/backend/pkg/loader/io"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/loader/web"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/logger"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/logger/console"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/store"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/store/memory"
)

// cmd/evaluate scores one predictions document against one dataset
// document without the server and worker: it loads both files, runs
// the evaluation pipeline in-process and prints the per-source report.
func main() {
	datasetPath := flag.String("dataset", "", "path or URL of the dataset document")
	predictionsPath := flag.String("predictions", "", "path or URL of the predictions document")
	model := flag.String("model", "unknown", "model name recorded on the report")
	sources := flag.String("sources", "", "comma-separated source filter (default: all)")
	workers := flag.Int("workers", 0, "parallel sample workers (default 4)")
	embeddings := flag.Bool("embeddings", false, "run embedding metrics using the AI_* environment settings")
	output := flag.String("output", "", "write the full report as JSON to this file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	util.LoadEnv()
	logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: *debug,
	}))

	if *datasetPath == "" || *predictionsPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()

	reference, err := loader.LoadRecords(ctx, loader.NewDatasetFile(loader.NewDatasetFileParams{
		ID:       "reference",
		FilePath: *datasetPath,
		Loader:   loaderFor(*datasetPath),
	}))
	if err != nil {
		logger.Fatal("Failed to load dataset", "path", *datasetPath, "err", err)
	}
	candidate, err := loader.LoadRecords(ctx, loader.NewDatasetFile(loader.NewDatasetFileParams{
		ID:       "candidate",
		FilePath: *predictionsPath,
		Loader:   loaderFor(*predictionsPath),
	}))
	if err != nil {
		logger.Fatal("Failed to load predictions", "path", *predictionsPath, "err", err)
	}

	if *sources != "" {
		reference = loader.FilterSources(reference, strings.Split(*sources, ","))
	}
	samples := eval.SamplesFromRecords(reference, candidate)
	if len(samples) == 0 {
		logger.Fatal("No overlapping samples between dataset and predictions")
	}

	opts := []eval.EvaluatorOption{}
	if *workers > 0 {
		opts = append(opts, eval.WithWorkers(*workers))
	}
	if *embeddings {
		client := newAIClient()
		if client == nil {
			logger.Fatal("Embedding metrics requested but AI_EMBED_MODEL is not set")
		}
		// In-process cache: alignment and the corpus-level metrics
		// embed many of the same texts within one run.
		client = store.NewCachingAIClient(store.NewCachingAIClientParams{
			Inner:   client,
			Storage: memory.NewEvalMemStorage(),
			Model:   util.GetEnv("AI_EMBED_MODEL"),
		})
		opts = append(opts, eval.WithEmbeddingClient(client))
	}
	evaluator := eval.NewEvaluator(opts...)

	start := time.Now()
	results, err := evaluator.EvaluateAll(ctx, samples)
	if err != nil {
		logger.Fatal("Evaluation failed", "err", err)
	}
	sourceMetrics := evaluator.Aggregate(ctx, results)

	report, err := eval.NewReport(*datasetPath, *model, sourceMetrics, results, time.Since(start))
	if err != nil {
		logger.Fatal("Failed to assemble report", "err", err)
	}

	fmt.Print(eval.FormatReport(report))

	if *output != "" {
		payload, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			logger.Fatal("Failed to marshal report", "err", err)
		}
		if err := os.WriteFile(*output, payload, 0o644); err != nil {
			logger.Fatal("Failed to write report", "path", *output, "err", err)
		}
		logger.Info("Report written", "path", *output)
	}
}

func loaderFor(path string) loader.DatasetFileLoader {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return web.NewWebDatasetLoader()
	}
	return ioloader.NewIODatasetFileLoader()
}

func newAIClient() ai.EvalAIClient {
	embedModel := util.GetEnv("AI_EMBED_MODEL")
	if embedModel == "" {
		return nil
	}

	switch util.GetEnv("AI_ADAPTER") {
	case "ollama":
		client, err := oai.NewEvalOllamaClient(oai.NewEvalOllamaClientParams{
			EmbeddingModel: embedModel,
			BaseURL:        util.GetEnv("AI_EMBED_URL"),
			ApiKey:         util.GetEnv("AI_EMBED_KEY"),
		})
		if err != nil {
			logger.Fatal("Could not create Ollama client", "err", err)
		}
		return client
	default:
		return gai.NewEvalOpenAIClient(gai.NewEvalOpenAIClientParams{
			EmbeddingModel: embedModel,
			EmbeddingURL:   util.GetEnv("AI_EMBED_URL"),
			EmbeddingKey:   util.GetEnv("AI_EMBED_KEY"),
		})
	}
}
