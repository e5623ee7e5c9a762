package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/resume-parser/internal/common"
	"github.com/resume-parser/internal/export"
	"github.com/resume-parser/internal/extract"
	"github.com/resume-parser/internal/jsonio"
	"github.com/resume-parser/internal/llm"
	"github.com/resume-parser/internal/llm/openai"
	"github.com/resume-parser/internal/logging"
	"github.com/resume-parser/internal/pipeline"
	"github.com/resume-parser/internal/store"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags
	var (
		dirs     = flag.String("dirs", "", "comma-separated input directories (default RESUME_INPUT_DIRS)")
		jsonDir  = flag.String("json", "", "configuration and output root (default RESUME_JSON_DIR)")
		useStore = flag.Bool("store", false, "batch-insert parsed resumes into the document store")
		summary  = flag.String("summary", "", "write an XLSX batch summary to this path")
	)
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	cfg := common.LoadConfig()
	if *jsonDir != "" {
		cfg.JSONDir = *jsonDir
	}
	if *dirs != "" {
		cfg.InputDirs = nil
		for _, d := range strings.Split(*dirs, ",") {
			if d = strings.TrimSpace(d); d != "" {
				cfg.InputDirs = append(cfg.InputDirs, d)
			}
		}
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger: console + dated log file
	logger, closeLog, err := logging.New(cfg.LogDir, slog.LevelInfo)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(logger)

	ctx := context.Background()

	codec := jsonio.NewCodec(logger)
	reader := extract.NewReader(logger)

	newCompleter := func(apiKey string) llm.Completer {
		return openai.NewClient(openai.Config{
			APIKey:      apiKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
	}
	connect := func(ctx context.Context, scfg store.Config) (store.Store, func(context.Context), error) {
		m, err := store.Connect(ctx, scfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return m, m.Close, nil
	}

	parser := pipeline.NewParser(logger, pipeline.Config{
		JSONDir:      cfg.JSONDir,
		OutputDir:    cfg.OutputDir,
		StoreEnabled: *useStore,
	}, codec, reader, newCompleter, connect)

	sum, err := parser.Run(ctx, cfg.InputDirs)
	if err != nil {
		logger.Error("batch failed", "error", err)
		os.Exit(1)
	}

	if *summary != "" {
		if err := export.WriteSummary(*summary, sum); err != nil {
			logger.Error("failed to write summary", "path", *summary, "error", err)
			os.Exit(1)
		}
		logger.Info("summary written", "path", *summary)
	}

	logger.Info("batch complete",
		"run_id", sum.RunID,
		"parsed", sum.Parsed,
		"skipped", sum.Skipped,
		"stored", len(sum.Stored),
	)
}
