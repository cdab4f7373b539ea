package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/WatcharananPha/quotegrid/internal/config"
	"github.com/WatcharananPha/quotegrid/internal/domain"
	"github.com/WatcharananPha/quotegrid/internal/extract"
	"github.com/WatcharananPha/quotegrid/internal/grid"
	"github.com/WatcharananPha/quotegrid/internal/llm"
	"github.com/WatcharananPha/quotegrid/internal/match"
	"github.com/WatcharananPha/quotegrid/internal/observability"
	"github.com/WatcharananPha/quotegrid/internal/pipeline"
	"github.com/WatcharananPha/quotegrid/internal/sheet"
)

var (
	processTarget   string
	processBackend  string
	processStrategy string
	processNoRevise bool
)

var processCmd = &cobra.Command{
	Use:   "process <document>...",
	Short: "Extract quotations and write them into the comparison sheet",
	Long: `Process one or more quotation documents. Arguments may be files or
directories; directories are scanned for supported document types.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVarP(&processTarget, "target", "t", "", "spreadsheet ID/URL or workbook path (overrides config)")
	processCmd.Flags().StringVar(&processBackend, "backend", "", "grid backend: sheets or excel (overrides config)")
	processCmd.Flags().StringVar(&processStrategy, "strategy", "", "matching strategy: heuristic, gemini or none (overrides config)")
	processCmd.Flags().BoolVar(&processNoRevise, "no-revise", false, "skip the model revision pass on extracted records")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	color.NoColor = color.NoColor || noColor

	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if processTarget != "" {
		cfg.Grid.Target = processTarget
	}
	if processBackend != "" {
		cfg.Grid.Backend = processBackend
	}
	if processStrategy != "" {
		cfg.Matching.Strategy = processStrategy
	}
	if processNoRevise {
		cfg.Extraction.Revise = false
	}
	if verbose {
		cfg.Observability.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: "quotegrid",
	})

	docs, err := collectDocuments(args)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("no supported documents found in the given paths")
	}

	client, err := llm.NewClient(ctx, llm.Config{
		APIKey:       cfg.Gemini.APIKey,
		FlashModel:   cfg.Gemini.FlashModel,
		ProModel:     cfg.Gemini.ProModel,
		PollTimeout:  cfg.Extraction.UploadPollTimeout,
		PollInterval: cfg.Extraction.UploadPollInterval,
	}, log)
	if err != nil {
		return err
	}
	defer client.Close()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	matcher := selectMatcher(cfg, client)
	extractor := llm.NewExtractor(client, cfg.Prompts)
	service := extract.NewService(extractor, cfg.Extraction.Workers, cfg.Extraction.Revise, log)
	engine := grid.NewEngine(store, matcher, log)
	runner := pipeline.NewRunner(service, engine, log)

	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	sp.Suffix = fmt.Sprintf(" Processing %d document(s)...", len(docs))
	sp.Start()
	report, err := runner.Run(ctx, docs)
	sp.Stop()

	printReport(report)
	return err
}

func openStore(ctx context.Context, cfg *config.Config) (domain.GridStore, error) {
	switch cfg.Grid.Backend {
	case "excel":
		return sheet.NewExcel(cfg.Grid.Target)
	case "memory":
		return sheet.NewMemory(), nil
	default:
		id, err := sheet.ParseSpreadsheetID(cfg.Grid.Target)
		if err != nil {
			return nil, err
		}
		return sheet.NewGoogleSheets(ctx, id, cfg.Grid.CredentialsFile)
	}
}

func selectMatcher(cfg *config.Config, client *llm.Client) domain.Matcher {
	switch cfg.Matching.Strategy {
	case "gemini":
		return llm.NewMatcher(client, cfg.Prompts)
	case "none":
		return match.NewFallback()
	default:
		return match.NewHeuristic()
	}
}

var supportedExts = map[string]bool{
	".pdf": true, ".png": true, ".jpg": true, ".jpeg": true,
	".webp": true, ".doc": true, ".docx": true,
}

// collectDocuments expands files and directories into the document list.
// Directories are scanned one level deep.
func collectDocuments(paths []string) ([]domain.Document, error) {
	var docs []domain.Document
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			docs = append(docs, domain.Document{Path: p, Name: filepath.Base(p)})
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("read directory %s: %w", p, err)
		}
		for _, e := range entries {
			if e.IsDir() || !supportedExts[strings.ToLower(filepath.Ext(e.Name()))] {
				continue
			}
			docs = append(docs, domain.Document{Path: filepath.Join(p, e.Name()), Name: e.Name()})
		}
	}
	return docs, nil
}

func printReport(report pipeline.Report) {
	fmt.Println()
	if report.Written > 0 {
		color.New(color.FgGreen).Printf("✓ %d supplier(s) written to the grid\n", report.Written)
	}
	for _, r := range report.Records {
		color.New(color.FgCyan).Printf("  %s: %d product(s), total %.2f\n", r.Company, len(r.Items), r.GrandTotal)
	}
	for _, e := range report.Errors {
		color.New(color.FgRed).Printf("✗ %s: %v\n", e.FileName, e.Err)
	}
	if report.Written == 0 && len(report.Errors) == 0 {
		color.New(color.FgYellow).Println("⚠ nothing to write")
	}
}
