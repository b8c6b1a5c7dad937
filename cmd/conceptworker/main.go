package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pipeline/internal/domain"
	"pipeline/internal/http/handlers"
	httpapi "pipeline/internal/http/httpapi"
	"pipeline/internal/infra"
	"pipeline/internal/instruction"
	"pipeline/internal/orchestrator"
	"pipeline/internal/policy"
	"pipeline/internal/providers/genimage"
	"pipeline/internal/providers/rewrite"
	"pipeline/internal/providers/textcheck"
	"pipeline/internal/providers/vision"
	"pipeline/internal/storage"
)

// brief is the on-disk intake format. Only the name is required.
type brief struct {
	Name         string   `json:"name"`
	Aesthetic    string   `json:"aesthetic,omitempty"`
	Palette      []string `json:"palette,omitempty"`
	Tagline      string   `json:"tagline,omitempty"`
	ConceptHints []string `json:"concept_hints,omitempty"`
}

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	brand, err := loadBrief(cfg.BriefPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.BriefPath).Msg("worker: failed to load brief")
	}

	storagePath := cfg.StoragePath
	if !filepath.IsAbs(storagePath) {
		if abs, err := filepath.Abs(storagePath); err == nil {
			storagePath = abs
		}
	}
	fileStore, err := storage.NewFileStore(storagePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure storage")
	}

	generator, err := genimage.NewGeminiClient(genimage.GeminiOptions{
		APIKey:   cfg.GeminiAPIKey,
		BaseURL:  cfg.GeminiBaseURL,
		Model:    cfg.GeminiModel,
		Logger:   &logger,
		Interval: cfg.GenerateInterval,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure image generator")
	}
	evaluator, err := vision.NewOpenAIEvaluator(vision.OpenAIOptions{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure evaluator")
	}
	reader, err := textcheck.NewOpenAIReader(textcheck.OpenAIReaderOptions{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure text reader")
	}
	rewriter, err := rewrite.NewOpenAIRewriter(rewrite.Options{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure rewriter")
	}

	// Resolve the style plan up front so the tracker knows the batch size
	// before the first result lands.
	specs := policy.Plan(brand)
	tracker := handlers.NewTracker()

	orch, err := orchestrator.New(orchestrator.Options{
		Generator:       generator,
		Evaluator:       evaluator,
		Reader:          reader,
		Refiner:         instruction.NewRefiner(rewriter),
		Plan:            func(domain.BrandContext) []domain.StyleSpec { return specs },
		Sink:            fileStore,
		OnResult:        tracker.Record,
		Logger:          &logger,
		Concurrency:     cfg.Concurrency,
		GenerateTimeout: cfg.GenerateTimeout,
		EvaluateTimeout: cfg.EvaluateTimeout,
		ReadTimeout:     cfg.ReadTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to build orchestrator")
	}

	app := handlers.NewApp(tracker, logger)
	server := infra.NewHTTPServer(cfg, httpapi.NewRouter(app))
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("worker: status endpoint listening")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("worker: status endpoint failed")
		}
	}()

	tracker.Begin(brand.Normalized(), len(specs))
	set, runErr := orch.Run(ctx, brand)
	if set != nil {
		tracker.Finish(set)
		if err := writeConceptReport(storagePath, set); err != nil {
			logger.Error().Err(err).Msg("worker: failed to write concept report")
		}
	}
	switch {
	case runErr == nil:
		logger.Info().Str("batch_id", set.BatchID).Int("accepted", set.AcceptedCount()).Msg("worker: batch complete")
	case errors.Is(runErr, context.Canceled):
		logger.Warn().Msg("worker: batch cancelled, partial results kept")
	default:
		logger.Error().Err(runErr).Msg("worker: batch failed")
	}

	// Keep serving status until a signal arrives, unless one already has.
	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("worker: shutdown failed")
	}
	logger.Info().Msg("worker: stopped")
}

func loadBrief(path string) (domain.BrandContext, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.BrandContext{}, fmt.Errorf("read brief: %w", err)
	}
	var b brief
	if err := json.Unmarshal(raw, &b); err != nil {
		return domain.BrandContext{}, fmt.Errorf("decode brief: %w", err)
	}
	brand := domain.BrandContext{
		Name:         b.Name,
		Aesthetic:    b.Aesthetic,
		Palette:      b.Palette,
		Tagline:      b.Tagline,
		ConceptHints: b.ConceptHints,
	}
	if brand.Normalized() == "" {
		return domain.BrandContext{}, errors.New("brief: brand name is required")
	}
	if len(brand.Palette) == 0 {
		brand.Palette = derivePalette(brand.Aesthetic)
	}
	return brand, nil
}

// aestheticPalettes maps aesthetic keywords to a default palette for briefs
// that name a mood but no colors. First keyword hit wins, in listed order.
var aestheticPalettes = []struct {
	keyword string
	palette []string
}{
	{"rustic", []string{"warm brown", "cream"}},
	{"cozy", []string{"warm brown", "cream"}},
	{"minimal", []string{"black", "white"}},
	{"modern", []string{"deep navy", "white"}},
	{"corporate", []string{"deep navy", "slate gray"}},
	{"playful", []string{"coral", "teal"}},
	{"natural", []string{"forest green", "sand"}},
	{"organic", []string{"forest green", "sand"}},
	{"luxury", []string{"black", "gold"}},
	{"elegant", []string{"black", "gold"}},
}

func derivePalette(aesthetic string) []string {
	needle := strings.ToLower(aesthetic)
	if needle == "" {
		return nil
	}
	for _, entry := range aestheticPalettes {
		if strings.Contains(needle, entry.keyword) {
			return append([]string(nil), entry.palette...)
		}
	}
	return nil
}

// conceptReport is the batch summary written next to the images.
type conceptReport struct {
	BatchID    string        `json:"batch_id"`
	Brand      string        `json:"brand"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Accepted   int           `json:"accepted"`
	Candidates []reportEntry `json:"candidates"`
}

type reportEntry struct {
	Style       string   `json:"style"`
	Outcome     string   `json:"outcome"`
	Accepted    bool     `json:"accepted"`
	Attempts    int      `json:"attempts"`
	Score       int      `json:"score,omitempty"`
	Flags       []string `json:"flags,omitempty"`
	ImageRef    string   `json:"image_ref,omitempty"`
	Positive    string   `json:"positive_instruction,omitempty"`
	Negative    string   `json:"negative_instruction,omitempty"`
	Recognized  string   `json:"recognized_text,omitempty"`
	TextMatched *bool    `json:"text_matched,omitempty"`
}

func writeConceptReport(storagePath string, set *domain.ConceptSet) error {
	report := conceptReport{
		BatchID:    set.BatchID,
		Brand:      set.Brand,
		StartedAt:  set.StartedAt,
		FinishedAt: set.FinishedAt,
		Accepted:   set.AcceptedCount(),
		Candidates: make([]reportEntry, 0, len(set.Candidates)),
	}
	for i := range set.Candidates {
		c := &set.Candidates[i]
		entry := reportEntry{
			Style:    string(c.Style.ID),
			Outcome:  string(c.Outcome),
			Accepted: c.Accepted,
			Attempts: c.AttemptCount,
			ImageRef: c.ImageRef,
			Positive: c.Instructions.Positive,
			Negative: c.Instructions.Negative,
		}
		if c.Evaluation != nil {
			entry.Score = c.Evaluation.Score
			entry.Flags = c.Evaluation.Flags.Strings()
		}
		if c.TextCheck != nil {
			matched := c.TextCheck.Matched
			entry.TextMatched = &matched
			entry.Recognized = c.TextCheck.RecognizedText
		}
		report.Candidates = append(report.Candidates, entry)
	}

	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Join(storagePath, set.BatchID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "concepts.json"), raw, 0o644)
}
