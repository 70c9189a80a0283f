package app

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Acurioustractor/aime-knowledge-hub/internal/config"
	"github.com/Acurioustractor/aime-knowledge-hub/internal/core/airtable"
	"github.com/Acurioustractor/aime-knowledge-hub/internal/core/chunking"
	db "github.com/Acurioustractor/aime-knowledge-hub/internal/core/database"
	"github.com/Acurioustractor/aime-knowledge-hub/internal/core/enrichment"
	"github.com/Acurioustractor/aime-knowledge-hub/internal/core/extraction"
	"github.com/Acurioustractor/aime-knowledge-hub/internal/core/llm"
	"github.com/Acurioustractor/aime-knowledge-hub/internal/core/objectclient"
	"github.com/Acurioustractor/aime-knowledge-hub/internal/core/pipeline"
	"github.com/Acurioustractor/aime-knowledge-hub/internal/core/themes"
)

// App owns every long-lived component: record store client, vector store,
// AI providers, the pipeline, and the ops server.
type App struct {
	cfg          *config.Config
	Records      *airtable.Client
	Vectors      *db.VectorStore
	Embedder     *llm.GeminiEmbedder
	LLM          *llm.GeminiLLM
	Orchestrator *pipeline.Orchestrator
	Server       *Server

	sweeping  atomic.Bool
	lastSweep atomic.Pointer[pipeline.SweepResult]
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	records, err := airtable.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	vectors, err := db.NewVectorStore(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Vector store initialized and ready.")

	embedder, err := llm.NewGeminiEmbedder(appCtx, cfg.AIAPIKey, cfg.EmbedModel)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the embedder, %w", err)
	}

	llmProvider, err := llm.NewGeminiLLM(appCtx, cfg.AIAPIKey, cfg.GenModel)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the language model, %w", err)
	}

	// The S3 archive is optional: without a bucket the pipeline still runs,
	// it just can't preserve oversized full texts or fetch private objects.
	var archive *objectclient.S3Client
	if cfg.BucketName != "" && cfg.AwsAccessKey != "" {
		archive, err = objectclient.NewS3Client(appCtx, cfg)
		if err != nil {
			return nil, err
		}
	} else {
		log.Println("No S3 bucket configured; oversized-text archiving disabled.")
	}

	fetcher := extraction.NewHTTPFetcher(archive)
	extractor := extraction.NewExtractor(records, fetcher, archive, cfg.DocumentsTable, cfg.StoredTextCap, cfg.TruncateTo)
	enricher := enrichment.NewEnricher(llmProvider)
	registry := themes.NewRegistry(records, cfg.ThemesTable, cfg.DocumentsTable)
	writer := chunking.NewWriter(embedder, vectors, cfg.BatchSize)

	orchestrator := pipeline.NewOrchestrator(
		records, extractor, enricher, registry, writer,
		cfg.DocumentsTable, cfg.ChunkSize, cfg.ChunkOverlap, cfg.DocumentDelay,
	)

	a := &App{
		cfg:          cfg,
		Records:      records,
		Vectors:      vectors,
		Embedder:     embedder,
		LLM:          llmProvider,
		Orchestrator: orchestrator,
	}
	a.Server = NewServer(cfg, a)
	return a, nil
}

// Run serves the ops API and sweeps on the configured interval until the
// context is cancelled, starting with an immediate sweep.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.Server.Start(ctx)
	})

	g.Go(func() error {
		a.runSweep(ctx)

		ticker := time.NewTicker(a.cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				a.runSweep(ctx)
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	err := g.Wait()
	if err == context.Canceled {
		return nil
	}
	return err
}

// runSweep runs one sweep unless another is already in flight.
func (a *App) runSweep(ctx context.Context) {
	res, started, err := a.TriggerSweep(ctx)
	if !started {
		log.Println("sweep already in progress, skipping scheduled run")
		return
	}
	if err != nil {
		log.Printf("scheduled sweep failed: %v", err)
		return
	}
	_ = res
}

// TriggerSweep runs a sweep if none is in flight. The started flag reports
// whether this call actually ran one.
func (a *App) TriggerSweep(ctx context.Context) (*pipeline.SweepResult, bool, error) {
	if !a.sweeping.CompareAndSwap(false, true) {
		return nil, false, nil
	}
	defer a.sweeping.Store(false)

	res, err := a.Orchestrator.Sweep(ctx)
	if res != nil {
		a.lastSweep.Store(res)
	}
	return res, true, err
}

// LastSweep returns the most recent sweep result, or nil before the first.
func (a *App) LastSweep() *pipeline.SweepResult {
	return a.lastSweep.Load()
}

// Sweeping reports whether a sweep is currently in flight.
func (a *App) Sweeping() bool {
	return a.sweeping.Load()
}

func (a *App) Close() {
	if a.Vectors != nil {
		_ = a.Vectors.Close()
	}
	if a.Embedder != nil {
		_ = a.Embedder.Close()
	}
	if a.LLM != nil {
		_ = a.LLM.Close()
	}
}
