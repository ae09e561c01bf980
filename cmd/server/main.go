package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RioCoderBrazil/MetaSynthesizer/internal/api"
	"github.com/RioCoderBrazil/MetaSynthesizer/internal/chunker"
	"github.com/RioCoderBrazil/MetaSynthesizer/internal/colormap"
	"github.com/RioCoderBrazil/MetaSynthesizer/internal/config"
	"github.com/RioCoderBrazil/MetaSynthesizer/internal/pipeline"
	"github.com/RioCoderBrazil/MetaSynthesizer/internal/vectorstore"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Color label table: file-configured or built-in.
	mapping := colormap.Default()
	if cfg.ColorConfigPath != "" {
		m, err := colormap.Load(cfg.ColorConfigPath)
		if err != nil {
			log.Error("invalid color config", "path", cfg.ColorConfigPath, "error", err)
			os.Exit(1)
		}
		mapping = m
		log.Info("loaded color config", "path", cfg.ColorConfigPath, "colors", len(mapping.Colors))
	}
	if cfg.ColorTolerance > 0 {
		mapping.Tolerance = cfg.ColorTolerance
	}
	classifier := colormap.NewClassifier(mapping)

	// Tokenizer init loads the BPE ranks; a broken encoding is fatal.
	tok, err := chunker.NewTiktokenTokenizer(cfg.TokenizerEncoding)
	if err != nil {
		log.Error("tokenizer init failed", "encoding", cfg.TokenizerEncoding, "error", err)
		os.Exit(1)
	}
	hc := chunker.NewHybridChunker(tok, chunker.SplitSentencesGerman, chunker.Config{
		MaxTokens:     cfg.MaxTokens,
		MinTokens:     cfg.MinTokens,
		OverlapTokens: cfg.OverlapTokens,
	})

	store := vectorstore.NewClient(cfg.VectorStoreURL, cfg.VectorStoreAPIKey)

	orch := pipeline.NewOrchestrator(cfg, classifier, hc, store, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		store.Close()
	}()

	log.Info("starting metasynthesizer", "port", cfg.Port, "workers", cfg.WorkerCount)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
