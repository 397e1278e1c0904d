package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/openclaw/qrstudio/api"
	"github.com/openclaw/qrstudio/config"
	"github.com/openclaw/qrstudio/render"
	"github.com/openclaw/qrstudio/store"
)

var version = "v0.1.0"

func main() {
	root := &cobra.Command{
		Use:   "qrstudio",
		Short: "Styled QR code generation service",
	}

	// --- serve command -------------------------------------------------------
	var configPath string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the QR generation HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to config file")
	root.AddCommand(serveCmd)

	// --- generate command ----------------------------------------------------
	var genAddr, genOut string
	genCmd := &cobra.Command{
		Use:   "generate [content]",
		Short: "Generate a QR code via a running service and save the PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(genAddr, args[0], genOut)
		},
	}
	genCmd.Flags().StringVar(&genAddr, "addr", "http://localhost:8000", "Service HTTP address")
	genCmd.Flags().StringVarP(&genOut, "out", "o", "qrcode.png", "Output PNG path")
	root.AddCommand(genCmd)

	// --- history command -----------------------------------------------------
	var histAddr string
	var histLimit int
	histCmd := &cobra.Command{
		Use:   "history",
		Short: "List recent generations from a running service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(histAddr, histLimit)
		},
	}
	histCmd.Flags().StringVar(&histAddr, "addr", "http://localhost:8000", "Service HTTP address")
	histCmd.Flags().IntVar(&histLimit, "limit", 12, "Maximum records to list (1-50)")
	root.AddCommand(histCmd)

	// --- version command -----------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("qrstudio %s\n", version)
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// runServe is the main service entrypoint that wires all components together.
func runServe(configPath string) error {
	// 1. Load config (.env first so PORT overrides work from a dotfile)
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("ensure data dir: %w", err)
	}

	// 2. Setup logger
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)

	log.Info("starting qrstudio", "version", version, "port", cfg.Port, "data_dir", cfg.DataDir)

	// 3. Open history store. Persistence is best-effort: when the store
	// cannot be opened the service still runs, generation just loses history.
	var docs api.DocumentStore
	dbPath := filepath.Join(cfg.DataDir, "history.db")
	docStore, err := store.NewDocumentStore(dbPath)
	if err != nil {
		log.Warn("history store unavailable", "path", dbPath, "error", err)
	} else {
		defer docStore.Close()
		docs = docStore
	}

	// 4. Create renderer
	logos := render.NewLogoFetcher(cfg.LogoTimeout.Duration, log)
	renderer := render.New(logos, log)

	// 5. Start HTTP server
	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: api.NewRouter(&api.Server{
			Renderer: renderer,
			Store:    docs,
			Log:      log,
			Version:  version,
		}),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("service is running", "ui_url", fmt.Sprintf("http://localhost:%d/ui", cfg.Port))

	// 6. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	log.Info("goodbye")
	return nil
}

// runGenerate posts a generation request to a running service and writes the
// returned PNG to outPath.
func runGenerate(addr, content, outPath string) error {
	body := fmt.Sprintf(`{"content":%q}`, content)
	resp, err := http.Post(addr+"/api/qrcode.png", "application/json", strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to reach service at %s: %w", addr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("generation failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	png, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := os.WriteFile(outPath, png, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	fmt.Printf("wrote %s (%d bytes)\n", outPath, len(png))
	return nil
}

// runHistory lists recent generations from a running service.
func runHistory(addr string, limit int) error {
	resp, err := http.Get(fmt.Sprintf("%s/api/history?limit=%d", addr, limit))
	if err != nil {
		return fmt.Errorf("failed to reach service at %s: %w", addr, err)
	}
	defer resp.Body.Close()

	var records []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return fmt.Errorf("decode history: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("no history")
		return nil
	}
	for _, rec := range records {
		out, _ := json.Marshal(rec)
		fmt.Println(string(out))
	}
	return nil
}
