package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"event-orchestrator/internal/app"
	"event-orchestrator/internal/approval"
	"event-orchestrator/internal/clipper"
	"event-orchestrator/internal/config"
	"event-orchestrator/internal/database"
	"event-orchestrator/internal/intent"
	"event-orchestrator/internal/llm"
	"event-orchestrator/internal/metrics"
	"event-orchestrator/internal/planner"
	"event-orchestrator/internal/telegram"
	"event-orchestrator/internal/vendor"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	geminiClient, err := llm.NewGeminiClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}
	defer geminiClient.Close()

	var extractorGen llm.TextGenerator = geminiClient
	var clipperGen llm.TextGenerator = geminiClient
	if cfg.GroqAPIKey != "" {
		extractorGen = llm.NewGroqClient(cfg, "", 0.1)
		clipperGen = llm.NewGroqClient(cfg, "", 0.3)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	var catalogSource vendor.Source = vendor.SampleSource{}
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to vendor catalog: %v", err)
		}
		defer pool.Close()
		catalogSource = vendor.NewCatalog(pool)
	}

	portal := vendor.NewPortalClient(cfg)
	manual := vendor.NewManualVendors()

	eventPlanner := planner.NewPlanner(
		planner.NewDiscovery(catalogSource),
		portal,
		manual,
		planner.NewOptimizer(nil),
	)

	application := app.NewApp(
		cfg,
		intent.NewExtractor(extractorGen),
		eventPlanner,
		portal,
		manual,
		clipper.NewClipper(manual, clipperGen),
		approval.NewStore(db.SQL),
		planner.NewPlanRepository(db.SQL),
		metrics.NewStore(db.SQL),
		db,
	)

	sessions := telegram.NewSessionRepository(db.SQL)
	bot, err := telegram.NewBot(cfg, application, sessions)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	// Sweep stale pending-approval sessions in the background.
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if err := sessions.CleanupExpired(sweepCtx); err != nil {
					log.Printf("Session cleanup failed: %v", err)
				}
			}
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: nil,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
