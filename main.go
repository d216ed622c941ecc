package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"lg/fitpal-go-api/narrative"
	"lg/fitpal-go-api/plan"
)

func main() {
	log.SetPrefix("lg/fitpal-go-api: ")
	log.SetFlags(log.LstdFlags)

	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env loaded: %v", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	if err := registerValidators(); err != nil {
		log.Fatalf("validators: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := &Handler{evaluator: plan.NewEvaluator(plan.DefaultConfig())}

	if cfg.OpenAIKey == "" {
		log.Println("OPENAI_API_KEY not set; narrative requests will report ai_plan_error")
	}
	gen := narrative.NewOpenAIGenerator(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.LLMModel, cfg.NarrativeTimeout)
	h.enricher = narrative.NewEnricher(gen, cfg.NarrativeConcurrency, cfg.NarrativeTimeout)

	if cfg.DBURL != "" {
		pool, err := getDBPool(ctx, cfg.DBURL)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer pool.Close()
		h.db = pool
	} else {
		log.Println("DB_URL not set; /api/plan is public and /api/login is disabled")
	}

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(h.newRouter()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.NarrativeTimeout+5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Starting gin app on :%s...", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server: %v", err)
	}
	<-shutdownDone
}
