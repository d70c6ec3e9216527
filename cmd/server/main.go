package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stocksage/stocksage/internal/api"
	"github.com/stocksage/stocksage/internal/config"
	"github.com/stocksage/stocksage/internal/core"
	"github.com/stocksage/stocksage/internal/logging"
	"github.com/stocksage/stocksage/internal/store"
	"github.com/stocksage/stocksage/internal/tools"
)

func main() {
	// Setup logging (stderr + timestamped file under logs/)
	logFile, err := logging.Setup("logs")
	if err != nil {
		log.Printf("Warning: file logging disabled: %v", err)
	} else {
		defer logFile.Close()
	}

	// Load environment and configuration
	config.LoadEnv()
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// Model provider: embedding + chat handles
	models, err := core.NewModelProvider(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize model provider: %v", err)
	}
	defer models.Close()
	embedder := models.LoadEmbeddings()

	// Vector index client
	pinecone, err := store.NewPineconeStore(store.PineconeConfig{
		APIKey:    os.Getenv("PINECONE_API_KEY"),
		IndexName: cfg.VectorDB.IndexName,
		Dimension: cfg.EmbeddingModel.Dimension,
		Metric:    cfg.VectorDB.Metric,
		Cloud:     cfg.VectorDB.Cloud,
		Region:    cfg.VectorDB.Region,
	})
	if err != nil {
		log.Fatalf("Failed to initialize Pinecone client: %v", err)
	}

	// Ingestion pipeline
	ingestion, err := core.NewDataIngestion(cfg, embedder, pinecone)
	if err != nil {
		log.Fatalf("Failed to initialize ingestion pipeline: %v", err)
	}

	// Tool set. The search and financials tools are optional: a missing key
	// disables that tool with a warning instead of refusing to start.
	toolSet := []tools.Tool{
		tools.NewRetrieverTool(embedder, pinecone, cfg.Retriever.TopK, cfg.Retriever.ScoreThreshold),
	}
	if tavily, err := tools.NewTavilyTool(tools.TavilyConfig{
		APIKey:     os.Getenv("TAVILY_API_KEY"),
		MaxResults: cfg.Tools.Tavily.MaxResults,
	}); err != nil {
		log.Printf("Warning: web search tool disabled: %v", err)
	} else {
		toolSet = append(toolSet, tavily)
	}
	if polygon, err := tools.NewPolygonTool(tools.PolygonConfig{
		APIKey: os.Getenv("POLYGON_API_KEY"),
	}); err != nil {
		log.Printf("Warning: financials tool disabled: %v", err)
	} else {
		toolSet = append(toolSet, polygon)
	}
	registry := tools.NewRegistry(toolSet...)

	// Each query request gets its own agent and conversation state.
	chatModel := models.LoadChatModel()
	newAgent := func() api.Agent {
		return core.NewTradingAgent(chatModel, registry, cfg.Agent.MaxTurns)
	}

	apiHandler := api.NewAPIHandler(ingestion, newAgent, time.Duration(cfg.Agent.TimeoutSecs)*time.Second)
	router := api.NewRouter(apiHandler)

	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,  // Uploads can be large
		WriteTimeout: 180 * time.Second, // LLM and tool calls can take time
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting StockSage AI on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}
