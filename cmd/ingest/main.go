// Command ingest loads cleaned advice guides into the vector index. It is a
// one-time loader: the input JSON is expected to already be scraped and
// cleaned elsewhere.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/smolblud/forge/internal/embedding"
	"github.com/smolblud/forge/internal/index"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ingestConfig configures the loader. Values come from a yaml file so a
// manifest can be checked in next to the guides it describes.
type ingestConfig struct {
	OllamaURL  string `yaml:"ollama_url"`
	EmbedModel string `yaml:"embed_model"`
	EmbedDims  int    `yaml:"embed_dims"`
	IndexPath  string `yaml:"index_path"`
	GuidesPath string `yaml:"guides_path"`
}

// guide is one cleaned advice entry.
type guide struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func loadConfig(path string) (*ingestConfig, error) {
	cfg := &ingestConfig{
		OllamaURL:  "http://localhost:11434",
		EmbedModel: "mxbai-embed-large",
		EmbedDims:  1024,
		IndexPath:  "data/advice.db",
		GuidesPath: "data/guides.json",
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "ingest.yaml", "path to ingest config")
	guidesPath := flag.String("guides", "", "path to cleaned guides JSON (overrides config)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *guidesPath != "" {
		cfg.GuidesPath = *guidesPath
	}

	data, err := os.ReadFile(cfg.GuidesPath)
	if err != nil {
		log.Fatalf("Failed to read guides: %v", err)
	}

	var guides []guide
	if err := json.Unmarshal(data, &guides); err != nil {
		log.Fatalf("Failed to parse guides: %v", err)
	}
	if len(guides) == 0 {
		log.Fatalf("No guides found in %s", cfg.GuidesPath)
	}

	embedder := embedding.NewClient(cfg.OllamaURL, cfg.EmbedModel, cfg.EmbedDims)
	idx, err := index.Open(cfg.IndexPath, embedder, logger)
	if err != nil {
		log.Fatalf("Failed to open index: %v", err)
	}
	defer idx.Close()

	ctx := context.Background()
	loaded := 0
	for _, g := range guides {
		if g.Title == "" || g.Content == "" {
			logger.Warn("skipping guide with empty title or content", "title", g.Title)
			continue
		}
		if err := idx.Upsert(ctx, g.Title, g.Content); err != nil {
			log.Fatalf("Failed to index %q: %v", g.Title, err)
		}
		loaded++
	}

	total, err := idx.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count index: %v", err)
	}

	logger.Info("ingest complete",
		"loaded", loaded,
		"total", total,
		"index", cfg.IndexPath,
	)
}
