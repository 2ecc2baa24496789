package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/fitmeal/mealplan-backend/config"
	"github.com/fitmeal/mealplan-backend/internal/database"
	"github.com/fitmeal/mealplan-backend/internal/logging"
	"github.com/fitmeal/mealplan-backend/internal/model"
	"github.com/fitmeal/mealplan-backend/internal/service"
)

// foodFile is the seed document. A bare list of foods is accepted too.
type foodFile struct {
	Foods []model.FoodRecord `json:"foods" yaml:"foods"`
}

func main() {
	path := flag.String("file", "data/foods.yaml", "YAML or JSON file of foods to upsert")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	foods, err := loadFoods(*path)
	if err != nil {
		logger.Fatal("Failed to read foods", zap.String("file", *path), zap.Error(err))
	}

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	n, err := service.NewFoodService(db).Upsert(context.Background(), foods)
	if err != nil {
		logger.Fatal("Failed to upsert foods", zap.Error(err))
	}
	logger.Info("Seeded foods", zap.String("file", *path), zap.Int("read", len(foods)), zap.Int("upserted", n))
}

// loadFoods decodes path by extension.
func loadFoods(path string) ([]model.FoodRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return decodeJSON(data)
	case ".yaml", ".yml":
		return decodeYAML(data)
	}
	return nil, fmt.Errorf("unsupported food file extension %q", filepath.Ext(path))
}

func decodeJSON(data []byte) ([]model.FoodRecord, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		var foods []model.FoodRecord
		if err := json.Unmarshal(trimmed, &foods); err != nil {
			return nil, fmt.Errorf("error parsing foods: %w", err)
		}
		return foods, nil
	}
	var doc foodFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing foods: %w", err)
	}
	return doc.Foods, nil
}

func decodeYAML(data []byte) ([]model.FoodRecord, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("error parsing foods: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	if node.Content[0].Kind == yaml.SequenceNode {
		var foods []model.FoodRecord
		if err := node.Content[0].Decode(&foods); err != nil {
			return nil, fmt.Errorf("error parsing foods: %w", err)
		}
		return foods, nil
	}
	var doc foodFile
	if err := node.Content[0].Decode(&doc); err != nil {
		return nil, fmt.Errorf("error parsing foods: %w", err)
	}
	return doc.Foods, nil
}
