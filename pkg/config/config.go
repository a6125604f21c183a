// Package config provides configuration management for the account book.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Port             string
	DBPath           string
	CategorySeedFile string
	Debug            bool
}

// Load loads configuration from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	config := &Config{
		Port:             getEnvOrDefault("PORT", "8080"),
		DBPath:           getEnvOrDefault("DB_PATH", "./data/accountbook.db"),
		CategorySeedFile: os.Getenv("CATEGORY_SEED_FILE"),
		Debug:            os.Getenv("DEBUG") == "true",
	}

	return config, nil
}

// CategorySeeds holds the default category names created for a user the
// first time they query an empty category list.
type CategorySeeds struct {
	Income  []string `yaml:"income"`
	Expense []string `yaml:"expense"`
}

// Built-in defaults, used when no seed file is configured.
var defaultSeeds = CategorySeeds{
	Income:  []string{"월급", "용돈", "상여금", "금융소득", "기타"},
	Expense: []string{"식비", "교통/차량", "쇼핑", "주거/통신", "의료/건강", "카페/간식", "생활", "경조사"},
}

// LoadCategorySeeds returns the category seed sets, reading the YAML seed
// file when one is configured and falling back to the built-in defaults.
func (c *Config) LoadCategorySeeds() (CategorySeeds, error) {
	if c.CategorySeedFile == "" {
		return defaultSeeds, nil
	}

	data, err := os.ReadFile(c.CategorySeedFile)
	if err != nil {
		return CategorySeeds{}, fmt.Errorf("failed to read category seed file: %w", err)
	}

	var seeds CategorySeeds
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return CategorySeeds{}, fmt.Errorf("failed to parse category seed file: %w", err)
	}

	if len(seeds.Income) == 0 {
		seeds.Income = defaultSeeds.Income
	}
	if len(seeds.Expense) == 0 {
		seeds.Expense = defaultSeeds.Expense
	}

	return seeds, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
