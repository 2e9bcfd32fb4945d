// Package config reads runtime defaults from the environment.
package config

import (
	"os"
	"strconv"

	"github.com/happyhackingspace/duygu/internal/storage"
)

// Config holds the defaults used by the CLI.
type Config struct {
	Data  DataConfig
	Train TrainConfig
	Model string
}

// DataConfig holds dataset location settings.
type DataConfig struct {
	Folder string
	URL    string
	Size   int // thousand rows
}

// TrainConfig holds sampling and vocabulary settings.
type TrainConfig struct {
	Samples    int
	TrainRatio float64
	Seed       uint64
	MinDF      int
}

// DataFile returns the dataset path inside the data folder.
func (c *Config) DataFile() string {
	return storage.NewStorage(c.Data.Folder).Path(storage.DatasetFile(c.Data.Size))
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Data: DataConfig{
			Folder: GetStringEnv("DUYGU_DATA_FOLDER", "data"),
			URL:    GetStringEnv("DUYGU_DATASET_URL", storage.DefaultDatasetURL),
			Size:   GetIntEnv("DUYGU_DATASET_SIZE", 10),
		},
		Train: TrainConfig{
			Samples:    GetIntEnv("DUYGU_SAMPLES", 0),
			TrainRatio: GetFloatEnv("DUYGU_TRAIN_RATIO", 0.8),
			Seed:       GetUint64Env("DUYGU_SEED", 42),
			MinDF:      GetIntEnv("DUYGU_MIN_DF", 1),
		},
		Model: GetStringEnv("DUYGU_MODEL", "model.json"),
	}
}

// GetStringEnv returns the value of key, or defaultValue when it is unset or empty.
func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetIntEnv returns key parsed as an int, or defaultValue when unset or invalid.
func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetUint64Env returns key parsed as an unsigned integer, or defaultValue when
// unset or invalid. Negative values are invalid.
func GetUint64Env(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if uintValue, err := strconv.ParseUint(value, 10, 64); err == nil {
			return uintValue
		}
	}
	return defaultValue
}

// GetFloatEnv returns key parsed as a float64, or defaultValue when unset or invalid.
func GetFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
