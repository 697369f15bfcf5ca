package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Addr            string
	DataDir         string
	DBPath          string
	LogLevel        string
	BaseURL         string
	StaticDir       string
	EnableSwagger   bool
	KeyCost         int
	SnowflakeNode   int64
}

// fileConfig mirrors Config for the optional TOML file named by TINYFEED_CONFIG.
type fileConfig struct {
	Addr            string `toml:"addr"`
	DataDir         string `toml:"data_dir"`
	DBPath          string `toml:"db_path"`
	LogLevel        string `toml:"log_level"`
	BaseURL         string `toml:"base_url"`
	StaticDir       string `toml:"static_dir"`
	EnableSwagger   *bool  `toml:"enable_swagger"`
	KeyCost         int    `toml:"key_cost"`
	SnowflakeNode   *int64 `toml:"snowflake_node"`
}

// Load reads configuration from TINYFEED_* variables. Values from the TOML file named by
// TINYFEED_CONFIG, when present, sit beneath the environment and above the built-in defaults.
func Load() Config {
	file := loadFile(os.Getenv("TINYFEED_CONFIG"))

	addr := pick(os.Getenv("TINYFEED_ADDR"), file.Addr, ":8080")
	dataDir := pick(os.Getenv("TINYFEED_DATA_DIR"), file.DataDir, "data")
	dbPath := pick(os.Getenv("TINYFEED_DB_PATH"), file.DBPath, filepath.Join(dataDir, "tinyfeed.db"))
	logLevel := pick(os.Getenv("TINYFEED_LOG_LEVEL"), file.LogLevel, "info")
	baseURL := strings.TrimRight(pick(os.Getenv("TINYFEED_BASE_URL"), file.BaseURL, ""), "/")
	staticDir := pick(os.Getenv("TINYFEED_STATIC_DIR"), file.StaticDir, "")

	enableSwagger := false
	if file.EnableSwagger != nil {
		enableSwagger = *file.EnableSwagger
	}
	if raw := os.Getenv("TINYFEED_ENABLE_SWAGGER"); raw != "" {
		enableSwagger, _ = strconv.ParseBool(raw)
	}

	keyCost := intValue(os.Getenv("TINYFEED_KEY_COST"), file.KeyCost, bcrypt.DefaultCost)
	if keyCost < bcrypt.MinCost || keyCost > bcrypt.MaxCost {
		keyCost = bcrypt.DefaultCost
	}

	var node int64
	if file.SnowflakeNode != nil {
		node = *file.SnowflakeNode
	}
	if raw := os.Getenv("TINYFEED_SNOWFLAKE_NODE"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			node = parsed
		}
	}

	cfg := Config{
		Addr:            addr,
		DataDir:         filepath.Clean(dataDir),
		DBPath:          filepath.Clean(dbPath),
		LogLevel:        logLevel,
		BaseURL:         baseURL,
		EnableSwagger:   enableSwagger,
		KeyCost:         keyCost,
		SnowflakeNode:   node,
	}
	if staticDir != "" {
		cfg.StaticDir = filepath.Clean(staticDir)
	}
	return cfg
}

func loadFile(path string) fileConfig {
	var file fileConfig
	if strings.TrimSpace(path) == "" {
		return file
	}
	// A missing or malformed file leaves the defaults in place.
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return fileConfig{}
	}
	return file
}

func pick(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func intValue(env string, file int, fallback int) int {
	if env != "" {
		if parsed, err := strconv.Atoi(env); err == nil {
			return parsed
		}
	}
	if file != 0 {
		return file
	}
	return fallback
}
