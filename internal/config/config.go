package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/isaacjstriker/blockfall/games/blockfall"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	AppName     string
	Debug       bool
	JWTSecret   string
	ServerPort  int
	ServerHost  string

	BestScoreKey  string
	BestScoreFile string
	TuningFile    string
	Arcade        bool

	// DecayPolicy is only applied over the tuning file when DECAY_ON_PAUSE
	// is set.
	DecayPolicy blockfall.DecayPolicy
	decaySet    bool
}

// Load reads .env (if present) and the process environment. The names of
// any .env files to read may be passed; with none, ".env" is tried.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Println("[INFO] No .env file found, reading from environment")
	}

	cfg := &Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		AppName:       getEnv("APP_NAME", "Blockfall"),
		Debug:         getEnvAsBool("DEBUG", false),
		ServerPort:    getEnvAsInt("SERVER_PORT", 8080),
		ServerHost:    getEnv("SERVER_HOST", "localhost"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		BestScoreKey:  getEnv("BEST_SCORE_KEY", "blockfall-best-score"),
		BestScoreFile: getEnv("BEST_SCORE_FILE", ".blockfall_best.json"),
		TuningFile:    getEnv("TUNING_FILE", "games/blockfall/blockfall.lua"),
		Arcade:        getEnvAsBool("ARCADE", false),
	}

	if v := os.Getenv("DECAY_ON_PAUSE"); v != "" {
		policy, err := blockfall.ParseDecayPolicy(v)
		if err != nil {
			return nil, fmt.Errorf("DECAY_ON_PAUSE: %w", err)
		}
		cfg.DecayPolicy = policy
		cfg.decaySet = true
	}

	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("SERVER_PORT %d out of range", cfg.ServerPort)
	}

	if cfg.JWTSecret == "" {
		secret, err := generateSecret()
		if err != nil {
			return nil, fmt.Errorf("failed to generate a JWT secret: %w", err)
		}
		log.Println("[WARN] JWT_SECRET is not set; play tokens will not survive a restart")
		cfg.JWTSecret = secret
	}

	return cfg, nil
}

// Tuning loads the Lua tuning file and applies environment overrides. A
// missing or broken file falls back to the built-in constants.
func (c *Config) Tuning() blockfall.Tuning {
	tuning, err := blockfall.LoadTuning(c.TuningFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[WARN] %v. Using default tuning.", err)
	}
	if c.decaySet {
		tuning.DecayPolicy = c.DecayPolicy
	}
	if c.Debug {
		log.Printf("[DEBUG] tuning: %+v", tuning)
	}
	return tuning
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

func generateSecret() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
