package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageFile   = "file"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

type Config struct {
	LogLevel   string     `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string     `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Storage    Storage    `yaml:"storage"`
	Redis      Redis      `yaml:"redis"`
	Suggestion Suggestion `yaml:"suggestion"`
	Cadence    Cadence    `yaml:"cadence"`
	Game       Game       `yaml:"game"`
}

type Storage struct {
	Driver     string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"file"`
	RecordsDir string `yaml:"records-dir" env:"RECORDS_DIR" env-default:"game_records"`
	SQLitePath string `yaml:"sqlite-path" env:"SQLITE_PATH" env-default:"./data/records.db"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Suggestion configures the external move-suggestion service used by automated players.
type Suggestion struct {
	URL        string        `yaml:"url" env:"SUGGESTION_URL" env-default:""`
	APIKey     string        `yaml:"api-key" env:"SUGGESTION_API_KEY" env-default:""`
	APIVersion string        `yaml:"api-version" env:"SUGGESTION_API_VERSION" env-default:"2023-06-01"`
	Model      string        `yaml:"model" env:"SUGGESTION_MODEL" env-default:""`
	MaxTokens  int           `yaml:"max-tokens" env:"SUGGESTION_MAX_TOKENS" env-default:"1000"`
	Timeout    time.Duration `yaml:"timeout" env:"SUGGESTION_TIMEOUT" env-default:"5s"`
}

type Cadence struct {
	AutomatedMove time.Duration `yaml:"automated-move" env:"CADENCE_AUTOMATED_MOVE" env-default:"600ms"`
	Replay        time.Duration `yaml:"replay" env:"CADENCE_REPLAY" env-default:"1s"`
}

type Game struct {
	Mode       string `yaml:"mode" env:"GAME_MODE" env-default:"simple"`
	BoardSize  int    `yaml:"board-size" env:"GAME_BOARD_SIZE" env-default:"3"`
	FirstKind  string `yaml:"first-player" env:"GAME_FIRST_PLAYER" env-default:"Human"`
	SecondKind string `yaml:"second-player" env:"GAME_SECOND_PLAYER" env-default:"Automated"`
	Record     bool   `yaml:"record" env:"GAME_RECORD" env-default:"false"`
}

// MustLoad - load all configurations in config.yml file, falling back to the environment when it is missing.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}

		return config, nil
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

// Enabled - reports whether automated players should ask the suggestion service.
func (that *Suggestion) Enabled() bool {
	return that.URL != "" && that.APIKey != ""
}
