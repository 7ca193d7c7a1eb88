package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Conf holds the application configuration, making it accessible globally.
var Conf *Config

var v *viper.Viper

// Config struct is the top-level configuration structure.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Evaluator EvaluatorConfig `mapstructure:"evaluator"`
	Emotion   EmotionConfig   `mapstructure:"emotion"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds server-related settings.
type ServerConfig struct {
	Port          string `mapstructure:"port"`
	SessionSecret string `mapstructure:"session_secret"`
}

// EvaluatorConfig holds settings for the external semantic evaluator.
// An empty APIKey means the deterministic local fallback is used and no
// network calls are made.
type EvaluatorConfig struct {
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	Endpoint       string `mapstructure:"endpoint"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// EmotionConfig holds the affect-timeline sampling policy.
type EmotionConfig struct {
	SampleIntervalMs int `mapstructure:"sample_interval_ms"`
	MaxPoints        int `mapstructure:"max_points"`
	BufferSize       int `mapstructure:"buffer_size"`
}

// AnalysisConfig holds the transcript-analysis settings.
type AnalysisConfig struct {
	StopperWords         []string `mapstructure:"stopper_words"`
	ShortAnswerThreshold int      `mapstructure:"short_answer_threshold"`
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5050")
	v.SetDefault("server.session_secret", "neuroscreen-dev-secret")

	// Evaluator defaults
	v.SetDefault("evaluator.api_key", "")
	v.SetDefault("evaluator.model", "gemini-2.5-flash")
	v.SetDefault("evaluator.endpoint", "https://generativelanguage.googleapis.com")
	v.SetDefault("evaluator.timeout_seconds", 20)

	// Emotion sampling defaults: one point per 500ms, last 100 points kept
	v.SetDefault("emotion.sample_interval_ms", 500)
	v.SetDefault("emotion.max_points", 100)
	v.SetDefault("emotion.buffer_size", 64)

	// Analysis defaults
	v.SetDefault("analysis.stopper_words", []string{
		"umm", "uh", "ah", "like", "you know", "aray", "ufff", "mmm", "mhh",
	})
	v.SetDefault("analysis.short_answer_threshold", 5)

	// Logging defaults
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true) // Compress old logs
}

// Init initializes the configuration with Viper.
func Init(projectRoot string) error {
	v = viper.New()

	// Set default values
	setDefaults(v)

	// --- File Configuration ---
	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config") // Name of config file (without extension)
	v.SetConfigType("yaml")

	// --- Environment Variable Binding ---
	v.SetEnvPrefix("NEUROSCREEN") // e.g., NEUROSCREEN_SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The evaluator key is usually provided the way the Gemini tooling
	// expects it, so accept both spellings.
	_ = v.BindEnv("evaluator.api_key", "NEUROSCREEN_EVALUATOR_API_KEY", "GEMINI_API_KEY")

	// Read the initial configuration from the file.
	// It's okay if the file doesn't exist; defaults and env vars will be used.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal the config into our global Conf variable
	if err := v.Unmarshal(&Conf); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	return nil
}

// Watch sets up hot-reloading of the configuration file. Called once the
// logger exists, since Init runs before logging is configured.
func Watch(log *zap.Logger) {
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		if err := v.Unmarshal(&Conf); err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
		}
	})
}
