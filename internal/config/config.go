package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/abrezinsky/jeopardy/internal/game"
	"github.com/abrezinsky/jeopardy/pkg/oracle"
)

// Environment variable names
const (
	EnvPort            = "PORT"
	EnvDBPath          = "DB_PATH"
	EnvCorpusPath      = "CORPUS_PATH"
	EnvGenerate        = "GENERATE_JEOPARDY_QUESTIONS"
	EnvGoogleAPIKey    = "GOOGLE_API_KEY"
	EnvAnswerModel     = "ANSWER_MODEL"
	EnvQuestionModel   = "QUESTION_MODEL"
	EnvOracleTimeout   = "ORACLE_TIMEOUT"
	EnvDraftClearDelay = "DRAFT_CLEAR_DELAY"
	EnvLogLevel        = "LOG_LEVEL"
	EnvBaseURL         = "BASE_URL"
)

// Config holds the runtime settings of the server
type Config struct {
	Port            int
	DBPath          string
	CorpusPath      string
	Generate        bool
	GoogleAPIKey    string
	AnswerModel     string
	QuestionModel   string
	OracleTimeout   time.Duration
	DraftClearDelay time.Duration
	LogLevel        string
	BaseURL         string
}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		Port:            8080,
		DBPath:          "jeopardy.db",
		CorpusPath:      "JEOPARDY_QUESTIONS1.json",
		AnswerModel:     oracle.DefaultAnswerModel,
		QuestionModel:   oracle.DefaultQuestionModel,
		OracleTimeout:   oracle.DefaultTimeout,
		DraftClearDelay: game.DefaultDraftClearDelay,
		LogLevel:        "info",
	}
}

// Load reads an optional .env file from the working directory and then
// the process environment. A missing .env is not an error.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// LoadFile is Load with an explicit dotenv path; unlike Load it reports a
// missing or unreadable file
func LoadFile(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil {
		return Config{}, err
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from the process environment over Default
func FromEnv() Config {
	def := Default()
	return Config{
		Port:            getInt(EnvPort, def.Port),
		DBPath:          getEnv(EnvDBPath, def.DBPath),
		CorpusPath:      getEnv(EnvCorpusPath, def.CorpusPath),
		Generate:        getBool(EnvGenerate, def.Generate),
		GoogleAPIKey:    getEnv(EnvGoogleAPIKey, def.GoogleAPIKey),
		AnswerModel:     getEnv(EnvAnswerModel, def.AnswerModel),
		QuestionModel:   getEnv(EnvQuestionModel, def.QuestionModel),
		OracleTimeout:   getDuration(EnvOracleTimeout, def.OracleTimeout),
		DraftClearDelay: getDuration(EnvDraftClearDelay, def.DraftClearDelay),
		LogLevel:        getEnv(EnvLogLevel, def.LogLevel),
		BaseURL:         strings.TrimSuffix(getEnv(EnvBaseURL, def.BaseURL), "/"),
	}
}

// GeminiConfig returns the oracle settings
func (c Config) GeminiConfig() oracle.GeminiConfig {
	return oracle.GeminiConfig{
		APIKey:        c.GoogleAPIKey,
		AnswerModel:   c.AnswerModel,
		QuestionModel: c.QuestionModel,
		Timeout:       c.OracleTimeout,
	}
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	if n, err := strconv.Atoi(getEnv(k, "")); err == nil {
		return n
	}
	return def
}

// getBool accepts strconv.ParseBool forms plus yes/no and on/off
func getBool(k string, def bool) bool {
	switch strings.ToLower(getEnv(k, "")) {
	case "1", "t", "true", "yes", "y", "on":
		return true
	case "0", "f", "false", "no", "n", "off":
		return false
	}
	return def
}

// getDuration accepts Go durations ("750ms") or a bare number of milliseconds
func getDuration(k string, def time.Duration) time.Duration {
	v := getEnv(k, "")
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d >= 0 {
		return d
	}
	if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}
