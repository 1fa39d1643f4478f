package configs

import (
	"fmt"
	"time"

	"github.com/classpulse/classpulse/internal/infrastructure/env"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	HTTP        HTTPConfig        `koanf:"http"`
	RateLimiter RateLimiterConfig `koanf:"rateLimiter"`
	Logger      LoggerConfig      `koanf:"logger"`
	Tracing     TracingConfig     `koanf:"tracing"`
	Relay       RelayConfig       `koanf:"relay"`
	Advice      AdviceConfig      `koanf:"advice"`
	Classroom   ClassroomConfig   `koanf:"classroom"`
}

type HTTPConfig struct {
	Host           string        `koanf:"host"`
	Port           uint16        `koanf:"port"`
	AllowedOrigins []string      `koanf:"allowed_origins"`
	AllowedHeaders []string      `koanf:"allowed_headers"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
}

type RateLimiterConfig struct {
	MaxRatePerSecond int           `koanf:"maxRatePerSecond"`
	MaxBurst         int           `koanf:"maxBurst"`
	CacheTTL         time.Duration `koanf:"cacheTTL"`
	SourceHeaderKey  string        `koanf:"sourceHeaderKey"`
}

type LoggerConfig struct {
	FilePath string `koanf:"file_path"`
	Encoding string `koanf:"encoding"`
	Level    string `koanf:"level"`
	Logger   string `koanf:"logger"`
}

type TracingConfig struct {
	Enabled      bool   `koanf:"enabled"`
	Environment  string `koanf:"environment"`
	OTLPEndpoint string `koanf:"otlp_endpoint"`
}

// RelayConfig is consumed by clients: where the relay lives.
type RelayConfig struct {
	URL string `koanf:"url"`
}

// AdviceConfig wires the teacher-assistant advice service. A missing API key
// leaves the assistant answering with its fallback text; it never blocks the
// rest of the app.
type AdviceConfig struct {
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`
	Model   string `koanf:"model"`
}

type ClassroomConfig struct {
	TeacherPassphrase string `koanf:"teacher_passphrase"`
	MaxImageWidth     int    `koanf:"max_image_width"`
	ImageQuality      int    `koanf:"image_quality"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Load from YAML file if it exists
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			// Only return error if file was explicitly provided but failed to load
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Apply defaults and environment variable overrides
	applyDefaults(k)
	applyEnvOverrides(k)

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(k *koanf.Koanf) {
	// HTTP defaults
	setDefault(k, "http.host", "0.0.0.0")
	setDefault(k, "http.port", 8080)
	setDefault(k, "http.read_timeout", 10*time.Second)
	setDefault(k, "http.write_timeout", 30*time.Second)
	setDefault(k, "http.allowed_origins", []string{"*"})
	setDefault(k, "http.allowed_headers", []string{"Content-Type", "Authorization"})

	// Rate limiter defaults
	setDefault(k, "rateLimiter.maxRatePerSecond", 10)
	setDefault(k, "rateLimiter.maxBurst", 20)
	setDefault(k, "rateLimiter.cacheTTL", 5*time.Minute)
	setDefault(k, "rateLimiter.sourceHeaderKey", "X-Forwarded-For")

	// Logger defaults
	setDefault(k, "logger.file_path", "./logs/")
	setDefault(k, "logger.encoding", "json")
	setDefault(k, "logger.level", "debug")
	setDefault(k, "logger.logger", "zap")

	// Tracing defaults
	setDefault(k, "tracing.enabled", false)
	setDefault(k, "tracing.environment", "development")
	setDefault(k, "tracing.otlp_endpoint", "http://localhost:4318")

	// Relay defaults
	setDefault(k, "relay.url", "ws://localhost:8080")

	// Advice defaults
	setDefault(k, "advice.base_url", "https://generativelanguage.googleapis.com")
	setDefault(k, "advice.model", "gemini-2.5-flash")

	// Classroom defaults
	setDefault(k, "classroom.max_image_width", 400)
	setDefault(k, "classroom.image_quality", 70)
}

func applyEnvOverrides(k *koanf.Koanf) {
	// HTTP config from env
	if host := env.GetString("HTTP_HOST", ""); host != "" {
		k.Set("http.host", host)
	}
	if port := env.GetInt("HTTP_PORT", 0); port > 0 {
		k.Set("http.port", port)
	}
	if readTimeout := env.GetInt("HTTP_READ_TIMEOUT_SECONDS", 0); readTimeout > 0 {
		k.Set("http.read_timeout", time.Duration(readTimeout)*time.Second)
	}
	if writeTimeout := env.GetInt("HTTP_WRITE_TIMEOUT_SECONDS", 0); writeTimeout > 0 {
		k.Set("http.write_timeout", time.Duration(writeTimeout)*time.Second)
	}

	// Rate limiter config from env
	if maxRate := env.GetInt("RATE_LIMIT_MAX_RATE_PER_SECOND", 0); maxRate > 0 {
		k.Set("rateLimiter.maxRatePerSecond", maxRate)
	}
	if maxBurst := env.GetInt("RATE_LIMIT_MAX_BURST", 0); maxBurst > 0 {
		k.Set("rateLimiter.maxBurst", maxBurst)
	}
	if cacheTTL := env.GetInt("RATE_LIMIT_CACHE_TTL_MINUTES", 0); cacheTTL > 0 {
		k.Set("rateLimiter.cacheTTL", time.Duration(cacheTTL)*time.Minute)
	}

	// Logger config from env
	if level := env.GetString("LOGGER_LEVEL", ""); level != "" {
		k.Set("logger.level", level)
	}
	if name := env.GetString("LOGGER_LOGGER", ""); name != "" {
		k.Set("logger.logger", name)
	}
	if path := env.GetString("LOGGER_FILE_PATH", ""); path != "" {
		k.Set("logger.file_path", path)
	}

	// Tracing config from env
	if env.GetBool("TRACING_ENABLED", false) {
		k.Set("tracing.enabled", true)
	}
	if endpoint := env.GetString("OTLP_ENDPOINT", ""); endpoint != "" {
		k.Set("tracing.otlp_endpoint", endpoint)
	}

	// Relay config from env
	if url := env.GetString("RELAY_URL", ""); url != "" {
		k.Set("relay.url", url)
	}

	// Advice config from env
	if key := env.GetString("ADVICE_API_KEY", ""); key != "" {
		k.Set("advice.api_key", key)
	}
	if model := env.GetString("ADVICE_MODEL", ""); model != "" {
		k.Set("advice.model", model)
	}

	// Classroom config from env
	if pass := env.GetString("TEACHER_PASSPHRASE", ""); pass != "" {
		k.Set("classroom.teacher_passphrase", pass)
	}
}

func setDefault(k *koanf.Koanf, key string, value any) {
	if !k.Exists(key) {
		k.Set(key, value)
	}
}
