package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DbHost    string
	DbPort    string
	DbUser    string
	DbPass    string
	DbName    string
	DbSSLMode string

	JWTSecret       string
	AccessTokenTTL  string
	RefreshTokenTTL string

	Log      string
	LogLevel string
	Env      string // dev|prod

	SiteURL          string
	TrackingEndpoint string

	OpenAIKey      string
	OpenAIModel    string
	AnthropicKey   string
	AnthropicModel string
	UnsplashKey    string

	AutopostEnabled        bool
	DetectorIntervalMin    string
	QueueIntervalSec       string
	ScheduleSeedFile       string
	HighPriorityCategories string
}

// LoadConfig loads .env, reads environment variables and applies defaults.
// Logs nothing so it can be called before the logger is up.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	cfg := &Config{
		Port:      def(os.Getenv("PORT"), "8080"),
		DbHost:    os.Getenv("DB_HOST"),
		DbPort:    def(os.Getenv("DB_PORT"), "5432"),
		DbUser:    os.Getenv("DB_USER"),
		DbPass:    os.Getenv("DB_PASSWORD"),
		DbName:    os.Getenv("DB_NAME"),
		DbSSLMode: def(os.Getenv("DB_SSLMODE"), "disable"),

		JWTSecret:       os.Getenv("JWT_SECRET"),
		AccessTokenTTL:  def(os.Getenv("ACCESS_TOKEN_EXPIRY"), "12h"),
		RefreshTokenTTL: def(os.Getenv("REFRESH_TOKEN_EXPIRY"), "720h"),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),

		SiteURL:          def(os.Getenv("SITEURL"), "https://menshub.example.com"),
		TrackingEndpoint: os.Getenv("TRACKING_ENDPOINT"),

		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    def(os.Getenv("OPENAI_MODEL"), "gpt-4o-mini"),
		AnthropicKey:   os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel: def(os.Getenv("ANTHROPIC_MODEL"), "claude-3-5-haiku-latest"),
		UnsplashKey:    os.Getenv("UNSPLASH_ACCESS_KEY"),

		AutopostEnabled:        def(os.Getenv("AUTOPOST_ENABLED"), "true") == "true",
		DetectorIntervalMin:    def(os.Getenv("DETECTOR_INTERVAL_MIN"), "5"),
		QueueIntervalSec:       def(os.Getenv("QUEUE_INTERVAL_SEC"), "60"),
		ScheduleSeedFile:       os.Getenv("SCHEDULE_SEED_FILE"),
		HighPriorityCategories: def(os.Getenv("HIGH_PRIORITY_CATEGORIES"), "fitness,nutrition"),
	}

	return cfg, nil
}

// Validate returns warnings plus a fatal error when the config is unusable.
func (c *Config) Validate() (warnings []string, err error) {
	if c.DbHost == "" || c.DbUser == "" || c.DbName == "" {
		return nil, fmt.Errorf("incomplete DB config (DB_HOST/DB_USER/DB_NAME)")
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		warnings = append(warnings, "JWT_SECRET is empty")
	}

	if c.OpenAIKey == "" && c.AnthropicKey == "" {
		warnings = append(warnings, "no AI provider key set, rewriting is disabled")
	}

	if c.UnsplashKey == "" {
		warnings = append(warnings, "UNSPLASH_ACCESS_KEY is not set")
	}

	if c.TrackingEndpoint == "" {
		warnings = append(warnings, "TRACKING_ENDPOINT is empty, social links fall back to UTM tags")
	}

	return warnings, nil
}

// GetDSN returns the full DSN including the password.
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe returns the DSN without the password (for logs).
func (c *Config) GetDSNSafe() string {
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// HighPriorityCategorySet splits the configured category list.
func (c *Config) HighPriorityCategorySet() map[string]struct{} {
	out := make(map[string]struct{})
	for _, cat := range strings.Split(c.HighPriorityCategories, ",") {
		cat = strings.ToLower(strings.TrimSpace(cat))
		if cat != "" {
			out[cat] = struct{}{}
		}
	}
	return out
}

// DetectorInterval parses DETECTOR_INTERVAL_MIN, falling back to 5 minutes.
func (c *Config) DetectorInterval() time.Duration {
	n, err := strconv.Atoi(c.DetectorIntervalMin)
	if err != nil || n <= 0 {
		n = 5
	}
	return time.Duration(n) * time.Minute
}

// QueueInterval parses QUEUE_INTERVAL_SEC, falling back to 60 seconds.
func (c *Config) QueueInterval() time.Duration {
	n, err := strconv.Atoi(c.QueueIntervalSec)
	if err != nil || n <= 0 {
		n = 60
	}
	return time.Duration(n) * time.Second
}
