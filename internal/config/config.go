package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/riskibarqy/fpl-mcp/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

const (
	SnapshotStoreNone  = "none"
	SnapshotStoreFile  = "file"
	SnapshotStoreRedis = "redis"
)

// Config stores runtime configuration for the server.
type Config struct {
	AppEnv         string `envconfig:"APP_ENV" default:"dev"`
	ServiceName    string `envconfig:"APP_SERVICE_NAME" default:"fpl-mcp"`
	ServiceVersion string `envconfig:"APP_SERVICE_VERSION" default:"dev"`

	LogLevelRaw   string        `envconfig:"APP_LOG_LEVEL" default:"info"`
	LogLevel      logging.Level `ignored:"true"`
	LogFile       string        `envconfig:"APP_LOG_FILE"`
	LogMaxSizeMB  int           `envconfig:"APP_LOG_MAX_SIZE_MB" default:"20"`
	LogMaxBackups int           `envconfig:"APP_LOG_MAX_BACKUPS" default:"3"`

	Transport    string        `envconfig:"MCP_TRANSPORT" default:"stdio"`
	HTTPAddr     string        `envconfig:"APP_HTTP_ADDR" default:":8080"`
	ReadTimeout  time.Duration `envconfig:"APP_READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"30s"`
	MetricsPath  string        `envconfig:"APP_METRICS_PATH" default:"/metrics"`
	// HTTPToken, when set, is required as a bearer token on /mcp.
	HTTPToken          string   `envconfig:"MCP_HTTP_TOKEN"`
	CORSAllowedOrigins []string `envconfig:"APP_CORS_ALLOWED_ORIGINS"`

	FPLManagerID             int           `envconfig:"FPL_MANAGER_ID" default:"0"`
	FPLAPIToken              string        `envconfig:"FPL_API_TOKEN"`
	FPLBaseURL               string        `envconfig:"FPL_BASE_URL" default:"https://fantasy.premierleague.com/api"`
	FPLUserAgent             string        `envconfig:"FPL_USER_AGENT" default:"fpl-mcp"`
	FPLTimeout               time.Duration `envconfig:"FPL_TIMEOUT" default:"15s"`
	FPLRequestsPerSecond     float64       `envconfig:"FPL_REQUESTS_PER_SECOND" default:"5"`
	FPLBurst                 int           `envconfig:"FPL_BURST" default:"5"`
	FPLCircuitEnabled        bool          `envconfig:"FPL_CIRCUIT_ENABLED" default:"true"`
	FPLCircuitFailureCount   int           `envconfig:"FPL_CIRCUIT_FAILURE_COUNT" default:"5"`
	FPLCircuitOpenTimeout    time.Duration `envconfig:"FPL_CIRCUIT_OPEN_TIMEOUT" default:"30s"`
	FPLCircuitHalfOpenMaxReq int           `envconfig:"FPL_CIRCUIT_HALF_OPEN_MAX_REQ" default:"1"`

	CacheTTLBootstrap    time.Duration `envconfig:"CACHE_TTL_BOOTSTRAP" default:"5m"`
	CacheTTLFixtures     time.Duration `envconfig:"CACHE_TTL_FIXTURES" default:"10m"`
	CacheTTLManagerSquad time.Duration `envconfig:"CACHE_TTL_MANAGER_SQUAD" default:"1m"`
	CacheMaxSquads       int           `envconfig:"CACHE_MAX_SQUADS" default:"64"`
	RefreshRetryInterval time.Duration `envconfig:"REFRESH_RETRY_INTERVAL" default:"500ms"`

	SnapshotStore     string        `envconfig:"SNAPSHOT_STORE" default:"none"`
	SnapshotDir       string        `envconfig:"SNAPSHOT_DIR" default:".fpl-cache"`
	RedisURL          string        `envconfig:"REDIS_URL"`
	RedisKeyPrefix    string        `envconfig:"REDIS_KEY_PREFIX" default:"fpl-mcp:snapshot:"`
	RedisSnapshotTTL  time.Duration `envconfig:"REDIS_SNAPSHOT_TTL" default:"168h"`
	SnapshotIOTimeout time.Duration `envconfig:"SNAPSHOT_IO_TIMEOUT" default:"5s"`

	WarmerEnabled  bool          `envconfig:"WARMER_ENABLED" default:"false"`
	WarmerInterval time.Duration `envconfig:"WARMER_INTERVAL" default:"5m"`
	WarmerPoolSize int           `envconfig:"WARMER_POOL_SIZE" default:"2"`
	// WarmerFlushInterval persists snapshots periodically when > 0.
	WarmerFlushInterval time.Duration `envconfig:"WARMER_FLUSH_INTERVAL" default:"0s"`

	UptraceEnabled     bool   `envconfig:"UPTRACE_ENABLED" default:"false"`
	UptraceDSN         string `envconfig:"UPTRACE_DSN"`
	UptraceLogsEnabled bool   `envconfig:"UPTRACE_LOGS_ENABLED" default:"true"`
	OTLPHeaders        string `envconfig:"OTEL_EXPORTER_OTLP_HEADERS"`

	PyroscopeEnabled           bool          `envconfig:"PYROSCOPE_ENABLED" default:"false"`
	PyroscopeServerAddress     string        `envconfig:"PYROSCOPE_SERVER_ADDRESS"`
	PyroscopeAppName           string        `envconfig:"PYROSCOPE_APP_NAME"`
	PyroscopeAuthToken         string        `envconfig:"PYROSCOPE_AUTH_TOKEN"`
	PyroscopeBasicAuthUser     string        `envconfig:"PYROSCOPE_BASIC_AUTH_USER"`
	PyroscopeBasicAuthPassword string        `envconfig:"PYROSCOPE_BASIC_AUTH_PASSWORD"`
	PyroscopeUploadRate        time.Duration `envconfig:"PYROSCOPE_UPLOAD_RATE" default:"15s"`

	PprofEnabled bool   `envconfig:"PPROF_ENABLED" default:"false"`
	PprofAddr    string `envconfig:"PPROF_ADDR" default:"localhost:6060"`
}

// Load reads an optional .env file, then the process environment.
// Variables already set in the environment win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv reads configuration from the process environment only.
func FromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	appEnv, err := parseAppEnv(c.AppEnv)
	if err != nil {
		return err
	}
	c.AppEnv = appEnv
	c.LogLevel = logging.ParseLevel(c.LogLevelRaw)
	c.FPLAPIToken = strings.TrimSpace(c.FPLAPIToken)

	c.Transport = strings.ToLower(strings.TrimSpace(c.Transport))
	switch c.Transport {
	case TransportStdio:
	case TransportHTTP:
		if strings.TrimSpace(c.HTTPAddr) == "" {
			return fmt.Errorf("APP_HTTP_ADDR is required when MCP_TRANSPORT=http")
		}
	default:
		return fmt.Errorf("invalid MCP_TRANSPORT %q: valid values are %s, %s", c.Transport, TransportStdio, TransportHTTP)
	}
	c.HTTPToken = strings.TrimSpace(c.HTTPToken)
	if !strings.HasPrefix(c.MetricsPath, "/") {
		return fmt.Errorf("APP_METRICS_PATH must start with /")
	}

	if c.FPLManagerID < 0 {
		return fmt.Errorf("FPL_MANAGER_ID must be >= 0")
	}
	if _, err := url.ParseRequestURI(c.FPLBaseURL); err != nil {
		return fmt.Errorf("parse FPL_BASE_URL: %w", err)
	}
	if c.FPLTimeout <= 0 {
		return fmt.Errorf("FPL_TIMEOUT must be > 0")
	}
	if c.FPLRequestsPerSecond < 0 {
		return fmt.Errorf("FPL_REQUESTS_PER_SECOND must be >= 0")
	}
	if c.FPLBurst < 1 {
		return fmt.Errorf("FPL_BURST must be >= 1")
	}
	if c.FPLCircuitFailureCount < 1 {
		return fmt.Errorf("FPL_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	if c.FPLCircuitOpenTimeout <= 0 {
		return fmt.Errorf("FPL_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	if c.FPLCircuitHalfOpenMaxReq < 1 {
		return fmt.Errorf("FPL_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	if c.CacheTTLBootstrap <= 0 {
		return fmt.Errorf("CACHE_TTL_BOOTSTRAP must be > 0")
	}
	if c.CacheTTLFixtures <= 0 {
		return fmt.Errorf("CACHE_TTL_FIXTURES must be > 0")
	}
	if c.CacheTTLManagerSquad <= 0 {
		return fmt.Errorf("CACHE_TTL_MANAGER_SQUAD must be > 0")
	}
	if c.CacheMaxSquads < 1 {
		return fmt.Errorf("CACHE_MAX_SQUADS must be >= 1")
	}
	if c.RefreshRetryInterval <= 0 {
		return fmt.Errorf("REFRESH_RETRY_INTERVAL must be > 0")
	}

	c.SnapshotStore = strings.ToLower(strings.TrimSpace(c.SnapshotStore))
	switch c.SnapshotStore {
	case SnapshotStoreNone:
	case SnapshotStoreFile:
		if strings.TrimSpace(c.SnapshotDir) == "" {
			return fmt.Errorf("SNAPSHOT_DIR is required when SNAPSHOT_STORE=file")
		}
	case SnapshotStoreRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return fmt.Errorf("REDIS_URL is required when SNAPSHOT_STORE=redis")
		}
		if c.RedisSnapshotTTL < 0 {
			return fmt.Errorf("REDIS_SNAPSHOT_TTL must be >= 0")
		}
	default:
		return fmt.Errorf("invalid SNAPSHOT_STORE %q: valid values are %s, %s, %s", c.SnapshotStore, SnapshotStoreNone, SnapshotStoreFile, SnapshotStoreRedis)
	}
	if c.SnapshotIOTimeout <= 0 {
		return fmt.Errorf("SNAPSHOT_IO_TIMEOUT must be > 0")
	}

	if c.WarmerEnabled {
		if c.WarmerInterval < time.Minute {
			return fmt.Errorf("WARMER_INTERVAL must be >= 1m")
		}
		if c.WarmerPoolSize < 1 {
			return fmt.Errorf("WARMER_POOL_SIZE must be >= 1")
		}
		if c.WarmerFlushInterval < 0 {
			return fmt.Errorf("WARMER_FLUSH_INTERVAL must be >= 0")
		}
	}

	c.UptraceDSN = strings.TrimSpace(c.UptraceDSN)
	if c.UptraceDSN == "" {
		c.UptraceDSN = parseUptraceDSNFromOTLPHeaders(c.OTLPHeaders)
	}
	if c.UptraceEnabled && c.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	c.PyroscopeServerAddress = strings.TrimSpace(c.PyroscopeServerAddress)
	if c.PyroscopeEnabled && c.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if c.PyroscopeUploadRate <= 0 {
		return fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}
	if strings.TrimSpace(c.PyroscopeAppName) == "" {
		c.PyroscopeAppName = c.ServiceName
	}

	if c.PprofEnabled && strings.TrimSpace(c.PprofAddr) == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	return nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
