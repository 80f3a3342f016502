package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pitwall/f1-stats/internal/platform/logging"
)

// Config stores runtime configuration for the ETL service.
type Config struct {
	AppEnv                      string
	ServiceName                 string
	ServiceVersion              string
	DBURL                       string
	DBDisablePreparedBinary     bool
	CacheEnabled                bool
	CacheTTL                    time.Duration
	PprofEnabled                bool
	PprofAddr                   string
	BetterStackEnabled          bool
	BetterStackEndpoint         string
	BetterStackToken            string
	BetterStackTimeout          time.Duration
	BetterStackMinLevel         logging.Level
	UptraceEnabled              bool
	UptraceDSN                  string
	UptraceLogsEnabled          bool
	PyroscopeEnabled            bool
	PyroscopeServerAddress      string
	PyroscopeAppName            string
	PyroscopeAuthToken          string
	PyroscopeBasicAuthUser      string
	PyroscopeBasicAuthPassword  string
	PyroscopeUploadRate         time.Duration
	ErgastBaseURL               string
	ErgastTimeout               time.Duration
	ErgastMaxRetries            int
	ErgastRetryBaseDelay        time.Duration
	ErgastPageLimit             int
	ErgastRateLimitRPS          float64
	ErgastRateLimitBurst        int
	ErgastCircuitEnabled        bool
	ErgastCircuitFailureCount   int
	ErgastCircuitOpenTimeout    time.Duration
	ErgastCircuitHalfOpenMaxReq int
	ETLMaxWorkers               int
	ETLBackfillStartSeason      int
	ETLSaveRawPayloads          bool
	AlertHookEnabled            bool
	AlertHookURL                string
	AlertHookToken              string
	AlertHookTimeout            time.Duration
	AlertHookCircuitEnabled     bool
	AlertHookCircuitFailures    int
	AlertHookCircuitOpenWait    time.Duration
	AlertHookCircuitHalfOpenMax int
	LogLevel                    logging.Level
}

// MinSeason is the first championship season served by the upstream API.
const MinSeason = 1950

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	serviceName := strings.TrimSpace(getEnv("APP_SERVICE_NAME", "f1-stats"))
	serviceVersion := strings.TrimSpace(getEnv("APP_SERVICE_VERSION", "dev"))

	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required")
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	betterStackEnabled, err := strconv.ParseBool(getEnv("BETTERSTACK_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BETTERSTACK_ENABLED: %w", err)
	}
	betterStackEndpoint := strings.TrimSpace(getEnv("BETTERSTACK_ENDPOINT", ""))
	if betterStackEnabled && betterStackEndpoint == "" {
		return Config{}, fmt.Errorf("BETTERSTACK_ENDPOINT is required when BETTERSTACK_ENABLED=true")
	}
	betterStackTimeout, err := time.ParseDuration(getEnv("BETTERSTACK_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BETTERSTACK_TIMEOUT: %w", err)
	}
	if betterStackTimeout <= 0 {
		return Config{}, fmt.Errorf("BETTERSTACK_TIMEOUT must be > 0")
	}
	betterStackMinLevel := parseLogLevel(getEnv("BETTERSTACK_MIN_LEVEL", "error"))

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	ergastBaseURL := strings.TrimSpace(getEnv("ERGAST_BASE_URL", "https://api.jolpi.ca/ergast/f1"))
	if ergastBaseURL == "" {
		return Config{}, fmt.Errorf("ERGAST_BASE_URL is required")
	}
	ergastTimeout, err := time.ParseDuration(getEnv("ERGAST_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ERGAST_TIMEOUT: %w", err)
	}
	if ergastTimeout <= 0 {
		return Config{}, fmt.Errorf("ERGAST_TIMEOUT must be > 0")
	}
	ergastMaxRetries, err := getEnvAsInt("ERGAST_MAX_RETRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse ERGAST_MAX_RETRIES: %w", err)
	}
	if ergastMaxRetries < 0 {
		return Config{}, fmt.Errorf("ERGAST_MAX_RETRIES must be >= 0")
	}
	ergastRetryBaseDelay, err := time.ParseDuration(getEnv("ERGAST_RETRY_BASE_DELAY", "1s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ERGAST_RETRY_BASE_DELAY: %w", err)
	}
	if ergastRetryBaseDelay <= 0 {
		return Config{}, fmt.Errorf("ERGAST_RETRY_BASE_DELAY must be > 0")
	}
	ergastPageLimit, err := getEnvAsInt("ERGAST_PAGE_LIMIT", 100)
	if err != nil {
		return Config{}, fmt.Errorf("parse ERGAST_PAGE_LIMIT: %w", err)
	}
	if ergastPageLimit < 1 || ergastPageLimit > 100 {
		return Config{}, fmt.Errorf("ERGAST_PAGE_LIMIT must be between 1 and 100")
	}
	ergastRateLimitRPS, err := getEnvAsFloat("ERGAST_RATE_LIMIT_RPS", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse ERGAST_RATE_LIMIT_RPS: %w", err)
	}
	if ergastRateLimitRPS <= 0 {
		return Config{}, fmt.Errorf("ERGAST_RATE_LIMIT_RPS must be > 0")
	}
	ergastRateLimitBurst, err := getEnvAsInt("ERGAST_RATE_LIMIT_BURST", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse ERGAST_RATE_LIMIT_BURST: %w", err)
	}
	if ergastRateLimitBurst < 1 {
		return Config{}, fmt.Errorf("ERGAST_RATE_LIMIT_BURST must be >= 1")
	}
	ergastCircuitEnabled, err := strconv.ParseBool(getEnv("ERGAST_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ERGAST_CIRCUIT_ENABLED: %w", err)
	}
	ergastCircuitFailureCount, err := getEnvAsInt("ERGAST_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse ERGAST_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if ergastCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("ERGAST_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	ergastCircuitOpenTimeout, err := time.ParseDuration(getEnv("ERGAST_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ERGAST_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if ergastCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("ERGAST_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	ergastCircuitHalfOpenMaxReq, err := getEnvAsInt("ERGAST_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse ERGAST_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if ergastCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("ERGAST_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	etlMaxWorkers, err := getEnvAsInt("ETL_MAX_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse ETL_MAX_WORKERS: %w", err)
	}
	if etlMaxWorkers < 1 {
		return Config{}, fmt.Errorf("ETL_MAX_WORKERS must be >= 1")
	}
	etlBackfillStartSeason, err := getEnvAsInt("ETL_BACKFILL_START_SEASON", MinSeason)
	if err != nil {
		return Config{}, fmt.Errorf("parse ETL_BACKFILL_START_SEASON: %w", err)
	}
	if etlBackfillStartSeason < MinSeason {
		return Config{}, fmt.Errorf("ETL_BACKFILL_START_SEASON must be >= %d", MinSeason)
	}
	etlSaveRawPayloads, err := strconv.ParseBool(getEnv("ETL_SAVE_RAW_PAYLOADS", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ETL_SAVE_RAW_PAYLOADS: %w", err)
	}

	alertHookEnabled, err := strconv.ParseBool(getEnv("ALERTHOOK_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ALERTHOOK_ENABLED: %w", err)
	}
	alertHookURL := strings.TrimSpace(getEnv("ALERTHOOK_URL", ""))
	if alertHookEnabled && alertHookURL == "" {
		return Config{}, fmt.Errorf("ALERTHOOK_URL is required when ALERTHOOK_ENABLED=true")
	}
	alertHookToken := strings.TrimSpace(getEnv("ALERTHOOK_TOKEN", ""))
	alertHookTimeout, err := time.ParseDuration(getEnv("ALERTHOOK_TIMEOUT", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ALERTHOOK_TIMEOUT: %w", err)
	}
	if alertHookTimeout <= 0 {
		return Config{}, fmt.Errorf("ALERTHOOK_TIMEOUT must be > 0")
	}
	alertHookCircuitEnabled, err := strconv.ParseBool(getEnv("ALERTHOOK_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ALERTHOOK_CIRCUIT_ENABLED: %w", err)
	}
	alertHookCircuitFailures, err := getEnvAsInt("ALERTHOOK_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse ALERTHOOK_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if alertHookCircuitFailures < 1 {
		return Config{}, fmt.Errorf("ALERTHOOK_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	alertHookCircuitOpenWait, err := time.ParseDuration(getEnv("ALERTHOOK_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ALERTHOOK_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if alertHookCircuitOpenWait <= 0 {
		return Config{}, fmt.Errorf("ALERTHOOK_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	alertHookCircuitHalfOpenMax, err := getEnvAsInt("ALERTHOOK_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse ALERTHOOK_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if alertHookCircuitHalfOpenMax < 1 {
		return Config{}, fmt.Errorf("ALERTHOOK_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	logLevel := parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

	return Config{
		AppEnv:                      appEnv,
		ServiceName:                 serviceName,
		ServiceVersion:              serviceVersion,
		DBURL:                       dbURL,
		DBDisablePreparedBinary:     dbDisablePreparedBinary,
		CacheEnabled:                cacheEnabled,
		CacheTTL:                    cacheTTL,
		PprofEnabled:                pprofEnabled,
		PprofAddr:                   pprofAddr,
		BetterStackEnabled:          betterStackEnabled,
		BetterStackEndpoint:         betterStackEndpoint,
		BetterStackToken:            strings.TrimSpace(getEnv("BETTERSTACK_TOKEN", "")),
		BetterStackTimeout:          betterStackTimeout,
		BetterStackMinLevel:         betterStackMinLevel,
		UptraceEnabled:              uptraceEnabled,
		UptraceDSN:                  uptraceDSN,
		UptraceLogsEnabled:          uptraceLogsEnabled,
		PyroscopeEnabled:            pyroscopeEnabled,
		PyroscopeServerAddress:      pyroscopeServerAddress,
		PyroscopeAppName:            strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", serviceName)),
		PyroscopeAuthToken:          strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:      strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:  strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:         pyroscopeUploadRate,
		ErgastBaseURL:               ergastBaseURL,
		ErgastTimeout:               ergastTimeout,
		ErgastMaxRetries:            ergastMaxRetries,
		ErgastRetryBaseDelay:        ergastRetryBaseDelay,
		ErgastPageLimit:             ergastPageLimit,
		ErgastRateLimitRPS:          ergastRateLimitRPS,
		ErgastRateLimitBurst:        ergastRateLimitBurst,
		ErgastCircuitEnabled:        ergastCircuitEnabled,
		ErgastCircuitFailureCount:   ergastCircuitFailureCount,
		ErgastCircuitOpenTimeout:    ergastCircuitOpenTimeout,
		ErgastCircuitHalfOpenMaxReq: ergastCircuitHalfOpenMaxReq,
		ETLMaxWorkers:               etlMaxWorkers,
		ETLBackfillStartSeason:      etlBackfillStartSeason,
		ETLSaveRawPayloads:          etlSaveRawPayloads,
		AlertHookEnabled:            alertHookEnabled,
		AlertHookURL:                alertHookURL,
		AlertHookToken:              alertHookToken,
		AlertHookTimeout:            alertHookTimeout,
		AlertHookCircuitEnabled:     alertHookCircuitEnabled,
		AlertHookCircuitFailures:    alertHookCircuitFailures,
		AlertHookCircuitOpenWait:    alertHookCircuitOpenWait,
		AlertHookCircuitHalfOpenMax: alertHookCircuitHalfOpenMax,
		LogLevel:                    logLevel,
	}, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
