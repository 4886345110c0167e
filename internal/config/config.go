package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/club-roster/internal/platform/logging"
)

// Config stores runtime configuration for the roster daemon.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	LogLevel                   logging.Level
	StoreBackend               string
	FirestoreProjectID         string
	UploadEnabled              bool
	UploadBucket               string
	UploadTimeout              time.Duration
	WriteWorkers               int
	WriteTimeout               time.Duration
	WriteCircuitEnabled        bool
	WriteCircuitFailureCount   int
	WriteCircuitOpenTimeout    time.Duration
	WriteCircuitHalfOpenMaxReq int
	IdentityCacheTTL           time.Duration
	RosterUserID               string
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeUploadRate        time.Duration
}

const (
	StoreMemory    = "memory"
	StoreFirestore = "firestore"
)

// Load reads the environment. When ENV_FILE is set its variables are loaded
// first; variables already present in the environment win.
func Load() (Config, error) {
	if envFile := strings.TrimSpace(os.Getenv("ENV_FILE")); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("load ENV_FILE %q: %w", envFile, err)
		}
	}

	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	storeBackend := strings.ToLower(strings.TrimSpace(getEnv("STORE_BACKEND", StoreMemory)))
	switch storeBackend {
	case StoreMemory, StoreFirestore:
	default:
		return Config{}, fmt.Errorf("invalid STORE_BACKEND %q: valid values are %s, %s", storeBackend, StoreMemory, StoreFirestore)
	}
	firestoreProjectID := strings.TrimSpace(getEnv("FIRESTORE_PROJECT_ID", ""))
	if storeBackend == StoreFirestore && firestoreProjectID == "" {
		return Config{}, fmt.Errorf("FIRESTORE_PROJECT_ID is required when STORE_BACKEND=firestore")
	}

	uploadEnabled, err := strconv.ParseBool(getEnv("UPLOAD_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPLOAD_ENABLED: %w", err)
	}
	uploadBucket := strings.TrimSpace(getEnv("UPLOAD_BUCKET", ""))
	if uploadEnabled && uploadBucket == "" {
		return Config{}, fmt.Errorf("UPLOAD_BUCKET is required when UPLOAD_ENABLED=true")
	}
	uploadTimeout, err := getEnvAsDuration("UPLOAD_TIMEOUT", "30s")
	if err != nil {
		return Config{}, err
	}

	writeWorkers, err := getEnvAsInt("WRITE_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse WRITE_WORKERS: %w", err)
	}
	if writeWorkers <= 0 {
		return Config{}, fmt.Errorf("WRITE_WORKERS must be > 0")
	}
	writeTimeout, err := getEnvAsDuration("WRITE_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}

	writeCircuitEnabled, err := strconv.ParseBool(getEnv("WRITE_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WRITE_CIRCUIT_ENABLED: %w", err)
	}
	writeCircuitFailureCount, err := getEnvAsInt("WRITE_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse WRITE_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if writeCircuitFailureCount <= 0 {
		return Config{}, fmt.Errorf("WRITE_CIRCUIT_FAILURE_COUNT must be > 0")
	}
	writeCircuitOpenTimeout, err := getEnvAsDuration("WRITE_CIRCUIT_OPEN_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}
	writeCircuitHalfOpenMaxReq, err := getEnvAsInt("WRITE_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse WRITE_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if writeCircuitHalfOpenMaxReq <= 0 {
		return Config{}, fmt.Errorf("WRITE_CIRCUIT_HALF_OPEN_MAX_REQ must be > 0")
	}

	identityCacheTTL, err := getEnvAsDuration("IDENTITY_CACHE_TTL", "5m")
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return Config{}, err
	}

	serviceName := getEnv("APP_SERVICE_NAME", "club-roster")

	return Config{
		AppEnv:                     appEnv,
		ServiceName:                serviceName,
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:                   parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		StoreBackend:               storeBackend,
		FirestoreProjectID:         firestoreProjectID,
		UploadEnabled:              uploadEnabled,
		UploadBucket:               uploadBucket,
		UploadTimeout:              uploadTimeout,
		WriteWorkers:               writeWorkers,
		WriteTimeout:               writeTimeout,
		WriteCircuitEnabled:        writeCircuitEnabled,
		WriteCircuitFailureCount:   writeCircuitFailureCount,
		WriteCircuitOpenTimeout:    writeCircuitOpenTimeout,
		WriteCircuitHalfOpenMaxReq: writeCircuitHalfOpenMaxReq,
		IdentityCacheTTL:           identityCacheTTL,
		RosterUserID:               strings.TrimSpace(getEnv("ROSTER_USER_ID", "")),
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAppName:           getEnv("PYROSCOPE_APP_NAME", serviceName),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
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

func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
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
