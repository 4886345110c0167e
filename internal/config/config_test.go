package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("UPLOAD_ENABLED", "")
	t.Setenv("WRITE_WORKERS", "")
	t.Setenv("WRITE_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AppEnv != EnvDev {
		t.Fatalf("unexpected AppEnv: %q", cfg.AppEnv)
	}
	if cfg.StoreBackend != StoreMemory {
		t.Fatalf("unexpected StoreBackend: %q", cfg.StoreBackend)
	}
	if cfg.UploadEnabled {
		t.Fatalf("expected UploadEnabled=false by default")
	}
	if cfg.WriteWorkers != 4 {
		t.Fatalf("unexpected WriteWorkers: %d", cfg.WriteWorkers)
	}
	if cfg.WriteTimeout != 10*time.Second {
		t.Fatalf("unexpected WriteTimeout: %s", cfg.WriteTimeout)
	}
	if !cfg.WriteCircuitEnabled {
		t.Fatalf("expected WriteCircuitEnabled=true by default")
	}
}

func TestLoad_FirestoreRequiresProject(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORE_BACKEND", "firestore")
	t.Setenv("FIRESTORE_PROJECT_ID", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when STORE_BACKEND=firestore without FIRESTORE_PROJECT_ID")
	}
}

func TestLoad_UnknownStoreBackend(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORE_BACKEND", "postgres")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown STORE_BACKEND")
	}
}

func TestLoad_UploadRequiresBucketWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORE_BACKEND", StoreMemory)
	t.Setenv("UPLOAD_ENABLED", "true")
	t.Setenv("UPLOAD_BUCKET", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPLOAD_ENABLED=true without UPLOAD_BUCKET")
	}
}

func TestLoad_WriteSettingsValidation(t *testing.T) {
	cases := map[string]string{
		"WRITE_WORKERS":                   "0",
		"WRITE_TIMEOUT":                   "-1s",
		"WRITE_CIRCUIT_FAILURE_COUNT":     "abc",
		"WRITE_CIRCUIT_HALF_OPEN_MAX_REQ": "0",
		"IDENTITY_CACHE_TTL":              "soon",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv("STORE_BACKEND", StoreMemory)
			t.Setenv(key, value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORE_BACKEND", StoreMemory)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PyroscopeRequiresServerWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORE_BACKEND", StoreMemory)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.env")
	content := "STORE_BACKEND=firestore\nFIRESTORE_PROJECT_ID=club-dev\nROSTER_USER_ID=u-coach\nAPP_LOG_LEVEL=debug\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("ENV_FILE", path)
	t.Setenv("APP_ENV", EnvStage)
	t.Setenv("ROSTER_USER_ID", "u-from-env")
	unsetForTest(t, "STORE_BACKEND", "FIRESTORE_PROJECT_ID", "APP_LOG_LEVEL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StoreBackend != StoreFirestore || cfg.FirestoreProjectID != "club-dev" {
		t.Fatalf("unexpected store settings: %q %q", cfg.StoreBackend, cfg.FirestoreProjectID)
	}
	if cfg.RosterUserID != "u-from-env" {
		t.Fatalf("expected environment to win over ENV_FILE, got %q", cfg.RosterUserID)
	}
	if cfg.LogLevel.String() != "debug" {
		t.Fatalf("unexpected LogLevel: %s", cfg.LogLevel.String())
	}
}

func TestLoad_MissingEnvFile(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing ENV_FILE")
	}
}

// unsetForTest removes keys for the duration of the test so godotenv can set them.
func unsetForTest(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
}
