package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := newDefaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Path != "data/obra.db" {
		t.Errorf("db path = %q", cfg.Database.Path)
	}
	if cfg.Storage.Bucket != "" {
		t.Error("default storage should be local (empty bucket)")
	}
	if cfg.Mail.Endpoint != "https://api.web3forms.com/submit" {
		t.Errorf("mail endpoint = %q", cfg.Mail.Endpoint)
	}
	if cfg.Mail.FromName != "RF Construções" {
		t.Errorf("from name = %q", cfg.Mail.FromName)
	}
	if time.Duration(cfg.Auth.SessionTTL) != 12*time.Hour {
		t.Errorf("session ttl = %v", time.Duration(cfg.Auth.SessionTTL))
	}
	if time.Duration(cfg.Retention.ContactedTTL) != 0 {
		t.Error("retention must be disabled by default")
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("log defaults = %s/%s", cfg.Log.Level, cfg.Log.Format)
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("OBRA_DEV_MODE", "true")

	path := filepath.Join(t.TempDir(), "obra.yaml")
	content := `
server:
  port: 9090
  read_timeout: 45s
database:
  path: /var/lib/obra/obra.db
mail:
  from_name: DNL Remodelações
  max_retries: 5
retention:
  contacted_ttl: 720h
  interval: 1h
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if time.Duration(cfg.Server.ReadTimeout) != 45*time.Second {
		t.Errorf("read timeout = %v", time.Duration(cfg.Server.ReadTimeout))
	}
	if cfg.Database.Path != "/var/lib/obra/obra.db" {
		t.Errorf("db path = %q", cfg.Database.Path)
	}
	if cfg.Mail.FromName != "DNL Remodelações" {
		t.Errorf("from name = %q", cfg.Mail.FromName)
	}
	if cfg.Mail.MaxRetries != 5 {
		t.Errorf("max retries = %d", cfg.Mail.MaxRetries)
	}
	if time.Duration(cfg.Retention.ContactedTTL) != 720*time.Hour {
		t.Errorf("contacted ttl = %v", time.Duration(cfg.Retention.ContactedTTL))
	}

	// Values the file does not mention keep their defaults
	if time.Duration(cfg.Server.WriteTimeout) != 30*time.Second {
		t.Errorf("write timeout = %v, want default", time.Duration(cfg.Server.WriteTimeout))
	}
}

func TestLoadFromFile_InvalidDuration(t *testing.T) {
	t.Setenv("OBRA_DEV_MODE", "true")

	path := filepath.Join(t.TempDir(), "obra.yaml")
	if err := os.WriteFile(path, []byte("server:\n  read_timeout: fast\n"), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Fatal("expected error for unparseable duration")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OBRA_PORT", "3000")
	t.Setenv("OBRA_DB_PATH", "/tmp/test.db")
	t.Setenv("OBRA_SESSION_TTL", "2h")
	t.Setenv("OBRA_RETENTION_CONTACTED_TTL", "168h")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OBRA_MAIL_FROM_NAME", "Obras Teste")
	t.Setenv("OBRA_MAIL_MAX_RETRIES", "4")

	cfg := newDefaults()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 3000 {
		t.Errorf("port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("db path = %q", cfg.Database.Path)
	}
	if time.Duration(cfg.Auth.SessionTTL) != 2*time.Hour {
		t.Errorf("session ttl = %v", time.Duration(cfg.Auth.SessionTTL))
	}
	if time.Duration(cfg.Retention.ContactedTTL) != 168*time.Hour {
		t.Errorf("contacted ttl = %v", time.Duration(cfg.Retention.ContactedTTL))
	}
	if cfg.Copywriter.APIKey != "sk-test" {
		t.Errorf("api key = %q", cfg.Copywriter.APIKey)
	}
	if cfg.Mail.FromName != "Obras Teste" {
		t.Errorf("from name = %q", cfg.Mail.FromName)
	}
	if cfg.Mail.MaxRetries != 4 {
		t.Errorf("max retries = %d", cfg.Mail.MaxRetries)
	}
}

func TestValidate_RequiresSessionSecret(t *testing.T) {
	t.Setenv("OBRA_DEV_MODE", "")

	cfg := newDefaults()
	if err := cfg.validate(); err == nil {
		t.Fatal("expected error for missing session secret")
	}

	cfg.Auth.SessionSecret = "test-secret"
	if err := cfg.validate(); err != nil {
		t.Fatalf("validate failed with secret set: %v", err)
	}
}

func TestValidate_RequiresS3CredentialsWithBucket(t *testing.T) {
	t.Setenv("OBRA_DEV_MODE", "")

	cfg := newDefaults()
	cfg.Auth.SessionSecret = "test-secret"
	cfg.Storage.Bucket = "obra-media"
	cfg.Storage.Endpoint = "s3.example.com"

	if err := cfg.validate(); err == nil {
		t.Fatal("expected error for missing S3 credentials")
	}

	cfg.Storage.AccessKey = "ak"
	cfg.Storage.SecretKey = "sk"
	if err := cfg.validate(); err != nil {
		t.Fatalf("validate failed with credentials set: %v", err)
	}
}

func TestValidate_DevModeSkipsSecrets(t *testing.T) {
	t.Setenv("OBRA_DEV_MODE", "true")

	cfg := newDefaults()
	if err := cfg.validate(); err != nil {
		t.Fatalf("dev mode should skip secret validation: %v", err)
	}
}
