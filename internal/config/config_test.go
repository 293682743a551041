package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"gridweather/internal/config"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	def := config.Default()
	if cfg.Server.Port != def.Server.Port {
		t.Fatalf("unexpected port: %d", cfg.Server.Port)
	}
	if cfg.Cache.TTL != 100*time.Minute {
		t.Fatalf("unexpected cache ttl: %v", cfg.Cache.TTL)
	}
	if cfg.Mongo.Database != "IND320_assignment_4" {
		t.Fatalf("unexpected database: %q", cfg.Mongo.Database)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
server:
  port: 9090
  cors_origins: ["http://localhost:3000"]
log:
  level: debug
  format: json
cache:
  ttl: 30m
  snapshot_path: /tmp/snap.db
weather:
  timeout: 5s
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Log.Format != "json" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Cache.TTL != 30*time.Minute || cfg.Weather.Timeout != 5*time.Second {
		t.Fatalf("durations not parsed: %v %v", cfg.Cache.TTL, cfg.Weather.Timeout)
	}
	if cfg.Cache.ResultTTL != time.Hour {
		t.Fatalf("result ttl default lost: %v", cfg.Cache.ResultTTL)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected cors origins: %v", cfg.Server.CORSOrigins)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("API_PORT", "7000")
	t.Setenv("API_ENV", "production")
	t.Setenv("GRIDWEATHER_MONGO_URI", "mongodb://localhost:27017")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != 7000 || !cfg.IsProduction() {
		t.Fatalf("env not applied: %+v", cfg.Server)
	}
	if cfg.Mongo.URI != "mongodb://localhost:27017" {
		t.Fatalf("unexpected mongo uri: %q", cfg.Mongo.URI)
	}

	t.Setenv("API_PORT", "eighty")
	if _, err := config.Load(""); err == nil {
		t.Fatal("expected error for non-numeric API_PORT")
	}
}

func TestSecretsBuildMongoURI(t *testing.T) {
	dir := t.TempDir()
	secrets := config.Secrets{MongoDB: config.MongoSecrets{Pwd: "p@ss word", User: "analyst", Host: "cluster0.example.net"}}
	raw, err := toml.Marshal(secrets)
	if err != nil {
		t.Fatalf("marshal secrets: %v", err)
	}
	writeFile(t, dir, "secrets.toml", string(raw))
	path := writeFile(t, dir, "config.yaml", "secrets_file: secrets.toml\n")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !strings.HasPrefix(cfg.Mongo.URI, "mongodb+srv://analyst:") || !strings.Contains(cfg.Mongo.URI, "@cluster0.example.net/") {
		t.Fatalf("unexpected uri: %q", cfg.Mongo.URI)
	}
	if strings.Contains(cfg.Mongo.URI, "p@ss word") {
		t.Fatalf("password not escaped: %q", cfg.Mongo.URI)
	}
}

func TestSecretsPlaceholder(t *testing.T) {
	m := config.MergeSecrets(
		config.MongoConfig{URI: "mongodb+srv://u:{pwd}@h/"},
		config.Secrets{MongoDB: config.MongoSecrets{Pwd: "secret"}},
	)
	if m.URI != "mongodb+srv://u:secret@h/" {
		t.Fatalf("unexpected uri: %q", m.URI)
	}

	cfg := config.Default()
	cfg.Mongo.URI = "mongodb+srv://u:{pwd}@h/"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unresolved placeholder")
	}
}

func TestLoadSecretsStreamlitShape(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "secrets.toml", "[MongoDB]\npwd = \"hunter2\"\n")
	s, err := config.LoadSecrets(path)
	if err != nil {
		t.Fatalf("LoadSecrets: %v", err)
	}
	if s.MongoDB.Pwd != "hunter2" {
		t.Fatalf("unexpected pwd: %q", s.MongoDB.Pwd)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*config.Config){
		"port":   func(c *config.Config) { c.Server.Port = 0 },
		"level":  func(c *config.Config) { c.Log.Level = "loud" },
		"format": func(c *config.Config) { c.Log.Format = "xml" },
		"ttl":    func(c *config.Config) { c.Cache.TTL = -time.Second },
		"database": func(c *config.Config) {
			c.Mongo.URI = "mongodb://localhost"
			c.Mongo.Database = ""
		},
	}
	for name, mutate := range cases {
		cfg := config.Default()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}
