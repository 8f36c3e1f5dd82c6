package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Port:         "4000",
		StoreDriver:  StoreMongo,
		LogFormat:    "text",
		MongoDBURI:   "mongodb://localhost:27017",
		MongoTimeout: 5,
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORE_DRIVER", "LOG_FORMAT", "MONGODB_URI", "MONGODB_DB", "MONGODB_TIMEOUT_SECONDS", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "4000" {
		t.Errorf("Port = %q, want 4000", cfg.Port)
	}
	if cfg.MongoDBName != "finmentor_dev" {
		t.Errorf("MongoDBName = %q, want finmentor_dev", cfg.MongoDBName)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
	}
	if cfg.HasGemini() && cfg.GeminiAPIKey == "" {
		t.Error("HasGemini() true without a key")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.StoreDriver != StoreMemory {
		t.Errorf("StoreDriver = %q, want memory", cfg.StoreDriver)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Port = "http" }, "PORT"},
		{"bad driver", func(c *Config) { c.StoreDriver = "postgres" }, "STORE_DRIVER"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, "LOG_FORMAT"},
		{"missing uri", func(c *Config) { c.MongoDBURI = "" }, "MONGODB_URI"},
		{"memory without uri", func(c *Config) { c.StoreDriver = StoreMemory; c.MongoDBURI = "" }, ""},
		{"bad timeout", func(c *Config) { c.MongoTimeout = -1 }, "MONGODB_TIMEOUT_SECONDS"},
		{"half line", func(c *Config) { c.LineChannelSecret = "s" }, "LINE_CHANNEL"},
		{"full line", func(c *Config) { c.LineChannelSecret = "s"; c.LineChannelAccessToken = "t" }, ""},
		{"half firebase", func(c *Config) { c.FirebaseStorageBucket = "b" }, "FIREBASE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}
