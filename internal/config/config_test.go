package config

import (
	"path/filepath"
	"testing"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.Language != DefaultLanguage {
		t.Errorf("Language = %q, want %q", cfg.Language, DefaultLanguage)
	}
	if cfg.Summarizer.Method != DefaultMethod {
		t.Errorf("Method = %q, want %q", cfg.Summarizer.Method, DefaultMethod)
	}
	if cfg.Summarizer.NumSentences != DefaultNumSentences {
		t.Errorf("NumSentences = %d, want %d", cfg.Summarizer.NumSentences, DefaultNumSentences)
	}
	if cfg.Summarizer.Damping != DefaultDamping {
		t.Errorf("Damping = %g, want %g", cfg.Summarizer.Damping, DefaultDamping)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v, want nil", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero sentences", mutate: func(c *Config) { c.Summarizer.NumSentences = 0 }, wantErr: true},
		{name: "damping of one", mutate: func(c *Config) { c.Summarizer.Damping = 1 }, wantErr: true},
		{name: "negative tolerance", mutate: func(c *Config) { c.Summarizer.Tolerance = -1 }, wantErr: true},
		{name: "no iterations", mutate: func(c *Config) { c.Summarizer.MaxIterations = 0 }, wantErr: true},
		{name: "negative rate", mutate: func(c *Config) { c.Model.RequestsPerSecond = -2 }, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := NewConfig()
			test.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != test.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, test.wantErr)
			}
		})
	}
}

func TestLoadConfigWithMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")

	cfg, err := LoadConfigWithPath(path)
	if err != nil {
		t.Fatalf("LoadConfigWithPath() error = %v", err)
	}
	if cfg.GetConfigPath() != path {
		t.Errorf("GetConfigPath() = %q, want %q", cfg.GetConfigPath(), path)
	}
	if cfg.Summarizer.MaxIterations != DefaultMaxIterations {
		t.Errorf("MaxIterations = %d, want default", cfg.Summarizer.MaxIterations)
	}
}
