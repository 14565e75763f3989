package cfg

import (
	"flag"
	"testing"
)

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	var c Config
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.RegisterFlags(fs)
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return &c
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	c := defaultConfig(t)

	if c.DrainSeconds != 60 {
		t.Errorf("DrainSeconds = %d, want 60", c.DrainSeconds)
	}
	if c.ShutdownBudgetSeconds != 90 {
		t.Errorf("ShutdownBudgetSeconds = %d, want 90", c.ShutdownBudgetSeconds)
	}
	if c.APIPort != 8080 {
		t.Errorf("APIPort = %d, want 8080", c.APIPort)
	}
	if c.ClassifierTimeoutSeconds != 30 {
		t.Errorf("ClassifierTimeoutSeconds = %d, want 30", c.ClassifierTimeoutSeconds)
	}
	if c.AnthropicModel == "" {
		t.Error("AnthropicModel default is empty")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(c *Config) { c.ClassifierEndpoint = "http://localhost:9000" },
		},
		{
			name:    "missing classifier endpoint",
			mutate:  func(_ *Config) {},
			wantErr: true,
		},
		{
			name: "relative classifier endpoint",
			mutate: func(c *Config) {
				c.ClassifierEndpoint = "localhost:9000/predict"
			},
			wantErr: true,
		},
		{
			name: "bad port",
			mutate: func(c *Config) {
				c.ClassifierEndpoint = "http://localhost:9000"
				c.APIPort = 0
			},
			wantErr: true,
		},
		{
			name: "drain out of range",
			mutate: func(c *Config) {
				c.ClassifierEndpoint = "http://localhost:9000"
				c.DrainSeconds = 0
			},
			wantErr: true,
		},
		{
			name: "budget not greater than drain",
			mutate: func(c *Config) {
				c.ClassifierEndpoint = "http://localhost:9000"
				c.DrainSeconds = 90
				c.ShutdownBudgetSeconds = 90
			},
			wantErr: true,
		},
		{
			name: "classifier timeout out of range",
			mutate: func(c *Config) {
				c.ClassifierEndpoint = "http://localhost:9000"
				c.ClassifierTimeoutSeconds = 0
			},
			wantErr: true,
		},
		{
			name: "api key without model",
			mutate: func(c *Config) {
				c.ClassifierEndpoint = "http://localhost:9000"
				c.AnthropicAPIKey = "sk-test"
				c.AnthropicModel = ""
			},
			wantErr: true,
		},
		{
			name: "api key with model",
			mutate: func(c *Config) {
				c.ClassifierEndpoint = "http://localhost:9000"
				c.AnthropicAPIKey = "sk-test"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := defaultConfig(t)
			tt.mutate(c)

			err := c.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}
