package cfg

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
)

// Config adds intake-specific configuration fields to the
// common cfg.Registerable and cfg.Validatable interfaces
type Config struct {
	DrainSeconds             int
	ShutdownBudgetSeconds    int
	APIPort                  int
	APIToken                 string
	ClassifierEndpoint       string
	ClassifierTimeoutSeconds int
	DatabaseURL              string
	AnthropicAPIKey          string
	AnthropicModel           string
	SlackWebhookURL          string
}

// RegisterFlags binds Config fields to the given FlagSet with defaults inline
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.DrainSeconds, "drain-seconds", 60, "seconds to wait for in-flight requests to drain before shutdown (1..300)")
	fs.IntVar(&c.ShutdownBudgetSeconds, "shutdown-budget-seconds", 90, "total seconds for component shutdown after drain (1..300)")
	fs.IntVar(&c.APIPort, "http-port", 8080, "API listen TCP port (1..65535)")
	fs.StringVar(&c.APIToken, "api-token", "", "bearer token required on API requests (empty = no auth)")
	fs.StringVar(&c.ClassifierEndpoint, "classifier-endpoint", "", "base URL of the predictive classifier service")
	fs.IntVar(&c.ClassifierTimeoutSeconds, "classifier-timeout-seconds", 30, "per-call classifier timeout in seconds (1..300)")
	fs.StringVar(&c.DatabaseURL, "database-url", "", "PostgreSQL connection URL (empty = in-memory store)")
	fs.StringVar(&c.AnthropicAPIKey, "anthropic-api-key", "", "API key for narrative generation (empty = narratives disabled)")
	fs.StringVar(&c.AnthropicModel, "anthropic-model", "claude-sonnet-4-20250514", "model to use for narrative generation")
	fs.StringVar(&c.SlackWebhookURL, "slack-webhook-url", "", "Slack webhook URL for queue notifications")
}

// Validate checks all configuration fields for correctness.
// It returns an error if any field is invalid, or nil if all fields are valid.
func (c *Config) Validate() error {
	var errs []error

	// Drain and shutdown budgets
	if c.DrainSeconds <= 0 || c.DrainSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid DRAIN_SECONDS %d (must be 1..300)", c.DrainSeconds))
	}
	if c.ShutdownBudgetSeconds <= 0 || c.ShutdownBudgetSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid SHUTDOWN_BUDGET_SECONDS %d (must be 1..300)", c.ShutdownBudgetSeconds))
	}

	// Shutdown budget must be greater than drain time
	if c.ShutdownBudgetSeconds <= c.DrainSeconds {
		errs = append(errs, fmt.Errorf("SHUTDOWN_BUDGET_SECONDS %d must be greater than DRAIN_SECONDS %d", c.ShutdownBudgetSeconds, c.DrainSeconds))
	}

	// API port must be valid TCP port number
	if c.APIPort <= 0 || c.APIPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP_PORT %d (must be 1..65535)", c.APIPort))
	}

	// Classifier endpoint is required and must be an absolute URL
	if c.ClassifierEndpoint == "" {
		errs = append(errs, errors.New("CLASSIFIER_ENDPOINT is required"))
	} else if u, err := url.Parse(c.ClassifierEndpoint); err != nil || !u.IsAbs() {
		errs = append(errs, fmt.Errorf("invalid CLASSIFIER_ENDPOINT %q (must be an absolute URL)", c.ClassifierEndpoint))
	}

	if c.ClassifierTimeoutSeconds <= 0 || c.ClassifierTimeoutSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid CLASSIFIER_TIMEOUT_SECONDS %d (must be 1..300)", c.ClassifierTimeoutSeconds))
	}

	// Narrative generation needs a model when a key is configured
	if c.AnthropicAPIKey != "" && c.AnthropicModel == "" {
		errs = append(errs, errors.New("ANTHROPIC_MODEL is required when ANTHROPIC_API_KEY is set"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
