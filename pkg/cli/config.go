package cli

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/virtualvitae/vitae/pkg/adapter"
	"github.com/virtualvitae/vitae/pkg/model"
	"github.com/virtualvitae/vitae/pkg/repository"
	"github.com/virtualvitae/vitae/pkg/usecase/vent"
	"gopkg.in/yaml.v3"
)

// config holds configuration values
type config struct {
	// Storage
	dbPath string

	// Identity gate and advisor hand-off
	domain  string
	advisor string

	// Generation
	geminiAPIKey string
	genModel     string
	temperature  float64
	replyWait    time.Duration

	logLevel   string
	configPath string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Path to the SQLite database file",
			Sources:     cli.EnvVars("VITAE_DATABASE"),
			Destination: &cfg.dbPath,
		},
		&cli.StringFlag{
			Name:        "domain",
			Usage:       "Organizational email domain accepted at onboarding",
			Value:       model.DefaultEmailDomain,
			Sources:     cli.EnvVars("VITAE_EMAIL_DOMAIN"),
			Destination: &cfg.domain,
		},
		&cli.StringFlag{
			Name:        "advisor",
			Usage:       "Advisor email address for the mail hand-off",
			Value:       vent.DefaultAdvisorEmail,
			Sources:     cli.EnvVars("VITAE_ADVISOR_EMAIL"),
			Destination: &cfg.advisor,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("VITAE_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to an optional YAML config file",
			Sources:     cli.EnvVars("VITAE_CONFIG"),
			Destination: &cfg.configPath,
		},
	}
}

// llmFlags returns flags for LLM-related configuration with destination config
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-api-key",
			Usage:       "Gemini API key",
			Sources:     cli.EnvVars("GEMINI_API_KEY"),
			Destination: &cfg.geminiAPIKey,
		},
		&cli.StringFlag{
			Name:        "model",
			Usage:       "Generative model identifier",
			Value:       "gemini-2.5-flash",
			Sources:     cli.EnvVars("VITAE_MODEL"),
			Destination: &cfg.genModel,
		},
		&cli.FloatFlag{
			Name:        "temperature",
			Usage:       "Generation temperature",
			Value:       0.8,
			Sources:     cli.EnvVars("VITAE_TEMPERATURE"),
			Destination: &cfg.temperature,
		},
		&cli.DurationFlag{
			Name:        "reply-wait",
			Usage:       "Upper bound on a single generation call",
			Value:       30 * time.Second,
			Sources:     cli.EnvVars("VITAE_REPLY_WAIT"),
			Destination: &cfg.replyWait,
		},
	}
}

// fileConfig mirrors the flag surface for YAML-based deployments. Flags set
// on the command line win over file values.
type fileConfig struct {
	Database     string   `yaml:"database"`
	EmailDomain  string   `yaml:"email_domain"`
	AdvisorEmail string   `yaml:"advisor_email"`
	Model        string   `yaml:"model"`
	Temperature  *float64 `yaml:"temperature"`
}

// load merges the optional config file into cfg.
func (cfg *config) load(c *cli.Command) error {
	if cfg.configPath == "" {
		return nil
	}

	data, err := os.ReadFile(cfg.configPath)
	if err != nil {
		return goerr.Wrap(err, "failed to read config file", goerr.V("path", cfg.configPath))
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return goerr.Wrap(err, "failed to parse config file", goerr.V("path", cfg.configPath))
	}

	if fc.Database != "" && !c.IsSet("database") {
		cfg.dbPath = fc.Database
	}
	if fc.EmailDomain != "" && !c.IsSet("domain") {
		cfg.domain = fc.EmailDomain
	}
	if fc.AdvisorEmail != "" && !c.IsSet("advisor") {
		cfg.advisor = fc.AdvisorEmail
	}
	if fc.Model != "" && !c.IsSet("model") {
		cfg.genModel = fc.Model
	}
	if fc.Temperature != nil && !c.IsSet("temperature") {
		cfg.temperature = *fc.Temperature
	}

	return nil
}

// emailPattern returns the acceptance pattern for the configured domain.
func (cfg *config) emailPattern() *regexp.Regexp {
	return model.EmailPattern(cfg.domain)
}

// newRepository creates a new repository instance
func (cfg *config) newRepository() (repository.Repository, error) {
	path := cfg.dbPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to resolve home directory")
		}
		path = filepath.Join(home, ".vitae", "vitae.db")
	}

	repo, err := repository.NewSQLite(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, nil
}

// newResponder creates the response generator backed by Gemini
func (cfg *config) newResponder(ctx context.Context) (*vent.Responder, error) {
	if cfg.geminiAPIKey == "" {
		return nil, goerr.New("gemini-api-key is required")
	}

	gemini, err := adapter.NewGemini(ctx, cfg.geminiAPIKey,
		adapter.WithGenerativeModel(cfg.genModel))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create gemini adapter")
	}

	return vent.NewResponder(gemini,
		vent.WithTemperature(float32(cfg.temperature)),
		vent.WithReplyWait(cfg.replyWait),
	), nil
}
