package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	shared "github.com/kevinnayar/mmftostrava/pkg"
)

var validate = validator.New()

// Config holds configuration for the CLI and the server.
// Precedence: defaults, then the optional YAML file, then environment variables.
type Config struct {
	ProjectID     string `yaml:"project_id"`
	EnablePublish bool   `yaml:"enable_publish"`

	// CredentialsFile is a service account key for GCS and Pub/Sub.
	// Empty means application default credentials.
	CredentialsFile string `yaml:"credentials_file"`

	DataDir string      `yaml:"data_dir" validate:"required"`
	Files   FilesConfig `yaml:"files"`

	Port   string       `yaml:"port" validate:"required,numeric"`
	Strava StravaConfig `yaml:"strava"`

	SentryDSN   string `yaml:"sentry_dsn"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// FilesConfig names the files the tool reads and writes. Relative names
// resolve under DataDir; absolute paths and gs:// URIs are used as-is.
type FilesConfig struct {
	Input      string `yaml:"input" validate:"required"`
	Output     string `yaml:"output" validate:"required"`
	SynchedIDs string `yaml:"synched_ids" validate:"required"`
	ErroredIDs string `yaml:"errored_ids" validate:"required"`
}

type StravaConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURI  string `yaml:"redirect_uri"`

	// APIBaseURL overrides https://www.strava.com/api/v3.
	APIBaseURL string `yaml:"api_base_url" validate:"omitempty,url"`
}

// serveRequirements are only enforced when running the OAuth server.
type serveRequirements struct {
	ClientID     string `validate:"required"`
	ClientSecret string `validate:"required"`
	RedirectURI  string `validate:"required,url"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		ProjectID: shared.ServiceName,
		DataDir:   shared.DefaultDataDir,
		Files: FilesConfig{
			Input:      shared.DefaultInputFile,
			Output:     shared.DefaultOutputFile,
			SynchedIDs: shared.DefaultSynchedIDsFile,
			ErroredIDs: shared.DefaultErroredIDsFile,
		},
		Port:        shared.DefaultPort,
		Environment: "development",
		LogLevel:    "info",
	}
}

// LoadConfig builds the configuration from defaults, the YAML file at path
// (skipped when path is empty) and the environment, then validates it.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	setString("GOOGLE_CLOUD_PROJECT", &c.ProjectID)
	setString("GOOGLE_APPLICATION_CREDENTIALS", &c.CredentialsFile)
	setString("DATA_DIR", &c.DataDir)
	setString("FILE_INPUT", &c.Files.Input)
	setString("FILE_OUTPUT", &c.Files.Output)
	setString("FILE_SYNCHED_IDS", &c.Files.SynchedIDs)
	setString("FILE_ERRORED_IDS", &c.Files.ErroredIDs)
	setString("PORT", &c.Port)
	setString("STRAVA_CLIENT_ID", &c.Strava.ClientID)
	setString("STRAVA_CLIENT_SECRET", &c.Strava.ClientSecret)
	setString("STRAVA_REDIRECT_URI", &c.Strava.RedirectURI)
	setString("STRAVA_API_URL", &c.Strava.APIBaseURL)
	setString("SENTRY_DSN", &c.SentryDSN)
	setString("ENVIRONMENT", &c.Environment)
	setString("LOG_LEVEL", &c.LogLevel)

	if v, ok := os.LookupEnv("ENABLE_PUBLISH"); ok {
		c.EnablePublish = v == "true"
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	return formatValidation(validate.Struct(c))
}

// ValidateServe additionally requires the Strava OAuth application settings.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return formatValidation(validate.Struct(serveRequirements{
		ClientID:     c.Strava.ClientID,
		ClientSecret: c.Strava.ClientSecret,
		RedirectURI:  c.Strava.RedirectURI,
	}))
}

func formatValidation(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config error: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("'%s' failed '%s'", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
}

// Resolve maps a configured file name to its location.
func (c *Config) Resolve(name string) string {
	if strings.HasPrefix(name, "gs://") || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

func (c *Config) InputPath() string      { return c.Resolve(c.Files.Input) }
func (c *Config) OutputPath() string     { return c.Resolve(c.Files.Output) }
func (c *Config) SynchedIDsPath() string { return c.Resolve(c.Files.SynchedIDs) }
func (c *Config) ErroredIDsPath() string { return c.Resolve(c.Files.ErroredIDs) }
