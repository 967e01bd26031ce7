// =============================================================================
// CONTENTdm Catcher Client - Configuration Module
// =============================================================================
//
// This module is responsible for loading the client configuration: the
// Catcher endpoint, the CONTENTdm credentials, the vocabulary policy and the
// names of the fields that get priority in a submission payload.
//
// CONFIGURATION SOURCES (later sources win):
//   1. Built-in defaults
//   2. The YAML file named by --config (default: catcher.yaml)
//   3. Environment variables (CDM_URL, CDM_USERNAME, CDM_PASSWORD,
//      CDM_LICENSE, CATCHER_ENDPOINT)
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/cdm-catcher/internal/types"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultPath is the configuration file read when --config is not given.
	DefaultPath = "catcher.yaml"

	// DefaultEndpoint is the public Catcher SOAP endpoint.
	DefaultEndpoint = "https://worldcat.org/webservices/contentdm/catcher/6.0/CatcherService"

	// DefaultNamespace is the target namespace of the Catcher 6.0 WSDL.
	DefaultNamespace = "http://catcherws.cdm.oclc.org/v6.0.0/"

	// DefaultIdentifierField is the CONTENTdm record pointer field used by edit and delete.
	DefaultIdentifierField = "dmrecord"

	// DefaultTitleField is the field that must lead an add payload.
	DefaultTitleField = "title"
)

// Environment variable names.
const (
	EnvURL      = "CDM_URL"
	EnvUsername = "CDM_USERNAME"
	EnvPassword = "CDM_PASSWORD"
	EnvLicense  = "CDM_LICENSE"
	EnvEndpoint = "CATCHER_ENDPOINT"
)

// =============================================================================
// CONFIGURATION STRUCTURES
// =============================================================================

// Config holds the whole client configuration.
type Config struct {
	// Catcher configures the SOAP transport.
	Catcher CatcherConfig `yaml:"catcher"`

	// ContentDM holds the credentials sent with every call.
	ContentDM Credentials `yaml:"contentdm"`

	// Vocabulary configures controlled vocabulary checking.
	Vocabulary VocabularyConfig `yaml:"vocabulary"`

	// Fields names the fields that are moved to the front of a payload.
	Fields FieldsConfig `yaml:"fields"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`
}

// CatcherConfig configures the connection to the Catcher service.
type CatcherConfig struct {
	// Endpoint is the SOAP endpoint URL.
	Endpoint string `yaml:"endpoint"`

	// Namespace is the XML namespace of the operation elements.
	Namespace string `yaml:"namespace"`

	// RequestsPerSecond throttles calls to the service. Zero means unlimited.
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Timeout bounds a single call. Zero leaves the transport default in place.
	Timeout time.Duration `yaml:"timeout"`
}

// Credentials are the CONTENTdm server coordinates passed on every call.
type Credentials struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	License  string `yaml:"license"`
}

// VocabularyConfig configures what happens when a vocabulary cannot be fetched.
type VocabularyConfig struct {
	// OnUnavailable is one of "fail-closed", "fail-open" or "prompt".
	// Default: "fail-closed"
	OnUnavailable string `yaml:"on_unavailable"`
}

// FieldsConfig names the identifying fields of a record.
type FieldsConfig struct {
	// Identifier leads edit and delete payloads.
	// Default: "dmrecord"
	Identifier string `yaml:"identifier"`

	// Title leads add payloads.
	// Default: "title"
	Title string `yaml:"title"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load reads the configuration file, applies defaults and environment overrides.
//
// PARAMETERS:
//   - path: The configuration file path. Empty means DefaultPath.
//   - required: When false a missing file is not an error and defaults are used.
//
// RETURNS:
//   - The loaded configuration.
//   - An error wrapping types.ErrConfiguration if the file cannot be read or parsed.
//
// Credentials are not checked here; call ValidateCredentials before talking
// to the server.
func Load(path string, required bool) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: failed to parse config file %s: %v", types.ErrConfiguration, path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
		// Defaults and environment only.
	default:
		return nil, fmt.Errorf("%w: failed to read config file: %v", types.ErrConfiguration, err)
	}

	applyEnvironment(&cfg, os.Getenv)
	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnvironment overrides file values with non-empty environment variables.
func applyEnvironment(cfg *Config, getenv func(string) string) {
	overrides := []struct {
		env    string
		target *string
	}{
		{EnvURL, &cfg.ContentDM.URL},
		{EnvUsername, &cfg.ContentDM.Username},
		{EnvPassword, &cfg.ContentDM.Password},
		{EnvLicense, &cfg.ContentDM.License},
		{EnvEndpoint, &cfg.Catcher.Endpoint},
	}
	for _, o := range overrides {
		if v := getenv(o.env); v != "" {
			*o.target = v
		}
	}
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.Catcher.Endpoint == "" {
		cfg.Catcher.Endpoint = DefaultEndpoint
	}
	if cfg.Catcher.Namespace == "" {
		cfg.Catcher.Namespace = DefaultNamespace
	}
	if cfg.Vocabulary.OnUnavailable == "" {
		cfg.Vocabulary.OnUnavailable = "fail-closed"
	}
	if cfg.Fields.Identifier == "" {
		cfg.Fields.Identifier = DefaultIdentifierField
	}
	if cfg.Fields.Title == "" {
		cfg.Fields.Title = DefaultTitleField
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// validate checks the values that do not depend on the command being run.
func validate(cfg *Config) error {
	var result *multierror.Error

	switch strings.ToLower(cfg.Vocabulary.OnUnavailable) {
	case "fail-closed", "fail-open", "prompt":
	default:
		result = multierror.Append(result, fmt.Errorf("vocabulary.on_unavailable must be fail-closed, fail-open or prompt, got %q", cfg.Vocabulary.OnUnavailable))
	}
	if cfg.Catcher.RequestsPerSecond < 0 {
		result = multierror.Append(result, fmt.Errorf("catcher.requests_per_second must not be negative"))
	}
	if cfg.Catcher.Timeout < 0 {
		result = multierror.Append(result, fmt.Errorf("catcher.timeout must not be negative"))
	}

	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %v", types.ErrConfiguration, err)
	}
	return nil
}

// ValidateCredentials reports every missing credential at once.
func (c *Config) ValidateCredentials() error {
	var result *multierror.Error

	required := []struct {
		name  string
		env   string
		value string
	}{
		{"contentdm.url", EnvURL, c.ContentDM.URL},
		{"contentdm.username", EnvUsername, c.ContentDM.Username},
		{"contentdm.password", EnvPassword, c.ContentDM.Password},
		{"contentdm.license", EnvLicense, c.ContentDM.License},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			result = multierror.Append(result, fmt.Errorf("%s is not set (config file or %s)", r.name, r.env))
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: missing credentials: %v", types.ErrConfiguration, err)
	}
	return nil
}
