package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"stackforge/internal/errors"
	"stackforge/pkg/config"
)

// Loader assembles one InfrastructureConfig from the per-environment YAML file
// located by convention at <ConfigDir>/environments/<env>.yaml.
type Loader struct {
	EnvName     string
	ProjectName string
	ConfigDir   string
}

// New returns a Loader with the conventional config directory.
func New(envName, projectName string) *Loader {
	return &Loader{
		EnvName:     envName,
		ProjectName: projectName,
		ConfigDir:   "config",
	}
}

// Load reads the environment file, substitutes field-level defaults for absent
// keys, and returns the fully validated aggregate. Validation failures from
// the schema propagate unchanged.
func (l *Loader) Load() (*config.InfrastructureConfig, error) {
	envName, err := config.ParseEnvironmentName(l.EnvName)
	if err != nil {
		return nil, err
	}
	if l.ProjectName == "" {
		return nil, fmt.Errorf("project name must not be empty")
	}

	path := l.environmentFilePath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.NewConfigNotFoundError(
			fmt.Sprintf("Environment config file not found: %s", path),
			fmt.Sprintf("No configuration exists for environment '%s'", l.EnvName),
			fmt.Sprintf("Create %s or pick one of the existing environments", path),
			fmt.Errorf("environment config file not found: %s", path),
		)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.NewConfigParseError(
			fmt.Sprintf("Failed to read environment config file: %s", path),
			"The file is not valid YAML",
			"Fix the YAML syntax and run the command again",
			fmt.Errorf("failed to parse environment config file - malformed YAML: %w", err),
		)
	}

	var cfg config.InfrastructureConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.NewConfigParseError(
			fmt.Sprintf("Failed to decode environment config file: %s", path),
			"A field has a value of the wrong type",
			"Check field types against the documented schema",
			fmt.Errorf("failed to decode environment config file: %w", err),
		)
	}

	cfg.EnvName = envName
	cfg.ProjectName = l.ProjectName

	if err := config.Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (l *Loader) environmentFilePath() string {
	return filepath.Join(l.ConfigDir, "environments", l.EnvName+".yaml")
}
