package synth

import (
	"stackforge/pkg/config"
	"stackforge/pkg/template"
)

// Stack represents a single stack in the synthesis workflow. Each stack
// implements this interface to provide its name, its upstream dependencies,
// and the template it declares for a given configuration.
type Stack interface {
	Name() string
	DependsOn() []string
	Build(cfg *config.InfrastructureConfig) (*template.Template, error)
}
