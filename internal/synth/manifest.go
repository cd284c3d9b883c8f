package synth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"stackforge/pkg/config"
)

const (
	ManifestFileName      = "manifest.json"
	ManifestSchemaVersion = "1.0"
)

// Manifest records one synthesis run: which stacks were emitted, in what
// order, and into which files.
type Manifest struct {
	SchemaVersion string          `json:"schema_version"`
	RunID         string          `json:"run_id"`
	EnvName       string          `json:"env_name"`
	ProjectName   string          `json:"project_name"`
	CreatedAt     time.Time       `json:"created_at"`
	Stacks        []StackArtifact `json:"stacks"`
}

// StackArtifact describes one emitted stack template.
type StackArtifact struct {
	Name          string   `json:"name"`
	TemplateFile  string   `json:"template_file"`
	ResourceCount int      `json:"resource_count"`
	DependsOn     []string `json:"depends_on,omitempty"`
}

func newManifest(cfg *config.InfrastructureConfig, runID string) *Manifest {
	return &Manifest{
		SchemaVersion: ManifestSchemaVersion,
		RunID:         runID,
		EnvName:       cfg.EnvName.String(),
		ProjectName:   cfg.ProjectName,
		CreatedAt:     time.Now().UTC(),
	}
}

func (m *Manifest) addStack(name, templateFile string, resourceCount int, dependsOn []string) {
	m.Stacks = append(m.Stacks, StackArtifact{
		Name:          name,
		TemplateFile:  templateFile,
		ResourceCount: resourceCount,
		DependsOn:     dependsOn,
	})
}

func (m *Manifest) write(outDir string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	path := filepath.Join(outDir, ManifestFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest file: %w", err)
	}
	return nil
}

// ReadManifest loads a previously written manifest, for inspection and tests.
func ReadManifest(outDir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(outDir, ManifestFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest file: %w", err)
	}
	return &m, nil
}
