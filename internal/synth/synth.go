package synth

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"stackforge/internal/errors"
	"stackforge/internal/ui"
	"stackforge/pkg/config"
)

// App orchestrates synthesis of every stack in a fixed dependency order and
// writes one template file per stack plus a run manifest into the output
// directory.
type App struct {
	cfg     *config.InfrastructureConfig
	outDir  string
	stacks  []Stack
	console *ui.Console
}

func NewApp(cfg *config.InfrastructureConfig, outDir string) *App {
	return &App{
		cfg:     cfg,
		outDir:  outDir,
		stacks:  DefaultStacks(),
		console: ui.NewConsole(),
	}
}

// DefaultStacks returns every stack in synthesis order. The order is explicit:
// downstream stacks import values exported by the ones before them.
func DefaultStacks() []Stack {
	return []Stack{
		&NetworkStack{},
		&SecurityStack{},
		&DatabaseStack{},
		&EksBackendStack{},
		&FrontendStack{},
		&CicdFrontendStack{},
		&CicdBackendStack{},
		&CicdK8sDeployStack{},
		&DnsStack{},
	}
}

// Synth builds and writes every stack template. The first failure aborts the
// run; nothing is recovered.
func (a *App) Synth() (*Manifest, error) {
	runID := uuid.New().String()
	slog.Info("Starting synthesis", "runId", runID, "env", a.cfg.EnvName, "project", a.cfg.ProjectName, "outDir", a.outDir)

	if err := os.MkdirAll(a.outDir, 0750); err != nil {
		return nil, errors.NewFileSystemError(
			fmt.Sprintf("Failed to create output directory: %s", a.outDir),
			"The directory could not be created",
			"Check permissions on the parent directory",
			fmt.Errorf("failed to create output directory: %w", err),
		)
	}

	manifest := newManifest(a.cfg, runID)

	for i, stack := range a.stacks {
		a.console.PrintStage(i+1, stack.Name())

		tpl, err := stack.Build(a.cfg)
		if err != nil {
			return nil, errors.NewSynthError(
				fmt.Sprintf("Failed to synthesize stack: %s", stack.Name()),
				err.Error(),
				"Check the environment configuration for this stack",
				fmt.Errorf("failed to synthesize stack %s: %w", stack.Name(), err),
			)
		}

		data, err := tpl.JSON()
		if err != nil {
			return nil, errors.NewSynthError(
				fmt.Sprintf("Failed to render stack template: %s", stack.Name()),
				err.Error(),
				"",
				fmt.Errorf("failed to render stack %s: %w", stack.Name(), err),
			)
		}

		fileName := a.cfg.Prefix(stack.Name()) + ".template.json"
		if err := os.WriteFile(filepath.Join(a.outDir, fileName), data, 0644); err != nil {
			return nil, errors.NewFileSystemError(
				fmt.Sprintf("Failed to write stack template: %s", fileName),
				"The template file could not be written",
				"Check permissions on the output directory",
				fmt.Errorf("failed to write stack template %s: %w", fileName, err),
			)
		}

		manifest.addStack(stack.Name(), fileName, len(tpl.Resources), stack.DependsOn())
		slog.Info("Stack synthesized", "stack", stack.Name(), "file", fileName, "resources", len(tpl.Resources))
	}

	if err := manifest.write(a.outDir); err != nil {
		return nil, errors.NewFileSystemError(
			"Failed to write synthesis manifest",
			err.Error(),
			"Check permissions on the output directory",
			err,
		)
	}

	a.console.PrintSuccess(fmt.Sprintf("Synthesized %d stacks to %s", len(a.stacks), a.outDir))
	slog.Info("Synthesis completed", "runId", runID, "stacks", len(a.stacks))
	return manifest, nil
}
