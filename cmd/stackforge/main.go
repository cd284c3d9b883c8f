package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v9"
	"github.com/spf13/cobra"

	sferrors "stackforge/internal/errors"
	"stackforge/internal/loader"
	"stackforge/internal/synth"
	"stackforge/internal/ui"
	"stackforge/pkg/config"
)

// version is set at build time via ldflags
var version = "dev"

// selectorDefaults resolves the environment and project selectors from the
// process environment; flags override these.
type selectorDefaults struct {
	Env     string `env:"STACKFORGE_ENV" envDefault:"dev"`
	Project string `env:"STACKFORGE_PROJECT" envDefault:"piercuta"`
}

var rootCmd = &cobra.Command{
	Use:     "stackforge",
	Short:   "StackForge - declarative AWS infrastructure synthesizer",
	Version: version,
	Long: `StackForge loads a typed per-environment configuration and synthesizes
CloudFormation templates for the full multi-stack topology: network, security,
database, EKS backend, frontend, CI/CD pipelines and DNS.`,
}

var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Synthesize every stack template for an environment",
	Long: `Synth loads the environment configuration, validates it, and emits one
CloudFormation template per stack plus a run manifest into the output directory.
Stacks are synthesized in a fixed dependency order.`,
	Run: func(cmd *cobra.Command, args []string) {
		envName, _ := cmd.Flags().GetString("env")
		project, _ := cmd.Flags().GetString("project")
		configDir, _ := cmd.Flags().GetString("config-dir")
		outDir, _ := cmd.Flags().GetString("out")

		cfg, err := loadConfig(envName, project, configDir)
		if err != nil {
			sferrors.HandleError(err)
			os.Exit(1)
		}

		app := synth.NewApp(cfg, outDir)
		manifest, err := app.Synth()
		if err != nil {
			sferrors.HandleError(err)
			os.Exit(1)
		}

		fmt.Printf("Synthesis run %s completed: %d stacks written to %s\n", manifest.RunID, len(manifest.Stacks), outDir)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and validate an environment configuration",
	Long: `Validate loads the environment configuration file, substitutes schema
defaults, and runs every field constraint and cross-field invariant without
synthesizing any template.`,
	Run: func(cmd *cobra.Command, args []string) {
		envName, _ := cmd.Flags().GetString("env")
		project, _ := cmd.Flags().GetString("project")
		configDir, _ := cmd.Flags().GetString("config-dir")

		cfg, err := loadConfig(envName, project, configDir)
		if err != nil {
			sferrors.HandleError(err)
			os.Exit(1)
		}

		fmt.Printf("Configuration for environment '%s' (project '%s') is valid.\n", cfg.EnvName, cfg.ProjectName)
	},
}

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stacks in synthesis order",
	Run: func(cmd *cobra.Command, args []string) {
		console := ui.NewConsole()
		var entries [][2]string
		for _, stack := range synth.DefaultStacks() {
			deps := ""
			for i, dep := range stack.DependsOn() {
				if i > 0 {
					deps += ", "
				}
				deps += dep
			}
			entries = append(entries, [2]string{stack.Name(), deps})
		}
		console.PrintStackList(entries)
	},
}

func loadConfig(envName, project, configDir string) (*config.InfrastructureConfig, error) {
	l := loader.New(envName, project)
	if configDir != "" {
		l.ConfigDir = configDir
	}
	slog.Info("Loading environment configuration", "env", envName, "project", project, "configDir", l.ConfigDir)
	return l.Load()
}

func init() {
	defaults := selectorDefaults{}
	if err := env.Parse(&defaults); err != nil {
		slog.Error("Failed to parse selector environment variables", "error", err)
		defaults = selectorDefaults{Env: "dev", Project: "piercuta"}
	}

	for _, cmd := range []*cobra.Command{synthCmd, validateCmd} {
		cmd.Flags().StringP("env", "e", defaults.Env, "Target environment (dev, staging, prod)")
		cmd.Flags().StringP("project", "p", defaults.Project, "Project name used in resource prefixes")
		cmd.Flags().String("config-dir", "config", "Directory holding environments/<env>.yaml")
	}
	synthCmd.Flags().StringP("out", "o", "out", "Output directory for templates and the manifest")

	rootCmd.AddCommand(synthCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(lsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
