package loader

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"stackforge/internal/errors"
	"stackforge/pkg/config"
)

const validDevYaml = `aws:
  account: "123456789012"
  region: eu-west-1

vpc:
  cidr: "10.0.0.0/16"
  max_azs: 3
  reserved_azs: 3
  nat_gateways: 1

database:
  backup_retention: 7
  serverless_v2_min_capacity: 1.0
  serverless_v2_max_capacity: 4.0

backend:
  desired_count: 2
  certificate_arn: "arn:aws:acm:eu-west-1:123456789012:certificate/abc-123"
  ecr_repository_name: "services/eks/fastapi-app"
  auto_scaling_min_capacity: 2
  auto_scaling_max_capacity: 6
  container_env_vars:
    log_level: debug

frontend:
  domain_name: "dev-frontend.example.com"
  certificate_arn: "arn:aws:acm:us-east-1:123456789012:certificate/def-456"

cicd_fronend:
  github_connection_arn: "arn:aws:codeconnections:eu-west-1:123456789012:connection/ghi-789"
  github_owner: "example-org"
  github_frontend_repo: "frontend"
  github_frontend_branch: "dev"

cicd_backend:
  github_connection_arn: "arn:aws:codeconnections:eu-west-1:123456789012:connection/ghi-789"
  github_owner: "example-org"
  github_backend_repo: "backend"
  github_backend_branch: "dev"

dns:
  hosted_zone_id: "Z0123456789"
  zone_name: "example.com"
  frontend_domain_name: "dev-frontend.example.com"
  backend_domain_name: "dev-backend.example.com"
`

// writeEnvFile lays out <dir>/environments/<env>.yaml and returns a Loader
// pointed at it.
func writeEnvFile(t *testing.T, env, content string) *Loader {
	t.Helper()

	dir := t.TempDir()
	envDir := filepath.Join(dir, "environments")
	if err := os.MkdirAll(envDir, 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(envDir, env+".yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	l := New(env, "acme")
	l.ConfigDir = dir
	return l
}

func TestLoad_ValidEnvironmentFile(t *testing.T) {
	l := writeEnvFile(t, "dev", validDevYaml)

	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.EnvName != config.EnvDev {
		t.Errorf("EnvName = %q, want %q", cfg.EnvName, config.EnvDev)
	}
	if cfg.ProjectName != "acme" {
		t.Errorf("ProjectName = %q, want %q", cfg.ProjectName, "acme")
	}
	if cfg.Aws.Account != "123456789012" {
		t.Errorf("Aws.Account = %q, want %q", cfg.Aws.Account, "123456789012")
	}
	if cfg.Aws.Region != config.RegionEuWest1 {
		t.Errorf("Aws.Region = %q, want %q", cfg.Aws.Region, config.RegionEuWest1)
	}
	if cfg.Database.BackupRetention != 7 {
		t.Errorf("Database.BackupRetention = %d, want 7", cfg.Database.BackupRetention)
	}
	if cfg.Database.ServerlessV2MaxCapacity != 4.0 {
		t.Errorf("Database.ServerlessV2MaxCapacity = %g, want 4.0", cfg.Database.ServerlessV2MaxCapacity)
	}
	if cfg.Backend.DesiredCount != 2 {
		t.Errorf("Backend.DesiredCount = %d, want 2", cfg.Backend.DesiredCount)
	}
	if cfg.Backend.ContainerEnvVars["log_level"] != "debug" {
		t.Errorf("Backend.ContainerEnvVars = %v, want log_level=debug", cfg.Backend.ContainerEnvVars)
	}
	if cfg.CicdFrontend.GithubFrontendRepo != "frontend" {
		t.Errorf("CicdFrontend.GithubFrontendRepo = %q, want %q", cfg.CicdFrontend.GithubFrontendRepo, "frontend")
	}
	if cfg.Dns.ZoneName != "example.com" {
		t.Errorf("Dns.ZoneName = %q, want %q", cfg.Dns.ZoneName, "example.com")
	}
}

func TestLoad_DefaultsSubstitution(t *testing.T) {
	// Only required fields; everything optional must fall back to schema defaults.
	minimalYaml := `aws:
  account: "123456789012"
  region: eu-west-1

backend:
  certificate_arn: "arn:aws:acm:eu-west-1:123456789012:certificate/abc-123"
  ecr_repository_name: "services/eks/fastapi-app"

frontend:
  domain_name: "dev-frontend.example.com"
  certificate_arn: "arn:aws:acm:us-east-1:123456789012:certificate/def-456"

cicd_fronend:
  github_connection_arn: "arn:aws:codeconnections:eu-west-1:123456789012:connection/ghi-789"
  github_owner: "example-org"
  github_frontend_repo: "frontend"
  github_frontend_branch: "dev"

cicd_backend:
  github_connection_arn: "arn:aws:codeconnections:eu-west-1:123456789012:connection/ghi-789"
  github_owner: "example-org"
  github_backend_repo: "backend"
  github_backend_branch: "dev"

dns:
  hosted_zone_id: "Z0123456789"
  zone_name: "example.com"
  frontend_domain_name: "dev-frontend.example.com"
  backend_domain_name: "dev-backend.example.com"
`
	l := writeEnvFile(t, "dev", minimalYaml)

	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Vpc.Cidr != "10.0.0.0/16" {
		t.Errorf("Vpc.Cidr = %q, want default %q", cfg.Vpc.Cidr, "10.0.0.0/16")
	}
	if cfg.Vpc.MaxAZs != 3 || cfg.Vpc.ReservedAZs != 3 || cfg.Vpc.NatGateways != 1 {
		t.Errorf("Vpc defaults = %+v, want max_azs=3 reserved_azs=3 nat_gateways=1", cfg.Vpc)
	}
	if !cfg.Vpc.AutomaticSubnetCreation {
		t.Error("Vpc.AutomaticSubnetCreation should default to true")
	}
	if cfg.Database.BackupRetention != 2 {
		t.Errorf("Database.BackupRetention = %d, want default 2", cfg.Database.BackupRetention)
	}
	if cfg.Database.ServerlessV2MinCapacity != 0.5 || cfg.Database.ServerlessV2MaxCapacity != 2.0 {
		t.Errorf("Database capacity defaults = %g/%g, want 0.5/2.0",
			cfg.Database.ServerlessV2MinCapacity, cfg.Database.ServerlessV2MaxCapacity)
	}
	if cfg.Database.MasterUsername != "postgres" {
		t.Errorf("Database.MasterUsername = %q, want default %q", cfg.Database.MasterUsername, "postgres")
	}
	if cfg.Backend.TaskCpu != "500m" || cfg.Backend.TaskMemory != "512Mi" {
		t.Errorf("Backend task sizing defaults = %q/%q, want 500m/512Mi", cfg.Backend.TaskCpu, cfg.Backend.TaskMemory)
	}
	if cfg.Backend.AutoScalingMinCapacity != 1 || cfg.Backend.AutoScalingMaxCapacity != 5 {
		t.Errorf("Backend auto-scaling defaults = %d/%d, want 1/5",
			cfg.Backend.AutoScalingMinCapacity, cfg.Backend.AutoScalingMaxCapacity)
	}
	if cfg.Backend.EcrImageTag != "latest" {
		t.Errorf("Backend.EcrImageTag = %q, want default %q", cfg.Backend.EcrImageTag, "latest")
	}
	if cfg.Frontend.CertificateProvider != "acm" {
		t.Errorf("Frontend.CertificateProvider = %q, want default %q", cfg.Frontend.CertificateProvider, "acm")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	l := New("dev", "acme")
	l.ConfigDir = t.TempDir()

	_, err := l.Load()
	if err == nil {
		t.Fatal("Load() should fail for a missing environment file")
	}
	if !stderrors.Is(err, errors.ErrConfigNotFound) {
		t.Errorf("Load() error should match ErrConfigNotFound, got: %v", err)
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("Load() error = %q, want it to mention the missing file", err)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	l := writeEnvFile(t, "dev", "aws:\n  account: \"unclosed\n  region: [")

	_, err := l.Load()
	if err == nil {
		t.Fatal("Load() should fail for malformed YAML")
	}
	if !stderrors.Is(err, errors.ErrConfigParseFailed) {
		t.Errorf("Load() error should match ErrConfigParseFailed, got: %v", err)
	}
}

func TestLoad_UnknownEnvironmentName(t *testing.T) {
	l := New("production", "acme")

	_, err := l.Load()
	if err == nil {
		t.Fatal("Load() should reject an environment outside the closed set")
	}
	if !strings.Contains(err.Error(), "unknown environment name") {
		t.Errorf("Load() error = %q, want it to name the bad environment", err)
	}
}

func TestLoad_EmptyProjectName(t *testing.T) {
	l := New("dev", "")

	if _, err := l.Load(); err == nil {
		t.Fatal("Load() should reject an empty project name")
	}
}

func TestLoad_CrossFieldViolationPropagates(t *testing.T) {
	broken := strings.Replace(validDevYaml,
		"serverless_v2_min_capacity: 1.0", "serverless_v2_min_capacity: 8.0", 1)
	l := writeEnvFile(t, "dev", broken)

	_, err := l.Load()
	if err == nil {
		t.Fatal("Load() should fail when min capacity is not below max capacity")
	}
	if !strings.Contains(err.Error(), "serverless_v2_min_capacity (8)") ||
		!strings.Contains(err.Error(), "serverless_v2_max_capacity (4)") {
		t.Errorf("Load() error = %q, want both compared capacities in the message", err)
	}
}

func TestLoad_Deterministic(t *testing.T) {
	l := writeEnvFile(t, "dev", validDevYaml)

	first, err := l.Load()
	if err != nil {
		t.Fatalf("first Load() returned error: %v", err)
	}
	second, err := l.Load()
	if err != nil {
		t.Fatalf("second Load() returned error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("two loads with identical inputs should produce value-equal aggregates")
	}
}
