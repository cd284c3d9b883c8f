package config

// InfrastructureConfig is the root object holding the entire validated
// configuration for one synthesis run. It is assembled once by the loader
// from a per-environment YAML file and never mutated afterwards.
type InfrastructureConfig struct {
	EnvName     EnvironmentName `mapstructure:"env_name" validate:"required,oneof=dev staging prod"`
	ProjectName string          `mapstructure:"project_name" validate:"required"`

	Aws          AwsConfig          `mapstructure:"aws"`
	Vpc          VpcConfig          `mapstructure:"vpc"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Backend      BackendConfig      `mapstructure:"backend"`
	Frontend     FrontendConfig     `mapstructure:"frontend"`
	CicdFrontend CicdFrontendConfig `mapstructure:"cicd_fronend"`
	CicdBackend  CicdBackendConfig  `mapstructure:"cicd_backend"`
	Dns          DnsConfig          `mapstructure:"dns"`
}

// Prefix generates the standardized resource name prefix.
func (c *InfrastructureConfig) Prefix(base string) string {
	return c.ProjectName + "-" + c.EnvName.String() + "-" + base
}

// Tags returns the standard tag set applied to every synthesized stack.
func (c *InfrastructureConfig) Tags() map[string]string {
	return map[string]string{
		"EnvName":     c.EnvName.String(),
		"ProjectName": c.ProjectName,
		"ManagedBy":   "CDK",
	}
}

// AwsConfig defines the target account and region. Both fields are required;
// there are no embedded account defaults.
type AwsConfig struct {
	Account string    `mapstructure:"account" validate:"required"`
	Region  AwsRegion `mapstructure:"region" validate:"required,oneof=eu-west-1 eu-west-2 eu-west-3 eu-central-1 us-east-1 us-east-2 us-west-1 us-west-2"`
}

// VpcConfig defines the private network layout. MaxAZs must cover ReservedAZs,
// which is enforced as a cross-field invariant.
type VpcConfig struct {
	Cidr                    string `mapstructure:"cidr" validate:"required,cidrv4"`
	MaxAZs                  int    `mapstructure:"max_azs" validate:"gte=1"`
	ReservedAZs             int    `mapstructure:"reserved_azs" validate:"gte=0"`
	NatGateways             int    `mapstructure:"nat_gateways" validate:"gte=0"`
	AutomaticSubnetCreation bool   `mapstructure:"automatic_subnet_creation"`
}

// DatabaseConfig defines the Aurora Serverless v2 cluster parameters.
// Minimum capacity starts at 0.5 ACU and must stay below the maximum.
type DatabaseConfig struct {
	SnapshotIdentifier      string  `mapstructure:"snapshot_identifier"`
	BackupRetention         int     `mapstructure:"backup_retention" validate:"gte=0"`
	InstanceReader          bool    `mapstructure:"instance_reader"`
	ServerlessV2MinCapacity float64 `mapstructure:"serverless_v2_min_capacity" validate:"gte=0.5"`
	ServerlessV2MaxCapacity float64 `mapstructure:"serverless_v2_max_capacity" validate:"required"`
	MasterUsername          string  `mapstructure:"master_username" validate:"required"`
}

// BackendConfig defines the containerized backend workload: task sizing,
// auto-scaling bounds and the image it runs.
type BackendConfig struct {
	TaskCpu                string            `mapstructure:"task_cpu" validate:"required"`
	TaskMemory             string            `mapstructure:"task_memory" validate:"required"`
	DesiredCount           int               `mapstructure:"desired_count" validate:"gte=1"`
	CertificateArn         string            `mapstructure:"certificate_arn" validate:"required,acm_arn"`
	ContainerEnvVars       map[string]string `mapstructure:"container_env_vars"`
	AutoScalingMinCapacity int               `mapstructure:"auto_scaling_min_capacity" validate:"gte=1"`
	AutoScalingMaxCapacity int               `mapstructure:"auto_scaling_max_capacity" validate:"required"`
	EcrRepositoryName      string            `mapstructure:"ecr_repository_name" validate:"required"`
	EcrImageTag            string            `mapstructure:"ecr_image_tag" validate:"required"`
}

// FrontendConfig defines the CloudFront distribution parameters.
type FrontendConfig struct {
	DomainName          string `mapstructure:"domain_name" validate:"required,fqdn"`
	CertificateArn      string `mapstructure:"certificate_arn" validate:"required,acm_arn"`
	CertificateProvider string `mapstructure:"certificate_provider" validate:"required"`
}

// CicdFrontendConfig defines the source coordinates for the frontend pipeline.
type CicdFrontendConfig struct {
	GithubConnectionArn  string `mapstructure:"github_connection_arn" validate:"required,codeconnections_arn"`
	GithubOwner          string `mapstructure:"github_owner" validate:"required"`
	GithubFrontendRepo   string `mapstructure:"github_frontend_repo" validate:"required"`
	GithubFrontendBranch string `mapstructure:"github_frontend_branch" validate:"required"`
}

// CicdBackendConfig defines the source coordinates for the backend pipeline.
type CicdBackendConfig struct {
	GithubConnectionArn string `mapstructure:"github_connection_arn" validate:"required,codeconnections_arn"`
	GithubOwner         string `mapstructure:"github_owner" validate:"required"`
	GithubBackendRepo   string `mapstructure:"github_backend_repo" validate:"required"`
	GithubBackendBranch string `mapstructure:"github_backend_branch" validate:"required"`
}

// DnsConfig defines the Route53 zone and the record names published into it.
type DnsConfig struct {
	HostedZoneId       string `mapstructure:"hosted_zone_id" validate:"required"`
	ZoneName           string `mapstructure:"zone_name" validate:"required,fqdn"`
	FrontendDomainName string `mapstructure:"frontend_domain_name" validate:"required,fqdn"`
	BackendDomainName  string `mapstructure:"backend_domain_name" validate:"required,fqdn"`
}
