package synth

import (
	"fmt"

	"stackforge/pkg/config"
)

// Stack names match the resource-name prefixes used by the deployed stacks.
const (
	stackNetwork       = "network-stack"
	stackSecurity      = "security-stack"
	stackDatabase      = "database-stack"
	stackEksBackend    = "eks-backend-stack"
	stackFrontend      = "frontend-stack"
	stackCicdFrontend  = "cicd-frontend-stack"
	stackCicdBackend   = "cicd-backend-stack"
	stackCicdK8sDeploy = "cicd-k8s-deploy-stack"
	stackDns           = "dns-stack"
)

// exportName derives the export name for a cross-stack output. Downstream
// stacks import values by these names instead of holding object references.
func exportName(cfg *config.InfrastructureConfig, stackName, suffix string) string {
	return cfg.Prefix(stackName) + "-" + suffix
}

func vpcIDExport(cfg *config.InfrastructureConfig) string {
	return exportName(cfg, stackNetwork, "vpc-id")
}

func subnetIDsExport(cfg *config.InfrastructureConfig, group string) string {
	return exportName(cfg, stackNetwork, group+"-subnet-ids")
}

func securityGroupExport(cfg *config.InfrastructureConfig, name string) string {
	return exportName(cfg, stackSecurity, name+"-sg-id")
}

func dbEndpointExport(cfg *config.InfrastructureConfig) string {
	return exportName(cfg, stackDatabase, "db-endpoint")
}

func dbSecretArnExport(cfg *config.InfrastructureConfig) string {
	return exportName(cfg, stackDatabase, "db-secret-arn")
}

func eksClusterNameExport(cfg *config.InfrastructureConfig) string {
	return exportName(cfg, stackEksBackend, "cluster-name")
}

func frontendBucketExport(cfg *config.InfrastructureConfig) string {
	return exportName(cfg, stackFrontend, "site-bucket-name")
}

func distributionIDExport(cfg *config.InfrastructureConfig) string {
	return exportName(cfg, stackFrontend, "distribution-id")
}

func distributionDomainExport(cfg *config.InfrastructureConfig) string {
	return exportName(cfg, stackFrontend, "distribution-domain")
}

// ingressDnsParameterName is the SSM parameter the backend pipeline publishes
// the ingress ALB DNS name under; the DNS stack resolves it at deploy time.
func ingressDnsParameterName(cfg *config.InfrastructureConfig) string {
	return fmt.Sprintf("/%s/%s/fastapi/ingress_dns", cfg.ProjectName, cfg.EnvName)
}
