package synth

import (
	"fmt"

	"stackforge/pkg/config"
	"stackforge/pkg/template"
)

// EksBackendStack declares a minimal EKS cluster for the GitOps backend. All
// addons and workloads are managed via ArgoCD from a separate repository, so
// the stack only owns the cluster, its IAM roles and the node access entry.
type EksBackendStack struct{}

func (s *EksBackendStack) Name() string { return stackEksBackend }

func (s *EksBackendStack) DependsOn() []string {
	return []string{stackNetwork, stackSecurity, stackDatabase}
}

func (s *EksBackendStack) Build(cfg *config.InfrastructureConfig) (*template.Template, error) {
	t := template.New(fmt.Sprintf("EKS backend stack for %s", cfg.Prefix("eks-cluster")))
	tags := template.TagList(cfg.Tags())

	t.AddResource("ClusterRole", "AWS::IAM::Role", map[string]any{
		"RoleName":                 cfg.Prefix("eks-cluster-role"),
		"AssumeRolePolicyDocument": assumeRolePolicy("eks.amazonaws.com"),
		"ManagedPolicyArns": []string{
			"arn:aws:iam::aws:policy/AmazonEKSClusterPolicy",
		},
		"Tags": tags,
	})

	t.AddResource("AutoNodeRole", "AWS::IAM::Role", map[string]any{
		"RoleName":                 cfg.Prefix("eks-auto-node-role"),
		"AssumeRolePolicyDocument": assumeRolePolicy("ec2.amazonaws.com"),
		"ManagedPolicyArns": []string{
			"arn:aws:iam::aws:policy/AmazonEKSWorkerNodePolicy",
			"arn:aws:iam::aws:policy/AmazonEC2ContainerRegistryReadOnly",
			"arn:aws:iam::aws:policy/AmazonEKS_CNI_Policy",
		},
		"Tags": tags,
	})

	t.AddResource("Cluster", "AWS::EKS::Cluster", map[string]any{
		"Name":    cfg.Prefix("eks-cluster"),
		"RoleArn": template.GetAtt("ClusterRole", "Arn"),
		"AccessConfig": map[string]any{
			"AuthenticationMode": "API_AND_CONFIG_MAP",
		},
		"ResourcesVpcConfig": map[string]any{
			"SubnetIds": template.Split(",", template.ImportValue(subnetIDsExport(cfg, "eks-private-nat"))),
			"SecurityGroupIds": []any{
				template.ImportValue(securityGroupExport(cfg, "eks-cluster-additional")),
			},
		},
		"Tags": tags,
	})

	t.AddResource("NodeAccessEntry", "AWS::EKS::AccessEntry", map[string]any{
		"ClusterName":  template.Ref("Cluster"),
		"PrincipalArn": template.GetAtt("AutoNodeRole", "Arn"),
		"Type":         "EC2_LINUX",
	})

	t.AddOutput("ClusterName", "EKS cluster name",
		template.Ref("Cluster"), eksClusterNameExport(cfg))
	t.AddOutput("AutoNodeRoleArn", "Node role assumed by EKS managed nodes",
		template.GetAtt("AutoNodeRole", "Arn"), exportName(cfg, stackEksBackend, "auto-node-role-arn"))

	return t, nil
}

// assumeRolePolicy builds a trust policy for a single service principal.
func assumeRolePolicy(service string) map[string]any {
	return map[string]any{
		"Version": "2012-10-17",
		"Statement": []any{
			map[string]any{
				"Effect":    "Allow",
				"Principal": map[string]any{"Service": service},
				"Action":    "sts:AssumeRole",
			},
		},
	}
}
