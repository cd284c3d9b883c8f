package synth

import (
	"encoding/json"
	"fmt"

	"stackforge/pkg/config"
	"stackforge/pkg/template"
)

// CicdK8sDeployStack declares the build project that applies the Kubernetes
// manifests against the EKS cluster once the image pipeline has produced a
// new tag.
type CicdK8sDeployStack struct{}

func (s *CicdK8sDeployStack) Name() string { return stackCicdK8sDeploy }

func (s *CicdK8sDeployStack) DependsOn() []string { return []string{stackEksBackend} }

func (s *CicdK8sDeployStack) Build(cfg *config.InfrastructureConfig) (*template.Template, error) {
	t := template.New(fmt.Sprintf("CI/CD Kubernetes deploy stack for %s", cfg.Prefix("eks-cluster")))
	tags := template.TagList(cfg.Tags())

	t.AddResource("DeployRole", "AWS::IAM::Role", map[string]any{
		"RoleName":                 cfg.Prefix("k8s-deploy-role"),
		"AssumeRolePolicyDocument": assumeRolePolicy("codebuild.amazonaws.com"),
		"Policies": []any{
			map[string]any{
				"PolicyName": "k8s-deploy-access",
				"PolicyDocument": map[string]any{
					"Version": "2012-10-17",
					"Statement": []any{
						map[string]any{
							"Effect": "Allow",
							"Action": []string{
								"eks:DescribeCluster",
								"eks:ListClusters",
								"ssm:GetParameter",
								"ssm:PutParameter",
								"logs:CreateLogGroup",
								"logs:CreateLogStream",
								"logs:PutLogEvents",
							},
							"Resource": "*",
						},
					},
				},
			},
		},
		"Tags": tags,
	})

	t.AddResource("DeployProject", "AWS::CodeBuild::Project", map[string]any{
		"Name":        cfg.Prefix("k8s-deploy"),
		"ServiceRole": template.GetAtt("DeployRole", "Arn"),
		"Source": map[string]any{
			"Type": "NO_SOURCE",
			"BuildSpec": buildSpec([]string{
				"aws eks update-kubeconfig --name $CLUSTER_NAME",
				"kubectl apply -k manifests/overlays/$ENV_NAME",
			}),
		},
		"Artifacts": map[string]any{"Type": "NO_ARTIFACTS"},
		"Environment": map[string]any{
			"Type":        "LINUX_CONTAINER",
			"ComputeType": "BUILD_GENERAL1_SMALL",
			"Image":       "aws/codebuild/standard:7.0",
			"EnvironmentVariables": []any{
				map[string]any{"Name": "ENV_NAME", "Value": cfg.EnvName.String()},
				map[string]any{"Name": "CLUSTER_NAME", "Value": template.ImportValue(eksClusterNameExport(cfg))},
				map[string]any{"Name": "IMAGE_TAG", "Value": cfg.Backend.EcrImageTag},
				map[string]any{"Name": "DESIRED_COUNT", "Value": fmt.Sprintf("%d", cfg.Backend.DesiredCount)},
				map[string]any{"Name": "TASK_CPU", "Value": cfg.Backend.TaskCpu},
				map[string]any{"Name": "TASK_MEMORY", "Value": cfg.Backend.TaskMemory},
				map[string]any{"Name": "AUTOSCALING_MIN", "Value": fmt.Sprintf("%d", cfg.Backend.AutoScalingMinCapacity)},
				map[string]any{"Name": "AUTOSCALING_MAX", "Value": fmt.Sprintf("%d", cfg.Backend.AutoScalingMaxCapacity)},
			},
		},
		"Tags": tags,
	})

	t.AddOutput("DeployProjectName", "Kubernetes deploy project",
		template.Ref("DeployProject"), exportName(cfg, stackCicdK8sDeploy, "deploy-project-name"))

	return t, nil
}

// buildSpec renders an inline CodeBuild buildspec with the given build
// commands. BuildSpec is a string property, so the document is serialized.
func buildSpec(commands []string) string {
	spec := map[string]any{
		"version": "0.2",
		"phases": map[string]any{
			"build": map[string]any{
				"commands": commands,
			},
		},
	}
	data, err := json.Marshal(spec)
	if err != nil {
		// A map of strings always marshals.
		panic(err)
	}
	return string(data)
}
