package synth

import (
	"fmt"

	"stackforge/pkg/config"
	"stackforge/pkg/template"
)

// CicdBackendStack declares the backend delivery chain: the ECR repository,
// the image build pipeline and the IAM roles the workload assumes in the
// cluster.
type CicdBackendStack struct{}

func (s *CicdBackendStack) Name() string { return stackCicdBackend }

func (s *CicdBackendStack) DependsOn() []string {
	return []string{stackEksBackend, stackDatabase}
}

func (s *CicdBackendStack) Build(cfg *config.InfrastructureConfig) (*template.Template, error) {
	cicd := cfg.CicdBackend
	t := template.New(fmt.Sprintf("CI/CD backend stack for %s/%s", cicd.GithubOwner, cicd.GithubBackendRepo))
	tags := template.TagList(cfg.Tags())

	t.AddResource("EcrRepository", "AWS::ECR::Repository", map[string]any{
		"RepositoryName": cfg.Backend.EcrRepositoryName,
		"Tags":           tags,
	})

	t.AddResource("ServiceAccountRole", "AWS::IAM::Role", map[string]any{
		"RoleName":                 cfg.Prefix("fastapi-serviceaccount-role"),
		"AssumeRolePolicyDocument": assumeRolePolicy("pods.eks.amazonaws.com"),
		"Policies": []any{
			map[string]any{
				"PolicyName": "fastapi-runtime-access",
				"PolicyDocument": map[string]any{
					"Version": "2012-10-17",
					"Statement": []any{
						map[string]any{
							"Effect": "Allow",
							"Action": []string{
								"secretsmanager:GetSecretValue",
								"ssm:GetParameter",
								"kms:Decrypt",
								"rds:*",
							},
							"Resource": "*",
						},
					},
				},
			},
		},
		"Tags": tags,
	})

	t.AddResource("BuildRole", "AWS::IAM::Role", map[string]any{
		"RoleName":                 cfg.Prefix("fastapi-codebuild-role"),
		"Description":              "IAM role for the FastAPI CodeBuild service",
		"AssumeRolePolicyDocument": assumeRolePolicy("codebuild.amazonaws.com"),
		"ManagedPolicyArns": []string{
			"arn:aws:iam::aws:policy/AWSCodeBuildDeveloperAccess",
		},
		"Policies": []any{
			map[string]any{
				"PolicyName": "fastapi-build-access",
				"PolicyDocument": map[string]any{
					"Version": "2012-10-17",
					"Statement": []any{
						map[string]any{
							"Effect": "Allow",
							"Action": []string{
								"eks:*",
								"ecr:*",
								"logs:*",
								"cloudwatch:*",
								"s3:*",
								"iam:GetRole",
								"iam:ListRoles",
								"iam:PassRole",
								"kms:*",
								"rds:*",
								"secretsmanager:*",
								"ssm:*",
							},
							"Resource": "*",
						},
					},
				},
			},
		},
		"Tags": tags,
	})

	containerEnv := []any{
		map[string]any{"Name": "ENV_NAME", "Value": cfg.EnvName.String()},
		map[string]any{"Name": "CLUSTER_NAME", "Value": template.ImportValue(eksClusterNameExport(cfg))},
		map[string]any{"Name": "DB_ENDPOINT", "Value": template.ImportValue(dbEndpointExport(cfg))},
		map[string]any{"Name": "ECR_REPOSITORY_URI", "Value": template.Sub(
			fmt.Sprintf("${AWS::AccountId}.dkr.ecr.${AWS::Region}.amazonaws.com/%s", cfg.Backend.EcrRepositoryName))},
		map[string]any{"Name": "IMAGE_TAG", "Value": cfg.Backend.EcrImageTag},
		map[string]any{"Name": "INGRESS_DNS_PARAMETER", "Value": ingressDnsParameterName(cfg)},
	}
	if cfg.Database.SnapshotIdentifier == "" {
		containerEnv = append(containerEnv,
			map[string]any{"Name": "DB_SECRET_ARN", "Value": template.ImportValue(dbSecretArnExport(cfg))})
	}
	for key, value := range cfg.Backend.ContainerEnvVars {
		containerEnv = append(containerEnv, map[string]any{"Name": key, "Value": value})
	}

	t.AddResource("BuildProject", "AWS::CodeBuild::Project", map[string]any{
		"Name":        cfg.Prefix("fastapi-build"),
		"ServiceRole": template.GetAtt("BuildRole", "Arn"),
		"Source":      map[string]any{"Type": "CODEPIPELINE"},
		"Artifacts":   map[string]any{"Type": "CODEPIPELINE"},
		"Environment": map[string]any{
			"Type":                 "LINUX_CONTAINER",
			"ComputeType":          "BUILD_GENERAL1_SMALL",
			"Image":                "aws/codebuild/standard:7.0",
			"PrivilegedMode":       true,
			"EnvironmentVariables": containerEnv,
		},
		"Tags": tags,
	})

	t.AddResource("ArtifactBucket", "AWS::S3::Bucket", map[string]any{
		"BucketName": cfg.Prefix("backend-pipeline-artifacts"),
		"Tags":       tags,
	})

	t.AddResource("PipelineRole", "AWS::IAM::Role", map[string]any{
		"RoleName":                 cfg.Prefix("backend-pipeline-role"),
		"AssumeRolePolicyDocument": assumeRolePolicy("codepipeline.amazonaws.com"),
		"Tags":                     tags,
	})

	t.AddResource("Pipeline", "AWS::CodePipeline::Pipeline", map[string]any{
		"Name":    cfg.Prefix("backend-pipeline"),
		"RoleArn": template.GetAtt("PipelineRole", "Arn"),
		"ArtifactStore": map[string]any{
			"Type":     "S3",
			"Location": template.Ref("ArtifactBucket"),
		},
		"Stages": []any{
			sourceStage(cicd.GithubConnectionArn, cicd.GithubOwner, cicd.GithubBackendRepo, cicd.GithubBackendBranch),
			buildStage("BuildProject"),
		},
		"Tags": tags,
	})

	t.AddOutput("IngressDnsParameterName", "SSM parameter the deploy publishes the ingress DNS name under",
		ingressDnsParameterName(cfg), exportName(cfg, stackCicdBackend, "ingress-dns-parameter"))
	t.AddOutput("EcrRepositoryUri", "ECR repository for backend images",
		template.GetAtt("EcrRepository", "RepositoryUri"), exportName(cfg, stackCicdBackend, "ecr-repository-uri"))

	return t, nil
}
