package synth

import (
	"fmt"

	"stackforge/pkg/config"
	"stackforge/pkg/template"
)

// CicdFrontendStack declares the pipeline that builds the frontend from GitHub
// and deploys the artifacts into the website bucket.
type CicdFrontendStack struct{}

func (s *CicdFrontendStack) Name() string { return stackCicdFrontend }

func (s *CicdFrontendStack) DependsOn() []string { return []string{stackFrontend} }

func (s *CicdFrontendStack) Build(cfg *config.InfrastructureConfig) (*template.Template, error) {
	cicd := cfg.CicdFrontend
	t := template.New(fmt.Sprintf("CI/CD frontend stack for %s/%s", cicd.GithubOwner, cicd.GithubFrontendRepo))
	tags := template.TagList(cfg.Tags())

	t.AddResource("ArtifactBucket", "AWS::S3::Bucket", map[string]any{
		"BucketName": cfg.Prefix("frontend-pipeline-artifacts"),
		"Tags":       tags,
	})

	t.AddResource("BuildRole", "AWS::IAM::Role", map[string]any{
		"RoleName":                 cfg.Prefix("frontend-codebuild-role"),
		"AssumeRolePolicyDocument": assumeRolePolicy("codebuild.amazonaws.com"),
		"ManagedPolicyArns": []string{
			"arn:aws:iam::aws:policy/AWSCodeBuildDeveloperAccess",
		},
		"Tags": tags,
	})

	t.AddResource("BuildProject", "AWS::CodeBuild::Project", map[string]any{
		"Name":        cfg.Prefix("frontend-build"),
		"ServiceRole": template.GetAtt("BuildRole", "Arn"),
		"Source":      map[string]any{"Type": "CODEPIPELINE"},
		"Artifacts":   map[string]any{"Type": "CODEPIPELINE"},
		"Environment": map[string]any{
			"Type":        "LINUX_CONTAINER",
			"ComputeType": "BUILD_GENERAL1_SMALL",
			"Image":       "aws/codebuild/standard:7.0",
			"EnvironmentVariables": []any{
				map[string]any{"Name": "ENV_NAME", "Value": cfg.EnvName.String()},
				map[string]any{"Name": "DOMAIN_NAME", "Value": cfg.Frontend.DomainName},
			},
		},
		"Tags": tags,
	})

	t.AddResource("PipelineRole", "AWS::IAM::Role", map[string]any{
		"RoleName":                 cfg.Prefix("frontend-pipeline-role"),
		"AssumeRolePolicyDocument": assumeRolePolicy("codepipeline.amazonaws.com"),
		"Tags":                     tags,
	})

	t.AddResource("Pipeline", "AWS::CodePipeline::Pipeline", map[string]any{
		"Name":    cfg.Prefix("frontend-pipeline"),
		"RoleArn": template.GetAtt("PipelineRole", "Arn"),
		"ArtifactStore": map[string]any{
			"Type":     "S3",
			"Location": template.Ref("ArtifactBucket"),
		},
		"Stages": []any{
			sourceStage(cicd.GithubConnectionArn, cicd.GithubOwner, cicd.GithubFrontendRepo, cicd.GithubFrontendBranch),
			buildStage("BuildProject"),
			map[string]any{
				"Name": "Deploy",
				"Actions": []any{
					map[string]any{
						"Name": "DeployToS3",
						"ActionTypeId": map[string]any{
							"Category": "Deploy",
							"Owner":    "AWS",
							"Provider": "S3",
							"Version":  "1",
						},
						"Configuration": map[string]any{
							"BucketName": template.ImportValue(frontendBucketExport(cfg)),
							"Extract":    "true",
						},
						"InputArtifacts": []any{map[string]any{"Name": "BuildOutput"}},
					},
				},
			},
		},
		"Tags": tags,
	})

	t.AddOutput("PipelineName", "Frontend pipeline name",
		template.Ref("Pipeline"), exportName(cfg, stackCicdFrontend, "pipeline-name"))

	return t, nil
}

// sourceStage builds the CodeConnections source stage shared by both pipelines.
func sourceStage(connectionArn, owner, repo, branch string) map[string]any {
	return map[string]any{
		"Name": "Source",
		"Actions": []any{
			map[string]any{
				"Name": "GitHubSource",
				"ActionTypeId": map[string]any{
					"Category": "Source",
					"Owner":    "AWS",
					"Provider": "CodeStarSourceConnection",
					"Version":  "1",
				},
				"Configuration": map[string]any{
					"ConnectionArn":    connectionArn,
					"FullRepositoryId": owner + "/" + repo,
					"BranchName":       branch,
				},
				"OutputArtifacts": []any{map[string]any{"Name": "SourceOutput"}},
			},
		},
	}
}

func buildStage(projectLogicalID string) map[string]any {
	return map[string]any{
		"Name": "Build",
		"Actions": []any{
			map[string]any{
				"Name": "Build",
				"ActionTypeId": map[string]any{
					"Category": "Build",
					"Owner":    "AWS",
					"Provider": "CodeBuild",
					"Version":  "1",
				},
				"Configuration": map[string]any{
					"ProjectName": template.Ref(projectLogicalID),
				},
				"InputArtifacts":  []any{map[string]any{"Name": "SourceOutput"}},
				"OutputArtifacts": []any{map[string]any{"Name": "BuildOutput"}},
			},
		},
	}
}
