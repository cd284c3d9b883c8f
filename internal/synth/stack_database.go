package synth

import (
	"fmt"

	"stackforge/pkg/config"
	"stackforge/pkg/template"
)

// DatabaseStack declares the Aurora Serverless v2 PostgreSQL cluster and its
// master credentials secret.
type DatabaseStack struct{}

func (s *DatabaseStack) Name() string { return stackDatabase }

func (s *DatabaseStack) DependsOn() []string { return []string{stackNetwork, stackSecurity} }

func (s *DatabaseStack) Build(cfg *config.InfrastructureConfig) (*template.Template, error) {
	t := template.New(fmt.Sprintf("Database stack for %s: Aurora Serverless v2 PostgreSQL", cfg.Prefix("db")))
	tags := template.TagList(cfg.Tags())
	db := cfg.Database

	t.AddResource("DbSubnetGroup", "AWS::RDS::DBSubnetGroup", map[string]any{
		"DBSubnetGroupName":        cfg.Prefix("db-subnet-group"),
		"DBSubnetGroupDescription": "Isolated subnets for the Aurora cluster",
		"SubnetIds":                template.Split(",", template.ImportValue(subnetIDsExport(cfg, "rds"))),
		"Tags":                     tags,
	})

	clusterProps := map[string]any{
		"Engine":                "aurora-postgresql",
		"DBClusterIdentifier":   cfg.Prefix("db-cluster"),
		"BackupRetentionPeriod": db.BackupRetention,
		"DBSubnetGroupName":     template.Ref("DbSubnetGroup"),
		"VpcSecurityGroupIds":   []any{template.ImportValue(securityGroupExport(cfg, "rds"))},
		"ServerlessV2ScalingConfiguration": map[string]any{
			"MinCapacity": db.ServerlessV2MinCapacity,
			"MaxCapacity": db.ServerlessV2MaxCapacity,
		},
		"Tags": tags,
	}

	if db.SnapshotIdentifier != "" {
		// Restoring from a snapshot: credentials come with the snapshot, so a
		// fresh master secret must not be declared.
		clusterProps["SnapshotIdentifier"] = db.SnapshotIdentifier
	} else {
		t.AddResource("DbSecret", "AWS::SecretsManager::Secret", map[string]any{
			"Name":        cfg.Prefix("db-master-secret"),
			"Description": "Master credentials for the Aurora cluster",
			"GenerateSecretString": map[string]any{
				"SecretStringTemplate": fmt.Sprintf(`{"username": %q}`, db.MasterUsername),
				"GenerateStringKey":    "password",
				"PasswordLength":       32,
				"ExcludeCharacters":    `"@/\`,
			},
			"Tags": tags,
		})
		clusterProps["MasterUsername"] = db.MasterUsername
		clusterProps["MasterUserPassword"] = template.Sub("{{resolve:secretsmanager:${DbSecret}:SecretString:password}}")
		t.AddOutput("DbSecretArn", "Master credentials secret ARN",
			template.Ref("DbSecret"), dbSecretArnExport(cfg))
	}

	t.AddResource("DbCluster", "AWS::RDS::DBCluster", clusterProps)

	t.AddResource("DbWriterInstance", "AWS::RDS::DBInstance", map[string]any{
		"Engine":               "aurora-postgresql",
		"DBClusterIdentifier":  template.Ref("DbCluster"),
		"DBInstanceIdentifier": cfg.Prefix("db-writer"),
		"DBInstanceClass":      "db.serverless",
		"Tags":                 tags,
	})

	if db.InstanceReader {
		t.AddResource("DbReaderInstance", "AWS::RDS::DBInstance", map[string]any{
			"Engine":               "aurora-postgresql",
			"DBClusterIdentifier":  template.Ref("DbCluster"),
			"DBInstanceIdentifier": cfg.Prefix("db-reader"),
			"DBInstanceClass":      "db.serverless",
			"PromotionTier":        2,
			"Tags":                 tags,
		}).AddDependsOn("DbWriterInstance")
	}

	t.AddOutput("DbEndpoint", "Writer endpoint of the Aurora cluster",
		template.GetAtt("DbCluster", "Endpoint.Address"), dbEndpointExport(cfg))

	return t, nil
}
