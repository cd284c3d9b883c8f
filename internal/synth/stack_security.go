package synth

import (
	"fmt"

	"stackforge/pkg/config"
	"stackforge/pkg/template"
)

// SecurityStack declares the security groups shared by the database, the
// Lambda clients and the EKS workloads.
type SecurityStack struct{}

func (s *SecurityStack) Name() string { return stackSecurity }

func (s *SecurityStack) DependsOn() []string { return []string{stackNetwork} }

func (s *SecurityStack) Build(cfg *config.InfrastructureConfig) (*template.Template, error) {
	t := template.New(fmt.Sprintf("Security stack for %s: security groups and ingress rules", cfg.Prefix("vpc")))
	tags := template.TagList(cfg.Tags())
	vpcID := template.ImportValue(vpcIDExport(cfg))

	groups := []struct {
		logicalID   string
		exportKey   string
		description string
	}{
		{"EksFastapiSecurityGroup", "eks-fastapi", "FastAPI workload pods"},
		{"EksClusterAdditionalSecurityGroup", "eks-cluster-additional", "Additional EKS control plane interfaces"},
		{"RdsLambdaSecurityGroup", "rds-lambda", "Lambda functions talking to RDS"},
		{"RdsSecurityGroup", "rds", "Aurora PostgreSQL cluster"},
	}
	for _, g := range groups {
		t.AddResource(g.logicalID, "AWS::EC2::SecurityGroup", map[string]any{
			"GroupName":        cfg.Prefix(g.exportKey + "-sg"),
			"GroupDescription": g.description,
			"VpcId":            vpcID,
			"Tags":             tags,
		})
		t.AddOutput(g.logicalID+"Id",
			fmt.Sprintf("Security group for %s", g.description),
			template.GetAtt(g.logicalID, "GroupId"),
			securityGroupExport(cfg, g.exportKey))
	}

	// Only the workload and Lambda groups may reach PostgreSQL.
	ingress := []struct {
		logicalID string
		source    string
	}{
		{"RdsIngressFromEksFastapi", "EksFastapiSecurityGroup"},
		{"RdsIngressFromRdsLambda", "RdsLambdaSecurityGroup"},
	}
	for _, rule := range ingress {
		t.AddResource(rule.logicalID, "AWS::EC2::SecurityGroupIngress", map[string]any{
			"GroupId":               template.GetAtt("RdsSecurityGroup", "GroupId"),
			"SourceSecurityGroupId": template.GetAtt(rule.source, "GroupId"),
			"IpProtocol":            "tcp",
			"FromPort":              5432,
			"ToPort":                5432,
		})
	}

	return t, nil
}
