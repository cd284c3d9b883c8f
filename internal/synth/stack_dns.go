package synth

import (
	"fmt"

	"stackforge/pkg/config"
	"stackforge/pkg/template"
)

// cloudFrontHostedZoneID is the fixed Route53 hosted zone of every CloudFront
// distribution alias target.
const cloudFrontHostedZoneID = "Z2FDTNDATAQYW2"

// DnsStack declares the Route53 records pointing the frontend domain at the
// CloudFront distribution and the backend domain at the ingress ALB.
type DnsStack struct{}

func (s *DnsStack) Name() string { return stackDns }

func (s *DnsStack) DependsOn() []string {
	return []string{stackFrontend, stackCicdBackend}
}

func (s *DnsStack) Build(cfg *config.InfrastructureConfig) (*template.Template, error) {
	t := template.New(fmt.Sprintf("DNS stack for zone %s", cfg.Dns.ZoneName))

	t.AddResource("FrontendDnsRecord", "AWS::Route53::RecordSet", map[string]any{
		"HostedZoneId": cfg.Dns.HostedZoneId,
		"Name":         cfg.Dns.FrontendDomainName,
		"Type":         "A",
		"AliasTarget": map[string]any{
			"DNSName":      template.ImportValue(distributionDomainExport(cfg)),
			"HostedZoneId": cloudFrontHostedZoneID,
		},
	})

	// The ALB DNS name is only known after the backend deploy publishes it, so
	// the record resolves the SSM parameter at deploy time.
	t.AddResource("BackendDnsRecord", "AWS::Route53::RecordSet", map[string]any{
		"HostedZoneId": cfg.Dns.HostedZoneId,
		"Name":         cfg.Dns.BackendDomainName,
		"Type":         "CNAME",
		"TTL":          "300",
		"ResourceRecords": []any{
			fmt.Sprintf("{{resolve:ssm:%s}}", ingressDnsParameterName(cfg)),
		},
	})

	t.AddOutput("FrontendDomainName", "Frontend domain name",
		cfg.Dns.FrontendDomainName, exportName(cfg, stackDns, "frontend-domain-name"))
	t.AddOutput("BackendDomainName", "Backend domain name",
		cfg.Dns.BackendDomainName, exportName(cfg, stackDns, "backend-domain-name"))

	return t, nil
}
