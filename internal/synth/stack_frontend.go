package synth

import (
	"fmt"

	"stackforge/pkg/config"
	"stackforge/pkg/template"
)

// FrontendStack declares the static website: a private S3 bucket fronted by a
// CloudFront distribution with the configured certificate and domain alias.
type FrontendStack struct{}

func (s *FrontendStack) Name() string { return stackFrontend }

func (s *FrontendStack) DependsOn() []string { return nil }

func (s *FrontendStack) Build(cfg *config.InfrastructureConfig) (*template.Template, error) {
	t := template.New(fmt.Sprintf("Frontend stack for %s: static website distribution", cfg.Frontend.DomainName))
	tags := template.TagList(cfg.Tags())

	t.AddResource("SiteBucket", "AWS::S3::Bucket", map[string]any{
		"BucketName": cfg.Prefix("frontend-site"),
		"PublicAccessBlockConfiguration": map[string]any{
			"BlockPublicAcls":       true,
			"BlockPublicPolicy":     true,
			"IgnorePublicAcls":      true,
			"RestrictPublicBuckets": true,
		},
		"Tags": tags,
	})

	t.AddResource("OriginAccessControl", "AWS::CloudFront::OriginAccessControl", map[string]any{
		"OriginAccessControlConfig": map[string]any{
			"Name":                          cfg.Prefix("frontend-oac"),
			"OriginAccessControlOriginType": "s3",
			"SigningBehavior":               "always",
			"SigningProtocol":               "sigv4",
		},
	})

	t.AddResource("Distribution", "AWS::CloudFront::Distribution", map[string]any{
		"DistributionConfig": map[string]any{
			"Enabled":           true,
			"Aliases":           []string{cfg.Frontend.DomainName},
			"DefaultRootObject": "index.html",
			"Origins": []any{
				map[string]any{
					"Id":                    "SiteOrigin",
					"DomainName":            template.GetAtt("SiteBucket", "RegionalDomainName"),
					"OriginAccessControlId": template.Ref("OriginAccessControl"),
					"S3OriginConfig":        map[string]any{"OriginAccessIdentity": ""},
				},
			},
			"DefaultCacheBehavior": map[string]any{
				"TargetOriginId":       "SiteOrigin",
				"ViewerProtocolPolicy": "redirect-to-https",
				// CachingOptimized managed policy
				"CachePolicyId": "658327ea-f89d-4fab-a63d-7e88639e58f6",
			},
			"ViewerCertificate": map[string]any{
				"AcmCertificateArn":      cfg.Frontend.CertificateArn,
				"SslSupportMethod":       "sni-only",
				"MinimumProtocolVersion": "TLSv1.2_2021",
			},
		},
		"Tags": tags,
	})

	t.AddResource("SiteBucketPolicy", "AWS::S3::BucketPolicy", map[string]any{
		"Bucket": template.Ref("SiteBucket"),
		"PolicyDocument": map[string]any{
			"Version": "2012-10-17",
			"Statement": []any{
				map[string]any{
					"Effect":    "Allow",
					"Principal": map[string]any{"Service": "cloudfront.amazonaws.com"},
					"Action":    "s3:GetObject",
					"Resource":  template.Sub("${SiteBucket.Arn}/*"),
					"Condition": map[string]any{
						"StringEquals": map[string]any{
							"AWS:SourceArn": template.Sub("arn:aws:cloudfront::${AWS::AccountId}:distribution/${Distribution}"),
						},
					},
				},
			},
		},
	})

	t.AddOutput("SiteBucketName", "Website asset bucket",
		template.Ref("SiteBucket"), frontendBucketExport(cfg))
	t.AddOutput("DistributionId", "CloudFront distribution identifier",
		template.Ref("Distribution"), distributionIDExport(cfg))
	t.AddOutput("DistributionDomainName", "CloudFront distribution domain",
		template.GetAtt("Distribution", "DomainName"), distributionDomainExport(cfg))

	return t, nil
}
