package config

import "fmt"

// EnvironmentName identifies a deployment environment.
type EnvironmentName string

const (
	EnvDev     EnvironmentName = "dev"
	EnvStaging EnvironmentName = "staging"
	EnvProd    EnvironmentName = "prod"
)

// ParseEnvironmentName converts free text from the invocation context into an
// EnvironmentName, rejecting anything outside the closed set.
func ParseEnvironmentName(s string) (EnvironmentName, error) {
	switch EnvironmentName(s) {
	case EnvDev, EnvStaging, EnvProd:
		return EnvironmentName(s), nil
	default:
		return "", fmt.Errorf("unknown environment name: %q (must be one of: dev, staging, prod)", s)
	}
}

func (e EnvironmentName) String() string {
	return string(e)
}

// AwsRegion identifies a supported deployment region.
type AwsRegion string

const (
	RegionEuWest1    AwsRegion = "eu-west-1"
	RegionEuWest2    AwsRegion = "eu-west-2"
	RegionEuWest3    AwsRegion = "eu-west-3"
	RegionEuCentral1 AwsRegion = "eu-central-1"
	RegionUsEast1    AwsRegion = "us-east-1"
	RegionUsEast2    AwsRegion = "us-east-2"
	RegionUsWest1    AwsRegion = "us-west-1"
	RegionUsWest2    AwsRegion = "us-west-2"
)

func (r AwsRegion) String() string {
	return string(r)
}
