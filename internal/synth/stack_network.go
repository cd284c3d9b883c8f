package synth

import (
	"encoding/binary"
	"fmt"
	"net"

	"stackforge/pkg/config"
	"stackforge/pkg/template"
)

// Subnet groups carved out of the VPC address block, one subnet per AZ each.
var subnetGroups = []string{"public", "eks-private-nat", "rds", "rds-lambda"}

// NetworkStack declares the VPC, its subnets and the NAT gateways.
type NetworkStack struct{}

func (s *NetworkStack) Name() string { return stackNetwork }

func (s *NetworkStack) DependsOn() []string { return nil }

func (s *NetworkStack) Build(cfg *config.InfrastructureConfig) (*template.Template, error) {
	t := template.New(fmt.Sprintf("Network stack for %s: VPC, subnets and NAT gateways", cfg.Prefix("vpc")))
	tags := template.TagList(cfg.Tags())

	t.AddResource("Vpc", "AWS::EC2::VPC", map[string]any{
		"CidrBlock":          cfg.Vpc.Cidr,
		"EnableDnsSupport":   true,
		"EnableDnsHostnames": true,
		"Tags":               tags,
	})
	t.AddResource("InternetGateway", "AWS::EC2::InternetGateway", map[string]any{
		"Tags": tags,
	})
	t.AddResource("VpcGatewayAttachment", "AWS::EC2::VPCGatewayAttachment", map[string]any{
		"VpcId":             template.Ref("Vpc"),
		"InternetGatewayId": template.Ref("InternetGateway"),
	})

	if cfg.Vpc.AutomaticSubnetCreation {
		if err := s.addSubnets(t, cfg, tags); err != nil {
			return nil, err
		}
	}

	t.AddOutput("VpcId", "VPC identifier", template.Ref("Vpc"), vpcIDExport(cfg))
	return t, nil
}

func (s *NetworkStack) addSubnets(t *template.Template, cfg *config.InfrastructureConfig, tags []map[string]string) error {
	t.AddResource("PublicRouteTable", "AWS::EC2::RouteTable", map[string]any{
		"VpcId": template.Ref("Vpc"),
		"Tags":  tags,
	})
	t.AddResource("PublicRoute", "AWS::EC2::Route", map[string]any{
		"RouteTableId":         template.Ref("PublicRouteTable"),
		"DestinationCidrBlock": "0.0.0.0/0",
		"GatewayId":            template.Ref("InternetGateway"),
	}).AddDependsOn("VpcGatewayAttachment")

	for gi, name := range subnetGroups {
		subnetIDs := make([]any, 0, cfg.Vpc.MaxAZs)

		for az := 0; az < cfg.Vpc.MaxAZs; az++ {
			cidr, err := subnetCidr(cfg.Vpc.Cidr, gi*cfg.Vpc.MaxAZs+az)
			if err != nil {
				return err
			}

			id := logicalID(name, az)
			props := map[string]any{
				"VpcId":            template.Ref("Vpc"),
				"CidrBlock":        cidr,
				"AvailabilityZone": template.Select(az, template.GetAZs()),
				"Tags":             tags,
			}
			if name == "public" {
				props["MapPublicIpOnLaunch"] = true
			}
			t.AddResource(id, "AWS::EC2::Subnet", props)
			subnetIDs = append(subnetIDs, template.Ref(id))

			if name == "public" {
				t.AddResource(id+"RouteTableAssociation", "AWS::EC2::SubnetRouteTableAssociation", map[string]any{
					"SubnetId":     template.Ref(id),
					"RouteTableId": template.Ref("PublicRouteTable"),
				})
			}
		}

		t.AddOutput(logicalID(name, -1)+"SubnetIds",
			fmt.Sprintf("Subnet identifiers of the %s group", name),
			template.Join(",", subnetIDs...),
			subnetIDsExport(cfg, name))
	}

	s.addNatGateways(t, cfg, tags)
	return nil
}

func (s *NetworkStack) addNatGateways(t *template.Template, cfg *config.InfrastructureConfig, tags []map[string]string) {
	for i := 0; i < cfg.Vpc.NatGateways; i++ {
		eipID := fmt.Sprintf("NatEip%d", i+1)
		natID := fmt.Sprintf("NatGateway%d", i+1)
		rtID := fmt.Sprintf("PrivateRouteTable%d", i+1)

		t.AddResource(eipID, "AWS::EC2::EIP", map[string]any{
			"Domain": "vpc",
			"Tags":   tags,
		})
		t.AddResource(natID, "AWS::EC2::NatGateway", map[string]any{
			"AllocationId": template.GetAtt(eipID, "AllocationId"),
			"SubnetId":     template.Ref(logicalID("public", i%cfg.Vpc.MaxAZs)),
			"Tags":         tags,
		}).AddDependsOn("VpcGatewayAttachment")
		t.AddResource(rtID, "AWS::EC2::RouteTable", map[string]any{
			"VpcId": template.Ref("Vpc"),
			"Tags":  tags,
		})
		t.AddResource(fmt.Sprintf("PrivateRoute%d", i+1), "AWS::EC2::Route", map[string]any{
			"RouteTableId":         template.Ref(rtID),
			"DestinationCidrBlock": "0.0.0.0/0",
			"NatGatewayId":         template.Ref(natID),
		})
	}

	// Outbound-routed subnets share the NAT route tables round robin.
	for az := 0; az < cfg.Vpc.MaxAZs && cfg.Vpc.NatGateways > 0; az++ {
		id := logicalID("eks-private-nat", az)
		t.AddResource(id+"RouteTableAssociation", "AWS::EC2::SubnetRouteTableAssociation", map[string]any{
			"SubnetId":     template.Ref(id),
			"RouteTableId": template.Ref(fmt.Sprintf("PrivateRouteTable%d", az%cfg.Vpc.NatGateways+1)),
		})
	}
}

// subnetCidr carves /24 blocks out of the VPC address block in index order.
func subnetCidr(vpcCidr string, index int) (string, error) {
	_, network, err := net.ParseCIDR(vpcCidr)
	if err != nil {
		return "", fmt.Errorf("invalid VPC CIDR %q: %w", vpcCidr, err)
	}
	ones, bits := network.Mask.Size()
	if bits != 32 || ones > 24 {
		return "", fmt.Errorf("VPC CIDR %q cannot be subdivided into /24 subnets", vpcCidr)
	}
	if index >= 1<<(24-ones) {
		return "", fmt.Errorf("VPC CIDR %q has no room for subnet index %d", vpcCidr, index)
	}

	base := binary.BigEndian.Uint32(network.IP.To4())
	ip := make(net.IP, 4)
	binary.BigEndian.PutUint32(ip, base+uint32(index)<<8)
	return fmt.Sprintf("%s/24", ip), nil
}

// logicalID converts a kebab-case group name and AZ index into a CloudFormation
// logical ID, e.g. ("eks-private-nat", 0) -> "EksPrivateNatSubnet1".
func logicalID(group string, az int) string {
	var id []byte
	upper := true
	for i := 0; i < len(group); i++ {
		c := group[i]
		if c == '-' {
			upper = true
			continue
		}
		if upper && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		upper = false
		id = append(id, c)
	}
	if az < 0 {
		return string(id)
	}
	return fmt.Sprintf("%sSubnet%d", id, az+1)
}
