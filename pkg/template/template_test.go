package template

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTemplate_JSON(t *testing.T) {
	tpl := New("test template")
	tpl.AddResource("Vpc", "AWS::EC2::VPC", map[string]any{
		"CidrBlock": "10.0.0.0/16",
	})
	tpl.AddResource("Subnet", "AWS::EC2::Subnet", map[string]any{
		"VpcId": Ref("Vpc"),
	}).AddDependsOn("Vpc")
	tpl.AddOutput("VpcId", "VPC identifier", Ref("Vpc"), "test-vpc-id")

	data, err := tpl.JSON()
	if err != nil {
		t.Fatalf("JSON() returned error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("JSON() emitted invalid JSON: %v", err)
	}
	if decoded["AWSTemplateFormatVersion"] != FormatVersion {
		t.Errorf("format version = %v, want %q", decoded["AWSTemplateFormatVersion"], FormatVersion)
	}

	resources := decoded["Resources"].(map[string]any)
	if len(resources) != 2 {
		t.Errorf("emitted %d resources, want 2", len(resources))
	}

	outputs := decoded["Outputs"].(map[string]any)
	export := outputs["VpcId"].(map[string]any)["Export"].(map[string]any)
	if export["Name"] != "test-vpc-id" {
		t.Errorf("export name = %v, want %q", export["Name"], "test-vpc-id")
	}
}

func TestTemplate_JSONDeterministic(t *testing.T) {
	build := func() string {
		tpl := New("determinism")
		tpl.AddResource("B", "AWS::S3::Bucket", map[string]any{"BucketName": "b"})
		tpl.AddResource("A", "AWS::S3::Bucket", map[string]any{"BucketName": "a"})
		data, err := tpl.JSON()
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}

	if build() != build() {
		t.Error("identical templates should render to identical bytes")
	}
}

func TestIntrinsics(t *testing.T) {
	if got := Ref("Vpc"); got["Ref"] != "Vpc" {
		t.Errorf("Ref() = %v", got)
	}

	att := GetAtt("Cluster", "Endpoint.Address")
	parts := att["Fn::GetAtt"].([]string)
	if parts[0] != "Cluster" || parts[1] != "Endpoint.Address" {
		t.Errorf("GetAtt() = %v", att)
	}

	if got := ImportValue("x"); got["Fn::ImportValue"] != "x" {
		t.Errorf("ImportValue() = %v", got)
	}
}

func TestTagList_SortedByKey(t *testing.T) {
	tags := TagList(map[string]string{
		"ProjectName": "acme",
		"EnvName":     "dev",
		"ManagedBy":   "CDK",
	})

	if len(tags) != 3 {
		t.Fatalf("TagList() returned %d entries, want 3", len(tags))
	}
	keys := []string{tags[0]["Key"], tags[1]["Key"], tags[2]["Key"]}
	if strings.Join(keys, ",") != "EnvName,ManagedBy,ProjectName" {
		t.Errorf("TagList() keys = %v, want sorted order", keys)
	}
	if tags[1]["Value"] != "CDK" {
		t.Errorf("TagList() ManagedBy value = %q, want %q", tags[1]["Value"], "CDK")
	}
}
