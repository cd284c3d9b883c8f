// Package template models the CloudFormation-shape JSON document emitted for
// every synthesized stack.
package template

import (
	"encoding/json"
	"fmt"
	"sort"
)

const FormatVersion = "2010-09-09"

// Template is one emitted stack document. Resources and Outputs are keyed by
// logical ID; JSON marshaling sorts map keys, so emission is deterministic.
type Template struct {
	AWSTemplateFormatVersion string               `json:"AWSTemplateFormatVersion"`
	Description              string               `json:"Description,omitempty"`
	Resources                map[string]*Resource `json:"Resources"`
	Outputs                  map[string]Output    `json:"Outputs,omitempty"`
}

// Resource is a single declared cloud resource.
type Resource struct {
	Type       string         `json:"Type"`
	Properties map[string]any `json:"Properties,omitempty"`
	DependsOn  []string       `json:"DependsOn,omitempty"`
}

// Output is an exported stack value consumable by downstream stacks.
type Output struct {
	Description string  `json:"Description,omitempty"`
	Value       any     `json:"Value"`
	Export      *Export `json:"Export,omitempty"`
}

type Export struct {
	Name string `json:"Name"`
}

func New(description string) *Template {
	return &Template{
		AWSTemplateFormatVersion: FormatVersion,
		Description:              description,
		Resources:                make(map[string]*Resource),
	}
}

// AddResource declares a resource under the given logical ID and returns it so
// callers can attach DependsOn edges.
func (t *Template) AddResource(logicalID, resourceType string, properties map[string]any) *Resource {
	r := &Resource{Type: resourceType, Properties: properties}
	t.Resources[logicalID] = r
	return r
}

// AddOutput declares an output, optionally exported under exportName for
// cross-stack imports.
func (t *Template) AddOutput(logicalID, description string, value any, exportName string) {
	if t.Outputs == nil {
		t.Outputs = make(map[string]Output)
	}
	out := Output{Description: description, Value: value}
	if exportName != "" {
		out.Export = &Export{Name: exportName}
	}
	t.Outputs[logicalID] = out
}

func (r *Resource) AddDependsOn(logicalIDs ...string) *Resource {
	r.DependsOn = append(r.DependsOn, logicalIDs...)
	return r
}

// JSON renders the template as indented JSON.
func (t *Template) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal template: %w", err)
	}
	return data, nil
}

// Ref builds an intrinsic reference to another resource in the same template.
func Ref(logicalID string) map[string]any {
	return map[string]any{"Ref": logicalID}
}

// GetAtt builds an intrinsic attribute lookup on a resource in the same template.
func GetAtt(logicalID, attribute string) map[string]any {
	return map[string]any{"Fn::GetAtt": []string{logicalID, attribute}}
}

// ImportValue builds a cross-stack import of an exported output.
func ImportValue(exportName string) map[string]any {
	return map[string]any{"Fn::ImportValue": exportName}
}

// Join concatenates the given values with a separator.
func Join(separator string, values ...any) map[string]any {
	return map[string]any{"Fn::Join": []any{separator, values}}
}

// Split breaks a delimited string value into a list.
func Split(separator string, value any) map[string]any {
	return map[string]any{"Fn::Split": []any{separator, value}}
}

// Sub substitutes ${} variables in a format string.
func Sub(format string) map[string]any {
	return map[string]any{"Fn::Sub": format}
}

// Select picks one entry from an intrinsic list, typically Fn::GetAZs.
func Select(index int, list any) map[string]any {
	return map[string]any{"Fn::Select": []any{index, list}}
}

// GetAZs lists the availability zones of the target region.
func GetAZs() map[string]any {
	return map[string]any{"Fn::GetAZs": ""}
}

// TagList converts a tag map into the CloudFormation tag-list shape with a
// stable key order.
func TagList(tags map[string]string) []map[string]string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	list := make([]map[string]string, 0, len(keys))
	for _, k := range keys {
		list = append(list, map[string]string{"Key": k, "Value": tags[k]})
	}
	return list
}
