package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"card_recognize",
		"card_locate_corners",
		"card_rectify",
		"card_references",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Name == "" {
				t.Error("Tool name is empty")
			}
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema == nil {
				t.Fatal("InputSchema is nil")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type = %v, want object", tool.InputSchema["type"])
			}
			if _, ok := tool.InputSchema["properties"].(map[string]interface{}); !ok {
				t.Error("InputSchema properties should be a map")
			}
		})
	}
}

func TestToolDefinitions_RequiredFields(t *testing.T) {
	want := map[string][]string{
		"card_recognize":      {"path"},
		"card_locate_corners": {"points"},
		"card_rectify":        {"path", "corners"},
	}

	for _, tool := range GetToolDefinitions() {
		fields, ok := want[tool.Name]
		if !ok {
			continue
		}
		required, ok := tool.InputSchema["required"].([]string)
		if !ok {
			t.Errorf("%s: required should be []string", tool.Name)
			continue
		}
		props := tool.InputSchema["properties"].(map[string]interface{})
		for i, f := range fields {
			if i >= len(required) || required[i] != f {
				t.Errorf("%s: required = %v, want %v", tool.Name, required, fields)
				break
			}
			if _, ok := props[f]; !ok {
				t.Errorf("%s: required field %s has no property", tool.Name, f)
			}
		}
	}
}
