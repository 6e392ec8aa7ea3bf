package server

import (
	"testing"
)

func toolByName(t *testing.T, name string) Tool {
	t.Helper()
	for _, tool := range GetToolDefinitions() {
		if tool.Name == name {
			return tool
		}
	}
	t.Fatalf("tool %s not found", name)
	return Tool{}
}

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"image_load",
		"string_art_nails",
		"string_art_generate",
		"string_art_generate_color",
		"string_art_preview",
		"string_art_svg",
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
		t.Errorf("Tool count: got %d, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	tools := GetToolDefinitions()

	for _, tool := range tools {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Name == "" {
				t.Error("Tool name is empty")
			}
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema == nil {
				t.Fatal("Tool InputSchema is nil")
			}

			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok || len(props) == 0 {
				t.Error("InputSchema properties missing or empty")
			}
		})
	}
}

func TestToolDefinitions_RequiredPath(t *testing.T) {
	toolsRequiringPath := []string{
		"image_load",
		"string_art_generate",
		"string_art_generate_color",
	}

	for _, name := range toolsRequiringPath {
		t.Run(name, func(t *testing.T) {
			tool := toolByName(t, name)
			requiredList, ok := tool.InputSchema["required"].([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}

			hasPath := false
			for _, r := range requiredList {
				if r == "path" {
					hasPath = true
				}
			}
			if !hasPath {
				t.Error("path should be required")
			}
		})
	}
}

func TestToolDefinitions_RegionEnum(t *testing.T) {
	tool := toolByName(t, "string_art_generate")

	props := tool.InputSchema["properties"].(map[string]interface{})
	regionProp, ok := props["region"].(map[string]interface{})
	if !ok {
		t.Fatal("region property should exist and be a map")
	}

	enum, ok := regionProp["enum"].([]string)
	if !ok {
		t.Fatal("region should have enum")
	}
	if len(enum) != 9 {
		t.Errorf("region enum: got %d entries, want 9", len(enum))
	}
}

func TestToolDefinitions_OptionalDefaults(t *testing.T) {
	toolDefaults := map[string]map[string]interface{}{
		"string_art_nails":          {"nails": 400, "layout": "circular"},
		"string_art_generate":       {"nails": 400, "contrast": 0.5, "thread": "0.1mm", "max_strings": 0, "strategy": 0},
		"string_art_generate_color": {"color_order": "CMYK", "strings_per_color": 2500},
		"string_art_preview":        {"scale": 2.0, "stroke_width": 0.5, "background": "#FFFFFF"},
		"string_art_svg":            {"thread": "0.1mm"},
	}

	for toolName, expectedDefaults := range toolDefaults {
		tool := toolByName(t, toolName)
		props, ok := tool.InputSchema["properties"].(map[string]interface{})
		if !ok {
			t.Errorf("%s: properties should be a map", toolName)
			continue
		}

		for paramName, expectedDefault := range expectedDefaults {
			param, ok := props[paramName].(map[string]interface{})
			if !ok {
				t.Errorf("%s.%s: parameter not found or not a map", toolName, paramName)
				continue
			}

			actualDefault, ok := param["default"]
			if !ok {
				t.Errorf("%s.%s: missing default value", toolName, paramName)
				continue
			}
			if actualDefault != expectedDefault {
				t.Errorf("%s.%s: default got %v (%T), want %v (%T)", toolName, paramName, actualDefault, actualDefault, expectedDefault, expectedDefault)
			}
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
	}

	resp := s.handleToolsList(req)

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}

	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}

	expected := GetToolDefinitions()
	if len(toolsList) != len(expected) {
		t.Errorf("Tool count: got %d, want %d", len(toolsList), len(expected))
	}
}

func TestMerge(t *testing.T) {
	got := merge(
		map[string]interface{}{"a": 1, "b": 2},
		map[string]interface{}{"b": 3, "c": 4},
	)
	if len(got) != 3 {
		t.Fatalf("merge: got %d keys, want 3", len(got))
	}
	if got["b"] != 3 {
		t.Errorf("later maps should win: got %v", got["b"])
	}
}
