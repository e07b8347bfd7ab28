package server

import (
	"testing"
)

func findTool(t *testing.T, name string) Tool {
	t.Helper()
	for _, tool := range GetToolDefinitions() {
		if tool.Name == name {
			return tool
		}
	}
	t.Fatalf("%s tool not found", name)
	return Tool{}
}

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"sphere_info",
		"sphere_sample",
		"sphere_measure",
		"sphere_generate_patches",
		"sphere_cubemap",
		"sphere_footprint",
		"sphere_convert_error",
		"sphere_focal_length",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("Tool %s defined twice", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	// Check all expected tools exist
	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("Expected %d tools, got %d", len(expectedTools), len(tools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	tools := GetToolDefinitions()

	for _, tool := range tools {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}

			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok || len(props) == 0 {
				t.Fatal("InputSchema properties missing or empty")
			}

			// Every required parameter must be declared.
			required, ok := tool.InputSchema["required"].([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}
			for _, r := range required {
				if _, ok := props[r]; !ok {
					t.Errorf("required parameter %q has no property", r)
				}
			}
		})
	}
}

func TestToolDefinitions_RequiredPath(t *testing.T) {
	toolsRequiringPath := []string{
		"sphere_info",
		"sphere_sample",
		"sphere_generate_patches",
		"sphere_cubemap",
		"sphere_footprint",
	}

	for _, name := range toolsRequiringPath {
		tool := findTool(t, name)

		t.Run(name, func(t *testing.T) {
			requiredList, ok := tool.InputSchema["required"].([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}

			hasPath := false
			for _, r := range requiredList {
				if r == "path" {
					hasPath = true
					break
				}
			}

			if !hasPath {
				t.Error("Tool should require 'path' parameter")
			}
		})
	}
}

func TestToolDefinitions_ProjectionEnum(t *testing.T) {
	for _, name := range []string{"sphere_generate_patches", "sphere_cubemap"} {
		props := findTool(t, name).InputSchema["properties"].(map[string]interface{})
		proj, ok := props["projection"].(map[string]interface{})
		if !ok {
			t.Fatalf("%s: projection property missing", name)
		}
		enum, ok := proj["enum"].([]string)
		if !ok || len(enum) != 2 || enum[0] != "tangent" || enum[1] != "perspective" {
			t.Errorf("%s: projection enum = %v", name, proj["enum"])
		}
	}
}

func TestToolDefinitions_CubemapHasNoFreeSize(t *testing.T) {
	props := findTool(t, "sphere_cubemap").InputSchema["properties"].(map[string]interface{})
	if _, ok := props["width"]; ok {
		t.Error("sphere_cubemap should take face_size, not width")
	}
	if _, ok := props["face_size"]; !ok {
		t.Error("sphere_cubemap should take face_size")
	}

	// Removing them from the cubemap schema must not affect the generate schema.
	gen := findTool(t, "sphere_generate_patches").InputSchema["properties"].(map[string]interface{})
	if _, ok := gen["width"]; !ok {
		t.Error("sphere_generate_patches lost its width property")
	}
}
