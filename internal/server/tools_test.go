package server

import (
	"encoding/json"
	"testing"

	"github.com/ironsheep/charseg-mcp/internal/config"
	"github.com/ironsheep/charseg-mcp/internal/segment"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions(segment.DefaultConfig())

	expectedTools := []string{
		"image_load",
		"image_dimensions",
		"image_crop",
		"segment_characters",
		"segment_projection",
		"segment_template",
		"template_list",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("tool %s defined twice", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions(segment.DefaultConfig()) {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}
			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema properties should be a map")
			}

			// Every required field must be described.
			required, _ := tool.InputSchema["required"].([]string)
			for _, r := range required {
				if _, ok := props[r]; !ok {
					t.Errorf("required property %s is not defined", r)
				}
			}
		})
	}
}

func TestToolDefinitions_RegionTools(t *testing.T) {
	tools := make(map[string]Tool)
	for _, tool := range GetToolDefinitions(segment.DefaultConfig()) {
		tools[tool.Name] = tool
	}

	for _, name := range []string{"image_crop", "segment_characters", "segment_projection"} {
		t.Run(name, func(t *testing.T) {
			props := tools[name].InputSchema["properties"].(map[string]interface{})
			for _, edge := range []string{"top", "bottom", "left", "right"} {
				p, ok := props[edge].(map[string]interface{})
				if !ok {
					t.Errorf("missing %s property", edge)
					continue
				}
				if p["type"] != "integer" {
					t.Errorf("%s type: got %v, want integer", edge, p["type"])
				}
			}
		})
	}
}

func TestToolDefinitions_Defaults(t *testing.T) {
	var segmentTool Tool
	for _, tool := range GetToolDefinitions(segment.DefaultConfig()) {
		if tool.Name == "segment_characters" {
			segmentTool = tool
		}
	}
	props := segmentTool.InputSchema["properties"].(map[string]interface{})

	tests := []struct {
		prop string
		want interface{}
	}{
		{"min_char_width", 25},
		{"max_char_width", 45},
		{"include_plot", false},
		{"split_trailing_span", false},
	}
	for _, tt := range tests {
		t.Run(tt.prop, func(t *testing.T) {
			p, ok := props[tt.prop].(map[string]interface{})
			if !ok {
				t.Fatalf("missing %s", tt.prop)
			}
			if p["default"] != tt.want {
				t.Errorf("default: got %v, want %v", p["default"], tt.want)
			}
		})
	}
}

func TestHandleToolsList_ConfiguredDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Segment.MinCharWidth = 30
	cfg.Segment.MaxCharWidth = 50
	cfg.Segment.SplitTrailingSpan = true
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	resp := s.handleToolsList(&MCPRequest{JSONRPC: "2.0", ID: 1})
	tools := resp.Result.(map[string]interface{})["tools"].([]Tool)

	for _, tool := range tools {
		props := tool.InputSchema["properties"].(map[string]interface{})
		p, ok := props["min_char_width"].(map[string]interface{})
		if !ok {
			continue
		}
		t.Run(tool.Name, func(t *testing.T) {
			if p["default"] != 30 {
				t.Errorf("min_char_width default: got %v, want 30", p["default"])
			}
			if got := props["max_char_width"].(map[string]interface{})["default"]; got != 50 {
				t.Errorf("max_char_width default: got %v, want 50", got)
			}
			if got := props["split_trailing_span"].(map[string]interface{})["default"]; got != true {
				t.Errorf("split_trailing_span default: got %v, want true", got)
			}
		})
	}
}

func TestHandleToolsList(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleToolsList(&MCPRequest{JSONRPC: "2.0", ID: 7})

	if resp.ID != 7 {
		t.Errorf("ID: got %v, want 7", resp.ID)
	}

	// The list must survive JSON encoding as clients see it.
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	var decoded struct {
		Result struct {
			Tools []Tool `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if len(decoded.Result.Tools) != len(GetToolDefinitions(segment.DefaultConfig())) {
		t.Errorf("tools: got %d, want %d", len(decoded.Result.Tools), len(GetToolDefinitions(segment.DefaultConfig())))
	}
}
