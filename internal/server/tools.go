package server

import (
	"fmt"

	"github.com/ironsheep/charseg-mcp/internal/segment"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Property schemas shared by several tools.
var (
	pathProperty = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
	imageDataProperty = map[string]interface{}{
		"type":        "string",
		"description": "Base64-encoded image, optionally as a data URL (data:image/png;base64,...). Use instead of path.",
	}
)

// widthProperties describes the per-call overrides of the server's
// segmentation settings, advertising the configured values as defaults.
func widthProperties(defaults segment.Config) map[string]interface{} {
	return map[string]interface{}{
		"min_char_width": map[string]interface{}{
			"type":        "integer",
			"description": fmt.Sprintf("Minimum distance in pixels between two split positions. Default %d", defaults.MinCharWidth),
			"default":     defaults.MinCharWidth,
		},
		"max_char_width": map[string]interface{}{
			"type":        "integer",
			"description": fmt.Sprintf("Ink spans wider than this many pixels are split further. Default %d", defaults.MaxCharWidth),
			"default":     defaults.MaxCharWidth,
		},
		"split_trailing_span": map[string]interface{}{
			"type":        "boolean",
			"description": fmt.Sprintf("Also split an ink span that runs into the right edge of the region. Default %t", defaults.SplitTrailingSpan),
			"default":     defaults.SplitTrailingSpan,
		},
	}
}

// regionProperties describes the crop rectangle, rows [top, bottom) and
// columns [left, right) in source-image pixels.
func regionProperties() map[string]interface{} {
	return map[string]interface{}{
		"top": map[string]interface{}{
			"type":        "integer",
			"description": "Top edge Y coordinate (0-based)",
		},
		"bottom": map[string]interface{}{
			"type":        "integer",
			"description": "Bottom edge Y coordinate (exclusive)",
		},
		"left": map[string]interface{}{
			"type":        "integer",
			"description": "Left edge X coordinate (0-based)",
		},
		"right": map[string]interface{}{
			"type":        "integer",
			"description": "Right edge X coordinate (exclusive)",
		},
	}
}

func withProperties(base map[string]interface{}, extra ...map[string]interface{}) map[string]interface{} {
	for _, m := range extra {
		for k, v := range m {
			base[k] = v
		}
	}
	return base
}

// GetToolDefinitions returns all available tools. Segmentation width
// arguments advertise the values in defaults.
func GetToolDefinitions(defaults segment.Config) []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load a page scan and return its dimensions, format and color depth. The image is cached for later calls with the same path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},

		// Region Operations
		{
			Name:        "image_crop",
			Description: "Crop a region from an image and return it as base64-encoded PNG. The region is clamped to the image. Use this to look at a text line before segmenting it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(regionProperties(), map[string]interface{}{
					"path": pathProperty,
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				}),
				"required": []string{"path", "top", "bottom", "left", "right"},
			},
		},

		// Segmentation
		{
			Name:        "segment_characters",
			Description: "Find the x-coordinates that separate handwritten characters in one text line. Returns split positions in image coordinates, strictly increasing.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(regionProperties(), widthProperties(defaults), map[string]interface{}{
					"path":       pathProperty,
					"image_data": imageDataProperty,
					"include_plot": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return a PNG showing the crop, its binary mask coloured by character and the column projection with split lines. Default false",
						"default":     false,
					},
				}),
				"required": []string{"top", "bottom", "left", "right"},
			},
		},
		{
			Name:        "segment_projection",
			Description: "Return the intermediate data of a segmentation: column projection, zero runs, ink spans, how each wide span was split, and the candidates before and after filtering. Columns are relative to the region's left edge.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(regionProperties(), widthProperties(defaults), map[string]interface{}{
					"path":       pathProperty,
					"image_data": imageDataProperty,
				}),
				"required": []string{"top", "bottom", "left", "right"},
			},
		},
		{
			Name:        "segment_template",
			Description: "Segment every ruled line of a notebook page using a paper template. Returns split positions per line, column by column.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(widthProperties(defaults), map[string]interface{}{
					"path":       pathProperty,
					"image_data": imageDataProperty,
					"template": map[string]interface{}{
						"type":        "string",
						"description": "Template name, see template_list",
					},
				}),
				"required": []string{"template"},
			},
		},

		// Paper Templates
		{
			Name:        "template_list",
			Description: "List the available paper templates with their column geometry and line ruling.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(s.cfg.Segment),
		},
	}
}
