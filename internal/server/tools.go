package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file (PNG, JPEG, GIF or BMP)",
	}
}

// layoutProperties are shared by every tool that places nails.
func layoutProperties() map[string]interface{} {
	return map[string]interface{}{
		"nails": map[string]interface{}{
			"type":        "integer",
			"description": "Number of nails (50-1000). Default 400",
			"default":     400,
		},
		"layout": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"circular", "rectangular"},
			"description": "Nail arrangement. Default circular",
			"default":     "circular",
		},
	}
}

// sourceProperties describe the image and optional crop for generation.
func sourceProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty(),
		"region": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"},
			"description": "Optional named region to use instead of the whole image",
		},
		"crop": map[string]interface{}{
			"type":        "object",
			"description": "Optional pixel rectangle {x1, y1, x2, y2} (x2, y2 exclusive) to use instead of the whole image",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer"},
				"y1": map[string]interface{}{"type": "integer"},
				"x2": map[string]interface{}{"type": "integer"},
				"y2": map[string]interface{}{"type": "integer"},
			},
		},
		"contrast": map[string]interface{}{
			"type":        "number",
			"description": "Darkness enhancement factor (0.0-2.0). Default 0.5",
			"default":     0.5,
		},
		"thread": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"0.1mm", "0.2mm", "0.3mm", "0.5mm"},
			"description": "Thread thickness used for the SVG stroke. Default 0.1mm",
			"default":     "0.1mm",
		},
		"paper_size": map[string]interface{}{
			"type":        "string",
			"description": "SVG paper size in mm as WxH, or A4/A3. Default 609.6x914.4",
		},
		"include_instructions": map[string]interface{}{
			"type":        "boolean",
			"description": "Include the plain-text build instructions in the result",
		},
		"include_svg": map[string]interface{}{
			"type":        "boolean",
			"description": "Include the SVG diagram in the result",
		},
	}
}

// dimensionProperties let render tools size the canvas from an image or
// explicit processing dimensions.
func dimensionProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty(),
		"width": map[string]interface{}{
			"type":        "integer",
			"description": "Processing width in pixels. Used when path is not given",
		},
		"height": map[string]interface{}{
			"type":        "integer",
			"description": "Processing height in pixels. Used when path is not given",
		},
	}
}

func sequenceProperties() map[string]interface{} {
	return map[string]interface{}{
		"sequence": map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "integer"},
			"description": "Grayscale nail sequence",
		},
		"sequences": map[string]interface{}{
			"type":        "object",
			"description": "Color sequences keyed by channel (cyan, magenta, yellow, black). Used instead of sequence",
			"additionalProperties": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "integer"},
			},
		},
		"color_order": map[string]interface{}{
			"type":        "string",
			"description": "Display order of color sequences, a permutation of CMYK. Default CMYK",
		},
	}
}

func merge(parts ...map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, p := range parts {
		for k, v := range p {
			out[k] = v
		}
	}
	return out
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and the dimensions it will be processed at (short side capped at 400px).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "string_art_nails",
			Description: "Compute nail coordinates for a layout. Give either an image path (its processing dimensions are used) or width and height.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": merge(dimensionProperties(), layoutProperties()),
			},
		},
		{
			Name:        "string_art_generate",
			Description: "Generate a grayscale string-art nail sequence from an image. Returns the ordered nail indices and why generation stopped, optionally with text instructions and an SVG diagram.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(sourceProperties(), layoutProperties(), map[string]interface{}{
					"max_strings": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of strings, 0 for unlimited. Default 0",
						"default":     0,
					},
					"strategy": map[string]interface{}{
						"type":        "integer",
						"enum":        []int{0, 1, 2, 3},
						"description": "Coverage strategy: 0 default, 1 adaptive, 2 dynamic threshold, 3 exploration boost. Unlimited runs always use 0; limited runs asking for 0 use 1",
						"default":     0,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "string_art_generate_color",
			Description: "Generate color string art: the image is separated into cyan, magenta, yellow and black, and one nail sequence is built per channel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(sourceProperties(), layoutProperties(), map[string]interface{}{
					"color_order": map[string]interface{}{
						"type":        "string",
						"description": "Order the colors are strung in, a permutation of CMYK (e.g. KCMY). Default CMYK",
						"default":     "CMYK",
					},
					"strings_per_color": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum strings per color channel (1-2500). Default 2500",
						"default":     2500,
					},
					"sequential": map[string]interface{}{
						"type":        "boolean",
						"description": "Build the four channels one at a time instead of in parallel. The sequences are identical either way. Default false",
						"default":     false,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "string_art_preview",
			Description: "Render a simulated raster preview of a nail sequence as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(dimensionProperties(), layoutProperties(), sequenceProperties(), map[string]interface{}{
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Output size relative to the processing dimensions (max 8). Default 2.0",
						"default":     2.0,
					},
					"stroke_width": map[string]interface{}{
						"type":        "number",
						"description": "Thread width in processing pixels. Default 0.5",
						"default":     0.5,
					},
					"background": map[string]interface{}{
						"type":        "string",
						"description": "Background color as hex (#RRGGBB or #RRGGBBAA). Default #FFFFFF",
						"default":     "#FFFFFF",
					},
					"show_nails": map[string]interface{}{
						"type":        "boolean",
						"description": "Mark nail positions",
					},
					"label_every": map[string]interface{}{
						"type":        "integer",
						"description": "Print the index of every nth nail beside it (0 = no labels)",
						"default":     0,
					},
				}),
			},
		},
		{
			Name:        "string_art_svg",
			Description: "Render an SVG diagram of a nail sequence sized for printing on paper.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(dimensionProperties(), layoutProperties(), sequenceProperties(), map[string]interface{}{
					"thread": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"0.1mm", "0.2mm", "0.3mm", "0.5mm"},
						"description": "Thread thickness. Default 0.1mm",
						"default":     "0.1mm",
					},
					"paper_size": map[string]interface{}{
						"type":        "string",
						"description": "Paper size in mm as WxH, or A4/A3. Default 609.6x914.4",
					},
				}),
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
			"tools": GetToolDefinitions(),
		},
	}
}
