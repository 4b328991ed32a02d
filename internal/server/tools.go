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
		"description": "Absolute path to the frame image file",
	}
}

func pathOnlySchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": pathProperty(),
		},
		"required": []string{"path"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Frame Information
		{
			Name:        "image_load",
			Description: "Load a frame image file and return its dimensions and format. The frame is cached for subsequent calls.",
			InputSchema: pathOnlySchema(),
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of a frame image file.",
			InputSchema: pathOnlySchema(),
		},
		{
			Name:        "image_sample_color",
			Description: "Get the color at a pixel in hex, RGB and 8-bit HSV (H 0-180), plus the mean color of the classifier's square around it and the label it matches. Use this to calibrate color tables.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},

		// Ball Detection
		{
			Name:        "balls_detect",
			Description: "Detect snooker or pool balls in a frame. Returns each ball's center, radius and color label, sorted by x then y. Balls whose color matches no configured range are labeled \"unknown\".",
			InputSchema: pathOnlySchema(),
		},
		{
			Name:        "balls_annotate",
			Description: "Detect balls and return the frame as base64 PNG with each ball outlined in its label color, a center cross and an x,y label.",
			InputSchema: pathOnlySchema(),
		},

		// Stage Inspection
		{
			Name:        "balls_detect_circles",
			Description: "Run only the geometric circle detector (Canny edges plus gradient Hough voting) and return its raw candidates with confidence scores.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"min_radius": map[string]interface{}{
						"type":        "integer",
						"description": "Smallest radius in pixels. Default from config",
					},
					"max_radius": map[string]interface{}{
						"type":        "integer",
						"description": "Largest radius in pixels. Default from config",
					},
					"min_distance": map[string]interface{}{
						"type":        "number",
						"description": "Minimum distance between centers in pixels. Default from config",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "balls_segment",
			Description: "Run only the color segmenter and return round blobs grouped by color label.",
			InputSchema: pathOnlySchema(),
		},
		{
			Name:        "balls_classify",
			Description: "Classify points by the mean color of the square around each one, as the detector does for every candidate.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"points": map[string]interface{}{
						"type":        "array",
						"description": "Points to classify",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x": map[string]interface{}{"type": "integer"},
								"y": map[string]interface{}{"type": "integer"},
							},
							"required": []string{"x", "y"},
						},
					},
				},
				"required": []string{"path", "points"},
			},
		},
		{
			Name:        "balls_edges",
			Description: "Return the Canny edge map the circle detector votes from, as base64 PNG, with the edge pixel count.",
			InputSchema: pathOnlySchema(),
		},

		// Calibration
		{
			Name:        "config_get",
			Description: "Return the detector configuration in use: radius bounds, thresholds and both color tables.",
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
			"tools": GetToolDefinitions(),
		},
	}
}
