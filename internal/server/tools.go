package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// imageProperties are accepted by every tool that reads a photograph.
// Exactly one of path and image must be given.
func imageProperties(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the board photograph (JPEG, PNG, GIF or WEBP)",
		},
		"image": map[string]interface{}{
			"type":        "string",
			"description": "Base64-encoded photograph, as an alternative to path",
		},
		"options": map[string]interface{}{
			"type": "object",
			"description": "Optional vision parameter overrides using the configuration keys, " +
				"e.g. {\"board_size\": 9, \"classify\": {\"dark_threshold\": 100}}",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name: "board_to_sgf",
			Description: "Read the stones on a photographed Go board and return the position as an SGF record " +
				"with black and white counts. The photo should show the board from above with good contrast.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": imageProperties(map[string]interface{}{
					"strategy": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"vision", "remote"},
						"description": "Recognizer to use. Defaults to the server configuration.",
					},
				}),
			},
		},
		{
			Name:        "board_locate",
			Description: "Find the bounding box of the board in a photograph. Reports whether the fixed-margin fallback was used.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": imageProperties(nil),
			},
		},
		{
			Name: "board_grid",
			Description: "Locate the board and reconstruct its grid. Returns the region, the pixel positions of the " +
				"horizontal and vertical lines inside it and the classifier sampling window.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": imageProperties(nil),
			},
		},
		{
			Name: "board_overlay",
			Description: "Draw the detected region, grid lines and stones over the photograph and return it as " +
				"base64-encoded PNG. Use this to check why a position was misread.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": imageProperties(map[string]interface{}{
					"labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Write SGF coordinate letters along the top and left edges",
						"default":     true,
					},
					"grid_color": map[string]interface{}{
						"type":        "string",
						"description": "Grid line color as #RRGGBB",
					},
				}),
			},
		},
		{
			Name:        "sgf_summary",
			Description: "Parse an SGF record and report board size, application and the black and white stones.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"sgf": map[string]interface{}{
						"type":        "string",
						"description": "SGF text. Markdown code fences and surrounding prose are ignored.",
					},
				},
				"required": []string{"sgf"},
			},
		},
	}
}
