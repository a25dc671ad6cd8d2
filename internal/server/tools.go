package server

import "github.com/ironsheep/card-tools-mcp/internal/corners"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pointSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"x": map[string]interface{}{"type": "number"},
			"y": map[string]interface{}{"type": "number"},
		},
		"required": []string{"x", "y"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "card_recognize",
			Description: "Find every playing card in a photograph and identify it against the reference set. Returns one result per recognized card (label, difference score, ordered corners) and a diagnostic for every object that was skipped.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "card_locate_corners",
			Description: "Estimate the four corners of a card from its outline points, order them top-left, top-right, bottom-right, bottom-left, and report whether they pass the rectangle check.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"points": map[string]interface{}{
						"type":        "array",
						"description": "Outline points of one object in image coordinates",
						"items":       pointSchema("Boundary point"),
					},
					"strategy": map[string]interface{}{
						"type":        "string",
						"description": "Corner strategy. Defaults to the server configuration.",
						"enum":        corners.StrategyNames(),
					},
					"error_threshold": map[string]interface{}{
						"type":        "number",
						"description": "Maximum opposite-side length difference in pixels. Defaults to the server configuration.",
					},
				},
				"required": []string{"points"},
			},
		},
		{
			Name:        "card_rectify",
			Description: "Warp the card bounded by four corners onto the canonical square and return it as base64-encoded PNG. Corners may be given in any order.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"corners": map[string]interface{}{
						"type":        "array",
						"description": "Exactly four corner points",
						"items":       pointSchema("Corner point"),
						"minItems":    4,
						"maxItems":    4,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor for the returned image. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "corners"},
			},
		},
		{
			Name:        "card_references",
			Description: "List the reference labels in match order.",
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
