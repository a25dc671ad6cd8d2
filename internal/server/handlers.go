package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang/geo/r2"
	"go.uber.org/zap"

	"github.com/ironsheep/card-tools-mcp/internal/corners"
	"github.com/ironsheep/card-tools-mcp/internal/geom"
	"github.com/ironsheep/card-tools-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "card_recognize").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "card_recognize":
		return s.handleCardRecognize(ctx, args)
	case "card_locate_corners":
		return s.handleCardLocateCorners(args)
	case "card_rectify":
		return s.handleCardRectify(args)
	case "card_references":
		return s.handleCardReferences()
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

var errNoRecognizer = errors.New("no reference set loaded")

// pointArg is a point as it appears in tool arguments and results.
type pointArg struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func toPoint(p pointArg) r2.Point { return r2.Point{X: p.X, Y: p.Y} }

func fromPoint(p r2.Point) pointArg { return pointArg{X: p.X, Y: p.Y} }

// orderedCorners is an ordered Quad in result form.
type orderedCorners struct {
	TopLeft     pointArg `json:"top_left"`
	TopRight    pointArg `json:"top_right"`
	BottomRight pointArg `json:"bottom_right"`
	BottomLeft  pointArg `json:"bottom_left"`
}

func fromQuad(q corners.Quad) orderedCorners {
	return orderedCorners{
		TopLeft:     fromPoint(q.TL()),
		TopRight:    fromPoint(q.TR()),
		BottomRight: fromPoint(q.BR()),
		BottomLeft:  fromPoint(q.BL()),
	}
}

// === Recognition Handlers ===

type cardRecognizeArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleCardRecognize(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a cardRecognizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if s.recognizer == nil {
		return nil, errNoRecognizer
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return s.recognizer.Recognize(ctx, img)
}

// === Geometry Handlers ===

type cardLocateCornersArgs struct {
	Points         []pointArg `json:"points"`
	Strategy       string     `json:"strategy"`
	ErrorThreshold *float64   `json:"error_threshold"`
}

type cardLocateCornersResult struct {
	Strategy string         `json:"strategy"`
	Raw      []pointArg     `json:"raw"`
	Corners  orderedCorners `json:"corners"`
	Valid    bool           `json:"valid"`
	Reason   string         `json:"reason,omitempty"`
}

func (s *Server) handleCardLocateCorners(args json.RawMessage) (interface{}, error) {
	var a cardLocateCornersArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Strategy == "" {
		a.Strategy = s.cfg.Strategy
	}
	threshold := s.cfg.ErrorThreshold
	if a.ErrorThreshold != nil {
		threshold = *a.ErrorThreshold
	}

	strategy, err := corners.NewStrategy(a.Strategy, s.cfg.RotationDegrees, s.cfg.BandTolerance)
	if err != nil {
		return nil, err
	}

	boundary := make(corners.Boundary, len(a.Points))
	for i, p := range a.Points {
		boundary[i] = toPoint(p)
	}

	raw, err := strategy.Locate(boundary)
	if err != nil {
		return nil, err
	}

	res := &cardLocateCornersResult{
		Strategy: strategy.Name(),
		Raw:      make([]pointArg, 0, 4),
		Corners:  fromQuad(corners.Order(raw)),
		Valid:    true,
	}
	for _, p := range raw {
		res.Raw = append(res.Raw, fromPoint(p))
	}
	if err := corners.Validate(raw, threshold); err != nil {
		res.Valid = false
		res.Reason = err.Error()
	}
	return res, nil
}

type cardRectifyArgs struct {
	Path    string     `json:"path"`
	Corners []pointArg `json:"corners"`
	Scale   float64    `json:"scale"`
}

type cardRectifyResult struct {
	*imaging.EncodedImage
	Corners    orderedCorners  `json:"corners"`
	Homography geom.Homography `json:"homography"`
}

func (s *Server) handleCardRectify(args json.RawMessage) (interface{}, error) {
	var a cardRectifyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	if len(a.Corners) != 4 {
		return nil, fmt.Errorf("need exactly 4 corners, got %d", len(a.Corners))
	}

	var q corners.Quad
	for i, p := range a.Corners {
		q[i] = toPoint(p)
	}
	q = corners.Order(q)

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	out, h, err := s.rectifier.Rectify(img, q)
	if err != nil {
		return nil, err
	}
	enc, err := imaging.EncodePNG(out, a.Scale)
	if err != nil {
		return nil, err
	}
	return &cardRectifyResult{EncodedImage: enc, Corners: fromQuad(q), Homography: h}, nil
}

// === Reference Handlers ===

type cardReferencesResult struct {
	Count  int      `json:"count"`
	Labels []string `json:"labels"`
}

func (s *Server) handleCardReferences() (interface{}, error) {
	if s.recognizer == nil {
		return &cardReferencesResult{Labels: []string{}}, nil
	}
	labels := s.recognizer.Labels()
	return &cardReferencesResult{Count: len(labels), Labels: labels}, nil
}
