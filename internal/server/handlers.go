package server

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/snooker-vision/internal/detection"
	"github.com/ironsheep/snooker-vision/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "balls_detect").
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
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Debugw("tool failed", "tool", params.Name, "error", err)
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads frames from cache as needed
//  4. Runs the pipeline, or one of its stages
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Frame Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)

	// Ball Detection
	case "balls_detect":
		return s.handleBallsDetect(args)
	case "balls_annotate":
		return s.handleBallsAnnotate(args)

	// Stage Inspection
	case "balls_detect_circles":
		return s.handleBallsDetectCircles(args)
	case "balls_segment":
		return s.handleBallsSegment(args)
	case "balls_classify":
		return s.handleBallsClassify(args)
	case "balls_edges":
		return s.handleBallsEdges(args)

	// Calibration
	case "config_get":
		return s.pipeline.Config(), nil

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

// === Frame Information Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// SampleColorResult is a pixel sample together with what the classifier
// sees around it.
type SampleColorResult struct {
	Pixel   *imaging.ColorResult `json:"pixel"`
	ROIMean imaging.ColorResult  `json:"roi_mean"`
	Label   detection.Label      `json:"label"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	pixel, err := imaging.SampleColor(img, a.X, a.Y)
	if err != nil {
		return nil, err
	}
	// The pixel is inside the frame, so the ROI always holds at least it.
	label, mean, _ := s.pipeline.Classifier().Sample(img, a.X, a.Y)
	return &SampleColorResult{Pixel: pixel, ROIMean: mean, Label: label}, nil
}

// === Ball Detection Handlers ===

// DetectResult lists the reconciled balls in a frame.
type DetectResult struct {
	Count int                       `json:"count"`
	Balls []detection.BallDetection `json:"balls"`
}

func (s *Server) detect(path string) (*DetectResult, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	balls, err := s.pipeline.Detect(img)
	if err != nil {
		return nil, err
	}
	return &DetectResult{Count: len(balls), Balls: balls}, nil
}

func (s *Server) handleBallsDetect(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.detect(a.Path)
}

// AnnotateResult is the detection list plus the frame with every ball
// outlined in its label color.
type AnnotateResult struct {
	DetectResult
	Image *imaging.EncodedImage `json:"image"`
}

func (s *Server) handleBallsAnnotate(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	res, err := s.detect(a.Path)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	marks := make([]imaging.Mark, len(res.Balls))
	for i, b := range res.Balls {
		marks[i] = b.Mark()
	}
	encoded, err := imaging.EncodePNG(imaging.Annotate(img, marks))
	if err != nil {
		return nil, err
	}
	return &AnnotateResult{DetectResult: *res, Image: encoded}, nil
}

// === Stage Inspection Handlers ===

type ballsDetectCirclesArgs struct {
	Path        string  `json:"path"`
	MinRadius   int     `json:"min_radius"`
	MaxRadius   int     `json:"max_radius"`
	MinDistance float64 `json:"min_distance"`
}

// CirclesResult lists raw geometric candidates.
type CirclesResult struct {
	Count   int                   `json:"count"`
	Radii   detection.RadiusRange `json:"radii"`
	Circles []detection.Candidate `json:"circles"`
}

func (s *Server) handleBallsDetectCircles(args json.RawMessage) (interface{}, error) {
	var a ballsDetectCirclesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	cfg := s.pipeline.Config()
	if a.MinRadius == 0 {
		a.MinRadius = cfg.Circles.MinRadius
	}
	if a.MaxRadius == 0 {
		a.MaxRadius = cfg.Circles.MaxRadius
	}
	if a.MinDistance == 0 {
		a.MinDistance = cfg.MinCenterDistance
	}
	if a.MinRadius < 1 || a.MaxRadius < a.MinRadius {
		return nil, fmt.Errorf("invalid radius range %d-%d", a.MinRadius, a.MaxRadius)
	}

	prepared, err := s.prepare(a.Path)
	if err != nil {
		return nil, err
	}

	radii := detection.RadiusRange{Min: a.MinRadius, Max: a.MaxRadius}
	circles := detection.NewCircleDetector(cfg.Circles).DetectCircles(prepared.Blurred, radii, a.MinDistance)
	return &CirclesResult{Count: len(circles), Radii: radii, Circles: circles}, nil
}

// SegmentResult groups segmented candidates by color label.
type SegmentResult struct {
	Count   int                                       `json:"count"`
	ByColor map[detection.Label][]detection.Candidate `json:"by_color"`
}

func (s *Server) handleBallsSegment(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	prepared, err := s.prepare(a.Path)
	if err != nil {
		return nil, err
	}

	byColor := s.pipeline.Segmenter().Segment(prepared.HSV)
	count := 0
	for _, cands := range byColor {
		count += len(cands)
	}
	return &SegmentResult{Count: count, ByColor: byColor}, nil
}

type ballsClassifyArgs struct {
	Path   string `json:"path"`
	Points []struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"points"`
}

// Classification is the classifier's verdict for one point.
type Classification struct {
	X       int                 `json:"x"`
	Y       int                 `json:"y"`
	Label   detection.Label     `json:"label"`
	ROIMean imaging.ColorResult `json:"roi_mean"`
}

func (s *Server) handleBallsClassify(args json.RawMessage) (interface{}, error) {
	var a ballsClassifyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Points) == 0 {
		return nil, fmt.Errorf("at least one point is required")
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	out := make([]Classification, 0, len(a.Points))
	for _, p := range a.Points {
		label, mean, ok := s.pipeline.Classifier().Sample(img, p.X, p.Y)
		if !ok {
			return nil, fmt.Errorf("point (%d,%d) has no pixels around it in the frame", p.X, p.Y)
		}
		out = append(out, Classification{X: p.X, Y: p.Y, Label: label, ROIMean: mean})
	}
	return out, nil
}

// EdgesResult is the Canny edge map the circle detector votes from.
type EdgesResult struct {
	EdgePixels int                   `json:"edge_pixels"`
	Image      *imaging.EncodedImage `json:"image"`
}

func (s *Server) handleBallsEdges(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	prepared, err := s.prepare(a.Path)
	if err != nil {
		return nil, err
	}

	circles := s.pipeline.Config().Circles
	edges := imaging.Canny(prepared.Blurred, circles.EdgeLow, circles.EdgeHigh)
	encoded, err := imaging.EncodePNG(edges.Image())
	if err != nil {
		return nil, err
	}
	return &EdgesResult{EdgePixels: edges.Count, Image: encoded}, nil
}

func (s *Server) prepare(path string) (*imaging.Prepared, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	return s.pipeline.Prepare(img)
}
