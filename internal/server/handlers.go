package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/ironsheep/stone2sgf/internal/board"
	"github.com/ironsheep/stone2sgf/internal/detection"
	"github.com/ironsheep/stone2sgf/internal/imaging"
	"github.com/ironsheep/stone2sgf/internal/pipeline"
	"github.com/ironsheep/stone2sgf/internal/sgf"
)

// errInvalidArgs marks failures caused by the tool arguments themselves.
var errInvalidArgs = errors.New("invalid arguments")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "board_to_sgf").
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
// Bad arguments, undecodable images and photos without stones return code
// -32602; every other failure returns -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn().Err(err).Str("tool", params.Name).Msg("tool failed")
		if errors.Is(err, errInvalidArgs) || pipeline.IsInputError(err) {
			return s.errorResponse(req.ID, codeInvalidParams, err.Error(), "")
		}
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	s.logger.Debug().
		Str("tool", params.Name).
		Dur("elapsed", time.Since(start)).
		Msg("tool call")

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
	case "board_to_sgf":
		return s.handleBoardToSGF(ctx, args)
	case "board_locate":
		return s.handleBoardLocate(ctx, args)
	case "board_grid":
		return s.handleBoardGrid(ctx, args)
	case "board_overlay":
		return s.handleBoardOverlay(ctx, args)
	case "sgf_summary":
		return s.handleSGFSummary(args)
	default:
		return nil, fmt.Errorf("%w: unknown tool: %s", errInvalidArgs, name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// imageArgs are shared by every tool reading a photograph.
type imageArgs struct {
	Path    string                 `json:"path"`
	Image   string                 `json:"image"`
	Options map[string]interface{} `json:"options"`
}

func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	return nil
}

// data returns the encoded photograph named by path or carried inline.
func (a *imageArgs) data() ([]byte, error) {
	switch {
	case a.Path != "" && a.Image != "":
		return nil, fmt.Errorf("%w: give either path or image, not both", errInvalidArgs)
	case a.Path != "":
		b, err := imaging.ReadFile(a.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidArgs, err)
		}
		return b, nil
	case a.Image != "":
		b, err := base64.StdEncoding.DecodeString(a.Image)
		if err != nil {
			return nil, fmt.Errorf("%w: image is not valid base64: %v", errInvalidArgs, err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: path or image is required", errInvalidArgs)
}

// visionConfig applies the call's overrides to the server configuration.
func (s *Server) visionConfig(overrides map[string]interface{}) (pipeline.Config, error) {
	cfg := s.base
	if len(overrides) == 0 {
		return cfg, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return cfg, err
	}
	if err := dec.Decode(overrides); err != nil {
		return cfg, fmt.Errorf("%w: options: %v", errInvalidArgs, err)
	}
	return cfg, nil
}

// vision returns a recognizer for the call's overrides.
func (s *Server) vision(overrides map[string]interface{}) (*pipeline.Vision, error) {
	cfg, err := s.visionConfig(overrides)
	if err != nil {
		return nil, err
	}
	v, err := pipeline.NewVision(cfg, s.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	return v, nil
}

// analyze runs the vision stages short of encoding.
func (s *Server) analyze(ctx context.Context, a *imageArgs) (*pipeline.Result, error) {
	data, err := a.data()
	if err != nil {
		return nil, err
	}
	v, err := s.vision(a.Options)
	if err != nil {
		return nil, err
	}
	return v.Analyze(ctx, data)
}

// === Recognition ===

type boardToSGFArgs struct {
	imageArgs
	Strategy pipeline.Strategy `json:"strategy"`
}

type boardToSGFResult struct {
	*sgf.Record
	Strategy pipeline.Strategy `json:"strategy"`
}

func (s *Server) handleBoardToSGF(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a boardToSGFArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	data, err := a.data()
	if err != nil {
		return nil, err
	}

	strategy := a.Strategy
	if strategy == "" {
		strategy = s.strategy
	}
	available := s.recognizers
	if len(a.Options) > 0 {
		v, err := s.vision(a.Options)
		if err != nil {
			return nil, err
		}
		available = map[pipeline.Strategy]pipeline.Recognizer{pipeline.StrategyVision: v}
		for k, r := range s.recognizers {
			if k != pipeline.StrategyVision {
				available[k] = r
			}
		}
	}
	r, err := pipeline.Select(strategy, available)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArgs, err)
	}

	res, err := r.Recognize(ctx, data)
	if err != nil {
		return nil, err
	}
	return &boardToSGFResult{Record: res.Record, Strategy: res.Strategy}, nil
}

// === Inspection ===

type boardLocateResult struct {
	Width  int              `json:"width"`
	Height int              `json:"height"`
	Region detection.Region `json:"region"`
}

func (s *Server) handleBoardLocate(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	res, err := s.analyze(ctx, &a)
	if err != nil {
		return nil, err
	}
	b := res.Image.Bounds()
	return &boardLocateResult{Width: b.Dx(), Height: b.Dy(), Region: *res.Region}, nil
}

type boardGridResult struct {
	Region detection.Region `json:"region"`
	Rows   []int            `json:"rows"`
	Cols   []int            `json:"cols"`
	Window int              `json:"window"`
	// Board draws the labels with . X O, one row per line.
	Board string `json:"board"`
}

func (s *Server) handleBoardGrid(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	res, err := s.analyze(ctx, &a)
	if err != nil {
		return nil, err
	}
	return &boardGridResult{
		Region: *res.Region,
		Rows:   res.Lines.Rows,
		Cols:   res.Lines.Cols,
		Window: res.Window,
		Board:  res.Grid.String(),
	}, nil
}

type boardOverlayArgs struct {
	imageArgs
	Labels    *bool  `json:"labels"`
	GridColor string `json:"grid_color"`
}

type boardOverlayResult struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Black    int    `json:"black"`
	White    int    `json:"white"`
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

func (s *Server) handleBoardOverlay(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a boardOverlayArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	res, err := s.analyze(ctx, &a.imageArgs)
	if err != nil {
		return nil, err
	}

	o, err := res.Overlay()
	if err != nil {
		return nil, err
	}
	o.Labels = a.Labels == nil || *a.Labels
	o.GridColor = a.GridColor

	out, err := imaging.RenderOverlay(res.Image, o)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	return &boardOverlayResult{
		Width:    out.Width,
		Height:   out.Height,
		Black:    res.Grid.Count(board.Dark),
		White:    res.Grid.Count(board.Light),
		MimeType: "image/png",
		Data:     base64.StdEncoding.EncodeToString(out.PNG),
	}, nil
}

// === Records ===

type sgfSummaryArgs struct {
	SGF string `json:"sgf"`
}

func (s *Server) handleSGFSummary(args json.RawMessage) (interface{}, error) {
	var a sgfSummaryArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.SGF == "" {
		return nil, fmt.Errorf("%w: sgf is required", errInvalidArgs)
	}
	sum, err := sgf.Summarize(sgf.Extract(a.SGF))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	return sum, nil
}
