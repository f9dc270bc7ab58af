package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/stone2sgf/internal/board"
	"github.com/ironsheep/stone2sgf/internal/boardtest"
	"github.com/ironsheep/stone2sgf/internal/pipeline"
	"github.com/ironsheep/stone2sgf/internal/sgf"
)

// createBoardFile renders a synthetic board photograph and returns its path.
func createBoardFile(t *testing.T, o boardtest.Options) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.png")
	if err := os.WriteFile(path, boardtest.PNG(t, o), 0o644); err != nil {
		t.Fatalf("failed to write board: %v", err)
	}
	return path
}

func twoBlackStones() boardtest.Options {
	return boardtest.Options{Stones: []boardtest.Stone{
		{Row: 3, Col: 3, Label: board.Dark},
		{Row: 15, Col: 15, Label: board.Dark},
	}}
}

func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()
	paramsJSON, _ := json.Marshal(map[string]interface{}{"name": name, "arguments": args})
	resp := s.handleRequest(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeResult unpacks the JSON text content of a successful response.
func decodeResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	content := resp.Result.(map[string]interface{})["content"].([]map[string]interface{})
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), v); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
}

func wantErrorCode(t *testing.T, resp *MCPResponse, code int) {
	t.Helper()
	if resp.Error == nil {
		t.Fatalf("expected error code %d, got result %v", code, resp.Result)
	}
	if resp.Error.Code != code {
		t.Errorf("error code: got %d (%s), want %d", resp.Error.Code, resp.Error.Message, code)
	}
}

type sgfResult struct {
	SGF      string `json:"sgf"`
	Size     int    `json:"size"`
	Black    int    `json:"black"`
	White    int    `json:"white"`
	Strategy string `json:"strategy"`
}

func TestHandleToolsCall_BoardToSGF(t *testing.T) {
	s := newTestServer(t)
	path := createBoardFile(t, twoBlackStones())

	var got sgfResult
	decodeResult(t, callTool(t, s, "board_to_sgf", map[string]interface{}{"path": path}), &got)

	if got.SGF != "(;FF[4]GM[1]SZ[19]CA[UTF-8]AP[Stone-to-SGF-CV:1.0]\n;AB[dd][pp]AW)" {
		t.Errorf("sgf: got %q", got.SGF)
	}
	if got.Black != 2 || got.White != 0 || got.Size != 19 {
		t.Errorf("counts: got %+v", got)
	}
	if got.Strategy != "vision" {
		t.Errorf("strategy: got %s, want vision", got.Strategy)
	}
}

func TestHandleToolsCall_BoardToSGFInlineImage(t *testing.T) {
	s := newTestServer(t)
	data := boardtest.PNG(t, twoBlackStones())

	var got sgfResult
	decodeResult(t, callTool(t, s, "board_to_sgf", map[string]interface{}{
		"image": base64.StdEncoding.EncodeToString(data),
	}), &got)
	if !strings.HasSuffix(got.SGF, ";AB[dd][pp]AW)") {
		t.Errorf("sgf: got %q", got.SGF)
	}
}

func TestHandleToolsCall_BoardToSGFOptions(t *testing.T) {
	s := newTestServer(t)
	path := createBoardFile(t, boardtest.Options{Size: 9, Stones: []boardtest.Stone{
		{Row: 2, Col: 2, Label: board.Dark},
	}})

	var got sgfResult
	decodeResult(t, callTool(t, s, "board_to_sgf", map[string]interface{}{
		"path":    path,
		"options": map[string]interface{}{"board_size": 9, "app_id": "test"},
	}), &got)
	if got.SGF != "(;FF[4]GM[1]SZ[9]CA[UTF-8]AP[test]\n;AB[cc]AW)" {
		t.Errorf("sgf: got %q", got.SGF)
	}

	// the override is per call
	if s.base.BoardSize != 19 {
		t.Errorf("server config changed: board size %d", s.base.BoardSize)
	}
}

func TestHandleToolsCall_InputErrors(t *testing.T) {
	s := newTestServer(t)
	blank := createBoardFile(t, boardtest.Options{})
	stones := createBoardFile(t, twoBlackStones())

	tests := []struct {
		name string
		tool string
		args map[string]interface{}
	}{
		{"no image", "board_to_sgf", map[string]interface{}{}},
		{"path and image", "board_to_sgf", map[string]interface{}{"path": stones, "image": "AAAA"}},
		{"missing file", "board_locate", map[string]interface{}{"path": filepath.Join(t.TempDir(), "none.png")}},
		{"bad base64", "board_to_sgf", map[string]interface{}{"image": "%%%"}},
		{"garbage bytes", "board_to_sgf", map[string]interface{}{"image": base64.StdEncoding.EncodeToString([]byte("not an image"))}},
		{"blank board", "board_to_sgf", map[string]interface{}{"path": blank}},
		{"unknown option", "board_grid", map[string]interface{}{"path": stones, "options": map[string]interface{}{"board_sise": 9}}},
		{"invalid option", "board_grid", map[string]interface{}{"path": stones, "options": map[string]interface{}{"board_size": 11}}},
		{"unknown strategy", "board_to_sgf", map[string]interface{}{"path": stones, "strategy": "oracle"}},
		{"remote not configured", "board_to_sgf", map[string]interface{}{"path": stones, "strategy": "remote"}},
		{"bad grid color", "board_overlay", map[string]interface{}{"path": stones, "grid_color": "red"}},
		{"empty sgf", "sgf_summary", map[string]interface{}{}},
		{"invalid sgf", "sgf_summary", map[string]interface{}{"sgf": "(;AB[zz])"}},
		{"unknown tool", "board_solve", map[string]interface{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantErrorCode(t, callTool(t, s, tt.tool, tt.args), codeInvalidParams)
		})
	}
}

func TestHandleToolsCall_BlankBoardMessage(t *testing.T) {
	s := newTestServer(t)
	resp := callTool(t, s, "board_to_sgf", map[string]interface{}{"path": createBoardFile(t, boardtest.Options{})})
	wantErrorCode(t, resp, codeInvalidParams)
	if !strings.HasPrefix(resp.Error.Message, "No stones detected.") {
		t.Errorf("message: got %q", resp.Error.Message)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	})
	wantErrorCode(t, resp, codeInvalidParams)
}

func TestHandleToolsCall_RemoteStrategy(t *testing.T) {
	rec, err := sgf.Parse("(;FF[4]GM[1]SZ[13];AB[dd]AW[jj][kk])")
	if err != nil {
		t.Fatal(err)
	}
	remote := &stubRecognizer{res: &pipeline.Result{Record: rec, Strategy: pipeline.StrategyRemote}}
	s, err := New(Options{Vision: pipeline.DefaultConfig(), Remote: remote})
	if err != nil {
		t.Fatal(err)
	}

	var got sgfResult
	decodeResult(t, callTool(t, s, "board_to_sgf", map[string]interface{}{
		"image":    base64.StdEncoding.EncodeToString([]byte("bytes are passed through")),
		"strategy": "remote",
	}), &got)
	if got.Strategy != "remote" || got.Size != 13 || got.Black != 1 || got.White != 2 {
		t.Errorf("remote result: got %+v", got)
	}

	remote.res, remote.err = nil, errors.New("connection reset")
	resp := callTool(t, s, "board_to_sgf", map[string]interface{}{"image": "AAAA", "strategy": "remote"})
	wantErrorCode(t, resp, codeToolFailed)
	if resp.Error.Data != "connection reset" {
		t.Errorf("data: got %v", resp.Error.Data)
	}
}

func TestHandleToolsCall_BoardLocate(t *testing.T) {
	s := newTestServer(t)

	var got boardLocateResult
	decodeResult(t, callTool(t, s, "board_locate", map[string]interface{}{
		"path": createBoardFile(t, twoBlackStones()),
	}), &got)

	if got.Width != 640 || got.Height != 640 {
		t.Errorf("dimensions: got %dx%d, want 640x640", got.Width, got.Height)
	}
	if got.Region.Fallback {
		t.Error("board outline should have been found")
	}
	if got.Region.X < 35 || got.Region.X > 45 || got.Region.Width < 550 || got.Region.Width > 570 {
		t.Errorf("region: got %+v", got.Region)
	}
}

func TestHandleToolsCall_BoardGrid(t *testing.T) {
	s := newTestServer(t)

	var got boardGridResult
	decodeResult(t, callTool(t, s, "board_grid", map[string]interface{}{
		"path": createBoardFile(t, twoBlackStones()),
	}), &got)

	if len(got.Rows) != 19 || len(got.Cols) != 19 {
		t.Fatalf("lines: got %d rows, %d cols", len(got.Rows), len(got.Cols))
	}
	if got.Window != 9 {
		t.Errorf("window: got %d, want 9", got.Window)
	}
	if strings.Count(got.Board, "X") != 2 || strings.Count(got.Board, "O") != 0 {
		t.Errorf("board diagram:\n%s", got.Board)
	}
}

func TestHandleToolsCall_BoardGridBlank(t *testing.T) {
	s := newTestServer(t)

	var got boardGridResult
	decodeResult(t, callTool(t, s, "board_grid", map[string]interface{}{
		"path": createBoardFile(t, boardtest.Options{}),
	}), &got)
	if strings.ContainsAny(got.Board, "XO") {
		t.Errorf("blank board should have no stones:\n%s", got.Board)
	}
}

func TestHandleToolsCall_BoardOverlay(t *testing.T) {
	s := newTestServer(t)

	var got boardOverlayResult
	decodeResult(t, callTool(t, s, "board_overlay", map[string]interface{}{
		"path":       createBoardFile(t, twoBlackStones()),
		"grid_color": "#0000ff",
	}), &got)

	if got.Black != 2 || got.White != 0 {
		t.Errorf("counts: got %d/%d", got.Black, got.White)
	}
	if got.MimeType != "image/png" {
		t.Errorf("mime type: got %s", got.MimeType)
	}
	raw, err := base64.StdEncoding.DecodeString(got.Data)
	if err != nil {
		t.Fatalf("overlay is not base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("overlay is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != got.Width || b.Dy() != got.Height || got.Width != 640 {
		t.Errorf("overlay bounds %v, reported %dx%d", b, got.Width, got.Height)
	}
}
