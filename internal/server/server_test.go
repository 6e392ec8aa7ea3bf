package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	s := New()
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cache == nil {
		t.Fatal("New() did not initialize cache")
	}
}

func TestNewWithLogger(t *testing.T) {
	var buf bytes.Buffer
	s := NewWithLogger(log.New(&buf, "", 0))
	if s.engineLog == nil {
		t.Fatal("NewWithLogger did not keep the logger")
	}

	// A generation run reports its progress to the engine logger.
	imgPath := createBandedImageFile(t, 100, 80)
	var res GenerateResult
	decodeResult(t, callTool(t, s, "string_art_generate", map[string]interface{}{
		"path": imgPath, "nails": 50, "max_strings": 10,
	}), &res)
	if !strings.Contains(buf.String(), "Image prepared: 100x80, 50 nails placed") {
		t.Errorf("engine log missing preparation line: %q", buf.String())
	}
}

func TestHandleRequest_Initialize(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "initialize",
	}

	resp := s.handleRequest(req)

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if resp.ID != 1 {
		t.Errorf("ID: got %v, want 1", resp.ID)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}

	if result["protocolVersion"] != "2024-11-05" {
		t.Errorf("protocolVersion: got %v", result["protocolVersion"])
	}
}

func TestHandleRequest_Ping(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      "ping-1",
		Method:  "ping",
	}

	resp := s.handleRequest(req)

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if resp.ID != "ping-1" {
		t.Errorf("ID: got %v, want ping-1", resp.ID)
	}
}

func TestHandleRequest_ToolsList(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/list",
	}

	resp := s.handleRequest(req)

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}

	tools, ok := result["tools"]
	if !ok {
		t.Fatal("Result should contain 'tools' key")
	}

	toolsList, ok := tools.([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}

	if len(toolsList) != 6 {
		t.Errorf("Expected 6 tools, got %d", len(toolsList))
	}
}

func TestHandleRequest_NotificationsInitialized(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		Method:  "notifications/initialized",
	}

	resp := s.handleRequest(req)

	// Notifications don't get responses
	if resp != nil {
		t.Error("notifications/initialized should return nil response")
	}
}

func TestHandleRequest_MethodNotFound(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "nonexistent/method",
	}

	resp := s.handleRequest(req)

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error == nil {
		t.Fatal("Expected error for unknown method")
	}
	if resp.Error.Code != -32601 {
		t.Errorf("Error code: got %d, want -32601", resp.Error.Code)
	}
}

func TestHandleInitialize(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      "init-1",
	}

	resp := s.handleInitialize(req)

	if resp.ID != "init-1" {
		t.Errorf("ID: got %v, want init-1", resp.ID)
	}
	if resp.JSONRPC != "2.0" {
		t.Errorf("JSONRPC: got %s, want 2.0", resp.JSONRPC)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}

	serverInfo, ok := result["serverInfo"].(map[string]interface{})
	if !ok {
		t.Fatal("serverInfo should be a map")
	}

	if serverInfo["name"] != "string-art-mcp" {
		t.Errorf("serverInfo.name: got %v", serverInfo["name"])
	}
	if serverInfo["version"] != Version {
		t.Errorf("serverInfo.version: got %v", serverInfo["version"])
	}
}

func TestServe(t *testing.T) {
	s := New()
	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`not json`,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"string_art_nails","arguments":{"width":200,"height":100,"nails":50}}}`,
		`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"string_art_preview","arguments":{"width":3000000000,"height":3000000000,"sequence":[0,1,2],"scale":8}}}`,
		`{"jsonrpc":"2.0","id":5,"method":"ping"}`,
	}, "\n")

	var out bytes.Buffer
	if err := s.Serve(strings.NewReader(input), &out); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	var responses []MCPResponse
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var resp MCPResponse
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			t.Fatalf("bad response line %q: %v", scanner.Text(), err)
		}
		responses = append(responses, resp)
	}

	// The notification, the blank line and the bad line get no response.
	if len(responses) != 5 {
		t.Fatalf("got %d responses, want 5", len(responses))
	}
	for i, want := range []float64{1, 2, 3, 4, 5} {
		if responses[i].ID != want {
			t.Errorf("response %d: ID got %v, want %v", i, responses[i].ID, want)
		}
	}
	for _, i := range []int{0, 1, 2, 4} {
		if responses[i].Error != nil {
			t.Errorf("response %d: unexpected error %v", i, responses[i].Error)
		}
	}

	// An oversized canvas is refused and the server keeps answering.
	if responses[3].Error == nil || responses[3].Error.Code != -32000 {
		t.Errorf("oversized preview: got %+v, want a -32000 error", responses[3].Error)
	}

	// The nails result survives the JSON round trip through the transport.
	result, _ := responses[2].Result.(map[string]interface{})
	content, _ := result["content"].([]interface{})
	if len(content) != 1 {
		t.Fatalf("nails response: got %d content entries, want 1", len(content))
	}
	text, _ := content[0].(map[string]interface{})["text"].(string)
	var nailsRes NailsResult
	if err := json.Unmarshal([]byte(text), &nailsRes); err != nil {
		t.Fatalf("nails response text: %v", err)
	}
	if nailsRes.Count != 50 || nailsRes.Layout != "circular" {
		t.Errorf("nails response: got %d %s nails, want 50 circular", nailsRes.Count, nailsRes.Layout)
	}
}
