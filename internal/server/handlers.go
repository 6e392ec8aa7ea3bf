package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"strings"

	"github.com/ironsheep/string-art-mcp/internal/config"
	"github.com/ironsheep/string-art-mcp/internal/engine"
	"github.com/ironsheep/string-art-mcp/internal/field"
	"github.com/ironsheep/string-art-mcp/internal/generate"
	"github.com/ironsheep/string-art-mcp/internal/imaging"
	"github.com/ironsheep/string-art-mcp/internal/nails"
	"github.com/ironsheep/string-art-mcp/internal/render"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "string_art_generate").
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
//  3. Loads images from cache as needed
//  4. Calls the engine or a renderer
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	return recoverTool(name, func() (interface{}, error) {
		return s.dispatchTool(name, args)
	})
}

// recoverTool runs fn and turns a panic into an error, so one bad call
// cannot take down the stdio loop.
func recoverTool(name string, fn func() (interface{}, error)) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Tool %s panicked: %v", name, r)
			result, err = nil, fmt.Errorf("tool %s failed: %v", name, r)
		}
	}()
	return fn()
}

func (s *Server) dispatchTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "string_art_nails":
		return s.handleNails(args)
	case "string_art_generate":
		return s.handleGenerate(args, false)
	case "string_art_generate_color":
		return s.handleGenerate(args, true)
	case "string_art_preview":
		return s.handlePreview(args)
	case "string_art_svg":
		return s.handleSVG(args)
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

// === Image Information ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	info, err := imaging.LoadImageInfo(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	if s.engineLog != nil {
		s.engineLog.Printf("Image loaded: %s (%d cached)", a.Path, s.cache.Len())
	}
	return info, nil
}

// === Shared argument handling ===

type layoutArgs struct {
	Nails  int    `json:"nails"`
	Layout string `json:"layout"`
}

func (a layoutArgs) kind() (nails.Kind, error) {
	return nails.ParseKind(a.Layout)
}

func (a layoutArgs) count() (int, error) {
	if a.Nails == 0 {
		return config.DefaultNails, nil
	}
	if a.Nails < config.MinNails || a.Nails > config.MaxNails {
		return 0, fmt.Errorf("number of nails must be between %d and %d, got %d", config.MinNails, config.MaxNails, a.Nails)
	}
	return a.Nails, nil
}

type dimensionArgs struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// dimensions resolves the processing size from the image when a path is
// given, otherwise from width and height.
func (s *Server) dimensions(a dimensionArgs) (int, int, error) {
	if a.Path != "" {
		dims, err := imaging.GetProcessingDimensions(s.cache, a.Path)
		if err != nil {
			return 0, 0, err
		}
		return dims.Width, dims.Height, nil
	}
	if a.Width <= 0 || a.Height <= 0 {
		return 0, 0, fmt.Errorf("either path or positive width and height are required")
	}
	if a.Width > config.MaxDimension || a.Height > config.MaxDimension {
		return 0, 0, fmt.Errorf("width and height must be at most %d, got %dx%d", config.MaxDimension, a.Width, a.Height)
	}
	return a.Width, a.Height, nil
}

func (s *Server) buildLayout(d dimensionArgs, l layoutArgs) (*nails.Layout, error) {
	w, h, err := s.dimensions(d)
	if err != nil {
		return nil, err
	}
	kind, err := l.kind()
	if err != nil {
		return nil, err
	}
	n, err := l.count()
	if err != nil {
		return nil, err
	}
	return nails.New(kind, w, h, n), nil
}

// === Nails ===

type nailsArgs struct {
	dimensionArgs
	layoutArgs
}

// NailsResult lists the nail coordinates of a layout.
type NailsResult struct {
	Layout    string        `json:"layout"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	Requested int           `json:"requested"`
	Count     int           `json:"count"`
	Radius    float64       `json:"radius,omitempty"`
	Nails     []nails.Point `json:"nails"`
}

func (s *Server) handleNails(args json.RawMessage) (interface{}, error) {
	var a nailsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	l, err := s.buildLayout(a.dimensionArgs, a.layoutArgs)
	if err != nil {
		return nil, err
	}
	return &NailsResult{
		Layout:    l.Kind().String(),
		Width:     l.Width(),
		Height:    l.Height(),
		Requested: l.Requested(),
		Count:     l.Count(),
		Radius:    l.Radius(),
		Nails:     l.Points(),
	}, nil
}

// === Generation ===

type generateArgs struct {
	Path                string          `json:"path"`
	Region              string          `json:"region"`
	Crop                *imaging.Region `json:"crop"`
	Contrast            *float64        `json:"contrast"`
	Thread              string          `json:"thread"`
	PaperSize           string          `json:"paper_size"`
	IncludeInstructions bool            `json:"include_instructions"`
	IncludeSVG          bool            `json:"include_svg"`
	MaxStrings          int             `json:"max_strings"`
	Strategy            int             `json:"strategy"`
	ColorOrder          string          `json:"color_order"`
	StringsPerColor     int             `json:"strings_per_color"`
	Sequential          bool            `json:"sequential"`
	layoutArgs
}

// settings fills unset arguments with the defaults.
func (a generateArgs) settings(color bool) (config.Settings, error) {
	st := config.Default()
	st.Color = color

	kind, err := a.kind()
	if err != nil {
		return st, err
	}
	st.Layout = kind
	if a.Nails != 0 {
		st.Nails = a.Nails
	}
	if a.Contrast != nil {
		st.Contrast = *a.Contrast
	}
	if a.Thread != "" {
		st.Thread = a.Thread
	}
	if a.PaperSize != "" {
		st.PaperWidth, st.PaperHeight, err = config.ParsePaperSize(a.PaperSize)
		if err != nil {
			return st, err
		}
	}
	if color {
		if a.ColorOrder != "" {
			st.ColorOrder = a.ColorOrder
		}
		if a.StringsPerColor != 0 {
			st.StringsPerColor = a.StringsPerColor
		}
		st.Sequential = a.Sequential
	} else {
		st.MaxStrings = a.MaxStrings
		if st.Strategy, err = engine.ParseStrategy(a.Strategy); err != nil {
			return st, err
		}
	}
	return st, st.Validate()
}

// source loads the image and applies the optional crop.
func (s *Server) source(a generateArgs) (image.Image, error) {
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	switch {
	case a.Crop != nil && !a.Crop.IsZero():
		return imaging.CropRegion(img, *a.Crop)
	case a.Region != "":
		return imaging.CropNamed(img, a.Region)
	default:
		return img, nil
	}
}

// GenerateResult is the outcome of a grayscale generation.
type GenerateResult struct {
	Sequence     []int   `json:"sequence"`
	Connections  int     `json:"connections"`
	StopReason   string  `json:"stop_reason"`
	Iterations   int     `json:"iterations"`
	LastScore    float64 `json:"last_score"`
	Strategy     int     `json:"strategy"`
	StrategyName string  `json:"strategy_name"`
	artworkInfo
}

// ChannelSequence is one color channel's sequence.
type ChannelSequence struct {
	Channel    string `json:"channel"`
	Color      string `json:"color"`
	Sequence   []int  `json:"sequence"`
	StopReason string `json:"stop_reason"`
}

// ColorGenerateResult is the outcome of a color generation. Channels are in
// display order.
type ColorGenerateResult struct {
	Channels        []ChannelSequence `json:"channels"`
	Total           int               `json:"total"`
	ColorOrder      string            `json:"color_order"`
	StringsPerColor int               `json:"strings_per_color"`
	artworkInfo
}

type artworkInfo struct {
	Layout           string `json:"layout"`
	Nails            int    `json:"nails"`
	ProcessingWidth  int    `json:"processing_width"`
	ProcessingHeight int    `json:"processing_height"`
	FilenameSuffix   string `json:"filename_suffix"`
	Instructions     string `json:"instructions,omitempty"`
	SVG              string `json:"svg,omitempty"`

	// Darkness describes the prepared source, keyed "gray" or by channel.
	Darkness map[string]field.Stats `json:"darkness"`
}

func (s *Server) handleGenerate(args json.RawMessage, color bool) (interface{}, error) {
	var a generateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	st, err := a.settings(color)
	if err != nil {
		return nil, err
	}
	img, err := s.source(a)
	if err != nil {
		return nil, err
	}

	art, err := generate.FromImage(img, st, s.engineLog)
	if err != nil {
		return nil, err
	}

	info := artworkInfo{
		Layout:           art.Layout.Kind().String(),
		Nails:            art.Layout.Count(),
		ProcessingWidth:  art.Width,
		ProcessingHeight: art.Height,
		FilenameSuffix:   st.Suffix(),
		Darkness:         art.Darkness,
	}
	if a.IncludeInstructions {
		var buf bytes.Buffer
		if err := art.WriteInstructions(&buf, a.Path); err != nil {
			return nil, fmt.Errorf("failed to render instructions: %w", err)
		}
		info.Instructions = buf.String()
	}
	if a.IncludeSVG {
		var buf bytes.Buffer
		if err := art.WriteSVG(&buf, a.Path); err != nil {
			return nil, fmt.Errorf("failed to render svg: %w", err)
		}
		info.SVG = buf.String()
	}

	if art.Color != nil {
		order := st.Order()
		res := &ColorGenerateResult{
			Total:           art.Color.Total,
			ColorOrder:      engine.FormatColorOrder(order),
			StringsPerColor: engine.ClampStringsPerColor(st.StringsPerColor),
			artworkInfo:     info,
		}
		for _, ch := range order {
			res.Channels = append(res.Channels, ChannelSequence{
				Channel:    ch.String(),
				Color:      ch.SVGColor(),
				Sequence:   art.Color.Sequence(ch),
				StopReason: art.Color.Stops[ch].String(),
			})
		}
		return res, nil
	}

	return &GenerateResult{
		Sequence:     art.Gray.Sequence,
		Connections:  len(art.Gray.Sequence),
		StopReason:   art.Gray.Stop.String(),
		Iterations:   art.Gray.Iterations,
		LastScore:    art.Gray.LastScore,
		Strategy:     int(art.Strategy),
		StrategyName: art.Strategy.String(),
		artworkInfo:  info,
	}, nil
}

// === Rendering ===

type sequenceArgs struct {
	Sequence   []int            `json:"sequence"`
	Sequences  map[string][]int `json:"sequences"`
	ColorOrder string           `json:"color_order"`
}

// colorSequences converts channel-keyed sequences into a bundle. Keys are
// channel names or letters, case-insensitive.
func (a sequenceArgs) colorSequences() (*engine.ColorSequences, []engine.Channel, error) {
	orderText := a.ColorOrder
	if orderText == "" {
		orderText = engine.DefaultColorOrder
	}
	order, err := engine.ParseColorOrder(orderText)
	if err != nil {
		return nil, nil, err
	}

	cs := &engine.ColorSequences{}
	for key, seq := range a.Sequences {
		ch, ok := channelByName(key)
		if !ok {
			return nil, nil, fmt.Errorf("unknown color channel %q (use cyan, magenta, yellow, black)", key)
		}
		switch ch {
		case engine.Cyan:
			cs.Cyan = seq
		case engine.Magenta:
			cs.Magenta = seq
		case engine.Yellow:
			cs.Yellow = seq
		case engine.Black:
			cs.Black = seq
		}
		cs.Total += len(seq)
	}
	return cs, order, nil
}

func (a sequenceArgs) empty() bool {
	if len(a.Sequence) > 0 {
		return false
	}
	for _, seq := range a.Sequences {
		if len(seq) > 0 {
			return false
		}
	}
	return true
}

func channelByName(name string) (engine.Channel, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, ch := range engine.Channels {
		if name == ch.String() || name == strings.ToLower(ch.Letter()) {
			return ch, true
		}
	}
	return engine.Cyan, false
}

type previewArgs struct {
	dimensionArgs
	layoutArgs
	sequenceArgs
	Scale       float64 `json:"scale"`
	StrokeWidth float64 `json:"stroke_width"`
	Background  string  `json:"background"`
	ShowNails   bool    `json:"show_nails"`
	LabelEvery  int     `json:"label_every"`
}

func (s *Server) handlePreview(args json.RawMessage) (interface{}, error) {
	var a previewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.empty() {
		return nil, fmt.Errorf("sequence or sequences is required")
	}
	l, err := s.buildLayout(a.dimensionArgs, a.layoutArgs)
	if err != nil {
		return nil, err
	}

	threads := render.GrayThreads(a.Sequence)
	if len(a.Sequences) > 0 {
		cs, order, err := a.colorSequences()
		if err != nil {
			return nil, err
		}
		threads = render.ColorThreads(cs, order)
	}

	return render.RenderPreview(l, threads, render.PreviewOptions{
		Scale:       a.Scale,
		StrokeWidth: a.StrokeWidth,
		Background:  a.Background,
		ShowNails:   a.ShowNails,
		LabelEvery:  a.LabelEvery,
	})
}

type svgArgs struct {
	dimensionArgs
	layoutArgs
	sequenceArgs
	Thread    string `json:"thread"`
	PaperSize string `json:"paper_size"`
}

// SVGResult carries a rendered diagram.
type SVGResult struct {
	SVG      string `json:"svg"`
	MimeType string `json:"mime_type"`
}

func (s *Server) handleSVG(args json.RawMessage) (interface{}, error) {
	var a svgArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.empty() {
		return nil, fmt.Errorf("sequence or sequences is required")
	}
	l, err := s.buildLayout(a.dimensionArgs, a.layoutArgs)
	if err != nil {
		return nil, err
	}

	job := render.Job{Layout: l, Thread: a.Thread}
	if job.Thread == "" {
		job.Thread = config.DefaultThread
	}
	if job.ThreadMM, err = config.ThreadMM(job.Thread); err != nil {
		return nil, err
	}
	if a.PaperSize != "" {
		if job.PaperWidth, job.PaperHeight, err = config.ParsePaperSize(a.PaperSize); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if len(a.Sequences) > 0 {
		cs, order, err := a.colorSequences()
		if err != nil {
			return nil, err
		}
		job.Order = order
		err = render.WriteColorSVG(&buf, cs, job)
		if err != nil {
			return nil, err
		}
	} else if err := render.WriteSVG(&buf, a.Sequence, job); err != nil {
		return nil, err
	}

	return &SVGResult{SVG: buf.String(), MimeType: "image/svg+xml"}, nil
}
