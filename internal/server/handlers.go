package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/ironsheep/charseg-mcp/internal/imaging"
	"github.com/ironsheep/charseg-mcp/internal/layout"
	"github.com/ironsheep/charseg-mcp/internal/logging"
	"github.com/ironsheep/charseg-mcp/internal/segment"
)

// Error codes reported in the data of a failed tool call, next to the
// segment.ErrorCode values.
const (
	codeUnknownTemplate = "UNKNOWN_TEMPLATE"
	codeInvalidArgument = "INVALID_ARGUMENT"
	codeToolError       = "TOOL_ERROR"
)

var errInvalidArgument = errors.New("invalid argument")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "segment_characters").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// ToolErrorData is the data of a -32000 error response.
type ToolErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000 and
// a ToolErrorData payload.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	log := logging.Logger().With(slog.String("tool", params.Name), slog.Duration("elapsed", time.Since(start)))
	if err != nil {
		data := toolErrorData(err)
		log.Warn("tool call failed", slog.String("code", data.Code), slog.Any("error", err))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", data)
	}
	log.Debug("tool call")

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
//  2. Applies server defaults for optional parameters
//  3. Loads the image from the cache or decodes the inline payload
//  4. Calls into imaging, segment or layout
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Region Operations
	case "image_crop":
		return s.handleImageCrop(args)

	// Segmentation
	case "segment_characters":
		return s.handleSegmentCharacters(args)
	case "segment_projection":
		return s.handleSegmentProjection(args)
	case "segment_template":
		return s.handleSegmentTemplate(args)

	// Paper Templates
	case "template_list":
		return s.handleTemplateList(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
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

// toolErrorData classifies err for the client.
func toolErrorData(err error) ToolErrorData {
	code := codeToolError
	var segErr *segment.Error
	switch {
	case errors.As(err, &segErr):
		code = string(segErr.Code)
	case errors.Is(err, imaging.ErrUndecodable):
		code = string(segment.CodeDecode)
	case errors.Is(err, imaging.ErrEmptyRegion):
		code = string(segment.CodeInvalidRegion)
	case errors.Is(err, layout.ErrUnknownTemplate):
		code = codeUnknownTemplate
	case errors.Is(err, errInvalidArgument):
		code = codeInvalidArgument
	}
	return ToolErrorData{Code: code, Message: err.Error()}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Shared argument types ===

// sourceArgs names the image to work on: a file path (cached) or an inline
// base64 payload, optionally as a data URL.
type sourceArgs struct {
	Path      string `json:"path"`
	ImageData string `json:"image_data"`
}

// regionArgs is a crop rectangle; rows [top, bottom), columns [left, right).
type regionArgs struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
	Right  int `json:"right"`
}

func (r regionArgs) region() imaging.Region {
	return imaging.Region{Top: r.Top, Bottom: r.Bottom, Left: r.Left, Right: r.Right}
}

// widthArgs override the configured character widths. Zero keeps the default.
type widthArgs struct {
	MinCharWidth      int   `json:"min_char_width"`
	MaxCharWidth      int   `json:"max_char_width"`
	SplitTrailingSpan *bool `json:"split_trailing_span"`
}

func (s *Server) segmentConfig(w widthArgs) segment.Config {
	cfg := s.cfg.Segment.WithWidths(w.MinCharWidth, w.MaxCharWidth)
	if w.SplitTrailingSpan != nil {
		cfg.SplitTrailingSpan = *w.SplitTrailingSpan
	}
	return cfg
}

// raster returns the encoded bytes of an inline source.
func (src sourceArgs) raster() ([]byte, error) {
	return imaging.DecodeDataURL(src.ImageData)
}

// loadImage resolves a source to a decoded image.
func (s *Server) loadImage(src sourceArgs) (image.Image, error) {
	switch {
	case src.Path != "" && src.ImageData != "":
		return nil, fmt.Errorf("%w: give either path or image_data, not both", errInvalidArgument)
	case src.Path != "":
		return s.cache.Load(src.Path)
	case src.ImageData != "":
		data, err := src.raster()
		if err != nil {
			return nil, err
		}
		img, _, err := imaging.DecodeRaster(data)
		return img, err
	default:
		return nil, fmt.Errorf("%w: path or image_data is required", errInvalidArgument)
	}
}

// === Region Operation Handlers ===

type imageCropArgs struct {
	Path string `json:"path"`
	regionArgs
	Scale float64 `json:"scale"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.CropImage(img, a.region(), a.Scale)
}

// === Segmentation Handlers ===

type segmentCharactersArgs struct {
	sourceArgs
	regionArgs
	widthArgs
	IncludePlot bool `json:"include_plot"`
}

// SegmentCharactersResult is the segment_characters payload.
type SegmentCharactersResult struct {
	*segment.Result
	CharacterCount int                 `json:"character_count"`
	Plot           *imaging.PlotResult `json:"plot,omitempty"`
}

func (s *Server) handleSegmentCharacters(args json.RawMessage) (interface{}, error) {
	var a segmentCharactersArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg := s.segmentConfig(a.widthArgs)

	var trace *segment.Trace
	opts := []segment.Option{segment.WithObserver(segment.LogObserver(logging.Logger()))}
	if a.IncludePlot {
		opts = append(opts, segment.WithObserver(segment.ObserverFunc(func(t *segment.Trace) { trace = t })))
	}

	var (
		res *segment.Result
		err error
	)
	if a.Path == "" && a.ImageData != "" {
		data, derr := a.raster()
		if derr != nil {
			return nil, derr
		}
		res, err = segment.Segment(data, a.region(), cfg, opts...)
	} else {
		img, lerr := s.loadImage(a.sourceArgs)
		if lerr != nil {
			return nil, lerr
		}
		res, err = segment.SegmentImage(img, a.region(), cfg, opts...)
	}
	if err != nil {
		return nil, err
	}

	out := &SegmentCharactersResult{Result: res, CharacterCount: characterCount(res.Splits)}
	if trace != nil {
		plot, err := imaging.RenderPlot(trace.Crop, trace.Mask, trace.Analysis.Projection, trace.Analysis.Splits)
		if err != nil {
			return nil, fmt.Errorf("failed to render plot: %w", err)
		}
		out.Plot = plot
	}
	return out, nil
}

// characterCount is the number of cells between consecutive splits.
func characterCount(splits []int) int {
	if len(splits) < 2 {
		return 0
	}
	return len(splits) - 1
}

type segmentProjectionArgs struct {
	sourceArgs
	regionArgs
	widthArgs
}

// SegmentProjectionResult is the segment_projection payload: every
// intermediate of the algorithm, in crop-local columns.
type SegmentProjectionResult struct {
	Region    imaging.Region `json:"region"`
	Threshold uint8          `json:"threshold"`
	*segment.Analysis
	GrayHistogram  []int `json:"gray_histogram"`
	SplitPositions []int `json:"split_positions"`
}

func (s *Server) handleSegmentProjection(args json.RawMessage) (interface{}, error) {
	var a segmentProjectionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadImage(a.sourceArgs)
	if err != nil {
		return nil, err
	}

	var trace *segment.Trace
	res, err := segment.SegmentImage(img, a.region(), s.segmentConfig(a.widthArgs),
		segment.WithObserver(segment.ObserverFunc(func(t *segment.Trace) { trace = t })))
	if err != nil {
		return nil, err
	}
	return &SegmentProjectionResult{
		Region:         res.Region,
		Threshold:      res.Threshold,
		Analysis:       trace.Analysis,
		GrayHistogram:  trace.Mask.Histogram,
		SplitPositions: res.Splits,
	}, nil
}

type segmentTemplateArgs struct {
	sourceArgs
	widthArgs
	Template string `json:"template"`
}

// TemplateRowResult is the segmentation of one ruled line.
type TemplateRowResult struct {
	Column         int            `json:"column"`
	Line           int            `json:"line"`
	Region         imaging.Region `json:"region"`
	SplitPositions []int          `json:"split_positions"`
}

// SegmentTemplateResult is the segment_template payload.
type SegmentTemplateResult struct {
	Template string              `json:"template"`
	Rows     []TemplateRowResult `json:"rows"`
}

func (s *Server) handleSegmentTemplate(args json.RawMessage) (interface{}, error) {
	var a segmentTemplateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	tpl, err := s.templates.Lookup(a.Template)
	if err != nil {
		return nil, err
	}
	img, err := s.loadImage(a.sourceArgs)
	if err != nil {
		return nil, err
	}

	rows := tpl.Rows()
	results, err := segment.SegmentBatch(context.Background(), img, tpl.Regions(), s.segmentConfig(a.widthArgs), s.cfg.BatchWorkers)
	if err != nil {
		return nil, err
	}

	out := &SegmentTemplateResult{Template: tpl.Name, Rows: make([]TemplateRowResult, len(rows))}
	for i, row := range rows {
		out.Rows[i] = TemplateRowResult{
			Column:         row.Column,
			Line:           row.Line,
			Region:         results[i].Region,
			SplitPositions: results[i].Splits,
		}
	}
	return out, nil
}

// === Paper Template Handlers ===

// TemplateListResult is the template_list payload.
type TemplateListResult struct {
	Templates []layout.Template `json:"templates"`
}

func (s *Server) handleTemplateList(_ json.RawMessage) (interface{}, error) {
	names := s.templates.Names()
	out := &TemplateListResult{Templates: make([]layout.Template, 0, len(names))}
	for _, name := range names {
		tpl, err := s.templates.Lookup(name)
		if err != nil {
			return nil, err
		}
		out.Templates = append(out.Templates, tpl)
	}
	return out, nil
}
