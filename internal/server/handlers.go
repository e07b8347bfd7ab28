package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image/color"
	"math"

	"github.com/ironsheep/panopatch/internal/camera"
	"github.com/ironsheep/panopatch/internal/config"
	"github.com/ironsheep/panopatch/internal/imaging"
	"github.com/ironsheep/panopatch/internal/sphere"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "sphere_info", "sphere_cubemap").
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
		return errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return resultResponse(req.ID, map[string]interface{}{
		"content": []map[string]interface{}{
			{
				"type": "text",
				"text": mustMarshalJSON(result),
			},
		},
	})
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads panoramas from cache as needed
//  4. Calls the appropriate sphere/patch function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Panorama Information
	case "sphere_info":
		return s.handleSphereInfo(args)

	// Patch Generation
	case "sphere_generate_patches":
		return s.handleGeneratePatches(args)
	case "sphere_cubemap":
		return s.handleCubemap(args)
	case "sphere_footprint":
		return s.handleFootprint(args)

	// Calibration Helpers
	case "sphere_sample":
		return s.handleSample(args)
	case "sphere_measure":
		return s.handleMeasure(args)
	case "sphere_convert_error":
		return s.handleConvertError(args)
	case "sphere_focal_length":
		return s.handleFocalLength(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Panorama Information Handlers ===

type sphereInfoArgs struct {
	Path string `json:"path"`
}

type sphereInfoResult struct {
	*imaging.PanoramaInfo
	Camera camera.Camera `json:"camera"`
}

func (s *Server) handleSphereInfo(args json.RawMessage) (interface{}, error) {
	var a sphereInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	info, err := imaging.LoadPanoramaInfo(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	cam, err := sphere.SphereCamera(info.Width, info.Height)
	if err != nil {
		return nil, err
	}
	return sphereInfoResult{PanoramaInfo: info, Camera: cam}, nil
}

type sampleArgs struct {
	Path string  `json:"path"`
	Lon  float64 `json:"lon"`
	Lat  float64 `json:"lat"`
}

type sampleResult struct {
	sphere.LonLat
	X     float64              `json:"x"`
	Y     float64              `json:"y"`
	Color *imaging.ColorResult `json:"color"`
}

func (s *Server) handleSample(args json.RawMessage) (interface{}, error) {
	var a sampleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Lat < -90 || a.Lat > 90 {
		return nil, fmt.Errorf("lat must be in [-90, 90], got %g", a.Lat)
	}
	bmp, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	ll := sphere.LonLat{Lon: sphere.WrapLongitude(a.Lon), Lat: a.Lat}
	x, y := sphere.LonLatToSphereImage(bmp.Width(), bmp.Height(), ll)
	c, err := bmp.SampleColor(x, y)
	if err != nil {
		return nil, err
	}
	return sampleResult{LonLat: ll, X: x, Y: y, Color: c}, nil
}

type measureArgs struct {
	Path   string  `json:"path"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
}

func (s *Server) handleMeasure(args json.RawMessage) (interface{}, error) {
	var a measureArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path != "" {
		bmp, err := s.cache.Load(a.Path)
		if err != nil {
			return nil, err
		}
		a.Width, a.Height = bmp.Width(), bmp.Height()
	}
	return sphere.MeasureDistance(a.Width, a.Height, a.X1, a.Y1, a.X2, a.Y2)
}

// === Patch Generation Handlers ===

type patchArgs struct {
	Path           string              `json:"path"`
	OutputDir      string              `json:"output_dir"`
	Width          int                 `json:"width"`
	Height         int                 `json:"height"`
	FaceSize       int                 `json:"face_size"`
	FovDeg         float64             `json:"fov_deg"`
	Projection     string              `json:"projection"`
	Layout         string              `json:"layout"`
	OverlapPercent float64             `json:"overlap_percent"`
	Views          []config.ViewConfig `json:"views"`
	Ext            string              `json:"ext"`
	JPEGQuality    int                 `json:"jpeg_quality"`
	Workers        int                 `json:"workers"`
	OutputPath     string              `json:"output_path"`
	LineColor      string              `json:"line_color"`
	GraticuleDeg   float64             `json:"graticule_deg"`
}

// job turns tool arguments into a validated patch-set job.
func (a patchArgs) job() (*config.Job, error) {
	job := &config.Job{
		Panorama: a.Path,
		Patch: config.PatchConfig{
			Width:      a.Width,
			Height:     a.Height,
			FovDeg:     a.FovDeg,
			Projection: a.Projection,
		},
		Layout:  a.Layout,
		Grid:    config.GridConfig{OverlapPercent: a.OverlapPercent},
		Views:   a.Views,
		Output:  config.OutputConfig{Dir: a.OutputDir, Ext: a.Ext, JPEGQuality: a.JPEGQuality},
		Workers: a.Workers,
	}
	if err := job.Normalize(); err != nil {
		return nil, err
	}
	return job, nil
}

type patchFailure struct {
	ImageID int    `json:"image_id"`
	Error   string `json:"error"`
}

type generateResult struct {
	Paths    []string       `json:"paths"`
	IDs      []int          `json:"ids"`
	Camera   camera.Camera  `json:"camera"`
	Failures []patchFailure `json:"failures,omitempty"`
}

func (s *Server) runJob(job *config.Job) (*generateResult, error) {
	res, err := job.Run(context.Background(), s.cache)
	if err != nil {
		return nil, err
	}
	cam, err := job.PatchCamera()
	if err != nil {
		return nil, err
	}
	out := &generateResult{Paths: res.Paths, IDs: res.IDs, Camera: cam}
	for _, f := range res.Failures {
		out.Failures = append(out.Failures, patchFailure{ImageID: f.ImageID, Error: f.Err.Error()})
	}
	return out, nil
}

func (s *Server) handleGeneratePatches(args json.RawMessage) (interface{}, error) {
	var a patchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	job, err := a.job()
	if err != nil {
		return nil, err
	}
	return s.runJob(job)
}

func (s *Server) handleCubemap(args json.RawMessage) (interface{}, error) {
	var a patchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.FaceSize == 0 {
		a.FaceSize = 1024
	}
	a.Width, a.Height, a.FovDeg = a.FaceSize, a.FaceSize, 90
	a.Layout, a.Views = config.LayoutCube, nil
	job, err := a.job()
	if err != nil {
		return nil, err
	}
	return s.runJob(job)
}

type footprintResult struct {
	OutputPath string `json:"output_path"`
	Patches    int    `json:"patches"`
}

func (s *Server) handleFootprint(args json.RawMessage) (interface{}, error) {
	var a patchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.OutputPath == "" {
		return nil, fmt.Errorf("output_path is required")
	}
	// Empty line_color colors each patch differently.
	var lineColor color.RGBA
	if a.LineColor != "" {
		c, err := imaging.ParseHexColor(a.LineColor)
		if err != nil {
			return nil, fmt.Errorf("line_color: %w", err)
		}
		lineColor = c
	}
	// The job needs an output directory; the overlay goes to output_path.
	a.OutputDir = a.OutputPath
	job, err := a.job()
	if err != nil {
		return nil, err
	}
	ids, _, err := job.Rotations()
	if err != nil {
		return nil, err
	}
	bmp, err := job.Footprint(s.cache, lineColor, a.GraticuleDeg)
	if err != nil {
		return nil, err
	}
	if err := imaging.SaveBitmap(bmp, a.OutputPath, a.JPEGQuality); err != nil {
		return nil, err
	}
	return footprintResult{OutputPath: a.OutputPath, Patches: len(ids)}, nil
}

// === Calibration Helper Handlers ===

type convertErrorArgs struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Value  float64 `json:"value"`
	From   string  `json:"from"`
	To     string  `json:"to"`
}

type convertErrorResult struct {
	Value float64 `json:"value"`
	Plane string  `json:"plane"`

	// Degrees is set when the result is a sphere-plane angle.
	Degrees *float64 `json:"degrees,omitempty"`
}

func (s *Server) handleConvertError(args json.RawMessage) (interface{}, error) {
	var a convertErrorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	from, err := sphere.ParsePlane(a.From)
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	to, err := sphere.ParsePlane(a.To)
	if err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	v, err := sphere.ConvertError(a.Width, a.Height, a.Value, from, to)
	if err != nil {
		return nil, err
	}
	res := convertErrorResult{Value: v, Plane: string(to)}
	if to == sphere.PlaneSphere {
		deg := v * 180 / math.Pi
		res.Degrees = &deg
	}
	return res, nil
}

type focalLengthArgs struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	FovDeg float64 `json:"fov_deg"`
}

type focalLengthResult struct {
	FocalLength float64       `json:"focal_length"`
	Camera      camera.Camera `json:"camera"`
}

func (s *Server) handleFocalLength(args json.RawMessage) (interface{}, error) {
	var a focalLengthArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.FovDeg == 0 {
		a.FovDeg = sphere.DefaultFieldOfView
	}
	if a.Width == 0 {
		a.Width = a.Height
	}
	cam, err := sphere.PinholeCamera(a.Width, a.Height, a.FovDeg)
	if err != nil {
		return nil, err
	}
	return focalLengthResult{FocalLength: cam.FocalLength(), Camera: cam}, nil
}
