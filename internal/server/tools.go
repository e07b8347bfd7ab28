package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProp(what string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": what,
	}
}

// patchProps are the pinhole camera and output settings shared by the
// patch-producing tools.
func patchProps() map[string]interface{} {
	return map[string]interface{}{
		"path":       pathProp("Absolute path to the equirectangular panorama"),
		"output_dir": pathProp("Directory the patches are written to"),
		"width": map[string]interface{}{
			"type":        "integer",
			"description": "Patch width in pixels (default 1024)",
			"default":     1024,
		},
		"height": map[string]interface{}{
			"type":        "integer",
			"description": "Patch height in pixels (default: width)",
		},
		"projection": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"tangent", "perspective"},
			"description": "tangent: uniform-angle grid; perspective: true pinhole projection (default tangent)",
			"default":     "tangent",
		},
		"ext": map[string]interface{}{
			"type":        "string",
			"description": "Output extension, e.g. .jpg or .png (default: the panorama's)",
		},
		"jpeg_quality": map[string]interface{}{
			"type":        "integer",
			"description": "JPEG quality 1-100 (default 95)",
		},
		"workers": map[string]interface{}{
			"type":        "integer",
			"description": "Concurrent patches (default: one per CPU)",
		},
	}
}

func viewsProp() map[string]interface{} {
	return map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id":         map[string]interface{}{"type": "integer"},
				"lon":        map[string]interface{}{"type": "number"},
				"lat":        map[string]interface{}{"type": "number"},
				"roll":       map[string]interface{}{"type": "number"},
				"projection": map[string]interface{}{"type": "string", "enum": []string{"tangent", "perspective"}},
			},
			"required": []string{"id", "lon", "lat"},
		},
		"description": "Explicit patch directions in degrees; longitude grows to the right, latitude upward",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	generate := patchProps()
	generate["layout"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"cube", "grid", "views"},
		"description": "How patch directions are chosen (default: views when given, else cube)",
	}
	generate["fov_deg"] = map[string]interface{}{
		"type":        "number",
		"description": "Vertical field of view in degrees (default 45, or 90 for cube)",
	}
	generate["overlap_percent"] = map[string]interface{}{
		"type":        "number",
		"description": "Overlap between grid neighbours in percent (default 20)",
		"default":     20,
	}
	generate["views"] = viewsProp()

	cubemap := patchProps()
	delete(cubemap, "width")
	delete(cubemap, "height")
	cubemap["face_size"] = map[string]interface{}{
		"type":        "integer",
		"description": "Edge length of each square face in pixels (default 1024)",
		"default":     1024,
	}

	footprint := patchProps()
	delete(footprint, "output_dir")
	delete(footprint, "ext")
	delete(footprint, "jpeg_quality")
	delete(footprint, "workers")
	delete(footprint, "projection")
	footprint["output_path"] = pathProp("File the overlay is written to")
	footprint["layout"] = generate["layout"]
	footprint["fov_deg"] = generate["fov_deg"]
	footprint["overlap_percent"] = generate["overlap_percent"]
	footprint["views"] = viewsProp()
	footprint["graticule_deg"] = map[string]interface{}{
		"type":        "number",
		"description": "Draw labelled meridians and parallels at this spacing in degrees (default: none)",
	}
	footprint["line_color"] = map[string]interface{}{
		"type":        "string",
		"description": "Outline color as hex, e.g. #FF0000 (default: a different color per patch)",
	}

	return []Tool{
		// Panorama Information
		{
			Name:        "sphere_info",
			Description: "Load a panorama and report its size, format, whether it is a full 2:1 equirectangular image, and the matching sphere camera.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProp("Absolute path to the panorama"),
				},
				"required": []string{"path"},
			},
		},

		{
			Name:        "sphere_sample",
			Description: "Sample the panorama color in a direction given in degrees, with bilinear interpolation that wraps across the seam. Returns hex, RGB, RGBA and HSL.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProp("Absolute path to the panorama"),
					"lon":  map[string]interface{}{"type": "number", "description": "Longitude in degrees, growing to the right"},
					"lat":  map[string]interface{}{"type": "number", "description": "Latitude in degrees [-90, 90], growing upward"},
				},
				"required": []string{"path", "lon", "lat"},
			},
		},
		{
			Name:        "sphere_measure",
			Description: "Great-circle angle and heading between two pixel positions of a panorama. Column offsets take the short way across the seam.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProp("Panorama whose size is used (optional if width and height are given)"),
					"width":  map[string]interface{}{"type": "integer", "description": "Panorama width in pixels"},
					"height": map[string]interface{}{"type": "integer", "description": "Panorama height in pixels"},
					"x1":     map[string]interface{}{"type": "number", "description": "First point column"},
					"y1":     map[string]interface{}{"type": "number", "description": "First point row"},
					"x2":     map[string]interface{}{"type": "number", "description": "Second point column"},
					"y2":     map[string]interface{}{"type": "number", "description": "Second point row"},
				},
				"required": []string{"x1", "y1", "x2", "y2"},
			},
		},

		// Patch Generation
		{
			Name:        "sphere_generate_patches",
			Description: "Cut calibrated pinhole patches out of a panorama and write them to disk. Returns the written paths, the patch camera, and any per-patch failures.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": generate,
				"required":   []string{"path", "output_dir"},
			},
		},
		{
			Name:        "sphere_cubemap",
			Description: "Write the six 90 degree cube faces of a panorama (front, right, back, left, up, down).",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": cubemap,
				"required":   []string{"path", "output_dir"},
			},
		},
		{
			Name:        "sphere_footprint",
			Description: "Draw the outline of every planned patch onto a copy of the panorama, to check coverage and seam handling before generating.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": footprint,
				"required":   []string{"path", "output_path"},
			},
		},

		// Calibration Helpers
		{
			Name:        "sphere_convert_error",
			Description: "Convert an error threshold between pixels (image), the normalized camera plane (camera) and radians on the sphere (sphere) for an image of the given size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"width":  map[string]interface{}{"type": "integer", "description": "Image width in pixels"},
					"height": map[string]interface{}{"type": "integer", "description": "Image height in pixels"},
					"value":  map[string]interface{}{"type": "number", "description": "Error bound to convert"},
					"from": map[string]interface{}{
						"type": "string",
						"enum": []string{"image", "camera", "sphere"},
					},
					"to": map[string]interface{}{
						"type": "string",
						"enum": []string{"image", "camera", "sphere"},
					},
				},
				"required": []string{"width", "height", "value", "from", "to"},
			},
		},
		{
			Name:        "sphere_focal_length",
			Description: "Focal length in pixels of a pinhole camera with the given vertical field of view, and the full camera descriptor.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"width":   map[string]interface{}{"type": "integer", "description": "Image width in pixels (default: height)"},
					"height":  map[string]interface{}{"type": "integer", "description": "Image height in pixels"},
					"fov_deg": map[string]interface{}{"type": "number", "description": "Vertical field of view in degrees (default 45)"},
				},
				"required": []string{"height"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return resultResponse(req.ID, map[string]interface{}{
		"tools": GetToolDefinitions(),
	})
}
