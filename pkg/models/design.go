package models

// DesignRequest is the raw, untrusted styling payload from the caller.
// Pointer fields distinguish "absent" from zero so defaults apply cleanly.
type DesignRequest struct {
	Data            string `json:"data" binding:"required"`
	Size            *int   `json:"size,omitempty"`
	Border          *int   `json:"border,omitempty"`
	ErrorCorrection string `json:"error_correction,omitempty"`
	FillColor       string `json:"fill_color,omitempty"`
	BackColor       string `json:"back_color,omitempty"`
	ModuleDrawer    string `json:"module_drawer,omitempty"`
	ColorMask       string `json:"color_mask,omitempty"`
	CornerRadius    *int   `json:"corner_radius,omitempty"`

	// Logo and background images arrive base64-encoded.
	LogoImage    string `json:"logo_image,omitempty"`
	LogoSize     *int   `json:"logo_size,omitempty"`
	LogoPosition string `json:"logo_position,omitempty"`
	Background   string `json:"background_image,omitempty"`

	Styling *DesignStyling `json:"custom_styling,omitempty"`
}

// DesignStyling carries the optional decoration block.
type DesignStyling struct {
	BorderWidth   *int     `json:"border_width,omitempty"`
	BorderColor   string   `json:"border_color,omitempty"`
	Shadow        bool     `json:"shadow,omitempty"`
	ShadowOffset  *int     `json:"shadow_offset,omitempty"`
	ShadowColor   string   `json:"shadow_color,omitempty"`
	ShadowOpacity *float64 `json:"shadow_opacity,omitempty"`
	Text          string   `json:"text,omitempty"`
	TextColor     string   `json:"text_color,omitempty"`
	TextSize      *int     `json:"text_size,omitempty"`
	TextPosition  string   `json:"text_position,omitempty"`
}

// DesignMetadata echoes which options were applied.
type DesignMetadata struct {
	Data            string `json:"data"`
	ErrorCorrection string `json:"error_correction"`
	ModuleDrawer    string `json:"module_drawer"`
	ColorMask       string `json:"color_mask"`
	HasLogo         bool   `json:"has_logo"`
	HasBackground   bool   `json:"has_background"`
	HasStyling      bool   `json:"has_styling"`
}

// DesignResponse is the render endpoint payload. ImageData is base64 PNG.
type DesignResponse struct {
	Success     bool           `json:"success"`
	ImageData   string         `json:"image_data,omitempty"`
	ImageFormat string         `json:"image_format,omitempty"`
	Width       int            `json:"width,omitempty"`
	Height      int            `json:"height,omitempty"`
	Error       string         `json:"error,omitempty"`
	Metadata    DesignMetadata `json:"metadata"`
}
