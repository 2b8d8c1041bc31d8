package models

// BoundingBox is an axis-aligned symbol location in source-image pixels.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SymbolInfo is one decoded symbol plus its classified content.
type SymbolInfo struct {
	Data         string       `json:"data"`
	Format       string       `json:"format"`
	SourceEngine string       `json:"source_engine"`
	BoundingBox  *BoundingBox `json:"bounding_box,omitempty"`
	Content      ContentInfo  `json:"content"`
}

// ContentInfo classifies a decoded payload.
type ContentInfo struct {
	Type   string      `json:"type"`
	Length int         `json:"length"`
	WiFi   *WiFiDetail `json:"wifi,omitempty"`
}

// WiFiDetail holds parsed WIFI: record fields.
type WiFiDetail struct {
	SSID     string `json:"ssid"`
	Security string `json:"security"`
	Password string `json:"password"`
	Hidden   bool   `json:"hidden"`
}

// ScanResponse is the decode endpoint payload.
type ScanResponse struct {
	Success           bool         `json:"success"`
	Symbols           []SymbolInfo `json:"symbols"`
	Error             string       `json:"error,omitempty"`
	ProcessingTimeSec float64      `json:"processing_time_sec"`
}

// BatchScanResponse wraps per-image results in input order.
type BatchScanResponse struct {
	Results []ScanResponse `json:"results"`
}
