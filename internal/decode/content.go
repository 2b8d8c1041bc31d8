package decode

import "strings"

// ContentType classifies the payload of a decoded symbol.
type ContentType string

const (
	ContentURL   ContentType = "url"
	ContentEmail ContentType = "email"
	ContentPhone ContentType = "phone"
	ContentWiFi  ContentType = "wifi"
	ContentSMS   ContentType = "sms"
	ContentVCard ContentType = "vcard"
	ContentGeo   ContentType = "geo"
	ContentText  ContentType = "text"
)

// WiFiConfig holds the fields of a WIFI: configuration payload.
type WiFiConfig struct {
	SSID     string `json:"ssid"`
	Security string `json:"security"`
	Password string `json:"password"`
	Hidden   bool   `json:"hidden"`
}

// ContentInfo describes what kind of record a decoded payload carries.
type ContentInfo struct {
	Data   string      `json:"data"`
	Length int         `json:"length"`
	Type   ContentType `json:"type"`
	WiFi   *WiFiConfig `json:"wifi,omitempty"`
}

// Classify inspects decoded text and identifies the record type. Checks run
// in a fixed order so ambiguous payloads classify deterministically.
func Classify(data string) ContentInfo {
	info := ContentInfo{
		Data:   data,
		Length: len(data),
		Type:   ContentText,
	}

	switch {
	case strings.HasPrefix(data, "http://"),
		strings.HasPrefix(data, "https://"),
		strings.HasPrefix(data, "www."):
		info.Type = ContentURL
	case isEmailLike(data):
		info.Type = ContentEmail
	case strings.HasPrefix(data, "tel:"):
		info.Type = ContentPhone
	case strings.HasPrefix(data, "WIFI:"):
		info.Type = ContentWiFi
		info.WiFi = ParseWiFi(data)
	case strings.HasPrefix(data, "sms:"):
		info.Type = ContentSMS
	case strings.HasPrefix(data, "BEGIN:VCARD"):
		info.Type = ContentVCard
	case strings.Contains(strings.ToLower(data), "geo:"),
		strings.Contains(strings.ToLower(data), "latitude"):
		info.Type = ContentGeo
	}

	return info
}

func isEmailLike(data string) bool {
	at := strings.Index(data, "@")
	if at < 0 {
		return false
	}
	return strings.Contains(data[at+1:], ".")
}

// ParseWiFi extracts SSID, security type, password, and hidden flag from a
// "WIFI:T:WPA;S:name;P:pass;H:false;" payload. Unknown fields are ignored.
func ParseWiFi(data string) *WiFiConfig {
	if !strings.HasPrefix(data, "WIFI:") {
		return nil
	}

	cfg := &WiFiConfig{}
	for _, part := range strings.Split(data[len("WIFI:"):], ";") {
		key, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		switch key {
		case "S":
			cfg.SSID = value
		case "T":
			cfg.Security = value
		case "P":
			cfg.Password = value
		case "H":
			cfg.Hidden = strings.EqualFold(value, "true")
		}
	}
	return cfg
}
