package utils

import (
	"strings"

	ua "github.com/mssola/user_agent"
)

// ClientInfo holds what the request logger records about a caller
type ClientInfo struct {
	Kind     string `json:"kind"` // cli, bot, mobile, desktop, unknown
	OS       string `json:"os"`
	Browser  string `json:"browser"`
	Platform string `json:"platform"`
}

// ParseUserAgent parses a User-Agent string into ClientInfo
func ParseUserAgent(userAgent string) ClientInfo {
	if userAgent == "" {
		return ClientInfo{Kind: "unknown", OS: "Unknown", Browser: "Unknown", Platform: "unknown"}
	}

	parser := ua.New(userAgent)
	name, version := parser.Browser()

	info := ClientInfo{
		OS:       getOS(parser),
		Browser:  strings.TrimSpace(name + " " + version),
		Platform: getPlatform(parser),
	}
	if info.Browser == "" {
		info.Browser = "Unknown"
	}

	switch {
	case isCommandLine(userAgent):
		info.Kind = "cli"
	case parser.Bot():
		info.Kind = "bot"
	case parser.Mobile():
		info.Kind = "mobile"
	default:
		info.Kind = "desktop"
	}
	return info
}

// isCommandLine recognizes HTTP clients used from scripts and the flightplan CLI
func isCommandLine(userAgent string) bool {
	lower := strings.ToLower(userAgent)
	for _, prefix := range []string{"curl/", "wget/", "httpie/", "go-http-client/", "flightplan/"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// getOS extracts operating system name and version
func getOS(parser *ua.UserAgent) string {
	osInfo := parser.OSInfo()
	if osInfo.Name == "" {
		return "Unknown"
	}
	if osInfo.Version != "" {
		return osInfo.Name + " " + osInfo.Version
	}
	return osInfo.Name
}

// getPlatform determines the platform (android, ios, windows, etc.)
func getPlatform(parser *ua.UserAgent) string {
	osName := strings.ToLower(parser.OSInfo().Name)

	platforms := []struct{ key, platform string }{
		{"android", "android"},
		{"iphone os", "ios"},
		{"ios", "ios"},
		{"windows", "windows"},
		{"mac os x", "mac"},
		{"macos", "mac"},
		{"chrome os", "chromeos"},
		{"linux", "linux"},
		{"ubuntu", "linux"},
	}

	for _, p := range platforms {
		if strings.Contains(osName, p.key) {
			return p.platform
		}
	}
	return "unknown"
}
