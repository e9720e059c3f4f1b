package request

import "strings"

const (
	ClientTypeWeb    = "web"
	ClientTypeMobile = "mobile"
	ClientTypeAPI    = "api"
)

// ResolveClientType picks the client type from the explicit X-Client-Type
// header, falling back to a User-Agent sniff.
func ResolveClientType(clientHeader, userAgent string) string {
	switch strings.ToLower(strings.TrimSpace(clientHeader)) {
	case ClientTypeWeb:
		return ClientTypeWeb
	case ClientTypeMobile:
		return ClientTypeMobile
	case ClientTypeAPI:
		return ClientTypeAPI
	}

	ua := strings.ToLower(userAgent)
	if strings.Contains(ua, "mozilla") || strings.Contains(ua, "chrome") || strings.Contains(ua, "safari") {
		return ClientTypeWeb
	}
	return ClientTypeAPI
}

// IsWebClient reports whether auth tokens should also be set as cookies.
func IsWebClient(clientType string) bool {
	return clientType == ClientTypeWeb
}
