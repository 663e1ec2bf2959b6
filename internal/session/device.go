package session

import "strings"

type uaRule struct {
	marker string
	label  string
}

// Checked in order; Chromium forks advertise "Chrome/" too, Chrome advertises "Safari/".
var browserRules = []uaRule{
	{"Edg/", "Edge"},
	{"OPR/", "Opera"},
	{"Opera", "Opera"},
	{"Firefox/", "Firefox"},
	{"Chrome/", "Chrome"},
	{"Safari/", "Safari"},
}

var osRules = []uaRule{
	{"Windows", "Windows"},
	{"Android", "Android"},
	{"iPhone", "iOS"},
	{"iPad", "iOS"},
	{"CrOS", "ChromeOS"},
	{"Mac OS X", "macOS"},
	{"Macintosh", "macOS"},
	{"Linux", "Linux"},
}

// DeviceInfo derives a "Browser on OS" label from a User-Agent string.
// Unknown parts fall back to generic names; it never fails.
func DeviceInfo(userAgent string) string {
	return match(userAgent, browserRules, "Browser") + " on " + match(userAgent, osRules, "Unknown OS")
}

func match(ua string, rules []uaRule, fallback string) string {
	for _, r := range rules {
		if strings.Contains(ua, r.marker) {
			return r.label
		}
	}
	return fallback
}
