package embed

import (
	"bytes"
	"encoding/json"
	"net/url"
	"regexp"
	"strings"
)

// Detector decides whether an attempt failed, from what little a cross-origin
// frame exposes. Implementations are best effort.
type Detector interface {
	// LoadFailed reports whether a page that finished loading with this title
	// is an error page.
	LoadFailed(title string) bool

	// MessageFailed reports whether a message posted by the frame signals an error.
	MessageFailed(origin string, payload []byte) bool
}

// titleSeparators splits "404 Not Found | vidsrc" into its segments.
var titleSeparators = regexp.MustCompile(`\s+[|:\-\x{2013}\x{2014}\x{2022}]\s+`)

// errorSegments match a whole title segment, so film names that merely
// contain "error" or a status code are not mistaken for error pages.
var errorSegments = []*regexp.Regexp{
	regexp.MustCompile(`^(?:(?:http\s+)?error\s*)?[45]\d\d(?:\s*[:.\-]?\s*(?:not found|forbidden|unauthorized|bad request|bad gateway|too many requests|internal server error|service (?:temporarily )?unavailable|gateway time-?out))?$`),
	regexp.MustCompile(`^(?:page |file |video |media )?not found$`),
	regexp.MustCompile(`^(?:forbidden|access denied|bad gateway|service unavailable|(?:video |media )?unavailable)$`),
	regexp.MustCompile(`^just a moment(?:\.|\x{2026})*$`),
	regexp.MustCompile(`^attention required!?$`),
	regexp.MustCompile(`^error(?:\s*[:!.].*)?$`),
}

// errorWord finds "error" as a word in free-form messages.
var errorWord = regexp.MustCompile(`\berror\b`)

// HeuristicDetector sniffs page titles and message payloads. Messages are
// trusted only from the candidate domains and their subdomains.
type HeuristicDetector struct {
	Domains []string
}

func (h HeuristicDetector) LoadFailed(title string) bool {
	title = strings.ToLower(strings.TrimSpace(title))
	if title == "" {
		return false
	}

	for _, segment := range titleSeparators.Split(title, -1) {
		segment = strings.TrimSpace(segment)
		for _, re := range errorSegments {
			if re.MatchString(segment) {
				return true
			}
		}
	}
	return false
}

func (h HeuristicDetector) MessageFailed(origin string, payload []byte) bool {
	if !h.Trusted(origin) {
		return false
	}

	payload = bytes.TrimSpace(payload)
	var msg map[string]any
	if err := json.Unmarshal(payload, &msg); err != nil {
		return errorWord.Match(bytes.ToLower(payload))
	}

	for _, k := range []string{"error", "err"} {
		if v, ok := msg[k]; ok && truthy(v) {
			return true
		}
	}

	for _, k := range []string{"type", "event", "status"} {
		if s, ok := msg[k].(string); ok && strings.Contains(strings.ToLower(s), "error") {
			return true
		}
	}
	return false
}

// Trusted reports whether origin belongs to a candidate domain.
func (h HeuristicDetector) Trusted(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Hostname() == "" {
		return false
	}

	host := strings.ToLower(u.Hostname())
	for _, d := range h.Domains {
		d = strings.ToLower(d)
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	default:
		return true
	}
}
