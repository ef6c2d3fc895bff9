package composer

import (
	"strconv"
	"strings"
)

const (
	ContentTypeGeoJSON = "application/geo+json"
	ContentTypeJSON    = "application/json"
)

type NegotiationInput struct {
	AcceptHeader string
	// explicit ?f= override, wins over Accept
	OutputFormat string
}

type Negotiation struct {
	ContentType string
}

// NegotiateFormat picks between GeoJSON and plain JSON. Both carry the same
// body; some clients only accept application/json.
func NegotiateFormat(in NegotiationInput) Negotiation {
	switch of := strings.ToLower(strings.TrimSpace(in.OutputFormat)); {
	case of == "geojson", strings.HasPrefix(of, ContentTypeGeoJSON):
		return Negotiation{ContentType: ContentTypeGeoJSON}
	case of == "json", strings.HasPrefix(of, ContentTypeJSON):
		return Negotiation{ContentType: ContentTypeJSON}
	}

	bestQ := -1.0
	best := Negotiation{ContentType: ContentTypeGeoJSON}
	for part := range strings.SplitSeq(strings.ToLower(in.AcceptHeader), ",") {
		token := strings.TrimSpace(part)
		if token == "" {
			continue
		}
		mt := token
		params := ""
		if i := strings.Index(token, ";"); i >= 0 {
			mt = strings.TrimSpace(token[:i])
			params = token[i+1:]
		}
		q := 1.0
		for p := range strings.SplitSeq(params, ";") {
			p = strings.TrimSpace(p)
			if after, ok := strings.CutPrefix(p, "q="); ok {
				if v, err := strconv.ParseFloat(after, 64); err == nil {
					q = v
				}
			}
		}
		var ct string
		switch {
		case mt == "*/*", strings.Contains(mt, "geo+json"):
			ct = ContentTypeGeoJSON
		case mt == ContentTypeJSON:
			ct = ContentTypeJSON
		default:
			continue
		}
		if q > bestQ {
			bestQ = q
			best = Negotiation{ContentType: ct}
		}
	}
	return best
}
