package etymology

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

const (
	defaultModernMeaning     = "Information not available"
	defaultCenturyOfOrigin   = "Unknown"
	defaultDetailedEtymology = "Etymology not found"
	defaultFunFact           = "No additional information"
)

var (
	jsonFenceRe = regexp.MustCompile("(?i)```json\\s*")
	fenceRe     = regexp.MustCompile("```\\s*")
)

// Normalize turns a raw model completion into a Record whose four fields are
// always populated.
func Normalize(raw, originalQuery string, corr Correction) Record {
	rec, _ := NormalizeDetailed(raw, originalQuery, corr)
	return rec
}

// NormalizeDetailed is Normalize that also reports whether the reply could not
// be parsed and the placeholder record was used.
func NormalizeDetailed(raw, originalQuery string, corr Correction) (Record, bool) {
	if raw == "" {
		raw = "{}"
	}
	text := extractJSON(raw)

	fields, parsed := parseObject(text)
	if !parsed {
		detail := text
		if detail == "" {
			detail = "Unable to process response"
		}
		fields = map[string]any{
			"modernMeaning":     "Parse error",
			"centuryOfOrigin":   "Unknown",
			"detailedEtymology": detail,
			"funFact":           "Please try again",
		}
	}

	meaning, ok := fieldString(fields["modernMeaning"])
	if corr.WasCorrected && ok {
		fields["modernMeaning"] = `(Corrected from "` + originalQuery + `") ` + meaning
	}

	return Record{
		ModernMeaning:     orDefault(fields["modernMeaning"], defaultModernMeaning),
		CenturyOfOrigin:   orDefault(fields["centuryOfOrigin"], defaultCenturyOfOrigin),
		DetailedEtymology: orDefault(fields["detailedEtymology"], defaultDetailedEtymology),
		FunFact:           orDefault(fields["funFact"], defaultFunFact),
	}, !parsed
}

// extractJSON takes the span from the first '{' to the last '}'. Nested or
// multiple objects in surrounding prose are over-captured on purpose.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	text := jsonFenceRe.ReplaceAllString(raw, "")
	text = fenceRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// parseObject reports false only when text is not valid JSON. Valid JSON that
// is not an object yields an empty field set.
func parseObject(text string) (map[string]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return map[string]any{}, true
	}
	return obj, true
}

// fieldString renders a decoded JSON value as text and reports whether it is
// truthy ("", null, false and 0 are not).
func fieldString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, t != ""
	case bool:
		if !t {
			return "", false
		}
		return "true", true
	case float64:
		if t == 0 {
			return "", false
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}

func orDefault(v any, def string) string {
	if s, ok := fieldString(v); ok {
		return s
	}
	return def
}
