package etymology

// Record is the four-field answer returned to the caller. After Normalize every
// field holds a non-empty string.
type Record struct {
	ModernMeaning     string `json:"modernMeaning"`
	CenturyOfOrigin   string `json:"centuryOfOrigin"`
	DetailedEtymology string `json:"detailedEtymology"`
	FunFact           string `json:"funFact"`
}

// Correction is the outcome of a spelling lookup for one request.
type Correction struct {
	Corrected    string `json:"corrected"`
	WasCorrected bool   `json:"wasCorrected"`
}

// Answer bundles a normalized record with how it was produced.
type Answer struct {
	Record     Record
	Correction Correction
	// Degraded is set when the model reply could not be parsed and the
	// placeholder record was synthesized instead.
	Degraded bool
}

// ErrorRecord builds the fixed failure shape shown to the user when the
// lookup could not be completed.
func ErrorRecord(msg string) Record {
	if msg == "" {
		msg = "Unknown error occurred"
	}
	return Record{
		ModernMeaning:     "API Error",
		CenturyOfOrigin:   "Unknown",
		DetailedEtymology: msg,
		FunFact:           "Please try again",
	}
}
