// Package extract pulls structured clinical fields out of unstructured
// report text with a replaceable table of pattern rules. Extraction is
// deterministic and total: a field whose pattern does not match is simply
// absent, never an error.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Report is the structured record produced from raw report text. Every
// field is optional; pointer fields are nil when the pattern did not match.
type Report struct {
	PatientID     string   `json:"patient_id,omitempty"`
	Age           *int     `json:"age,omitempty"`
	Gender        string   `json:"gender,omitempty"`
	Symptoms      string   `json:"symptoms,omitempty"`
	BloodPressure string   `json:"blood_pressure,omitempty"`
	HeartRate     *int     `json:"heart_rate,omitempty"`
	Temperature   *float64 `json:"temperature,omitempty"`
	Conditions    string   `json:"pre_existing_conditions,omitempty"`
	Risk          string   `json:"risk_level,omitempty"`
}

// Rule maps one pattern to one report field. Rules are independent: none
// consumes input from another, so application order does not change the
// result. The first match of a pattern wins.
type Rule struct {
	Field string
	re    *regexp.Regexp
	set   func(r *Report, match string)
}

// DefaultRules is the rule table for the report templates currently in
// use. New templates mean new rows here, not new orchestration code.
var DefaultRules = []Rule{
	{
		Field: "patient_id",
		re:    regexp.MustCompile(`(?i)patient[\s_]*id\s*[:\-]?\s*([A-Za-z0-9]+)`),
		set:   func(r *Report, m string) { r.PatientID = m },
	},
	{
		Field: "age",
		re:    regexp.MustCompile(`(?i)\bage\s*[:\-]?\s*(\d{1,3})\b`),
		set: func(r *Report, m string) {
			if n, err := strconv.Atoi(m); err == nil {
				r.Age = &n
			}
		},
	},
	{
		Field: "gender",
		re:    regexp.MustCompile(`(?i)\bgender\s*[:\-]?\s*(male|female)\b`),
		set:   func(r *Report, m string) { r.Gender = strings.Title(strings.ToLower(m)) }, //nolint:staticcheck // ASCII-only values
	},
	{
		Field: "symptoms",
		re:    regexp.MustCompile(`(?is)(?:chief\s*complaints?|symptoms)\s*[:\-]?\s*(.*?)(?:vitals|history|examination)`),
		set:   func(r *Report, m string) { r.Symptoms = strings.TrimSpace(m) },
	},
	{
		Field: "blood_pressure",
		re:    regexp.MustCompile(`(?i)blood\s*pressure\s*[:\-]?\s*(\d{2,3}\s*/\s*\d{2,3})`),
		set:   func(r *Report, m string) { r.BloodPressure = strings.ReplaceAll(m, " ", "") },
	},
	{
		Field: "heart_rate",
		re:    regexp.MustCompile(`(?i)(?:pulse|heart\s*rate)\s*[:\-]?\s*(\d{2,3})\b`),
		set: func(r *Report, m string) {
			if n, err := strconv.Atoi(m); err == nil {
				r.HeartRate = &n
			}
		},
	},
	{
		Field: "temperature",
		re:    regexp.MustCompile(`(?i)temperature\s*[:\-]?\s*(\d{1,3}(?:\.\d+)?)`),
		set: func(r *Report, m string) {
			if f, err := strconv.ParseFloat(m, 64); err == nil {
				r.Temperature = &f
			}
		},
	},
	{
		Field: "pre_existing_conditions",
		re:    regexp.MustCompile(`(?is)(?:past|medical)\s*history\s*[:\-]?\s*(.*?)(?:risk|medication|$)`),
		set:   func(r *Report, m string) { r.Conditions = strings.TrimSpace(m) },
	},
	{
		Field: "risk_level",
		re:    regexp.MustCompile(`(?i)risk\s*level\s*[:\-]?\s*(high|medium|low)\b`),
		set:   func(r *Report, m string) { r.Risk = strings.Title(strings.ToLower(m)) }, //nolint:staticcheck // ASCII-only values
	},
}

// Extract applies DefaultRules to raw text.
func Extract(raw string) Report {
	return ExtractWith(DefaultRules, raw)
}

// ExtractWith applies a rule table to raw text. Pure: identical input
// always yields an identical report.
func ExtractWith(rules []Rule, raw string) Report {
	var r Report
	for _, rule := range rules {
		if m := rule.re.FindStringSubmatch(raw); len(m) >= 2 {
			rule.set(&r, m[1])
		}
	}
	return r
}
