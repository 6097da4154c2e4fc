// Package normalize canonicalizes the raw strings coming out of the archive
// exports: identifiers damaged by spreadsheet round-tripping, inverted name
// formats, Wikidata references in half a dozen spellings, and date fields.
// Every value destined to become a node key or join key passes through here.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var sentinels = map[string]bool{
	"":     true,
	"nan":  true,
	"none": true,
	"null": true,
	"n/a":  true,
}

// IsBlank reports whether the value is one of the absence sentinels that the
// spreadsheet exports use interchangeably with an empty cell.
func IsBlank(s string) bool {
	return sentinels[strings.ToLower(strings.TrimSpace(s))]
}

// CleanID canonicalizes a raw identifier. It trims whitespace, maps the
// absence sentinels to "", strips every trailing ".0" produced by numeric
// round-tripping, and re-renders integer-valued floats as bare integers.
// CleanID is idempotent and the result never ends in ".0".
func CleanID(raw string) string {
	s := strings.TrimSpace(raw)
	if sentinels[strings.ToLower(s)] {
		return ""
	}
	for strings.HasSuffix(s, ".0") {
		s = s[:len(s)-2]
	}
	if s == "" {
		return ""
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			if f == float64(int64(f)) {
				return strconv.FormatInt(int64(f), 10)
			}
			s = strings.TrimRight(s, "0")
			s = strings.TrimRight(s, ".")
		}
	}
	return s
}

// CleanName trims a display string, mapping sentinels to "".
func CleanName(raw string) string {
	s := strings.TrimSpace(raw)
	if sentinels[strings.ToLower(s)] {
		return ""
	}
	return s
}

// FlipName converts "Surname, Given" to "Given Surname". Strings without a
// comma, or whose split does not yield two non-empty parts, come back
// unchanged. Only the first comma splits.
func FlipName(name string) string {
	if !strings.Contains(name, ",") {
		return name
	}
	parts := strings.SplitN(name, ",", 2)
	surname := strings.TrimSpace(parts[0])
	given := strings.TrimSpace(parts[1])
	if surname == "" || given == "" {
		return name
	}
	return given + " " + surname
}

var (
	asciiFold   = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	nonWordRE   = regexp.MustCompile(`\W+`)
	numericIDRE = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// Slug folds a label to a stable ASCII identifier fragment: accents removed,
// runs of non-word characters collapsed to "_", leading/trailing "_" trimmed.
// Numeric-looking labels are routed through CleanID first so "12.0" and "12"
// slug identically.
func Slug(raw string) string {
	s := strings.TrimSpace(raw)
	if sentinels[strings.ToLower(s)] {
		return ""
	}
	if numericIDRE.MatchString(s) {
		if cleaned := CleanID(s); cleaned != "" {
			s = cleaned
		}
	}
	s = strings.TrimSuffix(s, ".0")
	if folded, _, err := transform.String(asciiFold, s); err == nil {
		s = folded
	}
	s = nonWordRE.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

var qidRE = regexp.MustCompile(`(?i)(Q\d+)`)

// CanonicalQID extracts the canonical upper-case QID from any Wikidata
// reference spelling: a bare QID, a /wiki/ or /entity/ URL, or a QID embedded
// anywhere in the string. Returns "" when no QID is present.
func CanonicalQID(raw string) string {
	s := strings.TrimSpace(raw)
	if sentinels[strings.ToLower(s)] {
		return ""
	}
	m := qidRE.FindString(s)
	if m == "" {
		return ""
	}
	return strings.ToUpper(m)
}

// WikidataURI renders the canonical entity URI for a Wikidata reference, or
// "" when none can be extracted.
func WikidataURI(raw string) string {
	qid := CanonicalQID(raw)
	if qid == "" {
		return ""
	}
	return "http://www.wikidata.org/entity/" + qid
}

var (
	yearRE      = regexp.MustCompile(`^\d{4}$`)
	yearMonthRE = regexp.MustCompile(`^\d{4}-\d{1,2}$`)
	fullDateRE  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// CleanDate normalizes a date cell to ISO "YYYY-MM-DD": time suffixes are
// dropped, "." and "/" separators unified to "-", bare years padded to
// January 1st and year-months to the 1st. Values that still do not conform
// yield "".
func CleanDate(raw string) string {
	s := strings.TrimSpace(raw)
	if sentinels[strings.ToLower(s)] {
		return ""
	}
	s = strings.SplitN(s, " ", 2)[0]
	s = strings.SplitN(s, "T", 2)[0]
	s = strings.ReplaceAll(s, ".", "-")
	s = strings.ReplaceAll(s, "/", "-")
	switch {
	case yearRE.MatchString(s):
		s += "-01-01"
	case yearMonthRE.MatchString(s):
		s += "-01"
	}
	if fullDateRE.MatchString(s) {
		return s
	}
	return ""
}

var trailingYearRE = regexp.MustCompile(`(\d{4})$`)

// YearFromDateText extracts the closing year of a "DD-MM-YYYY - DD-MM-YYYY"
// range string, or "" when no trailing year exists.
func YearFromDateText(raw string) string {
	s := strings.TrimSpace(raw)
	if sentinels[strings.ToLower(s)] {
		return ""
	}
	segments := strings.Split(s, " - ")
	last := strings.TrimSpace(segments[len(segments)-1])
	m := trailingYearRE.FindString(last)
	if m == "" {
		return ""
	}
	return strings.TrimSuffix(m, ".0")
}

// StripFloatSuffix is the final safety-net pass applied to every persisted
// cell: it removes one trailing ".0" and blanks out a literal "nan". Unlike
// CleanID it leaves all other content untouched, so it is safe on free text.
func StripFloatSuffix(s string) string {
	if s == "nan" {
		return ""
	}
	return strings.TrimSuffix(s, ".0")
}
