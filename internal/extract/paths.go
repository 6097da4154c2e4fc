package extract

import (
	"regexp"
	"strings"

	"github.com/elena2notti/theatreNet/internal/normalize"
)

var (
	labelIDRE      = regexp.MustCompile(`^(.*?)\s*\((\d+)\)\s*$`)
	lastSegLabelRE = regexp.MustCompile(`/([^/]+)\s*\(\d+\)$`)
	datePrefixRE   = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}\s+(.*)$`)
	ordinalRE      = regexp.MustCompile(`^\d+\s+`)
	titleIDRE      = regexp.MustCompile(`^(?:\d+\s+)?(.*?)\s*\((\d+)\)\s*$`)
	parenIDRE      = regexp.MustCompile(`\((\d+)\)`)
	trailingIDRE   = regexp.MustCompile(`\((\d+)\)$`)
	personPathRE   = regexp.MustCompile(`([^/]+?)\s*\((\d+)\)`)
)

// LastLabelID takes the final segment of a slash-delimited catalogue path and
// splits it into label and numeric id. Without a trailing "(digits)" the
// whole segment is the label and the id is empty.
func LastLabelID(raw string) (label, id string) {
	s := strings.TrimSpace(raw)
	if normalize.IsBlank(s) {
		return "", ""
	}
	seg := s
	if idx := strings.LastIndex(s, "/"); idx >= 0 {
		seg = s[idx+1:]
	}
	if m := labelIDRE.FindStringSubmatch(seg); m != nil {
		return strings.TrimSpace(m[1]), normalize.CleanID(m[2])
	}
	return strings.TrimSpace(seg), ""
}

// PathLabel extracts the display label of the last path segment, stripping a
// "DD-MM-YYYY " date prefix when present. Paths without a "(digits)" tail
// fall back to the provided title.
func PathLabel(raw, fallback string) string {
	s := strings.TrimSpace(raw)
	if normalize.IsBlank(s) {
		return normalize.CleanName(fallback)
	}
	if m := lastSegLabelRE.FindStringSubmatch(s); m != nil {
		label := strings.TrimSpace(m[1])
		if dm := datePrefixRE.FindStringSubmatch(label); dm != nil {
			return strings.TrimSpace(dm[1])
		}
		return label
	}
	return normalize.CleanName(fallback)
}

// TitleAndID cleans a catalogue path into a display title and numeric id.
// Multi-path cells keep only the first path; a leading ordinal ("4 Tosca")
// is stripped. Without a trailing id the cleaned last segment is returned
// with an empty id.
func TitleAndID(raw string) (title, id string) {
	s := strings.TrimSpace(raw)
	if normalize.IsBlank(s) {
		return "", ""
	}
	first := strings.TrimSpace(strings.SplitN(s, ",", 2)[0])
	seg := first
	if idx := strings.LastIndex(first, "/"); idx >= 0 {
		seg = strings.TrimSpace(first[idx+1:])
	}
	if m := titleIDRE.FindStringSubmatch(seg); m != nil {
		return strings.TrimSpace(m[1]), normalize.CleanID(m[2])
	}
	return ordinalRE.ReplaceAllString(seg, ""), ""
}

// ParentPathID returns the id of the second-to-last path segment. Regio
// performance paths nest under their production, so this derives the
// production id.
func ParentPathID(raw string) string {
	s := strings.TrimSpace(raw)
	if normalize.IsBlank(s) {
		return ""
	}
	var parts []string
	for _, p := range strings.Split(s, "/") {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	if len(parts) < 2 {
		return ""
	}
	if m := trailingIDRE.FindStringSubmatch(parts[len(parts)-2]); m != nil {
		return normalize.CleanID(m[1])
	}
	return ""
}

// ParenIDs collects every "(digits)" occurrence in the cell, in order.
func ParenIDs(raw string) []string {
	var out []string
	for _, m := range parenIDRE.FindAllStringSubmatch(raw, -1) {
		out = append(out, normalize.CleanID(m[1]))
	}
	return out
}

// JoinedParenIDs renders ParenIDs as the ", "-separated list persisted in
// the derived season tables.
func JoinedParenIDs(raw string) string {
	return strings.Join(ParenIDs(raw), ", ")
}

// PersonPath is one "Surname, Name (id)" occurrence in an authority path
// cell.
type PersonPath struct {
	Name string
	ID   string
}

// PeoplePaths extracts every person reference from a cell like
// "/Persone/Bellini, Vincenzo (9582), /Persone/Romani, Felice (9601)".
func PeoplePaths(raw string) []PersonPath {
	s := strings.TrimSpace(raw)
	if normalize.IsBlank(s) {
		return nil
	}
	var out []PersonPath
	for _, m := range personPathRE.FindAllStringSubmatch(s, -1) {
		name := strings.Trim(strings.TrimSpace(m[1]), ",")
		id := normalize.CleanID(m[2])
		if name != "" && id != "" {
			out = append(out, PersonPath{Name: strings.TrimSpace(name), ID: id})
		}
	}
	return out
}
