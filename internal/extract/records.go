// Package extract parses the semi-structured cells embedded in the archive
// exports: JSON (or Python-literal) lists of related mini-records and
// slash-delimited catalogue paths ending in "Label (id)".
package extract

import (
	"regexp"
	"strings"

	"github.com/elena2notti/theatreNet/internal/normalize"
)

// Keywords configures the language-specific substring matching that routes a
// sub-record to its relation kind. The defaults cover the Italian archive
// exports; callers may override per source.
type Keywords struct {
	Place     []string `yaml:"place"`
	Building  []string `yaml:"building"`
	Performer []string `yaml:"performer"`
	Conductor []string `yaml:"conductor"`
}

// DefaultKeywords matches the vocabulary observed in the Regio and
// Fondazione exports.
func DefaultKeywords() Keywords {
	return Keywords{
		Place:     []string{"luogo della"},
		Building:  []string{"edificio della"},
		Performer: []string{"interprete"},
		Conductor: []string{"direttore"},
	}
}

func matchAny(s string, keywords []string) bool {
	s = strings.ToLower(s)
	for _, k := range keywords {
		if k != "" && strings.Contains(s, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// Record is a tagged variant produced by classifying one embedded
// sub-record. Downstream code switches exhaustively on the concrete type.
type Record interface{ isRecord() }

// Location names where an event happened: either a place (city) or the
// building inside it, selected by the relationship keyword.
type Location struct {
	Name       string
	ID         string
	IsBuilding bool
}

// Credit is a non-performing person credit with a free-text role.
type Credit struct {
	Name string
	ID   string
	Role string
}

// Cast links a performer to the character they performed, with the
// character's voice type when the source carried one.
type Cast struct {
	Character string
	VoiceType string
	Performer string
	ID        string
	Role      string
}

// Ensemble is an orchestra/chorus/company participation.
type Ensemble struct {
	Name string
	ID   string
	Role string
}

func (Location) isRecord() {}
func (Credit) isRecord()   {}
func (Cast) isRecord()     {}
func (Ensemble) isRecord() {}

// field returns the first non-empty string value among the candidate keys.
func field(item map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := item[k]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

var trailingParenRE = regexp.MustCompile(`^(.*)\(([^)]+)\)\s*$`)

// SplitCharacterVoice splits "Mimì (soprano)" on the outermost trailing
// parentheses into the character name and its voice type. Without trailing
// parentheses the voice type is empty.
func SplitCharacterVoice(raw string) (name, voice string) {
	s := strings.TrimSpace(raw)
	if m := trailingParenRE.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return s, ""
}

// Locations classifies a parsed Luoghi list into location records. Entries
// whose relationship matches neither keyword set are dropped.
func Locations(items []map[string]any, kw Keywords) []Location {
	var out []Location
	for _, item := range items {
		name := field(item, "nome", "Nome")
		id := normalize.CleanID(field(item, "Id", "Identificativo", "id"))
		rel := strings.ToLower(field(item, "relazione", "Relazione"))
		switch {
		case matchAny(rel, kw.Building):
			out = append(out, Location{Name: name, ID: id, IsBuilding: true})
		case matchAny(rel, kw.Place):
			out = append(out, Location{Name: name, ID: id})
		}
	}
	return out
}

// People classifies a parsed Persone list into cast and credit records.
// Entries whose relationship matches the performer keywords become Cast;
// entries with any other non-empty relationship become Credits whose role
// combines the entry role with the relationship label. Entries without a
// relationship are skipped.
func People(items []map[string]any, kw Keywords) (cast []Cast, credits []Credit) {
	for _, item := range items {
		id := normalize.CleanID(field(item, "Identificativo", "identificativo"))
		name := field(item, "Nome", "nome")
		role := field(item, "Ruolo", "ruolo")
		rel := field(item, "Relazione", "relazione")
		relLower := strings.ToLower(rel)
		switch {
		case matchAny(relLower, kw.Performer):
			cast = append(cast, Cast{
				Character: field(item, "Personaggio", "personaggio"),
				VoiceType: role,
				Performer: name,
				ID:        id,
				Role:      relLower,
			})
		case rel != "":
			creditRole := relLower
			if role != "" {
				creditRole = role + " (" + relLower + ")"
			}
			credits = append(credits, Credit{Name: name, ID: id, Role: creditRole})
		}
	}
	return cast, credits
}

// RegioCast parses the Regio "Personaggi e interpreti" entries, whose Nome
// field encodes "Character (voice) - Performer".
func RegioCast(items []map[string]any) []Cast {
	var out []Cast
	for _, item := range items {
		id := normalize.CleanID(field(item, "Identificativo", "identificativo"))
		nome := field(item, "Nome", "nome")
		role := field(item, "Ruolo", "ruolo")

		parts := strings.SplitN(nome, " - ", 2)
		characterRaw := parts[0]
		performer := ""
		if len(parts) > 1 {
			performer = strings.TrimSpace(parts[1])
		}
		name, voice := SplitCharacterVoice(characterRaw)
		out = append(out, Cast{
			Character: name,
			VoiceType: voice,
			Performer: performer,
			ID:        id,
			Role:      role,
		})
	}
	return out
}

// Generic parses the flat (Nome, Identificativo, Ruolo) entries used by the
// Regio curator/executor columns and the Fondazione Enti column.
func Generic(items []map[string]any) []Ensemble {
	var out []Ensemble
	for _, item := range items {
		out = append(out, Ensemble{
			Name: field(item, "Nome", "nome"),
			ID:   normalize.CleanID(field(item, "Identificativo", "identificativo")),
			Role: field(item, "Ruolo", "ruolo"),
		})
	}
	return out
}

// ItemsUnderKey unwraps the {"key": [...]} / {"key:each": [...]} envelope the
// Regio export wraps some lists in. A bare list passes through unchanged.
func ItemsUnderKey(parsed any, key string) []map[string]any {
	switch v := parsed.(type) {
	case []map[string]any:
		return v
	case []any:
		return coerceItems(v)
	case map[string]any:
		if items, ok := v[key+":each"]; ok {
			return coerceAny(items)
		}
		if items, ok := v[key]; ok {
			return coerceAny(items)
		}
	}
	return nil
}

func coerceAny(v any) []map[string]any {
	if list, ok := v.([]any); ok {
		return coerceItems(list)
	}
	return nil
}

func coerceItems(list []any) []map[string]any {
	out := make([]map[string]any, 0, len(list))
	for _, e := range list {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
