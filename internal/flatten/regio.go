package flatten

import (
	"strings"

	"github.com/elena2notti/theatreNet/internal/domain"
	"github.com/elena2notti/theatreNet/internal/extract"
	"github.com/elena2notti/theatreNet/internal/normalize"
	"github.com/elena2notti/theatreNet/internal/tabular"
)

// Regio flattens the Teatro Regio exports. Performance cast entries encode
// "Character (voice) - Performer" inside a single field, and curator and
// executor lists sit under keyed envelopes.
type Regio struct {
	Keywords extract.Keywords
}

// Performances flattens the Regio performance export into base rows plus
// cast, credit, and ensemble children.
func (f Regio) Performances(t *tabular.Table) *PerformanceSet {
	set := &PerformanceSet{Source: domain.SourceRegio}
	for _, row := range t.Rows {
		id := normalize.CleanID(row.Get("id"))
		if id == "" {
			continue
		}
		fullpath := row.Get("fullpath")
		placeName, placeID := extract.LastLabelID(row.Get("luogo_rappresentazione"))
		buildingName, buildingID := extract.LastLabelID(row.Get("edificio_rappresentazione"))
		workName, workID := extract.LastLabelID(row.Get("composizioni_collegate"))

		set.Base = append(set.Base, domain.PerformanceRow{
			ID:           id,
			ShortTitle:   extract.PathLabel(fullpath, fullpath),
			ProductionID: extract.ParentPathID(fullpath),
			From:         row.Get("from"),
			To:           row.Get("to"),
			DateText:     row.Get("datetext"),
			PlaceName:    placeName,
			PlaceID:      placeID,
			BuildingName: buildingName,
			BuildingID:   buildingID,
			WorkName:     workName,
			WorkID:       workID,
			OtherIDs:     extract.JoinedParenIDs(row.Get("altre_recite")),
			FullPath:     fullpath,
			PlaceQID:     normalize.CanonicalQID(row.Get("luogo_qid", "entity")),
			BuildingQID:  normalize.CanonicalQID(row.Get("edificio_qid")),
		})

		for _, c := range extract.RegioCast(extract.ParseList(row.Get("Personaggi e interpreti - json"))) {
			set.Cast = append(set.Cast, domain.CastRow{
				PerformanceID: id,
				Character:     c.Character,
				VoiceType:     c.VoiceType,
				Performer:     c.Performer,
				PerformerID:   c.ID,
				Role:          c.Role,
			})
		}
		curatori := extract.ItemsUnderKey(extract.ParseValue(row.Get("Curatori Esecuzione Musicale - json")), "curatori_esecuzione_musicale")
		for _, g := range extract.Generic(curatori) {
			set.Credits = append(set.Credits, domain.CreditRow{
				ParentID: id,
				Name:     g.Name,
				PersonID: g.ID,
				Role:     g.Role,
			})
		}
		esecutori := extract.ItemsUnderKey(extract.ParseValue(row.Get("Esecutori - json")), "esecutori")
		for _, g := range extract.Generic(esecutori) {
			set.Ensembles = append(set.Ensembles, domain.EnsembleRow{
				PerformanceID: id,
				Name:          g.Name,
				EnsembleID:    g.ID,
				Role:          g.Role,
			})
		}
	}
	return set
}

// Productions expands the Regio production export into one row per credit.
// Artistic and technical credit lists contribute separately; a production
// with no credits at all still yields one row with empty credit fields so
// the record itself is never lost.
func (f Regio) Productions(t *tabular.Table) []domain.ProductionRow {
	var out []domain.ProductionRow
	for _, row := range t.Rows {
		prodID := normalize.CleanID(row.Get("id", "production_id"))
		if prodID == "" {
			continue
		}
		title, _ := extract.TitleAndID(row.Get("fullpath"))
		_, workID := extract.TitleAndID(row.Get("composizioni_collegate"))
		location, _ := extract.TitleAndID(row.Get("luogo_prima_rappresentazione"))
		venue, _ := extract.TitleAndID(row.Get("edificio_prima_rappresentazione"))
		start := normalize.CleanDate(row.Get("from"))

		base := domain.ProductionRow{
			ProductionID:  prodID,
			WorkTitle:     title,
			StartDate:     start,
			EndDate:       normalize.CleanDate(row.Get("to")),
			Year:          yearOf(start),
			DateText:      row.Get("datetext"),
			FirstLocation: location,
			FirstVenue:    venue,
			RelatedWorkID: workID,
			SourceID:      normalize.CleanID(row.Get("source_id")),
		}

		n := 0
		for _, cv := range []struct {
			creditType string
			column     string
		}{
			{"artistic", "Crediti artistici"},
			{"technical", "Crediti tecnici"},
		} {
			for _, g := range extract.Generic(extract.ParseList(row.Get(cv.column))) {
				r := base
				r.CreditType = cv.creditType
				r.PersonID = g.ID
				r.PersonName = g.Name
				r.PersonRole = g.Role
				out = append(out, r)
				n++
			}
		}
		if n == 0 {
			out = append(out, base)
		}
	}
	return out
}

// Seasons maps the Regio season export.
func (f Regio) Seasons(t *tabular.Table) []domain.SeasonRow {
	var out []domain.SeasonRow
	for _, row := range t.Rows {
		id := normalize.CleanID(row.Get("season_id", "id"))
		if id == "" {
			continue
		}
		out = append(out, domain.SeasonRow{
			ID:            id,
			Title:         row.Get("season_title", "dcTitle"),
			Type:          row.Get("season_type", "dcType"),
			StartDate:     row.Get("season_start_date", "from"),
			EndDate:       row.Get("season_end_date", "to"),
			OrganizerID:   normalize.CleanID(row.Get("organizer_id")),
			OrganizerName: row.Get("organizer_name"),
			ProductionIDs: cleanIDList(row.Get("linked_production_ids")),
		})
	}
	return out
}

// People maps the Regio person master table.
func (f Regio) People(t *tabular.Table) []domain.PersonRow {
	var out []domain.PersonRow
	for _, row := range t.Rows {
		id := normalize.CleanID(row.Get("person_id", "id"))
		if id == "" {
			continue
		}
		out = append(out, domain.PersonRow{
			ID:         id,
			Name:       normalize.CleanName(row.Get("full_name", "dcTitle")),
			QID:        normalize.CanonicalQID(row.Get("wikidata_id", "entity")),
			URI:        row.Get("wikidata_uri", "uri"),
			BirthDate:  normalize.CleanDate(row.Get("birth_date")),
			BirthPlace: row.Get("birth_place"),
			DeathDate:  normalize.CleanDate(row.Get("death_date")),
			DeathPlace: row.Get("death_place"),
			Occupation: row.Get("occupation"),
			VIAF:       normalize.CleanID(row.Get("viaf")),
		})
	}
	return out
}

// Works maps the Regio works export, resolving the composer and librettist
// ids embedded in authority paths and carrying one character reference per
// row when the export linked a Wikidata character.
func (f Regio) Works(t *tabular.Table) []domain.WorkRow {
	var out []domain.WorkRow
	for _, row := range t.Rows {
		id := normalize.CleanID(row.Get("compositions_id", "id"))
		if id == "" {
			continue
		}
		composerName, composerID := extract.LastLabelID(row.Get("autore_musica"))
		librettistName, librettistID := extract.LastLabelID(row.Get("autore_testo"))
		year := normalize.CleanID(row.Get("Anno"))
		if year == "" {
			year = normalize.YearFromDateText(row.Get("datetext"))
		}
		out = append(out, domain.WorkRow{
			ID:              id,
			Title:           row.Get("dcTitle"),
			Year:            year,
			QID:             normalize.CanonicalQID(row.Get("wikidata_entity_id")),
			URI:             row.Get("composizione_uri"),
			From:            row.Get("from"),
			To:              row.Get("to"),
			ComposerName:    composerName,
			ComposerID:      composerID,
			LibrettistName:  librettistName,
			LibrettistID:    librettistID,
			LiteraryName:    row.Get("literary_author_name"),
			LiteraryID:      normalize.CleanID(row.Get("literary_author_id")),
			CharacterName:   row.Get("character_name"),
			CharacterQID:    normalize.CanonicalQID(row.Get("character_wikidata_id")),
			CharacterVoice:  row.Get("voice_type"),
			CharacterGender: row.Get("character_gender"),
		})
	}
	return out
}

func yearOf(date string) string {
	if len(date) >= 4 {
		year := date[:4]
		if strings.IndexFunc(year, func(r rune) bool { return r < '0' || r > '9' }) == -1 {
			return year
		}
	}
	return ""
}

func cleanIDList(raw string) string {
	parts := strings.Split(raw, ",")
	clean := parts[:0]
	for _, p := range parts {
		if id := normalize.CleanID(p); id != "" {
			clean = append(clean, id)
		}
	}
	return strings.Join(clean, ", ")
}
