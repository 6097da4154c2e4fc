package pipeline

import (
	"strings"

	"github.com/elena2notti/theatreNet/internal/domain"
	"github.com/elena2notti/theatreNet/internal/flatten"
	"github.com/elena2notti/theatreNet/internal/tabular"
)

// The normalized exports mirror the archives' own Italian column names so
// the output tables remain comparable to the raw ones.

func baseTable(rows []domain.PerformanceRow) *tabular.Table {
	t := &tabular.Table{Columns: []string{
		"id", "titolo_breve", "production_id", "from", "to", "datetext",
		"luogo_nome", "luogo_id", "luogo_wikidata",
		"edificio_nome", "edificio_id", "edificio_wikidata",
		"composizione", "composizione_id", "altre_recite_ids",
	}}
	for _, r := range rows {
		t.Rows = append(t.Rows, tabular.Row{
			"id":                r.ID,
			"titolo_breve":      r.ShortTitle,
			"production_id":     r.ProductionID,
			"from":              r.From,
			"to":                r.To,
			"datetext":          r.DateText,
			"luogo_nome":        r.PlaceName,
			"luogo_id":          r.PlaceID,
			"luogo_wikidata":    r.PlaceQID,
			"edificio_nome":     r.BuildingName,
			"edificio_id":       r.BuildingID,
			"edificio_wikidata": r.BuildingQID,
			"composizione":      r.WorkName,
			"composizione_id":   r.WorkID,
			"altre_recite_ids":  r.OtherIDs,
		})
	}
	return t
}

func creditsTable(rows []domain.CreditRow) *tabular.Table {
	t := &tabular.Table{Columns: []string{
		"recita_id", "curatore_nome", "curatore_id", "curatore_ruolo",
	}}
	for _, r := range rows {
		t.Rows = append(t.Rows, tabular.Row{
			"recita_id":      r.ParentID,
			"curatore_nome":  r.Name,
			"curatore_id":    r.PersonID,
			"curatore_ruolo": r.Role,
		})
	}
	return t
}

func ensemblesTable(rows []domain.EnsembleRow) *tabular.Table {
	t := &tabular.Table{Columns: []string{
		"recita_id", "esecutore_nome", "esecutore_id", "esecutore_ruolo",
	}}
	for _, r := range rows {
		t.Rows = append(t.Rows, tabular.Row{
			"recita_id":       r.PerformanceID,
			"esecutore_nome":  r.Name,
			"esecutore_id":    r.EnsembleID,
			"esecutore_ruolo": r.Role,
		})
	}
	return t
}

func castTable(rows []domain.CastRow) *tabular.Table {
	t := &tabular.Table{Columns: []string{
		"recita_id", "interprete", "interprete_id",
		"personaggio", "personaggio_voce", "ruolo",
	}}
	for _, r := range rows {
		t.Rows = append(t.Rows, tabular.Row{
			"recita_id":        r.PerformanceID,
			"interprete":       r.Performer,
			"interprete_id":    r.PerformerID,
			"personaggio":      r.Character,
			"personaggio_voce": r.VoiceType,
			"ruolo":            r.Role,
		})
	}
	return t
}

// joinedTable denormalizes a performance set into one wide table: the base
// rows left-joined against credits, ensembles, and cast in turn.
func joinedTable(set *flatten.PerformanceSet) *tabular.Table {
	out := baseTable(set.Base)
	out = tabular.LeftJoin(out, creditsTable(set.Credits), "id", "recita_id")
	out = tabular.LeftJoin(out, ensemblesTable(set.Ensembles), "id", "recita_id")
	out = tabular.LeftJoin(out, castTable(set.Cast), "id", "recita_id")
	return out
}

func regioProductionsTable(rows []domain.ProductionRow) *tabular.Table {
	t := &tabular.Table{Columns: []string{
		"production_id", "credit_type", "person_id", "person_name", "person_role",
		"work_title", "performance_start_date", "performance_end_date", "year",
		"first_location", "first_venue", "related_work_id",
	}}
	for _, r := range rows {
		t.Rows = append(t.Rows, tabular.Row{
			"production_id":          r.ProductionID,
			"credit_type":            r.CreditType,
			"person_id":              r.PersonID,
			"person_name":            r.PersonName,
			"person_role":            r.PersonRole,
			"work_title":             r.WorkTitle,
			"performance_start_date": r.StartDate,
			"performance_end_date":   r.EndDate,
			"year":                   r.Year,
			"first_location":         r.FirstLocation,
			"first_venue":            r.FirstVenue,
			"related_work_id":        r.RelatedWorkID,
		})
	}
	return t
}

func fondazioneProductionsTable(rows []flatten.LinkedProduction) *tabular.Table {
	t := &tabular.Table{Columns: []string{
		"id", "dcTitle", "from", "to",
		"luogo_rappresentazione", "edificio_rappresentazione",
		"opere_collegate_id", "persone_collegate_id", "persone_collegate_ruolo",
		"recite_collegate_id",
	}}
	for _, r := range rows {
		ids := make([]string, len(r.People))
		roles := make([]string, len(r.People))
		for i, p := range r.People {
			ids[i] = p.ID
			roles[i] = p.Role
		}
		t.Rows = append(t.Rows, tabular.Row{
			"id":                        r.ID,
			"dcTitle":                   r.Title,
			"from":                      r.From,
			"to":                        r.To,
			"luogo_rappresentazione":    r.City,
			"edificio_rappresentazione": r.Venue,
			"opere_collegate_id":        strings.Join(r.WorkIDs, ", "),
			"persone_collegate_id":      strings.Join(ids, ", "),
			"persone_collegate_ruolo":   strings.Join(roles, ", "),
			"recite_collegate_id":       strings.Join(r.PerformanceIDs, ", "),
		})
	}
	return t
}

// fondazioneProductionRows adapts the linked production export to the
// credit-expanded shape the RDF builder consumes: one row per person credit
// plus extra rows carrying the additional work links.
func fondazioneProductionRows(prods []flatten.LinkedProduction, personName map[string]string) []domain.ProductionRow {
	var out []domain.ProductionRow
	for _, p := range prods {
		base := domain.ProductionRow{
			ProductionID:  p.ID,
			WorkTitle:     p.Title,
			StartDate:     p.From,
			EndDate:       p.To,
			FirstLocation: p.City,
			FirstVenue:    p.Venue,
		}
		if len(p.WorkIDs) > 0 {
			base.RelatedWorkID = p.WorkIDs[0]
		}
		if len(p.People) == 0 {
			out = append(out, base)
		}
		for _, lp := range p.People {
			r := base
			r.PersonID = lp.ID
			r.PersonName = personName[lp.ID]
			r.PersonRole = lp.Role
			out = append(out, r)
		}
		for _, wid := range rest(p.WorkIDs) {
			r := base
			r.RelatedWorkID = wid
			out = append(out, r)
		}
	}
	return out
}

func rest(ids []string) []string {
	if len(ids) < 2 {
		return nil
	}
	return ids[1:]
}
