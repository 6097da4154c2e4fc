package flatten

import (
	"strings"

	"github.com/elena2notti/theatreNet/internal/domain"
	"github.com/elena2notti/theatreNet/internal/extract"
	"github.com/elena2notti/theatreNet/internal/normalize"
	"github.com/elena2notti/theatreNet/internal/tabular"
)

// Fondazione flattens the Fondazione I Teatri exports. Names arrive in
// "Surname, Given" order and are flipped for display; person routing relies
// on a free-text relationship keyword per entry.
type Fondazione struct {
	Keywords extract.Keywords
}

// LinkedPerson is one person reference on a Fondazione production, with the
// role text aligned to it by position.
type LinkedPerson struct {
	ID   string
	Role string
}

// LinkedProduction is one row of the Fondazione production export plus the
// performance links joined from the companion export.
type LinkedProduction struct {
	ID             string
	Title          string
	From           string
	To             string
	City           string
	Venue          string
	WorkIDs        []string
	People         []LinkedPerson
	PerformanceIDs []string
}

// ReconcileStats counts how many child rows had their person id corrected
// against the person master table.
type ReconcileStats struct {
	Cast    int
	Credits int
}

// Performances flattens the Fondazione performance export. Place and
// building come from the Luoghi list routed by relationship keyword; the
// Persone list splits into cast and credits; the Enti list becomes
// ensembles. Performer and credit names are flipped to "Given Surname".
func (f Fondazione) Performances(t *tabular.Table) *PerformanceSet {
	kw := f.Keywords
	set := &PerformanceSet{Source: domain.SourceFondazione}
	for _, row := range t.Rows {
		id := normalize.CleanID(row.Get("id"))
		if id == "" {
			continue
		}
		base := domain.PerformanceRow{
			ID:          id,
			ShortTitle:  extract.PathLabel(row.Get("fullpath"), row.Get("dcTitle")),
			From:        row.Get("from"),
			To:          row.Get("to"),
			DateText:    row.Get("datetext"),
			FullPath:    row.Get("fullpath"),
			BuildingQID: normalize.CanonicalQID(row.Get("entity")),
			BuildingURI: row.Get("uri"),
		}
		for _, loc := range extract.Locations(extract.ParseList(row.Get("Luoghi")), kw) {
			if loc.IsBuilding {
				base.BuildingName = loc.Name
				base.BuildingID = loc.ID
			} else {
				base.PlaceName = loc.Name
				base.PlaceID = loc.ID
			}
		}
		base.WorkName, base.WorkID = extract.LastLabelID(row.Get("operemusicali_collegate"))
		set.Base = append(set.Base, base)

		cast, credits := extract.People(extract.ParseList(row.Get("Persone")), kw)
		for _, c := range cast {
			set.Cast = append(set.Cast, domain.CastRow{
				PerformanceID: id,
				Character:     c.Character,
				VoiceType:     c.VoiceType,
				Performer:     normalize.FlipName(c.Performer),
				PerformerID:   c.ID,
				Role:          c.Role,
			})
		}
		for _, c := range credits {
			set.Credits = append(set.Credits, domain.CreditRow{
				ParentID: id,
				Name:     normalize.FlipName(c.Name),
				PersonID: c.ID,
				Role:     c.Role,
			})
		}
		for _, g := range extract.Generic(extract.ParseList(row.Get("Enti"))) {
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

// ReconcilePeople corrects cast and credit person ids against the person
// master table. The lookup tries the name as written first, then its
// flipped form, and replaces the id only when the master disagrees.
func (f Fondazione) ReconcilePeople(set *PerformanceSet, people []domain.PersonRow) ReconcileStats {
	byName := make(map[string]string, len(people))
	for _, p := range people {
		if p.Name == "" || p.ID == "" {
			continue
		}
		byName[p.Name] = p.ID
		// Master rows still in "Surname, Given" order are findable by the
		// flipped display form too.
		if flipped := normalize.FlipName(p.Name); flipped != p.Name {
			if _, taken := byName[flipped]; !taken {
				byName[flipped] = p.ID
			}
		}
	}
	lookup := func(raw string) string {
		name := normalize.CleanName(raw)
		if name == "" {
			return ""
		}
		if id, ok := byName[name]; ok {
			return id
		}
		if id, ok := byName[normalize.FlipName(name)]; ok {
			return id
		}
		return ""
	}

	var stats ReconcileStats
	for i := range set.Cast {
		if id := lookup(set.Cast[i].Performer); id != "" && id != set.Cast[i].PerformerID {
			set.Cast[i].PerformerID = id
			stats.Cast++
		}
	}
	for i := range set.Credits {
		if id := lookup(set.Credits[i].Name); id != "" && id != set.Credits[i].PersonID {
			set.Credits[i].PersonID = id
			stats.Credits++
		}
	}
	return stats
}

// Productions maps the Fondazione production export. links carries the
// companion export whose recite_collegate column lists the performances of
// each production; it may be nil.
func (f Fondazione) Productions(t, links *tabular.Table) []LinkedProduction {
	performanceIDs := make(map[string][]string)
	if links != nil {
		for _, row := range links.Rows {
			id := normalize.CleanID(row.Get("id"))
			if id == "" {
				continue
			}
			performanceIDs[id] = extract.ParenIDs(row.Get("recite_collegate"))
		}
	}

	var out []LinkedProduction
	for _, row := range t.Rows {
		id := normalize.CleanID(row.Get("id"))
		if id == "" {
			continue
		}
		p := LinkedProduction{
			ID:             id,
			Title:          row.Get("dcTitle"),
			From:           row.Get("from"),
			To:             row.Get("to"),
			City:           row.Get("luogo_rappresentazione"),
			Venue:          row.Get("edificio_rappresentazione"),
			PerformanceIDs: performanceIDs[id],
		}
		p.WorkIDs = splitIDs(row.Get("opere_collegate_id"))
		// Roles align to person ids by position in the raw lists, so empty
		// slots must be kept until after pairing.
		rawIDs := strings.Split(row.Get("persone_collegate_id"), ",")
		rawRoles := strings.Split(row.Get("persone_collegate_ruolo"), ",")
		for i, r := range rawIDs {
			pid := normalize.CleanID(r)
			if pid == "" {
				continue
			}
			lp := LinkedPerson{ID: pid}
			if i < len(rawRoles) {
				lp.Role = strings.TrimSpace(rawRoles[i])
			}
			p.People = append(p.People, lp)
		}
		out = append(out, p)
	}
	return out
}

// Seasons maps the Fondazione season export. The linked-entity columns hold
// authority paths; only their parenthesized ids are kept.
func (f Fondazione) Seasons(t *tabular.Table) []domain.SeasonRow {
	var out []domain.SeasonRow
	for _, row := range t.Rows {
		id := normalize.CleanID(row.Get("id"))
		if id == "" {
			continue
		}
		out = append(out, domain.SeasonRow{
			ID:             id,
			Title:          row.Get("dcTitle"),
			Type:           row.Get("dcType"),
			StartDate:      row.Get("from"),
			EndDate:        row.Get("to"),
			ProductionIDs:  linkedIDs(row, "produzioni_collegate"),
			PerformanceIDs: linkedIDs(row, "manifestazioni_recite_concerti_collegati"),
			WorkIDs:        linkedIDs(row, "operemusicali_collegate"),
			PersonIDs:      linkedIDs(row, "persone_collegate"),
			EnsembleIDs:    linkedIDs(row, "enti_collegati"),
			PlaceIDs:       linkedIDs(row, "luoghi_collegati"),
		})
	}
	return out
}

// People maps the Fondazione person master table.
func (f Fondazione) People(t *tabular.Table) []domain.PersonRow {
	var out []domain.PersonRow
	for _, row := range t.Rows {
		id := normalize.CleanID(row.Get("id"))
		if id == "" {
			continue
		}
		out = append(out, domain.PersonRow{
			ID:   id,
			Name: normalize.CleanName(row.Get("dcTitle")),
			QID:  normalize.CanonicalQID(row.Get("entity")),
			URI:  row.Get("uri"),
			VIAF: normalize.CleanID(row.Get("viaf")),
		})
	}
	return out
}

// Works maps the Fondazione works export, carrying the linked person ids
// extracted from authority paths.
func (f Fondazione) Works(t *tabular.Table) []domain.WorkRow {
	var out []domain.WorkRow
	for _, row := range t.Rows {
		id := normalize.CleanID(row.Get("id"))
		if id == "" {
			continue
		}
		var pids []string
		for _, p := range extract.PeoplePaths(row.Get("persone_collegate")) {
			pids = append(pids, p.ID)
		}
		out = append(out, domain.WorkRow{
			ID:              id,
			Title:           row.Get("dcTitle"),
			QID:             normalize.CanonicalQID(row.Get("entity_id")),
			LinkedPersonIDs: strings.Join(pids, ", "),
		})
	}
	return out
}

// linkedIDs prefers a pre-derived "<col>_id" column and falls back to
// extracting ids from the raw path column.
func linkedIDs(row tabular.Row, col string) string {
	if v := row.Get(col + "_id"); v != "" {
		return cleanIDList(v)
	}
	return extract.JoinedParenIDs(row.Get(col))
}

func splitIDs(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if id := normalize.CleanID(p); id != "" {
			out = append(out, id)
		}
	}
	return out
}
