package flatten

import (
	"testing"

	"github.com/elena2notti/theatreNet/internal/domain"
	"github.com/elena2notti/theatreNet/internal/extract"
	"github.com/elena2notti/theatreNet/internal/tabular"
)

func regioPerformanceTable() *tabular.Table {
	return &tabular.Table{
		Columns: []string{
			"id", "fullpath", "from", "to", "datetext",
			"luogo_rappresentazione", "edificio_rappresentazione",
			"composizioni_collegate", "altre_recite",
			"Personaggi e interpreti - json",
			"Curatori Esecuzione Musicale - json",
			"Esecutori - json",
		},
		Rows: []tabular.Row{
			{
				"id":                        "8101.0",
				"fullpath":                  "/Spettacoli/Stagione 1995-1996 (102)/Tosca (4411)/14-02-1996 Tosca (8101)",
				"from":                      "1996-02-14",
				"to":                        "1996-02-14",
				"datetext":                  "14-02-1996",
				"luogo_rappresentazione":    "/Luoghi/Torino (5)",
				"edificio_rappresentazione": "/Luoghi/Torino (5)/Teatro Regio (12)",
				"composizioni_collegate":    "/Opere/Tosca (231)",
				"altre_recite":              "/Recite/Tosca (8102), /Recite/Tosca (8103)",
				"Personaggi e interpreti - json": `[
					{"Nome": "Tosca (soprano) - Maria Callas", "Identificativo": "18.0"},
					{"Nome": "Cavaradossi (tenore) - Giuseppe Di Stefano", "Identificativo": "19"}
				]`,
				"Curatori Esecuzione Musicale - json": `{"curatori_esecuzione_musicale:each": [{"Nome": "Arturo Basile", "Identificativo": "44", "Ruolo": "Direttore d'orchestra"}]}`,
				"Esecutori - json":                    `{"esecutori": [{"Nome": "Orchestra del Teatro Regio", "Identificativo": "70", "Ruolo": "Orchestra"}]}`,
			},
		},
	}
}

func TestRegioPerformances(t *testing.T) {
	set := Regio{Keywords: extract.DefaultKeywords()}.Performances(regioPerformanceTable())
	if len(set.Base) != 1 {
		t.Fatalf("base rows = %d", len(set.Base))
	}
	base := set.Base[0]
	if base.ID != "8101" {
		t.Fatalf("id = %q", base.ID)
	}
	if base.ShortTitle != "Tosca" {
		t.Fatalf("short title = %q", base.ShortTitle)
	}
	if base.ProductionID != "4411" {
		t.Fatalf("production id = %q", base.ProductionID)
	}
	if base.PlaceName != "Torino" || base.PlaceID != "5" {
		t.Fatalf("place = %q (%q)", base.PlaceName, base.PlaceID)
	}
	if base.BuildingName != "Teatro Regio" || base.BuildingID != "12" {
		t.Fatalf("building = %q (%q)", base.BuildingName, base.BuildingID)
	}
	if base.WorkID != "231" {
		t.Fatalf("work id = %q", base.WorkID)
	}
	if base.OtherIDs != "8102, 8103" {
		t.Fatalf("other ids = %q", base.OtherIDs)
	}

	if len(set.Cast) != 2 {
		t.Fatalf("cast rows = %d", len(set.Cast))
	}
	if c := set.Cast[0]; c.Character != "Tosca" || c.VoiceType != "soprano" || c.Performer != "Maria Callas" || c.PerformerID != "18" {
		t.Fatalf("cast[0] = %+v", c)
	}
	if len(set.Credits) != 1 || set.Credits[0].Role != "Direttore d'orchestra" {
		t.Fatalf("credits = %+v", set.Credits)
	}
	if len(set.Ensembles) != 1 || set.Ensembles[0].EnsembleID != "70" {
		t.Fatalf("ensembles = %+v", set.Ensembles)
	}
}

func TestJoinedCartesianExpansion(t *testing.T) {
	set := Regio{Keywords: extract.DefaultKeywords()}.Performances(regioPerformanceTable())
	joined := set.Joined()
	// 1 credit x 1 ensemble x 2 cast entries.
	if len(joined) != 2 {
		t.Fatalf("joined rows = %d; want 2", len(joined))
	}
	for _, j := range joined {
		if j.Credit.PersonID != "44" || j.Ensemble.EnsembleID != "70" {
			t.Fatalf("joined row lost a child: %+v", j)
		}
	}
	if joined[0].Cast.Performer == joined[1].Cast.Performer {
		t.Fatal("cast expansion collapsed")
	}
}

func TestJoinedKeepsChildlessParent(t *testing.T) {
	set := &PerformanceSet{
		Source: domain.SourceRegio,
		Base:   []domain.PerformanceRow{{ID: "1"}},
	}
	joined := set.Joined()
	if len(joined) != 1 {
		t.Fatalf("joined rows = %d; want 1", len(joined))
	}
	if joined[0].Cast.Performer != "" || joined[0].Credit.Name != "" {
		t.Fatalf("expected zero children, got %+v", joined[0])
	}
}

func TestFondazionePerformances(t *testing.T) {
	tab := &tabular.Table{
		Columns: []string{"id", "fullpath", "dcTitle", "from", "to", "datetext", "Luoghi", "Persone", "Enti", "operemusicali_collegate"},
		Rows: []tabular.Row{
			{
				"id":       "9001",
				"fullpath": "/Recite/14-02-1996 La bohème (9001)",
				"dcTitle":  "La bohème",
				"from":     "1996-02-14",
				"Luoghi":   `[{'nome': 'Teatro Municipale', 'Id': '12.0', 'relazione': 'edificio della recita'}, {'nome': 'Reggio Emilia', 'Id': '5', 'relazione': 'luogo della recita'}]`,
				"Persone": `[
					{'Nome': 'Freni, Mirella', 'Identificativo': '301', 'Relazione': 'interprete', 'Ruolo': 'soprano', 'Personaggio': 'Mimì'},
					{'Nome': 'Neschling, John', 'Identificativo': '88', 'Relazione': 'direttore della recita', 'Ruolo': 'Direttore'}
				]`,
				"Enti":                    `[{'Nome': 'Orchestra del Teatro', 'Identificativo': '402', 'Ruolo': 'Orchestra'}]`,
				"operemusicali_collegate": "/Opere/La bohème (77)",
			},
		},
	}
	set := Fondazione{Keywords: extract.DefaultKeywords()}.Performances(tab)
	base := set.Base[0]
	if base.ShortTitle != "La bohème" {
		t.Fatalf("short title = %q", base.ShortTitle)
	}
	if base.BuildingName != "Teatro Municipale" || base.BuildingID != "12" {
		t.Fatalf("building = %q (%q)", base.BuildingName, base.BuildingID)
	}
	if base.PlaceName != "Reggio Emilia" || base.PlaceID != "5" {
		t.Fatalf("place = %q (%q)", base.PlaceName, base.PlaceID)
	}
	if base.WorkID != "77" {
		t.Fatalf("work id = %q", base.WorkID)
	}
	if len(set.Cast) != 1 || set.Cast[0].Performer != "Mirella Freni" || set.Cast[0].Character != "Mimì" || set.Cast[0].VoiceType != "soprano" {
		t.Fatalf("cast = %+v", set.Cast)
	}
	if len(set.Credits) != 1 || set.Credits[0].Name != "John Neschling" || set.Credits[0].Role != "Direttore (direttore della recita)" {
		t.Fatalf("credits = %+v", set.Credits)
	}
	if len(set.Ensembles) != 1 || set.Ensembles[0].EnsembleID != "402" {
		t.Fatalf("ensembles = %+v", set.Ensembles)
	}
}

func TestReconcilePeople(t *testing.T) {
	set := &PerformanceSet{
		Source: domain.SourceFondazione,
		Cast: []domain.CastRow{
			{PerformanceID: "1", Performer: "Mirella Freni", PerformerID: ""},
		},
		Credits: []domain.CreditRow{
			{ParentID: "1", Name: "John Neschling", PersonID: "999"},
			{ParentID: "1", Name: "Sconosciuto Totale", PersonID: ""},
		},
	}
	people := []domain.PersonRow{
		{ID: "301", Name: "Freni, Mirella"},
		{ID: "88", Name: "John Neschling"},
	}
	stats := Fondazione{}.ReconcilePeople(set, people)
	if set.Cast[0].PerformerID != "301" {
		t.Fatalf("cast id = %q", set.Cast[0].PerformerID)
	}
	if set.Credits[0].PersonID != "88" {
		t.Fatalf("credit id = %q", set.Credits[0].PersonID)
	}
	if set.Credits[1].PersonID != "" {
		t.Fatalf("unknown name must keep its id, got %q", set.Credits[1].PersonID)
	}
	if stats.Cast != 1 || stats.Credits != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestFondazioneWorksLinkedPeople(t *testing.T) {
	table := &tabular.Table{
		Columns: []string{"id", "dcTitle", "entity_id", "persone_collegate"},
		Rows: []tabular.Row{
			{
				"id":                "301",
				"dcTitle":           "Norma",
				"entity_id":         "Q51871",
				"persone_collegate": "/Persone/Bellini, Vincenzo (9582), /Persone/Romani, Felice (9601)",
			},
		},
	}
	works := Fondazione{}.Works(table)
	if len(works) != 1 {
		t.Fatalf("works = %d, want 1", len(works))
	}
	if works[0].LinkedPersonIDs != "9582, 9601" {
		t.Fatalf("linked person ids = %q", works[0].LinkedPersonIDs)
	}
	if works[0].QID != "Q51871" {
		t.Fatalf("qid = %q", works[0].QID)
	}
}

func TestEnrichPlaceQIDs(t *testing.T) {
	set := &PerformanceSet{
		Source: domain.SourceRegio,
		Base: []domain.PerformanceRow{
			{ID: "8101", PlaceName: "Torino ", BuildingName: " Teatro Regio"},
			{ID: "8102", PlaceName: "Torino", BuildingName: "Teatro Regio", BuildingQID: "Q930148"},
			{ID: "8103", PlaceName: "Milano", BuildingName: "Teatro alla Scala"},
		},
	}
	mapping := &tabular.Table{
		Columns: []string{"edificio_nome", "luogo_nome", "entity", "uri"},
		Rows: []tabular.Row{
			{"edificio_nome": "Teatro Regio", "luogo_nome": "Torino", "entity": "Q1548528", "uri": "http://www.wikidata.org/entity/Q1548528"},
			{"edificio_nome": "Teatro Regio", "luogo_nome": "Torino", "entity": "Q999999"},
		},
	}

	if got := EnrichPlaceQIDs(set, mapping); got != 1 {
		t.Fatalf("enriched = %d, want 1", got)
	}
	// Join keys are trimmed and the first mapping row per key wins.
	if set.Base[0].BuildingQID != "Q1548528" {
		t.Fatalf("building qid = %q", set.Base[0].BuildingQID)
	}
	if set.Base[0].BuildingURI != "http://www.wikidata.org/entity/Q1548528" {
		t.Fatalf("building uri = %q", set.Base[0].BuildingURI)
	}
	// A reference already on the row is never replaced.
	if set.Base[1].BuildingQID != "Q930148" {
		t.Fatalf("existing qid overwritten: %q", set.Base[1].BuildingQID)
	}
	// No mapping entry leaves the row untouched.
	if set.Base[2].BuildingQID != "" {
		t.Fatalf("unmapped row gained qid %q", set.Base[2].BuildingQID)
	}
}

func TestRegioWorks(t *testing.T) {
	table := &tabular.Table{
		Columns: []string{
			"compositions_id", "dcTitle", "Anno", "datetext",
			"autore_musica", "autore_testo",
			"literary_author_name", "literary_author_id",
		},
		Rows: []tabular.Row{
			{
				"compositions_id":      "231.0",
				"dcTitle":              "Tosca",
				"Anno":                 "1900.0",
				"autore_musica":        "/Persone/Puccini, Giacomo (9580)",
				"autore_testo":         "/Persone/Illica, Luigi (9590)",
				"literary_author_name": "Victorien Sardou",
				"literary_author_id":   "9601.0",
			},
			{
				"compositions_id": "232",
				"dcTitle":         "Norma",
				"datetext":        "26-12-1831 - 26-12-1831",
			},
		},
	}
	works := Regio{}.Works(table)
	if len(works) != 2 {
		t.Fatalf("works = %d, want 2", len(works))
	}
	w := works[0]
	if w.LiteraryName != "Victorien Sardou" || w.LiteraryID != "9601" {
		t.Fatalf("literary author = %q (%q)", w.LiteraryName, w.LiteraryID)
	}
	if w.Year != "1900" {
		t.Fatalf("year = %q, want 1900", w.Year)
	}
	if w.ComposerID != "9580" || w.LibrettistID != "9590" {
		t.Fatalf("author ids = %q, %q", w.ComposerID, w.LibrettistID)
	}
	// No Anno column value: the year falls back to the datetext range.
	if works[1].Year != "1831" {
		t.Fatalf("fallback year = %q, want 1831", works[1].Year)
	}
}

func TestRegioProductions(t *testing.T) {
	tab := &tabular.Table{
		Columns: []string{"id", "fullpath", "Crediti artistici", "Crediti tecnici", "composizioni_collegate", "from", "to", "datetext", "source_id", "luogo_prima_rappresentazione", "edificio_prima_rappresentazione"},
		Rows: []tabular.Row{
			{
				"id":                              "4411",
				"fullpath":                        "/Spettacoli/Stagione 1995-1996 (102)/4 Tosca (4411)",
				"Crediti artistici":               `[{"Nome": "Giacomo Puccini", "Identificativo": "9", "Ruolo": "Compositore"}]`,
				"Crediti tecnici":                 `[{"Nome": "Mario Rossi", "Identificativo": "15", "Ruolo": "Scenografo"}]`,
				"composizioni_collegate":          "/Opere/Tosca (231)",
				"from":                            "1996-02-14",
				"luogo_prima_rappresentazione":    "/Luoghi/Torino (5)",
				"edificio_prima_rappresentazione": "/Luoghi/Torino (5)/Teatro Regio (12)",
			},
			{
				"id":       "4412",
				"fullpath": "/Spettacoli/Norma (4412)",
			},
		},
	}
	rows := Regio{}.Productions(tab)
	if len(rows) != 3 {
		t.Fatalf("rows = %d; want 3", len(rows))
	}
	if rows[0].WorkTitle != "Tosca" || rows[0].Year != "1996" || rows[0].RelatedWorkID != "231" {
		t.Fatalf("rows[0] = %+v", rows[0])
	}
	if rows[0].CreditType != "artistic" || rows[1].CreditType != "technical" {
		t.Fatalf("credit types = %q, %q", rows[0].CreditType, rows[1].CreditType)
	}
	if rows[2].ProductionID != "4412" || rows[2].CreditType != "" {
		t.Fatalf("creditless production = %+v", rows[2])
	}
}

func TestFondazioneSeasons(t *testing.T) {
	tab := &tabular.Table{
		Columns: []string{"id", "dcTitle", "dcType", "from", "to", "produzioni_collegate", "manifestazioni_recite_concerti_collegati"},
		Rows: []tabular.Row{
			{
				"id":                   "600",
				"dcTitle":              "Stagione Lirica 1996",
				"dcType":               "Stagione",
				"produzioni_collegate": "/Produzioni/Tosca (4411), /Produzioni/Norma (4412)",
				"manifestazioni_recite_concerti_collegati": "/Recite/Tosca (9001)",
			},
		},
	}
	seasons := Fondazione{}.Seasons(tab)
	if len(seasons) != 1 {
		t.Fatalf("seasons = %d", len(seasons))
	}
	s := seasons[0]
	if s.ProductionIDs != "4411, 4412" {
		t.Fatalf("production ids = %q", s.ProductionIDs)
	}
	if s.PerformanceIDs != "9001" {
		t.Fatalf("performance ids = %q", s.PerformanceIDs)
	}
}

func TestFondazioneProductionsLinks(t *testing.T) {
	prod := &tabular.Table{
		Columns: []string{"id", "dcTitle", "from", "to", "opere_collegate_id", "persone_collegate_id", "persone_collegate_ruolo"},
		Rows: []tabular.Row{
			{
				"id":                      "4411",
				"dcTitle":                 "Tosca",
				"opere_collegate_id":      "231",
				"persone_collegate_id":    "9, 15.0",
				"persone_collegate_ruolo": "regia, scene",
			},
		},
	}
	links := &tabular.Table{
		Columns: []string{"id", "recite_collegate"},
		Rows: []tabular.Row{
			{"id": "4411", "recite_collegate": "/Recite/Tosca (9001), /Recite/Tosca (9002)"},
		},
	}
	out := Fondazione{}.Productions(prod, links)
	if len(out) != 1 {
		t.Fatalf("productions = %d", len(out))
	}
	p := out[0]
	if len(p.People) != 2 || p.People[1].ID != "15" || p.People[1].Role != "scene" {
		t.Fatalf("people = %+v", p.People)
	}
	if len(p.PerformanceIDs) != 2 || p.PerformanceIDs[0] != "9001" {
		t.Fatalf("performance ids = %v", p.PerformanceIDs)
	}
}
