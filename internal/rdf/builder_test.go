package rdf

import (
	"strings"
	"testing"

	krdf "github.com/knakk/rdf"

	"github.com/elena2notti/theatreNet/internal/domain"
)

const testBase = "https://teatroregio.it/archivio/data/"

func countPred(triples []krdf.Triple, pred string) int {
	n := 0
	for _, t := range triples {
		if p, ok := t.Pred.(krdf.IRI); ok && p.String() == pred {
			n++
		}
	}
	return n
}

func hasTriple(triples []krdf.Triple, subj, pred, obj string) bool {
	for _, t := range triples {
		s, okS := t.Subj.(krdf.IRI)
		p, okP := t.Pred.(krdf.IRI)
		o, okO := t.Obj.(krdf.IRI)
		if okS && okP && okO && s.String() == subj && p.String() == pred && o.String() == obj {
			return true
		}
	}
	return false
}

func TestAddWorksCoAuthorsKeepSeparateRoles(t *testing.T) {
	b := NewBuilder(domain.SourceRegio, testBase)
	b.AddWorks([]domain.WorkRow{{
		ID:             "4411",
		Title:          "Tosca",
		ComposerName:   "Giacomo Puccini",
		LibrettistName: "Giuseppe Giacosa",
		LiteraryName:   "Victorien Sardou",
	}})
	triples := b.Triples()

	// Three authors, three distinct actor-role nodes.
	roles := map[string]bool{}
	for _, tr := range triples {
		if p, ok := tr.Pred.(krdf.IRI); ok && p.String() == propCarriedOutActor {
			if s, ok := tr.Subj.(krdf.IRI); ok && strings.Contains(s.String(), "role_") {
				roles[s.String()] = true
			}
		}
	}
	if len(roles) != 3 {
		t.Fatalf("expected 3 distinct actor roles, got %d: %v", len(roles), roles)
	}
	if n := countPred(triples, propWasInitiatedBy); n != 3 {
		t.Fatalf("expected 3 conception links, got %d", n)
	}
}

func TestAddWorksWikidataUnifiesURI(t *testing.T) {
	b := NewBuilder(domain.SourceRegio, testBase)
	b.AddWorks([]domain.WorkRow{{ID: "4411", Title: "Tosca", QID: "https://www.wikidata.org/wiki/Q51871"}})
	triples := b.Triples()

	if !hasTriple(triples, testBase+"unified_work_Q51871", rdfType, classWork) {
		t.Fatalf("work with QID should use the unified URI")
	}
}

func TestInverseEmission(t *testing.T) {
	b := NewBuilder(domain.SourceRegio, testBase)
	b.AddSeasons([]domain.SeasonRow{{ID: "102", Title: "Stagione 1995-1996", ProductionIDs: "4411"}})
	triples := b.Triples()

	season := testBase + "season_102"
	prod := testBase + "production_4411"
	if !hasTriple(triples, season, propConsistsOf, prod) {
		t.Fatalf("missing forward consists-of")
	}
	if !hasTriple(triples, prod, crm("P9i_forms_part_of"), season) {
		t.Fatalf("missing inverse forms-part-of")
	}
}

func TestHasCharacterDedupAcrossPerformances(t *testing.T) {
	b := NewBuilder(domain.SourceRegio, testBase)
	b.AddWorks([]domain.WorkRow{{ID: "4411", Title: "Tosca"}})

	joined := []domain.JoinedRow{
		{
			Performance: domain.PerformanceRow{ID: "8101", WorkID: "4411"},
			Cast:        domain.CastRow{Performer: "Mirella Freni", Character: "Tosca", VoiceType: "Soprano"},
		},
		{
			Performance: domain.PerformanceRow{ID: "8102", WorkID: "4411"},
			Cast:        domain.CastRow{Performer: "Raina Kabaivanska", Character: "Tosca", VoiceType: "Soprano"},
		},
	}
	b.AddPerformances(joined)
	triples := b.Triples()

	if n := countPred(triples, propHasCharacter); n != 1 {
		t.Fatalf("expected one has-character link for the repeated character, got %d", n)
	}
	// Two performances, two performer roles.
	if n := countPred(triples, propPerformedChar); n != 2 {
		t.Fatalf("expected 2 performed-character links, got %d", n)
	}
	// Soprano voice infers a female gender type on the character.
	if !hasTriple(triples,
		testBase+"regio_char_LABEL_Tosca",
		propHasType,
		testBase+"regio_type_LABEL_gender_femmina",
	) {
		t.Fatalf("missing inferred gender type")
	}
}

func TestPerformerWithoutCharacterGetsContextualRole(t *testing.T) {
	b := NewBuilder(domain.SourceRegio, testBase)
	b.AddPerformances([]domain.JoinedRow{{
		Performance: domain.PerformanceRow{ID: "8101"},
		Cast:        domain.CastRow{Performer: "Luciano Pavarotti", Role: "Solista"},
	}})
	triples := b.Triples()

	if n := countPred(triples, propPerformedChar); n != 0 {
		t.Fatalf("no character expected, got %d CP8 links", n)
	}
	found := false
	for _, tr := range triples {
		if s, ok := tr.Subj.(krdf.IRI); ok && strings.Contains(s.String(), "perf_actor_role_8101_") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a contextual actor role for the character-less performer")
	}
}

func TestVIAFStripsFloatArtifact(t *testing.T) {
	b := NewBuilder(domain.SourceRegio, testBase)
	b.AddPersons([]domain.PersonRow{{ID: "42", Name: "Giacomo Puccini", VIAF: "76323984.0"}})
	triples := b.Triples()

	if !hasTriple(triples, testBase+"regio_person_42", owlSameAs, "http://viaf.org/viaf/76323984") {
		t.Fatalf("VIAF link should drop the .0 artifact")
	}
}

func TestDuplicateTriplesCollapse(t *testing.T) {
	b := NewBuilder(domain.SourceRegio, testBase)
	rows := []domain.SeasonRow{{ID: "102", Title: "Stagione", ProductionIDs: "4411"}}
	b.AddSeasons(rows)
	before := b.Len()
	b.AddSeasons(rows)
	if b.Len() != before {
		t.Fatalf("re-adding identical rows grew the graph: %d -> %d", before, b.Len())
	}
}
