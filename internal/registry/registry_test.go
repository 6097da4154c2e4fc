package registry

import (
	"testing"

	"github.com/elena2notti/theatreNet/internal/domain"
)

func TestGetOrCreateStableByLocalID(t *testing.T) {
	g := New()
	a := g.GetOrCreate(domain.SourceRegio, domain.KindPerson, "Maria Callas", "42", "")
	b := g.GetOrCreate(domain.SourceRegio, domain.KindPerson, "Maria Callas", "42", "")
	if a == nil || a != b {
		t.Fatalf("same local id resolved to different references: %p vs %p", a, b)
	}
	if a.Value != "regio_person_42" {
		t.Fatalf("value = %q", a.Value)
	}
}

func TestGetOrCreateQIDConvergence(t *testing.T) {
	g := New()
	local := g.GetOrCreate(domain.SourceRegio, domain.KindPerson, "Maria Callas", "42", "")
	unified := g.GetOrCreate(domain.SourceRegio, domain.KindPerson, "Maria Callas", "", "Q123")
	if local == unified {
		t.Fatal("unseen QID must produce a new reference")
	}
	if unified.Value != "unified_person_Q123" || !unified.Unified {
		t.Fatalf("unified ref = %+v", unified)
	}

	// A record carrying both keys links them; all later calls converge.
	both := g.GetOrCreate(domain.SourceRegio, domain.KindPerson, "Maria Callas", "42", "Q123")
	if both != unified {
		t.Fatal("QID+local call did not resolve to the unified reference")
	}
	again := g.GetOrCreate(domain.SourceRegio, domain.KindPerson, "Maria Callas", "42", "")
	if again != unified {
		t.Fatal("local-only call after linking did not converge")
	}
	if got := g.Renames()["regio_person_42"]; got != "unified_person_Q123" {
		t.Fatalf("rename not recorded: %v", g.Renames())
	}
}

func TestGetOrCreateQIDURLForm(t *testing.T) {
	g := New()
	a := g.GetOrCreate(domain.SourceFondazione, domain.KindWork, "Tosca", "", "http://www.wikidata.org/entity/Q186319")
	b := g.GetOrCreate(domain.SourceRegio, domain.KindWork, "Tosca", "", "q186319")
	if a != b {
		t.Fatal("QID spellings must canonicalize to one reference across sources")
	}
	if a.Value != "unified_work_Q186319" {
		t.Fatalf("value = %q", a.Value)
	}
}

func TestGetOrCreateLabelFallback(t *testing.T) {
	g := New()
	a := g.GetOrCreate(domain.SourceRegio, domain.KindCharacter, "Mimì", "", "")
	b := g.GetOrCreate(domain.SourceRegio, domain.KindCharacter, "Mimì", "", "")
	if a == nil || a != b {
		t.Fatal("label-keyed lookups must be stable")
	}
	if a.Value != "regio_char_LABEL_Mimi" {
		t.Fatalf("value = %q", a.Value)
	}
	// A label that renders as digits must not collide with a numeric id.
	byLabel := g.GetOrCreate(domain.SourceRegio, domain.KindCharacter, "42", "", "")
	byID := g.GetOrCreate(domain.SourceRegio, domain.KindCharacter, "", "42", "")
	if byLabel == byID {
		t.Fatal("label-derived key collided with identifier-derived key")
	}
}

func TestGetOrCreateNoKey(t *testing.T) {
	g := New()
	if ref := g.GetOrCreate(domain.SourceRegio, domain.KindPerson, "", "nan", ""); ref != nil {
		t.Fatalf("expected nil reference, got %+v", ref)
	}
}

func TestKindScopedKeys(t *testing.T) {
	g := New()
	p := g.GetOrCreate(domain.SourceRegio, domain.KindPerson, "", "7", "")
	w := g.GetOrCreate(domain.SourceRegio, domain.KindWork, "", "7", "")
	if p == w || p.Value == w.Value {
		t.Fatal("identity keys must be scoped per kind")
	}
}

func TestMigrateStaleArtifact(t *testing.T) {
	g := New()
	// Simulate an entry persisted before identifier cleanup existed.
	stale := &domain.Ref{Kind: domain.KindPerson, Value: "regio_person_42.0"}
	g.entries[localKey(domain.SourceRegio, domain.KindPerson, "42.0")] = stale

	ref := g.GetOrCreate(domain.SourceRegio, domain.KindPerson, "Maria Callas", "42", "")
	if ref != stale {
		t.Fatal("stale entry was not reused")
	}
	if ref.Value != "regio_person_42" {
		t.Fatalf("value not repaired: %q", ref.Value)
	}
	if got := g.Renames()["regio_person_42.0"]; got != "regio_person_42" {
		t.Fatalf("rename not recorded: %v", g.Renames())
	}
}
