package link

import (
	"reflect"
	"testing"
)

func TestOrderedNormalizesDirection(t *testing.T) {
	a := Similarity{A: "p2", B: "p1", Score: 0.97}.Ordered()
	b := Similarity{A: "p1", B: "p2", Score: 0.97}.Ordered()
	if a != b {
		t.Fatalf("ordered pairs differ: %+v vs %+v", a, b)
	}
	if a.A != "p1" || a.B != "p2" {
		t.Fatalf("unexpected ordering: %+v", a)
	}
}

func TestDedupeKeepsHighestScore(t *testing.T) {
	links := []Similarity{
		{A: "p1", B: "p2", Score: 0.95},
		{A: "p2", B: "p1", Score: 0.97},
		{A: "p1", B: "p3", Score: 0.96},
	}
	got := Dedupe(links)
	want := []Similarity{
		{A: "p1", B: "p2", Score: 0.97},
		{A: "p1", B: "p3", Score: 0.96},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Dedupe = %+v, want %+v", got, want)
	}
}

func TestComponentsTransitiveClosure(t *testing.T) {
	links := []Similarity{
		{A: "a", B: "b", Score: 0.96},
		{A: "b", B: "c", Score: 0.96},
		{A: "x", B: "y", Score: 0.99},
	}
	got := Components(links, 0.955)
	want := [][]string{
		{"a", "b", "c"},
		{"x", "y"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Components = %v, want %v", got, want)
	}
}

func TestComponentsThresholdDropsWeakLinks(t *testing.T) {
	links := []Similarity{
		{A: "a", B: "b", Score: 0.96},
		{A: "b", B: "c", Score: 0.93},
	}
	got := Components(links, 0.955)
	want := [][]string{{"a", "b"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Components = %v, want %v", got, want)
	}
	if got := Components(links, 0.999); got != nil {
		t.Fatalf("expected no components above 0.999, got %v", got)
	}
}

func TestPlanPicksDeterministicGolden(t *testing.T) {
	plan := Plan([]string{"p9", "p2", "p5"})
	if plan.Golden != "p2" {
		t.Fatalf("golden = %q, want p2", plan.Golden)
	}
	if !reflect.DeepEqual(plan.Absorbed, []string{"p5", "p9"}) {
		t.Fatalf("absorbed = %v", plan.Absorbed)
	}
	if plan.Properties["embedding"] != Discard {
		t.Fatalf("embedding resolution = %q, want discard", plan.Properties["embedding"])
	}
	if plan.Properties["source"] != Combine {
		t.Fatalf("source resolution = %q, want combine", plan.Properties["source"])
	}
}

func TestPlanResolvesDatesAndReferences(t *testing.T) {
	plan := Plan([]string{"p1", "p2"})
	for _, prop := range []string{"birth_date", "death_date", "wikidata_qid", "wikidata_uri"} {
		if plan.Properties[prop] != Overwrite {
			t.Fatalf("%s resolution = %q, want overwrite", prop, plan.Properties[prop])
		}
	}
}
