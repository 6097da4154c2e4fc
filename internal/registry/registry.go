// Package registry assigns canonical references to real-world entities
// encountered during one pipeline run. References are stable within the run:
// every record presenting the same identity key resolves to the same *Ref.
package registry

import (
	"strings"

	"github.com/elena2notti/theatreNet/internal/domain"
	"github.com/elena2notti/theatreNet/internal/normalize"
)

// Registry is the per-run entity cache. It is process-local and
// single-threaded: one invocation builds it, uses it, and discards it.
type Registry struct {
	entries map[string]*domain.Ref
	renames map[string]string
	created int
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]*domain.Ref),
		renames: make(map[string]string),
	}
}

func kindToken(kind domain.Kind) string {
	return strings.ToLower(string(kind))
}

func qidKey(kind domain.Kind, qid string) string {
	return "q|" + string(kind) + "|" + qid
}

func localKey(src domain.Source, kind domain.Kind, key string) string {
	return "l|" + src.Prefix() + "|" + string(kind) + "|" + key
}

// GetOrCreate resolves an entity to its canonical reference. Key priority is
// external Wikidata reference, then normalized local id, then a slug of the
// label. When all three are absent it returns nil and the caller skips every
// relation predicated on the entity.
//
// A Wikidata-keyed reference is derived from the QID alone, so independent
// runs produce the same value without coordination. When a record carries
// both a QID and a local id first seen on its own, the local entry is
// re-pointed at the unified reference and the rename is recorded for edge
// retargeting.
func (g *Registry) GetOrCreate(src domain.Source, kind domain.Kind, label, localID, qid string) *domain.Ref {
	q := normalize.CanonicalQID(qid)
	id := normalize.CleanID(localID)

	if q != "" {
		key := qidKey(kind, q)
		ref, ok := g.entries[key]
		if !ok {
			ref = &domain.Ref{
				Kind:    kind,
				Value:   "unified_" + kindToken(kind) + "_" + q,
				QID:     q,
				Unified: true,
			}
			g.entries[key] = ref
			g.created++
		}
		if id != "" {
			g.adoptLocal(src, kind, id, ref)
		}
		return ref
	}

	if id != "" {
		key := localKey(src, kind, id)
		if ref, ok := g.entries[key]; ok {
			g.repairArtifact(ref, src, kind, id)
			return ref
		}
		if ref := g.migrateStale(src, kind, id); ref != nil {
			return ref
		}
		ref := &domain.Ref{Kind: kind, Value: src.Prefix() + "_" + kindToken(kind) + "_" + id}
		g.entries[key] = ref
		g.created++
		return ref
	}

	slug := normalize.Slug(label)
	if slug == "" {
		return nil
	}
	// Label-derived keys carry a marker so they can never collide with a
	// numeric local id that happens to render the same.
	key := localKey(src, kind, "LABEL_"+slug)
	if ref, ok := g.entries[key]; ok {
		return ref
	}
	ref := &domain.Ref{Kind: kind, Value: src.Prefix() + "_" + kindToken(kind) + "_LABEL_" + slug}
	g.entries[key] = ref
	g.created++
	return ref
}

// adoptLocal points a local-id cache slot at a unified reference. An entity
// first seen by local id alone converges once a later record reveals its
// QID.
func (g *Registry) adoptLocal(src domain.Source, kind domain.Kind, id string, unified *domain.Ref) {
	key := localKey(src, kind, id)
	if prior, ok := g.entries[key]; ok {
		if prior != unified && prior.Value != unified.Value {
			g.renames[prior.Value] = unified.Value
		}
	}
	g.entries[key] = unified
}

// migrateStale looks for a cache entry persisted under the identifier's
// ".0"-suffixed spelling, corrects its value in place, and moves it under the
// clean key. The rename is recorded so already-emitted nodes and edges are
// retargeted.
func (g *Registry) migrateStale(src domain.Source, kind domain.Kind, id string) *domain.Ref {
	staleKey := localKey(src, kind, id+".0")
	ref, ok := g.entries[staleKey]
	if !ok {
		return nil
	}
	old := ref.Value
	ref.Value = src.Prefix() + "_" + kindToken(kind) + "_" + id
	if old != ref.Value {
		g.renames[old] = ref.Value
	}
	delete(g.entries, staleKey)
	g.entries[localKey(src, kind, id)] = ref
	return ref
}

// repairArtifact rewrites a cached reference whose persisted value still
// carries a numeric artifact even though the cache key was clean.
func (g *Registry) repairArtifact(ref *domain.Ref, src domain.Source, kind domain.Kind, id string) {
	if ref.Unified || !strings.Contains(ref.Value, ".0") {
		return
	}
	old := ref.Value
	ref.Value = src.Prefix() + "_" + kindToken(kind) + "_" + id
	if old != ref.Value {
		g.renames[old] = ref.Value
	}
}

// Renames reports every reference value corrected during the run, old value
// to new. Graph loaders apply these to retarget nodes and edges emitted
// before the correction.
func (g *Registry) Renames() map[string]string {
	out := make(map[string]string, len(g.renames))
	for k, v := range g.renames {
		out[k] = v
	}
	return out
}

// Len reports how many distinct references the registry has created.
func (g *Registry) Len() int { return g.created }
