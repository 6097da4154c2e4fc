// Package link holds the database-free logic of the cross-source entity
// linker: candidate pair thresholds, connected components over similarity
// links, and the property-resolution plan applied when a component collapses
// into one node. The graph package translates plans into Cypher.
package link

import "sort"

// Similarity is one scored candidate pair between two nodes. A and B are
// opaque node keys; Score is cosine similarity in [0, 1].
type Similarity struct {
	A     string
	B     string
	Score float64
}

// Ordered returns the pair with its keys in ascending order, so the same
// two nodes always produce the same pair regardless of query direction.
func (s Similarity) Ordered() Similarity {
	if s.B < s.A {
		s.A, s.B = s.B, s.A
	}
	return s
}

// Dedupe collapses duplicate pairs, keeping the highest score seen for each.
func Dedupe(links []Similarity) []Similarity {
	best := make(map[[2]string]float64)
	for _, l := range links {
		l = l.Ordered()
		key := [2]string{l.A, l.B}
		if l.Score > best[key] {
			best[key] = l.Score
		}
	}
	out := make([]Similarity, 0, len(best))
	for key, score := range best {
		out = append(out, Similarity{A: key[0], B: key[1], Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// Components partitions the linked nodes into connected components, keeping
// only links at or above the threshold. Links below the threshold neither
// connect nor introduce nodes. Each component is sorted and singletons are
// dropped: a node with no surviving link merges with nothing.
func Components(links []Similarity, threshold float64) [][]string {
	parent := make(map[string]string)

	var find func(string) string
	find = func(x string) string {
		p, ok := parent[x]
		if !ok {
			parent[x] = x
			return x
		}
		if p == x {
			return x
		}
		root := find(p)
		parent[x] = root
		return root
	}
	union := func(a, b string) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	linked := false
	for _, l := range links {
		if l.Score < threshold {
			continue
		}
		union(l.A, l.B)
		linked = true
	}
	if !linked {
		return nil
	}

	groups := make(map[string][]string)
	for node := range parent {
		root := find(node)
		groups[root] = append(groups[root], node)
	}

	var out [][]string
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		sort.Strings(members)
		out = append(out, members)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// Resolution is the per-property policy applied when a component merges.
type Resolution string

const (
	// Overwrite keeps the golden node's value, falling back to any
	// member's value when the golden node has none.
	Overwrite Resolution = "overwrite"
	// Combine keeps every distinct value.
	Combine Resolution = "combine"
	// Discard drops the property from the merged node.
	Discard Resolution = "discard"
)

// MergePlan describes one component merge: which node survives and how each
// property is resolved. Relationships of the absorbed members are always
// redistributed onto the golden node.
type MergePlan struct {
	Golden     string
	Absorbed   []string
	Properties map[string]Resolution
}

// personResolutions is the policy for merged persons. Source provenance is
// combined, identifiers follow the surviving side, and the embedding is
// discarded so the next run re-embeds the merged node.
func personResolutions() map[string]Resolution {
	return map[string]Resolution{
		"source":                 Combine,
		"name":                   Overwrite,
		"birth_date":             Overwrite,
		"death_date":             Overwrite,
		"wikidata_qid":           Overwrite,
		"wikidata_uri":           Overwrite,
		"embedding":              Discard,
		"internal_id_regio":      Overwrite,
		"internal_id_fondazione": Overwrite,
	}
}

// Plan builds the merge plan for one component. The lexicographically first
// member is golden, which keeps re-runs deterministic.
func Plan(component []string) MergePlan {
	if len(component) == 0 {
		return MergePlan{}
	}
	sorted := append([]string(nil), component...)
	sort.Strings(sorted)
	return MergePlan{
		Golden:     sorted[0],
		Absorbed:   sorted[1:],
		Properties: personResolutions(),
	}
}
