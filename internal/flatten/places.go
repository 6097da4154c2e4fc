package flatten

import (
	"strings"

	"github.com/elena2notti/theatreNet/internal/normalize"
	"github.com/elena2notti/theatreNet/internal/tabular"
)

// EnrichPlaceQIDs fills the Wikidata building reference of each base row
// from a mapping table keyed by (edificio_nome, luogo_nome). Join keys are
// trimmed on both sides and the first mapping row per key wins; a reference
// already present on the row is never replaced. Returns how many rows
// gained a reference.
func EnrichPlaceQIDs(set *PerformanceSet, mapping *tabular.Table) int {
	type key struct{ building, place string }
	refs := make(map[key]tabular.Row, len(mapping.Rows))
	for _, row := range mapping.Rows {
		k := key{
			building: strings.TrimSpace(row.Get("edificio_nome")),
			place:    strings.TrimSpace(row.Get("luogo_nome")),
		}
		if _, ok := refs[k]; !ok {
			refs[k] = row
		}
	}

	enriched := 0
	for i := range set.Base {
		base := &set.Base[i]
		if base.BuildingQID != "" {
			continue
		}
		row, ok := refs[key{
			building: strings.TrimSpace(base.BuildingName),
			place:    strings.TrimSpace(base.PlaceName),
		}]
		if !ok {
			continue
		}
		qid := normalize.CanonicalQID(row.Get("entity"))
		if qid == "" {
			continue
		}
		base.BuildingQID = qid
		if base.BuildingURI == "" {
			base.BuildingURI = row.Get("uri")
		}
		enriched++
	}
	return enriched
}
