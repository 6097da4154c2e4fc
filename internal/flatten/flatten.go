// Package flatten turns one source's raw export tables into typed row sets:
// a base record per performance or production plus child tables for cast,
// credits, and ensembles, each child keyed back to its parent record.
package flatten

import (
	"github.com/elena2notti/theatreNet/internal/domain"
)

// PerformanceSet is the flattened output for one source's performance
// export: the base rows and the one-to-many children extracted from the
// embedded sub-record cells.
type PerformanceSet struct {
	Source    domain.Source
	Base      []domain.PerformanceRow
	Cast      []domain.CastRow
	Credits   []domain.CreditRow
	Ensembles []domain.EnsembleRow
}

// Joined produces the denormalized wide view: each base row left-joined
// against its credits, ensembles, and cast. The expansion is Cartesian
// across the three child kinds, and a base row with no children of a kind
// still appears with that kind's fields zeroed.
func (s *PerformanceSet) Joined() []domain.JoinedRow {
	credits := make(map[string][]domain.CreditRow)
	for _, c := range s.Credits {
		credits[c.ParentID] = append(credits[c.ParentID], c)
	}
	ensembles := make(map[string][]domain.EnsembleRow)
	for _, e := range s.Ensembles {
		ensembles[e.PerformanceID] = append(ensembles[e.PerformanceID], e)
	}
	cast := make(map[string][]domain.CastRow)
	for _, c := range s.Cast {
		cast[c.PerformanceID] = append(cast[c.PerformanceID], c)
	}

	var out []domain.JoinedRow
	for _, base := range s.Base {
		cs := credits[base.ID]
		if len(cs) == 0 {
			cs = []domain.CreditRow{{}}
		}
		es := ensembles[base.ID]
		if len(es) == 0 {
			es = []domain.EnsembleRow{{}}
		}
		ks := cast[base.ID]
		if len(ks) == 0 {
			ks = []domain.CastRow{{}}
		}
		for _, c := range cs {
			for _, e := range es {
				for _, k := range ks {
					out = append(out, domain.JoinedRow{
						Performance: base,
						Credit:      c,
						Ensemble:    e,
						Cast:        k,
					})
				}
			}
		}
	}
	return out
}
