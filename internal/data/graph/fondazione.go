package graph

import (
	"context"

	"github.com/elena2notti/theatreNet/internal/domain"
	"github.com/elena2notti/theatreNet/internal/flatten"
	"github.com/elena2notti/theatreNet/internal/platform/neo4jdb"
)

// UpsertFondazionePeople loads the Fondazione person master table. Wikidata
// linkage is refreshed on re-run so later reconciliation passes see the
// enriched identifiers.
func UpsertFondazionePeople(ctx context.Context, client *neo4jdb.Client, people []domain.PersonRow) (Stats, error) {
	rows := make([]map[string]any, 0, len(people))
	for _, p := range people {
		if p.ID == "" {
			continue
		}
		rows = append(rows, map[string]any{
			"id":   p.ID,
			"name": p.Name,
			"qid":  p.QID,
			"uri":  p.URI,
		})
	}
	edges, err := runBatches(ctx, client, []batch{{
		query: `
UNWIND $rows AS row
MERGE (p:Person {internal_id_fondazione: row.id})
ON CREATE SET
    p.name = row.name,
    p.wikidata_qid = row.qid,
    p.wikidata_uri = row.uri,
    p.source = 'Fondazione'
ON MATCH SET
    p.wikidata_qid = row.qid,
    p.wikidata_uri = row.uri
MERGE (i:ID {code: 'fondazione_' + row.id})
ON CREATE SET i.source = 'Fondazione'
MERGE (i)-[:IS_ID_OF]->(p)
`,
		rows: rows,
	}})
	return Stats{Nodes: len(rows), Edges: edges}, err
}

// UpsertFondazioneWorks loads the Fondazione works table and links the
// people referenced by each work's authority paths.
func UpsertFondazioneWorks(ctx context.Context, client *neo4jdb.Client, works []domain.WorkRow) (Stats, error) {
	nodes := make([]map[string]any, 0, len(works))
	var people []map[string]any
	for _, w := range works {
		if w.ID == "" {
			continue
		}
		nodes = append(nodes, map[string]any{
			"id":    w.ID,
			"title": w.Title,
			"qid":   w.QID,
		})
		for _, pid := range splitIDList(w.LinkedPersonIDs) {
			people = append(people, map[string]any{"work_id": w.ID, "person_id": pid})
		}
	}

	edges, err := runBatches(ctx, client, []batch{
		{
			query: `
UNWIND $rows AS row
MERGE (w:Work {internal_id_fondazione: row.id})
ON CREATE SET w.title = row.title, w.wikidata_qid = row.qid, w.source = 'Fondazione'
MERGE (i:ID {code: 'fondazione_' + row.id})
ON CREATE SET i.source = 'Fondazione'
MERGE (i)-[:IS_ID_OF]->(w)
`,
			rows: nodes,
		},
		{
			query: `
UNWIND $rows AS row
MATCH (w:Work {internal_id_fondazione: row.work_id})
MERGE (p:Person {internal_id_fondazione: row.person_id})
ON CREATE SET p.source = 'Fondazione'
MERGE (p)-[r:HAD_ROLE_IN]->(w)
SET r.source = 'Fondazione'
`,
			rows: people,
		},
	})
	return Stats{Nodes: len(nodes), Edges: edges}, err
}

// UpsertFondazioneProductions loads the production export with its work and
// person links, plus the HAS_PERFORMANCE edges from the companion links
// table.
func UpsertFondazioneProductions(ctx context.Context, client *neo4jdb.Client, productions []flatten.LinkedProduction) (Stats, error) {
	var nodes, workLinks, perfLinks []map[string]any
	credits := make(map[string][]map[string]any)

	for _, p := range productions {
		if p.ID == "" {
			continue
		}
		nodes = append(nodes, map[string]any{
			"id":         p.ID,
			"title":      p.Title,
			"start_date": p.From,
			"end_date":   p.To,
			"city":       p.City,
			"venue":      p.Venue,
		})
		for _, wid := range p.WorkIDs {
			workLinks = append(workLinks, map[string]any{"production_id": p.ID, "work_id": wid})
		}
		for _, lp := range p.People {
			rel := roleRelation(lp.Role)
			credits[rel] = append(credits[rel], map[string]any{
				"production_id": p.ID,
				"person_id":     lp.ID,
				"role":          lp.Role,
			})
		}
		for _, rid := range p.PerformanceIDs {
			perfLinks = append(perfLinks, map[string]any{"production_id": p.ID, "perf_id": rid})
		}
	}

	batches := []batch{
		{
			query: `
UNWIND $rows AS row
MERGE (p:Production {internal_id_fondazione: row.id})
SET
    p.title = row.title,
    p.start_date = row.start_date,
    p.end_date = row.end_date,
    p.city = row.city,
    p.venue = row.venue,
    p.source = 'Fondazione'
MERGE (i:ID {code: 'fondazione_' + row.id})
ON CREATE SET i.source = 'Fondazione'
MERGE (i)-[:IS_ID_OF]->(p)
`,
			rows: nodes,
		},
		{
			query: `
UNWIND $rows AS row
MATCH (p:Production {internal_id_fondazione: row.production_id})
MERGE (w:Work {internal_id_fondazione: row.work_id})
ON CREATE SET w.source = 'Fondazione'
MERGE (p)-[:RELATED_TO_WORK]->(w)
MERGE (w)-[:RELATES_TO]->(p)
`,
			rows: workLinks,
		},
	}
	for _, rel := range []string{"DIRECTED", "DESIGNED_SET", "CHOREOGRAPHED", "DESIGNED_COSTUMES"} {
		batches = append(batches, batch{
			query: `
UNWIND $rows AS row
MATCH (pr:Production {internal_id_fondazione: row.production_id})
MERGE (p:Person {internal_id_fondazione: row.person_id})
ON CREATE SET p.source = 'Fondazione'
MERGE (p)-[:` + rel + `]->(pr)
`,
			rows: credits[rel],
		})
	}
	batches = append(batches,
		batch{
			query: `
UNWIND $rows AS row
MATCH (pr:Production {internal_id_fondazione: row.production_id})
MERGE (p:Person {internal_id_fondazione: row.person_id})
ON CREATE SET p.source = 'Fondazione'
MERGE (p)-[r:HAD_ROLE_IN]->(pr)
SET r.role = row.role
`,
			rows: credits["HAD_ROLE_IN"],
		},
		batch{
			query: `
UNWIND $rows AS row
MATCH (p:Production {internal_id_fondazione: row.production_id})
MATCH (r:Performance {internal_id_fondazione: row.perf_id})
MERGE (p)-[:HAS_PERFORMANCE]->(r)
`,
			rows: perfLinks,
		},
	)

	edges, err := runBatches(ctx, client, batches)
	return Stats{Nodes: len(nodes), Edges: edges}, err
}

// UpsertFondazionePerformances loads the joined performance view: the
// performance nodes, their buildings (Wikidata-enriched), the linked work,
// conductors, ensembles, and the interpreter/character triangle. The
// HAS_CHARACTER edge is emitted once per (work, character) pair across the
// whole view.
func UpsertFondazionePerformances(ctx context.Context, client *neo4jdb.Client, joined []domain.JoinedRow) (Stats, error) {
	seenPerf := make(map[string]bool)
	seenWorkCharacter := make(map[[2]string]bool)
	var nodes, buildings, workLinks, conductors, interpreters, ensembles []map[string]any

	for _, j := range joined {
		base := j.Performance
		if base.ID == "" {
			continue
		}
		if !seenPerf[base.ID] {
			seenPerf[base.ID] = true
			nodes = append(nodes, map[string]any{
				"id":       base.ID,
				"title":    base.ShortTitle,
				"date":     base.From,
				"venue":    base.PlaceName,
				"building": base.BuildingName,
			})
			if base.BuildingID != "" {
				buildings = append(buildings, map[string]any{
					"perf_id": base.ID,
					"id":      base.BuildingID,
					"name":    base.BuildingName,
					"city":    base.PlaceName,
					"qid":     base.BuildingQID,
					"uri":     base.BuildingURI,
				})
			}
			if base.WorkID != "" {
				workLinks = append(workLinks, map[string]any{"perf_id": base.ID, "work_id": base.WorkID})
			}
		}
		if j.Credit.PersonID != "" {
			conductors = append(conductors, map[string]any{
				"perf_id":   base.ID,
				"person_id": j.Credit.PersonID,
				"name":      j.Credit.Name,
				"role":      j.Credit.Role,
			})
		}
		if j.Cast.PerformerID != "" {
			key := [2]string{base.WorkID, j.Cast.Character}
			row := map[string]any{
				"perf_id":   base.ID,
				"person_id": j.Cast.PerformerID,
				"name":      j.Cast.Performer,
				"character": j.Cast.Character,
				"voice":     j.Cast.VoiceType,
				"role":      j.Cast.Role,
				"work_id":   base.WorkID,
				"link_work": base.WorkID != "" && j.Cast.Character != "" && !seenWorkCharacter[key],
			}
			if base.WorkID != "" && j.Cast.Character != "" {
				seenWorkCharacter[key] = true
			}
			interpreters = append(interpreters, row)
		}
		if j.Ensemble.EnsembleID != "" {
			ensembles = append(ensembles, map[string]any{
				"perf_id": base.ID,
				"id":      j.Ensemble.EnsembleID,
				"name":    j.Ensemble.Name,
				"role":    j.Ensemble.Role,
			})
		}
	}

	edges, err := runBatches(ctx, client, []batch{
		{
			query: `
UNWIND $rows AS row
MERGE (r:Performance {internal_id_fondazione: row.id})
ON CREATE SET
    r.title = row.title,
    r.date = row.date,
    r.venue = row.venue,
    r.building_text = row.building,
    r.source = 'Fondazione'
MERGE (i:ID {code: 'fondazione_' + row.id})
ON CREATE SET i.source = 'Fondazione'
MERGE (i)-[:IS_ID_OF]->(r)
`,
			rows: nodes,
		},
		{
			query: `
UNWIND $rows AS row
MATCH (r:Performance {internal_id_fondazione: row.perf_id})
MERGE (b:Building {internal_id_fondazione: row.id})
ON CREATE SET
    b.name = row.name,
    b.city = row.city,
    b.wikidata_qid = row.qid,
    b.wikidata_uri = row.uri,
    b.source = 'Fondazione'
ON MATCH SET
    b.wikidata_qid = CASE WHEN row.qid <> '' THEN row.qid ELSE b.wikidata_qid END
MERGE (r)-[:HELD_IN]->(b)
`,
			rows: buildings,
		},
		{
			query: `
UNWIND $rows AS row
MATCH (r:Performance {internal_id_fondazione: row.perf_id})
MERGE (w:Work {internal_id_fondazione: row.work_id})
ON CREATE SET w.source = 'Fondazione'
MERGE (r)-[:RELATED_TO_WORK]->(w)
MERGE (w)-[:RELATES_TO]->(r)
`,
			rows: workLinks,
		},
		{
			query: `
UNWIND $rows AS row
MATCH (r:Performance {internal_id_fondazione: row.perf_id})
MERGE (p:Person {internal_id_fondazione: row.person_id})
ON CREATE SET p.name = row.name, p.source = 'Fondazione'
MERGE (p)-[:CONDUCTED]->(r)
`,
			rows: conductors,
		},
		{
			query: `
UNWIND $rows AS row
MATCH (r:Performance {internal_id_fondazione: row.perf_id})
MERGE (p:Person {internal_id_fondazione: row.person_id})
ON CREATE SET p.name = row.name, p.source = 'Fondazione'
MERGE (p)-[pr:PERFORMED_IN]->(r)
FOREACH (_ IN CASE WHEN row.role <> '' THEN [1] ELSE [] END | SET pr.role = row.role)
WITH r, p, row
WHERE row.character <> ''
MERGE (c:Character {name: row.character})
ON CREATE SET c.voice_type = row.voice, c.source = 'Fondazione'
MERGE (p)-[:INTERPRETED]->(c)
MERGE (c)-[:APPEARED_IN]->(r)
WITH c, row
WHERE row.link_work
MATCH (w:Work {internal_id_fondazione: row.work_id})
MERGE (w)-[:HAS_CHARACTER]->(c)
`,
			rows: interpreters,
		},
		{
			query: `
UNWIND $rows AS row
MATCH (r:Performance {internal_id_fondazione: row.perf_id})
MERGE (e:Ensemble {internal_id_fondazione: row.id})
ON CREATE SET e.name = row.name, e.source = 'Fondazione'
MERGE (e)-[pr:PARTICIPATED_IN]->(r)
SET pr.role = row.role
`,
			rows: ensembles,
		},
	})
	return Stats{Nodes: len(nodes), Edges: edges}, err
}

// UpsertFondazioneSeasons loads the seasons and links them to the
// productions and performances their export references.
func UpsertFondazioneSeasons(ctx context.Context, client *neo4jdb.Client, seasons []domain.SeasonRow) (Stats, error) {
	var nodes, productions, performances []map[string]any
	for _, s := range seasons {
		if s.ID == "" {
			continue
		}
		nodes = append(nodes, map[string]any{
			"id":         s.ID,
			"title":      s.Title,
			"type":       s.Type,
			"start_date": s.StartDate,
			"end_date":   s.EndDate,
		})
		for _, pid := range splitIDList(s.ProductionIDs) {
			productions = append(productions, map[string]any{"season_id": s.ID, "production_id": pid})
		}
		for _, rid := range splitIDList(s.PerformanceIDs) {
			performances = append(performances, map[string]any{"season_id": s.ID, "perf_id": rid})
		}
	}

	edges, err := runBatches(ctx, client, []batch{
		{
			query: `
UNWIND $rows AS row
MERGE (s:Season {internal_id_fondazione: row.id})
ON CREATE SET
    s.title = row.title,
    s.type = row.type,
    s.start_date = row.start_date,
    s.end_date = row.end_date,
    s.source = 'Fondazione'
MERGE (i:ID {code: 'fondazione_' + row.id})
ON CREATE SET i.source = 'Fondazione'
MERGE (i)-[:IS_ID_OF]->(s)
`,
			rows: nodes,
		},
		{
			query: `
UNWIND $rows AS row
MATCH (s:Season {internal_id_fondazione: row.season_id})
MATCH (p:Production {internal_id_fondazione: row.production_id})
MERGE (s)-[:INCLUDES_PRODUCTION]->(p)
MERGE (p)-[:IS_PART_OF]->(s)
`,
			rows: productions,
		},
		{
			query: `
UNWIND $rows AS row
MATCH (s:Season {internal_id_fondazione: row.season_id})
MATCH (r:Performance {internal_id_fondazione: row.perf_id})
MERGE (s)-[:INCLUDES_PERFORMANCE]->(r)
`,
			rows: performances,
		},
	})
	return Stats{Nodes: len(nodes), Edges: edges}, err
}
