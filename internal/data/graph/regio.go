package graph

import (
	"context"

	"github.com/elena2notti/theatreNet/internal/domain"
	"github.com/elena2notti/theatreNet/internal/platform/neo4jdb"
)

// UpsertRegioPeople loads the Regio person master table. Each person also
// gets an ID node recording which source produced its identifier.
func UpsertRegioPeople(ctx context.Context, client *neo4jdb.Client, people []domain.PersonRow) (Stats, error) {
	rows := make([]map[string]any, 0, len(people))
	for _, p := range people {
		if p.ID == "" {
			continue
		}
		rows = append(rows, map[string]any{
			"id":          p.ID,
			"name":        p.Name,
			"qid":         p.QID,
			"uri":         p.URI,
			"birth_date":  p.BirthDate,
			"birth_place": p.BirthPlace,
			"death_date":  p.DeathDate,
			"death_place": p.DeathPlace,
			"occupation":  p.Occupation,
			"viaf":        p.VIAF,
		})
	}
	edges, err := runBatches(ctx, client, []batch{{
		query: `
UNWIND $rows AS row
MERGE (p:Person {internal_id_regio: row.id})
ON CREATE SET
    p.name = row.name,
    p.full_name = row.name,
    p.wikidata_qid = row.qid,
    p.wikidata_uri = row.uri,
    p.birth_date = row.birth_date,
    p.birth_place = row.birth_place,
    p.death_date = row.death_date,
    p.death_place = row.death_place,
    p.occupation = row.occupation,
    p.viaf = row.viaf,
    p.source = 'Regio'
MERGE (i:ID {code: 'regio_' + row.id})
ON CREATE SET i.source = 'Regio'
MERGE (i)-[:IS_ID_OF]->(p)
`,
		rows: rows,
	}})
	return Stats{Nodes: len(rows), Edges: edges}, err
}

// UpsertRegioWorks loads the Regio works table: the Work nodes, the
// bidirectional authorship edges, and the Wikidata-keyed characters. The
// HAS_CHARACTER edge is emitted once per (work, character) pair.
func UpsertRegioWorks(ctx context.Context, client *neo4jdb.Client, works []domain.WorkRow) (Stats, error) {
	nodes := make([]map[string]any, 0, len(works))
	var composers, librettists, literary, characters []map[string]any
	seenCharacter := make(map[[2]string]bool)

	for _, w := range works {
		if w.ID == "" {
			continue
		}
		nodes = append(nodes, map[string]any{
			"id":    w.ID,
			"title": w.Title,
			"year":  w.Year,
			"qid":   w.QID,
			"uri":   w.URI,
			"from":  w.From,
			"to":    w.To,
		})
		if w.ComposerID != "" {
			composers = append(composers, map[string]any{"work_id": w.ID, "person_id": w.ComposerID})
		}
		if w.LibrettistID != "" {
			librettists = append(librettists, map[string]any{"work_id": w.ID, "person_id": w.LibrettistID})
		}
		if w.LiteraryID != "" {
			literary = append(literary, map[string]any{"work_id": w.ID, "person_id": w.LiteraryID})
		}
		if w.CharacterQID != "" {
			key := [2]string{w.ID, w.CharacterQID}
			if !seenCharacter[key] {
				seenCharacter[key] = true
				characters = append(characters, map[string]any{
					"work_id": w.ID,
					"qid":     w.CharacterQID,
					"name":    w.CharacterName,
					"voice":   w.CharacterVoice,
					"gender":  w.CharacterGender,
				})
			}
		}
	}

	edges, err := runBatches(ctx, client, []batch{
		{
			query: `
UNWIND $rows AS row
MERGE (w:Work {internal_id_regio: row.id})
ON CREATE SET
    w.title = row.title,
    w.year = CASE WHEN row.year <> '' THEN toInteger(row.year) ELSE NULL END,
    w.wikidata_qid = row.qid,
    w.wikidata_uri = row.uri,
    w.from_date = row.from,
    w.to_date = row.to,
    w.source = 'Regio'
MERGE (i:ID {code: 'regio_' + row.id})
ON CREATE SET i.source = 'Regio'
MERGE (i)-[:IS_ID_OF]->(w)
`,
			rows: nodes,
		},
		{
			query: `
UNWIND $rows AS row
MATCH (w:Work {internal_id_regio: row.work_id})
MATCH (p:Person {internal_id_regio: row.person_id})
MERGE (w)-[:HAS_COMPOSER]->(p)
MERGE (p)-[:IS_COMPOSER]->(w)
`,
			rows: composers,
		},
		{
			query: `
UNWIND $rows AS row
MATCH (w:Work {internal_id_regio: row.work_id})
MATCH (p:Person {internal_id_regio: row.person_id})
MERGE (w)-[:HAS_LIBRETTIST]->(p)
MERGE (p)-[:IS_LIBRETTIST]->(w)
`,
			rows: librettists,
		},
		{
			query: `
UNWIND $rows AS row
MATCH (w:Work {internal_id_regio: row.work_id})
MATCH (p:Person {internal_id_regio: row.person_id})
MERGE (w)-[:HAS_LITERARY_AUTHOR]->(p)
MERGE (p)-[:IS_LITERARY_AUTHOR]->(w)
`,
			rows: literary,
		},
		{
			query: `
UNWIND $rows AS row
MATCH (w:Work {internal_id_regio: row.work_id})
MERGE (c:Character {wikidata_qid: row.qid})
ON CREATE SET
    c.name = row.name,
    c.voice_type = row.voice,
    c.gender = row.gender,
    c.source = 'Regio'
MERGE (w)-[:HAS_CHARACTER]->(c)
`,
			rows: characters,
		},
	})
	return Stats{Nodes: len(nodes), Edges: edges}, err
}

// UpsertRegioSeasons loads the Regio seasons with their organizer and
// linked productions.
func UpsertRegioSeasons(ctx context.Context, client *neo4jdb.Client, seasons []domain.SeasonRow) (Stats, error) {
	nodes := make([]map[string]any, 0, len(seasons))
	var organizers, productions []map[string]any
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
		if s.OrganizerID != "" {
			organizers = append(organizers, map[string]any{
				"season_id": s.ID,
				"id":        s.OrganizerID,
				"name":      s.OrganizerName,
			})
		}
		for _, pid := range splitIDList(s.ProductionIDs) {
			productions = append(productions, map[string]any{"season_id": s.ID, "production_id": pid})
		}
	}

	edges, err := runBatches(ctx, client, []batch{
		{
			query: `
UNWIND $rows AS row
MERGE (s:Season {internal_id_regio: row.id})
ON CREATE SET
    s.title = row.title,
    s.type = row.type,
    s.start_date = row.start_date,
    s.end_date = row.end_date,
    s.source = 'Regio'
MERGE (i:ID {code: 'regio_' + row.id})
ON CREATE SET i.source = 'Regio'
MERGE (i)-[:IS_ID_OF]->(s)
`,
			rows: nodes,
		},
		{
			query: `
UNWIND $rows AS row
MATCH (s:Season {internal_id_regio: row.season_id})
MERGE (o:Organizer {internal_id_regio: row.id})
ON CREATE SET o.name = row.name, o.source = 'Regio'
MERGE (s)-[:ORGANIZED_BY]->(o)
`,
			rows: organizers,
		},
		{
			query: `
UNWIND $rows AS row
MATCH (s:Season {internal_id_regio: row.season_id})
MERGE (p:Production {internal_id_regio: row.production_id})
ON CREATE SET p.source = 'Regio'
MERGE (s)-[:INCLUDES_PRODUCTION]->(p)
MERGE (p)-[:IS_PART_OF]->(s)
`,
			rows: productions,
		},
	})
	return Stats{Nodes: len(nodes), Edges: edges}, err
}

// UpsertRegioProductions loads the credit-expanded production table. The
// production node itself is merged once per distinct id; each credit becomes
// a typed edge chosen from the role text.
func UpsertRegioProductions(ctx context.Context, client *neo4jdb.Client, productions []domain.ProductionRow) (Stats, error) {
	seen := make(map[string]bool)
	var nodes, workLinks []map[string]any
	credits := make(map[string][]map[string]any)

	for _, p := range productions {
		if p.ProductionID == "" {
			continue
		}
		if !seen[p.ProductionID] {
			seen[p.ProductionID] = true
			nodes = append(nodes, map[string]any{
				"id":             p.ProductionID,
				"title":          p.WorkTitle,
				"start_date":     p.StartDate,
				"end_date":       p.EndDate,
				"year":           p.Year,
				"first_location": p.FirstLocation,
				"first_venue":    p.FirstVenue,
			})
			if p.RelatedWorkID != "" {
				workLinks = append(workLinks, map[string]any{"production_id": p.ProductionID, "work_id": p.RelatedWorkID})
			}
		}
		if p.PersonID != "" {
			rel := roleRelation(p.PersonRole)
			credits[rel] = append(credits[rel], map[string]any{
				"production_id": p.ProductionID,
				"person_id":     p.PersonID,
				"role":          p.PersonRole,
			})
		}
	}

	batches := []batch{
		{
			query: `
UNWIND $rows AS row
MERGE (p:Production {internal_id_regio: row.id})
ON CREATE SET
    p.start_date = row.start_date,
    p.end_date = row.end_date,
    p.year = CASE WHEN row.year <> '' THEN toInteger(row.year) ELSE NULL END,
    p.first_location = row.first_location,
    p.first_venue = row.first_venue,
    p.source = 'Regio'
SET p.title = row.title
MERGE (i:ID {code: 'regio_' + row.id})
ON CREATE SET i.source = 'Regio'
MERGE (i)-[:IS_ID_OF]->(p)
`,
			rows: nodes,
		},
		{
			query: `
UNWIND $rows AS row
MATCH (p:Production {internal_id_regio: row.production_id})
MATCH (w:Work {internal_id_regio: row.work_id})
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
MATCH (pr:Production {internal_id_regio: row.production_id})
MATCH (p:Person {internal_id_regio: row.person_id})
MERGE (p)-[:` + rel + `]->(pr)
`,
			rows: credits[rel],
		})
	}
	batches = append(batches, batch{
		query: `
UNWIND $rows AS row
MATCH (pr:Production {internal_id_regio: row.production_id})
MATCH (p:Person {internal_id_regio: row.person_id})
MERGE (p)-[r:HAD_ROLE_IN]->(pr)
SET r.role = row.role
`,
		rows: credits["HAD_ROLE_IN"],
	})

	edges, err := runBatches(ctx, client, batches)
	return Stats{Nodes: len(nodes), Edges: edges}, err
}

// UpsertRegioPerformances loads the joined performance view. The
// performance key combines the production id with the per-performance id,
// matching how the production nests the performance in its catalogue path.
func UpsertRegioPerformances(ctx context.Context, client *neo4jdb.Client, joined []domain.JoinedRow) (Stats, error) {
	seenPerf := make(map[string]bool)
	seenWorkCharacter := make(map[[2]string]bool)
	var nodes, workLinks, conductors, interpreters, ensembles []map[string]any

	for _, j := range joined {
		base := j.Performance
		if base.ID == "" || base.ProductionID == "" {
			continue
		}
		perfID := base.ProductionID + "_" + base.ID

		if !seenPerf[perfID] {
			seenPerf[perfID] = true
			nodes = append(nodes, map[string]any{
				"id":            perfID,
				"detail_id":     base.ID,
				"production_id": base.ProductionID,
				"title":         base.ShortTitle,
				"date":          base.From,
				"venue":         base.PlaceName,
				"building":      base.BuildingName,
			})
			if base.WorkID != "" {
				workLinks = append(workLinks, map[string]any{"perf_id": perfID, "work_id": base.WorkID})
			}
		}
		if j.Credit.PersonID != "" && j.Credit.Role != "" {
			conductors = append(conductors, map[string]any{
				"perf_id":   perfID,
				"person_id": j.Credit.PersonID,
				"name":      j.Credit.Name,
				"role":      j.Credit.Role,
			})
		}
		if j.Cast.PerformerID != "" && j.Cast.Character != "" {
			key := [2]string{base.WorkID, j.Cast.Character}
			row := map[string]any{
				"perf_id":   perfID,
				"person_id": j.Cast.PerformerID,
				"name":      j.Cast.Performer,
				"character": j.Cast.Character,
				"voice":     j.Cast.VoiceType,
				"role":      j.Cast.Role,
				"work_id":   base.WorkID,
				"link_work": base.WorkID != "" && !seenWorkCharacter[key],
			}
			if base.WorkID != "" {
				seenWorkCharacter[key] = true
			}
			interpreters = append(interpreters, row)
		}
		if j.Ensemble.EnsembleID != "" {
			ensembles = append(ensembles, map[string]any{
				"perf_id": perfID,
				"id":      j.Ensemble.EnsembleID,
				"name":    j.Ensemble.Name,
				"type":    j.Ensemble.Role,
			})
		}
	}

	edges, err := runBatches(ctx, client, []batch{
		{
			query: `
UNWIND $rows AS row
MERGE (r:Performance {internal_id_regio: row.id})
ON CREATE SET
    r.internal_id_dettaglio = row.detail_id,
    r.title = row.title,
    r.date = row.date,
    r.venue = row.venue,
    r.building = row.building,
    r.source = 'Regio'
MERGE (i:ID {code: 'regio_' + row.id})
ON CREATE SET i.source = 'Regio'
MERGE (i)-[:IS_ID_OF]->(r)
MERGE (p:Production {internal_id_regio: row.production_id})
MERGE (p)-[:HAS_PERFORMANCE]->(r)
`,
			rows: nodes,
		},
		{
			query: `
UNWIND $rows AS row
MATCH (r:Performance {internal_id_regio: row.perf_id})
MATCH (w:Work {internal_id_regio: row.work_id})
MERGE (r)-[:RELATED_TO_WORK]->(w)
MERGE (w)-[:RELATES_TO]->(r)
`,
			rows: workLinks,
		},
		{
			query: `
UNWIND $rows AS row
MATCH (r:Performance {internal_id_regio: row.perf_id})
MERGE (p:Person {internal_id_regio: row.person_id})
ON CREATE SET p.name = row.name, p.source = 'Regio'
WITH r, p, row
WHERE row.role CONTAINS 'Direttore'
MERGE (p)-[:CONDUCTED]->(r)
`,
			rows: conductors,
		},
		{
			query: `
UNWIND $rows AS row
MATCH (r:Performance {internal_id_regio: row.perf_id})
MERGE (p:Person {internal_id_regio: row.person_id})
ON CREATE SET p.name = row.name, p.source = 'Regio'
MERGE (c:Character {name: row.character})
ON CREATE SET c.voice_type = row.voice, c.source = 'Regio'
MERGE (p)-[:INTERPRETED]->(c)
MERGE (c)-[:APPEARED_IN]->(r)
MERGE (p)-[pr:PERFORMED_IN]->(r)
FOREACH (_ IN CASE WHEN row.role <> '' THEN [1] ELSE [] END | SET pr.role = row.role)
WITH c, row
WHERE row.link_work
MATCH (w:Work {internal_id_regio: row.work_id})
MERGE (w)-[:HAS_CHARACTER]->(c)
`,
			rows: interpreters,
		},
		{
			query: `
UNWIND $rows AS row
MATCH (r:Performance {internal_id_regio: row.perf_id})
MERGE (e:Ensemble {internal_id_regio: row.id})
ON CREATE SET e.name = row.name, e.type = row.type, e.source = 'Regio'
MERGE (e)-[:PARTICIPATED_IN]->(r)
`,
			rows: ensembles,
		},
	})
	return Stats{Nodes: len(nodes), Edges: edges}, err
}
