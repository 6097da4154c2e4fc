package graph

import (
	"context"
	"fmt"

	"github.com/elena2notti/theatreNet/internal/link"
	"github.com/elena2notti/theatreNet/internal/platform/neo4jdb"
)

// MergeByQID collapses nodes of the same label that share a Wikidata QID
// into a single node. Identifier properties from both sources are kept,
// sources are combined, and relationships are carried over.
func MergeByQID(ctx context.Context, client *neo4jdb.Client) (int, error) {
	session := client.WriteSession(ctx)
	defer session.Close(ctx)

	merged := 0
	for _, label := range []string{"Person", "Work", "Building"} {
		query := fmt.Sprintf(`
MATCH (n:%s)
WHERE n.wikidata_qid IS NOT NULL AND n.wikidata_qid <> ''
WITH n.wikidata_qid AS qid, collect(n) AS nodes
WHERE size(nodes) > 1
CALL apoc.refactor.mergeNodes(nodes, {
    properties: {
        source: 'combine',
        name: 'overwrite',
        title: 'overwrite',
        wikidata_qid: 'discard',
        wikidata_uri: 'discard',
        internal_id_regio: 'overwrite',
        internal_id_fondazione: 'overwrite'
    },
    mergeRels: true
}) YIELD node
RETURN count(node) AS merged
`, label)
		result, err := session.Run(ctx, query, nil)
		if err != nil {
			return merged, fmt.Errorf("graph: merge %s by qid: %w", label, err)
		}
		if result.Next(ctx) {
			if n, ok := result.Record().Values[0].(int64); ok {
				merged += int(n)
			}
		}
		if err := result.Err(); err != nil {
			return merged, fmt.Errorf("graph: merge %s by qid: %w", label, err)
		}
	}
	return merged, nil
}

// sameAsQuery links persons by vector similarity. Only reference-less
// persons take part: a person that carries a Wikidata QID is already
// resolved and must never be pulled into a similarity merge, on either end
// of the pair.
const sameAsQuery = `
MATCH (p:Person)
WHERE (p.wikidata_qid IS NULL OR trim(p.wikidata_qid) = '')
  AND p.embedding IS NOT NULL
CALL db.index.vector.queryNodes('person_embeddings', $k, p.embedding)
YIELD node, score
WHERE node <> p
  AND id(p) < id(node)
  AND (node.wikidata_qid IS NULL OR trim(node.wikidata_qid) = '')
  AND node.embedding IS NOT NULL
  AND score >= $threshold
MERGE (p)-[r:SAME_AS]->(node)
SET r.confidence = score, r.method = 'embedding'
RETURN count(r) AS links
`

// CreateSameAsLinks queries the person vector index for each embedded
// reference-less person and records a SAME_AS edge toward every nearby
// candidate above the score threshold. Pairs are ordered by internal node
// id so each pair is linked once.
func CreateSameAsLinks(ctx context.Context, client *neo4jdb.Client, k int, threshold float64) (int, error) {
	return runCount(ctx, client, sameAsQuery, map[string]any{"k": k, "threshold": threshold})
}

// SameAsPairs reads back every recorded SAME_AS pair with its confidence,
// keyed by element id, for client-side component discovery.
func SameAsPairs(ctx context.Context, client *neo4jdb.Client) ([]link.Similarity, error) {
	session := client.WriteSession(ctx)
	defer session.Close(ctx)

	const query = `
MATCH (a:Person)-[r:SAME_AS]->(b:Person)
RETURN elementId(a) AS a, elementId(b) AS b, r.confidence AS confidence
`
	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("graph: read SAME_AS pairs: %w", err)
	}
	var out []link.Similarity
	for result.Next(ctx) {
		vals := result.Record().Values
		a, _ := vals[0].(string)
		b, _ := vals[1].(string)
		score, _ := vals[2].(float64)
		out = append(out, link.Similarity{A: a, B: b, Score: score})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("graph: read SAME_AS pairs: %w", err)
	}
	return out, nil
}

// mergeParams renders one merge plan as query parameters. The golden node
// leads the id list because apoc merges every later node into the first.
func mergeParams(plan link.MergePlan) map[string]any {
	ids := make([]string, 0, 1+len(plan.Absorbed))
	ids = append(ids, plan.Golden)
	ids = append(ids, plan.Absorbed...)
	props := make(map[string]any, len(plan.Properties))
	for name, res := range plan.Properties {
		props[name] = string(res)
	}
	return map[string]any{"ids": ids, "props": props}
}

// MergeSameAsComponents collapses each connected component of
// high-confidence SAME_AS links into one person. Components and their merge
// plans are computed client-side from the recorded pairs; each plan keeps
// the golden node, applies the per-property resolution policy, and
// redirects every relationship of the absorbed members onto the survivor.
func MergeSameAsComponents(ctx context.Context, client *neo4jdb.Client, confidence float64) (int, error) {
	pairs, err := SameAsPairs(ctx, client)
	if err != nil {
		return 0, err
	}

	session := client.WriteSession(ctx)
	defer session.Close(ctx)

	const query = `
UNWIND $ids AS eid
MATCH (n:Person) WHERE elementId(n) = eid
WITH collect(n) AS nodes
CALL apoc.refactor.mergeNodes(nodes, {properties: $props, mergeRels: true}) YIELD node
RETURN count(node) AS merged
`
	merged := 0
	for _, component := range link.Components(link.Dedupe(pairs), confidence) {
		result, err := session.Run(ctx, query, mergeParams(link.Plan(component)))
		if err != nil {
			return merged, fmt.Errorf("graph: merge component: %w", err)
		}
		if _, err := result.Consume(ctx); err != nil {
			return merged, fmt.Errorf("graph: merge component: %w", err)
		}
		merged++
	}
	return merged, nil
}

// DeleteSameAs removes the SAME_AS working edges once merging is done.
// Self-loops created by component merges go first.
func DeleteSameAs(ctx context.Context, client *neo4jdb.Client) error {
	session := client.WriteSession(ctx)
	defer session.Close(ctx)
	for _, query := range []string{
		`MATCH (n)-[r:SAME_AS]->(n) DELETE r`,
		`MATCH ()-[r:SAME_AS]->() DELETE r`,
	} {
		result, err := session.Run(ctx, query, nil)
		if err != nil {
			return fmt.Errorf("graph: delete SAME_AS edges: %w", err)
		}
		if _, err := result.Consume(ctx); err != nil {
			return fmt.Errorf("graph: delete SAME_AS edges: %w", err)
		}
	}
	return nil
}
