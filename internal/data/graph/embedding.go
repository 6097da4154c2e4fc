package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/elena2notti/theatreNet/internal/platform/neo4jdb"
)

// EmbeddableNode is a node awaiting an embedding, addressed by its element
// id, together with the text to embed.
type EmbeddableNode struct {
	ElementID string
	Text      string
}

// EnsureVectorIndexes creates the cosine vector indexes used by the
// similarity linker. Safe to call on every run.
func EnsureVectorIndexes(ctx context.Context, client *neo4jdb.Client, dimension int) error {
	statements := []string{
		`CREATE VECTOR INDEX person_embeddings IF NOT EXISTS
FOR (p:Person) ON (p.embedding)
OPTIONS {indexConfig: {` + "`vector.dimensions`" + `: $dimension, ` + "`vector.similarity_function`" + `: 'cosine'}}`,
		`CREATE VECTOR INDEX work_embeddings IF NOT EXISTS
FOR (w:Work) ON (w.embedding)
OPTIONS {indexConfig: {` + "`vector.dimensions`" + `: $dimension, ` + "`vector.similarity_function`" + `: 'cosine'}}`,
	}
	session := client.WriteSession(ctx)
	defer session.Close(ctx)
	for _, stmt := range statements {
		res, err := session.Run(ctx, stmt, map[string]any{"dimension": dimension})
		if err == nil {
			_, err = res.Consume(ctx)
		}
		if err != nil {
			return fmt.Errorf("graph: create vector index: %w", err)
		}
	}
	return nil
}

// EmbeddablePeople returns the persons that lack a Wikidata reference and
// have no embedding yet. The embedding text concatenates name and life
// dates, which is what distinguishes homonyms.
func EmbeddablePeople(ctx context.Context, client *neo4jdb.Client) ([]EmbeddableNode, error) {
	const query = `
MATCH (p:Person)
WHERE (p.wikidata_qid IS NULL OR p.wikidata_qid = '') AND p.embedding IS NULL
RETURN elementId(p) AS id,
       coalesce(p.name, '') AS name,
       coalesce(p.birth_date, '') AS bdate,
       coalesce(p.death_date, '') AS ddate
`
	return collectEmbeddable(ctx, client, query, func(vals []any) string {
		return joinFields(vals[1], vals[2], vals[3])
	})
}

// EmbeddableWorks returns the works that lack a Wikidata reference and have
// no embedding yet. Composer names are folded into the text so that works
// sharing a title embed apart.
func EmbeddableWorks(ctx context.Context, client *neo4jdb.Client) ([]EmbeddableNode, error) {
	const query = `
MATCH (w:Work)
WHERE (w.wikidata_qid IS NULL OR w.wikidata_qid = '') AND w.embedding IS NULL
OPTIONAL MATCH (w)-[:HAS_COMPOSER]->(c:Person)
RETURN elementId(w) AS id,
       coalesce(w.title, '') AS title,
       reduce(s = '', n IN collect(coalesce(c.name, '')) | s + ' ' + n) AS composers
`
	return collectEmbeddable(ctx, client, query, func(vals []any) string {
		return joinFields(vals[1], vals[2])
	})
}

func collectEmbeddable(ctx context.Context, client *neo4jdb.Client, query string, text func([]any) string) ([]EmbeddableNode, error) {
	session := client.WriteSession(ctx)
	defer session.Close(ctx)
	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("graph: select embeddable nodes: %w", err)
	}
	var nodes []EmbeddableNode
	for result.Next(ctx) {
		vals := result.Record().Values
		id, _ := vals[0].(string)
		nodes = append(nodes, EmbeddableNode{ElementID: id, Text: text(vals)})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("graph: select embeddable nodes: %w", err)
	}
	return nodes, nil
}

func joinFields(vals ...any) string {
	var parts []string
	for _, v := range vals {
		s, _ := v.(string)
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// WriteEmbeddings stores one vector per node using the server-side vector
// property setter. Both slices must be index-aligned.
func WriteEmbeddings(ctx context.Context, client *neo4jdb.Client, nodes []EmbeddableNode, vectors [][]float32) error {
	if len(nodes) != len(vectors) {
		return fmt.Errorf("graph: write embeddings: %d nodes but %d vectors", len(nodes), len(vectors))
	}
	rows := make([]map[string]any, 0, len(nodes))
	for i, n := range nodes {
		rows = append(rows, map[string]any{"id": n.ElementID, "vector": vectors[i]})
	}
	_, err := runBatches(ctx, client, []batch{{
		query: `
UNWIND $rows AS row
MATCH (n) WHERE elementId(n) = row.id
CALL db.create.setNodeVectorProperty(n, 'embedding', row.vector)
`,
		rows: rows,
	}})
	return err
}
