// Package graph loads the reconciled theatre records into Neo4j. Every
// loader batches its rows through UNWIND + MERGE so a re-run over the same
// input never duplicates nodes or edges, and each loader runs as one write
// transaction per logical step.
package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/elena2notti/theatreNet/internal/platform/neo4jdb"
)

// batch is one UNWIND payload paired with its Cypher.
type batch struct {
	query string
	rows  []map[string]any
}

// Stats summarizes one loader invocation: rows upserted and relationships
// newly created.
type Stats struct {
	Nodes int
	Edges int
}

// runBatches executes the non-empty batches inside a single write
// transaction, in order, and returns how many relationships were created.
func runBatches(ctx context.Context, client *neo4jdb.Client, batches []batch) (int, error) {
	session := client.WriteSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		edges := 0
		for _, b := range batches {
			if len(b.rows) == 0 {
				continue
			}
			res, err := tx.Run(ctx, b.query, map[string]any{"rows": b.rows})
			if err != nil {
				return nil, err
			}
			summary, err := res.Consume(ctx)
			if err != nil {
				return nil, err
			}
			edges += summary.Counters().RelationshipsCreated()
		}
		return edges, nil
	})
	if err != nil {
		return 0, fmt.Errorf("graph: write batches: %w", err)
	}
	edges, _ := out.(int)
	return edges, nil
}

// runCount executes one query and returns its single integer result.
func runCount(ctx context.Context, client *neo4jdb.Client, query string, params map[string]any) (int, error) {
	session := client.WriteSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		return record.Values[0], nil
	})
	if err != nil {
		return 0, err
	}
	if n, ok := out.(int64); ok {
		return int(n), nil
	}
	return 0, nil
}

// splitIDList splits a ", "-separated id list, dropping empty slots.
func splitIDList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// roleRelation maps a free-text production role to its edge type. Roles
// outside the known set fall back to HAD_ROLE_IN with the text kept on the
// edge.
func roleRelation(role string) string {
	lower := strings.ToLower(role)
	switch {
	case strings.Contains(role, "Regista") || strings.Contains(lower, "regia"):
		return "DIRECTED"
	case strings.Contains(role, "Scenografo") || strings.Contains(lower, "scene"):
		return "DESIGNED_SET"
	case strings.Contains(role, "Coreografo") || strings.Contains(lower, "coreografia"):
		return "CHOREOGRAPHED"
	case strings.Contains(role, "Costumista") || strings.Contains(lower, "costumi"):
		return "DESIGNED_COSTUMES"
	default:
		return "HAD_ROLE_IN"
	}
}
