package graph

import (
	"context"
	"fmt"

	"github.com/elena2notti/theatreNet/internal/platform/logger"
	"github.com/elena2notti/theatreNet/internal/platform/neo4jdb"
)

var uniqueConstraints = []string{
	"CREATE CONSTRAINT person_id_regio_unique IF NOT EXISTS FOR (p:Person) REQUIRE p.internal_id_regio IS UNIQUE",
	"CREATE CONSTRAINT person_id_fondazione_unique IF NOT EXISTS FOR (p:Person) REQUIRE p.internal_id_fondazione IS UNIQUE",
	"CREATE CONSTRAINT work_id_regio_unique IF NOT EXISTS FOR (w:Work) REQUIRE w.internal_id_regio IS UNIQUE",
	"CREATE CONSTRAINT work_id_fondazione_unique IF NOT EXISTS FOR (w:Work) REQUIRE w.internal_id_fondazione IS UNIQUE",
	"CREATE CONSTRAINT season_id_regio_unique IF NOT EXISTS FOR (s:Season) REQUIRE s.internal_id_regio IS UNIQUE",
	"CREATE CONSTRAINT season_id_fondazione_unique IF NOT EXISTS FOR (s:Season) REQUIRE s.internal_id_fondazione IS UNIQUE",
	"CREATE CONSTRAINT production_id_regio_unique IF NOT EXISTS FOR (p:Production) REQUIRE p.internal_id_regio IS UNIQUE",
	"CREATE CONSTRAINT production_id_fondazione_unique IF NOT EXISTS FOR (p:Production) REQUIRE p.internal_id_fondazione IS UNIQUE",
	"CREATE CONSTRAINT performance_id_regio_unique IF NOT EXISTS FOR (r:Performance) REQUIRE r.internal_id_regio IS UNIQUE",
	"CREATE CONSTRAINT performance_id_fondazione_unique IF NOT EXISTS FOR (r:Performance) REQUIRE r.internal_id_fondazione IS UNIQUE",
	"CREATE CONSTRAINT ensemble_id_regio_unique IF NOT EXISTS FOR (e:Ensemble) REQUIRE e.internal_id_regio IS UNIQUE",
	"CREATE CONSTRAINT ensemble_id_fondazione_unique IF NOT EXISTS FOR (e:Ensemble) REQUIRE e.internal_id_fondazione IS UNIQUE",
	"CREATE CONSTRAINT organizer_id_regio_unique IF NOT EXISTS FOR (o:Organizer) REQUIRE o.internal_id_regio IS UNIQUE",
	"CREATE CONSTRAINT building_id_fondazione_unique IF NOT EXISTS FOR (b:Building) REQUIRE b.internal_id_fondazione IS UNIQUE",
	"CREATE CONSTRAINT id_code_unique IF NOT EXISTS FOR (i:ID) REQUIRE i.code IS UNIQUE",
}

// EnsureConstraints creates the per-kind uniqueness constraints. Individual
// statements are best-effort: a constraint that already exists under another
// name must not abort the run.
func EnsureConstraints(ctx context.Context, client *neo4jdb.Client, log *logger.Logger) error {
	session := client.WriteSession(ctx)
	defer session.Close(ctx)

	for _, stmt := range uniqueConstraints {
		res, err := session.Run(ctx, stmt, nil)
		if err == nil {
			_, err = res.Consume(ctx)
		}
		if err != nil {
			log.Warn("Constraint statement skipped", "error", err.Error())
		}
	}
	return nil
}

// Reset wipes every node and relationship. Constraints stay in place.
func Reset(ctx context.Context, client *neo4jdb.Client) error {
	session := client.WriteSession(ctx)
	defer session.Close(ctx)

	res, err := session.Run(ctx, "MATCH (n) DETACH DELETE n", nil)
	if err == nil {
		_, err = res.Consume(ctx)
	}
	if err != nil {
		return fmt.Errorf("graph: reset database: %w", err)
	}
	return nil
}
