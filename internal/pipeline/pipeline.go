// Package pipeline orchestrates the archive processing steps: per-source
// normalization, graph loading, embedding, cross-source linking, and the RDF
// projection. Steps are independent by design so a failed source does not
// block the other one.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/elena2notti/theatreNet/internal/config"
	"github.com/elena2notti/theatreNet/internal/platform/embedder"
	"github.com/elena2notti/theatreNet/internal/platform/logger"
	"github.com/elena2notti/theatreNet/internal/platform/neo4jdb"
)

// Deps bundles the services a step may use. Graph and Embedder may be nil
// for steps that only touch the filesystem.
type Deps struct {
	Log      *logger.Logger
	Cfg      config.Config
	Graph    *neo4jdb.Client
	Embedder embedder.Client
}

// StepResult summarizes one executed step.
type StepResult struct {
	Name  string
	Nodes int
	Edges int
	Rows  int
	Err   error
}

// StepFunc is one pipeline step. Name and Err on the returned result are
// filled in by the runner.
type StepFunc func(ctx context.Context, deps *Deps) (StepResult, error)

var steps = []struct {
	name string
	fn   StepFunc
}{
	{"normalize-regio", normalizeRegio},
	{"normalize-fondazione", normalizeFondazione},
	{"load-regio", loadRegio},
	{"load-fondazione", loadFondazione},
	{"embed-persons", embedPersons},
	{"embed-works", embedWorks},
	{"link-merge", linkMerge},
	{"rdf-regio", rdfRegio},
	{"rdf-fondazione", rdfFondazione},
}

// Names lists every known step in execution order.
func Names() []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.name
	}
	return out
}

func lookup(name string) (StepFunc, bool) {
	for _, s := range steps {
		if s.name == name {
			return s.fn, true
		}
	}
	return nil, false
}

// Run executes the named steps in order. A failing step is logged and later
// steps still run; the error reports how many failed. An unknown step name
// aborts immediately.
func Run(ctx context.Context, deps *Deps, names []string) ([]StepResult, error) {
	log := deps.Log.With("run_id", uuid.NewString())

	var results []StepResult
	failed := 0
	for _, name := range names {
		fn, ok := lookup(name)
		if !ok {
			return results, fmt.Errorf("pipeline: unknown step %q", name)
		}
		log.Info("Step starting", "step", name)
		res, err := fn(ctx, deps)
		res.Name = name
		res.Err = err
		results = append(results, res)
		if err != nil {
			failed++
			log.Error("Step failed", "step", name, "error", err.Error())
			continue
		}
		log.Info("Step finished",
			"step", name, "rows", res.Rows, "nodes", res.Nodes, "edges", res.Edges)
	}
	if failed > 0 {
		return results, fmt.Errorf("pipeline: %d of %d steps failed", failed, len(names))
	}
	return results, nil
}
