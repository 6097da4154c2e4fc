package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/elena2notti/theatreNet/internal/config"
	"github.com/elena2notti/theatreNet/internal/data/graph"
	"github.com/elena2notti/theatreNet/internal/domain"
	"github.com/elena2notti/theatreNet/internal/flatten"
	"github.com/elena2notti/theatreNet/internal/rdf"
	"github.com/elena2notti/theatreNet/internal/tabular"
)

func readTable(src config.Source, path, what string) (*tabular.Table, error) {
	if path == "" {
		return nil, fmt.Errorf("pipeline: %s table not configured", what)
	}
	return tabular.ReadFile(path, tabular.Options{Comma: src.Comma()})
}

type regioData struct {
	people      []domain.PersonRow
	works       []domain.WorkRow
	seasons     []domain.SeasonRow
	productions []domain.ProductionRow
	set         *flatten.PerformanceSet
}

func loadRegioData(cfg config.Config) (*regioData, error) {
	src := cfg.Regio
	reg := flatten.Regio{Keywords: cfg.Keywords}
	d := &regioData{}

	t, err := readTable(src, src.People, "regio people")
	if err != nil {
		return nil, err
	}
	d.people = reg.People(t)

	if t, err = readTable(src, src.Works, "regio works"); err != nil {
		return nil, err
	}
	d.works = reg.Works(t)

	if t, err = readTable(src, src.Seasons, "regio seasons"); err != nil {
		return nil, err
	}
	d.seasons = reg.Seasons(t)

	if t, err = readTable(src, src.Productions, "regio productions"); err != nil {
		return nil, err
	}
	d.productions = reg.Productions(t)

	if t, err = readTable(src, src.Performances, "regio performances"); err != nil {
		return nil, err
	}
	d.set = reg.Performances(t)
	if err := enrichPlaces(src, d.set); err != nil {
		return nil, err
	}
	return d, nil
}

// enrichPlaces applies the optional (building, city) → Wikidata mapping
// table to a source's performance rows.
func enrichPlaces(src config.Source, set *flatten.PerformanceSet) error {
	if src.Places == "" {
		return nil
	}
	mapping, err := readTable(src, src.Places, "place mapping")
	if err != nil {
		return err
	}
	flatten.EnrichPlaceQIDs(set, mapping)
	return nil
}

type fondazioneData struct {
	people      []domain.PersonRow
	works       []domain.WorkRow
	seasons     []domain.SeasonRow
	productions []flatten.LinkedProduction
	set         *flatten.PerformanceSet
	reconciled  flatten.ReconcileStats
}

func loadFondazioneData(cfg config.Config) (*fondazioneData, error) {
	src := cfg.Fondazione
	fon := flatten.Fondazione{Keywords: cfg.Keywords}
	d := &fondazioneData{}

	t, err := readTable(src, src.People, "fondazione people")
	if err != nil {
		return nil, err
	}
	d.people = fon.People(t)

	if t, err = readTable(src, src.Works, "fondazione works"); err != nil {
		return nil, err
	}
	d.works = fon.Works(t)

	if t, err = readTable(src, src.Seasons, "fondazione seasons"); err != nil {
		return nil, err
	}
	d.seasons = fon.Seasons(t)

	var links *tabular.Table
	if src.ProductionLinks != "" {
		if links, err = readTable(src, src.ProductionLinks, "fondazione production links"); err != nil {
			return nil, err
		}
	}
	if t, err = readTable(src, src.Productions, "fondazione productions"); err != nil {
		return nil, err
	}
	d.productions = fon.Productions(t, links)

	if t, err = readTable(src, src.Performances, "fondazione performances"); err != nil {
		return nil, err
	}
	d.set = fon.Performances(t)
	if err := enrichPlaces(src, d.set); err != nil {
		return nil, err
	}
	d.reconciled = fon.ReconcilePeople(d.set, d.people)
	return d, nil
}

func writeOut(cfg config.Config, name string, t *tabular.Table) error {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("pipeline: create output dir: %w", err)
	}
	return tabular.WriteFile(filepath.Join(cfg.OutputDir, name), t)
}

func normalizeRegio(ctx context.Context, deps *Deps) (StepResult, error) {
	d, err := loadRegioData(deps.Cfg)
	if err != nil {
		return StepResult{}, err
	}
	joined := joinedTable(d.set)
	if err := writeOut(deps.Cfg, "regio_recite_joined.csv", joined); err != nil {
		return StepResult{}, err
	}
	if err := writeOut(deps.Cfg, "regio_produzioni.csv", regioProductionsTable(d.productions)); err != nil {
		return StepResult{}, err
	}
	return StepResult{Rows: len(joined.Rows) + len(d.productions)}, nil
}

func normalizeFondazione(ctx context.Context, deps *Deps) (StepResult, error) {
	d, err := loadFondazioneData(deps.Cfg)
	if err != nil {
		return StepResult{}, err
	}
	deps.Log.Debug("Reconciled person ids against master table",
		"cast", d.reconciled.Cast, "credits", d.reconciled.Credits)
	joined := joinedTable(d.set)
	if err := writeOut(deps.Cfg, "fondazione_recite_joined.csv", joined); err != nil {
		return StepResult{}, err
	}
	if err := writeOut(deps.Cfg, "fondazione_produzioni.csv", fondazioneProductionsTable(d.productions)); err != nil {
		return StepResult{}, err
	}
	return StepResult{Rows: len(joined.Rows) + len(d.productions)}, nil
}

func loadRegio(ctx context.Context, deps *Deps) (StepResult, error) {
	d, err := loadRegioData(deps.Cfg)
	if err != nil {
		return StepResult{}, err
	}
	if err := graph.EnsureConstraints(ctx, deps.Graph, deps.Log); err != nil {
		return StepResult{}, err
	}

	var total graph.Stats
	for _, load := range []func() (graph.Stats, error){
		func() (graph.Stats, error) { return graph.UpsertRegioPeople(ctx, deps.Graph, d.people) },
		func() (graph.Stats, error) { return graph.UpsertRegioWorks(ctx, deps.Graph, d.works) },
		func() (graph.Stats, error) { return graph.UpsertRegioSeasons(ctx, deps.Graph, d.seasons) },
		func() (graph.Stats, error) { return graph.UpsertRegioProductions(ctx, deps.Graph, d.productions) },
		func() (graph.Stats, error) { return graph.UpsertRegioPerformances(ctx, deps.Graph, d.set.Joined()) },
	} {
		stats, err := load()
		if err != nil {
			return StepResult{Nodes: total.Nodes, Edges: total.Edges}, err
		}
		total.Nodes += stats.Nodes
		total.Edges += stats.Edges
	}
	return StepResult{Nodes: total.Nodes, Edges: total.Edges}, nil
}

func loadFondazione(ctx context.Context, deps *Deps) (StepResult, error) {
	d, err := loadFondazioneData(deps.Cfg)
	if err != nil {
		return StepResult{}, err
	}
	if err := graph.EnsureConstraints(ctx, deps.Graph, deps.Log); err != nil {
		return StepResult{}, err
	}

	var total graph.Stats
	for _, load := range []func() (graph.Stats, error){
		func() (graph.Stats, error) { return graph.UpsertFondazionePeople(ctx, deps.Graph, d.people) },
		func() (graph.Stats, error) { return graph.UpsertFondazioneWorks(ctx, deps.Graph, d.works) },
		func() (graph.Stats, error) {
			return graph.UpsertFondazionePerformances(ctx, deps.Graph, d.set.Joined())
		},
		func() (graph.Stats, error) { return graph.UpsertFondazioneProductions(ctx, deps.Graph, d.productions) },
		func() (graph.Stats, error) { return graph.UpsertFondazioneSeasons(ctx, deps.Graph, d.seasons) },
	} {
		stats, err := load()
		if err != nil {
			return StepResult{Nodes: total.Nodes, Edges: total.Edges}, err
		}
		total.Nodes += stats.Nodes
		total.Edges += stats.Edges
	}
	return StepResult{Nodes: total.Nodes, Edges: total.Edges}, nil
}

func embedNodes(ctx context.Context, deps *Deps, fetch func(context.Context) ([]graph.EmbeddableNode, error)) (StepResult, error) {
	if err := graph.EnsureVectorIndexes(ctx, deps.Graph, deps.Cfg.Link.Dimension); err != nil {
		return StepResult{}, err
	}
	nodes, err := fetch(ctx)
	if err != nil {
		return StepResult{}, err
	}
	batchSize := deps.Cfg.Link.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	for start := 0; start < len(nodes); start += batchSize {
		end := start + batchSize
		if end > len(nodes) {
			end = len(nodes)
		}
		chunk := nodes[start:end]
		texts := make([]string, len(chunk))
		for i, n := range chunk {
			texts[i] = n.Text
		}
		vectors, err := deps.Embedder.Embed(ctx, texts)
		if err != nil {
			return StepResult{Nodes: start}, err
		}
		if err := graph.WriteEmbeddings(ctx, deps.Graph, chunk, vectors); err != nil {
			return StepResult{Nodes: start}, err
		}
	}
	return StepResult{Nodes: len(nodes)}, nil
}

func embedPersons(ctx context.Context, deps *Deps) (StepResult, error) {
	return embedNodes(ctx, deps, func(ctx context.Context) ([]graph.EmbeddableNode, error) {
		return graph.EmbeddablePeople(ctx, deps.Graph)
	})
}

func embedWorks(ctx context.Context, deps *Deps) (StepResult, error) {
	return embedNodes(ctx, deps, func(ctx context.Context) ([]graph.EmbeddableNode, error) {
		return graph.EmbeddableWorks(ctx, deps.Graph)
	})
}

func linkMerge(ctx context.Context, deps *Deps) (StepResult, error) {
	cfg := deps.Cfg.Link

	merged, err := graph.MergeByQID(ctx, deps.Graph)
	if err != nil {
		return StepResult{}, err
	}
	links, err := graph.CreateSameAsLinks(ctx, deps.Graph, cfg.TopK, cfg.LinkThreshold)
	if err != nil {
		return StepResult{Nodes: merged}, err
	}
	components, err := graph.MergeSameAsComponents(ctx, deps.Graph, cfg.MergeThreshold)
	if err != nil {
		return StepResult{Nodes: merged, Edges: links}, err
	}
	if err := graph.DeleteSameAs(ctx, deps.Graph); err != nil {
		return StepResult{Nodes: merged + components, Edges: links}, err
	}
	return StepResult{Nodes: merged + components, Edges: links}, nil
}

func rdfRegio(ctx context.Context, deps *Deps) (StepResult, error) {
	d, err := loadRegioData(deps.Cfg)
	if err != nil {
		return StepResult{}, err
	}
	b := rdf.NewBuilder(domain.SourceRegio, rdf.RegioBase)
	b.AddWorks(d.works)
	b.AddPersons(d.people)
	b.AddSeasons(d.seasons)
	b.AddProductions(d.productions)
	b.AddPerformances(d.set.Joined())

	triples := b.Triples()
	if err := os.MkdirAll(deps.Cfg.OutputDir, 0o755); err != nil {
		return StepResult{}, fmt.Errorf("pipeline: create output dir: %w", err)
	}
	if err := rdf.WriteTurtleFile(filepath.Join(deps.Cfg.OutputDir, "regio.ttl"), triples); err != nil {
		return StepResult{}, err
	}
	return StepResult{Rows: len(triples)}, nil
}

func rdfFondazione(ctx context.Context, deps *Deps) (StepResult, error) {
	d, err := loadFondazioneData(deps.Cfg)
	if err != nil {
		return StepResult{}, err
	}
	names := make(map[string]string, len(d.people))
	for _, p := range d.people {
		names[p.ID] = p.Name
	}

	b := rdf.NewBuilder(domain.SourceFondazione, rdf.FondazioneBase)
	b.AddWorks(d.works)
	b.AddPersons(d.people)
	b.AddSeasons(d.seasons)
	b.AddProductions(fondazioneProductionRows(d.productions, names))
	b.AddPerformances(d.set.Joined())

	triples := b.Triples()
	if err := os.MkdirAll(deps.Cfg.OutputDir, 0o755); err != nil {
		return StepResult{}, fmt.Errorf("pipeline: create output dir: %w", err)
	}
	if err := rdf.WriteTurtleFile(filepath.Join(deps.Cfg.OutputDir, "fondazione.ttl"), triples); err != nil {
		return StepResult{}, err
	}
	return StepResult{Rows: len(triples)}, nil
}
