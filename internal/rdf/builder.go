package rdf

import (
	"strings"

	krdf "github.com/knakk/rdf"

	"github.com/elena2notti/theatreNet/internal/domain"
	"github.com/elena2notti/theatreNet/internal/normalize"
	"github.com/elena2notti/theatreNet/internal/registry"
)

// Builder accumulates the triples of one source's projection. Entity IRIs
// come from the registry, so every record naming the same entity lands on
// the same subject. Triples are set-deduplicated the way an RDF graph is.
type Builder struct {
	src     domain.Source
	base    string
	reg     *registry.Registry
	triples []krdf.Triple
	emitted map[string]bool
	typed   map[string]bool
	works   map[string]krdf.IRI
	charOf  map[[2]string]bool
}

// NewBuilder returns a builder rooted at the given base namespace.
func NewBuilder(src domain.Source, base string) *Builder {
	return &Builder{
		src:     src,
		base:    base,
		reg:     registry.New(),
		emitted: make(map[string]bool),
		typed:   make(map[string]bool),
		works:   make(map[string]krdf.IRI),
		charOf:  make(map[[2]string]bool),
	}
}

func (b *Builder) iri(s string) krdf.IRI {
	i, _ := krdf.NewIRI(s)
	return i
}

func (b *Builder) local(name string) krdf.IRI { return b.iri(b.base + name) }

func (b *Builder) add(s krdf.Subject, p krdf.Predicate, o krdf.Object) {
	t := krdf.Triple{Subj: s, Pred: p, Obj: o}
	key := t.Serialize(krdf.NTriples)
	if b.emitted[key] {
		return
	}
	b.emitted[key] = true
	b.triples = append(b.triples, t)
}

// addWithInverse asserts the triple and, when the predicate has a declared
// inverse, the reverse assertion as well.
func (b *Builder) addWithInverse(s krdf.IRI, pred string, o krdf.Object) {
	b.add(s, b.iri(pred), o)
	if inv, ok := inverses[pred]; ok {
		if oi, isIRI := o.(krdf.IRI); isIRI {
			b.add(oi, b.iri(inv), s)
		}
	}
}

func (b *Builder) addLabel(s krdf.IRI, label string) {
	label = normalize.CleanName(label)
	if label == "" {
		return
	}
	lit, err := krdf.NewLiteral(label)
	if err != nil {
		return
	}
	b.add(s, b.iri(rdfsLabel), lit)
}

func (b *Builder) addType(s krdf.IRI, class string) {
	b.add(s, b.iri(rdfType), b.iri(class))
}

func dateLiteral(raw string) (krdf.Literal, bool) {
	d := normalize.CleanDate(raw)
	if d == "" {
		return krdf.Literal{}, false
	}
	return krdf.NewTypedLiteral(d, mustIRI(xsdDate)), true
}

func mustIRI(s string) krdf.IRI {
	i, _ := krdf.NewIRI(s)
	return i
}

var kindClasses = map[domain.Kind][]string{
	domain.KindPerson:    {classPerson, classActor},
	domain.KindWork:      {classWork},
	domain.KindCharacter: {classCharacter},
	domain.KindPlace:     {classPlace},
	domain.KindType:      {classType},
}

// entity resolves an entity through the registry and, the first time its
// reference appears, asserts its class, label, and Wikidata sameAs.
func (b *Builder) entity(kind domain.Kind, label, id, qid string) (krdf.IRI, bool) {
	ref := b.reg.GetOrCreate(b.src, kind, label, id, qid)
	if ref == nil {
		return krdf.IRI{}, false
	}
	uri := b.local(ref.Value)
	if !b.typed[ref.Value] {
		b.typed[ref.Value] = true
		for _, class := range kindClasses[kind] {
			b.addType(uri, class)
		}
		b.addLabel(uri, label)
		if wd := normalize.WikidataURI(qid); wd != "" && !ref.Unified {
			b.add(uri, b.iri(owlSameAs), b.iri(wd))
		}
	}
	return uri, true
}

func (b *Builder) roleType(label string) (krdf.IRI, bool) {
	return b.entity(domain.KindType, label, "", "")
}

func (b *Builder) addVIAF(s krdf.IRI, viaf string) {
	v := normalize.CleanName(viaf)
	if v == "" {
		return
	}
	v = strings.ReplaceAll(v, ".0", "")
	b.add(s, b.iri(owlSameAs), b.iri(viafNS+v))
}

func (b *Builder) addTimeSpan(s krdf.IRI, name, from, to string) {
	begin, okFrom := dateLiteral(from)
	end, okTo := dateLiteral(to)
	if !okFrom && !okTo {
		return
	}
	ts := b.local(name)
	b.addType(ts, classTimeSpan)
	if okFrom {
		b.add(ts, b.iri(propBeginOfBegin), begin)
	}
	if okTo {
		b.add(ts, b.iri(propEndOfEnd), end)
	}
	b.addWithInverse(s, propHasTimeSpan, ts)
}

func slugOr(raw, fallback string) string {
	if s := normalize.Slug(raw); s != "" {
		return s
	}
	return fallback
}

func clip(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// addAuthor attaches an author to a work through the conception pattern:
// one conception activity per (work, role), one actor role per
// (work, role, author) so co-authors never collapse into a single role.
func (b *Builder) addAuthor(work krdf.IRI, workKey, name, roleLabel, qid string) {
	if normalize.CleanName(name) == "" {
		return
	}
	person, ok := b.entity(domain.KindPerson, name, "", qid)
	if !ok {
		return
	}
	roleSlug := clip(slugOr(roleLabel, "role"), 30)
	opSlug := clip(workKey, 30)

	conception := b.local("conception_" + opSlug + "_" + roleSlug)
	b.addType(conception, classWorkConception)
	b.addType(conception, classActivity)
	b.addLabel(conception, "Concezione "+roleLabel+" per opera "+opSlug)
	b.addWithInverse(work, propWasInitiatedBy, conception)

	personKey := normalize.CanonicalQID(qid)
	if personKey == "" {
		personKey = clip(slugOr(name, "person"), 30)
	}
	role := b.local("role_" + roleSlug + "_" + opSlug + "_" + personKey)
	b.addType(role, classActorRole)
	b.addLabel(role, "Ruolo "+roleLabel+" per opera "+opSlug+" ("+name+")")
	b.add(conception, b.iri(propCarriedOutRole), role)
	b.add(role, b.iri(propCarriedOutActor), person)
	if rt, ok := b.roleType(roleLabel); ok {
		b.addWithInverse(role, propHasType, rt)
	}
}

// AddWorks projects the works table: F1 works with E35 titles, E52
// time-spans, VIAF links, and the conception/actor-role pattern per author.
func (b *Builder) AddWorks(works []domain.WorkRow) {
	for _, w := range works {
		id := normalize.CleanID(w.ID)
		if id == "" {
			continue
		}
		title := normalize.CleanName(w.Title)
		if title == "" {
			title = "Opera " + id
		}
		qid := w.QID
		if qid == "" {
			qid = w.URI
		}
		work, ok := b.entity(domain.KindWork, title, id, qid)
		if !ok {
			continue
		}
		b.works[id] = work

		titleNode := b.local("title_work_" + id)
		b.addType(titleNode, classTitle)
		b.addLabel(titleNode, title)
		b.addWithInverse(work, propHasTitle, titleNode)

		b.addTimeSpan(work, "ts_work_"+id, w.From, w.To)
		b.addVIAF(work, w.VIAF)

		b.addAuthor(work, id, w.ComposerName, "Autore musica", "")
		b.addAuthor(work, id, w.LibrettistName, "Autore testo", "")
		b.addAuthor(work, id, w.LiteraryName, "Autore opera letteraria", "")
	}
}

func (b *Builder) addLifeEvent(person krdf.IRI, class, prop, prefix, key, label, date, place string) {
	lit, ok := dateLiteral(date)
	if !ok {
		return
	}
	evt := b.local(prefix + "_" + key)
	b.addType(evt, class)
	b.addLabel(evt, label)

	ts := b.local("ts_" + prefix + "_" + key)
	b.addType(ts, classTimeSpan)
	b.add(ts, b.iri(propBeginOfBegin), lit)
	b.add(ts, b.iri(propEndOfEnd), lit)
	b.addWithInverse(evt, propHasTimeSpan, ts)
	b.addWithInverse(person, prop, evt)

	if normalize.CleanName(place) != "" {
		if p, ok := b.entity(domain.KindPlace, place, "", place); ok {
			b.addWithInverse(evt, propTookPlaceAt, p)
		}
	}
}

// AddPersons projects the person master table: E21 persons with VIAF links
// and E67 birth / E69 death events carrying time-spans and places.
func (b *Builder) AddPersons(people []domain.PersonRow) {
	for _, p := range people {
		name := normalize.CleanName(p.Name)
		if name == "" {
			continue
		}
		qid := p.QID
		if qid == "" {
			qid = p.URI
		}
		person, ok := b.entity(domain.KindPerson, name, p.ID, qid)
		if !ok {
			continue
		}
		b.addVIAF(person, p.VIAF)

		key := normalize.CleanID(p.ID)
		if key == "" {
			key = slugOr(name, "person")
		}
		b.addLifeEvent(person, classBirth, propWasBorn, "birth", key, "Nascita di "+name, p.BirthDate, p.BirthPlace)
		b.addLifeEvent(person, classDeath, propDiedIn, "death", key, "Morte di "+name, p.DeathDate, p.DeathPlace)
	}
}

// AddSeasons projects seasons as F8 event sets consisting of their linked
// productions and performances.
func (b *Builder) AddSeasons(seasons []domain.SeasonRow) {
	for _, s := range seasons {
		id := normalize.CleanID(s.ID)
		if id == "" {
			continue
		}
		season := b.local("season_" + id)
		b.addType(season, classEventSet)
		b.addLabel(season, s.Title)
		b.addTimeSpan(season, "ts_season_"+id, s.StartDate, s.EndDate)

		if normalize.CleanName(s.OrganizerName) != "" {
			if org, ok := b.entity(domain.KindPerson, s.OrganizerName, s.OrganizerID, ""); ok {
				b.addWithInverse(season, propCarriedOutBy, org)
			}
		}
		for _, pid := range splitIDs(s.ProductionIDs) {
			b.addWithInverse(season, propConsistsOf, b.local("production_"+pid))
		}
		for _, rid := range splitIDs(s.PerformanceIDs) {
			b.addWithInverse(season, propConsistsOf, b.local("performance_"+rid))
		}
	}
}

func splitIDs(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if id := normalize.CleanID(p); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// AddProductions projects productions as F25 performance plans with their
// time-spans, places, realised works, and per-credit actor roles.
func (b *Builder) AddProductions(rows []domain.ProductionRow) {
	for _, r := range rows {
		pid := normalize.CleanID(r.ProductionID)
		if pid == "" {
			continue
		}
		prod := b.local("production_" + pid)
		b.addType(prod, classPerformancePlan)
		b.addType(prod, classActivity)
		title := normalize.CleanName(r.WorkTitle)
		if title == "" {
			title = "Produzione " + pid
		}
		b.addLabel(prod, title)
		b.addTimeSpan(prod, "ts_prod_"+pid, r.StartDate, r.EndDate)

		for _, place := range []string{r.FirstLocation, r.FirstVenue} {
			if normalize.CleanName(place) == "" {
				continue
			}
			if p, ok := b.entity(domain.KindPlace, place, "", ""); ok {
				b.addWithInverse(prod, propTookPlaceAt, p)
			}
		}

		if wid := normalize.CleanID(r.RelatedWorkID); wid != "" {
			if work, ok := b.works[wid]; ok {
				b.addWithInverse(work, propIsRealisedIn, prod)
			}
		}

		if normalize.CleanName(r.PersonName) == "" {
			continue
		}
		person, ok := b.entity(domain.KindPerson, r.PersonName, r.PersonID, "")
		if !ok {
			continue
		}
		roleLabel := normalize.CleanName(r.PersonRole)
		if roleLabel == "" {
			roleLabel = normalize.CleanName(r.CreditType)
		}
		if roleLabel == "" {
			roleLabel = "Contributo"
		}
		c2 := b.local("prod_role_" + pid + "_" + slugOr(r.PersonName, "person") + "_" + slugOr(roleLabel, "role"))
		b.addType(c2, classActorRole)
		b.addLabel(c2, roleLabel+" di "+r.PersonName+" (Produzione "+pid+")")
		b.add(c2, b.iri(propCarriedOutActor), person)
		if rt, ok := b.roleType(roleLabel); ok {
			b.addWithInverse(c2, propHasType, rt)
		}
		b.add(prod, b.iri(propCarriedOutRole), c2)
	}
}

var femaleVoices = []string{"soprano", "mezzo", "contralto"}
var maleVoices = []string{"tenore", "basso", "baritono"}

func genderFromVoice(voice string) string {
	v := strings.ToLower(voice)
	for _, term := range femaleVoices {
		if strings.Contains(v, term) {
			return "femmina"
		}
	}
	for _, term := range maleVoices {
		if strings.Contains(v, term) {
			return "maschio"
		}
	}
	return ""
}

// actorRole emits one C2 actor role per (performance, person, role).
func (b *Builder) actorRole(perf krdf.IRI, prefix, rid, name, id, roleLabel, defaultRole string) {
	if normalize.CleanName(name) == "" {
		return
	}
	actor, ok := b.entity(domain.KindPerson, name, id, "")
	if !ok {
		return
	}
	if roleLabel = normalize.CleanName(roleLabel); roleLabel == "" {
		roleLabel = defaultRole
	}
	c2 := b.local(prefix + "_" + rid + "_" + slugOr(name, "person") + "_" + slugOr(roleLabel, "role"))
	b.addType(c2, classActorRole)
	b.addLabel(c2, roleLabel+": "+name+" (Recita "+rid+")")
	b.add(c2, b.iri(propCarriedOutActor), actor)
	if rt, ok := b.roleType(roleLabel); ok {
		b.addWithInverse(c2, propHasType, rt)
	}
	b.add(perf, b.iri(propCarriedOutRole), c2)
}

// AddPerformances projects the joined performance view: F31 performances
// with their plan link, places, curator and executor roles, and performer
// roles carrying the performed character. Each (work, character) pair gets
// one has-character assertion across the whole view.
func (b *Builder) AddPerformances(joined []domain.JoinedRow) {
	for _, j := range joined {
		base := j.Performance
		rid := normalize.CleanID(base.ID)
		if rid == "" {
			continue
		}
		perf := b.local("performance_" + rid)
		b.addType(perf, classPerformance)
		b.addType(perf, classActivity)
		b.addLabel(perf, base.ShortTitle)
		b.addTimeSpan(perf, "ts_perf_"+rid, base.From, base.To)

		if pid := normalize.CleanID(base.ProductionID); pid != "" {
			b.addWithInverse(perf, propPerformed, b.local("production_"+pid))
		}
		if normalize.CleanName(base.PlaceName) != "" {
			if p, ok := b.entity(domain.KindPlace, base.PlaceName, base.PlaceID, base.PlaceQID); ok {
				b.addWithInverse(perf, propTookPlaceAt, p)
			}
		}
		if normalize.CleanName(base.BuildingName) != "" {
			if p, ok := b.entity(domain.KindPlace, base.BuildingName, base.BuildingID, base.BuildingQID); ok {
				b.addWithInverse(perf, propTookPlaceAt, p)
			}
		}

		b.actorRole(perf, "perf_curator_role", rid, j.Credit.Name, j.Credit.PersonID, j.Credit.Role, "Curatore")
		b.actorRole(perf, "perf_executor_role", rid, j.Ensemble.Name, j.Ensemble.EnsembleID, j.Ensemble.Role, "Esecutore")

		cast := j.Cast
		if normalize.CleanName(cast.Performer) == "" {
			continue
		}
		actor, ok := b.entity(domain.KindPerson, cast.Performer, cast.PerformerID, "")
		if !ok {
			continue
		}
		character := normalize.CleanName(cast.Character)
		if character == "" {
			// No character: keep the contextual role on a C2 instead.
			b.actorRole(perf, "perf_actor_role", rid, cast.Performer, cast.PerformerID, cast.Role, "Partecipazione")
			continue
		}
		char, ok := b.entity(domain.KindCharacter, character, "", "")
		if !ok {
			continue
		}
		if voice := normalize.CleanName(cast.VoiceType); voice != "" {
			if vt, ok := b.roleType(voice); ok {
				b.addWithInverse(char, propHasType, vt)
			}
		}
		if wid := normalize.CleanID(base.WorkID); wid != "" {
			if work, okWork := b.works[wid]; okWork {
				pair := [2]string{wid, character}
				if !b.charOf[pair] {
					b.charOf[pair] = true
					b.addWithInverse(work, propHasCharacter, char)
					if gender := genderFromVoice(cast.VoiceType); gender != "" {
						if gt, ok := b.roleType("gender:" + gender); ok {
							b.addWithInverse(char, propHasType, gt)
						}
					}
				}
			}
		}

		c6 := b.local("perf_role_" + rid + "_" + slugOr(cast.Performer, "person") + "_" + slugOr(character, "character"))
		b.addType(c6, classPerformerRole)
		b.addLabel(c6, "Interprete: "+cast.Performer+" nel ruolo di "+character)
		b.add(c6, b.iri(propCarriedOutActor), actor)
		b.add(c6, b.iri(propPerformedChar), char)
		b.add(perf, b.iri(propCarriedOutRole), c6)
		if role := normalize.CleanName(cast.Role); role != "" {
			if rt, ok := b.roleType(role); ok {
				b.addWithInverse(c6, propHasType, rt)
			}
		}
	}
}

// Triples returns the accumulated graph with every reference correction
// applied: triples emitted under a since-renamed entity value are retargeted
// onto the corrected IRI.
func (b *Builder) Triples() []krdf.Triple {
	renames := b.reg.Renames()
	if len(renames) == 0 {
		return b.triples
	}
	target := make(map[string]krdf.IRI, len(renames))
	for old, now := range renames {
		target[b.base+old] = b.local(now)
	}
	out := make([]krdf.Triple, len(b.triples))
	for i, t := range b.triples {
		if s, ok := t.Subj.(krdf.IRI); ok {
			if repl, hit := target[s.String()]; hit {
				t.Subj = repl
			}
		}
		if o, ok := t.Obj.(krdf.IRI); ok {
			if repl, hit := target[o.String()]; hit {
				t.Obj = repl
			}
		}
		out[i] = t
	}
	return out
}

// Len reports how many triples have been accumulated.
func (b *Builder) Len() int { return len(b.triples) }
