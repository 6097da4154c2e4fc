// Package domain holds the shared types of the theatre-archive pipeline:
// source systems, entity kinds, canonical references, and the row records
// produced by the flattening stage.
package domain

// Source identifies which archive a record originated from.
type Source string

const (
	SourceRegio      Source = "Regio"
	SourceFondazione Source = "Fondazione"
)

// Prefix is the lowercase identifier namespace of the source, used for ID
// node codes and locally-scoped references ("regio_1234").
func (s Source) Prefix() string {
	switch s {
	case SourceRegio:
		return "regio"
	case SourceFondazione:
		return "fondazione"
	}
	return "unknown"
}

// Kind is an entity kind. Identity keys are scoped per kind: two entities of
// different kinds never collide even when their key strings match.
type Kind string

const (
	KindPerson      Kind = "PERSON"
	KindWork        Kind = "WORK"
	KindCharacter   Kind = "CHAR"
	KindPlace       Kind = "PLACE"
	KindProduction  Kind = "PRODUCTION"
	KindPerformance Kind = "PERFORMANCE"
	KindSeason      Kind = "SEASON"
	KindEnsemble    Kind = "ENSEMBLE"
	KindOrganizer   Kind = "ORGANIZER"
	KindType        Kind = "TYPE"
)

// Ref is a canonical reference to an entity within one pipeline run. Value is
// the stable identifier (node key or URI local name); Unified reports whether
// it was derived from an external Wikidata reference, in which case two
// independent runs derive the same Value without coordination.
type Ref struct {
	Kind    Kind
	Value   string
	QID     string
	Unified bool
}

// IsZero reports whether the reference is absent. A zero Ref means "no key
// could be derived": callers skip any relation predicated on it.
func (r Ref) IsZero() bool { return r.Value == "" }

// PerformanceRow is one row of a source's flattened performance base table.
type PerformanceRow struct {
	ID           string
	ShortTitle   string
	ProductionID string
	From         string
	To           string
	DateText     string
	PlaceName    string
	PlaceID      string
	BuildingName string
	BuildingID   string
	WorkName     string
	WorkID       string
	OtherIDs     string
	FullPath     string
	PlaceQID     string
	BuildingQID  string
	BuildingURI  string
}

// CastRow links a performer to the character they performed in one
// performance. VoiceType may be empty when the source carried no
// parenthesised voice.
type CastRow struct {
	PerformanceID string
	Character     string
	VoiceType     string
	Performer     string
	PerformerID   string
	Role          string
}

// CreditRow is a non-performing credit (conductor, director, designer...)
// attached to a performance or production.
type CreditRow struct {
	ParentID string
	Name     string
	PersonID string
	Role     string
}

// EnsembleRow is an orchestra/chorus/company participation.
type EnsembleRow struct {
	PerformanceID string
	Name          string
	EnsembleID    string
	Role          string
}

// ProductionRow is one credit-expanded row of a production table.
type ProductionRow struct {
	ProductionID  string
	CreditType    string
	PersonID      string
	PersonName    string
	PersonRole    string
	WorkTitle     string
	StartDate     string
	EndDate       string
	Year          string
	DateText      string
	FirstLocation string
	FirstVenue    string
	RelatedWorkID string
	SourceID      string
}

// SeasonRow carries a season and the extracted id lists of its linked
// collections.
type SeasonRow struct {
	ID             string
	Title          string
	Type           string
	StartDate      string
	EndDate        string
	OrganizerID    string
	OrganizerName  string
	ProductionIDs  string
	PerformanceIDs string
	WorkIDs        string
	PersonIDs      string
	EnsembleIDs    string
	PlaceIDs       string
}

// PersonRow is one row of a source's person master table.
type PersonRow struct {
	ID         string
	Name       string
	QID        string
	URI        string
	BirthDate  string
	BirthPlace string
	DeathDate  string
	DeathPlace string
	Occupation string
	VIAF       string
}

// WorkRow is one row of a source's works table.
type WorkRow struct {
	ID              string
	Title           string
	Year            string
	QID             string
	URI             string
	From            string
	To              string
	VIAF            string
	ComposerName    string
	ComposerID      string
	LibrettistName  string
	LibrettistID    string
	LiteraryName    string
	LiteraryID      string
	CharacterName   string
	CharacterQID    string
	CharacterVoice  string
	CharacterGender string
	LinkedPersonIDs string
}

// JoinedRow is one row of the denormalized wide view: the performance base
// row left-joined against its credit, ensemble, and cast children. Child
// fields are empty when the parent had no child of that kind.
type JoinedRow struct {
	Performance PerformanceRow
	Credit      CreditRow
	Ensemble    EnsembleRow
	Cast        CastRow
}
