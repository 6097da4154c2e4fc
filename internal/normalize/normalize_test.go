package normalize

import "testing"

func TestCleanID(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"12.0", "12"},
		{"  12.0  ", "12"},
		{"12.0.0", "12"},
		{"12", "12"},
		{"12.5", "12.5"},
		{"12.50", "12.5"},
		{"nan", ""},
		{"NaN", ""},
		{"None", ""},
		{"null", ""},
		{"n/a", ""},
		{"", ""},
		{"   ", ""},
		{"Q123", "Q123"},
		{"abc.0", "abc"},
		{".0", ""},
	}
	for _, c := range cases {
		if got := CleanID(c.in); got != c.want {
			t.Fatalf("CleanID(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCleanIDIdempotent(t *testing.T) {
	inputs := []string{"12.0", "12.5", "abc", "7.000", "42.0.0", "x.0"}
	for _, in := range inputs {
		once := CleanID(in)
		twice := CleanID(once)
		if once != twice {
			t.Fatalf("CleanID not idempotent on %q: %q then %q", in, once, twice)
		}
		if len(once) >= 2 && once[len(once)-2:] == ".0" {
			t.Fatalf("CleanID(%q) = %q still ends in .0", in, once)
		}
	}
}

func TestFlipName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Verdi, Giuseppe", "Giuseppe Verdi"},
		{"Giuseppe Verdi", "Giuseppe Verdi"},
		{"Callas, Maria", "Maria Callas"},
		{"Verdi, Giuseppe, Extra", "Giuseppe, Extra Verdi"},
		{", Giuseppe", ", Giuseppe"},
		{"Verdi, ", "Verdi, "},
		{"", ""},
	}
	for _, c := range cases {
		if got := FlipName(c.in); got != c.want {
			t.Fatalf("FlipName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSlug(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Teatro Regio di Torino", "Teatro_Regio_di_Torino"},
		{"José Carreras", "Jose_Carreras"},
		{"  L'elisir d'amore!  ", "L_elisir_d_amore"},
		{"12.0", "12"},
		{"nan", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := Slug(c.in); got != c.want {
			t.Fatalf("Slug(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCanonicalQID(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Q123", "Q123"},
		{"q123", "Q123"},
		{"https://www.wikidata.org/wiki/Q42", "Q42"},
		{"http://www.wikidata.org/entity/Q42", "Q42"},
		{"something Q7 embedded", "Q7"},
		{"no qid here", ""},
		{"nan", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := CanonicalQID(c.in); got != c.want {
			t.Fatalf("CanonicalQID(%q) = %q, want %q", c.in, got, c.want)
		}
	}
	if got := WikidataURI("q42"); got != "http://www.wikidata.org/entity/Q42" {
		t.Fatalf("WikidataURI = %q", got)
	}
}

func TestCleanDate(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"1830", "1830-01-01"},
		{"1830-05", "1830-05-01"},
		{"1830-05-12", "1830-05-12"},
		{"1830.05.12", "1830-05-12"},
		{"1830/05/12", "1830-05-12"},
		{"1830-05-12T00:00:00", "1830-05-12"},
		{"1830-05-12 00:00", "1830-05-12"},
		{"not a date", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := CleanDate(c.in); got != c.want {
			t.Fatalf("CleanDate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestYearFromDateText(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"01-01-1830 - 31-12-1830", "1830"},
		{"31-12-1856", "1856"},
		{"no year", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := YearFromDateText(c.in); got != c.want {
			t.Fatalf("YearFromDateText(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
