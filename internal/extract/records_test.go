package extract

import (
	"reflect"
	"testing"
)

func TestParseValueJSONAndPythonLiteral(t *testing.T) {
	jsonIn := `[{"nome": "Torino", "Id": "5"}]`
	pyIn := `[{'nome': 'Torino', 'Id': '5'}]`
	want := []any{map[string]any{"nome": "Torino", "Id": "5"}}
	for _, in := range []string{jsonIn, pyIn} {
		got := ParseValue(in)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("ParseValue(%q) = %#v; want %#v", in, got, want)
		}
	}
}

func TestParseValuePythonWords(t *testing.T) {
	got := ParseValue(`{'a': None, 'b': True, 'c': False}`)
	want := map[string]any{"a": nil, "b": true, "c": false}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseValue = %#v; want %#v", got, want)
	}
}

func TestParseValueEscapedQuote(t *testing.T) {
	got := ParseValue(`[{'nome': 'L\'elisir d\'amore'}]`)
	want := []any{map[string]any{"nome": "L'elisir d'amore"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseValue = %#v; want %#v", got, want)
	}
}

func TestParseValueMalformed(t *testing.T) {
	for _, in := range []string{"", "nan", "None", "[{'nome':", "not a literal"} {
		if got := ParseValue(in); got != nil {
			t.Fatalf("ParseValue(%q) = %#v; want nil", in, got)
		}
	}
	if got := ParseList("garbage ("); got != nil {
		t.Fatalf("ParseList on garbage = %#v; want nil", got)
	}
}

func TestSplitCharacterVoice(t *testing.T) {
	cases := []struct {
		in    string
		name  string
		voice string
	}{
		{"Mimì (soprano)", "Mimì", "soprano"},
		{"Rodolfo", "Rodolfo", ""},
		{"Don José (tenore)", "Don José", "tenore"},
	}
	for _, c := range cases {
		name, voice := SplitCharacterVoice(c.in)
		if name != c.name || voice != c.voice {
			t.Fatalf("SplitCharacterVoice(%q) = %q, %q; want %q, %q", c.in, name, voice, c.name, c.voice)
		}
	}
}

func TestLocationsRouting(t *testing.T) {
	items := ParseList(`[{"nome": "Teatro Regio", "Id": "12.0", "relazione": "edificio della recita"}, {"nome": "Torino", "Id": "5", "relazione": "luogo della recita"}, {"nome": "Altro", "Id": "9", "relazione": "sconosciuta"}]`)
	got := Locations(items, DefaultKeywords())
	want := []Location{
		{Name: "Teatro Regio", ID: "12", IsBuilding: true},
		{Name: "Torino", ID: "5"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Locations = %+v; want %+v", got, want)
	}
}

func TestPeopleRouting(t *testing.T) {
	items := ParseList(`[
		{"Nome": "Mirella Freni", "Identificativo": "301.0", "Relazione": "interprete", "Ruolo": "soprano", "Personaggio": "Mimì"},
		{"Nome": "Franco Zeffirelli", "Identificativo": "77", "Relazione": "regista della recita", "Ruolo": "Regista"},
		{"Nome": "Senza Relazione", "Identificativo": "99"}
	]`)
	cast, credits := People(items, DefaultKeywords())
	wantCast := []Cast{{Character: "Mimì", VoiceType: "soprano", Performer: "Mirella Freni", ID: "301", Role: "interprete"}}
	wantCredits := []Credit{{Name: "Franco Zeffirelli", ID: "77", Role: "Regista (regista della recita)"}}
	if !reflect.DeepEqual(cast, wantCast) {
		t.Fatalf("cast = %+v; want %+v", cast, wantCast)
	}
	if !reflect.DeepEqual(credits, wantCredits) {
		t.Fatalf("credits = %+v; want %+v", credits, wantCredits)
	}
}

func TestRegioCast(t *testing.T) {
	items := ParseList(`[{"Nome": "Tosca (soprano) - Maria Callas", "Identificativo": "18"}, {"Nome": "Spoletta - Piero De Palma", "Identificativo": "19"}]`)
	got := RegioCast(items)
	want := []Cast{
		{Character: "Tosca", VoiceType: "soprano", Performer: "Maria Callas", ID: "18"},
		{Character: "Spoletta", Performer: "Piero De Palma", ID: "19"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("RegioCast = %+v; want %+v", got, want)
	}
}

func TestItemsUnderKeyEnvelope(t *testing.T) {
	bare := ParseValue(`[{"Nome": "Coro"}]`)
	if got := ItemsUnderKey(bare, "Enti"); len(got) != 1 || got[0]["Nome"] != "Coro" {
		t.Fatalf("bare list: got %+v", got)
	}
	wrapped := ParseValue(`{"Enti:each": [{"Nome": "Orchestra"}]}`)
	if got := ItemsUnderKey(wrapped, "Enti"); len(got) != 1 || got[0]["Nome"] != "Orchestra" {
		t.Fatalf("each envelope: got %+v", got)
	}
	plain := ParseValue(`{"Enti": [{"Nome": "Balletto"}]}`)
	if got := ItemsUnderKey(plain, "Enti"); len(got) != 1 || got[0]["Nome"] != "Balletto" {
		t.Fatalf("plain envelope: got %+v", got)
	}
}
