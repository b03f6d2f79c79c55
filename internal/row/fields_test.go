package row

import "testing"

func TestFoldKey(t *testing.T) {
	cases := map[string]string{
		"État":             "etat",
		"  Matière  ":      "matiere",
		"Nom de l’article": "nom de l'article",
		"Code   Article":   "code article",
		"DÉSIGNATION":      "designation",
	}
	for in, want := range cases {
		if got := FoldKey(in); got != want {
			t.Fatalf("FoldKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeAliases(t *testing.T) {
	r := FromMap(map[string]string{
		"Etat":             "Bon état",
		"Matiere":          "Textile",
		"Nom de l'article": "Veste Ixon",
		"UGS":              "SR-42",
	})
	n := Normalize(r)
	if n.Etat != "Bon état" || n.Matiere != "Textile" || n.Designation != "Veste Ixon" || n.UGS != "SR-42" {
		t.Fatalf("unexpected normalized row: %+v", n)
	}
	if n.Taille != "" || n.Doublure != "" || n.Indications != "" {
		t.Fatalf("missing fields must be empty: %+v", n)
	}
}

func TestNormalizePrefersPrimaryAlias(t *testing.T) {
	r := FromMap(map[string]string{
		"État":         "Comme neuf",
		"Etat":         "Bon état",
		"Designation":  "",
		"Désignation":  "Blouson Dainese",
		"Code article": "A1",
		"UGS":          "B2",
	})
	n := Normalize(r)
	if n.Etat != "Comme neuf" {
		t.Fatalf("expected primary etat, got %q", n.Etat)
	}
	if n.Designation != "Blouson Dainese" {
		t.Fatalf("expected fallback designation when primary is empty, got %q", n.Designation)
	}
	if n.UGS != "A1" {
		t.Fatalf("expected Code article first, got %q", n.UGS)
	}
}

func TestNormalizeFoldedHeaders(t *testing.T) {
	r := New([]string{"TAILLE ", "etat", "matière"}, []string{"XL", "Usé", "Cuir"})
	n := Normalize(r)
	if n.Taille != "XL" || n.Etat != "Usé" || n.Matiere != "Cuir" {
		t.Fatalf("folded lookup failed: %+v", n)
	}
}

func TestNormalizeEmptyRow(t *testing.T) {
	n := Normalize(Row{})
	for _, v := range []string{n.Taille, n.Famille, n.Matiere, n.Etat, n.Protections, n.Doublure, n.Designation, n.Indications, n.UGS} {
		if v != "" {
			t.Fatalf("expected empty fields, got %+v", n)
		}
	}
}
