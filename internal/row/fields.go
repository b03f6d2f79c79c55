package row

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Field string

const (
	FieldTaille      Field = "taille"
	FieldFamille     Field = "famille"
	FieldMatiere     Field = "matiere"
	FieldEtat        Field = "etat"
	FieldProtections Field = "protections"
	FieldDoublure    Field = "doublure"
	FieldDesignation Field = "designation"
	FieldIndications Field = "indications"
	FieldUGS         Field = "ugs"
)

// Aliases lists, per semantic field, the accepted column headers in priority order.
var Aliases = map[Field][]string{
	FieldTaille:      {"Taille"},
	FieldFamille:     {"Famille"},
	FieldMatiere:     {"Matière", "Matiere"},
	FieldEtat:        {"État", "Etat"},
	FieldProtections: {"Protections"},
	FieldDoublure:    {"Doublure"},
	FieldDesignation: {"Designation", "Désignation", "Nom de l'article"},
	FieldIndications: {"Indications pour description"},
	FieldUGS:         {"Code article", "UGS"},
}

// Normalized is the canonical view of a Row consumed by every builder.
// Genre and TypeArticle are filled by the rules package.
type Normalized struct {
	Taille      string
	Famille     string
	Matiere     string
	Etat        string
	Protections string
	Doublure    string
	Designation string
	Indications string
	UGS         string

	Genre       string
	TypeArticle string

	Source Row
}

func Normalize(r Row) Normalized {
	return Normalized{
		Taille:      r.Field(FieldTaille),
		Famille:     r.Field(FieldFamille),
		Matiere:     r.Field(FieldMatiere),
		Etat:        r.Field(FieldEtat),
		Protections: r.Field(FieldProtections),
		Doublure:    r.Field(FieldDoublure),
		Designation: r.Field(FieldDesignation),
		Indications: r.Field(FieldIndications),
		UGS:         r.Field(FieldUGS),
		Source:      r,
	}
}

// Field resolves a semantic field: exact headers first, then headers that
// match an alias once case, accents and spacing are folded away.
func (r Row) Field(f Field) string {
	aliases := Aliases[f]
	for _, a := range aliases {
		if v := r.cells[a]; v != "" {
			return v
		}
	}
	for _, a := range aliases {
		want := FoldKey(a)
		for _, h := range r.headers {
			if FoldKey(h) != want {
				continue
			}
			if v := r.cells[h]; v != "" {
				return v
			}
		}
	}
	return ""
}

var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "`", "'")

// FoldKey lowercases s, strips diacritics and collapses whitespace.
func FoldKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = apostrophes.Replace(strings.ToLower(out))
	return strings.Join(strings.Fields(out), " ")
}
