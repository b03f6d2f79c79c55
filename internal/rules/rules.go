// Package rules derives secondary listing attributes from free-text row fields.
// Every match is a case-insensitive substring test: upstream data is typed by hand.
package rules

import (
	"strings"

	"vinted-listing/internal/row"
)

const (
	GenreFemme   = "Femme"
	GenreHomme   = "Homme"
	GenreEnfant  = "Enfant"
	GenreUnisexe = "Unisexe"
)

const (
	baseSuffix      = " - nettoyé, désinfecté"
	waterproofExtra = " & imperméabilisé"
)

var genreKeywords = []struct {
	keyword string
	genre   string
}{
	{"femme", GenreFemme},
	{"homme", GenreHomme},
	{"enfant", GenreEnfant},
}

// InferGenre returns "" for an empty family so callers can tell unknown input
// from a known unisex article.
func InferGenre(family string) string {
	if family == "" {
		return ""
	}
	f := strings.ToLower(family)
	for _, k := range genreKeywords {
		if strings.Contains(f, k.keyword) {
			return k.genre
		}
	}
	return GenreUnisexe
}

// InferArticleType leaves jackets with an unknown material unresolved.
func InferArticleType(family, material string) string {
	if family == "" {
		return ""
	}
	f := strings.ToLower(family)
	if strings.Contains(f, "pantalon") {
		return "Pantalon"
	}
	if strings.Contains(f, "blouson et veste") {
		m := strings.ToLower(material)
		switch {
		case strings.Contains(m, "cuir"):
			return "Blouson"
		case strings.Contains(m, "textile"):
			return "Veste"
		default:
			return ""
		}
	}
	return family
}

func ConditionSuffix(family string) string {
	f := strings.ToLower(family)
	if strings.Contains(f, "blouson et veste") || strings.Contains(f, "chaussures") {
		return baseSuffix + waterproofExtra
	}
	return baseSuffix
}

func LiningText(lining string) string {
	return strings.TrimSpace(lining)
}

// Apply attaches the computed attributes to a normalized row.
func Apply(n row.Normalized) row.Normalized {
	n.Genre = InferGenre(n.Famille)
	n.TypeArticle = InferArticleType(n.Famille, n.Matiere)
	return n
}
