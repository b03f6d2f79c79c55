package listing

import "strings"

const Brand = "Sunset Rider"

// BuildTitle formats "{type} {designation} – {taille genre} – {etat} – Sunset Rider"
// with every whitespace run collapsed.
func BuildTitle(typeArticle, designation, taille, genre, etat string) string {
	sizeGenre := strings.TrimSpace(taille + " " + genre)
	raw := typeArticle + " " + designation + " – " + sizeGenre + " – " + etat + " – " + Brand
	return collapseSpaces(raw)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
