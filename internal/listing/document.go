package listing

import "strings"

const Separator = "\n\n───────────────────────────────\n\n"

const (
	satisfactionLine = "🥇100% Satisfait ou Remboursé!"
	brandLine        = "Sunset Rider – 1ère entreprise en ligne de seconde main moto reconditionnée."
	sizingAdvice     = "📢 Les équipements moto ont tendance à tailler petit, n'hésitez pas à prendre une taille au-dessus."
	tagline          = "S'équiper et rouler en sécurité ne doit plus être un luxe."
	designationMark  = "🧥 "
	protectedNotice  = "📌 Texte protégé – Toute reproduction interdite."
)

// StaticSections are the tenant-supplied blocks copied verbatim into every listing.
type StaticSections struct {
	QuiSommesNous string
	InfosSupp     string
	Hashtags      string
}

type Parts struct {
	Title           string
	Characteristics string
	Designation     string
	Description     string
	Static          StaticSections
	UGSLine         string
}

// Assemble lays out one listing. Section order and blank lines are part of the
// output contract: sellers paste the text as is.
func Assemble(p Parts) string {
	var b strings.Builder
	b.WriteString(p.Title)
	b.WriteString("\n\n")
	b.WriteString(satisfactionLine)
	b.WriteString("\n")
	b.WriteString(brandLine)
	b.WriteString("\n\n")
	b.WriteString(p.Characteristics)
	b.WriteString("\n\n")
	b.WriteString(sizingAdvice)
	b.WriteString("\n\n")
	b.WriteString(tagline)
	b.WriteString("\n\n")
	b.WriteString(designationMark)
	b.WriteString(p.Designation)
	b.WriteString("\n")
	b.WriteString(p.Description)
	b.WriteString("\n\n")
	b.WriteString(p.Static.QuiSommesNous)
	b.WriteString("\n\n")
	b.WriteString(p.Static.InfosSupp)
	b.WriteString("\n\n")
	b.WriteString(protectedNotice)
	b.WriteString("\n\n")
	b.WriteString(p.Static.Hashtags)
	b.WriteString("\n")
	b.WriteString(p.UGSLine)
	return b.String()
}

func Join(listings []string) string {
	return strings.Join(listings, Separator)
}

const ugsPlaceholder = "{UGS}"

// UGSLine fills the footer template with the article code. A template without
// the placeholder gets the code appended.
func UGSLine(template, ugs string) string {
	if strings.Contains(template, ugsPlaceholder) {
		return strings.ReplaceAll(template, ugsPlaceholder, ugs)
	}
	return template + ugs
}
