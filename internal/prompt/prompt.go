package prompt

import (
	"strings"

	"vinted-listing/internal/row"
)

const (
	ProductDataPlaceholder    = "{PRODUCT_DATA}"
	SpecificAssetsPlaceholder = "{SPECIFIC_ASSETS}"
)

const (
	staticDataLabel   = "Informations produit : "
	staticAssetsLabel = "Atouts spécifiques : "
)

// DefaultSystemPrompt is sent as the system instruction when configuration
// does not override it.
const DefaultSystemPrompt = "Tu es un expert en marketing et en vente en ligne. Tu es capable de générer des descriptions attrayantes pour des articles de vente en ligne à destination de Vinted."

// IsParameterized reports whether tmpl uses at least one recognized placeholder.
func IsParameterized(tmpl string) bool {
	return strings.Contains(tmpl, ProductDataPlaceholder) || strings.Contains(tmpl, SpecificAssetsPlaceholder)
}

// Render builds the user prompt for one row. Parameterized templates get every
// placeholder occurrence replaced; other templates get the row data appended.
// Unknown tokens are left untouched.
func Render(tmpl string, n row.Normalized) string {
	data := n.Source.JSON()
	assets := row.QuoteJSON(n.Indications)
	if IsParameterized(tmpl) {
		r := strings.NewReplacer(
			ProductDataPlaceholder, data,
			SpecificAssetsPlaceholder, assets,
		)
		return r.Replace(tmpl)
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(tmpl, "\n"))
	if b.Len() > 0 {
		b.WriteString("\n\n")
	}
	b.WriteString(staticDataLabel)
	b.WriteString(data)
	b.WriteString("\n")
	b.WriteString(staticAssetsLabel)
	b.WriteString(assets)
	return b.String()
}
