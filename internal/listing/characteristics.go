package listing

import (
	"strings"

	"vinted-listing/internal/row"
	"vinted-listing/internal/rules"
)

const (
	sizePrefix        = "✅ Taille : "
	sizeSuffix        = " - Mesures en photo"
	conditionPrefix   = "✨ État : "
	protectionsPrefix = "🛡️ Protections : "
	materialPrefix    = "🎯 Matière : "
	liningPrefix      = "🧥 Doublure : "
	photoNote         = "📸 Photos 100% authentiques sur fond blanc"
)

// BuildCharacteristics renders the bullet block. The lining line is omitted
// entirely when the lining is blank.
func BuildCharacteristics(n row.Normalized) string {
	lines := []string{
		sizePrefix + strings.TrimSpace(n.Taille+" "+n.Genre) + sizeSuffix,
		conditionPrefix + n.Etat + rules.ConditionSuffix(n.Famille),
		protectionsPrefix + n.Protections,
		materialPrefix + n.Matiere,
	}
	if lining := rules.LiningText(n.Doublure); lining != "" {
		lines = append(lines, liningPrefix+lining)
	}
	lines = append(lines, photoNote)
	return strings.Join(lines, "\n")
}
