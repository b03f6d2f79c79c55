package listing

import (
	"strings"
	"testing"
)

func TestAssembleLayout(t *testing.T) {
	got := Assemble(Parts{
		Title:           "TITLE",
		Characteristics: "CHAR1\nCHAR2",
		Designation:     "Veste Ixon",
		Description:     "DESC",
		Static: StaticSections{
			QuiSommesNous: "QSN",
			InfosSupp:     "INFOS",
			Hashtags:      "#moto",
		},
		UGSLine: "🔗 UGS : SR-1",
	})
	want := "TITLE\n\n" +
		"🥇100% Satisfait ou Remboursé!\n" +
		"Sunset Rider – 1ère entreprise en ligne de seconde main moto reconditionnée.\n\n" +
		"CHAR1\nCHAR2\n\n" +
		"📢 Les équipements moto ont tendance à tailler petit, n'hésitez pas à prendre une taille au-dessus.\n\n" +
		"S'équiper et rouler en sécurité ne doit plus être un luxe.\n\n" +
		"🧥 Veste Ixon\nDESC\n\n" +
		"QSN\n\n" +
		"INFOS\n\n" +
		"📌 Texte protégé – Toute reproduction interdite.\n\n" +
		"#moto\n" +
		"🔗 UGS : SR-1"
	if got != want {
		t.Fatalf("layout mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestJoin(t *testing.T) {
	if got := Join([]string{"A", "B"}); got != "A"+Separator+"B" {
		t.Fatalf("unexpected join: %q", got)
	}
	if got := Join(nil); got != "" {
		t.Fatalf("unexpected empty join: %q", got)
	}
	if strings.Count(Join([]string{"A", "B", "C"}), "───") != 2 {
		t.Fatalf("expected two separators")
	}
}

func TestUGSLine(t *testing.T) {
	if got := UGSLine("🔗 UGS : {UGS}", "SR-9"); got != "🔗 UGS : SR-9" {
		t.Fatalf("unexpected: %q", got)
	}
	if got := UGSLine("Réf {UGS} / {UGS}", "X"); got != "Réf X / X" {
		t.Fatalf("unexpected: %q", got)
	}
	if got := UGSLine("🔗 UGS : ", "SR-9"); got != "🔗 UGS : SR-9" {
		t.Fatalf("unexpected: %q", got)
	}
}
