package classifier

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

type rule struct {
	keywords []string
	label    Label
}

// rules are evaluated top to bottom; the first hit wins. Keywords are lower-case NFC.
var rules = []rule{
	{[]string{"arte naval"}, ArteNaval},
	{[]string{"miguens", "navegação"}, Navegacao},
	{[]string{"ripeam", "colreg"}, RipeamColreg},
	{[]string{"normam", "lei", "decreto", "lesta"}, Legislacao},
	{[]string{"btm", "bridge team"}, BridgeTeamManagement},
	{[]string{"comunicaç", "smcp", "signal", "radioperador"}, Comunicacoes},
	{[]string{"shiphandling", "naval shiphandling"}, Shiphandling},
	{[]string{"rebocador", "tug"}, Rebocadores},
	{[]string{"pna", "principles of naval"}, PNA},
	{[]string{"squat", "interaction"}, SquatInteracao},
	{[]string{"meteoro", "oceano"}, MeteorologiaOceanografia},
	{[]string{"manobra", "manoeuvr", "controlabil", "propuls", "resistência"}, Manobrabilidade},
}

// Classify returns the topic label for a bibliography citation. Citations
// that match no keyword, including the empty string, classify as Geral.
func Classify(citation string) Label {
	if citation == "" {
		return Geral
	}

	text := normalize(citation)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.label
			}
		}
	}
	return Geral
}

// normalize composes the text to NFC and lower-cases it. Both steps matter for
// keywords with diacritics: "NAVEGAÇÃO" and a decomposed "navegação" must
// reduce to the same bytes as the rule keyword.
func normalize(s string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}
