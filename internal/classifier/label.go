// Package classifier maps bibliography citations to question-bank topics.
package classifier

import "fmt"

// Label is one of the fixed topic categories a question batch can belong to.
type Label int

const (
	ArteNaval Label = iota
	Navegacao
	RipeamColreg
	Legislacao
	BridgeTeamManagement
	Comunicacoes
	Shiphandling
	Rebocadores
	PNA
	SquatInteracao
	MeteorologiaOceanografia
	Manobrabilidade
	Geral
)

type labelInfo struct {
	key  string
	name string
}

var labelTable = [...]labelInfo{
	ArteNaval:                {"ArteNaval", "Arte Naval"},
	Navegacao:                {"Navegacao", "Navegação"},
	RipeamColreg:             {"RipeamColreg", "RIPEAM / COLREG"},
	Legislacao:               {"Legislacao", "Legislação"},
	BridgeTeamManagement:     {"BridgeTeamManagement", "Bridge Team Management"},
	Comunicacoes:             {"Comunicacoes", "Comunicações"},
	Shiphandling:             {"Shiphandling", "Shiphandling"},
	Rebocadores:              {"Rebocadores", "Rebocadores"},
	PNA:                      {"PNA", "PNA - Principles of Naval Architecture"},
	SquatInteracao:           {"SquatInteracao", "Squat e Interação"},
	MeteorologiaOceanografia: {"MeteorologiaOceanografia", "Meteorologia e Oceanografia"},
	Manobrabilidade:          {"Manobrabilidade", "Manobrabilidade"},
	Geral:                    {"Geral", "Geral"},
}

// Labels returns every label in canonical order, Geral last.
func Labels() []Label {
	labels := make([]Label, len(labelTable))
	for i := range labelTable {
		labels[i] = Label(i)
	}
	return labels
}

// Valid reports whether l is a member of the label set.
func (l Label) Valid() bool {
	return l >= 0 && int(l) < len(labelTable)
}

// String returns the identifier form of the label, e.g. "RipeamColreg".
func (l Label) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Label(%d)", int(l))
	}
	return labelTable[l].key
}

// Name returns the topic name stored in the question bank, e.g. "RIPEAM / COLREG".
func (l Label) Name() string {
	if !l.Valid() {
		return l.String()
	}
	return labelTable[l].name
}

// Description is the topic description sent on creation.
func (l Label) Description() string {
	return "Questões sobre " + l.Name()
}

// ParseLabel resolves an identifier such as "Legislacao" back to its Label.
func ParseLabel(s string) (Label, error) {
	for i, info := range labelTable {
		if info.key == s {
			return Label(i), nil
		}
	}
	return Geral, fmt.Errorf("unknown topic label %q", s)
}
