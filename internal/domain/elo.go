package domain

import "fmt"

// EloDelta: resultado del cálculo de diferencia de elo entre dos snapshots.
// Empate (sin cambio) se reporta como "-" con Diff 0.
type EloDelta struct {
	Operator string // "+" o "-"
	Diff     int    // magnitud, nunca negativa
	NewElo   int
}

// EloDiff compara el elo anterior contra el actual. Función pura, sin I/O.
func EloDiff(previous, current int) EloDelta {
	d := EloDelta{NewElo: current}
	if current > previous {
		d.Operator = "+"
		d.Diff = current - previous
		return d
	}
	d.Operator = "-"
	d.Diff = previous - current
	return d
}

// Unchanged: true cuando no hay nada que propagar.
func (d EloDelta) Unchanged() bool { return d.Diff == 0 }

func (d EloDelta) String() string {
	return fmt.Sprintf("%s%d (%d)", d.Operator, d.Diff, d.NewElo)
}

// Umbrales oficiales de FACEIT para cs2 (elo mínimo de cada nivel).
var skillLevelFloors = [...]int{1: 1, 2: 501, 3: 751, 4: 901, 5: 1051, 6: 1201, 7: 1351, 8: 1531, 9: 1751, 10: 2001}

// SkillLevelForElo mapea elo → nivel 1..10 (el rol "Level N" del guild).
func SkillLevelForElo(elo int) int {
	level := 1
	for lvl := 2; lvl < len(skillLevelFloors); lvl++ {
		if elo >= skillLevelFloors[lvl] {
			level = lvl
		}
	}
	return level
}
