package models

import "strings"

// ModelInfo describes one model known to the external tool
type ModelInfo struct {
	// Name is the canonical model identifier
	Name string
	// Aliases are the short names accepted by `-m`, in the order reported
	Aliases []string
	// Preferred indexes into Aliases
	Preferred int
}

// Alias returns the preferred alias, or the canonical name when there is none
func (m ModelInfo) Alias() string {
	if m.Preferred >= 0 && m.Preferred < len(m.Aliases) {
		return m.Aliases[m.Preferred]
	}
	return m.Name
}

// Label returns the text shown in the model selector
func (m ModelInfo) Label() string {
	if len(m.Aliases) == 0 {
		return m.Name
	}
	return m.Name + " (" + strings.Join(m.Aliases, ", ") + ")"
}

// HasAlias reports whether alias names this model
func (m ModelInfo) HasAlias(alias string) bool {
	if alias == m.Name {
		return true
	}
	for _, a := range m.Aliases {
		if a == alias {
			return true
		}
	}
	return false
}
