// internal/engine/commands.go
package engine

import (
	"regexp"
	"strings"
)

// Selection commands are handled before extraction: a unit add/remove toggles
// the selection set and bypasses field collection for the turn.

type commandKind int

const (
	cmdNone commandKind = iota
	cmdAddUnit
	cmdRemoveUnit
	cmdShowSelected
	cmdClearSelections
)

type selectionCommand struct {
	kind   commandKind
	unitID string
}

var (
	addUnitRe    = regexp.MustCompile(`add.*?unit\s+([a-z]\d{2,3}).*?to my selections`)
	removeUnitRe = regexp.MustCompile(`remove.*?unit\s+([a-z]\d{2,3})(?:.*?from my selections)?`)
	bookUnitRe   = regexp.MustCompile(`(?:book|want|select|choose).*?unit\s+([a-z]\d{2,3})`)
	anyUnitRe    = regexp.MustCompile(`unit\s+([a-z]\d{2,3})`)
)

// parseSelectionCommand recognizes the explicit selection vocabulary. Matching
// is ordered: add before remove before the list/clear shorthands.
func parseSelectionCommand(utterance string) selectionCommand {
	lower := strings.ToLower(utterance)

	if strings.Contains(lower, "add unit") && strings.Contains(lower, "to my selections") {
		if m := addUnitRe.FindStringSubmatch(lower); m != nil {
			return selectionCommand{kind: cmdAddUnit, unitID: strings.ToUpper(m[1])}
		}
	}
	if strings.Contains(lower, "remove unit") {
		if m := removeUnitRe.FindStringSubmatch(lower); m != nil {
			return selectionCommand{kind: cmdRemoveUnit, unitID: strings.ToUpper(m[1])}
		}
	}
	if strings.Contains(lower, "show selected") || strings.Contains(lower, "my selections") {
		return selectionCommand{kind: cmdShowSelected}
	}
	if strings.Contains(lower, "clear selections") || strings.Contains(lower, "remove all") {
		return selectionCommand{kind: cmdClearSelections}
	}
	return selectionCommand{kind: cmdNone}
}

// parseBookUnit recognizes a direct booking request naming a unit, e.g.
// "I want to book Unit B301".
func parseBookUnit(utterance string) (string, bool) {
	if m := bookUnitRe.FindStringSubmatch(strings.ToLower(utterance)); m != nil {
		return strings.ToUpper(m[1]), true
	}
	return "", false
}

// parseMentionedUnits returns every unit ID referenced in the utterance, in
// order, de-duplicated.
func parseMentionedUnits(utterance string) []string {
	matches := anyUnitRe.FindAllStringSubmatch(strings.ToLower(utterance), -1)
	var out []string
	seen := map[string]bool{}
	for _, m := range matches {
		id := strings.ToUpper(m[1])
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
