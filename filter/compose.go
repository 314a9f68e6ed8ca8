package filter

import "strings"

// tautology is what a blanket include of both untagged and tagged traffic
// composes to. It matches every packet, so it collapses to the empty filter.
var tautology = "(" + taglessTerm + ") or (vlan)"

// Compose merges an ordered attribute list into one capture filter
// expression. The empty string is a valid result and matches every packet.
func Compose(attrs []*Attribute) (string, error) {
	for _, attr := range attrs {
		if attr == nil || attr.kind != KindPreset {
			continue
		}
		// the first preset wins and makes every other attribute inert
		switch attr.operator {
		case PresetAny:
			return "", nil
		case PresetUntagged:
			return "not vlan", nil
		case PresetTagged:
			return "vlan", nil
		}
		// custom: compose from the sections
		break
	}
	return composeSections(assembleSections(attrs))
}

// composeSections walks the tagging depths in ascending order, choosing one
// term per depth. Three watermarks computed up front drive the terminal
// decisions: the deepest explicitly excluded section, the deepest included
// one, and the deepest included one that actually constrains traffic.
func composeSections(results [tagDepths]*sectionResult) (string, error) {
	lastExcluded, lastIncluded, lastFiltered, top := -1, -1, -1, -1
	for depth := tagDepths - 1; depth >= 0; depth-- {
		result := results[depth]
		if result == nil {
			// unmentioned sections are excluded by default but set no
			// watermark
			continue
		}
		if top < 0 {
			top = depth
		}
		if result.excluded {
			if lastExcluded < 0 {
				lastExcluded = depth
			}
			continue
		}
		if lastIncluded < 0 {
			lastIncluded = depth
		}
		if result.fragment != "" && lastFiltered < 0 {
			lastFiltered = depth
		}
	}
	if top < 0 {
		return "", nil
	}

	var (
		expr strings.Builder
		next string // joiner forced by the previous term
	)
	join := func(term string, excluded bool) {
		if expr.Len() > 0 {
			op := next
			if op == "" {
				op = "or"
				if excluded {
					op = "and"
				}
			}
			expr.WriteString(" " + op + " ")
		}
		expr.WriteString(term)
		next = ""
	}

	for depth := 0; depth <= top; depth++ {
		result := results[depth]
		excluded := result == nil || result.excluded
		switch {
		case excluded && lastIncluded > depth:
			// a deeper section is still included; narrow down to it
			if depth == 0 {
				// "vlan" at the next depth already excludes untagged
				continue
			}
			join("vlan", true)
			next = "and"
		case excluded:
			if depth == 0 {
				if lastExcluded != 0 {
					// untagged is gone and no tagged section remains
					return "", ErrAllPacketsExcluded
				}
				// exclude only untagged: all tagged traffic remains
				join("(vlan)", true)
				return simplify(expr.String()), nil
			}
			join("(not vlan)", true)
			return simplify(expr.String()), nil
		case result.fragment == "":
			// blanket include of this depth
			if depth == 0 {
				if lastIncluded == 0 {
					join("(not vlan)", false)
					return simplify(expr.String()), nil
				}
				join("("+taglessTerm+")", false)
				next = "or"
				continue
			}
			join("(vlan)", false)
			if lastFiltered <= depth && lastExcluded <= depth {
				return simplify(expr.String()), nil
			}
		default:
			if depth == 0 {
				join("("+result.fragment+")", false)
			} else {
				join("vlan and ("+result.fragment+")", false)
			}
		}
	}
	return simplify(expr.String()), nil
}

// simplify collapses the canonical match-everything expression to the empty
// filter.
func simplify(expr string) string {
	if expr == tautology {
		return ""
	}
	return expr
}
