package filter

// sectionResult is one tagging section folded to a single fragment. An empty
// fragment on an included section means "everything at this depth".
type sectionResult struct {
	excluded bool
	fragment string
}

// excludesSection reports whether the attribute drops its whole section.
func (a *Attribute) excludesSection() bool {
	return a.kind == KindSectionMatch &&
		(a.operator == OperatorExcludeSection || a.operator == OperatorExcludeEach)
}

// assembleSections folds attributes into per-section results indexed by
// tagging depth, preserving specification order. Preset pseudo-section
// attributes are left to Compose. A nil entry means the section was never
// mentioned, which is not the same as mentioned-but-unconstrained.
func assembleSections(attrs []*Attribute) [tagDepths]*sectionResult {
	var results [tagDepths]*sectionResult
	for _, attr := range attrs {
		if attr == nil || attr.kind == KindPreset || attr.section == SectionPreset {
			continue
		}
		depth := attr.section.offset()
		result := results[depth]
		if result == nil {
			result = &sectionResult{}
			results[depth] = result
		}
		if result.excluded {
			// exclusion is absolute; later attributes cannot re-include
			continue
		}
		if attr.excludesSection() {
			result.excluded = true
			result.fragment = ""
			continue
		}
		if attr.fragment == "" {
			continue
		}
		piece := "(" + attr.fragment + ")"
		if result.fragment == "" {
			result.fragment = piece
			continue
		}
		op := "or"
		if attr.required {
			op = "and"
		}
		result.fragment += " " + op + " " + piece
	}
	return results
}
