package memory

import (
	"fmt"
	"sort"
	"strings"
)

// NoMemoriesPlaceholder is returned when the context block ends up empty, so
// the caller's prompt template never receives an empty string. It means "no
// memories fit here", not "nothing is stored": a budget small enough to drop
// every matched item also yields the placeholder, and the placeholder itself
// is emitted whole even when it exceeds a sub-placeholder-sized budget.
const NoMemoriesPlaceholder = "No relevant memories found."

const contextHeader = "MEMORY CONTEXT:"

// Section headers, rendered in fixed order.
const (
	headerFacts      = "Known facts:"
	headerProcedures = "Relevant procedures:"
	headerRecent     = "Recent interactions:"
	headerRelated    = "Related interactions:"
)

// Drop priorities for truncation: higher values are dropped first.
const (
	sectionFacts = iota
	sectionProcedures
	sectionRecent
	sectionRelated
)

type contextItem struct {
	section int
	text    string
}

type contextInput struct {
	Facts        []Fact
	Procedures   []NamedProcedure
	Recent       []Interaction
	Matched      []Interaction
	PerKindLimit int
	MaxChars     int
}

// renderContext assembles the labeled context block: semantic, then
// procedural, then episodic. When the budget is exceeded, whole items are
// dropped lowest-priority-first (related episodic, recent episodic,
// procedural, semantic last); an item is never cut mid-text. A budget too
// small for even one item degrades to NoMemoriesPlaceholder despite matches.
func renderContext(in contextInput) string {
	items := collectItems(in)
	if len(items) == 0 {
		return NoMemoriesPlaceholder
	}

	for len(items) > 0 && len(assemble(items)) > in.MaxChars {
		items = dropLowestPriority(items)
	}
	if len(items) == 0 {
		return NoMemoriesPlaceholder
	}
	return assemble(items)
}

func collectItems(in contextInput) []contextItem {
	items := make([]contextItem, 0)

	facts := in.Facts
	if len(facts) > in.PerKindLimit {
		facts = facts[:in.PerKindLimit]
	}
	for _, f := range facts {
		items = append(items, contextItem{sectionFacts, renderFact(f)})
	}

	procs := in.Procedures
	if len(procs) > in.PerKindLimit {
		procs = procs[:in.PerKindLimit]
	}
	for _, p := range procs {
		items = append(items, contextItem{sectionProcedures, renderProcedure(p)})
	}

	seen := make(map[string]bool, len(in.Recent))
	for _, rec := range in.Recent {
		seen[rec.ID] = true
		items = append(items, contextItem{sectionRecent, renderInteraction(rec)})
	}

	// Matched interactions already present in the recency window appear once.
	related := 0
	for _, rec := range in.Matched {
		if seen[rec.ID] {
			continue
		}
		if related >= in.PerKindLimit {
			break
		}
		related++
		items = append(items, contextItem{sectionRelated, renderInteraction(rec)})
	}

	return items
}

// dropLowestPriority removes the last item of the most expendable section.
func dropLowestPriority(items []contextItem) []contextItem {
	for section := sectionRelated; section >= sectionFacts; section-- {
		for i := len(items) - 1; i >= 0; i-- {
			if items[i].section == section {
				return append(items[:i], items[i+1:]...)
			}
		}
	}
	return items[:0]
}

// assemble renders the surviving items under their section headers.
func assemble(items []contextItem) string {
	headers := []string{headerFacts, headerProcedures, headerRecent, headerRelated}
	sections := make([][]string, len(headers))
	for _, it := range items {
		sections[it.section] = append(sections[it.section], it.text)
	}

	var b strings.Builder
	b.WriteString(contextHeader)
	for i, lines := range sections {
		if len(lines) == 0 {
			continue
		}
		b.WriteString("\n\n")
		b.WriteString(headers[i])
		for _, line := range lines {
			b.WriteString("\n")
			b.WriteString(line)
		}
	}
	return b.String()
}

// renderFact formats a fact as a single line with sorted attribute keys.
func renderFact(f Fact) string {
	keys := make([]string, 0, len(f.Details))
	for k := range f.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]string, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, fmt.Sprintf("%s=%s", k, renderValue(f.Details[k])))
	}
	return fmt.Sprintf("- %s: %s", f.Concept, strings.Join(attrs, "; "))
}

// renderProcedure formats a procedure as a single line of ordered steps.
func renderProcedure(p NamedProcedure) string {
	line := fmt.Sprintf("- %s: %s", p.Name, strings.Join(p.Steps, " -> "))
	if p.Context != "" {
		line += fmt.Sprintf(" (when: %s)", p.Context)
	}
	return line
}

// renderInteraction formats an episodic record as a single line.
func renderInteraction(rec Interaction) string {
	return fmt.Sprintf("- [%s] user: %s / assistant: %s", rec.Timestamp, rec.Query, rec.Response)
}

// renderValue flattens a document value for display, with sorted map keys
// for determinism.
func renderValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, renderValue(item))
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(val, ", ")
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, renderValue(val[k])))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}
