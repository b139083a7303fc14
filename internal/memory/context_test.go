package memory

import (
	"strings"
	"testing"
)

func TestGenerateContext_OrderAndLabels(t *testing.T) {
	m := newTestMemory(t)

	m.AddFact("napoleon", map[string]any{"birth": "1769", "title": "Emperor of France"})
	m.AddProcedure("analyze_napoleon", []string{"read biographies", "study battles"}, "history")
	m.AddInteraction("who was napoleon?", "a French emperor", nil)

	out, err := m.GenerateContext("napoleon")
	if err != nil {
		t.Fatal(err)
	}

	// Fixed section order: semantic, then procedural, then episodic.
	iFacts := strings.Index(out, "Known facts:")
	iProcs := strings.Index(out, "Relevant procedures:")
	iRecent := strings.Index(out, "Recent interactions:")
	if iFacts < 0 || iProcs < 0 || iRecent < 0 {
		t.Fatalf("missing section headers in:\n%s", out)
	}
	if !(iFacts < iProcs && iProcs < iRecent) {
		t.Errorf("expected semantic -> procedural -> episodic order in:\n%s", out)
	}

	if !strings.Contains(out, "- napoleon: birth=1769; title=Emperor of France") {
		t.Errorf("expected rendered fact with sorted attributes in:\n%s", out)
	}
	if !strings.Contains(out, "read biographies -> study battles") {
		t.Errorf("expected ordered steps in:\n%s", out)
	}
}

func TestGenerateContext_Deterministic(t *testing.T) {
	m := newTestMemory(t)

	m.AddFact("einstein", map[string]any{"birth": "1879", "field": "physics", "awards": []string{"Nobel Prize"}})
	m.AddFact("curie", map[string]any{"field": "physics"})
	m.AddProcedure("study_physics", []string{"read papers"}, "")
	m.AddInteraction("physics question", "physics answer", nil)

	first, err := m.GenerateContext("physics")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		next, err := m.GenerateContext("physics")
		if err != nil {
			t.Fatal(err)
		}
		if next != first {
			t.Fatalf("context not deterministic:\n%s\n---\n%s", first, next)
		}
	}
}

func TestGenerateContext_RecencyBias(t *testing.T) {
	m := newTestMemory(t)

	// Recent interactions appear even when they do not match the query.
	m.AddInteraction("weather today?", "sunny", nil)

	out, err := m.GenerateContext("completely-unrelated-topic")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "weather today?") {
		t.Errorf("expected recent interaction regardless of match in:\n%s", out)
	}
}

func TestGenerateContext_DeduplicatesRecentAndMatched(t *testing.T) {
	m := newTestMemory(t)

	// One interaction that is both recent and a textual match.
	m.AddInteraction("about dedup", "dedup response", nil)

	out, err := m.GenerateContext("dedup")
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(out, "about dedup"); n != 1 {
		t.Errorf("expected interaction to appear once, appeared %d times in:\n%s", n, out)
	}
	if strings.Contains(out, "Related interactions:") {
		t.Errorf("expected no related section when all matches are recent:\n%s", out)
	}
}

func TestGenerateContext_RelatedBeyondRecentWindow(t *testing.T) {
	m, err := New(Options{User: "tester", RecentWindow: 2})
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	m.AddInteraction("old question about volcanoes", "lava", nil)
	m.AddInteraction("filler one", "x", nil)
	m.AddInteraction("filler two", "y", nil)

	out, err := m.GenerateContext("volcanoes")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Related interactions:") {
		t.Fatalf("expected matched-but-not-recent interaction under related in:\n%s", out)
	}
	if !strings.Contains(out, "volcanoes") {
		t.Errorf("expected volcano interaction in:\n%s", out)
	}
}

func TestGenerateContext_Placeholder(t *testing.T) {
	m := newTestMemory(t)

	out, err := m.GenerateContext("anything")
	if err != nil {
		t.Fatal(err)
	}
	if out != NoMemoriesPlaceholder {
		t.Errorf("expected placeholder for empty memory, got %q", out)
	}
	if out == "" {
		t.Error("placeholder must not be empty")
	}
}

func TestGenerateContext_TinyBudgetDegradesToPlaceholder(t *testing.T) {
	m, err := New(Options{User: "tester", MaxContextChars: 10})
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	if err := m.AddFact("einstein", map[string]any{"birth": "1879"}); err != nil {
		t.Fatal(err)
	}

	// The fact matches but nothing fits in 10 chars, so the caller gets the
	// placeholder, not an empty or mid-item-truncated block.
	out, err := m.GenerateContext("einstein")
	if err != nil {
		t.Fatal(err)
	}
	if out != NoMemoriesPlaceholder {
		t.Errorf("expected placeholder under a sub-item budget, got %q", out)
	}
}

func TestGenerateContext_TruncatesWholeItems(t *testing.T) {
	m, err := New(Options{User: "tester", MaxContextChars: 200, RecentWindow: 3})
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	long := strings.Repeat("background detail ", 8)
	m.AddFact("alpha", map[string]any{"info": long})
	m.AddProcedure("alpha_procedure", []string{long}, "")
	for i := 0; i < 5; i++ {
		m.AddInteraction("alpha question "+long, "alpha answer", nil)
	}

	out, err := m.GenerateContext("alpha")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) > 200 {
		t.Fatalf("expected context within budget, got %d chars", len(out))
	}

	// Whole items only: every rendered line is complete.
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "- ") && strings.Contains(line, "alpha question") {
			if !strings.Contains(line, "/ assistant: alpha answer") {
				t.Errorf("found truncated item line: %q", line)
			}
		}
	}
}

func TestGenerateContext_DropsEpisodicBeforeSemantic(t *testing.T) {
	// Budget fits the fact but not the interactions: episodic items are
	// dropped first, the fact survives.
	m, err := New(Options{User: "tester", MaxContextChars: 60})
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	m.AddFact("zeta", map[string]any{"kind": "test"})
	m.AddInteraction("a zeta question that is reasonably long", "a long zeta answer as well", nil)

	out, err := m.GenerateContext("zeta")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "- zeta: kind=test") {
		t.Errorf("expected the fact to survive truncation:\n%s", out)
	}
	if strings.Contains(out, "zeta question") {
		t.Errorf("expected episodic items dropped first:\n%s", out)
	}
}

func TestRenderValue_NestedDocuments(t *testing.T) {
	got := renderValue(map[string]any{
		"b": []any{"x", "y"},
		"a": "plain",
		"c": map[string]any{"k": "v"},
	})
	want := "a=plain, b=x, y, c=k=v"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
