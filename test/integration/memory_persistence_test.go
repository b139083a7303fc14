//go:build integration

package integration

import (
	"testing"

	"github.com/engram-oss/engram/internal/memory"
)

func TestMemoryPersistenceAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	// --- Instance 1: store memories across all kinds, close ---
	m1, err := memory.New(memory.Options{User: "alice", Dir: dir, Persist: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := m1.AddFact("einstein", map[string]any{"birth": "1879", "field": "physics"}); err != nil {
		t.Fatal(err)
	}
	if err := m1.AddProcedure("analyze_figure", []string{"research early life", "examine achievements"}, "history research"); err != nil {
		t.Fatal(err)
	}
	first, err := m1.AddInteraction("who was einstein?", "a physicist", map[string]any{"topic": "science"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m1.AddInteraction("and napoleon?", "an emperor", nil); err != nil {
		t.Fatal(err)
	}
	if err := m1.Close(); err != nil {
		t.Fatal(err)
	}

	// --- Instance 2: everything is back, ordering intact ---
	m2, err := memory.New(memory.Options{User: "alice", Dir: dir, Persist: true})
	if err != nil {
		t.Fatal(err)
	}
	defer m2.Close()

	details, ok, err := m2.Fact("einstein")
	if err != nil || !ok {
		t.Fatalf("fact lost across restart: ok=%v err=%v", ok, err)
	}
	if details["birth"] != "1879" {
		t.Errorf("birth = %v, want 1879", details["birth"])
	}

	proc, ok, err := m2.Procedure("analyze_figure")
	if err != nil || !ok {
		t.Fatalf("procedure lost across restart: ok=%v err=%v", ok, err)
	}
	if len(proc.Steps) != 2 || proc.Steps[0] != "research early life" {
		t.Errorf("steps = %v", proc.Steps)
	}

	recent, err := m2.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d interactions, want 2", len(recent))
	}
	if recent[0].ID != first.ID {
		t.Errorf("ordering lost: first recent is %s, want %s", recent[0].ID, first.ID)
	}

	// --- Instance 2 keeps appending; sequence continues ---
	third, err := m2.AddInteraction("goodbye", "bye", nil)
	if err != nil {
		t.Fatal(err)
	}
	if third.Seq <= recent[1].Seq {
		t.Errorf("sequence did not continue: %d <= %d", third.Seq, recent[1].Seq)
	}
}

func TestMemoryPersistenceSQLite(t *testing.T) {
	dir := t.TempDir()

	m1, err := memory.New(memory.Options{User: "bob", Dir: dir, Driver: "sqlite", Persist: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := m1.AddFact("sun", map[string]any{"type": "star"}); err != nil {
		t.Fatal(err)
	}
	if _, err := m1.AddInteraction("what is the sun?", "a star", nil); err != nil {
		t.Fatal(err)
	}
	if err := m1.Close(); err != nil {
		t.Fatal(err)
	}

	m2, err := memory.New(memory.Options{User: "bob", Dir: dir, Driver: "sqlite", Persist: true})
	if err != nil {
		t.Fatal(err)
	}
	defer m2.Close()

	details, ok, err := m2.Fact("sun")
	if err != nil || !ok {
		t.Fatalf("fact lost across restart: ok=%v err=%v", ok, err)
	}
	if details["type"] != "star" {
		t.Errorf("type = %v, want star", details["type"])
	}

	counts, err := m2.Counts()
	if err != nil {
		t.Fatal(err)
	}
	if counts[memory.NamespaceEpisodic] != 1 {
		t.Errorf("episodic count = %d, want 1", counts[memory.NamespaceEpisodic])
	}
}

func TestUsersAreIsolated(t *testing.T) {
	dir := t.TempDir()

	alice, err := memory.New(memory.Options{User: "alice", Dir: dir, Persist: true})
	if err != nil {
		t.Fatal(err)
	}
	defer alice.Close()
	bob, err := memory.New(memory.Options{User: "bob", Dir: dir, Persist: true})
	if err != nil {
		t.Fatal(err)
	}
	defer bob.Close()

	if err := alice.AddFact("secret", map[string]any{"value": "alice-only"}); err != nil {
		t.Fatal(err)
	}

	_, ok, err := bob.Fact("secret")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("bob can read alice's memories")
	}
}
