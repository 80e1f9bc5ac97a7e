package registry

import (
	"testing"

	"github.com/vovakirdan/flappy-neat/internal/core"
)

func TestRegisterAndCreate(t *testing.T) {
	var gotSeed int64
	Register("test-always-jump", "jumps every tick", func(seed int64) core.Decider {
		gotSeed = seed
		return core.DeciderFunc(func(core.Observation) core.Decision { return core.Jump })
	})

	if !Exists("test-always-jump") {
		t.Fatal("registered policy not found")
	}

	d, err := Create("test-always-jump", 42)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if gotSeed != 42 {
		t.Errorf("factory seed = %d, expected 42", gotSeed)
	}
	if got := d.Decide(core.Observation{}); got != core.Jump {
		t.Errorf("Decide() = %v, expected Jump", got)
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("no-such-policy", 0); err == nil {
		t.Error("expected error for unknown policy")
	}
	if Exists("no-such-policy") {
		t.Error("Exists() = true for unknown policy")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	f := func(int64) core.Decider { return nil }
	Register("test-dup", "", f)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("test-dup", "", f)
}

func TestListSorted(t *testing.T) {
	f := func(int64) core.Decider { return nil }
	Register("test-list-b", "b", f)
	Register("test-list-a", "a", f)

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].Name > list[i].Name {
			t.Fatalf("List() not sorted: %q before %q", list[i-1].Name, list[i].Name)
		}
	}

	found := false
	for _, p := range list {
		if p.Name == "test-list-a" {
			found = p.Description == "a"
		}
	}
	if !found {
		t.Error("test-list-a missing or without description")
	}
}
