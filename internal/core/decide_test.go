package core

import "testing"

func TestDecisionValid(t *testing.T) {
	if !Jump.Valid() || !NoJump.Valid() {
		t.Error("Jump and NoJump must be valid")
	}
	if Decision(7).Valid() {
		t.Error("Decision(7) must be invalid")
	}
	if Decision(7).String() != "Decision(7)" {
		t.Errorf("String() = %q", Decision(7).String())
	}
}

func TestInputFrameDecision(t *testing.T) {
	f := NewInputFrame()
	if f.Decision() != NoJump {
		t.Error("empty frame should map to NoJump")
	}
	f.Set(ActionJump)
	if f.Decision() != Jump {
		t.Error("jump action should map to Jump")
	}
	f.Clear()
	if f.Has(ActionJump) {
		t.Error("Clear should drop all actions")
	}
}

func TestDeciderFunc(t *testing.T) {
	var d Decider = DeciderFunc(func(obs Observation) Decision {
		if obs[0] > 100 {
			return Jump
		}
		return NoJump
	})

	if d.Decide(Observation{150, 0, 0}) != Jump {
		t.Error("expected Jump")
	}
	obs := Observation{1, 2, 3}
	s := obs.Slice()
	s[0] = 99
	if obs[0] != 1 {
		t.Error("Slice must copy")
	}
}
