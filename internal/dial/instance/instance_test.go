package instance

import (
	"testing"

	"github.com/sebas/dialserver/internal/dial/state"
)

func strPtr(s string) *string { return &s }

func TestShouldRelaunchNilInstance(t *testing.T) {
	if !ShouldRelaunch(nil, state.Stopped, "v=abc") {
		t.Fatal("expected relaunch with no prior instance")
	}
}

func TestShouldRelaunchStoppedInstance(t *testing.T) {
	inst := &Instance{CachedPayload: strPtr("v=abc")}
	if !ShouldRelaunch(inst, state.Stopped, "v=abc") {
		t.Fatal("expected relaunch when stopped even with matching payload")
	}
}

func TestShouldRelaunchSamePayload(t *testing.T) {
	inst := &Instance{CachedPayload: strPtr("v=abc")}
	if ShouldRelaunch(inst, state.Running, "v=abc") {
		t.Fatal("expected reuse for identical payload")
	}
}

func TestShouldRelaunchDifferentPayload(t *testing.T) {
	inst := &Instance{CachedPayload: strPtr("v=abc")}
	if !ShouldRelaunch(inst, state.Running, "v=xyz") {
		t.Fatal("expected relaunch for differing payload")
	}
}

func TestShouldRelaunchNilPayloadBothEmpty(t *testing.T) {
	inst := &Instance{CachedPayload: nil}
	if ShouldRelaunch(inst, state.Running, "") {
		t.Fatal("expected nil cached payload to equal empty new payload")
	}
}

func TestStoreSetAuxDataCreatesEntry(t *testing.T) {
	s := NewStore()
	s.SetAuxData("Netflix", map[string]string{"k": "v"})

	inst, ok := s.Get("Netflix")
	if !ok {
		t.Fatal("expected an instance entry to exist")
	}
	if inst.AuxData["k"] != "v" {
		t.Fatalf("expected aux data k=v, got %v", inst.AuxData)
	}
}

func TestStoreDelete(t *testing.T) {
	s := NewStore()
	s.Set("Netflix", &Instance{ApplicationID: "1"})
	s.Delete("Netflix")
	if _, ok := s.Get("Netflix"); ok {
		t.Fatal("expected instance to be removed")
	}
}
