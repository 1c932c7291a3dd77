package registry

import "testing"

func TestRegisterRejectsNonSingleton(t *testing.T) {
	r := New()
	if r.Register("Netflix", nil, false, false, nil) {
		t.Fatal("expected non-singleton registration to be rejected")
	}
}

func TestRegisterRejectsDuplicateName(t *testing.T) {
	r := New()
	if !r.Register("Netflix", nil, true, false, nil) {
		t.Fatal("expected first registration to succeed")
	}
	if r.Register("Netflix", nil, true, false, nil) {
		t.Fatal("expected duplicate registration to be rejected")
	}
}

func TestRegisterRejectsPrefixCollision(t *testing.T) {
	r := New()
	if !r.Register("YouTube", []string{"youtube_"}, true, false, nil) {
		t.Fatal("expected first registration to succeed")
	}
	if r.Register("youtube_leanback", nil, true, false, nil) {
		t.Fatal("expected name colliding with an existing prefix to be rejected")
	}
}

func TestLookupPrefixMatchWinsInInsertionOrder(t *testing.T) {
	r := New()
	r.Register("YouTube", []string{"youtube_"}, true, false, nil)
	r.Register("Other", []string{"youtube_lean"}, true, false, nil)

	reg, ok := r.Lookup("youtube_leanback_exact")
	if !ok {
		t.Fatal("expected a match")
	}
	if reg.Name != "YouTube" {
		t.Fatalf("expected the earlier prefix registration to win, got %q", reg.Name)
	}
}

func TestLookupExactNameMatch(t *testing.T) {
	r := New()
	r.Register("Netflix", nil, true, true, []string{"netflix.com"})

	reg, ok := r.Lookup("Netflix")
	if !ok || reg.Name != "Netflix" {
		t.Fatal("expected exact name match")
	}
	if !reg.UseAdditionalData {
		t.Fatal("expected UseAdditionalData to be preserved")
	}
}

func TestLookupNoMatch(t *testing.T) {
	r := New()
	r.Register("Netflix", nil, true, false, nil)
	if _, ok := r.Lookup("Hulu"); ok {
		t.Fatal("expected no match for unregistered app")
	}
}

func TestUnregisterAndIsRegistered(t *testing.T) {
	r := New()
	r.Register("Netflix", nil, true, false, nil)
	if !r.IsRegistered("Netflix") {
		t.Fatal("expected registered")
	}
	if !r.Unregister("Netflix") {
		t.Fatal("expected unregister to succeed")
	}
	if r.IsRegistered("Netflix") {
		t.Fatal("expected not registered after Unregister")
	}
}

func TestListReturnsSnapshot(t *testing.T) {
	r := New()
	r.Register("Netflix", nil, true, false, nil)
	r.Register("YouTube", nil, true, false, nil)

	list := r.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 registrations, got %d", len(list))
	}
}
