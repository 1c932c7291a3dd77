package origin

import "testing"

func TestAdmitEmptyOriginAllowed(t *testing.T) {
	if !Admit("", []string{"netflix.com"}) {
		t.Fatal("expected empty origin to be admitted")
	}
}

func TestAdmitHTTPSuffixMatch(t *testing.T) {
	if !Admit("https://app.netflix.com", []string{"netflix.com"}) {
		t.Fatal("expected suffix match to be admitted")
	}
}

func TestAdmitHTTPSuffixMismatch(t *testing.T) {
	if Admit("https://evil.example.com", []string{"netflix.com"}) {
		t.Fatal("expected suffix mismatch to be rejected")
	}
}

func TestAdmitFileSchemeUsesSuffix(t *testing.T) {
	if Admit("file:///local/index.html", []string{"netflix.com"}) {
		t.Fatal("expected file scheme without matching suffix to be rejected")
	}
}

func TestAdmitOpaqueSchemeAllowed(t *testing.T) {
	if !Admit("android-app://com.example.tv", []string{"netflix.com"}) {
		t.Fatal("expected opaque non-web scheme to be admitted")
	}
}

func TestIsLoopbackV4(t *testing.T) {
	if !IsLoopback("127.0.0.1:54321") {
		t.Fatal("expected 127.0.0.1 to be loopback")
	}
	if !IsLoopback("127.0.0.1") {
		t.Fatal("expected bare 127.0.0.1 to be loopback")
	}
}

func TestIsLoopbackRejectsNonLoopback(t *testing.T) {
	if IsLoopback("10.0.0.5:54321") {
		t.Fatal("expected non-loopback address to be rejected")
	}
}

func TestIsLoopbackRejectsIPv6Loopback(t *testing.T) {
	// spec.md §4.3 specifies IPv4 loopback specifically.
	if IsLoopback("[::1]:54321") {
		t.Fatal("expected IPv6 loopback to be rejected by the IPv4-only rule")
	}
}
