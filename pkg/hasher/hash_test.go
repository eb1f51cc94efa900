package hasher

import "testing"

func TestHashKnownVector(t *testing.T) {
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got := Hash("hello"); got != want {
		t.Fatalf("unexpected hash: got %s want %s", got, want)
	}
}

func TestFingerprint(t *testing.T) {
	if Fingerprint("a", "b") != Fingerprint("a", "b") {
		t.Fatal("fingerprint must be deterministic")
	}
	if Fingerprint("ab", "c") == Fingerprint("a", "bc") {
		t.Fatal("fingerprint must respect part boundaries")
	}
}
