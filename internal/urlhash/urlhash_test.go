package urlhash

import "testing"

func TestFullHashesNonEmpty(t *testing.T) {
	hashes, err := FullHashes("http://example.com/evil")
	if err != nil {
		t.Fatalf("FullHashes: %v", err)
	}

	if len(hashes) == 0 {
		t.Fatalf("expected at least one hash")
	}
}

func TestPrefixOfIsFirstFourBytes(t *testing.T) {
	hashes, err := FullHashes("http://example.com/evil")
	if err != nil {
		t.Fatalf("FullHashes: %v", err)
	}

	for _, h := range hashes {
		p := PrefixOf(h)
		if p.Hex() != h.Hex()[:8] {
			t.Errorf("prefix %q is not the first 4 bytes of hash %q", p.Hex(), h.Hex())
		}
	}
}

func TestPrefixesDeduplicates(t *testing.T) {
	prefixes, err := Prefixes("http://example.com/evil")
	if err != nil {
		t.Fatalf("Prefixes: %v", err)
	}

	seen := make(map[Prefix]struct{})
	for _, p := range prefixes {
		if _, ok := seen[p]; ok {
			t.Errorf("duplicate prefix %q", p.Hex())
		}

		seen[p] = struct{}{}
	}
}
