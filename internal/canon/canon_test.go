package canon

import "testing"

func TestCanonicalizeIPv4(t *testing.T) {
	got, err := Canonicalize("http://3279880203/blah")
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}

	for _, want := range []string{"195.127.0.11/blah", "195.127.0.11/"} {
		if _, ok := got[want]; !ok {
			t.Errorf("missing canonical form %q in %v", want, got)
		}
	}
}

func TestCanonicalizePath(t *testing.T) {
	got, err := Canonicalize("http://a.b.c/1/./2//3/../4.html?x=1")
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}

	for _, want := range []string{"a.b.c/", "a.b.c/1/", "b.c/", "b.c/1/"} {
		if _, ok := got[want]; !ok {
			t.Errorf("missing canonical form %q in %v", want, got)
		}
	}

	// "c" alone is below the two-label floor and must never appear.
	for c := range got {
		if c == "c/" || c == "c/1/" {
			t.Errorf("ancestor host dropped below two labels: %q", c)
		}
	}
}

func TestCanonicalizeDefaultsScheme(t *testing.T) {
	got, err := Canonicalize("example.com/x")
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}

	if _, ok := got["example.com/x"]; !ok {
		t.Errorf("expected example.com/x in %v", got)
	}
}

func TestCanonicalizeRejectsBadScheme(t *testing.T) {
	if _, err := Canonicalize("ftp://example.com/x"); err == nil {
		t.Errorf("expected error for ftp scheme")
	}
}

func TestCanonicalizeDropsFragment(t *testing.T) {
	got, err := Canonicalize("http://example.com/a#frag")
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}

	if _, ok := got["example.com/a"]; !ok {
		t.Errorf("expected example.com/a in %v", got)
	}

	for c := range got {
		if c == "example.com/a#frag" {
			t.Errorf("fragment leaked into canonical form: %q", c)
		}
	}
}

func TestCanonicalizeStripsDotRuns(t *testing.T) {
	got, err := Canonicalize("http://...a.b...c.../x")
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}

	if _, ok := got["a.b.c/x"]; !ok {
		t.Errorf("expected a.b.c/x in %v", got)
	}
}

func TestCanonicalizeBarePercentEscaped(t *testing.T) {
	got, err := Canonicalize("http://example.com/100%/x")
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}

	if _, ok := got["example.com/100%25/x"]; !ok {
		t.Errorf("expected bare %% escaped in %v", got)
	}
}

func TestCanonicalizeIsIdempotentOverReprepend(t *testing.T) {
	for _, u := range []string{
		"http://3279880203/blah",
		"http://a.b.c/1/./2//3/../4.html?x=1",
		"http://example.com/a/b/",
	} {
		first, err := Canonicalize(u)
		if err != nil {
			t.Fatalf("Canonicalize(%q): %v", u, err)
		}

		for c := range first {
			second, err := Canonicalize("http://" + c)
			if err != nil {
				t.Fatalf("Canonicalize(%q): %v", c, err)
			}

			for sc := range second {
				if _, ok := first[sc]; !ok {
					t.Errorf("re-canonicalized form %q of %q not present in original set %v", sc, c, first)
				}
			}
		}
	}
}
