package service

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Asphalt Paving", "asphalt-paving"},
		{"  Crack  Sealing!  ", "crack-sealing"},
		{"Road & Lot Repair (2024)", "road-lot-repair-2024"},
		{"---", ""},
		{"ALREADY-SLUGGED", "already-slugged"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q) want %q got %q", tc.in, tc.want, got)
		}
	}
}

type fakeSlugChecker struct {
	existing map[string]bool
	err      error
}

func (f *fakeSlugChecker) SlugExists(slug string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.existing[slug], nil
}

func TestUniqueSlug(t *testing.T) {
	slug, err := UniqueSlug(&fakeSlugChecker{}, "Driveway Resurfacing")
	if err != nil {
		t.Fatalf("unique slug failed: %v", err)
	}
	if slug != "driveway-resurfacing" {
		t.Fatalf("slug want driveway-resurfacing got %s", slug)
	}

	checker := &fakeSlugChecker{existing: map[string]bool{
		"driveway-resurfacing":   true,
		"driveway-resurfacing-2": true,
	}}
	slug, err = UniqueSlug(checker, "Driveway Resurfacing")
	if err != nil {
		t.Fatalf("unique slug failed: %v", err)
	}
	if slug != "driveway-resurfacing-3" {
		t.Fatalf("slug want driveway-resurfacing-3 got %s", slug)
	}

	slug, err = UniqueSlug(&fakeSlugChecker{}, "!!!")
	if err != nil {
		t.Fatalf("unique slug failed: %v", err)
	}
	if slug != "untitled" {
		t.Fatalf("empty title slug want untitled got %s", slug)
	}
}

func TestUniqueSlugSkipsNumberedGaps(t *testing.T) {
	// "Foo 1" already owns foo-1; a fresh "Foo" must not be handed
	// the same slug just because one sibling exists.
	checker := &fakeSlugChecker{existing: map[string]bool{"foo-1": true}}
	slug, err := UniqueSlug(checker, "Foo")
	if err != nil {
		t.Fatalf("unique slug failed: %v", err)
	}
	if slug != "foo" {
		t.Fatalf("slug want foo got %s", slug)
	}

	checker = &fakeSlugChecker{existing: map[string]bool{
		"foo":   true,
		"foo-1": true,
	}}
	slug, err = UniqueSlug(checker, "Foo")
	if err != nil {
		t.Fatalf("unique slug failed: %v", err)
	}
	if checker.existing[slug] {
		t.Fatalf("UniqueSlug returned %q which already exists", slug)
	}
	if slug != "foo-2" {
		t.Fatalf("slug want foo-2 got %s", slug)
	}
}
