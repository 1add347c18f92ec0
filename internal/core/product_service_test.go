package core_test

import (
	"testing"

	"minigold/internal/core"
)

func TestProduct_CreateUpdateSearch(t *testing.T) {
	f := newFixture(t)
	id := f.product(t, "Minigold Classic 5g", "5")
	f.product(t, "Minigold Garuda 10g", "10")

	p, err := f.products.Get(f.ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !p.WeightClass.Equal(dec("5")) {
		t.Errorf("Expected gramasi 5, got %s", p.WeightClass)
	}

	p.Finishing = "Glossy"
	p.WeightClass = dec("2.5")
	if err := f.products.Update(f.ctx, *p); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	p, _ = f.products.Get(f.ctx, id)
	if p.Finishing != "Glossy" || !p.WeightClass.Equal(dec("2.5")) {
		t.Errorf("Expected update to persist, got %+v", p)
	}

	found, err := f.products.Search(f.ctx, "glossy", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(found) != 1 || found[0].ID != id {
		t.Errorf("Expected search to find product %d, got %+v", id, found)
	}
	found, _ = f.products.Search(f.ctx, "minigold", 0)
	if len(found) != 2 {
		t.Errorf("Expected 2 products, got %d", len(found))
	}
}

func TestProduct_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.products.Create(f.ctx, core.Product{})
	assertKind(t, err, core.KindValidation)

	_, err = f.products.Create(f.ctx, core.Product{Name: "Bad", WeightClass: dec("-1")})
	assertKind(t, err, core.KindValidation)

	err = f.products.Update(f.ctx, core.Product{ID: 12, Name: "Ghost"})
	assertKind(t, err, core.KindNotFound)

	_, err = f.products.Get(f.ctx, 12)
	assertKind(t, err, core.KindNotFound)
}

func TestWeightClassLabels(t *testing.T) {
	for label, want := range map[string]string{"5g": "5", "2.5g": "2.5", " 10 G ": "10", "5": "5"} {
		grams, err := core.ParseWeightClass(label)
		if err != nil {
			t.Fatalf("ParseWeightClass(%q) failed: %v", label, err)
		}
		if !grams.Equal(dec(want)) {
			t.Errorf("ParseWeightClass(%q) = %s, want %s", label, grams, want)
		}
	}
	for _, bad := range []string{"", "heavy", "g", "-5g"} {
		_, err := core.ParseWeightClass(bad)
		assertKind(t, err, core.KindValidation)
	}
	if got := core.WeightLabel(dec("2.5")); got != "2.5g" {
		t.Errorf("Expected label 2.5g, got %s", got)
	}
}
