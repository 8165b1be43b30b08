package search

import "testing"

func TestFingerprint_SameDocsProduceSameFingerprint(t *testing.T) {
	docs := []Doc{
		{ID: "000000", Type: "lists_sort", Text: "lists sort sort numeric"},
		{ID: "000001", Type: "text_print", Text: "text print print"},
	}

	fp1 := computeFingerprint(docs)
	fp2 := computeFingerprint(docs)

	if fp1 != fp2 {
		t.Errorf("same docs produced different fingerprints: %s vs %s", fp1, fp2)
	}
	if fp1 == "" {
		t.Error("fingerprint is empty")
	}
}

func TestFingerprint_DifferentDocsProduceDifferentFingerprint(t *testing.T) {
	fp1 := computeFingerprint([]Doc{{ID: "000000", Text: "sort"}})
	fp2 := computeFingerprint([]Doc{{ID: "000000", Text: "print"}})

	if fp1 == fp2 {
		t.Error("different docs produced same fingerprint")
	}
}

func TestFingerprint_OrderMatters(t *testing.T) {
	a := Doc{ID: "000000", Text: "one"}
	b := Doc{ID: "000001", Text: "two"}

	if computeFingerprint([]Doc{a, b}) == computeFingerprint([]Doc{b, a}) {
		t.Error("different order should produce different fingerprints")
	}
}

func TestFingerprint_FieldBoundaries(t *testing.T) {
	// "ab"+"c" and "a"+"bc" must not collide.
	fp1 := computeFingerprint([]Doc{{ID: "ab", Type: "c"}})
	fp2 := computeFingerprint([]Doc{{ID: "a", Type: "bc"}})

	if fp1 == fp2 {
		t.Error("field separator missing: fingerprints collided")
	}
}

func TestFingerprint_Empty(t *testing.T) {
	if computeFingerprint(nil) != computeFingerprint([]Doc{}) {
		t.Error("nil and empty doc sets should fingerprint the same")
	}
}
