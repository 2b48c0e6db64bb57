package topics

import (
	"testing"
)

// axis returns a unit vector along the given axis in a 4-dim space, useful
// for constructing exact cosine similarities in tests.
func axis(i int) []float32 {
	v := make([]float32, 4)
	v[i] = 1

	return v
}

func TestSelectMMRPrefersRelevanceThenDiversity(t *testing.T) {
	doc := []float32{1, 0, 0, 0}

	candidates := []string{"aligned", "aligned twin", "orthogonal"}
	embeds := [][]float32{
		{1, 0, 0, 0},      // identical to doc
		{0.99, 0.1, 0, 0}, // near-duplicate of the first
		{0, 1, 0, 0},      // irrelevant but diverse
	}

	// A diversity-heavy lambda makes the redundancy penalty decisive.
	picks := SelectMMR(candidates, embeds, doc, 0.3, 3)
	if len(picks) != 3 {
		t.Fatalf("expected 3 picks, got %d", len(picks))
	}

	if picks[0].Phrase != "aligned" {
		t.Errorf("first pick = %q, want the document-aligned candidate", picks[0].Phrase)
	}

	// The near-duplicate is penalized by redundancy, so the orthogonal
	// candidate is selected second despite zero relevance.
	if picks[1].Phrase != "orthogonal" {
		t.Errorf("second pick = %q, want the diverse candidate", picks[1].Phrase)
	}

	if picks[0].Score <= picks[1].Score {
		t.Errorf("scores should decrease: %f then %f", picks[0].Score, picks[1].Score)
	}
}

func TestSelectMMRTieBreaksFirstOccurrence(t *testing.T) {
	doc := axis(0)
	candidates := []string{"first", "second", "third"}
	embeds := [][]float32{axis(1), axis(2), axis(3)} // all equally irrelevant

	picks := SelectMMR(candidates, embeds, doc, 0.7, 2)
	if len(picks) != 2 {
		t.Fatalf("expected 2 picks, got %d", len(picks))
	}

	if picks[0].Phrase != "first" || picks[1].Phrase != "second" {
		t.Errorf("tie-break should keep input order, got %q then %q", picks[0].Phrase, picks[1].Phrase)
	}
}

func TestSelectMMRDeterministic(t *testing.T) {
	doc := []float32{0.5, 0.5, 0, 0}
	candidates := []string{"a", "b", "c", "d"}
	embeds := [][]float32{axis(0), axis(1), axis(2), {0.7, 0.7, 0, 0}}

	first := SelectMMR(candidates, embeds, doc, 0.7, 4)

	for i := 0; i < 5; i++ {
		again := SelectMMR(candidates, embeds, doc, 0.7, 4)
		if len(again) != len(first) {
			t.Fatalf("run %d: length changed", i)
		}

		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d: pick %d changed from %+v to %+v", i, j, first[j], again[j])
			}
		}
	}
}

func TestSelectMMREdgeCases(t *testing.T) {
	doc := axis(0)

	if picks := SelectMMR(nil, nil, doc, 0.7, 5); picks != nil {
		t.Errorf("empty candidates should yield nil, got %v", picks)
	}

	if picks := SelectMMR([]string{"a"}, [][]float32{axis(0)}, doc, 0.7, 0); picks != nil {
		t.Errorf("topN=0 should yield nil, got %v", picks)
	}

	// Mismatched parallel slices are rejected rather than panicking.
	if picks := SelectMMR([]string{"a", "b"}, [][]float32{axis(0)}, doc, 0.7, 2); picks != nil {
		t.Errorf("mismatched embeds should yield nil, got %v", picks)
	}

	// Pool smaller than topN exhausts cleanly.
	picks := SelectMMR([]string{"only"}, [][]float32{axis(0)}, doc, 0.7, 10)
	if len(picks) != 1 || picks[0].Phrase != "only" {
		t.Errorf("expected single pick, got %v", picks)
	}
}
