package ads

import (
	"testing"
)

func makeAds(transcripts ...string) []*Ad {
	ads := make([]*Ad, len(transcripts))
	for i, tr := range transcripts {
		ads[i] = &Ad{
			ID:         "10000000000" + string(rune('0'+i)),
			Transcript: tr,
			IsOriginal: true,
		}
	}
	return ads
}

func TestClusterer_NearDuplicatesLinked(t *testing.T) {
	clusterer := NewClusterer()

	ads := makeAds(
		"Buy now and save big!",
		"Buy now and save big",
		"Completely different message about shoes",
	)

	clusterer.Run(ads)

	if !ads[0].IsOriginal {
		t.Errorf("First ad should be original")
	}
	if ads[1].IsOriginal {
		t.Errorf("Second ad should be a variant")
	}
	if ads[1].SimilarTo != ads[0].ID {
		t.Errorf("Expected second ad linked to %s, got %q", ads[0].ID, ads[1].SimilarTo)
	}
	if ads[1].SimilarityRatio < 0.9 {
		t.Errorf("Expected similarity above 0.9, got %f", ads[1].SimilarityRatio)
	}
	if !ads[2].IsOriginal {
		t.Errorf("Third ad should be original")
	}

	counts := VariantCounts(ads)
	if counts[ads[0].ID] != 1 {
		t.Errorf("Expected 1 variant for first ad, got %d", counts[ads[0].ID])
	}
	if counts[ads[2].ID] != 0 {
		t.Errorf("Expected 0 variants for third ad, got %d", counts[ads[2].ID])
	}
}

func TestClusterer_ThresholdInclusive(t *testing.T) {
	clusterer := NewClusterer()

	// Ratio("abcde", "abcxy") is exactly 0.6; the threshold is inclusive.
	ads := makeAds("abcde", "abcxy")
	clusterer.Run(ads)

	if ads[1].IsOriginal {
		t.Errorf("Ad at exactly the threshold should be linked as a variant")
	}
	if ads[1].SimilarityRatio != 0.6 {
		t.Errorf("Expected stored ratio 0.6, got %f", ads[1].SimilarityRatio)
	}
}

func TestClusterer_BelowThreshold(t *testing.T) {
	clusterer := NewClusterer()

	// Ratio("abcde", "abxyz") is 0.4; both ads stay original.
	ads := makeAds("abcde", "abxyz")
	clusterer.Run(ads)

	if !ads[0].IsOriginal || !ads[1].IsOriginal {
		t.Errorf("Ads below the threshold should both remain original")
	}
	if ads[1].SimilarTo != "" {
		t.Errorf("Expected no similarity link, got %q", ads[1].SimilarTo)
	}
}

func TestClusterer_CaseInsensitive(t *testing.T) {
	clusterer := NewClusterer()

	ads := makeAds("BUY NOW AND SAVE BIG", "buy now and save big")
	clusterer.Run(ads)

	if ads[1].IsOriginal {
		t.Errorf("Transcripts differing only by case should cluster together")
	}
	if ads[1].SimilarityRatio != 1.0 {
		t.Errorf("Expected ratio 1.0 after lower-casing, got %f", ads[1].SimilarityRatio)
	}
}

func TestClusterer_SkipsEmptyTranscripts(t *testing.T) {
	clusterer := NewClusterer()

	ads := makeAds("buy now and save big", "", "buy now and save big")
	clusterer.Run(ads)

	if ads[1].SimilarTo != "" {
		t.Errorf("Ad without transcript should never be linked")
	}
	if ads[2].IsOriginal {
		t.Errorf("Third ad should be a variant of the first")
	}
	if ads[2].SimilarTo != ads[0].ID {
		t.Errorf("Expected link to %s, got %q", ads[0].ID, ads[2].SimilarTo)
	}
}

func TestClusterer_FirstOriginalWins(t *testing.T) {
	clusterer := NewClusterer()

	// The middle ad matches both neighbors; it must link to the earliest
	// original and never become an original itself.
	ads := makeAds(
		"buy now and save big today",
		"buy now and save big",
		"buy now and save bigly",
	)
	clusterer.Run(ads)

	if ads[1].SimilarTo != ads[0].ID {
		t.Errorf("Second ad should link to the first, got %q", ads[1].SimilarTo)
	}
	if ads[2].SimilarTo != ads[0].ID {
		t.Errorf("Third ad should link to the first original, got %q", ads[2].SimilarTo)
	}

	counts := VariantCounts(ads)
	if counts[ads[0].ID] != 2 {
		t.Errorf("Expected 2 variants for the first ad, got %d", counts[ads[0].ID])
	}
}

func TestClusterer_Deterministic(t *testing.T) {
	clusterer := NewClusterer()

	build := func() []*Ad {
		return makeAds(
			"get fit in thirty days with our program",
			"get fit in 30 days with our program",
			"completely different message about shoes",
			"get fit in thirty days with our new program",
		)
	}

	first := build()
	clusterer.Run(first)

	for run := 0; run < 5; run++ {
		again := build()
		clusterer.Run(again)

		for i := range first {
			if first[i].IsOriginal != again[i].IsOriginal {
				t.Errorf("Run %d: originality of ad %d changed", run, i)
			}
			if first[i].SimilarTo != again[i].SimilarTo {
				t.Errorf("Run %d: similar_to of ad %d changed", run, i)
			}
			if first[i].SimilarityRatio != again[i].SimilarityRatio {
				t.Errorf("Run %d: similarity ratio of ad %d changed", run, i)
			}
		}
	}
}

func TestClusterer_Invariants(t *testing.T) {
	clusterer := NewClusterer()

	ads := makeAds(
		"buy now and save big!",
		"buy now and save big",
		"completely different message about shoes",
		"another unrelated script entirely, about cars",
		"buy now and save really big",
	)
	clusterer.Run(ads)

	for i, ad := range ads {
		if ad.IsOriginal {
			if ad.SimilarTo != "" {
				t.Errorf("Ad %d: original must not have similar_to set", i)
			}
			if ad.SimilarityRatio != 0 {
				t.Errorf("Ad %d: original must have zero similarity ratio", i)
			}
		} else {
			if ad.SimilarTo == "" {
				t.Errorf("Ad %d: variant must reference an original", i)
			}
			if ad.SimilarityRatio < 0 || ad.SimilarityRatio > 1 {
				t.Errorf("Ad %d: similarity ratio %f out of [0,1]", i, ad.SimilarityRatio)
			}
		}
	}
}
