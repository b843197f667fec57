package ads

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SimilarityThreshold is the minimum transcript similarity for an ad to be
// considered a variant of an earlier one. Deliberately coarse: transcription
// noise must not fracture one ad script into several "unique" clusters.
const SimilarityThreshold = 0.6

type Clusterer struct{}

func NewClusterer() *Clusterer {
	return &Clusterer{}
}

// Run partitions ads with a non-empty transcript into originals and
// variants. Ads are processed strictly in discovery order: the first
// unassigned ad becomes an original, then every subsequent unassigned ad
// whose transcript similarity reaches the threshold is linked to it and
// excluded from becoming an original itself. Re-running on the same
// ordered input produces identical clusters.
func (c *Clusterer) Run(ads []*Ad) {
	withText := make([]*Ad, 0, len(ads))
	for _, ad := range ads {
		if ad.Transcript != "" {
			withText = append(withText, ad)
		}
	}

	assigned := make(map[string]bool, len(withText))

	for i, ad := range withText {
		if assigned[ad.ID] {
			continue
		}
		ad.IsOriginal = true
		assigned[ad.ID] = true

		for _, other := range withText[i+1:] {
			if assigned[other.ID] {
				continue
			}
			ratio := Ratio(normalizeTranscript(ad.Transcript), normalizeTranscript(other.Transcript))
			if ratio >= SimilarityThreshold {
				other.IsOriginal = false
				other.SimilarTo = ad.ID
				other.SimilarityRatio = ratio
				assigned[other.ID] = true
			}
		}
	}
}

// VariantCounts builds the representative -> variant count mapping from
// the flat SimilarTo relation. The implicit cluster around a
// representative has cardinality 1 + its count here.
func VariantCounts(ads []*Ad) map[string]int {
	counts := make(map[string]int)
	for _, ad := range ads {
		if ad.SimilarTo != "" {
			counts[ad.SimilarTo]++
		}
	}
	return counts
}

func normalizeTranscript(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
