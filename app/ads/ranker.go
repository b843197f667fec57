package ads

import (
	"sort"
)

type Ranker struct{}

func NewRanker() *Ranker {
	return &Ranker{}
}

// Rank filters ads to those with a transcript and sorts them by descending
// score, ties broken by descending duration. Ads without a start date keep
// duration 0 and sort last among equal scores.
func (r *Ranker) Rank(ads []*Ad) []*Ad {
	ranked := make([]*Ad, 0, len(ads))
	for _, ad := range ads {
		if ad.Transcript != "" {
			ranked = append(ranked, ad)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].DurationDays > ranked[j].DurationDays
	})

	return ranked
}

// BuildResult shapes the ranked ads into the payload consumed by the
// polling surface and the document renderer.
func (r *Ranker) BuildResult(ads []*Ad, variantCounts map[string]int, page PageInfo, filename string) *Result {
	ranked := r.Rank(ads)

	scripts := make([]Script, 0, len(ranked))
	uniqueCount := 0
	for _, ad := range ranked {
		if ad.IsOriginal {
			uniqueCount++
		}

		var duration *int
		if ad.StartDate != nil {
			d := ad.DurationDays
			duration = &d
		}

		similarity := 0
		if ad.SimilarityRatio > 0 {
			similarity = int(ad.SimilarityRatio * 100)
		}

		scripts = append(scripts, Script{
			Transcript: ad.Transcript,
			URL:        ad.URL,
			Score:      ad.Score,
			Duration:   duration,
			IsOriginal: ad.IsOriginal,
			Variants:   variantCounts[ad.ID],
			Similarity: similarity,
			AdText:     ad.AdText,
			CTAText:    ad.CTAText,
			CTALink:    ad.CTALink,
		})
	}

	pageName := page.Name
	if pageName == "" {
		pageName = "Page " + page.PageID
	}

	description := truncateRunes(page.Description, 200)

	return &Result{
		TotalScripts:    len(ranked),
		UniqueScripts:   uniqueCount,
		Filename:        filename,
		PageName:        pageName,
		PageDescription: description,
		Scripts:         scripts,
	}
}
