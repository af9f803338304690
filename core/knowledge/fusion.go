package knowledge

import "sort"

// rrfConstant is the k constant for Reciprocal Rank Fusion. A value of 60
// is commonly used in information retrieval.
const rrfConstant = 60

// FuseRRF merges two ranked result lists using Reciprocal Rank Fusion.
// Each document's fused score is the sum of 1/(k+rank+1) over the lists it
// appears in; document metadata is taken from whichever list saw it first.
// The fused ordering is for display only and carries no relevance semantics
// beyond rank agreement.
func FuseRRF(vectorResults, keywordResults []Match) []Match {
	fused := make(map[string]float64)
	byID := make(map[string]Match)
	var order []string

	accumulate := func(results []Match) {
		for rank, m := range results {
			if _, seen := byID[m.ID]; !seen {
				byID[m.ID] = m
				order = append(order, m.ID)
			}
			fused[m.ID] += 1.0 / float64(rrfConstant+rank+1)
		}
	}
	accumulate(vectorResults)
	accumulate(keywordResults)

	merged := make([]Match, 0, len(order))
	for _, id := range order {
		m := byID[id]
		m.Score = fused[id]
		merged = append(merged, m)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	return merged
}
