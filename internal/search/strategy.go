package search

import "github.com/glefebvre/cinescout/internal/models"

// Strategy identifies which search path a run takes.
type Strategy string

const (
	// StrategyPlain is a single catalog search for the raw query.
	StrategyPlain Strategy = "plain"
	// StrategyGenre fans out over sampled popular titles for a genre.
	StrategyGenre Strategy = "genre"
	// StrategyRegion fans out over regional proxy terms and keeps only
	// titles the classifier places in the requested region.
	StrategyRegion Strategy = "region"
)

// SelectStrategy decides the search path for the current filter state.
// A concrete region wins over everything; a genre with no mood behind it
// takes the genre path when a curated pool exists; anything else is a
// plain search.
func SelectStrategy(filters models.FilterState) Strategy {
	if filters.HasRegion() {
		return StrategyRegion
	}
	if filters.Genre != "" && filters.Mood == "" && HasTermPool(filters.Genre) {
		return StrategyGenre
	}
	return StrategyPlain
}
