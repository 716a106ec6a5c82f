package news

import (
	"strings"

	"github.com/chipsight/chipsight/pkg/models"
)

// dedupThreshold is the Jaccard similarity above which two titles are
// treated as the same article.
const dedupThreshold = 0.7

// Dedup removes near-duplicate articles by comparing title word sets. The
// first occurrence of each article is kept, so upstream ordering decides
// which provider's copy survives.
func Dedup(items []models.NewsItem) []models.NewsItem {
	var unique []models.NewsItem
	var wordSets []map[string]bool

	for _, item := range items {
		words := titleWords(item.Title)
		dup := false
		for _, existing := range wordSets {
			if jaccard(words, existing) > dedupThreshold {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		unique = append(unique, item)
		wordSets = append(wordSets, words)
	}
	return unique
}

func titleWords(title string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(title)) {
		set[w] = true
	}
	return set
}

// jaccard computes |a∩b| / |a∪b|. Two empty sets are not similar.
func jaccard(a, b map[string]bool) float64 {
	union := len(b)
	inter := 0
	for w := range a {
		if b[w] {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
