package dashboard

import (
	"math"
	"sort"

	"github.com/VishardMehta/pullwise-ai/internal/github"
)

const (
	topReposLimit    = 10
	sizeRankingLimit = 8
)

// All aggregations here are pure single-pass reducers over the fetched
// repository list. They run fresh on every request and never mutate the
// input slice.

type LanguageCount struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

// LanguageDistribution groups repositories by primary language, skipping
// repositories with none. Percentages are of the languaged total, rounded to
// the nearest integer. First-seen order is preserved.
func LanguageDistribution(repos []github.Repository) []LanguageCount {
	var out []LanguageCount
	index := make(map[string]int)
	total := 0

	for _, repo := range repos {
		if repo.Language == "" {
			continue
		}
		total++
		if i, ok := index[repo.Language]; ok {
			out[i].Count++
		} else {
			index[repo.Language] = len(out)
			out = append(out, LanguageCount{Name: repo.Language, Count: 1})
		}
	}

	for i := range out {
		out[i].Percent = int(math.Round(float64(out[i].Count) / float64(total) * 100))
	}
	return out
}

// TopByStars returns the ten most-starred repositories. The sort is stable:
// equal star counts keep their input order.
func TopByStars(repos []github.Repository) []github.Repository {
	sorted := make([]github.Repository, len(repos))
	copy(sorted, repos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StargazersCount > sorted[j].StargazersCount
	})
	if len(sorted) > topReposLimit {
		sorted = sorted[:topReposLimit]
	}
	return sorted
}

type SizeEntry struct {
	Name   string  `json:"name"`
	SizeMB float64 `json:"size_mb"`
}

// SizeRanking returns the eight largest repositories with sizes converted
// from kilobytes to megabytes at two decimals. Long names are shortened for
// chart labels.
func SizeRanking(repos []github.Repository) []SizeEntry {
	sorted := make([]github.Repository, len(repos))
	copy(sorted, repos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Size > sorted[j].Size
	})
	if len(sorted) > sizeRankingLimit {
		sorted = sorted[:sizeRankingLimit]
	}

	out := make([]SizeEntry, 0, len(sorted))
	for _, repo := range sorted {
		out = append(out, SizeEntry{
			Name:   displayName(repo.Name),
			SizeMB: math.Round(float64(repo.Size)/1024*100) / 100,
		})
	}
	return out
}

func displayName(name string) string {
	runes := []rune(name)
	if len(runes) > 15 {
		return string(runes[:12]) + "..."
	}
	return name
}

type Totals struct {
	Repositories int     `json:"repositories"`
	Stars        int     `json:"stars"`
	Forks        int     `json:"forks"`
	AverageStars float64 `json:"average_stars"`
}

// Summarize computes the overview counters. An empty list yields zeros, never
// a division by zero.
func Summarize(repos []github.Repository) Totals {
	t := Totals{Repositories: len(repos)}
	for _, repo := range repos {
		t.Stars += repo.StargazersCount
		t.Forks += repo.ForksCount
	}
	if len(repos) > 0 {
		t.AverageStars = math.Round(float64(t.Stars)/float64(len(repos))*10) / 10
	}
	return t
}
