package matching

import (
	"strings"

	"github.com/gradlane/gradlane/internal/models"
)

// SelectBalanced picks up to maxMatches jobs from a score-sorted candidate
// list while keeping every one of the user's target cities and career paths
// represented. Taking the naive top-N can starve a preference value entirely
// (all results from the single best-scoring city); instead a first pass
// admits jobs only into under-represented city/path slots, and a second pass
// fills whatever is left with the next best scores regardless of balance.
//
// The second pass can push a preference value slightly past its fair-share
// target from pass one. That imprecision is accepted behavior, not a bug.
func SelectBalanced(scored []ScoredJob, prefs *models.UserPreferences, maxMatches int, tables *Tables) []ScoredJob {
	if maxMatches <= 0 {
		return nil
	}

	multiCities := len(prefs.TargetCities) > 1
	multiPaths := len(prefs.CareerPaths) > 1

	if !multiCities && !multiPaths {
		return takeTop(scored, maxMatches)
	}

	cityTarget := 0
	if multiCities {
		cityTarget = maxMatches / len(prefs.TargetCities)
	}
	pathTarget := 0
	if multiPaths {
		pathTarget = maxMatches / len(prefs.CareerPaths)
	}

	cityCounts := map[string]int{}
	pathCounts := map[string]int{}
	seen := map[string]bool{}
	admitted := make([]bool, len(scored))

	var out []ScoredJob

	// Pass 1: admit only jobs filling an under-represented city slot and an
	// under-represented career-path slot.
	for i, sj := range scored {
		if len(out) >= maxMatches {
			break
		}
		key := dedupeKey(sj.Job)
		if seen[key] {
			continue
		}

		city := ""
		if multiCities {
			city = matchedCity(sj.Job, prefs.TargetCities)
			if city == "" || cityCounts[city] >= cityTarget {
				continue
			}
		}

		path := ""
		if multiPaths {
			path = matchedPath(sj.Job, prefs.CareerPaths, tables)
			if path == "" || pathCounts[path] >= pathTarget {
				continue
			}
		}

		seen[key] = true
		admitted[i] = true
		if city != "" {
			cityCounts[city]++
		}
		if path != "" {
			pathCounts[path]++
		}
		out = append(out, sj)
	}

	// Pass 2: top up with the next highest-scoring leftovers.
	for i, sj := range scored {
		if len(out) >= maxMatches {
			break
		}
		if admitted[i] {
			continue
		}
		key := dedupeKey(sj.Job)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, sj)
	}

	return out
}

func takeTop(scored []ScoredJob, n int) []ScoredJob {
	seen := map[string]bool{}
	var out []ScoredJob
	for _, sj := range scored {
		if len(out) >= n {
			break
		}
		key := dedupeKey(sj.Job)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, sj)
	}
	return out
}

func dedupeKey(job *models.Job) string {
	if job.JobURL != "" {
		return job.JobURL
	}
	if job.JobHash != "" {
		return job.JobHash
	}
	return job.ID
}

func matchedCity(job *models.Job, cities []string) string {
	jobCity := strings.ToLower(strings.TrimSpace(job.City))
	if jobCity == "" {
		return ""
	}
	for _, c := range cities {
		city := strings.ToLower(strings.TrimSpace(c))
		if city == "" {
			continue
		}
		if jobCity == city || strings.Contains(jobCity, city) || strings.Contains(city, jobCity) {
			return city
		}
	}
	return ""
}

func matchedPath(job *models.Job, paths []string, tables *Tables) string {
	for _, p := range paths {
		for _, cat := range job.Categories {
			if tables.CategoryMatchesPath(cat, p) >= 70 {
				return strings.ToLower(strings.TrimSpace(p))
			}
		}
	}
	return ""
}
