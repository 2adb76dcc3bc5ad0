package matching

import (
	"math"
	"strings"
	"time"

	"github.com/gradlane/gradlane/internal/models"
)

// Scoring primitives. Each takes one job and the user's preferences and
// returns a sub-score in [0, 100] for a single matching dimension.

// SkillsScore matches the user's comma-separated keyword list against the
// job title and description: 100 for a direct substring hit, 85 for a
// synonym hit, 70 for partial token overlap, plus a coverage bonus of up to
// 25 for matching many keywords.
func SkillsScore(job *models.Job, prefs *models.UserPreferences, t *Tables) float64 {
	keywords := splitKeywords(prefs.Skills)
	if len(keywords) == 0 {
		return 0
	}

	text := strings.ToLower(job.Title + " " + job.Description)
	words := strings.Fields(text)

	total := 0.0
	matched := 0
	for _, kw := range keywords {
		s := keywordScore(kw, text, words, t)
		if s > 0 {
			matched++
		}
		total += s
	}

	score := total/float64(len(keywords)) + math.Min(25, float64(matched)*4)
	return clamp(score, 0, 100)
}

func keywordScore(kw, text string, words []string, t *Tables) float64 {
	if strings.Contains(text, kw) {
		return 100
	}

	for _, syn := range t.SkillSynonyms[kw] {
		if strings.Contains(text, syn) {
			return 85
		}
	}

	if len(kw) > 3 {
		for _, w := range words {
			if len(w) <= 3 {
				continue
			}
			if strings.Contains(w, kw) || strings.Contains(kw, w) {
				return 70
			}
		}
	}

	return 0
}

func splitKeywords(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		kw := strings.ToLower(strings.TrimSpace(part))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

var experienceLevels = map[string]int{
	"internship": 0, "intern": 0,
	"entry": 1, "junior": 1, "graduate": 1,
	"mid": 2, "intermediate": 2,
	"senior": 3,
	"lead": 4, "principal": 4,
	"manager":  5,
	"director": 6,
}

const unknownExperienceLevel = 2

// ExperienceScore compares the user's stated seniority with the job's on an
// ordinal scale. A user two levels below the job still gets 65: stretch
// roles are plausible for early-career candidates.
func ExperienceScore(job *models.Job, prefs *models.UserPreferences) float64 {
	userRaw := strings.ToLower(strings.TrimSpace(prefs.EntryLevelPreference))
	jobRaw := strings.ToLower(strings.TrimSpace(job.ExperienceRequired))
	if userRaw == "" || jobRaw == "" {
		return 50
	}

	userLvl := experienceLevel(userRaw)
	jobLvl := experienceLevel(jobRaw)

	switch diff := jobLvl - userLvl; {
	case diff == 0:
		return 100
	case diff == 1 || diff == -1:
		return 80
	case diff == 2:
		return 65
	default:
		return 25
	}
}

func experienceLevel(raw string) int {
	if lvl, ok := experienceLevels[raw]; ok {
		return lvl
	}
	for label, lvl := range experienceLevels {
		if strings.Contains(raw, label) {
			return lvl
		}
	}
	return unknownExperienceLevel
}

// LocationScore is tiered: exact city 100, same country 75, both cities in
// the European hub set 50, remote/hybrid role 35, otherwise 15.
func LocationScore(job *models.Job, prefs *models.UserPreferences, t *Tables) float64 {
	if len(prefs.TargetCities) == 0 {
		return 50
	}

	jobCity := strings.ToLower(strings.TrimSpace(job.City))
	jobCountry := strings.ToLower(strings.TrimSpace(job.Country))

	if jobCity != "" {
		for _, c := range prefs.TargetCities {
			city := strings.ToLower(strings.TrimSpace(c))
			if city == "" {
				continue
			}
			if jobCity == city || strings.Contains(jobCity, city) || strings.Contains(city, jobCity) {
				return 100
			}
		}
	}

	for _, c := range prefs.TargetCities {
		city := strings.ToLower(strings.TrimSpace(c))
		if country, ok := t.CityCountries[city]; ok && jobCountry != "" && jobCountry == country {
			return 75
		}
	}

	if t.EuropeanHubs[jobCity] {
		for _, c := range prefs.TargetCities {
			if t.EuropeanHubs[strings.ToLower(strings.TrimSpace(c))] {
				return 50
			}
		}
	}

	if job.WorkEnvironment == models.WorkEnvRemote || job.WorkEnvironment == models.WorkEnvHybrid {
		return 35
	}

	return 15
}

// CareerScore aggregates per-category best matches across all of the user's
// career paths, with a coverage bonus for spanning many paths and a
// strong-match bonus for categories scoring 80+.
func CareerScore(job *models.Job, prefs *models.UserPreferences, t *Tables) float64 {
	if len(prefs.CareerPaths) == 0 || len(job.Categories) == 0 {
		return 40
	}

	total := 0.0
	strong := 0
	matchedPaths := map[string]bool{}

	for _, cat := range job.Categories {
		best := 0.0
		for _, path := range prefs.CareerPaths {
			s := t.CategoryMatchesPath(cat, path)
			if s > best {
				best = s
			}
			if s > 0 {
				matchedPaths[strings.ToLower(path)] = true
			}
		}
		total += best
		if best >= 80 {
			strong++
		}
	}

	avg := total / float64(len(job.Categories))
	coverage := 25 * float64(len(matchedPaths)) / float64(len(prefs.CareerPaths))
	strongBonus := math.Min(20, float64(strong)*5)

	return clamp(avg+coverage+strongBonus, 0, 100)
}

// RecencyScore is a step function on days since posting. A missing posted_at
// is treated as posted now.
func RecencyScore(job *models.Job, now time.Time) float64 {
	if job.PostedAt == nil {
		return 100
	}

	days := now.Sub(*job.PostedAt).Hours() / 24
	switch {
	case days <= 1:
		return 100
	case days <= 2:
		return 95
	case days <= 3:
		return 85
	case days <= 7:
		return 70
	case days <= 14:
		return 50
	case days <= 21:
		return 35
	case days <= 30:
		return 20
	case days <= 60:
		return 10
	default:
		return 5
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
