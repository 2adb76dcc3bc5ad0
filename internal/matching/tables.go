package matching

import "strings"

// Tables holds the static associative data the scoring primitives and tier
// filters depend on. It is injected rather than referenced as package state
// so the primitives stay pure functions of (job, preferences, tables).
type Tables struct {
	// Keyword -> synonyms that count as a near-match in job text.
	SkillSynonyms map[string][]string

	// Career path -> category labels assigned at ingestion time.
	CareerCategories map[string][]string

	// Career path -> loose synonyms for substring matching.
	CareerSynonyms map[string][]string

	// Lowercased city names considered well-connected European hubs.
	EuropeanHubs map[string]bool

	// Lowercased city -> lowercased country, for country-level location
	// scoring of the user's target cities.
	CityCountries map[string]string
}

func DefaultTables() *Tables {
	return &Tables{
		SkillSynonyms: map[string][]string{
			"javascript": {"js", "react", "node", "typescript", "vue", "angular", "frontend"},
			"python":     {"django", "flask", "pandas", "numpy", "fastapi"},
			"java":       {"spring", "kotlin", "jvm"},
			"golang":     {"go developer", "go backend"},
			"sql":        {"postgres", "postgresql", "mysql", "database"},
			"cloud":      {"aws", "gcp", "azure", "kubernetes", "docker"},
			"data":       {"analytics", "tableau", "power bi", "etl", "machine learning"},
			"marketing":  {"seo", "sem", "content", "social media", "branding", "campaign"},
			"sales":      {"business development", "account management", "crm", "lead generation"},
			"finance":    {"accounting", "audit", "fp&a", "controlling", "valuation"},
			"design":     {"figma", "ux", "ui", "prototyping", "user research"},
			"consulting": {"strategy", "advisory", "stakeholder", "transformation"},
		},
		CareerCategories: map[string][]string{
			"tech":                {"tech", "software-engineering", "engineering", "it", "devops", "tech-transformation"},
			"data":                {"data", "data-science", "analytics", "machine-learning"},
			"marketing":           {"marketing", "growth", "communications", "pr"},
			"sales":               {"sales", "business-development", "account-management"},
			"finance":             {"finance", "accounting", "banking", "audit"},
			"consulting":          {"consulting", "strategy", "advisory"},
			"design":              {"design", "ux", "product-design"},
			"product":             {"product", "product-management"},
			"operations":          {"operations", "supply-chain", "logistics", "project-management"},
			"hr":                  {"hr", "people", "recruiting", "talent"},
			"legal":               {"legal", "compliance"},
			"tech-transformation": {"tech-transformation", "digital-transformation", "it", "tech"},
		},
		CareerSynonyms: map[string][]string{
			"tech":                {"software", "developer", "engineer", "programming"},
			"data":                {"analyst", "analytics", "science"},
			"marketing":           {"brand", "content", "digital"},
			"sales":               {"commercial", "revenue"},
			"finance":             {"financial", "investment"},
			"consulting":          {"consultant", "advisory"},
			"design":              {"creative", "designer"},
			"product":             {"product"},
			"operations":          {"operational", "logistics"},
			"hr":                  {"human resources", "people"},
			"legal":               {"law", "counsel"},
			"tech-transformation": {"transformation", "digitalisation", "modernisation"},
		},
		EuropeanHubs: map[string]bool{
			"london": true, "berlin": true, "paris": true, "amsterdam": true,
			"munich": true, "dublin": true, "madrid": true, "barcelona": true,
			"zurich": true, "stockholm": true, "copenhagen": true, "vienna": true,
			"brussels": true, "lisbon": true, "milan": true, "prague": true,
			"warsaw": true, "hamburg": true, "frankfurt": true,
		},
		CityCountries: map[string]string{
			"london": "united kingdom", "manchester": "united kingdom",
			"berlin": "germany", "munich": "germany", "hamburg": "germany", "frankfurt": "germany",
			"paris": "france", "amsterdam": "netherlands", "dublin": "ireland",
			"madrid": "spain", "barcelona": "spain", "zurich": "switzerland",
			"stockholm": "sweden", "copenhagen": "denmark", "vienna": "austria",
			"brussels": "belgium", "lisbon": "portugal", "milan": "italy",
			"prague": "czechia", "warsaw": "poland",
		},
	}
}

// CategoryMatchesPath reports how strongly a single job category matches a
// career path: 100 exact mapping membership, 90 synonym substring, 70 partial
// word overlap, 0 otherwise. Shared by the career-path primitive, the premium
// filter, and the balanced distribution selector.
func (t *Tables) CategoryMatchesPath(category, path string) float64 {
	category = strings.ToLower(strings.TrimSpace(category))
	path = strings.ToLower(strings.TrimSpace(path))
	if category == "" || path == "" {
		return 0
	}

	for _, mapped := range t.CareerCategories[path] {
		if category == mapped {
			return 100
		}
	}

	for _, syn := range t.CareerSynonyms[path] {
		if strings.Contains(category, syn) || strings.Contains(syn, category) {
			return 90
		}
	}

	for _, cw := range splitWords(category) {
		if len(cw) <= 3 {
			continue
		}
		for _, pw := range splitWords(path) {
			if len(pw) <= 3 {
				continue
			}
			if strings.Contains(cw, pw) || strings.Contains(pw, cw) {
				return 70
			}
		}
	}

	return 0
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '/'
	})
}
