package matching

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gradlane/gradlane/internal/cache"
	"github.com/gradlane/gradlane/internal/models"
	"github.com/gradlane/gradlane/internal/providers/llm"
)

const (
	rankerSystemRole = "You are an experienced career counselor matching early-career " +
		"candidates to job postings. You respond only with the requested JSON object."

	rankerTemperature = 0.3
	rankerMaxTokens   = 2048

	// Pause between consecutive reasoning-service calls to respect rate limits.
	defaultCallPause = time.Second

	defaultCallTimeout = 30 * time.Second

	rankCacheTTL    = time.Hour
	rankCachePrefix = "matchrank:"
)

// RankedMatch is the common output shape of the AI and fallback paths.
type RankedMatch struct {
	Job        *models.Job
	Score      float64 // 0-100
	Confidence float64
	Reason     string
}

// parsedMatch is the canonical form of one reasoning-service match entry,
// normalized at the service boundary. JobIndex is zero-based within the
// submitted batch.
type parsedMatch struct {
	JobIndex   int     `json:"job_index"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Ranker builds tier-specific prompts, invokes the reasoning service in
// paced batches, and parses the structured ranking response. It never
// returns an error: any failure degrades to an empty result so the caller
// can fall back to rule-based scoring.
type Ranker struct {
	provider llm.Provider
	cache    cache.Cache
	log      *logrus.Logger

	callPause   time.Duration
	callTimeout time.Duration
}

func NewRanker(provider llm.Provider, c cache.Cache, log *logrus.Logger) *Ranker {
	if log == nil {
		log = logrus.New()
	}
	return &Ranker{
		provider:    provider,
		cache:       c,
		log:         log,
		callPause:   defaultCallPause,
		callTimeout: defaultCallTimeout,
	}
}

// Rank submits the candidate pool in consecutive calls of cfg.MaxJobsForAI
// jobs, pausing between calls, and stops once the tier's match target is
// met or the pool is exhausted.
func (r *Ranker) Rank(ctx context.Context, prefs *models.UserPreferences, jobs []*models.Job, cfg MatchingConfig) []RankedMatch {
	if !cfg.UseAI || r.provider == nil || len(jobs) == 0 {
		return nil
	}

	batchSize := cfg.MaxJobsForAI
	if batchSize <= 0 {
		batchSize = len(jobs)
	}

	var out []RankedMatch
	for start := 0; start < len(jobs); start += batchSize {
		if start > 0 {
			select {
			case <-ctx.Done():
				return out
			case <-time.After(r.callPause):
			}
		}

		end := start + batchSize
		if end > len(jobs) {
			end = len(jobs)
		}
		out = append(out, r.rankBatch(ctx, prefs, jobs[start:end], cfg)...)

		if len(out) >= cfg.MaxMatches {
			break
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func (r *Ranker) rankBatch(ctx context.Context, prefs *models.UserPreferences, batch []*models.Job, cfg MatchingConfig) []RankedMatch {
	key := rankCacheKey(prefs.Email, batch)

	var parsed []parsedMatch
	if r.cache != nil {
		if hit, err := r.cache.GetJSON(ctx, key, &parsed); err == nil && hit {
			return r.toMatches(parsed, batch)
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	raw, err := r.provider.Complete(callCtx, llm.Request{
		SystemRole:  rankerSystemRole,
		Prompt:      buildPrompt(prefs, batch, cfg),
		Temperature: rankerTemperature,
		MaxTokens:   rankerMaxTokens,
	})
	if err != nil {
		r.log.WithError(err).WithField("batch_size", len(batch)).Warn("reasoning service call failed")
		return nil
	}

	parsed = parseRankingResponse(raw, len(batch), cfg.AIMinScore)
	if len(parsed) == 0 {
		r.log.WithField("batch_size", len(batch)).Warn("reasoning service returned no usable matches")
		return nil
	}

	if r.cache != nil {
		if err := r.cache.SetJSON(ctx, key, parsed, rankCacheTTL); err != nil {
			r.log.WithError(err).Debug("ranking cache write failed")
		}
	}

	return r.toMatches(parsed, batch)
}

func (r *Ranker) toMatches(parsed []parsedMatch, batch []*models.Job) []RankedMatch {
	out := make([]RankedMatch, 0, len(parsed))
	for _, m := range parsed {
		if m.JobIndex < 0 || m.JobIndex >= len(batch) {
			continue
		}
		out = append(out, RankedMatch{
			Job:        batch[m.JobIndex],
			Score:      m.Score,
			Confidence: m.Confidence,
			Reason:     m.Reason,
		})
	}
	return out
}

// rankCacheKey fingerprints one user + job batch so repeated signups with
// identical inputs reuse the previous ranking within the TTL.
func rankCacheKey(email string, batch []*models.Job) string {
	entries := make([]string, 0, len(batch))
	for _, j := range batch {
		entries = append(entries, strings.ToLower(j.Title)+"|"+strings.ToLower(j.Company))
	}
	sort.Strings(entries)

	h := sha256.Sum256([]byte(email + "::" + strings.Join(entries, ";")))
	return rankCachePrefix + fmt.Sprintf("%x", h[:16])
}

func buildPrompt(prefs *models.UserPreferences, batch []*models.Job, cfg MatchingConfig) string {
	var b strings.Builder

	b.WriteString("Act as a career counselor selecting the best job matches for a candidate.\n\n")

	b.WriteString("Candidate profile:\n")
	fmt.Fprintf(&b, "- Target cities: %s\n", strings.Join(prefs.TargetCities, ", "))
	fmt.Fprintf(&b, "- Career path(s): %s\n", strings.Join(prefs.CareerPaths, ", "))
	if prefs.Skills != "" {
		fmt.Fprintf(&b, "- Skills: %s\n", prefs.Skills)
	}

	if cfg.IsPremium() {
		if len(prefs.LanguagesSpoken) > 0 {
			fmt.Fprintf(&b, "- Languages spoken: %s\n", strings.Join(prefs.LanguagesSpoken, ", "))
		}
		if prefs.WorkEnvironment != "" && prefs.WorkEnvironment != models.WorkEnvUnclear {
			fmt.Fprintf(&b, "- Preferred work environment: %s\n", prefs.WorkEnvironment)
		}
		if prefs.EntryLevelPreference != "" {
			fmt.Fprintf(&b, "- Seniority preference: %s\n", prefs.EntryLevelPreference)
		}
		if prefs.VisaStatus != "" {
			fmt.Fprintf(&b, "- Visa status: %s (only jobs offering sponsorship are acceptable)\n", prefs.VisaStatus)
		}
	}

	fmt.Fprintf(&b, "\nOnly consider jobs posted within the last %d days.\n", cfg.JobFreshnessDays)

	if cfg.IsPremium() {
		fmt.Fprintf(&b, "Weight posting freshness and alignment with every listed career path most heavily, "+
			"then location, then skills.\n")
		fmt.Fprintf(&b, "Select up to %d matches. Include a job only if its matchScore is at least %d "+
			"and your confidenceScore is at least %d.\n",
			cfg.MaxMatches, cfg.AIScoreFloor, cfg.AIConfidenceFloor)
	} else {
		b.WriteString("Weight career-path alignment and location most heavily, then skills, then freshness.\n")
		fmt.Fprintf(&b, "Select exactly %d matches, or fewer only if fewer jobs are suitable.\n", cfg.MaxMatches)
	}

	b.WriteString("\nJobs:\n")
	now := time.Now()
	for i, j := range batch {
		age := "posting date unknown"
		if j.PostedAt != nil {
			age = fmt.Sprintf("posted %d days ago", int(now.Sub(*j.PostedAt).Hours()/24))
		}
		fmt.Fprintf(&b, "%d. %s at %s (%s, %s) [%s] %s\n",
			i+1, j.Title, j.Company, j.City, j.Country, strings.Join(j.Categories, ", "), age)
	}

	b.WriteString("\nRespond with a JSON object of the form " +
		`{"matches":[{"jobIndex":<number from the list above>,"matchScore":0-100,` +
		`"confidenceScore":0-100,"matchReason":"..."}]}` + " and nothing else.\n")

	return b.String()
}

// parseRankingResponse defensively parses the reasoning-service output:
// markdown fences are stripped, the outermost {...} span is located, the
// known "matche" typo is tolerated, field-name variants are normalized, and
// entries with out-of-range indices or scores below minScore are discarded.
// A response that cannot be parsed yields an empty slice, never a panic.
func parseRankingResponse(raw string, batchLen int, minScore float64) []parsedMatch {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return nil
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil
	}

	entries, ok := data["matches"].([]any)
	if !ok {
		entries, ok = data["matche"].([]any)
	}
	if !ok {
		return nil
	}

	var out []parsedMatch
	for _, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		m, ok := normalizeMatch(entry, batchLen)
		if !ok || m.Score < minScore {
			continue
		}
		out = append(out, m)
	}
	return out
}

// normalizeMatch maps the dynamic field-name variants of one match entry
// onto the canonical struct, once, at the boundary.
func normalizeMatch(entry map[string]any, batchLen int) (parsedMatch, bool) {
	idx, ok := firstNumber(entry, "jobIndex", "job_index", "index")
	if !ok {
		return parsedMatch{}, false
	}

	// Prompts number jobs from 1; tolerate zero-based replies.
	jobIndex := int(idx) - 1
	if int(idx) == 0 {
		jobIndex = 0
	}
	if jobIndex < 0 || jobIndex >= batchLen {
		return parsedMatch{}, false
	}

	score, ok := firstNumber(entry, "matchScore", "match_score", "score")
	if !ok {
		return parsedMatch{}, false
	}

	confidence, ok := firstNumber(entry, "confidenceScore", "confidence_score", "confidence")
	if !ok {
		confidence = score
	}

	reason := firstString(entry, "matchReason", "match_reason", "reason")

	return parsedMatch{
		JobIndex:   jobIndex,
		Score:      clamp(score, 0, 100),
		Confidence: clamp(confidence, 0, 100),
		Reason:     reason,
	}, true
}

func firstNumber(entry map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := entry[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case string:
			var f float64
			if _, err := fmt.Sscanf(strings.TrimSpace(n), "%g", &f); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func firstString(entry map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := entry[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// extractJSON strips markdown code fences and returns the outermost {...}
// span of the response, or "" if none exists.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.TrimSpace(raw)

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return raw[start : end+1]
}
