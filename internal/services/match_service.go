package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gradlane/gradlane/internal/matching"
	"github.com/gradlane/gradlane/internal/models"
	pgrepo "github.com/gradlane/gradlane/internal/repositories/postgres"
	"github.com/gradlane/gradlane/internal/utils"
)

const (
	StatusMatched        = "matched"
	StatusNoJobs         = "no_jobs"
	StatusAlreadyMatched = "already_matched"
	StatusDatabaseError  = "database_error"
)

// MatchOutcome is the user-visible result of one signup matching run. A
// signup never surfaces a raw error: it resolves to matched, a legitimate
// zero-match outcome, or an explicit database-error status inviting retry.
type MatchOutcome struct {
	Status     string            `json:"status"`
	Method     string            `json:"method,omitempty"`
	MatchCount int               `json:"match_count"`
	Matches    []models.JobMatch `json:"matches,omitempty"`
}

type MatchService interface {
	// RunSignupMatching executes the full signup matching pipeline for the
	// user identified by email: idempotency check, job fetch, tier strategy
	// dispatch, persistence.
	RunSignupMatching(ctx context.Context, email string) (*MatchOutcome, error)
	ListMatches(ctx context.Context, userID string) ([]models.JobMatch, error)
}

type matchService struct {
	users   pgrepo.UserRepository
	prefs   pgrepo.PreferencesRepository
	jobs    pgrepo.JobRepository
	matches pgrepo.MatchRepository

	free    matching.Strategy
	premium matching.Strategy

	log *logrus.Logger
	now func() time.Time
}

func NewMatchService(
	users pgrepo.UserRepository,
	prefs pgrepo.PreferencesRepository,
	jobs pgrepo.JobRepository,
	matches pgrepo.MatchRepository,
	free matching.Strategy,
	premium matching.Strategy,
	log *logrus.Logger,
) MatchService {
	if log == nil {
		log = logrus.New()
	}
	return &matchService{
		users:   users,
		prefs:   prefs,
		jobs:    jobs,
		matches: matches,
		free:    free,
		premium: premium,
		log:     log,
		now:     time.Now,
	}
}

func (s *matchService) RunSignupMatching(ctx context.Context, email string) (*MatchOutcome, error) {
	const op = "MatchService.RunSignupMatching"

	if email == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "email is required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to resolve user", err)
	}

	cfg, err := matching.ConfigForTier(user.SubscriptionTier)
	if err != nil {
		return nil, err
	}

	// The idempotency check must be observed before any job fetch or AI
	// call: it is the sole defense against duplicate-match races from
	// retried signups or concurrent verification webhooks.
	existing, err := s.matches.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to check existing matches", err)
	}
	if existing > 0 {
		s.log.WithFields(logrus.Fields{
			"email": email,
			"count": existing,
		}).Info("matches already exist, skipping")
		return &MatchOutcome{
			Status:     StatusAlreadyMatched,
			Method:     matching.MethodIdempotent,
			MatchCount: int(existing),
		}, nil
	}

	prefs, err := s.prefs.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeInvalidArgument, op, "user has no preferences", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load preferences", err)
	}
	prefs.Email = user.Email
	prefs.SubscriptionTier = user.SubscriptionTier

	query := pgrepo.CandidateQuery{
		FreshSince: s.now().AddDate(0, 0, -cfg.JobFreshnessDays),
		Limit:      cfg.MaxJobsToFetch,
	}
	if !cfg.IsPremium() {
		// Push city filtering into the fetch for the free tier.
		query.Cities = prefs.TargetCities
	}

	jobs, err := s.jobs.FindCandidates(ctx, query)
	if err != nil {
		// Distinct from a legitimate zero-match outcome: the caller can
		// offer a retry.
		s.log.WithError(err).WithField("email", email).Error("candidate job fetch failed")
		return &MatchOutcome{Status: StatusDatabaseError}, nil
	}
	if len(jobs) == 0 {
		return &MatchOutcome{Status: StatusNoJobs}, nil
	}

	strategy := s.free
	if cfg.IsPremium() {
		strategy = s.premium
	}

	result := strategy.Match(ctx, prefs, jobs, cfg)
	if len(result.Matches) == 0 {
		return &MatchOutcome{Status: StatusNoJobs, Method: result.Method}, nil
	}

	rows := s.buildRows(user.ID, result)
	if err := s.persist(ctx, user, rows); err != nil {
		return nil, err
	}

	return &MatchOutcome{
		Status:     StatusMatched,
		Method:     result.Method,
		MatchCount: len(rows),
		Matches:    rows,
	}, nil
}

func (s *matchService) buildRows(userID string, result matching.StrategyResult) []models.JobMatch {
	now := s.now()
	rows := make([]models.JobMatch, 0, len(result.Matches))
	for _, m := range result.Matches {
		rows = append(rows, models.JobMatch{
			ID:          uuid.NewString(),
			UserID:      userID,
			JobID:       m.Job.ID,
			MatchScore:  normalizeScore(m.Score),
			MatchReason: m.Reason,
			Method:      result.Method,
			CreatedAt:   now,
		})
	}
	return rows
}

// persist applies tier-dependent durability: free-tier saves are
// best-effort (the user still sees their matches), premium saves are a hard
// requirement before the signup counts as complete.
func (s *matchService) persist(ctx context.Context, user *models.User, rows []models.JobMatch) error {
	const op = "MatchService.persist"

	if user.SubscriptionTier == models.TierFree {
		if err := s.matches.UpsertBatch(ctx, rows); err != nil {
			s.log.WithError(err).WithField("email", user.Email).
				Warn("failed to persist free-tier matches, continuing")
		}
		return nil
	}

	ok, err := s.users.Exists(ctx, user.ID)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to verify user before insert", err)
	}
	if !ok {
		return utils.E(utils.CodeNotFound, op, "user no longer exists", nil)
	}
	if err := s.matches.UpsertBatch(ctx, rows); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to persist premium matches", err)
	}
	return nil
}

func (s *matchService) ListMatches(ctx context.Context, userID string) ([]models.JobMatch, error) {
	const op = "MatchService.ListMatches"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	rows, err := s.matches.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list matches", err)
	}
	return rows, nil
}

// normalizeScore converts the core's 0-100 scale to the persisted 0-1 scale.
func normalizeScore(score float64) float64 {
	s := score / 100
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
