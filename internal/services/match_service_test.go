package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradlane/gradlane/internal/matching"
	"github.com/gradlane/gradlane/internal/models"
	pgrepo "github.com/gradlane/gradlane/internal/repositories/postgres"
	"github.com/gradlane/gradlane/internal/utils"
)

type fakeUserRepo struct {
	users     map[string]*models.User // by email
	exists    bool
	existsErr error
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	f.users[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, utils.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeUserRepo) Exists(_ context.Context, _ string) (bool, error) {
	return f.exists, f.existsErr
}

type fakePrefsRepo struct {
	prefs *models.UserPreferences
}

func (f *fakePrefsRepo) GetByUserID(_ context.Context, userID string) (*models.UserPreferences, error) {
	if f.prefs == nil || f.prefs.UserID != userID {
		return nil, utils.ErrNotFound
	}
	return f.prefs, nil
}

func (f *fakePrefsRepo) Upsert(_ context.Context, p *models.UserPreferences) error {
	f.prefs = p
	return nil
}

type fakeJobRepo struct {
	jobs    []*models.Job
	err     error
	queries int
	last    pgrepo.CandidateQuery
}

func (f *fakeJobRepo) FindCandidates(_ context.Context, q pgrepo.CandidateQuery) ([]*models.Job, error) {
	f.queries++
	f.last = q
	return f.jobs, f.err
}

type fakeMatchRepo struct {
	count     int64
	countErr  error
	upsertErr error
	saved     []models.JobMatch
	listOut   []models.JobMatch
	listErr   error
}

func (f *fakeMatchRepo) CountByUser(_ context.Context, _ string) (int64, error) {
	return f.count, f.countErr
}

func (f *fakeMatchRepo) UpsertBatch(_ context.Context, matches []models.JobMatch) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.saved = append(f.saved, matches...)
	return nil
}

func (f *fakeMatchRepo) ListByUser(_ context.Context, _ string) ([]models.JobMatch, error) {
	return f.listOut, f.listErr
}

type fakeStrategy struct {
	result matching.StrategyResult
	calls  int
}

func (f *fakeStrategy) Match(_ context.Context, _ *models.UserPreferences, _ []*models.Job, _ matching.MatchingConfig) matching.StrategyResult {
	f.calls++
	return f.result
}

type serviceFixture struct {
	users   *fakeUserRepo
	prefs   *fakePrefsRepo
	jobs    *fakeJobRepo
	matches *fakeMatchRepo
	free    *fakeStrategy
	premium *fakeStrategy
	svc     MatchService
}

func newFixture(tier models.SubscriptionTier) *serviceFixture {
	user := &models.User{ID: "user-1", Email: "u@example.com", SubscriptionTier: tier}
	f := &serviceFixture{
		users: &fakeUserRepo{users: map[string]*models.User{user.Email: user}, exists: true},
		prefs: &fakePrefsRepo{prefs: &models.UserPreferences{
			UserID:       "user-1",
			TargetCities: []string{"Berlin"},
			CareerPaths:  []string{"tech"},
		}},
		jobs:    &fakeJobRepo{jobs: []*models.Job{{ID: "job-1", Title: "Python Developer"}}},
		matches: &fakeMatchRepo{},
		free:    &fakeStrategy{},
		premium: &fakeStrategy{},
	}
	f.svc = NewMatchService(f.users, f.prefs, f.jobs, f.matches, f.free, f.premium, nil)
	return f
}

func aiResult(score float64) matching.StrategyResult {
	return matching.StrategyResult{
		Matches: []matching.RankedMatch{{
			Job:        &models.Job{ID: "job-1"},
			Score:      score,
			Confidence: 90,
			Reason:     "strong fit",
		}},
		Method: matching.MethodAI,
	}
}

func TestRunSignupMatchingIdempotent(t *testing.T) {
	f := newFixture(models.TierFree)
	f.matches.count = 4

	out, err := f.svc.RunSignupMatching(context.Background(), "u@example.com")
	require.NoError(t, err)

	assert.Equal(t, StatusAlreadyMatched, out.Status)
	assert.Equal(t, matching.MethodIdempotent, out.Method)
	assert.Equal(t, 4, out.MatchCount)
	assert.Equal(t, 0, f.free.calls, "no strategy work on repeat signup")
	assert.Equal(t, 0, f.jobs.queries, "no job fetch on repeat signup")
}

func TestRunSignupMatchingUnknownUser(t *testing.T) {
	f := newFixture(models.TierFree)

	_, err := f.svc.RunSignupMatching(context.Background(), "ghost@example.com")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestRunSignupMatchingUnknownTier(t *testing.T) {
	f := newFixture(models.SubscriptionTier("enterprise"))

	_, err := f.svc.RunSignupMatching(context.Background(), "u@example.com")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestRunSignupMatchingMissingPreferences(t *testing.T) {
	f := newFixture(models.TierFree)
	f.prefs.prefs = nil

	_, err := f.svc.RunSignupMatching(context.Background(), "u@example.com")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestRunSignupMatchingFetchFailure(t *testing.T) {
	f := newFixture(models.TierFree)
	f.jobs.err = errors.New("connection refused")

	out, err := f.svc.RunSignupMatching(context.Background(), "u@example.com")
	require.NoError(t, err, "a fetch failure is an outcome, not an error")
	assert.Equal(t, StatusDatabaseError, out.Status)
	assert.Equal(t, 0, f.free.calls)
}

func TestRunSignupMatchingNoCandidates(t *testing.T) {
	f := newFixture(models.TierFree)
	f.jobs.jobs = nil

	out, err := f.svc.RunSignupMatching(context.Background(), "u@example.com")
	require.NoError(t, err)
	assert.Equal(t, StatusNoJobs, out.Status)
}

func TestRunSignupMatchingZeroStrategyYield(t *testing.T) {
	f := newFixture(models.TierFree)
	f.free.result = matching.StrategyResult{Method: matching.MethodFallback}

	out, err := f.svc.RunSignupMatching(context.Background(), "u@example.com")
	require.NoError(t, err)
	assert.Equal(t, StatusNoJobs, out.Status)
	assert.Equal(t, matching.MethodFallback, out.Method)
}

func TestRunSignupMatchingFreeTier(t *testing.T) {
	f := newFixture(models.TierFree)
	f.free.result = aiResult(84)

	out, err := f.svc.RunSignupMatching(context.Background(), "u@example.com")
	require.NoError(t, err)

	assert.Equal(t, StatusMatched, out.Status)
	assert.Equal(t, matching.MethodAI, out.Method)
	assert.Equal(t, 1, out.MatchCount)
	assert.Equal(t, 0, f.premium.calls)

	require.Len(t, f.matches.saved, 1)
	row := f.matches.saved[0]
	assert.Equal(t, "user-1", row.UserID)
	assert.Equal(t, "job-1", row.JobID)
	assert.InDelta(t, 0.84, row.MatchScore, 1e-9, "persisted on a 0-1 scale")
	assert.Equal(t, matching.MethodAI, row.Method)
	assert.NotEmpty(t, row.ID)

	assert.Equal(t, []string{"Berlin"}, f.jobs.last.Cities, "free tier pushes cities into the fetch")
}

func TestRunSignupMatchingFreePersistenceBestEffort(t *testing.T) {
	f := newFixture(models.TierFree)
	f.free.result = aiResult(84)
	f.matches.upsertErr = errors.New("deadlock")

	out, err := f.svc.RunSignupMatching(context.Background(), "u@example.com")
	require.NoError(t, err, "free-tier matches survive a failed save")
	assert.Equal(t, StatusMatched, out.Status)
	assert.Equal(t, 1, out.MatchCount)
}

func TestRunSignupMatchingPremiumTier(t *testing.T) {
	f := newFixture(models.TierPremium)
	f.premium.result = aiResult(96)

	out, err := f.svc.RunSignupMatching(context.Background(), "u@example.com")
	require.NoError(t, err)

	assert.Equal(t, StatusMatched, out.Status)
	assert.Equal(t, 0, f.free.calls)
	assert.Equal(t, 1, f.premium.calls)
	assert.Empty(t, f.jobs.last.Cities, "premium filtering happens in the strategy, not the fetch")
}

func TestRunSignupMatchingPremiumPendingUsesPremiumStrategy(t *testing.T) {
	f := newFixture(models.TierPremiumPending)
	f.premium.result = aiResult(90)

	out, err := f.svc.RunSignupMatching(context.Background(), "u@example.com")
	require.NoError(t, err)
	assert.Equal(t, StatusMatched, out.Status)
	assert.Equal(t, 1, f.premium.calls)
}

func TestRunSignupMatchingPremiumPersistenceIsHard(t *testing.T) {
	f := newFixture(models.TierPremium)
	f.premium.result = aiResult(96)
	f.matches.upsertErr = errors.New("deadlock")

	_, err := f.svc.RunSignupMatching(context.Background(), "u@example.com")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInternal))
}

func TestRunSignupMatchingPremiumUserVanished(t *testing.T) {
	f := newFixture(models.TierPremium)
	f.premium.result = aiResult(96)
	f.users.exists = false

	_, err := f.svc.RunSignupMatching(context.Background(), "u@example.com")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestRunSignupMatchingRequiresEmail(t *testing.T) {
	f := newFixture(models.TierFree)

	_, err := f.svc.RunSignupMatching(context.Background(), "")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestListMatches(t *testing.T) {
	f := newFixture(models.TierFree)
	f.matches.listOut = []models.JobMatch{{ID: "m1"}, {ID: "m2"}}

	rows, err := f.svc.ListMatches(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = f.svc.ListMatches(context.Background(), "")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestNormalizeScore(t *testing.T) {
	assert.Equal(t, 0.84, normalizeScore(84))
	assert.Equal(t, 1.0, normalizeScore(130))
	assert.Equal(t, 0.0, normalizeScore(-5))
}
