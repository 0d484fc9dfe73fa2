package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Dosada05/arena/glicko"
	"github.com/Dosada05/arena/logging"
	"github.com/Dosada05/arena/metrics"
	"github.com/Dosada05/arena/models"
	"github.com/Dosada05/arena/repositories"
)

type fakeTx struct{}

func (fakeTx) RunInTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type ratingKey struct {
	category int
	member   string
}

type fakeRatingRepo struct {
	mu      sync.Mutex
	ratings map[ratingKey]models.MemberRating
	upserts int
	// calls records Ensure and GetForUpdate in order, as "ensure:<member>" and "lock:<member>".
	calls []string
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{ratings: map[ratingKey]models.MemberRating{}}
}

func (r *fakeRatingRepo) Ensure(_ context.Context, _ repositories.SQLExecutor, mr *models.MemberRating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "ensure:"+mr.Member)
	key := ratingKey{mr.CategoryID, mr.Member}
	if _, ok := r.ratings[key]; !ok {
		r.ratings[key] = *mr
	}
	return nil
}

func (r *fakeRatingRepo) GetForUpdate(ctx context.Context, _ repositories.SQLExecutor, categoryID int, member string) (*models.MemberRating, error) {
	r.mu.Lock()
	r.calls = append(r.calls, "lock:"+member)
	r.mu.Unlock()
	return r.Get(ctx, categoryID, member)
}

func (r *fakeRatingRepo) Get(_ context.Context, categoryID int, member string) (*models.MemberRating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mr, ok := r.ratings[ratingKey{categoryID, member}]
	if !ok {
		return nil, repositories.ErrRatingNotFound
	}
	return &mr, nil
}

func (r *fakeRatingRepo) Upsert(_ context.Context, _ repositories.SQLExecutor, mr *models.MemberRating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	mr.UpdatedAt = time.Unix(1_700_000_000, 0).UTC()
	r.ratings[ratingKey{mr.CategoryID, mr.Member}] = *mr
	r.upserts++
	return nil
}

func (r *fakeRatingRepo) ListByCategory(_ context.Context, categoryID int, limit, offset int) ([]models.MemberRating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.MemberRating, 0)
	for k, v := range r.ratings {
		if k.category == categoryID {
			out = append(out, v)
		}
	}
	slices.SortFunc(out, func(a, b models.MemberRating) int {
		if c := b.Rating.Value.Cmp(a.Rating.Value); c != 0 {
			return c
		}
		if a.Member < b.Member {
			return -1
		}
		return 1
	})
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// store backs the competition fakes so completing a competition is visible
// to both the tournament and league repositories.
type store struct {
	mu          sync.Mutex
	nextID      int
	names       map[string]bool
	tournaments map[int]*models.Tournament
	leagues     map[int]*models.League
	standings   map[int]models.Standings
	archiveURLs map[int]string
}

func newStore() *store {
	return &store{
		names:       map[string]bool{},
		tournaments: map[int]*models.Tournament{},
		leagues:     map[int]*models.League{},
		standings:   map[int]models.Standings{},
		archiveURLs: map[int]string{},
	}
}

func (s *store) register(kind models.CompetitionKind, name string) (int, error) {
	key := fmt.Sprintf("%s/%s", kind, name)
	if s.names[key] {
		return 0, repositories.ErrCompetitionNameConflict
	}
	s.names[key] = true
	s.nextID++
	return s.nextID, nil
}

type fakeTournamentRepo struct{ *store }

func (r fakeTournamentRepo) Create(_ context.Context, _ repositories.SQLExecutor, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, err := r.register(models.KindTournament, t.Name)
	if err != nil {
		return err
	}
	t.ID = id
	t.CreatedAt = time.Unix(1_700_000_000, 0).UTC()
	stored := *t
	stored.Matches = slices.Clone(t.Matches)
	r.tournaments[id] = &stored
	return nil
}

func (r fakeTournamentRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	out := *t
	out.Matches = nil
	return &out, nil
}

func (r fakeTournamentRepo) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	return r.GetByID(ctx, exec, id)
}

func (r fakeTournamentRepo) ListMatches(_ context.Context, _ repositories.SQLExecutor, id int) ([]models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return []models.Match{}, nil
	}
	return slices.Clone(t.Matches), nil
}

func (r fakeTournamentRepo) SaveMatches(_ context.Context, _ repositories.SQLExecutor, id int, matches []models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Matches = slices.Clone(matches)
	return nil
}

type fakeLeagueRepo struct{ *store }

func (r fakeLeagueRepo) Create(_ context.Context, _ repositories.SQLExecutor, l *models.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, err := r.register(models.KindLeague, l.Name)
	if err != nil {
		return err
	}
	l.ID = id
	stored := *l
	stored.Matches = slices.Clone(l.Matches)
	stored.Adjustments = nil
	r.leagues[id] = &stored
	return nil
}

func (r fakeLeagueRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.League, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leagues[id]
	if !ok {
		return nil, repositories.ErrLeagueNotFound
	}
	out := *l
	out.Matches, out.Adjustments = nil, nil
	return &out, nil
}

func (r fakeLeagueRepo) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.League, error) {
	return r.GetByID(ctx, exec, id)
}

func (r fakeLeagueRepo) ListMatches(_ context.Context, _ repositories.SQLExecutor, id int) ([]models.LeagueMatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.leagues[id]; ok {
		return slices.Clone(l.Matches), nil
	}
	return []models.LeagueMatch{}, nil
}

func (r fakeLeagueRepo) UpdateMatchResult(_ context.Context, _ repositories.SQLExecutor, id int, number int, result models.MatchResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leagues[id]
	if !ok || number < 1 || number > len(l.Matches) {
		return repositories.ErrLeagueMatchNotFound
	}
	l.Matches[number-1].Result = &result
	return nil
}

func (r fakeLeagueRepo) AddAdjustment(_ context.Context, _ repositories.SQLExecutor, id int, a *models.PointAdjustment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leagues[id]
	if !ok {
		return repositories.ErrLeagueNotFound
	}
	a.ID = len(l.Adjustments) + 1
	l.Adjustments = append(l.Adjustments, *a)
	return nil
}

func (r fakeLeagueRepo) ListAdjustments(_ context.Context, _ repositories.SQLExecutor, id int) ([]models.PointAdjustment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.leagues[id]; ok {
		return slices.Clone(l.Adjustments), nil
	}
	return []models.PointAdjustment{}, nil
}

type fakeCompetitionRepo struct{ *store }

func (r fakeCompetitionRepo) List(context.Context, repositories.ListCompetitionsFilter) ([]models.Competition, error) {
	return nil, errors.New("not used")
}

func (r fakeCompetitionRepo) Complete(_ context.Context, _ repositories.SQLExecutor, id int, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var c *models.Competition
	if t, ok := r.tournaments[id]; ok {
		c = &t.Competition
	} else if l, ok := r.leagues[id]; ok {
		c = &l.Competition
	}
	if c == nil || c.Status != models.StatusActive {
		return repositories.ErrCompetitionNotFound
	}
	c.Status = models.StatusCompleted
	c.CompletedAt = &at
	return nil
}

type fakeStandingRepo struct{ *store }

func (r fakeStandingRepo) Save(_ context.Context, _ repositories.SQLExecutor, s *models.Standings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.standings[s.CompetitionID] = *s
	return nil
}

func (r fakeStandingRepo) SetArchiveURL(_ context.Context, competitionID int, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.archiveURLs[competitionID] = url
	return nil
}

func (r fakeStandingRepo) Get(_ context.Context, competitionID int) (*models.Standings, *string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.standings[competitionID]
	if !ok {
		return nil, nil, repositories.ErrStandingsNotFound
	}
	var url *string
	if u, ok := r.archiveURLs[competitionID]; ok {
		url = &u
	}
	return &s, url, nil
}

type fakeArchiver struct {
	archived []int
	err      error
}

func (a *fakeArchiver) Archive(_ context.Context, s *models.Standings) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.archived = append(a.archived, s.CompetitionID)
	return fmt.Sprintf("https://archive.example.com/%d.json", s.CompetitionID), nil
}

type event struct {
	room string
	kind string
}

type recordingHub struct {
	mu     sync.Mutex
	events []event
}

func (h *recordingHub) BroadcastToRoom(roomID string, eventType string, _ any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event{room: roomID, kind: eventType})
}

func (h *recordingHub) has(room, kind string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Contains(h.events, event{room: room, kind: kind})
}

type fixture struct {
	store    *store
	ratings  *fakeRatingRepo
	archiver *fakeArchiver
	hub      *recordingHub
	metrics  *metrics.Metrics

	ratingService     RatingService
	tournamentService TournamentService
	leagueService     LeagueService
}

func newFixture() *fixture {
	st := newStore()
	f := &fixture{
		store:    st,
		ratings:  newFakeRatingRepo(),
		archiver: &fakeArchiver{},
		hub:      &recordingHub{},
		metrics:  metrics.NewNop(),
	}

	engine, err := glicko.NewEngine(glicko.Config{
		Period:  models.Duration{Kind: models.DurationHeight, Length: 10},
		Default: models.DefaultRating(),
	})
	if err != nil {
		panic(err)
	}

	logger := logging.Discard()
	f.ratingService = NewRatingService(fakeTx{}, f.ratings, engine, f.hub, f.metrics, logger)

	deps := CompletionDeps{
		CompetitionRepo: fakeCompetitionRepo{st},
		StandingRepo:    fakeStandingRepo{st},
		Archiver:        f.archiver,
		Hub:             f.hub,
		Metrics:         f.metrics,
		Logger:          logger,
		Now:             func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
	f.tournamentService = NewTournamentService(fakeTx{}, fakeTournamentRepo{st}, f.ratingService, deps)
	f.leagueService = NewLeagueService(fakeTx{}, fakeLeagueRepo{st}, f.ratingService, deps)
	return f
}
