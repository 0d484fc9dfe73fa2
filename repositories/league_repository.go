package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Dosada05/arena/models"
)

var (
	ErrLeagueNotFound      = errors.New("league not found")
	ErrLeagueMatchNotFound = errors.New("league match not found")
)

type LeagueRepository interface {
	Create(ctx context.Context, exec SQLExecutor, league *models.League) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.League, error)
	GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.League, error)
	ListMatches(ctx context.Context, exec SQLExecutor, id int) ([]models.LeagueMatch, error)
	UpdateMatchResult(ctx context.Context, exec SQLExecutor, id int, number int, result models.MatchResult) error
	AddAdjustment(ctx context.Context, exec SQLExecutor, id int, adjustment *models.PointAdjustment) error
	ListAdjustments(ctx context.Context, exec SQLExecutor, id int) ([]models.PointAdjustment, error)
}

type postgresLeagueRepository struct {
	db *sql.DB
}

func NewPostgresLeagueRepository(db *sql.DB) LeagueRepository {
	return &postgresLeagueRepository{db: db}
}

func (r *postgresLeagueRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresLeagueRepository) Create(ctx context.Context, exec SQLExecutor, l *models.League) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO competitions (
			kind, name, description, category_id, status, members, distribution,
			points_win, points_draw, points_lose, double_round_robin, rounds
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	l.Kind = models.KindLeague
	err := executor.QueryRowContext(ctx, query,
		l.Kind, l.Name, l.Description, l.CategoryID, l.Status,
		pq.Array(l.Members), distributionArray(l.Distribution),
		l.Points.Win, l.Points.Draw, l.Points.Lose, l.DoubleRoundRobin, l.Rounds,
	).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return handleCompetitionError(err)
	}

	matchQuery := `
		INSERT INTO league_matches (competition_id, number, round, team_1, team_2, result)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, m := range l.Matches {
		if _, err := executor.ExecContext(ctx, matchQuery, l.ID, m.Number, m.Round, m.Team1, m.Team2, m.Result); err != nil {
			return fmt.Errorf("failed to create match %d of league %d: %w", m.Number, l.ID, err)
		}
	}
	return nil
}

func (r *postgresLeagueRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.League, error) {
	return r.get(ctx, r.getExecutor(exec), id, "")
}

func (r *postgresLeagueRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.League, error) {
	return r.get(ctx, r.getExecutor(exec), id, " FOR UPDATE")
}

func (r *postgresLeagueRepository) get(ctx context.Context, executor SQLExecutor, id int, lock string) (*models.League, error) {
	query := `SELECT ` + competitionColumns + `, points_win, points_draw, points_lose, double_round_robin, rounds
		FROM competitions
		WHERE id = $1 AND kind = $2` + lock

	var (
		l                     models.League
		members, distribution pq.StringArray
	)
	targets := append(competitionScanTargets(&l.Competition, &members, &distribution),
		&l.Points.Win, &l.Points.Draw, &l.Points.Lose, &l.DoubleRoundRobin, &l.Rounds,
	)
	if err := executor.QueryRowContext(ctx, query, id, models.KindLeague).Scan(targets...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to get league %d: %w", id, err)
	}
	if err := finishCompetitionScan(&l.Competition, members, distribution); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *postgresLeagueRepository) ListMatches(ctx context.Context, exec SQLExecutor, id int) ([]models.LeagueMatch, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT round, number, team_1, team_2, result
		FROM league_matches
		WHERE competition_id = $1
		ORDER BY number`

	rows, err := executor.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of league %d: %w", id, err)
	}
	defer rows.Close()

	matches := make([]models.LeagueMatch, 0)
	for rows.Next() {
		var m models.LeagueMatch
		if scanErr := rows.Scan(&m.Round, &m.Number, &m.Team1, &m.Team2, &m.Result); scanErr != nil {
			return nil, fmt.Errorf("failed to scan league match: %w", scanErr)
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresLeagueRepository) UpdateMatchResult(ctx context.Context, exec SQLExecutor, id int, number int, result models.MatchResult) error {
	executor := r.getExecutor(exec)
	query := `UPDATE league_matches SET result = $1 WHERE competition_id = $2 AND number = $3`
	res, err := executor.ExecContext(ctx, query, result, id, number)
	if err != nil {
		return fmt.Errorf("failed to record result of match %d in league %d: %w", number, id, err)
	}
	return checkAffectedRows(res, ErrLeagueMatchNotFound)
}

func (r *postgresLeagueRepository) AddAdjustment(ctx context.Context, exec SQLExecutor, id int, a *models.PointAdjustment) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO point_adjustments (competition_id, member, amount, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query, id, a.Member, a.Amount, a.Reason).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if pqErr, ok := pqError(err); ok && pqErr.Code == "23503" {
			return ErrLeagueNotFound
		}
		return fmt.Errorf("failed to add point adjustment to league %d: %w", id, err)
	}
	return nil
}

func (r *postgresLeagueRepository) ListAdjustments(ctx context.Context, exec SQLExecutor, id int) ([]models.PointAdjustment, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, member, amount, reason, created_at
		FROM point_adjustments
		WHERE competition_id = $1
		ORDER BY id`

	rows, err := executor.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list point adjustments of league %d: %w", id, err)
	}
	defer rows.Close()

	adjustments := make([]models.PointAdjustment, 0)
	for rows.Next() {
		var a models.PointAdjustment
		if scanErr := rows.Scan(&a.ID, &a.Member, &a.Amount, &a.Reason, &a.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan point adjustment: %w", scanErr)
		}
		adjustments = append(adjustments, a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return adjustments, nil
}
