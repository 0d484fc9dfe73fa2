package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Dosada05/arena/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	// GetForUpdate locks the tournament row so results are processed one batch at a time.
	GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	ListMatches(ctx context.Context, exec SQLExecutor, id int) ([]models.Match, error)
	SaveMatches(ctx context.Context, exec SQLExecutor, id int, matches []models.Match) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO competitions (
			kind, name, description, category_id, status, members, distribution,
			elimination_type, third_place
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	t.Kind = models.KindTournament
	err := executor.QueryRowContext(ctx, query,
		t.Kind, t.Name, t.Description, t.CategoryID, t.Status,
		pq.Array(t.Members), distributionArray(t.Distribution),
		t.EliminationType, t.ThirdPlace,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return handleCompetitionError(err)
	}

	return r.SaveMatches(ctx, executor, t.ID, t.Matches)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	return r.get(ctx, r.getExecutor(exec), id, "")
}

func (r *postgresTournamentRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	return r.get(ctx, r.getExecutor(exec), id, " FOR UPDATE")
}

func (r *postgresTournamentRepository) get(ctx context.Context, executor SQLExecutor, id int, lock string) (*models.Tournament, error) {
	query := `SELECT ` + competitionColumns + `, elimination_type, third_place
		FROM competitions
		WHERE id = $1 AND kind = $2` + lock

	var (
		t                     models.Tournament
		members, distribution pq.StringArray
	)
	targets := append(competitionScanTargets(&t.Competition, &members, &distribution), &t.EliminationType, &t.ThirdPlace)
	if err := executor.QueryRowContext(ctx, query, id, models.KindTournament).Scan(targets...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}
	if err := finishCompetitionScan(&t.Competition, members, distribution); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *postgresTournamentRepository) ListMatches(ctx context.Context, exec SQLExecutor, id int) ([]models.Match, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT number, round, stage, team_1, team_2, result,
			next_match_winner, next_winner_slot, next_match_loser, next_loser_slot
		FROM tournament_matches
		WHERE competition_id = $1
		ORDER BY number`

	rows, err := executor.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of tournament %d: %w", id, err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if scanErr := rows.Scan(
			&m.Number, &m.Round, &m.Stage, &m.Team1, &m.Team2, &m.Result,
			&m.NextMatchWinner, &m.NextWinnerSlot, &m.NextMatchLoser, &m.NextLoserSlot,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament match: %w", scanErr)
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

// SaveMatches inserts new matches and overwrites the participants and result
// of existing ones. Links between matches never change after creation.
func (r *postgresTournamentRepository) SaveMatches(ctx context.Context, exec SQLExecutor, id int, matches []models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournament_matches (
			competition_id, number, round, stage, team_1, team_2, result,
			next_match_winner, next_winner_slot, next_match_loser, next_loser_slot
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (competition_id, number) DO UPDATE SET
			team_1 = EXCLUDED.team_1,
			team_2 = EXCLUDED.team_2,
			result = EXCLUDED.result`

	for _, m := range matches {
		if _, err := executor.ExecContext(ctx, query,
			id, m.Number, m.Round, m.Stage, m.Team1, m.Team2, m.Result,
			m.NextMatchWinner, m.NextWinnerSlot, m.NextMatchLoser, m.NextLoserSlot,
		); err != nil {
			if pqErr, ok := pqError(err); ok && pqErr.Code == "23503" {
				return ErrTournamentNotFound
			}
			return fmt.Errorf("failed to save match %d of tournament %d: %w", m.Number, id, err)
		}
	}
	return nil
}
