package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/arena/models"
)

var ErrStandingsNotFound = errors.New("standings not found")

// StandingRepository stores the final standings document of a completed
// competition, with the URL of its archived copy when there is one.
type StandingRepository interface {
	Save(ctx context.Context, exec SQLExecutor, standings *models.Standings) error
	SetArchiveURL(ctx context.Context, competitionID int, url string) error
	Get(ctx context.Context, competitionID int) (*models.Standings, *string, error)
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

func (r *postgresStandingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresStandingRepository) Save(ctx context.Context, exec SQLExecutor, s *models.Standings) error {
	executor := r.getExecutor(exec)
	doc, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode standings of competition %d: %w", s.CompetitionID, err)
	}

	query := `
		INSERT INTO standings (competition_id, document, finalized_at)
		VALUES ($1, $2, $3)`
	if _, err := executor.ExecContext(ctx, query, s.CompetitionID, doc, s.FinalizedAt); err != nil {
		if pqErr, ok := pqError(err); ok {
			switch pqErr.Code {
			case "23505":
				return fmt.Errorf("standings of competition %d already saved: %w", s.CompetitionID, ErrCompetitionInUse)
			case "23503":
				return ErrCompetitionNotFound
			}
		}
		return fmt.Errorf("failed to save standings of competition %d: %w", s.CompetitionID, err)
	}
	return nil
}

func (r *postgresStandingRepository) SetArchiveURL(ctx context.Context, competitionID int, url string) error {
	query := `UPDATE standings SET archive_url = $1 WHERE competition_id = $2`
	result, err := r.db.ExecContext(ctx, query, url, competitionID)
	if err != nil {
		return fmt.Errorf("failed to set archive url of competition %d: %w", competitionID, err)
	}
	return checkAffectedRows(result, ErrStandingsNotFound)
}

func (r *postgresStandingRepository) Get(ctx context.Context, competitionID int) (*models.Standings, *string, error) {
	query := `SELECT document, archive_url FROM standings WHERE competition_id = $1`

	var (
		doc        []byte
		archiveURL *string
	)
	if err := r.db.QueryRowContext(ctx, query, competitionID).Scan(&doc, &archiveURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrStandingsNotFound
		}
		return nil, nil, fmt.Errorf("failed to get standings of competition %d: %w", competitionID, err)
	}

	var s models.Standings
	if err := json.Unmarshal(doc, &s); err != nil {
		return nil, nil, fmt.Errorf("failed to decode standings of competition %d: %w", competitionID, err)
	}
	return &s, archiveURL, nil
}
