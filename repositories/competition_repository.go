package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Dosada05/arena/fixed"
	"github.com/Dosada05/arena/models"
)

var (
	ErrCompetitionNotFound     = errors.New("competition not found")
	ErrCompetitionNameConflict = errors.New("competition name already exists")
	ErrCompetitionInUse        = errors.New("competition is referenced by matches or standings")
)

type ListCompetitionsFilter struct {
	Kind       *models.CompetitionKind
	Status     *models.CompetitionStatus
	CategoryID *int
	Limit      int
	Offset     int
}

// CompetitionRepository covers the columns tournaments and leagues share.
type CompetitionRepository interface {
	List(ctx context.Context, filter ListCompetitionsFilter) ([]models.Competition, error)
	Complete(ctx context.Context, exec SQLExecutor, id int, at time.Time) error
}

type postgresCompetitionRepository struct {
	db *sql.DB
}

func NewPostgresCompetitionRepository(db *sql.DB) CompetitionRepository {
	return &postgresCompetitionRepository{db: db}
}

const competitionColumns = `id, kind, name, description, category_id, status, members, distribution, created_at, completed_at`

func competitionScanTargets(c *models.Competition, members, distribution *pq.StringArray) []any {
	return []any{
		&c.ID, &c.Kind, &c.Name, &c.Description, &c.CategoryID, &c.Status,
		members, distribution, &c.CreatedAt, &c.CompletedAt,
	}
}

func finishCompetitionScan(c *models.Competition, members, distribution pq.StringArray) error {
	c.Members = []string(members)
	c.Distribution = make([]fixed.Decimal, 0, len(distribution))
	for _, s := range distribution {
		d, err := fixed.FromString(s)
		if err != nil {
			return fmt.Errorf("competition %d has a malformed distribution entry %q: %w", c.ID, s, err)
		}
		c.Distribution = append(c.Distribution, d)
	}
	return nil
}

func distributionArray(distribution []fixed.Decimal) pq.StringArray {
	out := make(pq.StringArray, len(distribution))
	for i, d := range distribution {
		out[i] = d.String()
	}
	return out
}

func (r *postgresCompetitionRepository) List(ctx context.Context, filter ListCompetitionsFilter) ([]models.Competition, error) {
	query := `SELECT ` + competitionColumns + ` FROM competitions WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.Kind != nil {
		query += fmt.Sprintf(" AND kind = $%d", argID)
		args = append(args, *filter.Kind)
		argID++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}
	if filter.CategoryID != nil {
		query += fmt.Sprintf(" AND category_id = $%d", argID)
		args = append(args, *filter.CategoryID)
		argID++
	}

	query += " ORDER BY created_at DESC, id DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	competitions := make([]models.Competition, 0)
	for rows.Next() {
		var (
			c                     models.Competition
			members, distribution pq.StringArray
		)
		if scanErr := rows.Scan(competitionScanTargets(&c, &members, &distribution)...); scanErr != nil {
			return nil, scanErr
		}
		if err := finishCompetitionScan(&c, members, distribution); err != nil {
			return nil, err
		}
		competitions = append(competitions, c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return competitions, nil
}

func (r *postgresCompetitionRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// Complete moves an active competition to completed. A competition that is
// missing or already completed yields ErrCompetitionNotFound.
func (r *postgresCompetitionRepository) Complete(ctx context.Context, exec SQLExecutor, id int, at time.Time) error {
	executor := r.getExecutor(exec)
	query := `UPDATE competitions SET status = $1, completed_at = $2 WHERE id = $3 AND status = $4`
	result, err := executor.ExecContext(ctx, query, models.StatusCompleted, at, id, models.StatusActive)
	if err != nil {
		return fmt.Errorf("failed to complete competition %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrCompetitionNotFound)
}

func handleCompetitionError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := pqError(err); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "competitions_kind_name_key" {
				return ErrCompetitionNameConflict
			}
		case "23503":
			return ErrCompetitionInUse
		}
	}
	return err
}
