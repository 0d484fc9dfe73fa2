package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/arena/models"
)

var ErrRatingNotFound = errors.New("rating not found")

type RatingRepository interface {
	// Ensure inserts mr unless the member already has a row. A concurrent
	// transaction inserting the same member blocks here until the first one ends.
	Ensure(ctx context.Context, exec SQLExecutor, mr *models.MemberRating) error
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, exec SQLExecutor, categoryID int, member string) (*models.MemberRating, error)
	Get(ctx context.Context, categoryID int, member string) (*models.MemberRating, error)
	Upsert(ctx context.Context, exec SQLExecutor, rating *models.MemberRating) error
	ListByCategory(ctx context.Context, categoryID int, limit, offset int) ([]models.MemberRating, error)
}

type postgresRatingRepository struct {
	db *sql.DB
}

func NewPostgresRatingRepository(db *sql.DB) RatingRepository {
	return &postgresRatingRepository{db: db}
}

func (r *postgresRatingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const ratingColumns = `category_id, member, value, phi, sigma, last_height, last_time, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRating(row rowScanner) (*models.MemberRating, error) {
	var (
		mr         models.MemberRating
		lastHeight sql.NullInt64
		lastTime   sql.NullInt64
	)
	err := row.Scan(
		&mr.CategoryID, &mr.Member, &mr.Rating.Value, &mr.Rating.Phi, &mr.Rating.Sigma,
		&lastHeight, &lastTime, &mr.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastHeight.Valid && lastTime.Valid {
		mr.Rating.LastBlock = &models.BlockInfo{Height: uint64(lastHeight.Int64), Time: uint64(lastTime.Int64)}
	}
	return &mr, nil
}

func (r *postgresRatingRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, categoryID int, member string) (*models.MemberRating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE category_id = $1 AND member = $2 FOR UPDATE`
	return r.get(ctx, r.getExecutor(exec), query, categoryID, member)
}

func (r *postgresRatingRepository) Get(ctx context.Context, categoryID int, member string) (*models.MemberRating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE category_id = $1 AND member = $2`
	return r.get(ctx, r.db, query, categoryID, member)
}

func (r *postgresRatingRepository) get(ctx context.Context, executor SQLExecutor, query string, categoryID int, member string) (*models.MemberRating, error) {
	mr, err := scanRating(executor.QueryRowContext(ctx, query, categoryID, member))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRatingNotFound
		}
		return nil, fmt.Errorf("failed to get rating of %q in category %d: %w", member, categoryID, err)
	}
	return mr, nil
}

func (r *postgresRatingRepository) Ensure(ctx context.Context, exec SQLExecutor, mr *models.MemberRating) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO ratings (category_id, member, value, phi, sigma, last_height, last_time, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (category_id, member) DO NOTHING`

	var height, ts *uint64
	if b := mr.Rating.LastBlock; b != nil {
		height, ts = &b.Height, &b.Time
	}

	_, err := executor.ExecContext(ctx, query,
		mr.CategoryID, mr.Member, mr.Rating.Value, mr.Rating.Phi, mr.Rating.Sigma,
		nullInt64(height), nullInt64(ts),
	)
	if err != nil {
		return fmt.Errorf("failed to ensure rating of %q: %w", mr.Member, err)
	}
	return nil
}

func (r *postgresRatingRepository) Upsert(ctx context.Context, exec SQLExecutor, mr *models.MemberRating) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO ratings (category_id, member, value, phi, sigma, last_height, last_time, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (category_id, member) DO UPDATE SET
			value = EXCLUDED.value,
			phi = EXCLUDED.phi,
			sigma = EXCLUDED.sigma,
			last_height = EXCLUDED.last_height,
			last_time = EXCLUDED.last_time,
			updated_at = EXCLUDED.updated_at
		RETURNING updated_at`

	var height, ts *uint64
	if b := mr.Rating.LastBlock; b != nil {
		height, ts = &b.Height, &b.Time
	}

	err := executor.QueryRowContext(ctx, query,
		mr.CategoryID, mr.Member, mr.Rating.Value, mr.Rating.Phi, mr.Rating.Sigma,
		nullInt64(height), nullInt64(ts),
	).Scan(&mr.UpdatedAt)
	if err != nil {
		if pqErr, ok := pqError(err); ok && pqErr.Code == "23514" {
			return fmt.Errorf("rating of %q violates %s: %w", mr.Member, pqErr.Constraint, err)
		}
		return fmt.Errorf("failed to upsert rating of %q: %w", mr.Member, err)
	}
	return nil
}

func (r *postgresRatingRepository) ListByCategory(ctx context.Context, categoryID int, limit, offset int) ([]models.MemberRating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE category_id = $1 ORDER BY value DESC, member ASC`
	args := []interface{}{categoryID}
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, limit)
	}
	if offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings of category %d: %w", categoryID, err)
	}
	defer rows.Close()

	ratings := make([]models.MemberRating, 0)
	for rows.Next() {
		mr, scanErr := scanRating(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", scanErr)
		}
		ratings = append(ratings, *mr)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return ratings, nil
}
