package mysql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "github.com/allamta/informed/internal/domain/ingredients"
	"github.com/allamta/informed/internal/metrics"
)

// IngredientRepository implements ingredients.CacheStore. The ingredients
// table carries a UNIQUE constraint on name; INSERT IGNORE makes concurrent
// insert-if-absent safe without pipeline-side locking.
type IngredientRepository struct {
	db *sql.DB
}

func NewIngredientRepository(db *sql.DB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

// BatchGet fetches records for the given normalized keys in one query.
func (r *IngredientRepository) BatchGet(ctx context.Context, keys []string) (map[string]domain.CacheRecord, error) {
	out := make(map[string]domain.CacheRecord, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	metrics.DBQueries.WithLabelValues("read").Inc()

	placeholders := strings.Repeat("?,", len(keys))
	placeholders = placeholders[:len(placeholders)-1]
	q := `
SELECT name, rating, reason, created_at
FROM ingredients
WHERE name IN (` + placeholders + `);`

	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		metrics.DBErrors.WithLabelValues("read").Inc()
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rec domain.CacheRecord
		var rating string
		var created time.Time
		if err := rows.Scan(&rec.Name, &rating, &rec.Reason, &created); err != nil {
			metrics.DBErrors.WithLabelValues("read").Inc()
			return nil, err
		}
		rec.Rating = domain.Rating(rating)
		rec.CreatedAt = created
		out[rec.Name] = rec
	}
	return out, rows.Err()
}

// BatchInsertIfAbsent inserts new records, silently skipping names that
// already exist. First writer wins on concurrent inserts of the same name.
func (r *IngredientRepository) BatchInsertIfAbsent(ctx context.Context, records []domain.CacheRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	metrics.DBQueries.WithLabelValues("write").Inc()

	const q = `
INSERT IGNORE INTO ingredients (name, rating, reason, created_at)
VALUES (?,?,?,?);`

	inserted := 0
	for _, rec := range records {
		createdAt := rec.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		res, err := r.db.ExecContext(ctx, q, domain.CacheKey(rec.Name), string(rec.Rating), rec.Reason, createdAt)
		if err != nil {
			metrics.DBErrors.WithLabelValues("write").Inc()
			return inserted, err
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}
	return inserted, nil
}
