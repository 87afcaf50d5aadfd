package mysql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "github.com/allamta/informed/internal/domain/analyses"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save inserts an analysis record
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO analyses
  (id, image_url, result_json, ingredient_count, created_at)
VALUES (?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  image_url=VALUES(image_url), result_json=VALUES(result_json), ingredient_count=VALUES(ingredient_count);
`
	result := a.Result
	if strings.TrimSpace(result) == "" {
		// result_json column requires valid JSON; use empty object
		result = "{}"
	}
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q, a.ID, a.ImageURL, result, a.IngredientCount, createdAt)
	return err
}

// Paginate returns a page of analysis records ordered by created_at desc
func (r *AnalysisRepository) Paginate(ctx context.Context, page, pageSize int) ([]*domain.Analysis, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, image_url, result_json, ingredient_count, created_at
FROM analyses
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;`

	rows, err := r.db.QueryContext(ctx, q, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Analysis
	for rows.Next() {
		var a domain.Analysis
		var created time.Time
		if err := rows.Scan(&a.ID, &a.ImageURL, &a.Result, &a.IngredientCount, &created); err != nil {
			return nil, err
		}
		a.CreatedAt = created
		out = append(out, &a)
	}
	return out, rows.Err()
}

// Get fetches one analysis by id
func (r *AnalysisRepository) Get(ctx context.Context, id domain.AnalysisID) (*domain.Analysis, error) {
	const q = `
SELECT id, image_url, result_json, ingredient_count, created_at
FROM analyses
WHERE id=? LIMIT 1;`

	row := r.db.QueryRowContext(ctx, q, id)
	var a domain.Analysis
	var created time.Time
	if err := row.Scan(&a.ID, &a.ImageURL, &a.Result, &a.IngredientCount, &created); err != nil {
		return nil, err
	}
	a.CreatedAt = created
	return &a, nil
}
