package analyses

import "context"

// Repository port for persisting and querying past analyses
type Repository interface {
	Save(ctx context.Context, a *Analysis) error
	Paginate(ctx context.Context, page, pageSize int) ([]*Analysis, error)
	Get(ctx context.Context, id AnalysisID) (*Analysis, error)
}

// ImageStore port for archiving analyzed label images
type ImageStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
