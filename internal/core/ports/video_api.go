package ports

import (
	"context"

	"github.com/cineai/cineai-go/internal/core/domain"
)

// VideoAPI is the remote video generation surface. All operations require an
// authenticated session.
type VideoAPI interface {
	Videos(ctx context.Context) ([]domain.Video, error)
	Video(ctx context.Context, id int) (*domain.Video, error)
	CreateVideo(ctx context.Context, in domain.VideoInput) (*domain.Video, error)
	// GenerateVideo queues the render for an existing project. Progress is
	// observed by polling VideoStatus.
	GenerateVideo(ctx context.Context, id int) error
	VideoStatus(ctx context.Context, id int) (*domain.Video, error)
	DeleteVideo(ctx context.Context, id int) error
}
