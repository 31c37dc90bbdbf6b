package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/cineai/cineai-go/internal/core/domain"
)

// Videos stores video projects per user, in memory.
type Videos struct {
	mu     sync.Mutex
	byID   map[int]*domain.Video
	nextID int
}

func NewVideos() *Videos {
	return &Videos{byID: make(map[int]*domain.Video), nextID: 1}
}

func (v *Videos) Create(ownerID int, in domain.VideoInput) *domain.Video {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := time.Now().UTC()
	video := &domain.Video{
		ID:          v.nextID,
		OwnerID:     ownerID,
		Title:       in.Title,
		Description: in.Description,
		Prompt:      in.Prompt,
		Status:      domain.VideoPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	v.nextID++
	v.byID[video.ID] = video

	clone := *video
	return &clone
}

// Get returns the video when it exists and belongs to ownerID.
func (v *Videos) Get(ownerID, id int) (*domain.Video, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	video := v.byID[id]
	if video == nil || video.OwnerID != ownerID {
		return nil, domain.ErrVideoNotFound
	}
	clone := *video
	return &clone, nil
}

func (v *Videos) List(ownerID int) []domain.Video {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]domain.Video, 0)
	for _, video := range v.byID {
		if video.OwnerID == ownerID {
			out = append(out, *video)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SetStatus applies a render state transition, enforcing the video state
// machine. Progress and output are updated alongside the status.
func (v *Videos) SetStatus(id int, next domain.VideoStatus, progress int, outputURL, renderErr string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	video := v.byID[id]
	if video == nil {
		return domain.ErrVideoNotFound
	}
	if video.Status != next && !video.Status.CanTransitionTo(next) {
		return domain.ErrInvalidTransition
	}

	video.Status = next
	video.Progress = progress
	video.OutputURL = outputURL
	video.Error = renderErr
	video.UpdatedAt = time.Now().UTC()
	return nil
}

// SetProgress updates render progress without a status transition.
func (v *Videos) SetProgress(id, progress int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if video := v.byID[id]; video != nil {
		video.Progress = progress
		video.UpdatedAt = time.Now().UTC()
	}
}

func (v *Videos) Delete(ownerID, id int) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	video := v.byID[id]
	if video == nil || video.OwnerID != ownerID {
		return domain.ErrVideoNotFound
	}
	delete(v.byID, id)
	return nil
}
