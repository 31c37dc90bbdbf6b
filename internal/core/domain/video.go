package domain

import "time"

// VideoStatus represents the lifecycle state of a video generation job.
type VideoStatus string

const (
	VideoPending    VideoStatus = "pending"
	VideoProcessing VideoStatus = "processing"
	VideoCompleted  VideoStatus = "completed"
	VideoFailed     VideoStatus = "failed"
)

// videoTransitions defines the allowed render state machine transitions.
var videoTransitions = map[VideoStatus][]VideoStatus{
	VideoPending:    {VideoProcessing, VideoFailed},
	VideoProcessing: {VideoCompleted, VideoFailed},
}

// CanTransitionTo reports whether a render may move from s to next.
func (s VideoStatus) CanTransitionTo(next VideoStatus) bool {
	for _, allowed := range videoTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Video is a generation project owned by a user.
type Video struct {
	ID          int         `json:"id"`
	OwnerID     int         `json:"owner_id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Prompt      string      `json:"prompt,omitempty"`
	Status      VideoStatus `json:"status"`
	Progress    int         `json:"progress"` // 0 to 100
	OutputURL   string      `json:"output_url,omitempty"`
	Error       string      `json:"error,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// VideoInput is the payload for creating a new video project.
type VideoInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Prompt      string `json:"prompt,omitempty"`
}
