// Package queue runs the devserver's simulated video renders. Jobs are
// routed to a fixed set of workers by consistent hashing on the video ID,
// guaranteeing per-video ordering of state changes.
package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/cineai/cineai-go/internal/core/domain"
	"github.com/cineai/cineai-go/internal/devserver/repository"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// RenderQueue drives queued videos through pending → processing → completed,
// with a configurable per-step delay so clients can observe progress.
type RenderQueue struct {
	workers []chan int
	videos  *repository.Videos
	delay   time.Duration
	log     zerolog.Logger
}

// NewRenderQueue creates a RenderQueue with numWorkers sharded workers. If
// numWorkers <= 0, defaultWorkers is used. delay is the pause between render
// steps; 0 renders instantly (tests).
func NewRenderQueue(numWorkers int, videos *repository.Videos, delay time.Duration, log zerolog.Logger) *RenderQueue {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	q := &RenderQueue{
		workers: make([]chan int, numWorkers),
		videos:  videos,
		delay:   delay,
		log:     log,
	}
	for i := range q.workers {
		q.workers[i] = make(chan int, channelBuffer)
	}
	return q
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (q *RenderQueue) Start(ctx context.Context) {
	for i, ch := range q.workers {
		go q.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a video to the worker responsible for its ID. Non-blocking
// up to channelBuffer capacity.
func (q *RenderQueue) Enqueue(videoID int) {
	q.workers[q.shardIndex(videoID)] <- videoID
}

// shardIndex maps a video ID deterministically to a worker index.
func (q *RenderQueue) shardIndex(videoID int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.Itoa(videoID)))
	return int(h.Sum32()) % len(q.workers)
}

func (q *RenderQueue) runWorker(ctx context.Context, id int, ch <-chan int) {
	for {
		select {
		case <-ctx.Done():
			return
		case videoID, ok := <-ch:
			if !ok {
				return
			}
			if err := q.render(ctx, videoID); err != nil {
				q.log.Error().Err(err).
					Int("video_id", videoID).
					Int("worker_id", id).
					Msg("render failed")
			}
		}
	}
}

// render simulates one generation job.
func (q *RenderQueue) render(ctx context.Context, videoID int) error {
	if err := q.videos.SetStatus(videoID, domain.VideoProcessing, 10, "", ""); err != nil {
		return err
	}

	for _, progress := range []int{40, 70} {
		if !q.pause(ctx) {
			return ctx.Err()
		}
		q.videos.SetProgress(videoID, progress)
	}
	if !q.pause(ctx) {
		return ctx.Err()
	}

	output := "/media/videos/" + strconv.Itoa(videoID) + ".mp4"
	if err := q.videos.SetStatus(videoID, domain.VideoCompleted, 100, output, ""); err != nil {
		return err
	}

	q.log.Debug().Int("video_id", videoID).Msg("render completed")
	return nil
}

// pause waits one render step, reporting false when ctx ended first.
func (q *RenderQueue) pause(ctx context.Context) bool {
	if q.delay <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(q.delay):
		return true
	}
}
