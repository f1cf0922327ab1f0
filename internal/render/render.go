// Package render models the export collaborator: a job handle with a
// small status state machine whose progress is polled out of band and
// written into ephemeral editor state.
package render

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/framecut/framecut/internal/timeline"
)

type Codec string

const (
	CodecH264   Codec = "h264"
	CodecVP9    Codec = "vp9"
	CodecProRes Codec = "prores"
)

type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobInProgress JobStatus = "in-progress"
	JobDone       JobStatus = "done"
	JobFailed     JobStatus = "error"
)

var ErrJobNotFound = errors.New("render job not found")

// Job is the handle returned by the render service. Progress is 0-100.
type Job struct {
	ID        string
	Codec     Codec
	Status    JobStatus
	Progress  int
	OutputURL string
	Err       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Service accepts an undoable document plus a codec choice and returns
// a job handle for out-of-band polling.
type Service interface {
	Start(ctx context.Context, doc *timeline.Document, codec Codec) (*Job, error)
	Poll(ctx context.Context, jobID string) (*Job, error)
	Cancel(ctx context.Context, jobID string) error
}

// StubService advances each job by a fixed step per poll, which gives
// tests and the CLI a deterministic render lifecycle.
type StubService struct {
	mu     sync.Mutex
	jobs   map[string]*Job
	step   int
	logger *slog.Logger
}

func NewStubService(logger *slog.Logger) *StubService {
	return &StubService{jobs: map[string]*Job{}, step: 25, logger: logger}
}

func (s *StubService) Start(ctx context.Context, doc *timeline.Document, codec Codec) (*Job, error) {
	now := time.Now()
	job := &Job{
		ID:        timeline.NewID(),
		Codec:     codec,
		Status:    JobPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("render stub: job started",
			"job_id", job.ID, "codec", string(codec), "frames", doc.DurationInFrames())
	}
	cp := *job
	return &cp, nil
}

func (s *StubService) Poll(ctx context.Context, jobID string) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, ErrJobNotFound
	}
	switch job.Status {
	case JobPending:
		job.Status = JobInProgress
	case JobInProgress:
		job.Progress += s.step
		if job.Progress >= 100 {
			job.Progress = 100
			job.Status = JobDone
			job.OutputURL = "stub://render/" + job.ID
		}
	case JobDone, JobFailed:
	default:
		return nil, timeline.UnknownKind("render job status", string(job.Status))
	}
	job.UpdatedAt = time.Now()

	cp := *job
	return &cp, nil
}

func (s *StubService) Cancel(ctx context.Context, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return ErrJobNotFound
	}
	if job.Status == JobDone {
		return nil
	}
	job.Status = JobFailed
	job.Err = "cancelled"
	job.UpdatedAt = time.Now()
	return nil
}
