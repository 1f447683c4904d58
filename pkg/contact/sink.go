package contact

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Submission is an accepted request as handed to a sink.
type Submission struct {
	ID         uuid.UUID `json:"id"`
	ReceivedAt time.Time `json:"receivedAt"`
	Data       FormData  `json:"data"`
}

// Sink receives validated submissions.
type Sink interface {
	Accept(ctx context.Context, sub Submission) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, sub Submission) error

func (fn SinkFunc) Accept(ctx context.Context, sub Submission) error {
	return fn(ctx, sub)
}

// Discard accepts and drops every submission.
var Discard Sink = SinkFunc(func(context.Context, Submission) error { return nil })

// Tee fans a submission out to every sink in order and joins their errors.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(ctx context.Context, sub Submission) error {
		var errs []error
		for _, sink := range sinks {
			if sink == nil {
				continue
			}
			if err := sink.Accept(ctx, sub); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// Recorder keeps accepted submissions in memory.
type Recorder struct {
	mu   sync.Mutex
	subs []Submission
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Accept(_ context.Context, sub Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, sub)
	return nil
}

// Submissions returns a copy of everything recorded so far.
func (r *Recorder) Submissions() []Submission {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Submission, len(r.subs))
	copy(out, r.subs)
	return out
}

// Len returns the number of recorded submissions.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}
