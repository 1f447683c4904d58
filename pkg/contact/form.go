package contact

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// ResetDelay is how long the confirmation stays up before the form returns
// to a blank Editing state.
const ResetDelay = 5 * time.Second

var (
	// ErrNotEditing is returned for changes or submits while Submitted.
	ErrNotEditing = errors.New("contact: form is not editing")
	// ErrDisposed is returned once the form has been torn down.
	ErrDisposed = errors.New("contact: form disposed")
)

// State is the lifecycle position of a form.
type State string

const (
	StateEditing   State = "editing"
	StateSubmitted State = "submitted"
)

// Scheduler runs fn once after d. Both clockwork clocks and dom pages
// satisfy it.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) clockwork.Timer
}

// Snapshot is a copy of the form's observable state.
type Snapshot struct {
	State  State      `json:"state"`
	Data   FormData   `json:"data"`
	Errors FormErrors `json:"errors"`
	// Last is the most recent accepted submission, set while Submitted.
	Last *Submission `json:"last,omitempty"`
}

// Form is the contact form state machine. It is safe for concurrent use.
type Form struct {
	mu        sync.Mutex
	state     State
	data      FormData
	errors    FormErrors
	last      *Submission
	sink      Sink
	scheduler Scheduler
	now       func() time.Time
	newID     func() uuid.UUID
	delay     time.Duration
	timer     clockwork.Timer
	gen       uint64
	disposed  bool
}

// Option configures a Form.
type Option func(*Form)

// WithSink sets the collaborator that receives accepted submissions.
func WithSink(sink Sink) Option {
	return func(f *Form) {
		if sink != nil {
			f.sink = sink
		}
	}
}

// WithClock drives both the reset timer and submission timestamps from
// clock.
func WithClock(clock clockwork.Clock) Option {
	return func(f *Form) {
		if clock != nil {
			f.scheduler = clock
			f.now = clock.Now
		}
	}
}

// WithScheduler overrides only where the reset callback is scheduled.
func WithScheduler(s Scheduler) Option {
	return func(f *Form) {
		if s != nil {
			f.scheduler = s
		}
	}
}

// WithResetDelay overrides ResetDelay.
func WithResetDelay(d time.Duration) Option {
	return func(f *Form) {
		if d > 0 {
			f.delay = d
		}
	}
}

// WithIDGenerator overrides how submission ids are minted.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(f *Form) {
		if fn != nil {
			f.newID = fn
		}
	}
}

// NewForm returns a blank form in the Editing state.
func NewForm(options ...Option) *Form {
	clock := clockwork.NewRealClock()
	f := &Form{
		state:     StateEditing,
		data:      DefaultFormData(),
		errors:    FormErrors{},
		sink:      Discard,
		scheduler: clock,
		now:       clock.Now,
		newID:     uuid.New,
		delay:     ResetDelay,
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Snapshot returns a copy of the current state.
func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := Snapshot{
		State:  f.state,
		Data:   f.data,
		Errors: f.errors.Clone(),
	}
	if f.last != nil {
		last := *f.last
		snap.Last = &last
	}
	return snap
}

// State returns the lifecycle position.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Change sets field to value and clears that field's error, leaving every
// other error in place.
func (f *Form) Change(field Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.editable(); err != nil {
		return err
	}
	if err := f.data.Set(field, value); err != nil {
		return err
	}
	delete(f.errors, field)
	return nil
}

// Apply sets several fields at once, as a full form post does. Every value
// is checked first, so a rejected post leaves data and errors untouched.
func (f *Form) Apply(values map[Field]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.editable(); err != nil {
		return err
	}
	next := f.data
	for field, value := range values {
		if err := next.Set(field, value); err != nil {
			return err
		}
	}
	f.data = next
	for field := range values {
		delete(f.errors, field)
	}
	return nil
}

// Submit validates the current data. Failing fields are stored and returned
// with a nil error; the sink is not called. A passing form is handed to the
// sink, moves to Submitted and schedules its reset. A sink error leaves the
// form in Editing.
func (f *Form) Submit(ctx context.Context) (FormErrors, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.editable(); err != nil {
		return nil, err
	}

	errs := Validate(f.data)
	f.errors = errs
	if !errs.Empty() {
		return errs.Clone(), nil
	}

	sub := Submission{
		ID:         f.newID(),
		ReceivedAt: f.now().UTC(),
		Data:       f.data,
	}
	if err := f.sink.Accept(ctx, sub); err != nil {
		return nil, fmt.Errorf("contact: submit: %w", err)
	}

	f.state = StateSubmitted
	f.last = &sub
	f.gen++
	gen := f.gen
	f.timer = f.scheduler.AfterFunc(f.delay, func() {
		f.reset(gen)
	})
	return FormErrors{}, nil
}

// Dispose cancels a pending reset. Every later call fails with ErrDisposed
// and a reset already in flight becomes a no-op.
func (f *Form) Dispose() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.disposed {
		return
	}
	f.disposed = true
	f.gen++
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

// Disposed reports whether Dispose has run.
func (f *Form) Disposed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.disposed
}

func (f *Form) reset(gen uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.disposed || gen != f.gen || f.state != StateSubmitted {
		return
	}
	f.state = StateEditing
	f.data = DefaultFormData()
	f.errors = FormErrors{}
	f.last = nil
	f.timer = nil
}

func (f *Form) editable() error {
	if f.disposed {
		return ErrDisposed
	}
	if f.state != StateEditing {
		return ErrNotEditing
	}
	return nil
}
