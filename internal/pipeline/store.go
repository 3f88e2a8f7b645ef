// Package pipeline owns the state behind the strength meter and turns
// password keystrokes into debounced scoring calls
package pipeline

import (
	"context"
	"errors"
	"pwmeter/internal/common"
	"pwmeter/internal/scorer"
	"sync"
	"time"
)

const DefaultDebounce = 200 * time.Millisecond

var ErrClosed = errors.New("store_closed")

// Scorer is satisfied by *scorer.Loader
type Scorer interface {
	LoadAndScore(ctx context.Context, password string, contextTokens []string) (*scorer.Result, error)
}

// State is the single record rendered by the form. Result may trail the
// current password while Validating is true
type State struct {
	Validating bool           `json:"validating"`
	Result     *scorer.Result `json:"result"`
	Err        error          `json:"-"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
}

type NewOpts struct {
	Scorer Scorer

	// Debounce is the quiet period after the last password change before
	// scoring starts, defaults to DefaultDebounce
	Debounce time.Duration

	ServiceLogs chan<- common.ServiceLog
}

type Store struct {
	scorer      Scorer
	debounce    time.Duration
	serviceLogs chan<- common.ServiceLog

	events    chan event
	done      chan common.Done
	stopped   chan common.Done
	closeOnce sync.Once

	mutex            sync.RWMutex
	state            State
	subscribers      map[int]chan State
	nextSubscriberId int
	closed           bool
}

type eventKind int

const (
	eventName eventKind = iota
	eventEmail
	eventPassword
)

type event struct {
	kind  eventKind
	value string
	ack   chan common.Done
}

type completion struct {
	seq    uint64
	result *scorer.Result
	err    error
}

// New starts the store's event loop; Close must be called to stop it
func New(opts NewOpts) *Store {
	store := &Store{
		scorer:      opts.Scorer,
		debounce:    opts.Debounce,
		serviceLogs: opts.ServiceLogs,
		events:      make(chan event),
		done:        make(chan common.Done),
		stopped:     make(chan common.Done),
		subscribers: map[int]chan State{},
	}
	if store.debounce <= 0 {
		store.debounce = DefaultDebounce
	}
	if store.serviceLogs == nil {
		store.serviceLogs = common.GetNoopServiceLog()
	}
	go store.loop()
	return store
}

// SetName stores the name used as a context token by the next scoring
// call. It returns once the state has been patched
func (s *Store) SetName(name string) error {
	return s.send(event{kind: eventName, value: name})
}

// SetEmail stores the email used as a context token by the next scoring
// call. It returns once the state has been patched
func (s *Store) SetEmail(email string) error {
	return s.send(event{kind: eventEmail, value: email})
}

// UpdatePassword marks the state as validating and (re)starts the quiet
// period; any scoring call still running for an older password is
// cancelled and its result discarded
func (s *Store) UpdatePassword(password string) error {
	return s.send(event{kind: eventPassword, value: password})
}

// Get returns a snapshot of the current state
func (s *Store) Get() State {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.state
}

// Subscribe returns a stream of states starting with the current one.
// The channel holds only the latest state so a slow reader skips
// intermediate states but never misses the last one. The stream is
// closed by the returned function or by Close
func (s *Store) Subscribe() (<-chan State, func()) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	states := make(chan State, 1)
	if s.closed {
		close(states)
		return states, func() {}
	}
	states <- s.state
	id := s.nextSubscriberId
	s.nextSubscriberId++
	s.subscribers[id] = states
	var once sync.Once
	return states, func() {
		once.Do(func() {
			s.mutex.Lock()
			defer s.mutex.Unlock()
			if subscriber, ok := s.subscribers[id]; ok {
				delete(s.subscribers, id)
				close(subscriber)
			}
		})
	}
}

// Validating streams the loading flag, emitting only on change
func (s *Store) Validating() (<-chan bool, func()) {
	return project(s, func(state State) bool { return state.Validating })
}

// CurrentResult streams the last committed result, emitting only when a
// new result is committed
func (s *Store) CurrentResult() (<-chan *scorer.Result, func()) {
	return project(s, func(state State) *scorer.Result { return state.Result })
}

// Close stops the event loop, cancels any scoring call in flight and
// closes every subscription
func (s *Store) Close() {
	s.closeOnce.Do(func() { close(s.done) })
	<-s.stopped
}

func (s *Store) send(e event) error {
	e.ack = make(chan common.Done)
	select {
	case s.events <- e:
	case <-s.done:
		return ErrClosed
	}
	<-e.ack
	return nil
}

func (s *Store) loop() {
	var (
		password    string
		seq         uint64
		timer       *time.Timer
		timerC      <-chan time.Time
		cancel      context.CancelFunc
		completions = make(chan completion)
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
		if cancel != nil {
			cancel()
		}
		s.closeSubscribers()
		close(s.stopped)
	}()

	for {
		select {
		case <-s.done:
			return

		case e := <-s.events:
			switch e.kind {
			case eventName:
				s.patch(func(state *State) { state.Name = e.value })
			case eventEmail:
				s.patch(func(state *State) { state.Email = e.value })
			case eventPassword:
				password = e.value
				seq++
				if cancel != nil {
					cancel()
					cancel = nil
					common.SupersededCounter.Inc()
					s.serviceLogs <- common.ServiceLogf(common.LogLevelTrace, "cancelled scoring superseded by seq[%v]", seq)
				}
				s.patch(func(state *State) { state.Validating = true })
				if timer != nil {
					timer.Stop()
				}
				timer = time.NewTimer(s.debounce)
				timerC = timer.C
			}
			close(e.ack)

		case <-timerC:
			timerC = nil
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())
			current := s.Get()
			contextTokens := []string{current.Name, current.Email}
			s.serviceLogs <- common.ServiceLogf(common.LogLevelTrace, "scoring seq[%v] (password length %v)", seq, len(password))
			go s.score(ctx, seq, password, contextTokens, completions)

		case c := <-completions:
			if c.seq != seq {
				s.serviceLogs <- common.ServiceLogf(common.LogLevelTrace, "dropped result of seq[%v], latest is seq[%v]", c.seq, seq)
				continue
			}
			cancel()
			cancel = nil
			if c.err != nil {
				s.serviceLogs <- common.ServiceLogf(common.LogLevelWarn, "failed to score seq[%v]: %s", c.seq, c.err)
				s.patch(func(state *State) {
					state.Err = c.err
					state.Validating = false
				})
				continue
			}
			s.patch(func(state *State) {
				state.Result = c.result
				state.Err = nil
				state.Validating = false
			})
		}
	}
}

func (s *Store) score(ctx context.Context, seq uint64, password string, contextTokens []string, completions chan<- completion) {
	result, err := s.scorer.LoadAndScore(ctx, password, contextTokens)
	select {
	case completions <- completion{seq: seq, result: result, err: err}:
	case <-s.done:
	}
}

func (s *Store) patch(update func(state *State)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	update(&s.state)
	for _, subscriber := range s.subscribers {
		publish(subscriber, s.state)
	}
}

func (s *Store) closeSubscribers() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.closed = true
	for id, subscriber := range s.subscribers {
		delete(s.subscribers, id)
		close(subscriber)
	}
}

// publish replaces whatever is buffered in `values` with `value`. Only
// one goroutine may send on `values`
func publish[T any](values chan T, value T) {
	select {
	case <-values:
	default:
	}
	values <- value
}

func project[T comparable](s *Store, pick func(State) T) (<-chan T, func()) {
	states, unsubscribe := s.Subscribe()
	values := make(chan T, 1)
	go func() {
		defer close(values)
		first := true
		var last T
		for state := range states {
			value := pick(state)
			if !first && value == last {
				continue
			}
			first = false
			last = value
			publish(values, value)
		}
	}()
	return values, unsubscribe
}
