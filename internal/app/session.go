package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/kitikazis/ELAC-Lectura/internal/domain"
)

// DefaultReadingTime is how long the passage stays on screen before the
// questions are revealed.
const DefaultReadingTime = 60 * time.Second

// Phase is the session's position in the linear quiz flow.
type Phase int

const (
	PhaseReading Phase = iota
	PhaseAnswering
	PhaseResults
)

func (p Phase) String() string {
	switch p {
	case PhaseReading:
		return "reading"
	case PhaseAnswering:
		return "answering"
	case PhaseResults:
		return "results"
	}
	return "unknown"
}

// Event types published to session subscribers.
const (
	EventTick    = "tick"
	EventPhase   = "phase"
	EventResults = "results"
)

// Event is a snapshot-friendly view of session state for presentation layers.
type Event struct {
	Type             string        `json:"type"`
	Phase            string        `json:"phase"`
	RemainingSeconds int           `json:"remainingSeconds"`
	Progress         float64       `json:"progress"`
	Score            *domain.Score `json:"score,omitempty"`
}

// Session drives one participant through reading, answering, and results.
// The category content is snapshotted at creation, so admin edits made while
// the quiz is in flight never reach the participant.
type Session struct {
	participant  string
	category     domain.Category
	readingTotal int
	tickEvery    time.Duration
	now          func() time.Time

	mu          sync.Mutex
	phase       Phase
	readingLeft int
	answers     []int
	reading     *countdown
	closed      bool
	subscribers map[chan Event]struct{}
}

// NewSession snapshots the category and prepares a session in the Reading
// phase with every answer slot initialized to the unanswered sentinel.
func NewSession(participant string, category domain.Category, readingTime time.Duration) *Session {
	return newSessionWithTick(participant, category, readingTime, time.Second, time.Now)
}

// newSessionWithTick allows fast deterministic timers in tests.
func newSessionWithTick(participant string, category domain.Category, readingTime, tickEvery time.Duration, now func() time.Time) *Session {
	snapshot := category.Clone()
	answers := make([]int, len(snapshot.Questions))
	for i := range answers {
		answers[i] = domain.Unanswered
	}
	seconds := int(readingTime / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return &Session{
		participant:  participant,
		category:     snapshot,
		readingTotal: seconds,
		tickEvery:    tickEvery,
		now:          now,
		phase:        PhaseReading,
		readingLeft:  seconds,
		answers:      answers,
		subscribers:  make(map[chan Event]struct{}),
	}
}

// StartReading begins the reading countdown. When it reaches zero the session
// moves to Answering exactly once, even if two ticks observe the crossing.
func (s *Session) StartReading() {
	s.mu.Lock()
	if s.closed || s.reading != nil {
		s.mu.Unlock()
		return
	}
	s.reading = newCountdown(
		time.Duration(s.readingTotal)*s.tickEvery,
		s.tickEvery,
		s.now,
		s.onReadingTick,
		s.BeginAnswering,
	)
	reading := s.reading
	s.mu.Unlock()
	reading.Start()
}

func (s *Session) onReadingTick(remaining time.Duration) {
	s.mu.Lock()
	if s.phase != PhaseReading || s.closed {
		// Stale tick after a transition; drop it.
		s.mu.Unlock()
		return
	}
	left := int((remaining + s.tickEvery - 1) / s.tickEvery)
	if left < 0 {
		left = 0
	}
	s.readingLeft = left
	s.publishLocked(Event{
		Type:             EventTick,
		Phase:            s.phase.String(),
		RemainingSeconds: left,
		Progress:         s.progressLocked(),
	})
	s.mu.Unlock()
}

// BeginAnswering ends the reading phase, either from the countdown hitting
// zero or a manual skip. Repeat calls and calls after Close are no-ops.
func (s *Session) BeginAnswering() {
	s.mu.Lock()
	if s.phase != PhaseReading || s.closed {
		s.mu.Unlock()
		return
	}
	s.phase = PhaseAnswering
	s.readingLeft = 0
	if s.reading != nil {
		s.reading.Cancel()
	}
	s.publishLocked(Event{
		Type:     EventPhase,
		Phase:    s.phase.String(),
		Progress: 1,
	})
	s.mu.Unlock()
}

// SelectAnswer records at most one option for a question; re-selecting
// overwrites. Only legal during the Answering phase.
func (s *Session) SelectAnswer(question, option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseAnswering {
		return fmt.Errorf("%w: answers accepted only in the answering phase", domain.ErrInvalidState)
	}
	if question < 0 || question >= len(s.answers) {
		return fmt.Errorf("%w: question index %d out of range", domain.ErrValidation, question)
	}
	if option < 0 || option >= len(s.category.Questions[question].Options) {
		return fmt.Errorf("%w: option index %d out of range", domain.ErrValidation, option)
	}
	s.answers[question] = option
	return nil
}

// Submit freezes the current selections in question order, evaluates them,
// and moves the session to its terminal Results phase.
func (s *Session) Submit() (domain.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseAnswering {
		return domain.Score{}, fmt.Errorf("%w: submit requires the answering phase", domain.ErrInvalidState)
	}
	score, err := Evaluate(s.category.Questions, s.answers)
	if err != nil {
		return domain.Score{}, err
	}
	s.phase = PhaseResults
	s.publishLocked(Event{
		Type:     EventResults,
		Phase:    s.phase.String(),
		Progress: 1,
		Score:    &score,
	})
	return score, nil
}

// Close discards the session: countdown cancelled, subscribers closed.
// Safe to call any number of times.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.reading != nil {
		s.reading.Cancel()
	}
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
	s.mu.Unlock()
}

// Subscribe returns a channel of session events plus a cancel function.
// The cancel is idempotent and also implied by Close.
func (s *Session) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) publishLocked(ev Event) {
	for ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			// Drop the oldest event rather than block the timer on a slow reader.
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}

func (s *Session) progressLocked() float64 {
	if s.readingTotal == 0 {
		return 1
	}
	return float64(s.readingTotal-s.readingLeft) / float64(s.readingTotal)
}

// Participant returns the name given at join time.
func (s *Session) Participant() string { return s.participant }

// Category returns the content snapshot taken at session start.
func (s *Session) Category() domain.Category {
	return s.category.Clone()
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// RemainingReading returns the seconds left in the reading phase.
func (s *Session) RemainingReading() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readingLeft
}

// Answers returns a copy of the current selections.
func (s *Session) Answers() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.answers...)
}
