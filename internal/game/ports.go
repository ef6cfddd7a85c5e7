package game

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"wishbot/internal/assets"
	"wishbot/internal/queue"
)

type Button struct {
	Text string
	Data string
	URL  string
}

// Keyboard is a grid of inline buttons, one slice per row.
type Keyboard [][]Button

// Messenger delivers outbound messages. Returned ints are message ids.
type Messenger interface {
	SendText(ctx context.Context, chatId int64, text string, kb Keyboard) (int, error)
	SendPhoto(ctx context.Context, chatId int64, path string, kb Keyboard) (int, error)
	EditText(ctx context.Context, chatId int64, messageId int, text string, kb Keyboard) error
	EditPhoto(ctx context.Context, chatId int64, messageId int, path string, kb Keyboard) error
	Delete(ctx context.Context, chatId int64, messageId int) error
}

// Roller produces a dice value in [1, 6].
type Roller interface {
	Roll(ctx context.Context, chatId int64) (int, error)
}

type RandomRoller struct{}

func (RandomRoller) Roll(context.Context, int64) (int, error) {
	return rand.IntN(6) + 1, nil
}

// Scheduler delivers ev back to the engine after d.
type Scheduler interface {
	After(d time.Duration, ev Event)
}

// TimerScheduler pushes delayed events into the queue drained by Engine.Run.
type TimerScheduler struct {
	q      *queue.Queue[Event]
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	timers map[*time.Timer]struct{}
}

func NewTimerScheduler(q *queue.Queue[Event]) *TimerScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &TimerScheduler{q: q, ctx: ctx, cancel: cancel, timers: map[*time.Timer]struct{}{}}
}

func (s *TimerScheduler) After(d time.Duration, ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return
	}

	var timer *time.Timer
	timer = time.AfterFunc(d, func() {
		s.mu.Lock()
		delete(s.timers, timer)
		s.mu.Unlock()
		_ = s.q.PutContext(s.ctx, ev)
	})
	s.timers[timer] = struct{}{}
}

// Pending returns the number of events not yet delivered.
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop drops every pending event.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel()
	for timer := range s.timers {
		timer.Stop()
	}
	s.timers = map[*time.Timer]struct{}{}
}

// Decks is the read side of the asset repository.
type Decks interface {
	List(category assets.Category) ([]string, error)
	PickRandom(category assets.Category) (string, bool, error)
	Resolve(category assets.Category, name string) string
	Exists(path string) bool
}
