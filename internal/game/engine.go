package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"wishbot/internal/entities"
	"wishbot/internal/metrics"
	"wishbot/internal/queue"
	"wishbot/internal/repository"
	"wishbot/internal/session"
)

var (
	ErrEmptyDeck    = errors.New("deck is empty")
	ErrMissingAsset = errors.New("asset file is missing")
)

type Deps struct {
	Repo      repository.Repository
	Decks     Decks
	Sessions  session.Store[*Session]
	Messenger Messenger
	Roller    Roller
	Scheduler Scheduler
	// Leads receives users who claimed the discount. Optional.
	Leads     *queue.Queue[entities.Lead]
}

// lockStripes is the number of mutexes users are spread over.
const lockStripes = 64

// Engine drives every user through the dialogue. Events of one user are handled one at a time.
type Engine struct {
	cfg      *Config
	repo     repository.Repository
	decks    Decks
	sessions session.Store[*Session]
	out      Messenger
	dice     Roller
	sched    Scheduler
	leads    *queue.Queue[entities.Lead]
	locks    [lockStripes]sync.Mutex
	l        *slog.Logger
}

func New(cfg *Config, deps Deps, l *slog.Logger) *Engine {
	if deps.Roller == nil {
		deps.Roller = RandomRoller{}
	}
	return &Engine{
		cfg:      cfg,
		repo:     deps.Repo,
		decks:    deps.Decks,
		sessions: deps.Sessions,
		out:      deps.Messenger,
		dice:     deps.Roller,
		sched:    deps.Scheduler,
		leads:    deps.Leads,
		l:        l.With("name", "GameEngine"),
	}
}

// Run handles scheduled continuations until ctx is done.
func (e *Engine) Run(ctx context.Context, q *queue.Queue[Event]) error {
	e.l.Info("game engine is ready")
	for {
		select {
		case <-ctx.Done():
			e.l.Info("stopping game engine")
			return nil
		case ev := <-q.AsChan():
			if err := e.Handle(ctx, ev); err != nil {
				e.l.Error("error handling scheduled event", "userId", ev.UserId, "err", err.Error())
			}
		}
	}
}

// Handle applies ev to its user's session.
func (e *Engine) Handle(ctx context.Context, ev Event) error {
	mu := e.lock(ev.UserId)
	mu.Lock()
	defer mu.Unlock()

	s, ok := e.sessions.Get(ev.UserId)
	if !ok {
		s = NewSession(ev.ChatId)
	}
	if ev.ChatId != 0 {
		s.ChatId = ev.ChatId
	}
	t := &turn{
		Engine: e,
		ctx:    ctx,
		s:      s,
		ev:     ev,
		l:      e.l.With("userId", ev.UserId, "event", ev.Kind.String(), "state", s.State.String()),
	}

	handler := lookup(s.State, ev.Kind)
	if handler == nil {
		t.unexpected()
		e.sessions.Put(ev.UserId, s)
		return nil
	}

	err := handler(t)
	if t.finished {
		e.sessions.Clear(ev.UserId)
	} else {
		e.sessions.Put(ev.UserId, s)
	}
	if err != nil {
		t.l.Error("error handling event", "err", err.Error())
		_, _ = t.say(somethingWrongMsg, nil)
		return err
	}
	return nil
}

// Session returns a snapshot of the user's session.
func (e *Engine) Session(userId int64) (Session, bool) {
	mu := e.lock(userId)
	mu.Lock()
	defer mu.Unlock()

	s, ok := e.sessions.Get(userId)
	if !ok {
		return Session{}, false
	}
	return s.clone(), true
}

// lock returns the mutex serializing userId's events. Users may share one.
func (e *Engine) lock(userId int64) *sync.Mutex {
	return &e.locks[uint64(userId)%lockStripes]
}

// turn is the handling of a single event.
type turn struct {
	*Engine
	ctx      context.Context
	s        *Session
	ev       Event
	l        *slog.Logger
	finished bool
}

func (t *turn) transition(name string) error {
	from := t.s.State
	m := newMachine(from, func(ctx context.Context, left State) { t.cleanup(left) })
	if err := m.Event(t.ctx, name); err != nil {
		return fmt.Errorf("transition %s from %s: %w", name, from, err)
	}
	next, err := ParseState(m.Current())
	if err != nil {
		return err
	}
	t.s.State = next
	t.l.Debug("state changed", "from", from.String(), "to", next.String())
	return nil
}

func (t *turn) cleanup(left State) {
	for _, h := range exitCleanup[left] {
		id, ok := t.s.UI[h]
		if !ok {
			continue
		}
		t.s.forget(h)
		if err := t.out.Delete(t.ctx, t.s.ChatId, id); err != nil {
			t.l.Warn("error deleting message", "messageId", id, "err", err.Error())
		}
	}
}

func (t *turn) say(text string, kb Keyboard) (int, error) {
	id, err := t.out.SendText(t.ctx, t.s.ChatId, text, kb)
	if err != nil {
		return 0, fmt.Errorf("send message: %w", err)
	}
	return id, nil
}

// step records a funnel checkpoint. Failures are logged only.
func (t *turn) step(name string) {
	if err := t.repo.AppendFunnelEvent(t.ctx, t.ev.UserId, name); err != nil {
		t.l.Error("error logging funnel step", "step", name, "err", err.Error())
		return
	}
	metrics.FunnelSteps.WithLabelValues(name).Inc()
}

// text returns the trimmed message text, asking again when it is blank.
func (t *turn) text() (string, bool) {
	text := strings.TrimSpace(t.ev.Text)
	if text == "" {
		_, _ = t.say(emptyAnswerMsg, nil)
		return "", false
	}
	return text, true
}

func (t *turn) unexpected() {
	t.l.Debug("event ignored")
	if t.ev.Kind == EventText && t.s.State == StateIdle {
		_, _ = t.say(notStartedMsg, nil)
	}
}

// assetProblem tells the user about an unusable deck and stops the turn without changing state.
func (t *turn) assetProblem(err error, emptyMsg string) error {
	switch {
	case errors.Is(err, ErrEmptyDeck):
		t.l.Warn("deck is empty")
		_, sendErr := t.say(emptyMsg, nil)
		return sendErr
	case errors.Is(err, ErrMissingAsset):
		t.l.Warn("card image is missing", "err", err.Error())
		_, sendErr := t.say(missingCardMsg, nil)
		return sendErr
	default:
		return err
	}
}
