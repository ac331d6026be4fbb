// Package pomodoro implements the countdown state machine for focus
// sessions. Each user gets one Engine; all state lives in memory and is
// discarded on stop or acknowledge. Completed work sessions are written
// back to storage through the Recorder interface.
package pomodoro

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/OsGift/focusflow-api/internal/models"
)

// SessionType identifies what kind of interval is counting down
type SessionType string

const (
	SessionWork       SessionType = "work"
	SessionShortBreak SessionType = "short_break"
	SessionLongBreak  SessionType = "long_break"
)

// Phase is the engine's lifecycle state
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseRunning   Phase = "running"
	PhasePaused    Phase = "paused"
	PhaseCompleted Phase = "completed"
)

// Settings holds the configurable session durations.
type Settings struct {
	WorkMinutes            int `json:"work_minutes"`
	ShortBreakMinutes      int `json:"short_break_minutes"`
	LongBreakMinutes       int `json:"long_break_minutes"`
	SessionsUntilLongBreak int `json:"sessions_until_long_break"`
}

// DefaultSettings are the classic pomodoro intervals.
func DefaultSettings() Settings {
	return Settings{
		WorkMinutes:            25,
		ShortBreakMinutes:      5,
		LongBreakMinutes:       15,
		SessionsUntilLongBreak: 4,
	}
}

// Validate rejects out-of-range durations. Values are never clamped, so the
// caller can surface the validation error as-is.
func (s Settings) Validate() error {
	if s.WorkMinutes < 5 || s.WorkMinutes > 60 {
		return models.NewValidationError("work duration must be between 5 and 60 minutes, got %d", s.WorkMinutes)
	}
	if s.ShortBreakMinutes < 1 || s.ShortBreakMinutes > 30 {
		return models.NewValidationError("short break must be between 1 and 30 minutes, got %d", s.ShortBreakMinutes)
	}
	if s.LongBreakMinutes < 5 || s.LongBreakMinutes > 60 {
		return models.NewValidationError("long break must be between 5 and 60 minutes, got %d", s.LongBreakMinutes)
	}
	if s.SessionsUntilLongBreak < 2 || s.SessionsUntilLongBreak > 10 {
		return models.NewValidationError("sessions until long break must be between 2 and 10, got %d", s.SessionsUntilLongBreak)
	}
	return nil
}

// Recorder receives the write-back when a work session finishes. Break
// sessions are never recorded.
type Recorder interface {
	RecordWorkSession(ctx context.Context, userID primitive.ObjectID, taskID *primitive.ObjectID, start, end time.Time) error
}

// State is a read-only snapshot of the engine for API responses.
type State struct {
	Phase            Phase               `json:"phase"`
	SessionType      SessionType         `json:"session_type,omitempty"`
	TotalSeconds     int                 `json:"total_seconds"`
	RemainingSeconds int                 `json:"remaining_seconds"`
	TaskID           *primitive.ObjectID `json:"task_id,omitempty"`
	CycleIndex       int                 `json:"cycle_index"`
	NextBreakLong    bool                `json:"next_break_long"`
	Settings         Settings            `json:"settings"`
}

// Engine is the per-user pomodoro state machine. All transitions go through
// its methods; the mutex guarantees ticks never overlap other transitions.
type Engine struct {
	mu       sync.Mutex
	userID   primitive.ObjectID
	settings Settings
	recorder Recorder

	phase        Phase
	sessionType  SessionType
	totalSeconds int
	remaining    int
	taskID       *primitive.ObjectID
	cycleIndex   int

	cancelTicker chan struct{}
}

// NewEngine creates an idle engine for one user.
func NewEngine(userID primitive.ObjectID, settings Settings, recorder Recorder) *Engine {
	return &Engine{
		userID:   userID,
		settings: settings,
		recorder: recorder,
		phase:    PhaseIdle,
	}
}

// StartWork begins a work session, optionally bound to a task. Starting is
// only allowed from idle: an active session is never replaced, and an
// unacknowledged completion must be acknowledged first so the long-break
// cycle it carries is not discarded.
func (e *Engine) StartWork(taskID *primitive.ObjectID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseIdle {
		return models.ErrSessionActive
	}
	e.beginLocked(SessionWork, e.settings.WorkMinutes*60, taskID)
	return nil
}

// StartBreak begins a break session.
func (e *Engine) StartBreak(long bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseIdle {
		return models.ErrSessionActive
	}
	if long {
		e.beginLocked(SessionLongBreak, e.settings.LongBreakMinutes*60, nil)
	} else {
		e.beginLocked(SessionShortBreak, e.settings.ShortBreakMinutes*60, nil)
	}
	return nil
}

func (e *Engine) beginLocked(st SessionType, seconds int, taskID *primitive.ObjectID) {
	e.phase = PhaseRunning
	e.sessionType = st
	e.totalSeconds = seconds
	e.remaining = seconds
	e.taskID = taskID
	e.startTickerLocked()
}

// Pause freezes the countdown. No ticks occur while paused.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseRunning {
		return models.ErrNoActiveSession
	}
	e.phase = PhasePaused
	e.stopTickerLocked()
	return nil
}

// Resume continues a paused countdown with remaining time unchanged.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhasePaused {
		return models.ErrNoActiveSession
	}
	e.phase = PhaseRunning
	e.startTickerLocked()
	return nil
}

// Stop discards the session without persisting anything.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseRunning && e.phase != PhasePaused {
		return models.ErrNoActiveSession
	}
	e.stopTickerLocked()
	e.resetLocked()
	return nil
}

// Tick advances the countdown by one second. Driven by the internal ticker
// in production; tests call it directly.
func (e *Engine) Tick() {
	e.mu.Lock()
	if e.phase != PhaseRunning {
		e.mu.Unlock()
		return
	}
	e.remaining--
	if e.remaining > 0 {
		e.mu.Unlock()
		return
	}
	e.remaining = 0
	e.phase = PhaseCompleted
	e.stopTickerLocked()

	sessionType := e.sessionType
	taskID := e.taskID
	elapsed := time.Duration(e.totalSeconds) * time.Second
	userID := e.userID
	recorder := e.recorder
	e.mu.Unlock()

	// Only a finished work session touches storage.
	if sessionType == SessionWork && recorder != nil {
		end := time.Now()
		start := end.Add(-elapsed)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := recorder.RecordWorkSession(ctx, userID, taskID, start, end); err != nil {
			log.Error().Err(err).Str("user_id", userID.Hex()).Msg("failed to record completed work session")
		}
	}
}

// Acknowledge returns a completed session to idle. Work completions advance
// the cycle index that drives the long-break cadence.
func (e *Engine) Acknowledge() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseCompleted {
		return models.ErrNoActiveSession
	}
	if e.sessionType == SessionWork {
		e.cycleIndex++
	}
	e.resetLocked()
	return nil
}

// NextBreakLong reports whether the next suggested break is a long one:
// every sessionsUntilLongBreak-th completed work session.
func (e *Engine) NextBreakLong() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.nextBreakLongLocked()
}

func (e *Engine) nextBreakLongLocked() bool {
	return e.cycleIndex > 0 && e.cycleIndex%e.settings.SessionsUntilLongBreak == 0
}

// UpdateSettings replaces the durations. Rejected while a session is active
// so a running countdown never changes length midway.
func (e *Engine) UpdateSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase == PhaseRunning || e.phase == PhasePaused {
		return models.ErrSessionActive
	}
	e.settings = s
	return nil
}

// State returns a snapshot of the engine.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{
		Phase:            e.phase,
		SessionType:      e.sessionType,
		TotalSeconds:     e.totalSeconds,
		RemainingSeconds: e.remaining,
		TaskID:           e.taskID,
		CycleIndex:       e.cycleIndex,
		NextBreakLong:    e.nextBreakLongLocked(),
		Settings:         e.settings,
	}
}

func (e *Engine) resetLocked() {
	e.phase = PhaseIdle
	e.sessionType = ""
	e.totalSeconds = 0
	e.remaining = 0
	e.taskID = nil
}

// startTickerLocked launches the one-second wall-clock driver. The previous
// ticker, if any, is cancelled first so at most one runs per engine.
func (e *Engine) startTickerLocked() {
	e.stopTickerLocked()
	cancel := make(chan struct{})
	e.cancelTicker = cancel
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-cancel:
				return
			case <-ticker.C:
				e.Tick()
			}
		}
	}()
}

func (e *Engine) stopTickerLocked() {
	if e.cancelTicker != nil {
		close(e.cancelTicker)
		e.cancelTicker = nil
	}
}
