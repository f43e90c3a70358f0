// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     app
// Description: Daemon orchestration: capture, VAD, STT, segmentation,
//              execution and history
// Author:      Kiran Shivaraju
// Created:     2026-07-18
// License:     MIT
// ============================================================================

package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"golang.design/x/hotkey"

	"github.com/kiranshivaraju/voice2code/internal/audio"
	"github.com/kiranshivaraju/voice2code/internal/automation"
	"github.com/kiranshivaraju/voice2code/internal/clipboard"
	"github.com/kiranshivaraju/voice2code/internal/config"
	"github.com/kiranshivaraju/voice2code/internal/engine"
	"github.com/kiranshivaraju/voice2code/internal/history"
	"github.com/kiranshivaraju/voice2code/internal/ipc"
	"github.com/kiranshivaraju/voice2code/internal/logging"
	"github.com/kiranshivaraju/voice2code/internal/segmenter"
	"github.com/kiranshivaraju/voice2code/internal/stt"
	"github.com/kiranshivaraju/voice2code/internal/vad"
	"github.com/kiranshivaraju/voice2code/internal/version"
)

// FrameSource abstracts microphone capture.
type FrameSource interface {
	Start(ctx context.Context) error
	Stop() error
	Close() error
	Output() <-chan []int16
}

// mediaController pauses media players while the microphone is open.
type mediaController interface {
	Pause()
	Resume()
}

// Components are the injectable pipeline pieces. Production wiring comes
// from New; tests substitute fakes.
type Components struct {
	Source      FrameSource
	Detector    vad.Detector
	Transcriber stt.Transcriber
	Store       history.Store
	Clipboard   clipboard.Clipboard
	Invoker     automation.Invoker
}

// App wires the dictation pipeline and serves the control socket.
type App struct {
	mu     sync.RWMutex
	config *config.Config
	logger *logging.Logger

	state     *StateMachine
	ctx       context.Context
	cancel    context.CancelFunc
	running   bool
	startedAt time.Time

	source      FrameSource
	preRoll     *audio.RingBuffer
	utterance   *audio.Utterance
	cues        *audio.Cues
	detector    vad.Detector
	tracker     *vad.Tracker
	transcriber stt.Transcriber
	seg         *segmenter.Segmenter
	eng         *engine.Engine
	store       history.Store
	media       mediaController
	hk          *hotkey.Hotkey
	server      *ipc.Server
	watcher     *config.Watcher

	listenCancel context.CancelFunc

	handsFree  bool
	dictations int64
	lastError  string
}

// New creates the daemon with production components.
func New(cfg *config.Config, logger *logging.Logger) (*App, error) {
	source, err := audio.NewCapture(audio.CaptureConfig{
		SampleRate: cfg.Audio.SampleRate,
		FrameMs:    cfg.Audio.FrameMs,
		Channels:   1,
		DeviceName: cfg.Audio.Device,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create audio capture: %w", err)
	}

	detector, err := vad.NewWebRTC(vad.Config{
		SampleRate: cfg.Audio.SampleRate,
		Mode:       cfg.VAD.Aggressiveness,
	})
	if err != nil {
		source.Close()
		return nil, fmt.Errorf("failed to create VAD: %w", err)
	}

	transcriber, err := stt.New(stt.Config{
		Backend:   cfg.STT.Backend,
		Binary:    cfg.STT.Binary,
		ModelPath: cfg.STT.ModelPath,
		ServerURL: cfg.STT.ServerURL,
		StreamURL: cfg.STT.StreamURL,
		Language:  cfg.STT.Language,
		Timeout:   cfg.STT.Timeout.Duration,
	})
	if err != nil {
		source.Close()
		return nil, fmt.Errorf("failed to create transcriber: %w", err)
	}

	var store history.Store
	if cfg.History.Enabled {
		path := cfg.History.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.General.DataDir, path)
		}
		store, err = history.NewSQLiteStore(history.SQLiteConfig{Path: path})
		if err != nil {
			source.Close()
			transcriber.Close()
			return nil, fmt.Errorf("failed to open history store: %w", err)
		}
	} else {
		store = history.NewMemoryStore()
	}

	inv, err := automation.New()
	if err != nil {
		source.Close()
		transcriber.Close()
		store.Close()
		return nil, fmt.Errorf("failed to create keystroke invoker: %w", err)
	}

	return NewWithComponents(cfg, logger, Components{
		Source:      source,
		Detector:    detector,
		Transcriber: transcriber,
		Store:       store,
		Clipboard:   clipboard.NewSystem(),
		Invoker:     inv,
	}), nil
}

// NewWithComponents creates the daemon around the given components.
func NewWithComponents(cfg *config.Config, logger *logging.Logger, c Components) *App {
	if logger == nil {
		logger = logging.Nop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	preRollSamples := int(cfg.VAD.PreRoll.Duration.Seconds() * float64(cfg.Audio.SampleRate))
	if preRollSamples <= 0 {
		preRollSamples = cfg.Audio.SampleRate / 2
	}

	a := &App{
		config:      cfg,
		logger:      logger,
		state:       NewStateMachine(),
		ctx:         ctx,
		cancel:      cancel,
		handsFree:   cfg.General.HandsFree,
		source:      c.Source,
		preRoll:     audio.NewRingBuffer(preRollSamples),
		utterance:   audio.NewUtterance(),
		cues:        audio.NewCues(cfg.Audio.Cues),
		detector:    c.Detector,
		tracker: vad.NewTracker(vad.Config{
			SampleRate:   cfg.Audio.SampleRate,
			Mode:         cfg.VAD.Aggressiveness,
			Silence:      cfg.VAD.Silence.Duration,
			MaxUtterance: cfg.VAD.MaxUtterance.Duration,
			MinSpeech:    cfg.VAD.MinSpeech.Duration,
		}),
		transcriber: c.Transcriber,
		seg:         loadSegmenter(cfg, logger),
		eng: engine.New(c.Clipboard, c.Invoker, engine.Config{
			MaxTextLength: cfg.Engine.MaxTextLength,
		}),
		store: c.Store,
		media: newMediaController(logger),
	}

	a.state.AddListener(func(oldState, newState State) {
		a.logger.Debug("state changed", "from", oldState.String(), "to", newState.String())
	})

	return a
}

// loadSegmenter builds the segmenter from the configured rules file.
// A missing or broken rules file degrades to no rules.
func loadSegmenter(cfg *config.Config, logger *logging.Logger) *segmenter.Segmenter {
	if cfg.General.RulesPath == "" {
		return segmenter.New(segmenter.Config{})
	}

	rules, err := segmenter.LoadRules(cfg.General.RulesPath)
	if err != nil {
		logger.Warn("failed to load rewrite rules", "path", cfg.General.RulesPath, "error", err)
		return segmenter.New(segmenter.Config{})
	}

	logger.Info("loaded rewrite rules", "path", cfg.General.RulesPath, "count", len(rules))
	return segmenter.New(segmenter.Config{Rules: rules})
}

// Run starts the control socket and blocks until ctx is cancelled or the
// daemon is shut down over IPC.
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return fmt.Errorf("already running")
	}
	a.running = true
	a.startedAt = time.Now()
	a.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			a.cancel()
		case <-a.ctx.Done():
		}
	}()

	server := ipc.NewServer(a.config.General.SocketPath, a, a.logger.Named("ipc"))
	if err := server.Listen(); err != nil {
		return err
	}
	a.mu.Lock()
	a.server = server
	a.mu.Unlock()

	if err := a.registerHotkey(); err != nil {
		a.logger.Warn("failed to register hotkey", "error", err)
	}

	a.watchRules()
	go a.pruneHistory()

	if a.HandsFree() {
		if err := a.StartListening(); err != nil {
			a.logger.Warn("failed to start hands-free listening", "error", err)
		}
	}

	a.logger.Info("daemon ready",
		"version", version.Version,
		"socket", a.config.General.SocketPath,
		"stt", a.config.STT.Backend,
		"hands_free", a.HandsFree())

	err := server.Serve(a.ctx)
	a.shutdown()
	return err
}

// watchRules reloads the segmenter when the rules file changes on disk.
func (a *App) watchRules() {
	if a.config.General.RulesPath == "" {
		return
	}

	watcher := config.NewWatcher(a.logger.Named("watch"))
	watcher.AddFile(a.config.General.RulesPath, func(path string) {
		if count, err := a.ReloadRules(); err != nil {
			a.logger.Warn("rules reload failed", "path", path, "error", err)
		} else {
			a.logger.Info("rules reloaded", "path", path, "count", count)
		}
	})

	if err := watcher.Start(a.ctx); err != nil {
		a.logger.Warn("cannot start rules watcher", "error", err)
		return
	}
	a.watcher = watcher
}

// pruneHistory removes entries older than the configured retention.
// A non-positive retention keeps everything.
func (a *App) pruneHistory() {
	days := a.config.History.RetentionDays
	if days <= 0 || !a.config.History.Enabled {
		return
	}

	ctx, cancel := context.WithTimeout(a.ctx, 30*time.Second)
	defer cancel()

	removed, err := a.store.Prune(ctx, time.Duration(days)*24*time.Hour)
	if err != nil {
		a.logger.Warn("history prune failed", "error", err)
		return
	}
	if removed > 0 {
		a.logger.Info("pruned history", "removed", removed, "retention_days", days)
		if err := a.store.Vacuum(ctx); err != nil {
			a.logger.Warn("history vacuum failed", "error", err)
		}
	}
}

// Toggle starts or stops listening. force is "start", "stop" or "" to
// flip the current state.
func (a *App) Toggle(force string) error {
	switch force {
	case "start":
		return a.StartListening()
	case "stop":
		return a.StopListening()
	case "":
		if a.state.Current() == StateListening {
			return a.StopListening()
		}
		return a.StartListening()
	default:
		return fmt.Errorf("invalid toggle direction: %s", force)
	}
}

// HandsFree reports whether listening continues across utterances.
func (a *App) HandsFree() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.handsFree
}

// SetHandsFree switches between hands-free and single-shot dictation.
// A change takes effect at the next utterance boundary.
func (a *App) SetHandsFree(enabled bool) {
	a.mu.Lock()
	changed := a.handsFree != enabled
	a.handsFree = enabled
	a.mu.Unlock()

	if changed {
		a.logger.Info("hands-free mode changed", "enabled", enabled)
	}
}

// StartListening opens the microphone and begins collecting an utterance.
func (a *App) StartListening() error {
	if !a.state.Transition(StateListening) {
		return fmt.Errorf("cannot start listening while %s", a.state.Current())
	}

	a.tracker.Reset()
	a.utterance.Clear()
	a.preRoll.Clear()

	if a.config.General.PauseMedia {
		a.media.Pause()
	}

	listenCtx, cancel := context.WithCancel(a.ctx)
	a.mu.Lock()
	a.listenCancel = cancel
	a.mu.Unlock()

	if err := a.source.Start(listenCtx); err != nil {
		a.mu.Lock()
		a.listenCancel = nil
		a.mu.Unlock()
		cancel()
		if a.config.General.PauseMedia {
			a.media.Resume()
		}
		a.fail("failed to start audio capture", err)
		return err
	}

	go a.cues.PlayStart()
	go a.listenLoop(listenCtx)

	a.logger.Info("listening")
	return nil
}

// listenLoop consumes captured frames until the session ends. It is the
// worker goroutine for transcription and execution, keeping that work off
// the hotkey and IPC goroutines.
func (a *App) listenLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case frame, ok := <-a.source.Output():
			if !ok {
				return
			}

			active, err := a.detector.Process(frame)
			if err != nil {
				a.logger.Warn("vad error", "error", err)
				continue
			}

			a.tracker.Update(active)

			if !a.tracker.Started() {
				a.preRoll.Write(frame)
				continue
			}

			// First speech frame pulls in the pre-roll so the
			// beginning of the first word is not clipped.
			if a.utterance.Len() == 0 {
				a.utterance.Append(a.preRoll.ReadAll())
			}
			a.utterance.Append(frame)

			if !a.tracker.EndOfUtterance() {
				continue
			}

			if a.HandsFree() {
				samples, valid := a.takeUtterance()
				if valid {
					if a.state.Transition(StateTranscribing) {
						a.processUtterance(ctx, samples, StateListening)
					}
				}
				continue
			}

			samples, valid := a.endSession()
			if valid {
				if a.state.Transition(StateTranscribing) {
					a.processUtterance(a.ctx, samples, StateIdle)
				}
			} else {
				a.state.Transition(StateIdle)
			}
			return
		}
	}
}

// takeUtterance snapshots and clears the collected utterance without
// closing the capture session.
func (a *App) takeUtterance() ([]int16, bool) {
	valid := a.tracker.IsValidSpeech()
	samples := a.utterance.Samples()
	a.tracker.Reset()
	a.utterance.Clear()
	a.preRoll.Clear()
	return samples, valid
}

// endSession closes the capture session and returns the pending utterance.
// Only the first caller wins; later callers get ok=false with no samples.
func (a *App) endSession() ([]int16, bool) {
	a.mu.Lock()
	cancel := a.listenCancel
	a.listenCancel = nil
	a.mu.Unlock()

	if cancel == nil {
		return nil, false
	}
	cancel()

	if err := a.source.Stop(); err != nil {
		a.logger.Warn("failed to stop audio capture", "error", err)
	}
	if a.config.General.PauseMedia {
		a.media.Resume()
	}
	go a.cues.PlayStop()

	a.logger.Info("stopped listening")
	return a.takeUtterance()
}

// StopListening closes the microphone. A pending utterance is processed
// on a worker goroutine before the pipeline returns to idle.
func (a *App) StopListening() error {
	if a.state.Current() != StateListening {
		if a.state.IsActive() {
			return fmt.Errorf("busy: %s", a.state.Current())
		}
		return fmt.Errorf("not listening")
	}

	samples, valid := a.endSession()
	if valid {
		if a.state.Transition(StateTranscribing) {
			go a.processUtterance(a.ctx, samples, StateIdle)
		}
		return nil
	}

	a.state.Transition(StateIdle)
	return nil
}

// processUtterance runs one utterance through STT, segmentation and the
// execution engine, records it, and moves the state machine to returnTo.
func (a *App) processUtterance(ctx context.Context, samples []int16, returnTo State) {
	result, err := a.transcriber.Transcribe(ctx, samples, a.config.Audio.SampleRate)
	if err != nil {
		a.recordEntry(history.Entry{
			Status: history.StatusFailed,
			Error:  err.Error(),
		})
		a.fail("transcription failed", err)
		a.resumeAfterProcessing(returnTo)
		return
	}

	a.logger.Debug("transcribed", "text", result.Text, "audio", result.Duration)

	segments := a.segmenter().Segment(result.Text)
	if len(segments) == 0 {
		a.logger.Debug("nothing to type")
		a.resumeAfterProcessing(returnTo)
		return
	}

	if !a.state.Transition(StateExecuting) {
		a.resumeAfterProcessing(returnTo)
		return
	}

	_, _ = a.execute(result.Text, segments, result.Duration)
	a.resumeAfterProcessing(returnTo)
}

// execute runs segments through the engine and records the outcome. On
// failure the state machine has already been reset when it returns.
func (a *App) execute(transcript string, segments []engine.Segment, audioLen time.Duration) (int, error) {
	commands := 0
	for _, seg := range segments {
		if seg.Kind == engine.KindCommand {
			commands++
		}
	}

	err := a.eng.Execute(segments)

	entry := history.Entry{
		Transcript: transcript,
		Segments:   len(segments),
		Commands:   commands,
		Duration:   audioLen,
		Status:     history.StatusOK,
	}
	if err != nil {
		entry.Status = history.StatusFailed
		entry.Error = err.Error()
	}
	a.recordEntry(entry)

	if err != nil {
		a.fail("execution failed", err)
		return commands, err
	}

	a.mu.Lock()
	a.dictations++
	a.mu.Unlock()
	a.logger.Info("dictation executed", "segments", len(segments), "commands", commands)
	return commands, nil
}

// resumeAfterProcessing returns the pipeline to the post-utterance state.
func (a *App) resumeAfterProcessing(returnTo State) {
	if returnTo == StateListening && a.ctx.Err() == nil && a.sessionOpen() {
		a.state.Transition(StateListening)
		return
	}
	if a.state.Current() != StateIdle {
		a.state.Transition(StateIdle)
	}
}

func (a *App) sessionOpen() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.listenCancel != nil
}

// TypeText runs text through segmentation and execution as if it had been
// dictated. It returns the segment and command counts.
func (a *App) TypeText(text string) (int, int, error) {
	if !a.state.Transition(StateExecuting) {
		return 0, 0, fmt.Errorf("busy: %s", a.state.Current())
	}

	segments := a.segmenter().Segment(text)
	if len(segments) == 0 {
		a.state.Transition(StateIdle)
		return 0, 0, nil
	}

	commands, err := a.execute(text, segments, 0)
	if err != nil {
		return len(segments), commands, err
	}

	a.state.Transition(StateIdle)
	return len(segments), commands, nil
}

// ReloadRules reloads the rewrite rules file and swaps the segmenter.
func (a *App) ReloadRules() (int, error) {
	path := a.config.General.RulesPath
	if path == "" {
		return 0, fmt.Errorf("no rules file configured")
	}

	rules, err := segmenter.LoadRules(path)
	if err != nil {
		if errors.Is(err, segmenter.ErrRulesNotFound) {
			a.swapSegmenter(segmenter.New(segmenter.Config{}))
			return 0, nil
		}
		return 0, err
	}

	a.swapSegmenter(segmenter.New(segmenter.Config{Rules: rules}))
	return len(rules), nil
}

func (a *App) swapSegmenter(seg *segmenter.Segmenter) {
	a.mu.Lock()
	a.seg = seg
	a.mu.Unlock()
}

func (a *App) segmenter() *segmenter.Segmenter {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.seg
}

// Status reports daemon state for the status IPC request.
func (a *App) Status() ipc.StatusResponse {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return ipc.StatusResponse{
		Version:    version.Version,
		Uptime:     time.Since(a.startedAt).Round(time.Second),
		StartedAt:  a.startedAt,
		State:      a.state.Current().String(),
		STTBackend: a.config.STT.Backend,
		Dictations: a.dictations,
		LastError:  a.lastError,
	}
}

// OnStateChange registers a callback for pipeline state changes, used by
// the tray to update its icon.
func (a *App) OnStateChange(fn func(State)) {
	a.state.AddListener(func(_, newState State) {
		fn(newState)
	})
}

// State returns the current pipeline state.
func (a *App) State() State {
	return a.state.Current()
}

// Shutdown asks the daemon to stop. It returns immediately; Run performs
// the actual teardown.
func (a *App) Shutdown() {
	a.cancel()
}

// fail records a pipeline error and returns the state machine to idle.
func (a *App) fail(stage string, err error) {
	a.mu.Lock()
	a.lastError = err.Error()
	a.mu.Unlock()

	a.logger.Error(stage, "error", err)
	a.state.Transition(StateError)
	a.state.Reset()
}

// shutdown tears down all components after the IPC server stopped.
func (a *App) shutdown() {
	a.endSession()
	a.unregisterHotkey()

	if a.watcher != nil {
		a.watcher.Stop()
	}
	if err := a.transcriber.Close(); err != nil {
		a.logger.Warn("failed to close transcriber", "error", err)
	}
	if err := a.source.Close(); err != nil {
		a.logger.Warn("failed to close audio capture", "error", err)
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close history store", "error", err)
	}

	a.logger.Info("daemon stopped")
}

// recordEntry writes a history entry, logging failures instead of
// propagating them: history must never break dictation.
func (a *App) recordEntry(entry history.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.store.Record(ctx, &entry); err != nil {
		a.logger.Warn("failed to record history entry", "error", err)
	}
}
