package engine

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-arrow/engine/profiler"
	"github.com/Carmen-Shannon/oxy-arrow/engine/window"
	"github.com/rs/zerolog"
)

// taskQueueSize bounds the tasks posted between two frames.
const taskQueueSize = 256

// FrameTarget is the part of renderer.Renderer the frame loop drives.
type FrameTarget interface {
	Resize(width, height int)
	BeginFrame() error
	EndFrame()
	Present()
}

type engine struct {
	wg sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once
	tasks       chan func()

	window window.Window
	target FrameTarget
	logger zerolog.Logger

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	renderCallback func(deltaTime float32)
	resizeCallback func(width, height int)

	resizeMu      sync.Mutex
	pendingWidth  int
	pendingHeight int
	resizePending bool

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine runs the frame loop of the map view: it owns the render goroutine, applies
// window resizes to the frame target between frames, and brackets the render callback
// with BeginFrame and EndFrame/Present.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance, or nil when running headless
	Window() window.Window

	// EnableProfiler enables frame statistics in the log.
	EnableProfiler()

	// DisableProfiler disables frame statistics.
	DisableProfiler()

	// SetRenderCallback registers the function that draws one frame. It runs on the render
	// goroutine inside an open frame.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetResizeCallback registers the function called on the render goroutine after the
	// frame target has been resized.
	//
	// Parameters:
	//   - callback: function receiving the new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Do schedules fn on the render goroutine before the next frame. Input handlers use it
	// to mutate state the render callback reads.
	//
	// Parameters:
	//   - fn: the task to run
	Do(fn func())

	// Run starts the render goroutine and the window message loop. Blocks until the
	// window closes, or until Quit when there is no window.
	Run()

	// Quit signals the render goroutine to stop. Safe to call multiple times.
	Quit()
}

// NewEngine creates a new Engine with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		quitChannel: make(chan struct{}),
		tasks:       make(chan func(), taskQueueSize),
		logger:      zerolog.Nop(),
	}
	for _, opt := range options {
		opt(e)
	}
	e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	e.logger = e.logger.With().Str("component", "engine").Logger()

	if e.window != nil {
		e.window.SetResizeCallback(e.requestResize)
	}
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetResizeCallback(callback func(width, height int)) {
	e.resizeCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

func (e *engine) Do(fn func()) {
	select {
	case e.tasks <- fn:
	case <-e.quitChannel:
	}
}

func (e *engine) Run() {
	e.wg.Add(1)
	go e.handleRender()
	if e.window != nil {
		e.window.ProcessMessages()
		e.Quit()
	} else {
		<-e.quitChannel
	}
	e.wg.Wait()
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// requestResize records a resize from the window thread; the render goroutine applies it.
func (e *engine) requestResize(width, height int) {
	e.resizeMu.Lock()
	defer e.resizeMu.Unlock()
	e.pendingWidth = width
	e.pendingHeight = height
	e.resizePending = true
}

// handleRender runs the render loop until quit. Recovers from panics and signals quit.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Msg("render goroutine recovered from panic")
			e.Quit()
		}
	}()

	lastRender := time.Now()
	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		now := time.Now()
		dt := float32(now.Sub(lastRender).Seconds())
		lastRender = now

		if err := e.renderFrame(dt); err != nil {
			e.logger.Warn().Err(err).Msg("frame skipped")
		}
		if e.profilingEnabled.Load() {
			e.profiler.Tick()
		}

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(now); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// renderFrame runs posted tasks, applies a pending resize and draws one frame.
func (e *engine) renderFrame(dt float32) error {
	e.drainTasks()

	e.resizeMu.Lock()
	width, height, resized := e.pendingWidth, e.pendingHeight, e.resizePending
	e.resizePending = false
	e.resizeMu.Unlock()

	if resized && width > 0 && height > 0 {
		if e.target != nil {
			e.target.Resize(width, height)
		}
		if e.resizeCallback != nil {
			e.resizeCallback(width, height)
		}
	}

	if e.target == nil {
		return nil
	}
	if err := e.target.BeginFrame(); err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}
	if e.renderCallback != nil {
		e.renderCallback(dt)
	}
	e.target.EndFrame()
	e.target.Present()
	return nil
}

func (e *engine) drainTasks() {
	for {
		select {
		case fn := <-e.tasks:
			fn()
		default:
			return
		}
	}
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
