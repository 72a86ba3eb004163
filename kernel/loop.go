package kernel

// LoopState is the state of a Loop.
type LoopState uint8

const (
	LoopStopped LoopState = iota
	LoopRunning
)

func (s LoopState) String() string {
	switch s {
	case LoopStopped:
		return "stopped"
	case LoopRunning:
		return "running"
	default:
		return "unknown"
	}
}

// FrameFunc draws one frame and reports whether another frame is wanted.
type FrameFunc func(ctx *Context) (more bool)

// Loop is a frame task driven by a two-state machine.
//
// While running, the loop re-arms itself after every frame in which fn
// returns true and drops to stopped when fn returns false. Stop takes effect
// before the next armed frame: the step checks the state first and exits
// without calling fn. Request arms a single frame regardless of state; a
// later Stop cancels it.
type Loop struct {
	k     *Kernel
	id    TaskID
	fn    FrameFunc
	state LoopState
	once  bool
}

// NewLoop registers a loop with the kernel. The loop starts stopped.
func NewLoop(k *Kernel, fn FrameFunc) (*Loop, error) {
	l := &Loop{k: k, fn: fn}
	id, err := k.AddTask(l)
	if err != nil {
		return nil, err
	}
	l.id = id
	return l, nil
}

// ID returns the loop's task ID.
func (l *Loop) ID() TaskID { return l.id }

// State returns the current state.
func (l *Loop) State() LoopState { return l.state }

// Running reports whether the loop is in the running state.
func (l *Loop) Running() bool { return l.state == LoopRunning }

// Start moves the loop to running and arms the next frame.
func (l *Loop) Start() {
	l.state = LoopRunning
	l.k.Arm(l.id)
}

// Stop moves the loop to stopped. An already armed frame becomes a no-op.
func (l *Loop) Stop() {
	l.state = LoopStopped
	l.once = false
}

// Request arms exactly one frame without changing state.
func (l *Loop) Request() {
	l.once = true
	l.k.Arm(l.id)
}

func (l *Loop) Step(ctx *Context) {
	once := l.once
	l.once = false
	if l.state != LoopRunning && !once {
		return
	}

	more := l.fn(ctx)
	if !more {
		l.state = LoopStopped
		return
	}
	if l.state == LoopRunning {
		ctx.Rearm()
	}
}
