package kernel

// PanicInfo contains details about a recovered task panic.
type PanicInfo struct {
	TaskID TaskID
	Frame  uint64
	Value  any
	Stack  []byte
}

// SetPanicHandler installs the handler invoked when a task panics.
//
// The handler runs at most once per kernel (on the first panic). It must not
// panic. The panicking task is removed; other tasks keep running.
func (k *Kernel) SetPanicHandler(fn func(PanicInfo)) {
	k.panicHandler = fn
}

// InPanicMode reports whether a task has panicked.
func (k *Kernel) InPanicMode() bool {
	return k.panicked
}

func (k *Kernel) triggerPanic(info PanicInfo) {
	if k.panicked {
		return
	}
	k.panicked = true
	info.Stack = captureStack()
	if k.panicHandler != nil {
		k.panicHandler(info)
	}
}
