package kernel

import "fmt"

const maxTasks = 32

type TaskID uint8

// Task is a cooperative unit of per-frame work.
//
// Step runs at most once per frame and only when the task was armed for that
// frame. A task that wants the next frame too calls Context.Rearm.
type Task interface {
	Step(*Context)
}

type taskState struct {
	task Task
	dead bool
}

// Kernel is a minimal cooperative frame scheduler.
//
// It is the invoke-before-next-repaint primitive: Arm marks a task to run on
// the next Frame, and arming an already armed task is a no-op. Kernel is not
// safe for concurrent use; all calls happen on the frame goroutine.
type Kernel struct {
	tasks     [maxTasks]taskState
	taskCount TaskID

	armed uint32
	frame uint64

	panicHandler func(PanicInfo)
	panicked     bool
}

// New creates a kernel instance.
func New() *Kernel {
	return &Kernel{}
}

// AddTask registers a task and returns its ID.
func (k *Kernel) AddTask(t Task) (TaskID, error) {
	if t == nil {
		return 0, fmt.Errorf("kernel: nil task")
	}
	if k.taskCount >= maxTasks {
		return 0, fmt.Errorf("kernel: task table full (%d)", maxTasks)
	}
	id := k.taskCount
	k.taskCount++
	k.tasks[id] = taskState{task: t}
	return id, nil
}

// Arm schedules the task for the next frame.
func (k *Kernel) Arm(id TaskID) {
	if id >= k.taskCount || k.tasks[id].dead {
		return
	}
	k.armed |= 1 << id
}

// Armed reports whether the task will run on the next frame.
func (k *Kernel) Armed(id TaskID) bool {
	if id >= k.taskCount {
		return false
	}
	return k.armed&(1<<id) != 0
}

// Idle reports whether no task is armed.
func (k *Kernel) Idle() bool { return k.armed == 0 }

// FrameCount returns the number of frames run so far.
func (k *Kernel) FrameCount() uint64 { return k.frame }

// Frame runs every task armed before the call, in task ID order, and returns
// how many ran. Tasks armed while the frame runs (including by Rearm) wait for
// the next frame.
func (k *Kernel) Frame() int {
	k.frame++
	run := k.armed
	k.armed = 0
	if run == 0 {
		return 0
	}

	n := 0
	for id := TaskID(0); id < k.taskCount; id++ {
		if run&(1<<id) == 0 {
			continue
		}
		st := &k.tasks[id]
		if st.dead || st.task == nil {
			continue
		}
		ctx := &Context{k: k, taskID: id, frame: k.frame}
		if !k.stepTask(st, ctx) {
			st.dead = true
			continue
		}
		n++
		if ctx.rearm {
			k.armed |= 1 << id
		}
	}
	return n
}

func (k *Kernel) stepTask(st *taskState, ctx *Context) (ok bool) {
	defer func() {
		if v := recover(); v != nil {
			ok = false
			k.triggerPanic(PanicInfo{TaskID: ctx.taskID, Frame: ctx.frame, Value: v})
		}
	}()
	st.task.Step(ctx)
	return true
}
