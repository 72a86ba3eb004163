package kernel

// Context provides task-local access to kernel operations during one frame.
type Context struct {
	k      *Kernel
	taskID TaskID
	frame  uint64
	rearm  bool
}

// TaskID returns the current task ID.
func (c *Context) TaskID() TaskID { return c.taskID }

// Frame returns the frame number being run.
func (c *Context) Frame() uint64 { return c.frame }

// Rearm schedules the current task for the next frame.
func (c *Context) Rearm() { c.rearm = true }

// Arm schedules another task for the next frame.
func (c *Context) Arm(id TaskID) {
	if c.k == nil {
		return
	}
	c.k.Arm(id)
}
