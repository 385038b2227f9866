package main

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// progressTracker prints a single updating progress line for one task.
type progressTracker struct {
	writer    io.Writer
	taskID    string
	progress  int
	status    string
	startTime time.Time
	started   bool
	mu        sync.Mutex
}

func newProgressTracker(writer io.Writer, taskID string) *progressTracker {
	return &progressTracker{
		writer: writer,
		taskID: taskID,
	}
}

// Start begins tracking progress.
func (p *progressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.progress = 0
	p.status = ""
}

// Update records the latest task progress. A line is written only when the
// progress or status changed.
func (p *progressTracker) Update(progress int, status string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	if progress < p.progress {
		progress = p.progress
	}
	if progress > 100 {
		progress = 100
	}
	if progress == p.progress && status == p.status {
		return
	}

	p.progress = progress
	p.status = status
	p.report()
}

// Finish prints the final line followed by a newline.
func (p *progressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.report()
	fmt.Fprintln(p.writer)
	p.started = false
}

// Elapsed returns the time elapsed since Start was called.
func (p *progressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}
	return time.Since(p.startTime)
}

// report must be called with the lock held.
func (p *progressTracker) report() {
	elapsed := time.Since(p.startTime).Round(time.Millisecond)
	fmt.Fprintf(p.writer, "\rTask %s: %3d%% %-10s (%s)", p.taskID, p.progress, p.status, elapsed)
}
