// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tui draws terminal progress indicators.
package tui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
)

var DefaultFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Progress redraws a single line of the form "⠋ msg done/total" until
// stopped. It is safe for concurrent use.
type Progress struct {
	out      io.Writer
	frames   []string
	interval time.Duration
	color    *color.Color
	msg      string
	total    int

	mu      sync.Mutex // guards the fields below and writes to out
	done    int
	idx     int
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

type Option func(*Progress)

func WithFrames(frames []string) Option {
	return func(p *Progress) {
		if len(frames) > 0 {
			p.frames = frames
		}
	}
}

func WithInterval(d time.Duration) Option {
	return func(p *Progress) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithColor colours the spinner frame.
func WithColor(c *color.Color) Option {
	return func(p *Progress) {
		p.color = c
	}
}

// NewProgress returns a stopped Progress counting towards total.
func NewProgress(out io.Writer, msg string, total int, opts ...Option) *Progress {
	p := &Progress{
		out:      out,
		frames:   DefaultFrames,
		interval: 120 * time.Millisecond,
		msg:      msg,
		total:    total,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Progress) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.render()
	go p.loop(p.stopCh, p.doneCh)
}

// Add records n more finished items.
func (p *Progress) Add(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done += n
	if p.running {
		p.render()
	}
}

// Done returns the number of finished items.
func (p *Progress) Done() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Stop halts redrawing. With clear the line is erased, otherwise it is
// left in place and terminated.
func (p *Progress) Stop(clear bool) {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	stopCh, doneCh := p.stopCh, p.doneCh
	p.mu.Unlock()

	close(stopCh)
	<-doneCh

	p.mu.Lock()
	defer p.mu.Unlock()
	if clear {
		fmt.Fprint(p.out, "\r\033[K")
	} else {
		fmt.Fprintln(p.out)
	}
}

func (p *Progress) loop(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.mu.Lock()
			if p.running {
				p.idx = (p.idx + 1) % len(p.frames)
				p.render()
			}
			p.mu.Unlock()
		case <-stopCh:
			return
		}
	}
}

// render must be called with mu held.
func (p *Progress) render() {
	frame := p.frames[p.idx%len(p.frames)]
	if p.color != nil {
		frame = p.color.Sprint(frame)
	}
	fmt.Fprintf(p.out, "\r\033[K%s %s %d/%d", frame, p.msg, p.done, p.total)
}
