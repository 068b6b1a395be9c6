/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package clipcopy implements a copy-to-clipboard button state machine.
//
// A Button starts labelled Copy. A successful copy switches it to Copied!
// and schedules a revert to Copy after ResetDelay; a failed copy switches it
// to Error and logs the failure.
package clipcopy

import (
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
)

// Button labels.
const (
	LabelCopy   = "Copy"
	LabelCopied = "Copied!"
	LabelError  = "Error"
)

// ResetDelay is how long Copied! is shown before reverting to Copy.
const ResetDelay = 2 * time.Second

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs f after d. f may also be run synchronously by the Scheduler.
type Scheduler func(d time.Duration, f func()) Timer

func afterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Button tracks the label of one copy button.
type Button struct {
	mu       sync.Mutex
	label    string
	pending  Timer
	gen      uint64
	write    func(string) error
	schedule Scheduler
	onChange func(string)
	logger   *zap.Logger
}

// Option configures a Button.
type Option func(*Button)

// WithWriter replaces the clipboard writer.
func WithWriter(write func(string) error) Option {
	return func(b *Button) {
		b.write = write
	}
}

// WithScheduler replaces the timer used to revert the label.
func WithScheduler(s Scheduler) Option {
	return func(b *Button) {
		b.schedule = s
	}
}

// WithOnChange registers a callback invoked with every new label.
func WithOnChange(fn func(label string)) Option {
	return func(b *Button) {
		b.onChange = fn
	}
}

// WithLogger sets the logger that receives copy failures.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Button) {
		b.logger = logger
	}
}

// New returns a button labelled Copy that writes to the system clipboard.
func New(opts ...Option) *Button {
	b := &Button{
		label:    LabelCopy,
		write:    clipboardWriteAll,
		schedule: afterFunc,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Label returns the current label.
func (b *Button) Label() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.label
}

// Click copies text and updates the label. A pending revert from an earlier
// click is cancelled. The revert is scheduled without holding the button lock,
// so a Scheduler may run f synchronously.
func (b *Button) Click(text string) error {
	err := b.write(text)

	b.mu.Lock()
	if b.pending != nil {
		b.pending.Stop()
		b.pending = nil
	}
	b.gen++
	gen := b.gen
	if err != nil {
		b.label = LabelError
		b.mu.Unlock()
		b.logger.Error("Failed to copy", zap.Error(err))
		b.notify(LabelError)
		return err
	}
	b.label = LabelCopied
	b.mu.Unlock()
	b.notify(LabelCopied)

	timer := b.schedule(ResetDelay, func() { b.revert(gen) })

	b.mu.Lock()
	if b.gen == gen && b.label == LabelCopied {
		b.pending = timer
	}
	b.mu.Unlock()
	return nil
}

// revert restores Copy unless a later click superseded the one that scheduled it.
func (b *Button) revert(gen uint64) {
	b.mu.Lock()
	if b.gen != gen || b.label != LabelCopied {
		b.mu.Unlock()
		return
	}
	b.pending = nil
	b.label = LabelCopy
	b.mu.Unlock()
	b.notify(LabelCopy)
}

func (b *Button) notify(label string) {
	if b.onChange != nil {
		b.onChange(label)
	}
}
