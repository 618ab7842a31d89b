// Package notify carries user-facing notices out of the reservation flow:
// an informational confirmation or an error, each with a title and a
// description. Every completed or failed mutating operation emits exactly
// one notice.
package notify

import (
	"context"
	"log/slog"
	"sync"
)

type Kind string

const (
	KindInfo  Kind = "info"
	KindError Kind = "error"
)

type Notice struct {
	Kind        Kind   `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Notifier interface {
	Info(ctx context.Context, title, description string)
	Error(ctx context.Context, title, description string)
}

// Log writes notices to a structured logger.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Info(ctx context.Context, title, description string) {
	l.logger.InfoContext(ctx, "notice", "title", title, "description", description)
}

func (l *Log) Error(ctx context.Context, title, description string) {
	l.logger.ErrorContext(ctx, "notice", "title", title, "description", description)
}

// Buffer accumulates notices until drained, so a transport can return the
// notices produced by one request in that request's response.
type Buffer struct {
	mu      sync.Mutex
	notices []Notice
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Info(ctx context.Context, title, description string) {
	b.push(Notice{Kind: KindInfo, Title: title, Description: description})
}

func (b *Buffer) Error(ctx context.Context, title, description string) {
	b.push(Notice{Kind: KindError, Title: title, Description: description})
}

func (b *Buffer) push(n Notice) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, n)
}

// Drain returns the accumulated notices and resets the buffer.
func (b *Buffer) Drain() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.notices
	b.notices = nil
	return out
}

// Multi fans a notice out to several notifiers.
type Multi []Notifier

func (m Multi) Info(ctx context.Context, title, description string) {
	for _, n := range m {
		n.Info(ctx, title, description)
	}
}

func (m Multi) Error(ctx context.Context, title, description string) {
	for _, n := range m {
		n.Error(ctx, title, description)
	}
}
