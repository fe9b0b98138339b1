package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// consoleHandler renders records as single human-readable lines:
//
//	15:04:05 INFO  session finalized session_id=3f2a rule=barcode_exact
type consoleHandler struct {
	mu     *sync.Mutex
	writer io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

func newConsoleHandler(writer io.Writer, level slog.Leveler) *consoleHandler {
	return &consoleHandler{
		mu:     &sync.Mutex{},
		writer: writer,
		level:  level,
	}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	var sb strings.Builder
	sb.WriteString(record.Time.Format("15:04:05"))
	sb.WriteByte(' ')
	sb.WriteString(fmt.Sprintf("%-5s", record.Level.String()))
	sb.WriteByte(' ')
	sb.WriteString(record.Message)

	for _, attr := range h.attrs {
		appendAttr(&sb, nil, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		appendAttr(&sb, h.groups, attr)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, sb.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	prefixed := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		if len(h.groups) > 0 && attr.Value.Kind() != slog.KindGroup {
			attr.Key = strings.Join(h.groups, ".") + "." + attr.Key
		}
		prefixed = append(prefixed, attr)
	}
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), prefixed...)
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

func appendAttr(sb *strings.Builder, groups []string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}
	if attr.Value.Kind() == slog.KindGroup {
		nested := groups
		if attr.Key != "" {
			nested = append(append([]string(nil), groups...), attr.Key)
		}
		for _, sub := range attr.Value.Group() {
			appendAttr(sb, nested, sub)
		}
		return
	}

	key := attr.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	sb.WriteByte(' ')
	sb.WriteString(key)
	sb.WriteByte('=')
	value := attr.Value.String()
	if strings.ContainsAny(value, " \t") {
		sb.WriteString(fmt.Sprintf("%q", value))
	} else {
		sb.WriteString(value)
	}
}
