package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang/glog"
)

// glogHandler forwards pipeline records to glog. Debug records are only
// emitted at -v=2 and above.
type glogHandler struct {
	attrs []slog.Attr
}

func newGlogLogger() *slog.Logger {
	return slog.New(&glogHandler{})
}

func (h *glogHandler) Enabled(_ context.Context, level slog.Level) bool {
	if level < slog.LevelInfo {
		return bool(glog.V(2))
	}
	return true
}

func (h *glogHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)
	write := func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(write)

	switch {
	case r.Level >= slog.LevelError:
		glog.ErrorDepth(3, b.String())
	case r.Level >= slog.LevelWarn:
		glog.WarningDepth(3, b.String())
	default:
		glog.InfoDepth(3, b.String())
	}
	return nil
}

func (h *glogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &glogHandler{attrs: merged}
}

func (h *glogHandler) WithGroup(string) slog.Handler {
	return h
}
