// Package logx is a thin structured logging layer over zerolog.
//
// It exposes a small Logger value with field helpers so call sites don't
// depend on zerolog directly, plus an optional rotating file sink next to
// the console writer.
package logx
