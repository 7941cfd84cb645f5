// Package zap adapts a *zap.Logger to seniority.Logger.
package zap

import (
	"sort"

	"github.com/unkn0wn-root/seniority"
	"go.uber.org/zap"
)

var _ seniority.Logger = ZapLogger{}

type ZapLogger struct{ L *zap.Logger }

// New wraps l, naming the logger "seniority".
func New(l *zap.Logger) ZapLogger { return ZapLogger{L: l.Named("seniority")} }

func (z ZapLogger) Debug(msg string, f seniority.Fields) { z.L.Debug(msg, zf(f)...) }
func (z ZapLogger) Info(msg string, f seniority.Fields)  { z.L.Info(msg, zf(f)...) }
func (z ZapLogger) Warn(msg string, f seniority.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z ZapLogger) Error(msg string, f seniority.Fields) { z.L.Error(msg, zf(f)...) }

// zf converts fields in key order so encoded lines are stable.
func zf(f seniority.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(f))
	for _, k := range keys {
		if err, ok := f[k].(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, f[k]))
	}
	return out
}
