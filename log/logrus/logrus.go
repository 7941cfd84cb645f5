// Package logrus adapts a *logrus.Entry to seniority.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/seniority"
)

var _ seniority.Logger = LogrusLogger{}

type LogrusLogger struct{ E *logrus.Entry }

func (l LogrusLogger) Debug(msg string, f seniority.Fields) { l.with(f).Debug(msg) }
func (l LogrusLogger) Info(msg string, f seniority.Fields)  { l.with(f).Info(msg) }
func (l LogrusLogger) Warn(msg string, f seniority.Fields)  { l.with(f).Warn(msg) }
func (l LogrusLogger) Error(msg string, f seniority.Fields) { l.with(f).Error(msg) }

func (l LogrusLogger) with(f seniority.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	// logrus renders the "error" key specially; keep ours under ErrorKey.
	if err, ok := f["err"].(error); ok {
		rest := make(logrus.Fields, len(f))
		for k, v := range f {
			if k != "err" {
				rest[k] = v
			}
		}
		return l.E.WithError(err).WithFields(rest)
	}
	return l.E.WithFields(logrus.Fields(f))
}
