package logrus

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/unkn0wn-root/seniority"
)

func TestLogrusLoggerFields(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	l := LogrusLogger{E: logrus.NewEntry(base)}

	l.Info("batch augmented", seniority.Fields{"keys": 2})
	l.Error("protocol violation", seniority.Fields{"id": 9, "err": errors.New("boom")})

	if n := len(hook.AllEntries()); n != 2 {
		t.Fatalf("expected 2 entries, got %d", n)
	}
	last := hook.LastEntry()
	if last.Level != logrus.ErrorLevel || last.Message != "protocol violation" {
		t.Fatalf("unexpected entry %+v", last)
	}
	if err, _ := last.Data[logrus.ErrorKey].(error); err == nil || err.Error() != "boom" {
		t.Fatalf("error field not set: %v", last.Data)
	}
	if _, ok := last.Data["err"]; ok {
		t.Fatalf("err should be moved to %q", logrus.ErrorKey)
	}
	if last.Data["id"] != 9 {
		t.Fatalf("id field missing: %v", last.Data)
	}
}
