package log_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/trustledger/log"
)

func TestLeveledHelpers(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(t.TempDir(), "node.log")
	log.Init("debug", path)

	log.Debug("debug line")
	log.Debugf("debug %s line", "formatted")
	log.Debugw("debug fields", "key", "value")
	log.Info("info line")
	log.Infof("info %s line", "formatted")
	log.Infow("info fields", "count", 3)
	log.Warn("warn line")
	log.Warnw("warn fields", "reason", os.ErrNotExist)
	log.Errorw(os.ErrClosed, "error line")

	data, err := os.ReadFile(path)
	c.Assert(err, qt.IsNil)
	out := string(data)
	for _, want := range []string{
		"debug line", "debug formatted line", "debug fields",
		"info fields", "warn fields", "error line",
	} {
		c.Assert(strings.Contains(out, want), qt.IsTrue, qt.Commentf("missing %q", want))
	}
	c.Assert(log.Level(), qt.Equals, log.LogLevelDebug)
}

func TestLevelFiltering(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(t.TempDir(), "node.log")
	log.Init("warn", path)

	log.Info("below threshold")
	log.Warn("above threshold")

	data, err := os.ReadFile(path)
	c.Assert(err, qt.IsNil)
	c.Assert(strings.Contains(string(data), "below threshold"), qt.IsFalse)
	c.Assert(strings.Contains(string(data), "above threshold"), qt.IsTrue)
}
