package log

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLog(t *testing.T) {
	Convey("Given a disabled logger", t, func() {
		enabled = false

		Convey("With returns a usable entry that writes nowhere", func() {
			entry := With(Fields{"item": 1})
			So(entry, ShouldNotBeNil)
			So(func() { entry.Info("ignored") }, ShouldNotPanic)
		})
	})

	Convey("Given a logger redirected to a buffer", t, func() {
		var buf bytes.Buffer
		SetOutput(&buf, logrus.DebugLevel)
		defer func() { enabled = false }()

		Convey("Formatted messages are written", func() {
			Warnf("checkpoint for %s lost", "s1e2")
			So(buf.String(), ShouldContainSubstring, "checkpoint for s1e2 lost")
		})

		Convey("Fields are attached to entries", func() {
			With(Fields{"item": 42}).Info("opened")
			So(buf.String(), ShouldContainSubstring, "item=42")
		})

		Convey("Messages below the level are dropped", func() {
			SetOutput(&buf, logrus.WarnLevel)
			Debug("hidden")
			So(buf.String(), ShouldNotContainSubstring, "hidden")
		})
	})
}
