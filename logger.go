package querypager

import (
	"io"

	"github.com/sirupsen/logrus"
)

var _discardLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)

	return l
}()

func discardLogger() logrus.FieldLogger {
	return _discardLogger
}
