// Package logging wires every conmodel package to a single shared
// logrus logger, the way the original Python tool gave each module
// its own logging.getLogger(name) child logger.
package logging

import "github.com/sirupsen/logrus"

// base is the process-wide logger. cmd/conmodel is the only caller
// allowed to reconfigure it (level, formatter); library packages only
// ever read from it via For.
var base = logrus.New()

// For returns a field-tagged entry for the named component, mirroring
// Python's logging.getLogger(f"{__name__}:Component").
func For(component string) *logrus.Entry {
	return base.WithField("component", component)
}

// Configure sets the process-wide log level and, for non-text output,
// a JSON formatter. Intended to be called once, from cmd/conmodel.
func Configure(level logrus.Level, json bool) {
	base.SetLevel(level)
	if json {
		base.SetFormatter(&logrus.JSONFormatter{})
	} else {
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
