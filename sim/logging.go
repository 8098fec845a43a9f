package sim

import (
	"os"
	"strconv"
	"sync"

	"empirikit/core"

	"github.com/sirupsen/logrus"
)

// NewLogger builds a logrus logger from the log section
func NewLogger(cfg LogConfig) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return log
}

// BridgeDebug routes the engine's debug writer into log at debug level.
// The debug writer is process-wide.
func BridgeDebug(log logrus.FieldLogger, enabled bool) {
	entry := log.WithField("source", "firmware")
	core.SetDebugWriter(func(s string) { entry.Debug(s) })
	core.SetDebugEnabled(enabled)
}

// LoggedLED is a core.RGBLed that logs color changes and remembers the last
type LoggedLED struct {
	log logrus.FieldLogger

	mu      sync.Mutex
	r, g, b uint8
}

func NewLoggedLED(log logrus.FieldLogger) *LoggedLED {
	return &LoggedLED{log: log.WithField("indicator", "rgb")}
}

func (l *LoggedLED) SetRGB(r, g, b uint8) {
	l.mu.Lock()
	changed := r != l.r || g != l.g || b != l.b
	l.r, l.g, l.b = r, g, b
	l.mu.Unlock()

	if changed {
		l.log.WithFields(logrus.Fields{"r": r, "g": g, "b": b}).Debug("led")
	}
}

// Color returns the last color set
func (l *LoggedLED) Color() [3]uint8 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return [3]uint8{l.r, l.g, l.b}
}

// LoggedPanel is a core.TextPanel that logs every update
type LoggedPanel struct {
	log logrus.FieldLogger

	mu   sync.Mutex
	text string
}

func NewLoggedPanel(log logrus.FieldLogger) *LoggedPanel {
	return &LoggedPanel{log: log.WithField("indicator", "text")}
}

func (p *LoggedPanel) Print(text string) {
	p.mu.Lock()
	p.text = text
	p.mu.Unlock()

	p.log.WithField("text", strconv.Quote(text)).Debug("display")
}

// Text returns the last text shown
func (p *LoggedPanel) Text() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.text
}
