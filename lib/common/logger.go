// Package common provides the logger shared by all packages of the module
package common

import (
	"fmt"
	"io"
	"log"
	"os"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/lni/dragonboat/v4/logger"
)

// Loggers lists the named loggers of the module. The codec logs under
// "openwire", the type catalogue under "command" and the document loader
// under "schema".
var Loggers = []string{"openwire", "schema", "command", "cli"}

// DefaultLevel applies to every logger a level spec does not name
const DefaultLevel = logger.WARNING

// levelNames maps the accepted level names, the first name of a level is the
// one printed in front of a line
var levelNames = []struct {
	name  string
	level logger.LogLevel
}{
	{"debug", logger.DEBUG},
	{"info", logger.INFO},
	{"warn", logger.WARNING},
	{"warning", logger.WARNING},
	{"error", logger.ERROR},
}

// output receives the lines of loggers created after it is set. Encoded
// frames go to stdout, so logs default to stderr.
var output io.Writer = os.Stderr

// SetOutput redirects the loggers created from now on
func SetOutput(w io.Writer) { output = w }

// --------------------------------------------------------------------------
// Logger (implements dragonboat's logger.ILogger)
// --------------------------------------------------------------------------

// wireLogger prints "LEVEL | name | message". The level may change while
// other goroutines log, the codec logs from the reading and the writing side
// of a connection.
type wireLogger struct {
	name   string
	level  atomic.Int32
	logger *log.Logger
}

func newWireLogger(name string, w io.Writer, flags int) *wireLogger {
	l := &wireLogger{name: name, logger: log.New(w, "", flags)}
	l.level.Store(int32(DefaultLevel))
	return l
}

func (l *wireLogger) SetLevel(level logger.LogLevel) { l.level.Store(int32(level)) }

func (l *wireLogger) enabled(level logger.LogLevel) bool {
	return logger.LogLevel(l.level.Load()) >= level
}

func (l *wireLogger) Debugf(format string, args ...interface{})   { l.print(logger.DEBUG, format, args) }
func (l *wireLogger) Infof(format string, args ...interface{})    { l.print(logger.INFO, format, args) }
func (l *wireLogger) Warningf(format string, args ...interface{}) { l.print(logger.WARNING, format, args) }
func (l *wireLogger) Errorf(format string, args ...interface{})   { l.print(logger.ERROR, format, args) }

// Panicf always panics, a codec invariant was broken
func (l *wireLogger) Panicf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if l.enabled(logger.CRITICAL) {
		l.logger.Printf("%-5s | %-15s | %s", "PANIC", l.name, msg)
	}
	panic(msg)
}

func (l *wireLogger) print(level logger.LogLevel, format string, args []interface{}) {
	if !l.enabled(level) {
		return
	}
	l.logger.Printf("%-5s | %-15s | %s", LevelName(level), l.name, fmt.Sprintf(format, args...))
}

// CreateLogger implements the logger.Factory interface
func CreateLogger(pkgName string) logger.ILogger {
	return newWireLogger(pkgName, output, log.Ldate|log.Ltime)
}

// --------------------------------------------------------------------------
// Levels
// --------------------------------------------------------------------------

// LevelName returns the upper case name printed for level
func LevelName(level logger.LogLevel) string {
	for _, n := range levelNames {
		if n.level == level {
			return strings.ToUpper(n.name)
		}
	}
	return fmt.Sprintf("L%d", level)
}

// ParseLogLevel converts a string level to logger.LogLevel
func ParseLogLevel(level string) (logger.LogLevel, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	for _, n := range levelNames {
		if n.name == level {
			return n.level, nil
		}
	}
	return 0, fmt.Errorf("invalid log level: %q. must be one of debug, info, warn, error", level)
}

// ParseLevelSpec reads a comma separated list of levels. A bare level sets
// every logger, "name=level" sets one logger and wins over a bare level no
// matter where it appears:
//
//	info
//	warn,openwire=debug
//	cli=info,schema=error
//
// The result holds a level for every name in Loggers.
func ParseLevelSpec(spec string) (map[string]logger.LogLevel, error) {
	def := DefaultLevel
	named := make(map[string]logger.LogLevel)
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			return nil, fmt.Errorf("invalid log level spec %q: empty entry", spec)
		}
		name, levelStr, ok := strings.Cut(entry, "=")
		if !ok {
			lvl, err := ParseLogLevel(entry)
			if err != nil {
				return nil, err
			}
			def = lvl
			continue
		}
		name = strings.TrimSpace(name)
		if !slices.Contains(Loggers, name) {
			return nil, fmt.Errorf("unknown logger %q. must be one of %s", name, strings.Join(Loggers, ", "))
		}
		lvl, err := ParseLogLevel(levelStr)
		if err != nil {
			return nil, fmt.Errorf("logger %s: %w", name, err)
		}
		named[name] = lvl
	}

	levels := make(map[string]logger.LogLevel, len(Loggers))
	for _, name := range Loggers {
		levels[name] = def
		if lvl, ok := named[name]; ok {
			levels[name] = lvl
		}
	}
	return levels, nil
}

// --------------------------------------------------------------------------
// Logger initialization
// --------------------------------------------------------------------------

// InitLoggers installs the custom format and applies a level spec, see
// ParseLevelSpec
func InitLoggers(spec string) error {
	levels, err := ParseLevelSpec(spec)
	if err != nil {
		return err
	}

	logger.SetLoggerFactory(CreateLogger)

	for _, name := range Loggers {
		logger.GetLogger(name).SetLevel(levels[name])
	}
	return nil
}
