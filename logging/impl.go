package logging

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// impl fans every entry at or above its level out to all appenders.
type impl struct {
	name      string
	level     AtomicLevel
	inUTC     bool
	appenders []Appender
}

var errUnpairedKey = errors.New("unpaired log key")

func (imp *impl) AddAppender(appender Appender) {
	imp.appenders = append(imp.appenders, appender)
}

func (imp *impl) SetLevel(level Level) { imp.level.Set(level) }

func (imp *impl) GetLevel() Level { return imp.level.Get() }

func (imp *impl) Sublogger(subname string) Logger {
	name := subname
	if imp.name != "" {
		name = imp.name + "." + subname
	}
	return &impl{
		name:      name,
		level:     NewAtomicLevelAt(imp.GetLevel()),
		inUTC:     imp.inUTC,
		appenders: imp.appenders,
	}
}

func (imp *impl) Sync() error {
	var err error
	for _, appender := range imp.appenders {
		err = multierr.Append(err, appender.Sync())
	}
	return err
}

func (imp *impl) Debug(args ...interface{}) { imp.print(DEBUG, args) }
func (imp *impl) Info(args ...interface{})  { imp.print(INFO, args) }
func (imp *impl) Warn(args ...interface{})  { imp.print(WARN, args) }
func (imp *impl) Error(args ...interface{}) { imp.print(ERROR, args) }

func (imp *impl) Debugf(template string, args ...interface{}) { imp.printf(DEBUG, template, args) }
func (imp *impl) Infof(template string, args ...interface{})  { imp.printf(INFO, template, args) }
func (imp *impl) Warnf(template string, args ...interface{})  { imp.printf(WARN, template, args) }
func (imp *impl) Errorf(template string, args ...interface{}) { imp.printf(ERROR, template, args) }

func (imp *impl) Debugw(msg string, kvs ...interface{}) { imp.printw(DEBUG, msg, kvs) }
func (imp *impl) Infow(msg string, kvs ...interface{})  { imp.printw(INFO, msg, kvs) }
func (imp *impl) Warnw(msg string, kvs ...interface{})  { imp.printw(WARN, msg, kvs) }
func (imp *impl) Errorw(msg string, kvs ...interface{}) { imp.printw(ERROR, msg, kvs) }

func (imp *impl) print(level Level, args []interface{}) {
	if level >= imp.GetLevel() {
		imp.emit(level, fmt.Sprint(args...), nil)
	}
}

func (imp *impl) printf(level Level, template string, args []interface{}) {
	if level >= imp.GetLevel() {
		imp.emit(level, fmt.Sprintf(template, args...), nil)
	}
}

func (imp *impl) printw(level Level, msg string, kvs []interface{}) {
	if level >= imp.GetLevel() {
		imp.emit(level, msg, pairsToFields(kvs))
	}
}

// emit is only reached through a public method and one print helper, so three frames up is
// the code that logged.
func (imp *impl) emit(level Level, msg string, fields []zapcore.Field) {
	const callerDepth = 3
	entry := zapcore.Entry{
		Level:      level.AsZap(),
		Time:       time.Now(),
		LoggerName: imp.name,
		Message:    msg,
	}
	if imp.inUTC {
		entry.Time = entry.Time.UTC()
	}
	pc, file, line, ok := runtime.Caller(callerDepth)
	if ok {
		entry.Caller = zapcore.NewEntryCaller(pc, file, line, true)
		if fn := runtime.FuncForPC(pc); fn != nil {
			entry.Caller.Function = fn.Name()
		}
	}

	for _, appender := range imp.appenders {
		if err := appender.Write(entry, fields); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

// pairsToFields reads alternating keys and values. A trailing key without a value is kept and
// logged with an error in place of the value.
func pairsToFields(kvs []interface{}) []zapcore.Field {
	fields := make([]zapcore.Field, 0, (len(kvs)+1)/2)
	for i := 0; i < len(kvs); i += 2 {
		key := fmt.Sprint(kvs[i])
		if i+1 == len(kvs) {
			fields = append(fields, zap.Any(key, errUnpairedKey))
			break
		}
		fields = append(fields, zap.Any(key, kvs[i+1]))
	}
	return fields
}
