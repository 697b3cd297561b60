package tui

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/sanity-io/litter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFile is the file where the text-based interface writes its logs.
var LogFile = "ilc.log"

var (
	logger *logrus.Logger
	once   sync.Once
)

// Logger returns the logger of the text-based interface.
// The terminal is owned by the interface so everything goes into the rotated LogFile.
func Logger() *logrus.Logger {
	once.Do(func() {
		logger = NewLogger(&lumberjack.Logger{
			Filename:   LogFile,
			MaxSize:    20, // megabytes
			MaxBackups: 2,
			MaxAge:     10, //days
		})
	})
	return logger
}

// NewLogger returns a new well configured logger writting in w.
func NewLogger(w io.Writer) *logrus.Logger {
	formatter := new(logFormatter)

	log := logrus.New()
	log.SetOutput(io.Discard) // stdout & stderr to /dev/null
	log.SetFormatter(formatter)
	log.SetLevel(logrus.DebugLevel)
	log.Hooks.Add(&fileHook{
		w:         w,
		formatter: formatter,
	})

	return log
}

func dump(v any) string {
	return litter.Sdump(v)
}

////////////////////
//                //
// File hook      //
//                //
////////////////////

type fileHook struct {
	sync.Mutex
	w         io.Writer
	formatter logrus.Formatter
}

// Fire writes the formatted entry to the file.
func (hook *fileHook) Fire(entry *logrus.Entry) error {
	hook.Lock()
	defer hook.Unlock()

	// use our formatter instead of entry.String()
	msg, err := hook.formatter.Format(entry)
	if err != nil {
		log.Println("failed to generate string for entry:", err)
		return err
	}

	_, err = hook.w.Write(msg)
	return err
}

// Levels returns configured log levels.
func (hook *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

////////////////////
//                //
// Log formatter  //
//                //
////////////////////

type logFormatter struct{}

// Format implements Logrus formatter.
func (f *logFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	fields := ""
	if len(entry.Data) > 0 {
		fs := []string{}
		for k, v := range entry.Data {
			fs = append(fs, fmt.Sprintf("%s=%v", k, v))
		}
		fields = fmt.Sprintf(" (%s)", strings.Join(fs, ", "))
	}

	timestamp := entry.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	data := fmt.Sprintf("[%s] %+5s: %s%s\n",
		timestamp.Format(time.RFC3339),
		strings.ToUpper(entry.Level.String()),
		entry.Message,
		fields,
	)
	return []byte(data), nil
}
