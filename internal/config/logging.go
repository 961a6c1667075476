package config

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mgutz/ansi"
	"github.com/sirupsen/logrus"
)

// ConfigureLogging applies the log level and format to the standard logrus
// logger and directs it to out.
func ConfigureLogging(cfg LogConfig, out io.Writer) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	logrus.SetLevel(level)
	logrus.SetOutput(out)

	switch strings.ToUpper(cfg.Type) {
	case "JSON":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "TEXT":
		logrus.SetFormatter(&LogFormatter{ForceColors: cfg.ForceColors})
	default:
		return fmt.Errorf("%w: log type %q", ErrInvalid, cfg.Type)
	}

	return nil
}

// LogFormatter prints one colored icon and the message per entry, followed
// by the entry fields.
type LogFormatter struct {
	ForceColors bool
}

// Format implements logrus.Formatter.
func (f *LogFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var (
		color string
		icon  string
	)

	switch entry.Level {
	case logrus.DebugLevel, logrus.TraceLevel:
		color, icon = "magenta", "🐝"
	case logrus.WarnLevel:
		color, icon = "yellow", "🛆"
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		color, icon = "red", "⮾"
	default:
		color, icon = "cyan", "🛈"
	}

	if f.ForceColors {
		icon = ansi.Color(icon, color)
	}

	var sb strings.Builder

	sb.WriteString(icon)
	sb.WriteByte(' ')
	sb.WriteString(entry.Message)

	for _, k := range sortedKeys(entry.Data) {
		fmt.Fprintf(&sb, " %s=%v", k, entry.Data[k])
	}

	sb.WriteByte('\n')

	return []byte(sb.String()), nil
}

func sortedKeys(data logrus.Fields) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
