package config

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	colorRed    = 31
	colorGreen  = 32
	colorYellow = 33
	colorGray   = 37
	colorCyan   = 96
)

// WdFormatter renders log lines as "ts [LVL] message key=value ...", with
// fields sorted for stable output.
type WdFormatter struct{}

func (f *WdFormatter) Format(entry *log.Entry) ([]byte, error) {
	levelColor := colorGreen
	switch entry.Level {
	case log.TraceLevel, log.DebugLevel:
		levelColor = colorGray
	case log.WarnLevel:
		levelColor = colorYellow
	case log.ErrorLevel, log.FatalLevel, log.PanicLevel:
		levelColor = colorRed
	}

	var b bytes.Buffer
	b.WriteString(entry.Time.Format("2006-01-02 15:04:05.000"))
	fmt.Fprintf(&b, " [%s]", colorize(levelColor, strings.ToUpper(entry.Level.String())[:4]))
	b.WriteByte(' ')
	b.WriteString(sanitize(entry.Message))

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%s", colorize(colorCyan, k), sanitize(fmt.Sprintf("%v", entry.Data[k])))
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func colorize(color int, s string) string {
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", color, s)
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r", `\r`)
	return strings.ReplaceAll(s, "\n", `\n`)
}
