package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes one event per line. The terminal gets short French lines
// unless JSON output is requested; the optional log file always gets NDJSON.
type Logger struct {
	mu    *sync.Mutex
	human io.Writer
	core  zapcore.Core
	runID string
}

type Event struct {
	Level       string
	Event       string
	RunID       string
	Input       string
	Bucket      string
	Key         string
	Tenant      string
	Row         int
	Rows        int
	Provider    string
	Model       string
	Attempt     int
	WaitMS      int64
	LatencyMS   int64
	PromptChars int
	OutputFile  string
	Error       string
}

func New(stdout io.Writer, logFile string, jsonOutput bool) (*Logger, io.Closer, error) {
	l := &Logger{mu: &sync.Mutex{}}
	var cores []zapcore.Core
	if jsonOutput {
		cores = append(cores, newCore(stdout))
	} else {
		l.human = stdout
	}
	var closer io.Closer
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		cores = append(cores, newCore(f))
		closer = f
	}
	if len(cores) > 0 {
		l.core = zapcore.NewTee(cores...)
	}
	return l, closer, nil
}

func newCore(w io.Writer) zapcore.Core {
	enc := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		MessageKey:     "event",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	})
	return zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(w)), zapcore.DebugLevel)
}

// WithRun returns a logger sharing the same outputs that stamps every event
// with runID.
func (l *Logger) WithRun(runID string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{mu: l.mu, human: l.human, core: l.core, runID: runID}
}

func (l *Logger) Emit(ev Event) {
	if l == nil {
		return
	}
	if ev.Level == "" {
		ev.Level = "info"
	}
	if ev.RunID == "" {
		ev.RunID = l.runID
	}
	if l.core != nil {
		l.writeJSON(ev)
	}
	if l.human != nil {
		if line := formatHuman(ev); line != "" {
			l.mu.Lock()
			_, _ = io.WriteString(l.human, line+"\n")
			l.mu.Unlock()
		}
	}
}

func (l *Logger) writeJSON(ev Event) {
	lvl, err := zapcore.ParseLevel(ev.Level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	ce := l.core.Check(zapcore.Entry{Level: lvl, Time: time.Now(), Message: ev.Event}, nil)
	if ce == nil {
		return
	}
	ce.Write(fields(ev)...)
}

func fields(ev Event) []zap.Field {
	var fs []zap.Field
	str := func(k, v string) {
		if v != "" {
			fs = append(fs, zap.String(k, v))
		}
	}
	num := func(k string, v int64) {
		if v != 0 {
			fs = append(fs, zap.Int64(k, v))
		}
	}
	str("run_id", ev.RunID)
	str("input", ev.Input)
	str("bucket", ev.Bucket)
	str("key", ev.Key)
	str("tenant", ev.Tenant)
	num("row", int64(ev.Row))
	num("rows", int64(ev.Rows))
	str("provider", ev.Provider)
	str("model", ev.Model)
	num("attempt", int64(ev.Attempt))
	num("wait_ms", ev.WaitMS)
	num("latency_ms", ev.LatencyMS)
	num("prompt_chars", int64(ev.PromptChars))
	str("output_file", ev.OutputFile)
	str("error", ev.Error)
	return fs
}

func formatHuman(ev Event) string {
	switch ev.Event {
	case "startup":
		return fmt.Sprintf("Démarrage : %s / %s", fallback(ev.Provider, "openai"), fallback(ev.Model, "?"))
	case "tenant_loaded":
		return "Configuration client chargée : " + ev.Tenant
	case "tenant_failed":
		return "Configuration client introuvable : " + fallback(ev.Error, ev.Tenant)
	case "read_failed":
		return fmt.Sprintf("Lecture impossible %s : %s", ev.Input, ev.Error)
	case "scan_warning":
		return "Avertissement : " + ev.Error
	case "parse_ok":
		return fmt.Sprintf("%s : %d article(s) à traiter", ev.Input, ev.Rows)
	case "parse_failed":
		return fmt.Sprintf("Tableau illisible %s : %s", ev.Input, ev.Error)
	case "generate_ok":
		return fmt.Sprintf("Article %d : description générée (%s)", ev.Row, formatHumanDurationMS(ev.LatencyMS))
	case "generate_retry":
		return fmt.Sprintf("Article %d : nouvelle tentative %d dans %s (%s)", ev.Row, ev.Attempt, formatHumanDurationMS(ev.WaitMS), ev.Error)
	case "generate_failed":
		return fmt.Sprintf("Article %d : échec de la génération : %s", ev.Row, ev.Error)
	case "write_ok":
		return "Fichier écrit : " + ev.OutputFile
	case "write_failed":
		return fmt.Sprintf("Écriture impossible %s : %s", ev.OutputFile, ev.Error)
	case "finished":
		if ev.Rows == 0 {
			return "Terminé en " + formatHumanDurationMS(ev.LatencyMS)
		}
		return fmt.Sprintf("Terminé : %d fichier(s) en %s", ev.Rows, formatHumanDurationMS(ev.LatencyMS))
	case "failed":
		return "Échec : " + ev.Error
	default:
		return ""
	}
}

func formatHumanDurationMS(ms int64) string {
	if ms <= 0 {
		return "0ms"
	}
	d := time.Duration(ms) * time.Millisecond
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", ms)
	case d < time.Minute:
		return fmt.Sprintf("%.2fs", d.Seconds())
	default:
		m := int(d / time.Minute)
		s := int((d % time.Minute) / time.Second)
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm%ds", m, s)
	}
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
