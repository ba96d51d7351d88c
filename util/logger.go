package util

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ariebrainware/psych-practice/model"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	logMu     sync.RWMutex
	logger    = zerolog.New(os.Stdout).With().Timestamp().Logger()
	requestDB *gorm.DB
)

// Logger returns the process-wide logger.
func Logger() *zerolog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	l := logger
	return &l
}

// SetupLogger configures the process-wide logger. pretty selects a console
// writer; level is a zerolog level name and defaults to info.
func SetupLogger(w io.Writer, level string, pretty bool) {
	if w == nil {
		w = os.Stdout
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	logMu.Lock()
	defer logMu.Unlock()
	logger = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// SetRequestLogDB sets the database request events are persisted to.
// Pass nil to stop persisting.
func SetRequestLogDB(db *gorm.DB) {
	logMu.Lock()
	defer logMu.Unlock()
	requestDB = db
}

// RequestEvent describes one handled HTTP request.
type RequestEvent struct {
	Method    string
	Path      string
	Status    int
	Duration  time.Duration
	UserID    string
	IP        string
	UserAgent string
	Details   map[string]interface{}
}

// sanitizeLogValue removes newlines and other characters that could break log parsing
func sanitizeLogValue(value string) string {
	value = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(value)
	if len(value) > 200 {
		value = value[:200] + "..."
	}
	return value
}

// LogRequest writes ev to the logger and, best effort, to the request_logs table.
func LogRequest(ev RequestEvent) {
	l := Logger()
	entry := l.Info()
	switch {
	case ev.Status >= 500:
		entry = l.Error()
	case ev.Status >= 400:
		entry = l.Warn()
	}
	entry.
		Str("method", ev.Method).
		Str("path", sanitizeLogValue(ev.Path)).
		Int("status", ev.Status).
		Dur("duration", ev.Duration).
		Str("ip", ev.IP).
		Str("user_id", ev.UserID).
		Msg("request")

	logMu.RLock()
	db := requestDB
	logMu.RUnlock()
	if db == nil {
		return
	}

	var details datatypes.JSON
	if len(ev.Details) > 0 {
		if b, err := json.Marshal(ev.Details); err == nil {
			details = datatypes.JSON(b)
		}
	}
	row := model.RequestLog{
		Method:    ev.Method,
		Path:      sanitizeLogValue(ev.Path),
		Status:    ev.Status,
		UserID:    ev.UserID,
		IP:        sanitizeLogValue(ev.IP),
		UserAgent: sanitizeLogValue(ev.UserAgent),
		Details:   details,
	}
	if err := db.Create(&row).Error; err != nil {
		l.Warn().Err(err).Msg("persist request log")
	}
}
