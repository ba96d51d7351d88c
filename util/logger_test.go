package util

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/ariebrainware/psych-practice/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	SetupLogger(buf, "debug", false)
	t.Cleanup(func() { SetupLogger(nil, "info", false) })
	return buf
}

func TestSanitizeLogValue(t *testing.T) {
	assert.Equal(t, "a b c", sanitizeLogValue("a\nb\tc"))
	long := strings.Repeat("x", 250)
	assert.Equal(t, strings.Repeat("x", 200)+"...", sanitizeLogValue(long))
}

func TestLogRequest_WritesStructuredLine(t *testing.T) {
	buf := captureLogs(t)
	SetRequestLogDB(nil)

	LogRequest(RequestEvent{Method: http.MethodGet, Path: "/api/services", Status: 404, Duration: time.Millisecond, IP: "10.0.0.1"})

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "/api/services", line["path"])
	assert.EqualValues(t, 404, line["status"])
}

func TestLogRequest_PersistsRow(t *testing.T) {
	captureLogs(t)
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.RequestLog{}))
	SetRequestLogDB(db)
	t.Cleanup(func() { SetRequestLogDB(nil) })

	LogRequest(RequestEvent{
		Method:  http.MethodPost,
		Path:    "/api/contact",
		Status:  201,
		UserID:  "u1",
		Details: map[string]interface{}{"route": "/api/contact"},
	})

	var rows []model.RequestLog
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "u1", rows[0].UserID)
	assert.JSONEq(t, `{"route":"/api/contact"}`, string(rows[0].Details))
}
