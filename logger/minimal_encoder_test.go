package logger

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// stripANSI removes ANSI color codes from a string for testing
func stripANSI(str string) string {
	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	return ansiRegex.ReplaceAllString(str, "")
}

// TestMinimalEncoderNeverDiscardsFields ensures the console encoder never
// silently drops a field: every key=value must reach the output.
func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	encoder := newMinimalEncoder()

	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Now(),
		LoggerName: "typegen",
		Message:    "artifact emitted",
	}

	testFields := []struct {
		field    zapcore.Field
		mustFind string
	}{
		{zap.String(FieldBackend, "python"), "backend=python"},
		{zap.String(FieldArtifact, "models.generated.py"), "artifact=models.generated.py"},
		{zap.String(FieldVersion, "1.0"), "version=1.0"},
		{zap.Int(FieldSize, 2048), "size=2048"},
		{zap.Int64("int64_field", 9999999), "int64_field=9999999"},
		{zap.Float64("ratio", 0.5), "ratio=0.5"},
		{zap.Bool("changed", false), "changed=false"},
		{zap.Strings("backends", []string{"typescript", "python"}), "backends=[typescript python]"},
		{zap.Error(nil), ""},
		{zap.String(FieldError, "permission denied"), "error=permission denied"},
	}

	var allFields []zapcore.Field
	for _, tf := range testFields {
		allFields = append(allFields, tf.field)
	}

	buf, err := encoder.EncodeEntry(entry, allFields)
	require.NoError(t, err)

	clean := stripANSI(buf.String())
	for _, tf := range testFields {
		if tf.mustFind != "" {
			assert.Contains(t, clean, tf.mustFind, "field was discarded from log output")
		}
	}
}

func TestMinimalEncoderLayout(t *testing.T) {
	encoder := newMinimalEncoder()
	encoder.color = false

	ts := time.Date(2026, 3, 1, 13, 4, 35, 0, time.UTC)

	tests := []struct {
		name  string
		entry zapcore.Entry
		want  string
	}{
		{
			name:  "info has no level marker",
			entry: zapcore.Entry{Level: zapcore.InfoLevel, Time: ts, LoggerName: "drift", Message: "artifact matches"},
			want:  "13:04:35  drift  artifact matches  backend=rust\n",
		},
		{
			name:  "warn shows level",
			entry: zapcore.Entry{Level: zapcore.WarnLevel, Time: ts, Message: "version fallback"},
			want:  "13:04:35  WARN  version fallback  backend=rust\n",
		},
		{
			name:  "error shows level",
			entry: zapcore.Entry{Level: zapcore.ErrorLevel, Time: ts, LoggerName: "output", Message: "write failed"},
			want:  "13:04:35  ERROR  output  write failed  backend=rust\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := encoder.EncodeEntry(tt.entry, []zapcore.Field{zap.String(FieldBackend, "rust")})
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestMinimalEncoderContextFields(t *testing.T) {
	var sb strings.Builder
	core := zapcore.NewCore(newMinimalEncoder(), zapcore.AddSync(&sb), zapcore.DebugLevel)
	log := zap.New(core).Sugar().With(FieldRunID, "abc123")

	log.Infow("generation complete", FieldCount, 2)

	clean := stripANSI(sb.String())
	assert.Contains(t, clean, "run_id=abc123")
	assert.Contains(t, clean, "count=2")
	assert.Less(t, strings.Index(clean, "run_id="), strings.Index(clean, "count="),
		"context fields precede entry fields")
}

func TestMinimalEncoderCloneIsolation(t *testing.T) {
	base := newMinimalEncoder()
	base.AddString("a", "1")

	clone := base.Clone().(*minimalEncoder)
	clone.AddString("b", "2")

	assert.Len(t, base.Fields, 1)
	assert.Len(t, clone.Fields, 2)
}
