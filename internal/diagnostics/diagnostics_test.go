package diagnostics

import (
	"strings"
	"testing"
)

func newCaptured(t *testing.T, level Level) (*Diagnostics, *strings.Builder, *strings.Builder) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	var out, errOut strings.Builder
	return NewWithWriters(level, &out, &errOut), &out, &errOut
}

func TestDiagnostics_Levels(t *testing.T) {
	tests := []struct {
		name     string
		level    Level
		emit     func(d *Diagnostics)
		wantOut  string
		wantErr  string
	}{
		{
			name:    "error goes to stderr",
			level:   Error,
			emit:    func(d *Diagnostics) { d.Error("boom %d", 1) },
			wantErr: "[ERROR] boom 1\n",
		},
		{
			name:    "warn shown at warn level",
			level:   Warn,
			emit:    func(d *Diagnostics) { d.Warn("careful") },
			wantOut: "[WARN] careful\n",
		},
		{
			name:  "warn hidden at error level",
			level: Error,
			emit:  func(d *Diagnostics) { d.Warn("careful") },
		},
		{
			name:    "info shown at info level",
			level:   Info,
			emit:    func(d *Diagnostics) { d.Info("working") },
			wantOut: "[INFO] working\n",
		},
		{
			name:    "success shown at info level",
			level:   Info,
			emit:    func(d *Diagnostics) { d.Success("done") },
			wantOut: "[OK] done\n",
		},
		{
			name:  "verbose hidden at info level",
			level: Info,
			emit:  func(d *Diagnostics) { d.Verbose("detail") },
		},
		{
			name:    "verbose shown at verbose level",
			level:   Verbose,
			emit:    func(d *Diagnostics) { d.Verbose("detail") },
			wantOut: "[DEBUG] detail\n",
		},
		{
			name:    "section is a bare header",
			level:   Info,
			emit:    func(d *Diagnostics) { d.Section("tool") },
			wantOut: "tool\n",
		},
		{
			name:  "section hidden when quiet",
			level: Error,
			emit:  func(d *Diagnostics) { d.Section("tool") },
		},
		{
			name:  "silent suppresses errors too",
			level: Silent,
			emit:  func(d *Diagnostics) { d.Error("boom") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, out, errOut := newCaptured(t, tt.level)
			tt.emit(d)
			if got := out.String(); got != tt.wantOut {
				t.Errorf("stdout = %q, want %q", got, tt.wantOut)
			}
			if got := errOut.String(); got != tt.wantErr {
				t.Errorf("stderr = %q, want %q", got, tt.wantErr)
			}
		})
	}
}

func TestDiagnostics_Constructors(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if d := NewQuiet(); d.level != Error {
		t.Errorf("NewQuiet() level = %d, want %d", d.level, Error)
	}
	if d := NewVerbose(); d.level != Verbose {
		t.Errorf("NewVerbose() level = %d, want %d", d.level, Verbose)
	}
}
