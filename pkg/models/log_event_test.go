package models

import (
	"errors"
	"testing"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		key       string
		wantGroup string
		wantID    string
		wantErr   error
	}{
		{key: "hello", wantID: "hello"},
		{key: "cool:hello", wantGroup: "cool", wantID: "hello"},
		{key: ":hello", wantID: "hello"},
		{key: "a:b:c", wantGroup: "a", wantID: "b:c"},
		{key: "", wantErr: ErrMalformedKey},
		{key: "g:", wantErr: ErrMalformedKey},
	}
	for _, tt := range tests {
		group, id, err := ParseKey(tt.key)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseKey(%q) error = %v, want %v", tt.key, err, tt.wantErr)
			}
			continue
		}
		if err != nil || group != tt.wantGroup || id != tt.wantID {
			t.Errorf("ParseKey(%q) = %q, %q, %v", tt.key, group, id, err)
		}
	}
}

func TestOptionsResolve(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantGroup string
		wantID    string
		wantErr   bool
	}{
		{name: "bare id", opts: Options{ID: "x"}, wantID: "x"},
		{name: "group option", opts: Options{ID: "x", Group: "g"}, wantGroup: "g", wantID: "x"},
		{name: "embedded group wins", opts: Options{ID: "e:x", Group: "g"}, wantGroup: "e", wantID: "x"},
		{name: "empty id", opts: Options{Group: "g"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group, id, err := tt.opts.Resolve()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if group != tt.wantGroup || id != tt.wantID {
				t.Errorf("Resolve() = %q, %q", group, id)
			}
		})
	}
}

func TestSeverity(t *testing.T) {
	if !(LevelLog < LevelWarn && LevelWarn < LevelError && LevelError < LevelNone) {
		t.Fatal("severities out of order")
	}
	for _, s := range []Severity{LevelLog, LevelWarn, LevelError, LevelNone} {
		got, err := ParseSeverity(s.String())
		if err != nil || got != s {
			t.Errorf("ParseSeverity(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseSeverity("loud"); err == nil {
		t.Error("expected error for unknown severity")
	}
}

func TestKey(t *testing.T) {
	if k := (LogEvent{ID: "a"}).Key(); k != "a" {
		t.Errorf("Key() = %q", k)
	}
	if k := (LogEvent{ID: "a", Group: "g"}).Key(); k != "g:a" {
		t.Errorf("Key() = %q", k)
	}
}
