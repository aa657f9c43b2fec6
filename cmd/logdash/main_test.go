package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestRunMainReturnsZeroOnSuccess(t *testing.T) {
	var out bytes.Buffer
	if code := runMain(func() error { return nil }, &out); code != 0 {
		t.Fatalf("code = %d, want 0", code)
	}
	if out.Len() != 0 {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRunMainUsesExitErrorCode(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")

	var out bytes.Buffer
	code := runMain(func() error {
		return &exitError{code: 2, err: errors.New("invalid credentials")}
	}, &out)
	if code != 2 {
		t.Fatalf("code = %d, want 2", code)
	}

	line := strings.TrimSpace(out.String())
	var payload map[string]any
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", line, err)
	}
	if got := payload["exit_code"]; got != float64(2) {
		t.Fatalf("exit_code = %v, want 2", got)
	}
	if got := payload["error"]; got != "invalid credentials" {
		t.Fatalf("error = %v, want %q", got, "invalid credentials")
	}
	if got := payload["app"]; got != "logdash" {
		t.Fatalf("app = %v, want logdash", got)
	}
}

func TestRunMainSilentExitError(t *testing.T) {
	var out bytes.Buffer
	code := runMain(func() error {
		return &exitError{code: 3, silent: true}
	}, &out)
	if code != 3 {
		t.Fatalf("code = %d, want 3", code)
	}
	if out.Len() != 0 {
		t.Fatalf("silent exit error produced output: %q", out.String())
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"serve", "check-login"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd == nil || cmd.Name() != name {
			t.Fatalf("%s command not registered: cmd=%v err=%v", name, cmd, err)
		}
	}
}
