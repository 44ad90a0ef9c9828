package cli

import (
	"errors"
	"strings"
	"testing"
)

func TestRegisterLogsIn(t *testing.T) {
	ta := newTestApp(t)

	out := ta.mustRun(t, "register", "-password", "correct horse", "alice")
	if !strings.Contains(out, "Account created: alice") {
		t.Errorf("unexpected output %q", out)
	}

	out = ta.mustRun(t, "whoami")
	if !strings.Contains(out, "alice") || !strings.Contains(out, "My Inventory") {
		t.Errorf("expected alice's account, got %q", out)
	}
}

func TestRegisterPromptsForPassword(t *testing.T) {
	ta := newTestApp(t)
	ta.Stdin = strings.NewReader("prompted-password\n")

	ta.mustRun(t, "register", "bob")
	ta.mustRun(t, "logout")
	ta.mustRun(t, "login", "-password", "prompted-password", "bob")
}

func TestRegisterValidation(t *testing.T) {
	ta := newTestApp(t)

	tests := [][]string{
		{"register", "-password", "short", "alice"},
		{"register", "-password", "long enough", "has space"},
	}
	for _, args := range tests {
		_, err := ta.run(t, args...)
		var ue userError
		if !errors.As(err, &ue) {
			t.Errorf("%v: expected a user error, got %v", args, err)
		}
	}
}

func TestRegisterDuplicate(t *testing.T) {
	ta := newTestApp(t)
	ta.mustRun(t, "register", "-password", "password123", "alice")

	_, err := ta.run(t, "register", "-password", "password456", "alice")
	if err == nil || !strings.Contains(err.Error(), "already taken") {
		t.Errorf("expected duplicate error, got %v", err)
	}
}

func TestLoginAndLogout(t *testing.T) {
	ta := newTestApp(t)
	ta.mustRun(t, "register", "-password", "password123", "alice")
	ta.mustRun(t, "logout")

	if _, err := ta.run(t, "whoami"); err == nil || !strings.Contains(err.Error(), "not logged in") {
		t.Errorf("expected not logged in, got %v", err)
	}

	if _, err := ta.run(t, "login", "-password", "wrong-password", "alice"); err == nil {
		t.Error("expected wrong password to fail")
	}
	if _, err := ta.run(t, "login", "-password", "password123", "nobody"); err == nil {
		t.Error("expected unknown user to fail")
	}

	out := ta.mustRun(t, "login", "-password", "password123", "alice")
	if !strings.Contains(out, "Logged in as alice") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestSettings(t *testing.T) {
	ta := newTestApp(t)
	ta.mustRun(t, "register", "-password", "password123", "alice")

	out := ta.mustRun(t, "settings", "-business", "Corner Shop", "-sms", "on")
	if !strings.Contains(out, "no phone number") {
		t.Errorf("expected missing phone note, got %q", out)
	}

	out = ta.mustRun(t, "settings", "-phone", "+38640111222")
	for _, want := range []string{"Corner Shop", "on", "+38640111222"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}

	if _, err := ta.run(t, "settings", "-sms", "maybe"); err == nil {
		t.Error("expected error for bad -sms value")
	}
}
