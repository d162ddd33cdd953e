package cli

import (
	"strings"
	"testing"

	"github.com/slackclaw/slackclaw/internal/session"
)

func seedSession(t *testing.T, mgr *session.Manager, key string) {
	t.Helper()
	sess := mgr.GetOrCreate(key)
	sess.AddMessage("user", "2+2")
	sess.AddMessage("assistant", "4")
	if err := mgr.Save(sess); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
}

func TestListSessions(t *testing.T) {
	dir := t.TempDir()
	mgr := session.NewManager(dir)
	seedSession(t, mgr, "C1_100.000")

	var buf strings.Builder
	if err := listSessions(mgr, &buf); err != nil {
		t.Fatalf("listSessions() error = %v", err)
	}
	if !strings.Contains(buf.String(), "C1_100.000") {
		t.Errorf("expected session key in listing, got %q", buf.String())
	}
}

func TestListSessionsEmpty(t *testing.T) {
	mgr := session.NewManager(t.TempDir())

	var buf strings.Builder
	if err := listSessions(mgr, &buf); err != nil {
		t.Fatalf("listSessions() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No sessions") {
		t.Errorf("expected empty notice, got %q", buf.String())
	}
}

func TestClearSessionEmptiesHistory(t *testing.T) {
	dir := t.TempDir()
	mgr := session.NewManager(dir)
	seedSession(t, mgr, "C1_100.000")

	if err := clearSession(mgr, "C1_100.000"); err != nil {
		t.Fatalf("clearSession() error = %v", err)
	}

	// Reload through a fresh manager to check the persisted state.
	reloaded := session.NewManager(dir).GetOrCreate("C1_100.000")
	if got := reloaded.GetHistory(10); len(got) != 0 {
		t.Errorf("expected empty history after clear, got %+v", got)
	}
}

func TestClearSessionMissing(t *testing.T) {
	mgr := session.NewManager(t.TempDir())
	if err := clearSession(mgr, "C9_999.000"); err == nil {
		t.Error("expected error clearing unknown session")
	}
}
