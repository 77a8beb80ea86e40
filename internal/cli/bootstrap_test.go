package cli

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/example/whisper/internal/config"
	"github.com/example/whisper/internal/ctxutil"
	"github.com/example/whisper/internal/wire"
)

func newRootForTest(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	root := &cobra.Command{Use: "whisper"}
	AddGlobalFlags(root)
	if err := root.ParseFlags(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	return root
}

func TestBootstrap(t *testing.T) {
	dir := t.TempDir()
	if err := config.SaveConfig(dir, &config.Config{Env: "production", ListenAddr: ":9999"}); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}
	t.Cleanup(func() { globalActorID = "" })

	root := newRootForTest(t, "--dir", dir, "--as", "USER-A")
	if err := Bootstrap(root); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}

	if GetActorID() != "USER-A" {
		t.Errorf("expected actor USER-A, got %q", GetActorID())
	}
	if got := ctxutil.ActorFromContext(NewContext()); got != "USER-A" {
		t.Errorf("expected actor in context, got %q", got)
	}
	if wire.Config() == nil || wire.Config().ListenAddr != ":9999" {
		t.Errorf("expected config from %s to be loaded, got %+v", dir, wire.Config())
	}
}

func TestRequireActor(t *testing.T) {
	t.Cleanup(func() { globalActorID = "" })

	globalActorID = ""
	if _, err := RequireActor(); err == nil {
		t.Error("expected error without --as")
	}
	if got := ctxutil.ActorFromContext(NewContext()); got != "" {
		t.Errorf("expected no actor in context, got %q", got)
	}

	globalActorID = "USER-B"
	actor, err := RequireActor()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if actor != "USER-B" {
		t.Errorf("expected USER-B, got %q", actor)
	}
}
