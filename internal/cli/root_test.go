package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, log.InfoLevel).RootCommand()
	want := []string{"layout", "render", "preview", "view", "explain", "serve", "cache", "config", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing --config flag")
	}
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dayview.toml")

	run := func(args ...string) (string, error) {
		c := New(io.Discard, log.InfoLevel)
		root := c.RootCommand()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(io.Discard)
		root.SetArgs(append(args, "--config", path))
		err := root.Execute()
		return out.String(), err
	}

	got, err := run("config", "path")
	if err != nil || strings.TrimSpace(got) != path {
		t.Fatalf("config path = %q, %v", got, err)
	}
	if _, err := run("config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if _, err := run("config", "init"); err == nil {
		t.Error("second init should refuse to overwrite")
	}
	got, err = run("config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(got, `policy = "overlap"`) {
		t.Errorf("config show output:\n%s", got)
	}
}

func TestCompletion(t *testing.T) {
	root := New(io.Discard, log.InfoLevel).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out.String(), "dayview") {
		t.Error("completion script does not name the command")
	}
}
