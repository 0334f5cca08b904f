package cli

import (
	storageengine "KzDB/storage_engine"
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return out.String(), err
}

func TestPutGetCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.kz")

	out, err := runCLI(t, "--db", db, "put", "10", "ten")
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if !strings.Contains(out, "Inserted key 10") {
		t.Errorf("put output = %q", out)
	}

	out, err = runCLI(t, "--db", db, "put", "10", "TEN")
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if !strings.Contains(out, "Updated key 10") {
		t.Errorf("second put output = %q", out)
	}

	out, err = runCLI(t, "--db", db, "get", "10")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if strings.TrimSpace(out) != "TEN" {
		t.Errorf("get output = %q, want TEN", out)
	}

	if _, err := runCLI(t, "--db", db, "get", "11"); err == nil {
		t.Errorf("get of missing key succeeded")
	}
	if _, err := runCLI(t, "--db", db, "get", "-1"); err == nil {
		t.Errorf("get of negative key succeeded")
	}
}

func TestSeedScanInspect(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.kz")

	if _, err := runCLI(t, "--db", db, "seed", "--count", "200", "--random"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	out, err := runCLI(t, "--db", db, "scan", "5", "8", "--limit", "0")
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	for _, want := range []string{"5\tvalue-5", "6\tvalue-6", "7\tvalue-7"} {
		if !strings.Contains(out, want) {
			t.Errorf("scan output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "8\tvalue-8") {
		t.Errorf("scan [5, 8) included 8:\n%s", out)
	}

	out, err = runCLI(t, "--db", db, "inspect")
	if err != nil {
		t.Fatalf("inspect failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "index check passed") {
		t.Errorf("inspect output = %s", out)
	}

	out, err = runCLI(t, "--db", db, "stats")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if !strings.Contains(out, "keys:         200") {
		t.Errorf("stats output = %s", out)
	}
}

func TestShell(t *testing.T) {
	se, err := storageengine.Open(filepath.Join(t.TempDir(), "shell.kz"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer se.Close()

	in := strings.NewReader("put 1 hello world\nget 1\nget 2\nbogus\nscan\nexit\nget 1\n")
	var out bytes.Buffer
	if err := runShell(se, in, &out); err != nil {
		t.Fatalf("runShell failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{"ok (replaced=false)", "hello world\n", "(not found)", `unknown command "bogus"`, "1\thello world"} {
		if !strings.Contains(got, want) {
			t.Errorf("shell output missing %q:\n%s", want, got)
		}
	}
	if strings.Count(got, "hello world\n") != 2 {
		t.Errorf("commands after exit were run:\n%s", got)
	}
}
