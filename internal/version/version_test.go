package version

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// fakeGitEnv lists the variables that steer the fake git process.
var fakeGitEnv = []string{"FAKE_GIT_COMMIT", "FAKE_GIT_TAG"}

// TestFakeGit is not a real test. It stands in for git when re-executed by
// fakeExecCommand and prints whatever the FAKE_GIT_* variables say; the
// value "fail" makes it exit non-zero.
func TestFakeGit(t *testing.T) {
	if os.Getenv("GO_WANT_FAKE_GIT") != "1" {
		return
	}

	args := os.Args
	for i, a := range args {
		if a == "--" {
			args = args[i+1:]
			break
		}
	}

	out := ""
	switch {
	case len(args) > 2 && args[2] == "--always":
		out = os.Getenv("FAKE_GIT_COMMIT")
	case len(args) > 2 && args[2] == "--tags":
		out = os.Getenv("FAKE_GIT_TAG")
	}
	if out == "fail" {
		os.Exit(1)
	}
	os.Stdout.WriteString(out + "\n")
	os.Exit(0)
}

func fakeExecCommand(ctx context.Context, name string, args ...string) *exec.Cmd {
	cs := append([]string{"-test.run=TestFakeGit", "--", name}, args...)
	cmd := exec.CommandContext(ctx, os.Args[0], cs...)
	cmd.Env = []string{"GO_WANT_FAKE_GIT=1"}
	for _, k := range fakeGitEnv {
		cmd.Env = append(cmd.Env, k+"="+os.Getenv(k))
	}
	return cmd
}

func TestResolveFromGit(t *testing.T) {
	orig := execCommand
	execCommand = fakeExecCommand
	t.Cleanup(func() {
		execCommand = orig
		Reset()
	})

	tests := []struct {
		name       string
		commit     string
		tag        string
		wantVer    string
		wantCommit string
	}{
		{"Tagged", "a1b2c3d", "v1.0.0", "1.0.0", "a1b2c3d"},
		{"Dirty", "a1b2c3d-dirty", "v0.4.2", "0.4.2", "a1b2c3d-dirty"},
		{"CommitFails", "fail", "v1.0.0", "1.0.0", "unknown"},
		{"NoTags", "a1b2c3d", "fail", "dev", "a1b2c3d"},
		{"EmptyTag", "a1b2c3d", "", "dev", "a1b2c3d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Reset()
			t.Setenv("FAKE_GIT_COMMIT", tt.commit)
			t.Setenv("FAKE_GIT_TAG", tt.tag)

			if got := GetVersion(); got != tt.wantVer {
				t.Errorf("GetVersion() = %q, want %q", got, tt.wantVer)
			}
			if got := GetCommit(); got != tt.wantCommit {
				t.Errorf("GetCommit() = %q, want %q", got, tt.wantCommit)
			}
			if got := GetDate(); got == "" {
				t.Error("GetDate() should default to today")
			}

			info := Info()
			if !strings.HasPrefix(info, "chanlyze "+tt.wantVer+" (commit: "+tt.wantCommit) {
				t.Errorf("Info() = %q", info)
			}
			if got := UserAgent(); got != "chanlyze/"+tt.wantVer {
				t.Errorf("UserAgent() = %q", got)
			}
		})
	}
}

func TestLdflagsTakePrecedence(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	Version, Commit, Date = "2.3.4", "abc123", "2025-01-01"

	if got := Info(); !strings.HasPrefix(got, "chanlyze 2.3.4 (commit: abc123, built: 2025-01-01") {
		t.Errorf("Info() = %q", got)
	}
}
