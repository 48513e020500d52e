package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensigniasec/quiztick/internal/config"
	"github.com/ensigniasec/quiztick/internal/cue"
)

//nolint:gochecknoglobals // test binary path is set in TestMain
var testBinaryPath string

// TestMain builds the CLI binary once for the entire package and reuses it.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "quiztick-test-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1) //nolint:gocritic // Mkdir failed, nothing to cleanup
	}
	defer os.RemoveAll(dir)

	bin := filepath.Join(dir, "quiztick-test")
	cmd := exec.Command("go", "build", "-o", bin, ".")
	if out, err := cmd.CombinedOutput(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to build test binary: %v\nOutput: %s\n", err, string(out))
		os.Exit(1) //nolint:gocritic // Binary failed, nothing to cleanup
	}
	testBinaryPath = bin

	code := m.Run()
	os.Exit(code)
}

func buildTestBinary(t *testing.T) string {
	t.Helper()
	if testBinaryPath == "" {
		t.Fatalf("test binary not built")
	}
	return testBinaryPath
}

// newCmd runs the binary against an isolated HOME with the terminal bell off.
func newCmd(binary, home string, args ...string) *exec.Cmd {
	cmd := exec.Command(binary, args...)
	cmd.Env = append(os.Environ(), "HOME="+home, "QUIZTICK_CUE_BELL=false")
	return cmd
}

func tempHome(t *testing.T) string {
	t.Helper()
	home := filepath.Join(t.TempDir(), "home")
	require.NoError(t, os.MkdirAll(home, 0o700))
	return home
}

func TestCLI_HelpOutput(t *testing.T) {
	binary := buildTestBinary(t)
	home := tempHome(t)

	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{
			name: "root help",
			args: []string{"--help"},
			contains: []string{
				"quiztick",
				"per-mark pace",
				"run",
				"start",
				"subjects",
				"custom",
				"--config",
				"--verbose",
			},
		},
		{
			name:     "start help",
			args:     []string{"start", "--help"},
			contains: []string{"MM:SS marks=N", "--marks", "--subject", "--custom", "--seconds"},
		},
		{
			name:     "run help",
			args:     []string{"run", "--help"},
			contains: []string{"full-screen timer", "--marks", "--subject", "--custom"},
		},
		{
			name:     "custom help",
			args:     []string{"custom", "--help"},
			contains: []string{"custom subjects", "add", "remove", "reset", "list"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := newCmd(binary, home, tt.args...).CombinedOutput()
			require.NoError(t, err)

			for _, expected := range tt.contains {
				assert.Contains(t, string(output), expected)
			}
		})
	}
}

func TestCLI_Version(t *testing.T) {
	binary := buildTestBinary(t)

	output, err := newCmd(binary, tempHome(t), "--version").CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(output), "quiztick dev")
	assert.Contains(t, string(output), "commit: none")
}

func TestCLI_Subjects(t *testing.T) {
	binary := buildTestBinary(t)
	home := tempHome(t)

	output, err := newCmd(binary, home, "subjects").CombinedOutput()
	require.NoError(t, err, "Output: %s", string(output))
	out := string(output)
	assert.Contains(t, out, "standard-ib")
	assert.Contains(t, out, "IB Standard")
	assert.Contains(t, out, "01:30 per mark")
	assert.Contains(t, out, "00:36 per mark")

	cmd := newCmd(binary, home, "subjects", "--json")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	require.NoError(t, cmd.Run())

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &rows), "Output should be valid JSON: %s", stdout.String())
	require.Len(t, rows, 7)
	assert.Equal(t, "standard-ib", rows[0]["id"])
	assert.InDelta(t, 90, rows[0]["seconds"], 0)
	assert.Equal(t, false, rows[0]["custom"])
}

func TestCLI_CustomCommands(t *testing.T) {
	binary := buildTestBinary(t)

	tests := []struct {
		name         string
		commands     [][]string
		expectOutput []string
		rejectOutput []string
	}{
		{
			name:         "view empty library",
			commands:     [][]string{{"custom"}},
			expectOutput: []string{"No custom subjects saved."},
		},
		{
			name: "add and list",
			commands: [][]string{
				{"custom", "add", "Physics", "120"},
				{"custom", "list"},
			},
			expectOutput: []string{"Saved Physics (02:00 per mark)", "Physics", "120s per mark"},
		},
		{
			name: "add replaces same title",
			commands: [][]string{
				{"custom", "add", "Physics", "120"},
				{"custom", "add", "physics", "45"},
				{"custom", "list"},
			},
			expectOutput: []string{"45s per mark"},
			rejectOutput: []string{"120s per mark"},
		},
		{
			name: "remove by title",
			commands: [][]string{
				{"custom", "add", "Latin", "40"},
				{"custom", "remove", "latin"},
				{"custom", "list"},
			},
			expectOutput: []string{"Removed latin", "No custom subjects saved."},
		},
		{
			name: "reset library",
			commands: [][]string{
				{"custom", "add", "Latin", "40"},
				{"custom", "add", "Greek", "45"},
				{"custom", "reset"},
				{"custom"},
			},
			expectOutput: []string{"Custom subjects cleared", "No custom subjects saved."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := tempHome(t)
			var allOutput strings.Builder

			for i, cmdArgs := range tt.commands {
				output, err := newCmd(binary, home, cmdArgs...).CombinedOutput()
				allOutput.Write(output)
				require.NoError(t, err, "Command %d failed: %v\nOutput: %s", i, cmdArgs, string(output))
			}

			finalOutput := allOutput.String()
			for _, expected := range tt.expectOutput {
				assert.Contains(t, finalOutput, expected)
			}
			// Rejected text is checked against a fresh listing.
			last, err := newCmd(binary, home, "custom", "list").CombinedOutput()
			require.NoError(t, err)
			for _, rejected := range tt.rejectOutput {
				assert.NotContains(t, string(last), rejected)
			}
		})
	}
}

func TestCLI_StartRunsToFinish(t *testing.T) {
	binary := buildTestBinary(t)
	home := tempHome(t)

	cmd := newCmd(binary, home, "start", "--seconds", "1", "--marks", "2")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	require.NoError(t, cmd.Run(), "Output: %s", stdout.String())

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	assert.Equal(t, []string{
		"Custom: 2 marks at 00:01 per mark",
		"00:02 marks=0",
		"00:01 marks=1",
		"00:00 marks=1",
		"Time is up.",
	}, lines)
}

func TestCLI_StartWithSavedCustomSubject(t *testing.T) {
	binary := buildTestBinary(t)
	home := tempHome(t)

	output, err := newCmd(binary, home, "custom", "add", "Drill", "1").CombinedOutput()
	require.NoError(t, err, "Output: %s", string(output))

	output, err = newCmd(binary, home, "start", "--custom", "drill", "--marks", "1").CombinedOutput()
	require.NoError(t, err, "Output: %s", string(output))
	assert.Contains(t, string(output), "Drill: 1 marks at 00:01 per mark")
	assert.Contains(t, string(output), "Time is up.")
}

func TestCLI_StartPauseAndQuitFromStdin(t *testing.T) {
	binary := buildTestBinary(t)
	home := tempHome(t)

	cmd := newCmd(binary, home, "start", "--seconds", "30", "--marks", "2")
	cmd.Stdin = strings.NewReader("p\nq\n")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	require.NoError(t, cmd.Run(), "Output: %s", stdout.String())

	out := stdout.String()
	assert.Contains(t, out, "(paused)")
	assert.Contains(t, out, "Stopped at")
	assert.NotContains(t, out, "Time is up.")
}

func TestNewCuePlayer_MuteSilencesAssetsAndBell(t *testing.T) {
	var bell bytes.Buffer
	muted := newCuePlayer(config.CueConfig{
		Mark: filepath.Join(t.TempDir(), "missing.wav"),
		Mute: true,
		Bell: true,
	}, &bell)
	muted.PlayCue(cue.Mark)
	muted.PlayCue(cue.Finish)
	assert.Zero(t, bell.Len())

	var ring bytes.Buffer
	loud := newCuePlayer(config.CueConfig{Bell: true}, &ring)
	loud.PlayCue(cue.Finish)
	assert.Equal(t, "\a\a", ring.String())
}

func TestCLI_ConfigFile(t *testing.T) {
	binary := buildTestBinary(t)
	home := tempHome(t)

	dir := filepath.Join(home, ".config", "quiztick")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("subject: custom\ncustom: Sprint\n"), 0o600))

	output, err := newCmd(binary, home, "custom", "add", "Sprint", "1").CombinedOutput()
	require.NoError(t, err, "Output: %s", string(output))

	output, err = newCmd(binary, home, "start", "--marks", "1").CombinedOutput()
	require.NoError(t, err, "Output: %s", string(output))
	assert.Contains(t, string(output), "Sprint: 1 marks")
}

func TestCLI_ErrorHandling(t *testing.T) {
	binary := buildTestBinary(t)

	tests := []struct {
		name     string
		args     []string
		env      []string
		errorMsg string
	}{
		{
			name:     "empty mark count",
			args:     []string{"start", "--subject", "act-math"},
			errorMsg: "mark count is empty",
		},
		{
			name:     "non-numeric mark count",
			args:     []string{"start", "--subject", "act-math", "--marks", "four"},
			errorMsg: "is not a number",
		},
		{
			name:     "unknown subject",
			args:     []string{"start", "--subject", "history", "--marks", "2"},
			errorMsg: "unknown subject",
		},
		{
			name:     "mark count overflows the total",
			args:     []string{"start", "--subject", "sat-math", "--marks", "100000000000000000"},
			errorMsg: "too large",
		},
		{
			name:     "custom without duration",
			args:     []string{"start", "--subject", "custom", "--marks", "2"},
			errorMsg: "positive per-mark duration",
		},
		{
			name:     "unknown saved custom subject",
			args:     []string{"start", "--custom", "Astronomy", "--marks", "2"},
			errorMsg: "no custom subject",
		},
		{
			name:     "custom and seconds together",
			args:     []string{"start", "--custom", "Astronomy", "--seconds", "3", "--marks", "2"},
			errorMsg: "none of the others can be",
		},
		{
			name:     "custom add with wrong number of args",
			args:     []string{"custom", "add", "Physics"},
			errorMsg: "accepts 2 arg(s)",
		},
		{
			name:     "custom add with bad seconds",
			args:     []string{"custom", "add", "Physics", "soon"},
			errorMsg: "Invalid seconds",
		},
		{
			name:     "custom add with zero seconds",
			args:     []string{"custom", "add", "Physics", "0"},
			errorMsg: "invalid configuration",
		},
		{
			name:     "remove missing custom subject",
			args:     []string{"custom", "remove", "Physics"},
			errorMsg: "no custom subject",
		},
		{
			name:     "invalid environment",
			args:     []string{"subjects"},
			env:      []string{"QUIZTICK_SUBJECT=history"},
			errorMsg: "Invalid configuration",
		},
		{
			name:     "invalid command",
			args:     []string{"invalid-command"},
			errorMsg: "unknown command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newCmd(binary, tempHome(t), tt.args...)
			cmd.Env = append(cmd.Env, tt.env...)
			output, err := cmd.CombinedOutput()

			require.Error(t, err)
			assert.Contains(t, string(output), tt.errorMsg)
		})
	}
}
