package launcher

import (
	"strings"
	"testing"

	"gazelab/internal"
	"gazelab/internal/config"
)

type recordedCall struct {
	name string
	args []string
	dir  string
}

type fakeRunner struct {
	calls []recordedCall
}

func (f *fakeRunner) Run(name string, args []string, dir string) error {
	f.calls = append(f.calls, recordedCall{name: name, args: args, dir: dir})
	return nil
}

func testConfig() config.LauncherConfig {
	return config.LauncherConfig{
		PythonBin:         "python",
		CalibrationScript: "run_experiments/calibration.py",
		StimulusScript:    "run_experiments/display_stimulus.py",
		RecorderScript:    "run_experiments/record_pupil.py",
		EyeLinkDir:        "eyelink",
		EyeLinkExecutable: "eyelink_capture",
	}
}

func runMenu(t *testing.T, input string) (*fakeRunner, string) {
	t.Helper()
	runner := &fakeRunner{}
	var out strings.Builder
	menu := NewMenu(testConfig(), strings.NewReader(input), &out, runner, internal.NewLogger(internal.LogLevelError))
	if err := menu.Loop(); err != nil {
		t.Fatalf("menu loop: %v", err)
	}
	return runner, out.String()
}

func TestMenu_RequiresParticipantIDBeforeExperiments(t *testing.T) {
	runner, out := runMenu(t, "2\n3\n4\nq\n")

	if len(runner.calls) != 0 {
		t.Fatalf("no program should run without a participant ID, got %+v", runner.calls)
	}
	if !strings.Contains(out, "Set a participant ID first") {
		t.Errorf("missing guard message in:\n%s", out)
	}
}

func TestMenu_RunsCalibrationWithParticipantFlag(t *testing.T) {
	runner, _ := runMenu(t, "1\nP07\n2\nq\n")

	if len(runner.calls) != 1 {
		t.Fatalf("expected 1 program run, got %d", len(runner.calls))
	}
	call := runner.calls[0]
	if call.name != "python" {
		t.Errorf("program = %q, want python", call.name)
	}
	want := []string{"run_experiments/calibration.py", "--participant_id", "P07"}
	if len(call.args) != len(want) {
		t.Fatalf("args = %v, want %v", call.args, want)
	}
	for i := range want {
		if call.args[i] != want[i] {
			t.Errorf("arg %d = %q, want %q", i, call.args[i], want[i])
		}
	}
}

func TestMenu_EyeLinkRunsInItsOwnDirectory(t *testing.T) {
	runner, _ := runMenu(t, "5\nq\n")

	if len(runner.calls) != 1 {
		t.Fatalf("expected 1 program run, got %d", len(runner.calls))
	}
	call := runner.calls[0]
	if call.name != "eyelink_capture" || call.dir != "eyelink" {
		t.Errorf("call = %+v, want eyelink_capture in eyelink/", call)
	}
	if len(call.args) != 0 {
		t.Errorf("EyeLink capture takes no flags, got %v", call.args)
	}
}

func TestMenu_InvalidChoiceLoops(t *testing.T) {
	_, out := runMenu(t, "x\n9\nq\n")

	if strings.Count(out, "Invalid choice") != 2 {
		t.Errorf("expected two invalid-choice messages in:\n%s", out)
	}
}

func TestMenu_EmptyParticipantIDRejected(t *testing.T) {
	runner, out := runMenu(t, "1\n\n2\nq\n")

	if !strings.Contains(out, "Participant ID cannot be empty") {
		t.Errorf("missing empty-ID message in:\n%s", out)
	}
	if len(runner.calls) != 0 {
		t.Errorf("no program should run, got %+v", runner.calls)
	}
}
