package launcher

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"gazelab/internal"
	"gazelab/internal/config"
)

// Runner executes one external experiment program and blocks until it exits.
type Runner interface {
	Run(name string, args []string, dir string) error
}

// ExecRunner runs programs through os/exec with the terminal attached, since
// the experiment scripts are interactive and participant-facing.
type ExecRunner struct{}

func (ExecRunner) Run(name string, args []string, dir string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Menu is the interactive experiment launcher. It performs no computation
// itself; every option shells out to an external program and waits for it.
type Menu struct {
	cfg    config.LauncherConfig
	in     *bufio.Scanner
	out    io.Writer
	runner Runner
	logger *internal.Logger

	participantID string
}

// NewMenu creates the launcher menu reading choices from in.
func NewMenu(cfg config.LauncherConfig, in io.Reader, out io.Writer, runner Runner, logger *internal.Logger) *Menu {
	return &Menu{
		cfg:    cfg,
		in:     bufio.NewScanner(in),
		out:    out,
		runner: runner,
		logger: logger,
	}
}

// Loop shows the menu until the user quits or input ends.
func (m *Menu) Loop() error {
	for {
		m.printMenu()
		if !m.in.Scan() {
			return m.in.Err()
		}

		switch choice := strings.TrimSpace(m.in.Text()); choice {
		case "1":
			m.setParticipantID()
		case "2":
			m.runParticipantScript("calibration", m.cfg.CalibrationScript)
		case "3":
			m.runParticipantScript("stimulus display", m.cfg.StimulusScript)
		case "4":
			m.runParticipantScript("pupil recorder", m.cfg.RecorderScript)
		case "5":
			m.runEyeLink()
		case "q", "Q":
			return nil
		default:
			fmt.Fprintf(m.out, "Invalid choice: %q\n\n", choice)
		}
	}
}

func (m *Menu) printMenu() {
	fmt.Fprintf(m.out, "Participant: %s\n", m.participantLabel())
	fmt.Fprintln(m.out, "1) Set participant ID")
	fmt.Fprintln(m.out, "2) Run calibration")
	fmt.Fprintln(m.out, "3) Run stimulus display")
	fmt.Fprintln(m.out, "4) Run pupil recorder")
	fmt.Fprintln(m.out, "5) Run EyeLink capture")
	fmt.Fprintln(m.out, "q) Quit")
	fmt.Fprint(m.out, "> ")
}

func (m *Menu) participantLabel() string {
	if m.participantID == "" {
		return "(not set)"
	}
	return m.participantID
}

func (m *Menu) setParticipantID() {
	fmt.Fprint(m.out, "Enter participant ID: ")
	if !m.in.Scan() {
		return
	}
	id := strings.TrimSpace(m.in.Text())
	if id == "" {
		fmt.Fprintln(m.out, "Participant ID cannot be empty.")
		return
	}
	m.participantID = id
	fmt.Fprintf(m.out, "Participant ID set to %s\n\n", id)
}

// runParticipantScript launches one of the participant-facing experiment
// scripts. The single guarded precondition: a participant ID must be set.
func (m *Menu) runParticipantScript(label, script string) {
	if m.participantID == "" {
		fmt.Fprintln(m.out, "Set a participant ID first (option 1).")
		return
	}

	m.logger.Info("[Launcher] Running %s for participant %s", label, m.participantID)
	args := []string{script, "--participant_id", m.participantID}
	if err := m.runner.Run(m.cfg.PythonBin, args, ""); err != nil {
		fmt.Fprintf(m.out, "%s failed: %v\n\n", label, err)
		return
	}
	fmt.Fprintf(m.out, "%s finished.\n\n", label)
}

// runEyeLink runs the fixed capture executable from its own directory; the
// vendor tool resolves its configuration relative to the working directory.
func (m *Menu) runEyeLink() {
	m.logger.Info("[Launcher] Running EyeLink capture in %s", m.cfg.EyeLinkDir)
	if err := m.runner.Run(m.cfg.EyeLinkExecutable, nil, m.cfg.EyeLinkDir); err != nil {
		fmt.Fprintf(m.out, "EyeLink capture failed: %v\n\n", err)
		return
	}
	fmt.Fprintln(m.out, "EyeLink capture finished.")
	fmt.Fprintln(m.out)
}
