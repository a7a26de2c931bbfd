package supervisor

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
)

// Process is a handle to a launched display program.
type Process interface {
	// PID returns the operating system process ID.
	PID() int
	// Terminate asks the process to exit gracefully.
	Terminate() error
	// Kill forcibly ends the process.
	Kill() error
	// Done is closed once the process has exited.
	Done() <-chan struct{}
}

// Launcher spawns display programs. The command is built from the
// descriptor's launch specification plus the serialized effective
// configuration; implementations must have started the process before
// returning.
type Launcher interface {
	Launch(command string, args []string) (Process, error)
}

// OSLauncher launches real child processes with stdout/stderr redirected to
// pipes owned by the supervisor.
type OSLauncher struct{}

// NewOSLauncher creates a launcher backed by os/exec.
func NewOSLauncher() *OSLauncher {
	return &OSLauncher{}
}

// Launch starts the command and begins draining its output pipes.
func (l *OSLauncher) Launch(command string, args []string) (Process, error) {
	cmd := exec.Command(command, args...)
	cmd.Env = os.Environ()

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	// Child output is not surfaced; drain so the child never blocks on a
	// full pipe.
	go io.Copy(io.Discard, stdout) //nolint:errcheck
	go io.Copy(io.Discard, stderr) //nolint:errcheck

	p := &osProcess{cmd: cmd, done: make(chan struct{})}
	go func() {
		cmd.Wait() //nolint:errcheck
		close(p.done)
	}()
	return p, nil
}

type osProcess struct {
	cmd  *exec.Cmd
	done chan struct{}
}

func (p *osProcess) PID() int {
	return p.cmd.Process.Pid
}

func (p *osProcess) Terminate() error {
	return p.cmd.Process.Signal(syscall.SIGTERM)
}

func (p *osProcess) Kill() error {
	return p.cmd.Process.Kill()
}

func (p *osProcess) Done() <-chan struct{} {
	return p.done
}
