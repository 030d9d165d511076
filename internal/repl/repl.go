package repl

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/chzyer/readline"

	"github.com/marmos91/nfsshell/internal/logger"
)

// historyFile is the readline history path under the user's home
// directory, read once at Loop startup.
const historyFile = ".nfsshell_history"

// Loop drives the REPL to completion: read a line, tokenize it,
// dispatch it, print the result, repeat until EOF or "quit"/"bye".
// One command runs to completion before the next is read.
func (r *REPL) Loop() int {
	historyPath := filepath.Join(r.LocalDir, historyFile)
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "nfsshell> ",
		HistoryFile:     historyPath,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		Stdout:          r.Out,
		Stderr:          r.Err,
	})
	if err != nil {
		fmt.Fprintf(r.Err, "nfsshell: readline: %s\n", err)
		return 1
	}
	defer rl.Close()

	for {
		rl.SetPrompt(r.prompt())
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil { // io.EOF
			r.teardown()
			return 0
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if cmd, ok := isShellEscape(line); ok {
			r.runShell(cmd)
			continue
		}

		tokens := tokenize(line)
		name, argv := tokens[0], tokens[1:]

		switch name {
		case "quit", "bye":
			r.teardown()
			return 0
		case "help":
			Help(r, argv)
			continue
		}

		r.runCommand(name, argv)
	}
}

// runCommand executes one dispatched command under a context cancelled
// by SIGINT: the signal aborts the in-flight call and returns to the
// prompt without tearing down the session.
func (r *REPL) runCommand(name string, argv []string) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT)
	defer signal.Stop(sigCh)
	defer cancel()

	done := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-done:
		}
	}()

	err := Dispatch(ctx, r, name, argv)
	close(done)

	if err == nil {
		return
	}
	ce := classify(err)
	fmt.Fprintf(r.Err, "%s: %s\n", ce.Kind, ce.Err)
}

// teardown closes any open session before the loop exits.
func (r *REPL) teardown() {
	r.Session.Close(context.Background())
}

func (r *REPL) prompt() string {
	host := r.Session.Host()
	if host == "" {
		return "nfsshell> "
	}
	return fmt.Sprintf("nfsshell:%s> ", host)
}

// runShell implements "!"-prefixed shell passthrough: lines beginning
// with ! are passed to the operating-system shell.
func (r *REPL) runShell(command string) {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	cmd := exec.Command(shell, "-c", command)
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.Out
	cmd.Stderr = r.Err
	if err := cmd.Run(); err != nil {
		logger.Warn("shell command failed", "command", command, "error", err)
	}
}
