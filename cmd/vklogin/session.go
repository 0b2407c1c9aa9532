package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mmcdole/vklogin/pkg/credential"
	"github.com/mmcdole/vklogin/pkg/credstore"
	"github.com/mmcdole/vklogin/pkg/hashing"
	"github.com/mmcdole/vklogin/pkg/logging"
	"golang.org/x/term"
)

// session holds everything the shell needs for one invocation. It is the
// only place that knows about terminals; the credential core never sees it.
type session struct {
	svc    *credential.Service
	stdin  io.Reader
	reader *bufio.Reader
	out    io.Writer
}

// newSession wires config into a credential service
func newSession(config *Config, stdin io.Reader, out io.Writer) (*session, error) {
	level, err := logging.ParseLevel(config.LogLevel)
	if err != nil {
		return nil, err
	}
	if err := logging.Initialize(config.AppLogPath, level, config.LogMaxSize); err != nil {
		return nil, err
	}

	hasher, err := hashing.New(hashing.Algorithm(config.HashAlgorithm), config.HashOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to create hasher: %v", err)
	}

	store := credstore.NewFileStore(nil, config.StorePath)
	svc, err := credential.NewService(store, hasher)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential service: %v", err)
	}

	logging.App.Debug("Session ready", "store", config.StorePath, "algorithm", config.HashAlgorithm)
	return &session{
		svc:    svc,
		stdin:  stdin,
		reader: bufio.NewReader(stdin),
		out:    out,
	}, nil
}

// close releases the log file, if any
func (s *session) close() error {
	return logging.App.Close()
}

// readLine prompts and reads one line of visible input
func (s *session) readLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	line, err := s.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readPassword prompts for a password, without echo when stdin is a terminal
func (s *session) readPassword(prompt string) (string, error) {
	f, ok := s.stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return s.readLine(prompt)
	}

	fmt.Fprint(s.out, prompt)
	pw, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(s.out)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pw), nil
}

// credentials returns the username from args or a prompt, then the password
func (s *session) credentials(args []string) (string, string, error) {
	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		var err error
		if username, err = s.readLine("Username: "); err != nil {
			return "", "", err
		}
	}

	password, err := s.readPassword("Password: ")
	if err != nil {
		return "", "", err
	}
	return username, password, nil
}

// report prints an outcome the way a dialog would show it
func (s *session) report(out credential.Outcome) error {
	if out.OK() {
		fmt.Fprintf(s.out, "Success: %s\n", out.Message)
		return nil
	}
	fmt.Fprintf(s.out, "Error: %s\n", out.Message)
	return &outcomeError{outcome: out}
}

// outcomeError marks a failed outcome that has already been reported
type outcomeError struct {
	outcome credential.Outcome
}

func (e *outcomeError) Error() string {
	if e.outcome.Err != nil {
		return fmt.Sprintf("%s: %v", e.outcome.Message, e.outcome.Err)
	}
	return e.outcome.Message
}

func (e *outcomeError) Unwrap() error {
	return e.outcome.Err
}
