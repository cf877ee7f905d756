package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// TerminalPrompter asks for credentials on a terminal. The password is
// read without echo when the input is a tty.
type TerminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
	tty bool
}

func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	p := &TerminalPrompter{
		in:  bufio.NewReader(in),
		out: out,
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.tty = true
	}
	return p
}

func (p *TerminalPrompter) Prompt(_ context.Context, lastErr error) (Credentials, error) {
	var creds Credentials

	if lastErr != nil {
		fmt.Fprintf(p.out, "Authentication failed: %v\n", lastErr)
	}

	for {
		choice, err := p.ask("Session required. [l]ogin, [r]egister, or Enter to cancel: ")
		if err != nil {
			return creds, err
		}
		switch strings.ToLower(choice) {
		case "":
			return creds, ErrPromptCancelled
		case "l", "login":
		case "r", "register":
			creds.Register = true
		default:
			continue
		}
		break
	}

	username, err := p.ask("Username: ")
	if err != nil {
		return creds, err
	}
	if username == "" {
		return creds, ErrPromptCancelled
	}
	creds.Username = username

	password, err := p.password("Password: ")
	if err != nil {
		return creds, err
	}
	creds.Password = password

	return creds, nil
}

func (p *TerminalPrompter) ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", ErrPromptCancelled
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *TerminalPrompter) password(label string) (string, error) {
	if !p.tty {
		fmt.Fprint(p.out, label)
		line, err := p.in.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(p.out, label)
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
