package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
)

type fakeExec struct {
	authenticated bool
	// in is the reader Login prompts on, when set.
	in     *bufio.Reader
	mobile string

	calls []string
}

func (f *fakeExec) isAuthenticated() bool { return f.authenticated }
func (f *fakeExec) Status(ctx context.Context) error {
	f.calls = append(f.calls, "status")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	if f.in != nil {
		mobile, err := GetSimpleText(f.in, "Enter mobile number", io.Discard)
		if err != nil {
			return err
		}
		f.mobile = mobile
	}
	f.authenticated = true
	return nil
}
func (f *fakeExec) Profile(ctx context.Context) error {
	f.calls = append(f.calls, "profile")
	return nil
}
func (f *fakeExec) Refresh(ctx context.Context) error {
	f.calls = append(f.calls, "refresh")
	return nil
}
func (f *fakeExec) Update(ctx context.Context) error {
	f.calls = append(f.calls, "update")
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.authenticated = false
	return nil
}

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprint(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	capturePrintln(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"profile",
		"refresh",
		"update",
		"status",
		"logout",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{}
	sc := bufio.NewReader(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	want := []string{"login", "profile", "refresh", "update", "status", "logout"}
	if strings.Join(exec.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls mismatch: got %v, want %v", exec.calls, want)
	}
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	lines := capturePrintln(t)

	sc := bufio.NewReader(strings.NewReader("help\nlogin\nhelp\nquit\n"))
	runREPL(context.Background(), &fakeExec{}, func() string { return "(guest)" }, sc)

	var helps []string
	for _, l := range *lines {
		if strings.HasPrefix(l, "Available commands") {
			helps = append(helps, l)
		}
	}
	if len(helps) != 2 {
		t.Fatalf("want 2 help lines, got %v", helps)
	}
	if strings.Contains(helps[0], "logout") || !strings.Contains(helps[0], "login") {
		t.Fatalf("guest help wrong: %q", helps[0])
	}
	if !strings.Contains(helps[1], "logout") || strings.Contains(helps[1], "login") {
		t.Fatalf("authenticated help wrong: %q", helps[1])
	}
}

func TestRunREPL_UnknownAndQuit(t *testing.T) {
	lines := capturePrintln(t)

	exec := &fakeExec{authenticated: true}
	sc := bufio.NewReader(strings.NewReader("get\n\nquit\nprofile\n"))

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
	joined := strings.Join(*lines, "\n")
	if !strings.Contains(joined, "Unknown command:get") && !strings.Contains(joined, "Unknown command: get") {
		t.Fatalf("unknown command not reported: %q", joined)
	}
	if !strings.Contains(joined, "Bye!") {
		t.Fatalf("missing goodbye: %q", joined)
	}
}

func TestRunREPL_StopsOnEOFAndCancel(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runREPL(ctx, exec, func() string { return "" }, bufio.NewReader(strings.NewReader("login\n")))

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}

func TestRunREPL_PromptsShareTheReader(t *testing.T) {
	capturePrintln(t)

	in := bufio.NewReader(strings.NewReader("login\n+919999999999\nprofile\nexit\n"))
	exec := &fakeExec{in: in}

	runREPL(context.Background(), exec, func() string { return "" }, in)

	if exec.mobile != "+919999999999" {
		t.Fatalf("login read %q, want the line after the command", exec.mobile)
	}
	if got := strings.Join(exec.calls, ","); got != "login,profile" {
		t.Fatalf("calls mismatch: got %s", got)
	}
}

func TestRunREPL_RunsLastLineWithoutNewline(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{authenticated: true}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("profile")))

	if got := strings.Join(exec.calls, ","); got != "profile" {
		t.Fatalf("calls mismatch: got %s", got)
	}
}
