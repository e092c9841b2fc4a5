package notify

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wneessen/go-mail"
)

type lockedBuf struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func (l *lockedBuf) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.String()
}

func captureLogs(t *testing.T) *lockedBuf {
	t.Helper()
	buf := &lockedBuf{}
	prev := log.Writer()
	log.SetOutput(buf)
	t.Cleanup(func() { log.SetOutput(prev) })
	return buf
}

type funcNotifier func(ctx context.Context, to, subject, body string) error

func (f funcNotifier) Send(ctx context.Context, to, subject, body string) error {
	return f(ctx, to, subject, body)
}

func TestDispatcher_DeliversInBackground(t *testing.T) {
	var mu sync.Mutex
	var got []string
	d := NewDispatcher(funcNotifier(func(_ context.Context, to, subject, _ string) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, to+"|"+subject)
		return nil
	}), time.Second)

	d.Dispatch("a@petcare.test", "hello", "body")
	d.Dispatch("b@petcare.test", "hello", "body")
	d.Wait()

	if len(got) != 2 {
		t.Fatalf("want 2 sends, got %v", got)
	}
}

func TestDispatcher_FailureIsLogged(t *testing.T) {
	buf := captureLogs(t)
	d := NewDispatcher(funcNotifier(func(context.Context, string, string, string) error {
		return errors.New("smtp down")
	}), time.Second)

	d.Dispatch("a@petcare.test", "subj", "body")
	d.Wait()

	out := buf.String()
	if !strings.Contains(out, `"action":"notify.fail"`) || !strings.Contains(out, "smtp down") {
		t.Fatalf("expected notify.fail log, got %q", out)
	}
}

func TestDispatcher_PanicIsRecovered(t *testing.T) {
	buf := captureLogs(t)
	d := NewDispatcher(funcNotifier(func(context.Context, string, string, string) error {
		panic("boom")
	}), time.Second)

	d.Dispatch("a@petcare.test", "subj", "body")
	d.Wait()

	if !strings.Contains(buf.String(), "panic: boom") {
		t.Fatalf("expected recovered panic in log, got %q", buf.String())
	}
}

func TestDispatcher_TimeoutBoundsSlowNotifier(t *testing.T) {
	buf := captureLogs(t)
	d := NewDispatcher(funcNotifier(func(ctx context.Context, _, _, _ string) error {
		<-ctx.Done()
		return ctx.Err()
	}), 20*time.Millisecond)

	start := time.Now()
	d.Dispatch("a@petcare.test", "subj", "body")
	d.Wait()

	if time.Since(start) > time.Second {
		t.Fatal("dispatcher did not honour its timeout")
	}
	if !strings.Contains(buf.String(), "deadline exceeded") {
		t.Fatalf("expected deadline error in log, got %q", buf.String())
	}
}

func captureMsg(t *testing.T, n *SMTPNotifier) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	n.deliver = func(_ context.Context, m *mail.Msg) error {
		_, err := m.WriteTo(&buf)
		return err
	}
	return &buf
}

func TestSMTPNotifier_BuildsMessage(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{Host: "mail.test", Port: 2525, From: "noreply@petcare.test"})
	buf := captureMsg(t, n)

	if err := n.Send(context.Background(), "alice@petcare.test", "Hi", "Body text"); err != nil {
		t.Fatal(err)
	}
	msg := buf.String()
	for _, want := range []string{"To: <alice@petcare.test>", "From: <noreply@petcare.test>", "Subject: Hi", "Body text"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestSMTPNotifier_EncodesNonASCIISubject(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{Host: "mail.test", Port: 25, From: "noreply@petcare.test"})
	buf := captureMsg(t, n)

	if err := n.Send(context.Background(), "alice@petcare.test", "Rettung für Tiere", "b"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(strings.ToLower(buf.String()), "subject: =?utf-8?") {
		t.Fatalf("subject not MIME encoded:\n%s", buf.String())
	}
}

func TestSMTPNotifier_RejectsHeaderInjection(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{Host: "mail.test", Port: 25, From: "noreply@petcare.test"})
	n.deliver = func(context.Context, *mail.Msg) error {
		t.Error("deliver must not be called")
		return nil
	}
	if err := n.Send(context.Background(), "a@x.test\r\nBcc: evil@x.test", "s", "b"); err == nil {
		t.Fatal("want error for line break in recipient")
	}
	if err := n.Send(context.Background(), "a@x.test", "s\r\nBcc: evil@x.test", "b"); err == nil {
		t.Fatal("want error for line break in subject")
	}
	if err := n.Send(context.Background(), "not an address", "s", "b"); err == nil {
		t.Fatal("want error for malformed recipient")
	}
}

// silentServer accepts connections and never sends a greeting. It counts
// connections opened and connections the client has closed.
type silentServer struct {
	ln     net.Listener
	opened atomic.Int32
	closed atomic.Int32
}

func newSilentServer(t *testing.T) *silentServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := &silentServer{ln: ln}
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			s.opened.Add(1)
			go func() {
				defer c.Close()
				_, _ = io.Copy(io.Discard, c)
				s.closed.Add(1)
			}()
		}
	}()
	return s
}

func (s *silentServer) notifier(t *testing.T) *SMTPNotifier {
	t.Helper()
	host, port, err := net.SplitHostPort(s.ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		t.Fatal(err)
	}
	return NewSMTPNotifier(SMTPConfig{Host: host, Port: p, From: "noreply@petcare.test", Timeout: 5 * time.Second})
}

// settled waits until every opened connection has been closed by the client.
func (s *silentServer) settled(t *testing.T, want int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.opened.Load() == want && s.closed.Load() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("connections opened=%d closed=%d, want %d closed", s.opened.Load(), s.closed.Load(), want)
}

func TestSMTPNotifier_CancelAbortsHungServer(t *testing.T) {
	srv := newSilentServer(t)
	n := srv.notifier(t)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	if err := n.Send(ctx, "alice@petcare.test", "Hi", "Body"); err == nil {
		t.Fatal("want error from a server that never answers")
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("send did not stop on cancel")
	}
	srv.settled(t, 1)
}

func TestDispatcher_WaitLeavesNoSendInFlight(t *testing.T) {
	buf := captureLogs(t)
	srv := newSilentServer(t)
	d := NewDispatcher(srv.notifier(t), 200*time.Millisecond)

	for i := 0; i < 3; i++ {
		d.Dispatch("alice@petcare.test", "Hi", "Body")
	}
	d.Wait()

	if got := srv.opened.Load(); got != 3 {
		t.Fatalf("want 3 connections, got %d", got)
	}
	srv.settled(t, 3)
	if n := strings.Count(buf.String(), `"action":"notify.fail"`); n != 3 {
		t.Fatalf("want 3 notify.fail entries, got %d", n)
	}
}

func TestDispatcher_WaitDrainsSlowNotifiers(t *testing.T) {
	captureLogs(t)
	var inFlight atomic.Int32
	d := NewDispatcher(funcNotifier(func(ctx context.Context, _, _, _ string) error {
		inFlight.Add(1)
		defer inFlight.Add(-1)
		<-ctx.Done()
		return ctx.Err()
	}), 20*time.Millisecond)

	for i := 0; i < 10; i++ {
		d.Dispatch("a@petcare.test", "subj", "body")
	}
	d.Wait()

	if n := inFlight.Load(); n != 0 {
		t.Fatalf("%d sends still running after Wait", n)
	}
}
