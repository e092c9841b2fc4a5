// Package notify delivers user-facing messages (rescue confirmations) without
// letting a slow or failing channel affect the request that triggered them.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/wneessen/go-mail"

	"petcare/internal/domain"
	applog "petcare/internal/log"
)

// Notifier sends one message to one recipient.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// ---------- SMTP ----------

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// SMTPNotifier sends each message over its own SMTP session.
type SMTPNotifier struct {
	cfg SMTPConfig

	// deliver is dialAndSend; replaced in tests.
	deliver func(ctx context.Context, m *mail.Msg) error
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	n := &SMTPNotifier{cfg: cfg}
	n.deliver = n.dialAndSend
	return n
}

func (n *SMTPNotifier) Send(ctx context.Context, to, subject, body string) error {
	if strings.ContainsAny(to+subject, "\r\n") {
		return errors.New("line break in recipient or subject")
	}
	m := mail.NewMsg()
	if err := m.From(n.cfg.From); err != nil {
		return fmt.Errorf("from: %w", err)
	}
	if err := m.To(to); err != nil {
		return fmt.Errorf("to: %w", err)
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextPlain, body)
	return n.deliver(ctx, m)
}

// dialAndSend ties the connection to ctx: the ctx deadline is the I/O
// deadline, and cancelling ctx closes the socket under any blocked read.
func (n *SMTPNotifier) dialAndSend(ctx context.Context, m *mail.Msg) error {
	var (
		mu   sync.Mutex
		conn net.Conn
	)
	closeConn := func() {
		mu.Lock()
		defer mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
	}
	dial := func(dctx context.Context, network, addr string) (net.Conn, error) {
		var d net.Dialer
		c, err := d.DialContext(dctx, network, addr)
		if err != nil {
			return nil, err
		}
		if dl, ok := ctx.Deadline(); ok {
			_ = c.SetDeadline(dl)
		}
		mu.Lock()
		conn = c
		mu.Unlock()
		if err := ctx.Err(); err != nil {
			_ = c.Close()
			return nil, err
		}
		return c, nil
	}
	stop := context.AfterFunc(ctx, closeConn)
	defer stop()
	defer closeConn()

	opts := []mail.Option{
		mail.WithPort(n.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithDialContextFunc(dial),
	}
	if n.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(n.cfg.Timeout))
	}
	if n.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.cfg.Username),
			mail.WithPassword(n.cfg.Password),
		)
	}
	client, err := mail.NewClient(n.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, m)
}

// ---------- Log ----------

// LogNotifier writes messages to the application log. Used when no mail server is configured.
type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, to, subject, body string) error {
	applog.Info(nil, "notify.log", map[string]any{"to": to, "subject": subject, "body": body})
	return nil
}

// ---------- Dispatcher ----------

// Dispatcher sends notifications in the background. Failures, timeouts and
// panics are logged as notify.fail and never reach the caller.
type Dispatcher struct {
	n       Notifier
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(n Notifier, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{n: n, timeout: timeout}
}

// Dispatch returns immediately.
func (d *Dispatcher) Dispatch(to, subject, body string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.send(to, subject, body); err != nil {
			applog.Error(nil, "notify.fail", &domain.NotificationError{To: to, Err: err},
				map[string]any{"subject": subject})
		}
	}()
}

func (d *Dispatcher) send(to, subject, body string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	return d.n.Send(ctx, to, subject, body)
}

// Wait blocks until every dispatched send has finished.
func (d *Dispatcher) Wait() { d.wg.Wait() }
