// Package smtpcheck probes the SMTP server of a sending profile before the
// platform is asked to send through it.
package smtpcheck

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/foxzi/lure/internal/models"
)

// DefaultPort is used when the profile host has no port
const DefaultPort = "25"

var knownExtensions = []string{"STARTTLS", "AUTH", "8BITMIME", "SIZE", "PIPELINING", "ENHANCEDSTATUSCODES", "SMTPUTF8"}

// Result describes what the server offered
type Result struct {
	Addr       string
	TLS        bool
	TLSVersion string
	Auth       bool
	Extensions []string
	Latency    time.Duration
}

// Prober connects to SMTP servers
type Prober struct {
	hostname string
	timeout  time.Duration
	logger   *slog.Logger
}

// NewProber creates a prober announcing itself as hostname
func NewProber(hostname string, timeout time.Duration, logger *slog.Logger) *Prober {
	if hostname == "" {
		hostname = "localhost"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Prober{hostname: hostname, timeout: timeout, logger: logger}
}

// Addr returns host:port for a profile host, adding the default port
func Addr(host string) (string, error) {
	if host == "" {
		return "", errors.New("no SMTP host specified")
	}
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host, nil
	}
	return net.JoinHostPort(host, DefaultPort), nil
}

// Probe dials the profile's server, says EHLO, upgrades to TLS when offered
// and authenticates with PLAIN when the profile has a username. The TLS
// upgrade is done on a second connection since the client only negotiates
// STARTTLS when it is created. Certificates are verified unless the
// profile ignores certificate errors.
func (p *Prober) Probe(ctx context.Context, profile models.SMTP) (*Result, error) {
	addr, err := Addr(profile.Host)
	if err != nil {
		return nil, err
	}
	host, _, _ := net.SplitHostPort(addr)

	start := time.Now()
	conn, err := p.dial(ctx, addr)
	if err != nil {
		return nil, err
	}

	c := smtp.NewClient(conn)
	defer func() { c.Close() }()

	if err := c.Hello(p.hostname); err != nil {
		return nil, fmt.Errorf("EHLO failed: %w", err)
	}

	res := &Result{Addr: addr, Latency: time.Since(start)}
	for _, ext := range knownExtensions {
		if ok, _ := c.Extension(ext); ok {
			res.Extensions = append(res.Extensions, ext)
		}
	}

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.Quit(); err != nil {
			p.logger.Debug("QUIT failed", "addr", addr, "error", err)
		}
		c.Close()

		conn, err := p.dial(ctx, addr)
		if err != nil {
			return nil, err
		}
		tlsConfig := &tls.Config{
			ServerName:         host,
			InsecureSkipVerify: profile.IgnoreCertErrors,
			MinVersion:         tls.VersionTLS12,
		}
		tc, err := smtp.NewClientStartTLS(conn, tlsConfig)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("STARTTLS failed: %w", err)
		}
		c = tc

		// the handshake runs on the first write, so certificate errors
		// surface here
		if err := c.Hello(p.hostname); err != nil {
			return nil, fmt.Errorf("STARTTLS failed: %w", err)
		}
		if state, ok := c.TLSConnectionState(); ok {
			res.TLS = true
			res.TLSVersion = tls.VersionName(state.Version)
		}
	}

	if profile.Username != "" {
		if ok, _ := c.Extension("AUTH"); !ok {
			return nil, errors.New("server does not support authentication")
		}
		if err := c.Auth(sasl.NewPlainClient("", profile.Username, profile.Password)); err != nil {
			return nil, fmt.Errorf("authentication failed: %w", err)
		}
		res.Auth = true
	}

	if err := c.Quit(); err != nil {
		p.logger.Debug("QUIT failed", "addr", addr, "error", err)
	}

	p.logger.Debug("SMTP probe finished",
		"addr", addr,
		"tls", res.TLS,
		"auth", res.Auth,
		"latency", res.Latency,
	)
	return res, nil
}

func (p *Prober) dial(ctx context.Context, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connection failed to %s: %w", addr, err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	} else {
		conn.SetDeadline(time.Now().Add(p.timeout))
	}
	return conn, nil
}
