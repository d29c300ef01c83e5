package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

// BrowserUserAgent matches the TLS fingerprint presented by Browser.
const BrowserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const dialTimeout = 15 * time.Second

// Browser is a client whose TLS handshake looks like Chrome 120. Mirror
// domains sit behind bot filters that reject Go's default ClientHello.
var Browser = &http.Client{
	Timeout:   30 * time.Second,
	Transport: &fingerprintTransport{plain: newTransport()},
}

// fingerprintTransport tries HTTP/2 over a Chrome ClientHello and falls back
// to HTTP/1.1 with the same fingerprint. Plain http requests bypass both.
type fingerprintTransport struct {
	plain *http.Transport

	once sync.Once
	h2   *http2.Transport
	h1   *http.Transport
}

func (t *fingerprintTransport) init() {
	t.h2 = &http2.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
			return dialChrome(ctx, network, addr, nil)
		},
	}
	t.h1 = &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialChrome(ctx, network, addr, []string{"http/1.1"})
		},
	}
}

func (t *fingerprintTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return t.plain.RoundTrip(req)
	}

	t.once.Do(t.init)
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", BrowserUserAgent)
	}

	resp, err := t.h2.RoundTrip(req)
	if err == nil {
		return resp, nil
	}

	if req.Body != nil && req.GetBody == nil {
		return nil, err
	}

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		if retry.Body, err = req.GetBody(); err != nil {
			return nil, err
		}
	}
	return t.h1.RoundTrip(retry)
}

// dialChrome opens a TLS connection with the Chrome 120 ClientHello.
// A nil protos advertises h2 and http/1.1 like the browser does.
func dialChrome(ctx context.Context, network, addr string, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("tls handshake with %s: %w", host, err)
	}

	return tlsConn, nil
}
