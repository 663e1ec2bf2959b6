// Package transport builds the outbound HTTP client used for the catalog
// endpoint and the video platform's data API.
package transport

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Options configures NewHTTPClient. Zero value is a plain client with no timeout.
type Options struct {
	// CAFile adds a PEM bundle to the trusted roots.
	CAFile string
	// CertFile and KeyFile enable a client certificate. Both or neither.
	CertFile string
	KeyFile  string
	// Timeout bounds a whole request. Zero means none.
	Timeout time.Duration
}

// NewHTTPClient returns an *http.Client configured from opts.
func NewHTTPClient(opts Options) (*http.Client, error) {
	if opts.CAFile == "" && opts.CertFile == "" && opts.KeyFile == "" {
		return &http.Client{Timeout: opts.Timeout}, nil
	}

	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}

	if opts.CAFile != "" {
		caCert, err := os.ReadFile(opts.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		caPool := x509.NewCertPool()
		if !caPool.AppendCertsFromPEM(caCert) {
			return nil, errors.New("failed to parse CA cert")
		}
		tlsCfg.RootCAs = caPool
	}

	if (opts.CertFile == "") != (opts.KeyFile == "") {
		return nil, errors.New("cert_file and key_file must be set together")
	}
	if opts.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(opts.CertFile, opts.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert/key: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsCfg
	return &http.Client{Transport: transport, Timeout: opts.Timeout}, nil
}
