package util

import (
	"crypto/tls"
	"crypto/x509"
	"io/ioutil"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// GenerateTLSConfig builds a client TLS config. All file arguments are
// optional; with none of them set the config only controls verification.
func GenerateTLSConfig(caCertFile, clientCertFile, clientKeyFile string, tlsSkipVerify bool) (*tls.Config, error) {
	if caCertFile == "" && clientCertFile == "" && clientKeyFile == "" {
		return &tls.Config{
			InsecureSkipVerify: tlsSkipVerify,
		}, nil
	}

	tlsConfig := &tls.Config{
		InsecureSkipVerify: tlsSkipVerify,
	}

	if caCertFile != "" {
		pemCerts, err := ioutil.ReadFile(caCertFile)
		if err != nil {
			return nil, errors.Wrap(err, "unable to read ca certificate")
		}

		certpool := x509.NewCertPool()

		if !certpool.AppendCertsFromPEM(pemCerts) {
			return nil, errors.Errorf("no certificates found in '%s'", caCertFile)
		}

		tlsConfig.RootCAs = certpool
	}

	if clientCertFile != "" || clientKeyFile != "" {
		if clientCertFile == "" || clientKeyFile == "" {
			return nil, errors.New("client certificate and key must be set together")
		}

		cert, err := tls.LoadX509KeyPair(clientCertFile, clientKeyFile)
		if err != nil {
			return nil, errors.Wrap(err, "unable to load client certificate")
		}

		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

// SplitIdentifier splits a possibly schema-qualified name such as
// "public.users" into its parts.
func SplitIdentifier(name string) []string {
	parts := strings.Split(name, ".")

	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}

// FileExists reports whether path names an existing regular file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return !info.IsDir()
}
