// Package main writes a development CA and a server certificate signed by it,
// for running the LangHelper API over HTTPS. An existing CA in the output
// directory is reused so clients that already trust it keep working.
package main

import (
	"crypto/x509"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atinyakov/LangHelper/internal/certgen"
)

const (
	caValidity     = 10 * 365 * 24 * time.Hour
	serverValidity = 365 * 24 * time.Hour
)

func main() {
	dir := flag.String("dir", "certs", "output directory")
	hosts := flag.String("hosts", "localhost,127.0.0.1", "comma-separated server host names and IPs")
	flag.Parse()

	if err := run(*dir, strings.Split(*hosts, ",")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Certificates written to %s (trust %s in the client with --ca-file)\n",
		*dir, filepath.Join(*dir, "ca.crt"))
}

func run(dir string, hosts []string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	caCert, caKey, err := loadOrCreateCA(filepath.Join(dir, "ca.crt"), filepath.Join(dir, "ca.key"))
	if err != nil {
		return err
	}

	var clean []string
	for _, h := range hosts {
		if h = strings.TrimSpace(h); h != "" {
			clean = append(clean, h)
		}
	}
	certPEM, keyPEM, err := certgen.IssueServerCertificate(clean, caCert, caKey, serverValidity)
	if err != nil {
		return err
	}
	return writePair(filepath.Join(dir, "server.crt"), filepath.Join(dir, "server.key"), certPEM, keyPEM)
}

func loadOrCreateCA(certPath, keyPath string) (*x509.Certificate, any, error) {
	if _, err := os.Stat(certPath); err == nil {
		return certgen.LoadCACredentials(certPath, keyPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, nil, err
	}

	cert, key, err := certgen.NewCA("LangHelper Dev CA", caValidity)
	if err != nil {
		return nil, nil, err
	}
	keyPEM, err := certgen.EncodeKey(key)
	if err != nil {
		return nil, nil, err
	}
	if err := writePair(certPath, keyPath, certgen.EncodeCertificate(cert), keyPEM); err != nil {
		return nil, nil, err
	}
	return cert, key, nil
}

func writePair(certPath, keyPath string, certPEM, keyPEM []byte) error {
	if err := os.WriteFile(certPath, certPEM, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", certPath, err)
	}
	if err := os.WriteFile(keyPath, keyPEM, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", keyPath, err)
	}
	return nil
}
