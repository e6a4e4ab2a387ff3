package main

import (
	"bufio"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/atinyakov/LangHelper/internal/certgen"
	"github.com/atinyakov/LangHelper/internal/client/api"
	"github.com/atinyakov/LangHelper/internal/client/session"
	"github.com/charmbracelet/log"
)

// errNotLoggedIn is returned by commands that need a session when there is none.
var errNotLoggedIn = errors.New("not logged in, run 'langhelper login' first")

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	api        *api.Client
	state      *session.State
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	input      *bufio.Scanner
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a Runner. The API client and the session state are set up
// by configure once the global flags are parsed.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = newLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	return &Runner{
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      bufio.NewScanner(opts.Input),
	}
}

// newLogger returns the human-facing CLI logger.
func newLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{ReportTimestamp: false})
}

// configure points the runner at baseURL and loads the session state from statePath.
// A non-empty caFile replaces the system roots for HTTPS servers.
func (r *Runner) configure(baseURL, statePath, caFile string) error {
	if caFile != "" {
		pool, err := certgen.LoadCertPool(caFile)
		if err != nil {
			return err
		}
		r.httpClient = &http.Client{
			Timeout:   api.DefaultTimeout,
			Transport: &http.Transport{TLSClientConfig: &tls.Config{RootCAs: pool}},
		}
	}

	if statePath == "" {
		p, err := session.DefaultPath()
		if err != nil {
			return err
		}
		statePath = p
	}

	st, err := session.Load(statePath)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	r.state = st
	r.api = api.New(baseURL, r.httpClient)
	if st.LoggedIn {
		r.api.SetToken(st.Token)
	}
	return nil
}

func (r *Runner) requireLogin() error {
	if !r.state.LoggedIn {
		return errNotLoggedIn
	}
	return nil
}

// handleAuthError clears a session the server no longer accepts.
func (r *Runner) handleAuthError(err error) error {
	if !api.IsStatus(err, http.StatusUnauthorized) {
		return err
	}
	r.state.Clear()
	if saveErr := r.state.Save(); saveErr != nil {
		r.logger.Warn("could not clear session", "err", saveErr)
	}
	return errors.New("session expired, please log in again")
}

// prompt asks for one line of input.
func (r *Runner) prompt(label string) string {
	r.writePlain("%s: ", label)
	if !r.input.Scan() {
		return ""
	}
	return strings.TrimSpace(r.input.Text())
}

// valueOrPrompt returns v, or asks for it when v is empty.
func (r *Runner) valueOrPrompt(v, label string) string {
	if v != "" {
		return v
	}
	return r.prompt(label)
}

func (r *Runner) writePlain(format string, args ...any) {
	_, _ = fmt.Fprintf(r.output, format, args...)
}

func (r *Runner) writePlainln(format string, args ...any) {
	_, _ = fmt.Fprintf(r.output, format+"\n", args...)
}

// warnSync surfaces a failed mirror to the extension list without failing the command.
func (r *Runner) warnSync(warning string) {
	if warning != "" {
		r.logger.Warn(warning)
	}
}
