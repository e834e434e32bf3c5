package cmd

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/pet/packages/bench"
	"github.com/abdul-hamid-achik/pet/packages/core/config"
	"github.com/abdul-hamid-achik/pet/packages/history"
	"github.com/abdul-hamid-achik/pet/packages/http"
	"github.com/abdul-hamid-achik/pet/packages/inspect"
	"github.com/abdul-hamid-achik/pet/packages/output"
)

var (
	headerFlags     []string
	dataFlag        string
	timeoutFlag     string
	insecureFlag    bool
	queryFlag       string
	schemaFlag      string
	requestIDFlag   bool
	watchFlag       bool
	repeatFlag      int
	rateFlag        float64
	concurrencyFlag int
)

var requestCmd = &cobra.Command{
	Use:   "request <METHOD> <URL>",
	Short: "Send an HTTPS request",
	Long: `Send one HTTPS request and print the resulting envelope.

Examples:
  pet request GET https://api.example.com/users
  pet request POST https://api.example.com/users -d '{"name":"Ada"}'
  pet request PUT https://api.example.com/users/1 -d @user.json -w
  pet request GET https://api.example.com/users --query '0.name'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return requestCommand(cmd, strings.ToUpper(args[0]), args[1])
	},
}

// methodCmds are the shorthands for request, one per method.
var methodCmds = []*cobra.Command{
	newMethodCmd("GET"),
	newMethodCmd("POST"),
	newMethodCmd("PUT"),
	newMethodCmd("PATCH"),
	newMethodCmd("DELETE"),
}

func newMethodCmd(method string) *cobra.Command {
	c := &cobra.Command{
		Use:   strings.ToLower(method) + " <URL>",
		Short: fmt.Sprintf("Send an HTTPS %s request", method),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return requestCommand(cmd, method, args[0])
		},
	}
	addRequestFlags(c)
	return c
}

func init() {
	addRequestFlags(requestCmd)
}

func addRequestFlags(c *cobra.Command) {
	c.Flags().StringArrayVarP(&headerFlags, "header", "H", nil, "Request header as 'Name: value' (repeatable)")
	c.Flags().StringVarP(&dataFlag, "data", "d", "", "Request body: JSON text, or @file to read it from a file")
	c.Flags().StringVar(&timeoutFlag, "timeout", getEnvString("PET_TIMEOUT", ""), "Timeout for the whole exchange, e.g. 5s; 0 disables (env: PET_TIMEOUT)")
	c.Flags().BoolVarP(&insecureFlag, "insecure", "k", getEnvBool("PET_INSECURE", false), "Disable certificate validation (env: PET_INSECURE)")
	c.Flags().StringVar(&queryFlag, "query", "", "Print only the value at this path of a JSON answer")
	c.Flags().StringVar(&schemaFlag, "schema", "", "Validate a JSON answer against this JSON Schema file")
	c.Flags().BoolVar(&requestIDFlag, "request-id", getEnvBool("PET_REQUEST_ID", false), "Send a random X-Request-Id header (env: PET_REQUEST_ID)")
	c.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Re-send whenever the @file body changes")
	c.Flags().IntVar(&repeatFlag, "repeat", getEnvInt("PET_REPEAT", 1), "Send the request this many times and print a latency summary (env: PET_REPEAT)")
	c.Flags().Float64Var(&rateFlag, "rate", getEnvFloat("PET_RATE", 0), "Requests per second when repeating; 0 means unpaced (env: PET_RATE)")
	c.Flags().IntVar(&concurrencyFlag, "concurrency", getEnvInt("PET_CONCURRENCY", 1), "Requests in flight when repeating (env: PET_CONCURRENCY)")
}

// invocation is everything needed to issue the same call again.
type invocation struct {
	method   string
	url      string
	client   *http.Client
	headers  http.Headers
	timeout  time.Duration
	dataPath string
	cfg      *config.Config
}

func requestCommand(cmd *cobra.Command, method, url string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if insecureFlag {
		cfg = cfg.Merge(&config.Config{Insecure: config.BoolPtr(true)})
	}

	inv, err := newInvocation(method, url, cfg)
	if err != nil {
		return err
	}

	if repeatFlag < 1 {
		return usageErrorf("--repeat must be at least 1")
	}
	if watchFlag {
		if inv.dataPath == "" {
			return usageErrorf("--watch needs a -d @file body to watch")
		}
		if repeatFlag > 1 {
			return usageErrorf("--watch cannot be combined with --repeat")
		}
	}

	formatter := newFormatter(cmd, cfg)

	var code int
	if repeatFlag > 1 {
		code, err = inv.bench(cmd.Context(), formatter)
	} else {
		code, err = inv.once(cmd.Context(), formatter)
	}
	if err != nil {
		return err
	}

	if watchFlag {
		fmt.Fprintf(cmd.ErrOrStderr(), "\nWatching %s for changes... (press Ctrl+C to stop)\n", inv.dataPath)
		return watchFile(cmd.Context(), inv.dataPath, func() {
			fmt.Fprintf(cmd.ErrOrStderr(), "\nFile changed: %s\nRe-sending...\n\n", inv.dataPath)
			if _, err := inv.once(cmd.Context(), formatter); err != nil {
				formatter.FormatError(err)
			}
		})
	}

	if code != ExitSuccess {
		return withExitCode(code, nil)
	}
	return nil
}

func newInvocation(method, url string, cfg *config.Config) (*invocation, error) {
	headers, err := parseHeaders(headerFlags)
	if err != nil {
		return nil, err
	}
	if requestIDFlag && !headers.Has("X-Request-Id") {
		headers.Set("X-Request-Id", uuid.NewString())
	}

	timeout := cfg.TimeoutDuration()
	if timeoutFlag != "" {
		timeout, err = time.ParseDuration(timeoutFlag)
		if err != nil {
			return nil, usageErrorf("invalid --timeout %q: %v", timeoutFlag, err)
		}
	}

	opts := []http.ClientOption{http.WithDefaultHeaders(cfg.Headers)}
	if cfg.UserAgent != "" {
		opts = append(opts, http.WithUserAgent(cfg.UserAgent))
	}
	if cfg.GetInsecure() {
		opts = append(opts, http.WithTLSConfig(&tls.Config{InsecureSkipVerify: true}))
	}

	inv := &invocation{
		method:  method,
		url:     url,
		client:  http.NewClient(opts...),
		headers: headers,
		timeout: timeout,
		cfg:     cfg,
	}
	if strings.HasPrefix(dataFlag, "@") {
		inv.dataPath = strings.TrimPrefix(dataFlag, "@")
	}

	// Surface a bad body now rather than after the first send.
	if _, err := inv.options(); err != nil {
		return nil, err
	}
	return inv, nil
}

// options builds the call options, re-reading an @file body each time.
func (inv *invocation) options() (*http.Options, error) {
	opts := &http.Options{
		Method:  inv.method,
		Headers: inv.headers.Clone(),
		Timeout: inv.timeout,
	}

	data := dataFlag
	if inv.dataPath != "" {
		raw, err := os.ReadFile(inv.dataPath)
		if err != nil {
			return nil, withExitCode(ExitUsageError, fmt.Errorf("failed to read body: %w", err))
		}
		data = string(raw)
	}
	if data == "" {
		return opts, nil
	}

	switch {
	case json.Valid([]byte(data)):
		opts.Body = json.RawMessage(data)
	case inv.headers.Has("Content-Type"):
		opts.Body = []byte(data)
	default:
		return nil, usageErrorf("body is not valid JSON; set a Content-Type header to send it as-is")
	}
	return opts, nil
}

// once sends a single call, reports it and returns its exit code.
func (inv *invocation) once(ctx context.Context, formatter output.Formatter) (int, error) {
	opts, err := inv.options()
	if err != nil {
		return 0, err
	}
	if id := opts.Headers.Get("X-Request-Id"); id != "" {
		log.FromContext(ctx).Debug("request id", "id", id)
	}

	startedAt := time.Now()
	resp, callErr := inv.client.Do(ctx, inv.url, opts)
	inv.record(ctx, history.EntryFor(inv.method, inv.url, startedAt, resp, callErr))

	if callErr != nil {
		failure, ok := http.AsError(callErr)
		if !ok {
			formatter.FormatError(callErr)
			return ExitLocalFailure, nil
		}
		formatter.FormatFailure(failure)
		if failure.Remote {
			return ExitRemoteFailure, nil
		}
		return ExitLocalFailure, nil
	}

	return inv.report(resp, formatter), nil
}

// report prints a successful answer, narrowed by --query and checked by
// --schema.
func (inv *invocation) report(resp *http.Response, formatter output.Formatter) int {
	if schemaFlag != "" {
		if err := inspect.ValidateSchemaFile(resp.Body, schemaFlag); err != nil {
			formatter.FormatResponse(resp)
			formatter.FormatError(err)
			return ExitRemoteFailure
		}
	}

	if queryFlag == "" {
		formatter.FormatResponse(resp)
		return ExitSuccess
	}

	value, ok := inspect.Query(resp.Body, queryFlag)
	if !ok {
		formatter.FormatError(fmt.Errorf("no value at %q in %s body", queryFlag, resp.Body.Kind()))
		return ExitRemoteFailure
	}
	formatter.FormatValue(queryFlag, value)
	return ExitSuccess
}

func (inv *invocation) bench(ctx context.Context, formatter output.Formatter) (int, error) {
	opts, err := inv.options()
	if err != nil {
		return 0, err
	}

	summary, err := bench.Run(ctx, bench.Config{
		Count:       repeatFlag,
		Rate:        rateFlag,
		Concurrency: concurrencyFlag,
	}, func(ctx context.Context) (*http.Response, error) {
		return inv.client.Do(ctx, inv.url, opts)
	})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		formatter.FormatSummary(summary)
		return ExitLocalFailure, nil
	}
	if err != nil {
		return 0, usageErrorf("%v", err)
	}

	formatter.FormatSummary(summary)
	switch {
	case summary.LocalFailures > 0:
		return ExitLocalFailure, nil
	case summary.RemoteFailures > 0:
		return ExitRemoteFailure, nil
	}
	return ExitSuccess, nil
}

// record stores the call when a history database is configured. History
// problems are logged and never change the outcome.
func (inv *invocation) record(ctx context.Context, entry history.Entry) {
	if inv.cfg.History == "" {
		return
	}
	logger := log.FromContext(ctx)
	// An aborted call is still worth recording.
	ctx = context.WithoutCancel(ctx)

	store, err := history.Open(ctx, inv.cfg.History)
	if err != nil {
		logger.Warn("history unavailable", "err", err)
		return
	}
	defer store.Close()

	if _, err := store.Record(ctx, entry); err != nil {
		logger.Warn("failed to record call", "err", err)
	}
}

// parseHeaders reads 'Name: value' pairs.
func parseHeaders(raw []string) (http.Headers, error) {
	headers := make(http.Headers, len(raw))
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, usageErrorf("invalid header %q: want 'Name: value'", h)
		}
		headers.Set(name, strings.TrimSpace(value))
	}
	return headers, nil
}
