package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"

	"github.com/abdul-hamid-achik/pet/packages/bench"
	"github.com/abdul-hamid-achik/pet/packages/http"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatResponse(resp *http.Response) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(f.writer, "%s %s\n", green(fmt.Sprintf("%d %s", resp.Status, resp.Message)), cyan(fmt.Sprintf("(%dms)", resp.DurationMs())))
	if f.verbose {
		f.formatHeaders(resp.Headers)
	}
	f.formatBody(resp.Body)
}

func (f *ConsoleFormatter) FormatFailure(e *http.Error) {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	origin := "local"
	if e.Remote {
		origin = "remote"
	}
	fmt.Fprintf(f.writer, "%s %s\n", red(fmt.Sprintf("%d %s", e.Status, e.Message)), yellow("["+origin+"]"))
	if f.verbose && len(e.Headers) > 0 {
		f.formatHeaders(e.Headers)
	}
	f.formatBody(e.Response)
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatValue(label string, v any) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold(label+":"), formatValue(v))
}

func (f *ConsoleFormatter) FormatSummary(s *bench.Summary) {
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n", bold("Summary"))
	fmt.Fprintf(f.writer, "  Requests: %d in %s (%.1f/s)\n", s.TotalRequests, s.Duration.Round(1e6), s.RPS)
	fmt.Fprintf(f.writer, "  Success:  %s", green(fmt.Sprintf("%d", s.SuccessCount)))
	if failed := s.LocalFailures + s.RemoteFailures; failed > 0 {
		fmt.Fprintf(f.writer, ", %s (%d local, %d remote)", red(fmt.Sprintf("%d failed", failed)), s.LocalFailures, s.RemoteFailures)
	}
	fmt.Fprintf(f.writer, "\n")
	for _, sc := range s.Statuses {
		fmt.Fprintf(f.writer, "    %d: %d\n", sc.Status, sc.Count)
	}
	fmt.Fprintf(f.writer, "  Latency:  p50=%s p95=%s p99=%s min=%s max=%s mean=%s\n",
		s.P50, s.P95, s.P99, s.Min, s.Max, s.Mean)
}

func (f *ConsoleFormatter) formatHeaders(h http.Headers) {
	gray := color.New(color.FgHiBlack).SprintFunc()
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(f.writer, "%s %s\n", gray(k+":"), h[k])
	}
	fmt.Fprintf(f.writer, "\n")
}

func (f *ConsoleFormatter) formatBody(body http.Body) {
	switch b := body.(type) {
	case nil:
	case http.EmptyBody:
		if f.verbose {
			fmt.Fprintf(f.writer, "(empty body)\n")
		}
	case http.JSONBody:
		var buf bytes.Buffer
		if err := json.Indent(&buf, b.Raw, "", "  "); err != nil {
			fmt.Fprintf(f.writer, "%s\n", b.Raw)
			return
		}
		fmt.Fprintf(f.writer, "%s\n", buf.String())
	case http.FormBody:
		keys := make([]string, 0, len(b.Values))
		for k := range b.Values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			for _, v := range b.Values[k] {
				fmt.Fprintf(f.writer, "%s = %s\n", k, v)
			}
		}
	case http.TextBody:
		fmt.Fprintf(f.writer, "%s\n", string(b))
	}
}

// formatValue renders a query result on one line
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case map[string]any, []any:
		b, err := json.Marshal(val)
		if err == nil {
			return string(b)
		}
	}
	return fmt.Sprintf("%v", v)
}
