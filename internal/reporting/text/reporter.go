package text

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/olusolaa/stack-drift-notifier/internal/core/domain"
	"github.com/olusolaa/stack-drift-notifier/internal/core/ports"
)

const ReporterTypeText = "text"

type Config struct {
	NoColor bool `mapstructure:"no_color"`
}

type Reporter struct {
	config Config
	writer io.Writer
	logger ports.Logger
}

func NewReporter(cfg Config, logger ports.Logger) (*Reporter, error) {
	if cfg.NoColor || !isTerminal(os.Stdout) {
		color.NoColor = true
	}
	return NewReporterWithWriter(cfg, logger, os.Stdout), nil
}

func NewReporterWithWriter(cfg Config, logger ports.Logger, w io.Writer) *Reporter {
	return &Reporter{
		config: cfg,
		writer: w,
		logger: logger,
	}
}

func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

func (r *Reporter) Report(ctx context.Context, summary domain.RunSummary) error {
	tw := tabwriter.NewWriter(r.writer, 0, 8, 2, ' ', 0)
	defer tw.Flush()

	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	magenta := color.New(color.FgMagenta).SprintFunc()

	fmt.Fprintln(tw, "Stack Drift Report")
	fmt.Fprintln(tw, "==================")
	if summary.AccountID != "" {
		fmt.Fprintf(tw, "Account:\t%s\n", summary.AccountID)
	}
	if summary.RunID != "" {
		fmt.Fprintf(tw, "Run:\t%s\n", summary.RunID)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Status\tRegion\tStack\tLast Checked")
	fmt.Fprintln(tw, "------\t------\t-----\t------------")

	var reports []domain.StackReport
	for _, rr := range summary.Regions {
		reports = append(reports, rr.Reports...)
	}
	sort.SliceStable(reports, func(i, j int) bool {
		if reports[i].Region != reports[j].Region {
			return reports[i].Region < reports[j].Region
		}
		return reports[i].StackName < reports[j].StackName
	})

	inSync := 0
	drifted := 0
	other := 0
	for _, rep := range reports {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var statusStr string
		switch rep.DriftStatus {
		case domain.DriftDrifted:
			drifted++
			statusStr = red("[DRIFTED]")
		case domain.DriftInSync:
			inSync++
			statusStr = green("[IN_SYNC]")
		default:
			other++
			statusStr = yellow("[" + rep.DriftStatus.String() + "]")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", statusStr, rep.Region, rep.StackName, formatTime(rep.LastChecked))
	}
	if len(reports) == 0 {
		fmt.Fprintln(tw, "No stacks reported.")
	}

	failed := 0
	incomplete := 0
	var regionErrors []string
	for _, rr := range summary.Regions {
		failed += len(rr.FailedStackIDs)
		incomplete += len(rr.IncompleteStackIDs)
		if rr.Err != nil {
			regionErrors = append(regionErrors, fmt.Sprintf("%s\t%s", magenta(rr.Region), rr.Err.Error()))
		}
	}

	fmt.Fprintln(tw, "\nSummary:")
	fmt.Fprintln(tw, "-------")
	fmt.Fprintf(tw, "Regions:\t%d\n", len(summary.Regions))
	fmt.Fprintf(tw, "Stacks Reported:\t%d\n", len(reports))
	fmt.Fprintf(tw, "In Sync:\t%s\n", green(inSync))
	fmt.Fprintf(tw, "Drifted:\t%s\n", red(drifted))
	fmt.Fprintf(tw, "Not Checked / Unknown:\t%s\n", yellow(other))
	fmt.Fprintf(tw, "Detection Failed:\t%s\n", magenta(failed))
	fmt.Fprintf(tw, "Detection Incomplete:\t%s\n", yellow(incomplete))

	if len(regionErrors) > 0 {
		fmt.Fprintln(tw, "\nFailed Regions:")
		fmt.Fprintln(tw, strings.Join(regionErrors, "\n"))
	}
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.UTC().Format(time.RFC3339)
}
