package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/time/rate"

	"github.com/shpitdev/tin-verification-pipeline/internal/config"
	"github.com/shpitdev/tin-verification-pipeline/internal/input"
	"github.com/shpitdev/tin-verification-pipeline/internal/results"
	"github.com/shpitdev/tin-verification-pipeline/internal/util"
	"github.com/shpitdev/tin-verification-pipeline/internal/vouched"
)

// Summary reports the per-run totals printed after the batch completes.
type Summary struct {
	Total       int
	Succeeded   int
	Failed      int
	ResultsPath string
	RawLogPath  string
	// XLSXPath is empty when the spreadsheet export is disabled.
	XLSXPath string
}

// Run executes the whole batch: validate configuration, load the input table,
// verify each row strictly sequentially, merge outcomes, persist outputs.
//
// Per-record failures are captured into that row's outcome and never abort the
// batch. Configuration, input-format, and persistence failures are fatal and
// returned for the caller to log and exit non-zero.
func Run(ctx context.Context, cfg config.Config, logger *log.Logger) (Summary, error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}
	if strings.TrimSpace(cfg.CallbackURL) == "" {
		logger.Printf("warning: CALLBACK_URL is not set; verification callbacks will not be delivered")
	}

	table, err := input.Load(cfg.InputPath)
	if err != nil {
		return Summary{}, fmt.Errorf("load input %q: %w", cfg.InputPath, err)
	}
	logger.Printf("loaded %d record(s) from %s", table.Len(), cfg.InputPath)

	blanks := table.MissingValueRows()
	for _, col := range input.RequiredColumns {
		if rows := blanks[col]; len(rows) > 0 {
			logger.Printf("warning: column %q is blank in %d row(s)", col, len(rows))
		}
	}

	client := vouched.NewClient(cfg)

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), 1)
	}

	// One request at a time, awaited to completion before the next row begins.
	outcomes := make([]vouched.Outcome, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return Summary{}, err
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return Summary{}, err
			}
		}

		outcome := client.Verify(ctx, table.Record(i))
		logger.Printf("row=%d status=%s success=%t", i, formatStatus(outcome.StatusCode), outcome.Success)
		outcomes = append(outcomes, outcome)
	}

	merged, err := results.Build(table, outcomes)
	if err != nil {
		return Summary{}, err
	}

	if err := results.Save(merged, outcomes, cfg.ResultsPath, cfg.RawLogPath); err != nil {
		logger.Printf("persist outputs: %s", util.RedactSecrets(err.Error()))
		return Summary{}, err
	}

	if strings.TrimSpace(cfg.XLSXPath) != "" {
		if err := results.WriteXLSX(cfg.XLSXPath, merged); err != nil {
			logger.Printf("persist xlsx export: %s", util.RedactSecrets(err.Error()))
			return Summary{}, err
		}
	}

	summary := Summary{
		Total:       len(outcomes),
		ResultsPath: cfg.ResultsPath,
		RawLogPath:  cfg.RawLogPath,
		XLSXPath:    strings.TrimSpace(cfg.XLSXPath),
	}
	for _, o := range outcomes {
		if o.Success {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}

	logger.Printf("run complete: total=%d ok=%d failed=%d", summary.Total, summary.Succeeded, summary.Failed)
	return summary, nil
}

func formatStatus(code *int) string {
	if code == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *code)
}
