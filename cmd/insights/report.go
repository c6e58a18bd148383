package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dafibh/fortuna/insights-api/internal/analytics"
	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/dafibh/fortuna/insights-api/internal/service"
	"github.com/dafibh/fortuna/insights-api/internal/upstream"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Report kinds
const (
	kindDashboard = "dashboard"
	kindAnalytics = "analytics"
	kindBudgets   = "budgets"
)

type reportOptions struct {
	file        string
	upstreamURL string
	userID      string
	token       string
	currency    string
	kind        string
	rangeMonths int
	now         string
	timezone    string
	timeout     time.Duration
}

func reportCmd() *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute a dashboard, analytics or budgets report",
		Long: `Compute a report and print it as JSON.

Exactly one of --file (an exported {expenses, categories, budgets} document) or
--upstream (the expense backend base URL, with --user and --token) is required.`,
		Example: `  insights report --file export.json --kind analytics --range 3
  insights report --upstream https://api.example.com --user 42 --token $TOKEN`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "snapshot file to read")
	cmd.Flags().StringVar(&opts.upstreamURL, "upstream", "", "expense backend base URL")
	cmd.Flags().StringVar(&opts.userID, "user", "", "user id (with --upstream)")
	cmd.Flags().StringVar(&opts.token, "token", "", "bearer token (with --upstream)")
	cmd.Flags().StringVar(&opts.currency, "currency", "INR", "display currency")
	cmd.Flags().StringVar(&opts.kind, "kind", kindDashboard, "report kind (dashboard, analytics, budgets)")
	cmd.Flags().IntVar(&opts.rangeMonths, "range", domain.DefaultAnalyticsRange, "analytics range in months (1, 3, 6, 12)")
	cmd.Flags().StringVar(&opts.now, "now", "", "reference time, RFC 3339 or YYYY-MM-DD (default: current time)")
	cmd.Flags().StringVar(&opts.timezone, "tz", "UTC", "calendar time zone")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "upstream request timeout")

	cmd.MarkFlagsMutuallyExclusive("file", "upstream")
	cmd.MarkFlagsOneRequired("file", "upstream")

	return cmd
}

func runReport(cmd *cobra.Command, opts *reportOptions) error {
	switch opts.kind {
	case kindDashboard, kindBudgets:
	case kindAnalytics:
		if !domain.IsValidAnalyticsRange(opts.rangeMonths) {
			return fmt.Errorf("%w: %d (must be one of %v)", domain.ErrInvalidRange, opts.rangeMonths, domain.AnalyticsRanges)
		}
	default:
		return fmt.Errorf("unknown report kind %q", opts.kind)
	}

	loc, err := time.LoadLocation(opts.timezone)
	if err != nil {
		return fmt.Errorf("invalid time zone: %w", err)
	}
	now, err := parseNow(opts.now, loc)
	if err != nil {
		return err
	}

	engine := analytics.NewEngine(analytics.Options{
		Calendar: analytics.Calendar{Location: loc},
	})

	var report any
	if opts.file != "" {
		report, err = fileReport(engine, opts, loc, now)
	} else {
		report, err = upstreamReport(cmd, engine, opts, loc, now)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func fileReport(engine *analytics.Engine, opts *reportOptions, loc *time.Location, now time.Time) (any, error) {
	f, err := os.Open(opts.file)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	snapshot, err := upstream.ReadSnapshot(f, loc)
	if err != nil {
		return nil, err
	}
	snapshot.Budgets = upstream.BudgetsForMonth(snapshot.Budgets, now, loc)
	log.Debug().
		Int("expenses", len(snapshot.Expenses)).
		Int("categories", len(snapshot.Categories)).
		Int("budgets", len(snapshot.Budgets)).
		Msg("Snapshot loaded")

	switch opts.kind {
	case kindAnalytics:
		return engine.Analytics(snapshot, now, opts.rangeMonths), nil
	case kindBudgets:
		return engine.Budgets(snapshot, now), nil
	default:
		return engine.Dashboard(snapshot, now), nil
	}
}

func upstreamReport(cmd *cobra.Command, engine *analytics.Engine, opts *reportOptions, loc *time.Location, now time.Time) (any, error) {
	if opts.userID == "" || opts.token == "" {
		return nil, fmt.Errorf("--user and --token are required with --upstream")
	}

	client := upstream.NewClient(opts.upstreamURL, opts.timeout, upstream.WithLocation(loc))
	svc := service.NewInsightsService(client, engine, nil, nil)
	svc.SetClock(func() time.Time { return now })

	session := domain.Session{UserID: opts.userID, Currency: opts.currency, Token: opts.token}
	ctx := cmd.Context()

	switch opts.kind {
	case kindAnalytics:
		return svc.Analytics(ctx, session, opts.rangeMonths)
	case kindBudgets:
		return svc.Budgets(ctx, session)
	default:
		return svc.Dashboard(ctx, session)
	}
}

// parseNow reads the --now flag; an empty value means the current time
func parseNow(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Now().In(loc), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q: want RFC 3339 or YYYY-MM-DD", value)
	}
	return t, nil
}
