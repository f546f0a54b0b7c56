package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/goloan/internal/domain"
	"github.com/iho/goloan/internal/infrastructure/auth"
	"github.com/iho/goloan/internal/infrastructure/postgres"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	baseURL string
	token   string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "goloan-cli",
		Short:         "GoLoan CLI tool",
		Long:          `A command line interface for previewing loan schedules and interacting with the GoLoan API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the GoLoan API")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("GOLOAN_TOKEN"), "Bearer token for the API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		newScheduleCmd(),
		newLoanCmd(opts),
		newTokenCmd(),
		newMigrateCmd(),
	)
	return rootCmd
}

func newScheduleCmd() *cobra.Command {
	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Compute payment schedules locally",
	}

	var (
		principal, rate, cadence, start string
		installments                    int
	)

	amortizationCmd := &cobra.Command{
		Use:   "amortization",
		Short: "Print a fixed-payment amortization table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, r, startDate, err := parseScheduleFlags(principal, rate, start)
			if err != nil {
				return err
			}
			schedule, err := domain.GenerateAmortizationSchedule(p, r, installments, domain.Cadence(cadence), startDate)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Payment: %s  Total paid: %s\n", schedule.Payment, schedule.TotalPaid)
			if schedule.HasDiscrepancy() {
				fmt.Fprintf(out, "Rounding discrepancy: %s\n", schedule.Discrepancy())
			}
			return printRows(out, schedule.Rows)
		},
	}
	amortizationCmd.Flags().StringVar(&principal, "principal", "", "Loan principal, e.g. 10000.00")
	amortizationCmd.Flags().StringVar(&rate, "rate", "", "Annual interest rate as a percentage, e.g. 12")
	amortizationCmd.Flags().IntVar(&installments, "installments", 12, "Number of installments")
	amortizationCmd.Flags().StringVar(&cadence, "cadence", string(domain.CadenceMonthly), "weekly, biweekly or monthly")
	amortizationCmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")

	var (
		ioPrincipal, ioRate, ioCadence, ioStart string
		periods                                 int
	)

	interestOnlyCmd := &cobra.Command{
		Use:   "interest-only",
		Short: "Print an interest-only projection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, r, startDate, err := parseScheduleFlags(ioPrincipal, ioRate, ioStart)
			if err != nil {
				return err
			}
			rows, err := domain.GenerateInterestOnlySchedule(domain.InterestOnlyParams{
				StartDate:   startDate,
				MonthlyRate: r,
				Cadence:     domain.Cadence(ioCadence),
				Principal:   p,
				Periods:     periods,
			})
			if err != nil {
				return err
			}
			return printRows(cmd.OutOrStdout(), rows)
		},
	}
	interestOnlyCmd.Flags().StringVar(&ioPrincipal, "principal", "", "Outstanding principal")
	interestOnlyCmd.Flags().StringVar(&ioRate, "rate", "", "Monthly interest rate as a percentage, e.g. 5")
	interestOnlyCmd.Flags().IntVar(&periods, "periods", domain.DefaultHorizon, "Number of periods to project")
	interestOnlyCmd.Flags().StringVar(&ioCadence, "cadence", string(domain.CadenceMonthly), "weekly, biweekly, monthly or indefinite")
	interestOnlyCmd.Flags().StringVar(&ioStart, "start", "", "Start date (YYYY-MM-DD)")

	scheduleCmd.AddCommand(amortizationCmd, interestOnlyCmd)
	return scheduleCmd
}

func parseScheduleFlags(principal, rate, start string) (domain.Cents, domain.Rate, time.Time, error) {
	p, err := domain.ParseCents(principal)
	if err != nil {
		return 0, domain.Rate{}, time.Time{}, fmt.Errorf("--principal: %w", err)
	}
	r, err := domain.ParseRate(rate, domain.RatePercent)
	if err != nil {
		return 0, domain.Rate{}, time.Time{}, fmt.Errorf("--rate: %w", err)
	}
	startDate, err := domain.ParseDate(start)
	if err != nil {
		return 0, domain.Rate{}, time.Time{}, fmt.Errorf("--start: %w", err)
	}
	return p, r, startDate, nil
}

func printRows(out io.Writer, rows []domain.ScheduleRow) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "#\tDue\tOpening\tPrincipal\tInterest\tTotal\tClosing\t")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.Number, r.DueDate.Format(domain.DateLayout),
			r.OpeningBalance, r.Principal, r.Interest, r.Total, r.ClosingBalance)
	}
	return w.Flush()
}

func newLoanCmd(opts *options) *cobra.Command {
	loanCmd := &cobra.Command{
		Use:   "loan",
		Short: "Loan operations",
	}

	verifyCmd := &cobra.Command{
		Use:   "verify <loan-id>",
		Short: "Check a loan's stored schedule for inconsistencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return verifyLoan(cmd.OutOrStdout(), opts, args[0])
		},
	}

	loanCmd.AddCommand(verifyCmd)
	return loanCmd
}

type scheduleReport struct {
	LoanID     string             `json:"loan_id"`
	Rows       int                `json:"rows"`
	Consistent bool               `json:"consistent"`
	Violations []domain.Violation `json:"violations"`
}

func verifyLoan(out io.Writer, opts *options, loanID string) error {
	req, err := http.NewRequest(http.MethodGet,
		strings.TrimRight(opts.baseURL, "/")+"/api/v1/loans/"+loanID+"/schedule/verify", nil)
	if err != nil {
		return err
	}
	if opts.token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.token)
	}

	client := &http.Client{Timeout: opts.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("verification request failed (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var report scheduleReport
	if err := json.Unmarshal(body, &report); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if report.Consistent {
		fmt.Fprintf(out, "Schedule check PASSED (%d rows)\n", report.Rows)
		return nil
	}

	fmt.Fprintf(out, "Schedule check FAILED (%d rows)\n", report.Rows)
	for _, v := range report.Violations {
		fmt.Fprintf(out, "  #%d %s: %s\n", v.Number, v.Rule, v.Message)
	}
	return fmt.Errorf("loan %s has %d schedule violations", report.LoanID, len(report.Violations))
}

func newTokenCmd() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Bearer token utilities",
	}

	var (
		secret, subject, role string
		ttl                   time.Duration
	)

	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Sign a token with the server's JWT secret",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				return fmt.Errorf("--secret or JWT_SECRET is required")
			}
			token, err := auth.NewJWTManager(secret, ttl).Generate(subject, domain.Role(role))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	issueCmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "JWT signing secret")
	issueCmd.Flags().StringVar(&subject, "subject", "", "Token subject")
	issueCmd.Flags().StringVar(&role, "role", string(domain.RoleViewer), "admin, operator or viewer")
	issueCmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")

	tokenCmd.AddCommand(issueCmd)
	return tokenCmd
}

// migrate is swapped in tests.
var migrate = struct {
	up   func(databaseURL, path string) error
	down func(databaseURL, path string) error
}{
	up:   postgres.RunMigrations,
	down: postgres.RunMigrationsDown,
}

func newMigrateCmd() *cobra.Command {
	var databaseURL, path string

	migrateCmd := &cobra.Command{
		Use:       "migrate <up|down>",
		Short:     "Apply or roll back database migrations",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				return fmt.Errorf("--database-url or DATABASE_URL is required")
			}
			var run func(string, string) error
			switch args[0] {
			case "up":
				run = migrate.up
			case "down":
				run = migrate.down
			default:
				return fmt.Errorf("unknown direction %q", args[0])
			}
			if err := run(databaseURL, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations %s: done\n", args[0])
			return nil
		},
	}
	migrateCmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	migrateCmd.Flags().StringVar(&path, "path", "migrations", "Directory holding migration files")

	return migrateCmd
}
