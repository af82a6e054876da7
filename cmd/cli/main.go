package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/iho/agentledger/internal/adapter/http/dto"
)

var (
	baseURL string
	timeout time.Duration
)

// errUnhealthy is returned when the consistency check reports problems.
var errUnhealthy = errors.New("ledger is not consistent")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "agentledger-cli",
		Short:         "AgentLedger CLI tool",
		Long:          `A command line interface for interacting with the AgentLedger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the AgentLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Ledger commands
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}
	ledgerCmd.AddCommand(consistencyCmd(), trialBalanceCmd())

	// Commission commands
	commissionCmd := &cobra.Command{
		Use:   "commission",
		Short: "Commission bulletin operations",
	}
	commissionCmd.AddCommand(importBulletinCmd(), previewCmd())

	rootCmd.AddCommand(ledgerCmd, commissionCmd)
	return rootCmd
}

func consistencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			var report dto.ConsistencyResponse
			status, err := newClient().get(cmd.Context(), "/api/v1/accounting/consistency", nil, &report, http.StatusConflict)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if status == http.StatusOK && report.Healthy {
				fmt.Fprintln(out, "Consistency check PASSED")
			} else {
				fmt.Fprintln(out, "Consistency check FAILED")
			}
			fmt.Fprintf(out, "Ledger consistent: %v\n", report.LedgerConsistent)
			fmt.Fprintf(out, "Balances reconciled: %d/%d\n", report.ReconciledBalances, report.TotalBalances)

			if len(report.Discrepancies) > 0 {
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ACCOUNT\tCURRENCY\tRECORDED\tCALCULATED\tDIFFERENCE")
				for _, d := range report.Discrepancies {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.AccountCode, d.Currency,
						d.RecordedBalance.StringFixed(2), d.CalculatedBalance.StringFixed(2), d.Difference.StringFixed(2))
				}
				tw.Flush()
			}

			if !report.Healthy {
				return errUnhealthy
			}
			return nil
		},
	}
}

func trialBalanceCmd() *cobra.Command {
	var currency, start, end string

	cmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Print the trial balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			setIf(q, "currency", currency)
			setIf(q, "start_date", start)
			setIf(q, "end_date", end)

			var tb dto.TrialBalanceResponse
			if _, err := newClient().get(cmd.Context(), "/api/v1/accounting/reports/trial-balance", q, &tb); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tNAME\tDEBIT\tCREDIT\tBALANCE")
			for _, row := range tb.Rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", row.Code, truncate(row.Name, 32),
					row.Debit.StringFixed(2), row.Credit.StringFixed(2), row.Balance.StringFixed(2))
			}
			fmt.Fprintf(tw, "\tTOTAL\t%s\t%s\t\n", tb.TotalDebit.StringFixed(2), tb.TotalCredit.StringFixed(2))
			tw.Flush()

			fmt.Fprintf(out, "Currency: %s  Balanced: %v\n", tb.Currency, tb.IsBalanced)
			return nil
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "", "Entry currency (server default when empty)")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD), inclusive")
	return cmd
}

func importBulletinCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace an agent bulletin from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadBulletin(args[0])
			if err != nil {
				return err
			}

			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d tiers for agent %s (%s) on %s are valid\n",
					args[0], len(req.Tiers), req.AgentID, req.Currency, req.Date)
				return nil
			}

			var bulletin dto.BulletinResponse
			if _, err := newClient().post(cmd.Context(), "/api/v1/commission/bulletins", req, &bulletin); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), bulletin)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the file without sending it")
	return cmd
}

// loadBulletin reads and validates a bulletin file.
func loadBulletin(path string) (*dto.ReplaceBulletinRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var req dto.ReplaceBulletinRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := dto.Validate(&req); err != nil {
		return nil, fmt.Errorf("invalid bulletin %s: %w", path, err)
	}
	if _, err := req.ToUseCaseInput(); err != nil {
		return nil, fmt.Errorf("invalid bulletin %s: %w", path, err)
	}

	return &req, nil
}

func previewCmd() *cobra.Command {
	var agentID, currency, amount, direction, governorate, country, asOf string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview the commission for a transfer",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("currency", currency)
			q.Set("amount", amount)
			setIf(q, "agent_id", agentID)
			setIf(q, "direction", direction)
			setIf(q, "to_governorate", governorate)
			setIf(q, "country", country)
			setIf(q, "as_of", asOf)

			var commission dto.CommissionResponse
			if _, err := newClient().get(cmd.Context(), "/api/v1/commission/calculate-preview", q, &commission); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), commission)
		},
	}

	cmd.Flags().StringVar(&agentID, "agent", "", "Agent ID")
	cmd.Flags().StringVar(&currency, "currency", "", "Transfer currency")
	cmd.Flags().StringVar(&amount, "amount", "", "Transfer amount")
	cmd.Flags().StringVar(&direction, "direction", "", "incoming or outgoing (default outgoing)")
	cmd.Flags().StringVar(&governorate, "to-governorate", "", "Destination governorate")
	cmd.Flags().StringVar(&country, "country", "", "Destination country")
	cmd.Flags().StringVar(&asOf, "as-of", "", "Bulletin date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("currency")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

type apiClient struct {
	baseURL string
	http    *http.Client
}

func newClient() *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *apiClient) get(ctx context.Context, path string, q url.Values, out any, allow ...int) (int, error) {
	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, err
	}
	return c.do(req, out, allow...)
}

func (c *apiClient) post(ctx context.Context, path string, body, out any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// do decodes the body into out. Statuses in allow are decoded like a success.
func (c *apiClient) do(req *http.Request, out any, allow ...int) (int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}

	if resp.StatusCode >= 300 && !slices.Contains(allow, resp.StatusCode) {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Message != "" {
				return resp.StatusCode, fmt.Errorf("%s (status %d): %s", apiErr.Error, resp.StatusCode, apiErr.Message)
			}
			return resp.StatusCode, fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return resp.StatusCode, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
	}
	return resp.StatusCode, nil
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
