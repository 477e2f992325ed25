package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bookkeeper-cli",
		Short: "Bookkeeper CLI tool",
		Long:  `A command line interface for interacting with the Bookkeeper API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Bookkeeper API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(accountsCmd(), transactionsCmd(), ledgerCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Chart of accounts operations",
	}

	var accountType string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Run: func(cmd *cobra.Command, args []string) {
			path := "/api/v1/accounts"
			if accountType != "" {
				path += "?type=" + accountType
			}
			doRequest(http.MethodGet, path, nil)
		},
	}
	listCmd.Flags().StringVar(&accountType, "type", "", "Filter by account type")

	var code, name, acctType, parent string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Run: func(cmd *cobra.Command, args []string) {
			payload := map[string]any{"code": code, "name": name, "type": acctType}
			if parent != "" {
				payload["parent_code"] = parent
			}
			doRequest(http.MethodPost, "/api/v1/accounts", payload)
		},
	}
	createCmd.Flags().StringVar(&code, "code", "", "Account code")
	createCmd.Flags().StringVar(&name, "name", "", "Account name")
	createCmd.Flags().StringVar(&acctType, "type", "", "Account type (asset, liability, equity, revenue, expense)")
	createCmd.Flags().StringVar(&parent, "parent", "", "Parent account code")
	_ = createCmd.MarkFlagRequired("code")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("type")

	var asOf string
	balanceCmd := &cobra.Command{
		Use:   "balance [code]",
		Short: "Show the derived balance of an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := "/api/v1/accounts/" + args[0] + "/balance"
			if asOf != "" {
				path += "?as_of=" + asOf
			}
			doRequest(http.MethodGet, path, nil)
		},
	}
	balanceCmd.Flags().StringVar(&asOf, "as-of", "", "Balance as of this RFC3339 time")

	getCmd := &cobra.Command{
		Use:   "get [code]",
		Short: "Show an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/accounts/"+args[0], nil)
		},
	}

	cmd.AddCommand(listCmd, createCmd, balanceCmd, getCmd)
	return cmd
}

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Transaction operations",
	}

	var status string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Run: func(cmd *cobra.Command, args []string) {
			path := "/api/v1/transactions"
			if status != "" {
				path += "?status=" + status
			}
			doRequest(http.MethodGet, path, nil)
		},
	}
	listCmd.Flags().StringVar(&status, "status", "", "Filter by status (draft, pending, posted, cancelled)")

	getCmd := &cobra.Command{
		Use:   "get [reference]",
		Short: "Show a transaction with its entries",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/transactions/"+args[0], nil)
		},
	}

	for _, op := range []struct {
		use   string
		short string
	}{
		{"submit", "Submit a draft transaction for posting"},
		{"post", "Post a pending transaction"},
		{"cancel", "Cancel a draft or pending transaction"},
	} {
		op := op
		cmd.AddCommand(&cobra.Command{
			Use:   op.use + " [reference]",
			Short: op.short,
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				doRequest(http.MethodPost, "/api/v1/transactions/"+args[0]+"/"+op.use, nil)
			},
		})
	}

	cmd.AddCommand(listCmd, getCmd)
	return cmd
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "dashboard",
			Short: "Show per-type totals and net income",
			Run: func(cmd *cobra.Command, args []string) {
				doRequest(http.MethodGet, "/api/v1/ledger/dashboard", nil)
			},
		},
		&cobra.Command{
			Use:   "summary",
			Short: "Show chart of accounts summary",
			Run: func(cmd *cobra.Command, args []string) {
				doRequest(http.MethodGet, "/api/v1/ledger/summary", nil)
			},
		},
		&cobra.Command{
			Use:   "consistency",
			Short: "Check ledger consistency",
			Run: func(cmd *cobra.Command, args []string) {
				checkConsistency()
			},
		},
	)

	return cmd
}

func doRequest(method, path string, payload any) {
	client := &http.Client{Timeout: timeout}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			fmt.Printf("Failed to encode request: %v\n", err)
			os.Exit(1)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		fmt.Printf("Failed to build request: %v\n", err)
		os.Exit(1)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(respBody))
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, respBody, "", "  "); err != nil {
		fmt.Println(string(respBody))
		return
	}
	fmt.Println(pretty.String())
}

func checkConsistency() {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/ledger/consistency")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Consistency check FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if consistent, ok := result["consistent"].(bool); ok && !consistent {
		fmt.Printf("Consistency check FAILED\nResponse: %s\n", string(body))
		os.Exit(1)
	}

	fmt.Printf("Consistency check PASSED\n")
}
