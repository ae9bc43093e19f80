package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

var (
	weightClass  string
	organization string
	fighterID    string
	fighterIDs   []string
	fromDate     string
	toDate       string
	atDate       string
	dryRun       bool
)

func init() {
	rankingsCmd.Flags().StringVar(&weightClass, "weight-class", "", "Weight class of the ranking pool (required)")
	rankingsCmd.Flags().StringVar(&organization, "org", "", "Organization; omit for the cross-organization pool")
	rankingsCmd.MarkFlagRequired("weight-class")

	historyCmd.Flags().StringVar(&weightClass, "weight-class", "", "Weight class of the ranking pool (required)")
	historyCmd.Flags().StringVar(&organization, "org", "", "Organization; omit for the cross-organization pool")
	historyCmd.Flags().StringVar(&fighterID, "fighter", "", "Fighter id for a point-in-time rank lookup")
	historyCmd.Flags().StringVar(&atDate, "date", "", "Date (YYYY-MM-DD) for the point-in-time lookup")
	historyCmd.Flags().StringVar(&fromDate, "from", "", "Range start (YYYY-MM-DD)")
	historyCmd.Flags().StringVar(&toDate, "to", "", "Range end (YYYY-MM-DD)")
	historyCmd.MarkFlagRequired("weight-class")

	statsCmd.Flags().StringVar(&fighterID, "fighter", "", "Fighter id (required)")
	statsCmd.MarkFlagRequired("fighter")

	compareCmd.Flags().StringSliceVar(&fighterIDs, "fighters", nil, "Comma-separated fighter ids (at least two)")
	compareCmd.MarkFlagRequired("fighters")

	recalculateCmd.Flags().StringVar(&weightClass, "weight-class", "", "Limit the recompute to one ranking pool")
	recalculateCmd.Flags().StringVar(&organization, "org", "", "Organization; omit for the cross-organization pool")
	recalculateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute without committing")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(rankingsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(p4pCmd)
	rootCmd.AddCommand(championsCmd)
	rootCmd.AddCommand(recalculateCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health", nil)
	},
}

var rankingsCmd = &cobra.Command{
	Use:   "rankings",
	Short: "Show the current ranking set for a pool",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/rankings", url.Values{
			"weight_class": {weightClass},
			"organization": {organization},
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the snapshot history for a pool, or one fighter's rank at a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{
			"weight_class": {weightClass},
			"organization": {organization},
		}
		if fighterID != "" {
			params.Set("fighter_id", fighterID)
			params.Set("date", atDate)
		}
		if fromDate != "" {
			params.Set("from", fromDate)
		}
		if toDate != "" {
			params.Set("to", toDate)
		}
		return performGetRequest("/rankings/history", params)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the computed statistics for a fighter",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/stats", url.Values{"fighter_id": {fighterID}})
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the statistics of two or more fighters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/compare", url.Values{
			"fighter_ids": {strings.Join(fighterIDs, ",")},
		})
	},
}

var p4pCmd = &cobra.Command{
	Use:   "p4p",
	Short: "Show the pound-for-pound rankings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/p4p", nil)
	},
}

var championsCmd = &cobra.Command{
	Use:   "champions",
	Short: "List the current and interim champions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/champions", nil)
	},
}

var recalculateCmd = &cobra.Command{
	Use:   "recalculate",
	Short: "Trigger a full recompute, for one pool or for everything",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{}
		if weightClass != "" {
			params.Set("weight_class", weightClass)
			params.Set("organization", organization)
		}
		if dryRun {
			params.Set("dry_run", "true")
		}
		return performPostRequest("/recalculate", params)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics", nil)
	},
}

func performGetRequest(endpoint string, params url.Values) error {
	reqURL := host + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	fmt.Printf("Making request to %s\n", reqURL)

	resp, err := http.Get(reqURL)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string, params url.Values) error {
	reqURL := host + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	fmt.Printf("Making request to %s\n", reqURL)

	resp, err := http.Post(reqURL, "application/json", nil)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
