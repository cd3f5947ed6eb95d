package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/clearsignal/intel-cli/internal/model"
)

var (
	queryText     string
	querySubject  string
	queryDomain   string
	queryCategory string
	queryRecency  string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run one intelligence query and print the envelope as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		env := initPipeline(cfg)

		req := model.IntelligenceRequest{
			Query:          queryText,
			SubjectName:    querySubject,
			DomainContext:  queryDomain,
			SearchCategory: model.SearchCategory(queryCategory),
			RecencyWindow:  model.RecencyWindow(queryRecency),
		}

		envelope, err := env.Pipeline.Run(cmd.Context(), req)
		if err != nil {
			return eris.Wrap(err, "run query")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(envelope)
	},
}

func init() {
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "free-text intelligence question (required)")
	queryCmd.Flags().StringVarP(&querySubject, "subject", "s", "", "company or entity under analysis (required)")
	queryCmd.Flags().StringVarP(&queryDomain, "domain", "d", "", "industry or sector context")
	queryCmd.Flags().StringVar(&queryCategory, "category", "news", "search category (news|financial|competitive|market|regulatory)")
	queryCmd.Flags().StringVar(&queryRecency, "recency", "week", "recency window (hour|day|week|month|quarter)")
	_ = queryCmd.MarkFlagRequired("query")
	_ = queryCmd.MarkFlagRequired("subject")
	rootCmd.AddCommand(queryCmd)
}
