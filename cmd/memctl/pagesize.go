package main

import (
	"github.com/joshuapare/memkit/bytesize"
	"github.com/joshuapare/memkit/mem"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newPageSizeCmd())
}

func newPageSizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pagesize",
		Short: "Print the operating system page size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPageSize()
		},
	}
}

type pageSizeReport struct {
	Bytes int    `json:"bytes"`
	Human string `json:"human"`
}

func runPageSize() error {
	n := mem.PageSize()
	report := pageSizeReport{Bytes: n, Human: bytesize.Size(n).String()}
	if jsonOut {
		return printJSON(report)
	}
	printInfo("%d\n", report.Bytes)
	printVerbose("  (%s)\n", report.Human)
	return nil
}
