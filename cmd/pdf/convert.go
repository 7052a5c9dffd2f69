// Package pdf handles PDF statement import commands.
package pdf

import (
	"github.com/spf13/cobra"

	"financeapp/statement-import/cmd/common"
	"financeapp/statement-import/cmd/root"
	"financeapp/statement-import/internal/session"
)

// Cmd represents the pdf command.
var Cmd = &cobra.Command{
	Use:   "pdf",
	Short: "Import a PDF bank statement",
	Long: `Extract transactions from a text-based PDF bank statement,
categorize them, and optionally commit the eligible set to the store.`,
	RunE: pdfFunc,
}

func pdfFunc(cmd *cobra.Command, args []string) error {
	root.Log.Info("PDF import command called")
	return common.RunImport(cmd, session.SourcePDF,
		root.SharedFlags.Input, root.SharedFlags.Output, root.SharedFlags.Commit,
		root.Cfg, root.Log)
}
