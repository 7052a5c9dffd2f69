// Package xlsx handles spreadsheet statement import commands.
package xlsx

import (
	"github.com/spf13/cobra"

	"financeapp/statement-import/cmd/common"
	"financeapp/statement-import/cmd/root"
	"financeapp/statement-import/internal/session"
)

// Cmd represents the xlsx command.
var Cmd = &cobra.Command{
	Use:   "xlsx",
	Short: "Import an XLSX bank statement export",
	Long: `Extract transactions from a spreadsheet bank statement export,
categorize them, and optionally commit the eligible set to the store.`,
	RunE: xlsxFunc,
}

func xlsxFunc(cmd *cobra.Command, args []string) error {
	root.Log.Info("XLSX import command called")
	return common.RunImport(cmd, session.SourceXLSX,
		root.SharedFlags.Input, root.SharedFlags.Output, root.SharedFlags.Commit,
		root.Cfg, root.Log)
}
