package main

import (
	"os"

	"financeapp/statement-import/cmd/pdf"
	"financeapp/statement-import/cmd/root"
	"financeapp/statement-import/cmd/xlsx"
)

func init() {
	root.Init()
	root.Cmd.AddCommand(pdf.Cmd)
	root.Cmd.AddCommand(xlsx.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
