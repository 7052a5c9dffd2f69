// Package common holds the convert flow shared by the pdf and xlsx commands.
package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"financeapp/statement-import/internal/categorizer"
	"financeapp/statement-import/internal/config"
	"financeapp/statement-import/internal/logging"
	"financeapp/statement-import/internal/models"
	"financeapp/statement-import/internal/pdfparser"
	"financeapp/statement-import/internal/session"
	"financeapp/statement-import/internal/store"
	"financeapp/statement-import/internal/xlsxparser"
)

// draftRow is the CSV projection of one draft transaction written to the
// --output file for review outside the tool.
type draftRow struct {
	Date          string `csv:"date"`
	Note          string `csv:"note"`
	Amount        string `csv:"amount"`
	Type          string `csv:"type"`
	CategoryID    string `csv:"category_id"`
	SuggestedName string `csv:"suggested_name"`
	Confidence    string `csv:"confidence"`
	NeedsReview   bool   `csv:"needs_review"`
	DateGuessed   bool   `csv:"date_guessed"`
}

// RunImport executes one extract-and-optionally-commit flow for the given
// source. It builds the full pipeline from configuration.
func RunImport(cmd *cobra.Command, source session.Source, input, output string, commit bool, cfg *config.Config, logger logging.Logger) error {
	if input == "" {
		return fmt.Errorf("an input file is required (use --input)")
	}

	var catOpts []categorizer.Option
	if cfg.AI.Enabled {
		client, err := categorizer.NewGeminiClient(cmd.Context(), cfg.AI.APIKey, cfg.AI.Model, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize AI categorization: %w", err)
		}
		defer func() {
			if err := client.Close(); err != nil {
				logger.WithError(err).Warn("Failed to close AI client")
			}
		}()
		catOpts = append(catOpts, categorizer.WithAIClient(client))
	}
	var mappings []categorizer.Mapping
	if cfg.Categorizer.MappingsFile != "" {
		loaded, err := categorizer.LoadMappings(cfg.Categorizer.MappingsFile)
		if err != nil {
			return fmt.Errorf("failed to load keyword mappings: %w", err)
		}
		mappings = loaded
		logger.Info("Loaded custom keyword mappings",
			logging.Field{Key: "file", Value: cfg.Categorizer.MappingsFile},
			logging.Field{Key: "count", Value: len(mappings)})
	}
	cat := categorizer.New(mappings, logger, catOpts...)

	st := store.NewFileStore(cfg.Data.Directory, logger)
	sess := session.New(st, logger,
		session.WithPDFParser(pdfparser.New(cat, logger,
			pdfparser.WithMinLineLength(cfg.Parsers.PDF.MinLineLength),
			pdfparser.WithTransfersAsExpense(cfg.Parsers.PDF.TransfersAsExpense))),
		session.WithXLSXParser(xlsxparser.New(cat, logger)),
	)

	file, err := os.Open(input) // #nosec G304 -- opening the user-supplied statement
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close input file")
		}
	}()

	summary, err := sess.Extract(cmd.Context(), file, source)
	if err != nil {
		return err
	}
	logger.WithFields(
		logging.Field{Key: "total", Value: summary.Total},
		logging.Field{Key: "ready", Value: summary.ReadyCount},
		logging.Field{Key: "needs_review", Value: summary.NeedsReviewCount},
		logging.Field{Key: "guessed_dates", Value: summary.GuessedDateCount},
		logging.Field{Key: "net_amount", Value: summary.NetAmount.StringFixed(2)},
	).Info("Extraction summary")

	if output != "" {
		if err := writeDraftsCSV(sess.Ledger().Entries(), output); err != nil {
			return err
		}
		logger.Info("Wrote draft transactions",
			logging.Field{Key: "file", Value: output})
	}

	if commit {
		count, err := sess.Commit()
		if err != nil {
			return err
		}
		logger.Info("Committed transactions",
			logging.Field{Key: "count", Value: count})
	}
	return nil
}

func writeDraftsCSV(drafts []models.DraftTransaction, output string) error {
	rows := make([]draftRow, 0, len(drafts))
	for _, d := range drafts {
		rows = append(rows, draftRow{
			Date:          d.Date,
			Note:          d.Note,
			Amount:        d.Amount.StringFixed(2),
			Type:          d.Type,
			CategoryID:    d.CategoryID,
			SuggestedName: d.SuggestedName,
			Confidence:    d.Confidence,
			NeedsReview:   d.NeedsReview,
			DateGuessed:   d.DateGuessed,
		})
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}
	file, err := os.Create(output) // #nosec G304 -- creating the user-requested output
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := gocsv.Marshal(rows, file); err != nil {
		return fmt.Errorf("error writing draft transactions: %w", err)
	}
	return nil
}
