// Package store provides the external persistence collaborators of the
// import pipeline: read-only reference data (categories, accounts) loaded
// from YAML, and the bulk transaction sink, an append-only CSV file.
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"financeapp/statement-import/internal/logging"
	"financeapp/statement-import/internal/models"
)

// Store is what the import session needs from persistence. The reference
// data is read-only; BulkInsertTransactions is all-or-nothing.
type Store interface {
	ListCategories() ([]models.Category, error)
	ListAccounts() ([]models.Account, error)
	BulkInsertTransactions(transactions []models.CanonicalTransaction) error
}

// categoriesConfig is the top-level shape of categories.yaml.
type categoriesConfig struct {
	Categories []models.Category `yaml:"categories"`
}

// accountsConfig is the top-level shape of accounts.yaml.
type accountsConfig struct {
	Accounts []models.Account `yaml:"accounts"`
}

// FileStore reads reference data from YAML files and appends committed
// transactions to a CSV file under the data directory.
type FileStore struct {
	CategoriesFile   string
	AccountsFile     string
	TransactionsFile string

	logger logging.Logger
}

// NewFileStore creates a FileStore rooted at dataDir. Empty file names fall
// back to the defaults under that directory.
func NewFileStore(dataDir string, logger logging.Logger) *FileStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if dataDir == "" {
		dataDir = "data"
	}
	return &FileStore{
		CategoriesFile:   filepath.Join(dataDir, "categories.yaml"),
		AccountsFile:     filepath.Join(dataDir, "accounts.yaml"),
		TransactionsFile: filepath.Join(dataDir, "transactions.csv"),
		logger:           logger.WithField("component", "store"),
	}
}

// FindConfigFile looks for a configuration file in standard locations:
// the path as given, the current directory, ./config/, and the user's
// ~/.config/statement-import/ directory.
func (s *FileStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Base(filename),
		filepath.Join("config", filepath.Base(filename)),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		configPath := filepath.Join(homeDir, ".config", "statement-import", filepath.Base(filename))
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// ListCategories loads the category tree from YAML. A missing file is not an
// error; it yields an empty list so parsing still works, just uncategorized.
func (s *FileStore) ListCategories() ([]models.Category, error) {
	filePath, err := s.FindConfigFile(s.CategoriesFile)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("Categories file not found",
				logging.Field{Key: "file", Value: s.CategoriesFile})
			return []models.Category{}, nil
		}
		return nil, fmt.Errorf("error resolving categories file: %w", err)
	}

	data, err := os.ReadFile(filePath) // #nosec G304 -- reading known config files
	if err != nil {
		return nil, fmt.Errorf("error reading categories file: %w", err)
	}

	var config categoriesConfig
	if err := yaml.Unmarshal(data, &config); err == nil && len(config.Categories) > 0 {
		s.logger.Debug("Loaded categories",
			logging.Field{Key: "count", Value: len(config.Categories)},
			logging.Field{Key: "file", Value: filePath})
		return config.Categories, nil
	}

	// Fallback: a bare top-level list without the "categories:" key.
	var categories []models.Category
	if err := yaml.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("error parsing categories file: %w", err)
	}
	return categories, nil
}

// ListAccounts loads the account list from YAML. Like categories, a missing
// file yields an empty list.
func (s *FileStore) ListAccounts() ([]models.Account, error) {
	filePath, err := s.FindConfigFile(s.AccountsFile)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("Accounts file not found",
				logging.Field{Key: "file", Value: s.AccountsFile})
			return []models.Account{}, nil
		}
		return nil, fmt.Errorf("error resolving accounts file: %w", err)
	}

	data, err := os.ReadFile(filePath) // #nosec G304 -- reading known config files
	if err != nil {
		return nil, fmt.Errorf("error reading accounts file: %w", err)
	}

	var config accountsConfig
	if err := yaml.Unmarshal(data, &config); err == nil && len(config.Accounts) > 0 {
		return config.Accounts, nil
	}

	var accounts []models.Account
	if err := yaml.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("error parsing accounts file: %w", err)
	}
	return accounts, nil
}

// BulkInsertTransactions appends the batch to the transactions CSV file. The
// batch is written to a temporary file in the same directory and renamed into
// place so a failure partway through never leaves a half-written batch.
func (s *FileStore) BulkInsertTransactions(transactions []models.CanonicalTransaction) error {
	if transactions == nil {
		return fmt.Errorf("cannot insert nil transactions")
	}

	dir := filepath.Dir(s.TransactionsFile)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("error creating data directory: %w", err)
	}

	existing, err := s.readExisting()
	if err != nil {
		return err
	}
	combined := append(existing, transactions...)

	tempFile, err := os.CreateTemp(dir, "transactions-*.csv")
	if err != nil {
		return fmt.Errorf("error creating temporary transactions file: %w", err)
	}
	tempName := tempFile.Name()

	csvWriter := csv.NewWriter(tempFile)
	if err := gocsv.MarshalCSV(combined, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempName)
		return fmt.Errorf("error writing transactions: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempName)
		return fmt.Errorf("error closing temporary transactions file: %w", err)
	}
	if err := os.Rename(tempName, s.TransactionsFile); err != nil {
		_ = os.Remove(tempName)
		return fmt.Errorf("error replacing transactions file: %w", err)
	}

	s.logger.Info("Inserted transactions",
		logging.Field{Key: "count", Value: len(transactions)},
		logging.Field{Key: "file", Value: s.TransactionsFile})
	return nil
}

func (s *FileStore) readExisting() ([]models.CanonicalTransaction, error) {
	file, err := os.Open(s.TransactionsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error opening transactions file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close transactions file")
		}
	}()

	var existing []models.CanonicalTransaction
	if err := gocsv.UnmarshalFile(file, &existing); err != nil {
		return nil, fmt.Errorf("error parsing transactions file: %w", err)
	}
	return existing, nil
}
