package categorizer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"financeapp/statement-import/internal/models"
)

// Mapping associates a bag of case-insensitive substring keywords with a
// target category name and a confidence level. Mapping order is significant:
// the first mapping containing a matching keyword wins.
type Mapping struct {
	Keywords   []string `yaml:"keywords"`
	Target     string   `yaml:"target"`
	Suggestion string   `yaml:"suggestion"`
	Confidence string   `yaml:"confidence"`
}

// MappingsConfig is the structure of an optional mappings YAML file.
type MappingsConfig struct {
	Mappings []Mapping `yaml:"mappings"`
}

// LoadMappings reads a keyword mapping table from a YAML file, replacing the
// built-in table wholesale. Both the wrapped "mappings:" document shape and a
// bare top-level list are accepted.
func LoadMappings(path string) ([]Mapping, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- reading known config files
	if err != nil {
		return nil, fmt.Errorf("error reading mappings file: %w", err)
	}

	var config MappingsConfig
	if err := yaml.Unmarshal(data, &config); err == nil && len(config.Mappings) > 0 {
		return config.Mappings, nil
	}

	var mappings []Mapping
	if err := yaml.Unmarshal(data, &mappings); err != nil {
		return nil, fmt.Errorf("error parsing mappings file: %w", err)
	}
	if len(mappings) == 0 {
		return nil, fmt.Errorf("mappings file %s contains no mappings", path)
	}
	return mappings, nil
}

// DefaultMappings returns the built-in merchant keyword table. Callers may
// substitute their own table at construction; the table is never mutated.
func DefaultMappings() []Mapping {
	return []Mapping{
		{
			Keywords: []string{
				"tim hortons", "starbucks", "coffee", "cafe", "restaurant",
				"pizza", "burger", "mcdonald", "subway", "food", "dining",
				"kfc", "wendys", "chung",
			},
			Target:     "food",
			Suggestion: "Food",
			Confidence: models.ConfidenceHigh,
		},
		{
			Keywords: []string{
				"uber", "lyft", "taxi", "shell", "gas", "esso", "petro",
				"fuel", "parking", "transit", "bus",
			},
			Target:     "transport",
			Suggestion: "Transport",
			Confidence: models.ConfidenceHigh,
		},
		{
			Keywords: []string{
				"walmart", "amazon", "dollarama", "store", "shop", "mall",
				"retail", "costco", "target", "nayax", "vending", "jd sport",
			},
			Target:     "shopping",
			Suggestion: "Shopping",
			Confidence: models.ConfidenceHigh,
		},
		{
			Keywords: []string{
				"netflix", "spotify", "prime", "entertainment", "movie",
				"cinema", "theatre", "disney",
			},
			Target:     "entertainment",
			Suggestion: "Entertainment",
			Confidence: models.ConfidenceHigh,
		},
		{
			Keywords: []string{
				"insurance", "health", "medical", "doctor", "pharmacy",
				"prescription", "hospital", "clinic",
			},
			Target:     "health",
			Suggestion: "Healthcare",
			Confidence: models.ConfidenceHigh,
		},
		{
			Keywords: []string{
				"bell", "rogers", "telus", "hydro", "electric", "water",
				"utility", "internet", "phone", "cable",
			},
			Target:     "utilities",
			Suggestion: "Utilities",
			Confidence: models.ConfidenceHigh,
		},
		{
			Keywords: []string{
				"tuition", "school", "education", "course", "university",
				"college", "books",
			},
			Target:     "education",
			Suggestion: "Education",
			Confidence: models.ConfidenceHigh,
		},
		{
			Keywords:   []string{"rent", "mortgage", "housing", "landlord", "property"},
			Target:     "housing",
			Suggestion: "Housing",
			Confidence: models.ConfidenceHigh,
		},
		{
			Keywords:   []string{"gym", "fitness", "yoga", "sports", "recreation"},
			Target:     "fitness",
			Suggestion: "Fitness",
			Confidence: models.ConfidenceMedium,
		},
		{
			Keywords:   []string{"salon", "haircut", "spa", "beauty", "nail"},
			Target:     "personal care",
			Suggestion: "Personal Care",
			Confidence: models.ConfidenceMedium,
		},
	}
}
