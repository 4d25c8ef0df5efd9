// Package store provides persistence for the ledger: a key-value layer,
// the repository that maps state onto it, and the category seed file.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"fjacquet/ledgerdash/internal/logging"
	"fjacquet/ledgerdash/internal/models"

	"gopkg.in/yaml.v3"
)

// DefaultCategoriesFile is the seed file looked up when none is configured.
const DefaultCategoriesFile = "categories.yaml"

// CategoryStore loads and saves the YAML category seed.
type CategoryStore struct {
	CategoriesFile string
	log            logging.Logger
}

// NewCategoryStore creates a store for the given seed file.
func NewCategoryStore(categoriesFile string, log logging.Logger) *CategoryStore {
	if log == nil {
		log = logging.Nop()
	}
	return &CategoryStore{CategoriesFile: categoriesFile, log: log}
}

// categoriesDocument is the canonical seed layout: "categories: [...]".
type categoriesDocument struct {
	Categories []models.Category `yaml:"categories"`
}

// FindConfigFile looks for a configuration file in standard locations
func (s *CategoryStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join("database", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "ledgerdash", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

func (s *CategoryStore) filename() string {
	if s.CategoriesFile == "" {
		return DefaultCategoriesFile
	}
	return s.CategoriesFile
}

// LoadCategories reads the seed. A missing file yields an empty slice.
func (s *CategoryStore) LoadCategories() ([]models.Category, error) {
	filename := s.filename()
	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Debug("category seed not found", logging.F(logging.FieldFile, filename))
			return []models.Category{}, nil
		}
		return nil, fmt.Errorf("error resolving categories file: %w", err)
	}

	data, err := os.ReadFile(filePath) // #nosec G304 -- path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("error reading categories file: %w", err)
	}

	var doc categoriesDocument
	if err := yaml.Unmarshal(data, &doc); err == nil && len(doc.Categories) > 0 {
		return s.loaded(doc.Categories, filePath), nil
	}

	var list []models.Category
	if err := yaml.Unmarshal(data, &list); err == nil && len(list) > 0 {
		return s.loaded(list, filePath), nil
	}

	// Plain mapping of key to label.
	var mapping map[string]string
	if err := yaml.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("error parsing categories file: %w", err)
	}
	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	cats := make([]models.Category, 0, len(keys))
	for _, k := range keys {
		label := mapping[k]
		if label == "" {
			label = k
		}
		cats = append(cats, models.Category{Value: k, Label: label})
	}
	return s.loaded(cats, filePath), nil
}

func (s *CategoryStore) loaded(cats []models.Category, path string) []models.Category {
	out := make([]models.Category, 0, len(cats))
	for _, c := range cats {
		if c.Value == "" {
			continue
		}
		if c.Label == "" {
			c.Label = c.Value
		}
		out = append(out, c)
	}
	s.log.Debug("category seed loaded",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(out)))
	return out
}

// SaveCategories writes cats in the canonical layout. An existing seed file
// is overwritten in place, otherwise the file goes to ./database.
func (s *CategoryStore) SaveCategories(cats []models.Category) error {
	filename := s.filename()
	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		if filepath.IsAbs(filename) {
			filePath = filename
		} else {
			filePath = filepath.Join("database", filename)
		}
	}

	if err := os.MkdirAll(filepath.Dir(filePath), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	data, err := yaml.Marshal(categoriesDocument{Categories: cats})
	if err != nil {
		return fmt.Errorf("error marshaling categories: %w", err)
	}
	if err := os.WriteFile(filePath, data, models.PermissionConfigFile); err != nil {
		return fmt.Errorf("error writing categories: %w", err)
	}

	s.log.Info("category seed saved",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(cats)))
	return nil
}
