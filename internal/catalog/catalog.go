package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/akolanti/JobMatch/internal/config"
)

var ErrInvalidCatalog = errors.New("invalid job catalog")

type JobPosting struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Salary      string `json:"salary"`
	Description string `json:"description"`
}

// Catalog is read-only once built and is shared across ingestions.
type Catalog struct {
	Postings    []JobPosting      `json:"postings"`
	CareerPaths map[string]string `json:"career_paths"`
}

// CareerPath returns the progression for title, or the generic placeholder.
func (c *Catalog) CareerPath(title string) string {
	if path, ok := c.CareerPaths[title]; ok {
		return path
	}
	return config.DefaultCareerPath
}

func (c *Catalog) Len() int {
	return len(c.Postings)
}

// Validate rejects entries that cannot be scored. A bad entry fails the whole
// catalog rather than being skipped.
func (c *Catalog) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil catalog", ErrInvalidCatalog)
	}
	seen := make(map[string]struct{}, len(c.Postings))
	var errs []error
	for i, p := range c.Postings {
		if strings.TrimSpace(p.Title) == "" {
			errs = append(errs, fmt.Errorf("%w: posting %d has no title", ErrInvalidCatalog, i))
			continue
		}
		if _, dup := seen[p.Title]; dup {
			errs = append(errs, fmt.Errorf("%w: duplicate title %q", ErrInvalidCatalog, p.Title))
		}
		seen[p.Title] = struct{}{}
		if strings.TrimSpace(p.Description) == "" {
			errs = append(errs, fmt.Errorf("%w: posting %q has no description", ErrInvalidCatalog, p.Title))
		}
	}
	return errors.Join(errs...)
}

// LoadFile reads a JSON catalog and validates it.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrInvalidCatalog, path, err)
	}
	if c.CareerPaths == nil {
		c.CareerPaths = map[string]string{}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load returns the catalog at path, or the built-in one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}
