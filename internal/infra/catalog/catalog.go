// Package catalog serves flashcards from a local word list so the bot can run
// without a remote model. Lists are YAML documents keyed by level or XLSX
// workbooks with one sheet per level.
package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/aliskhannn/amagambo-bot/internal/domain/entities"
)

// Catalog is an immutable word list. It implements the session's fact
// generator interface.
type Catalog struct {
	levels map[entities.Level][]entities.Fact
	byID   map[string]entities.Fact
}

// Load reads a word list, choosing the format by file extension.
func Load(path string) (*Catalog, error) {
	var (
		raw map[string][]entities.Fact
		err error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		raw, err = readYAML(path)
	case ".xlsx":
		raw, err = readXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", ext)
	}
	if err != nil {
		return nil, err
	}

	return build(raw)
}

func build(raw map[string][]entities.Fact) (*Catalog, error) {
	c := &Catalog{
		levels: make(map[entities.Level][]entities.Fact, len(raw)),
		byID:   make(map[string]entities.Fact),
	}

	for name, facts := range raw {
		level, err := entities.ParseLevel(name)
		if err != nil {
			return nil, fmt.Errorf("catalog level %q: %w", name, err)
		}

		seen := make(map[string]bool, len(facts))
		for _, f := range facts {
			f = entities.NewFact(
				strings.TrimSpace(f.Word),
				strings.TrimSpace(f.Meaning),
				strings.TrimSpace(f.SentenceKinyarwanda),
				strings.TrimSpace(f.SentenceEnglish),
			)
			if f.ID == "" || seen[f.ID] {
				continue
			}
			seen[f.ID] = true
			c.levels[level] = append(c.levels[level], f)
			if _, ok := c.byID[f.ID]; !ok {
				c.byID[f.ID] = f
			}
		}
	}

	return c, nil
}

func readYAML(path string) (map[string][]entities.Fact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var raw map[string][]entities.Fact
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return raw, nil
}

// readXLSX reads sheets named after levels. Columns A to D hold the word, its
// meaning and the two example sentences; the first row is a header.
func readXLSX(path string) (map[string][]entities.Fact, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	raw := make(map[string][]entities.Fact)
	for _, sheet := range f.GetSheetList() {
		if _, err := entities.ParseLevel(sheet); err != nil {
			continue
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to get rows of %q: %w", sheet, err)
		}

		for i, row := range rows {
			if i == 0 || len(row) == 0 {
				continue
			}
			raw[sheet] = append(raw[sheet], entities.Fact{
				Word:                cell(row, 0),
				Meaning:             cell(row, 1),
				SentenceKinyarwanda: cell(row, 2),
				SentenceEnglish:     cell(row, 3),
			})
		}
	}
	return raw, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// GenerateByLevel returns up to count facts of a level in list order,
// skipping excludeIDs.
func (c *Catalog) GenerateByLevel(ctx context.Context, level entities.Level, count int, excludeIDs []string) ([]entities.Fact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]entities.Fact, 0, count)
	for _, f := range c.levels[level] {
		if len(out) == count {
			break
		}
		if slices.Contains(excludeIDs, f.ID) {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

// GenerateByIDs returns the known facts among ids, in the order asked.
func (c *Catalog) GenerateByIDs(ctx context.Context, ids []string) ([]entities.Fact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]entities.Fact, 0, len(ids))
	for _, id := range ids {
		if f, ok := c.byID[id]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

// Size returns the number of facts per level.
func (c *Catalog) Size(level entities.Level) int {
	return len(c.levels[level])
}
