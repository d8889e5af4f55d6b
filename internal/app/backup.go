package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/kitikazis/ELAC-Lectura/internal/domain"
)

// backupFile is the export document shape: categories keyed by slug.
type backupFile struct {
	Categories map[string]domain.Category `json:"categories"`
}

// ExportFilename returns the dated backup name, e.g. backup-lectura-2026-09-01.json.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("backup-lectura-%s.json", now.Format("2006-01-02"))
}

// Export writes every category as an indented JSON backup document.
func Export(ctx context.Context, store CategoryStore, w io.Writer) error {
	categories, err := store.List(ctx)
	if err != nil {
		return err
	}
	doc := backupFile{Categories: make(map[string]domain.Category, len(categories))}
	for _, c := range categories {
		doc.Categories[c.Key] = c
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Import reads a backup document and upserts each category. A document
// without a categories field is rejected wholesale; nothing is applied.
func Import(ctx context.Context, store CategoryStore, r io.Reader) error {
	var doc backupFile
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrImportFormat, err)
	}
	if doc.Categories == nil {
		return fmt.Errorf("%w: missing categories field", domain.ErrImportFormat)
	}
	for key, category := range doc.Categories {
		if category.Key == "" {
			category.Key = key
		}
		if category.Questions == nil {
			category.Questions = []domain.Question{}
		}
		if err := upsert(ctx, store, category); err != nil {
			return err
		}
	}
	return nil
}

func upsert(ctx context.Context, store CategoryStore, category domain.Category) error {
	err := store.Create(ctx, category)
	if errors.Is(err, domain.ErrDuplicateKey) {
		return store.Update(ctx, category.Key, category.ReadingText, category.Questions)
	}
	return err
}
