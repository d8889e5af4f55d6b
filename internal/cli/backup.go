package cli

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/kitikazis/ELAC-Lectura/internal/app"
	"github.com/kitikazis/ELAC-Lectura/internal/config"
	"github.com/spf13/cobra"
)

// NewExportCmd writes every category to a dated JSON backup file.
func NewExportCmd(configPath *string) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all categories to a JSON backup",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), *configPath, out)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output file (default backup-lectura-<date>.json)")
	return cmd
}

// NewImportCmd restores categories from a JSON backup file.
func NewImportCmd(configPath *string) *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import categories from a JSON backup",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), *configPath, in)
		},
	}
	cmd.Flags().StringVar(&in, "file", "", "backup file to import")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runExport(ctx context.Context, configPath, out string) error {
	store, cleanup, err := openCategoryStore(ctx, configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	if out == "" {
		out = app.ExportFilename(time.Now())
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := app.Export(ctx, store, f); err != nil {
		return err
	}
	log.Printf("exported categories to %s", out)
	return nil
}

func runImport(ctx context.Context, configPath, in string) error {
	store, cleanup, err := openCategoryStore(ctx, configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := app.Import(ctx, store, f); err != nil {
		return err
	}
	log.Printf("imported categories from %s", in)
	return nil
}

func openCategoryStore(ctx context.Context, configPath string) (app.CategoryStore, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	categories, _, cleanup, err := buildStores(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return categories, cleanup, nil
}
