package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"minigold/internal/app"
	"minigold/internal/bootstrap"
	"minigold/internal/core"
)

// catalogFile is the YAML layout read by the seed command.
type catalogFile struct {
	Products []catalogProduct `yaml:"products"`
}

type catalogProduct struct {
	Name        string `yaml:"product_name"`
	Brand       string `yaml:"brand"`
	Finest      string `yaml:"finest"`
	Series      string `yaml:"series"`
	ReleaseYear string `yaml:"tahun_release"`
	WeightClass string `yaml:"gramasi"`
	Size        string `yaml:"ukuran"`
	Finishing   string `yaml:"finishing"`
	Category    string `yaml:"kategori_produk"`
}

func (p catalogProduct) request() (app.ProductRequest, error) {
	gramasi, err := core.ParseWeightClass(p.WeightClass)
	if err != nil {
		return app.ProductRequest{}, fmt.Errorf("product %q: invalid gramasi %q", p.Name, p.WeightClass)
	}
	return app.ProductRequest{
		Brand:       p.Brand,
		Finest:      p.Finest,
		Series:      p.Series,
		ReleaseYear: p.ReleaseYear,
		Name:        p.Name,
		WeightClass: gramasi,
		Size:        p.Size,
		Finishing:   p.Finishing,
		Category:    p.Category,
	}, nil
}

func seedCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <catalog.yaml>",
		Short: "Create or update products from a YAML catalog",
		Long: `Seed reads a product catalog and saves every entry. A product whose name
already exists is updated in place; the rest are created.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read catalog: %w", err)
			}
			var catalog catalogFile
			if err := yaml.Unmarshal(data, &catalog); err != nil {
				return fmt.Errorf("parse catalog %s: %w", args[0], err)
			}
			return withRuntime(cmd, opts, func(ctx context.Context, rt *bootstrap.Runtime) error {
				created, updated := 0, 0
				for _, entry := range catalog.Products {
					req, err := entry.request()
					if err != nil {
						return err
					}
					if req.ID, err = existingProduct(ctx, rt.App, req.Name); err != nil {
						return err
					}
					if _, err := rt.App.SaveProduct(ctx, req); err != nil {
						return fmt.Errorf("save product %q: %w", req.Name, err)
					}
					if req.ID == 0 {
						created++
					} else {
						updated++
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Seeded catalog: %d created, %d updated.\n", created, updated)
				return nil
			})
		},
	}
}

// existingProduct returns the id of the product named name, or 0.
func existingProduct(ctx context.Context, svc app.ApplicationService, name string) (int64, error) {
	matches, err := svc.SearchProducts(ctx, name, 50)
	if err != nil {
		return 0, err
	}
	for _, p := range matches {
		if strings.EqualFold(p.Name, name) {
			return p.ID, nil
		}
	}
	return 0, nil
}
