package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type Product struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Price       decimal.Decimal `json:"price" yaml:"price"`
	Description string          `json:"description" yaml:"description"`
}

// LineItem is the cart representation of the product.
func (p Product) LineItem() checkout.LineItem {
	return checkout.LineItem{ID: p.ID, Name: p.Name, Price: p.Price, Description: p.Description}
}

// Source lists the products on sale.
type Source interface {
	List(ctx context.Context) ([]Product, error)
}

var ErrNotFound = errors.New("product not found")

func Find(ctx context.Context, src Source, id string) (Product, error) {
	ps, err := src.List(ctx)
	if err != nil {
		return Product{}, err
	}
	for _, p := range ps {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

//go:embed catalog.yaml
var defaultCatalog []byte

// Static is a fixed in-memory catalog.
type Static struct {
	products []Product
}

func (s *Static) List(context.Context) ([]Product, error) {
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func Default() *Static {
	s, err := ParseYAML(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded catalog: %v", err))
	}
	return s
}

func LoadFile(path string) (*Static, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseYAML(b)
}

func ParseYAML(b []byte) (*Static, error) {
	var doc struct {
		Products []Product `yaml:"products"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	seen := make(map[string]bool, len(doc.Products))
	for _, p := range doc.Products {
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("catalog entry missing id or name: %+v", p)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("product %q has negative price", p.ID)
		}
		seen[p.ID] = true
	}
	return &Static{products: doc.Products}, nil
}
