package ingest

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var docValidator = validator.New()

// PriceValue decodes a YAML scalar into an exact decimal so supplier prices
// never pass through float64.
type PriceValue struct {
	decimal.Decimal
}

func (p *PriceValue) UnmarshalYAML(node *yaml.Node) error {
	d, err := decimal.NewFromString(node.Value)
	if err != nil {
		return fmt.Errorf("invalid price %q: %w", node.Value, err)
	}
	p.Decimal = d
	return nil
}

// Document is the supplier price list.
type Document struct {
	Shop       string        `yaml:"shop" validate:"required"`
	Categories []CategoryDoc `yaml:"categories" validate:"required,min=1,dive"`
	Goods      []GoodDoc     `yaml:"goods" validate:"dive"`
}

// CategoryDoc carries the supplier's own category id and display name.
type CategoryDoc struct {
	ID   uint   `yaml:"id" validate:"required"`
	Name string `yaml:"name" validate:"required"`
}

// GoodDoc is one listing. Price, price_rrc and quantity are pointers so a
// missing key is distinguishable from an explicit zero; a good without a
// price must never land in the catalog as a free listing. Parameters values
// may be YAML scalars of any type and are stored as their string form.
type GoodDoc struct {
	ID         uint           `yaml:"id" validate:"required"`
	Category   uint           `yaml:"category" validate:"required"`
	Model      string         `yaml:"model"`
	Name       string         `yaml:"name" validate:"required"`
	Price      *PriceValue    `yaml:"price" validate:"required"`
	PriceRRC   *PriceValue    `yaml:"price_rrc" validate:"required"`
	Quantity   *int           `yaml:"quantity" validate:"required,gte=0"`
	Parameters map[string]any `yaml:"parameters"`
}

// Parse decodes and validates a price list document. Every good must
// reference a category declared in the same document.
func Parse(raw []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding price list: %w", err)
	}
	if err := docValidator.Struct(&doc); err != nil {
		return nil, fmt.Errorf("validating price list: %w", err)
	}

	declared := make(map[uint]struct{}, len(doc.Categories))
	for _, c := range doc.Categories {
		declared[c.ID] = struct{}{}
	}
	for i, g := range doc.Goods {
		if _, ok := declared[g.Category]; !ok {
			return nil, fmt.Errorf("good %d (%q) references undeclared category %d", i, g.Name, g.Category)
		}
		if g.Price.IsNegative() || g.PriceRRC.IsNegative() {
			return nil, fmt.Errorf("good %d (%q) has a negative price", i, g.Name)
		}
	}
	return &doc, nil
}

// ParameterValue renders a YAML scalar parameter value as its stored string form.
func ParameterValue(v any) string {
	return fmt.Sprintf("%v", v)
}
