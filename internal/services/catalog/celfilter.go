package catalogsvc

import (
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/ZeroFairy/kuenyawz-api/internal/entity"
)

// celFilter wraps a compiled CEL program evaluated per product during List.
// When disabled, Eval always returns true.
type celFilter struct {
	prog    cel.Program
	enabled bool
}

func newCELFilter(expr string) (celFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return celFilter{enabled: false}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("name", cel.StringType),
		cel.Variable("tagline", cel.StringType),
		cel.Variable("category", cel.StringType),
		cel.Variable("available", cel.BoolType),
		// Cheapest and most expensive variant prices.
		cel.Variable("min_price", cel.DoubleType),
		cel.Variable("max_price", cel.DoubleType),
		cel.Variable("variant_count", cel.IntType),
	)
	if err != nil {
		return celFilter{}, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return celFilter{}, iss.Err()
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return celFilter{}, iss2.Err()
	}
	prog, err := env.Program(checked)
	if err != nil {
		return celFilter{}, err
	}
	return celFilter{prog: prog, enabled: true}, nil
}

// Eval evaluates the compiled expression against a product. When disabled,
// returns true.
func (f celFilter) Eval(p *entity.Product) bool {
	if !f.enabled {
		return true
	}
	minPrice, maxPrice := 0.0, 0.0
	for i, v := range p.Variants {
		if i == 0 || v.Price < minPrice {
			minPrice = v.Price
		}
		if v.Price > maxPrice {
			maxPrice = v.Price
		}
	}
	out, _, err := f.prog.Eval(map[string]any{
		"name":          p.Name,
		"tagline":       p.Tagline,
		"category":      p.Category,
		"available":     p.Available,
		"min_price":     minPrice,
		"max_price":     maxPrice,
		"variant_count": int64(len(p.Variants)),
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
