// Package dataset provides stock definitions for seeding an exchange: the
// built-in GBCE sample data and validation of definitions read from
// configuration.
package dataset

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"simple-stocks/internal/errors"
	"simple-stocks/internal/exchange"
	"simple-stocks/internal/models"
)

// GBCE returns the Global Beverage Corporation Exchange sample data.
// Prices, par values and dividends are pennies.
func GBCE() []models.StockDefinition {
	return []models.StockDefinition{
		{Symbol: "TEA", InitialPrice: 120, Kind: models.StockCommon, ParValue: 100, LastDividend: 0},
		{Symbol: "POP", InitialPrice: 150, Kind: models.StockCommon, ParValue: 100, LastDividend: 8},
		{Symbol: "ALE", InitialPrice: 170, Kind: models.StockCommon, ParValue: 60, LastDividend: 23},
		{Symbol: "GIN", InitialPrice: 190, Kind: models.StockPreferred, ParValue: 100, LastDividend: 8, FixedDividend: 0.02},
		{Symbol: "JOE", InitialPrice: 200, Kind: models.StockCommon, ParValue: 250, LastDividend: 13},
	}
}

// Validator checks stock definitions before they reach an exchange.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that reports fields by their json name.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Normalize upper-cases the symbol and canonicalises the kind.
func Normalize(def models.StockDefinition) models.StockDefinition {
	def.Symbol = strings.ToUpper(strings.TrimSpace(def.Symbol))
	if kind, ok := models.ParseStockKind(string(def.Kind)); ok {
		def.Kind = kind
	}
	return def
}

// Validate checks a single definition. The first failing field is returned
// as a *errors.ValidationError.
func (v *Validator) Validate(def models.StockDefinition) error {
	err := v.validate.Struct(def)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return errors.NewValidationError(fe.Field(), fe.Value(), describe(fe))
	}
	return errors.Wrap(err, "validating stock definition")
}

// ValidateAll normalizes and validates every definition, stopping at the
// first invalid one.
func (v *Validator) ValidateAll(defs []models.StockDefinition) ([]models.StockDefinition, error) {
	out := make([]models.StockDefinition, 0, len(defs))
	for i, def := range defs {
		def = Normalize(def)
		if err := v.Validate(def); err != nil {
			return nil, errors.Wrapf(err, "stock %d (%q)", i, def.Symbol)
		}
		out = append(out, def)
	}
	return out, nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "alphanum":
		return "must be alphanumeric"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

// Seed registers the definitions on ex in order and returns how many stocks
// were created. Symbols already present are skipped with a warning.
func Seed(ex *exchange.Exchange, defs []models.StockDefinition, logger zerolog.Logger) int {
	added := 0
	for _, def := range defs {
		if ex.AddStock(def) {
			added++
			continue
		}
		logger.Warn().Str("symbol", def.Symbol).Msg("Duplicate stock definition skipped")
	}
	return added
}
