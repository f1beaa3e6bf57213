package models

// StockDefinition holds the static attributes used to register a stock.
// The validate tags are applied by dataset loaders only; the exchange
// itself accepts any definition.
type StockDefinition struct {
	Symbol        string    `json:"symbol" mapstructure:"symbol" validate:"required,alphanum,max=12"`
	InitialPrice  int64     `json:"initial_price" mapstructure:"initial_price" validate:"gte=0"`
	Kind          StockKind `json:"kind" mapstructure:"kind" validate:"required,oneof=COMMON PREFERRED"`
	ParValue      int64     `json:"par_value" mapstructure:"par_value" validate:"gte=0"`
	LastDividend  int64     `json:"last_dividend" mapstructure:"last_dividend"`
	FixedDividend float64   `json:"fixed_dividend" mapstructure:"fixed_dividend" validate:"gte=0"`
}

// IsPreferred reports whether the definition is for a preferred stock.
func (d StockDefinition) IsPreferred() bool {
	return d.Kind == StockPreferred
}
