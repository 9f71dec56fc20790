package domain

// CurrencyRate is one row of the cached exchange-rate table. The document id
// is the currency code, so rate lookups are plain gets.
type CurrencyRate struct {
	Meta     `bson:",inline"`
	Currency string  `bson:"currency" json:"currency"`
	Code     string  `bson:"code" json:"code"`
	Ask      float64 `bson:"ask" json:"ask"`
	Bid      float64 `bson:"bid" json:"bid"`
}

// CurrencySum is one entry of the price-sum aggregation result.
type CurrencySum struct {
	Code     string  `json:"code"`
	SumValue float64 `json:"sumValue"`
}
