package domain

// Collection names in the document database. Kept identical to the upstream
// deployment so existing data stays readable.
const (
	CollectionZombies       = "zombies"
	CollectionItems         = "items"
	CollectionCurrencyRates = "currency-rates"
	CollectionZombieItems   = "zombies-items"
)
