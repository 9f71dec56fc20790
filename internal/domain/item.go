package domain

// Item is a catalog entry cached from the upstream item API.
type Item struct {
	Meta  `bson:",inline"`
	Name  string  `bson:"name" json:"name"`
	Price float64 `bson:"price" json:"price"`
}
