package domain

// Zombie is an owner of catalog items.
type Zombie struct {
	Meta `bson:",inline"`
	Name string `bson:"name" json:"name"`
}
