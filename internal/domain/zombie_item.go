package domain

// MaxItemsPerZombie caps how many assignments a single owner may hold.
const MaxItemsPerZombie = 5

// ZombieItem assigns an item to a zombie. UserID and ItemID are weak
// references: they are resolved by lookup and the store itself enforces no
// referential integrity.
type ZombieItem struct {
	Meta   `bson:",inline"`
	UserID string `bson:"userId" json:"userId"`
	ItemID string `bson:"itemId" json:"itemId"`
}

// EnrichedZombieItem is an assignment with its referenced item resolved.
// Item is null when the reference cannot be resolved.
type EnrichedZombieItem struct {
	ZombieItem `bson:",inline"`
	Item       *Item `bson:"-" json:"item"`
}
