package catalog

type Category string

const (
	CategoryUsernameColor Category = "usernameColor"
	CategoryProfileImage  Category = "profileImage"
	CategoryProfileBorder Category = "profileBorder"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryUsernameColor, CategoryProfileImage, CategoryProfileBorder:
		return true
	}
	return false
}

// Rarity is informational only and never changes pricing.
type Rarity int

const (
	RarityCommon Rarity = iota
	RarityRare
	RarityEpic
	RarityLegendary
)

var rarityNames = map[Rarity]string{
	RarityCommon:    "common",
	RarityRare:      "rare",
	RarityEpic:      "epic",
	RarityLegendary: "legendary",
}

func (r Rarity) String() string {
	if name, ok := rarityNames[r]; ok {
		return name
	}
	return "common"
}

func ParseRarity(name string) (Rarity, bool) {
	for rarity, n := range rarityNames {
		if n == name {
			return rarity, true
		}
	}
	return RarityCommon, false
}

// CustomItemID is the item id under which the caller-chosen username colour is sold.
const CustomItemID = "custom"

// Item is either a FixedItem or a CustomColor.
type Item interface {
	ItemID() string
	ItemCategory() Category
	Price() int64
	ItemRarity() Rarity
	isItem()
}

type FixedItem struct {
	ID       string
	Category Category
	Name     string
	Cost     int64
	Rarity   Rarity
}

func (f FixedItem) ItemID() string         { return f.ID }
func (f FixedItem) ItemCategory() Category { return f.Category }
func (f FixedItem) Price() int64           { return f.Cost }
func (f FixedItem) ItemRarity() Rarity     { return f.Rarity }
func (FixedItem) isItem()                  {}

// CustomColor is a username colour whose value the buyer supplies. The price
// does not depend on the value.
type CustomColor struct {
	Name   string
	Cost   int64
	Rarity Rarity
}

func (c CustomColor) ItemID() string       { return CustomItemID }
func (CustomColor) ItemCategory() Category { return CategoryUsernameColor }
func (c CustomColor) Price() int64         { return c.Cost }
func (c CustomColor) ItemRarity() Rarity   { return c.Rarity }
func (CustomColor) isItem()                {}
