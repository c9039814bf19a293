package catalog

type Config struct {
	Items  []ItemConfig  `mapstructure:"items"`
	Offers []OfferConfig `mapstructure:"offers"`
}

type ItemConfig struct {
	Category string `mapstructure:"category"`
	ID       string `mapstructure:"id"`
	Name     string `mapstructure:"name"`
	Price    int64  `mapstructure:"price"`
	Rarity   string `mapstructure:"rarity"`
}

type OfferConfig struct {
	PartnerID             string `mapstructure:"partner_id"`
	PartnerName           string `mapstructure:"partner_name"`
	Type                  string `mapstructure:"type"`
	Title                 string `mapstructure:"title"`
	GemsCost              int64  `mapstructure:"gems_cost"`
	PromoCode             string `mapstructure:"promo_code"`
	JustificationRequired bool   `mapstructure:"justification_required"`
	JustificationType     string `mapstructure:"justification_type"`
}

func DefaultConfig() Config {
	return Config{
		Items: []ItemConfig{
			{Category: "usernameColor", ID: "red", Name: "Red", Price: 50, Rarity: "common"},
			{Category: "usernameColor", ID: "blue", Name: "Blue", Price: 50, Rarity: "common"},
			{Category: "usernameColor", ID: "green", Name: "Green", Price: 50, Rarity: "common"},
			{Category: "usernameColor", ID: "neon", Name: "Neon", Price: 150, Rarity: "rare"},
			{Category: "usernameColor", ID: "rainbow", Name: "Rainbow", Price: 300, Rarity: "epic"},
			{Category: "usernameColor", ID: "gold", Name: "Gold", Price: 500, Rarity: "legendary"},
			{Category: "usernameColor", ID: "custom", Name: "Custom colour", Price: 400, Rarity: "epic"},
			{Category: "profileImage", ID: "astronaut", Name: "Astronaut", Price: 100, Rarity: "common"},
			{Category: "profileImage", ID: "robot", Name: "Robot", Price: 100, Rarity: "common"},
			{Category: "profileImage", ID: "dragon", Name: "Dragon", Price: 250, Rarity: "rare"},
			{Category: "profileImage", ID: "phoenix", Name: "Phoenix", Price: 600, Rarity: "legendary"},
			{Category: "profileBorder", ID: "silver", Name: "Silver frame", Price: 80, Rarity: "common"},
			{Category: "profileBorder", ID: "flames", Name: "Flames", Price: 200, Rarity: "rare"},
			{Category: "profileBorder", ID: "aurora", Name: "Aurora", Price: 450, Rarity: "epic"},
		},
		Offers: []OfferConfig{
			{PartnerID: "cinema", PartnerName: "City Cinema", Type: "free", Title: "10% off a ticket",
				PromoCode: "CINE10", JustificationRequired: false},
			{PartnerID: "cinema", PartnerName: "City Cinema", Type: "premium", Title: "Free ticket",
				GemsCost: 50, PromoCode: "CINEFREE", JustificationRequired: true, JustificationType: "qr"},
			{PartnerID: "bookstore", PartnerName: "Corner Books", Type: "free", Title: "5% off",
				PromoCode: "BOOK5", JustificationRequired: false},
			{PartnerID: "bookstore", PartnerName: "Corner Books", Type: "premium", Title: "20% off",
				GemsCost: 120, PromoCode: "BOOK20", JustificationRequired: true, JustificationType: "pdf"},
			{PartnerID: "gym", PartnerName: "Iron Gym", Type: "premium", Title: "One week pass",
				GemsCost: 200, PromoCode: "GYMWEEK", JustificationRequired: true, JustificationType: "image"},
		},
	}
}
