package catalog

// ShopItem is one purchasable cosmetic in the shop catalog.
// Easily extensible - just add new items to this map.
type ShopItem struct {
	ItemType    string
	ItemID      string
	Name        string
	Price       int64
	Description string
}

// ShopItems contains all purchasable items, keyed by item ID.
var ShopItems = map[string]ShopItem{
	"theme_noir": {
		ItemType:    "theme",
		ItemID:      "theme_noir",
		Name:        "Noir Theme",
		Price:       400,
		Description: "Monochrome desktop theme",
	},
	"theme_terminal_green": {
		ItemType:    "theme",
		ItemID:      "theme_terminal_green",
		Name:        "Terminal Green",
		Price:       600,
		Description: "Phosphor-green retro theme",
	},
	"wp_mountains": {
		ItemType:    "wallpaper",
		ItemID:      "wp_mountains",
		Name:        "Mountain Range",
		Price:       200,
		Description: "Panorama wallpaper",
	},
	"wp_deep_sea": {
		ItemType:    "wallpaper",
		ItemID:      "wp_deep_sea",
		Name:        "Deep Sea",
		Price:       200,
		Description: "Abyssal blue wallpaper",
	},
	"title_tycoon": {
		ItemType:    "title",
		ItemID:      "title_tycoon",
		Name:        "Tycoon",
		Price:       1500,
		Description: "Profile title",
	},
	"badge_founders": {
		ItemType:    "badge",
		ItemID:      "badge_founders",
		Name:        "Founders Badge",
		Price:       2500,
		Description: "Limited founders badge",
	},
	"fx_confetti": {
		ItemType:    "profile_effect",
		ItemID:      "fx_confetti",
		Name:        "Confetti Burst",
		Price:       800,
		Description: "Profile confetti effect",
	},
}

// GetShopItem returns the shop item for a given ID.
func GetShopItem(itemID string) (ShopItem, bool) {
	item, ok := ShopItems[itemID]
	return item, ok
}
