// Package catalog holds the static reference data the engine grants
// against: the achievement catalog, per-season battle pass reward
// schedules, and the shop item list. All of it is read-only.
package catalog

// Rarity of an achievement or certificate.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// IsCertificateWorthy reports whether unlocking an achievement of this
// rarity issues an achievement certificate.
func (r Rarity) IsCertificateWorthy() bool {
	return r == RarityEpic || r == RarityLegendary
}

// AchievementDefinition is one entry of the static achievement catalog.
// Hidden achievements skip the unlock notification; deprecated ones
// stay unlockable in old records but no longer count towards points.
type AchievementDefinition struct {
	ID         string
	Name       string
	Category   string
	Rarity     Rarity
	Points     int
	Hidden     bool
	Deprecated bool
}

// Achievement categories.
const (
	CategoryGeneral    = "general"
	CategoryEconomy    = "economy"
	CategoryCollection = "collection"
	CategorySocial     = "social"
	CategorySecret     = "secret"
)

// Achievements contains the full static achievement catalog.
// Add new entries here, never remove; mark Deprecated instead.
var Achievements = map[string]AchievementDefinition{
	"first_login": {
		ID:       "first_login",
		Name:     "Welcome Aboard",
		Category: CategoryGeneral,
		Rarity:   RarityCommon,
		Points:   5,
	},
	"first_purchase": {
		ID:       "first_purchase",
		Name:     "Big Spender",
		Category: CategoryEconomy,
		Rarity:   RarityCommon,
		Points:   10,
	},
	"kroner_hoarder": {
		ID:       "kroner_hoarder",
		Name:     "Kroner Hoarder",
		Category: CategoryEconomy,
		Rarity:   RarityRare,
		Points:   25,
	},
	"generous_soul": {
		ID:       "generous_soul",
		Name:     "Generous Soul",
		Category: CategorySocial,
		Rarity:   RarityUncommon,
		Points:   15,
	},
	"theme_collector": {
		ID:       "theme_collector",
		Name:     "Theme Collector",
		Category: CategoryCollection,
		Rarity:   RarityEpic,
		Points:   50,
	},
	"season_champion": {
		ID:       "season_champion",
		Name:     "Season Champion",
		Category: CategoryGeneral,
		Rarity:   RarityLegendary,
		Points:   100,
	},
	"night_owl": {
		ID:       "night_owl",
		Name:     "Night Owl",
		Category: CategorySecret,
		Rarity:   RarityRare,
		Points:   20,
		Hidden:   true,
	},
	"beta_tester": {
		ID:         "beta_tester",
		Name:       "Beta Tester",
		Category:   CategoryGeneral,
		Rarity:     RarityUncommon,
		Points:     10,
		Deprecated: true,
	},
}

// GetAchievement returns the catalog entry for an achievement ID.
func GetAchievement(id string) (AchievementDefinition, bool) {
	def, ok := Achievements[id]
	return def, ok
}

// AchievementPoints maps unlocked achievement IDs to their point
// values, skipping deprecated and unknown entries. Point totals are
// always recomputed from the unlock set through this map, never
// accumulated incrementally.
func AchievementPoints(unlockedIDs []string) int {
	total := 0
	for _, id := range unlockedIDs {
		def, ok := Achievements[id]
		if !ok || def.Deprecated {
			continue
		}
		total += def.Points
	}
	return total
}
