package catalog

import (
	"fmt"
	"sort"
)

// RewardType identifies how a battle pass reward is applied.
type RewardType string

const (
	RewardKroner        RewardType = "kroner"
	RewardTitle         RewardType = "title"
	RewardTheme         RewardType = "theme"
	RewardBadge         RewardType = "badge"
	RewardWallpaper     RewardType = "wallpaper"
	RewardProfileEffect RewardType = "profile_effect"
	RewardCertificate   RewardType = "certificate"
)

// SeasonReward is one entry of a season's reward schedule.
// For RewardKroner, Value is the amount as a decimal string; for item
// rewards it is the item ID; for certificates the certificate ID.
type SeasonReward struct {
	Level int
	Type  RewardType
	Value string
	Name  string
}

// Seasons maps season keys to their ordered reward schedules.
// Schedules are sparse: not every level carries a reward.
var Seasons = map[string][]SeasonReward{
	"season-1": {
		{Level: 1, Type: RewardKroner, Value: "100", Name: "Starter Kroner"},
		{Level: 3, Type: RewardTitle, Value: "title_rookie", Name: "Rookie"},
		{Level: 5, Type: RewardTheme, Value: "theme_midnight", Name: "Midnight Theme"},
		{Level: 7, Type: RewardKroner, Value: "250", Name: "Level 7 Bonus"},
		{Level: 10, Type: RewardBadge, Value: "badge_bronze", Name: "Bronze Badge"},
		{Level: 15, Type: RewardWallpaper, Value: "wp_fjord", Name: "Fjord Wallpaper"},
		{Level: 20, Type: RewardKroner, Value: "500", Name: "Level 20 Bonus"},
		{Level: 25, Type: RewardBadge, Value: "badge_silver", Name: "Silver Badge"},
		{Level: 30, Type: RewardProfileEffect, Value: "fx_sparkle", Name: "Sparkle Effect"},
		{Level: 40, Type: RewardTheme, Value: "theme_aurora", Name: "Aurora Theme"},
		{Level: 50, Type: RewardBadge, Value: "badge_gold", Name: "Gold Badge"},
		{Level: 50, Type: RewardKroner, Value: "1000", Name: "Halfway Bonus"},
		{Level: 60, Type: RewardWallpaper, Value: "wp_glacier", Name: "Glacier Wallpaper"},
		{Level: 70, Type: RewardTitle, Value: "title_veteran", Name: "Veteran"},
		{Level: 75, Type: RewardCertificate, Value: "s1_diligence", Name: "Certificate of Diligence"},
		{Level: 80, Type: RewardKroner, Value: "2000", Name: "Level 80 Bonus"},
		{Level: 90, Type: RewardProfileEffect, Value: "fx_flames", Name: "Flame Effect"},
		{Level: 99, Type: RewardTitle, Value: "title_relentless", Name: "The Relentless"},
		{Level: 100, Type: RewardKroner, Value: "5000", Name: "Season Finale"},
	},
	"season-2": {
		{Level: 1, Type: RewardKroner, Value: "150", Name: "Starter Kroner"},
		{Level: 5, Type: RewardTheme, Value: "theme_harbor", Name: "Harbor Theme"},
		{Level: 10, Type: RewardBadge, Value: "badge_anchor", Name: "Anchor Badge"},
		{Level: 25, Type: RewardWallpaper, Value: "wp_archipelago", Name: "Archipelago Wallpaper"},
		{Level: 50, Type: RewardKroner, Value: "1500", Name: "Halfway Bonus"},
		{Level: 75, Type: RewardProfileEffect, Value: "fx_waves", Name: "Wave Effect"},
		{Level: 100, Type: RewardKroner, Value: "6000", Name: "Season Finale"},
	},
}

// GetSeasonSchedule returns the reward schedule for a season key.
func GetSeasonSchedule(seasonKey string) ([]SeasonReward, bool) {
	schedule, ok := Seasons[seasonKey]
	return schedule, ok
}

// RewardsBetween returns every reward with from < level <= to, in
// ascending level order. A level jump must never skip intermediate
// rewards, so callers feed the old and new level here.
func RewardsBetween(seasonKey string, from, to int) []SeasonReward {
	schedule, ok := Seasons[seasonKey]
	if !ok {
		return nil
	}
	var crossed []SeasonReward
	for _, r := range schedule {
		if r.Level > from && r.Level <= to {
			crossed = append(crossed, r)
		}
	}
	sort.SliceStable(crossed, func(i, j int) bool {
		return crossed[i].Level < crossed[j].Level
	})
	return crossed
}

// ValidateSchedule checks a schedule's invariants: levels within
// 1..100, non-decreasing order, and no two rewards of the same type
// and value on the same level.
func ValidateSchedule(schedule []SeasonReward) error {
	prev := 0
	seen := make(map[string]bool)
	for i, r := range schedule {
		if r.Level < 1 || r.Level > 100 {
			return fmt.Errorf("reward %d: level %d out of range 1..100", i, r.Level)
		}
		if r.Level < prev {
			return fmt.Errorf("reward %d: level %d breaks monotonic order (previous %d)", i, r.Level, prev)
		}
		key := fmt.Sprintf("%d/%s/%s", r.Level, r.Type, r.Value)
		if seen[key] {
			return fmt.Errorf("reward %d: duplicate %s at level %d", i, r.Type, r.Level)
		}
		seen[key] = true
		prev = r.Level
	}
	return nil
}
