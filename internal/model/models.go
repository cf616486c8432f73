// Package model defines the data models for the Kroner economy engine.
package model

import "time"

// Balance holds a user's Kroner counters. Spendable can never go below
// zero; lifetime only ever grows and records everything the user has
// earned, including received gifts.
type Balance struct {
	UserID    int64     `db:"user_id"`
	Lifetime  int64     `db:"lifetime"`
	Spendable int64     `db:"spendable"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// OwnershipRecord marks that a user owns one cosmetic item. A user
// owns each (item_type, item_id) pair at most once; the record is
// immutable once written.
type OwnershipRecord struct {
	UserID     int64     `db:"user_id"`
	ItemType   string    `db:"item_type"`
	ItemID     string    `db:"item_id"`
	Source     string    `db:"source"`
	AcquiredAt time.Time `db:"acquired_at"`
}

// AchievementUnlock records a single first-time achievement grant.
// Unique per (user_id, achievement_id).
type AchievementUnlock struct {
	UserID        int64     `db:"user_id"`
	AchievementID string    `db:"achievement_id"`
	UnlockedAt    time.Time `db:"unlocked_at"`
}

// Certificate records a battle-pass completion or a rare achievement
// unlock. Unique per (user_id, certificate_type, certificate_id).
type Certificate struct {
	UserID          int64     `db:"user_id"`
	CertificateType string    `db:"certificate_type"`
	CertificateID   string    `db:"certificate_id"`
	Name            string    `db:"name"`
	SeasonKey       *string   `db:"season_key"`
	Rarity          *string   `db:"rarity"`
	EarnedAt        time.Time `db:"earned_at"`
}

// BattlePassState is the per-user, per-season progression record.
// CurrentLevel only ever increases; level 0 means no rewards applied.
type BattlePassState struct {
	UserID       int64     `db:"user_id"`
	SeasonKey    string    `db:"season_key"`
	CurrentLevel int       `db:"current_level"`
	XP           int64     `db:"xp"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// GiftTransaction is the append-only audit record of a Kroner gift.
type GiftTransaction struct {
	ID          string    `db:"id"`
	SenderID    int64     `db:"sender_id"`
	RecipientID int64     `db:"recipient_id"`
	Amount      int64     `db:"amount"`
	Message     *string   `db:"message"`
	CreatedAt   time.Time `db:"created_at"`
}

// ActivityEntry is a fire-and-forget activity-feed record.
type ActivityEntry struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	ActivityType string    `db:"activity_type"`
	ActivityData []byte    `db:"activity_data"`
	CreatedAt    time.Time `db:"created_at"`
}

// Certificate types.
const (
	CertTypeBattlePass  = "battlepass"
	CertTypeAchievement = "achievement"
)

// Ownership sources, recorded on each grant.
const (
	SourceShop       = "shop"
	SourceBattlePass = "battlepass"
	SourceSystem     = "system"
)

// Item types for cosmetic ownership records.
const (
	ItemTypeTitle         = "title"
	ItemTypeTheme         = "theme"
	ItemTypeBadge         = "badge"
	ItemTypeWallpaper     = "wallpaper"
	ItemTypeProfileEffect = "profile_effect"
)

// Activity types for the activity feed.
const (
	ActivityKronerAwarded = "kroner_awarded"
	ActivityGiftSent      = "gift_sent"
	ActivityGiftReceived  = "gift_received"
	ActivityShopPurchase  = "shop_purchase"
	ActivityLevelUp       = "battlepass_level_up"
)

// SeasonCompletionLevel is the level at which a season's completion
// certificate is issued.
const SeasonCompletionLevel = 100
