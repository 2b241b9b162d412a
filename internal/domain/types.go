package domain

import "time"

// Rarity is an item's tier, ordered Common < Uncommon < Rare < Epic < Legendary.
type Rarity int

const (
	RarityCommon    Rarity = 1
	RarityUncommon  Rarity = 2
	RarityRare      Rarity = 3
	RarityEpic      Rarity = 4
	RarityLegendary Rarity = 5
)

func (r Rarity) String() string {
	switch r {
	case RarityCommon:
		return "Common"
	case RarityUncommon:
		return "Uncommon"
	case RarityRare:
		return "Rare"
	case RarityEpic:
		return "Epic"
	case RarityLegendary:
		return "Legendary"
	default:
		return "Unknown"
	}
}

// ItemType is an item's category tag.
type ItemType int

const (
	TypeWeapon     ItemType = 1
	TypeArmor      ItemType = 2
	TypeAccessory  ItemType = 3
	TypeConsumable ItemType = 4
)

func (t ItemType) String() string {
	switch t {
	case TypeWeapon:
		return "Weapon"
	case TypeArmor:
		return "Armor"
	case TypeAccessory:
		return "Accessory"
	case TypeConsumable:
		return "Consumable"
	default:
		return "Unknown"
	}
}

// Item is a minted collectible. The ID comes from the global mint counter and
// is never reused, even after the item is burned in an upgrade.
type Item struct {
	ID        int64
	Name      string
	Rarity    Rarity
	Type      ItemType
	Power     int64
	Defense   int64
	Magic     int64
	CreatedAt time.Time
}

// Participant tracks per-identity progression. Created lazily on first
// exploration, never deleted.
type Participant struct {
	Address             string
	TotalExplorations   int64
	TotalItemsFound     int64
	LastExplorationTime time.Time
}

// Event kinds recorded in the append-only event log.
const (
	EventExplorationCompleted = "exploration_completed"
	EventItemTraded           = "item_traded"
	EventItemsUpgraded        = "items_upgraded"
)

type ExplorationCompleted struct {
	Caller string `json:"caller"`
	Level  int    `json:"level"`
	ItemID int64  `json:"item_id"`
	Rarity Rarity `json:"rarity"`
}

type ItemTraded struct {
	ItemID int64  `json:"item_id"`
	From   string `json:"from"`
	To     string `json:"to"`
	Price  int64  `json:"price"`
}

type ItemsUpgraded struct {
	Caller    string  `json:"caller"`
	BurnedIDs []int64 `json:"burned_ids"`
	NewItemID int64   `json:"new_item_id"`
}

// Event is one append-only log entry. Payload holds the JSON encoding of one
// of the typed payloads above, selected by Kind.
type Event struct {
	ID        string
	Kind      string
	Payload   []byte
	CreatedAt time.Time
}
