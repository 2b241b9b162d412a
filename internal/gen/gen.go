// Package gen maps a digest and a difficulty level into an item's rarity,
// type, combat stats, and display name. All functions are pure: the same
// digest always yields the same item.
package gen

import (
	"fmt"

	"github.com/vbonduro/relicforge/internal/domain"
	"github.com/vbonduro/relicforge/internal/random"
)

// Each attribute reads its own bit range of the digest so the derived values
// stay uncorrelated: rarity bits [0..], type [8..], power [16..], defense
// [32..], magic [48..].
const (
	typeShift    = 8
	powerShift   = 16
	defenseShift = 32
	magicShift   = 48
)

// Rarity rolls digest mod 1000 against fixed thresholds shifted up by
// level*5. Higher levels widen every tier above Common linearly; tiers are
// never clamped (at level 10 the Legendary window is roll < 60).
func Rarity(d random.Digest, level int) domain.Rarity {
	roll := uint64(d) % 1000
	bonus := uint64(level) * 5

	switch {
	case roll < 10+bonus:
		return domain.RarityLegendary
	case roll < 50+bonus:
		return domain.RarityEpic
	case roll < 150+bonus:
		return domain.RarityRare
	case roll < 350+bonus:
		return domain.RarityUncommon
	default:
		return domain.RarityCommon
	}
}

func ItemType(d random.Digest) domain.ItemType {
	return domain.ItemType((uint64(d)>>typeShift)%4 + 1)
}

// Stats derives combat stats from independent digest slices. Higher rarity
// both widens the range and raises the floor:
//
//	power   ∈ [r*10, r*10 + r*20 - 1]
//	defense ∈ [r*5,  r*5  + r*15 - 1]
//	magic   ∈ [r*8,  r*8  + r*25 - 1]
func Stats(d random.Digest, r domain.Rarity) (power, defense, magic int64) {
	n := int64(r)
	power = int64((uint64(d)>>powerShift)%uint64(n*20)) + n*10
	defense = int64((uint64(d)>>defenseShift)%uint64(n*15)) + n*5
	magic = int64((uint64(d)>>magicShift)%uint64(n*25)) + n*8
	return power, defense, magic
}

var (
	rarityNames = [5]string{"Common", "Uncommon", "Rare", "Epic", "Legendary"}
	typeNames   = [4]string{"Blade", "Aegis", "Talisman", "Elixir"}
)

// Name builds the cosmetic display name, e.g. "Epic Talisman #4217".
func Name(d random.Digest, r domain.Rarity, t domain.ItemType) string {
	return fmt.Sprintf("%s %s #%d", rarityNames[r-1], typeNames[t-1], uint64(d)%9999)
}
