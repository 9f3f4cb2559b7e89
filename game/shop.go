package game

import "fmt"

// ShopItemKind is the closed set of purchasable things between levels.
type ShopItemKind string

const (
	ItemBonusCharge ShopItemKind = "bonus_charge" // one-shot, pick a color
	ItemRandomCard  ShopItemKind = "random_card"  // one-shot
	ItemTimeBomb    ShopItemKind = "time_bomb"    // one-shot
	ItemUnlockWild  ShopItemKind = "unlock_wild"
	ItemUnlockPrism ShopItemKind = "unlock_prism"
	ItemUnlockStone ShopItemKind = "unlock_stone"
	ItemCardOffer   ShopItemKind = "card_offer"
)

// oneShotKinds are purchasable at most once per shopping round per player.
var oneShotKinds = map[ShopItemKind]bool{
	ItemBonusCharge: true,
	ItemRandomCard:  true,
	ItemTimeBomb:    true,
}

// ShopItem is one entry in the catalog or in a player's card offers.
type ShopItem struct {
	ID        string       `json:"id"`
	Kind      ShopItemKind `json:"kind"`
	Cost      int          `json:"cost"`
	Card      *Card        `json:"card,omitempty"`
	Concealed bool         `json:"concealed,omitempty"`
}

// ShopState lives on the GameState during the shopping phase and is
// discarded when the next level starts.
type ShopState struct {
	Catalog []*ShopItem `json:"catalog"`
	// Offers are the per-player card offers: two open, one concealed.
	Offers map[string][]*ShopItem `json:"offers"`
	// Purchased tracks one-shot kinds already bought this round.
	Purchased map[string][]ShopItemKind `json:"purchased"`
	// FreePick holds the pending 3-choice pick granted by an unlock.
	FreePick map[string][]*Card `json:"freePick"`
	Ready    map[string]bool    `json:"ready"`
}

const (
	costBonusCharge = 3
	costRandomCard  = 4
	costTimeBomb    = 5
	costUnlockStone = 7
	costUnlockWild  = 8
	costUnlockPrism = 10

	wildcardPremium = 2
	stonePremium    = 1
)

// NewShop builds the standing catalog plus every player's card offers for
// this shopping round, all from sub-seeded streams.
func NewShop(gs *GameState) *ShopState {
	s := &ShopState{
		Catalog: []*ShopItem{
			{ID: "bonus-charge", Kind: ItemBonusCharge, Cost: costBonusCharge},
			{ID: "random-card", Kind: ItemRandomCard, Cost: costRandomCard},
			{ID: "time-bomb", Kind: ItemTimeBomb, Cost: costTimeBomb},
			{ID: "unlock-stone", Kind: ItemUnlockStone, Cost: costUnlockStone},
			{ID: "unlock-wild", Kind: ItemUnlockWild, Cost: costUnlockWild},
			{ID: "unlock-prism", Kind: ItemUnlockPrism, Cost: costUnlockPrism},
		},
		Offers:    map[string][]*ShopItem{},
		Purchased: map[string][]ShopItemKind{},
		FreePick:  map[string][]*Card{},
		Ready:     map[string]bool{},
	}
	for _, id := range gs.Order {
		p := gs.Players[id]
		r := NewRNG(SubSeed(gs.Seed, gs.Level, "shop:"+id))
		offers := make([]*ShopItem, 0, 3)
		for i := 0; i < 3; i++ {
			card := &Card{
				ID:    fmt.Sprintf("%s-shop-l%d-%d", id, gs.Level, i),
				Shape: drawShape(r),
				Color: drawColor(r, p.Unlocks),
			}
			offers = append(offers, &ShopItem{
				ID:        card.ID,
				Kind:      ItemCardOffer,
				Cost:      CardPrice(card),
				Card:      card,
				Concealed: i == 2,
			})
		}
		s.Offers[id] = offers
	}
	return s
}

// CardPrice prices a card offer by cell count, with a premium for wildcard
// and stone cards.
func CardPrice(c *Card) int {
	price := c.CellCount()
	if c.Color.Wildcard() {
		price += wildcardPremium
	}
	if c.Stone {
		price += stonePremium
	}
	return price
}

// Item resolves an item id against the catalog and the player's own offers.
func (s *ShopState) Item(playerID, itemID string) *ShopItem {
	for _, it := range s.Catalog {
		if it.ID == itemID {
			return it
		}
	}
	for _, it := range s.Offers[playerID] {
		if it.ID == itemID {
			return it
		}
	}
	return nil
}

// AlreadyBought reports whether the player used up a one-shot this round.
func (s *ShopState) AlreadyBought(playerID string, kind ShopItemKind) bool {
	for _, k := range s.Purchased[playerID] {
		if k == kind {
			return true
		}
	}
	return false
}

// MarkBought records a one-shot purchase for the round.
func (s *ShopState) MarkBought(playerID string, kind ShopItemKind) {
	s.Purchased[playerID] = append(s.Purchased[playerID], kind)
}

// RemoveOffer drops a bought card offer from the player's list.
func (s *ShopState) RemoveOffer(playerID, itemID string) {
	offers := s.Offers[playerID]
	for i, it := range offers {
		if it.ID == itemID {
			s.Offers[playerID] = append(offers[:i], offers[i+1:]...)
			return
		}
	}
}

// GenerateFreePick builds the three options granted by an unlock purchase.
// The options match the unlock: wildcard colors for the wildcard unlocks,
// blocking shapes for the stone unlock.
func GenerateFreePick(seed uint32, level int, playerID string, kind ShopItemKind) []*Card {
	r := NewRNG(SubSeed(seed, level, "freepick:"+string(kind)+":"+playerID))
	picks := make([]*Card, 0, 3)
	for i := 0; i < 3; i++ {
		card := &Card{
			ID:    fmt.Sprintf("%s-pick-l%d-%d", playerID, level, i),
			Shape: drawShape(r),
		}
		switch kind {
		case ItemUnlockWild:
			card.Color = ColorWild
		case ItemUnlockPrism:
			card.Color = ColorPrism
		case ItemUnlockStone:
			card.Color = PickRNG(r, PlayColors)
			card.Stone = true
		}
		picks = append(picks, card)
	}
	return picks
}

// RandomShopCard draws the card granted by the random-card one-shot.
func RandomShopCard(gs *GameState, p *Player) *Card {
	r := NewRNG(SubSeed(gs.Seed, gs.Level, "shoprandom:"+p.ID))
	return &Card{
		ID:    fmt.Sprintf("%s-rand-l%d", p.ID, gs.Level),
		Shape: drawShape(r),
		Color: drawColor(r, p.Unlocks),
	}
}
