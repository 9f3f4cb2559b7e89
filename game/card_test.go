package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildDeckDeterministic(t *testing.T) {
	mk := func() []*Card {
		return BuildDeck(NewRNG(5), "alice", 2, Unlocks{})
	}
	require.Equal(t, mk(), mk())
	require.Len(t, mk(), DeckSize)
}

func TestBuildDeckRespectsUnlocks(t *testing.T) {
	t.Run("locked pools never appear", func(t *testing.T) {
		deck := BuildDeck(NewRNG(5), "alice", 2, Unlocks{})
		for _, c := range deck {
			require.False(t, c.Color.Wildcard(), "no wildcards without the unlock")
			require.False(t, c.Stone, "no stones without the unlock")
		}
	})

	t.Run("stone quota caps at two", func(t *testing.T) {
		for seed := uint32(1); seed <= 20; seed++ {
			stones := 0
			for _, c := range BuildDeck(NewRNG(seed), "alice", 2, Unlocks{Stone: true}) {
				if c.Stone {
					stones++
				}
			}
			require.LessOrEqual(t, stones, 2)
		}
	})
}

func TestStartingDeckArchetypes(t *testing.T) {
	t.Run("balanced spreads the colors", func(t *testing.T) {
		deck := BuildStartingDeck(NewRNG(9), "alice", DeckBalanced)
		counts := map[Color]int{}
		for _, c := range deck {
			counts[c.Color]++
		}
		for _, color := range PlayColors {
			require.GreaterOrEqual(t, counts[color], 2, "every color shows up in a balanced deck")
		}
	})

	t.Run("starting decks stay in the base pool", func(t *testing.T) {
		for _, a := range []DeckArchetype{DeckFocused, DeckBalanced, DeckRandom} {
			for _, c := range BuildStartingDeck(NewRNG(3), "alice", a) {
				require.False(t, c.Color.Wildcard())
				require.False(t, c.Stone)
			}
		}
	})
}

func TestCardPrice(t *testing.T) {
	small := &Card{Shape: parseShape("X"), Color: ColorYellow}
	big := &Card{Shape: parseShape("XXXXX"), Color: ColorYellow}
	require.Greater(t, CardPrice(big), CardPrice(small), "bigger shapes cost more")

	wild := &Card{Shape: parseShape("X"), Color: ColorWild}
	require.Equal(t, CardPrice(small)+wildcardPremium, CardPrice(wild))

	stone := &Card{Shape: parseShape("X"), Color: ColorYellow, Stone: true}
	require.Equal(t, CardPrice(small)+stonePremium, CardPrice(stone))
}

func TestZoneColorMapping(t *testing.T) {
	require.Equal(t, ColorYellow, ZoneColor(ZoneColumn))
	require.Equal(t, ColorGreen, ZoneColor(ZoneMaze))
	require.Equal(t, ColorBlue, ZoneColor(ZoneTower))
	require.Equal(t, ColorRed, ZoneColor(ZoneSubgrid))
	require.Equal(t, ColorPurple, ZoneColor(ZoneRing))
}
