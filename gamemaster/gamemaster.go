// Package gamemaster drives complete offline matches through the command
// surface, with scripted bots standing in for players. It exists for
// simulation and balance runs; the online host lives in server.
package gamemaster

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"terra/engine"
	"terra/game"
)

// Master orchestrates one match between bots.
type Master struct {
	Machine *engine.Machine
	Bots    []Bot

	// MaxTurns caps a single level's turn loop as a safety net.
	MaxTurns int
}

// NewMaster sets up a machine and rosters the bots.
func NewMaster(seed uint32, maxLevels, winTarget int, bots []Bot) (*Master, error) {
	m := engine.New(fmt.Sprintf("sim-%d", seed), seed, maxLevels, winTarget)
	for _, b := range bots {
		if err := m.Join(b.ID(), b.ID()); err != nil {
			return nil, fmt.Errorf("roster %s: %w", b.ID(), err)
		}
	}
	return &Master{Machine: m, Bots: bots, MaxTurns: 1000}, nil
}

// RunMatch plays the match to its end and returns the final state.
func (gm *Master) RunMatch() (*game.GameState, error) {
	m := gm.Machine
	gs := m.State

	if err := m.Start(gs.HostID); err != nil {
		return nil, err
	}
	for _, b := range gm.Bots {
		if err := m.ChooseStartingDeck(b.ID(), b.PickDeck()); err != nil {
			return nil, err
		}
	}

	for gs.Phase != game.PhaseEnded {
		if err := gm.runLevel(); err != nil {
			return nil, err
		}
	}
	log.Info().Msgf("match %s over after %d levels", gs.ID, gs.Level)
	return gs, nil
}

func (gm *Master) runLevel() error {
	m := gm.Machine
	gs := m.State

	for _, b := range gm.Bots {
		p := gs.Players[b.ID()]
		if err := m.ChooseGoal(b.ID(), b.PickGoal(p.ObjectiveOffer)); err != nil {
			return err
		}
	}

	for turns := 0; gs.Phase == game.PhasePlaying; turns++ {
		if turns >= gm.MaxTurns {
			return fmt.Errorf("level %d: no progress after %d turns", gs.Level, turns)
		}
		current := m.CurrentPlayerID()
		bot := gm.bot(current)
		if bot == nil {
			return fmt.Errorf("no bot for player %s", current)
		}
		bot.TakeTurn(m)
	}

	if gs.Phase != game.PhaseLevelComplete {
		return nil
	}
	log.Info().Msgf("match %s level %d winner %s", gs.ID, gs.LastLevel.Level, gs.LastLevel.Winner)

	if err := gm.Machine.StartShopPhase(gs.HostID); err != nil {
		return err
	}
	for _, b := range gm.Bots {
		if _, err := m.ShopReady(b.ID()); err != nil {
			return err
		}
	}
	return nil
}

func (gm *Master) bot(id string) Bot {
	for _, b := range gm.Bots {
		if b.ID() == id {
			return b
		}
	}
	return nil
}
