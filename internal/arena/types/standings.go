package types

import (
	"bytes"
	"encoding/json"
	"sort"

	"pokerarena/internal/arenacrypto"
)

// Standing is one player's line in a tournament's final standings.
type Standing struct {
	Rank          uint16              `json:"rank"`
	Wallet        arenacrypto.Address `json:"wallet"`
	AgentName     string              `json:"agent_name"`
	PointsAwarded uint64              `json:"points_awarded"`
	HandsPlayed   uint32              `json:"hands_played"`
	Eliminations  uint8               `json:"eliminations"`
}

// Standings is the off-ledger document whose digest is committed as a
// tournament's results hash.
type Standings struct {
	TournamentID uint64     `json:"tournament_id"`
	Standings    []Standing `json:"standings"`
}

// Canonical returns a copy ordered by rank, ties broken by wallet.
func (s Standings) Canonical() Standings {
	out := Standings{TournamentID: s.TournamentID, Standings: append([]Standing{}, s.Standings...)}
	sort.SliceStable(out.Standings, func(i, j int) bool {
		a, b := out.Standings[i], out.Standings[j]
		if a.Rank != b.Rank {
			return a.Rank < b.Rank
		}
		return bytes.Compare(a.Wallet[:], b.Wallet[:]) < 0
	})
	return out
}

// Hash is sha256 over the compact JSON encoding of the canonical standings.
func (s Standings) Hash() (arenacrypto.Hash, error) {
	bz, err := json.Marshal(s.Canonical())
	if err != nil {
		return arenacrypto.Hash{}, err
	}
	return arenacrypto.Sum256(bz), nil
}

// StandingsFromRegistrations builds standings from every registration that
// has a recorded result.
func StandingsFromRegistrations(tournamentID uint64, regs []Registration) Standings {
	s := Standings{TournamentID: tournamentID, Standings: []Standing{}}
	for _, r := range regs {
		if !r.HasResult() {
			continue
		}
		line := Standing{
			Rank:      *r.FinalRank,
			Wallet:    r.Wallet,
			AgentName: r.AgentName,
		}
		if r.PointsAwarded != nil {
			line.PointsAwarded = *r.PointsAwarded
		}
		if r.HandsPlayed != nil {
			line.HandsPlayed = *r.HandsPlayed
		}
		if r.Eliminations != nil {
			line.Eliminations = *r.Eliminations
		}
		s.Standings = append(s.Standings, line)
	}
	return s.Canonical()
}
