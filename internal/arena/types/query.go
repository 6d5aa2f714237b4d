package types

import "pokerarena/internal/arenacrypto"

const (
	DefaultLeaderboardPerPage = 50
	MaxLeaderboardPerPage     = 100
)

type LeaderboardEntry struct {
	Rank  int         `json:"rank"`
	Stats PlayerStats `json:"stats"`
}

type LeaderboardResponse struct {
	Page    int                `json:"page"`
	PerPage int                `json:"per_page"`
	Total   int                `json:"total"`
	Entries []LeaderboardEntry `json:"entries"`
}

// StandingsResponse pairs the standings rebuilt from recorded results with
// the hash committed at finalization.
type StandingsResponse struct {
	Standings   Standings         `json:"standings"`
	Hash        arenacrypto.Hash  `json:"hash"`
	ResultsHash *arenacrypto.Hash `json:"results_hash,omitempty"`
	Complete    bool              `json:"complete"`
	Matches     bool              `json:"matches"`
}
