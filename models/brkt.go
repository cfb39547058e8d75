package models

import "time"

// Brkt — настройки одного вида брекетов в дивизионе/скваде.
type Brkt struct {
	ID              string    `json:"id" db:"id"`
	DivID           string    `json:"div_id" db:"div_id"`
	SquadID         string    `json:"squad_id" db:"squad_id"`
	Start           int       `json:"start" db:"start"` // first game of the bracket
	Games           int       `json:"games" db:"games"`
	PlayersPerMatch int       `json:"players_per_match" db:"players_per_match"`
	Locked          bool      `json:"locked" db:"locked"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// BrktEntry is a player's request for some number of brackets.
type BrktEntry struct {
	ID          string    `json:"id" db:"id"`
	BrktID      string    `json:"brkt_id" db:"brkt_id"`
	PlayerID    string    `json:"player_id" db:"player_id"`
	NumBrackets int       `json:"num_brackets" db:"num_brackets"`
	TimeStamp   int64     `json:"time_stamp" db:"time_stamp"` // unix ms, allocation tie-break
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// OneBrkt is one persisted bracket instance.
type OneBrkt struct {
	ID     string     `json:"id" db:"id"`
	BrktID string     `json:"brkt_id" db:"brkt_id"`
	BIndex int        `json:"bindex" db:"bindex"`
	Seeds  []BrktSeed `json:"seeds,omitempty" db:"-"`
}

// BrktSeed places a player at a seed position (0-based) of a OneBrkt.
type BrktSeed struct {
	OneBrktID string `json:"one_brkt_id" db:"one_brkt_id"`
	SeedIndex int    `json:"seed_index" db:"seed_index"`
	PlayerID  string `json:"player_id" db:"player_id"`
}
