package models

// Team is immutable reference data installed by the seed migration.
type Team struct {
	ID   ID[Team] `db:"id" json:"id"`
	Name string   `db:"name" json:"name"`
}
