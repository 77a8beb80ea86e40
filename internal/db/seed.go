package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DemoUser describes a profile created by SeedDemoUsers.
type DemoUser struct {
	Nickname string
	Name     string
	Surname  string
	Bio      string
}

// DemoUsers are the profiles `whisper init --seed` creates.
var DemoUsers = []DemoUser{
	{Nickname: "ana", Name: "Ana", Surname: "Torres", Bio: "Always online."},
	{Nickname: "bruno", Name: "Bruno", Surname: "Sosa", Bio: "Replies eventually."},
	{Nickname: "carla", Name: "Carla", Surname: "Méndez", Bio: ""},
}

// SeedDemoUsers inserts the demo profiles that do not exist yet and returns
// the number created. Existing nicknames are left untouched.
func SeedDemoUsers(db *sql.DB) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	created := 0
	now := time.Now().UTC().Format(TimeLayout)
	for _, u := range DemoUsers {
		res, err := tx.Exec(
			"INSERT OR IGNORE INTO users (id, nickname, name, surname, bio, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			uuid.NewString(), u.Nickname, u.Name, u.Surname, u.Bio, now,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to seed user %s: %w", u.Nickname, err)
		}
		n, _ := res.RowsAffected()
		created += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seed: %w", err)
	}
	return created, nil
}
