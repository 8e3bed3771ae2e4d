package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/totorewa/folderbot/internal/player"
)

const playerColumns = `username, nick, files, last_message, death, deaths,
	sent_messages, sent_commands, trident_acc, max_trident, tridents_rolled,
	rolled_250s, last_tridents, enchants_rolled, gp_rolled, gp_acc, best_gp,
	max_gp_rolled`

// PlayerRepository stores player records in the players table.
// It implements player.Store.
type PlayerRepository struct {
	db *pgxpool.Pool
}

// NewPlayerRepository creates a PlayerRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// LoadAll returns every stored player ordered by username.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *PlayerRepository) LoadAll(ctx context.Context) ([]player.Player, error) {
	rows, err := r.db.Query(ctx, `SELECT `+playerColumns+` FROM players ORDER BY username ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing players: %w", err)
	}
	defer rows.Close()

	players := make([]player.Player, 0)
	for rows.Next() {
		var (
			p      player.Player
			recent []int64
		)
		if err := rows.Scan(
			&p.Username, &p.Nick, &p.Files, &p.LastMessage, &p.Death, &p.Deaths,
			&p.SentMessages, &p.SentCommands, &p.TridentAcc, &p.MaxTrident, &p.TridentsRolled,
			&p.Rolled250s, &recent, &p.EnchantsRolled, &p.GPRolled, &p.GPAcc, &p.BestGP,
			&p.MaxGPRolled,
		); err != nil {
			return nil, fmt.Errorf("scanning player row: %w", err)
		}
		copy(p.LastTridents[:], recent)
		players = append(players, p)
	}
	return players, rows.Err()
}

// SaveAll upserts every player and removes rows for players not in the set,
// in a single transaction.
//
// Postcondition: On success the table holds exactly players.
func (r *PlayerRepository) SaveAll(ctx context.Context, players []player.Player) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		names := make([]string, len(players))
		for i, p := range players {
			names[i] = p.Username
			batch.Queue(`
				INSERT INTO players (`+playerColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
				ON CONFLICT (username) DO UPDATE SET
					nick = EXCLUDED.nick,
					files = EXCLUDED.files,
					last_message = EXCLUDED.last_message,
					death = EXCLUDED.death,
					deaths = EXCLUDED.deaths,
					sent_messages = EXCLUDED.sent_messages,
					sent_commands = EXCLUDED.sent_commands,
					trident_acc = EXCLUDED.trident_acc,
					max_trident = EXCLUDED.max_trident,
					tridents_rolled = EXCLUDED.tridents_rolled,
					rolled_250s = EXCLUDED.rolled_250s,
					last_tridents = EXCLUDED.last_tridents,
					enchants_rolled = EXCLUDED.enchants_rolled,
					gp_rolled = EXCLUDED.gp_rolled,
					gp_acc = EXCLUDED.gp_acc,
					best_gp = EXCLUDED.best_gp,
					max_gp_rolled = EXCLUDED.max_gp_rolled,
					updated_at = NOW()`,
				p.Username, p.Nick, p.Files, p.LastMessage, p.Death, p.Deaths,
				p.SentMessages, p.SentCommands, p.TridentAcc, p.MaxTrident, p.TridentsRolled,
				p.Rolled250s, p.LastTridents[:], p.EnchantsRolled, p.GPRolled, p.GPAcc, p.BestGP,
				p.MaxGPRolled,
			)
		}
		batch.Queue(`DELETE FROM players WHERE NOT (username = ANY($1))`, names)

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("saving players: %w", err)
		}
		return nil
	})
}
