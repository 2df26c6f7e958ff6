package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/udisondev/auracore/internal/game/aura"
)

var auraColumns = []string{
	"character_guid", "position", "spell_id", "caster_guid", "item_guid",
	"max_duration", "remaining_time", "remaining_charges", "stack_count",
	"base_points0", "base_points1", "base_points2",
}

// AuraRepository хранит сохранённые ауры персонажей.
type AuraRepository struct {
	db *pgxpool.Pool
}

// NewAuraRepository создаёт новый AuraRepository.
func NewAuraRepository(db *pgxpool.Pool) *AuraRepository {
	return &AuraRepository{db: db}
}

// LoadAuras загружает ауры персонажа в порядке сохранения.
func (r *AuraRepository) LoadAuras(ctx context.Context, characterGUID uint64) ([]aura.Record, error) {
	query := `
		SELECT spell_id, caster_guid, item_guid, max_duration, remaining_time,
		       remaining_charges, stack_count, base_points0, base_points1, base_points2
		FROM character_auras
		WHERE character_guid = $1
		ORDER BY position
	`

	rows, err := r.db.Query(ctx, query, int64(characterGUID))
	if err != nil {
		return nil, fmt.Errorf("querying auras for character %d: %w", characterGUID, err)
	}
	defer rows.Close()

	records := make([]aura.Record, 0, 16)
	for rows.Next() {
		var (
			spellID, casterGUID, itemGUID int64
			charges, stacks               int32
			rec                           aura.Record
		)
		if err := rows.Scan(
			&spellID, &casterGUID, &itemGUID, &rec.MaxDuration, &rec.RemainingTime,
			&charges, &stacks, &rec.BasePoints[0], &rec.BasePoints[1], &rec.BasePoints[2],
		); err != nil {
			return nil, fmt.Errorf("scanning aura row: %w", err)
		}
		rec.SpellID = uint32(spellID)
		rec.CasterGUID = uint64(casterGUID)
		rec.ItemGUID = uint64(itemGUID)
		rec.RemainingCharges = uint32(charges)
		rec.StackCount = uint32(stacks)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating aura rows: %w", err)
	}

	return records, nil
}

// SaveAuras перезаписывает ауры персонажа в одной транзакции.
func (r *AuraRepository) SaveAuras(ctx context.Context, characterGUID uint64, records []aura.Record) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // no-op after commit
	}()

	if err := r.SaveAurasTx(ctx, tx, characterGUID, records); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing auras of character %d: %w", characterGUID, err)
	}
	return nil
}

// SaveAurasTx заменяет ауры персонажа внутри внешней транзакции.
func (r *AuraRepository) SaveAurasTx(ctx context.Context, tx pgx.Tx, characterGUID uint64, records []aura.Record) error {
	if _, err := tx.Exec(ctx, `DELETE FROM character_auras WHERE character_guid = $1`, int64(characterGUID)); err != nil {
		return fmt.Errorf("deleting auras of character %d: %w", characterGUID, err)
	}
	if len(records) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(records))
	for i, rec := range records {
		rows = append(rows, []any{
			int64(characterGUID), int32(i), int64(rec.SpellID), int64(rec.CasterGUID), int64(rec.ItemGUID),
			rec.MaxDuration, rec.RemainingTime, int32(rec.RemainingCharges), int32(rec.StackCount),
			rec.BasePoints[0], rec.BasePoints[1], rec.BasePoints[2],
		})
	}

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"character_auras"},
		auraColumns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copying auras of character %d: %w", characterGUID, err)
	}

	slog.Debug("saved character auras", "guid", characterGUID, "rows", n)
	return nil
}

// DeleteAuras удаляет все ауры персонажа.
func (r *AuraRepository) DeleteAuras(ctx context.Context, characterGUID uint64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM character_auras WHERE character_guid = $1`, int64(characterGUID)); err != nil {
		return fmt.Errorf("deleting auras of character %d: %w", characterGUID, err)
	}
	return nil
}
