package world

import (
	"log/slog"

	"github.com/udisondev/auracore/internal/model"
)

// LogListener logs aura slot changes at debug level.
type LogListener struct{}

func (LogListener) AuraUpdated(owner *model.Unit, slot uint8, spellID uint32, duration, maxDuration int32) {
	if spellID == 0 {
		slog.Debug("aura slot cleared", "guid", owner.GUID(), "slot", slot)
		return
	}
	slog.Debug("aura slot updated",
		"guid", owner.GUID(),
		"slot", slot,
		"spell", spellID,
		"duration", duration,
		"maxDuration", maxDuration)
}

// LogItemGranter records granted items in the log. Inventories live outside
// this server; a real granter forwards to them.
type LogItemGranter struct{}

func (LogItemGranter) CreateItems(owner *model.Unit, itemID uint32, count uint32) error {
	slog.Info("item granted", "guid", owner.GUID(), "item", itemID, "count", count)
	return nil
}
