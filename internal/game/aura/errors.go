package aura

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrBookkeeping marks a broken container invariant: counter underflow,
	// double apply or misapply without apply. Always a programming error.
	ErrBookkeeping = errors.New("aura bookkeeping violated")

	// ErrAlreadyApplied is wrapped by ErrBookkeeping panics on double apply.
	ErrAlreadyApplied = errors.New("aura already applied")
)

// invariant logs and panics. Bookkeeping drift corrupts every later
// computation on the unit, so it is never recovered locally.
func invariant(cause error, msg string, args ...any) {
	err := fmt.Errorf("%w: %w", ErrBookkeeping, cause)
	slog.Error(msg, append(args, "error", err)...)
	panic(err)
}

// errCounterUnderflow is the cause for negative per-type counters.
var errCounterUnderflow = errors.New("effect type counter underflow")

// errNotApplied is the cause for misapply of an aura that was never applied.
var errNotApplied = errors.New("aura not applied")

// errSlotTaken is the cause for a reserved slot filled by removal handlers.
// Undo handlers only free slots; new auras from them are deferred.
var errSlotTaken = errors.New("reserved aura slot taken")
