package aura

import (
	"slices"

	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/model"
)

// ConsumeAbsorb lets held absorb effects soak up to damage points of a hit
// in schoolMask and returns the absorbed amount.
//
// Shields are consumed in insertion order, each by the first effect whose
// misc value covers the school. Mana shields spend MultipleValue mana per
// point and are capped by the owner's mana; the mana is written back once
// at the end. Depleted shields are removed.
func (c *Container) ConsumeAbsorb(damage uint32, schoolMask uint32) uint32 {
	if damage == 0 || (!c.HasAura(data.AuraSchoolAbsorb) && !c.HasAura(data.AuraManaShield)) {
		return 0
	}

	var absorbed uint32
	mana := int64(c.owner.Power(model.PowerMana))
	manaChanged := false

	for _, a := range slices.Clone(c.auras) {
		if a.state != stateApplied {
			continue
		}

		remove := false
		for _, e := range a.effects {
			t := e.Type()
			if t != data.AuraSchoolAbsorb && t != data.AuraManaShield {
				continue
			}
			if uint32(e.MiscValue())&schoolMask == 0 {
				continue
			}

			consumable := uint32(abs(e.basePoints))
			var multiple float32
			if t == data.AuraManaShield {
				multiple = e.def.MultipleValue
				if multiple == 0 {
					multiple = 1
				}
				byMana := uint32(float32(mana) / multiple)
				consumable = min(consumable, byMana)
				if consumable == 0 {
					break
				}
			}

			if consumable >= damage {
				e.SetBasePoints(int32(consumable - damage))
				absorbed += damage
				if t == data.AuraManaShield {
					mana -= int64(float32(damage) * multiple)
					manaChanged = true
				}
				damage = 0
			} else {
				e.SetBasePoints(0)
				absorbed += consumable
				damage -= consumable
				if t == data.AuraManaShield {
					mana -= int64(float32(consumable) * multiple)
					manaChanged = true
				}
			}
			remove = e.basePoints == 0
			break
		}

		if remove && a.state == stateApplied {
			c.RemoveAura(a)
		}
		if damage == 0 {
			break
		}
	}

	if manaChanged {
		c.owner.SetPower(model.PowerMana, int32(max(mana, 0)))
	}
	return absorbed
}

func abs(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
