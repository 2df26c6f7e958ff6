package aura

import (
	"log/slog"
	"slices"

	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/model"
)

// formInfo describes what a shapeshift form changes on its owner.
type formInfo struct {
	allianceModel uint32
	hordeModel    uint32
	power         model.PowerType
	changesPower  bool
	// spells are cast on entering the form and removed on leaving it.
	spells []uint32
}

var forms = map[data.ShapeshiftForm]formInfo{
	data.FormCat:             {allianceModel: 892, hordeModel: 8571, power: model.PowerEnergy, changesPower: true, spells: []uint32{3025}},
	data.FormTree:            {allianceModel: 864, hordeModel: 864, spells: []uint32{5420, 34123}},
	data.FormTravel:          {allianceModel: 632, hordeModel: 632, spells: []uint32{5419}},
	data.FormAqua:            {allianceModel: 2428, hordeModel: 2428},
	data.FormBear:            {allianceModel: 2281, hordeModel: 2289, power: model.PowerRage, changesPower: true, spells: []uint32{1178, 21178}},
	data.FormDireBear:        {allianceModel: 2281, hordeModel: 2289, power: model.PowerRage, changesPower: true, spells: []uint32{9635, 21178}},
	data.FormGhoul:           {allianceModel: 10045},
	data.FormCreatureBear:    {allianceModel: 902, hordeModel: 902},
	data.FormGhostWolf:       {allianceModel: 4613, hordeModel: 4613},
	data.FormBattleStance:    {power: model.PowerRage, changesPower: true, spells: []uint32{21156}},
	data.FormDefensiveStance: {power: model.PowerRage, changesPower: true, spells: []uint32{7376}},
	data.FormBerserkerStance: {power: model.PowerRage, changesPower: true, spells: []uint32{7381}},
	data.FormFlightEpic:      {allianceModel: 21243, hordeModel: 21244},
	data.FormFlight:          {allianceModel: 20857, hordeModel: 20872},
	data.FormStealth:         {power: model.PowerEnergy, changesPower: true},
	data.FormMoonkin:         {allianceModel: 15374, hordeModel: 15375, spells: []uint32{24905}},
}

// Talent spells consulted when entering a form.
var furorRanks = []uint32{17056, 17058, 17059, 17060, 17061}

const (
	spellFurorEnergy   uint32 = 17099
	spellFurorRage     uint32 = 17057
	spellStanceMastery uint32 = 12678
	spellTacticalMast  uint32 = 12295
)

// FormSpells returns the spells a form casts on its owner.
func FormSpells(form data.ShapeshiftForm) []uint32 {
	return forms[form].spells
}

// formModel returns the display id of form for u's faction, 0 for none.
func formModel(form data.ShapeshiftForm, u *model.Unit) uint32 {
	info := forms[form]
	if u.Race() == 0 || u.IsAlliance() {
		return info.allianceModel
	}
	return info.hordeModel
}

// handleModShapeShift switches display, power type and form passives.
// Passives of the old form are removed through the timer queue: undo may
// run inside another aura's add, which must not remove auras it is about
// to observe.
func handleModShapeShift(e *Effect, apply, _ bool) {
	form := data.ShapeshiftForm(e.MiscValue())
	c := e.container()
	u := c.owner
	info := forms[form]

	if apply {
		if id := formModel(form, u); id != 0 {
			u.SetUInt32Value(model.FieldDisplayID, id)
		}
		u.SetShapeShiftForm(uint8(form))

		if info.changesPower && u.PowerType() != info.power {
			u.SetPowerType(info.power)
			if u.Class() != model.ClassWarrior {
				u.SetPower(model.PowerRage, 0)
				u.SetPower(model.PowerEnergy, 0)
			}
		}

		switch form {
		case data.FormCat, data.FormBear, data.FormDireBear:
			procFuror(c, form)
		case data.FormBattleStance, data.FormDefensiveStance, data.FormBerserkerStance:
			retainRage(c)
		}
	} else {
		u.SetShapeShiftForm(uint8(data.FormNone))
		restoreDisplay(c)
		if u.PowerType() != u.ClassPowerType() {
			u.SetPowerType(u.ClassPowerType())
			u.SetPower(model.PowerRage, 0)
			u.SetPower(model.PowerEnergy, 0)
		}
	}

	u.UpdateAllStats()

	env := c.env
	if apply {
		if env.Caster == nil {
			return
		}
		for _, id := range info.spells {
			env.Caster.CastTriggered(c, u.GUID(), id)
		}
		return
	}

	for _, id := range info.spells {
		env.Timers.Post(func() {
			current := data.ShapeshiftForm(u.ShapeShiftForm())
			removeFormSpell(c, id, slices.Contains(FormSpells(current), id))
		})
	}
}

// removeFormSpell drops the auras of a form spell. A form entered in the
// meantime may have cast the same spell again; keepNewest spares that one.
func removeFormSpell(c *Container, spellID uint32, keepNewest bool) {
	var held []*Aura
	for _, a := range c.auras {
		if a.state == stateApplied && a.spell.ID == spellID {
			held = append(held, a)
		}
	}
	if keepNewest && len(held) > 0 {
		held = held[:len(held)-1]
	}
	for _, a := range held {
		if a.state == stateApplied {
			c.RemoveAura(a)
		}
	}
}

// procFuror rolls the Furor talent for a free resource burst.
func procFuror(c *Container, form data.ShapeshiftForm) {
	var chance int32
	c.ForEachAuraOfType(data.AuraDummy, func(e *Effect) bool {
		if slices.Contains(furorRanks, e.aura.spell.ID) {
			chance = e.basePoints
			return false
		}
		return true
	})
	if chance <= 0 || !c.env.rollChance(chance) || c.env.Caster == nil {
		return
	}

	spellID := spellFurorRage
	if form == data.FormCat {
		spellID = spellFurorEnergy
	}
	slog.Debug("furor proc", "owner", c.owner.GUID(), "spell", spellID)
	c.env.Caster.CastTriggered(c, c.owner.GUID(), spellID)
}

// retainRage caps rage on stance change to what Stance and Tactical
// Mastery allow.
func retainRage(c *Container) {
	var rage int32
	for e := range c.EffectsOfType(data.AuraDummy) {
		base := e.aura.spell.BaseID
		if base == spellStanceMastery || base == spellTacticalMast {
			rage += e.basePoints * 10
		}
	}
	u := c.owner
	if u.Power(model.PowerRage) > rage {
		u.SetPower(model.PowerRage, rage)
	}
}
