package model

// Aura slot layout of the client-visible aura fields.
const (
	MaxPositiveAuraSlots = 40
	MaxNegativeAuraSlots = 16
	MaxAuraSlots         = MaxPositiveAuraSlots + MaxNegativeAuraSlots
	// NoAuraSlot marks an aura without a visible slot (passive or hidden).
	NoAuraSlot uint8 = 0xFF
)

// PowerType - тип ресурса юнита.
type PowerType uint8

const (
	PowerMana PowerType = iota
	PowerRage
	PowerFocus
	PowerEnergy
	PowerHappiness

	PowerCount = 5
)

// CombatRatingCount is the number of combat rating kinds.
const CombatRatingCount = 24

// StatCount is the number of primary stats (strength..spirit).
const StatCount = 5

// ResistanceCount is armor plus the six magic schools.
const ResistanceCount = 7

// Update field indices. Each field is one 32-bit value; float fields store
// IEEE-754 bits; byte fields pack four sub-values.
const (
	FieldHealth                      = 0
	FieldMaxHealth                   = FieldHealth + 1
	FieldPower1                      = FieldMaxHealth + 1
	FieldMaxPower1                   = FieldPower1 + PowerCount
	FieldLevel                       = FieldMaxPower1 + PowerCount
	FieldBytes0                      = FieldLevel + 1 // race, class, gender, power type
	FieldFlags                       = FieldBytes0 + 1
	FieldDisplayID                   = FieldFlags + 1
	FieldNativeDisplayID             = FieldDisplayID + 1
	FieldMountDisplayID              = FieldNativeDisplayID + 1
	FieldBytes1                      = FieldMountDisplayID + 1 // stand state, -, visibility, -
	FieldBytes2                      = FieldBytes1 + 1         // -, -, -, shapeshift form
	FieldAuraState                   = FieldBytes2 + 1
	FieldModCastSpeed                = FieldAuraState + 1
	FieldScaleX                      = FieldModCastSpeed + 1
	FieldAttackPower                 = FieldScaleX + 1
	FieldRangedAttackPower           = FieldAttackPower + 1
	FieldBaseAttackTime              = FieldRangedAttackPower + 1 // main hand, off hand, ranged
	FieldStat0                       = FieldBaseAttackTime + 3
	FieldResistance0                 = FieldStat0 + StatCount
	FieldPowerCostMultiplier0        = FieldResistance0 + ResistanceCount
	FieldAuraEffect                  = FieldPowerCostMultiplier0 + ResistanceCount
	FieldAuraFlags                   = FieldAuraEffect + MaxAuraSlots
	FieldAuraLevels                  = FieldAuraFlags + MaxAuraSlots/4
	FieldAuraApplications            = FieldAuraLevels + MaxAuraSlots/4
	FieldModDamageDonePos            = FieldAuraApplications + MaxAuraSlots/4
	FieldModDamageDoneNeg            = FieldModDamageDonePos + ResistanceCount
	FieldModDamageDonePct            = FieldModDamageDoneNeg + ResistanceCount
	FieldModHealingDonePos           = FieldModDamageDonePct + ResistanceCount
	FieldModHealingPct               = FieldModHealingDonePos + 1
	FieldModDamageTakenPct           = FieldModHealingPct + 1
	FieldTrackCreatures              = FieldModDamageTakenPct + 1
	FieldTrackResources              = FieldTrackCreatures + 1
	FieldCharacterBytes2             = FieldTrackResources + 1
	FieldModTargetResistance         = FieldCharacterBytes2 + 1
	FieldModTargetPhysicalResistance = FieldModTargetResistance + 1
	FieldDodgePercent                = FieldModTargetPhysicalResistance + 1
	FieldParryPercent                = FieldDodgePercent + 1
	FieldCritPercent                 = FieldParryPercent + 1
	FieldOffhandCritPercent          = FieldCritPercent + 1
	FieldRangedCritPercent           = FieldOffhandCritPercent + 1
	FieldManaRegen                   = FieldRangedCritPercent + 1
	FieldManaRegenInterrupt          = FieldManaRegen + 1
	FieldCombatRating1               = FieldManaRegenInterrupt + 1
	FieldCount                       = FieldCombatRating1 + CombatRatingCount
)

// Unit flags stored in FieldFlags.
const (
	UnitFlagSilenced  uint32 = 0x00002000
	UnitFlagPacified  uint32 = 0x00020000
	UnitFlagStunned   uint32 = 0x00040000
	UnitFlagInCombat  uint32 = 0x00080000
	UnitFlagConfused  uint32 = 0x00400000
	UnitFlagFleeing   uint32 = 0x00800000
	UnitFlagRooted    uint32 = 0x01000000
	UnitFlagStealthed uint32 = 0x02000000
)

// Aura states toggled by specific auras (FieldAuraState bit = state-1).
const (
	AuraStateDefense      uint8 = 1
	AuraStateHealthLess20 uint8 = 2
	AuraStateBerserking   uint8 = 3
	AuraStateJudgement    uint8 = 5
)

// Classes.
const (
	ClassWarrior uint8 = 1
	ClassPaladin uint8 = 2
	ClassHunter  uint8 = 3
	ClassRogue   uint8 = 4
	ClassPriest  uint8 = 5
	ClassShaman  uint8 = 7
	ClassMage    uint8 = 8
	ClassWarlock uint8 = 9
	ClassDruid   uint8 = 11
)

// Races.
const (
	RaceHuman    uint8 = 1
	RaceOrc      uint8 = 2
	RaceDwarf    uint8 = 3
	RaceNightElf uint8 = 4
	RaceUndead   uint8 = 5
	RaceTauren   uint8 = 6
	RaceGnome    uint8 = 7
	RaceTroll    uint8 = 8
	RaceBloodElf uint8 = 10
	RaceDraenei  uint8 = 11

	// allianceRaceMask has bit (race-1) set for every alliance race.
	allianceRaceMask uint32 = 1<<(RaceHuman-1) | 1<<(RaceDwarf-1) | 1<<(RaceNightElf-1) |
		1<<(RaceGnome-1) | 1<<(RaceDraenei-1)
)
