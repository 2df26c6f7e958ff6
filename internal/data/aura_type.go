package data

// AuraType identifies the behavior of one aura effect.
// Values follow the client spell data numbering so definition files can be
// exported from it without translation.
type AuraType uint32

const (
	AuraNone                     AuraType = 0
	AuraBindSight                AuraType = 1
	AuraModPossess               AuraType = 2
	AuraPeriodicDamage           AuraType = 3
	AuraDummy                    AuraType = 4
	AuraModConfuse               AuraType = 5
	AuraModCharm                 AuraType = 6
	AuraModFear                  AuraType = 7
	AuraPeriodicHeal             AuraType = 8
	AuraModAttackSpeed           AuraType = 9
	AuraModThreat                AuraType = 10
	AuraModTaunt                 AuraType = 11
	AuraModStun                  AuraType = 12
	AuraModDamageDone            AuraType = 13
	AuraModDamageTaken           AuraType = 14
	AuraDamageShield             AuraType = 15
	AuraModStealth               AuraType = 16
	AuraModStealthDetect         AuraType = 17
	AuraModInvisibility          AuraType = 18
	AuraModInvisibilityDetect    AuraType = 19
	AuraObsModHealth             AuraType = 20
	AuraObsModMana               AuraType = 21
	AuraModResistance            AuraType = 22
	AuraPeriodicTriggerSpell     AuraType = 23
	AuraPeriodicEnergize         AuraType = 24
	AuraModPacify                AuraType = 25
	AuraModRoot                  AuraType = 26
	AuraModSilence               AuraType = 27
	AuraReflectSpells            AuraType = 28
	AuraModStat                  AuraType = 29
	AuraModSkill                 AuraType = 30
	AuraModIncreaseSpeed         AuraType = 31
	AuraModIncreaseMountedSpeed  AuraType = 32
	AuraModDecreaseSpeed         AuraType = 33
	AuraModIncreaseHealth        AuraType = 34
	AuraModIncreaseEnergy        AuraType = 35
	AuraModShapeShift            AuraType = 36
	AuraEffectImmunity           AuraType = 37
	AuraStateImmunity            AuraType = 38
	AuraSchoolImmunity           AuraType = 39
	AuraDamageImmunity           AuraType = 40
	AuraDispelImmunity           AuraType = 41
	AuraProcTriggerSpell         AuraType = 42
	AuraProcTriggerDamage        AuraType = 43
	AuraTrackCreatures           AuraType = 44
	AuraTrackResources           AuraType = 45
	AuraModParryPercent          AuraType = 47
	AuraChannelDeathItem         AuraType = 48
	AuraModDodgePercent          AuraType = 49
	AuraModCritPercent           AuraType = 52
	AuraPeriodicLeech            AuraType = 53
	AuraTransform                AuraType = 56
	AuraModIncreaseSwimSpeed     AuraType = 58
	AuraModScale                 AuraType = 61
	AuraModCastingSpeed          AuraType = 65
	AuraSchoolAbsorb             AuraType = 69
	AuraModPowerCostSchoolPct    AuraType = 72
	AuraMechanicImmunity         AuraType = 77
	AuraMounted                  AuraType = 78
	AuraModDamagePercentDone     AuraType = 79
	AuraModPowerRegen            AuraType = 85
	AuraModDamagePercentTaken    AuraType = 87
	AuraManaShield               AuraType = 97
	AuraModAttackPower           AuraType = 99
	AuraModResistancePct         AuraType = 101
	AuraModTotalThreat           AuraType = 103
	AuraWaterWalk                AuraType = 104
	AuraFeatherFall              AuraType = 105
	AuraHover                    AuraType = 106
	AuraAddFlatModifier          AuraType = 107
	AuraAddPctModifier           AuraType = 108
	AuraModTargetResistance      AuraType = 123
	AuraModIncreaseEnergyPercent AuraType = 132
	AuraModIncreaseHealthPercent AuraType = 133
	AuraModManaRegenInterrupt    AuraType = 134
	AuraModHealingDone           AuraType = 135
	AuraModHealingPct            AuraType = 136
	AuraModTotalStatPercentage   AuraType = 137
	AuraModHaste                 AuraType = 138
	AuraModRangedHaste           AuraType = 140
	AuraModRangedAmmoHaste       AuraType = 141
	AuraModBaseResistancePct     AuraType = 142
	AuraModResistanceExclusive   AuraType = 143
	AuraModResistanceOfStatPct   AuraType = 182
	AuraModRating                AuraType = 189
	AuraFly                      AuraType = 201
	AuraModFlightSpeedMounted    AuraType = 207
	AuraPeriodicDummy            AuraType = 226
)

// IsPeriodic reports whether effects of this type tick on their amplitude.
func (t AuraType) IsPeriodic() bool {
	switch t {
	case AuraPeriodicDamage, AuraPeriodicHeal, AuraPeriodicEnergize,
		AuraPeriodicTriggerSpell, AuraPeriodicLeech, AuraPeriodicDummy,
		AuraObsModHealth, AuraObsModMana:
		return true
	default:
		return false
	}
}
