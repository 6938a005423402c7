package encounter

import "github.com/reddust-rpg/reddust/internal/model"

// identity returns neutral phase stat modifiers.
func identity() model.StatModifiers {
	return model.StatModifiers{Damage: 1, Defense: 1, Speed: 1, Evasion: 1}
}

// gunslingerDef is the canonical three-phase fixture: health 1000, phases at
// 100/60/25, a zero-cooldown filler and a phase-2 heavy hitter on cooldown.
func gunslingerDef() *model.EncounterDefinition {
	return &model.EncounterDefinition{
		ID:          "gunslinger",
		Name:        "The Gunslinger",
		BaseHealth:  1000,
		BaseDamage:  100,
		Defense:     0,
		PlayerLimit: 4,
		Phases: []model.Phase{
			{Number: 1, Name: "Opening", HealthThreshold: 100, Abilities: []string{"a"}, Modifiers: identity()},
			{Number: 2, Name: "Wounded", HealthThreshold: 60, Abilities: []string{"a", "b"}, Modifiers: identity()},
			{Number: 3, Name: "Cornered", HealthThreshold: 25, Abilities: []string{"a", "b"}, Modifiers: identity()},
		},
		Abilities: []model.Ability{
			{ID: "a", Name: "Snap Shot", Cooldown: 0, Priority: 1,
				Damage: 50, DamageType: model.DamagePhysical, TargetType: model.TargetSingle},
			{ID: "b", Name: "Aimed Shot", Cooldown: 3, Priority: 5, RequiresPhase: 2,
				Damage: 120, DamageType: model.DamagePhysical, TargetType: model.TargetSingle},
		},
	}
}

// soloRoster returns a single sturdy participant hitting for the given power.
func soloRoster(attack float64) []model.Participant {
	return []model.Participant{
		{ID: "tex", Name: "Tex", MaxHealth: 5000, AttackPower: attack, DamageType: model.DamagePhysical},
	}
}

// attackIntent is the plain attack for a participant id.
func attackIntent(id string) model.Intent {
	return model.Intent{ParticipantID: id, Kind: model.IntentAttack}
}
