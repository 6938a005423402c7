package data

import (
	"testing"

	"github.com/reddust-rpg/reddust/internal/model"
)

func TestDefault_LoadsEmbeddedContent(t *testing.T) {
	t.Parallel()

	reg, err := Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}
	if reg.Len() < 2 {
		t.Fatalf("expected at least 2 embedded encounters, got %d", reg.Len())
	}

	def, ok := reg.Get("six_graves_calloway")
	if !ok {
		t.Fatal("six_graves_calloway not loaded")
	}
	if def.Name != "Butch Calloway" {
		t.Errorf("name = %q", def.Name)
	}
	if len(def.Phases) != 3 {
		t.Fatalf("expected 3 phases, got %d", len(def.Phases))
	}

	// Phase numbers assigned from declaration order.
	for i, p := range def.Phases {
		if p.Number != i+1 {
			t.Errorf("phase[%d].Number = %d", i, p.Number)
		}
	}

	// Unset modifiers normalized to identity.
	if def.Phases[0].Modifiers.Damage != 1.0 || def.Phases[0].Modifiers.Defense != 1.0 {
		t.Errorf("phase 1 modifiers not normalized: %+v", def.Phases[0].Modifiers)
	}
	// Declared modifiers survive.
	if def.Phases[2].Modifiers.Damage != 1.5 {
		t.Errorf("phase 3 damage modifier = %v, want 1.5", def.Phases[2].Modifiers.Damage)
	}

	if _, ok := reg.Get("blackpine_wendigo"); !ok {
		t.Fatal("blackpine_wendigo not loaded")
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	t.Parallel()

	reg, err := Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}
	if _, ok := reg.Get("no_such_encounter"); ok {
		t.Error("expected miss for unknown id")
	}
}

// validDef builds a minimal definition that passes validation; tests mutate
// copies of it to probe individual rules.
func validDef() model.EncounterDefinition {
	def := model.EncounterDefinition{
		ID:          "test_boss",
		Name:        "Test Boss",
		BaseHealth:  1000,
		BaseDamage:  50,
		PlayerLimit: 4,
		Phases: []model.Phase{
			{HealthThreshold: 100, Abilities: []string{"claw"}},
			{HealthThreshold: 50, Abilities: []string{"claw", "slam"}},
		},
		Abilities: []model.Ability{
			{ID: "claw", Cooldown: 0, Priority: 1, Damage: 20, DamageType: model.DamagePhysical, TargetType: model.TargetSingle},
			{ID: "slam", Cooldown: 3, Priority: 5, RequiresPhase: 2, Damage: 60, DamageType: model.DamagePhysical, TargetType: model.TargetAll},
		},
	}
	normalizeDefinition(&def)
	return def
}

func TestValidateDefinition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*model.EncounterDefinition)
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(d *model.EncounterDefinition) {},
		},
		{
			name: "thresholds not strictly decreasing",
			mutate: func(d *model.EncounterDefinition) {
				d.Phases[1].HealthThreshold = 100
			},
			wantErr: true,
		},
		{
			name: "first threshold not 100",
			mutate: func(d *model.EncounterDefinition) {
				d.Phases[0].HealthThreshold = 90
			},
			wantErr: true,
		},
		{
			name: "undeclared ability referenced",
			mutate: func(d *model.EncounterDefinition) {
				d.Phases[0].Abilities = append(d.Phases[0].Abilities, "ghost_ability")
			},
			wantErr: true,
		},
		{
			name: "requires_phase past phase count",
			mutate: func(d *model.EncounterDefinition) {
				d.Abilities[1].RequiresPhase = 7
			},
			wantErr: true,
		},
		{
			name: "phase without zero-cooldown ability",
			mutate: func(d *model.EncounterDefinition) {
				d.Phases[0].Abilities = []string{"slam"}
			},
			wantErr: true,
		},
		{
			name: "stackable effect without max_stacks",
			mutate: func(d *model.EncounterDefinition) {
				d.Abilities[0].Effect = &model.EffectTemplate{
					Kind: model.EffectBleed, Power: 5, Duration: 3, Stackable: true,
				}
			},
			wantErr: true,
		},
		{
			name: "unknown effect kind",
			mutate: func(d *model.EncounterDefinition) {
				d.Abilities[0].Effect = &model.EffectTemplate{
					Kind: "hiccups", Power: 5, Duration: 3, MaxStacks: 1,
				}
			},
			wantErr: true,
		},
		{
			name: "periodic trigger without interval",
			mutate: func(d *model.EncounterDefinition) {
				d.EnvironmentEffects = []model.EnvironmentEffect{
					{ID: "dust", Trigger: model.TriggerPeriodic, Target: model.TargetPlayers, Damage: 10},
				}
			},
			wantErr: true,
		},
		{
			name: "unknown trigger token",
			mutate: func(d *model.EncounterDefinition) {
				d.EnvironmentEffects = []model.EnvironmentEffect{
					{ID: "dust", Trigger: "full_moon", Target: model.TargetPlayers, Damage: 10},
				}
			},
			wantErr: true,
		},
		{
			name: "player limit zero",
			mutate: func(d *model.EncounterDefinition) {
				d.PlayerLimit = 0
			},
			wantErr: true,
		},
		{
			name: "unlock references undeclared mechanic",
			mutate: func(d *model.EncounterDefinition) {
				d.Scaling.UnlockMechanics = []model.MechanicUnlock{
					{MechanicID: "nope", PlayerCount: 2},
				}
			},
			wantErr: true,
		},
		{
			name: "unlock player count above limit",
			mutate: func(d *model.EncounterDefinition) {
				d.SpecialMechanics = []model.SpecialMechanic{
					{ID: "rope", OnSuccess: model.MechanicBranch{Damage: 10, Target: model.TargetBoss}},
				}
				d.Scaling.UnlockMechanics = []model.MechanicUnlock{
					{MechanicID: "rope", PlayerCount: 9},
				}
			},
			wantErr: true,
		},
		{
			name: "flee consequence without can_flee",
			mutate: func(d *model.EncounterDefinition) {
				d.FleeConsequence = &model.EffectTemplate{
					Kind: model.EffectFear, Power: 1, Duration: 2, MaxStacks: 1,
				}
			},
			wantErr: true,
		},
		{
			name: "avoidable ability without avoid mechanic",
			mutate: func(d *model.EncounterDefinition) {
				d.Abilities[0].Avoidable = true
			},
			wantErr: true,
		},
		{
			name: "unknown weakness damage type",
			mutate: func(d *model.EncounterDefinition) {
				d.Weaknesses = map[model.DamageType]float64{"tickle": 2}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			def := validDef()
			tt.mutate(&def)
			err := validateDefinition(&def)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
