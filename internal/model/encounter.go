package model

// DamageType classifies damage for weakness/immunity matching.
type DamageType string

const (
	DamagePhysical  DamageType = "physical"
	DamageFire      DamageType = "fire"
	DamagePoison    DamageType = "poison"
	DamageOccult    DamageType = "occult"
	DamageSpirit    DamageType = "spirit"
	DamageExplosive DamageType = "explosive"
)

// TargetType describes who an ability hits.
type TargetType string

const (
	TargetSingle TargetType = "single"
	TargetAll    TargetType = "all"
)

// EffectTarget describes who an environment effect or mechanic branch applies to.
type EffectTarget string

const (
	TargetPlayers EffectTarget = "player"
	TargetBoss    EffectTarget = "boss"
	TargetBoth    EffectTarget = "both"
)

// HazardTrigger describes when an environment effect fires.
type HazardTrigger string

const (
	TriggerStart       HazardTrigger = "start"
	TriggerPeriodic    HazardTrigger = "periodic"
	TriggerPhaseChange HazardTrigger = "phase_change"
)

// EncounterDefinition is the immutable content template for one boss fight.
// Loaded from YAML by the data registry, validated once, never mutated.
type EncounterDefinition struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
	Level int32  `yaml:"level"`

	BaseHealth     float64 `yaml:"base_health"`
	BaseDamage     float64 `yaml:"base_damage"`
	Defense        float64 `yaml:"defense"`
	CriticalChance float64 `yaml:"critical_chance"` // percent
	Evasion        float64 `yaml:"evasion"`         // percent

	// Phases in declaration order; phase numbers (1-based) are assigned at load.
	// Thresholds must be strictly decreasing starting from 100.
	Phases []Phase `yaml:"phases"`

	// Abilities in declaration order. Phase ability lists reference these by id.
	Abilities []Ability `yaml:"abilities"`

	Weaknesses map[DamageType]float64 `yaml:"weaknesses"` // damage type → multiplier (>1)
	Immunities []DamageType           `yaml:"immunities"` // damage type → zero damage

	SpecialMechanics   []SpecialMechanic   `yaml:"special_mechanics"`
	EnvironmentEffects []EnvironmentEffect `yaml:"environment_effects"`

	PlayerLimit int          `yaml:"player_limit"`
	Scaling     ScalingRules `yaml:"scaling"`

	// EnrageTimer is the turn count after which an active session expires.
	// 0 disables the timer.
	EnrageTimer int `yaml:"enrage_timer"`

	CanFlee         bool            `yaml:"can_flee"`
	FleeConsequence *EffectTemplate `yaml:"flee_consequence"`

	Rewards Rewards `yaml:"rewards"`
}

// AbilityByID returns the declared ability with the given id, or nil.
func (d *EncounterDefinition) AbilityByID(id string) *Ability {
	for i := range d.Abilities {
		if d.Abilities[i].ID == id {
			return &d.Abilities[i]
		}
	}
	return nil
}

// PhaseByNumber returns the 1-based phase, or nil if out of range.
func (d *EncounterDefinition) PhaseByNumber(n int) *Phase {
	if n < 1 || n > len(d.Phases) {
		return nil
	}
	return &d.Phases[n-1]
}

// IsImmune reports whether the boss takes zero damage from the given type.
func (d *EncounterDefinition) IsImmune(dt DamageType) bool {
	for _, im := range d.Immunities {
		if im == dt {
			return true
		}
	}
	return false
}

// WeaknessMultiplier returns the boss damage multiplier for the given type
// (1.0 when no weakness is declared).
func (d *EncounterDefinition) WeaknessMultiplier(dt DamageType) float64 {
	if m, ok := d.Weaknesses[dt]; ok && m > 0 {
		return m
	}
	return 1.0
}

// MechanicByID returns the declared special mechanic with the given id, or nil.
func (d *EncounterDefinition) MechanicByID(id string) *SpecialMechanic {
	for i := range d.SpecialMechanics {
		if d.SpecialMechanics[i].ID == id {
			return &d.SpecialMechanics[i]
		}
	}
	return nil
}

// Phase is a health-percentage band with its own ability pool and modifiers.
type Phase struct {
	// Number is 1-based, assigned by the registry loader from declaration order.
	Number int `yaml:"-"`

	Name string `yaml:"name"`

	// HealthThreshold is the health percentage at or below which this phase
	// is active. The deepest satisfied threshold wins.
	HealthThreshold float64 `yaml:"health_threshold"`

	// Abilities usable in this phase, by id, in declaration order.
	// Declaration order is the priority tie-break.
	Abilities []string `yaml:"abilities"`

	Modifiers StatModifiers `yaml:"modifiers"`

	SummonMinions       *MinionSummon     `yaml:"summon_minions"`
	EnvironmentalHazard *ContinuousHazard `yaml:"environmental_hazard"`
}

// StatModifiers multiply boss stats while a phase is active.
// Zero values are normalized to 1.0 at load.
type StatModifiers struct {
	Damage  float64 `yaml:"damage"`
	Defense float64 `yaml:"defense"`
	Speed   float64 `yaml:"speed"`
	Evasion float64 `yaml:"evasion"`
}

// MinionSummon spawns adds when a phase is entered. The engine only emits the
// summon event; the spawn system owns the actual minions.
type MinionSummon struct {
	MinionID string `yaml:"minion_id"`
	Count    int    `yaml:"count"`
}

// ContinuousHazard deals damage every turn its phase is active.
// Tracked separately from discrete environment triggers.
type ContinuousHazard struct {
	Name          string  `yaml:"name"`
	DamagePerTurn float64 `yaml:"damage_per_turn"`
	Avoidable     bool    `yaml:"avoidable"`
}

// Ability is a selectable boss action.
type Ability struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`

	// Cooldown in turns before reuse. 0 means usable every eligible turn.
	Cooldown int `yaml:"cooldown"`

	// Priority is the selection weight; higher wins, ties break by the
	// phase ability list declaration order.
	Priority int `yaml:"priority"`

	// RequiresPhase gates the ability to phase numbers >= this value.
	// 0 means usable in any phase that lists it.
	RequiresPhase int `yaml:"requires_phase"`

	TargetType TargetType `yaml:"target_type"`

	Damage     float64    `yaml:"damage"`
	DamageType DamageType `yaml:"damage_type"`

	Effect *EffectTemplate `yaml:"effect"`

	// Avoidable abilities expose AvoidMechanic as a counterplay hint.
	// Avoidance itself is resolved by the player-input collaborator.
	Avoidable     bool   `yaml:"avoidable"`
	AvoidMechanic string `yaml:"avoid_mechanic"`
}

// SpecialMechanic is an optional player-driven sub-objective.
// Success/failure is resolved by the player-skill collaborator; the engine
// applies the matching branch and records the outcome.
type SpecialMechanic struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	OnSuccess MechanicBranch `yaml:"on_success"`
	OnFailure MechanicBranch `yaml:"on_failure"`
}

// MechanicBranch is the consequence of a mechanic attempt.
type MechanicBranch struct {
	Damage float64         `yaml:"damage"`
	Target EffectTarget    `yaml:"target"`
	Effect *EffectTemplate `yaml:"effect"`
}

// EnvironmentEffect is a discrete hazard trigger.
type EnvironmentEffect struct {
	ID      string        `yaml:"id"`
	Name    string        `yaml:"name"`
	Trigger HazardTrigger `yaml:"trigger"`

	// Interval applies to periodic triggers: fires when turn % interval == 0.
	Interval int `yaml:"interval"`

	// Phase applies to phase_change triggers: fires when that phase is
	// entered. 0 fires on every transition.
	Phase int `yaml:"phase"`

	Target EffectTarget    `yaml:"target"`
	Damage float64         `yaml:"damage"`
	Effect *EffectTemplate `yaml:"effect"`
}

// ScalingRules derive session stats from participant count.
type ScalingRules struct {
	HealthPerPlayer float64          `yaml:"health_per_player"` // percent per extra player
	DamagePerPlayer float64          `yaml:"damage_per_player"` // percent per extra player
	UnlockMechanics []MechanicUnlock `yaml:"unlock_mechanics"`
}

// MechanicUnlock gates a special mechanic behind a minimum party size.
type MechanicUnlock struct {
	MechanicID  string `yaml:"mechanic_id"`
	PlayerCount int    `yaml:"player_count"`
}

// Rewards are consumed by the loot/achievement collaborators after VICTORY.
// The engine never applies them; it only archives the grant idempotently.
type Rewards struct {
	Gold            int64       `yaml:"gold"`
	Experience      int64       `yaml:"experience"`
	GuaranteedDrops []string    `yaml:"guaranteed_drops"`
	LootTable       []LootEntry `yaml:"loot_table"`
	Title           string      `yaml:"title"`
}

// LootEntry is one chance-based drop.
type LootEntry struct {
	ItemID string  `yaml:"item_id"`
	Chance float64 `yaml:"chance"` // percent
}
