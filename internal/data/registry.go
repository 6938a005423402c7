// Package data loads and validates encounter content.
//
// The registry is an explicitly constructed value with a load → validate →
// freeze lifecycle: definitions are decoded from YAML, checked for content
// defects, and never mutated afterwards. Sessions hold read-only references
// into it, so concurrent reads from any number of sessions are safe.
package data

import (
	"fmt"
	"io/fs"
	"log/slog"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/reddust-rpg/reddust/internal/model"
)

// Registry is an immutable store of encounter definitions keyed by id.
type Registry struct {
	encounters map[string]*model.EncounterDefinition
	ids        []string
}

// LoadRegistry decodes every *.yaml file under root in fsys, validates each
// definition, and returns a frozen registry. Any content defect rejects the
// whole load: the engine must never discover a bad definition mid-combat.
func LoadRegistry(fsys fs.FS, root string) (*Registry, error) {
	pattern := "*.yaml"
	if root != "." && root != "" {
		pattern = root + "/*.yaml"
	}
	entries, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("listing encounter content: %w", err)
	}
	sort.Strings(entries)

	reg := &Registry{
		encounters: make(map[string]*model.EncounterDefinition, len(entries)),
	}

	for _, path := range entries {
		raw, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		var def model.EncounterDefinition
		if err := yaml.Unmarshal(raw, &def); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}

		normalizeDefinition(&def)
		if err := validateDefinition(&def); err != nil {
			return nil, fmt.Errorf("invalid encounter %s: %w", path, err)
		}

		if _, dup := reg.encounters[def.ID]; dup {
			return nil, fmt.Errorf("duplicate encounter id %q in %s", def.ID, path)
		}
		reg.encounters[def.ID] = &def
		reg.ids = append(reg.ids, def.ID)
	}

	slog.Info("loaded encounter definitions", "count", len(reg.ids))
	return reg, nil
}

// Default loads the content embedded in the binary.
func Default() (*Registry, error) {
	return LoadRegistry(encounterFS, "encounters")
}

// Get returns the definition for id. The returned definition is shared and
// must not be mutated.
func (r *Registry) Get(id string) (*model.EncounterDefinition, bool) {
	def, ok := r.encounters[id]
	return def, ok
}

// IDs returns encounter ids in load order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

// Len returns the number of loaded definitions.
func (r *Registry) Len() int { return len(r.ids) }

// normalizeDefinition fills defaulted fields before validation: 1-based phase
// numbers, identity stat modifiers, single-target abilities, physical damage
// type, and a stack cap of 1 for non-stackable effects.
func normalizeDefinition(def *model.EncounterDefinition) {
	for i := range def.Phases {
		p := &def.Phases[i]
		p.Number = i + 1
		if p.Modifiers.Damage == 0 {
			p.Modifiers.Damage = 1.0
		}
		if p.Modifiers.Defense == 0 {
			p.Modifiers.Defense = 1.0
		}
		if p.Modifiers.Speed == 0 {
			p.Modifiers.Speed = 1.0
		}
		if p.Modifiers.Evasion == 0 {
			p.Modifiers.Evasion = 1.0
		}
	}
	for i := range def.Abilities {
		a := &def.Abilities[i]
		if a.TargetType == "" {
			a.TargetType = model.TargetSingle
		}
		if a.Damage > 0 && a.DamageType == "" {
			a.DamageType = model.DamagePhysical
		}
		normalizeEffect(a.Effect)
	}
	for i := range def.SpecialMechanics {
		normalizeEffect(def.SpecialMechanics[i].OnSuccess.Effect)
		normalizeEffect(def.SpecialMechanics[i].OnFailure.Effect)
	}
	for i := range def.EnvironmentEffects {
		normalizeEffect(def.EnvironmentEffects[i].Effect)
	}
	normalizeEffect(def.FleeConsequence)
}

func normalizeEffect(t *model.EffectTemplate) {
	if t == nil {
		return
	}
	if !t.Stackable && t.MaxStacks == 0 {
		t.MaxStacks = 1
	}
}
