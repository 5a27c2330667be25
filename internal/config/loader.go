package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/xtding233/underworld-engine/internal/mission"
)

//go:embed defaults.yaml
var builtin []byte

// Builtin returns the compiled-in tuning and content.
func Builtin() (RawConfig, error) {
	var cfg RawConfig
	if err := yaml.Unmarshal(builtin, &cfg); err != nil {
		return RawConfig{}, fmt.Errorf("builtin defaults: %w", err)
	}
	return cfg, nil
}

// Paths locates the YAML files under a base directory.
type Paths struct {
	BaseDir string
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "default.yaml")
}

func (p Paths) ProfilePath(profile string) string {
	return filepath.Join(p.BaseDir, "profiles", profile+".yaml")
}

// Files lists every path a watcher should poll for profile.
func (p Paths) Files(profile string) []string {
	out := []string{p.DefaultPath()}
	if profile != "" && profile != "default" {
		out = append(out, p.ProfilePath(profile))
	}
	return out
}

// Loader reads YAML and merges builtin → default.yaml → profile.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawConfig // key: profile
}

// NewLoader creates a loader over baseDir.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawConfig),
	}
}

// Paths returns the loader's file layout.
func (l *Loader) Paths() Paths { return l.paths }

// LoadMerged returns the merged raw config for profile. Missing files are
// skipped; malformed files are errors.
func (l *Loader) LoadMerged(profile string) (RawConfig, error) {
	l.mu.RLock()
	if cfg, ok := l.cache[profile]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	merged, err := Builtin()
	if err != nil {
		return RawConfig{}, err
	}
	def, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	merged = mergeRaw(merged, def)
	if profile != "" && profile != "default" {
		prof, err := readYAML(l.paths.ProfilePath(profile))
		if err != nil {
			return RawConfig{}, fmt.Errorf("read profile %s: %w", profile, err)
		}
		merged = mergeRaw(merged, prof)
	}

	l.mu.Lock()
	l.cache[profile] = merged
	l.mu.Unlock()
	return merged, nil
}

// Load merges, validates and resolves profile into Tuning.
func (l *Loader) Load(profile string) (Tuning, error) {
	raw, err := l.LoadMerged(profile)
	if err != nil {
		return Tuning{}, err
	}
	if err := ValidateRaw(raw); err != nil {
		return Tuning{}, err
	}
	return Resolve(raw), nil
}

// Invalidate clears the cache. The watcher calls it on change.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
}

// readYAML loads one file. A missing file is an empty config.
func readYAML(path string) (RawConfig, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, nil
		}
		return RawConfig{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, err
	}
	return cfg, nil
}

func pick(a, b *int) *int {
	if b != nil {
		v := *b
		return &v
	}
	return a
}

// mergeRaw overlays b onto a. Set scalars and pointers in b win; slices in
// b replace; missions merge by id.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	// casino
	switch {
	case out.Casino == nil && b.Casino != nil:
		c := *b.Casino
		out.Casino = &c
	case out.Casino != nil && b.Casino != nil:
		c := *out.Casino
		c.JackpotFloor = pick(c.JackpotFloor, b.Casino.JackpotFloor)
		if len(b.Casino.Ladder) > 0 {
			c.Ladder = append([]int(nil), b.Casino.Ladder...)
		}
		if len(b.Casino.Limits) > 0 {
			limits := make(map[string]LimitsRaw, len(c.Limits)+len(b.Casino.Limits))
			for k, v := range c.Limits {
				limits[k] = v
			}
			for k, v := range b.Casino.Limits {
				cur := limits[k]
				cur.Min = pick(cur.Min, v.Min)
				cur.Max = pick(cur.Max, v.Max)
				limits[k] = cur
			}
			c.Limits = limits
		}
		out.Casino = &c
	}

	if len(b.Bonuses) > 0 {
		bonuses := make(map[string]int, len(out.Bonuses)+len(b.Bonuses))
		for k, v := range out.Bonuses {
			bonuses[k] = v
		}
		for k, v := range b.Bonuses {
			bonuses[k] = v
		}
		out.Bonuses = bonuses
	}

	// incarceration
	switch {
	case out.Incarceration == nil && b.Incarceration != nil:
		c := *b.Incarceration
		out.Incarceration = &c
	case out.Incarceration != nil && b.Incarceration != nil:
		c, o := *out.Incarceration, b.Incarceration
		c.TickMinutes = pick(c.TickMinutes, o.TickMinutes)
		c.PrisonPerDay = pick(c.PrisonPerDay, o.PrisonPerDay)
		c.PrisonPerWeek = pick(c.PrisonPerWeek, o.PrisonPerWeek)
		c.HospitalPerDay = pick(c.HospitalPerDay, o.HospitalPerDay)
		c.ContactDiscountPct = pick(c.ContactDiscountPct, o.ContactDiscountPct)
		c.EscapeHeatPenalty = pick(c.EscapeHeatPenalty, o.EscapeHeatPenalty)
		c.EscapeDayPenalty = pick(c.EscapeDayPenalty, o.EscapeDayPenalty)
		c.MaxPrison = pick(c.MaxPrison, o.MaxPrison)
		c.MaxHospital = pick(c.MaxHospital, o.MaxHospital)
		c.ConfiscateCleanPct = pick(c.ConfiscateCleanPct, o.ConfiscateCleanPct)
		c.ConfiscateDirtyPct = pick(c.ConfiscateDirtyPct, o.ConfiscateDirtyPct)
		c.ConfiscateGoodsPct = pick(c.ConfiscateGoodsPct, o.ConfiscateGoodsPct)
		c.MedicalBillPerDay = pick(c.MedicalBillPerDay, o.MedicalBillPerDay)
		c.ArrestHeat = pick(c.ArrestHeat, o.ArrestHeat)
		c.HeatPerDay = pick(c.HeatPerDay, o.HeatPerDay)
		c.MinSentence = pick(c.MinSentence, o.MinSentence)
		switch {
		case c.Legacy == nil && o.Legacy != nil:
			lg := *o.Legacy
			c.Legacy = &lg
		case c.Legacy != nil && o.Legacy != nil:
			lg := *c.Legacy
			lg.CofferPct = pick(lg.CofferPct, o.Legacy.CofferPct)
			lg.XPPerLevel = pick(lg.XPPerLevel, o.Legacy.XPPerLevel)
			lg.XPBonusCap = pick(lg.XPBonusCap, o.Legacy.XPBonusCap)
			c.Legacy = &lg
		}
		out.Incarceration = &c
	}

	out.Missions = mergeMissions(out.Missions, b.Missions)
	out.StreetEvents = mergeMissions(out.StreetEvents, b.StreetEvents)
	return out
}

// mergeMissions replaces missions with a matching id and appends new ones,
// keeping first-seen order.
func mergeMissions(a, b []mission.Mission) []mission.Mission {
	if len(b) == 0 {
		return a
	}
	out := append([]mission.Mission(nil), a...)
	idx := make(map[string]int, len(out))
	for i, m := range out {
		idx[m.ID] = i
	}
	for _, m := range b {
		if i, ok := idx[m.ID]; ok {
			out[i] = m
			continue
		}
		idx[m.ID] = len(out)
		out = append(out, m)
	}
	return out
}
