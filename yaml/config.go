// Package yaml loads serpwall configuration from YAML files.
//
// A file overlays serpwall.DefaultConfig: keys that are present replace the
// default value, keys that are absent keep it.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/serpwall"
	"gopkg.in/yaml.v3"
)

// EnvConfig names the environment variable holding a config file path.
const EnvConfig = "SERPWALL_CONFIG"

type ruleFile struct {
	Category string   `yaml:"category"`
	Phrases  []string `yaml:"phrases"`
	Mode     string   `yaml:"mode,omitempty"`
	Scope    string   `yaml:"scope,omitempty"`
}

type configFile struct {
	Rules           []ruleFile `yaml:"rules,omitempty"`
	PrimaryZones    []string   `yaml:"primary_zones,omitempty"`
	TailZones       []string   `yaml:"tail_zones,omitempty"`
	ObserverRoots   []string   `yaml:"observer_roots,omitempty"`
	ProtectedIDs    []string   `yaml:"protected_ids,omitempty"`
	OrganicList     *string    `yaml:"organic_list,omitempty"`
	BoundaryAttrs   []string   `yaml:"boundary_attrs,omitempty"`
	HeaderSelector  *string    `yaml:"header_selector,omitempty"`
	MaxClimbDepth   *int       `yaml:"max_climb_depth,omitempty"`
	PromoContainers []string   `yaml:"promo_containers,omitempty"`
	RedirectPaths   []string   `yaml:"redirect_paths,omitempty"`
	GuardStructural *bool      `yaml:"guard_structural,omitempty"`
	MarkerAttr      *string    `yaml:"marker_attr,omitempty"`
	OverlayID       *string    `yaml:"overlay_id,omitempty"`
	OverlayCSS      *string    `yaml:"overlay_css,omitempty"`
	SessionKey      *string    `yaml:"session_key,omitempty"`
}

// LoadConfig reads the file at path and overlays it on the defaults.
// Returns ENOTFOUND if the file does not exist and EINVALID if it does not
// parse or validate.
func LoadConfig(path string) (*serpwall.Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, serpwall.Errorf(serpwall.ENOTFOUND, "config file %s not found", path)
	} else if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// DecodeConfig parses YAML from r and overlays it on the defaults. Unknown
// keys are rejected.
func DecodeConfig(r io.Reader) (*serpwall.Config, error) {
	var file configFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, serpwall.Errorf(serpwall.EINVALID, "parse config: %v", err)
	}

	cfg := serpwall.DefaultConfig()
	file.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// EncodeConfig writes cfg as YAML in the format DecodeConfig reads.
func EncodeConfig(w io.Writer, cfg *serpwall.Config) error {
	file := fromConfig(cfg)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&file); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func (f *configFile) apply(cfg *serpwall.Config) {
	if f.Rules != nil {
		cfg.Rules = make([]serpwall.Rule, 0, len(f.Rules))
		for _, r := range f.Rules {
			cfg.Rules = append(cfg.Rules, r.rule())
		}
	}

	setSlice(&cfg.PrimaryZones, f.PrimaryZones)
	setSlice(&cfg.TailZones, f.TailZones)
	setSlice(&cfg.ObserverRoots, f.ObserverRoots)
	setSlice(&cfg.ProtectedIDs, f.ProtectedIDs)
	setSlice(&cfg.BoundaryAttrs, f.BoundaryAttrs)
	setSlice(&cfg.PromoContainers, f.PromoContainers)
	setSlice(&cfg.RedirectPaths, f.RedirectPaths)

	set(&cfg.OrganicList, f.OrganicList)
	set(&cfg.HeaderSelector, f.HeaderSelector)
	set(&cfg.MaxClimbDepth, f.MaxClimbDepth)
	set(&cfg.GuardStructural, f.GuardStructural)
	set(&cfg.OverlayID, f.OverlayID)
	set(&cfg.SessionKey, f.SessionKey)

	if f.MarkerAttr != nil {
		cfg.MarkerAttr = *f.MarkerAttr
		cfg.OverlayCSS = serpwall.DefaultOverlayCSS(cfg.MarkerAttr)
	}
	set(&cfg.OverlayCSS, f.OverlayCSS)
}

func (r ruleFile) rule() serpwall.Rule {
	rule := serpwall.Rule{
		Category: serpwall.Category(r.Category),
		Phrases:  r.Phrases,
		Mode:     serpwall.MatchMode(r.Mode),
		Scope:    serpwall.Scope(r.Scope),
	}
	if rule.Mode == "" {
		rule.Mode = serpwall.MatchPrefix
	}
	if rule.Scope == "" {
		rule.Scope = serpwall.ScopePrimary
	}
	return rule
}

func fromConfig(cfg *serpwall.Config) configFile {
	file := configFile{
		PrimaryZones:    cfg.PrimaryZones,
		TailZones:       cfg.TailZones,
		ObserverRoots:   cfg.ObserverRoots,
		ProtectedIDs:    cfg.ProtectedIDs,
		OrganicList:     &cfg.OrganicList,
		BoundaryAttrs:   cfg.BoundaryAttrs,
		HeaderSelector:  &cfg.HeaderSelector,
		MaxClimbDepth:   &cfg.MaxClimbDepth,
		PromoContainers: cfg.PromoContainers,
		RedirectPaths:   cfg.RedirectPaths,
		GuardStructural: &cfg.GuardStructural,
		MarkerAttr:      &cfg.MarkerAttr,
		OverlayID:       &cfg.OverlayID,
		OverlayCSS:      &cfg.OverlayCSS,
		SessionKey:      &cfg.SessionKey,
	}
	for _, r := range cfg.Rules {
		file.Rules = append(file.Rules, ruleFile{
			Category: string(r.Category),
			Phrases:  r.Phrases,
			Mode:     string(r.Mode),
			Scope:    string(r.Scope),
		})
	}
	return file
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setSlice(dst *[]string, src []string) {
	if src != nil {
		*dst = src
	}
}
