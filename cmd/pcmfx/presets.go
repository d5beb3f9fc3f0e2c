package main

/*------------------------------------------------------------------
 *
 * Purpose:	YAML preset loading for pcmfx, in the same spirit as the
 *		teacher's tocalls.yaml lookup in deviceid.go: a small
 *		search list of candidate paths, read once at startup,
 *		unmarshalled straight into a plain struct.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/avfxteam/lvmfx/src"
)

// presetSearchPath mirrors deviceid.go's "current directory, then a shared
// install location" lookup order.
var presetSearchPath = []string{
	"",                                  // literal path as given
	"presets/",                          // relative to cwd
	"/usr/local/share/lvmfx/presets/",
	"/usr/share/lvmfx/presets/",
}

// yamlPreset is the on-disk shape of a named effect configuration; it omits
// the engine-managed fields (Mode, SampleRate, Format, ChannelCount) that
// pcmfx derives from the input file itself.
type yamlPreset struct {
	CS  lvmfx.CSParams     `yaml:"cs"`
	EQ  yamlEQ             `yaml:"eq"`
	DBE lvmfx.DBEParams    `yaml:"dbe"`
	TE  lvmfx.TEParams     `yaml:"te"`
	VC  lvmfx.VolumeParams `yaml:"volume"`
	PSA lvmfx.PSAParams    `yaml:"psa"`
}

type yamlEQ struct {
	Enabled bool             `yaml:"enabled"`
	Bands   []lvmfx.EQBand   `yaml:"bands"`
}

// loadPreset searches presetSearchPath for name (or opens it directly if it
// already looks like a path) and unmarshals it into a yamlPreset.
func loadPreset(name string) (yamlPreset, error) {
	var last error
	for _, dir := range presetSearchPath {
		data, err := os.ReadFile(dir + name)
		if err != nil {
			last = err
			continue
		}
		var p yamlPreset
		if err := yaml.Unmarshal(data, &p); err != nil {
			return yamlPreset{}, fmt.Errorf("parsing preset %s: %w", dir+name, err)
		}
		return p, nil
	}
	return yamlPreset{}, fmt.Errorf("preset %q not found in any of %v: %w", name, presetSearchPath, last)
}

// applyPreset overlays a loaded preset onto an already-populated
// ControlParams: every effect section (CS, EQ, DBE, TE, volume, PSA) is
// replaced by the preset's values, so flag settings for those sections are
// discarded; only the engine-managed fields of base are kept.
func applyPreset(base lvmfx.ControlParams, p yamlPreset) lvmfx.ControlParams {
	base.CS = p.CS
	base.EQ = lvmfx.EQParams{Enabled: p.EQ.Enabled, Bands: p.EQ.Bands}
	base.DBE = p.DBE
	base.TE = p.TE
	base.VC = p.VC
	base.PSA = p.PSA
	return base
}
