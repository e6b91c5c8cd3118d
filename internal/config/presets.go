package config

// Presets are ready-made calibration settings. "quick" is for sanity
// checks while iterating on logs, "thorough" for the final fit of a rig.
var Presets = map[string]*Config{
	"quick": {
		Model: "m1", Output: DefaultOutput,
		Trials: 500, Jobs: 1, Sigma: DefaultSigma,
	},
	"standard": {
		Model: "m1", Output: DefaultOutput,
		Trials: DefaultTrials, Jobs: 1, Sigma: DefaultSigma,
	},
	"thorough": {
		Model: "m9", Output: DefaultOutput,
		Trials: 50000, Jobs: 4, Sigma: DefaultSigma,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
