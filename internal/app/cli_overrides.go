package app

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/olusolaa/stack-drift-notifier/internal/config"
)

// Overrides carries command line values that cannot be bound to a viper key
// one to one.
type Overrides struct {
	// Regions is a comma separated list or "all".
	Regions    string
	Sequential bool
}

// ApplyOverrides writes the non-empty overrides into v, taking precedence
// over the config file and the environment.
func ApplyOverrides(v *viper.Viper, o Overrides) {
	if regions := parseRegionsOverride(o.Regions); regions != nil {
		v.Set("regions", regions)
	}
	if o.Sequential {
		v.Set("settings.parallel", false)
	}
}

func parseRegionsOverride(override string) []string {
	override = strings.TrimSpace(override)
	if override == "" {
		return nil
	}
	if strings.EqualFold(override, config.RegionsAll) {
		return config.DefaultRegions()
	}

	parts := strings.Split(override, ",")
	regions := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			regions = append(regions, p)
		}
	}
	if len(regions) == 0 {
		return nil
	}
	return config.NormalizeRegions(regions)
}
