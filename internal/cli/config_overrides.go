package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/ideaval/internal/config"
)

// applyConfigFlagOverrides copies explicitly set flags into v, keyed by the
// flag-name to config-key mapping. Unknown keys are rejected.
func applyConfigFlagOverrides(cmd *cobra.Command, v *viper.Viper, flags map[string]string) error {
	for flagName, key := range flags {
		if !config.IsKnownKey(key) {
			return fmt.Errorf("flag --%s maps to unknown config key %q", flagName, key)
		}
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil || !flag.Changed {
			continue
		}
		setFromFlag(cmd, v, flagName, key)
	}
	return nil
}

func setFromFlag(cmd *cobra.Command, v *viper.Viper, flagName, key string) {
	switch cmd.Flags().Lookup(flagName).Value.Type() {
	case "bool":
		if val, err := cmd.Flags().GetBool(flagName); err == nil {
			v.Set(key, val)
		}
	case "int":
		if val, err := cmd.Flags().GetInt(flagName); err == nil {
			v.Set(key, val)
		}
	case "duration":
		if val, err := cmd.Flags().GetDuration(flagName); err == nil {
			v.Set(key, val)
		}
	default:
		if val, err := cmd.Flags().GetString(flagName); err == nil {
			v.Set(key, val)
		}
	}
}
