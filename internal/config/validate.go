package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/mithrel/ideaval/internal/logging"
)

var outputModes = map[string]bool{"tui": true, "styled": true, "pretty": true, "plain": true, "json": true, "yaml": true}

// CheckConfigValidity reports every problem in v at once.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		errs = append(errs, errors.New("data_dir is required"))
	}
	if m := v.GetString("output"); !outputModes[m] {
		errs = append(errs, fmt.Errorf("output %q must be one of tui|styled|pretty|plain|json|yaml", m))
	}

	base := strings.TrimSpace(v.GetString("api.base_url"))
	if u, err := url.Parse(base); base == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url %q must be an http(s) url", base))
	}
	if raw := v.GetString("api.timeout"); raw != "" {
		if d, err := cast.ToDurationE(raw); err != nil {
			errs = append(errs, fmt.Errorf("api.timeout: %w", err))
		} else if d < 0 {
			errs = append(errs, errors.New("api.timeout must not be negative"))
		}
	}

	if v.GetInt("render.width") < 0 {
		errs = append(errs, errors.New("render.width must not be negative"))
	}
	if strings.TrimSpace(v.GetString("render.glamour_style")) == "" {
		errs = append(errs, errors.New("render.glamour_style is required"))
	}
	if !logging.ValidLevel(v.GetString("log.level")) {
		errs = append(errs, fmt.Errorf("log.level %q is not a valid level", v.GetString("log.level")))
	}
	if v.GetInt("history.limit") <= 0 {
		errs = append(errs, errors.New("history.limit must be greater than 0"))
	}
	if strings.TrimSpace(v.GetString("serve.addr")) == "" {
		errs = append(errs, errors.New("serve.addr is required"))
	}
	return errors.Join(errs...)
}
