package config

import (
	"fmt"
	"strconv"
	"strings"
)

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	var b strings.Builder
	b.WriteString("# ideaval configuration (TOML)\n\n")

	top, sections, order := groupOptions(GetConfigOptions())
	for _, o := range top {
		writeTOMLOption(&b, o)
	}
	for _, section := range order {
		b.WriteString("[" + section + "]\n")
		for _, o := range sections[section] {
			writeTOMLOption(&b, o)
		}
	}
	return b.String()
}

// UpdateTOML adds defaults missing from existing and comments out keys the
// schema no longer knows. Missing keys land inside their table when the file
// already has it. It reports whether anything changed.
func UpdateTOML(existing string) (string, bool) {
	known := make(map[string]bool)
	for _, o := range GetConfigOptions() {
		known[o.Key] = true
	}

	lines := strings.Split(existing, "\n")
	out := make([]string, 0, len(lines))
	seen := make(map[string]bool)
	// ends[section] is the index in out just past that section's last line.
	ends := map[string]int{"": 0}
	section := ""
	changed := false
	emit := func(l ...string) {
		out = append(out, l...)
		ends[section] = len(out)
	}

	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]") {
			section = strings.TrimSpace(trim[1 : len(trim)-1])
			emit(line)
			continue
		}
		key, ok := parseTOMLKey(line)
		if trim == "" || strings.HasPrefix(trim, "#") || !ok {
			emit(line)
			continue
		}
		full := key
		if section != "" {
			full = section + "." + key
		}
		seen[full] = true
		if !known[full] {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			emit(indent+"# OUTDATED: option removed from config schema", indent+"# "+strings.TrimLeft(line, " \t"))
			changed = true
			continue
		}
		emit(line)
	}

	var missing []ConfigOption
	for _, o := range GetConfigOptions() {
		if !seen[o.Key] {
			missing = append(missing, o)
		}
	}
	if len(missing) == 0 {
		return strings.Join(out, "\n"), changed
	}

	inserts := make(map[int][]string)
	var tail strings.Builder
	top, sections, order := groupOptions(missing)
	if len(top) > 0 {
		inserts[ends[""]] = append(inserts[ends[""]], optionLines(top)...)
	}
	for _, s := range order {
		if pos, ok := ends[s]; ok {
			inserts[pos] = append(inserts[pos], optionLines(sections[s])...)
			continue
		}
		tail.WriteString("[" + s + "]\n")
		for _, o := range sections[s] {
			writeTOMLOption(&tail, o)
		}
	}

	merged := make([]string, 0, len(out)+len(missing)*3)
	for i := 0; i <= len(out); i++ {
		merged = append(merged, inserts[i]...)
		if i < len(out) {
			merged = append(merged, out[i])
		}
	}
	result := strings.Join(merged, "\n")
	if tail.Len() > 0 {
		result = strings.TrimRight(result, "\n") + "\n\n# Added by config update\n" + tail.String()
	}
	return result, true
}

func optionLines(opts []ConfigOption) []string {
	var b strings.Builder
	b.WriteString("# Added by config update\n")
	for _, o := range opts {
		writeTOMLOption(&b, o)
	}
	return strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
}

// groupOptions splits dotted keys into TOML tables, keeping first-seen order.
func groupOptions(opts []ConfigOption) ([]ConfigOption, map[string][]ConfigOption, []string) {
	var top []ConfigOption
	sections := make(map[string][]ConfigOption)
	var order []string
	for _, o := range opts {
		section, key, ok := strings.Cut(o.Key, ".")
		if !ok {
			top = append(top, o)
			continue
		}
		if _, seen := sections[section]; !seen {
			order = append(order, section)
		}
		sections[section] = append(sections[section], ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	return top, sections, order
}

func parseTOMLKey(line string) (string, bool) {
	idx := strings.Index(line, "=")
	if idx == -1 {
		return "", false
	}
	key := strings.TrimSpace(line[:idx])
	if key == "" || strings.HasPrefix(key, "[") || strings.HasPrefix(key, "\"") || strings.HasPrefix(key, "'") {
		return "", false
	}
	return key, true
}

func writeTOMLOption(b *strings.Builder, o ConfigOption) {
	if o.Comment != "" {
		b.WriteString("# " + o.Comment + "\n")
	}
	fmt.Fprintf(b, "%s = %s\n\n", o.Key, tomlValue(o.Default))
}

func tomlValue(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case []string:
		q := make([]string, len(x))
		for i, s := range x {
			q[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(q, ", ") + "]"
	default:
		return fmt.Sprintf("%v", x)
	}
}
