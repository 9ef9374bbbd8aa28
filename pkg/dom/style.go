package dom

import (
	"math"
	"strconv"
	"strings"
)

// declaration is one property of an inline style attribute.
type declaration struct {
	prop, value string
}

func parseStyle(s string) []declaration {
	var out []declaration
	for _, part := range strings.Split(s, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if prop == "" {
			continue
		}
		out = append(out, declaration{prop: prop, value: strings.TrimSpace(value)})
	}
	return out
}

func formatStyle(decls []declaration) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.prop + ": " + d.value
	}
	return strings.Join(parts, "; ")
}

// setProps overwrites or appends properties, keeping the order of existing
// ones.
func setProps(decls []declaration, props []declaration) []declaration {
	for _, p := range props {
		found := false
		for i := range decls {
			if decls[i].prop == p.prop {
				decls[i].value = p.value
				found = true
				break
			}
		}
		if !found {
			decls = append(decls, p)
		}
	}
	return decls
}

func lookup(decls []declaration, prop string) (string, bool) {
	v, ok := "", false
	for _, d := range decls {
		if d.prop == prop {
			v, ok = d.value, true
		}
	}
	return v, ok
}

// px formats a length, truncated to three decimals.
func px(v float64) string {
	return strconv.FormatFloat(math.Trunc(v*1000)/1000, 'f', -1, 64) + "px"
}

// parseLength parses "12", "12px" or "12.5px". Other units are rejected.
func parseLength(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "px")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// horizontalPadding resolves padding-left and padding-right from the
// padding shorthand and the longhand properties, in declaration order.
func horizontalPadding(decls []declaration) (left, right float64) {
	for _, d := range decls {
		switch d.prop {
		case "padding":
			f := strings.Fields(d.value)
			var l, r string
			switch len(f) {
			case 1:
				l, r = f[0], f[0]
			case 2, 3:
				l, r = f[1], f[1]
			case 4:
				l, r = f[3], f[1]
			default:
				continue
			}
			left, _ = parseLength(l)
			right, _ = parseLength(r)
		case "padding-left":
			left, _ = parseLength(d.value)
		case "padding-right":
			right, _ = parseLength(d.value)
		}
	}
	return left, right
}
