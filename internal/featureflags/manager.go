// Package featureflags evaluates runtime toggles configured as a
// comma-separated key=value list, e.g. "disable_signups=on,image_posts=25%".
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

type ruleKind int

const (
	ruleOff ruleKind = iota
	ruleOn
	rulePercent
)

// rule is a parsed flag value: a hard on/off, or a percentage rollout
// bucketed deterministically per user.
type rule struct {
	kind    ruleKind
	percent int
}

// Manager holds parsed flag rules. A nil Manager evaluates every flag
// as off, so callers never need to guard against missing configuration.
type Manager struct {
	rules map[string]rule
}

// NewManager parses a comma-separated key=value list. Malformed pairs and
// unrecognized values are skipped rather than rejected; a flag that fails
// to parse stays off.
func NewManager(raw string) *Manager {
	rules := make(map[string]rule)

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		name = normalize(name)
		if name == "" {
			continue
		}
		if r, ok := parseRule(normalize(value)); ok {
			rules[name] = r
		}
	}

	return &Manager{rules: rules}
}

func parseRule(value string) (rule, bool) {
	switch value {
	case "on", "true", "1":
		return rule{kind: ruleOn}, true
	case "off", "false", "0":
		return rule{kind: ruleOff}, true
	}

	if pctRaw, found := strings.CutSuffix(value, "%"); found {
		pct, err := strconv.Atoi(pctRaw)
		if err != nil {
			return rule{}, false
		}
		return rule{kind: rulePercent, percent: pct}, true
	}

	return rule{}, false
}

// Enabled reports whether a flag is on for the given user. Unknown flags
// are off. Percentage rollouts are deterministic per (flag, user) pair;
// anonymous users (userID 0) are never inside a partial rollout.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}

	r, ok := m.rules[normalize(name)]
	if !ok {
		return false
	}

	switch r.kind {
	case ruleOn:
		return true
	case rulePercent:
		if r.percent <= 0 {
			return false
		}
		if r.percent >= 100 {
			return true
		}
		if userID == 0 {
			return false
		}
		return rolloutBucket(name, userID) < r.percent
	}

	return false
}

// Snapshot evaluates every configured flag for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	if m == nil {
		return map[string]bool{}
	}

	out := make(map[string]bool, len(m.rules))
	for name := range m.rules {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", normalize(name), userID)))
	return int(h.Sum32() % 100)
}
