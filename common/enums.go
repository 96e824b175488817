// Package common holds small shared types used across the program.
package common

import (
	"fmt"
	"strings"
)

// Safety specifies what to do when an output file already exists.
type Safety int

const (
	// SafetyMax never overwrites existing files.
	SafetyMax Safety = iota
	// SafetyLow overwrites existing files unconditionally.
	SafetyLow
)

var safetyNames = map[Safety]string{
	SafetyMax: "max",
	SafetyLow: "low",
}

func (s Safety) String() string {
	if n, ok := safetyNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Safety(%d)", int(s))
}

func (s Safety) IsValid() bool {
	_, ok := safetyNames[s]
	return ok
}

// ParseSafety converts textual policy name to Safety value. On unknown input
// it returns SafetyMax along with the error - callers that choose to ignore
// the error still end up with the non-overwriting policy.
func ParseSafety(name string) (Safety, error) {
	for s, n := range safetyNames {
		if strings.EqualFold(name, n) {
			return s, nil
		}
	}
	return SafetyMax, fmt.Errorf("%q is not a valid safety policy", name)
}

func MustParseSafety(name string) Safety {
	s, err := ParseSafety(name)
	if err != nil {
		panic(err)
	}
	return s
}

// SafetyNames returns list of valid policy names in declaration order.
func SafetyNames() []string {
	return []string{safetyNames[SafetyMax], safetyNames[SafetyLow]}
}

func (s Safety) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid safety policy value %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Safety) UnmarshalText(text []byte) error {
	v, err := ParseSafety(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
