package pricing

import (
	"fmt"
	"strings"
)

// OptionType is the payoff direction of a European option.
type OptionType int

const (
	Call OptionType = 1
	Put  OptionType = -1
)

func (o OptionType) String() string {
	switch o {
	case Call:
		return "CALL"
	case Put:
		return "PUT"
	default:
		return fmt.Sprintf("OptionType(%d)", int(o))
	}
}

// Valid reports whether o is Call or Put.
func (o OptionType) Valid() bool { return o == Call || o == Put }

// ParseOptionType accepts "call"/"put" in any case, plus "c"/"p".
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	}
	return 0, fmt.Errorf("unknown option type %q", s)
}

func (o OptionType) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("invalid option type %d", int(o))
	}
	return []byte(strings.ToLower(o.String())), nil
}

func (o *OptionType) UnmarshalText(b []byte) error {
	v, err := ParseOptionType(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}
