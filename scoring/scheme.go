package scoring

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Scheme is the label taxonomy a backend's model emits. It is chosen once per backend
// configuration and never guessed from individual labels.
type Scheme int

const (
	// SchemePrefixed labels carry a ring prefix and a number ("s5", "d20", "t19") plus "sb"/"db"
	// for the bulls.
	SchemePrefixed Scheme = iota
	// SchemePlainNumber labels are bare segment numbers ("1".."20"). The ring cannot be
	// recovered, so hits score face value and light up the whole wedge.
	SchemePlainNumber
)

const (
	schemePrefixedName    = "prefixed"
	schemePlainNumberName = "plain_number"
)

func (s Scheme) String() string {
	switch s {
	case SchemePrefixed:
		return schemePrefixedName
	case SchemePlainNumber:
		return schemePlainNumberName
	default:
		return fmt.Sprintf("scheme(%d)", int(s))
	}
}

// ResolvesRings reports whether labels of this scheme identify the ring type.
func (s Scheme) ResolvesRings() bool {
	return s == SchemePrefixed
}

// ParseScheme parses a scheme name as used in configuration files.
func ParseScheme(name string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case schemePrefixedName, "":
		return SchemePrefixed, nil
	case schemePlainNumberName, "plain-number", "plain":
		return SchemePlainNumber, nil
	}
	return SchemePrefixed, errors.Errorf("unknown classification scheme %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Scheme) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scheme) UnmarshalText(text []byte) error {
	parsed, err := ParseScheme(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

var prefixedPattern = regexp.MustCompile(`^([sdt])(\d+)$`)

// Normalize parses a raw class label into the classification fields of a Hit: Ring, Segment,
// Bull, Score and Label. It never fails; labels it cannot read come back as an Unknown hit worth
// nothing, labeled with the raw class.
func Normalize(classLabel string, scheme Scheme) Hit {
	var h Hit
	switch scheme {
	case SchemePlainNumber:
		h = normalizePlainNumber(classLabel)
	default:
		h = normalizePrefixed(classLabel)
	}
	h.SourceClass = classLabel
	return h
}

func unknown(classLabel string) Hit {
	return Hit{Ring: Unknown, Label: classLabel}
}

func normalizePrefixed(classLabel string) Hit {
	cls := strings.ToLower(strings.TrimSpace(classLabel))
	switch cls {
	case "db":
		return Hit{Ring: InnerBull, Score: InnerBullScore, Label: "Double Bull"}
	case "sb":
		return Hit{Ring: OuterBull, Score: OuterBullScore, Label: "Single Bull"}
	}

	m := prefixedPattern.FindStringSubmatch(cls)
	if m == nil {
		return unknown(classLabel)
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n < MinSegment || n > MaxSegment {
		return unknown(classLabel)
	}

	var ring RingType
	switch m[1] {
	case "s":
		ring = Single
	case "d":
		ring = Double
	case "t":
		ring = Triple
	}
	return Hit{
		Ring:    ring,
		Segment: n,
		Score:   Score(ring, n),
		Label:   fmt.Sprintf("%s %d", ring, n),
	}
}

func normalizePlainNumber(classLabel string) Hit {
	cls := strings.ToLower(strings.TrimSpace(classLabel))
	if cls == "bull" || cls == "25" {
		return Hit{Ring: Unknown, Bull: true, Score: OuterBullScore, Label: "Bull"}
	}

	n, err := strconv.Atoi(cls)
	if err != nil || n < MinSegment || n > MaxSegment {
		return unknown(classLabel)
	}
	return Hit{
		Ring:    Unknown,
		Segment: n,
		Score:   n,
		Label:   fmt.Sprintf("Segment %d", n),
	}
}
