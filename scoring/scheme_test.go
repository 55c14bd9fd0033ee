package scoring

import (
	"testing"

	"go.viam.com/test"
)

func TestNormalizePrefixed(t *testing.T) {
	for _, tc := range []struct {
		label   string
		ring    RingType
		segment int
		score   int
		text    string
	}{
		{"s5", Single, 5, 5, "Single 5"},
		{"d5", Double, 5, 10, "Double 5"},
		{"t5", Triple, 5, 15, "Triple 5"},
		{"t20", Triple, 20, 60, "Triple 20"},
		{"d1", Double, 1, 2, "Double 1"},
		{"db", InnerBull, 0, 50, "Double Bull"},
		{"sb", OuterBull, 0, 25, "Single Bull"},
		{" T19 ", Triple, 19, 57, "Triple 19"},
	} {
		t.Run(tc.label, func(t *testing.T) {
			h := Normalize(tc.label, SchemePrefixed)
			test.That(t, h.Ring, test.ShouldEqual, tc.ring)
			test.That(t, h.Segment, test.ShouldEqual, tc.segment)
			test.That(t, h.Score, test.ShouldEqual, tc.score)
			test.That(t, h.Label, test.ShouldEqual, tc.text)
			test.That(t, h.SourceClass, test.ShouldEqual, tc.label)
			test.That(t, h.Bull, test.ShouldBeFalse)
		})
	}
}

func TestNormalizePrefixedUnparseable(t *testing.T) {
	for _, label := range []string{"zz", "", "s", "s0", "d21", "x5", "5", "s5a", "bull"} {
		h := Normalize(label, SchemePrefixed)
		test.That(t, h.Ring, test.ShouldEqual, Unknown)
		test.That(t, h.Score, test.ShouldEqual, 0)
		test.That(t, h.Segment, test.ShouldEqual, 0)
		test.That(t, h.HasSegment(), test.ShouldBeFalse)
		test.That(t, h.Label, test.ShouldEqual, label)
	}
}

func TestNormalizePlainNumber(t *testing.T) {
	h := Normalize("20", SchemePlainNumber)
	test.That(t, h.Ring, test.ShouldEqual, Unknown)
	test.That(t, h.Segment, test.ShouldEqual, 20)
	test.That(t, h.Score, test.ShouldEqual, 20)
	test.That(t, h.Label, test.ShouldEqual, "Segment 20")
	test.That(t, h.HasSegment(), test.ShouldBeTrue)

	h = Normalize("abc", SchemePlainNumber)
	test.That(t, h.Score, test.ShouldEqual, 0)
	test.That(t, h.Segment, test.ShouldEqual, 0)
	test.That(t, h.HasSegment(), test.ShouldBeFalse)
	test.That(t, h.Label, test.ShouldEqual, "abc")

	for _, label := range []string{"0", "21", "-3", "t20", "db"} {
		h := Normalize(label, SchemePlainNumber)
		test.That(t, h.Score, test.ShouldEqual, 0)
		test.That(t, h.HasSegment(), test.ShouldBeFalse)
	}

	h = Normalize("bull", SchemePlainNumber)
	test.That(t, h.Ring, test.ShouldEqual, Unknown)
	test.That(t, h.Bull, test.ShouldBeTrue)
	test.That(t, h.Score, test.ShouldEqual, 25)
	test.That(t, h.HasSegment(), test.ShouldBeFalse)
}

func TestSchemeSelectionIsNotInferred(t *testing.T) {
	// A prefixed-looking label under the plain-number scheme is not parsed as prefixed, and
	// vice versa.
	test.That(t, Normalize("t20", SchemePlainNumber).Score, test.ShouldEqual, 0)
	test.That(t, Normalize("20", SchemePrefixed).Score, test.ShouldEqual, 0)
}

func TestParseScheme(t *testing.T) {
	s, err := ParseScheme("plain_number")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s, test.ShouldEqual, SchemePlainNumber)
	test.That(t, s.ResolvesRings(), test.ShouldBeFalse)

	s, err = ParseScheme("Prefixed")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s, test.ShouldEqual, SchemePrefixed)
	test.That(t, s.ResolvesRings(), test.ShouldBeTrue)

	_, err = ParseScheme("roman")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "roman")

	var fromText Scheme
	test.That(t, fromText.UnmarshalText([]byte("plain")), test.ShouldBeNil)
	test.That(t, fromText, test.ShouldEqual, SchemePlainNumber)
	text, err := fromText.MarshalText()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(text), test.ShouldEqual, "plain_number")
}

func TestScoreTable(t *testing.T) {
	test.That(t, Score(Single, 7), test.ShouldEqual, 7)
	test.That(t, Score(Double, 7), test.ShouldEqual, 14)
	test.That(t, Score(Triple, 7), test.ShouldEqual, 21)
	test.That(t, Score(OuterBull, 0), test.ShouldEqual, 25)
	test.That(t, Score(InnerBull, 0), test.ShouldEqual, 50)
	test.That(t, Score(Unknown, 7), test.ShouldEqual, 0)
	test.That(t, Score(Triple, 21), test.ShouldEqual, 0)
	test.That(t, Triple.Specific(), test.ShouldBeTrue)
	test.That(t, InnerBull.Specific(), test.ShouldBeFalse)
	test.That(t, OuterBull.String(), test.ShouldEqual, "Outer Bull")
}
