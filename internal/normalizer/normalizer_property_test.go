package normalizer

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"renorm/internal/script"
)

// Property 1: Idempotence. For all names n, normalize(normalize(n)) ==
// normalize(n).

func TestNormalizeIdempotence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("Normalize is idempotent for arbitrary names", prop.ForAll(
		func(name string, keepExt bool) bool {
			once := Normalize(name, keepExt)
			twice := Normalize(once, keepExt)
			if once != twice {
				t.Logf("not idempotent for %q (keepExt=%v): %q -> %q", name, keepExt, once, twice)
				return false
			}
			return true
		},
		gen.AnyString(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// Property 2: Verbatim preservation. A name containing at least one
// protected-script code point is a fixed point of Normalize.

// genCJKName generates names built from CJK ideographs.
func genCJKName() gopter.Gen {
	return gen.IntRange(1, 8).FlatMap(func(length interface{}) gopter.Gen {
		return gen.SliceOfN(length.(int), gen.RuneRange('一', '龥'))
	}, reflect.TypeOf([]rune{})).Map(func(chars []rune) string {
		return string(chars)
	})
}

func TestNormalizeVerbatimPreservation(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("protected-script names are returned unchanged", prop.ForAll(
		func(base, suffix string) bool {
			name := base + suffix
			if !script.HasProtected(name) {
				return true
			}
			return Normalize(name, false) == name
		},
		genCJKName(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
