package loader

import (
	"strings"

	"github.com/pkg/errors"

	"jpamb/internal/jvm"
)

// parseType decodes the small textual type grammar the JSON opcode
// encoding uses: "int", "short", "char", "boolean", "ref", "[<elem>"
// for an array, or any other string as an opaque object class name.
// This mirrors jvm.Type.String()'s own rendering rather than the
// method-id sigil grammar of jvm.ParseMethodID, since the JSON
// encoding is meant to be hand-editable in tests.
func parseType(s string) (jvm.Type, error) {
	switch s {
	case "int":
		return jvm.Int(), nil
	case "short":
		return jvm.Short(), nil
	case "char":
		return jvm.Char(), nil
	case "boolean":
		return jvm.Boolean(), nil
	case "ref":
		return jvm.Reference(), nil
	case "":
		return jvm.Type{}, errors.New("loader: empty type")
	}
	if strings.HasPrefix(s, "[") {
		elem, err := parseType(s[1:])
		if err != nil {
			return jvm.Type{}, err
		}
		return jvm.Array(elem), nil
	}
	return jvm.Object(s), nil
}
