package classify

import (
	"fmt"

	"github.com/oyabun/tendon/pkg/model"
)

// CheckSchema compares the composer's field set against a classifier's
// expected schema. Order matters: silently reordered features are as wrong
// as missing ones. Any difference is fatal and reported exactly.
func CheckSchema(expected []string) error {
	produced := model.FieldNames()

	producedSet := make(map[string]struct{}, len(produced))
	for _, f := range produced {
		producedSet[f] = struct{}{}
	}
	expectedSet := make(map[string]struct{}, len(expected))
	for _, f := range expected {
		expectedSet[f] = struct{}{}
	}

	var missing, unexpected []string
	for _, f := range expected {
		if _, ok := producedSet[f]; !ok {
			missing = append(missing, f)
		}
	}
	for _, f := range produced {
		if _, ok := expectedSet[f]; !ok {
			unexpected = append(unexpected, f)
		}
	}
	if len(missing) > 0 || len(unexpected) > 0 {
		return &model.SchemaError{Missing: missing, Unexpected: unexpected}
	}

	// Same field set: verify order.
	for i := range produced {
		if expected[i] != produced[i] {
			return &model.SchemaError{
				Detail: fmt.Sprintf("field order differs at position %d: expected %q, produced %q",
					i, expected[i], produced[i]),
			}
		}
	}
	return nil
}
