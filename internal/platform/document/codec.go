// Package document converts loosely typed store records into tagged Go types
// and back. Decoding validates `validate` struct tags so malformed documents
// are rejected at the store boundary.
package document

import (
	"sync"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// ErrMalformed marks documents that fail to decode or validate.
var ErrMalformed = errors.New("malformed document")

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Decode fills out from data and validates it.
func Decode(data map[string]any, out any) error {
	if data == nil {
		return errors.Mark(errors.New("document has no data"), ErrMalformed)
	}
	raw, err := sonic.Marshal(data)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "marshal document data"), ErrMalformed)
	}
	if err := sonic.Unmarshal(raw, out); err != nil {
		return errors.Mark(errors.Wrap(err, "unmarshal document data"), ErrMalformed)
	}
	if err := validatorInstance().Struct(out); err != nil {
		return errors.Mark(errors.Wrap(err, "validate document"), ErrMalformed)
	}
	return nil
}

// Encode flattens a tagged value into the map shape the store writes.
func Encode(in any) (map[string]any, error) {
	if err := validatorInstance().Struct(in); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "validate document"), ErrMalformed)
	}
	raw, err := sonic.Marshal(in)
	if err != nil {
		return nil, errors.Wrap(err, "marshal document")
	}
	out := make(map[string]any)
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrap(err, "unmarshal document map")
	}
	return out, nil
}
