package validator

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// UUID checks for a canonical hyphenated UUID, optionally of the version
// given as uuid(4). uuid.UUID values are checked directly. Empty values pass.
func UUID() Validator {
	return Func(UUIDRule, func(ctx Context) string {
		if isEmpty(ctx.Value()) {
			return ""
		}

		version := 0
		if params := ctx.Params(); len(params) > 0 && params[0] != "" {
			v, err := strconv.Atoi(params[0])
			if err != nil || v < 1 || v > 8 {
				return invalidParams(UUIDRule)
			}
			version = v
		}

		id, ok := parseUUID(indirect(ctx.Value()))
		if !ok {
			return Fail(ctx, "must be a valid UUID")
		}
		if version > 0 && id.Version() != uuid.Version(version) {
			return Fail(ctx, "must be a valid UUID version %{0}")
		}
		return ""
	})
}

// parseUUID rejects anything but the 36 character form before parsing.
func parseUUID(v any) (uuid.UUID, bool) {
	if id, ok := v.(uuid.UUID); ok {
		return id, id != uuid.Nil
	}

	value := strings.TrimSpace(stringValue(v))
	if len(value) != 36 {
		return uuid.Nil, false
	}
	if value[8] != '-' || value[13] != '-' || value[18] != '-' || value[23] != '-' {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
