package inspectapi

import "errors"

var errMissingDB = errors.New("db query parameter is required")
