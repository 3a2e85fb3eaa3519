package clipboard

import "errors"

// errUnsupportedPlatform is returned when no clipboard utility is available.
var errUnsupportedPlatform = errors.New("no clipboard utility available on this system")
