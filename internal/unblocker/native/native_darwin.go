package native

import (
	"errors"

	"golang.org/x/sys/unix"
)

var markerAttrs = []string{"com.apple.quarantine"}

func isMissingAttr(err error) bool { return errors.Is(err, unix.ENOATTR) }
