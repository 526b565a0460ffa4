package native

import (
	"errors"

	"golang.org/x/sys/unix"
)

// Set by Chromium and Firefox based browsers on downloads.
var markerAttrs = []string{"user.xdg.origin.url", "user.xdg.referrer.url"}

func isMissingAttr(err error) bool { return errors.Is(err, unix.ENODATA) }
