//go:build !linux

package platform

import "errors"

func openDisplay(string) (Backend, error) {
	return nil, errors.New("X11 viewport is only supported on linux")
}
