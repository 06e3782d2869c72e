// ABOUTME: Product and version identifiers
// ABOUTME: Version is overridable at link time with -ldflags "-X ..."
package version

import "fmt"

// Version is the release version, set by the build
var Version = "0.1.0"

const (
	Product      = "soundstream"
	Manufacturer = "Resonate Protocol"
)

// UserAgent identifies a component on the wire, e.g. "soundstream-play/0.1.0"
func UserAgent(component string) string {
	return fmt.Sprintf("%s/%s", component, Version)
}

// String is the banner printed by -version
func String(component string) string {
	return fmt.Sprintf("%s %s (%s, %s)", component, Version, Product, Manufacturer)
}
