// Package banner renders the startup banner shown on stderr.
package banner

import "fmt"

const art = `
     _
  __| |_   _ _   _  __ _ _   _
 / _' | | | | | | |/ _' | | | |
| (_| | |_| | |_| | (_| | |_| |
 \__,_|\__,_|\__, |\__, |\__,_|
             |___/ |___/
`

// Banner returns the banner with the version line.
func Banner(version string) string {
	return fmt.Sprintf("%s  review sentiment classifier %s\n\n", art, version)
}
