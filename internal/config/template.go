package config

import (
	"fmt"
	"os"
)

// Template returns the built-in modem profile as an editable TOML document.
// Every key is present with its default value, so copying the output and
// changing one line is enough to derive a custom profile.
func Template() string {
	return profileTemplate
}

// WriteTemplate writes the profile template to path. Existing files are
// left untouched unless overwrite is set.
func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("profile already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(profileTemplate), 0o600)
}

const profileTemplate = `# Modem UART protocol profile.
# All values shown are the built-in defaults.

[frame]
marker = "aa55"
length_width = 1
type_width = 1
max_payload = 255

[crc]
poly = 0x8005
init = 0xFFFF
xor_out = 0x0000

# A [[message]] list replaces the built-in catalog entirely. Field kinds:
# uint, int, enum, bytes, bits. A bytes field without a width consumes the
# payload remainder and may constrain its length with "multiple".
#
# [[message]]
# type = 0x01
# name = "ping_request"
#
#   [[message.field]]
#   name = "data"
#   kind = "bytes"
`
