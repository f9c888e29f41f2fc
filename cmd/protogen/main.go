// protogen writes the built-in modem protocol profile as an editable TOML
// template, and validates edited profiles before they are handed to a
// codec.
package main

import (
	"flag"
	"log"

	"github.com/danmuck/modemlink/internal/config"
)

func main() {
	output := flag.String("output", "profile.toml", "output path for the profile template")
	validate := flag.Bool("validate", false, "validate an existing profile file")
	input := flag.String("input", "", "profile path for validation (defaults to -output)")
	force := flag.Bool("force", false, "overwrite an existing profile file")
	flag.Parse()

	if *validate {
		path := *input
		if path == "" {
			path = *output
		}
		profile, err := config.Load(path)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated profile at %s (%d message types)", path, profile.Registry.Len())
		return
	}

	if err := config.WriteTemplate(*output, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote profile template to %s", *output)
}
