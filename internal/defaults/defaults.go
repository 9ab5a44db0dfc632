// Package defaults provides embedded copies of the example config and
// prompts files for the gladys init subcommand.
package defaults

import _ "embed"

//go:embed config.example.yaml
var ConfigYAML []byte

//go:embed prompts.example.yaml
var PromptsYAML []byte
