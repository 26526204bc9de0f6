// rulecheck validates data files against shapes declared in YAML.
//
// Usage:
//
//	# Validate a JSON or YAML document against the "signup" shape
//	rulecheck check --shapes shapes.yaml --shape signup --data form.json
//
//	# Localize failure messages
//	rulecheck check --shapes shapes.yaml --shape signup --data form.yaml \
//	    --messages messages.yaml --lang de
//
//	# Print the resolved rule map of every shape
//	rulecheck shapes --shapes shapes.yaml
//
// Logging follows APP_ENV, LOG_LEVEL, LOG_FORMAT and LOG_FILE. Failures are
// printed as "field: message" lines and the process exits with status 1.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errValidationFailed) {
			fmt.Fprintln(os.Stderr, "rulecheck:", err)
		}
		os.Exit(1)
	}
}
