package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func printInfo(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printSuccess(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "✅ "+format+"\n", args...)
}

func printWarning(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "⚠️  "+format+"\n", args...)
}

func printHeader(w io.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
}

// render writes v as JSON or YAML. It reports false for text, leaving the
// caller to print its own human format.
func render(w io.Writer, format string, v any) (bool, error) {
	switch strings.ToLower(format) {
	case "", formatText:
		return false, nil
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	}
	return true, fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
}
