package out

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ggonzalez94/swapencode/internal/config"
)

// Render writes data as indented JSON or as one key=value line per item,
// depending on the configured output mode.
func Render(w io.Writer, data any, settings config.Settings) error {
	if settings.OutputMode == "plain" {
		return renderPlain(w, data)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func renderPlain(w io.Writer, data any) error {
	// Round-trip through JSON so custom marshalers (addresses, hex bytes)
	// render the same in both modes.
	buf, err := json.Marshal(data)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(buf, &generic); err != nil {
		return err
	}

	items, ok := generic.([]any)
	if !ok {
		items = []any{generic}
	}
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "[]")
		return err
	}
	for _, item := range items {
		line, err := toLine(item)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func toLine(item any) (string, error) {
	fields, ok := item.(map[string]any)
	if !ok {
		buf, err := json.Marshal(item)
		return string(buf), err
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		value := fields[k]
		switch v := value.(type) {
		case string:
			parts = append(parts, fmt.Sprintf("%s=%s", k, v))
		default:
			buf, err := json.Marshal(v)
			if err != nil {
				return "", err
			}
			parts = append(parts, fmt.Sprintf("%s=%s", k, string(buf)))
		}
	}
	return strings.Join(parts, " "), nil
}
