package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dshills/commitgate/internal/gate"
)

// JSONWriter encodes the report as indented JSON. Diagnostics quote the
// "<type>(<scope>): <subject>" form, so HTML escaping is off.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, report *gate.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding %s report: %w", report.Mode, err)
	}
	return nil
}
