package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopscope/shopscope/pkg/profile"
)

// WriteJSON transcribes profiles to an indented JSON array. Pure, lossless
// serialization of the pipeline output.
func WriteJSON(path string, profiles []profile.StoreProfile) error {
	if profiles == nil {
		profiles = []profile.StoreProfile{}
	}
	blob, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling profiles: %w", err)
	}
	if err := os.WriteFile(path, append(blob, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// WriteCSV writes the flat deliverable view: domain, description, keywords.
func WriteCSV(path string, profiles []profile.StoreProfile) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"domain", "description", "keywords"}); err != nil {
		return err
	}
	for i := range profiles {
		p := &profiles[i]
		row := []string{
			p.Domain,
			strings.ReplaceAll(p.Description, "\n", " "),
			strings.Join(p.Keywords, ", "),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
