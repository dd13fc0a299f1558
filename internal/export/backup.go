package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/garyjia/invoice-desk/internal/domain/entity"
)

// WriteBackup writes b as indented JSON
func WriteBackup(w io.Writer, b entity.Backup) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return nil
}

// ReadBackup decodes a backup document. Absent sections stay nil.
func ReadBackup(r io.Reader) (entity.Backup, error) {
	var b entity.Backup
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return entity.Backup{}, fmt.Errorf("failed to decode backup: %w", err)
	}
	return b, nil
}
