package booking

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirExporter saves tickets as files under Dir.
type DirExporter struct {
	Dir string
}

func (e DirExporter) Export(ctx context.Context, filename string, content []byte) error {
	const op = "booking.DirExporter.Export"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	path := filepath.Join(e.Dir, filepath.Base(filename))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

// Exporters hands a ticket to each exporter in turn and stops at the first
// failure.
type Exporters []TicketExporter

func (es Exporters) Export(ctx context.Context, filename string, content []byte) error {
	for _, e := range es {
		if e == nil {
			continue
		}
		if err := e.Export(ctx, filename, content); err != nil {
			return err
		}
	}
	return nil
}
