package enrich

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/newthinker/fxscout/internal/core"
	"go.uber.org/zap"
)

// Exporting reports whether an export sink is configured.
func (e *Enricher) Exporting() bool {
	return e.sink != nil
}

// Export writes the enriched table to the configured sink under
// enriched/<yyyy>/<mm>/<id>.csv and returns its URI.
func (e *Enricher) Export(ctx context.Context, res *Result) (string, error) {
	if e.sink == nil {
		return "", core.WrapError(core.ErrConfigMissing, fmt.Errorf("no export sink configured"))
	}

	data, err := res.Table.Bytes()
	if err != nil {
		return "", core.WrapError(core.ErrExportFailed, fmt.Errorf("rendering CSV: %w", err))
	}

	now := e.now().UTC()
	key := fmt.Sprintf("enriched/%04d/%02d/%s.csv", now.Year(), int(now.Month()), e.newID())

	err = e.sink.Write(ctx, key, data)
	e.metrics.RecordExport(err)
	if err != nil {
		e.logger.Error("export failed", zap.String("key", key), zap.Error(err))
		return "", core.WrapError(core.ErrExportFailed, err)
	}

	uri := e.sink.URI(key)
	e.logger.Info("enriched trades exported", zap.String("uri", uri), zap.Int("bytes", len(data)))
	return uri, nil
}

func newExportID() string {
	return uuid.NewString()
}
