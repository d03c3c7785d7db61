package services

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/quickpass/internal/core/domain"
	"github.com/custodia-labs/quickpass/internal/logger"
)

// ExportOrder writes every item image of order into dir, named by
// CartItem.FileName with a 1-based sequence. Items without image data are
// skipped. It returns the paths written.
func ExportOrder(order *domain.Order, dir string) ([]string, error) {
	if order == nil {
		return nil, fmt.Errorf("%w: no order to export", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	written := make([]string, 0, len(order.Items))
	for i, item := range order.Items {
		if item.RenderedImage == nil || len(item.RenderedImage.Data) == 0 {
			logger.Warn("order %s item %d has no image data, skipping", order.ID, i+1)
			continue
		}
		path := filepath.Join(dir, item.FileName(i+1))
		if err := os.WriteFile(path, item.RenderedImage.Data, 0o600); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
