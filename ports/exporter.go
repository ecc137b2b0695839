package ports

import (
	"playercorr/domain/stats"
)

// SummaryExporter persists a computed summary to a file
type SummaryExporter interface {
	Export(path string, summary *stats.Summary) error
}
