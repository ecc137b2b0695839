package ports

import (
	"playercorr/domain/player"
)

// DatasetSource yields the full, unfiltered player dataset
type DatasetSource interface {
	Load() (player.Dataset, error)
}
