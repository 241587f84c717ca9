package starter

import (
	"context"

	"github.com/oshokin/app-starter/internal/fetcher"
	"github.com/oshokin/app-starter/internal/logger"
)

const (
	// progressStep is the percentage between two progress lines when the size is known.
	progressStep = 10
	// unknownSizeStep is the number of bytes between two progress lines otherwise.
	unknownSizeStep = 1 << 20
)

// progressLogger returns a callback that logs download progress. The
// fetcher calls it for every chunk; only step changes are logged.
func progressLogger(ctx context.Context) fetcher.ProgressFunc {
	var lastStep int64 = -1

	return func(loaded, total int64) {
		var step int64

		if total > 0 {
			step = loaded * 100 / total / progressStep
		} else {
			step = loaded / unknownSizeStep
		}

		if step == lastStep {
			return
		}

		lastStep = step

		if total > 0 {
			logger.Infof(ctx, "Downloaded %d%% (%d of %d bytes)", step*progressStep, loaded, total)
			return
		}

		logger.Infof(ctx, "Downloaded %d bytes", loaded)
	}
}
