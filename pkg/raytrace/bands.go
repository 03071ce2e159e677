package raytrace

import (
	"github.com/shirou/gopsutil/v3/cpu"
)

// Band is a half-open range of framebuffer rows owned by one worker.
type Band struct {
	Start, End int
}

// Rows returns the number of rows in the band.
func (b Band) Rows() int { return b.End - b.Start }

// Bands splits rows into n contiguous, disjoint bands covering [0, rows).
// n is clamped to [1, rows]; the first rows%n bands get one extra row.
func Bands(rows, n int) []Band {
	if rows <= 0 {
		return nil
	}
	n = max(1, min(n, rows))

	size, extra := rows/n, rows%n
	bands := make([]Band, n)
	start := 0
	for i := range bands {
		end := start + size
		if i < extra {
			end++
		}
		bands[i] = Band{Start: start, End: end}
		start = end
	}
	return bands
}

// HardwareConcurrency returns the number of logical CPUs, or 1 when it
// cannot be determined.
func HardwareConcurrency() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		logger.Warningf("cannot count logical cpus, using 1 worker: %v", err)
		return 1
	}
	return n
}
