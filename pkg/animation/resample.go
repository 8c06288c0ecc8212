package animation

import (
	"math"

	"github.com/user/webpkit/pkg/webperr"
)

// tieEpsilon keeps a slot that lands exactly on a frame's end timestamp out
// of that frame, despite floating point error in n*1000/fps.
const tieEpsilon = 1e-7

// Resample maps decoded frames onto a constant frame rate grid.
// ends holds each frame's cumulative end timestamp in milliseconds. The
// result lists, for every output slot, the index of the frame shown in it.
// Slot n is at n*1000/fps and belongs to the first frame whose end is
// strictly after it.
func Resample(ends []int, fps float64) ([]int, error) {
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		return nil, webperr.Newf(webperr.ErrConfig, "animation.Resample", "invalid configuration: fps %v", fps)
	}

	interval := 1000 / fps
	var slots []int
	slot := 0
	for i, end := range ends {
		for float64(slot)*interval+tieEpsilon < float64(end) {
			slots = append(slots, i)
			slot++
		}
	}
	return slots, nil
}

// ResampleFrames applies Resample to frames. Frames shown in several slots
// appear several times in the result.
func ResampleFrames[T any](frames []T, ends []int, fps float64) ([]T, error) {
	idx, err := Resample(ends, fps)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = frames[j]
	}
	return out, nil
}
