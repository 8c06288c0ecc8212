package animation

import (
	"errors"
	"reflect"
	"testing"

	"github.com/user/webpkit/pkg/webperr"
)

func TestResample(t *testing.T) {
	tests := []struct {
		name string
		ends []int
		fps  float64
		want []int
	}{
		{"one slot per frame", []int{250, 500, 750, 1000}, 4, []int{0, 1, 2, 3}},
		{"upsample", []int{250, 500, 750, 1000}, 8, []int{0, 0, 1, 1, 2, 2, 3, 3}},
		{"downsample", []int{250, 500, 750, 1000}, 2, []int{0, 2}},
		{"tie goes to next frame", []int{100, 200}, 10, []int{0, 1}},
		{"inexact grid tie", []int{1000}, 3, []int{0, 0, 0}},
		{"frame without a slot", []int{10, 1000}, 1, []int{0}},
		{"uneven", []int{40, 300}, 10, []int{0, 1, 1}},
		{"empty", nil, 30, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resample(tt.ends, tt.fps)
			if err != nil {
				t.Fatalf("Resample failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestResample_InvalidFPS(t *testing.T) {
	for _, fps := range []float64{0, -1} {
		if _, err := Resample([]int{100}, fps); !errors.Is(err, webperr.ErrConfig) {
			t.Errorf("fps %v: expected ErrConfig, got %v", fps, err)
		}
	}
}

func TestResampleFrames(t *testing.T) {
	got, err := ResampleFrames([]string{"a", "b"}, []int{500, 1000}, 4)
	if err != nil {
		t.Fatalf("ResampleFrames failed: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"a", "a", "b", "b"}) {
		t.Errorf("expected [a a b b], got %v", got)
	}
}
