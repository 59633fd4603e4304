package palette

import (
	"math"
	"testing"
)

func TestMedianCut_Empty(t *testing.T) {
	if got := MedianCut(nil, 12); len(got) != 0 {
		t.Errorf("Expected no clusters for empty histogram, got %d", len(got))
	}
}

func TestMedianCut_SingleColor(t *testing.T) {
	clusters := MedianCut([]WeightedColor{{RGB: RGB{200, 80, 80}, Count: 400}}, 12)

	if len(clusters) != 1 {
		t.Fatalf("Expected exactly one cluster, got %d", len(clusters))
	}
	if clusters[0].RGB != (RGB{200, 80, 80}) {
		t.Errorf("Expected cluster color (200,80,80), got %+v", clusters[0].RGB)
	}
	if clusters[0].Weight != 1.0 {
		t.Errorf("Expected weight 1.0, got %f", clusters[0].Weight)
	}
}

func TestMedianCut_SplitsAlongWidestChannel(t *testing.T) {
	colors := []WeightedColor{
		{RGB: RGB{240, 0, 0}, Count: 1},
		{RGB: RGB{16, 0, 0}, Count: 1},
		{RGB: RGB{128, 0, 0}, Count: 1},
		{RGB: RGB{64, 0, 0}, Count: 1},
	}

	clusters := MedianCut(colors, 4)

	want := []uint8{16, 64, 128, 240}
	if len(clusters) != len(want) {
		t.Fatalf("Expected %d clusters, got %d", len(want), len(clusters))
	}
	for i, r := range want {
		if clusters[i].R != r {
			t.Errorf("Cluster %d: expected R=%d, got %d", i, r, clusters[i].R)
		}
		if clusters[i].Weight != 0.25 {
			t.Errorf("Cluster %d: expected weight 0.25, got %f", i, clusters[i].Weight)
		}
	}
}

func TestMedianCut_DoesNotMutateInput(t *testing.T) {
	colors := []WeightedColor{
		{RGB: RGB{240, 0, 0}, Count: 1},
		{RGB: RGB{16, 0, 0}, Count: 1},
	}
	MedianCut(colors, 2)

	if colors[0].R != 240 || colors[1].R != 16 {
		t.Errorf("Expected input order to be preserved, got %v", colors)
	}
}

func TestMedianCut_CountWeightedAverage(t *testing.T) {
	colors := []WeightedColor{
		{RGB: RGB{0, 0, 0}, Count: 3},
		{RGB: RGB{100, 0, 0}, Count: 1},
	}

	clusters := MedianCut(colors, 1)

	if len(clusters) != 1 {
		t.Fatalf("Expected one cluster, got %d", len(clusters))
	}
	if clusters[0].R != 25 {
		t.Errorf("Expected count-weighted R=25, got %d", clusters[0].R)
	}
	if clusters[0].Weight != 1.0 {
		t.Errorf("Expected weight to be the element ratio 1.0, got %f", clusters[0].Weight)
	}
}

func TestMedianCut_WeightIsElementRatio(t *testing.T) {
	colors := []WeightedColor{
		{RGB: RGB{16, 16, 16}, Count: 1000},
		{RGB: RGB{240, 16, 16}, Count: 1},
	}

	clusters := MedianCut(colors, 2)

	if len(clusters) != 2 {
		t.Fatalf("Expected two clusters, got %d", len(clusters))
	}
	for _, c := range clusters {
		if c.Weight != 0.5 {
			t.Errorf("Expected weight 0.5 regardless of pixel count, got %f", c.Weight)
		}
	}
}

func TestMedianCut_WholePassesMayOvershoot(t *testing.T) {
	colors := make([]WeightedColor, 5)
	for i := range colors {
		colors[i] = WeightedColor{RGB: RGB{uint8(i * 50), 0, 0}, Count: 1}
	}

	clusters := MedianCut(colors, 3)

	if len(clusters) != 4 {
		t.Errorf("Expected 4 clusters after two full passes, got %d", len(clusters))
	}

	var total float64
	for _, c := range clusters {
		total += c.Weight
	}
	if math.Abs(total-1) > 1e-9 {
		t.Errorf("Expected weights to sum to 1, got %f", total)
	}
}

func TestMedianCut_StopsWhenNothingSplits(t *testing.T) {
	colors := []WeightedColor{
		{RGB: RGB{10, 10, 10}, Count: 1},
		{RGB: RGB{90, 90, 90}, Count: 1},
	}

	clusters := MedianCut(colors, 24)

	if len(clusters) != 2 {
		t.Errorf("Expected 2 clusters when every bucket holds one color, got %d", len(clusters))
	}
}

func TestBucketSplit_PreservesElements(t *testing.T) {
	for n := 2; n <= 17; n++ {
		b := make(bucket, n)
		for i := range b {
			b[i] = WeightedColor{RGB: RGB{uint8(i * 7), uint8(255 - i*3), uint8(i * 11 % 256)}, Count: i + 1}
		}

		left, right := b.split()

		if len(left)+len(right) != n {
			t.Errorf("n=%d: expected %d elements after split, got %d", n, n, len(left)+len(right))
		}
		if len(left) == 0 || len(right) == 0 {
			t.Errorf("n=%d: expected both halves non-empty, got %d and %d", n, len(left), len(right))
		}
		if len(left) != n/2 {
			t.Errorf("n=%d: expected left half of %d, got %d", n, n/2, len(left))
		}
	}
}

func TestBucketWidestChannel_TieBreaks(t *testing.T) {
	tests := []struct {
		name   string
		colors bucket
		want   channel
	}{
		{
			name:   "red wins tie with green",
			colors: bucket{{RGB: RGB{0, 0, 0}}, {RGB: RGB{10, 10, 0}}},
			want:   channelR,
		},
		{
			name:   "red wins tie with blue",
			colors: bucket{{RGB: RGB{0, 0, 0}}, {RGB: RGB{10, 0, 10}}},
			want:   channelR,
		},
		{
			name:   "green wins tie with blue",
			colors: bucket{{RGB: RGB{0, 0, 0}}, {RGB: RGB{0, 10, 10}}},
			want:   channelG,
		},
		{
			name:   "blue when widest",
			colors: bucket{{RGB: RGB{5, 5, 0}}, {RGB: RGB{0, 0, 10}}},
			want:   channelB,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.colors.widestChannel(); got != tt.want {
				t.Errorf("Expected channel %d, got %d", tt.want, got)
			}
		})
	}
}
