package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEloDiff(t *testing.T) {
	cases := []struct {
		name     string
		prev     int
		curr     int
		wantOp   string
		wantDiff int
	}{
		{"gain", 1500, 1520, "+", 20},
		{"loss", 1520, 1495, "-", 25},
		{"unchanged", 1500, 1500, "-", 0},
		{"gain from zero", 0, 100, "+", 100},
		{"full loss", 100, 0, "-", 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := EloDiff(tc.prev, tc.curr)
			assert.Equal(t, tc.wantOp, d.Operator)
			assert.Equal(t, tc.wantDiff, d.Diff)
			assert.Equal(t, tc.curr, d.NewElo)
		})
	}
}

func TestEloDiffMagnitudeIsAbsolute(t *testing.T) {
	pairs := [][2]int{{0, 0}, {1, 2}, {2, 1}, {1500, 1520}, {1520, 1500}, {3000, 1}, {1, 3000}}
	for _, p := range pairs {
		d := EloDiff(p[0], p[1])
		want := p[1] - p[0]
		if want < 0 {
			want = -want
		}
		assert.Equal(t, want, d.Diff, "pair %v", p)
		assert.GreaterOrEqual(t, d.Diff, 0)
		if p[1] > p[0] {
			assert.Equal(t, "+", d.Operator)
		} else {
			assert.Equal(t, "-", d.Operator)
		}
	}
}

func TestEloDiffUnchanged(t *testing.T) {
	d := EloDiff(1234, 1234)
	assert.True(t, d.Unchanged())
	assert.Equal(t, "-", d.Operator)
	assert.Equal(t, "-0 (1234)", d.String())
}

func TestSkillLevelForElo(t *testing.T) {
	cases := map[int]int{
		0:    1,
		1:    1,
		500:  1,
		501:  2,
		750:  2,
		751:  3,
		900:  3,
		901:  4,
		1051: 5,
		1200: 5,
		1201: 6,
		1350: 6,
		1351: 7,
		1530: 7,
		1531: 8,
		1750: 8,
		1751: 9,
		2000: 9,
		2001: 10,
		3500: 10,
	}
	for elo, want := range cases {
		assert.Equal(t, want, SkillLevelForElo(elo), "elo %d", elo)
	}
}
