package dataset

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/retrograd-ml/retrograd/internal/nn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_XOR(t *testing.T) {
	d, err := Generate(XOR, 8, 0, nn.NewRand(1))
	require.NoError(t, err)

	require.Equal(t, 8, d.Len())
	for i, x := range d.X {
		require.Len(t, x, 2)
		want := 0.0
		if (x[0] > 0) != (x[1] > 0) {
			want = 1
		}
		assert.Equal(t, want, d.Y[i], "sample %d at %v", i, x)
	}
}

func TestGenerate_Circles(t *testing.T) {
	d, err := Generate(Circles, 20, 0, nn.NewRand(2))
	require.NoError(t, err)

	for i, x := range d.X {
		r := math.Hypot(x[0], x[1])
		if d.Y[i] == 1 {
			assert.InDelta(t, 0.5, r, 1e-9)
		} else {
			assert.InDelta(t, 1.0, r, 1e-9)
		}
	}
}

func TestGenerate_MoonsBalanced(t *testing.T) {
	d, err := Generate(Moons, 11, 0.1, nn.NewRand(3))
	require.NoError(t, err)

	ones := 0
	for _, y := range d.Y {
		ones += int(y)
	}
	assert.Equal(t, 5, ones)
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate(Moons, 50, 0.1, nn.NewRand(9))
	require.NoError(t, err)
	b, err := Generate(Moons, 50, 0.1, nn.NewRand(9))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerate_Errors(t *testing.T) {
	_, err := Generate(XOR, 0, 0, nn.NewRand(1))
	assert.Error(t, err)

	_, err = Generate(XOR, 4, -1, nn.NewRand(1))
	assert.Error(t, err)

	_, err = Generate(Kind(42), 4, 0, nn.NewRand(1))
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{XOR, Moons, Circles} {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseKind("spirals")
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestSignedLabels(t *testing.T) {
	d := &Dataset{Y: []float64{0, 1, 1}}
	assert.Equal(t, []float64{-1, 1, 1}, d.SignedLabels())
}
