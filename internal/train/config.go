package train

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/retrograd-ml/retrograd/internal/nn"
)

// ErrConfig is wrapped by every configuration validation error.
var ErrConfig = errors.New("invalid training config")

// LossKind selects the training objective.
type LossKind uint8

// Supported losses.
const (
	// Hinge trains raw scores against ±1 labels (max-margin).
	Hinge LossKind = iota
	// MSE regresses raw scores onto ±1 labels.
	MSE
	// BCE trains sigmoid probabilities against 0/1 labels.
	BCE
)

// String returns the name accepted by ParseLoss.
func (k LossKind) String() string {
	switch k {
	case Hinge:
		return "hinge"
	case MSE:
		return "mse"
	case BCE:
		return "bce"
	default:
		return "unknown"
	}
}

// ParseLoss maps "hinge", "mse" or "bce" to a LossKind.
func ParseLoss(name string) (LossKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "hinge":
		return Hinge, nil
	case "mse":
		return MSE, nil
	case "bce":
		return BCE, nil
	default:
		return Hinge, errors.Wrapf(ErrConfig, "unknown loss %q", name)
	}
}

// OptimizerKind selects the update rule.
type OptimizerKind uint8

// Supported optimizers.
const (
	SGD OptimizerKind = iota
	Adam
)

// String returns the name accepted by ParseOptimizer.
func (k OptimizerKind) String() string {
	switch k {
	case SGD:
		return "sgd"
	case Adam:
		return "adam"
	default:
		return "unknown"
	}
}

// ParseOptimizer maps "sgd" or "adam" to an OptimizerKind.
func ParseOptimizer(name string) (OptimizerKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sgd":
		return SGD, nil
	case "adam":
		return Adam, nil
	default:
		return SGD, errors.Wrapf(ErrConfig, "unknown optimizer %q", name)
	}
}

// Config holds everything needed to build and train a classifier.
type Config struct {
	Hidden     []int         // Hidden layer widths (default: [16, 16])
	Activation nn.Activation // Activation of the hidden layers
	Loss       LossKind      // Training objective
	Optimizer  OptimizerKind // Update rule
	LR         float64       // Learning rate (default: 0.05)
	Momentum   float64       // SGD momentum (default: 0.0)
	L2         float64       // Weight-decay coefficient (default: 0, off)
	Decay      bool          // Decay LR linearly to 10% over the run
	Epochs     int           // Passes over the data (default: 100)
	BatchSize  int           // Samples per step (default: 0, full batch)
	Seed       uint64        // Seed for parameter initialization
}

// withDefaults fills zero fields and validates the result.
func (c Config) withDefaults() (Config, error) {
	if len(c.Hidden) == 0 {
		c.Hidden = []int{16, 16}
	}
	if c.LR == 0 {
		c.LR = 0.05
	}
	if c.Epochs == 0 {
		c.Epochs = 100
	}

	for i, w := range c.Hidden {
		if w < 1 {
			return c, errors.Wrapf(ErrConfig, "hidden layer %d has width %d", i, w)
		}
	}
	if c.LR < 0 {
		return c, errors.Wrapf(ErrConfig, "learning rate %g is negative", c.LR)
	}
	if c.Momentum < 0 || c.Momentum >= 1 {
		return c, errors.Wrapf(ErrConfig, "momentum %g outside [0, 1)", c.Momentum)
	}
	if c.L2 < 0 {
		return c, errors.Wrapf(ErrConfig, "l2 coefficient %g is negative", c.L2)
	}
	if c.Epochs < 0 {
		return c, errors.Wrapf(ErrConfig, "epochs %d is negative", c.Epochs)
	}
	if c.BatchSize < 0 {
		return c, errors.Wrapf(ErrConfig, "batch size %d is negative", c.BatchSize)
	}
	return c, nil
}
