// Package train runs the forward, loss, backward and update loop for a
// binary classifier built from nn.MLP.
package train

import (
	"github.com/pkg/errors"
	"github.com/retrograd-ml/retrograd/internal/autodiff"
	"github.com/retrograd-ml/retrograd/internal/dataset"
	"github.com/retrograd-ml/retrograd/internal/nn"
	"github.com/retrograd-ml/retrograd/internal/optim"
	"gonum.org/v1/gonum/stat"
)

// Metrics summarizes one epoch.
type Metrics struct {
	Epoch    int     // 1-based epoch number
	Loss     float64 // Sample-weighted mean loss over the epoch's steps
	Accuracy float64 // Fraction of samples classified correctly during the epoch
	LR       float64 // Learning rate used for the epoch
}

// Trainer owns a graph, a model and an optimizer.
//
// Parameters are created first; every step builds its transient nodes after
// a mark and releases them once the update is applied, so memory stays flat
// however long training runs.
type Trainer struct {
	cfg   Config
	g     *autodiff.Graph
	model *nn.MLP
	opt   optim.Optimizer
	mark  autodiff.Mark
}

// New builds an MLP with nInputs inputs, cfg.Hidden hidden layers and one
// output neuron, plus the configured optimizer.
func New(cfg Config, nInputs int) (*Trainer, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	if nInputs < 1 {
		return nil, errors.Wrapf(ErrConfig, "input width %d", nInputs)
	}

	g := autodiff.NewGraph()
	sizes := append(append([]int{}, cfg.Hidden...), 1)
	model := nn.NewMLP(g, nInputs, sizes, nn.NewRand(cfg.Seed))

	var opt optim.Optimizer
	switch cfg.Optimizer {
	case SGD:
		opt = optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: cfg.LR, Momentum: cfg.Momentum})
	case Adam:
		opt = optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: cfg.LR})
	default:
		return nil, errors.Wrapf(ErrConfig, "optimizer %d", cfg.Optimizer)
	}

	return &Trainer{
		cfg:   cfg,
		g:     g,
		model: model,
		opt:   opt,
		mark:  g.Mark(),
	}, nil
}

// Model returns the network being trained.
func (t *Trainer) Model() *nn.MLP {
	return t.model
}

// Config returns the effective configuration, defaults included.
func (t *Trainer) Config() Config {
	return t.cfg
}

// Fit trains for cfg.Epochs epochs over d, calling onEpoch (if not nil)
// after each one. Returns the metrics of the last epoch.
func (t *Trainer) Fit(d *dataset.Dataset, onEpoch func(Metrics)) (Metrics, error) {
	if d.Len() == 0 {
		return Metrics{}, errors.Wrap(ErrConfig, "empty dataset")
	}

	batch := t.cfg.BatchSize
	if batch == 0 || batch > d.Len() {
		batch = d.Len()
	}

	var last Metrics
	for epoch := range t.cfg.Epochs {
		if t.cfg.Decay {
			t.opt.SetLR(t.cfg.LR * (1 - 0.9*float64(epoch)/float64(t.cfg.Epochs)))
		}

		var losses, weights []float64
		correct := 0
		for start := 0; start < d.Len(); start += batch {
			end := min(start+batch, d.Len())
			loss, ok, err := t.Step(d.X[start:end], d.Y[start:end])
			if err != nil {
				return last, errors.Wrapf(err, "epoch %d", epoch+1)
			}
			losses = append(losses, loss)
			weights = append(weights, float64(end-start))
			correct += ok
		}

		last = Metrics{
			Epoch:    epoch + 1,
			Loss:     stat.Mean(losses, weights),
			Accuracy: float64(correct) / float64(d.Len()),
			LR:       t.opt.GetLR(),
		}
		if onEpoch != nil {
			onEpoch(last)
		}
	}
	return last, nil
}

// Step runs one update on the samples xs with 0/1 labels ys and returns
// the loss before the update and how many samples were classified correctly.
func (t *Trainer) Step(xs [][]float64, ys []float64) (float64, int, error) {
	defer t.g.Release(t.mark)

	outs := make([]autodiff.Value, len(xs))
	for i, x := range xs {
		out, err := t.forward(x)
		if err != nil {
			return 0, 0, errors.Wrapf(err, "sample %d", i)
		}
		outs[i] = out
	}

	loss, err := t.loss(outs, ys)
	if err != nil {
		return 0, 0, err
	}
	if t.cfg.L2 > 0 {
		loss = loss.Add(nn.L2Penalty(t.g, t.model.Parameters(), t.cfg.L2))
	}

	t.opt.ZeroGrad()
	loss.Backward()
	t.opt.Step()

	correct := 0
	for i, out := range outs {
		if t.classify(out.Data()) == ys[i] {
			correct++
		}
	}
	return loss.Data(), correct, nil
}

// Predict returns the predicted 0/1 label of x.
func (t *Trainer) Predict(x []float64) (float64, error) {
	defer t.g.Release(t.mark)

	out, err := t.forward(x)
	if err != nil {
		return 0, err
	}
	return t.classify(out.Data()), nil
}

// Accuracy returns the fraction of d classified correctly.
func (t *Trainer) Accuracy(d *dataset.Dataset) (float64, error) {
	if d.Len() == 0 {
		return 0, nil
	}
	correct := 0
	for i, x := range d.X {
		label, err := t.Predict(x)
		if err != nil {
			return 0, errors.Wrapf(err, "sample %d", i)
		}
		if label == d.Y[i] {
			correct++
		}
	}
	return float64(correct) / float64(d.Len()), nil
}

func (t *Trainer) forward(x []float64) (autodiff.Value, error) {
	output := nn.Identity
	if t.cfg.Loss == BCE {
		output = nn.Sigmoid
	}
	return t.model.ForwardScalarWith(nn.Inputs(x...), t.cfg.Activation, output)
}

func (t *Trainer) loss(outs []autodiff.Value, ys []float64) (autodiff.Value, error) {
	switch t.cfg.Loss {
	case Hinge:
		return nn.HingeLoss(t.g, outs, signed(ys))
	case MSE:
		return nn.MSELoss(t.g, outs, signed(ys))
	case BCE:
		return nn.BCELoss(t.g, outs, ys)
	default:
		return autodiff.Value{}, errors.Wrapf(ErrConfig, "loss %d", t.cfg.Loss)
	}
}

// classify turns a network output into a 0/1 label: probabilities are
// split at 0.5, raw scores at 0.
func (t *Trainer) classify(out float64) float64 {
	threshold := 0.0
	if t.cfg.Loss == BCE {
		threshold = 0.5
	}
	if out > threshold {
		return 1
	}
	return 0
}

func signed(ys []float64) []float64 {
	d := dataset.Dataset{Y: ys}
	return d.SignedLabels()
}
