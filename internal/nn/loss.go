package nn

import (
	"github.com/pkg/errors"
	"github.com/retrograd-ml/retrograd/internal/autodiff"
)

// MSELoss computes Mean Squared Error loss.
//
// Loss = mean((predictions - targets)²)
//
// Example:
//
//	preds := []autodiff.Value{...} // one score per sample
//	loss, err := nn.MSELoss(g, preds, []float64{1, -1, 1})
//	loss.Backward()
func MSELoss(g *autodiff.Graph, predictions []autodiff.Value, targets []float64) (autodiff.Value, error) {
	if err := checkBatch("mse", predictions, targets); err != nil {
		return autodiff.Value{}, err
	}

	terms := make([]autodiff.Operand, len(predictions))
	for i, p := range predictions {
		diff := p.Sub(autodiff.Scalar(targets[i]))
		terms[i] = diff.Mul(diff)
	}
	return mean(g, terms), nil
}

// BCELoss computes binary cross-entropy on probabilities in (0, 1).
//
// Loss = -mean(t·log(p) + (1-t)·log(1-p))
//
// A probability of exactly 0 or 1 makes a log argument non-positive; the
// resulting autodiff.DomainError is returned wrapped with the sample index.
func BCELoss(g *autodiff.Graph, probabilities []autodiff.Value, targets []float64) (autodiff.Value, error) {
	if err := checkBatch("bce", probabilities, targets); err != nil {
		return autodiff.Value{}, err
	}

	terms := make([]autodiff.Operand, len(probabilities))
	for i, p := range probabilities {
		logP, err := p.Log()
		if err != nil {
			return autodiff.Value{}, errors.Wrapf(err, "bce sample %d", i)
		}
		logQ, err := p.RSub(autodiff.Scalar(1)).Log()
		if err != nil {
			return autodiff.Value{}, errors.Wrapf(err, "bce sample %d", i)
		}
		t := targets[i]
		terms[i] = logP.Mul(autodiff.Scalar(t)).Add(logQ.Mul(autodiff.Scalar(1 - t)))
	}
	return mean(g, terms).Neg(), nil
}

// HingeLoss computes the max-margin loss for targets in {-1, +1}.
//
// Loss = mean(max(0, 1 - t·s))
func HingeLoss(g *autodiff.Graph, scores []autodiff.Value, targets []float64) (autodiff.Value, error) {
	if err := checkBatch("hinge", scores, targets); err != nil {
		return autodiff.Value{}, err
	}

	terms := make([]autodiff.Operand, len(scores))
	for i, s := range scores {
		terms[i] = s.Mul(autodiff.Scalar(-targets[i])).Add(autodiff.Scalar(1)).ReLU()
	}
	return mean(g, terms), nil
}

// L2Penalty returns alpha · Σ p² over params, the usual weight-decay term.
func L2Penalty(g *autodiff.Graph, params []autodiff.Value, alpha float64) autodiff.Value {
	terms := make([]autodiff.Operand, len(params))
	for i, p := range params {
		terms[i] = p.Mul(p)
	}
	return g.Sum(autodiff.Scalar(0), terms...).Mul(autodiff.Scalar(alpha))
}

func checkBatch(name string, values []autodiff.Value, targets []float64) error {
	if len(values) != len(targets) {
		return &ShapeError{Component: name + " loss", Want: len(targets), Got: len(values)}
	}
	if len(values) == 0 {
		return errors.Wrapf(ErrShape, "%s loss: empty batch", name)
	}
	return nil
}

func mean(g *autodiff.Graph, terms []autodiff.Operand) autodiff.Value {
	total := g.Sum(terms[0], terms[1:]...)
	return total.Mul(autodiff.Scalar(1 / float64(len(terms))))
}
