package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/retrograd-ml/retrograd/internal/dataset"
	"github.com/retrograd-ml/retrograd/internal/nn"
	"github.com/retrograd-ml/retrograd/internal/train"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "retrograd",
		Short:         "Scalar reverse-mode autodiff and tiny neural networks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newTrainCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "retrograd %s\n", version)
		},
	}
}

type trainFlags struct {
	dataset    string
	samples    int
	noise      float64
	hidden     []int
	activation string
	optimizer  string
	loss       string
	lr         float64
	momentum   float64
	l2         float64
	decay      bool
	epochs     int
	batchSize  int
	seed       uint64
	logEvery   int
}

func newTrainCmd() *cobra.Command {
	var f trainFlags

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train an MLP classifier on a generated dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTrain(cmd, f)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&f.dataset, "dataset", "moons", "Dataset to generate (xor, moons, circles)")
	fs.IntVar(&f.samples, "samples", 100, "Number of samples to generate")
	fs.Float64Var(&f.noise, "noise", 0.1, "Standard deviation of the Gaussian noise added to each point")
	fs.IntSliceVar(&f.hidden, "hidden", []int{16, 16}, "Comma-separated hidden layer widths")
	fs.StringVar(&f.activation, "activation", "relu", "Hidden activation (tanh, sigmoid, relu, none)")
	fs.StringVar(&f.optimizer, "optimizer", "adam", "Optimizer (sgd, adam)")
	fs.StringVar(&f.loss, "loss", "hinge", "Loss (hinge, mse, bce)")
	fs.Float64Var(&f.lr, "lr", 0.01, "Learning rate")
	fs.Float64Var(&f.momentum, "momentum", 0, "SGD momentum")
	fs.Float64Var(&f.l2, "l2", 0, "L2 weight-decay coefficient")
	fs.BoolVar(&f.decay, "decay", false, "Decay the learning rate linearly to 10% over the run")
	fs.IntVar(&f.epochs, "epochs", 100, "Number of epochs")
	fs.IntVar(&f.batchSize, "batch-size", 0, "Samples per step (0 for full batch)")
	fs.Uint64Var(&f.seed, "seed", 42, "Random seed for data and parameters")
	fs.IntVar(&f.logEvery, "log-every", 10, "Print metrics every N epochs (0 to print only the last)")

	return cmd
}

func runTrain(cmd *cobra.Command, f trainFlags) error {
	kind, err := dataset.ParseKind(f.dataset)
	if err != nil {
		return err
	}
	act, err := nn.ParseActivation(f.activation)
	if err != nil {
		return err
	}
	opt, err := train.ParseOptimizer(f.optimizer)
	if err != nil {
		return err
	}
	loss, err := train.ParseLoss(f.loss)
	if err != nil {
		return err
	}
	if f.epochs < 1 {
		return errors.Wrapf(train.ErrConfig, "epochs must be positive, got %d", f.epochs)
	}

	data, err := dataset.Generate(kind, f.samples, f.noise, nn.NewRand(f.seed))
	if err != nil {
		return err
	}

	tr, err := train.New(train.Config{
		Hidden:     f.hidden,
		Activation: act,
		Loss:       loss,
		Optimizer:  opt,
		LR:         f.lr,
		Momentum:   f.momentum,
		L2:         f.l2,
		Decay:      f.decay,
		Epochs:     f.epochs,
		BatchSize:  f.batchSize,
		Seed:       f.seed + 1,
	}, 2)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	widths := lo.Map(tr.Model().Layers(), func(l *nn.Layer, _ int) int { return l.NumOutputs() })
	fmt.Fprintf(out, "dataset=%s samples=%d layers=%v\n", kind, data.Len(), widths)
	fmt.Fprintf(out, "parameters=%d optimizer=%s loss=%s activation=%s\n",
		len(tr.Model().Parameters()), opt, loss, act)

	last, err := tr.Fit(data, func(m train.Metrics) {
		if f.logEvery > 0 && m.Epoch%f.logEvery == 0 {
			printMetrics(cmd, m)
		}
	})
	if err != nil {
		return errors.Wrap(err, "training failed")
	}
	if f.logEvery <= 0 || last.Epoch%f.logEvery != 0 {
		printMetrics(cmd, last)
	}

	acc, err := tr.Accuracy(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "final accuracy %.2f%%\n", 100*acc)
	return nil
}

func printMetrics(cmd *cobra.Command, m train.Metrics) {
	fmt.Fprintf(cmd.OutOrStdout(), "epoch %4d  loss %.6f  accuracy %.2f%%  lr %.5f\n",
		m.Epoch, m.Loss, 100*m.Accuracy, m.LR)
}
