// Command retrograd trains small multi-layer perceptrons on toy
// two-dimensional classification problems.
//
// Usage:
//
//	retrograd train --dataset moons --samples 100 --hidden 16,16 --activation relu
//	retrograd train --dataset xor --optimizer sgd --lr 0.1 --loss mse --epochs 300
//	retrograd version
package main

import (
	"log"
)

const version = "v0.1.0"

func main() {
	log.SetFlags(0)
	log.SetPrefix("retrograd: ")

	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
