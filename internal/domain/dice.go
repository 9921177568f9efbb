package domain

import "math/rand"

// Dice produces one face value per die.
type Dice interface {
	Roll() []int
}

// D6 rolls count six-sided dice from an injected source.
type D6 struct {
	Count int
	rng   *rand.Rand
}

// NewD6 creates count six-sided dice.
func NewD6(count int, rng *rand.Rand) *D6 {
	return &D6{Count: count, rng: rng}
}

// Roll returns count values in [1, 6].
func (d *D6) Roll() []int {
	out := make([]int, d.Count)
	for i := range out {
		out[i] = d.rng.Intn(6) + 1
	}
	return out
}

// FixedDice replays a scripted sequence of rolls, cycling when exhausted. Useful for tests and replays.
type FixedDice struct {
	Rolls [][]int
	next  int
}

// Roll returns the next scripted roll.
func (d *FixedDice) Roll() []int {
	if len(d.Rolls) == 0 {
		return nil
	}
	r := d.Rolls[d.next%len(d.Rolls)]
	d.next++
	return append([]int(nil), r...)
}

func sum(values []int) int {
	n := 0
	for _, v := range values {
		n += v
	}
	return n
}
