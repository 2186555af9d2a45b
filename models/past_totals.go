package models

import "fmt"

// PastTotals buckets historical combined goal counts relative to one
// candidate threshold: how often games landed below, on, or above it.
type PastTotals struct {
	threshold uint8
	less      uint32
	equal     uint32
	greater   uint32
}

// NewPastTotals creates an empty tally for the given threshold.
func NewPastTotals(threshold uint8) PastTotals {
	return PastTotals{threshold: threshold}
}

// AddTotal buckets one observed combined goal count.
func (p *PastTotals) AddTotal(total uint8) {
	switch {
	case total < p.threshold:
		p.less++
	case total == p.threshold:
		p.equal++
	default:
		p.greater++
	}
}

// Sum pools two tallies. Pooling is commutative but only defined for equal
// thresholds; mixing thresholds is a configuration error.
func (p PastTotals) Sum(other PastTotals) (PastTotals, error) {
	if p.threshold != other.threshold {
		return PastTotals{}, fmt.Errorf("cannot sum past totals with thresholds %d and %d", p.threshold, other.threshold)
	}
	return PastTotals{
		threshold: p.threshold,
		less:      p.less + other.less,
		equal:     p.equal + other.equal,
		greater:   p.greater + other.greater,
	}, nil
}

func (p PastTotals) Threshold() uint8 { return p.threshold }
func (p PastTotals) Less() uint32     { return p.less }
func (p PastTotals) Equal() uint32    { return p.equal }
func (p PastTotals) Greater() uint32  { return p.greater }

// Size is the number of observations in the tally.
func (p PastTotals) Size() uint32 {
	return p.less + p.equal + p.greater
}
