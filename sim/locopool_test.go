package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocomotivePool_GetAsync_SynchronousWhenAvailable(t *testing.T) {
	p := NewLocomotivePool([]*Locomotive{{LocomotiveID: "L1", HomeTrackID: "T1"}}, 0)

	var got *Locomotive
	p.GetAsync(func(l *Locomotive) { got = l })

	assert.NotNil(t, got)
	assert.Equal(t, LocomotiveID("L1"), got.LocomotiveID)
	assert.Equal(t, LocoParking, got.Status)
}

func TestLocomotivePool_GetAsync_WaitsWhenEmpty(t *testing.T) {
	p := NewLocomotivePool([]*Locomotive{{LocomotiveID: "L1", HomeTrackID: "T1"}}, 0)
	var first, second *Locomotive
	p.GetAsync(func(l *Locomotive) { first = l })
	p.GetAsync(func(l *Locomotive) { second = l })

	assert.NotNil(t, first)
	assert.Nil(t, second)

	p.Put(first)
	assert.NotNil(t, second)
	assert.Same(t, first, second)
}

func TestLocomotivePool_All_IncludesCheckedOutLocomotives(t *testing.T) {
	p := NewLocomotivePool([]*Locomotive{
		{LocomotiveID: "L1", HomeTrackID: "T1"},
		{LocomotiveID: "L2", HomeTrackID: "T2"},
	}, 0)
	p.GetAsync(func(l *Locomotive) {})

	assert.Len(t, p.All(), 2)
}
