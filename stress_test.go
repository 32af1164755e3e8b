package sharedchan_test

import (
	"sync/atomic"
	"testing"

	"github.com/baxromumarov/sharedchan"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestStress_SingleConsumerDrain(t *testing.T) {
	const (
		amt     = 10000
		senders = 8
	)
	tx, rx := sharedchan.New[int]()

	wg := conc.NewWaitGroup()
	for i := 0; i < senders; i++ {
		tx := tx.Clone()
		wg.Go(func() {
			defer tx.Close()
			for j := 0; j < amt; j++ {
				if err := tx.Send(1); err != nil {
					t.Error(err)
					return
				}
			}
		})
	}
	tx.Close()

	count := 0
	for range rx.Seq() {
		count++
	}
	wg.Wait()

	assert.Equal(t, senders*amt, count)

	// Fully drained and disconnected.
	_, err := rx.TryRecv()
	assert.ErrorIs(t, err, sharedchan.ErrDisconnected)
}

// Conservation under full contention: total received across every
// consumer clone equals total sent, with per-message payload sums intact.
func TestStress_MultiConsumerConservation(t *testing.T) {
	const (
		amt       = 10000
		senders   = 4
		receivers = 8
	)
	tx, rx := sharedchan.New[int]()

	var (
		count atomic.Int64
		sum   atomic.Int64
	)
	consumers := conc.NewWaitGroup()
	for i := 0; i < receivers; i++ {
		rx := rx.Clone()
		consumers.Go(func() {
			defer rx.Close()
			for v := range rx.Seq() {
				count.Add(1)
				sum.Add(int64(v))
			}
		})
	}
	rx.Close()

	var g errgroup.Group
	for i := 0; i < senders; i++ {
		tx := tx.Clone()
		g.Go(func() error {
			defer tx.Close()
			for j := 1; j <= amt; j++ {
				if err := tx.Send(j); err != nil {
					return err
				}
			}
			return nil
		})
	}
	tx.Close()

	require.NoError(t, g.Wait())
	consumers.Wait()

	assert.Equal(t, int64(senders*amt), count.Load())
	assert.Equal(t, int64(senders)*amt*(amt+1)/2, sum.Load())
}

// Two stages chained through shared channels: a herd of workers drains
// stage one, each forwarding its partial sum into stage two.
func TestStress_Pipeline(t *testing.T) {
	const (
		amt     = 10000
		senders = 4
		workers = 8
	)
	tx1, rx1 := sharedchan.New[int]()
	tx2, rx2 := sharedchan.New[int]()

	herd := conc.NewWaitGroup()
	for i := 0; i < workers; i++ {
		rx1 := rx1.Clone()
		tx2 := tx2.Clone()
		herd.Go(func() {
			defer tx2.Close()
			defer rx1.Close()
			sum := 0
			for v := range rx1.Seq() {
				sum += v
			}
			if err := tx2.Send(sum); err != nil {
				t.Error(err)
			}
		})
	}
	rx1.Close()
	tx2.Close()

	var g errgroup.Group
	for i := 0; i < senders; i++ {
		tx1 := tx1.Clone()
		g.Go(func() error {
			defer tx1.Close()
			for j := 1; j <= amt; j++ {
				if err := tx1.Send(j); err != nil {
					return err
				}
			}
			return nil
		})
	}
	tx1.Close()
	require.NoError(t, g.Wait())

	total := 0
	for partial := range rx2.Seq() {
		total += partial
	}
	herd.Wait()

	assert.Equal(t, senders*amt*(amt+1)/2, total)
}
