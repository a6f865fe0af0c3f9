package parallel

import (
	"fmt"

	"github.com/zenithlabs/ostpack/codec"
	"github.com/zenithlabs/ostpack/internal/hash"
)

// Bundle is one independent unit of work: an identifier and the raw bytes
// to compress.
type Bundle struct {
	ID   string
	Data []byte
}

// Manifest summarizes one compressed bundle.
type Manifest struct {
	// ContentID is the xxHash64 of the bundle's original bytes.
	ContentID uint64
	// OriginalSize is the bundle's input size.
	OriginalSize int
	// PackedSize is the size of the packed container.
	PackedSize int
	// Ratio is OriginalSize / PackedSize.
	Ratio float64
	// BinCount is the number of bins in the bundle's container.
	BinCount int
}

// BundleResult is one bundle's outcome. Err is set when the unit failed;
// the rest of the batch is unaffected.
type BundleResult struct {
	ID       string
	Packed   []byte
	Manifest Manifest
	Err      error
}

// CompressBundles encodes and packs each bundle independently across the
// pool's workers. Results are returned in input order.
//
// Each bundle is byte-identical to a sequential Encode+Pack with the same
// configuration: the pipeline is deterministic and workers share no state.
func CompressBundles(bundles []Bundle, cfg codec.Config, poolSize int) ([]BundleResult, error) {
	enc, err := codec.NewEncoder(cfg)
	if err != nil {
		return nil, err
	}

	p := NewPool(poolSize)
	defer p.Close()

	type pending struct {
		id        string
		contentID uint64
		size      int
		binCount  int
		task      *Task
	}

	units := make([]pending, 0, len(bundles))
	for _, b := range bundles {
		// Copy the input across the worker boundary; the caller may reuse
		// its buffer as soon as CompressBundles is entered. Nil stays nil so
		// the encoder's nil-input contract holds per unit.
		var data []byte
		if b.Data != nil {
			data = make([]byte, len(b.Data))
			copy(data, b.Data)
		}

		units = append(units, pending{
			id:        b.ID,
			contentID: hash.Sum(b.Data),
			size:      len(b.Data),
		})
		u := &units[len(units)-1]

		// Task completion happens-before Wait returns, so the worker's
		// write to binCount is visible to the collection loop below.
		task, err := p.Submit(func() ([]byte, error) {
			c, err := enc.Encode(data)
			if err != nil {
				return nil, err
			}
			u.binCount = len(c.Bins)

			return codec.Pack(c)
		})
		if err != nil {
			return nil, err
		}
		u.task = task
	}

	results := make([]BundleResult, 0, len(units))
	for i := range units {
		u := &units[i]
		packed, err := u.task.Wait()
		res := BundleResult{ID: u.id}
		if err != nil {
			res.Err = fmt.Errorf("bundle %q: %w", u.id, err)
		} else {
			res.Packed = packed
			res.Manifest = Manifest{
				ContentID:    u.contentID,
				OriginalSize: u.size,
				PackedSize:   len(packed),
				BinCount:     u.binCount,
			}
			if len(packed) > 0 {
				res.Manifest.Ratio = float64(u.size) / float64(len(packed))
			}
		}
		results = append(results, res)
	}

	return results, nil
}
