// Package bench generates deterministic key-value workloads and
// replays them against a tree23.Map, with progress logging and
// prometheus instrumentation.
package bench

import (
	"encoding/hex"
	"fmt"
	"math/rand"
)

// Op is a single mutation in a changeset: a set of Key to Value, or a
// delete of Key when Delete is true.
type Op struct {
	Version int64  `json:"version"`
	Key     string `json:"key"`
	Value   string `json:"value,omitempty"`
	Delete  bool   `json:"delete,omitempty"`
}

// ChangesetGenerator produces a deterministic stream of versioned
// set/delete operations for a given seed. Key and value lengths are
// drawn from normal distributions, the live key count ramps linearly
// from InitialSize to FinalSize, and DeleteFraction of each version's
// changes are deletes (matched by extra creates to keep the ramp).
type ChangesetGenerator struct {
	Seed             int64   `json:"seed"`
	KeyMean          int     `json:"key_mean"`
	KeyStdDev        int     `json:"key_std_dev"`
	ValueMean        int     `json:"value_mean"`
	ValueStdDev      int     `json:"value_std_dev"`
	InitialSize      int     `json:"initial_size"`
	FinalSize        int     `json:"final_size"`
	Versions         int64   `json:"versions"`
	ChangePerVersion int     `json:"change_per_version"`
	DeleteFraction   float64 `json:"delete_fraction"`
}

// BankLikeGenerator returns generator parameters shaped like a busy
// account store: small keys, wide value distribution, high churn.
func BankLikeGenerator(seed int64, versions int64) ChangesetGenerator {
	return ChangesetGenerator{
		Seed:             seed,
		KeyMean:          28,
		KeyStdDev:        2,
		ValueMean:        50,
		ValueStdDev:      600,
		InitialSize:      10_000,
		FinalSize:        100_000,
		Versions:         versions,
		ChangePerVersion: 500,
		DeleteFraction:   0.25,
	}
}

type opKind int8

const (
	opDelete opKind = -1
	opUpdate opKind = 0
	opCreate opKind = 1
)

type deferredKey struct {
	key  string
	slot int
}

// Iterator returns an iterator positioned on the first operation.
func (c ChangesetGenerator) Iterator() (*ChangesetItr, error) {
	if c.FinalSize < c.InitialSize {
		return nil, fmt.Errorf("final size must be at least the initial size")
	}
	if c.Versions < 2 {
		return nil, fmt.Errorf("versions must be at least 2")
	}

	itr := &ChangesetItr{
		gen:               c,
		rand:              rand.New(rand.NewSource(c.Seed)),
		createsPerVersion: float64(c.FinalSize-c.InitialSize) / float64(c.Versions-1),
		keys:              make([]string, c.FinalSize),
		freeList:          make(chan int, c.FinalSize),
	}
	for i := 0; i < c.FinalSize; i++ {
		itr.freeList <- i
	}

	err := itr.Next()
	return itr, err
}

// ChangesetItr iterates a generated changeset one operation at a time.
// Op is nil once the stream is exhausted.
type ChangesetItr struct {
	Op      *Op
	Version int64

	gen               ChangesetGenerator
	rand              *rand.Rand
	keys              []string
	freeList          chan int
	createsPerVersion float64
	createAccumulator float64
	ops               []opKind
	created           []deferredKey
}

func (itr *ChangesetItr) Valid() bool { return itr.Op != nil }

func (itr *ChangesetItr) Next() error {
	for len(itr.ops) == 0 {
		if itr.Version >= itr.gen.Versions {
			itr.Op = nil
			return nil
		}
		itr.rollVersion()
	}
	kind := itr.ops[0]
	itr.ops = itr.ops[1:]
	itr.Op = itr.genOp(kind)
	return nil
}

func (itr *ChangesetItr) rollVersion() {
	// keys created in the previous version become visible to updates
	// and deletes only once the version rolls over
	for _, dk := range itr.created {
		itr.keys[dk.slot] = dk.key
	}
	itr.created = itr.created[:0]
	itr.Version++

	deletes := int(itr.gen.DeleteFraction * float64(itr.gen.ChangePerVersion))
	updates := itr.gen.ChangePerVersion - deletes
	var creates int
	if itr.Version == 1 {
		// version 1 only seeds the initial key set
		deletes, updates = 0, 0
		creates = itr.gen.InitialSize
	} else {
		// deleted slots are re-created so the ramp stays on track
		itr.createAccumulator += itr.createsPerVersion
		clamped := int(itr.createAccumulator)
		creates = clamped + deletes
		itr.createAccumulator -= float64(clamped)
	}

	itr.ops = itr.ops[:0]
	for i := 0; i < deletes; i++ {
		itr.ops = append(itr.ops, opDelete)
	}
	for i := 0; i < updates; i++ {
		itr.ops = append(itr.ops, opUpdate)
	}
	for i := 0; i < creates; i++ {
		itr.ops = append(itr.ops, opCreate)
	}
	// deletes stay at the front so their slots are free again before
	// this version's creates draw from the free list
	rest := itr.ops[deletes:]
	itr.rand.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})
}

func (itr *ChangesetItr) genOp(kind opKind) *Op {
	switch kind {
	case opDelete:
		for {
			i := itr.rand.Intn(itr.gen.FinalSize)
			if itr.keys[i] == "" {
				continue
			}
			k := itr.keys[i]
			// return the slot for a later create and drop the key from
			// state so subsequent updates and deletes cannot find it
			itr.keys[i] = ""
			itr.freeList <- i
			return &Op{Version: itr.Version, Key: k, Delete: true}
		}
	case opUpdate:
		for {
			i := itr.rand.Intn(itr.gen.FinalSize)
			if itr.keys[i] == "" {
				continue
			}
			return &Op{
				Version: itr.Version,
				Key:     itr.keys[i],
				Value:   itr.genHex(itr.gen.ValueMean, itr.gen.ValueStdDev),
			}
		}
	case opCreate:
		op := &Op{
			Version: itr.Version,
			Key:     itr.genHex(itr.gen.KeyMean, itr.gen.KeyStdDev),
			Value:   itr.genHex(itr.gen.ValueMean, itr.gen.ValueStdDev),
		}
		slot := <-itr.freeList
		itr.created = append(itr.created, deferredKey{key: op.Key, slot: slot})
		return op
	default:
		panic(fmt.Sprintf("invalid op kind %d", kind))
	}
}

// genHex draws a length from a normal distribution and returns that
// many random bytes hex-encoded, so ops survive JSON round-trips.
func (itr *ChangesetItr) genHex(mean, stdDev int) string {
	length := int(itr.rand.NormFloat64()*float64(stdDev) + float64(mean))
	// mean - std dev can go negative when outliers skew the std dev;
	// redraw closer to the mean rather than clamping, which would pile
	// up lengths at 1
	if length < 1 {
		length = int(itr.rand.NormFloat64()*float64(mean/3) + float64(mean))
		if length < 1 {
			length = 1
		}
	}
	b := make([]byte, length)
	itr.rand.Read(b)
	return hex.EncodeToString(b)
}
