package main

import (
	"fmt"
	"sort"
	"sync"

	"github.com/satsolve/lfseq"
)

// runConfig mirrors the harness's four positional arguments.
type runConfig struct {
	numbers int
	readers int
	writers int
	mode    string
}

// runResult is what run reports back to root.go for exit-code purposes.
type runResult struct {
	consistent  bool
	pushed      int
	drained     int
	byWriterErr []string
}

// run spawns cfg.writers writer goroutines, each pushing its own id
// cfg.numbers/cfg.writers times, and cfg.readers reader goroutines that
// drain concurrently and report any sentinel sighting. Once writers
// quiesce, it repeats the fix-point drain until two consecutive passes
// agree, then checks the converged multiset against what each writer
// actually pushed.
func run(log *harnessLogger, cfg runConfig) runResult {
	perWriter := cfg.numbers / cfg.writers
	if perWriter < 1 {
		perWriter = 1
	}
	log.Infof("mode=%s numbers=%d readers=%d writers=%d (per-writer=%d)",
		cfg.mode, cfg.numbers, cfg.readers, cfg.writers, perWriter)

	seq, err := newSequence(cfg)
	if err != nil {
		log.Errorf("%v", err)
		return runResult{consistent: false}
	}

	stop := make(chan struct{})
	var readerWG sync.WaitGroup
	sentinelSeen := make([]bool, cfg.readers)
	for r := 0; r < cfg.readers; r++ {
		readerWG.Add(1)
		go func(id int) {
			defer readerWG.Done()
			for {
				select {
				case <-stop:
					return
				default:
					it := seq.Iter(id)
					for it.Next() {
						if it.Value() == 0 {
							sentinelSeen[id] = true
						}
					}
					it.Close()
				}
			}
		}(r)
	}

	var writerWG sync.WaitGroup
	for w := 1; w <= cfg.writers; w++ {
		writerWG.Add(1)
		go func(id uint32) {
			defer writerWG.Done()
			for i := 0; i < perWriter; i++ {
				seq.Push(id)
			}
		}(uint32(w))
	}
	writerWG.Wait()
	close(stop)
	readerWG.Wait()

	for id, seen := range sentinelSeen {
		if seen {
			log.Warnf("reader %d observed the sentinel as a value", id)
		}
	}

	converged := fixPointDrain(seq)
	counts := make(map[uint32]int)
	for _, v := range converged {
		counts[v]++
	}

	res := runResult{pushed: cfg.writers * perWriter, drained: len(converged), consistent: true}
	for id := 1; id <= cfg.writers; id++ {
		if got, want := counts[uint32(id)], perWriter; got != want {
			res.consistent = false
			res.byWriterErr = append(res.byWriterErr,
				fmt.Sprintf("writer %d contributed %d elements, want %d", id, got, want))
		}
	}
	return res
}

// fixPointDrain drains readerID 0 repeatedly, sorting each pass, until
// two consecutive passes agree, which is how a caller turns a
// weakly-consistent snapshot iterator into a complete one.
func fixPointDrain(seq lfseq.Sequence[uint32]) []uint32 {
	var prev []uint32
	for {
		it := seq.Iter(0)
		var cur []uint32
		for it.Next() {
			cur = append(cur, it.Value())
		}
		it.Close()
		sort.Slice(cur, func(i, j int) bool { return cur[i] < cur[j] })

		if len(cur) == len(prev) {
			same := true
			for i := range cur {
				if cur[i] != prev[i] {
					same = false
					break
				}
			}
			if same {
				return cur
			}
		}
		prev = cur
	}
}

// newSequence builds the discipline named by cfg.mode. "map" fans writers
// out one-per-key over a SequenceMap instead of sharing a single
// Sequence; run's per-writer push loop still applies since SequenceMap
// satisfies the same push/iterate shape through a small adapter.
func newSequence(cfg runConfig) (lfseq.Sequence[uint32], error) {
	switch cfg.mode {
	case "flip":
		return lfseq.NewFlipSequence[uint32](64), nil
	case "hazard":
		maxReaders := cfg.readers
		if maxReaders < 1 {
			maxReaders = 1
		}
		return lfseq.NewHazardSequence[uint32](64, maxReaders), nil
	case "paged":
		return lfseq.NewPagedSequence[uint32](64), nil
	case "map":
		maxReaders := cfg.readers
		if maxReaders < 1 {
			maxReaders = 1
		}
		numKeys := cfg.writers
		if numKeys < 1 {
			numKeys = 1
		}
		return &shardedMap{
			m:       lfseq.NewHazardSequenceMap[uint32](numKeys, 64, maxReaders),
			writers: numKeys,
		}, nil
	default:
		return nil, fmt.Errorf("unknown mode %q (want flip, hazard, paged or map)", cfg.mode)
	}
}

// shardedMap adapts a SequenceMap into the single-Sequence shape run's
// writer/reader loops drive: writer id N pushes to key N-1, and Iter
// concatenates across keys so a single fix-point drain still sees every
// bucket.
type shardedMap struct {
	m       *lfseq.SequenceMap[uint32]
	writers int
}

func (s *shardedMap) Push(v uint32) {
	key := int(v-1) % s.writers
	s.m.Push(key, v)
}

func (s *shardedMap) Size() int {
	total := 0
	for k := 0; k < s.m.NumKeys(); k++ {
		total += s.m.Size(k)
	}
	return total
}

func (s *shardedMap) Iter(readerID int) lfseq.Iterator[uint32] {
	return &shardedMapIterator{m: s.m, readerID: readerID, key: -1}
}

type shardedMapIterator struct {
	m        *lfseq.SequenceMap[uint32]
	readerID int
	key      int
	cur      lfseq.Iterator[uint32]
}

func (it *shardedMapIterator) Next() bool {
	for {
		if it.cur != nil && it.cur.Next() {
			return true
		}
		if it.cur != nil {
			it.cur.Close()
			it.cur = nil
		}
		it.key++
		if it.key >= it.m.NumKeys() {
			return false
		}
		it.cur = it.m.Iter(it.key, it.readerID)
	}
}

func (it *shardedMapIterator) Value() uint32 {
	return it.cur.Value()
}

func (it *shardedMapIterator) Close() {
	if it.cur != nil {
		it.cur.Close()
	}
}
