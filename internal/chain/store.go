// Copyright (c) 2025 The Vigil Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"fmt"
	"math/big"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// Store is the in-memory chain database: the post table, the reverse
// child index, the orphan/pending buffer, the cumulative-score table, and
// the current tip.
type Store struct {
	posts    map[chainhash.Hash]*Post
	children map[chainhash.Hash][]chainhash.Hash
	pending  map[chainhash.Hash][]*Post
	score    map[chainhash.Hash]*big.Int
	tip      chainhash.Hash
}

// New returns a Store seeded with the genesis post.
func New() *Store {
	s := &Store{
		posts:    make(map[chainhash.Hash]*Post),
		children: make(map[chainhash.Hash][]chainhash.Hash),
		pending:  make(map[chainhash.Hash][]*Post),
		score:    make(map[chainhash.Hash]*big.Int),
		tip:      GenesisHash,
	}
	s.posts[GenesisHash] = GenesisPost
	s.score[GenesisHash] = big.NewInt(0)
	return s
}

// Tip returns the hash of the post with the greatest cumulative score
// observed so far.
func (s *Store) Tip() chainhash.Hash {
	return s.tip
}

// Post returns the post stored under h, if any.
func (s *Store) Post(h chainhash.Hash) (*Post, bool) {
	p, ok := s.posts[h]
	return p, ok
}

// Score returns the cumulative score recorded for h, if any.
func (s *Store) Score(h chainhash.Hash) (*big.Int, bool) {
	sc, ok := s.score[h]
	return sc, ok
}

// Children returns the hashes of posts whose Prev is h, most-recently
// inserted first.
func (s *Store) Children(h chainhash.Hash) []chainhash.Hash {
	return s.children[h]
}

// PendingCount returns the number of orphan posts waiting on h.
func (s *Store) PendingCount(h chainhash.Hash) int {
	return len(s.pending[h])
}

// Len returns the number of posts known to the store, including genesis.
func (s *Store) Len() int {
	return len(s.posts)
}

// addPostWork is one entry of the explicit drain queue AddPost uses in
// place of recursive re-integration, so a long orphan chain does not grow
// the call stack. See AddPost for the resulting drain order.
type addPostWork struct {
	sender string
	post   *Post
}

// AddPost is the sole mutator of Store. sender is advisory provenance used
// only for logging; it never affects store state.
//
// Orphans are drained breadth-first: each drained pending bucket is
// applied in its append order, and the orphans waiting on one of its
// posts are queued behind the rest of that bucket. The resulting posts,
// scores and children are the same as under a depth-first recursive
// drain; the tip can differ from it only when several posts end with
// exactly the same greatest cumulative score.
func (s *Store) AddPost(sender string, post *Post) {
	queue := []addPostWork{{sender, post}}
	for len(queue) > 0 {
		work := queue[0]
		queue = queue[1:]
		queue = append(queue, s.addOne(work)...)
	}
}

// addOne applies a single post and returns the orphans (if any) that were
// waiting on it, ready to be appended to the caller's drain queue.
func (s *Store) addOne(work addPostWork) []addPostWork {
	p := work.post
	h := HashOfPost(p)

	if _, ok := s.posts[h]; ok {
		// Idempotent: already known, nothing to do.
		return nil
	}

	if _, ok := s.posts[p.Prev]; !ok {
		s.appendPending(p.Prev, p)
		return nil
	}

	prevScore, ok := s.score[p.Prev]
	if !ok {
		err := ruleError(ErrMissingParentScore, fmt.Sprintf(
			"parent %s present in posts but missing from score", p.Prev))
		log.Warnf("chain: invariant violation from %s: %v; dropping post %s",
			work.sender, err, h)
		return nil
	}

	newScore := new(big.Int).Add(prevScore, LocalScore(h))
	if newScore.BitLen() > 256 {
		err := ruleError(ErrScoreOverflow, fmt.Sprintf(
			"cumulative score for post %s exceeds 256 bits", h))
		log.Warnf("chain: invariant violation from %s: %v; dropping post %s",
			work.sender, err, h)
		return nil
	}

	s.posts[h] = p
	s.score[h] = newScore
	s.children[p.Prev] = append([]chainhash.Hash{h}, s.children[p.Prev]...)

	// First-seen wins: only a strictly greater score moves the tip.
	if newScore.Cmp(s.score[s.tip]) > 0 {
		s.tip = h
	}

	orphans := s.pending[h]
	delete(s.pending, h)
	next := make([]addPostWork, 0, len(orphans))
	for _, orphan := range orphans {
		next = append(next, addPostWork{sender: work.sender, post: orphan})
	}
	return next
}

// appendPending adds p to the pending bucket keyed by its missing parent,
// deduplicating by hash so repeated delivery of the same orphan cannot
// duplicate a pending bucket entry.
func (s *Store) appendPending(missing chainhash.Hash, p *Post) {
	h := HashOfPost(p)
	for _, existing := range s.pending[missing] {
		if HashOfPost(existing) == h {
			return
		}
	}
	s.pending[missing] = append(s.pending[missing], p)
}

// Canonical returns the chain from genesis to tip inclusive, walking Prev
// pointers from the tip and reversing the result. If the tip is somehow
// missing from posts (impossible under the store's invariants), it
// returns nil.
func (s *Store) Canonical() []*Post {
	cur, ok := s.posts[s.tip]
	if !ok {
		return nil
	}
	curHash := s.tip

	var rev []*Post
	for {
		rev = append(rev, cur)
		if curHash == GenesisHash {
			break
		}
		next, ok := s.posts[cur.Prev]
		if !ok {
			break
		}
		curHash = cur.Prev
		cur = next
	}

	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}
