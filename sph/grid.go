package sph

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Absent marks a hash with no molecules in the start table.
const Absent = math.MaxUint32

// Large primes for cell hashing. Kept fixed so bucket distribution is reproducible.
const (
	primeX = 73856093
	primeY = 19349663
	primeZ = 83492791
)

// Cell is an integer grid coordinate. The z component is always 0.
type Cell [3]int32

// neighborOffsets is the 3x3 stencil around a cell in the xy plane.
var neighborOffsets = [9]Cell{
	{-1, 1, 0}, {0, 1, 0}, {1, 1, 0},
	{-1, 0, 0}, {0, 0, 0}, {1, 0, 0},
	{-1, -1, 0}, {0, -1, 0}, {1, -1, 0},
}

// LookupEntry pairs a molecule slot with the hash of its grid cell.
type LookupEntry struct {
	Hash  uint32
	Index uint32
}

// CellOf snaps a position to the grid whose cell size is the influence radius.
func CellOf(pos mgl32.Vec3, radius float32) Cell {
	return Cell{
		int32(math.Floor(float64(pos[0] / radius))),
		int32(math.Floor(float64(pos[1] / radius))),
		0,
	}
}

// HashCell maps a cell into [0, n). Multiplication wraps at 32 bits; distinct
// cells may share a hash.
func HashCell(c Cell, n int) uint32 {
	h := c[0]*primeX ^ c[1]*primeY ^ c[2]*primeZ
	return uint32(h) % uint32(n)
}

// Grid is a spatial hash over predicted positions. The hash table has one slot
// per molecule.
type Grid struct {
	radius float32
	lookup []LookupEntry
	start  []uint32

	// rebuild scratch
	hashes  []uint32
	offsets []uint32
	sorted  []Particle
}

// NewGrid allocates a grid for n molecules.
func NewGrid(n int) *Grid {
	return &Grid{
		lookup:  make([]LookupEntry, n),
		start:   make([]uint32, n),
		hashes:  make([]uint32, n),
		offsets: make([]uint32, n),
		sorted:  make([]Particle, n),
	}
}

// Rebuild hashes every particle by predicted position, sorts the lookup by hash
// and permutes particles into the same order so that slot i of the lookup
// refers to particles[i]. Molecules with equal hashes keep their previous
// relative order.
func (g *Grid) Rebuild(particles []Particle, radius float32) {
	n := len(particles)
	g.radius = radius

	for h := range g.offsets {
		g.offsets[h] = 0
		g.start[h] = Absent
	}
	for i := range particles {
		h := HashCell(CellOf(particles[i].PredictedPosition, radius), n)
		g.hashes[i] = h
		g.offsets[h]++
	}

	// Counting sort: prefix sums give each run's first slot.
	var next uint32
	for h := range g.offsets {
		count := g.offsets[h]
		if count > 0 {
			g.start[h] = next
		}
		g.offsets[h] = next
		next += count
	}

	for i := range particles {
		h := g.hashes[i]
		slot := g.offsets[h]
		g.offsets[h]++
		g.lookup[slot] = LookupEntry{Hash: h, Index: uint32(i)}
		g.sorted[slot] = particles[i]
	}

	copy(particles, g.sorted)
	for i := range g.lookup {
		g.lookup[i].Index = uint32(i)
	}
}

// Entries returns the sorted lookup array. Valid until the next Rebuild.
func (g *Grid) Entries() []LookupEntry {
	return g.lookup
}

// Start returns the first lookup slot holding hash h.
func (g *Grid) Start(h uint32) (uint32, bool) {
	s := g.start[h]
	return s, s != Absent
}

// NeighborsInto appends the slots of every molecule in the 3x3 cells around pos,
// excluding self, and returns the updated slice. Reuse dst across calls.
// Stencil cells that share a hash are visited once, so each molecule appears
// at most once.
func (g *Grid) NeighborsInto(dst []int, pos mgl32.Vec3, self int) []int {
	n := len(g.lookup)
	center := CellOf(pos, g.radius)

	var visited [len(neighborOffsets)]uint32
	seen := 0

stencil:
	for _, off := range neighborOffsets {
		h := HashCell(Cell{center[0] + off[0], center[1] + off[1], 0}, n)
		for _, v := range visited[:seen] {
			if v == h {
				continue stencil
			}
		}
		visited[seen] = h
		seen++

		start := g.start[h]
		if start == Absent {
			continue
		}
		for j := int(start); j < n; j++ {
			entry := g.lookup[j]
			if entry.Hash != h {
				break
			}
			if int(entry.Index) == self {
				continue
			}
			dst = append(dst, int(entry.Index))
		}
	}

	return dst
}
