package collide

import (
	"math/big"
	"math/bits"

	"lukechampine.com/uint128"
)

// residues reduces one fixed big integer modulo many 64-bit primes.
// The limbs are extracted once, every reduction is a 128-by-64 division per limb.
type residues struct {
	// most significant limb first.
	limbs []uint64
}

func newResidues(v *big.Int) residues {
	words := new(big.Int).Abs(v).Bits()

	var limbs []uint64
	if bits.UintSize == 64 {
		limbs = make([]uint64, len(words))
		for i, w := range words {
			limbs[len(words)-1-i] = uint64(w)
		}
	} else {
		// 32-bit words, pair them up.
		n := (len(words) + 1) / 2
		limbs = make([]uint64, n)
		for i, w := range words {
			limbs[n-1-i/2] |= uint64(w) << (32 * uint(i%2))
		}
	}

	return residues{limbs: limbs}
}

// mod returns |v| mod p, p must be non-zero.
func (r residues) mod(p uint64) uint64 {
	var rem uint64
	for _, limb := range r.limbs {
		rem = uint128.New(limb, rem).Mod64(p)
	}

	return rem
}

func (r residues) divisibleBy(p uint64) bool {
	return r.mod(p) == 0
}
