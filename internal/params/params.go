// Package params fixes the protocol-wide size constants.
package params

// PaillierBits is the minimum bit length of a Paillier modulus. With a
// 256-bit curve order q, 2048 bits keeps N above the q⁸ bound the MtA
// range proofs rely on.
const PaillierBits = 2048

// PedersenAuxBits is the bit length of the auxiliary ring-Pedersen
// modulus Ñ used inside the range proofs.
const PedersenAuxBits = 2048

// SecBytes is the byte length of random session identifiers.
const SecBytes = 32
