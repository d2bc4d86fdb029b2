// Package encryption seals blobs at rest with an AEAD cipher.
//
// The key is a passphrase hashed with SHA-256 into a 256-bit key. Sealed
// output is nonce || ciphertext || tag.
//
//	enc, err := encryption.New(passphrase, encryption.WithAlgorithm(encryption.AlgorithmChaCha20))
//	sealed, err := enc.Seal(audio)
//	audio, err = enc.Open(sealed)
package encryption
