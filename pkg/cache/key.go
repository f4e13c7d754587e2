// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// KeyGenerator generates cache keys.
type KeyGenerator struct {
	prefix string
}

// NewKeyGenerator creates a key generator with the default prefix.
func NewKeyGenerator() *KeyGenerator {
	return &KeyGenerator{
		prefix: "docformat",
	}
}

// Generate hashes inputs into a key. Inputs are length-delimited so
// ("ab", "c") and ("a", "bc") do not collide.
func (kg *KeyGenerator) Generate(inputs ...string) string {
	h := sha256.New()
	for _, input := range inputs {
		var n [8]byte
		l := uint64(len(input))
		for i := range n {
			n[i] = byte(l >> (8 * i))
		}
		h.Write(n[:])
		h.Write([]byte(input))
	}
	return kg.prefix + ":" + hex.EncodeToString(h.Sum(nil))
}

// ForPrompt generates the key for a formatter response.
func (kg *KeyGenerator) ForPrompt(backend, model, prompt string) string {
	return kg.Generate(backend, model, prompt)
}
