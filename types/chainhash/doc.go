// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainhash provides abstracted hash functionality.
//
// This package provides a generic hash type and associated functions that
// allows the specific hash algorithm to be abstracted. It also carries the
// merkle branch machinery shared by block merkle roots and the merge-mining
// chain merkle tree.
package chainhash
