// Copyright 2026 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package feed

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

var (
	// ErrInvalidSig is returned if a request signature is malformed or does
	// not recover to a public key.
	ErrInvalidSig = errors.New("invalid request signature")
)

// Request is a signable registry operation. The signer of a request becomes
// the caller of the operation.
type Request interface {
	// sigFields returns the operation tag and the fields covered by the signature.
	sigFields() []interface{}
}

// InitializeRequest asks for the creation of the signer's feed.
type InitializeRequest struct {
	Description string
	Metadata    string
	Deadline    uint64
}

func (r *InitializeRequest) sigFields() []interface{} {
	return []interface{}{"initialize", r.Description, r.Metadata, r.Deadline}
}

// UpdateRequest asks for the replacement of a feed's payload and metadata.
type UpdateRequest struct {
	Owner    common.Address
	Data     []byte
	Metadata string
	Deadline uint64
}

func (r *UpdateRequest) sigFields() []interface{} {
	return []interface{}{"update", r.Owner, r.Data, r.Metadata, r.Deadline}
}

// TransferRequest asks for a feed's update authority to be handed over.
type TransferRequest struct {
	Owner        common.Address
	NewAuthority common.Address
	Deadline     uint64
}

func (r *TransferRequest) sigFields() []interface{} {
	return []interface{}{"transferUpdateAuthority", r.Owner, r.NewAuthority, r.Deadline}
}

// SigHash returns the hash to be signed by the caller of a request. The
// hash commits to the operation so a signature cannot be replayed as a
// different operation.
func SigHash(req Request) common.Hash {
	enc, err := rlp.EncodeToBytes(append([]interface{}{string(keySeed)}, req.sigFields()...))
	if err != nil {
		panic(fmt.Sprintf("can't encode request: %v", err))
	}
	return crypto.Keccak256Hash(enc)
}

// SignRequest signs the request with the given key, returning the 65 byte
// [R || S || V] signature.
func SignRequest(req Request, prv *ecdsa.PrivateKey) ([]byte, error) {
	h := SigHash(req)
	return crypto.Sign(h[:], prv)
}

// RequestSender recovers the account that signed the request.
func RequestSender(req Request, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, ErrInvalidSig
	}
	h := SigHash(req)
	pub, err := crypto.SigToPub(h[:], sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidSig, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}
