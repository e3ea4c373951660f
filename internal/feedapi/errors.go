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

package feedapi

import (
	"errors"

	"github.com/ontora/aifeed/feed"
)

const (
	errCodeNotInitialized     = -32001
	errCodeUnauthorized       = -32002
	errCodeDataTooLarge       = -32003
	errCodeMetadataTooLong    = -32004
	errCodeDescriptionTooLong = -32005
	errCodeInvalidAuthority   = -32006
	errCodeAlreadyInitialized = -32007
	errCodeInvalidSignature   = -32010
	errCodeRequestExpired     = -32011
	errCodeRequestReplayed    = -32012
	errCodeInternalError      = -32603
)

var (
	// ErrRequestExpired is returned if a signed request arrives after its
	// deadline or carries a deadline beyond the accepted lifetime.
	ErrRequestExpired = errors.New("request deadline outside accepted window")

	// ErrRequestReplayed is returned if a signed request was already
	// accepted once.
	ErrRequestReplayed = errors.New("request already used")
)

// codes maps the registry errors onto their JSON-RPC error codes.
var codes = []struct {
	err  error
	code int
}{
	{feed.ErrNotInitialized, errCodeNotInitialized},
	{feed.ErrUnauthorized, errCodeUnauthorized},
	{feed.ErrDataTooLarge, errCodeDataTooLarge},
	{feed.ErrMetadataTooLong, errCodeMetadataTooLong},
	{feed.ErrDescriptionTooLong, errCodeDescriptionTooLong},
	{feed.ErrInvalidAuthority, errCodeInvalidAuthority},
	{feed.ErrAlreadyInitialized, errCodeAlreadyInitialized},
	{feed.ErrInvalidSig, errCodeInvalidSignature},
	{ErrRequestExpired, errCodeRequestExpired},
	{ErrRequestReplayed, errCodeRequestReplayed},
}

type feedError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (e *feedError) Error() string  { return e.Message }
func (e *feedError) ErrorCode() int { return e.Code }

// rpcError attaches the JSON-RPC error code to a registry error.
func rpcError(err error) error {
	if err == nil {
		return nil
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return &feedError{Message: err.Error(), Code: c.code}
		}
	}
	return &feedError{Message: err.Error(), Code: errCodeInternalError}
}

// ErrorFromCode translates a JSON-RPC error code back into the registry error
// it was produced from. It returns nil for unknown codes.
func ErrorFromCode(code int) error {
	for _, c := range codes {
		if c.code == code {
			return c.err
		}
	}
	return nil
}
