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

import "errors"

var (
	// ErrNotInitialized is returned if the targeted feed has not been created.
	ErrNotInitialized = errors.New("data feed is not initialized")

	// ErrAlreadyInitialized is returned when initializing a feed for an owner
	// that already has one.
	ErrAlreadyInitialized = errors.New("data feed already initialized")

	// ErrUnauthorized is returned if the caller lacks the relationship to the
	// feed's owner or update authority that the operation requires.
	ErrUnauthorized = errors.New("unauthorized access to update or modify data feed")

	// ErrDataTooLarge is returned if the inference payload exceeds MaxDataSize.
	ErrDataTooLarge = errors.New("inference data exceeds maximum size")

	// ErrMetadataTooLong is returned if the metadata exceeds MaxMetadataSize.
	ErrMetadataTooLong = errors.New("metadata exceeds maximum size")

	// ErrDescriptionTooLong is returned if the description exceeds MaxDescriptionSize.
	ErrDescriptionTooLong = errors.New("description exceeds maximum size")

	// ErrInvalidAuthority is returned if an authority would be set to the zero
	// address, leaving the feed permanently unmanageable.
	ErrInvalidAuthority = errors.New("invalid authority provided")
)
