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

package core

import "errors"

var (
	// ErrDatabaseVersion is returned if the database was written by an
	// incompatible version of the registry.
	ErrDatabaseVersion = errors.New("incompatible database version")

	// ErrCrossRecordWrite is returned if an operation tries to write a record
	// other than the one it was scheduled against.
	ErrCrossRecordWrite = errors.New("write outside of operation record")

	// errRegistryClosed is returned if an operation is submitted after Close.
	errRegistryClosed = errors.New("registry closed")
)
