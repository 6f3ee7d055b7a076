// Package hdf5 is the public, read-only HDF5 decoding surface: File,
// Group, Variable, and Attribute, built over the internal wire-format
// packages.
package hdf5

import "errors"

var (
	// ErrNotFound is returned when a path does not resolve to a member
	// of the group being searched.
	ErrNotFound = errors.New("hdf5: object not found")
	// ErrNotGroup is returned when a path component that must be a
	// group resolves to something else.
	ErrNotGroup = errors.New("hdf5: object is not a group")
	// ErrNotVariable is returned when Group.Value is called on an
	// object header that lacks a dataspace, datatype or data layout
	// message (the filter pipeline message is optional).
	ErrNotVariable = errors.New("hdf5: object is not a variable")
)
