package repository

import "errors"

var (
	// ErrPaletteNotFound indicates no stored palette has the requested ID
	ErrPaletteNotFound = errors.New("palette not found")

	// ErrStoreClosed indicates the palette store was used after Close
	ErrStoreClosed = errors.New("palette store closed")
)
