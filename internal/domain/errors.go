package domain

import "errors"

var (
	// ErrInvalidEditionID is returned when an identifier is not a non-negative integer
	ErrInvalidEditionID = errors.New("invalid edition id")

	// ErrInvalidAddress is returned when a wallet address is malformed or fails its checksum
	ErrInvalidAddress = errors.New("invalid ethereum address")

	// ErrPINNotFound is returned when a claim PIN is absent from the configured mapping
	ErrPINNotFound = errors.New("pin not found")
)
