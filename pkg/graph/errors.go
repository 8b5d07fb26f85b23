package graph

import "errors"

var (
	// ErrDuplicateNode means two nodes share an identity
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrDuplicateNeighbor means a node lists the same neighbor twice
	ErrDuplicateNeighbor = errors.New("duplicate neighbor")

	// ErrDuplicateLink means two links share the same (source, target) pair
	ErrDuplicateLink = errors.New("duplicate link")

	// ErrUnknownLinkType is returned when parsing an unsupported link type
	ErrUnknownLinkType = errors.New("unknown link type")
)
