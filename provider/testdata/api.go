// Package testdata holds fixture types for the source provider tests.
package testdata

import "time"

// Status is the lifecycle state of an account.
type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
	StatusPending  Status = "pending"
)

// Priority orders work items.
type Priority int

const (
	PriorityHigh Priority = 3
	PriorityLow  Priority = 1
)

// Color marshals by name.
type Color int

const (
	ColorRed Color = iota
	ColorGreen
)

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	if c == ColorGreen {
		return []byte("ColorGreen"), nil
	}
	return []byte("ColorRed"), nil
}

// Tags is a list of labels.
type Tags []string

// Tree nests itself through a map.
type Tree map[string]Tree

// Account is a user account.
//
// Accounts are created by the server.
type Account struct {
	// ID is assigned by the server.
	ID string `json:"id" swagger:"readonly"`

	// Name is the display name.
	Name string `json:"name" validate:"required"`

	Email string `json:"email,omitempty" doc:"Contact address"`

	Status   Status    `json:"status"`
	Priority Priority  `json:"priority"`
	Color    Color     `json:"color"`
	Tags     Tags      `json:"tags"`
	Created  time.Time `json:"created"`
	Address  *Address  `json:"address,omitempty"`

	// Nick is kept for old clients.
	//
	// Deprecated: use Name.
	Nick string `json:"nick"`

	Password string `json:"-"`
	Internal string `json:"internal" swagger:"ignore"`

	Audit
}

// Address is a postal address.
type Address struct {
	Zip  string `json:"zip" validate:"required"`
	City string `json:"city"`
}

// Audit is embedded in records that track changes.
type Audit struct {
	UpdatedBy string `json:"updatedBy"`
}

// Node is a linked list element.
type Node struct {
	Value string `json:"value"`
	Next  *Node  `json:"next"`
}
