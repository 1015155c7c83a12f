// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

// AddressSet is an insertion-ordered set of email addresses. A nil
// *AddressSet behaves as an empty set for reads.
type AddressSet struct {
	order []string
	index map[string]struct{}
}

// NewAddressSet returns a set holding addrs.
func NewAddressSet(addrs ...string) *AddressSet {
	s := &AddressSet{index: make(map[string]struct{}, len(addrs))}
	for _, a := range addrs {
		s.Add(a)
	}
	return s
}

// Contains reports whether addr is in the set.
func (s *AddressSet) Contains(addr string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[addr]
	return ok
}

// Add inserts addr and reports whether it was new.
func (s *AddressSet) Add(addr string) bool {
	if s.Contains(addr) {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	s.index[addr] = struct{}{}
	s.order = append(s.order, addr)
	return true
}

// Merge adds every address of other, keeping other's order for new entries.
func (s *AddressSet) Merge(other *AddressSet) {
	if other == nil {
		return
	}
	for _, a := range other.order {
		s.Add(a)
	}
}

// Len returns the number of addresses.
func (s *AddressSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Items returns the addresses in insertion order.
func (s *AddressSet) Items() []string {
	if s == nil {
		return nil
	}
	items := make([]string, len(s.order))
	copy(items, s.order)
	return items
}
