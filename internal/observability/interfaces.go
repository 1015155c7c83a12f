// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

// Observable is implemented by components that report under a stable name
type Observable interface {
	// GetComponentName returns the component identifier
	GetComponentName() string
}

// Instrumentable is implemented by components that accept an observer
type Instrumentable interface {
	SetObserver(observer *StandardObserver)
}

// Attach wires observer into every component that accepts one.
func Attach(observer *StandardObserver, components ...interface{}) {
	if observer == nil {
		return
	}
	for _, c := range components {
		if i, ok := c.(Instrumentable); ok {
			i.SetObserver(observer)
		}
	}
}
