package internal

import (
	"sync/atomic"
)

// AtomicBoolean is a boolean flag that can be read and written from any goroutine without a
// mutex, used for settings like opt-out that are checked on every logging call. sync/atomic only
// covers integer types on our minimum Go version, so the value is stored as an int32.
type AtomicBoolean struct {
	value int32
}

// Get returns the current value.
func (a *AtomicBoolean) Get() bool {
	return int32ToBoolean(atomic.LoadInt32(&a.value))
}

// Set replaces the current value.
func (a *AtomicBoolean) Set(value bool) {
	atomic.StoreInt32(&a.value, booleanToInt32(value))
}

// GetAndSet replaces the current value and returns the previous one in a single atomic step.
func (a *AtomicBoolean) GetAndSet(value bool) bool {
	return int32ToBoolean(atomic.SwapInt32(&a.value, booleanToInt32(value)))
}

func booleanToInt32(value bool) int32 {
	if value {
		return 1
	}
	return 0
}

func int32ToBoolean(value int32) bool {
	return value != 0
}
