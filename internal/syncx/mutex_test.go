// Copyright 2021 The go-ethereum Authors
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

package syncx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClosableMutex(t *testing.T) {
	cm := NewClosableMutex()
	assert.True(t, cm.TryLock())

	closed := make(chan struct{})
	go func() {
		cm.Close() // waits for the holder
		close(closed)
	}()
	select {
	case <-closed:
		t.Fatal("close did not wait for the lock holder")
	case <-time.After(50 * time.Millisecond):
	}
	cm.Unlock()
	<-closed

	assert.False(t, cm.TryLock())
	assert.Panics(t, cm.MustLock)
	assert.Panics(t, cm.Close)
}

func TestClosableMutexDoubleUnlock(t *testing.T) {
	cm := NewClosableMutex()
	assert.Panics(t, cm.Unlock)
}
