// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/envision/pkg/pointer"
)

func TestPointer(t *testing.T) {
	order := pointer.To(3)
	assert.Equal(t, 3, pointer.Val(order))

	var missing *int
	assert.Equal(t, 0, pointer.Val(missing))
	assert.Equal(t, 9, pointer.Fallback(missing, 9))
	assert.Equal(t, 3, pointer.Fallback(order, 9))
}
