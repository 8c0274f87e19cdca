// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/agora/pkg/uuid"
)

func TestNew_IsVersion7AndOrdered(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	assert.True(t, uuid.Valid(first))
	assert.Equal(t, byte('7'), first[14])
	assert.NotEqual(t, first, second)
	assert.LessOrEqual(t, first[:13], second[:13])
}

func TestValid(t *testing.T) {
	assert.True(t, uuid.Valid("01961f3e-7a1c-7cc0-9d6e-2f1c0c4a1b2c"))
	assert.True(t, uuid.Valid("01961F3E-7A1C-7CC0-9D6E-2F1C0C4A1B2C"))

	assert.False(t, uuid.Valid(""))
	assert.False(t, uuid.Valid("nope"))
	assert.False(t, uuid.Valid("01961f3e7a1c7cc09d6e2f1c0c4a1b2c"))
	assert.False(t, uuid.Valid("{01961f3e-7a1c-7cc0-9d6e-2f1c0c4a1b2c}"))
	assert.False(t, uuid.Valid("urn:uuid:01961f3e-7a1c-7cc0-9d6e-2f1c0c4a1b2c"))
	assert.False(t, uuid.Valid("01961f3e-7a1c-7cc0-9d6e-2f1c0c4a1bzz"))
}
