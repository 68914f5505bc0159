package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskLoginID(t *testing.T) {
	tests := map[string]string{
		"":                  "",
		"bob":               "***",
		"john":              "j…n",
		"Alice@Example.com": "a…@e….com",
		"x@y.org":           "x@y.org",
	}
	for in, want := range tests {
		assert.Equal(t, want, MaskLoginID(in), in)
	}
}

func TestMaskLoginID_MultiByte(t *testing.T) {
	assert.Equal(t, "j…é", MaskLoginID("josé"))
	assert.Equal(t, "ñ…@d….es", MaskLoginID("ñandu@dominio.es"))
}
