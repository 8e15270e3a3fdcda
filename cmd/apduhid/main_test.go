package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunMain_UsageErrors(t *testing.T) {
	var stderr bytes.Buffer

	assert.Equal(t, 2, runMain([]string{"-no-such-flag"}, &stderr))
	assert.Equal(t, 2, runMain([]string{"-config", filepath.Join(t.TempDir(), "missing.toml")}, &stderr))
	assert.Equal(t, 2, runMain([]string{"-vendor", "0x10000"}, &stderr))
	assert.Equal(t, 2, runMain([]string{"-usage-page", "page"}, &stderr))
	assert.Contains(t, stderr.String(), "invalid usage page")
}

func TestRunMain_InvalidAPDU(t *testing.T) {
	var stderr bytes.Buffer

	assert.Equal(t, 1, runMain([]string{"zz"}, &stderr))
	assert.Contains(t, stderr.String(), "invalid APDU")
}

func TestParseUint16(t *testing.T) {
	v, err := parseUint16("0xffa0")
	assert.NoError(t, err)
	assert.Equal(t, uint16(0xffa0), v)

	_, err = parseUint16("65536")
	assert.Error(t, err)
}
