package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const longCSV = `neighborhood,indicator,value,display_value
Asylum Hill,poverty,0.42,42%
Frog Hollow,poverty,0.51,51%
West End,poverty,NA,
Asylum Hill,homeownership,0.11,11%
West End,homeownership,0.63,
`

func TestReadCSVLongFormat(t *testing.T) {
	c, err := ReadCSV(strings.NewReader(longCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"poverty", "homeownership"}, c.Metrics)
	assert.Equal(t, 1, c.Index("homeownership"))
	assert.Equal(t, -1, c.Index("income"))

	pov, ok := c.Metric("poverty")
	require.True(t, ok)
	assert.Equal(t, Point{Value: 0.42, Display: "42%"}, pov["Asylum Hill"])
	_, ok = pov.Lookup("West End")
	assert.False(t, ok, "NA rows are absent, not zero")

	own, _ := c.Metric("homeownership")
	assert.Equal(t, "0.63", own["West End"].Display)
}

func TestReadCSVAliasesAndNoIndicator(t *testing.T) {
	in := "\ufeffName,Value,displayVal\nBlue Hills,0.3,30%\n"
	c, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{DefaultMetric}, c.Metrics)
	ds, _ := c.Metric(DefaultMetric)
	assert.Equal(t, Point{Value: 0.3, Display: "30%"}, ds["Blue Hills"])
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"missing value column", "neighborhood,indicator\nA,x\n"},
		{"bad number", "neighborhood,value\nA,lots\n"},
		{"only NA", "neighborhood,value\nA,NA\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in))
			assert.Error(t, err)
		})
	}
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hfd.csv")
	require.NoError(t, os.WriteFile(path, []byte(longCSV), 0644))

	c, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Len(t, c.Metrics, 2)

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
