// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package roster

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "companies.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		column  string
		want    []string
	}{
		{
			name:    "single column",
			content: "cik\n1\n2\n3\n",
			column:  "cik",
			want:    []string{"1", "2", "3"},
		},
		{
			name:    "selects named column among several",
			content: "name,cik,ticker\nApple Inc.,0000320193,AAPL\nMicrosoft,0000789019,MSFT\n",
			column:  "cik",
			want:    []string{"0000320193", "0000789019"},
		},
		{
			name:    "keeps duplicates and raw values",
			content: "cik\n320193\n320193\n not-a-cik \n",
			column:  "cik",
			want:    []string{"320193", "320193", " not-a-cik "},
		},
		{
			name:    "byte-order mark on header",
			content: "\ufeffcik,name\n1,a\n",
			column:  "cik",
			want:    []string{"1"},
		},
		{
			name:    "ragged row yields empty value",
			content: "name,cik\nonly-name\nb,2\n",
			column:  "cik",
			want:    []string{"", "2"},
		},
		{
			name:    "header only",
			content: "cik\n",
			column:  "cik",
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(writeCSV(t, tt.content), tt.column)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_MissingColumn(t *testing.T) {
	_, err := Load(writeCSV(t, "name,ticker\nApple,AAPL\n"), "cik")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrColumnNotFound)
	assert.Contains(t, err.Error(), `"cik"`)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), "cik")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoad_EmptyFile(t *testing.T) {
	_, err := Load(writeCSV(t, ""), "cik")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty CSV")
}

func TestRead_PreservesOrder(t *testing.T) {
	var b strings.Builder
	b.WriteString("cik\n")
	for i := 25; i > 0; i-- {
		fmt.Fprintf(&b, "%d\n", i)
	}

	got, err := Read(strings.NewReader(b.String()), "cik")
	require.NoError(t, err)
	require.Len(t, got, 25)
	assert.Equal(t, "25", got[0])
	assert.Equal(t, "1", got[24])
}

func TestTruncate(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}

	tests := []struct {
		name string
		ids  []string
		max  int
		want []string
	}{
		{"more than max", ids, 10, ids[:10]},
		{"fewer than max", ids[:3], 10, ids[:3]},
		{"exactly max", ids[:10], 10, ids[:10]},
		{"zero means all", ids, 0, ids},
		{"negative means all", ids, -1, ids},
		{"empty", nil, 10, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.ids, tt.max))
		})
	}
}
