package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrefixEndBytes(t *testing.T) {
	tests := []struct {
		name   string
		prefix []byte
		want   []byte
	}{
		{"empty", nil, nil},
		{"simple", []byte{0x01, 0x02}, []byte{0x01, 0x03}},
		{"trailing 0xff", []byte{0x01, 0xff}, []byte{0x02}},
		{"all 0xff", []byte{0xff, 0xff}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, PrefixEndBytes(tt.prefix))
		})
	}
}

func TestPrefixIterator(t *testing.T) {
	db := NewMemDB()
	defer db.Close()

	require.NoError(t, db.Set([]byte("a/1"), []byte("1")))
	require.NoError(t, db.Set([]byte("a/2"), []byte("2")))
	require.NoError(t, db.Set([]byte("b/1"), []byte("3")))

	it, err := db.PrefixIterator([]byte("a/"))
	require.NoError(t, err)
	defer it.Close()

	var keys []string
	for ; it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}

	require.Equal(t, []string{"a/1", "a/2"}, keys)
}
