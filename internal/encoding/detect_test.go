package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ledgerql/internal/encoding"
)

func TestDetect(t *testing.T) {
	type testCase struct {
		name        string
		input       []byte
		want        string
		wantCharset string
	}

	tests := []testCase{
		{
			name:        "UTF8 Passthrough",
			input:       []byte("date;counterparty;amount\n2023-09-20;Café Ltd;12.50\n"),
			want:        "date;counterparty;amount\n2023-09-20;Café Ltd;12.50\n",
			wantCharset: encoding.CharsetUTF8,
		},
		{
			name:        "UTF8 BOM Stripped",
			input:       append([]byte{0xEF, 0xBB, 0xBF}, []byte("Descrição;Montante\n")...),
			want:        "Descrição;Montante\n",
			wantCharset: encoding.CharsetUTF8,
		},
		{
			name:        "UTF16 LE",
			input:       []byte{0xFF, 0xFE, 'o', 0x00, 'k', 0x00, '\n', 0x00},
			want:        "ok\n",
			wantCharset: encoding.CharsetUTF16LE,
		},
		{
			name:        "UTF16 BE",
			input:       []byte{0xFE, 0xFF, 0x00, 'o', 0x00, 'k'},
			want:        "ok",
			wantCharset: encoding.CharsetUTF16BE,
		},
		{
			name:        "Empty",
			input:       nil,
			want:        "",
			wantCharset: encoding.CharsetUTF8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, charset, err := encoding.Detect(bytes.NewReader(tt.input))
			require.NoError(t, err)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
			assert.Equal(t, tt.wantCharset, charset)
		})
	}
}

func TestNewUTF8Reader_Latin1(t *testing.T) {
	// Windows-1252: ç = 0xE7, ã = 0xE3
	latin1Bytes := []byte{
		'D', 'e', 's', 'c', 'r', 'i', 0xE7, 0xE3, 'o', ';',
		'M', 'o', 'n', 't', 'a', 'n', 't', 'e', '\n',
	}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Descrição;Montante\n", string(got))
}
