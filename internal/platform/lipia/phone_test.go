package lipia

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		want  string
	}{
		{"already local", "0712345678", "0712345678"},
		{"country code", "254712345678", "0712345678"},
		{"country code with plus", "+254712345678", "0712345678"},
		{"missing leading zero", "712345678", "0712345678"},
		{"spaces and dashes", "0712-345 678", "0712345678"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, NormalizePhone(tc.in))
		})
	}
}
