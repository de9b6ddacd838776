package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterArgs(t *testing.T) {
	allowed := []string{"-c", "--config"}

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "separate value form",
			args: []string{"-c", "conf.json", "-a", "localhost"},
			want: []string{"-c", "conf.json"},
		},
		{
			name: "equals form",
			args: []string{"--config=alt.json", "-a", "localhost"},
			want: []string{"--config=alt.json"},
		},
		{
			name: "mixed forms keep argument order",
			args: []string{"--config=first.json", "-c", "second.json", "-x", "1"},
			want: []string{"--config=first.json", "-c", "second.json"},
		},
		{
			name: "nothing allowed yields empty non-nil slice",
			args: []string{"-x", "1", "--y=2", "positional"},
			want: []string{},
		},
		{
			name: "trailing flag without a value",
			args: []string{"-c"},
			want: []string{"-c"},
		},
		{
			name: "a following flag is not consumed as the value",
			args: []string{"-c", "--config=alt.json"},
			want: []string{"-c", "--config=alt.json"},
		},
		{
			name: "repeated flag survives in order",
			args: []string{"-c", "one.json", "-c", "two.json"},
			want: []string{"-c", "one.json", "-c", "two.json"},
		},
		{
			name: "no arguments",
			args: []string{},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, allowed))
		})
	}
}

func TestFilterArgsMultipleAllowedFlags(t *testing.T) {
	got := FilterArgs(
		[]string{"-a", "localhost:8080", "-c", "conf.json", "--other", "x"},
		[]string{"-c", "-a"},
	)
	assert.Equal(t, []string{"-a", "localhost:8080", "-c", "conf.json"}, got)
}

func TestJsonConfigFlags(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "short form", args: []string{"-c", "/tmp/a.json"}, want: "/tmp/a.json"},
		{name: "long form", args: []string{"-config", "/tmp/b.json"}, want: "/tmp/b.json"},
		{name: "foreign flags ignored", args: []string{"-x", "1", "-y", "2"}, want: ""},
		{name: "last occurrence wins", args: []string{"-c", "/tmp/1.json", "-config", "/tmp/2.json"}, want: "/tmp/2.json"},
		{name: "no flags at all", args: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = append([]string{"cli"}, tt.args...)
			require.Equal(t, tt.want, JsonConfigFlags())
		})
	}
}
