package flagx

import (
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-a", ":8080", "-x", "ignored"},
			allowedFlags: []string{"-a", "--address"},
			want:         []string{"-a", ":8080"},
		},
		{
			name:         "long flag with equals",
			args:         []string{"--address=:9090", "-x", "ignored"},
			allowedFlags: []string{"-a", "--address"},
			want:         []string{"--address=:9090"},
		},
		{
			name:         "both short and long present, preserve order",
			args:         []string{"--address=:8080", "-a", ":9090", "-x", "1"},
			allowedFlags: []string{"-a", "--address"},
			want:         []string{"--address=:8080", "-a", ":9090"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-a", "--address"},
			want:         []string{},
		},
		{
			name:         "flag without value at end is kept as-is",
			args:         []string{"-a"},
			allowedFlags: []string{"-a", "--address"},
			want:         []string{"-a"},
		},
		{
			name:         "flag followed by another flag (no value)",
			args:         []string{"-a", "-notvalue"},
			allowedFlags: []string{"-a", "--address"},
			want:         []string{"-a"},
		},
		{
			name:         "value that looks like a flag but with equals form",
			args:         []string{"--address=--weird"},
			allowedFlags: []string{"--address"},
			want:         []string{"--address=--weird"},
		},
		{
			name:         "multiple allowed flags kept",
			args:         []string{"-a", ":8080", "-d", "postgres://localhost/tickethub", "--other", "x"},
			allowedFlags: []string{"-a", "-d"},
			want:         []string{"-a", ":8080", "-d", "postgres://localhost/tickethub"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-a", "--address"},
			want:         []string{},
		},
		{
			name:         "path with spaces remains single arg",
			args:         []string{"-c", "/home/user/tickethub.json"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "/home/user/tickethub.json"},
		},
		{
			name:         "do not treat next dash-starting token as value",
			args:         []string{"-a", "--address=:9090"},
			allowedFlags: []string{"-a", "--address"},
			want:         []string{"-a", "--address=:9090"},
		},
		{
			name:         "repeated allowed flag is preserved in order",
			args:         []string{"-m", "mongodb://one:27017", "-m", "mongodb://two:27017"},
			allowedFlags: []string{"-m"},
			want:         []string{"-m", "mongodb://one:27017", "-m", "mongodb://two:27017"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowedFlags)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("FilterArgs() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func Test_jsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short -c with value", func(t *testing.T) {
		os.Args = []string{"tickethub-server", "-c", "/etc/tickethub/short.json"}
		assert.Equal(t, "/etc/tickethub/short.json", JsonConfigFlags())
	})

	t.Run("long -config with value", func(t *testing.T) {
		os.Args = []string{"tickethub-server", "-config", "/etc/tickethub/long.json"}
		assert.Equal(t, "/etc/tickethub/long.json", JsonConfigFlags())
	})

	t.Run("unknown flags are ignored", func(t *testing.T) {
		os.Args = []string{"tickethub-server", "-x", "1", "-y", "2"}
		assert.Empty(t, JsonConfigFlags())
	})

	t.Run("multiple flags, last wins", func(t *testing.T) {
		os.Args = []string{"tickethub-server", "-c", "/etc/tickethub/1.json", "-config", "/etc/tickethub/2.json"}
		assert.Equal(t, "/etc/tickethub/2.json", JsonConfigFlags())
	})
}
