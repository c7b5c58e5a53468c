package repl

import (
	"testing"

	"github.com/atinylittleshell/tinysh/internal/repl/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCommand(t *testing.T) {
	env := []string{"A=1"}

	tests := []struct {
		name     string
		line     string
		mode     config.ArgvMode
		wantPath string
		wantArgv []string
	}{
		{"literal path", "/bin/true", config.ArgvLiteral, "/bin/true", []string{"/bin/true"}},
		{"literal keeps spaces", "/bin/echo a b", config.ArgvLiteral, "/bin/echo a b", []string{"/bin/echo a b"}},
		{"literal keeps quotes", `/bin/echo "a"`, config.ArgvLiteral, `/bin/echo "a"`, []string{`/bin/echo "a"`}},
		{"fields splits words", "/bin/echo a  b", config.ArgvFields, "/bin/echo", []string{"/bin/echo", "a", "b"}},
		{"fields honors quotes", `/bin/echo "a b" 'c'`, config.ArgvFields, "/bin/echo", []string{"/bin/echo", "a b", "c"}},
		{"fields expands parameters to nothing", "/bin/echo $HOME x", config.ArgvFields, "/bin/echo", []string{"/bin/echo", "x"}},
		{"fields on blank line", "   ", config.ArgvFields, "", []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := buildCommand(tt.line, tt.mode, env)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, cmd.Path)
			assert.Equal(t, tt.wantArgv, cmd.Argv())
			assert.Equal(t, env, cmd.Env)
		})
	}
}

func TestBuildCommand_FieldsErrors(t *testing.T) {
	for _, line := range []string{`/bin/echo "unterminated`, "/bin/echo $(date)"} {
		t.Run(line, func(t *testing.T) {
			_, err := buildCommand(line, config.ArgvFields, nil)
			assert.Error(t, err)
		})
	}
}
