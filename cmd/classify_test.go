package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestClassifyCommand(t *testing.T) {
	out := execute(t, "classify", "qual a alíquota de icms para frete interestadual?")
	assert.Contains(t, out, "Categoria: fiscal")
}

func TestClassifyCommandJSON(t *testing.T) {
	out := execute(t, "classify", "--json", "como faço para cadastrar um motorista?")
	t.Cleanup(func() { outputJSON = false })

	var result classifyOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "qa", result.Category)
	assert.False(t, result.Fallback)
	assert.Len(t, result.Scores, 8)
}

func TestAgentsCommand(t *testing.T) {
	out := execute(t, "agents")
	assert.Contains(t, out, "fiscal")
	assert.Contains(t, out, "legislation_search")
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "curto", snippet("curto", 100))

	long := snippet("uma frase bastante longa que precisa ser cortada em algum ponto razoável do texto", 40)
	assert.LessOrEqual(t, len(long), 44)
	assert.Contains(t, long, "...")
}
