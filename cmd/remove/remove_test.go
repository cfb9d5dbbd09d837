package remove

import (
	"testing"

	"hometab/expense-tracker/cmd/cmdtest"
	"hometab/expense-tracker/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteCommand(t *testing.T) {
	env := cmdtest.Setup(t)
	env.Seed(t,
		cmdtest.Tx("2024-03-01", "A", "1", ""),
		cmdtest.Tx("2024-03-02", "B", "2", ""),
		cmdtest.Tx("2024-03-03", "C", "3", ""),
	)

	out, err := cmdtest.Run(t, Cmd, "2", "0", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 2 transactions")

	stored := env.Stored(t)
	require.Len(t, stored, 1)
	assert.Equal(t, "B", stored[0].Business)
}

func TestDeleteCommand_Errors(t *testing.T) {
	env := cmdtest.Setup(t)
	env.Seed(t, cmdtest.Tx("2024-03-01", "A", "1", ""))

	_, err := cmdtest.Run(t, Cmd, "abc")
	assert.ErrorContains(t, err, `invalid index "abc"`)

	_, err = cmdtest.Run(t, Cmd, "0", "5")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Len(t, env.Stored(t), 1)

	assert.Error(t, Cmd.Args(Cmd, nil))
}
