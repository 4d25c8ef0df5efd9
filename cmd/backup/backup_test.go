package backup_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/ledgerdash/cmd/backup"
	"fjacquet/ledgerdash/cmd/cmdtest"
	"fjacquet/ledgerdash/internal/ledgererror"
	"fjacquet/ledgerdash/internal/models"
	"fjacquet/ledgerdash/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupExport(t *testing.T) {
	c, _ := cmdtest.NewContainer(t)
	cmdtest.Seed(t, c, cmdtest.Receipt(t, "JACK", "100"))
	path := filepath.Join(t.TempDir(), "snapshot.json")

	out, err := cmdtest.Execute(t, c, backup.Cmd, "backup", "export", "-o", path)
	require.NoError(t, err)
	assert.Equal(t, "wrote backup to "+path+"\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var b models.Backup
	require.NoError(t, json.Unmarshal(data, &b))
	require.NotNil(t, b.Transactions)
	assert.Len(t, *b.Transactions, 1)
	require.NotNil(t, b.Persons)
	assert.Equal(t, models.DefaultPersons(), *b.Persons)
	assert.False(t, b.Timestamp.IsZero())
}

func TestBackupExport_Stdout(t *testing.T) {
	c, _ := cmdtest.NewContainer(t)

	out, err := cmdtest.Execute(t, c, backup.Cmd, "backup", "export", "-o", "-")
	require.NoError(t, err)
	var b models.Backup
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.NotNil(t, b.Settings)
}

func TestBackupExport_Auto(t *testing.T) {
	c, _ := cmdtest.NewContainer(t)

	_, err := cmdtest.Execute(t, c, backup.Cmd, "backup", "export", "--auto", "-o", "-")
	assert.ErrorIs(t, err, ledgererror.ErrNotFound)

	_, err = c.Dispatch(state.AddPerson{Person: "Sara"})
	require.NoError(t, err)
	require.NoError(t, c.Flush())

	out, err := cmdtest.Execute(t, c, backup.Cmd, "backup", "export", "--auto", "-o", "-")
	require.NoError(t, err)
	var b models.Backup
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	require.NotNil(t, b.Persons)
	assert.Contains(t, *b.Persons, "Sara")
}

func TestBackupImport(t *testing.T) {
	c, _ := cmdtest.NewContainer(t)
	cmdtest.Seed(t, c, cmdtest.Receipt(t, "JACK", "100"))
	path := filepath.Join(t.TempDir(), "persons.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"persons":["JACK","Sara"]}`), 0600))

	out, err := cmdtest.Execute(t, c, backup.Cmd, append([]string{"backup", "import", path}, cmdtest.User...)...)
	require.NoError(t, err)
	assert.Equal(t, "imported "+path+": 1 transactions, 2 persons\n", out)

	s, err := c.State()
	require.NoError(t, err)
	assert.Equal(t, []string{"JACK", "Sara"}, s.Persons)
	assert.Len(t, s.Transactions, 1)
}

func TestBackupImport_Refusals(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"persons":`), 0600))
	duplicate := filepath.Join(dir, "duplicate.json")
	require.NoError(t, os.WriteFile(duplicate, []byte(`{"persons":["A","A"]}`), 0600))
	text := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(text, []byte(`{}`), 0600))

	tests := []struct {
		name string
		path string
	}{
		{name: "missing file", path: filepath.Join(dir, "absent.json")},
		{name: "not json extension", path: text},
		{name: "malformed", path: broken},
		{name: "duplicate person", path: duplicate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := cmdtest.NewContainer(t)
			_, err := cmdtest.Execute(t, c, backup.Cmd, append([]string{"backup", "import", tt.path}, cmdtest.User...)...)
			var importErr *ledgererror.ImportError
			assert.ErrorAs(t, err, &importErr)

			s, err := c.State()
			require.NoError(t, err)
			assert.Equal(t, models.DefaultPersons(), s.Persons)
		})
	}

	c, _ := cmdtest.NewContainer(t)
	_, err := cmdtest.Execute(t, c, backup.Cmd, "backup", "import", broken)
	assert.ErrorIs(t, err, ledgererror.ErrUnauthorized)
}
