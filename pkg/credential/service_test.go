package credential

import (
	"bytes"
	"errors"
	"testing"

	"github.com/mmcdole/vklogin/pkg/credstore"
	"github.com/mmcdole/vklogin/pkg/hashing"
	"github.com/mmcdole/vklogin/pkg/logging"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const storePath = "/home/user/user_data.json"

func newTestService(t *testing.T, store credstore.Store) *Service {
	t.Helper()
	hasher := hashing.NewMultiVerifier(nil, hashing.Options{BcryptCost: bcrypt.MinCost})
	svc, err := NewService(store, hasher, WithLogger(logging.NewAppLogger(&bytes.Buffer{}, logging.LogLevelDebug)))
	require.NoError(t, err)
	return svc
}

func newFileService(t *testing.T) (*Service, afero.Fs, *credstore.FileStore) {
	t.Helper()
	fs := afero.NewMemMapFs()
	store := credstore.NewFileStore(fs, storePath)
	return newTestService(t, store), fs, store
}

func TestNewService(t *testing.T) {
	t.Run("Requires store", func(t *testing.T) {
		_, err := NewService(nil, nil)
		assert.Error(t, err)
	})

	t.Run("Uses default hasher and logger", func(t *testing.T) {
		svc, err := NewService(credstore.NewMemoryStore(nil), nil)
		require.NoError(t, err)
		assert.NotNil(t, svc.hasher)
		assert.Equal(t, logging.App, svc.logger)
	})
}

func TestService_Scenario(t *testing.T) {
	svc, _, _ := newFileService(t)

	steps := []struct {
		name string
		run  func() Outcome
		want Kind
		msg  string
	}{
		{"register alice", func() Outcome { return svc.Register("alice", "pw1") }, KindSuccess, MsgRegistered},
		{"verify correct password", func() Outcome { return svc.Verify("alice", "pw1") }, KindSuccess, MsgVerified},
		{"verify wrong password", func() Outcome { return svc.Verify("alice", "wrong") }, KindWrongPassword, MsgWrongPassword},
		{"register duplicate", func() Outcome { return svc.Register("alice", "pw2") }, KindDuplicateUser, MsgDuplicateUser},
		{"clear", func() Outcome { return svc.Clear() }, KindSuccess, MsgCleared},
		{"verify after clear", func() Outcome { return svc.Verify("alice", "pw1") }, KindUnknownUser, MsgUnknownUser},
	}

	for _, step := range steps {
		got := step.run()
		assert.Equal(t, step.want, got.Kind, "%s: got %s", step.name, got.Kind)
		assert.Equal(t, step.msg, got.Message, step.name)
		assert.Equal(t, step.want == KindSuccess, got.OK(), step.name)
	}
}

func TestService_RegisterThenVerify(t *testing.T) {
	pairs := []struct{ username, password string }{
		{"alice", "pw1"},
		{"Bob", "correct horse battery staple"},
		{"  spaced  ", " "},
		{"ユーザー", "パスワード"},
	}

	for _, p := range pairs {
		t.Run(p.username, func(t *testing.T) {
			svc := newTestService(t, credstore.NewMemoryStore(nil))

			require.True(t, svc.Register(p.username, p.password).OK())
			assert.True(t, svc.Verify(p.username, p.password).OK())
			assert.Equal(t, KindWrongPassword, svc.Verify(p.username, p.password+"x").Kind)
		})
	}
}

func TestService_UnknownUser(t *testing.T) {
	svc := newTestService(t, credstore.NewMemoryStore(nil))
	require.True(t, svc.Register("alice", "pw1").OK())

	out := svc.Verify("bob", "pw1")
	assert.Equal(t, KindUnknownUser, out.Kind)
	assert.Equal(t, MsgUnknownUser, out.Message)
}

func TestService_DuplicateKeepsFirstHash(t *testing.T) {
	svc, _, store := newFileService(t)
	require.True(t, svc.Register("alice", "pw1").OK())

	before, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, KindDuplicateUser, svc.Register("alice", "pw2").Kind)

	after, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.True(t, svc.Verify("alice", "pw1").OK())
	assert.Equal(t, KindWrongPassword, svc.Verify("alice", "pw2").Kind)
}

func TestService_EmptyInput(t *testing.T) {
	svc, fs, store := newFileService(t)
	require.True(t, svc.Register("alice", "pw1").OK())
	before, err := afero.ReadFile(fs, storePath)
	require.NoError(t, err)

	calls := []struct {
		name string
		run  func() Outcome
	}{
		{"register empty username", func() Outcome { return svc.Register("", "x") }},
		{"register empty password", func() Outcome { return svc.Register("x", "") }},
		{"verify empty username", func() Outcome { return svc.Verify("", "x") }},
		{"verify empty password", func() Outcome { return svc.Verify("x", "") }},
	}

	for _, c := range calls {
		t.Run(c.name, func(t *testing.T) {
			out := c.run()
			assert.Equal(t, KindEmptyInput, out.Kind)
			assert.Equal(t, MsgEmptyInput, out.Message)
		})
	}

	after, err := afero.ReadFile(fs, storePath)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	records, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestService_Clear(t *testing.T) {
	svc, fs, store := newFileService(t)
	require.True(t, svc.Register("alice", "pw1").OK())

	assert.True(t, svc.Clear().OK())

	exists, err := afero.Exists(fs, storePath)
	require.NoError(t, err)
	assert.False(t, exists)

	records, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, records)

	out := svc.Clear()
	assert.Equal(t, KindNothingToClear, out.Kind)
	assert.Equal(t, MsgNothingToClear, out.Message)
}

func TestService_MalformedStoreTreatedAsEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, storePath, []byte("{not json"), 0600))

	var logs bytes.Buffer
	hasher := hashing.NewMultiVerifier(nil, hashing.Options{BcryptCost: bcrypt.MinCost})
	svc, err := NewService(credstore.NewFileStore(fs, storePath), hasher,
		WithLogger(logging.NewAppLogger(&logs, logging.LogLevelWarn)))
	require.NoError(t, err)

	assert.Equal(t, KindUnknownUser, svc.Verify("alice", "pw1").Kind)
	assert.Contains(t, logs.String(), "Ignoring malformed store")

	has, err := svc.HasAccount()
	require.NoError(t, err)
	assert.False(t, has)

	// Registering overwrites the corrupt file
	require.True(t, svc.Register("alice", "pw1").OK())
	assert.True(t, svc.Verify("alice", "pw1").OK())
}

func TestService_StoredHashFormats(t *testing.T) {
	argon, err := hashing.NewArgon2ID(hashing.Argon2Params{Memory: 1024, Time: 1, Threads: 1}).Hash("pw1")
	require.NoError(t, err)

	records := credstore.Records{
		hashing.UsernameKey("legacy"): "GgHKjSw.CAsOo", // password: "billiards"
		hashing.UsernameKey("argon"):  argon,
		hashing.UsernameKey("broken"): "garbage",
	}
	hasher := hashing.NewMultiVerifier(nil, hashing.Options{
		BcryptCost: bcrypt.MinCost,
		Argon2:     hashing.Argon2Params{Memory: 1024, Time: 1, Threads: 1},
	})
	svc, err := NewService(credstore.NewMemoryStore(records), hasher,
		WithLogger(logging.NewAppLogger(&bytes.Buffer{}, logging.LogLevelDebug)))
	require.NoError(t, err)

	assert.True(t, svc.Verify("legacy", "billiards").OK())
	assert.True(t, svc.Verify("argon", "pw1").OK())
	assert.Equal(t, KindWrongPassword, svc.Verify("broken", "anything").Kind)
}

func TestService_HasAccount(t *testing.T) {
	svc := newTestService(t, credstore.NewMemoryStore(nil))

	has, err := svc.HasAccount()
	require.NoError(t, err)
	assert.False(t, has)

	require.True(t, svc.Register("alice", "pw1").OK())

	has, err = svc.HasAccount()
	require.NoError(t, err)
	assert.True(t, has)
}

func TestService_PersistenceFailure(t *testing.T) {
	t.Run("save fails", func(t *testing.T) {
		fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
		svc := newTestService(t, credstore.NewFileStore(fs, storePath))

		out := svc.Register("alice", "pw1")
		assert.Equal(t, KindPersistenceFailure, out.Kind)
		assert.Equal(t, MsgPersistenceFailed, out.Message)
		assert.Error(t, out.Err)
	})

	t.Run("load fails", func(t *testing.T) {
		svc := newTestService(t, failingStore{err: errors.New("disk on fire")})

		assert.Equal(t, KindPersistenceFailure, svc.Verify("alice", "pw1").Kind)
		assert.Equal(t, KindPersistenceFailure, svc.Register("alice", "pw1").Kind)
		assert.Equal(t, KindPersistenceFailure, svc.Clear().Kind)

		_, err := svc.HasAccount()
		assert.Error(t, err)
	})
}

func TestService_HashingFailure(t *testing.T) {
	svc := newTestService(t, credstore.NewMemoryStore(nil))

	long := make([]byte, 100)
	for i := range long {
		long[i] = 'a'
	}
	out := svc.Register("alice", string(long))
	assert.Equal(t, KindHashingFailure, out.Kind)
	assert.ErrorIs(t, out.Err, hashing.ErrPasswordTooLong)

	has, err := svc.HasAccount()
	require.NoError(t, err)
	assert.False(t, has)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "success", KindSuccess.String())
	assert.Equal(t, "wrong_password", KindWrongPassword.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

type failingStore struct{ err error }

func (f failingStore) Load() (credstore.Records, error) { return nil, f.err }
func (f failingStore) Save(credstore.Records) error { return f.err }
func (f failingStore) Clear() error { return f.err }
