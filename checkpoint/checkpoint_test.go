package checkpoint

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"massnet.org/mdhash/crypto/md5"
	"massnet.org/mdhash/crypto/sha256"
	"massnet.org/mdhash/database/storage"
	"massnet.org/mdhash/database/storage/ldbstorage"
)

func newMemStore(t *testing.T, cacheSize int) *Store {
	stor, err := storage.CreateStorage(ldbstorage.TypeMemDB, "")
	require.NoError(t, err)
	return NewStore(stor, cacheSize)
}

func TestSaveRestore(t *testing.T) {
	st := newMemStore(t, 8)
	defer st.Close()

	msg := make([]byte, 1000)
	for i := range msg {
		msg[i] = byte(i)
	}
	want := sha256.Sum256(msg)

	s := sha256.New()
	s.Update(msg[:333])
	require.NoError(t, st.Save("/data/file", s))

	resumed := sha256.New()
	ok, err := st.Restore("/data/file", resumed)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(333), resumed.Len())
	resumed.Update(msg[333:])
	assert.Equal(t, want[:], resumed.Digest())

	// another algorithm does not see the snapshot
	ok, err = st.Restore("/data/file", md5.New())
	require.NoError(t, err)
	assert.False(t, ok)

	pending, err := st.Pending()
	require.NoError(t, err)
	assert.Equal(t, []Pending{{Algorithm: "sha256", ID: "/data/file", Len: 333}}, pending)

	require.NoError(t, st.Discard("sha256", "/data/file"))
	ok, err = st.Restore("/data/file", sha256.New())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRestoreCorrupt(t *testing.T) {
	st := newMemStore(t, 8)
	defer st.Close()

	require.NoError(t, st.stor.Put(recordKey(pendingPrefix, "md5", "x"), []byte("garbage")))
	s := md5.New()
	s.Update([]byte("abc"))
	ok, err := st.Restore("x", s)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, uint64(0), s.Len())

	pending, err := st.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestFinishLookup(t *testing.T) {
	st := newMemStore(t, 1)
	defer st.Close()

	s := md5.New()
	s.Update([]byte("abc"))
	require.NoError(t, st.Save("a", s))
	digest := s.Digest()
	require.NoError(t, st.Finish("md5", "a", digest))
	require.NoError(t, st.Finish("md5", "b", []byte{1, 2, 3}))
	assert.Equal(t, 1, st.cache.len())

	pending, err := st.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)

	// "a" was evicted from the cache and is served from storage
	d, ok, err := st.Lookup("md5", "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, digest, d)

	_, ok, err = st.Lookup("sha256", "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.Forget("md5", "a"))
	_, ok, err = st.Lookup("md5", "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	st := newMemStore(t, 8)
	defer st.Close()

	for _, id := range []string{"a", "b", "c"} {
		s := sha256.New()
		s.Update([]byte(id))
		require.NoError(t, st.Save(id, s))
	}
	n, err := st.Clear()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	pending, err := st.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestPrune(t *testing.T) {
	st := newMemStore(t, 8)
	defer st.Close()

	for _, id := range []string{"/data/a|4|100", "/data/a|4|200", "/data/a|8|300", "/data/ab|4|100"} {
		s := sha256.New()
		s.Update([]byte(id))
		require.NoError(t, st.Save(id, s))
	}
	other := md5.New()
	require.NoError(t, st.Save("/data/a|4|100", other))

	n, err := st.Prune("sha256", "/data/a|", "/data/a|8|300")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	pending, err := st.Pending()
	require.NoError(t, err)
	var ids []string
	for _, p := range pending {
		ids = append(ids, p.Algorithm+" "+p.ID)
	}
	assert.Equal(t, []string{"md5 /data/a|4|100", "sha256 /data/ab|4|100", "sha256 /data/a|8|300"}, ids)

	n, err = st.Prune("sha256", "/data/a|", "/data/a|8|300")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestOpen(t *testing.T) {
	dir, err := ioutil.TempDir("", "mdhash-checkpoint")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	st, err := Open(ldbstorage.TypeLevelDB, dir, 4)
	require.NoError(t, err)
	s := md5.New()
	s.Update([]byte("persisted"))
	require.NoError(t, st.Save("p", s))
	require.NoError(t, st.Close())

	st, err = Open(ldbstorage.TypeLevelDB, dir, 4)
	require.NoError(t, err)
	defer st.Close()
	restored := md5.New()
	ok, err := st.Restore("p", restored)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, s.Digest(), restored.Digest())
}
