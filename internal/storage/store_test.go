package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alikh-collab/TAZA-back/internal/config"
)

func TestLocalStore_SaveAndDelete(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root, "uploads/")
	require.NoError(t, store.EnsureFolders())

	url, err := store.Save(context.Background(), Object{
		Folder:      FolderComplaints,
		Name:        "abc.png",
		ContentType: "image/png",
		Size:        5,
		Body:        strings.NewReader("hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/complaints/abc.png", url)

	data, err := os.ReadFile(filepath.Join(root, "complaints", "abc.png"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, store.Delete(context.Background(), url))
	_, err = os.Stat(filepath.Join(root, "complaints", "abc.png"))
	assert.True(t, os.IsNotExist(err))

	// already gone
	assert.NoError(t, store.Delete(context.Background(), url))
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "/uploads")

	_, err := store.Save(context.Background(), Object{Folder: FolderAvatars, Name: "../x.png", Body: strings.NewReader("")})
	assert.Error(t, err)

	assert.ErrorIs(t, store.Delete(context.Background(), "/uploads/../../etc/passwd"), ErrForeignURL)
	assert.ErrorIs(t, store.Delete(context.Background(), "https://elsewhere/x.png"), ErrForeignURL)
}

func TestLocalStore_NoOverwrite(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "/uploads")
	obj := func() Object {
		return Object{Folder: FolderAvatars, Name: "same.gif", Body: strings.NewReader("x")}
	}

	_, err := store.Save(context.Background(), obj())
	require.NoError(t, err)
	_, err = store.Save(context.Background(), obj())
	assert.Error(t, err)
}

func TestObjectStore_URLs(t *testing.T) {
	store, err := NewObjectStore(config.StorageConfig{
		Endpoint:  "http://localhost:9000",
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "tazasu-uploads",
		Region:    "us-east-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/tazasu-uploads", store.baseURL)
	assert.ErrorIs(t, store.Delete(context.Background(), "/uploads/avatars/a.png"), ErrForeignURL)
}

func TestNew_LocalDriver(t *testing.T) {
	root := t.TempDir()
	store, err := New(context.Background(), config.StorageConfig{
		Driver:       config.StorageDriverLocal,
		LocalRoot:    root,
		PublicPrefix: "/uploads",
	})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)
	assert.DirExists(t, filepath.Join(root, FolderAvatars))
	assert.DirExists(t, filepath.Join(root, FolderComplaints))
}
