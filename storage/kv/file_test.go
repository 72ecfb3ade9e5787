package kv

import (
	"io/ioutil"
	"os"
	"reflect"
	"testing"
)

func TestFileStore(t *testing.T) {
	dir, err := ioutil.TempDir("", "kvstore")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	store, err := OpenFileStore(dir)
	if err != nil {
		t.Fatalf("OpenFileStore() error = %v", err)
	}
	defer store.Close()

	if _, err := store.Load("cbc_students"); err != ErrKeyNotFound {
		t.Errorf("Load(missing) error = %v, want %v", err, ErrKeyNotFound)
	}

	want := []byte(`[{"id":1,"name":"Amina Yusuf"}]`)
	if err := store.Save("cbc_students", want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Load("cbc_students")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %s, want %s", got, want)
	}

	// overwrite sticks
	want = []byte(`[]`)
	if err := store.Save("cbc_students", want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got, _ := store.Load("cbc_students"); !reflect.DeepEqual(got, want) {
		t.Errorf("Load() after overwrite = %s, want %s", got, want)
	}

	_ = store.Save("cbc_teachers", []byte(`[]`))
	keys, err := store.Keys()
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if want := []string{"cbc_students", "cbc_teachers"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("Keys() = %v, want %v", keys, want)
	}

	if err := store.Delete("cbc_teachers"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load("cbc_teachers"); err != ErrKeyNotFound {
		t.Errorf("Load(deleted) error = %v, want %v", err, ErrKeyNotFound)
	}
	// deleting a missing key is not an error
	if err := store.Delete("cbc_teachers"); err != nil {
		t.Errorf("Delete(missing) error = %v", err)
	}
}
