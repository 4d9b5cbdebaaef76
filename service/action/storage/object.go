package storage

import (
	"path"
	"time"

	"github.com/viant/afs/storage"
)

// Object describes a file or directory a job read, wrote or listed
type Object struct {
	URL     string    `json:"url"`
	Name    string    `json:"name"`
	IsDir   bool      `json:"isDir,omitempty"`
	Mode    string    `json:"mode,omitempty"`
	Size    int64     `json:"size,omitempty"`
	ModTime time.Time `json:"modTime,omitempty"`
	Content string    `json:"content,omitempty"`
}

func newObject(info storage.Object) *Object {
	return &Object{
		URL:     info.URL(),
		Name:    path.Base(info.URL()),
		IsDir:   info.IsDir(),
		Mode:    info.Mode().String(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
}
