package bucketctl

import (
	"fmt"
	"io"
	"time"
)

// Action is the single operation selected for a run.
type Action string

const (
	ActionNone     Action = ""
	ActionUpload   Action = "upload"
	ActionDownload Action = "download"
	ActionList     Action = "list_files"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionNone, ActionUpload, ActionDownload, ActionList:
		return true
	default:
		return false
	}
}

func ParseAction(s string) (Action, error) {
	action := Action(s)
	if !action.IsValid() {
		return "", fmt.Errorf("invalid action: %s (valid actions: upload, download, list_files)", s)
	}
	return action, nil
}

// ObjectEntry is one remote object as reported by a listing.
type ObjectEntry struct {
	Name         string    `json:"name"`
	LastModified time.Time `json:"last_modified"`
	Size         int64     `json:"size"`
	ETag         string    `json:"etag,omitempty"`
}

type PutResult struct {
	ETag string
	Size int64
}

// UploadResult describes a finished upload.
type UploadResult struct {
	LocalPath  string `json:"local_path"`
	Bucket     string `json:"bucket"`
	ObjectName string `json:"object_name"`
	ETag       string `json:"etag,omitempty"`
	Size       int64  `json:"size"`
}

// DownloadResult describes a finished download.
type DownloadResult struct {
	ObjectName string `json:"object_name"`
	LocalPath  string `json:"local_path"`
	Size       int64  `json:"size"`
}

// DownloadOptions configures an interactive download.
type DownloadOptions struct {
	Prompter Prompter
	// Out receives retry messages; nil discards them.
	Out io.Writer
	// Dir is where the file is written, the working directory when empty.
	Dir string
}
