// Copyright 2023 The CubeFS Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package proto

import (
	"fmt"
	"strings"
)

const (
	NoTtl = int64(-1)

	defaultBlockSizeBytes = int64(64 << 20)
	defaultFileMode       = Mode(0o644)
	defaultDirectoryMode  = Mode(0o755)
)

type TtlAction string

const (
	TtlActionDelete TtlAction = "DELETE"
	TtlActionFree   TtlAction = "FREE"
)

// FileInfo is the metadata record the master keeps for a path. The master
// tracks existence and attributes only, so Length stays zero unless set.
type FileInfo struct {
	FileId                 FileID    `json:"file_id"`
	Name                   string    `json:"name"`
	Path                   string    `json:"path"`
	Length                 int64     `json:"length"`
	BlockSizeBytes         int64     `json:"block_size_bytes"`
	CreationTimeMs         int64     `json:"creation_time_ms"`
	LastModificationTimeMs int64     `json:"last_modification_time_ms"`
	Completed              bool      `json:"completed"`
	Folder                 bool      `json:"folder"`
	Pinned                 bool      `json:"pinned"`
	Persisted              bool      `json:"persisted"`
	Mode                   Mode      `json:"mode"`
	Owner                  string    `json:"owner"`
	Group                  string    `json:"group"`
	Ttl                    int64     `json:"ttl"`
	TtlAction              TtlAction `json:"ttl_action"`
}

func (f *FileInfo) String() string {
	var b strings.Builder
	b.WriteString("FileInfo{")
	fmt.Fprintf(&b, "fileId=%d, name=%s, path=%s, length=%d, blockSizeBytes=%d, ",
		f.FileId, f.Name, f.Path, f.Length, f.BlockSizeBytes)
	fmt.Fprintf(&b, "creationTimeMs=%d, lastModificationTimeMs=%d, completed=%t, folder=%t, ",
		f.CreationTimeMs, f.LastModificationTimeMs, f.Completed, f.Folder)
	fmt.Fprintf(&b, "pinned=%t, persisted=%t, mode=%#o, owner=%s, group=%s, ttl=%d, ttlAction=%s}",
		f.Pinned, f.Persisted, f.Mode, f.Owner, f.Group, f.Ttl, f.TtlAction)
	return b.String()
}

type (
	CreateDirectoryOptions struct {
		Recursive   bool  `json:"recursive"`
		AllowExists bool  `json:"allow_exists"`
		Mode        Mode  `json:"mode"`
		Ttl         int64 `json:"ttl"`
	}
	CreateFileOptions struct {
		Recursive      bool  `json:"recursive"`
		BlockSizeBytes int64 `json:"block_size_bytes"`
		Mode           Mode  `json:"mode"`
		Ttl            int64 `json:"ttl"`
	}
	DeleteOptions struct {
		Recursive bool `json:"recursive"`
	}
	// SetAttributeOptions only applies the fields that are set; the zero
	// value updates nothing and merely checks that the path exists.
	SetAttributeOptions struct {
		Pinned    *bool      `json:"pinned,omitempty"`
		Persisted *bool      `json:"persisted,omitempty"`
		Ttl       *int64     `json:"ttl,omitempty"`
		TtlAction *TtlAction `json:"ttl_action,omitempty"`
		Mode      *Mode      `json:"mode,omitempty"`
		Owner     *string    `json:"owner,omitempty"`
		Group     *string    `json:"group,omitempty"`
	}
	ListStatusOptions struct{}
)

func DefaultCreateDirectoryOptions() CreateDirectoryOptions {
	return CreateDirectoryOptions{Mode: defaultDirectoryMode, Ttl: NoTtl}
}

func DefaultCreateFileOptions() CreateFileOptions {
	return CreateFileOptions{
		Recursive:      true,
		BlockSizeBytes: defaultBlockSizeBytes,
		Mode:           defaultFileMode,
		Ttl:            NoTtl,
	}
}

func DefaultDeleteOptions() DeleteOptions {
	return DeleteOptions{}
}

func DefaultSetAttributeOptions() SetAttributeOptions {
	return SetAttributeOptions{}
}

func DefaultListStatusOptions() ListStatusOptions {
	return ListStatusOptions{}
}

// IsEmpty reports whether no attribute would be changed.
func (o *SetAttributeOptions) IsEmpty() bool {
	return o.Pinned == nil && o.Persisted == nil && o.Ttl == nil && o.TtlAction == nil &&
		o.Mode == nil && o.Owner == nil && o.Group == nil
}

type (
	CreateDirectoryRequest struct {
		Path    string                 `json:"path"`
		Options CreateDirectoryOptions `json:"options"`
	}
	CreateDirectoryResponse struct{}

	CreateFileRequest struct {
		Path    string            `json:"path"`
		Options CreateFileOptions `json:"options"`
	}
	CreateFileResponse struct {
		Info *FileInfo `json:"info"`
	}

	RemoveRequest struct {
		Path    string        `json:"path"`
		Options DeleteOptions `json:"options"`
	}
	RemoveResponse struct{}

	GetStatusRequest struct {
		Path string `json:"path"`
	}
	GetStatusResponse struct {
		Info *FileInfo `json:"info"`
	}

	SetAttributeRequest struct {
		Path    string              `json:"path"`
		Options SetAttributeOptions `json:"options"`
	}
	SetAttributeResponse struct{}

	ListStatusRequest struct {
		Path    string            `json:"path"`
		Options ListStatusOptions `json:"options"`
	}
	ListStatusResponse struct {
		Infos []*FileInfo `json:"infos"`
	}
)
