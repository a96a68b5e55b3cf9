// Copyright 2023 The Cuber Authors.
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

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cubefs/cubefs/blobstore/util/log"
	"github.com/stretchr/testify/require"
)

func TestGenTmpPath(t *testing.T) {
	path, err := GenTmpPath()
	require.NoError(t, err)
	require.NotEqual(t, "", path)
	defer os.RemoveAll(path)

	st, err := os.Stat(path)
	require.NoError(t, err)
	require.True(t, st.IsDir())
}

func TestStringsToBytes(t *testing.T) {
	str := "test"
	b := StringsToBytes(str)
	require.Equal(t, str, string(b))
	require.Equal(t, 0, len(StringsToBytes("")))
}

func TestBytesToString(t *testing.T) {
	b := []byte("test")
	str := BytesToString(b)
	require.Equal(t, str, string(b))
	require.Equal(t, "", BytesToString(nil))
}

func TestSetupLogOutput(t *testing.T) {
	require.NoError(t, SetupLogOutput(LogFileConfig{}).Close())

	path, err := GenTmpPath()
	require.NoError(t, err)
	defer os.RemoveAll(path)

	filename := filepath.Join(path, "metabench.log")
	closer := SetupLogOutput(LogFileConfig{Filename: filename, MaxSizeMB: 1, NoTerminal: true})
	log.Warn("log file rotation test")
	require.NoError(t, closer.Close())
	log.SetOutput(os.Stderr)

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	require.Contains(t, string(data), "log file rotation test")
}
