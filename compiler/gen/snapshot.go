package gen

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotVersion is bumped when the snapshot format or the generated
// output format changes. A mismatch forces a full regeneration, so binary
// upgrades never leave stale typings behind.
const SnapshotVersion = 1

// Snapshot records what was true when generation last ran successfully:
// the digest of every schema description that fed the run and the digest
// of the file it produced. It is deliberately conservative: if any check
// fails, the whole unit regenerates. There are no partial-invalidation
// shortcuts, because a referenced entity can affect the output of every
// entity that names it.
type Snapshot struct {
	V          int               `msgpack:"v"`
	ConfigHash string            `msgpack:"config_hash"`
	Inputs     map[string]string `msgpack:"inputs"`
	OutputHash string            `msgpack:"output_hash"`
}

// SnapshotPath returns the snapshot file path for a generation target. The
// snapshot lives next to the target, so deleting the output directory also
// removes it and guarantees a fresh run.
func SnapshotPath(target string) string {
	return filepath.Join(filepath.Dir(target), ".mongotype-cache")
}

// NewSnapshot builds the snapshot for a completed run.
func NewSnapshot(configHash string, inputs map[string]string, outputHash string) *Snapshot {
	return &Snapshot{
		V:          SnapshotVersion,
		ConfigHash: configHash,
		Inputs:     inputs,
		OutputHash: outputHash,
	}
}

// LoadSnapshot reads a snapshot from disk. A missing, unreadable or
// undecodable file is a cache miss and returns nil; callers regenerate.
func LoadSnapshot(path string) *Snapshot {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var s Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil
	}
	return &s
}

// Save writes the snapshot to disk, through a temp file and rename. A
// failed save only means the next run regenerates.
func (s *Snapshot) Save(path string) error {
	data, err := msgpack.Marshal(s)
	if err != nil {
		return NewGenerationError("snapshot", path, "encode snapshot", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return NewGenerationError("snapshot", path, "create snapshot directory", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return NewGenerationError("snapshot", path, "write snapshot temp file", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return NewGenerationError("snapshot", path, "rename snapshot file", err)
	}
	return nil
}

// UpToDate reports whether a run can be skipped: the snapshot version,
// configuration digest, every input digest and the target's current digest
// must all match.
func (s *Snapshot) UpToDate(configHash string, inputs map[string]string, target string) bool {
	if s == nil || s.V != SnapshotVersion || s.ConfigHash != configHash {
		return false
	}
	if len(inputs) != len(s.Inputs) {
		return false
	}
	for path, hash := range inputs {
		if s.Inputs[path] != hash {
			return false
		}
	}
	return s.OutputHash != "" && s.OutputHash == HashFile(target)
}

// HashFile computes the SHA-256 hex digest of a file's contents. A missing
// or unreadable file hashes to the empty string.
func HashFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return HashBytes(data)
}

// HashBytes computes the SHA-256 hex digest of a byte slice.
func HashBytes(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
