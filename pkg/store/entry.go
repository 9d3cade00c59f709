package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	types "github.com/mutablelogic/go-server/pkg/types"
)

// timeLayout is the catalog's timestamp format: dd.MM.yyyy HH:mm.
const timeLayout = "02.01.2006 15:04"

// Entry is one catalog record describing a stored file.
type Entry struct {
	ID          int64  `json:"fileId"`
	Name        string `json:"fileName"`
	Type        string `json:"fileType"`
	Size        string `json:"fileSize"`
	TimeCreated string `json:"timeCreated"`
	TimeUpdated string `json:"timeUpdated"`

	// rawBytes is the exact byte count behind Size, kept unexported (and so
	// out of the metadata file's JSON shape) purely so TotalSize can sum
	// the catalog without reparsing Size strings.
	rawBytes int64
}

// TypeTag derives the catalog's "<EXT>" / "<NULL>" type tag from a file
// name: the uppercased extension without its leading dot, or "<NULL>" when
// the name has no extension.
func TypeTag(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 || idx == len(name)-1 {
		return "<NULL>"
	}
	return "<" + strings.ToUpper(name[idx+1:]) + ">"
}

// sizeString renders the catalog's "<kb> kb (<bytes> bytes)" size field.
// The exact literal format is spec-mandated, so it is built with plain
// arithmetic rather than humanize.Bytes, which rounds to the nearest unit
// and abbreviates ("3.0 kB") instead of emitting a fixed kb/bytes pair.
func sizeString(n int64) string {
	return fmt.Sprintf("%d kb (%s bytes)", n/1024, strconv.FormatInt(n, 10))
}

// parseSizeBytes recovers the raw byte count from a rendered Size string,
// used when reloading a catalog whose rawBytes field was never persisted.
func parseSizeBytes(size string) int64 {
	openIdx, closeIdx := strings.IndexByte(size, '('), strings.IndexByte(size, ')')
	if openIdx < 0 || closeIdx < 0 || closeIdx <= openIdx {
		return 0
	}
	fields := strings.Fields(size[openIdx+1 : closeIdx])
	if len(fields) == 0 {
		return 0
	}
	n, _ := strconv.ParseInt(fields[0], 10, 64)
	return n
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

// String renders the entry for logging by deferring to types.Stringify, the
// same way the go-filer schema types implement their String() methods.
func (e *Entry) String() string {
	return types.Stringify(e)
}

func newEntry(id int64, name string, size int64, now time.Time) *Entry {
	ts := formatTime(now)
	return &Entry{
		ID:          id,
		Name:        name,
		Type:        TypeTag(name),
		Size:        sizeString(size),
		TimeCreated: ts,
		TimeUpdated: ts,
		rawBytes:    size,
	}
}
