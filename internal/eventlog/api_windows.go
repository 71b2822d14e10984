//go:build windows

package eventlog

import (
	"fmt"
	"strings"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

// windowsAPI reads the Application event log through advapi32. Entries are
// read newest-first so a query can stop at the since cutoff instead of
// walking the whole log.
type windowsAPI struct{}

// NewPlatformAPI returns the Windows event log reader.
func NewPlatformAPI() API {
	return &windowsAPI{}
}

var (
	advapi32          = windows.NewLazySystemDLL("advapi32.dll")
	procOpenEventLog  = advapi32.NewProc("OpenEventLogW")
	procCloseEventLog = advapi32.NewProc("CloseEventLog")
	procReadEventLog  = advapi32.NewProc("ReadEventLogW")
)

const (
	evtSequentialRead = 0x0001
	evtBackwardsRead  = 0x0008

	evtErrorType   = 0x0001
	evtWarningType = 0x0002

	readBufferSize = 64 * 1024
)

// eventLogRecord mirrors the fixed-size head of the Win32 EVENTLOGRECORD
// structure. Variable-length data (source name, insert strings) follows it
// inside the same buffer.
type eventLogRecord struct {
	Length              uint32
	Reserved            uint32
	RecordNumber        uint32
	TimeGenerated       uint32
	TimeWritten         uint32
	EventID             uint32
	EventType           uint16
	NumStrings          uint16
	EventCategory       uint16
	ReservedFlags       uint16
	ClosingRecordNumber uint32
	StringOffset        uint32
	UserSidLength       uint32
	UserSidOffset       uint32
	DataLength          uint32
	DataOffset          uint32
}

func (w *windowsAPI) Query(since time.Time) ([]Entry, error) {
	name, err := windows.UTF16PtrFromString("Application")
	if err != nil {
		return nil, fmt.Errorf("encoding log name: %w", err)
	}

	handle, _, callErr := procOpenEventLog.Call(0, uintptr(unsafe.Pointer(name)))
	if handle == 0 {
		return nil, fmt.Errorf("opening Application event log: %w", callErr)
	}
	defer procCloseEventLog.Call(handle)

	buf := make([]byte, readBufferSize)
	var entries []Entry

	for {
		var read, needed uint32
		ret, _, callErr := procReadEventLog.Call(
			handle,
			evtBackwardsRead|evtSequentialRead,
			0,
			uintptr(unsafe.Pointer(&buf[0])),
			uintptr(len(buf)),
			uintptr(unsafe.Pointer(&read)),
			uintptr(unsafe.Pointer(&needed)),
		)
		if ret == 0 {
			errno, ok := callErr.(windows.Errno)
			switch {
			case ok && errno == windows.ERROR_HANDLE_EOF:
				return entries, nil
			case ok && errno == windows.ERROR_INSUFFICIENT_BUFFER:
				buf = make([]byte, needed)
				continue
			default:
				return entries, fmt.Errorf("reading event log: %w", callErr)
			}
		}

		headSize := uint32(unsafe.Sizeof(eventLogRecord{}))
		for off := uint32(0); off+headSize <= read; {
			rec := (*eventLogRecord)(unsafe.Pointer(&buf[off]))
			if rec.Length < headSize || off+rec.Length > read {
				break
			}
			ts := time.Unix(int64(rec.TimeGenerated), 0)
			if !ts.After(since) {
				// Reading backwards: everything further is older.
				return entries, nil
			}
			raw := buf[off : off+rec.Length]
			entries = append(entries, Entry{
				TimeGenerated: ts,
				// The low word is the event identifier; the high word
				// carries severity and facility bits.
				EventID:     rec.EventID & 0xFFFF,
				Source:      decodeSourceName(raw, headSize),
				Category:    rec.EventCategory,
				Severity:    severityFromType(rec.EventType),
				Description: decodeInsertStrings(raw, rec),
			})
			off += rec.Length
		}
	}
}

func severityFromType(eventType uint16) Severity {
	switch eventType {
	case evtErrorType:
		return SeverityError
	case evtWarningType:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// decodeSourceName reads the NUL-terminated UTF-16 source name that
// immediately follows the fixed record head.
func decodeSourceName(raw []byte, headSize uint32) string {
	return decodeUTF16Z(raw[headSize:])
}

// decodeInsertStrings joins the record's insert strings with a space,
// mirroring how the viewer renders event descriptions.
func decodeInsertStrings(raw []byte, rec *eventLogRecord) string {
	if rec.NumStrings == 0 || rec.StringOffset >= rec.Length {
		return "No description"
	}
	var parts []string
	off := rec.StringOffset
	for i := uint16(0); i < rec.NumStrings && off < rec.Length; i++ {
		s := decodeUTF16Z(raw[off:])
		parts = append(parts, s)
		off += uint32(len(windows.StringToUTF16(s))) * 2
	}
	if len(parts) == 0 {
		return "No description"
	}
	return strings.Join(parts, " ")
}

// decodeUTF16Z decodes a NUL-terminated little-endian UTF-16 string.
func decodeUTF16Z(raw []byte) string {
	u16 := make([]uint16, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		c := uint16(raw[i]) | uint16(raw[i+1])<<8
		if c == 0 {
			break
		}
		u16 = append(u16, c)
	}
	return windows.UTF16ToString(u16)
}
