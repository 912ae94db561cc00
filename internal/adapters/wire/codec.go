// Package wire encodes the binary request, response and admin frames. All
// integers are little-endian; lengths are 64-bit and count a trailing NUL.
package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/kirillkom/nlp-text-server/internal/core/domain"
)

const (
	MaxTextSize     = 65536
	MaxErrorMessage = 256
	MaxClients      = 10

	addressFieldSize = 50
	clientRecordSize = 72

	offsetAddress     = 4
	offsetConnectedAt = 56
	offsetRequests    = 64
)

var byteOrder = binary.LittleEndian

func protocolError(op, format string, args ...any) error {
	return domain.WrapError(domain.ErrProtocol, op, fmt.Errorf(format, args...))
}

// ReadRequest reads one text request. A zero or oversized length is a
// protocol error; the caller drops the connection.
func ReadRequest(r io.Reader) (domain.RequestKind, string, error) {
	const op = "wire.read_request"

	var header struct {
		Kind   int32
		Length uint64
	}
	if err := binary.Read(r, byteOrder, &header); err != nil {
		return 0, "", err
	}
	if header.Length == 0 || header.Length > MaxTextSize {
		return 0, "", protocolError(op, "text length %d out of range", header.Length)
	}

	buf := make([]byte, header.Length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, "", domain.WrapError(domain.ErrProtocol, op, err)
	}
	return domain.RequestKind(header.Kind), cString(buf), nil
}

func WriteRequest(w io.Writer, kind domain.RequestKind, text string) error {
	if len(text)+1 > MaxTextSize {
		return domain.WrapError(domain.ErrInvalidInput, "wire.write_request",
			fmt.Errorf("text of %d bytes exceeds %d", len(text), MaxTextSize-1))
	}
	var buf bytes.Buffer
	writeInt32(&buf, int32(kind))
	writeCString(&buf, text)
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteResponse encodes resp as one write. Empty topic and summary are sent
// with a zero length.
func WriteResponse(w io.Writer, resp domain.Response) error {
	var buf bytes.Buffer
	writeInt32(&buf, int32(resp.Status))
	if resp.Status == domain.StatusOK {
		writeInt32(&buf, int32(resp.WordCount))
		_ = binary.Write(&buf, byteOrder, resp.ProcessingSeconds)
		writeOptionalCString(&buf, resp.Topic)
		writeOptionalCString(&buf, resp.Summary)
	} else {
		writeCString(&buf, truncateUTF8(resp.ErrorMessage, MaxErrorMessage-1))
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func ReadResponse(r io.Reader) (domain.Response, error) {
	const op = "wire.read_response"

	var status int32
	if err := binary.Read(r, byteOrder, &status); err != nil {
		return domain.Response{}, err
	}
	resp := domain.Response{Status: domain.Status(status)}
	switch resp.Status {
	case domain.StatusOK:
		var fixed struct {
			WordCount int32
			Seconds   float64
		}
		if err := binary.Read(r, byteOrder, &fixed); err != nil {
			return domain.Response{}, domain.WrapError(domain.ErrProtocol, op, err)
		}
		resp.WordCount = int(fixed.WordCount)
		resp.ProcessingSeconds = fixed.Seconds
		var err error
		if resp.Topic, err = readCString(r, MaxTextSize); err != nil {
			return domain.Response{}, domain.WrapError(domain.ErrProtocol, op, err)
		}
		if resp.Summary, err = readCString(r, MaxTextSize); err != nil {
			return domain.Response{}, domain.WrapError(domain.ErrProtocol, op, err)
		}
	case domain.StatusError:
		msg, err := readCString(r, MaxErrorMessage)
		if err != nil {
			return domain.Response{}, domain.WrapError(domain.ErrProtocol, op, err)
		}
		resp.ErrorMessage = msg
	default:
		return domain.Response{}, protocolError(op, "unknown status %d", status)
	}
	return resp, nil
}

func ReadAdminRequest(r io.Reader) (domain.AdminCommand, error) {
	var cmd int32
	if err := binary.Read(r, byteOrder, &cmd); err != nil {
		return 0, err
	}
	return domain.AdminCommand(cmd), nil
}

func WriteAdminRequest(w io.Writer, cmd domain.AdminCommand) error {
	return binary.Write(w, byteOrder, int32(cmd))
}

// WriteAdminResponse encodes at most MaxClients client records.
func WriteAdminResponse(w io.Writer, resp domain.AdminResponse) error {
	var buf bytes.Buffer
	writeInt32(&buf, int32(resp.Status))
	if resp.Status == domain.StatusOK {
		clients := resp.Clients
		if len(clients) > MaxClients {
			clients = clients[:MaxClients]
		}
		writeInt32(&buf, int32(len(clients)))
		writeInt32(&buf, int32(resp.QueueSize))
		writeInt32(&buf, int32(resp.QueueCapacity))
		for _, c := range clients {
			buf.Write(encodeClientRecord(c))
		}
	} else {
		writeCString(&buf, truncateUTF8(resp.ErrorMessage, MaxErrorMessage-1))
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func ReadAdminResponse(r io.Reader) (domain.AdminResponse, error) {
	const op = "wire.read_admin_response"

	var status int32
	if err := binary.Read(r, byteOrder, &status); err != nil {
		return domain.AdminResponse{}, err
	}
	resp := domain.AdminResponse{Status: domain.Status(status)}
	switch resp.Status {
	case domain.StatusOK:
		var counts struct {
			Clients  int32
			Size     int32
			Capacity int32
		}
		if err := binary.Read(r, byteOrder, &counts); err != nil {
			return domain.AdminResponse{}, domain.WrapError(domain.ErrProtocol, op, err)
		}
		if counts.Clients < 0 || counts.Clients > MaxClients {
			return domain.AdminResponse{}, protocolError(op, "client count %d out of range", counts.Clients)
		}
		resp.QueueSize = int(counts.Size)
		resp.QueueCapacity = int(counts.Capacity)
		record := make([]byte, clientRecordSize)
		for i := int32(0); i < counts.Clients; i++ {
			if _, err := io.ReadFull(r, record); err != nil {
				return domain.AdminResponse{}, domain.WrapError(domain.ErrProtocol, op, err)
			}
			resp.Clients = append(resp.Clients, decodeClientRecord(record))
		}
	case domain.StatusError:
		msg, err := readCString(r, MaxErrorMessage)
		if err != nil {
			return domain.AdminResponse{}, domain.WrapError(domain.ErrProtocol, op, err)
		}
		resp.ErrorMessage = msg
	default:
		return domain.AdminResponse{}, protocolError(op, "unknown status %d", status)
	}
	return resp, nil
}

// encodeClientRecord lays out {int32 id; char address[50]; int64 time; int32
// requests} with the padding of the C struct the admin tool was built against.
func encodeClientRecord(c domain.ClientRecord) []byte {
	out := make([]byte, clientRecordSize)
	byteOrder.PutUint32(out[0:], uint32(c.ID))
	copy(out[offsetAddress:offsetAddress+addressFieldSize-1], truncateUTF8(c.Address, addressFieldSize-1))
	var connected int64
	if !c.ConnectedAt.IsZero() {
		connected = c.ConnectedAt.Unix()
	}
	byteOrder.PutUint64(out[offsetConnectedAt:], uint64(connected))
	byteOrder.PutUint32(out[offsetRequests:], uint32(int32(c.RequestCount)))
	return out
}

func decodeClientRecord(b []byte) domain.ClientRecord {
	rec := domain.ClientRecord{
		ID:           int32(byteOrder.Uint32(b[0:])),
		Address:      cString(b[offsetAddress : offsetAddress+addressFieldSize]),
		RequestCount: int(int32(byteOrder.Uint32(b[offsetRequests:]))),
	}
	if ts := int64(byteOrder.Uint64(b[offsetConnectedAt:])); ts != 0 {
		rec.ConnectedAt = time.Unix(ts, 0)
	}
	return rec
}

func writeInt32(buf *bytes.Buffer, v int32) {
	var b [4]byte
	byteOrder.PutUint32(b[:], uint32(v))
	buf.Write(b[:])
}

func writeLength(buf *bytes.Buffer, n int) {
	var b [8]byte
	byteOrder.PutUint64(b[:], uint64(n))
	buf.Write(b[:])
}

func writeCString(buf *bytes.Buffer, s string) {
	writeLength(buf, len(s)+1)
	buf.WriteString(s)
	buf.WriteByte(0)
}

func writeOptionalCString(buf *bytes.Buffer, s string) {
	if s == "" {
		writeLength(buf, 0)
		return
	}
	writeCString(buf, s)
}

func readCString(r io.Reader, limit uint64) (string, error) {
	var n uint64
	if err := binary.Read(r, byteOrder, &n); err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	if n > limit {
		return "", fmt.Errorf("field length %d exceeds %d", n, limit)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return cString(buf), nil
}

// cString returns b up to its first NUL.
func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
