// remoteStore forwards Store operations to a peer FDB server over a
// plain net.Conn, framing each request/response pair as a length-prefixed
// JSON message. There's no protoc toolchain available to generate a real
// gRPC client in this environment, so the wire contract is hand-framed
// JSON instead — the op/request/response shape mirrors what a generated
// client would look like closely enough to swap in later without
// disturbing callers of the Store interface.
package fdb

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"time"

	json "github.com/goccy/go-json"
)

type remoteStore struct {
	addr string
}

// NewRemoteStore returns a Store that proxies to a peer at addr.
func NewRemoteStore(addr string) Store {
	return &remoteStore{addr: addr}
}

func (s *remoteStore) Kind() LocationKind { return LocationRemote }

type remoteRequest struct {
	Op       string        `json:"op"`
	DBKey    Key           `json:"db_key,omitempty"`
	FieldKey Key           `json:"field_key,omitempty"`
	Loc      FieldLocation `json:"loc,omitempty"`
	Data     []byte        `json:"data,omitempty"`
}

type remoteResponse struct {
	OK   bool          `json:"ok"`
	Loc  FieldLocation `json:"loc,omitempty"`
	Data []byte        `json:"data,omitempty"`
	Err  string        `json:"err,omitempty"`
}

func (s *remoteStore) call(ctx context.Context, req remoteRequest) (remoteResponse, error) {
	d := net.Dialer{Timeout: 5 * time.Second}
	conn, err := d.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return remoteResponse{}, ioErr("remoteStore.call", err)
	}
	defer conn.Close()

	if dl, ok := ctx.Deadline(); ok {
		conn.SetDeadline(dl)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return remoteResponse{}, err
	}
	var sizeBuf [4]byte
	binary.BigEndian.PutUint32(sizeBuf[:], uint32(len(body)))
	if _, err := conn.Write(sizeBuf[:]); err != nil {
		return remoteResponse{}, ioErr("remoteStore.call", err)
	}
	if _, err := conn.Write(body); err != nil {
		return remoteResponse{}, ioErr("remoteStore.call", err)
	}

	if _, err := conn.Read(sizeBuf[:]); err != nil {
		return remoteResponse{}, ioErr("remoteStore.call", err)
	}
	respLen := binary.BigEndian.Uint32(sizeBuf[:])
	respBuf := make([]byte, respLen)
	if _, err := readFull(conn, respBuf); err != nil {
		return remoteResponse{}, ioErr("remoteStore.call", err)
	}

	var resp remoteResponse
	if err := json.Unmarshal(respBuf, &resp); err != nil {
		return remoteResponse{}, err
	}
	if !resp.OK {
		return resp, fmt.Errorf("remoteStore: %s", resp.Err)
	}
	return resp, nil
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (s *remoteStore) Put(ctx context.Context, dbKey, fieldKey Key, data []byte) (FieldLocation, error) {
	resp, err := s.call(ctx, remoteRequest{Op: "put", DBKey: dbKey, FieldKey: fieldKey, Data: data})
	if err != nil {
		return FieldLocation{}, err
	}
	return resp.Loc, nil
}

func (s *remoteStore) Get(ctx context.Context, loc FieldLocation) ([]byte, error) {
	resp, err := s.call(ctx, remoteRequest{Op: "get", Loc: loc})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (s *remoteStore) Delete(ctx context.Context, loc FieldLocation) error {
	_, err := s.call(ctx, remoteRequest{Op: "delete", Loc: loc})
	return err
}

func (s *remoteStore) Exists(ctx context.Context, loc FieldLocation) (bool, error) {
	resp, err := s.call(ctx, remoteRequest{Op: "exists", Loc: loc})
	if err != nil {
		return false, err
	}
	return resp.OK, nil
}
