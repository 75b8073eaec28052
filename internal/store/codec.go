package store

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/kanastudy/kanaprog/internal/domain"
)

// encode serializes an aggregate to the slot wire form:
// JSON -> gzip -> base64.
func encode(p *domain.Progress) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to marshal progress: %w", err)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return "", fmt.Errorf("failed to compress progress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to finish compression: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// decode is the inverse of encode. Any failure along the
// base64/gzip/JSON chain is reported as a decode error; a payload that
// parses but fails aggregate validation is treated the same way, so
// corrupt-but-parseable data also triggers backup recovery.
func decode(payload string) (*domain.Progress, error) {
	compressed, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, decodeErr(err)
	}

	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, decodeErr(err)
	}
	raw, err := io.ReadAll(zr)
	if cerr := zr.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, decodeErr(err)
	}

	var p domain.Progress
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, decodeErr(err)
	}
	if err := p.Validate(); err != nil {
		return nil, decodeErr(err)
	}

	return &p, nil
}
