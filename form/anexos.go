package form

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/LRM-Solutions/fortelyne-app-checklist/model"
)

// AnexoKind classifies the two supported attachment representations.
type AnexoKind int

const (
	// AnexoRemote is an http(s) URL of an already uploaded file.
	AnexoRemote AnexoKind = iota
	// AnexoInline is a base64 data URI captured on the device.
	AnexoInline
)

// KindOf classifies an attachment reference, validating it in the
// process: remote references need a well-formed http(s) URL with a
// host, inline references need a base64 data URI whose payload decodes.
func KindOf(a model.Anexo) (AnexoKind, error) {
	s := string(a)

	if strings.HasPrefix(s, "data:") {
		meta, payload, ok := strings.Cut(s[len("data:"):], ",")
		if !ok || !strings.HasSuffix(meta, ";base64") {
			return 0, fmt.Errorf("anexo: malformed data URI")
		}
		if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
			return 0, fmt.Errorf("anexo: invalid base64 payload: %w", err)
		}
		return AnexoInline, nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("anexo: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return 0, fmt.Errorf("anexo: unsupported reference %q", truncate(s, 40))
	}
	return AnexoRemote, nil
}

// NormalizeAnexos validates a question's attachment list, returning the
// references unchanged on success. It rejects anything that is neither
// a remote URL nor an inline data URI, so malformed references are
// caught before the submission payload is built.
func NormalizeAnexos(raw []model.Anexo) ([]model.Anexo, error) {
	for i, a := range raw {
		if _, err := KindOf(a); err != nil {
			return nil, fmt.Errorf("anexo %d: %w", i, err)
		}
	}
	return raw, nil
}

// InlineAnexo encodes captured binary data as a data URI, the
// representation used for camera and gallery captures.
func InlineAnexo(mimeType string, data []byte) model.Anexo {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return model.Anexo("data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
