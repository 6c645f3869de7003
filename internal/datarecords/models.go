/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package datarecords is the S3 client for the records object store.
package datarecords

import (
	"io"
	"time"
)

// Object describes a stored object in a listing.
type Object struct {
	Name         string
	Size         int64
	ETag         string
	LastModified time.Time
}

// Meta describes a stored object's metadata.
type Meta struct {
	ContentType  string
	Size         int64
	ETag         string
	LastModified time.Time
}

// Download carries an object's metadata together with its content stream.
// The caller owns Body and must close it.
type Download struct {
	Meta
	Body io.ReadCloser
}
