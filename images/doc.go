// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package images stores candidate images on the local filesystem. Images
// must sniff as PNG, JPEG, GIF, WebP or BMP and be at most 5 MiB.
package images
